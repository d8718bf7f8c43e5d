package server

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/SvenDH/go-card-prototype/loader"
)

// progressInterval limits how often progress is published.
const progressInterval = 100 * time.Millisecond

// Progress is published while a load runs.
type Progress struct {
	Sequence string  `json:"sequence"`
	Raw      float64 `json:"raw"`
	Display  float64 `json:"display"`
}

type record struct {
	event    *LoadEvent
	progress *Progress
}

// Recorder persists loader events and publishes them on the broker. Events
// are handed over from the game tick through a buffered channel, so a slow
// database never stalls the tick.
type Recorder struct {
	Logger *log.Logger

	repo    *Repository
	broker  Broker
	records chan record

	mu           sync.Mutex
	sequence     string
	lastProgress time.Time
	now          func() time.Time
}

// NewRecorder returns a recorder; repo or broker may be nil to skip
// persisting or publishing.
func NewRecorder(repo *Repository, broker Broker) *Recorder {
	return &Recorder{
		Logger:  log.Default(),
		repo:    repo,
		broker:  broker,
		records: make(chan record, 256),
		now:     time.Now,
	}
}

// Attach subscribes the recorder to every status on bus.
func (rec *Recorder) Attach(bus *loader.Bus) {
	bus.On(loader.AllStatuses, rec.handleEvent)
}

func (rec *Recorder) handleEvent(e *loader.Event) {
	le := &LoadEvent{
		Sequence: e.Sequence.String(),
		Status:   e.Status.String(),
		Phase:    e.Phase.String(),
		Scene:    e.Scene,
		Elapsed:  e.Elapsed.Seconds(),
		At:       rec.now().UTC(),
	}
	if !e.Origin.IsZero() {
		le.Origin = e.Origin.Name
	}
	rec.mu.Lock()
	rec.sequence = le.Sequence
	rec.mu.Unlock()
	rec.push(record{event: le})
}

// Progress reports the current progress of the running sequence. Calls
// closer together than progressInterval are dropped, except completion.
func (rec *Recorder) Progress(raw, display float64) {
	rec.mu.Lock()
	now := rec.now()
	if display < 1 && now.Sub(rec.lastProgress) < progressInterval {
		rec.mu.Unlock()
		return
	}
	rec.lastProgress = now
	seq := rec.sequence
	rec.mu.Unlock()
	rec.push(record{progress: &Progress{Sequence: seq, Raw: raw, Display: display}})
}

func (rec *Recorder) push(r record) {
	select {
	case rec.records <- r:
	default:
		rec.Logger.Printf("recorder: queue full, dropping record")
	}
}

// Run stores and publishes records until ctx is done. Records still queued
// then are stored but not published.
func (rec *Recorder) Run(ctx context.Context) {
	for {
		select {
		case r := <-rec.records:
			rec.handle(ctx, r)
		case <-ctx.Done():
			for {
				select {
				case r := <-rec.records:
					if r.event != nil {
						rec.store(r.event)
					}
				default:
					return
				}
			}
		}
	}
}

func (rec *Recorder) handle(ctx context.Context, r record) {
	if r.event != nil {
		rec.store(r.event)
		rec.publish(ctx, Message{Type: LoadEventAction, Data: r.event})
	}
	if r.progress != nil {
		rec.publish(ctx, Message{Type: LoadProgressAction, Data: r.progress})
	}
}

func (rec *Recorder) store(e *LoadEvent) {
	if rec.repo == nil {
		return
	}
	var err error
	if e.Status == loader.StatusLoadStarted.String() {
		err = rec.repo.BeginSequence(e.Sequence, e.Scene, e.At)
	}
	if err == nil {
		err = rec.repo.RecordEvent(e)
	}
	if err == nil && e.Status == loader.StatusUnloadSceneLoader.String() {
		err = rec.repo.FinishSequence(e.Sequence, e.At)
	}
	if err != nil {
		rec.Logger.Printf("recorder: %v", err)
	}
}

func (rec *Recorder) publish(ctx context.Context, m Message) {
	if rec.broker == nil {
		return
	}
	if err := rec.broker.Publish(ctx, LoadsTopic, m.encode()); err != nil {
		rec.Logger.Printf("recorder: publish: %v", err)
	}
}

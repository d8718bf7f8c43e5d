// Package game ties the scene host, the loader and the fader together and
// drives them from a single tick. It has no rendering so it can run
// headless.
package game

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/SvenDH/go-card-prototype/config"
	"github.com/SvenDH/go-card-prototype/fade"
	"github.com/SvenDH/go-card-prototype/loader"
	"github.com/SvenDH/go-card-prototype/scene"
)

// ErrNoAnswer is returned by RequestLoad when the tick does not pick the
// request up in time.
var ErrNoAnswer = errors.New("game: the game loop did not answer")

const requestTimeout = 2 * time.Second

type Session struct {
	Host   *scene.Host
	Loader *loader.Manager
	Fader  *fade.Fader
	Logger *log.Logger
	// OnProgress is called every tick while a load runs.
	OnProgress func(raw, display float64)

	cfg    *config.Config
	status loader.Status
	raw    float64
	disp   float64

	mu    sync.Mutex
	queue []func()
}

func NewSession(cfg *config.Config) (*Session, error) {
	manifest, err := cfg.Manifest()
	if err != nil {
		return nil, fmt.Errorf("game: %w", err)
	}
	s := &Session{
		Host:   scene.NewHost(manifest),
		Fader:  fade.New(),
		Logger: log.Default(),
		cfg:    cfg,
	}
	s.Loader = loader.NewManager(s.Host, s.Fader, nil)
	s.Loader.OnRealtimeProgress = func(p float64) { s.raw = p }
	s.Loader.OnInterpolatedProgress = func(p float64) {
		s.disp = p
		if s.OnProgress != nil {
			s.OnProgress(s.raw, p)
		}
	}
	s.Loader.Bus().On(loader.AllStatuses, func(e *loader.Event) { s.status = e.Status })
	return s, nil
}

func (s *Session) Config() *config.Config { return s.cfg }

// Start opens the first scene synchronously.
func (s *Session) Start(first string) error {
	_, err := s.Host.Open(first)
	return err
}

// Load requests a load to destination with the configured settings. It must
// be called from the tick; other goroutines use RequestLoad.
func (s *Session) Load(destination string) error {
	return s.Loader.Request(s.cfg.Request(destination))
}

// Tick runs queued commands and advances host, loader and fader by dt.
func (s *Session) Tick(dt time.Duration) {
	s.mu.Lock()
	queue := s.queue
	s.queue = nil
	s.mu.Unlock()
	for _, f := range queue {
		f()
	}
	s.Host.Update(dt)
	s.Loader.Update(dt)
	s.Fader.Update(dt)
}

// Enqueue runs f on the next tick.
func (s *Session) Enqueue(f func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = append(s.queue, f)
}

// Apply swaps in cfg on the next tick. The scene manifest is not reloaded;
// only settings used by later requests change.
func (s *Session) Apply(cfg *config.Config) {
	s.Enqueue(func() {
		s.cfg = cfg
		s.Logger.Printf("game: configuration reloaded")
	})
}

func (s *Session) SetHold(point loader.HoldPoint, on bool) { s.Loader.SetHold(point, on) }

func (s *Session) ClearHolds() { s.Loader.ClearHolds() }

// RequestLoad queues a load request on the tick and waits for its result.
func (s *Session) RequestLoad(destination string) error {
	errc := make(chan error, 1)
	s.Enqueue(func() { errc <- s.Load(destination) })
	select {
	case err := <-errc:
		return err
	case <-time.After(requestTimeout):
		return ErrNoAnswer
	}
}

// Status returns the last lifecycle notification of the current or last
// load.
func (s *Session) Status() loader.Status { return s.status }

func (s *Session) Progress() (raw, display float64) { return s.raw, s.disp }

package loader

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/SvenDH/go-card-prototype/scene"
	"github.com/SvenDH/go-card-prototype/tween"
)

var (
	ErrAlreadyInProgress = errors.New("loader: a scene load is already in progress")
	ErrInvalidSceneName  = errors.New("loader: invalid scene name")
)

// Host is the part of the scene host the sequencer drives.
type Host interface {
	ActiveScene() scene.Ref
	LoadedScenes() []scene.Ref
	IsLoaded(ref scene.Ref) bool
	LoadAsync(name string, allowActivation bool) (*scene.Operation, error)
	UnloadAsync(ref scene.Ref) (*scene.Operation, error)
	SetActive(name string) bool
}

// Fader plays a screen fade. FadeIn covers the screen, FadeOut reveals it.
type Fader interface {
	FadeIn(d time.Duration, curve tween.Easing)
	FadeOut(d time.Duration, curve tween.Easing)
}

// Manifest answers whether a scene is part of the build.
type Manifest interface {
	Contains(name string) bool
}

// Manager admits one load request at a time and runs its sequence. It
// replaces the process-wide state of a classic singleton loader: the slot,
// the hold gates and the progress callbacks all live here.
type Manager struct {
	Manifest Manifest
	Logger   *log.Logger
	// OnRealtimeProgress and OnInterpolatedProgress are called every tick
	// while a sequence is running.
	OnRealtimeProgress     func(float64)
	OnInterpolatedProgress func(float64)

	host  Host
	fader Fader
	bus   *Bus

	mu      sync.Mutex
	busy    bool
	pending *Request
	seq     *Sequencer
	holds   map[HoldPoint]bool
}

func NewManager(host Host, fader Fader, bus *Bus) *Manager {
	if bus == nil {
		bus = NewBus()
	}
	m := &Manager{
		Logger: log.Default(),
		host:   host,
		fader:  fader,
		bus:    bus,
		holds:  map[HoldPoint]bool{},
	}
	if mh, ok := host.(interface{ Manifest() *scene.Manifest }); ok {
		m.Manifest = mh.Manifest()
	}
	for _, h := range HoldPoints {
		m.holds[h] = false
	}
	return m
}

func (m *Manager) Bus() *Bus { return m.bus }

// Request validates req, snapshots the scenes to unload and starts loading
// the loading screen. The sequence itself starts once that scene is in.
func (m *Manager) Request(req Request) error {
	m.mu.Lock()
	if m.busy {
		m.mu.Unlock()
		m.Logger.Printf("loader: a request to load %q was emitted while a scene load was already in progress", req.Destination)
		return ErrAlreadyInProgress
	}
	req.normalize()
	if err := m.validate(&req); err != nil {
		m.mu.Unlock()
		m.Logger.Printf("%v", err)
		return err
	}
	op, err := m.host.LoadAsync(req.LoadingScreen, true)
	if err != nil {
		m.mu.Unlock()
		err = fmt.Errorf("%w: loading screen %q: %v", ErrInvalidSceneName, req.LoadingScreen, err)
		m.Logger.Printf("%v", err)
		return err
	}
	req.Origins = m.originScenes(req.Unload)
	req.ID = ulid.Make()
	for h := range m.holds {
		m.holds[h] = false
	}
	m.busy = true
	m.pending = &req
	m.mu.Unlock()

	if req.Debug {
		for _, ref := range req.Origins {
			m.Logger.Printf("loader: initial scene %s", ref)
		}
	}
	id := req.ID
	op.OnComplete(func(op *scene.Operation) { m.start(id, op.Scene()) })
	return nil
}

func (m *Manager) validate(req *Request) error {
	if req.Destination == "" {
		return fmt.Errorf("%w: empty destination scene", ErrInvalidSceneName)
	}
	if req.LoadingScreen == "" {
		return fmt.Errorf("%w: empty loading screen scene", ErrInvalidSceneName)
	}
	if !req.Validate {
		return nil
	}
	for _, name := range []string{req.Destination, req.LoadingScreen} {
		if m.Manifest == nil || !m.Manifest.Contains(name) {
			return fmt.Errorf("%w: impossible to load the %q scene, there is no such scene in the build manifest", ErrInvalidSceneName, name)
		}
	}
	return nil
}

func (m *Manager) originScenes(policy UnloadPolicy) []scene.Ref {
	switch policy {
	case UnloadNone:
		return []scene.Ref{}
	case UnloadActiveScene:
		return []scene.Ref{m.host.ActiveScene()}
	default:
		return m.host.LoadedScenes()
	}
}

func (m *Manager) start(id ulid.ULID, loadingScreen scene.Ref) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pending == nil || m.pending.ID != id {
		m.Logger.Printf("loader: loading screen %s came up for a request that no longer exists", loadingScreen)
		return
	}
	m.seq = newSequencer(m, *m.pending, loadingScreen)
}

// Update runs one scheduler tick: the progress task and then the phase task.
func (m *Manager) Update(dt time.Duration) {
	m.mu.Lock()
	seq := m.seq
	m.mu.Unlock()
	if seq == nil {
		return
	}
	if seq.phase < PhaseUnloadSequencer && !m.host.IsLoaded(seq.loadingScreen) {
		m.Logger.Printf("loader: loading screen %s was destroyed mid-sequence, aborting", seq.loadingScreen)
		m.Abort()
		return
	}
	seq.Tick(dt)
}

// Abort destroys the running sequence and frees the slot. Scenes already
// loaded or unloaded are left as they are.
func (m *Manager) Abort() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.busy {
		return
	}
	if m.seq != nil {
		m.seq.phase = PhaseDone
		m.seq.done = true
	}
	m.busy = false
	m.pending = nil
	m.seq = nil
}

// Reset returns the manager to its initial state, as after a fresh start.
func (m *Manager) Reset() {
	m.Abort()
	m.ClearHolds()
}

func (m *Manager) release(s *Sequencer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.seq != s {
		return
	}
	m.busy = false
	m.pending = nil
	m.seq = nil
}

// SetHold opens or closes a hold gate. Unknown points are ignored.
func (m *Manager) SetHold(point HoldPoint, on bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.holds[point]; ok {
		m.holds[point] = on
	}
}

func (m *Manager) ClearHolds() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for h := range m.holds {
		m.holds[h] = false
	}
}

func (m *Manager) Held(point HoldPoint) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.holds[point]
}

func (m *Manager) Busy() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.busy
}

// Current returns a copy of the request being processed.
func (m *Manager) Current() (Request, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pending == nil {
		return Request{}, false
	}
	req := *m.pending
	req.Origins = append([]scene.Ref(nil), req.Origins...)
	return req, true
}

func (m *Manager) Phase() Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch {
	case m.seq != nil:
		return m.seq.phase
	case m.busy:
		return PhaseBooting
	}
	return PhaseIdle
}

// Progress returns the raw and displayed progress of the running sequence.
func (m *Manager) Progress() (raw, display float64) {
	m.mu.Lock()
	seq := m.seq
	m.mu.Unlock()
	if seq == nil {
		return 0, 0
	}
	return seq.raw, seq.display
}

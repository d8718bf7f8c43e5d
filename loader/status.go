package loader

import (
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/SvenDH/go-card-prototype/scene"
)

type Status int8
type Phase int8

const (
	NoStatus Status = iota
	AllStatuses
	StatusLoadStarted
	StatusBeforeEntryFade
	StatusEntryFade
	StatusAfterEntryFade
	StatusUnloadOriginScene
	StatusLoadDestinationScene
	StatusLoadProgressComplete
	StatusInterpolatedLoadProgressComplete
	StatusBeforeSceneActivation
	StatusDestinationSceneActivation
	StatusAfterSceneActivation
	StatusExitFade
	StatusUnloadSceneLoader
)

const (
	PhaseIdle Phase = iota
	PhaseBooting
	PhaseInit
	PhaseDelayBeforeEntryFade
	PhaseEntryFade
	PhaseDelayAfterEntryFade
	PhaseUnloadOriginScenes
	PhaseLoadDestinationScene
	PhaseDelayBeforeActivation
	PhaseActivateDestination
	PhaseDelayAfterActivation
	PhaseExitFade
	PhaseUnloadSequencer
	PhaseDone
)

func (s Status) String() string {
	switch s {
	case NoStatus:
		return "none"
	case AllStatuses:
		return "all"
	case StatusLoadStarted:
		return "load-started"
	case StatusBeforeEntryFade:
		return "before-entry-fade"
	case StatusEntryFade:
		return "entry-fade"
	case StatusAfterEntryFade:
		return "after-entry-fade"
	case StatusUnloadOriginScene:
		return "unload-origin-scene"
	case StatusLoadDestinationScene:
		return "load-destination-scene"
	case StatusLoadProgressComplete:
		return "load-progress-complete"
	case StatusInterpolatedLoadProgressComplete:
		return "interpolated-load-progress-complete"
	case StatusBeforeSceneActivation:
		return "before-scene-activation"
	case StatusDestinationSceneActivation:
		return "destination-scene-activation"
	case StatusAfterSceneActivation:
		return "after-scene-activation"
	case StatusExitFade:
		return "exit-fade"
	case StatusUnloadSceneLoader:
		return "unload-scene-loader"
	}
	return "unknown"
}

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseBooting:
		return "booting"
	case PhaseInit:
		return "init"
	case PhaseDelayBeforeEntryFade:
		return "delay-before-entry-fade"
	case PhaseEntryFade:
		return "entry-fade"
	case PhaseDelayAfterEntryFade:
		return "delay-after-entry-fade"
	case PhaseUnloadOriginScenes:
		return "unload-origin-scenes"
	case PhaseLoadDestinationScene:
		return "load-destination-scene"
	case PhaseDelayBeforeActivation:
		return "delay-before-activation"
	case PhaseActivateDestination:
		return "activate-destination"
	case PhaseDelayAfterActivation:
		return "delay-after-activation"
	case PhaseExitFade:
		return "exit-fade"
	case PhaseUnloadSequencer:
		return "unload-sequencer"
	case PhaseDone:
		return "done"
	}
	return "unknown"
}

// Event is published on the Bus for every lifecycle notification.
type Event struct {
	Status   Status
	Phase    Phase
	Scene    string
	Sequence ulid.ULID
	// Origin is set for StatusUnloadOriginScene.
	Origin  scene.Ref
	Elapsed time.Duration
}

type Handler func(*Event)

// Bus fans lifecycle events out to handlers registered per status or for
// AllStatuses.
type Bus struct {
	mu       sync.RWMutex
	handlers map[Status][]Handler
}

func NewBus() *Bus {
	return &Bus{handlers: map[Status][]Handler{}}
}

func (b *Bus) On(status Status, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[status] = append(b.handlers[status], handler)
}

func (b *Bus) Emit(event *Event) {
	b.call(event.Status, event)
	b.call(AllStatuses, event)
}

func (b *Bus) call(s Status, event *Event) {
	b.mu.RLock()
	handlers := b.handlers[s]
	b.mu.RUnlock()
	for _, f := range handlers {
		f(event)
	}
}

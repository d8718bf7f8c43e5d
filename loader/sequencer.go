package loader

import (
	"time"

	"github.com/SvenDH/go-card-prototype/scene"
	"github.com/SvenDH/go-card-prototype/tween"
)

// completion is where the host's async operations are considered done.
const completion = 0.9

// Sequencer runs the phases of one load request. It lives as long as the
// loading screen does and is advanced by Manager.Update, one tick at a time.
// Every phase is split into steps; a step either falls through to the next
// one in the same tick or suspends until a later tick.
type Sequencer struct {
	m             *Manager
	req           Request
	loadingScreen scene.Ref

	phase   Phase
	step    int
	wait    time.Duration
	origin  int
	op      *scene.Operation
	dest    *scene.Operation
	raw     float64
	display float64
	frame   int
	elapsed time.Duration
	done    bool
	stalled bool
}

func newSequencer(m *Manager, req Request, loadingScreen scene.Ref) *Sequencer {
	return &Sequencer{m: m, req: req, loadingScreen: loadingScreen, phase: PhaseInit}
}

func (s *Sequencer) Phase() Phase { return s.phase }

func (s *Sequencer) Done() bool { return s.done }

// Stalled reports whether the destination could not be loaded. A stalled
// sequence never finishes on its own.
func (s *Sequencer) Stalled() bool { return s.stalled }

// Tick runs the progress task and then the phase task.
func (s *Sequencer) Tick(dt time.Duration) {
	if s.done {
		return
	}
	s.frame++
	s.elapsed += dt
	s.updateProgress(dt)
	if s.wait > 0 {
		s.wait -= dt
		if s.wait > 0 {
			return
		}
		s.wait = 0
	}
	for !s.done && !s.stalled && s.run() {
	}
}

func (s *Sequencer) updateProgress(dt time.Duration) {
	if s.req.InterpolateProgress {
		speed := ComputeSpeed(s.display, s.req.SpeedIntervals, s.req.ProgressBarSpeed)
		s.display = clamp01(Approach(s.display, s.raw, dt.Seconds()*speed))
	} else {
		s.display = s.raw
	}
	if f := s.m.OnRealtimeProgress; f != nil {
		f(s.raw)
	}
	if f := s.m.OnInterpolatedProgress; f != nil {
		f(s.display)
	}
}

// run executes the current step and reports whether the sequence can go on
// within the same tick.
func (s *Sequencer) run() bool {
	switch s.phase {
	case PhaseInit:
		s.raw, s.display = 0, 0
		s.notify(StatusLoadStarted)
		s.enter(PhaseDelayBeforeEntryFade)
		return true

	case PhaseDelayBeforeEntryFade:
		if s.step == 0 {
			s.notify(StatusBeforeEntryFade)
			s.step++
			return s.sleep(s.req.BeforeEntryFadeDelay)
		}
		s.enter(PhaseEntryFade)
		return true

	case PhaseEntryFade:
		switch s.step {
		case 0:
			s.notify(StatusEntryFade)
			if s.req.EntryFadeDuration <= 0 {
				s.enter(PhaseDelayAfterEntryFade)
				return true
			}
			s.step++
			return false
		case 1:
			s.fade(true)
			s.step++
			return s.sleep(s.req.EntryFadeDuration)
		}
		s.enter(PhaseDelayAfterEntryFade)
		return true

	case PhaseDelayAfterEntryFade:
		if s.step == 0 {
			if s.m.Held(HoldAfterEntryFade) {
				return false
			}
			s.notify(StatusAfterEntryFade)
			s.step++
			return s.sleep(s.req.AfterEntryFadeDelay)
		}
		s.enter(PhaseUnloadOriginScenes)
		return true

	case PhaseUnloadOriginScenes:
		return s.unloadOrigins()

	case PhaseLoadDestinationScene:
		return s.loadDestination()

	case PhaseDelayBeforeActivation:
		if s.step == 0 {
			s.notify(StatusBeforeSceneActivation)
			s.step++
			return s.sleep(s.req.BeforeActivationDelay)
		}
		if s.m.Held(HoldBeforeSceneActivation) {
			return false
		}
		s.enter(PhaseActivateDestination)
		return true

	case PhaseActivateDestination:
		switch s.step {
		case 0:
			s.step++
			return false
		case 1:
			s.dest.AllowActivation()
			s.step++
		}
		if s.dest.Progress() < 1 {
			return false
		}
		s.m.host.SetActive(s.req.Destination)
		s.notify(StatusDestinationSceneActivation)
		s.enter(PhaseDelayAfterActivation)
		return true

	case PhaseDelayAfterActivation:
		if s.step == 0 {
			s.notify(StatusAfterSceneActivation)
			s.step++
			return s.sleep(s.req.AfterActivationDelay)
		}
		s.enter(PhaseExitFade)
		return true

	case PhaseExitFade:
		if s.step == 0 {
			if s.m.Held(HoldBeforeExitFade) {
				return false
			}
			s.notify(StatusExitFade)
			if s.req.ExitFadeDuration > 0 {
				s.fade(false)
			}
			s.step++
			return s.sleep(s.req.ExitFadeDuration)
		}
		s.enter(PhaseUnloadSequencer)
		return true

	case PhaseUnloadSequencer:
		return s.unloadSelf()
	}
	return false
}

func (s *Sequencer) unloadOrigins() bool {
	switch s.step {
	case 0:
		if s.origin >= len(s.req.Origins) {
			s.step = 2
			return true
		}
		ref := s.req.Origins[s.origin]
		s.notifyOrigin(ref)
		if !s.m.host.IsLoaded(ref) {
			s.m.Logger.Printf("loader: origin scene %s is no longer loaded, skipping it", ref)
			s.origin++
			return true
		}
		op, err := s.m.host.UnloadAsync(ref)
		if err != nil {
			s.m.Logger.Printf("loader: skipping origin scene %s: %v", ref, err)
			s.origin++
			return true
		}
		s.op = op
		s.step = 1
		return false
	case 1:
		if s.op.Progress() < completion {
			return false
		}
		s.op = nil
		s.origin++
		s.step = 0
		return true
	}
	if s.m.Held(HoldAfterUnloadOriginScene) {
		return false
	}
	s.enter(PhaseLoadDestinationScene)
	return true
}

func (s *Sequencer) loadDestination() bool {
	switch s.step {
	case 0:
		s.notify(StatusLoadDestinationScene)
		op, err := s.m.host.LoadAsync(s.req.Destination, false)
		if err != nil {
			s.m.Logger.Printf("loader: cannot load %q, sequence stalled: %v", s.req.Destination, err)
			s.stalled = true
			return false
		}
		s.dest = op
		s.step = 1
		return false
	case 1:
		if p := s.dest.Progress(); p < completion {
			s.setRaw(p)
			return false
		}
		s.notify(StatusLoadProgressComplete)
		s.raw = 1
		s.step = 2
		return true
	}
	if s.req.InterpolateProgress {
		if s.display < 1 {
			return false
		}
		s.notify(StatusInterpolatedLoadProgressComplete)
	}
	s.enter(PhaseDelayBeforeActivation)
	return true
}

func (s *Sequencer) unloadSelf() bool {
	switch s.step {
	case 0:
		s.notify(StatusUnloadSceneLoader)
		s.step = 1
		return false
	case 1:
		op, err := s.m.host.UnloadAsync(s.loadingScreen)
		if err != nil {
			s.m.Logger.Printf("loader: unloading the loading screen: %v", err)
			s.finish()
			return false
		}
		s.op = op
		s.step = 2
		return false
	}
	if s.op.Progress() < completion {
		return false
	}
	s.finish()
	return false
}

func (s *Sequencer) finish() {
	s.phase = PhaseDone
	s.done = true
	s.debugf("sequence to %q done", s.req.Destination)
	s.m.release(s)
}

func (s *Sequencer) enter(p Phase) {
	s.phase = p
	s.step = 0
}

// sleep suspends the phase task for d. It reports whether the task can go
// on right away.
func (s *Sequencer) sleep(d time.Duration) bool {
	if d <= 0 {
		return true
	}
	s.wait = d
	return false
}

func (s *Sequencer) setRaw(p float64) {
	if p > s.raw {
		s.raw = p
	}
}

// fade plays the entry fade when entry is set and the exit fade otherwise.
func (s *Sequencer) fade(entry bool) {
	if s.m.fader == nil {
		return
	}
	d, name := s.req.ExitFadeDuration, s.req.ExitFadeCurve
	if entry {
		d, name = s.req.EntryFadeDuration, s.req.EntryFadeCurve
	}
	curve, ok := tween.ByName(name)
	if !ok {
		curve = tween.InOutCubic
	}
	if entry == (s.req.FadeMode == FadeInThenOut) {
		s.m.fader.FadeIn(d, curve)
	} else {
		s.m.fader.FadeOut(d, curve)
	}
}

func (s *Sequencer) notify(status Status) {
	s.emit(&Event{Status: status})
}

func (s *Sequencer) notifyOrigin(ref scene.Ref) {
	s.emit(&Event{Status: StatusUnloadOriginScene, Origin: ref})
}

func (s *Sequencer) emit(e *Event) {
	e.Phase = s.phase
	e.Scene = s.req.Destination
	e.Sequence = s.req.ID
	e.Elapsed = s.elapsed
	s.debugf("%s", e.Status)
	s.m.bus.Emit(e)
}

func (s *Sequencer) debugf(format string, args ...any) {
	if !s.req.Debug {
		return
	}
	args = append([]any{s.frame, s.elapsed.Seconds()}, args...)
	s.m.Logger.Printf("[%d] [%.3f] "+format, args...)
}

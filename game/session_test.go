package game

import (
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"github.com/SvenDH/go-card-prototype/config"
	"github.com/SvenDH/go-card-prototype/loader"
)

const dt = 16 * time.Millisecond

func newSession(t *testing.T) *Session {
	t.Helper()
	cfg := config.Default()
	s, err := NewSession(cfg)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	quiet := log.New(io.Discard, "", 0)
	s.Logger = quiet
	s.Loader.Logger = quiet
	s.Host.Logger = quiet
	if err := s.Start(config.TitleScene); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return s
}

func runToEnd(t *testing.T, s *Session) {
	t.Helper()
	for i := 0; i < 5000 && s.Loader.Busy(); i++ {
		s.Tick(dt)
	}
	if s.Loader.Busy() {
		t.Fatalf("Load did not finish, stuck in %s", s.Loader.Phase())
	}
}

func TestSessionLoadsTable(t *testing.T) {
	s := newSession(t)
	var last float64
	s.OnProgress = func(raw, display float64) { last = display }
	if err := s.Load(config.TableScene); err != nil {
		t.Fatalf("Load: %v", err)
	}
	runToEnd(t, s)
	if got := s.Host.ActiveScene().Name; got != config.TableScene {
		t.Fatalf("Active scene is %q", got)
	}
	if names := s.Host.LoadedScenes(); len(names) != 1 {
		t.Fatalf("Loaded scenes %v", names)
	}
	if s.Status() != loader.StatusUnloadSceneLoader {
		t.Fatalf("Last status %s", s.Status())
	}
	if last != 1 {
		t.Fatalf("Last displayed progress %v", last)
	}
	if a := s.Fader.Alpha(); a != 0 {
		t.Fatalf("Fader left at alpha %v", a)
	}
}

func TestRequestLoadFromOtherGoroutine(t *testing.T) {
	s := newSession(t)
	errc := make(chan error, 1)
	go func() { errc <- s.RequestLoad(config.TableScene) }()

	var err error
	deadline := time.Now().Add(5 * time.Second)
loop:
	for time.Now().Before(deadline) {
		s.Tick(dt)
		select {
		case err = <-errc:
			break loop
		default:
			time.Sleep(time.Millisecond)
		}
	}
	if err != nil {
		t.Fatalf("RequestLoad: %v", err)
	}
	if !s.Loader.Busy() {
		t.Fatalf("Load was not started")
	}

	go func() { errc <- s.RequestLoad(config.TitleScene) }()
	deadline = time.Now().Add(5 * time.Second)
	err = nil
loop2:
	for time.Now().Before(deadline) {
		s.Tick(dt)
		select {
		case err = <-errc:
			break loop2
		default:
			time.Sleep(time.Millisecond)
		}
	}
	if !errors.Is(err, loader.ErrAlreadyInProgress) {
		t.Fatalf("Second remote request returned %v", err)
	}
}

func TestApplyConfig(t *testing.T) {
	s := newSession(t)
	cfg := config.Default()
	cfg.Loader.ExitFadeDuration = 0
	s.Apply(cfg)
	s.Tick(dt)
	if s.Config() != cfg {
		t.Fatalf("Configuration not applied on tick")
	}
}

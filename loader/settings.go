package loader

import (
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/SvenDH/go-card-prototype/scene"
)

type UnloadPolicy int8
type FadeMode int8
type HoldPoint int8

const (
	UnloadNone UnloadPolicy = iota
	UnloadActiveScene
	UnloadAllScenes
)

const (
	FadeInThenOut FadeMode = iota
	FadeOutThenIn
)

const (
	HoldAfterEntryFade HoldPoint = iota
	HoldAfterUnloadOriginScene
	HoldBeforeSceneActivation
	HoldBeforeExitFade
)

const (
	DefaultLoadingScreen    = "LoadingScreen"
	DefaultProgressBarSpeed = 5.0
	DefaultFadeCurve        = "InOutCubic"
)

func (u UnloadPolicy) String() string {
	switch u {
	case UnloadNone:
		return "none"
	case UnloadActiveScene:
		return "active"
	case UnloadAllScenes:
		return "all"
	}
	return "unknown"
}

func (u UnloadPolicy) MarshalText() ([]byte, error) { return []byte(u.String()), nil }

func (u *UnloadPolicy) UnmarshalText(b []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(b))) {
	case "none":
		*u = UnloadNone
	case "active", "active-scene":
		*u = UnloadActiveScene
	case "all", "all-scenes":
		*u = UnloadAllScenes
	default:
		return fmt.Errorf("loader: unknown unload policy %q", b)
	}
	return nil
}

func (f FadeMode) String() string {
	switch f {
	case FadeInThenOut:
		return "in-then-out"
	case FadeOutThenIn:
		return "out-then-in"
	}
	return "unknown"
}

func (f FadeMode) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

func (f *FadeMode) UnmarshalText(b []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(b))) {
	case "in-then-out":
		*f = FadeInThenOut
	case "out-then-in":
		*f = FadeOutThenIn
	default:
		return fmt.Errorf("loader: unknown fade mode %q", b)
	}
	return nil
}

func (h HoldPoint) String() string {
	switch h {
	case HoldAfterEntryFade:
		return "after-entry-fade"
	case HoldAfterUnloadOriginScene:
		return "after-unload-origin-scene"
	case HoldBeforeSceneActivation:
		return "before-scene-activation"
	case HoldBeforeExitFade:
		return "before-exit-fade"
	}
	return "unknown"
}

// ParseHoldPoint is the inverse of HoldPoint.String.
func ParseHoldPoint(s string) (HoldPoint, bool) {
	for _, h := range HoldPoints {
		if h.String() == s {
			return h, true
		}
	}
	return 0, false
}

// HoldPoints lists every defined hold point.
var HoldPoints = []HoldPoint{
	HoldAfterEntryFade,
	HoldAfterUnloadOriginScene,
	HoldBeforeSceneActivation,
	HoldBeforeExitFade,
}

// SpeedInterval sets the progress bar speed while the displayed progress is
// in [Low, High).
type SpeedInterval struct {
	Low   float64 `yaml:"low"`
	High  float64 `yaml:"high"`
	Speed float64 `yaml:"speed"`
}

func (i SpeedInterval) Contains(t float64) bool { return t >= i.Low && t < i.High }

// Settings are the tunables of a load sequence.
type Settings struct {
	LoadingScreen         string          `yaml:"loading_screen"`
	Unload                UnloadPolicy    `yaml:"unload"`
	BeforeEntryFadeDelay  time.Duration   `yaml:"before_entry_fade_delay"`
	EntryFadeDuration     time.Duration   `yaml:"entry_fade_duration"`
	AfterEntryFadeDelay   time.Duration   `yaml:"after_entry_fade_delay"`
	BeforeActivationDelay time.Duration   `yaml:"before_activation_delay"`
	AfterActivationDelay  time.Duration   `yaml:"after_activation_delay"`
	ExitFadeDuration      time.Duration   `yaml:"exit_fade_duration"`
	EntryFadeCurve        string          `yaml:"entry_fade_curve"`
	ExitFadeCurve         string          `yaml:"exit_fade_curve"`
	FadeMode              FadeMode        `yaml:"fade_mode"`
	InterpolateProgress   bool            `yaml:"interpolate_progress"`
	ProgressBarSpeed      float64         `yaml:"progress_bar_speed"`
	SpeedIntervals        []SpeedInterval `yaml:"speed_intervals"`
	Validate              bool            `yaml:"validate"`
	Debug                 bool            `yaml:"debug"`
}

func DefaultSettings() Settings {
	return Settings{
		LoadingScreen:         DefaultLoadingScreen,
		Unload:                UnloadAllScenes,
		BeforeEntryFadeDelay:  0,
		EntryFadeDuration:     250 * time.Millisecond,
		AfterEntryFadeDelay:   100 * time.Millisecond,
		BeforeActivationDelay: 250 * time.Millisecond,
		AfterActivationDelay:  0,
		ExitFadeDuration:      200 * time.Millisecond,
		EntryFadeCurve:        DefaultFadeCurve,
		ExitFadeCurve:         DefaultFadeCurve,
		FadeMode:              FadeInThenOut,
		InterpolateProgress:   true,
		ProgressBarSpeed:      DefaultProgressBarSpeed,
		Validate:              true,
	}
}

// Request is one load sequence. Origins and ID are filled in by
// Manager.Request.
type Request struct {
	Destination string
	Settings
	Origins []scene.Ref
	ID      ulid.ULID
}

// NewRequest returns a request for destination with the default settings.
func NewRequest(destination string) Request {
	return Request{Destination: destination, Settings: DefaultSettings()}
}

func (r *Request) normalize() {
	for _, d := range []*time.Duration{
		&r.BeforeEntryFadeDelay, &r.EntryFadeDuration, &r.AfterEntryFadeDelay,
		&r.BeforeActivationDelay, &r.AfterActivationDelay, &r.ExitFadeDuration,
	} {
		if *d < 0 {
			*d = 0
		}
	}
	if r.ProgressBarSpeed <= 0 {
		r.ProgressBarSpeed = DefaultProgressBarSpeed
	}
	if r.EntryFadeCurve == "" {
		r.EntryFadeCurve = DefaultFadeCurve
	}
	if r.ExitFadeCurve == "" {
		r.ExitFadeCurve = DefaultFadeCurve
	}
	r.SpeedIntervals = append([]SpeedInterval(nil), r.SpeedIntervals...)
}

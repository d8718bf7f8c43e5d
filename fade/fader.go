// Package fade implements a full screen fade driven by a tween. It only
// tracks the alpha value; drawing the overlay is left to the screen.
package fade

import (
	"time"

	"github.com/SvenDH/go-card-prototype/tween"
)

// Fader tweens an overlay alpha. FadeIn goes to fully opaque, FadeOut back to
// transparent.
type Fader struct {
	alpha    float32
	tween    *tween.Tween
	complete []func()
}

func New() *Fader {
	return &Fader{}
}

func (f *Fader) FadeIn(d time.Duration, curve tween.Easing) {
	f.start(1, d, curve)
}

func (f *Fader) FadeOut(d time.Duration, curve tween.Easing) {
	f.start(0, d, curve)
}

func (f *Fader) start(to float32, d time.Duration, curve tween.Easing) {
	f.tween = tween.New(f.alpha, to, float32(d.Seconds()), curve)
	if d <= 0 {
		f.Update(0)
	}
}

// Set jumps to alpha a, cancelling any running fade.
func (f *Fader) Set(a float32) {
	f.tween = nil
	f.alpha = a
}

// Update advances the running fade by dt.
func (f *Fader) Update(dt time.Duration) {
	if f.tween == nil {
		return
	}
	val, done := f.tween.Update(float32(dt.Seconds()))
	f.alpha = val
	if !done {
		return
	}
	f.tween = nil
	for _, cb := range f.complete {
		cb()
	}
}

func (f *Fader) Alpha() float32 { return f.alpha }

// Done reports whether no fade is running.
func (f *Fader) Done() bool { return f.tween == nil }

// OnComplete registers f to run every time a fade finishes.
func (f *Fader) OnComplete(cb func()) {
	f.complete = append(f.complete, cb)
}

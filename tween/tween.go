package tween

// Tween interpolates a single value from Begin to End over Duration seconds.
type Tween struct {
	Begin, End float32
	Duration   float32
	Easing     Easing
	elapsed    float32
}

func New(begin, end, duration float32, easing Easing) *Tween {
	if easing == nil {
		easing = Linear
	}
	return &Tween{Begin: begin, End: end, Duration: duration, Easing: easing}
}

// Update advances the tween by dt seconds and returns the current value and
// whether the tween has finished.
func (t *Tween) Update(dt float32) (float32, bool) {
	t.elapsed += dt
	if t.Duration <= 0 || t.elapsed >= t.Duration {
		t.elapsed = t.Duration
		return t.End, true
	}
	p := t.Easing(t.elapsed / t.Duration)
	return t.Begin + (t.End-t.Begin)*p, false
}

func (t *Tween) Value() float32 {
	if t.Duration <= 0 || t.elapsed >= t.Duration {
		return t.End
	}
	return t.Begin + (t.End-t.Begin)*t.Easing(t.elapsed/t.Duration)
}

func (t *Tween) Reset() { t.elapsed = 0 }

// Sequence plays tweens one after another.
type Sequence struct {
	Tweens []*Tween
	index  int
}

func NewSequence(tweens ...*Tween) *Sequence {
	return &Sequence{Tweens: tweens}
}

// Update advances the sequence and returns the current value, the index of
// the running tween and whether the whole sequence has completed. Time left
// over when a tween finishes carries into the next one.
func (s *Sequence) Update(dt float32) (float32, int, bool) {
	if len(s.Tweens) == 0 {
		return 0, 0, true
	}
	for {
		cur := s.Tweens[s.index]
		before := cur.elapsed
		val, done := cur.Update(dt)
		if !done {
			return val, s.index, false
		}
		if s.index == len(s.Tweens)-1 {
			return val, s.index, true
		}
		dt -= cur.Duration - before
		s.index++
		if dt <= 0 {
			return s.Tweens[s.index].Begin, s.index, false
		}
	}
}

package hand

import (
	"math"

	"github.com/oklog/ulid/v2"

	"github.com/SvenDH/go-card-prototype/tween"
)

// Pose is where a card is currently drawn.
type Pose struct {
	X, Y, Angle float64
}

// Motion tweens a card from one pose to another.
type Motion struct {
	x, y, angle *tween.Tween
}

func NewMotion(from, to Pose, duration float32, easing tween.Easing) *Motion {
	return &Motion{
		x:     tween.New(float32(from.X), float32(to.X), duration, easing),
		y:     tween.New(float32(from.Y), float32(to.Y), duration, easing),
		angle: tween.New(float32(from.Angle), float32(to.Angle), duration, easing),
	}
}

func (m *Motion) Update(dt float32) (Pose, bool) {
	x, done := m.x.Update(dt)
	y, _ := m.y.Update(dt)
	a, _ := m.angle.Update(dt)
	return Pose{X: float64(x), Y: float64(y), Angle: float64(a)}, done
}

// Animator keeps the drawn pose of every card and moves cards toward the
// targets they are relocated to.
type Animator struct {
	Easing tween.Easing

	poses   map[ulid.ULID]Pose
	motions map[ulid.ULID]*Motion
}

func NewAnimator() *Animator {
	return &Animator{
		Easing:  tween.OutQuad,
		poses:   map[ulid.ULID]Pose{},
		motions: map[ulid.ULID]*Motion{},
	}
}

// Place puts a card at p without animating.
func (a *Animator) Place(id ulid.ULID, p Pose) {
	delete(a.motions, id)
	a.poses[id] = p
}

// Relocate starts moving a card from its current pose to p.
func (a *Animator) Relocate(id ulid.ULID, p Pose, duration float32) {
	a.motions[id] = NewMotion(a.poses[id], p, duration, a.Easing)
}

func (a *Animator) Remove(id ulid.ULID) {
	delete(a.poses, id)
	delete(a.motions, id)
}

func (a *Animator) Update(dt float32) {
	for id, m := range a.motions {
		p, done := m.Update(dt)
		a.poses[id] = p
		if done {
			delete(a.motions, id)
		}
	}
}

func (a *Animator) Pose(id ulid.ULID) (Pose, bool) {
	p, ok := a.poses[id]
	return p, ok
}

// Moving reports whether any card is still animating.
func (a *Animator) Moving() bool { return len(a.motions) > 0 }

// Arrange relocates every card of h to its slot in the fan, lifting the
// floating ones and straightening them.
func (a *Animator) Arrange(h *Hand, l Layout) []Slot {
	cards := h.Cards()
	slots := Arrange(len(cards), l)
	for i, c := range cards {
		p := Pose{X: slots[i].X, Y: slots[i].Y, Angle: slots[i].Angle}
		if h.Floating(c.ID) {
			p.Y += l.FloatOffset
			p.Angle = 0
		}
		a.Relocate(c.ID, p, float32(l.Duration))
	}
	return slots
}

// Contains reports whether the point (x, y) falls on a w by h card drawn
// centred at p and rotated by p.Angle degrees counter-clockwise.
func (p Pose) Contains(x, y, w, h float64) bool {
	a := p.Angle * math.Pi / 180
	dx, dy := x-p.X, y-p.Y
	lx := dx*math.Cos(a) + dy*math.Sin(a)
	ly := -dx*math.Sin(a) + dy*math.Cos(a)
	return math.Abs(lx) <= w/2 && math.Abs(ly) <= h/2
}

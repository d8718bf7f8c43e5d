package hand

// Layout describes the fan the hand is spread in. Units are whatever the
// caller draws in; angles are in degrees.
type Layout struct {
	CardY    float64 `yaml:"card_y"`
	XSpacing float64 `yaml:"x_spacing"`
	YSpacing float64 `yaml:"y_spacing"`
	Angle    float64 `yaml:"angle"`
	// FloatOffset lifts selected cards.
	FloatOffset float64 `yaml:"float_offset"`
	// Duration of a relocation in seconds.
	Duration float64 `yaml:"duration"`
}

func DefaultLayout() Layout {
	return Layout{
		CardY:       0,
		XSpacing:    1,
		YSpacing:    0.1,
		Angle:       3,
		FloatOffset: 0.05,
		Duration:    0.5,
	}
}

// Slot is where a card at a given index of the hand rests.
type Slot struct {
	X, Y  float64
	Angle float64
	Order int
}

// Arrange places n cards in a fan centred on x = 0. An odd hand puts its
// middle card straight at the centre. Cards further out sit lower, with the
// drop growing by half again per step, and tilt away from the centre.
func Arrange(n int, l Layout) []Slot {
	if n <= 0 {
		return nil
	}
	slots := make([]Slot, n)
	xspace := l.XSpacing / 2
	yspace := 0.0
	angle := l.Angle
	mid := n / 2
	if n%2 == 1 {
		slots[mid] = Slot{X: 0, Y: l.CardY, Order: mid}
		mid++
		xspace = l.XSpacing
		yspace = -l.YSpacing
	}
	for i := mid; i < n; i++ {
		j := n - i - 1
		slots[i] = Slot{X: xspace, Y: l.CardY + yspace, Angle: -angle, Order: i}
		slots[j] = Slot{X: -xspace, Y: l.CardY + yspace, Angle: angle, Order: j}
		xspace += l.XSpacing
		yspace -= l.YSpacing
		yspace *= 1.5
		angle += l.Angle
	}
	return slots
}

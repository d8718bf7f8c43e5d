package hand

import (
	"io"
	"log"
	"math"
	"math/rand"
	"testing"
)

func cards(n int) []Card {
	cs := make([]Card, n)
	for i := range cs {
		cs[i] = NewCard(Suit(1+i%4), "")
	}
	return cs
}

func TestShuffleIsPermutation(t *testing.T) {
	cs := cards(20)
	shuffled := append([]Card(nil), cs...)
	Shuffle(shuffled, rand.New(rand.NewSource(7)))
	seen := map[string]int{}
	for _, c := range shuffled {
		seen[c.ID.String()]++
	}
	for _, c := range cs {
		if seen[c.ID.String()] != 1 {
			t.Fatalf("Card %s appears %d times after shuffle", c.ID, seen[c.ID.String()])
		}
	}
	again := append([]Card(nil), cs...)
	Shuffle(again, rand.New(rand.NewSource(7)))
	for i := range again {
		if again[i] != shuffled[i] {
			t.Fatalf("Same seed gave a different order at %d", i)
		}
	}
}

func TestFillStopsAtCapacity(t *testing.T) {
	d := NewDeck(rand.New(rand.NewSource(1)), cards(6)...)
	h := New(4)
	h.Logger = log.New(io.Discard, "", 0)

	if drawn := h.Fill(d); len(drawn) != 4 {
		t.Fatalf("Drew %d cards, want 4", len(drawn))
	}
	if d.Len() != 2 {
		t.Fatalf("Deck has %d cards left", d.Len())
	}
	if drawn := h.Fill(d); drawn != nil {
		t.Fatalf("Full hand drew %d cards", len(drawn))
	}
	if h.Add(NewCard(Heart, "")) {
		t.Fatalf("Added to a full hand")
	}

	h.Toggle(h.Cards()[0].ID)
	h.Toggle(h.Cards()[3].ID)
	if played := h.PlaySelected(); len(played) != 2 {
		t.Fatalf("Played %d cards", len(played))
	}
	if drawn := h.Fill(d); len(drawn) != 2 || d.Len() != 0 {
		t.Fatalf("Refill drew %d, deck left %d", len(drawn), d.Len())
	}
	if drawn := h.Fill(d); drawn != nil {
		t.Fatalf("Drew from a full hand")
	}
}

func TestFillFromShortDeck(t *testing.T) {
	d := NewDeck(nil, cards(2)...)
	h := New(0)
	if drawn := h.Fill(d); len(drawn) != 2 || h.Len() != 2 {
		t.Fatalf("Drew %d cards into a hand of %d", len(drawn), h.Len())
	}
	if h.Capacity != DefaultCapacity {
		t.Fatalf("Capacity = %d", h.Capacity)
	}
}

func TestToggleRespectsMaxSelected(t *testing.T) {
	h := New(4)
	for _, c := range cards(4) {
		h.Add(c)
	}
	h.MaxSelected = 2
	cs := h.Cards()
	if !h.Toggle(cs[0].ID) || !h.Toggle(cs[1].ID) {
		t.Fatalf("Could not float two cards")
	}
	if h.Toggle(cs[2].ID) {
		t.Fatalf("Floated a third card")
	}
	if h.Toggle(cs[0].ID) || h.Floating(cs[0].ID) {
		t.Fatalf("Toggle did not lower the card")
	}
	if !h.Toggle(cs[2].ID) {
		t.Fatalf("Could not float after lowering one")
	}
	sel := h.Selected()
	if len(sel) != 2 || sel[0] != cs[1] || sel[1] != cs[2] {
		t.Fatalf("Selected = %v", sel)
	}
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestArrange(t *testing.T) {
	l := Layout{CardY: 1, XSpacing: 1, YSpacing: 0.1, Angle: 3}
	cases := []struct {
		n    int
		want []Slot
	}{
		{1, []Slot{{0, 1, 0, 0}}},
		{2, []Slot{{-0.5, 1, 3, 0}, {0.5, 1, -3, 1}}},
		{3, []Slot{{-1, 0.9, 3, 0}, {0, 1, 0, 1}, {1, 0.9, -3, 2}}},
		{4, []Slot{{-1.5, 0.85, 6, 0}, {-0.5, 1, 3, 1}, {0.5, 1, -3, 2}, {1.5, 0.85, -6, 3}}},
		{5, []Slot{{-2, 0.7, 6, 0}, {-1, 0.9, 3, 1}, {0, 1, 0, 2}, {1, 0.9, -3, 3}, {2, 0.7, -6, 4}}},
	}
	for _, c := range cases {
		got := Arrange(c.n, l)
		if len(got) != len(c.want) {
			t.Fatalf("Arrange(%d) gave %d slots", c.n, len(got))
		}
		for i, s := range got {
			w := c.want[i]
			if !near(s.X, w.X) || !near(s.Y, w.Y) || !near(s.Angle, w.Angle) || s.Order != w.Order {
				t.Fatalf("Arrange(%d)[%d] = %+v, want %+v", c.n, i, s, w)
			}
		}
	}
	if Arrange(0, l) != nil {
		t.Fatalf("Empty hand has slots")
	}
}

func TestAnimatorArrange(t *testing.T) {
	h := New(3)
	for _, c := range cards(3) {
		h.Add(c)
	}
	cs := h.Cards()
	h.Toggle(cs[0].ID)
	a := NewAnimator()
	l := DefaultLayout()
	slots := a.Arrange(h, l)
	for i := 0; i < 100 && a.Moving(); i++ {
		a.Update(0.016)
	}
	if a.Moving() {
		t.Fatalf("Cards still moving")
	}
	p, _ := a.Pose(cs[0].ID)
	if math.Abs(p.Y-(slots[0].Y+l.FloatOffset)) > 1e-6 {
		t.Fatalf("Floating card at y %v", p.Y)
	}
	if p.Angle != 0 {
		t.Fatalf("Floating card tilted %v", p.Angle)
	}
	p, _ = a.Pose(cs[2].ID)
	if math.Abs(p.X-slots[2].X) > 1e-6 || math.Abs(p.Angle-slots[2].Angle) > 1e-5 {
		t.Fatalf("Card at %+v, want %+v", p, slots[2])
	}
}

func TestParseDecks(t *testing.T) {
	f, err := ParseDecks(`
	# starter decks
	deck "Starter" {
		2 diamond with knight
		heart
		3 clubs
	}
	deck "Empty" {}
	`)
	if err != nil {
		t.Fatalf("ParseDecks: %v", err)
	}
	if len(f.Decks) != 2 {
		t.Fatalf("Parsed %d decks", len(f.Decks))
	}
	d, ok := f.Deck("Starter")
	if !ok {
		t.Fatalf("Starter deck missing")
	}
	cs, err := d.Cards()
	if err != nil {
		t.Fatalf("Cards: %v", err)
	}
	if len(cs) != 6 {
		t.Fatalf("Starter has %d cards", len(cs))
	}
	if cs[0].Suit != Diamond || cs[0].Ally != "knight" || cs[2].Suit != Heart || cs[5].Suit != Club {
		t.Fatalf("Unexpected cards %v", cs)
	}
	if cs[0].ID == cs[1].ID {
		t.Fatalf("Cards share an id")
	}

	f, err = ParseDecks(`deck "Bad" { 1 stars }`)
	if err != nil {
		t.Fatalf("ParseDecks: %v", err)
	}
	if _, err := f.Decks[0].Cards(); err == nil {
		t.Fatalf("Unknown suit accepted")
	}
	if _, err := ParseDecks(`deck Bad {}`); err == nil {
		t.Fatalf("Unquoted deck name accepted")
	}
}

func TestPoseContains(t *testing.T) {
	p := Pose{X: 100, Y: 50}
	if !p.Contains(110, 60, 40, 60) || p.Contains(125, 50, 40, 60) {
		t.Fatalf("Straight card hit test wrong")
	}
	// A quarter turn swaps width and height.
	p.Angle = 90
	if !p.Contains(125, 50, 40, 60) || p.Contains(100, 75, 40, 60) {
		t.Fatalf("Rotated card hit test wrong")
	}
}

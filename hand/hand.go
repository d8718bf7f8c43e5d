package hand

import (
	"log"

	"github.com/oklog/ulid/v2"
)

const (
	DefaultCapacity    = 4
	DefaultMaxSelected = 4
)

// Hand holds at most Capacity cards. Cards can be floated (selected) up to
// MaxSelected at a time and then played together.
type Hand struct {
	Capacity    int
	MaxSelected int
	Logger      *log.Logger

	cards    []Card
	selected []ulid.ULID
}

func New(capacity int) *Hand {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Hand{Capacity: capacity, MaxSelected: DefaultMaxSelected, Logger: log.Default()}
}

func (h *Hand) Len() int { return len(h.cards) }

func (h *Hand) Full() bool { return len(h.cards) >= h.Capacity }

func (h *Hand) Cards() []Card { return append([]Card(nil), h.cards...) }

func (h *Hand) Index(id ulid.ULID) int {
	for i, c := range h.cards {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// Add puts c at the right end of the hand. It reports false when the hand is
// full.
func (h *Hand) Add(c Card) bool {
	if h.Full() {
		return false
	}
	h.cards = append(h.cards, c)
	return true
}

// Fill draws from d until the hand is full or the deck runs out and returns
// the cards drawn. A full hand is a no-op.
func (h *Hand) Fill(d *Deck) []Card {
	voids := h.Capacity - len(h.cards)
	if voids < 1 {
		h.Logger.Printf("hand: no space on hand left")
		return nil
	}
	var drawn []Card
	for i := 0; i < voids; i++ {
		c, ok := d.Draw()
		if !ok {
			break
		}
		h.cards = append(h.cards, c)
		drawn = append(drawn, c)
	}
	return drawn
}

// Toggle floats or lowers the card with the given id and returns whether it
// is floating afterwards. Floating more than MaxSelected cards is refused.
func (h *Hand) Toggle(id ulid.ULID) bool {
	if h.Index(id) < 0 {
		return false
	}
	for i, s := range h.selected {
		if s == id {
			h.selected = append(h.selected[:i], h.selected[i+1:]...)
			return false
		}
	}
	if len(h.selected) >= h.MaxSelected {
		return false
	}
	h.selected = append(h.selected, id)
	return true
}

func (h *Hand) Floating(id ulid.ULID) bool {
	for _, s := range h.selected {
		if s == id {
			return true
		}
	}
	return false
}

// Selected returns the floating cards in the order they were picked.
func (h *Hand) Selected() []Card {
	cards := make([]Card, 0, len(h.selected))
	for _, id := range h.selected {
		if i := h.Index(id); i >= 0 {
			cards = append(cards, h.cards[i])
		}
	}
	return cards
}

// PlaySelected removes the floating cards from the hand and returns them.
func (h *Hand) PlaySelected() []Card {
	played := h.Selected()
	if len(played) == 0 {
		return nil
	}
	kept := h.cards[:0]
	for _, c := range h.cards {
		if !h.Floating(c.ID) {
			kept = append(kept, c)
		}
	}
	h.cards = kept
	h.selected = nil
	return played
}

package hand

import "math/rand"

// Shuffle permutes cards in place with Fisher–Yates. A nil rng uses the
// global source.
func Shuffle(cards []Card, rng *rand.Rand) {
	intn := rand.Intn
	if rng != nil {
		intn = rng.Intn
	}
	for i := len(cards) - 1; i > 0; i-- {
		j := intn(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}
}

// Deck is a queue of cards; Draw takes from the front.
type Deck struct {
	cards []Card
}

// NewDeck shuffles a copy of cards and queues them.
func NewDeck(rng *rand.Rand, cards ...Card) *Deck {
	d := &Deck{cards: append([]Card(nil), cards...)}
	Shuffle(d.cards, rng)
	return d
}

func (d *Deck) Draw() (Card, bool) {
	if len(d.cards) == 0 {
		return Card{}, false
	}
	c := d.cards[0]
	d.cards = d.cards[1:]
	return c, true
}

// Push puts cards back at the bottom of the deck.
func (d *Deck) Push(cards ...Card) {
	d.cards = append(d.cards, cards...)
}

func (d *Deck) Len() int { return len(d.cards) }

// Cards returns the queued cards, front first.
func (d *Deck) Cards() []Card {
	return append([]Card(nil), d.cards...)
}

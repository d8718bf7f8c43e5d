// Package hand models the player's cards: a shuffled deck queue, a hand of
// fixed capacity and the fan layout the hand is drawn in.
package hand

import (
	"fmt"
	"strings"

	"github.com/oklog/ulid/v2"
)

type Suit int8

const (
	None Suit = iota
	Diamond
	Club
	Spade
	Heart
)

var suitNames = []string{"none", "diamond", "club", "spade", "heart"}

func (s Suit) String() string {
	if s < 0 || int(s) >= len(suitNames) {
		return "unknown"
	}
	return suitNames[s]
}

func ParseSuit(s string) (Suit, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimSuffix(s, "s")
	for i, name := range suitNames {
		if name == s {
			return Suit(i), nil
		}
	}
	return None, fmt.Errorf("hand: unknown suit %q", s)
}

// Card is one card instance. Ally names the unit the card summons when it is
// played, if any.
type Card struct {
	ID   ulid.ULID
	Suit Suit
	Ally string
}

func NewCard(suit Suit, ally string) Card {
	return Card{ID: ulid.Make(), Suit: suit, Ally: ally}
}

func (c Card) String() string {
	if c.Ally == "" {
		return c.Suit.String()
	}
	return fmt.Sprintf("%s (%s)", c.Suit, c.Ally)
}

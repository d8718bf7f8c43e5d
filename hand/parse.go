package hand

import (
	"fmt"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// DeckFile is a list of named decks:
//
//	deck "Starter" {
//	  2 diamond with knight
//	  heart
//	}
type DeckFile struct {
	Decks []*DeckList `@@*`
}

type DeckList struct {
	Name    string       `"deck" @String "{"`
	Entries []*DeckEntry `@@* "}"`
}

type DeckEntry struct {
	Count int    `@Int?`
	Suit  string `@Ident`
	Ally  string `("with" @Ident)?`
}

// Cards expands the list into fresh card instances.
func (l *DeckList) Cards() ([]Card, error) {
	var cards []Card
	for _, e := range l.Entries {
		suit, err := ParseSuit(e.Suit)
		if err != nil {
			return nil, fmt.Errorf("deck %q: %w", l.Name, err)
		}
		n := e.Count
		if n == 0 {
			n = 1
		}
		for i := 0; i < n; i++ {
			cards = append(cards, NewCard(suit, e.Ally))
		}
	}
	return cards, nil
}

// Deck returns the list named name.
func (f *DeckFile) Deck(name string) (*DeckList, bool) {
	for _, d := range f.Decks {
		if d.Name == name {
			return d, true
		}
	}
	return nil, false
}

type DeckParser struct {
	parser *participle.Parser[DeckFile]
}

func NewDeckParser() *DeckParser {
	parser := participle.MustBuild[DeckFile](
		participle.Lexer(lexer.MustSimple([]lexer.SimpleRule{
			{"comment", `#[^\n]*`},
			{"whitespace", `[\s]+`},
			{"String", `"(?:\\.|[^"])*"`},
			{"Ident", `[a-zA-Z]\w*`},
			{"Punct", `[{}]`},
			{"Int", `\d+`},
		})),
		participle.Elide("comment", "whitespace"),
		participle.Unquote("String"),
	)
	return &DeckParser{parser}
}

func (p *DeckParser) Parse(txt string) (*DeckFile, error) {
	return p.parser.ParseString("", txt)
}

// ParseDecks parses deck lists from txt.
func ParseDecks(txt string) (*DeckFile, error) {
	return NewDeckParser().Parse(txt)
}

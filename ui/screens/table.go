package screens

import (
	"fmt"
	"image/color"
	"math"
	"math/rand"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/oklog/ulid/v2"

	"github.com/SvenDH/go-card-prototype/config"
	"github.com/SvenDH/go-card-prototype/hand"
	"github.com/SvenDH/go-card-prototype/ui"
)

const (
	cardW = 70
	cardH = 100
)

var suitColors = map[hand.Suit]color.NRGBA{
	hand.None:    {R: 0x80, G: 0x80, B: 0x80, A: 0xff},
	hand.Diamond: {R: 0xc0, G: 0x30, B: 0x30, A: 0xff},
	hand.Club:    {R: 0x30, G: 0x60, B: 0x30, A: 0xff},
	hand.Spade:   {R: 0x30, G: 0x30, B: 0x70, A: 0xff},
	hand.Heart:   {R: 0xc0, G: 0x40, B: 0x80, A: 0xff},
}

// Table is the play scene: a deck, the hand fanned out at the bottom and
// the pile of played cards.
type Table struct {
	app    *App
	layout hand.Layout
	hand   *hand.Hand
	deck   *hand.Deck
	anim   *hand.Animator
	played []hand.Card
	images map[ulid.ULID]*ebiten.Image
}

func NewTable(app *App) (*Table, error) {
	cfg := app.Session.Config()
	cards, err := cfg.Deck()
	if err != nil {
		return nil, err
	}
	h := hand.New(cfg.Hand.Capacity)
	h.MaxSelected = cfg.Hand.MaxSelected
	h.Logger = app.Session.Logger
	t := &Table{
		app:    app,
		layout: cfg.Hand.Layout,
		hand:   h,
		deck:   hand.NewDeck(rand.New(rand.NewSource(time.Now().UnixNano())), cards...),
		anim:   hand.NewAnimator(),
		images: map[ulid.ULID]*ebiten.Image{},
	}
	t.draw()
	return t, nil
}

func (t *Table) Init() ui.Cmd { return nil }

// deckPose is where drawn cards start from, in layout space.
func (t *Table) deckPose() hand.Pose {
	return hand.Pose{X: float64(t.app.Width)/2 - 60, Y: float64(t.app.Height) - 200}
}

func (t *Table) baseY() float64 { return float64(t.app.Height) - 90 }

func (t *Table) toLayout(x, y int) (float64, float64) {
	return float64(x) - float64(t.app.Width)/2, t.baseY() - float64(y)
}

func (t *Table) toScreen(p hand.Pose) (float64, float64) {
	return float64(t.app.Width)/2 + p.X, t.baseY() - p.Y
}

// draw fills the hand from the deck and moves the new cards in.
func (t *Table) draw() {
	for _, c := range t.hand.Fill(t.deck) {
		t.anim.Place(c.ID, t.deckPose())
	}
	t.anim.Arrange(t.hand, t.layout)
}

func (t *Table) play() {
	played := t.hand.PlaySelected()
	if len(played) == 0 {
		return
	}
	for _, c := range played {
		t.anim.Remove(c.ID)
		delete(t.images, c.ID)
	}
	t.played = append(t.played, played...)
	t.deck.Push(played...)
	t.anim.Arrange(t.hand, t.layout)
}

// cardAt returns the topmost card under the screen point (x, y).
func (t *Table) cardAt(x, y int) (hand.Card, bool) {
	lx, ly := t.toLayout(x, y)
	cards := t.hand.Cards()
	for i := len(cards) - 1; i >= 0; i-- {
		p, ok := t.anim.Pose(cards[i].ID)
		if ok && p.Contains(lx, ly, cardW, cardH) {
			return cards[i], true
		}
	}
	return hand.Card{}, false
}

func (t *Table) Update(msg ui.Msg) (ui.Model, ui.Cmd) {
	switch msg := msg.(type) {
	case ui.Tick:
		t.anim.Update(msg.DeltaTime)
	case ui.MouseEvent:
		if msg.Action != ui.MousePress || msg.Button != ebiten.MouseButtonLeft {
			break
		}
		if c, ok := t.cardAt(msg.X, msg.Y); ok {
			t.hand.Toggle(c.ID)
			t.anim.Arrange(t.hand, t.layout)
		}
	case ui.KeyEvent:
		if msg.Released {
			break
		}
		switch msg.Key {
		case ebiten.KeyD:
			t.draw()
		case ebiten.KeyP:
			t.play()
		case ebiten.KeyEscape:
			return t, loadCmd(config.TitleScene)
		}
	}
	return t, nil
}

func (t *Table) cardImage(c hand.Card) *ebiten.Image {
	if img, ok := t.images[c.ID]; ok {
		return img
	}
	img := ebiten.NewImage(cardW, cardH)
	img.Fill(ui.CardBorder)
	ui.FillRect(img, 2, 2, cardW-4, cardH-4, ui.CardFace)
	ui.FillRect(img, 6, 6, cardW-12, 22, suitColors[c.Suit])
	ui.DrawCentered(img, c.Suit.String(), cardW/2, 10, ui.White)
	if c.Ally != "" {
		ui.DrawCentered(img, c.Ally, cardW/2, cardH/2, ui.Black)
	}
	t.images[c.ID] = img
	return img
}

func (t *Table) drawCard(screen *ebiten.Image, img *ebiten.Image, p hand.Pose) {
	x, y := t.toScreen(p)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-cardW/2, -cardH/2)
	op.GeoM.Rotate(-p.Angle * math.Pi / 180)
	op.GeoM.Translate(x, y)
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(img, op)
}

func (t *Table) Draw(screen *ebiten.Image) {
	screen.Fill(ui.Felt)

	dx, dy := t.toScreen(t.deckPose())
	if t.deck.Len() > 0 {
		ui.FillRect(screen, dx-cardW/2, dy-cardH/2, cardW, cardH, ui.CardBorder)
	}
	ui.DrawCentered(screen, fmt.Sprintf("deck %d", t.deck.Len()), dx, dy+cardH/2+4, ui.White)

	for _, c := range t.hand.Cards() {
		if p, ok := t.anim.Pose(c.ID); ok {
			t.drawCard(screen, t.cardImage(c), p)
		}
	}

	status := fmt.Sprintf("selected %d/%d  played %d", len(t.hand.Selected()), t.hand.MaxSelected, len(t.played))
	ui.DrawText(screen, status, 10, 10, ui.White)
	ui.DrawText(screen, "[click] select  [D] draw  [P] play  [Esc] title", 10, 28, ui.White)
}

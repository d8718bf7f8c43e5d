package screens

import (
	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/SvenDH/go-card-prototype/config"
	"github.com/SvenDH/go-card-prototype/ui"
)

// Title shows the game name and a play button that loads the table.
type Title struct {
	app   *App
	gui   *ebitenui.UI
	start bool
}

func NewTitle(app *App) *Title {
	t := &Title{app: app}

	btnImg := imageui.NewNineSliceColor(ui.Track)
	btnText := &widget.ButtonTextColor{Idle: ui.White}

	name := widget.NewText(
		widget.TextOpts.Text("Card Prototype", &ui.Face, ui.White),
		widget.TextOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})),
	)
	play := widget.NewButton(
		widget.ButtonOpts.Image(&widget.ButtonImage{Idle: btnImg, Pressed: btnImg}),
		widget.ButtonOpts.Text("Play", &ui.Face, btnText),
		widget.ButtonOpts.TextPadding(&widget.Insets{Left: 24, Right: 24, Top: 6, Bottom: 6}),
		widget.ButtonOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			t.start = true
		}),
	)
	hint := widget.NewText(
		widget.TextOpts.Text("or press Enter", &ui.Face, ui.White),
		widget.TextOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})),
	)

	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(imageui.NewNineSliceColor(ui.Panel)),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(12),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 24, Bottom: 24, Left: 40, Right: 40}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{HorizontalPosition: widget.AnchorLayoutPositionCenter, VerticalPosition: widget.AnchorLayoutPositionCenter}),
		),
	)
	panel.AddChild(name)
	panel.AddChild(play)
	panel.AddChild(hint)

	root := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	root.AddChild(panel)
	t.gui = &ebitenui.UI{Container: root}
	return t
}

func (t *Title) Init() ui.Cmd { return nil }

func (t *Title) Update(msg ui.Msg) (ui.Model, ui.Cmd) {
	switch msg := msg.(type) {
	case ui.Tick:
		t.gui.Update()
		if t.start {
			t.start = false
			return t, loadCmd(config.TableScene)
		}
	case ui.KeyEvent:
		if msg.Key == ebiten.KeyEnter && !msg.Released {
			return t, loadCmd(config.TableScene)
		}
	}
	return t, nil
}

func (t *Title) Draw(screen *ebiten.Image) {
	screen.Fill(ui.Black)
	t.gui.Draw(screen)
}

func loadCmd(name string) ui.Cmd {
	return func() ui.Msg { return LoadScene{Name: name} }
}

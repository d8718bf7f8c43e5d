package screens

import (
	"fmt"
	"image/color"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/SvenDH/go-card-prototype/loader"
	"github.com/SvenDH/go-card-prototype/ui"
)

// Loading is the loading screen. It owns the fade overlay and shows the
// progress of the running load on top of it.
type Loading struct {
	app    *App
	gui    *ebitenui.UI
	status *widget.Text
	holds  *widget.Text
	bar    *widget.ProgressBar
	layer  *ebiten.Image
}

func NewLoading(app *App) *Loading {
	l := &Loading{app: app}
	center := widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})

	l.status = widget.NewText(
		widget.TextOpts.Text("Loading", &ui.Face, ui.White),
		widget.TextOpts.WidgetOpts(center),
	)
	l.bar = widget.NewProgressBar(
		widget.ProgressBarOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(320, 14),
			widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter}),
		),
		widget.ProgressBarOpts.Images(
			&widget.ProgressBarImage{Idle: imageui.NewNineSliceColor(ui.Track)},
			&widget.ProgressBarImage{Idle: imageui.NewNineSliceColor(ui.Fill)},
		),
		widget.ProgressBarOpts.Values(0, 100, 0),
	)
	l.holds = widget.NewText(
		widget.TextOpts.Text("", &ui.Face, ui.White),
		widget.TextOpts.WidgetOpts(center),
	)

	panel := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(10),
			widget.RowLayoutOpts.Padding(&widget.Insets{Bottom: 40}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{HorizontalPosition: widget.AnchorLayoutPositionCenter, VerticalPosition: widget.AnchorLayoutPositionEnd}),
		),
	)
	panel.AddChild(l.status)
	panel.AddChild(l.bar)
	panel.AddChild(l.holds)

	root := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	root.AddChild(panel)
	l.gui = &ebitenui.UI{Container: root}
	return l
}

func (l *Loading) Init() ui.Cmd { return nil }

func (l *Loading) Update(msg ui.Msg) (ui.Model, ui.Cmd) {
	switch msg := msg.(type) {
	case ui.Tick:
		_, display := l.app.Session.Progress()
		l.bar.SetCurrent(int(display * 100))
		l.status.Label = fmt.Sprintf("%s  %3.0f%%", l.app.Session.Status(), display*100)
		l.holds.Label = l.holdLabel()
		l.gui.Update()
	case ui.KeyEvent:
		if msg.Released {
			break
		}
		switch msg.Key {
		case ebiten.Key1:
			l.app.holdToggle(loader.HoldAfterEntryFade)
		case ebiten.Key2:
			l.app.holdToggle(loader.HoldAfterUnloadOriginScene)
		case ebiten.Key3:
			l.app.holdToggle(loader.HoldBeforeSceneActivation)
		case ebiten.Key4, ebiten.KeyH:
			l.app.holdToggle(loader.HoldBeforeExitFade)
		case ebiten.KeySpace:
			l.app.Session.ClearHolds()
		}
	}
	return l, nil
}

func (l *Loading) holdLabel() string {
	s := "holds [1-4], release [space]:"
	for _, p := range loader.HoldPoints {
		if l.app.Session.Loader.Held(p) {
			s += " " + p.String()
		}
	}
	return s
}

func (l *Loading) Draw(screen *ebiten.Image) {
	alpha := l.app.Session.Fader.Alpha()
	if alpha <= 0 {
		return
	}
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	ui.FillRect(screen, 0, 0, float64(w), float64(h), color.NRGBA{A: uint8(alpha * 0xff)})
	if l.layer == nil || l.layer.Bounds().Dx() != w || l.layer.Bounds().Dy() != h {
		l.layer = ebiten.NewImage(w, h)
	}
	l.layer.Clear()
	l.gui.Draw(l.layer)

	op := &ebiten.DrawImageOptions{}
	op.ColorScale.ScaleAlpha(alpha)
	screen.DrawImage(l.layer, op)
}

package screens

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/SvenDH/go-card-prototype/config"
	"github.com/SvenDH/go-card-prototype/game"
	"github.com/SvenDH/go-card-prototype/loader"
	"github.com/SvenDH/go-card-prototype/scene"
	"github.com/SvenDH/go-card-prototype/ui"
)

// LoadScene asks the app to load a scene through the loader.
type LoadScene struct {
	Name string
}

// App is the root model. It ticks the session and forwards messages to the
// screens of the loaded scenes.
type App struct {
	Session       *game.Session
	Width, Height int
}

// NewApp creates the root model and registers the screen factory on the
// session's scene host.
func NewApp(s *game.Session, width, height int) *App {
	a := &App{Session: s, Width: width, Height: height}
	s.Host.OnInstantiate(a.instantiate)
	return a
}

func (a *App) instantiate(ref scene.Ref) any {
	switch ref.Name {
	case config.TitleScene:
		return NewTitle(a)
	case a.Session.Config().Loader.LoadingScreen:
		return NewLoading(a)
	case config.TableScene:
		t, err := NewTable(a)
		if err != nil {
			a.Session.Logger.Printf("screens: table: %v", err)
			return nil
		}
		return t
	}
	a.Session.Logger.Printf("screens: no screen for scene %q", ref.Name)
	return nil
}

func (a *App) Init() ui.Cmd { return nil }

func (a *App) Update(msg ui.Msg) (ui.Model, ui.Cmd) {
	switch msg := msg.(type) {
	case ui.Tick:
		a.Session.Tick(time.Duration(float64(msg.DeltaTime) * float64(time.Second)))
		var cmds []ui.Cmd
		for _, m := range a.screens() {
			_, cmd := m.Update(msg)
			cmds = append(cmds, cmd)
		}
		return a, ui.Batch(cmds...)
	case LoadScene:
		if err := a.Session.Load(msg.Name); err != nil {
			a.Session.Logger.Printf("screens: load %s: %v", msg.Name, err)
		}
		return a, nil
	case ui.KeyEvent, ui.MouseEvent:
		if m := a.focused(); m != nil {
			_, cmd := m.Update(msg)
			return a, cmd
		}
	}
	return a, nil
}

// focused returns the screen that receives input. The loading screen takes
// it while it is up.
func (a *App) focused() ui.Model {
	if sc, ok := a.Session.Host.Scene(a.Session.Config().Loader.LoadingScreen); ok {
		if m, ok := sc.Content.(ui.Model); ok {
			return m
		}
	}
	active := a.Session.Host.ActiveScene()
	if active.IsZero() {
		return nil
	}
	for _, sc := range a.Session.Host.Scenes() {
		if sc.Ref.ID == active.ID {
			m, _ := sc.Content.(ui.Model)
			return m
		}
	}
	return nil
}

func (a *App) screens() []ui.Model {
	var ms []ui.Model
	for _, sc := range a.Session.Host.Scenes() {
		if m, ok := sc.Content.(ui.Model); ok {
			ms = append(ms, m)
		}
	}
	return ms
}

// Draw draws the loaded scenes in load order, so the loading screen ends up
// on top.
func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(ui.Black)
	for _, m := range a.screens() {
		m.Draw(screen)
	}
}

// holdToggle flips a hold point of the loader.
func (a *App) holdToggle(point loader.HoldPoint) bool {
	on := !a.Session.Loader.Held(point)
	a.Session.SetHold(point, on)
	return on
}

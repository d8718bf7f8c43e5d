package ui

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type MouseAction int

const (
	MousePress MouseAction = iota
	MouseRelease
	MouseMotion
)

type Msg interface{}

// Tick is sent once per game update after the input messages.
type Tick struct {
	DeltaTime float32
}

type MouseEvent struct {
	X, Y   int
	Action MouseAction
	Button ebiten.MouseButton
}

type KeyEvent struct {
	Key      ebiten.Key
	Released bool
}

type Cmd func() Msg

// Batch runs cmds one after another and returns the last message.
func Batch(cmds ...Cmd) Cmd {
	var valid []Cmd
	for _, c := range cmds {
		if c != nil {
			valid = append(valid, c)
		}
	}
	if len(valid) == 0 {
		return nil
	}
	return func() Msg {
		var msg Msg
		for _, c := range valid {
			msg = c()
		}
		return msg
	}
}

// Based on bubbletea model
type Model interface {
	Init() Cmd
	Update(msg Msg) (Model, Cmd)
	Draw(screen *ebiten.Image)
}

// Program runs a Model as an ebiten game.
type Program struct {
	M                      Model
	Width, Height          int
	ShowDebug              bool
	LastMouseX, LastMouseY int
	initialized            bool
}

func (p *Program) Update() error {
	if !p.initialized {
		p.initialized = true
		p.runUpdate(p.M.Init())
	}
	mx, my := ebiten.CursorPosition()
	if mx != p.LastMouseX || my != p.LastMouseY {
		p.runUpdate(MouseEvent{X: mx, Y: my, Action: MouseMotion})
		p.LastMouseX = mx
		p.LastMouseY = my
	}
	for i := range ebiten.MouseButtonMax {
		if inpututil.IsMouseButtonJustPressed(ebiten.MouseButton(i)) {
			p.runUpdate(MouseEvent{X: mx, Y: my, Action: MousePress, Button: ebiten.MouseButton(i)})
		}
		if inpututil.IsMouseButtonJustReleased(ebiten.MouseButton(i)) {
			p.runUpdate(MouseEvent{X: mx, Y: my, Action: MouseRelease, Button: ebiten.MouseButton(i)})
		}
	}
	for i := range ebiten.KeyMax {
		if inpututil.IsKeyJustPressed(ebiten.Key(i)) {
			p.runUpdate(KeyEvent{Key: ebiten.Key(i)})
		}
		if inpututil.IsKeyJustReleased(ebiten.Key(i)) {
			p.runUpdate(KeyEvent{Key: ebiten.Key(i), Released: true})
		}
	}
	p.runUpdate(Tick{DeltaTime: float32(1 / float64(ebiten.TPS()))})
	return nil
}

func (p *Program) runUpdate(msg Msg) {
	var cmd Cmd
	for {
		p.M, cmd = p.M.Update(msg)
		if cmd == nil {
			return
		}
		msg = cmd()
		if msg == nil {
			return
		}
	}
}

func (p *Program) Draw(screen *ebiten.Image) {
	p.M.Draw(screen)
	if p.ShowDebug {
		msg := fmt.Sprintf("TPS: %0.2f\nFPS: %0.2f", ebiten.ActualTPS(), ebiten.ActualFPS())
		ebitenutil.DebugPrint(screen, msg)
	}
}

func (p *Program) Layout(outsideW, outsideH int) (int, int) {
	if p.Width == 0 && p.Height == 0 {
		return outsideW, outsideH
	}
	return p.Width, p.Height
}

// Run opens a window and runs the program until it is closed.
func (p *Program) Run(title string) error {
	ebiten.SetWindowTitle(title)
	if p.Width > 0 && p.Height > 0 {
		ebiten.SetWindowSize(p.Width, p.Height)
	}
	return ebiten.RunGame(p)
}

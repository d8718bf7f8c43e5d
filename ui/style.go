package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"
)

// Face is the font every screen draws with.
var Face text.Face = text.NewGoXFace(basicfont.Face7x13)

var (
	White      = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	Black      = color.NRGBA{A: 0xff}
	Felt       = color.NRGBA{R: 0x1e, G: 0x4d, B: 0x2b, A: 0xff}
	Panel      = color.NRGBA{R: 0x20, G: 0x20, B: 0x28, A: 0xe0}
	Track      = color.NRGBA{R: 0x40, G: 0x40, B: 0x48, A: 0xff}
	Fill       = color.NRGBA{R: 0xe0, G: 0xb0, B: 0x40, A: 0xff}
	CardFace   = color.NRGBA{R: 0xf4, G: 0xee, B: 0xe0, A: 0xff}
	CardBorder = color.NRGBA{R: 0x30, G: 0x28, B: 0x20, A: 0xff}
)

var pixel *ebiten.Image

func whitePixel() *ebiten.Image {
	if pixel == nil {
		pixel = ebiten.NewImage(1, 1)
		pixel.Fill(color.White)
	}
	return pixel
}

// FillRect draws a w by h rectangle at (x, y) in clr.
func FillRect(dst *ebiten.Image, x, y, w, h float64, clr color.Color) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(w, h)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	dst.DrawImage(whitePixel(), op)
}

// DrawText draws s with its top left corner at (x, y).
func DrawText(dst *ebiten.Image, s string, x, y float64, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	op.LineSpacing = 16
	text.Draw(dst, s, Face, op)
}

// DrawCentered draws s centred horizontally on x.
func DrawCentered(dst *ebiten.Image, s string, x, y float64, clr color.Color) {
	w, _ := text.Measure(s, Face, 16)
	DrawText(dst, s, x-w/2, y, clr)
}

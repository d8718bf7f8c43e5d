package tween

import "strings"

// Easing maps normalized time in [0,1] to normalized progress.
type Easing func(t float32) float32

func Linear(t float32) float32 { return t }

func InQuad(t float32) float32 { return t * t }

func OutQuad(t float32) float32 { return t * (2 - t) }

func InOutQuad(t float32) float32 {
	if t < 0.5 {
		return 2 * t * t
	}
	return -1 + (4-2*t)*t
}

func InCubic(t float32) float32 { return t * t * t }

func OutCubic(t float32) float32 {
	t--
	return t*t*t + 1
}

func InOutCubic(t float32) float32 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	t = 2*t - 2
	return 0.5*t*t*t + 1
}

var easings = map[string]Easing{
	"linear":     Linear,
	"inquad":     InQuad,
	"outquad":    OutQuad,
	"inoutquad":  InOutQuad,
	"incubic":    InCubic,
	"outcubic":   OutCubic,
	"inoutcubic": InOutCubic,
}

// ByName looks up an easing by case-insensitive name ("InOutCubic", "outquad", ...).
func ByName(name string) (Easing, bool) {
	e, ok := easings[strings.ToLower(strings.TrimSpace(name))]
	return e, ok
}

package state

import (
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

var namedColors = map[string]string{
	"black":  "#000000",
	"white":  "#ffffff",
	"red":    "#ff0000",
	"green":  "#008000",
	"blue":   "#0000ff",
	"yellow": "#ffff00",
	"orange": "#ffa500",
	"purple": "#800080",
	"gray":   "#808080",
	"grey":   "#808080",
}

// ParseColor resolves a style colour: #rgb, #rrggbb or a small set of CSS names. ok is
// false for "transparent", empty and unparseable values.
func ParseColor(s string) (c color.NRGBA, ok bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == Transparent {
		return color.NRGBA{}, false
	}
	if hex, named := namedColors[s]; named {
		s = hex
	}
	cc, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{}, false
	}
	r, g, b := cc.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}, true
}

// WithAlpha returns c with its alpha scaled by a in [0, 1].
func WithAlpha(c color.NRGBA, a float64) color.NRGBA {
	c.A = uint8(float64(c.A)*a + 0.5)
	return c
}

package wallpaper

import (
	"regexp"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// MaxColors is the number of anchors, and so the most colors a palette holds.
const MaxColors = 4

var (
	longHex  = regexp.MustCompile(`^#?([0-9a-fA-F]{6})$`)
	shortHex = regexp.MustCompile(`^#?([0-9a-fA-F]{3})$`)
)

// Palette is an ordered list of colors, one per anchor.
type Palette []colorful.Color

// HexToColor parses "#rrggbb", "rrggbb", "#rgb" or "rgb". Shorthand digits are
// doubled, so "#fa0" is "#ffaa00". Anything else, surrounding whitespace
// included, is malformed.
func HexToColor(hex string) (colorful.Color, bool) {
	var digits string
	if m := longHex.FindStringSubmatch(hex); m != nil {
		digits = m[1]
	} else if m := shortHex.FindStringSubmatch(hex); m != nil {
		var b strings.Builder
		for _, r := range m[1] {
			b.WriteRune(r)
			b.WriteRune(r)
		}
		digits = b.String()
	} else {
		return colorful.Color{}, false
	}

	c, err := colorful.Hex("#" + strings.ToLower(digits))
	if err != nil {
		return colorful.Color{}, false
	}
	return c, true
}

// ColorToHex formats a color as "#rrggbb".
func ColorToHex(c colorful.Color) string {
	return c.Clamped().Hex()
}

// ParsePalette converts hex strings into a Palette. Malformed entries are
// dropped and anything past MaxColors is ignored.
func ParsePalette(colors []string) (Palette, error) {
	p := make(Palette, 0, MaxColors)
	for _, s := range colors {
		if len(p) == MaxColors {
			break
		}
		if c, ok := HexToColor(s); ok {
			p = append(p, c)
		}
	}

	if len(p) == 0 {
		return nil, &InvalidPaletteError{Colors: colors}
	}
	return p, nil
}

// Hex returns the palette as "#rrggbb" strings.
func (p Palette) Hex() []string {
	out := make([]string, len(p))
	for i, c := range p {
		out[i] = ColorToHex(c)
	}
	return out
}

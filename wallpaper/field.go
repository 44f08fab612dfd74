package wallpaper

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Falloff tuning. An anchor's weight is (FalloffRadius-d)^FalloffExponent / d^2
// inside the radius and zero beyond it. The 1/d^2 term pins each anchor to its
// exact color as d goes to 0. The radius is larger than the unit square's
// diagonal, so every anchor reaches every pixel whatever the palette size.
const (
	FalloffRadius   = 1.5
	FalloffExponent = 4.0
)

// coincident is the distance at which a pixel is treated as sitting on an anchor.
const coincident = 1e-9

func weight(d float64) float64 {
	if d >= FalloffRadius {
		return 0
	}
	return math.Pow(FalloffRadius-d, FalloffExponent) / (d * d)
}

// fieldWeights returns the weight of each of the first n anchors at p. exact is
// the index of an anchor p sits on, or -1.
func fieldWeights(anchors AnchorSet, n int, p Point) (w [MaxColors]float64, nearest int, exact int) {
	nearestD := math.Inf(1)
	exact = -1
	for i := 0; i < n; i++ {
		d := p.Distance(anchors[i])
		if d < coincident && exact < 0 {
			exact = i
		}
		if d < nearestD {
			nearest, nearestD = i, d
		}
		w[i] = weight(d)
	}
	return w, nearest, exact
}

// Sample evaluates the color field at a normalized position.
func Sample(palette Palette, anchors AnchorSet, p Point) colorful.Color {
	n := len(palette)
	if n > MaxColors {
		n = MaxColors
	}

	w, nearest, exact := fieldWeights(anchors, n, p)
	if exact >= 0 {
		return palette[exact]
	}

	var r, g, b, sum float64
	for i := 0; i < n; i++ {
		r += palette[i].R * w[i]
		g += palette[i].G * w[i]
		b += palette[i].B * w[i]
		sum += w[i]
	}

	// Only reachable for points well outside the unit square.
	if sum == 0 {
		return palette[nearest]
	}
	return colorful.Color{R: r / sum, G: g / sum, B: b / sum}
}

// RenderFrame rasterizes the field at width x height.
func RenderFrame(palette Palette, anchors AnchorSet, width, height int) *Frame {
	f := NewFrame(width, height)
	for y := 0; y < height; y++ {
		py := float64(y) / float64(height)
		for x := 0; x < width; x++ {
			f.Set(x, y, Sample(palette, anchors, Point{float64(x) / float64(width), py}))
		}
	}
	return f
}

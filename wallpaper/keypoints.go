package wallpaper

import "math"

// Point is a position in normalized [0,1]x[0,1] space, y pointing down.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Distance returns the Euclidean distance between two points.
func (p Point) Distance(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Lerp moves p toward q by t.
func (p Point) Lerp(q Point, t float64) Point {
	return Point{
		X: p.X*(1-t) + q.X*t,
		Y: p.Y*(1-t) + q.Y*t,
	}
}

// KeyPoints is the cycle of canonical anchor positions.
var KeyPoints = [8]Point{
	{0.265, 0.582},
	{0.176, 0.918},
	{1 - 0.585, 1 - 0.164},
	{0.644, 0.755},
	{1 - 0.265, 1 - 0.582},
	{1 - 0.176, 1 - 0.918},
	{0.585, 0.164},
	{1 - 0.644, 1 - 0.755},
}

// AnchorSet holds one position per palette slot.
type AnchorSet [MaxColors]Point

// AnchorsAt returns the anchor set for cycle index k: four key points spaced two
// slots apart.
func AnchorsAt(k int) AnchorSet {
	k = mod8(k)
	var a AnchorSet
	for i := range a {
		a[i] = KeyPoints[(k+2*i)%len(KeyPoints)]
	}
	return a
}

// MaxDistance is the largest per-anchor distance between two sets.
func (a AnchorSet) MaxDistance(b AnchorSet) float64 {
	longest := 0.0
	for i := range a {
		if d := a[i].Distance(b[i]); d > longest {
			longest = d
		}
	}
	return longest
}

func mod8(k int) int {
	k %= len(KeyPoints)
	if k < 0 {
		k += len(KeyPoints)
	}
	return k
}

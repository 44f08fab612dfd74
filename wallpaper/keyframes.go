package wallpaper

// Keyframes lays out the path from one anchor set to another along an easing
// curve. Each curve entry is the progress of one keyframe; a curve ending in 1
// lands exactly on to.
func Keyframes(from, to AnchorSet, curve []float64) []AnchorSet {
	path := make([]AnchorSet, len(curve))
	for k, t := range curve {
		for i := range from {
			path[k][i] = from[i].Lerp(to[i], t)
		}
	}
	if n := len(path); n > 0 && curve[n-1] == 1 {
		path[n-1] = to
	}
	return path
}

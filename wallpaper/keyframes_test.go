package wallpaper

import (
	"testing"

	"github.com/fogleman/ease"
	"github.com/matt-g-everett/twallpaper/util"
)

func TestKeyframesPath(t *testing.T) {
	from, to := AnchorsAt(0), AnchorsAt(1)
	path := Keyframes(from, to, util.GenerateCurve(10, ease.OutQuad))

	if len(path) != 10 {
		t.Fatalf("len = %d", len(path))
	}
	if path[len(path)-1] != to {
		t.Errorf("path ends at %v, want %v", path[len(path)-1], to)
	}
	prev := from.MaxDistance(to)
	for i, set := range path {
		d := set.MaxDistance(to)
		if d >= prev {
			t.Errorf("keyframe %d not closer: %f >= %f", i, d, prev)
		}
		prev = d
	}
}

func TestKeyframesEmptyCurve(t *testing.T) {
	if path := Keyframes(AnchorsAt(0), AnchorsAt(1), nil); len(path) != 0 {
		t.Errorf("expected empty path, got %d", len(path))
	}
}

// Package display holds the host surfaces frames are presented on.
package display

import (
	"image"

	"github.com/matt-g-everett/twallpaper/wallpaper"
	xdraw "golang.org/x/image/draw"
)

// A Surface receives every frame the controller presents.
type Surface interface {
	Present(f *wallpaper.Frame) error
	Close() error
}

// Scale upsamples a frame to width x height with bilinear filtering, matching
// how a browser stretches the small gradient canvas.
func Scale(f *wallpaper.Frame, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	src := f.Image()
	xdraw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}

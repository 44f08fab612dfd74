//go:build linux

package display

import (
	fb "github.com/gonutz/framebuffer"
	"github.com/matt-g-everett/twallpaper/wallpaper"
	xdraw "golang.org/x/image/draw"
)

// Framebuffer presents frames on a Linux framebuffer device, stretched to
// fill the screen.
type Framebuffer struct {
	dev *fb.Device
}

// OpenFramebuffer opens a device such as /dev/fb0.
func OpenFramebuffer(path string) (*Framebuffer, error) {
	dev, err := fb.Open(path)
	if err != nil {
		return nil, &wallpaper.BackendUnavailableError{Backend: "framebuffer " + path, Err: err}
	}
	return &Framebuffer{dev: dev}, nil
}

func (s *Framebuffer) Present(f *wallpaper.Frame) error {
	src := f.Image()
	xdraw.BiLinear.Scale(s.dev, s.dev.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return nil
}

func (s *Framebuffer) Close() error {
	s.dev.Close()
	return nil
}

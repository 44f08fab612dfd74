//go:build !linux

package display

import (
	"errors"

	"github.com/matt-g-everett/twallpaper/wallpaper"
)

// Framebuffer is only available on Linux.
type Framebuffer struct{}

// OpenFramebuffer always fails off Linux.
func OpenFramebuffer(path string) (*Framebuffer, error) {
	return nil, &wallpaper.BackendUnavailableError{
		Backend: "framebuffer " + path,
		Err:     errors.New("framebuffer devices need linux"),
	}
}

func (s *Framebuffer) Present(f *wallpaper.Frame) error { return nil }

func (s *Framebuffer) Close() error { return nil }

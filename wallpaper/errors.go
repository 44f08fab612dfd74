package wallpaper

import (
	"fmt"
	"strings"
)

// InvalidPaletteError is returned when a color list holds no usable hex color.
type InvalidPaletteError struct {
	Colors []string
}

func (e *InvalidPaletteError) Error() string {
	if len(e.Colors) == 0 {
		return "invalid palette: no colors"
	}
	return fmt.Sprintf("invalid palette: no valid hex color in [%s]", strings.Join(e.Colors, ", "))
}

// BackendUnavailableError is returned when a display surface cannot produce a
// renderable target.
type BackendUnavailableError struct {
	Backend string
	Err     error
}

func (e *BackendUnavailableError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s backend unavailable", e.Backend)
	}
	return fmt.Sprintf("%s backend unavailable: %v", e.Backend, e.Err)
}

func (e *BackendUnavailableError) Unwrap() error {
	return e.Err
}

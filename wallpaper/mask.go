package wallpaper

import "fmt"

// Pattern opacities for the two mask states.
const (
	MaskedOpacity   = 0.3
	UnmaskedOpacity = 0.5
	PatternSize     = "420px"
)

// MaskConfig configures the pattern overlay drawn over the gradient.
type MaskConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Image   string `yaml:"image" json:"image"`
	Color   string `yaml:"color" json:"color"`
}

// MaskStyle is what a host surface applies for the current MaskConfig.
type MaskStyle struct {
	Size       string  `json:"size"`
	Background string  `json:"background"`
	ImageURL   string  `json:"imageUrl"`
	Opacity    float64 `json:"opacity"`
	Masked     bool    `json:"masked"`
}

// Style derives the overlay style. It depends on nothing but the config, so
// toggling Enabled back restores the previous style exactly.
func (m MaskConfig) Style() MaskStyle {
	s := MaskStyle{
		Size:       PatternSize,
		Background: m.Color,
		ImageURL:   fmt.Sprintf("/patterns/%s.svg", m.Image),
		Opacity:    UnmaskedOpacity,
	}
	if m.Enabled {
		s.Opacity = MaskedOpacity
		s.Masked = true
	}
	return s
}

// ThemeMasked maps a theme name to the mask state; only the dark theme is masked.
func ThemeMasked(theme string) bool {
	return theme == "dark"
}

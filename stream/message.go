package stream

import (
	"github.com/matt-g-everett/twallpaper/wallpaper"
)

// Control message types.
const (
	MessageRetarget = "retarget"
	MessagePalette  = "palette"
	MessageMask     = "mask"
	MessageTheme    = "theme"
)

// ControlMessage asks the controller to change the wallpaper.
type ControlMessage struct {
	Type    string   `json:"type"`
	Colors  []string `json:"colors,omitempty"`
	Enabled *bool    `json:"enabled,omitempty"`
	Theme   string   `json:"theme,omitempty"`
}

// State describes the wallpaper as last presented.
type State struct {
	RunID     string               `json:"runId"`
	Palette   []string             `json:"palette"`
	Cycle     int                  `json:"cycle"`
	Anchors   wallpaper.AnchorSet  `json:"anchors"`
	Target    wallpaper.AnchorSet  `json:"target"`
	Animating bool                 `json:"animating"`
	Mask      wallpaper.MaskConfig `json:"mask"`
	MaskStyle wallpaper.MaskStyle  `json:"maskStyle"`
	Width     int                  `json:"width"`
	Height    int                  `json:"height"`
	Frames    uint64               `json:"frames"`
}

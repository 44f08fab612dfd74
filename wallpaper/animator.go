package wallpaper

import (
	"fmt"

	"github.com/fogleman/ease"
	"github.com/matt-g-everett/twallpaper/util"
)

// Transition selects how anchors travel to a new target.
type Transition string

const (
	// TransitionDecay blends a fixed fraction of the remaining distance per step.
	TransitionDecay Transition = "decay"
	// TransitionKeyframes plays a precomputed eased path, one keyframe per step.
	TransitionKeyframes Transition = "keyframes"
)

// Defaults used when the matching Config field is zero.
const (
	DefaultSize      = 50
	DefaultSpeed     = 0.1
	DefaultEpsilon   = 0.01
	DefaultKeyframes = 27
)

// DefaultColors is the stock four-color palette.
var DefaultColors = []string{"#fec496", "#dd6cb9", "#962fbf", "#4f5bd5"}

var keyframeCurves = util.NewMemoizer(ease.OutQuad)

// Config holds everything needed to build an Animator.
type Config struct {
	Colors     []string   `yaml:"colors"`
	Mask       MaskConfig `yaml:"mask"`
	Width      int        `yaml:"width"`
	Height     int        `yaml:"height"`
	Speed      float64    `yaml:"speed"`
	Epsilon    float64    `yaml:"epsilon"`
	Transition Transition `yaml:"transition"`
	Keyframes  int        `yaml:"keyframes"`
}

// DefaultConfig returns the stock wallpaper: default palette, masked "animals"
// pattern over black.
func DefaultConfig() Config {
	return Config{
		Colors: append([]string(nil), DefaultColors...),
		Mask:   MaskConfig{Enabled: true, Image: "animals", Color: "#000000"},
	}.withDefaults()
}

func (c Config) withDefaults() Config {
	if c.Width <= 0 {
		c.Width = DefaultSize
	}
	if c.Height <= 0 {
		c.Height = DefaultSize
	}
	if c.Speed <= 0 || c.Speed > 1 {
		c.Speed = DefaultSpeed
	}
	if c.Epsilon <= 0 {
		c.Epsilon = DefaultEpsilon
	}
	if c.Transition == "" {
		c.Transition = TransitionDecay
	}
	if c.Keyframes <= 0 {
		c.Keyframes = DefaultKeyframes
	}
	return c
}

// Validate reports configuration errors other than the palette.
func (c Config) Validate() error {
	switch c.Transition {
	case "", TransitionDecay, TransitionKeyframes:
		return nil
	default:
		return fmt.Errorf("unknown transition %q", c.Transition)
	}
}

// An Animator renders the gradient field for one surface and moves its anchors
// around the key point cycle. It is not safe for concurrent use; one goroutine
// owns it.
type Animator struct {
	config  Config
	palette Palette
	mask    MaskConfig

	current AnchorSet
	target  AnchorSet
	shift   int

	path      []AnchorSet
	pathIndex int

	frame *Frame
}

// NewAnimator creates an Animator at cycle index 0 with no pending motion and
// renders its first frame.
func NewAnimator(config Config) (*Animator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	palette, err := ParsePalette(config.Colors)
	if err != nil {
		return nil, err
	}

	a := new(Animator)
	a.config = config.withDefaults()
	a.palette = palette
	a.mask = config.Mask
	a.shift = 0
	a.target = AnchorsAt(a.shift)
	a.current = a.target
	a.render()

	return a, nil
}

func (a *Animator) render() {
	a.frame = RenderFrame(a.palette, a.current, a.config.Width, a.config.Height)
}

// SetPalette replaces the palette and re-renders. On error the old palette stays.
func (a *Animator) SetPalette(colors []string) error {
	palette, err := ParsePalette(colors)
	if err != nil {
		return err
	}
	a.palette = palette
	a.config.Colors = palette.Hex()
	a.render()
	return nil
}

// SetMask replaces the whole mask configuration.
func (a *Animator) SetMask(mask MaskConfig) { a.mask = mask }

// SetMaskEnabled toggles the pattern overlay.
func (a *Animator) SetMaskEnabled(enabled bool) { a.mask.Enabled = enabled }

// Retarget advances the cycle index and aims the anchors at the next set. The
// current positions are untouched, so a transition in flight continues from
// wherever it is.
func (a *Animator) Retarget() {
	a.shift = mod8(a.shift + 1)
	a.target = AnchorsAt(a.shift)

	if a.config.Transition == TransitionKeyframes {
		a.path = Keyframes(a.current, a.target, keyframeCurves.Curve(a.config.Keyframes))
		a.pathIndex = 0
	}
}

// Animating reports whether the next Step would move the anchors.
func (a *Animator) Animating() bool {
	if a.config.Transition == TransitionKeyframes {
		return a.pathIndex < len(a.path)
	}
	return a.current.MaxDistance(a.target) > a.config.Epsilon
}

// Step advances one tick. It renders a new frame and returns true while the
// anchors are moving; once they have settled it does nothing and returns false.
func (a *Animator) Step() bool {
	if !a.Animating() {
		return false
	}

	if a.config.Transition == TransitionKeyframes {
		a.current = a.path[a.pathIndex]
		a.pathIndex++
	} else {
		for i := range a.current {
			a.current[i] = a.current[i].Lerp(a.target[i], a.config.Speed)
		}
	}

	a.render()
	return true
}

// Frame returns the most recently rendered frame.
func (a *Animator) Frame() *Frame { return a.frame }

// Anchors returns the current anchor positions.
func (a *Animator) Anchors() AnchorSet { return a.current }

// Target returns the anchor positions being moved toward.
func (a *Animator) Target() AnchorSet { return a.target }

// Cycle returns the cycle index of the current target.
func (a *Animator) Cycle() int { return a.shift }

// Palette returns a copy of the active palette.
func (a *Animator) Palette() Palette { return append(Palette(nil), a.palette...) }

// Mask returns the mask configuration.
func (a *Animator) Mask() MaskConfig { return a.mask }

// MaskStyle returns the overlay style for the current mask configuration.
func (a *Animator) MaskStyle() MaskStyle { return a.mask.Style() }

// Config returns the effective configuration, with Colors tracking the active
// palette.
func (a *Animator) Config() Config { return a.config }

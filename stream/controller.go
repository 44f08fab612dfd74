package stream

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/fogleman/ease"
	"github.com/google/uuid"
	"github.com/matt-g-everett/twallpaper/display"
	"github.com/matt-g-everett/twallpaper/logger"
	"github.com/matt-g-everett/twallpaper/wallpaper"
	"go.uber.org/zap"
)

// StateListener is implemented by surfaces that also want state changes.
type StateListener interface {
	StateChanged(s State)
}

type command struct {
	msg   ControlMessage
	reply chan error
}

// Controller owns one Animator and drives it from a frame ticker, a retarget
// ticker and incoming control messages. Only the Run goroutine touches the
// animator.
type Controller struct {
	animator *wallpaper.Animator
	store    *Store
	surfaces []display.Surface
	commands chan command
	runID    string
	frames   uint64

	frameInterval    time.Duration
	retargetInterval time.Duration

	// shown is the frame surfaces last received.
	shown     *wallpaper.Frame
	fadeFrom  *wallpaper.Frame
	fadeStep  int
	fadeSteps int
}

// NewController creates an instance of a Controller.
func NewController(animator *wallpaper.Animator, store *Store, config AnimationConfig,
	surfaces ...display.Surface) *Controller {

	c := new(Controller)
	c.animator = animator
	c.store = store
	c.surfaces = surfaces
	c.commands = make(chan command)
	c.runID = uuid.New().String()

	frameRate := config.FrameRate
	if frameRate <= 0 {
		frameRate = 30
	}
	c.frameInterval = time.Duration(float64(time.Second) / frameRate)
	c.retargetInterval = config.RetargetInterval

	c.fadeSteps = int(math.Ceil(frameRate * config.Crossfade.Seconds()))

	c.shown = c.animator.Frame()
	c.store.update(c.snapshot(), c.shown)
	return c
}

// RunID identifies this controller's animator in logs and state.
func (c *Controller) RunID() string { return c.runID }

// Submit hands a control message to the Run loop and waits until it is applied.
func (c *Controller) Submit(ctx context.Context, msg ControlMessage) error {
	cmd := command{msg: msg, reply: make(chan error, 1)}
	select {
	case c.commands <- cmd:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-cmd.reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run presents frames until ctx is cancelled, then closes every surface.
func (c *Controller) Run(ctx context.Context) error {
	log := logger.L(ctx).With(zap.String("run", c.runID))
	log.Info("controller running",
		zap.Duration("frameInterval", c.frameInterval),
		zap.Duration("retargetInterval", c.retargetInterval))

	defer c.closeSurfaces(ctx)
	c.present(ctx, c.animator.Frame())
	c.notify(ctx)

	frameTimer := time.NewTicker(c.frameInterval)
	defer frameTimer.Stop()

	var retarget <-chan time.Time
	if c.retargetInterval > 0 {
		retargetTimer := time.NewTicker(c.retargetInterval)
		defer retargetTimer.Stop()
		retarget = retargetTimer.C
	}

	for {
		select {
		case <-ctx.Done():
			log.Info("controller stopped", zap.Uint64("frames", c.frames))
			return nil
		case <-retarget:
			c.retarget(ctx)
		case cmd := <-c.commands:
			cmd.reply <- c.apply(ctx, cmd.msg)
		case <-frameTimer.C:
			c.tick(ctx)
		}
	}
}

// tick is one display refresh. It returns whether a frame was presented.
func (c *Controller) tick(ctx context.Context) bool {
	moved := c.animator.Step()
	if !moved && c.fadeFrom == nil {
		return false
	}

	f := c.animator.Frame()
	if c.fadeFrom != nil {
		c.fadeStep++
		if c.fadeStep >= c.fadeSteps {
			c.fadeFrom = nil
			c.fadeStep = 0
		} else {
			transition := float64(c.fadeStep) / float64(c.fadeSteps)
			f = c.fadeFrom.InterpolateFrame(f, ease.InOutQuad(transition))
		}
	}

	c.present(ctx, f)
	return true
}

func (c *Controller) retarget(ctx context.Context) {
	c.animator.Retarget()
	logger.L(ctx).Debug("retarget", zap.Int("cycle", c.animator.Cycle()))
	c.notify(ctx)
}

func (c *Controller) apply(ctx context.Context, msg ControlMessage) error {
	switch msg.Type {
	case MessageRetarget:
		c.retarget(ctx)
		return nil
	case MessagePalette:
		previous := c.shown
		if err := c.animator.SetPalette(msg.Colors); err != nil {
			return err
		}
		if c.fadeSteps > 1 {
			c.fadeFrom = previous
			c.fadeStep = 0
		} else {
			c.present(ctx, c.animator.Frame())
		}
		logger.L(ctx).Info("palette changed", zap.Strings("colors", c.animator.Palette().Hex()))
	case MessageMask:
		if msg.Enabled == nil {
			return errors.New("mask message needs enabled")
		}
		c.animator.SetMaskEnabled(*msg.Enabled)
	case MessageTheme:
		c.animator.SetMaskEnabled(wallpaper.ThemeMasked(msg.Theme))
	default:
		return fmt.Errorf("unknown message type %q", msg.Type)
	}

	c.notify(ctx)
	return nil
}

func (c *Controller) present(ctx context.Context, f *wallpaper.Frame) {
	c.frames++
	c.shown = f
	kept := c.surfaces[:0]
	for _, s := range c.surfaces {
		if err := s.Present(f); err != nil {
			logger.L(ctx).Error("surface failed, dropping it", zap.String("run", c.runID), zap.Error(err))
			_ = s.Close()
			continue
		}
		kept = append(kept, s)
	}
	c.surfaces = kept
	c.publish(ctx, f, false)
}

// notify refreshes the stored state and tells listeners about it.
func (c *Controller) notify(ctx context.Context) {
	c.publish(ctx, nil, true)
}

func (c *Controller) publish(ctx context.Context, f *wallpaper.Frame, listeners bool) {
	s := c.snapshot()
	c.store.update(s, f)
	if !listeners {
		return
	}
	for _, surface := range c.surfaces {
		if l, ok := surface.(StateListener); ok {
			l.StateChanged(s)
		}
	}
}

func (c *Controller) snapshot() State {
	a := c.animator
	cfg := a.Config()
	return State{
		RunID:     c.runID,
		Palette:   a.Palette().Hex(),
		Cycle:     a.Cycle(),
		Anchors:   a.Anchors(),
		Target:    a.Target(),
		Animating: a.Animating() || c.fadeFrom != nil,
		Mask:      a.Mask(),
		MaskStyle: a.MaskStyle(),
		Width:     cfg.Width,
		Height:    cfg.Height,
		Frames:    c.frames,
	}
}

func (c *Controller) closeSurfaces(ctx context.Context) {
	for _, s := range c.surfaces {
		if err := s.Close(); err != nil {
			logger.L(ctx).Warn("close surface", zap.Error(err))
		}
	}
	c.surfaces = nil
}

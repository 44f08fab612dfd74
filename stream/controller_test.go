package stream

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/matt-g-everett/twallpaper/display"
	"github.com/matt-g-everett/twallpaper/wallpaper"
)

type fakeSurface struct {
	mu     sync.Mutex
	frames []*wallpaper.Frame
	states []State
	fail   error
	closed bool
}

func (s *fakeSurface) Present(f *wallpaper.Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return s.fail
	}
	s.frames = append(s.frames, f)
	return nil
}

func (s *fakeSurface) StateChanged(st State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states = append(s.states, st)
}

func (s *fakeSurface) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *fakeSurface) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.frames)
}

func newTestController(t *testing.T, anim AnimationConfig, surfaces ...*fakeSurface) (*Controller, *Store) {
	t.Helper()
	a, err := wallpaper.NewAnimator(wallpaper.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	store := NewStore()
	var list []display.Surface
	for _, s := range surfaces {
		list = append(list, s)
	}
	return NewController(a, store, anim, list...), store
}

func TestTickIdle(t *testing.T) {
	s := &fakeSurface{}
	c, _ := newTestController(t, AnimationConfig{}, s)
	if c.tick(context.Background()) {
		t.Error("idle tick presented a frame")
	}
	if s.count() != 0 {
		t.Errorf("surface got %d frames", s.count())
	}
}

func TestRetargetAnimatesUntilSettled(t *testing.T) {
	s := &fakeSurface{}
	c, store := newTestController(t, AnimationConfig{}, s)
	ctx := context.Background()

	if err := c.apply(ctx, ControlMessage{Type: MessageRetarget}); err != nil {
		t.Fatal(err)
	}
	if !store.Snapshot().Animating || store.Snapshot().Cycle != 1 {
		t.Errorf("state after retarget = %+v", store.Snapshot())
	}

	ticks := 0
	for c.tick(ctx) {
		ticks++
		if ticks > 100 {
			t.Fatal("animation never settled")
		}
	}
	if ticks == 0 || s.count() != ticks {
		t.Errorf("ticks = %d, frames = %d", ticks, s.count())
	}
	if store.Frame() != s.frames[len(s.frames)-1] {
		t.Error("store does not hold the last presented frame")
	}
	if store.Snapshot().Frames != uint64(ticks) {
		t.Errorf("frame counter = %d, want %d", store.Snapshot().Frames, ticks)
	}
}

func TestPaletteCrossfade(t *testing.T) {
	s := &fakeSurface{}
	c, store := newTestController(t, AnimationConfig{FrameRate: 10, Crossfade: time.Second}, s)
	ctx := context.Background()

	if err := c.apply(ctx, ControlMessage{Type: MessagePalette, Colors: []string{"#000", "#fff"}}); err != nil {
		t.Fatal(err)
	}
	if got := store.Snapshot().Palette; len(got) != 2 || got[1] != "#ffffff" {
		t.Errorf("palette = %v", got)
	}

	ticks := 0
	for c.tick(ctx) {
		ticks++
		if ticks > 20 {
			t.Fatal("crossfade never finished")
		}
	}
	if ticks != 10 {
		t.Errorf("crossfade took %d ticks, want 10", ticks)
	}
	if !s.frames[len(s.frames)-1].Equal(c.animator.Frame()) {
		t.Error("crossfade did not end on the new palette")
	}
}

func maxPixelDelta(a, b *wallpaper.Frame) int {
	pa, pb := a.Image().Pix, b.Image().Pix
	worst := 0
	for i := range pa {
		d := int(pa[i]) - int(pb[i])
		if d < 0 {
			d = -d
		}
		if d > worst {
			worst = d
		}
	}
	return worst
}

func TestPaletteChangeMidCrossfadeStartsFromScreen(t *testing.T) {
	s := &fakeSurface{}
	c, _ := newTestController(t, AnimationConfig{FrameRate: 10, Crossfade: time.Second}, s)
	ctx := context.Background()

	if err := c.apply(ctx, ControlMessage{Type: MessagePalette, Colors: []string{"#000"}}); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		if !c.tick(ctx) {
			t.Fatalf("crossfade ended after %d ticks", i)
		}
	}
	onScreen := s.frames[len(s.frames)-1]

	if err := c.apply(ctx, ControlMessage{Type: MessagePalette, Colors: []string{"#fff"}}); err != nil {
		t.Fatal(err)
	}
	if !c.tick(ctx) {
		t.Fatal("second crossfade presented nothing")
	}
	next := s.frames[len(s.frames)-1]
	if d := maxPixelDelta(onScreen, next); d > 16 {
		t.Errorf("frame jumped by %d on the second palette change", d)
	}

	for c.tick(ctx) {
	}
	if !s.frames[len(s.frames)-1].Equal(c.animator.Frame()) {
		t.Error("second crossfade did not end on the new palette")
	}
}

func TestPaletteWithoutCrossfadePresentsImmediately(t *testing.T) {
	s := &fakeSurface{}
	c, _ := newTestController(t, AnimationConfig{}, s)

	if err := c.apply(context.Background(), ControlMessage{Type: MessagePalette, Colors: []string{"#123456"}}); err != nil {
		t.Fatal(err)
	}
	if s.count() != 1 {
		t.Errorf("frames = %d, want 1", s.count())
	}
}

func TestApplyRejects(t *testing.T) {
	c, _ := newTestController(t, AnimationConfig{})
	ctx := context.Background()

	err := c.apply(ctx, ControlMessage{Type: MessagePalette, Colors: []string{"bogus"}})
	var perr *wallpaper.InvalidPaletteError
	if !errors.As(err, &perr) {
		t.Errorf("palette error = %v", err)
	}
	if err := c.apply(ctx, ControlMessage{Type: MessageMask}); err == nil {
		t.Error("mask without enabled should fail")
	}
	if err := c.apply(ctx, ControlMessage{Type: "explode"}); err == nil {
		t.Error("unknown type should fail")
	}
}

func TestMaskAndTheme(t *testing.T) {
	s := &fakeSurface{}
	c, store := newTestController(t, AnimationConfig{}, s)
	ctx := context.Background()
	off := false

	if err := c.apply(ctx, ControlMessage{Type: MessageMask, Enabled: &off}); err != nil {
		t.Fatal(err)
	}
	if st := store.Snapshot(); st.Mask.Enabled || st.MaskStyle.Opacity != wallpaper.UnmaskedOpacity {
		t.Errorf("after mask off: %+v", st.MaskStyle)
	}

	if err := c.apply(ctx, ControlMessage{Type: MessageTheme, Theme: "dark"}); err != nil {
		t.Fatal(err)
	}
	if st := store.Snapshot(); !st.Mask.Enabled || st.MaskStyle.Opacity != wallpaper.MaskedOpacity {
		t.Errorf("after dark theme: %+v", st.MaskStyle)
	}

	if len(s.states) != 2 {
		t.Errorf("listener saw %d state changes, want 2", len(s.states))
	}
}

func TestFailingSurfaceIsDropped(t *testing.T) {
	good := &fakeSurface{}
	bad := &fakeSurface{fail: errors.New("gone")}
	c, _ := newTestController(t, AnimationConfig{}, bad, good)
	ctx := context.Background()

	c.present(ctx, c.animator.Frame())
	c.present(ctx, c.animator.Frame())

	if !bad.closed {
		t.Error("failing surface was not closed")
	}
	if good.count() != 2 {
		t.Errorf("healthy surface got %d frames, want 2", good.count())
	}
	if len(c.surfaces) != 1 {
		t.Errorf("surfaces = %d, want 1", len(c.surfaces))
	}
}

func TestRunSubmitAndStop(t *testing.T) {
	s := &fakeSurface{}
	c, store := newTestController(t, AnimationConfig{FrameRate: 200}, s)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	if err := c.Submit(ctx, ControlMessage{Type: MessageRetarget}); err != nil {
		t.Fatal(err)
	}
	if store.Snapshot().Cycle != 1 {
		t.Errorf("cycle = %d, want 1", store.Snapshot().Cycle)
	}

	deadline := time.Now().Add(2 * time.Second)
	for store.Snapshot().Frames < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if store.Snapshot().Frames < 3 {
		t.Errorf("only %d frames presented", store.Snapshot().Frames)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop")
	}
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if !closed {
		t.Error("surface not closed on stop")
	}
}

func TestSubmitHonoursContext(t *testing.T) {
	c, _ := newTestController(t, AnimationConfig{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := c.Submit(ctx, ControlMessage{Type: MessageRetarget}); !errors.Is(err, context.Canceled) {
		t.Errorf("Submit without Run = %v, want context.Canceled", err)
	}
}

package display

import (
	"context"

	"github.com/gdamore/tcell/v2"
	"github.com/matt-g-everett/twallpaper/wallpaper"
)

// upperHalf paints the top pixel in the foreground and the bottom one in the
// background, giving two pixels per cell.
const upperHalf = '▀'

// Terminal previews frames in a true-color terminal.
type Terminal struct {
	screen tcell.Screen
}

// NewTerminal takes over the controlling terminal.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, &wallpaper.BackendUnavailableError{Backend: "terminal", Err: err}
	}
	return NewTerminalScreen(screen)
}

// NewTerminalScreen wraps an existing, uninitialised screen.
func NewTerminalScreen(screen tcell.Screen) (*Terminal, error) {
	if err := screen.Init(); err != nil {
		return nil, &wallpaper.BackendUnavailableError{Backend: "terminal", Err: err}
	}
	screen.HideCursor()
	screen.Clear()
	return &Terminal{screen: screen}, nil
}

func (t *Terminal) Present(f *wallpaper.Frame) error {
	w, h := t.screen.Size()
	if w <= 0 || h <= 0 {
		return nil
	}

	img := Scale(f, w, h*2)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			top := img.RGBAAt(x, y*2)
			bottom := img.RGBAAt(x, y*2+1)
			style := tcell.StyleDefault.
				Foreground(tcell.NewRGBColor(int32(top.R), int32(top.G), int32(top.B))).
				Background(tcell.NewRGBColor(int32(bottom.R), int32(bottom.G), int32(bottom.B)))
			t.screen.SetContent(x, y, upperHalf, nil, style)
		}
	}
	t.screen.Show()
	return nil
}

// Watch polls terminal input until ctx ends. Escape, Ctrl-C and q call quit;
// r and space call retarget.
func (t *Terminal) Watch(ctx context.Context, quit func(), retarget func()) {
	go func() {
		<-ctx.Done()
		// Wake PollEvent so the loop below can return.
		_ = t.screen.PostEvent(tcell.NewEventInterrupt(nil))
	}()

	for {
		ev := t.screen.PollEvent()
		if ev == nil || ctx.Err() != nil {
			return
		}
		switch ev := ev.(type) {
		case *tcell.EventResize:
			t.screen.Sync()
		case *tcell.EventKey:
			switch {
			case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC, ev.Rune() == 'q':
				quit()
			case ev.Rune() == 'r', ev.Rune() == ' ':
				retarget()
			}
		}
	}
}

func (t *Terminal) Close() error {
	t.screen.Fini()
	return nil
}

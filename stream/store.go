package stream

import (
	"sync"

	"github.com/matt-g-everett/twallpaper/wallpaper"
)

// Store holds the last presented frame and state for readers outside the
// controller goroutine.
type Store struct {
	mu    sync.RWMutex
	state State
	frame *wallpaper.Frame
}

func NewStore() *Store {
	return &Store{}
}

// Snapshot returns a copy of the state.
func (store *Store) Snapshot() State {
	store.mu.RLock()
	defer store.mu.RUnlock()
	s := store.state
	s.Palette = append([]string(nil), store.state.Palette...)
	return s
}

// Frame returns the last presented frame, or nil before the first one.
func (store *Store) Frame() *wallpaper.Frame {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.frame
}

func (store *Store) update(state State, frame *wallpaper.Frame) {
	store.mu.Lock()
	store.state = state
	if frame != nil {
		store.frame = frame
	}
	store.mu.Unlock()
}

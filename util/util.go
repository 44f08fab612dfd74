package util

import (
	"sync"

	"github.com/fogleman/ease"
)

// Easing maps progress in [0,1] to an eased value in [0,1].
type Easing func(t float64) float64

// GenerateCurve samples easing at length evenly spaced points ending at t=1, so
// the last entry is always 1.
func GenerateCurve(length int, easing Easing) []float64 {
	if length <= 0 {
		return nil
	}
	if easing == nil {
		easing = ease.Linear
	}

	lut := make([]float64, length)
	for i := range lut {
		lut[i] = easing(float64(i+1) / float64(length))
	}
	lut[length-1] = 1
	return lut
}

// Memoizer caches curves by length. The zero value is ready to use.
type Memoizer struct {
	mu     sync.Mutex
	easing Easing
	curves map[int][]float64
}

// NewMemoizer creates a Memoizer for one easing function.
func NewMemoizer(easing Easing) *Memoizer {
	m := new(Memoizer)
	m.easing = easing
	return m
}

// Curve returns the cached curve of the given length. The slice is shared and
// must not be modified.
func (m *Memoizer) Curve(length int) []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.curves == nil {
		m.curves = make(map[int][]float64)
	}
	if lut, ok := m.curves[length]; ok {
		return lut
	}
	lut := GenerateCurve(length, m.easing)
	m.curves[length] = lut
	return lut
}

package wallpaper

import (
	"encoding/binary"
	"errors"
	"image"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// Frame is one opaque raster produced by the animator.
type Frame struct {
	img *image.RGBA
}

// NewFrame creates a new Frame instance of the given size.
func NewFrame(width, height int) *Frame {
	f := new(Frame)
	f.img = image.NewRGBA(image.Rect(0, 0, width, height))
	return f
}

// Width of the frame in pixels.
func (f *Frame) Width() int { return f.img.Rect.Dx() }

// Height of the frame in pixels.
func (f *Frame) Height() int { return f.img.Rect.Dy() }

// Image exposes the frame as an image. Callers must not modify it.
func (f *Frame) Image() *image.RGBA { return f.img }

// Set writes an opaque pixel.
func (f *Frame) Set(x, y int, c colorful.Color) {
	r, g, b := c.Clamped().RGB255()
	f.img.SetRGBA(x, y, color.RGBA{R: r, G: g, B: b, A: 0xff})
}

// ColorAt reads a pixel back as a colorful.Color.
func (f *Frame) ColorAt(x, y int) colorful.Color {
	px := f.img.RGBAAt(x, y)
	return colorful.Color{R: float64(px.R) / 255, G: float64(px.G) / 255, B: float64(px.B) / 255}
}

// Equal reports whether both frames hold the same pixels.
func (f *Frame) Equal(f2 *Frame) bool {
	if f == f2 {
		return true
	}
	if f == nil || f2 == nil || f.img.Rect != f2.img.Rect {
		return false
	}
	for i := range f.img.Pix {
		if f.img.Pix[i] != f2.img.Pix[i] {
			return false
		}
	}
	return true
}

// InterpolateFrame merges two frames of the same size.
func (f *Frame) InterpolateFrame(f2 *Frame, transitionPoint float64) *Frame {
	out := NewFrame(f.Width(), f.Height())
	for y := 0; y < f.Height(); y++ {
		for x := 0; x < f.Width(); x++ {
			out.Set(x, y, f.ColorAt(x, y).BlendHcl(f2.ColorAt(x, y), transitionPoint))
		}
	}

	return out
}

// MarshalBinary encodes the frame as a little-endian uint16 width, uint16 height
// and then row-major RGB bytes.
func (f *Frame) MarshalBinary() (data []byte, err error) {
	w, h := f.Width(), f.Height()
	if w > 0xffff || h > 0xffff {
		return nil, errors.New("frame too large to encode")
	}

	data = make([]byte, 4, (w*h*3)+4)
	binary.LittleEndian.PutUint16(data, uint16(w))
	binary.LittleEndian.PutUint16(data[2:], uint16(h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			px := f.img.RGBAAt(x, y)
			data = append(data, px.R, px.G, px.B)
		}
	}

	return data, nil
}

// UnmarshalBinary decodes data produced by MarshalBinary.
func (f *Frame) UnmarshalBinary(data []byte) error {
	if len(data) < 4 {
		return errors.New("frame header truncated")
	}
	w := int(binary.LittleEndian.Uint16(data))
	h := int(binary.LittleEndian.Uint16(data[2:]))
	if len(data) != 4+w*h*3 {
		return errors.New("frame payload size mismatch")
	}

	f.img = image.NewRGBA(image.Rect(0, 0, w, h))
	rgb := data[4:]
	for i := 0; i < w*h; i++ {
		f.img.Pix[i*4] = rgb[i*3]
		f.img.Pix[i*4+1] = rgb[i*3+1]
		f.img.Pix[i*4+2] = rgb[i*3+2]
		f.img.Pix[i*4+3] = 0xff
	}
	return nil
}

// Package pixel implements the RGBA8 pixel buffer the painting engine draws
// into, together with the compositing primitives layers and brushes build on.
package pixel

import (
	"image"
	"image/color"
)

// Buffer is a width×height grid of straight-alpha RGBA pixels stored row
// major, four bytes per pixel. Coordinates outside the grid are ignored by
// every accessor.
//
// A Buffer is not safe for concurrent use.
type Buffer struct {
	width  int
	height int
	data   []uint8
}

// New returns a fully transparent buffer. Negative dimensions are treated
// as zero.
func New(width, height int) *Buffer {
	width = max(width, 0)
	height = max(height, 0)
	return &Buffer{
		width:  width,
		height: height,
		data:   make([]uint8, width*height*4),
	}
}

// FromBytes builds a buffer from raw RGBA bytes. If len(b) is not
// width*height*4 the bytes are rejected and an empty buffer of the
// requested size is returned instead.
func FromBytes(b []uint8, width, height int) *Buffer {
	buf := New(width, height)
	if len(b) == len(buf.data) {
		copy(buf.data, b)
	}
	return buf
}

// Width returns the width in pixels.
func (b *Buffer) Width() int { return b.width }

// Height returns the height in pixels.
func (b *Buffer) Height() int { return b.height }

// Bytes returns a copy of the backing RGBA bytes.
func (b *Buffer) Bytes() []uint8 {
	out := make([]uint8, len(b.data))
	copy(out, b.data)
	return out
}

// In reports whether (x, y) lies inside the buffer.
func (b *Buffer) In(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

func (b *Buffer) offset(x, y int) int {
	return (y*b.width + x) * 4
}

// Pixel returns the color at (x, y). ok is false outside the buffer.
func (b *Buffer) Pixel(x, y int) (c color.NRGBA, ok bool) {
	if !b.In(x, y) {
		return color.NRGBA{}, false
	}
	i := b.offset(x, y)
	return color.NRGBA{R: b.data[i], G: b.data[i+1], B: b.data[i+2], A: b.data[i+3]}, true
}

// alpha returns the alpha byte at (x, y), or 0 outside the buffer.
func (b *Buffer) alpha(x, y int) uint8 {
	if !b.In(x, y) {
		return 0
	}
	return b.data[b.offset(x, y)+3]
}

// SetPixel overwrites the pixel at (x, y).
func (b *Buffer) SetPixel(x, y int, c color.NRGBA) {
	if !b.In(x, y) {
		return
	}
	i := b.offset(x, y)
	b.data[i+0] = c.R
	b.data[i+1] = c.G
	b.data[i+2] = c.B
	b.data[i+3] = c.A
}

// Fill sets every pixel to c.
func (b *Buffer) Fill(c color.NRGBA) {
	for i := 0; i < len(b.data); i += 4 {
		b.data[i+0] = c.R
		b.data[i+1] = c.G
		b.data[i+2] = c.B
		b.data[i+3] = c.A
	}
}

// Clear makes every pixel fully transparent black.
func (b *Buffer) Clear() {
	clear(b.data)
}

// CopyFrom copies all pixels of src into b. Buffers of different sizes are
// left untouched.
func (b *Buffer) CopyFrom(src *Buffer) {
	if b.width != src.width || b.height != src.height {
		return
	}
	copy(b.data, src.data)
}

// Clone returns an independent copy of b.
func (b *Buffer) Clone() *Buffer {
	return FromBytes(b.data, b.width, b.height)
}

// ToImage copies the buffer into an image.NRGBA.
func (b *Buffer) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, b.width, b.height))
	copy(img.Pix, b.data)
	return img
}

// At implements the image.Image interface.
func (b *Buffer) At(x, y int) color.Color {
	c, _ := b.Pixel(x, y)
	return c
}

// Bounds implements the image.Image interface.
func (b *Buffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.width, b.height)
}

// ColorModel implements the image.Image interface.
func (b *Buffer) ColorModel() color.Model {
	return color.NRGBAModel
}

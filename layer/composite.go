package layer

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"artflow/pixel"
)

// SampleMode selects what SampleColor reads.
type SampleMode uint8

const (
	SampleActive    SampleMode = iota // the active layer only
	SampleComposite                   // all visible layers flattened
)

// CompositeAll clears out and draws every visible layer onto it, bottom to
// top, with source-over weighted by layer opacity. Blend mode tags are not
// applied.
func (s *Stack) CompositeAll(out *pixel.Buffer) {
	out.Clear()
	for _, l := range s.layers {
		if l.Visible {
			out.Composite(l.buf, 0, 0, l.Opacity)
		}
	}
}

// SampleColor returns the colour at (x, y). ok is false outside the canvas.
func (s *Stack) SampleColor(x, y int, mode SampleMode) (c color.NRGBA, ok bool) {
	if mode == SampleActive {
		return s.Active().buf.Pixel(x, y)
	}

	out, src := pixel.New(1, 1), pixel.New(1, 1)
	for _, l := range s.layers {
		p, in := l.buf.Pixel(x, y)
		if !in {
			return color.NRGBA{}, false
		}
		if !l.Visible {
			continue
		}
		src.SetPixel(0, 0, p)
		out.Composite(src, 0, 0, l.Opacity)
	}
	return out.Pixel(0, 0)
}

// Thumbnail returns layer i scaled to width×height, or nil if i is invalid
// or the size is empty.
func (s *Stack) Thumbnail(i, width, height int) *image.NRGBA {
	l := s.Layer(i)
	if l == nil || width <= 0 || height <= 0 {
		return nil
	}
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	src := l.buf.ToImage()
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

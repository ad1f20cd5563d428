package pixel

import (
	"image/color"

	"github.com/chewxy/math32"
)

// DabOptions controls how DrawCircle deposits paint.
type DabOptions struct {
	// Hardness is the normalised radius (0..1) up to which the dab is fully
	// opaque. Beyond it opacity falls off linearly to zero at the rim.
	Hardness float32

	// Grain modulates opacity with position-stable noise. 0 disables it.
	Grain float32

	// AlphaLock keeps paint inside already painted pixels.
	AlphaLock bool

	// Eraser removes alpha instead of depositing colour.
	Eraser bool

	// Clip, if set, scales opacity by its alpha at each pixel. It is only
	// read, never written.
	Clip *Buffer
}

// BlendPixel composites c over the pixel at (x, y) using source-over.
//
// With alphaLock the source alpha is limited to the destination alpha and
// the destination alpha byte is kept, so transparent pixels stay
// transparent. With eraser the destination alpha is scaled by (1-srcA) and
// the colour channels are left alone; eraser wins over alphaLock.
func (b *Buffer) BlendPixel(x, y int, c color.NRGBA, alphaLock, eraser bool) {
	if !b.In(x, y) {
		return
	}
	i := b.offset(x, y)
	px := b.data[i : i+4 : i+4]

	srcA := float32(c.A) / 255
	if eraser {
		px[3] = to8(float32(px[3]) * (1 - srcA))
		return
	}

	dstA := float32(px[3]) / 255
	if alphaLock {
		srcA = min(srcA, dstA)
	}
	rest := dstA * (1 - srcA)
	outA := srcA + rest
	if outA > 0 {
		px[0] = to8((float32(c.R)*srcA + float32(px[0])*rest) / outA)
		px[1] = to8((float32(c.G)*srcA + float32(px[1])*rest) / outA)
		px[2] = to8((float32(c.B)*srcA + float32(px[2])*rest) / outA)
	}
	if !alphaLock {
		px[3] = to8(outA * 255)
	}
}

// DrawCircle paints a round dab of the given radius centred on (cx, cy).
func (b *Buffer) DrawCircle(cx, cy int, radius float32, c color.NRGBA, opts DabOptions) {
	if radius <= 0 || c.A == 0 {
		return
	}
	fcx, fcy := float32(cx), float32(cy)
	minX := max(0, int(fcx-radius-1))
	maxX := min(b.width-1, int(fcx+radius+1))
	minY := max(0, int(fcy-radius-1))
	maxY := min(b.height-1, int(fcy+radius+1))

	grain := clamp01(opts.Grain)
	r2 := radius * radius
	for py := minY; py <= maxY; py++ {
		dy := float32(py - cy)
		for px := minX; px <= maxX; px++ {
			dx := float32(px - cx)
			d2 := dx*dx + dy*dy
			if d2 > r2 {
				continue
			}

			a := float32(c.A) * falloff(math32.Sqrt(d2)/radius, opts.Hardness)
			if grain > 0 {
				a *= grainAt(px, py, grain)
			}
			if opts.Clip != nil {
				a *= float32(opts.Clip.alpha(px, py)) / 255
			}
			pa := uint8(min(a, 255))
			if pa == 0 {
				continue
			}
			b.BlendPixel(px, py, color.NRGBA{R: c.R, G: c.G, B: c.B, A: pa}, opts.AlphaLock, opts.Eraser)
		}
	}
}

// Composite draws src over b with its top-left corner at (offsetX,
// offsetY), scaling source alpha by opacity. Transparent source pixels are
// skipped, so compositing an empty buffer changes nothing.
func (b *Buffer) Composite(src *Buffer, offsetX, offsetY int, opacity float32) {
	opacity = clamp01(opacity)
	for sy := 0; sy < src.height; sy++ {
		dy := sy + offsetY
		if dy < 0 || dy >= b.height {
			continue
		}
		for sx := 0; sx < src.width; sx++ {
			dx := sx + offsetX
			if dx < 0 || dx >= b.width {
				continue
			}
			i := src.offset(sx, sy)
			a := uint8(float32(src.data[i+3]) * opacity)
			if a == 0 {
				continue
			}
			b.BlendPixel(dx, dy, color.NRGBA{R: src.data[i], G: src.data[i+1], B: src.data[i+2], A: a}, false, false)
		}
	}
}

// falloff maps a normalised distance to dab opacity.
func falloff(d, hardness float32) float32 {
	if d <= hardness {
		return 1
	}
	return clamp01(1 - (d-hardness)/(1-hardness))
}

// grainAt returns the opacity factor for paper grain at a pixel. It only
// depends on the pixel position, so overlapping dabs of one stroke see the
// same texture.
func grainAt(x, y int, grain float32) float32 {
	fine := hash2(uint32(x), uint32(y))
	coarse := hash2(uint32(x>>2)+0x9e37, uint32(y>>2)+0x79b9)
	n := 0.7*fine + 0.3*coarse
	n = n * n * (3 - 2*n)
	return (1 - grain) + n*grain
}

// hash2 is an integer hash of a coordinate pair mapped to [0, 1].
func hash2(x, y uint32) float32 {
	h := x*1597334677 ^ y*3812015801
	h *= 0x85ebca6b
	h ^= h >> 13
	h *= 0xc2b2ae35
	h ^= h >> 16
	return float32(h&0xffff) / 0xffff
}

func to8(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v + 0.5)
}

func clamp01(v float32) float32 {
	return min(max(v, 0), 1)
}

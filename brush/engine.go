// Package brush turns pointer samples into dabs on a pixel buffer.
package brush

import (
	"image/color"
	"iter"
	"math/rand/v2"

	"github.com/chewxy/math32"

	"artflow/internal/logging"
	"artflow/pixel"
)

// minSpacing is the smallest distance in pixels between two dabs.
const minSpacing = 0.25

// maxSteps caps the dabs of a single segment.
const maxSteps = 1000

// pickup is the share of canvas colour a wet brush picks up per dab.
const pickup = 0.2

// StrokePoint is one input sample.
type StrokePoint struct {
	X, Y         float32
	Pressure     float32 // 0..1
	TiltX, TiltY float32
	Timestamp    uint64
}

// Target is where dabs land. AlphaLock and Clip come from the layer being
// painted and are passed through to the buffer untouched.
type Target struct {
	Buf       *pixel.Buffer
	AlphaLock bool
	Clip      *pixel.Buffer // read only
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand sets the random source used for jitter.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) {
		e.rng = r
	}
}

// Engine renders strokes with the current brush and colour.
//
// An Engine is either idle or stroking. BeginStroke starts a session,
// EndStroke closes it; beginning again without ending drops the previous
// session. An Engine is not safe for concurrent use.
type Engine struct {
	brush Settings
	color color.NRGBA
	rng   *rand.Rand

	stroking bool
	last     StrokePoint
	distance float32
}

// NewEngine returns an idle engine with DefaultSettings and opaque black.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		brush: DefaultSettings(),
		color: color.NRGBA{A: 255},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return e
}

// SetBrush replaces the brush configuration.
func (e *Engine) SetBrush(s Settings) { e.brush = s }

// Brush returns the current brush configuration.
func (e *Engine) Brush() Settings { return e.brush }

// SetColor replaces the paint colour.
func (e *Engine) SetColor(c color.NRGBA) { e.color = c }

// Color returns the paint colour.
func (e *Engine) Color() color.NRGBA { return e.color }

// Stroking reports whether a stroke session is open.
func (e *Engine) Stroking() bool { return e.stroking }

// LastPoint returns the most recent sample of the open stroke.
func (e *Engine) LastPoint() StrokePoint { return e.last }

// Distance returns the path length covered by the open stroke so far.
func (e *Engine) Distance() float32 { return e.distance }

// BeginStroke opens a new stroke session at p.
func (e *Engine) BeginStroke(p StrokePoint) {
	if e.stroking {
		logging.Logger().Debug("stroke restarted", "distance", e.distance)
	}
	e.stroking = true
	e.last = p
	e.distance = 0
}

// ContinueStroke records p as the latest sample. It does nothing while idle.
func (e *Engine) ContinueStroke(p StrokePoint) {
	if !e.stroking {
		return
	}
	dx, dy := p.X-e.last.X, p.Y-e.last.Y
	e.distance += math32.Sqrt(dx*dx + dy*dy)
	e.last = p
}

// EndStroke closes the session.
func (e *Engine) EndStroke() {
	if e.stroking {
		logging.Logger().Debug("stroke end", "distance", e.distance, "type", e.brush.Type)
	}
	e.stroking = false
	e.last = StrokePoint{}
	e.distance = 0
}

// MoveTo renders the segment from the last sample of the open stroke to p
// and then continues the stroke. It returns the number of dabs rendered.
func (e *Engine) MoveTo(t Target, p StrokePoint) int {
	if !e.stroking {
		return 0
	}
	n := e.RenderStrokeSegment(t, e.last, p)
	e.ContinueStroke(p)
	return n
}

// RenderStrokeSegment draws one dab for every point Interpolate yields and
// returns how many were drawn.
func (e *Engine) RenderStrokeSegment(t Target, from, to StrokePoint) int {
	n := 0
	for p := range e.Interpolate(from, to) {
		e.RenderDab(t, p.X, p.Y, p.Pressure)
		n++
	}
	return n
}

// Interpolate returns the dab positions between from and to.
//
// The end point is first pulled towards from by the brush stabilization.
// Points are then spaced Size*Spacing apart (at least minSpacing), with
// position and pressure interpolated linearly. Any movement yields between
// one and maxSteps points; no movement, or a NaN coordinate, yields none.
// The sequence can be ranged over once.
func (e *Engine) Interpolate(from, to StrokePoint) iter.Seq[StrokePoint] {
	k := 1 - clamp01(e.brush.Stabilization)
	end := to
	end.X = from.X + (to.X-from.X)*k
	end.Y = from.Y + (to.Y-from.Y)*k

	dx, dy := end.X-from.X, end.Y-from.Y
	dist := math32.Sqrt(dx*dx + dy*dy)
	spacing := max(minSpacing, e.brush.Size*e.brush.Spacing)
	var steps int
	switch q := math32.Floor(dist / spacing); {
	case !(dist > 0):
		// no movement, or NaN coordinates
	case q < 1:
		steps = 1
	case q >= maxSteps:
		steps = maxSteps
	default:
		steps = int(q)
	}

	used := false
	return func(yield func(StrokePoint) bool) {
		if used {
			return
		}
		used = true
		for i := 1; i <= steps; i++ {
			f := float32(i) / float32(steps)
			p := end
			p.X = from.X + dx*f
			p.Y = from.Y + dy*f
			p.Pressure = from.Pressure + (end.Pressure-from.Pressure)*f
			if !yield(p) {
				return
			}
		}
	}
}

// RenderDab draws a single dab at (x, y).
func (e *Engine) RenderDab(t Target, x, y, pressure float32) {
	if t.Buf == nil {
		return
	}
	s := e.brush
	size := e.dabSize(pressure)
	opacity := e.dabOpacity(pressure)

	if s.Jitter > 0 {
		r := size * s.Jitter
		x += (e.rng.Float32()*2 - 1) * r
		y += (e.rng.Float32()*2 - 1) * r
	}
	cx, cy := int(math32.Floor(x)), int(math32.Floor(y))

	opts := pixel.DabOptions{
		Hardness:  s.Hardness,
		Grain:     s.Grain,
		AlphaLock: t.AlphaLock,
		Clip:      t.Clip,
	}
	c := e.color
	switch s.Type {
	case Eraser:
		opts.Eraser = true
		opts.Grain = 0
		t.Buf.DrawCircle(cx, cy, size/2, color.NRGBA{A: uint8(opacity * 255)}, opts)
		return
	case Watercolor, Oil:
		if dst, ok := t.Buf.Pixel(cx, cy); ok && dst.A > 0 {
			c.R = uint8(float32(c.R)*(1-pickup) + float32(dst.R)*pickup)
			c.G = uint8(float32(c.G)*(1-pickup) + float32(dst.G)*pickup)
			c.B = uint8(float32(c.B)*(1-pickup) + float32(dst.B)*pickup)
		}
	}
	c.A = uint8(opacity * float32(c.A))
	t.Buf.DrawCircle(cx, cy, size/2, c, opts)
}

// dabSize applies the pressure response: full pressure gives the brush
// size, zero pressure a fifth of it, along a smoothstep curve.
func (e *Engine) dabSize(pressure float32) float32 {
	size := e.brush.Size
	if e.brush.SizeByPressure {
		p := clamp01(pressure)
		size *= 0.2 + 0.8*p*p*(3-2*p)
	}
	return size
}

func (e *Engine) dabOpacity(pressure float32) float32 {
	opacity := e.brush.Opacity * e.brush.Flow
	if e.brush.OpacityByPressure {
		opacity *= 0.1 + 0.9*clamp01(pressure)
	}
	return clamp01(opacity)
}

func clamp01(v float32) float32 {
	return min(max(v, 0), 1)
}

// Package canvas wires the brush engine to a layer stack. A host feeds it
// pointer events; it paints into the active layer and flattens on request.
package canvas

import (
	"fmt"

	"artflow/brush"
	"artflow/internal/logging"
	"artflow/layer"
	"artflow/pixel"
)

// EventKind distinguishes the three pointer events of a stroke.
type EventKind uint8

const (
	Begin EventKind = iota
	Move
	End
)

func (k EventKind) String() string {
	switch k {
	case Begin:
		return "begin"
	case Move:
		return "move"
	case End:
		return "end"
	}
	return fmt.Sprintf("EventKind(%d)", k)
}

// Event is one input sample from the host.
type Event struct {
	Kind  EventKind
	Point brush.StrokePoint
}

// Canvas is a layer stack plus the engine painting into it. Like its parts
// it is single threaded: snapshot it only between strokes.
type Canvas struct {
	Layers *layer.Stack
	Brush  *brush.Engine

	// OnStrokeEnd, if set, runs after every completed stroke. It is the
	// place for work such as timelapse snapshots.
	OnStrokeEnd func(*Canvas)

	dabs int
}

// New returns a canvas with a "Background" layer and an active "Layer 1"
// above it.
func New(width, height int, opts ...brush.Option) *Canvas {
	c := &Canvas{
		Layers: layer.NewStack(width, height),
		Brush:  brush.NewEngine(opts...),
	}
	c.Layers.AddLayer("Layer 1")
	return c
}

// target resolves where the next dab goes. ok is false for locked layers.
func (c *Canvas) target() (t brush.Target, ok bool) {
	i := c.Layers.ActiveIndex()
	l := c.Layers.Active()
	if l.Locked {
		return brush.Target{}, false
	}
	return brush.Target{
		Buf:       l.Buffer(),
		AlphaLock: l.AlphaLock,
		Clip:      c.Layers.ClipMask(i),
	}, true
}

// Handle applies one pointer event and returns the number of dabs it drew.
func (c *Canvas) Handle(ev Event) int {
	switch ev.Kind {
	case Begin:
		return c.BeginStroke(ev.Point)
	case Move:
		return c.MoveStroke(ev.Point)
	case End:
		c.EndStroke()
	}
	return 0
}

// BeginStroke starts a stroke on the active layer and stamps the first dab.
func (c *Canvas) BeginStroke(p brush.StrokePoint) int {
	c.Brush.BeginStroke(p)
	c.dabs = 0
	t, ok := c.target()
	if !ok {
		logging.Logger().Debug("active layer locked", "layer", c.Layers.Active().Name)
		return 0
	}
	c.Brush.RenderDab(t, p.X, p.Y, p.Pressure)
	c.dabs++
	return 1
}

// MoveStroke extends the current stroke to p.
func (c *Canvas) MoveStroke(p brush.StrokePoint) int {
	if !c.Brush.Stroking() {
		return 0
	}
	t, ok := c.target()
	if !ok {
		c.Brush.ContinueStroke(p)
		return 0
	}
	n := c.Brush.MoveTo(t, p)
	c.dabs += n
	return n
}

// EndStroke finishes the current stroke. Ending while idle does nothing.
func (c *Canvas) EndStroke() {
	if !c.Brush.Stroking() {
		return
	}
	logging.Logger().Debug("stroke done", "layer", c.Layers.Active().Name, "dabs", c.dabs,
		"distance", c.Brush.Distance())
	c.Brush.EndStroke()
	if c.OnStrokeEnd != nil {
		c.OnStrokeEnd(c)
	}
}

// Stroke plays a whole stroke through points: a begin on the first, moves
// on the rest, then an end. It returns the dabs drawn.
func (c *Canvas) Stroke(points []brush.StrokePoint) int {
	if len(points) == 0 {
		return 0
	}
	n := c.BeginStroke(points[0])
	for _, p := range points[1:] {
		n += c.MoveStroke(p)
	}
	c.EndStroke()
	return n
}

// Flatten composites the visible layers into a new buffer.
func (c *Canvas) Flatten() *pixel.Buffer {
	out := pixel.New(c.Layers.Width(), c.Layers.Height())
	c.Layers.CompositeAll(out)
	return out
}

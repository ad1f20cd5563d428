// Package script replays recorded painting sessions. A script is a JSON
// document describing the canvas and an ordered list of actions: layer
// edits, brush and colour changes, and strokes made of pointer samples.
package script

import (
	"encoding/json"
	"fmt"
	"image/color"
	"io"

	"artflow/brush"
	"artflow/canvas"
	"artflow/internal/logging"
	"artflow/layer"
)

// MaxSide bounds the canvas width and height a script may ask for.
const MaxSide = 16384

// Script is a decoded painting session.
type Script struct {
	Width      int      `json:"width"`
	Height     int      `json:"height"`
	Background string   `json:"background,omitempty"`
	Actions    []Action `json:"actions"`

	background *color.NRGBA
}

// Action is one step of a script. Do names the step; the other fields are
// read depending on it. Index defaults to the active layer.
type Action struct {
	Do string `json:"do"`

	Index *int   `json:"index,omitempty"`
	To    int    `json:"to,omitempty"`
	Name  string `json:"name,omitempty"`

	Opacity   *float32         `json:"opacity,omitempty"`
	Blend     *layer.BlendMode `json:"blend,omitempty"`
	Visible   *bool            `json:"visible,omitempty"`
	Locked    *bool            `json:"locked,omitempty"`
	AlphaLock *bool            `json:"alphaLock,omitempty"`
	Clipped   *bool            `json:"clipped,omitempty"`

	Preset   string          `json:"preset,omitempty"`
	Settings json.RawMessage `json:"settings,omitempty"`
	Color    string          `json:"color,omitempty"`

	Points []Point `json:"points,omitempty"`
}

// Point is one pointer sample. Pressure defaults to 1.
type Point struct {
	X         float32  `json:"x"`
	Y         float32  `json:"y"`
	Pressure  *float32 `json:"p,omitempty"`
	TiltX     float32  `json:"tiltX,omitempty"`
	TiltY     float32  `json:"tiltY,omitempty"`
	Timestamp uint64   `json:"t,omitempty"`
}

func (p Point) stroke() brush.StrokePoint {
	sp := brush.StrokePoint{X: p.X, Y: p.Y, Pressure: 1, TiltX: p.TiltX, TiltY: p.TiltY, Timestamp: p.Timestamp}
	if p.Pressure != nil {
		sp.Pressure = *p.Pressure
	}
	return sp
}

// Decode reads and validates a script.
func Decode(r io.Reader) (*Script, error) {
	var s Script
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("could not decode script: %w", err)
	}

	if s.Width <= 0 || s.Height <= 0 || s.Width > MaxSide || s.Height > MaxSide {
		return nil, fmt.Errorf("invalid canvas size %dx%d", s.Width, s.Height)
	}
	if s.Background != "" {
		c, err := ParseColor(s.Background)
		if err != nil {
			return nil, fmt.Errorf("invalid background: %w", err)
		}
		s.background = &c
	}
	return &s, nil
}

// NewCanvas creates the canvas the script expects, with the background
// colour, if any, filled into the bottom layer.
func (s *Script) NewCanvas(opts ...brush.Option) *canvas.Canvas {
	c := canvas.New(s.Width, s.Height, opts...)
	if s.background != nil {
		c.Layers.Layer(0).Buffer().Fill(*s.background)
	}
	return c
}

// Play applies every action to c in order and stops at the first one that
// fails.
func (s *Script) Play(c *canvas.Canvas) error {
	logger := logging.Logger()
	logger.Info("playing script", "actions", len(s.Actions), "width", s.Width, "height", s.Height)

	for i, a := range s.Actions {
		if err := a.apply(c); err != nil {
			return fmt.Errorf("action %d (%s): %w", i, a.Do, err)
		}
		logger.Debug("applied action", "index", i, "do", a.Do)
	}
	return nil
}

func (a *Action) index(c *canvas.Canvas) (int, error) {
	i := c.Layers.ActiveIndex()
	if a.Index != nil {
		i = *a.Index
	}
	if c.Layers.Layer(i) == nil {
		return 0, fmt.Errorf("no layer at index %d", i)
	}
	return i, nil
}

func (a *Action) apply(c *canvas.Canvas) error {
	stack := c.Layers

	switch a.Do {
	case "layer.add":
		name := a.Name
		if name == "" {
			name = fmt.Sprintf("Layer %d", stack.Len())
		}
		stack.AddLayer(name)

	case "layer.select":
		i, err := a.index(c)
		if err != nil {
			return err
		}
		stack.SetActive(i)

	case "layer.remove":
		i, err := a.index(c)
		if err != nil {
			return err
		}
		if !stack.RemoveLayer(i) {
			return fmt.Errorf("cannot remove the last layer")
		}

	case "layer.move":
		i, err := a.index(c)
		if err != nil {
			return err
		}
		if !stack.MoveLayer(i, a.To) {
			return fmt.Errorf("cannot move layer %d to %d", i, a.To)
		}

	case "layer.duplicate":
		i, err := a.index(c)
		if err != nil {
			return err
		}
		stack.DuplicateLayer(i)

	case "layer.merge":
		i, err := a.index(c)
		if err != nil {
			return err
		}
		// merging the bottom or a hidden layer is a no-op, not an error
		stack.MergeDown(i)

	case "layer.clear":
		i, err := a.index(c)
		if err != nil {
			return err
		}
		stack.ClearLayer(i)

	case "layer.set":
		i, err := a.index(c)
		if err != nil {
			return err
		}
		a.setProperties(stack, i)

	case "brush":
		s := c.Brush.Brush()
		if a.Preset != "" {
			p, ok := brush.Preset(a.Preset)
			if !ok {
				return fmt.Errorf("unknown brush preset %q", a.Preset)
			}
			s = p
		}
		if len(a.Settings) > 0 {
			if err := json.Unmarshal(a.Settings, &s); err != nil {
				return fmt.Errorf("invalid brush settings: %w", err)
			}
		}
		c.Brush.SetBrush(s)

	case "color":
		col, err := ParseColor(a.Color)
		if err != nil {
			return err
		}
		c.Brush.SetColor(col)

	case "stroke":
		if len(a.Points) == 0 {
			return fmt.Errorf("stroke without points")
		}
		pts := make([]brush.StrokePoint, len(a.Points))
		for j, p := range a.Points {
			pts[j] = p.stroke()
		}
		c.Stroke(pts)

	default:
		return fmt.Errorf("unknown action %q", a.Do)
	}
	return nil
}

func (a *Action) setProperties(stack *layer.Stack, i int) {
	if a.Name != "" {
		stack.Rename(i, a.Name)
	}
	if a.Opacity != nil {
		stack.SetOpacity(i, *a.Opacity)
	}
	if a.Blend != nil {
		stack.SetBlendMode(i, *a.Blend)
	}
	if a.Visible != nil {
		stack.SetVisible(i, *a.Visible)
	}
	if a.Locked != nil {
		stack.SetLocked(i, *a.Locked)
	}
	if a.AlphaLock != nil {
		stack.SetAlphaLock(i, *a.AlphaLock)
	}
	if a.Clipped != nil {
		stack.SetClipped(i, *a.Clipped)
	}
}

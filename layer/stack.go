// Package layer keeps the ordered stack of painting layers and flattens it
// into a single image.
package layer

import (
	"iter"
	"slices"

	"github.com/google/uuid"

	"artflow/internal/logging"
	"artflow/pixel"
)

// Layer is one sheet of the painting. It owns its pixel buffer.
//
// The exported properties may be read freely; edit them through the Stack
// so that watchers are notified.
type Layer struct {
	ID        uuid.UUID
	Name      string
	Opacity   float32 // 0..1
	Blend     BlendMode
	Visible   bool
	Locked    bool
	AlphaLock bool
	Clipped   bool // clipped to the layer directly below

	buf *pixel.Buffer
}

func newLayer(name string, width, height int) *Layer {
	return &Layer{
		ID:      uuid.New(),
		Name:    name,
		Opacity: 1,
		Visible: true,
		buf:     pixel.New(width, height),
	}
}

// Buffer returns the layer's pixels.
func (l *Layer) Buffer() *pixel.Buffer { return l.buf }

// Stack is an ordered, never empty list of layers, bottom first, with one
// of them marked active. The active layer is tracked by position only.
//
// A Stack is not safe for concurrent use.
type Stack struct {
	width   int
	height  int
	layers  []*Layer
	active  int
	version uint64

	// OnChange, if set, is called after every structural or property edit.
	OnChange func()
}

// NewStack returns a stack holding a single transparent "Background" layer.
func NewStack(width, height int) *Stack {
	return &Stack{
		width:  width,
		height: height,
		layers: []*Layer{newLayer("Background", width, height)},
	}
}

func (s *Stack) changed(op string, index int) {
	s.version++
	logging.Logger().Debug("layer stack changed", "op", op, "index", index, "layers", len(s.layers))
	if s.OnChange != nil {
		s.OnChange()
	}
}

func (s *Stack) valid(i int) bool {
	return i >= 0 && i < len(s.layers)
}

// Width returns the canvas width shared by all layers.
func (s *Stack) Width() int { return s.width }

// Height returns the canvas height shared by all layers.
func (s *Stack) Height() int { return s.height }

// Len returns the number of layers.
func (s *Stack) Len() int { return len(s.layers) }

// Version increases with every edit. Hosts can poll it to notice changes.
func (s *Stack) Version() uint64 { return s.version }

// Layer returns the layer at index i, or nil.
func (s *Stack) Layer(i int) *Layer {
	if !s.valid(i) {
		return nil
	}
	return s.layers[i]
}

// Layers iterates bottom to top.
func (s *Stack) Layers() iter.Seq2[int, *Layer] {
	return slices.All(s.layers)
}

// ActiveIndex returns the position of the active layer.
func (s *Stack) ActiveIndex() int { return s.active }

// Active returns the active layer.
func (s *Stack) Active() *Layer { return s.layers[s.active] }

// SetActive makes layer i active. Invalid indices are ignored.
func (s *Stack) SetActive(i int) bool {
	if !s.valid(i) {
		return false
	}
	s.active = i
	s.changed("select", i)
	return true
}

// AddLayer puts a new transparent layer on top, makes it active and
// returns its index.
func (s *Stack) AddLayer(name string) int {
	s.layers = append(s.layers, newLayer(name, s.width, s.height))
	s.active = len(s.layers) - 1
	s.changed("add", s.active)
	return s.active
}

// RemoveLayer deletes layer i unless it is the last one left.
func (s *Stack) RemoveLayer(i int) bool {
	if !s.valid(i) || len(s.layers) == 1 {
		return false
	}
	s.layers = slices.Delete(s.layers, i, i+1)
	s.active = min(max(s.active, 0), len(s.layers)-1)
	s.changed("remove", i)
	return true
}

// MoveLayer moves the layer at from so that it ends up at index to.
func (s *Stack) MoveLayer(from, to int) bool {
	if !s.valid(from) || !s.valid(to) {
		return false
	}
	l := s.layers[from]
	s.layers = slices.Insert(slices.Delete(s.layers, from, from+1), to, l)
	s.changed("move", to)
	return true
}

// DuplicateLayer inserts an independent copy of layer i directly above it
// and returns the copy's index, or -1 if i is invalid.
func (s *Stack) DuplicateLayer(i int) int {
	if !s.valid(i) {
		return -1
	}
	src := s.layers[i]
	dup := *src
	dup.ID = uuid.New()
	dup.Name = src.Name + " Copy"
	dup.buf = src.buf.Clone()
	s.layers = slices.Insert(s.layers, i+1, &dup)
	s.changed("duplicate", i+1)
	return i + 1
}

// MergeDown composites layer i onto the layer below with its opacity and
// removes it. Bottom and hidden layers are left alone.
func (s *Stack) MergeDown(i int) bool {
	if i <= 0 || !s.valid(i) {
		return false
	}
	top, bottom := s.layers[i], s.layers[i-1]
	if !top.Visible {
		return false
	}
	bottom.buf.Composite(top.buf, 0, 0, top.Opacity)
	return s.RemoveLayer(i)
}

// ClipMask returns the buffer layer i is clipped to, or nil when it is not
// clipped or has nothing below. The result must not be kept.
func (s *Stack) ClipMask(i int) *pixel.Buffer {
	if i <= 0 || !s.valid(i) || !s.layers[i].Clipped {
		return nil
	}
	return s.layers[i-1].buf
}

func (s *Stack) edit(i int, op string, f func(*Layer)) bool {
	if !s.valid(i) {
		return false
	}
	f(s.layers[i])
	s.changed(op, i)
	return true
}

// Rename sets the display name of layer i.
func (s *Stack) Rename(i int, name string) bool {
	return s.edit(i, "rename", func(l *Layer) { l.Name = name })
}

// SetOpacity sets the opacity of layer i, clamped to 0..1. NaN is refused.
func (s *Stack) SetOpacity(i int, opacity float32) bool {
	if opacity != opacity {
		return false
	}
	return s.edit(i, "opacity", func(l *Layer) { l.Opacity = min(max(opacity, 0), 1) })
}

// SetBlendMode sets the blend mode tag of layer i.
func (s *Stack) SetBlendMode(i int, m BlendMode) bool {
	return s.edit(i, "blend", func(l *Layer) { l.Blend = m })
}

func (s *Stack) SetVisible(i int, v bool) bool {
	return s.edit(i, "visible", func(l *Layer) { l.Visible = v })
}

func (s *Stack) SetLocked(i int, v bool) bool {
	return s.edit(i, "locked", func(l *Layer) { l.Locked = v })
}

func (s *Stack) SetAlphaLock(i int, v bool) bool {
	return s.edit(i, "alpha-lock", func(l *Layer) { l.AlphaLock = v })
}

func (s *Stack) SetClipped(i int, v bool) bool {
	return s.edit(i, "clipped", func(l *Layer) { l.Clipped = v })
}

// ClearLayer erases every pixel of layer i.
func (s *Stack) ClearLayer(i int) bool {
	return s.edit(i, "clear", func(l *Layer) { l.buf.Clear() })
}

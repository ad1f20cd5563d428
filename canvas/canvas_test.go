package canvas

import (
	"bytes"
	"image/color"
	"math/rand/v2"
	"testing"

	"artflow/brush"
)

func newTestCanvas(w, h int) *Canvas {
	c := New(w, h, brush.WithRand(rand.New(rand.NewPCG(3, 4))))
	s := brush.DefaultSettings()
	s.Size = 4
	s.Hardness = 1
	s.Spacing = 0.5
	s.Stabilization = 0
	c.Brush.SetBrush(s)
	c.Brush.SetColor(color.NRGBA{R: 200, A: 255})
	return c
}

func line(x0, x1, y float32) []brush.StrokePoint {
	return []brush.StrokePoint{{X: x0, Y: y, Pressure: 1}, {X: x1, Y: y, Pressure: 1}}
}

func TestNew(t *testing.T) {
	c := New(10, 5)
	if c.Layers.Len() != 2 || c.Layers.ActiveIndex() != 1 {
		t.Fatalf("len %d active %d", c.Layers.Len(), c.Layers.ActiveIndex())
	}
	if c.Layers.Active().Name != "Layer 1" {
		t.Errorf("active layer = %q", c.Layers.Active().Name)
	}
}

func TestHandleEvents(t *testing.T) {
	c := newTestCanvas(32, 8)
	ended := 0
	c.OnStrokeEnd = func(*Canvas) { ended++ }

	if n := c.Handle(Event{Kind: Move, Point: brush.StrokePoint{X: 4, Y: 4}}); n != 0 {
		t.Errorf("move before begin drew %d dabs", n)
	}
	c.Handle(Event{Kind: End})
	if ended != 0 {
		t.Error("end without begin fired OnStrokeEnd")
	}

	if n := c.Handle(Event{Kind: Begin, Point: brush.StrokePoint{X: 2, Y: 4, Pressure: 1}}); n != 1 {
		t.Errorf("begin drew %d dabs, want 1", n)
	}
	if n := c.Handle(Event{Kind: Move, Point: brush.StrokePoint{X: 12, Y: 4, Pressure: 1}}); n != 5 {
		t.Errorf("move drew %d dabs, want 5", n)
	}
	c.Handle(Event{Kind: End})
	if ended != 1 || c.Brush.Stroking() {
		t.Errorf("ended %d stroking %v", ended, c.Brush.Stroking())
	}

	px, _ := c.Layers.Active().Buffer().Pixel(7, 4)
	if px.A == 0 {
		t.Error("stroke left no paint on the active layer")
	}
	bg, _ := c.Layers.Layer(0).Buffer().Pixel(7, 4)
	if bg.A != 0 {
		t.Error("stroke painted the background layer")
	}
}

func TestLockedLayerIsNotPainted(t *testing.T) {
	c := newTestCanvas(16, 16)
	c.Layers.SetLocked(1, true)
	before := c.Layers.Active().Buffer().Bytes()

	if n := c.Stroke(line(2, 14, 8)); n != 0 {
		t.Errorf("locked layer stroke drew %d dabs", n)
	}
	if !bytes.Equal(before, c.Layers.Active().Buffer().Bytes()) {
		t.Error("locked layer changed")
	}
}

func TestAlphaLockedLayer(t *testing.T) {
	c := newTestCanvas(16, 16)
	c.Layers.SetAlphaLock(1, true)
	c.Stroke(line(2, 14, 8))
	if !bytes.Equal(make([]byte, 16*16*4), c.Layers.Active().Buffer().Bytes()) {
		t.Error("alpha lock let paint onto a transparent layer")
	}
}

func TestClippedLayer(t *testing.T) {
	c := newTestCanvas(16, 16)
	c.Layers.Layer(0).Buffer().SetPixel(8, 8, color.NRGBA{A: 255})
	c.Layers.SetClipped(1, true)
	mask := c.Layers.Layer(0).Buffer().Bytes()

	c.Stroke(line(2, 14, 8))

	buf := c.Layers.Active().Buffer()
	if p, _ := buf.Pixel(8, 8); p.A == 0 {
		t.Error("no paint inside the clip")
	}
	if p, _ := buf.Pixel(4, 8); p.A != 0 {
		t.Error("paint outside the clip")
	}
	if !bytes.Equal(mask, c.Layers.Layer(0).Buffer().Bytes()) {
		t.Error("clip source was modified")
	}
}

func TestFlatten(t *testing.T) {
	c := newTestCanvas(8, 8)
	c.Layers.Layer(0).Buffer().Fill(color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	c.Stroke(line(4, 4.5, 4))
	out := c.Flatten()
	if p, _ := out.Pixel(4, 4); p != (color.NRGBA{R: 200, A: 255}) {
		t.Errorf("flattened stroke pixel = %v", p)
	}
	if p, _ := out.Pixel(0, 0); p != (color.NRGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("flattened background pixel = %v", p)
	}
}

func TestEventKindString(t *testing.T) {
	if Begin.String() != "begin" || EventKind(9).String() != "EventKind(9)" {
		t.Error("unexpected EventKind names")
	}
}

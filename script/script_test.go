package script

import (
	"image/color"
	"math/rand/v2"
	"strings"
	"testing"

	"artflow/brush"
	"artflow/layer"
)

const sample = `{
  "width": 32,
  "height": 16,
  "background": "#ffffff",
  "actions": [
    {"do": "brush", "preset": "Ink Pen", "settings": {"size": 4, "stabilization": 0}},
    {"do": "color", "color": "#0000ff"},
    {"do": "stroke", "points": [{"x": 2, "y": 8}, {"x": 30, "y": 8, "p": 1}]},
    {"do": "layer.add", "name": "Glaze"},
    {"do": "layer.set", "opacity": 0.5, "blend": "Multiply", "clipped": true},
    {"do": "layer.duplicate", "index": 1},
    {"do": "layer.select", "index": 2},
    {"do": "layer.remove"}
  ]
}`

func play(t *testing.T, src string) (*Script, error) {
	t.Helper()
	s, err := Decode(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return s, s.Play(s.NewCanvas(brush.WithRand(rand.New(rand.NewPCG(5, 6)))))
}

func TestPlaySample(t *testing.T) {
	s, err := Decode(strings.NewReader(sample))
	if err != nil {
		t.Fatal(err)
	}
	c := s.NewCanvas()
	if err := s.Play(c); err != nil {
		t.Fatal(err)
	}

	if c.Layers.Len() != 3 {
		t.Fatalf("layers = %d, want 3", c.Layers.Len())
	}
	glaze := c.Layers.Layer(2)
	if glaze.Name != "Glaze" || glaze.Opacity != 0.5 || glaze.Blend != layer.Multiply || !glaze.Clipped {
		t.Errorf("glaze layer = %+v", glaze)
	}
	if bg, _ := c.Layers.Layer(0).Buffer().Pixel(0, 0); bg != (color.NRGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("background = %v", bg)
	}
	if p, _ := c.Layers.Layer(1).Buffer().Pixel(16, 8); p != (color.NRGBA{B: 255, A: 255}) {
		t.Errorf("ink pixel = %v", p)
	}
	if b := c.Brush.Brush(); b.Type != brush.Ink || b.Size != 4 {
		t.Errorf("brush = %+v", b)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"syntax", `{"width": 3,`},
		{"zero size", `{"width": 0, "height": 4}`},
		{"huge", `{"width": 100000, "height": 4}`},
		{"bad background", `{"width": 1, "height": 1, "background": "red"}`},
		{"unknown field", `{"width": 1, "height": 1, "colour": "#fff"}`},
		{"bad blend", `{"width": 1, "height": 1, "actions": [{"do": "layer.set", "blend": "Glow"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(strings.NewReader(tt.src)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestPlayErrors(t *testing.T) {
	tests := []struct {
		name    string
		actions string
		want    string
	}{
		{"unknown action", `{"do": "smear"}`, `unknown action "smear"`},
		{"bad preset", `{"do": "brush", "preset": "Crayon"}`, `unknown brush preset`},
		{"bad settings", `{"do": "brush", "settings": {"type": "felt"}}`, `invalid brush settings`},
		{"bad color", `{"do": "color", "color": "#12"}`, `invalid color`},
		{"empty stroke", `{"do": "stroke"}`, `stroke without points`},
		{"bad index", `{"do": "layer.select", "index": 9}`, `no layer at index 9`},
		{"last layer", `{"do": "layer.remove"}, {"do": "layer.remove"}`, `action 1 (layer.remove): cannot remove the last layer`},
		{"bad move", `{"do": "layer.move", "index": 0, "to": 4}`, `cannot move layer 0 to 4`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := play(t, `{"width": 4, "height": 4, "actions": [`+tt.actions+`]}`)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestMergeAndClearActions(t *testing.T) {
	src := `{"width": 4, "height": 4, "background": "#f00", "actions": [
		{"do": "layer.merge", "index": 0},
		{"do": "layer.clear", "index": 0},
		{"do": "layer.merge"}
	]}`
	s, err := Decode(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	c := s.NewCanvas()
	if err := s.Play(c); err != nil {
		t.Fatal(err)
	}
	if c.Layers.Len() != 1 {
		t.Errorf("layers = %d after merging Layer 1 down", c.Layers.Len())
	}
	if p, _ := c.Layers.Layer(0).Buffer().Pixel(1, 1); p.A != 0 {
		t.Errorf("cleared background pixel = %v", p)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
	}{
		{"#fff", color.NRGBA{R: 255, G: 255, B: 255, A: 255}},
		{"#f008", color.NRGBA{R: 255, A: 0x88}},
		{"#102030", color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 255}},
		{"#10203040", color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0x40}},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseColor(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
	for _, bad := range []string{"", "fff", "#ggg", "#12345"} {
		if _, err := ParseColor(bad); err == nil {
			t.Errorf("ParseColor(%q) succeeded", bad)
		}
	}
}

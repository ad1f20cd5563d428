package paint

import (
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"artflow/parallel"

	"github.com/google/go-cmp/cmp"
)

const testScript = `{
  "width": 20,
  "height": 10,
  "background": "#fff",
  "actions": [
    {"do": "brush", "preset": "Ink Pen", "settings": {"size": 4, "stabilization": 0}},
    {"do": "color", "color": "#f00"},
    {"do": "stroke", "points": [{"x": 2, "y": 5}, {"x": 18, "y": 5}]},
    {"do": "layer.add", "name": "Top"},
    {"do": "stroke", "points": [{"x": 10, "y": 1}, {"x": 10, "y": 9}]}
  ]
}`

func writeScript(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "session.json")
	if err := os.WriteFile(path, []byte(testScript), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	slices.Sort(names)
	return names
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	cmd := &CLICmd{
		Script:    writeScript(t, dir),
		Out:       filepath.Join(dir, "out", "art.png"),
		Layers:    true,
		Thumbnail: 4,
		Timelapse: filepath.Join(dir, "frames"),
		Seed:      7,
	}
	if err := cmd.Validate(nil); err != nil {
		t.Fatal(err)
	}
	if cmd.Format != "png" {
		t.Errorf("Format = %q", cmd.Format)
	}
	if err := cmd.Run(parallel.Start(3)); err != nil {
		t.Fatal(err)
	}

	want := []string{
		"art.layer00.png", "art.layer01.png", "art.layer02.png",
		"art.png",
		"art.thumb00.png", "art.thumb01.png", "art.thumb02.png",
	}
	if diff := cmp.Diff(want, listDir(t, filepath.Join(dir, "out"))); diff != "" {
		t.Errorf("output files mismatch (-want +got):\n%s", diff)
	}
	if frames := listDir(t, filepath.Join(dir, "frames")); len(frames) != 2 {
		t.Errorf("timelapse frames = %v, want 2", frames)
	}

	f, err := os.Open(filepath.Join(dir, "out", "art.png"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if got := color.NRGBAModel.Convert(img.At(5, 5)).(color.NRGBA); got != (color.NRGBA{R: 255, A: 255}) {
		t.Errorf("stroke pixel = %v", got)
	}
	if got := color.NRGBAModel.Convert(img.At(5, 0)).(color.NRGBA); got != (color.NRGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("background pixel = %v", got)
	}
}

func TestRunThumbnails(t *testing.T) {
	dir := t.TempDir()
	cmd := &CLICmd{
		Script:    writeScript(t, dir),
		Out:       filepath.Join(dir, "art.png"),
		Thumbnail: 10,
	}
	if err := cmd.Validate(nil); err != nil {
		t.Fatal(err)
	}
	if err := cmd.Run(parallel.Start(2)); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(filepath.Join(dir, "art.thumb00.png"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 10 || b.Dy() != 5 {
		t.Errorf("thumbnail size = %v", b)
	}
	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	if got := color.NRGBAModel.Convert(img.At(1, 1)).(color.NRGBA); got != white {
		t.Errorf("background thumbnail pixel = %v, want %v", got, white)
	}
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		cmd  CLICmd
	}{
		{"unknown extension", CLICmd{Out: filepath.Join(dir, "art.webp")}},
		{"unknown format", CLICmd{Out: filepath.Join(dir, "art.png"), Format: "svg"}},
		{"negative thumbnail", CLICmd{Out: filepath.Join(dir, "art.png"), Thumbnail: -1}},
		{"unknown palette", CLICmd{Out: filepath.Join(dir, "art.gif"), Palette: filepath.Join(dir, "none.pal")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cmd.Validate(nil); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestRunBadScript(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(path, []byte(`{"width": 2, "height": 2, "actions": [{"do": "smear"}]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	cmd := &CLICmd{Script: path, Out: filepath.Join(dir, "art.png")}
	if err := cmd.Validate(nil); err != nil {
		t.Fatal(err)
	}
	if err := cmd.Run(parallel.Start(1)); err == nil {
		t.Error("expected an error")
	}
	if _, err := os.Stat(filepath.Join(dir, "art.png")); !os.IsNotExist(err) {
		t.Errorf("output written for a failing script: %v", err)
	}
}

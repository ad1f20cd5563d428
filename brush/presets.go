package brush

import "slices"

type preset struct {
	name   string
	adjust func(*Settings)
}

var presets = []preset{
	{"Pencil HB", func(s *Settings) {
		s.Size, s.Opacity, s.Hardness, s.Spacing = 4, 0.5, 0.1, 0.05
		s.Type, s.Grain = Pencil, 0.6
	}},
	{"Pencil 6B", func(s *Settings) {
		s.Size, s.Opacity, s.Hardness, s.Spacing = 15, 0.85, 0.4, 0.05
		s.Type, s.Grain = Pencil, 0.9
	}},
	{"Ink Pen", func(s *Settings) {
		s.Size, s.Opacity, s.Hardness, s.Spacing = 12, 1, 1, 0.02
		s.Type = Ink
	}},
	{"G-Pen", func(s *Settings) {
		s.Size, s.Opacity, s.Hardness, s.Spacing = 15, 1, 0.98, 0.02
		s.Type = Ink
	}},
	{"Watercolor", func(s *Settings) {
		s.Size, s.Opacity, s.Hardness, s.Spacing = 45, 0.35, 0.25, 0.1
		s.Type, s.Wetness = Watercolor, 0.4
	}},
	{"Watercolor Wet", func(s *Settings) {
		s.Size, s.Opacity, s.Hardness, s.Spacing = 55, 0.3, 0.1, 0.1
		s.Type, s.Wetness = Watercolor, 0.9
	}},
	{"Oil Paint", func(s *Settings) {
		s.Size, s.Opacity, s.Hardness, s.Spacing = 35, 1, 0.8, 0.02
		s.Type, s.Smudge = Oil, 0.8
	}},
	{"Acrylic", func(s *Settings) {
		s.Size, s.Opacity, s.Hardness, s.Spacing = 35, 0.95, 0.9, 0.02
		s.Type, s.Smudge = Oil, 0.6
	}},
	{"Soft", func(s *Settings) {
		s.Size, s.Opacity, s.Hardness = 60, 0.15, 0
		s.Type = Airbrush
	}},
	{"Hard", func(s *Settings) {
		s.Size, s.Opacity, s.Hardness = 40, 0.2, 0.85
		s.Type = Airbrush
	}},
	{"Eraser Soft", func(s *Settings) {
		s.Size, s.Opacity, s.Hardness = 40, 1, 0.2
		s.Type = Eraser
	}},
	{"Eraser Hard", func(s *Settings) {
		s.Size, s.Opacity, s.Hardness = 20, 1, 0.95
		s.Type = Eraser
	}},
}

// Preset returns the named built-in brush. Lookup happens once when a
// brush is chosen; the engine only ever sees the resulting Settings.
func Preset(name string) (Settings, bool) {
	i := slices.IndexFunc(presets, func(p preset) bool { return p.name == name })
	if i < 0 {
		return Settings{}, false
	}
	s := DefaultSettings()
	presets[i].adjust(&s)
	return s, true
}

// PresetNames lists the built-in brushes in display order.
func PresetNames() []string {
	names := make([]string, len(presets))
	for i, p := range presets {
		names[i] = p.name
	}
	return names
}

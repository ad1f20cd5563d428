package brush

import (
	"fmt"
	"strings"
)

// Type selects how dabs are deposited.
type Type uint8

const (
	Round Type = iota
	Pencil
	Airbrush
	Ink
	Watercolor
	Oil
	Eraser
	Custom
)

var typeNames = [...]string{
	Round:      "Round",
	Pencil:     "Pencil",
	Airbrush:   "Airbrush",
	Ink:        "Ink",
	Watercolor: "Watercolor",
	Oil:        "Oil",
	Eraser:     "Eraser",
	Custom:     "Custom",
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", t)
}

// ParseType resolves a brush type name, ignoring case.
func ParseType(s string) (Type, error) {
	for i, name := range typeNames {
		if strings.EqualFold(s, name) {
			return Type(i), nil
		}
	}
	return Round, fmt.Errorf("unknown brush type %q", s)
}

func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Type) UnmarshalText(b []byte) error {
	v, err := ParseType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Settings is a complete brush configuration. It is a value: callers build
// a new one and hand it to Engine.SetBrush rather than editing the
// engine's copy.
type Settings struct {
	Size     float32 `json:"size"`     // diameter in pixels
	Opacity  float32 `json:"opacity"`  // 0..1
	Flow     float32 `json:"flow"`     // 0..1, multiplies opacity
	Hardness float32 `json:"hardness"` // 0 soft .. 1 hard edge
	Spacing  float32 `json:"spacing"`  // dab distance as a fraction of Size
	Grain    float32 `json:"grain"`    // paper texture strength 0..1

	Jitter        float32 `json:"jitter"`        // position jitter as a fraction of Size
	Stabilization float32 `json:"stabilization"` // path smoothing 0..1

	// Streamline, Wetness and Smudge are carried for presets and hosts but
	// do not affect rendering yet.
	Streamline float32 `json:"streamline"`
	Wetness    float32 `json:"wetness"`
	Smudge     float32 `json:"smudge"`

	Rotation         float32 `json:"rotation"` // degrees
	RotateWithStroke bool    `json:"rotateWithStroke"`

	SizeByPressure    bool `json:"sizeByPressure"`
	OpacityByPressure bool `json:"opacityByPressure"`

	Type Type `json:"type"`
}

// DefaultSettings returns the configuration a new Engine starts with.
func DefaultSettings() Settings {
	return Settings{
		Size:           10,
		Opacity:        1,
		Flow:           1,
		Hardness:       0.8,
		Spacing:        0.1,
		Stabilization:  0.4,
		SizeByPressure: true,
		Type:           Round,
	}
}

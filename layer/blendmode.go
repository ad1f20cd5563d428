package layer

import (
	"fmt"
	"strings"
)

// BlendMode tags how a layer is meant to combine with the layers below.
// The tag is stored and reported but compositing currently treats every
// mode as Normal.
type BlendMode uint8

const (
	Normal BlendMode = iota
	Multiply
	Screen
	Overlay
	SoftLight
	HardLight
	ColorDodge
	ColorBurn
	Darken
	Lighten
	Difference
	Exclusion
)

var blendNames = [...]string{
	Normal:     "Normal",
	Multiply:   "Multiply",
	Screen:     "Screen",
	Overlay:    "Overlay",
	SoftLight:  "SoftLight",
	HardLight:  "HardLight",
	ColorDodge: "ColorDodge",
	ColorBurn:  "ColorBurn",
	Darken:     "Darken",
	Lighten:    "Lighten",
	Difference: "Difference",
	Exclusion:  "Exclusion",
}

func (m BlendMode) String() string {
	if int(m) < len(blendNames) {
		return blendNames[m]
	}
	return fmt.Sprintf("BlendMode(%d)", m)
}

// ParseBlendMode resolves a blend mode name, ignoring case.
func ParseBlendMode(s string) (BlendMode, error) {
	for i, name := range blendNames {
		if strings.EqualFold(s, name) {
			return BlendMode(i), nil
		}
	}
	return Normal, fmt.Errorf("unknown blend mode %q", s)
}

func (m BlendMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *BlendMode) UnmarshalText(b []byte) error {
	v, err := ParseBlendMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

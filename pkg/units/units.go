// Package units maps declared model units to the scale factors applied to
// physical quantities at the boundary where collaborator output enters the
// core. Internal state is always meters and kg·m²; nothing is ever rescaled
// twice.
package units

import (
	"fmt"
	"strings"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// UnknownUnitError reports an unrecognized unit string. There is no silent
// default; loads fail on unknown units.
type UnknownUnitError struct {
	Unit string
}

func (e UnknownUnitError) Error() string {
	return fmt.Sprintf("unknown unit %q", e.Unit)
}

// scales maps canonical unit names to meters per unit.
var scales = map[string]float64{
	"meter":      1.0,
	"millimeter": 0.001,
	"centimeter": 0.01,
	"inch":       0.0254,
	"foot":       0.3048,
}

// aliases maps the spellings found in CAD files (STEP unit declarations,
// both British and American, plus abbreviations) to canonical names.
var aliases = map[string]string{
	"metre":      "meter",
	"m":          "meter",
	"millimetre": "millimeter",
	"mm":         "millimeter",
	"centimetre": "centimeter",
	"cm":         "centimeter",
	"in":         "inch",
	"ft":         "foot",
}

// Scale returns the meters-per-unit factor for a unit name. Lookup is
// case-insensitive and accepts STEP spellings ("MILLIMETRE", "MM", ...).
func Scale(unit string) (float64, error) {
	name := strings.ToLower(strings.TrimSpace(unit))
	if canonical, ok := aliases[name]; ok {
		name = canonical
	}
	s, ok := scales[name]
	if !ok {
		return 0, UnknownUnitError{Unit: unit}
	}
	return s, nil
}

// Name returns the canonical unit name for a scale factor, or "unknown".
func Name(scale float64) string {
	const eps = 1e-9
	for name, s := range scales {
		if scale > s-eps && scale < s+eps {
			return name
		}
	}
	return "unknown"
}

// Converter applies a fixed meters-per-model-unit factor to the physical
// quantities the geometry collaborator reports in model units.
type Converter struct {
	scale float64
}

// NewConverter creates a converter for the given meters-per-unit factor.
func NewConverter(metersPerUnit float64) Converter {
	return Converter{scale: metersPerUnit}
}

// ForUnit creates a converter from a unit name.
func ForUnit(unit string) (Converter, error) {
	s, err := Scale(unit)
	if err != nil {
		return Converter{}, err
	}
	return Converter{scale: s}, nil
}

// Scale returns the underlying meters-per-unit factor.
func (c Converter) Scale() float64 { return c.scale }

// Length scales a length quantity (scale^1).
func (c Converter) Length(v float64) float64 { return v * c.scale }

// Area scales an area quantity (scale^2).
func (c Converter) Area(v float64) float64 { return v * c.scale * c.scale }

// Volume scales a volume quantity (scale^3).
func (c Converter) Volume(v float64) float64 { return v * c.scale * c.scale * c.scale }

// Inertia scales a unit-density inertia quantity about the center of mass
// (scale^5).
func (c Converter) Inertia(v float64) float64 {
	s := c.scale
	return v * s * s * s * s * s
}

// Point scales a position vector component-wise.
func (c Converter) Point(p v3.Vec) v3.Vec { return p.MulScalar(c.scale) }

// Tensor scales a 3x3 inertia tensor.
func (c Converter) Tensor(t [3][3]float64) [3][3]float64 {
	var out [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = c.Inertia(t[i][j])
		}
	}
	return out
}

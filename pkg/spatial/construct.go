package spatial

import (
	"fmt"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

const (
	// degenerateEpsilon is the minimum magnitude for a direction input.
	degenerateEpsilon = 1e-8
	// nearParallel is the |dot| threshold above which the alignment target
	// switches from global X to global Y.
	nearParallel = 0.99
)

// DegenerateFrameError reports a frame construction input whose direction
// vector has near-zero magnitude.
type DegenerateFrameError struct {
	Name  string
	Input v3.Vec
}

func (e DegenerateFrameError) Error() string {
	return fmt.Sprintf("degenerate frame %q: direction (%g, %g, %g) has near-zero magnitude",
		e.Name, e.Input.X, e.Input.Y, e.Input.Z)
}

// FromPointAndNormal creates a frame whose origin is the given point scaled
// to meters and whose Z axis is the normalized normal. The X axis is aligned
// as closely as possible with global X (global Y when the normal is nearly
// parallel to global X) via Gram-Schmidt projection, and Y = Z cross X, so
// the result is orthonormal, right-handed, and deterministic.
func FromPointAndNormal(name string, point, normal v3.Vec, unitScale float64) (*Frame, error) {
	return fromDirection(name, point, normal, unitScale)
}

// FromPointAndDirection creates a frame whose Z axis is the normalized
// direction, typically from an edge. Construction is identical to
// FromPointAndNormal.
func FromPointAndDirection(name string, point, direction v3.Vec, unitScale float64) (*Frame, error) {
	return fromDirection(name, point, direction, unitScale)
}

// FromVertex creates a frame at a point with identity rotation. Vertices
// carry no orientation, so the frame is aligned with the world axes.
func FromVertex(name string, point v3.Vec, unitScale float64) *Frame {
	return &Frame{
		Name:     name,
		Origin:   point.MulScalar(unitScale),
		Rotation: Identity(),
	}
}

func fromDirection(name string, point, dir v3.Vec, unitScale float64) (*Frame, error) {
	if dir.Length() < degenerateEpsilon {
		return nil, DegenerateFrameError{Name: name, Input: dir}
	}
	z := dir.Normalize()

	// Align frame X with global X as much as possible. When Z is nearly
	// parallel to global X the projection would degenerate, so fall back
	// to global Y as the target.
	target := v3.Vec{X: 1}
	if math.Abs(z.Dot(target)) > nearParallel {
		target = v3.Vec{Y: 1}
	}

	// Project the target onto the plane orthogonal to Z.
	x := target.Sub(z.MulScalar(target.Dot(z))).Normalize()
	y := z.Cross(x)

	return &Frame{
		Name:     name,
		Origin:   point.MulScalar(unitScale),
		Rotation: AxesToRotation(x, y, z),
	}, nil
}

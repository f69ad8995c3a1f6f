// Package spatial defines coordinate frames and the geometry-to-frame
// construction used throughout the preprocessor. All positions are in
// meters once they enter this package; unit scaling happens exactly once,
// at construction.
package spatial

import (
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Frame is an oriented coordinate system: an origin plus an orthonormal
// rotation whose columns are the frame's axes in world coordinates.
// Frames have no lifecycle of their own; they are owned by a body, a joint,
// or the assembly's standalone frame table.
type Frame struct {
	Name     string
	Origin   v3.Vec
	Rotation Rotation
}

// NewFrame creates an identity frame at the world origin.
func NewFrame(name string) *Frame {
	return &Frame{Name: name, Rotation: Identity()}
}

// Copy returns an independent copy of the frame.
func (f *Frame) Copy() *Frame {
	c := *f
	return &c
}

// XAxis returns the frame's X axis in world coordinates.
func (f *Frame) XAxis() v3.Vec { return f.Rotation.XAxis() }

// YAxis returns the frame's Y axis in world coordinates.
func (f *Frame) YAxis() v3.Vec { return f.Rotation.YAxis() }

// ZAxis returns the frame's Z axis in world coordinates.
func (f *Frame) ZAxis() v3.Vec { return f.Rotation.ZAxis() }

// SetOrigin replaces the frame origin. The position is in meters.
func (f *Frame) SetOrigin(origin v3.Vec) {
	f.Origin = origin
}

// SetEulerAngles replaces the rotation with one built from extrinsic XYZ
// Euler angles in degrees. The result is re-orthonormalized to guard
// against accumulated floating-point drift.
func (f *Frame) SetEulerAngles(xDeg, yDeg, zDeg float64) {
	f.Rotation = FromEuler(xDeg, yDeg, zDeg).Orthonormalized()
}

// EulerAngles returns the extrinsic XYZ Euler angles in degrees.
func (f *Frame) EulerAngles() (xDeg, yDeg, zDeg float64) {
	return f.Rotation.EulerAngles()
}

// ToWorld transforms a point from frame-local to world coordinates.
func (f *Frame) ToWorld(p v3.Vec) v3.Vec {
	return f.Rotation.Apply(p).Add(f.Origin)
}

// ToLocal transforms a point from world to frame-local coordinates.
func (f *Frame) ToLocal(p v3.Vec) v3.Vec {
	return f.Rotation.Transposed().Apply(p.Sub(f.Origin))
}

func (f *Frame) String() string {
	return fmt.Sprintf("Frame(%q origin=(%g, %g, %g))", f.Name, f.Origin.X, f.Origin.Y, f.Origin.Z)
}

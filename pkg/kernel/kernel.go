// Package kernel defines the abstract geometry-collaborator interface.
// The CAD kernel proper (B-rep parsing, property integration, tessellation)
// lives behind this interface; the rest of the system consumes only the
// already-computed properties it reports. All values are in model units;
// unit scaling to meters happens in the consuming layer, exactly once.
package kernel

import (
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// MassProperties are the unit-density volume integrals of a solid,
// in model units. Inertia is the central tensor, about the center of mass.
type MassProperties struct {
	Volume       float64
	CenterOfMass v3.Vec
	Inertia      [3][3]float64
}

// FaceProperties describes a face: its surface area, the centroid, and the
// outward normal evaluated at the centroid.
type FaceProperties struct {
	Index  int
	Area   float64
	Center v3.Vec
	Normal v3.Vec
}

// EdgeProperties describes an edge by its endpoint-distance length,
// midpoint, and normalized start-to-end direction.
type EdgeProperties struct {
	Index     int
	Length    float64
	Midpoint  v3.Vec
	Direction v3.Vec
}

// VertexProperties describes a vertex position.
type VertexProperties struct {
	Index int
	Point v3.Vec
}

// GeometryUnavailableError reports a property the kernel never computed for
// a solid. Callers present an absent state; they never fabricate a zero.
type GeometryUnavailableError struct {
	Property string
	Reason   string
}

func (e GeometryUnavailableError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("geometry property %q unavailable", e.Property)
	}
	return fmt.Sprintf("geometry property %q unavailable: %s", e.Property, e.Reason)
}

// Kernel is the abstract geometry kernel interface. Implementations provide
// solid construction and property evaluation behind this interface so
// backends can be swapped without changing the rest of the system.
type Kernel interface {
	// Primitives
	Box(x, y, z float64) Solid
	Cylinder(height, radius float64) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid

	// Property evaluation
	MassProperties(s Solid) (MassProperties, error)
	Faces(s Solid) ([]FaceProperties, error)
	Edges(s Solid) ([]EdgeProperties, error)
	Vertices(s Solid) ([]VertexProperties, error)

	// Mesh output
	ToMesh(s Solid) (*Mesh, error)
}

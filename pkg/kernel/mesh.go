package kernel

import v3 "github.com/deadsy/sdfx/vec/v3"

// Mesh is a flat triangle mesh produced by tessellating a solid.
// Vertices and Normals hold three float32s per vertex, Indices three
// uint32s per triangle. Positions are in model units in the world frame;
// writers rebase them into body-local coordinates as needed.
type Mesh struct {
	Vertices []float32
	Normals  []float32
	Indices  []uint32
	BodyName string
}

func (m *Mesh) VertexCount() int { return len(m.Vertices) / 3 }

func (m *Mesh) TriangleCount() int { return len(m.Indices) / 3 }

// IsEmpty reports whether the mesh has no geometry.
func (m *Mesh) IsEmpty() bool { return len(m.Vertices) == 0 }

// Vertex returns vertex i as a vector.
func (m *Mesh) Vertex(i int) v3.Vec {
	return v3.Vec{
		X: float64(m.Vertices[3*i]),
		Y: float64(m.Vertices[3*i+1]),
		Z: float64(m.Vertices[3*i+2]),
	}
}

// Normal returns the per-vertex normal of vertex i.
func (m *Mesh) Normal(i int) v3.Vec {
	return v3.Vec{
		X: float64(m.Normals[3*i]),
		Y: float64(m.Normals[3*i+1]),
		Z: float64(m.Normals[3*i+2]),
	}
}

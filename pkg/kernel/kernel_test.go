package kernel

import (
	"errors"
	"testing"
)

// --- Mesh helper method tests ---

func TestMeshCounts(t *testing.T) {
	tests := []struct {
		name          string
		mesh          Mesh
		wantVertices  int
		wantTriangles int
		wantEmpty     bool
	}{
		{"zero mesh", Mesh{}, 0, 0, true},
		{
			"one triangle",
			Mesh{
				Vertices: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
				Indices:  []uint32{0, 1, 2},
			},
			3, 1, false,
		},
		{
			"quad as two triangles",
			Mesh{
				Vertices: []float32{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0},
				Indices:  []uint32{0, 1, 2, 2, 3, 0},
			},
			4, 2, false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.mesh.VertexCount(); got != tt.wantVertices {
				t.Errorf("VertexCount() = %d, want %d", got, tt.wantVertices)
			}
			if got := tt.mesh.TriangleCount(); got != tt.wantTriangles {
				t.Errorf("TriangleCount() = %d, want %d", got, tt.wantTriangles)
			}
			if got := tt.mesh.IsEmpty(); got != tt.wantEmpty {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.wantEmpty)
			}
		})
	}
}

func TestMeshAccessors(t *testing.T) {
	m := &Mesh{
		Vertices: []float32{0, 0, 0, 1, 2, 3},
		Normals:  []float32{0, 0, 1, 0, 1, 0},
	}
	if v := m.Vertex(1); v.X != 1 || v.Y != 2 || v.Z != 3 {
		t.Errorf("Vertex(1) = %v, want (1 2 3)", v)
	}
	if n := m.Normal(0); n.Z != 1 {
		t.Errorf("Normal(0) = %v, want +Z", n)
	}
}

// --- Error taxonomy tests ---

func TestGeometryUnavailableError(t *testing.T) {
	var err error = GeometryUnavailableError{Property: "volume"}
	var geoErr GeometryUnavailableError
	if !errors.As(err, &geoErr) {
		t.Fatal("errors.As failed for GeometryUnavailableError")
	}
	if geoErr.Property != "volume" {
		t.Errorf("Property = %q, want %q", geoErr.Property, "volume")
	}

	withReason := GeometryUnavailableError{Property: "edges", Reason: "not tessellated"}
	if withReason.Error() == err.Error() {
		t.Error("reason should change the error message")
	}
}

// --- Compile-time interface check with a stub kernel ---

// stubSolid is a minimal Solid implementation for testing.
type stubSolid struct {
	minBB, maxBB [3]float64
}

func (s *stubSolid) BoundingBox() (min, max [3]float64) {
	return s.minBB, s.maxBB
}

// stubKernel is a minimal Kernel implementation that proves the interface
// is satisfiable. All methods return trivial results.
type stubKernel struct{}

func (k *stubKernel) Box(x, y, z float64) Solid {
	return &stubSolid{
		minBB: [3]float64{0, 0, 0},
		maxBB: [3]float64{x, y, z},
	}
}

func (k *stubKernel) Cylinder(height, radius float64) Solid {
	return &stubSolid{
		minBB: [3]float64{-radius, -radius, -height / 2},
		maxBB: [3]float64{radius, radius, height / 2},
	}
}

func (k *stubKernel) Translate(s Solid, _, _, _ float64) Solid { return s }

func (k *stubKernel) MassProperties(_ Solid) (MassProperties, error) {
	return MassProperties{}, GeometryUnavailableError{Property: "mass"}
}

func (k *stubKernel) Faces(_ Solid) ([]FaceProperties, error) {
	return nil, GeometryUnavailableError{Property: "faces"}
}

func (k *stubKernel) Edges(_ Solid) ([]EdgeProperties, error) {
	return nil, GeometryUnavailableError{Property: "edges"}
}

func (k *stubKernel) Vertices(_ Solid) ([]VertexProperties, error) {
	return nil, GeometryUnavailableError{Property: "vertices"}
}

func (k *stubKernel) ToMesh(_ Solid) (*Mesh, error) {
	return &Mesh{}, nil
}

// Compile-time checks that the stubs implement the interfaces.
var _ Solid = (*stubSolid)(nil)
var _ Kernel = (*stubKernel)(nil)

func TestStubKernelBoxBoundingBox(t *testing.T) {
	var k Kernel = &stubKernel{}
	s := k.Box(10, 20, 30)
	min, max := s.BoundingBox()
	if min != [3]float64{0, 0, 0} {
		t.Errorf("Box min = %v, want [0 0 0]", min)
	}
	if max != [3]float64{10, 20, 30} {
		t.Errorf("Box max = %v, want [10 20 30]", max)
	}
}

func TestStubKernelToMesh(t *testing.T) {
	var k Kernel = &stubKernel{}
	s := k.Box(1, 1, 1)
	m, err := k.ToMesh(s)
	if err != nil {
		t.Fatalf("ToMesh() error = %v", err)
	}
	if m == nil {
		t.Fatal("ToMesh() returned nil mesh")
	}
	if !m.IsEmpty() {
		t.Error("stub ToMesh() should return empty mesh")
	}
}

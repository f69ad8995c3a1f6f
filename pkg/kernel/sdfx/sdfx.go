// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library. Solids are SDF primitives
// with analytically evaluated mass, face, edge, and vertex properties;
// meshing uses marching cubes.
package sdfx

import (
	"fmt"
	"math"

	"github.com/chazu/armature/pkg/kernel"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

// defaultMeshCells controls marching cubes tessellation resolution.
const defaultMeshCells = 100

type primKind int

const (
	primBox primKind = iota
	primCylinder
)

// sdfxSolid wraps an sdf.SDF3 plus the primitive parameters needed for
// analytic property evaluation. center is the solid's centroid after any
// accumulated translation.
type sdfxSolid struct {
	s      sdf.SDF3
	kind   primKind
	dims   v3.Vec // box: x,y,z extents; cylinder: X=radius, Z=height
	center v3.Vec
}

// BoundingBox returns the axis-aligned bounding box.
func (s *sdfxSolid) BoundingBox() (min, max [3]float64) {
	bb := s.s.BoundingBox()
	min = [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z}
	max = [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z}
	return min, max
}

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct{}

// New returns a new SdfxKernel.
func New() *SdfxKernel {
	return &SdfxKernel{}
}

// unwrap extracts the backing sdfxSolid from a kernel.Solid.
func unwrap(s kernel.Solid) *sdfxSolid {
	return s.(*sdfxSolid)
}

// Box creates a box with the given dimensions, centered at the origin.
func (k *SdfxKernel) Box(x, y, z float64) kernel.Solid {
	s, err := sdf.Box3D(v3.Vec{X: x, Y: y, Z: z}, 0)
	if err != nil {
		panic(fmt.Sprintf("sdfx.Box3D: %v", err))
	}
	return &sdfxSolid{s: s, kind: primBox, dims: v3.Vec{X: x, Y: y, Z: z}}
}

// Cylinder creates a Z-axis cylinder with the given height and radius,
// centered at the origin.
func (k *SdfxKernel) Cylinder(height, radius float64) kernel.Solid {
	s, err := sdf.Cylinder3D(height, radius, 0)
	if err != nil {
		panic(fmt.Sprintf("sdfx.Cylinder3D: %v", err))
	}
	return &sdfxSolid{s: s, kind: primCylinder, dims: v3.Vec{X: radius, Z: height}}
}

// Translate moves a solid by (x, y, z).
func (k *SdfxKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	in := unwrap(s)
	d := v3.Vec{X: x, Y: y, Z: z}
	m := sdf.Translate3d(d)
	return &sdfxSolid{
		s:      sdf.Transform3D(in.s, m),
		kind:   in.kind,
		dims:   in.dims,
		center: in.center.Add(d),
	}
}

// MassProperties evaluates the unit-density volume integrals analytically.
// The inertia tensor is about the center of mass and diagonal (the
// primitives are axis-aligned).
func (k *SdfxKernel) MassProperties(s kernel.Solid) (kernel.MassProperties, error) {
	in := unwrap(s)
	switch in.kind {
	case primBox:
		x, y, z := in.dims.X, in.dims.Y, in.dims.Z
		vol := x * y * z
		m := vol // unit density
		return kernel.MassProperties{
			Volume:       vol,
			CenterOfMass: in.center,
			Inertia: [3][3]float64{
				{m * (y*y + z*z) / 12, 0, 0},
				{0, m * (x*x + z*z) / 12, 0},
				{0, 0, m * (x*x + y*y) / 12},
			},
		}, nil
	case primCylinder:
		r, h := in.dims.X, in.dims.Z
		vol := math.Pi * r * r * h
		m := vol
		ixx := m * (3*r*r + h*h) / 12
		return kernel.MassProperties{
			Volume:       vol,
			CenterOfMass: in.center,
			Inertia: [3][3]float64{
				{ixx, 0, 0},
				{0, ixx, 0},
				{0, 0, m * r * r / 2},
			},
		}, nil
	}
	return kernel.MassProperties{}, kernel.GeometryUnavailableError{Property: "mass"}
}

// Faces enumerates planar faces with area, centroid, and outward normal.
// A cylinder reports only its two end caps; the lateral surface has no
// single normal.
func (k *SdfxKernel) Faces(s kernel.Solid) ([]kernel.FaceProperties, error) {
	in := unwrap(s)
	c := in.center
	switch in.kind {
	case primBox:
		x, y, z := in.dims.X, in.dims.Y, in.dims.Z
		hx, hy, hz := x/2, y/2, z/2
		return []kernel.FaceProperties{
			{Index: 0, Area: y * z, Center: c.Add(v3.Vec{X: -hx}), Normal: v3.Vec{X: -1}},
			{Index: 1, Area: y * z, Center: c.Add(v3.Vec{X: hx}), Normal: v3.Vec{X: 1}},
			{Index: 2, Area: x * z, Center: c.Add(v3.Vec{Y: -hy}), Normal: v3.Vec{Y: -1}},
			{Index: 3, Area: x * z, Center: c.Add(v3.Vec{Y: hy}), Normal: v3.Vec{Y: 1}},
			{Index: 4, Area: x * y, Center: c.Add(v3.Vec{Z: -hz}), Normal: v3.Vec{Z: -1}},
			{Index: 5, Area: x * y, Center: c.Add(v3.Vec{Z: hz}), Normal: v3.Vec{Z: 1}},
		}, nil
	case primCylinder:
		r, h := in.dims.X, in.dims.Z
		area := math.Pi * r * r
		return []kernel.FaceProperties{
			{Index: 0, Area: area, Center: c.Add(v3.Vec{Z: -h / 2}), Normal: v3.Vec{Z: -1}},
			{Index: 1, Area: area, Center: c.Add(v3.Vec{Z: h / 2}), Normal: v3.Vec{Z: 1}},
		}, nil
	}
	return nil, kernel.GeometryUnavailableError{Property: "faces"}
}

// Edges enumerates straight edges with length, midpoint, and direction.
func (k *SdfxKernel) Edges(s kernel.Solid) ([]kernel.EdgeProperties, error) {
	in := unwrap(s)
	switch in.kind {
	case primBox:
		x, y, z := in.dims.X, in.dims.Y, in.dims.Z
		hx, hy, hz := x/2, y/2, z/2
		var edges []kernel.EdgeProperties
		// Four edges along each axis, at the four corner lines.
		add := func(length float64, mid, dir v3.Vec) {
			edges = append(edges, kernel.EdgeProperties{
				Index:     len(edges),
				Length:    length,
				Midpoint:  in.center.Add(mid),
				Direction: dir,
			})
		}
		for _, sy := range []float64{-1, 1} {
			for _, sz := range []float64{-1, 1} {
				add(x, v3.Vec{Y: sy * hy, Z: sz * hz}, v3.Vec{X: 1})
			}
		}
		for _, sx := range []float64{-1, 1} {
			for _, sz := range []float64{-1, 1} {
				add(y, v3.Vec{X: sx * hx, Z: sz * hz}, v3.Vec{Y: 1})
			}
		}
		for _, sx := range []float64{-1, 1} {
			for _, sy := range []float64{-1, 1} {
				add(z, v3.Vec{X: sx * hx, Y: sy * hy}, v3.Vec{Z: 1})
			}
		}
		return edges, nil
	case primCylinder:
		return nil, kernel.GeometryUnavailableError{
			Property: "edges",
			Reason:   "cylinder edges are circular and have no endpoint direction",
		}
	}
	return nil, kernel.GeometryUnavailableError{Property: "edges"}
}

// Vertices enumerates corner points.
func (k *SdfxKernel) Vertices(s kernel.Solid) ([]kernel.VertexProperties, error) {
	in := unwrap(s)
	switch in.kind {
	case primBox:
		hx, hy, hz := in.dims.X/2, in.dims.Y/2, in.dims.Z/2
		var verts []kernel.VertexProperties
		for _, sx := range []float64{-1, 1} {
			for _, sy := range []float64{-1, 1} {
				for _, sz := range []float64{-1, 1} {
					verts = append(verts, kernel.VertexProperties{
						Index: len(verts),
						Point: in.center.Add(v3.Vec{X: sx * hx, Y: sy * hy, Z: sz * hz}),
					})
				}
			}
		}
		return verts, nil
	case primCylinder:
		return nil, kernel.GeometryUnavailableError{
			Property: "vertices",
			Reason:   "cylinder has no corner vertices",
		}
	}
	return nil, kernel.GeometryUnavailableError{Property: "vertices"}
}

// ToMesh converts a solid to a triangle mesh using marching cubes.
func (k *SdfxKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	sdf3 := unwrap(s).s

	renderer := render.NewMarchingCubesUniform(defaultMeshCells)
	triangles := render.ToTriangles(sdf3, renderer)

	numTri := len(triangles)
	numVerts := numTri * 3

	vertices := make([]float32, 0, numVerts*3)
	normals := make([]float32, 0, numVerts*3)
	indices := make([]uint32, 0, numVerts)

	for i, tri := range triangles {
		n := tri.Normal()
		nx := float32(n.X)
		ny := float32(n.Y)
		nz := float32(n.Z)

		for j := 0; j < 3; j++ {
			v := tri[j]
			vertices = append(vertices, float32(v.X), float32(v.Y), float32(v.Z))
			normals = append(normals, nx, ny, nz)
			indices = append(indices, uint32(i*3+j))
		}
	}

	return &kernel.Mesh{
		Vertices: vertices,
		Normals:  normals,
		Indices:  indices,
	}, nil
}

package spatial

import (
	"errors"
	"math"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

const orthoTol = 1e-9

func TestFromPointAndNormalOrthonormal(t *testing.T) {
	inputs := []v3.Vec{
		{X: 0, Y: 0, Z: 1},
		{X: 1, Y: 0, Z: 0},
		{X: -1, Y: 0, Z: 0},
		{X: 0, Y: 1, Z: 0},
		{X: 1, Y: 1, Z: 1},
		{X: -0.3, Y: 0.7, Z: -0.2},
		{X: 0.9999, Y: 0.0001, Z: 0}, // nearly parallel to global X
		{X: 2, Y: -5, Z: 11},
	}

	for _, n := range inputs {
		f, err := FromPointAndNormal("test", v3.Vec{X: 1, Y: 2, Z: 3}, n, 1.0)
		if err != nil {
			t.Fatalf("FromPointAndNormal(%v): %v", n, err)
		}
		r := f.Rotation
		if !r.IsOrthonormal(orthoTol) {
			t.Errorf("rotation for normal %v is not orthonormal: det=%g", n, r.Det())
		}
		// Z must be the normalized input.
		want := n.Normalize()
		if !r.ZAxis().Equals(want, orthoTol) {
			t.Errorf("z axis = %v, want %v", r.ZAxis(), want)
		}
	}
}

func TestFromPointAndNormalDegenerate(t *testing.T) {
	f, err := FromPointAndNormal("bad", v3.Vec{}, v3.Vec{}, 1.0)
	if f != nil {
		t.Error("degenerate input must not return a frame")
	}
	var dfe DegenerateFrameError
	if !errors.As(err, &dfe) {
		t.Fatalf("error = %v, want DegenerateFrameError", err)
	}
	if dfe.Name != "bad" {
		t.Errorf("error name = %q, want %q", dfe.Name, "bad")
	}
}

func TestAlignmentHeuristic(t *testing.T) {
	// For a Z axis well clear of global X, frame X is the projection of
	// global X onto the plane orthogonal to Z.
	f, err := FromPointAndNormal("f", v3.Vec{}, v3.Vec{Z: 1}, 1.0)
	if err != nil {
		t.Fatal(err)
	}
	if !f.XAxis().Equals(v3.Vec{X: 1}, orthoTol) {
		t.Errorf("x axis = %v, want global X", f.XAxis())
	}
	if !f.YAxis().Equals(v3.Vec{Y: 1}, orthoTol) {
		t.Errorf("y axis = %v, want global Y", f.YAxis())
	}

	// When Z is parallel to global X the target switches to global Y.
	f, err = FromPointAndNormal("f", v3.Vec{}, v3.Vec{X: 1}, 1.0)
	if err != nil {
		t.Fatal(err)
	}
	if !f.XAxis().Equals(v3.Vec{Y: 1}, orthoTol) {
		t.Errorf("x axis = %v, want global Y", f.XAxis())
	}
}

func TestOriginUnitScaling(t *testing.T) {
	// Point in millimeters, scale to meters.
	f, err := FromPointAndNormal("f", v3.Vec{X: 100, Y: 200, Z: 300}, v3.Vec{Z: 1}, 0.001)
	if err != nil {
		t.Fatal(err)
	}
	want := v3.Vec{X: 0.1, Y: 0.2, Z: 0.3}
	if !f.Origin.Equals(want, 1e-12) {
		t.Errorf("origin = %v, want %v", f.Origin, want)
	}
}

func TestFromPointAndDirectionMatchesNormal(t *testing.T) {
	dir := v3.Vec{X: 0.5, Y: -0.5, Z: 0.7}
	fn, err := FromPointAndNormal("a", v3.Vec{X: 1}, dir, 1.0)
	if err != nil {
		t.Fatal(err)
	}
	fd, err := FromPointAndDirection("b", v3.Vec{X: 1}, dir, 1.0)
	if err != nil {
		t.Fatal(err)
	}
	if fn.Rotation != fd.Rotation {
		t.Error("normal and direction construction should produce the same rotation")
	}
}

func TestFromVertex(t *testing.T) {
	f := FromVertex("v", v3.Vec{X: 10, Y: 20, Z: 30}, 0.01)
	if f.Rotation != Identity() {
		t.Error("vertex frame should have identity rotation")
	}
	if !f.Origin.Equals(v3.Vec{X: 0.1, Y: 0.2, Z: 0.3}, 1e-12) {
		t.Errorf("origin = %v", f.Origin)
	}
}

func TestHeuristicDeterminism(t *testing.T) {
	n := v3.Vec{X: 0.3, Y: 0.4, Z: 0.5}
	a, _ := FromPointAndNormal("a", v3.Vec{}, n, 1.0)
	b, _ := FromPointAndNormal("b", v3.Vec{}, n, 1.0)
	if a.Rotation != b.Rotation {
		t.Error("construction must be deterministic")
	}
}

func TestRightHandedness(t *testing.T) {
	for _, n := range []v3.Vec{{X: 1, Y: 2, Z: 3}, {X: -1, Y: 0.01, Z: 0}, {Z: -1}} {
		f, err := FromPointAndNormal("f", v3.Vec{}, n, 1.0)
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(f.Rotation.Det()-1) > orthoTol {
			t.Errorf("det for %v = %g, want 1", n, f.Rotation.Det())
		}
	}
}

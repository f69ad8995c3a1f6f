package project

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/chazu/armature/pkg/assembly"
	"github.com/chazu/armature/pkg/spatial"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/google/go-cmp/cmp"
)

func buildAssembly(t *testing.T) *assembly.Assembly {
	t.Helper()
	a := assembly.New()
	for i, name := range []string{"base", "arm"} {
		if err := a.AddBody(assembly.NewBody(i, name)); err != nil {
			t.Fatal(err)
		}
	}

	standalone := spatial.NewFrame("work_origin")
	standalone.Origin = v3.Vec{X: 0.1, Y: 0.2, Z: 0.3}
	standalone.SetEulerAngles(10, 20, 30)
	if err := a.AddFrame(standalone); err != nil {
		t.Fatal(err)
	}
	if err := a.AddBodyFrame(spatial.NewFrame("arm_mount"), 1); err != nil {
		t.Fatal(err)
	}

	jf := spatial.NewFrame("elbow_frame")
	jf.Origin = v3.Vec{Z: 0.5}
	j := assembly.NewJoint("elbow", assembly.JointRevolute, 0, 1, jf, assembly.AxisNegY)
	if err := j.AddMotor(assembly.MotorVelocity, 10.5); err != nil {
		t.Fatal(err)
	}
	if err := a.AddJoint(j); err != nil {
		t.Fatal(err)
	}
	if err := a.AddJoint(assembly.NewJoint("anchor", assembly.JointFixed, assembly.GroundID, 0, spatial.NewFrame("anchor_frame"), assembly.AxisPosZ)); err != nil {
		t.Fatal(err)
	}
	return a
}

func TestSaveLoadRoundTrip(t *testing.T) {
	a := buildAssembly(t)
	doc := FromAssembly(a, "/data/robot.step", 0.001)

	path := filepath.Join(t.TempDir(), "robot.json")
	if err := Save(doc, path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(doc, loaded); diff != "" {
		t.Errorf("document round trip mismatch (-saved +loaded):\n%s", diff)
	}
}

func TestRestoreRebuildsAssembly(t *testing.T) {
	a := buildAssembly(t)
	doc := FromAssembly(a, "robot.step", 1.0)

	restored := assembly.New()
	for i, name := range []string{"base", "arm"} {
		if err := restored.AddBody(assembly.NewBody(i, name)); err != nil {
			t.Fatal(err)
		}
	}
	if err := doc.Restore(restored); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	if len(restored.Joints()) != 2 {
		t.Fatalf("restored %d joints, want 2", len(restored.Joints()))
	}
	j, ok := restored.Joint("elbow")
	if !ok {
		t.Fatal("elbow joint missing after restore")
	}
	if j.Type != assembly.JointRevolute || j.Axis != assembly.AxisNegY {
		t.Errorf("joint type/axis = %v/%v", j.Type, j.Axis)
	}
	if !j.Motorized || j.MotorDescription() != "VELOCITY: 10.5 rad/s" {
		t.Errorf("motor not restored: %q", j.MotorDescription())
	}
	if !j.Frame.Origin.Equals(v3.Vec{Z: 0.5}, 1e-12) {
		t.Errorf("joint frame origin = %v", j.Frame.Origin)
	}

	f, ok := restored.Frame("work_origin")
	if !ok {
		t.Fatal("standalone frame missing after restore")
	}
	orig, _ := a.Frame("work_origin")
	x, y, z := f.EulerAngles()
	ox, oy, oz := orig.EulerAngles()
	if abs(x-ox) > 1e-9 || abs(y-oy) > 1e-9 || abs(z-oz) > 1e-9 {
		t.Errorf("restored euler angles (%v, %v, %v), want (%v, %v, %v)", x, y, z, ox, oy, oz)
	}

	if owner, ok := restored.FrameOwner("arm_mount"); !ok || owner != 1 {
		t.Errorf("arm_mount owner = %d, %v, want 1, true", owner, ok)
	}
	if _, ok := restored.FrameOwner("work_origin"); ok {
		t.Error("standalone frame acquired an owner")
	}

	// The restored joint frame must be the registered frame instance, so
	// the in-use check protects it from deletion.
	var inUse assembly.FrameInUseError
	if err := restored.DeleteFrame("elbow_frame"); !errors.As(err, &inUse) {
		t.Errorf("DeleteFrame error = %v, want FrameInUseError", err)
	}
}

func TestRestoreSkeleton(t *testing.T) {
	a := buildAssembly(t)
	doc := FromAssembly(a, "robot.step", 1.0)

	skel, err := doc.RestoreSkeleton()
	if err != nil {
		t.Fatalf("RestoreSkeleton: %v", err)
	}
	// Ground plus the two referenced body ids.
	if got := len(skel.Bodies()); got != 3 {
		t.Fatalf("skeleton has %d bodies, want 3", got)
	}
	b, ok := skel.Body(1)
	if !ok {
		t.Fatal("skeleton missing body 1")
	}
	if b.HasGeometry() {
		t.Error("stub body claims geometry")
	}
	if len(skel.Joints()) != 2 {
		t.Errorf("skeleton has %d joints, want 2", len(skel.Joints()))
	}
}

func TestRestoreRejectsSelfJoint(t *testing.T) {
	// A hand-edited document can reference the same body twice; restoring
	// it must fail instead of registering an inconsistent joint.
	doc := &Document{
		Version:   Version,
		UnitScale: 1.0,
		Joints: []JointRecord{{
			Name:          "bad",
			Type:          "REVOLUTE",
			Body1ID:       0,
			Body2ID:       0,
			FrameName:     "bad_frame",
			FrameRotation: [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
			Axis:          "Z",
		}},
	}
	if _, err := doc.RestoreSkeleton(); err == nil {
		t.Fatal("self-joint document restored without error")
	}
}

func TestLoadMissingUnitScaleDefaultsToMeters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.json")
	if err := os.WriteFile(path, []byte(`{"version":"0.9","step_file":"x.step"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	doc, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc.UnitScale != 1.0 {
		t.Errorf("unit scale = %v, want 1.0", doc.UnitScale)
	}
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load accepted malformed JSON")
	}
}

func TestResolveStepFile(t *testing.T) {
	dir := t.TempDir()
	stepPath := filepath.Join(dir, "robot.step")
	if err := os.WriteFile(stepPath, []byte("ISO-10303-21;"), 0o644); err != nil {
		t.Fatal(err)
	}
	projectPath := filepath.Join(dir, "robot.json")

	t.Run("stored path exists", func(t *testing.T) {
		doc := &Document{StepFile: stepPath}
		got, err := ResolveStepFile(doc, projectPath, nil)
		if err != nil {
			t.Fatal(err)
		}
		if got != stepPath {
			t.Errorf("resolved %q, want %q", got, stepPath)
		}
	})

	t.Run("basename next to project", func(t *testing.T) {
		doc := &Document{StepFile: "/somewhere/else/robot.step"}
		got, err := ResolveStepFile(doc, projectPath, nil)
		if err != nil {
			t.Fatal(err)
		}
		if got != stepPath {
			t.Errorf("resolved %q, want %q", got, stepPath)
		}
	})

	t.Run("locate callback", func(t *testing.T) {
		doc := &Document{StepFile: "/gone/other.step"}
		called := false
		got, err := ResolveStepFile(doc, projectPath, func(missing string) (string, bool) {
			called = true
			if missing != "/gone/other.step" {
				t.Errorf("locate got %q", missing)
			}
			return stepPath, true
		})
		if err != nil {
			t.Fatal(err)
		}
		if !called {
			t.Error("locate callback not invoked")
		}
		if got != stepPath {
			t.Errorf("resolved %q, want %q", got, stepPath)
		}
	})

	t.Run("not found", func(t *testing.T) {
		doc := &Document{StepFile: "/gone/other.step"}
		var notFound StepFileNotFoundError
		_, err := ResolveStepFile(doc, projectPath, func(string) (string, bool) { return "", false })
		if !errors.As(err, &notFound) {
			t.Fatalf("error = %v, want StepFileNotFoundError", err)
		}
		if notFound.Path != "/gone/other.step" {
			t.Errorf("error path = %q", notFound.Path)
		}
	})
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

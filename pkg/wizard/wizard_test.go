package wizard

import (
	"errors"
	"testing"

	"github.com/chazu/armature/pkg/assembly"
	"github.com/chazu/armature/pkg/spatial"
)

func newAssembly(t *testing.T) *assembly.Assembly {
	t.Helper()
	a := assembly.New()
	for i, name := range []string{"base", "arm"} {
		if err := a.AddBody(assembly.NewBody(i, name)); err != nil {
			t.Fatal(err)
		}
	}
	return a
}

// runToConfirm drives a wizard through every step up to confirmation.
func runToConfirm(t *testing.T, w *Wizard) {
	t.Helper()
	steps := []Input{
		PickType{Name: "elbow", Type: assembly.JointRevolute, Axis: assembly.AxisPosZ},
		PickBody{ID: 0},
		PickBody{ID: 1},
		PickGeometry{Frame: spatial.NewFrame("pick1")},
		PickGeometry{Frame: spatial.NewFrame("pick2")},
		DeriveFrame{},
	}
	for _, in := range steps {
		if err := w.Advance(in); err != nil {
			t.Fatalf("Advance(%T) in state %s: %v", in, w.State(), err)
		}
	}
	if w.State() != StateConfirm {
		t.Fatalf("state = %s, want confirm", w.State())
	}
}

func TestWizardHappyPath(t *testing.T) {
	a := newAssembly(t)
	w := Start(a)
	runToConfirm(t, w)

	if err := w.Advance(ConfirmJoint{Motorize: true, MotorType: assembly.MotorVelocity, MotorValue: 2.5}); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if w.State() != StateDone {
		t.Fatalf("state = %s, want done", w.State())
	}

	j := w.Joint()
	if j == nil {
		t.Fatal("Joint() returned nil after done")
	}
	if j.Type != assembly.JointRevolute || j.Body1 != 0 || j.Body2 != 1 {
		t.Errorf("joint = %v, want revolute between 0 and 1", j)
	}
	if j.Frame.Name != "elbow_frame" {
		t.Errorf("joint frame name = %q, want elbow_frame", j.Frame.Name)
	}
	if !j.Motorized || j.MotorDescription() != "VELOCITY: 2.5 rad/s" {
		t.Errorf("motor description = %q", j.MotorDescription())
	}
	if _, ok := a.Joint("elbow"); !ok {
		t.Error("joint not registered with assembly")
	}
}

func TestWizardRejectsWrongInput(t *testing.T) {
	a := newAssembly(t)
	w := Start(a)

	var stateErr StateError
	if err := w.Advance(PickBody{ID: 0}); !errors.As(err, &stateErr) {
		t.Fatalf("error = %v, want StateError", err)
	}
	if w.State() != StateSelectType {
		t.Errorf("state changed on rejected input: %s", w.State())
	}
}

func TestWizardValidatesSelections(t *testing.T) {
	a := newAssembly(t)
	w := Start(a)

	if err := w.Advance(PickType{Name: ""}); err == nil {
		t.Error("empty joint name accepted")
	}
	if err := w.Advance(PickType{Name: "j", Type: assembly.JointRevolute, Axis: assembly.AxisPosZ}); err != nil {
		t.Fatal(err)
	}

	if err := w.Advance(PickBody{ID: 42}); err == nil {
		t.Error("unknown body accepted")
	}
	if err := w.Advance(PickBody{ID: 0}); err != nil {
		t.Fatal(err)
	}
	if err := w.Advance(PickBody{ID: 0}); err == nil {
		t.Error("self-joint accepted")
	}
	if w.State() != StateSelectBody2 {
		t.Errorf("state = %s, want select-body2 after rejected self-joint", w.State())
	}
}

func TestWizardDuplicateJointName(t *testing.T) {
	a := newAssembly(t)
	j := assembly.NewJoint("elbow", assembly.JointFixed, assembly.GroundID, 0, spatial.NewFrame("f"), assembly.AxisPosZ)
	if err := a.AddJoint(j); err != nil {
		t.Fatal(err)
	}

	w := Start(a)
	var dup assembly.DuplicateNameError
	err := w.Advance(PickType{Name: "elbow", Type: assembly.JointRevolute, Axis: assembly.AxisPosZ})
	if !errors.As(err, &dup) {
		t.Fatalf("error = %v, want DuplicateNameError", err)
	}
}

func TestWizardDeriveFrameSecondPick(t *testing.T) {
	a := newAssembly(t)
	w := Start(a)

	f2 := spatial.NewFrame("pick2")
	steps := []Input{
		PickType{Name: "j", Type: assembly.JointFixed, Axis: assembly.AxisPosZ},
		PickBody{ID: 0},
		PickBody{ID: 1},
		PickGeometry{Frame: spatial.NewFrame("pick1")},
		PickGeometry{Frame: f2},
		DeriveFrame{UseSecond: true},
		ConfirmJoint{},
	}
	for _, in := range steps {
		if err := w.Advance(in); err != nil {
			t.Fatalf("Advance(%T): %v", in, err)
		}
	}
	j := w.Joint()
	if j.Frame != f2 {
		t.Error("joint frame is not the second geometry pick")
	}
}

func TestWizardBack(t *testing.T) {
	a := newAssembly(t)
	w := Start(a)
	runToConfirm(t, w)

	w.Back()
	if w.State() != StateDeriveFrame {
		t.Fatalf("state after Back = %s, want derive-frame", w.State())
	}
	if err := w.Advance(DeriveFrame{UseSecond: true}); err != nil {
		t.Fatalf("re-advance after Back: %v", err)
	}
	if w.State() != StateConfirm {
		t.Fatalf("state = %s, want confirm", w.State())
	}

	// Back from the first step is a no-op.
	w2 := Start(a)
	w2.Back()
	if w2.State() != StateSelectType {
		t.Errorf("Back from first step moved to %s", w2.State())
	}
}

func TestWizardCancelLeavesAssemblyUnmodified(t *testing.T) {
	a := newAssembly(t)
	before := len(a.Joints())
	framesBefore := len(a.Frames())

	w := Start(a)
	runToConfirm(t, w)
	w.Cancel()

	if w.State() != StateCancelled {
		t.Fatalf("state = %s, want cancelled", w.State())
	}
	if len(a.Joints()) != before {
		t.Error("cancelled wizard added a joint")
	}
	if len(a.Frames()) != framesBefore {
		t.Error("cancelled wizard added a frame")
	}
	if w.Joint() != nil {
		t.Error("cancelled wizard reports a joint")
	}
}

func TestWizardMotorOnFixedJointRejectedAtConfirm(t *testing.T) {
	a := newAssembly(t)
	w := Start(a)
	steps := []Input{
		PickType{Name: "weld", Type: assembly.JointFixed, Axis: assembly.AxisPosZ},
		PickBody{ID: 0},
		PickBody{ID: 1},
		PickGeometry{Frame: spatial.NewFrame("p1")},
		PickGeometry{Frame: spatial.NewFrame("p2")},
		DeriveFrame{},
	}
	for _, in := range steps {
		if err := w.Advance(in); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Advance(ConfirmJoint{Motorize: true, MotorType: assembly.MotorTorque, MotorValue: 1}); err == nil {
		t.Fatal("motor on fixed joint accepted")
	}
	if w.State() != StateConfirm {
		t.Errorf("state = %s, want confirm retained after rejected confirm", w.State())
	}
	if _, ok := a.Joint("weld"); ok {
		t.Error("rejected confirm still added the joint")
	}
}

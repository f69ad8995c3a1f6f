// Package wizard implements the step-by-step joint construction flow. The
// wizard accumulates selections across states and mutates the assembly only
// when the final confirmation is accepted; cancelling at any point leaves
// the assembly untouched.
package wizard

import (
	"fmt"

	"github.com/chazu/armature/pkg/assembly"
	"github.com/chazu/armature/pkg/spatial"
)

// State identifies the wizard's current step.
type State int

const (
	StateSelectType State = iota
	StateSelectBody1
	StateSelectBody2
	StateSelectGeometry1
	StateSelectGeometry2
	StateDeriveFrame
	StateConfirm
	StateDone
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateSelectType:
		return "select-type"
	case StateSelectBody1:
		return "select-body1"
	case StateSelectBody2:
		return "select-body2"
	case StateSelectGeometry1:
		return "select-geometry1"
	case StateSelectGeometry2:
		return "select-geometry2"
	case StateDeriveFrame:
		return "derive-frame"
	case StateConfirm:
		return "confirm"
	case StateDone:
		return "done"
	case StateCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Input is one user selection fed to Advance. Exactly one concrete input
// type is accepted per state.
type Input interface {
	wizardInput()
}

// PickType names the joint and chooses its type and motion axis.
type PickType struct {
	Name string
	Type assembly.JointType
	Axis assembly.Axis
}

// PickBody selects one of the assembly's bodies by id.
type PickBody struct {
	ID int
}

// PickGeometry supplies a candidate placement frame derived from a
// geometric pick on the most recently selected body.
type PickGeometry struct {
	Frame *spatial.Frame
}

// DeriveFrame chooses which of the two candidate frames places the joint.
type DeriveFrame struct {
	UseSecond bool
}

// ConfirmJoint accepts the assembled joint, optionally with a motor.
type ConfirmJoint struct {
	Motorize   bool
	MotorType  assembly.MotorType
	MotorValue float64
}

func (PickType) wizardInput()     {}
func (PickBody) wizardInput()     {}
func (PickGeometry) wizardInput() {}
func (DeriveFrame) wizardInput()  {}
func (ConfirmJoint) wizardInput() {}

// StateError reports an input that does not match the wizard's state.
type StateError struct {
	State State
	Input Input
}

func (e StateError) Error() string {
	return fmt.Sprintf("wizard in state %s cannot accept %T", e.State, e.Input)
}

// Wizard drives joint construction against a target assembly.
type Wizard struct {
	asm   *assembly.Assembly
	state State

	name      string
	jointType assembly.JointType
	axis      assembly.Axis
	body1     int
	body2     int
	frame1    *spatial.Frame
	frame2    *spatial.Frame
	frame     *spatial.Frame
}

// Start begins a new joint construction flow against the assembly.
func Start(asm *assembly.Assembly) *Wizard {
	return &Wizard{asm: asm, state: StateSelectType}
}

// State returns the wizard's current step.
func (w *Wizard) State() State {
	return w.state
}

// Advance feeds one selection to the wizard. On success the wizard moves to
// the next state; on error the state is unchanged and the same step can be
// retried with corrected input. The assembly is mutated only on the
// transition out of StateConfirm.
func (w *Wizard) Advance(in Input) error {
	switch w.state {
	case StateSelectType:
		pick, ok := in.(PickType)
		if !ok {
			return StateError{State: w.state, Input: in}
		}
		if pick.Name == "" {
			return fmt.Errorf("joint name must not be empty")
		}
		if _, exists := w.asm.Joint(pick.Name); exists {
			return assembly.DuplicateNameError{Kind: "joint", Name: pick.Name}
		}
		w.name = pick.Name
		w.jointType = pick.Type
		w.axis = pick.Axis
		w.state = StateSelectBody1
		return nil

	case StateSelectBody1, StateSelectBody2:
		pick, ok := in.(PickBody)
		if !ok {
			return StateError{State: w.state, Input: in}
		}
		if _, exists := w.asm.Body(pick.ID); !exists {
			return assembly.DanglingReferenceError{Kind: "body", Ref: fmt.Sprintf("%d", pick.ID)}
		}
		if w.state == StateSelectBody1 {
			w.body1 = pick.ID
			w.state = StateSelectBody2
			return nil
		}
		if pick.ID == w.body1 {
			return fmt.Errorf("joint cannot connect body %d to itself", pick.ID)
		}
		w.body2 = pick.ID
		w.state = StateSelectGeometry1
		return nil

	case StateSelectGeometry1, StateSelectGeometry2:
		pick, ok := in.(PickGeometry)
		if !ok {
			return StateError{State: w.state, Input: in}
		}
		if pick.Frame == nil {
			return fmt.Errorf("geometry pick produced no frame")
		}
		if w.state == StateSelectGeometry1 {
			w.frame1 = pick.Frame
			w.state = StateSelectGeometry2
			return nil
		}
		w.frame2 = pick.Frame
		w.state = StateDeriveFrame
		return nil

	case StateDeriveFrame:
		pick, ok := in.(DeriveFrame)
		if !ok {
			return StateError{State: w.state, Input: in}
		}
		w.frame = w.frame1
		if pick.UseSecond {
			w.frame = w.frame2
		}
		w.frame.Name = w.name + "_frame"
		w.state = StateConfirm
		return nil

	case StateConfirm:
		confirm, ok := in.(ConfirmJoint)
		if !ok {
			return StateError{State: w.state, Input: in}
		}
		j := assembly.NewJoint(w.name, w.jointType, w.body1, w.body2, w.frame, w.axis)
		if confirm.Motorize {
			if err := j.AddMotor(confirm.MotorType, confirm.MotorValue); err != nil {
				return err
			}
		}
		if err := w.asm.AddJoint(j); err != nil {
			return err
		}
		w.state = StateDone
		return nil
	}
	return StateError{State: w.state, Input: in}
}

// Back steps to the previous selection, discarding the selection made
// there. Going back from the first step is a no-op.
func (w *Wizard) Back() {
	switch w.state {
	case StateSelectBody1:
		w.name = ""
		w.state = StateSelectType
	case StateSelectBody2:
		w.body1 = 0
		w.state = StateSelectBody1
	case StateSelectGeometry1:
		w.body2 = 0
		w.state = StateSelectBody2
	case StateSelectGeometry2:
		w.frame1 = nil
		w.state = StateSelectGeometry1
	case StateDeriveFrame:
		w.frame2 = nil
		w.state = StateSelectGeometry2
	case StateConfirm:
		w.frame = nil
		w.state = StateDeriveFrame
	}
}

// Cancel abandons the flow. The assembly is never modified by a cancelled
// wizard.
func (w *Wizard) Cancel() {
	w.state = StateCancelled
}

// Joint returns the constructed joint after StateDone, or nil otherwise.
func (w *Wizard) Joint() *assembly.Joint {
	if w.state != StateDone {
		return nil
	}
	j, _ := w.asm.Joint(w.name)
	return j
}

package assembly

import (
	"fmt"
	"strings"
)

// DuplicateNameError reports an attempt to register a body, joint, or frame
// under a name or id that is already taken.
type DuplicateNameError struct {
	Kind string // "body", "joint", or "frame"
	Name string
}

func (e DuplicateNameError) Error() string {
	return fmt.Sprintf("%s %q already exists", e.Kind, e.Name)
}

// DanglingReferenceError reports a reference to a body, joint, or frame that
// does not exist in the assembly.
type DanglingReferenceError struct {
	Kind string // what was referenced
	Ref  string // the missing name or id
}

func (e DanglingReferenceError) Error() string {
	return fmt.Sprintf("unknown %s %q", e.Kind, e.Ref)
}

// FrameInUseError reports an attempt to delete a frame that is still
// referenced by one or more joints.
type FrameInUseError struct {
	Frame  string
	Joints []string
}

func (e FrameInUseError) Error() string {
	return fmt.Sprintf("frame %q is in use by joints: %s", e.Frame, strings.Join(e.Joints, ", "))
}

// MotorError reports an invalid motor operation on a joint.
type MotorError struct {
	Joint  string
	Reason string
}

func (e MotorError) Error() string {
	return fmt.Sprintf("joint %q: %s", e.Joint, e.Reason)
}

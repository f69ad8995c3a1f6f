package assembly

import (
	"fmt"
	"strings"

	"github.com/chazu/armature/pkg/spatial"
)

// JointType enumerates the supported kinematic joint types.
type JointType int

const (
	JointFixed JointType = iota
	JointRevolute
	JointPrismatic
	JointCylindrical
	JointSpherical
	JointUniversal
	JointPlanar
)

func (t JointType) String() string {
	switch t {
	case JointFixed:
		return "FIXED"
	case JointRevolute:
		return "REVOLUTE"
	case JointPrismatic:
		return "PRISMATIC"
	case JointCylindrical:
		return "CYLINDRICAL"
	case JointSpherical:
		return "SPHERICAL"
	case JointUniversal:
		return "UNIVERSAL"
	case JointPlanar:
		return "PLANAR"
	default:
		return fmt.Sprintf("JointType(%d)", int(t))
	}
}

// ParseJointType converts a string like "REVOLUTE" to a JointType.
func ParseJointType(s string) (JointType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "FIXED":
		return JointFixed, nil
	case "REVOLUTE":
		return JointRevolute, nil
	case "PRISMATIC":
		return JointPrismatic, nil
	case "CYLINDRICAL":
		return JointCylindrical, nil
	case "SPHERICAL":
		return JointSpherical, nil
	case "UNIVERSAL":
		return JointUniversal, nil
	case "PLANAR":
		return JointPlanar, nil
	}
	return JointFixed, fmt.Errorf("unknown joint type %q", s)
}

// HasAxis reports whether the joint type has a meaningful motion axis.
// Fixed and spherical joints constrain or free all rotations symmetrically.
func (t JointType) HasAxis() bool {
	switch t {
	case JointRevolute, JointPrismatic, JointCylindrical, JointUniversal, JointPlanar:
		return true
	}
	return false
}

// SupportsMotor reports whether the joint type accepts a motor. Only
// single-degree-of-freedom joints can be driven.
func (t JointType) SupportsMotor() bool {
	return t == JointRevolute || t == JointPrismatic
}

// MotorType enumerates the drive modes for motorized joints.
type MotorType int

const (
	MotorVelocity MotorType = iota
	MotorTorque
	MotorPosition
)

func (m MotorType) String() string {
	switch m {
	case MotorVelocity:
		return "VELOCITY"
	case MotorTorque:
		return "TORQUE"
	case MotorPosition:
		return "POSITION"
	default:
		return fmt.Sprintf("MotorType(%d)", int(m))
	}
}

// ParseMotorType converts a string like "VELOCITY" to a MotorType.
func ParseMotorType(s string) (MotorType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "VELOCITY":
		return MotorVelocity, nil
	case "TORQUE":
		return MotorTorque, nil
	case "POSITION":
		return MotorPosition, nil
	}
	return MotorVelocity, fmt.Errorf("unknown motor type %q", s)
}

// Joint connects two bodies at a frame. Body1 and Body2 are body ids;
// either may be the ground body. Frame is the joint's placement in world
// coordinates and Axis the motion axis in frame-local coordinates.
type Joint struct {
	Name  string
	Type  JointType
	Body1 int
	Body2 int
	Frame *spatial.Frame
	Axis  Axis

	Motorized  bool
	MotorType  MotorType
	MotorValue float64
}

// NewJoint builds a joint between two bodies at the given frame.
func NewJoint(name string, jointType JointType, body1, body2 int, frame *spatial.Frame, axis Axis) *Joint {
	return &Joint{
		Name:  name,
		Type:  jointType,
		Body1: body1,
		Body2: body2,
		Frame: frame,
		Axis:  axis,
	}
}

// AddMotor attaches a motor to the joint. Only revolute and prismatic
// joints can be motorized, and each joint carries at most one motor.
func (j *Joint) AddMotor(motorType MotorType, value float64) error {
	if !j.Type.SupportsMotor() {
		return MotorError{Joint: j.Name, Reason: fmt.Sprintf("%s joints cannot be motorized", j.Type)}
	}
	if j.Motorized {
		return MotorError{Joint: j.Name, Reason: "joint already has a motor"}
	}
	j.Motorized = true
	j.MotorType = motorType
	j.MotorValue = value
	return nil
}

// RemoveMotor detaches the joint's motor, if any.
func (j *Joint) RemoveMotor() {
	j.Motorized = false
	j.MotorType = MotorVelocity
	j.MotorValue = 0
}

// MotorUnit returns the physical unit of the motor value, which depends on
// both the motor type and whether the joint is rotational or translational.
func (j *Joint) MotorUnit() string {
	rotational := j.Type == JointRevolute
	switch j.MotorType {
	case MotorVelocity:
		if rotational {
			return "rad/s"
		}
		return "m/s"
	case MotorTorque:
		if rotational {
			return "N·m"
		}
		return "N"
	case MotorPosition:
		if rotational {
			return "rad"
		}
		return "m"
	}
	return ""
}

// MotorDescription returns a human-readable summary of the motor, such as
// "VELOCITY: 10.5 rad/s", or "No motor" for unmotorized joints.
func (j *Joint) MotorDescription() string {
	if !j.Motorized {
		return "No motor"
	}
	return fmt.Sprintf("%s: %g %s", j.MotorType, j.MotorValue, j.MotorUnit())
}

func (j *Joint) String() string {
	return fmt.Sprintf("Joint(%s, %s, %d-%d)", j.Name, j.Type, j.Body1, j.Body2)
}

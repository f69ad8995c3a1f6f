package assembly

import (
	"fmt"
	"strings"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Axis identifies a signed principal axis of a joint frame.
type Axis int

const (
	AxisPosX Axis = iota
	AxisNegX
	AxisPosY
	AxisNegY
	AxisPosZ
	AxisNegZ
)

func (a Axis) String() string {
	switch a {
	case AxisPosX:
		return "X"
	case AxisNegX:
		return "-X"
	case AxisPosY:
		return "Y"
	case AxisNegY:
		return "-Y"
	case AxisPosZ:
		return "Z"
	case AxisNegZ:
		return "-Z"
	default:
		return fmt.Sprintf("Axis(%d)", int(a))
	}
}

// Vector returns the unit direction of the axis in frame-local coordinates.
func (a Axis) Vector() v3.Vec {
	switch a {
	case AxisPosX:
		return v3.Vec{X: 1}
	case AxisNegX:
		return v3.Vec{X: -1}
	case AxisPosY:
		return v3.Vec{Y: 1}
	case AxisNegY:
		return v3.Vec{Y: -1}
	case AxisNegZ:
		return v3.Vec{Z: -1}
	default:
		return v3.Vec{Z: 1}
	}
}

// ParseAxis converts a string like "X" or "-Z" to an Axis.
func ParseAxis(s string) (Axis, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "X", "+X":
		return AxisPosX, nil
	case "-X":
		return AxisNegX, nil
	case "Y", "+Y":
		return AxisPosY, nil
	case "-Y":
		return AxisNegY, nil
	case "Z", "+Z":
		return AxisPosZ, nil
	case "-Z":
		return AxisNegZ, nil
	}
	return AxisPosZ, fmt.Errorf("unknown axis %q", s)
}

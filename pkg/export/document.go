// Package export produces the solver input document: a self-contained JSON
// description of the assembly in meters and world coordinates, optionally
// accompanied by per-body OBJ meshes. Bodies without geometry export with
// their mass fields absent rather than zeroed.
package export

import (
	"github.com/chazu/armature/pkg/assembly"
	"github.com/chazu/armature/pkg/spatial"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Version is the export document format version.
const Version = "1.0"

// Document is the solver input file.
type Document struct {
	Metadata   Metadata               `json:"metadata"`
	GroundBody Body                   `json:"ground_body"`
	Bodies     []Body                 `json:"bodies"`
	Joints     []Joint                `json:"joints"`
	Frames     map[string]FrameDetail `json:"frames"`
}

// Metadata describes the document's conventions. All exported quantities
// are in meters regardless of the source model's units.
type Metadata struct {
	Version           string  `json:"version"`
	Description       string  `json:"description"`
	CoordinateSystem  string  `json:"coordinate_system"`
	UnitScale         float64 `json:"unit_scale"`
	OriginalUnitScale float64 `json:"original_unit_scale"`
	Units             string  `json:"units"`
}

// Body is one exported rigid body. Mass fields are pointers so absent
// geometry serializes as null, never as zero.
type Body struct {
	ID             int            `json:"id"`
	Name           string         `json:"name"`
	Volume         *float64       `json:"volume"`
	ContactEnabled bool           `json:"contact_enabled"`
	MeshFile       string         `json:"mesh_file,omitempty"`
	CenterOfMass   *[3]float64    `json:"center_of_mass"`
	InertiaTensor  *[3][3]float64 `json:"inertia_tensor"`
	LocalFrame     *FrameDetail   `json:"local_frame"`
}

// Joint is one exported joint with resolved body names and the placement
// frame in world coordinates.
type Joint struct {
	Name       string      `json:"name"`
	Type       string      `json:"type"`
	Axis       string      `json:"axis"`
	Body1ID    int         `json:"body1_id"`
	Body1Name  string      `json:"body1_name"`
	Body2ID    int         `json:"body2_id"`
	Body2Name  string      `json:"body2_name"`
	Motorized  bool        `json:"motorized"`
	MotorType  string      `json:"motor_type,omitempty"`
	MotorValue float64     `json:"motor_value,omitempty"`
	MotorUnits string      `json:"motor_units,omitempty"`
	FrameWorld FrameDetail `json:"frame_world"`
}

// FrameDetail is the redundant frame serialization solvers expect: the
// rotation matrix plus the Euler angles and the three axis columns.
type FrameDetail struct {
	Name           string        `json:"name"`
	Origin         [3]float64    `json:"origin"`
	RotationMatrix [3][3]float64 `json:"rotation_matrix"`
	EulerAnglesDeg [3]float64    `json:"euler_angles_deg"`
	XAxis          [3]float64    `json:"x_axis"`
	YAxis          [3]float64    `json:"y_axis"`
	ZAxis          [3]float64    `json:"z_axis"`
}

func vecToArr(v v3.Vec) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

func frameDetail(f *spatial.Frame) FrameDetail {
	x, y, z := f.EulerAngles()
	return FrameDetail{
		Name:           f.Name,
		Origin:         vecToArr(f.Origin),
		RotationMatrix: [3][3]float64(f.Rotation),
		EulerAnglesDeg: [3]float64{x, y, z},
		XAxis:          vecToArr(f.XAxis()),
		YAxis:          vecToArr(f.YAxis()),
		ZAxis:          vecToArr(f.ZAxis()),
	}
}

func exportBody(b *assembly.RigidBody) Body {
	out := Body{
		ID:             b.ID,
		Name:           b.Name,
		ContactEnabled: b.ContactEnabled,
		MeshFile:       b.MeshFile,
	}
	if b.Volume != nil {
		v := *b.Volume
		out.Volume = &v
	}
	if b.CenterOfMass != nil {
		com := vecToArr(*b.CenterOfMass)
		out.CenterOfMass = &com
	}
	if b.Inertia != nil {
		inertia := *b.Inertia
		out.InertiaTensor = &inertia
	}
	if b.LocalFrame != nil {
		lf := frameDetail(b.LocalFrame)
		out.LocalFrame = &lf
	}
	return out
}

func exportJoint(a *assembly.Assembly, j *assembly.Joint) Joint {
	out := Joint{
		Name:       j.Name,
		Type:       j.Type.String(),
		Axis:       j.Axis.String(),
		Body1ID:    j.Body1,
		Body2ID:    j.Body2,
		Motorized:  j.Motorized,
		FrameWorld: frameDetail(j.Frame),
	}
	if b, ok := a.Body(j.Body1); ok {
		out.Body1Name = b.Name
	}
	if b, ok := a.Body(j.Body2); ok {
		out.Body2Name = b.Name
	}
	if j.Motorized {
		out.MotorType = j.MotorType.String()
		out.MotorValue = j.MotorValue
		out.MotorUnits = j.MotorUnit()
	}
	return out
}

// BuildDocument captures the assembly as a solver input document.
// originalUnitScale records the source model's meters-per-unit factor; the
// exported values themselves are always meters.
func BuildDocument(a *assembly.Assembly, description string, originalUnitScale float64) *Document {
	doc := &Document{
		Metadata: Metadata{
			Version:           Version,
			Description:       description,
			CoordinateSystem:  "global_world_frame",
			UnitScale:         1.0,
			OriginalUnitScale: originalUnitScale,
			Units:             "meters",
		},
		GroundBody: exportBody(a.Ground()),
		Frames:     make(map[string]FrameDetail),
	}
	for _, b := range a.Bodies() {
		if b.IsGround() {
			continue
		}
		doc.Bodies = append(doc.Bodies, exportBody(b))
	}
	for _, j := range a.Joints() {
		doc.Joints = append(doc.Joints, exportJoint(a, j))
	}
	for _, f := range a.Frames() {
		doc.Frames[f.Name] = frameDetail(f)
	}
	return doc
}

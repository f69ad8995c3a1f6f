// Package project saves and loads assembly definitions. A project document
// stores the source STEP file path, the unit scale, and every frame and
// joint; body geometry is not stored and is recovered by re-importing the
// STEP file on load.
package project

import (
	"strconv"

	"github.com/chazu/armature/pkg/assembly"
	"github.com/chazu/armature/pkg/spatial"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Version is the project document format version.
const Version = "1.0"

// Document is the serialized form of a project.
type Document struct {
	Version   string        `json:"version"`
	StepFile  string        `json:"step_file"`
	UnitScale float64       `json:"unit_scale"`
	Frames    []FrameRecord `json:"frames"`
	Joints    []JointRecord `json:"joints"`
}

// FrameRecord is one saved frame. OwnerID is set only for frames owned by
// a body.
type FrameRecord struct {
	Name           string        `json:"name"`
	Origin         [3]float64    `json:"origin"`
	RotationMatrix [3][3]float64 `json:"rotation_matrix"`
	OwnerID        *int          `json:"owner_id,omitempty"`
}

// JointRecord is one saved joint. The placement frame is stored inline so
// a joint can be restored even if its frame record is missing.
type JointRecord struct {
	Name          string        `json:"name"`
	Type          string        `json:"type"`
	Body1ID       int           `json:"body1_id"`
	Body2ID       int           `json:"body2_id"`
	FrameName     string        `json:"frame_name"`
	FrameOrigin   [3]float64    `json:"frame_origin"`
	FrameRotation [3][3]float64 `json:"frame_rotation"`
	Axis          string        `json:"axis"`
	Motorized     bool          `json:"motorized,omitempty"`
	MotorType     string        `json:"motor_type,omitempty"`
	MotorValue    float64       `json:"motor_value,omitempty"`
}

func vecToArr(v v3.Vec) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

func arrToVec(a [3]float64) v3.Vec {
	return v3.Vec{X: a[0], Y: a[1], Z: a[2]}
}

func frameRecord(f *spatial.Frame, owner *int) FrameRecord {
	return FrameRecord{
		Name:           f.Name,
		Origin:         vecToArr(f.Origin),
		RotationMatrix: [3][3]float64(f.Rotation),
		OwnerID:        owner,
	}
}

func recordFrame(r FrameRecord) *spatial.Frame {
	f := spatial.NewFrame(r.Name)
	f.Origin = arrToVec(r.Origin)
	f.Rotation = spatial.Rotation(r.RotationMatrix)
	return f
}

// FromAssembly captures the assembly into a document.
func FromAssembly(a *assembly.Assembly, stepFile string, unitScale float64) *Document {
	doc := &Document{
		Version:   Version,
		StepFile:  stepFile,
		UnitScale: unitScale,
	}
	for _, f := range a.Frames() {
		var owner *int
		if id, ok := a.FrameOwner(f.Name); ok {
			owner = &id
		}
		doc.Frames = append(doc.Frames, frameRecord(f, owner))
	}
	for _, j := range a.Joints() {
		rec := JointRecord{
			Name:          j.Name,
			Type:          j.Type.String(),
			Body1ID:       j.Body1,
			Body2ID:       j.Body2,
			FrameName:     j.Frame.Name,
			FrameOrigin:   vecToArr(j.Frame.Origin),
			FrameRotation: [3][3]float64(j.Frame.Rotation),
			Axis:          j.Axis.String(),
		}
		if j.Motorized {
			rec.Motorized = true
			rec.MotorType = j.MotorType.String()
			rec.MotorValue = j.MotorValue
		}
		doc.Joints = append(doc.Joints, rec)
	}
	return doc
}

// Restore rebuilds the document's frames and joints into an assembly whose
// bodies already exist, typically after re-importing the STEP file. Frames
// are restored first so that joints can share frame instances by name.
func (doc *Document) Restore(a *assembly.Assembly) error {
	for _, r := range doc.Frames {
		if _, exists := a.Frame(r.Name); exists {
			continue
		}
		f := recordFrame(r)
		if r.OwnerID != nil {
			if err := a.AddBodyFrame(f, *r.OwnerID); err != nil {
				return err
			}
			continue
		}
		if err := a.AddFrame(f); err != nil {
			return err
		}
	}
	for _, r := range doc.Joints {
		jt, err := assembly.ParseJointType(r.Type)
		if err != nil {
			return err
		}
		axis, err := assembly.ParseAxis(r.Axis)
		if err != nil {
			return err
		}
		frame, ok := a.Frame(r.FrameName)
		if !ok {
			frame = recordFrame(FrameRecord{
				Name:           r.FrameName,
				Origin:         r.FrameOrigin,
				RotationMatrix: r.FrameRotation,
			})
		}
		j := assembly.NewJoint(r.Name, jt, r.Body1ID, r.Body2ID, frame, axis)
		if r.Motorized {
			mt, err := assembly.ParseMotorType(r.MotorType)
			if err != nil {
				return err
			}
			if err := j.AddMotor(mt, r.MotorValue); err != nil {
				return err
			}
		}
		if err := a.AddJoint(j); err != nil {
			return err
		}
	}
	return nil
}

// RestoreSkeleton rebuilds an assembly from the document alone, creating a
// stub body for every id the joints and frames reference. Stub bodies have
// no geometry; this is enough for validation and export of topology when
// the STEP file is unavailable.
func (doc *Document) RestoreSkeleton() (*assembly.Assembly, error) {
	a := assembly.New()
	ids := make(map[int]bool)
	for _, r := range doc.Joints {
		ids[r.Body1ID] = true
		ids[r.Body2ID] = true
	}
	for _, r := range doc.Frames {
		if r.OwnerID != nil {
			ids[*r.OwnerID] = true
		}
	}
	for id := range ids {
		if id == assembly.GroundID {
			continue
		}
		if err := a.AddBody(assembly.NewBody(id, stubName(id))); err != nil {
			return nil, err
		}
	}
	if err := doc.Restore(a); err != nil {
		return nil, err
	}
	return a, nil
}

func stubName(id int) string {
	return "body_" + strconv.Itoa(id)
}

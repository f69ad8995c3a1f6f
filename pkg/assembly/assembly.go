// Package assembly holds the rigid-body assembly model: bodies, joints,
// and reference frames, plus the explicit ownership index that ties frames
// to bodies. All cross-references are validated at mutation time so the
// aggregate never holds a dangling name or id.
package assembly

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/chazu/armature/pkg/spatial"
)

// Assembly is the aggregate of bodies, joints, and frames. The zero value
// is not usable; call New.
type Assembly struct {
	bodies map[int]*RigidBody
	joints map[string]*Joint
	frames map[string]*spatial.Frame

	// frameOwner maps a frame name to the id of the body that owns it.
	// Standalone frames have no entry. Ownership is tracked here
	// explicitly, never inferred from frame naming conventions.
	frameOwner map[string]int
}

// New creates an empty assembly containing only the ground body.
func New() *Assembly {
	a := &Assembly{
		bodies:     make(map[int]*RigidBody),
		joints:     make(map[string]*Joint),
		frames:     make(map[string]*spatial.Frame),
		frameOwner: make(map[string]int),
	}
	a.bodies[GroundID] = NewGround()
	return a
}

// AddBody registers a body. The id and name must both be unused.
func (a *Assembly) AddBody(b *RigidBody) error {
	if _, ok := a.bodies[b.ID]; ok {
		return DuplicateNameError{Kind: "body", Name: strconv.Itoa(b.ID)}
	}
	for _, existing := range a.bodies {
		if existing.Name == b.Name {
			return DuplicateNameError{Kind: "body", Name: b.Name}
		}
	}
	a.bodies[b.ID] = b
	if b.LocalFrame != nil {
		a.frames[b.LocalFrame.Name] = b.LocalFrame
		a.frameOwner[b.LocalFrame.Name] = b.ID
	}
	return nil
}

// Body looks up a body by id.
func (a *Assembly) Body(id int) (*RigidBody, bool) {
	b, ok := a.bodies[id]
	return b, ok
}

// BodyByName looks up a body by name.
func (a *Assembly) BodyByName(name string) (*RigidBody, bool) {
	for _, b := range a.bodies {
		if b.Name == name {
			return b, true
		}
	}
	return nil, false
}

// Ground returns the ground body.
func (a *Assembly) Ground() *RigidBody {
	return a.bodies[GroundID]
}

// Bodies returns all bodies ordered by id, ground first.
func (a *Assembly) Bodies() []*RigidBody {
	out := make([]*RigidBody, 0, len(a.bodies))
	for _, b := range a.bodies {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// NextBodyID returns the smallest non-negative id not yet in use.
func (a *Assembly) NextBodyID() int {
	id := 0
	for {
		if _, ok := a.bodies[id]; !ok {
			return id
		}
		id++
	}
}

// AddJoint registers a joint. The name must be unused, both body
// references must resolve, and the joint must connect two distinct bodies.
// The joint's frame is registered as a standalone frame if it is not
// already known.
func (a *Assembly) AddJoint(j *Joint) error {
	if _, ok := a.joints[j.Name]; ok {
		return DuplicateNameError{Kind: "joint", Name: j.Name}
	}
	if j.Body1 == j.Body2 {
		return fmt.Errorf("joint %q cannot connect body %d to itself", j.Name, j.Body1)
	}
	if _, ok := a.bodies[j.Body1]; !ok {
		return DanglingReferenceError{Kind: "body", Ref: strconv.Itoa(j.Body1)}
	}
	if _, ok := a.bodies[j.Body2]; !ok {
		return DanglingReferenceError{Kind: "body", Ref: strconv.Itoa(j.Body2)}
	}
	if j.Frame == nil {
		return DanglingReferenceError{Kind: "frame", Ref: "<nil>"}
	}
	a.joints[j.Name] = j
	if _, ok := a.frames[j.Frame.Name]; !ok {
		a.frames[j.Frame.Name] = j.Frame
	}
	return nil
}

// Joint looks up a joint by name.
func (a *Assembly) Joint(name string) (*Joint, bool) {
	j, ok := a.joints[name]
	return j, ok
}

// Joints returns all joints ordered by name.
func (a *Assembly) Joints() []*Joint {
	out := make([]*Joint, 0, len(a.joints))
	for _, j := range a.joints {
		out = append(out, j)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// AddFrame registers a standalone frame. The name must be unused.
func (a *Assembly) AddFrame(f *spatial.Frame) error {
	if _, ok := a.frames[f.Name]; ok {
		return DuplicateNameError{Kind: "frame", Name: f.Name}
	}
	a.frames[f.Name] = f
	return nil
}

// AddBodyFrame registers a frame owned by a body. The body must exist.
func (a *Assembly) AddBodyFrame(f *spatial.Frame, bodyID int) error {
	if _, ok := a.bodies[bodyID]; !ok {
		return DanglingReferenceError{Kind: "body", Ref: strconv.Itoa(bodyID)}
	}
	if err := a.AddFrame(f); err != nil {
		return err
	}
	a.frameOwner[f.Name] = bodyID
	return nil
}

// Frame looks up a frame by name.
func (a *Assembly) Frame(name string) (*spatial.Frame, bool) {
	f, ok := a.frames[name]
	return f, ok
}

// Frames returns all frames ordered by name.
func (a *Assembly) Frames() []*spatial.Frame {
	out := make([]*spatial.Frame, 0, len(a.frames))
	for _, f := range a.frames {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// FrameOwner returns the id of the body that owns the frame, if any.
func (a *Assembly) FrameOwner(name string) (int, bool) {
	id, ok := a.frameOwner[name]
	return id, ok
}

// DeleteFrame removes a frame. It fails with FrameInUseError if any joint
// still references the frame, by pointer or by name.
func (a *Assembly) DeleteFrame(name string) error {
	f, ok := a.frames[name]
	if !ok {
		return DanglingReferenceError{Kind: "frame", Ref: name}
	}
	var users []string
	for _, j := range a.joints {
		if j.Frame == f || j.Frame.Name == name {
			users = append(users, j.Name)
		}
	}
	if len(users) > 0 {
		sort.Strings(users)
		return FrameInUseError{Frame: name, Joints: users}
	}
	delete(a.frames, name)
	delete(a.frameOwner, name)
	return nil
}

// DeleteJoint removes a joint by name. The joint's frame remains registered.
func (a *Assembly) DeleteJoint(name string) error {
	if _, ok := a.joints[name]; !ok {
		return DanglingReferenceError{Kind: "joint", Ref: name}
	}
	delete(a.joints, name)
	return nil
}

func (a *Assembly) String() string {
	return fmt.Sprintf("Assembly(%d bodies, %d joints, %d frames)",
		len(a.bodies), len(a.joints), len(a.frames))
}

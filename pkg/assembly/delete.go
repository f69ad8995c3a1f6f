package assembly

import (
	"fmt"
	"sort"
	"strconv"
)

// Removal summarizes everything a deletion removed from the assembly:
// the bodies themselves, the joints that referenced them, and the frames
// they owned.
type Removal struct {
	Bodies []*RigidBody
	Joints []string
	Frames []string
}

// removalFor computes the cascade for one body without mutating anything.
func (a *Assembly) removalFor(id int) Removal {
	b := a.bodies[id]
	r := Removal{Bodies: []*RigidBody{b}}

	for name, j := range a.joints {
		if j.Body1 == id || j.Body2 == id {
			r.Joints = append(r.Joints, name)
		}
	}
	for name, owner := range a.frameOwner {
		if owner == id {
			r.Frames = append(r.Frames, name)
		}
	}
	if b.LocalFrame != nil {
		if _, owned := a.frameOwner[b.LocalFrame.Name]; !owned {
			r.Frames = append(r.Frames, b.LocalFrame.Name)
		}
	}
	return r
}

// apply mutates the assembly to carry out a previously computed removal.
func (a *Assembly) apply(r Removal) {
	for _, name := range r.Joints {
		delete(a.joints, name)
	}
	for _, name := range r.Frames {
		delete(a.frames, name)
		delete(a.frameOwner, name)
	}
	for _, b := range r.Bodies {
		delete(a.bodies, b.ID)
	}
}

// DeleteBody removes a body and cascades: every joint referencing the body
// and every frame the body owns (including its local frame) are removed in
// the same operation. The ground body cannot be deleted. The returned
// Removal lists exactly what was removed.
func (a *Assembly) DeleteBody(id int) (Removal, error) {
	if id == GroundID {
		return Removal{}, fmt.Errorf("ground body cannot be deleted")
	}
	if _, ok := a.bodies[id]; !ok {
		return Removal{}, DanglingReferenceError{Kind: "body", Ref: strconv.Itoa(id)}
	}
	r := a.removalFor(id)
	a.apply(r)
	sort.Strings(r.Joints)
	sort.Strings(r.Frames)
	return r, nil
}

// DeleteBodies removes a batch of bodies atomically. If any id is unknown
// or is the ground body, nothing is removed and an error is returned. The
// combined removal set is computed up front so joints between two deleted
// bodies appear exactly once.
func (a *Assembly) DeleteBodies(ids []int) (Removal, error) {
	seen := make(map[int]bool, len(ids))
	for _, id := range ids {
		if id == GroundID {
			return Removal{}, fmt.Errorf("ground body cannot be deleted")
		}
		if _, ok := a.bodies[id]; !ok {
			return Removal{}, DanglingReferenceError{Kind: "body", Ref: strconv.Itoa(id)}
		}
		seen[id] = true
	}

	var combined Removal
	joints := make(map[string]bool)
	frames := make(map[string]bool)
	for id := range seen {
		r := a.removalFor(id)
		combined.Bodies = append(combined.Bodies, r.Bodies...)
		for _, name := range r.Joints {
			joints[name] = true
		}
		for _, name := range r.Frames {
			frames[name] = true
		}
	}
	for name := range joints {
		combined.Joints = append(combined.Joints, name)
	}
	for name := range frames {
		combined.Frames = append(combined.Frames, name)
	}

	a.apply(combined)
	sort.Slice(combined.Bodies, func(i, j int) bool { return combined.Bodies[i].ID < combined.Bodies[j].ID })
	sort.Strings(combined.Joints)
	sort.Strings(combined.Frames)
	return combined, nil
}

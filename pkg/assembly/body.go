package assembly

import (
	"fmt"

	"github.com/chazu/armature/pkg/kernel"
	"github.com/chazu/armature/pkg/spatial"
	"github.com/chazu/armature/pkg/units"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// GroundID is the reserved body id of the implicit ground body. Joints may
// reference it to anchor a body to the world.
const GroundID = -1

// GroundName is the display name of the ground body.
const GroundName = "ground"

// WorldFrameName is the name of the ground body's local frame, which is
// the world frame itself.
const WorldFrameName = "world_frame"

// RigidBody is one rigid component of the assembly. Mass properties are
// optional: a body imported without geometry has nil Volume, CenterOfMass,
// and Inertia, and downstream consumers must treat them as absent rather
// than zero. All stored quantities are in meters.
type RigidBody struct {
	ID   int
	Name string

	Volume       *float64
	CenterOfMass *v3.Vec
	Inertia      *[3][3]float64
	LocalFrame   *spatial.Frame

	MeshFile string

	Visible        bool
	ContactEnabled bool
}

// NewBody creates a body with no geometry attached. Bodies are visible and
// contact-enabled until configured otherwise.
func NewBody(id int, name string) *RigidBody {
	return &RigidBody{
		ID:             id,
		Name:           name,
		Visible:        true,
		ContactEnabled: true,
	}
}

// NewGround creates the ground body. Ground has no geometry and never
// participates in contact; its center of mass sits at the world origin and
// its local frame is the world frame.
func NewGround() *RigidBody {
	com := v3.Vec{}
	return &RigidBody{
		ID:           GroundID,
		Name:         GroundName,
		CenterOfMass: &com,
		LocalFrame:   spatial.NewFrame(WorldFrameName),
	}
}

// IsGround reports whether the body is the reserved ground body.
func (b *RigidBody) IsGround() bool {
	return b.ID == GroundID
}

// HasGeometry reports whether mass properties have been attached.
func (b *RigidBody) HasGeometry() bool {
	return b.Volume != nil && b.CenterOfMass != nil && b.Inertia != nil
}

// SetMassProperties attaches volume, center of mass, and inertia from the
// CAD kernel, converting from model units to meters exactly once. It also
// creates the body's local frame at the center of mass with identity
// rotation.
func (b *RigidBody) SetMassProperties(props kernel.MassProperties, conv units.Converter) {
	vol := conv.Volume(props.Volume)
	com := conv.Point(props.CenterOfMass)
	inertia := conv.Tensor(props.Inertia)

	b.Volume = &vol
	b.CenterOfMass = &com
	b.Inertia = &inertia

	lf := spatial.NewFrame(b.LocalFrameName())
	lf.Origin = com
	b.LocalFrame = lf
}

// LocalFrameName returns the canonical name of the body's local frame.
func (b *RigidBody) LocalFrameName() string {
	return b.Name + "_LocalFrame"
}

func (b *RigidBody) String() string {
	return fmt.Sprintf("RigidBody(%d, %s)", b.ID, b.Name)
}

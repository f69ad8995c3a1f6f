// Package tessellate produces triangle meshes for assembly bodies using a
// geometry kernel. One mesh is produced per body that has a solid.
package tessellate

import (
	"fmt"

	"github.com/chazu/armature/pkg/assembly"
	"github.com/chazu/armature/pkg/kernel"
)

// Body meshes a single body's solid. The returned mesh carries the body
// name so downstream writers can name output files after it.
func Body(b *assembly.RigidBody, k kernel.Kernel, s kernel.Solid) (*kernel.Mesh, error) {
	mesh, err := k.ToMesh(s)
	if err != nil {
		return nil, fmt.Errorf("tessellate: ToMesh failed for body %q: %w", b.Name, err)
	}
	mesh.BodyName = b.Name
	return mesh, nil
}

// Bodies meshes every body in the assembly that has a solid registered in
// solids, keyed by body id. Bodies without solids are skipped; imported
// assemblies routinely contain reference bodies with no geometry. The
// tessellator is read-only and never mutates the assembly.
func Bodies(a *assembly.Assembly, k kernel.Kernel, solids map[int]kernel.Solid) ([]*kernel.Mesh, error) {
	var meshes []*kernel.Mesh
	for _, b := range a.Bodies() {
		s, ok := solids[b.ID]
		if !ok {
			continue
		}
		mesh, err := Body(b, k, s)
		if err != nil {
			return nil, err
		}
		meshes = append(meshes, mesh)
	}
	return meshes, nil
}

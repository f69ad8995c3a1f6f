package export

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/chazu/armature/pkg/assembly"
	"github.com/chazu/armature/pkg/kernel"
	"github.com/chazu/armature/pkg/tessellate"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/rs/zerolog/log"
)

// Options controls an export run.
type Options struct {
	Description       string
	OriginalUnitScale float64

	// Meshes enables per-body OBJ output under MeshDir, resolved relative
	// to the document's directory. Kernel and Solids supply the geometry.
	Meshes  bool
	MeshDir string
	Kernel  kernel.Kernel
	Solids  map[int]kernel.Solid
}

// WriteDocument writes the document as indented JSON via a temporary file
// and rename, so the solver never sees a partial export.
func WriteDocument(doc *Document, path string) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal export: %w", err)
	}
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".export-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write export: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename export into place: %w", err)
	}
	return nil
}

// WriteOBJ writes a mesh as a Wavefront OBJ file in body-local
// coordinates: vertices are translated so the center of mass sits at the
// origin and rotated into the body's local frame. Indices are 1-based per
// the OBJ format.
func WriteOBJ(m *kernel.Mesh, b *assembly.RigidBody, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create obj: %w", err)
	}
	defer f.Close()
	w := bufio.NewWriter(f)

	com := v3.Vec{}
	if b.CenterOfMass != nil {
		com = *b.CenterOfMass
	}
	toLocal := func(p v3.Vec) v3.Vec {
		p = p.Sub(com)
		if b.LocalFrame != nil {
			p = b.LocalFrame.Rotation.Transposed().Apply(p)
		}
		return p
	}

	fmt.Fprintf(w, "# %s\n", b.Name)
	for i := 0; i < m.VertexCount(); i++ {
		p := toLocal(m.Vertex(i))
		fmt.Fprintf(w, "v %.6f %.6f %.6f\n", p.X, p.Y, p.Z)
	}
	for i := 0; i < len(m.Normals)/3; i++ {
		n := m.Normal(i)
		fmt.Fprintf(w, "vn %.6f %.6f %.6f\n", n.X, n.Y, n.Z)
	}
	for i := 0; i+2 < len(m.Indices); i += 3 {
		a, bIdx, c := m.Indices[i]+1, m.Indices[i+1]+1, m.Indices[i+2]+1
		fmt.Fprintf(w, "f %d//%d %d//%d %d//%d\n", a, a, bIdx, bIdx, c, c)
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("write obj: %w", err)
	}
	return f.Close()
}

// Export validates the assembly, optionally writes per-body meshes, and
// writes the solver document to path. Validation errors of severity error
// abort the export; warnings are logged and the export proceeds.
func Export(a *assembly.Assembly, path string, opts Options) error {
	for _, v := range a.Validate() {
		if v.Severity == assembly.SeverityError {
			return fmt.Errorf("assembly not exportable: %w", v)
		}
		log.Warn().Str("subject", v.Subject).Msg(v.Message)
	}

	// Mesh paths are staged locally and only committed to the assembly
	// once the document write succeeds, so a failed export leaves the
	// assembly as it was.
	meshFiles := make(map[int]string)
	if opts.Meshes && opts.Kernel != nil {
		meshDir := opts.MeshDir
		if meshDir == "" {
			meshDir = "meshes"
		}
		absMeshDir := filepath.Join(filepath.Dir(path), meshDir)
		if err := os.MkdirAll(absMeshDir, 0o755); err != nil {
			return fmt.Errorf("create mesh dir: %w", err)
		}
		for _, b := range a.Bodies() {
			solid, ok := opts.Solids[b.ID]
			if !ok {
				continue
			}
			mesh, err := tessellate.Body(b, opts.Kernel, solid)
			if err != nil {
				return err
			}
			objName := b.Name + ".obj"
			if err := WriteOBJ(mesh, b, filepath.Join(absMeshDir, objName)); err != nil {
				return fmt.Errorf("write mesh for %q: %w", b.Name, err)
			}
			meshFiles[b.ID] = filepath.Join(meshDir, objName)
			log.Debug().Str("body", b.Name).Str("file", meshFiles[b.ID]).Msg("mesh exported")
		}
	}

	doc := BuildDocument(a, opts.Description, opts.OriginalUnitScale)
	for i := range doc.Bodies {
		if mf, ok := meshFiles[doc.Bodies[i].ID]; ok {
			doc.Bodies[i].MeshFile = mf
		}
	}
	if err := WriteDocument(doc, path); err != nil {
		return err
	}
	for id, mf := range meshFiles {
		if b, ok := a.Body(id); ok {
			b.MeshFile = mf
		}
	}
	log.Info().
		Str("path", path).
		Int("bodies", len(doc.Bodies)).
		Int("joints", len(doc.Joints)).
		Msg("solver document exported")
	return nil
}

package engine

import (
	"fmt"
	"strings"

	"github.com/chazu/armature/pkg/assembly"
	"github.com/chazu/armature/pkg/kernel"
	"github.com/chazu/armature/pkg/spatial"
	"github.com/chazu/armature/pkg/units"
	v3 "github.com/deadsy/sdfx/vec/v3"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// preprocessSource transforms assembly script source before it reaches
// zygomys:
//
//  1. :keyword becomes the string literal "__kw_keyword", so keywords need
//     no global symbol registration.
//  2. ; line comments become // comments, which is what zygomys expects.
//  3. Hyphens between identifier characters become underscores, because
//     zygomys reads kebab-case as subtraction.
//
// String literals are passed through untouched.
func preprocessSource(source string) string {
	var out strings.Builder
	out.Grow(len(source) + len(source)/4)
	b := []byte(source)

	for i := 0; i < len(b); {
		c := b[i]
		switch {
		case c == '"' || c == '`':
			quote := c
			out.WriteByte(c)
			i++
			for i < len(b) && b[i] != quote {
				if quote == '"' && b[i] == '\\' && i+1 < len(b) {
					out.WriteByte(b[i])
					i++
				}
				out.WriteByte(b[i])
				i++
			}
			if i < len(b) {
				out.WriteByte(b[i])
				i++
			}

		case c == ';':
			out.WriteString("//")
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				out.WriteByte(b[i])
				i++
			}

		case c == ':' && i+1 < len(b) && b[i+1] == '=':
			out.WriteString(":=")
			i += 2

		case c == ':' && i+1 < len(b) && isLetter(b[i+1]):
			j := i + 1
			for j < len(b) && isKWChar(b[j]) {
				j++
			}
			out.WriteByte('"')
			out.WriteString(kwPrefix)
			out.Write(b[i+1 : j])
			out.WriteByte('"')
			i = j

		case c == '-' && i > 0 && i+1 < len(b) && isIdentChar(b[i-1]) && isLetter(b[i+1]):
			out.WriteByte('_')
			i++

		default:
			out.WriteByte(c)
			i++
		}
	}
	return out.String()
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpBodyRef wraps a body id so script code can pass bodies between
// builtins.
type sexpBodyRef struct {
	id   int
	name string
}

func (b *sexpBodyRef) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(bodyref %d %q)", b.id, b.name)
}
func (b *sexpBodyRef) Type() *zygo.RegisteredType { return nil }

// sexpFrameRef wraps a frame registered with the assembly.
type sexpFrameRef struct {
	frame *spatial.Frame
}

func (f *sexpFrameRef) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(frameref %q)", f.frame.Name)
}
func (f *sexpFrameRef) Type() *zygo.RegisteredType { return nil }

// sexpJointRef wraps a joint registered with the assembly.
type sexpJointRef struct {
	joint *assembly.Joint
}

func (j *sexpJointRef) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(jointref %q)", j.joint.Name)
}
func (j *sexpJointRef) Type() *zygo.RegisteredType { return nil }

// sexpVec3 wraps a vector literal.
type sexpVec3 struct {
	vec v3.Vec
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// isKW checks if a Sexp is a preprocessed keyword string and returns the
// keyword name without the prefix.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument
// list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); {
		if name, ok := isKW(args[i]); ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				result.kw[name] = zygo.SexpNull
				i++
			}
			continue
		}
		result.positional = append(result.positional, args[i])
		i++
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

func toBool(s zygo.Sexp) (bool, error) {
	if b, ok := s.(*zygo.SexpBool); ok {
		return b.Val, nil
	}
	return false, fmt.Errorf("expected bool, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString accepts both preprocessed keywords (:z) and plain
// strings ("z").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

func toAxis(s zygo.Sexp) (assembly.Axis, error) {
	name, err := toKeywordString(s)
	if err != nil {
		return 0, fmt.Errorf("expected axis keyword (:x, :y, :z, :neg-x, ...): %w", err)
	}
	name = strings.ReplaceAll(strings.ReplaceAll(name, "neg_", "-"), "neg-", "-")
	return assembly.ParseAxis(name)
}

func toJointType(s zygo.Sexp) (assembly.JointType, error) {
	name, err := toKeywordString(s)
	if err != nil {
		return 0, fmt.Errorf("expected joint type keyword (:revolute, :fixed, ...): %w", err)
	}
	return assembly.ParseJointType(name)
}

func toMotorType(s zygo.Sexp) (assembly.MotorType, error) {
	name, err := toKeywordString(s)
	if err != nil {
		return 0, fmt.Errorf("expected motor type keyword (:velocity, :torque, :position): %w", err)
	}
	return assembly.ParseMotorType(name)
}

func toBodyRef(s zygo.Sexp) (*sexpBodyRef, error) {
	if ref, ok := s.(*sexpBodyRef); ok {
		return ref, nil
	}
	return nil, fmt.Errorf("expected body reference, got %T (%s)", s, s.SexpString(nil))
}

func toVec3(s zygo.Sexp) (v3.Vec, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return v3.Vec{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// scriptState is the mutable context shared by all builtins of one
// evaluation.
type scriptState struct {
	asm    *assembly.Assembly
	conv   units.Converter
	kernel kernel.Kernel
}

// registerBuiltins installs the assembly DSL builtins into a zygomys
// environment. The builtins populate the provided assembly during
// evaluation. Source code must be preprocessed with preprocessSource so
// that :keyword tokens arrive as recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, a *assembly.Assembly, k kernel.Kernel) {
	st := &scriptState{asm: a, conv: units.NewConverter(1.0), kernel: k}

	// -----------------------------------------------------------------------
	// (units "mm")
	// -----------------------------------------------------------------------
	env.AddFunction("units", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("units: expected one unit name argument")
		}
		unit, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("units: %w", err)
		}
		conv, err := units.ForUnit(unit)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("units: %w", err)
		}
		st.conv = conv
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (vec3 x y z)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3: expected three components")
		}
		var c [3]float64
		for i, arg := range args {
			f, err := toFloat64(arg)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vec3: component %d: %w", i, err)
			}
			c[i] = f
		}
		return &sexpVec3{vec: v3.Vec{X: c[0], Y: c[1], Z: c[2]}}, nil
	})

	// -----------------------------------------------------------------------
	// (ground)
	// -----------------------------------------------------------------------
	env.AddFunction("ground", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		g := st.asm.Ground()
		return &sexpBodyRef{id: g.ID, name: g.Name}, nil
	})

	// -----------------------------------------------------------------------
	// (body "bracket" :visible false :contact false)
	// -----------------------------------------------------------------------
	env.AddFunction("body", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("body: expected a name argument")
		}
		bodyName, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("body: name: %w", err)
		}
		b := assembly.NewBody(st.asm.NextBodyID(), bodyName)
		if err := applyBodyFlags(b, pa); err != nil {
			return zygo.SexpNull, fmt.Errorf("body: %w", err)
		}
		if err := st.asm.AddBody(b); err != nil {
			return zygo.SexpNull, fmt.Errorf("body: %w", err)
		}
		return &sexpBodyRef{id: b.ID, name: b.Name}, nil
	})

	// -----------------------------------------------------------------------
	// (box "base" 100 50 25 :at (vec3 0 0 0))
	// Dimensions and position are in the current script units.
	// -----------------------------------------------------------------------
	env.AddFunction("box", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return st.makeSolidBody(name, args, func(dims [3]float64) kernel.Solid {
			return st.kernel.Box(dims[0], dims[1], dims[2])
		}, 3)
	})

	// -----------------------------------------------------------------------
	// (cylinder "shaft" 200 10 :at (vec3 0 0 100))
	// Arguments are height then radius, in the current script units.
	// -----------------------------------------------------------------------
	env.AddFunction("cylinder", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return st.makeSolidBody(name, args, func(dims [3]float64) kernel.Solid {
			return st.kernel.Cylinder(dims[0], dims[1])
		}, 2)
	})

	// -----------------------------------------------------------------------
	// (frame "pivot" :origin (vec3 0 0 50) :euler (vec3 0 90 0) :owner base)
	// -----------------------------------------------------------------------
	env.AddFunction("frame", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("frame: expected a name argument")
		}
		frameName, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("frame: name: %w", err)
		}

		f := spatial.NewFrame(frameName)
		if v, ok := pa.kw["origin"]; ok {
			origin, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("frame: origin: %w", err)
			}
			f.SetOrigin(st.conv.Point(origin))
		}
		if v, ok := pa.kw["euler"]; ok {
			angles, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("frame: euler: %w", err)
			}
			f.SetEulerAngles(angles.X, angles.Y, angles.Z)
		}

		if v, ok := pa.kw["owner"]; ok {
			owner, err := toBodyRef(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("frame: owner: %w", err)
			}
			if err := st.asm.AddBodyFrame(f, owner.id); err != nil {
				return zygo.SexpNull, fmt.Errorf("frame: %w", err)
			}
		} else if err := st.asm.AddFrame(f); err != nil {
			return zygo.SexpNull, fmt.Errorf("frame: %w", err)
		}
		return &sexpFrameRef{frame: f}, nil
	})

	// -----------------------------------------------------------------------
	// (joint "elbow" :type :revolute :body1 base :body2 arm
	//        :frame pivot :axis :z)
	// -----------------------------------------------------------------------
	env.AddFunction("joint", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("joint: expected a name argument")
		}
		jointName, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("joint: name: %w", err)
		}

		jt := assembly.JointFixed
		if v, ok := pa.kw["type"]; ok {
			if jt, err = toJointType(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("joint: %w", err)
			}
		}
		axis := assembly.AxisPosZ
		if v, ok := pa.kw["axis"]; ok {
			if axis, err = toAxis(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("joint: %w", err)
			}
		}

		b1, ok := pa.kw["body1"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("joint: missing :body1")
		}
		b2, ok := pa.kw["body2"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("joint: missing :body2")
		}
		ref1, err := toBodyRef(b1)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("joint: body1: %w", err)
		}
		ref2, err := toBodyRef(b2)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("joint: body2: %w", err)
		}

		frame := spatial.NewFrame(jointName + "_frame")
		if v, ok := pa.kw["frame"]; ok {
			ref, ok := v.(*sexpFrameRef)
			if !ok {
				return zygo.SexpNull, fmt.Errorf("joint: frame: expected frame reference, got %T", v)
			}
			frame = ref.frame
		}

		j := assembly.NewJoint(jointName, jt, ref1.id, ref2.id, frame, axis)
		if err := st.asm.AddJoint(j); err != nil {
			return zygo.SexpNull, fmt.Errorf("joint: %w", err)
		}
		return &sexpJointRef{joint: j}, nil
	})

	// -----------------------------------------------------------------------
	// (motor elbow :type :velocity :value 10.5)
	// -----------------------------------------------------------------------
	env.AddFunction("motor", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("motor: expected a joint argument")
		}
		ref, ok := pa.positional[0].(*sexpJointRef)
		if !ok {
			return zygo.SexpNull, fmt.Errorf("motor: expected joint reference, got %T", pa.positional[0])
		}

		mt := assembly.MotorVelocity
		if v, ok := pa.kw["type"]; ok {
			var err error
			if mt, err = toMotorType(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("motor: %w", err)
			}
		}
		value := 0.0
		if v, ok := pa.kw["value"]; ok {
			var err error
			if value, err = toFloat64(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("motor: value: %w", err)
			}
		}

		if err := ref.joint.AddMotor(mt, value); err != nil {
			return zygo.SexpNull, fmt.Errorf("motor: %w", err)
		}
		return pa.positional[0], nil
	})
}

// applyBodyFlags reads the optional :visible and :contact keywords.
func applyBodyFlags(b *assembly.RigidBody, pa kwArgs) error {
	if v, ok := pa.kw["visible"]; ok {
		visible, err := toBool(v)
		if err != nil {
			return fmt.Errorf("visible: %w", err)
		}
		b.Visible = visible
	}
	if v, ok := pa.kw["contact"]; ok {
		contact, err := toBool(v)
		if err != nil {
			return fmt.Errorf("contact: %w", err)
		}
		b.ContactEnabled = contact
	}
	return nil
}

// makeSolidBody implements the box and cylinder builtins: it builds a
// primitive solid, evaluates its mass properties, and registers a body
// carrying them. dims are in script units; the kernel works in script
// units too and the converter scales the resulting properties to meters.
func (st *scriptState) makeSolidBody(builtin string, args []zygo.Sexp, build func(dims [3]float64) kernel.Solid, nDims int) (zygo.Sexp, error) {
	if st.kernel == nil {
		return zygo.SexpNull, fmt.Errorf("%s: no geometry kernel attached", builtin)
	}
	pa := parseArgs(args)
	if len(pa.positional) != nDims+1 {
		return zygo.SexpNull, fmt.Errorf("%s: expected name and %d dimensions", builtin, nDims)
	}
	name, err := toString(pa.positional[0])
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("%s: name: %w", builtin, err)
	}
	var dims [3]float64
	for i := 0; i < nDims; i++ {
		f, err := toFloat64(pa.positional[i+1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: dimension %d: %w", builtin, i, err)
		}
		dims[i] = f
	}

	solid := build(dims)
	if v, ok := pa.kw["at"]; ok {
		at, err := toVec3(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: at: %w", builtin, err)
		}
		solid = st.kernel.Translate(solid, at.X, at.Y, at.Z)
	}

	props, err := st.kernel.MassProperties(solid)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("%s: mass properties: %w", builtin, err)
	}

	b := assembly.NewBody(st.asm.NextBodyID(), name)
	b.SetMassProperties(props, st.conv)
	if err := applyBodyFlags(b, pa); err != nil {
		return zygo.SexpNull, fmt.Errorf("%s: %w", builtin, err)
	}
	if err := st.asm.AddBody(b); err != nil {
		return zygo.SexpNull, fmt.Errorf("%s: %w", builtin, err)
	}
	return &sexpBodyRef{id: b.ID, name: b.Name}, nil
}

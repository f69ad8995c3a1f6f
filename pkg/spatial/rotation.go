package spatial

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Rotation is a 3x3 rotation matrix stored row-major. The columns are the
// frame's X, Y, and Z axes expressed in world coordinates. A valid Rotation
// is orthonormal and right-handed (det = +1).
type Rotation [3][3]float64

// Identity returns the identity rotation.
func Identity() Rotation {
	return Rotation{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}
}

// AxesToRotation builds a rotation from three column axes.
// The caller is responsible for passing an orthonormal right-handed set.
func AxesToRotation(x, y, z v3.Vec) Rotation {
	return Rotation{
		{x.X, y.X, z.X},
		{x.Y, y.Y, z.Y},
		{x.Z, y.Z, z.Z},
	}
}

// XAxis returns the first column.
func (r Rotation) XAxis() v3.Vec {
	return v3.Vec{X: r[0][0], Y: r[1][0], Z: r[2][0]}
}

// YAxis returns the second column.
func (r Rotation) YAxis() v3.Vec {
	return v3.Vec{X: r[0][1], Y: r[1][1], Z: r[2][1]}
}

// ZAxis returns the third column.
func (r Rotation) ZAxis() v3.Vec {
	return v3.Vec{X: r[0][2], Y: r[1][2], Z: r[2][2]}
}

// Apply rotates a vector.
func (r Rotation) Apply(v v3.Vec) v3.Vec {
	return v3.Vec{
		X: r[0][0]*v.X + r[0][1]*v.Y + r[0][2]*v.Z,
		Y: r[1][0]*v.X + r[1][1]*v.Y + r[1][2]*v.Z,
		Z: r[2][0]*v.X + r[2][1]*v.Y + r[2][2]*v.Z,
	}
}

// Mul returns the matrix product r * s.
func (r Rotation) Mul(s Rotation) Rotation {
	var out Rotation
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				out[i][j] += r[i][k] * s[k][j]
			}
		}
	}
	return out
}

// Transposed returns the transpose, which for an orthonormal rotation is
// its inverse.
func (r Rotation) Transposed() Rotation {
	var out Rotation
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = r[j][i]
		}
	}
	return out
}

// Det returns the determinant.
func (r Rotation) Det() float64 {
	return r[0][0]*(r[1][1]*r[2][2]-r[1][2]*r[2][1]) -
		r[0][1]*(r[1][0]*r[2][2]-r[1][2]*r[2][0]) +
		r[0][2]*(r[1][0]*r[2][1]-r[1][1]*r[2][0])
}

// IsOrthonormal reports whether the columns are unit length, mutually
// orthogonal, and right-handed, to within tol.
func (r Rotation) IsOrthonormal(tol float64) bool {
	x, y, z := r.XAxis(), r.YAxis(), r.ZAxis()
	if math.Abs(x.Length()-1) > tol || math.Abs(y.Length()-1) > tol || math.Abs(z.Length()-1) > tol {
		return false
	}
	if math.Abs(x.Dot(y)) > tol || math.Abs(y.Dot(z)) > tol || math.Abs(z.Dot(x)) > tol {
		return false
	}
	return math.Abs(r.Det()-1) <= tol
}

// Orthonormalized re-establishes orthonormality via Gram-Schmidt on the
// columns. X keeps its direction, Y is projected into the plane orthogonal
// to X, and Z is rebuilt as X cross Y so the result is exactly right-handed.
func (r Rotation) Orthonormalized() Rotation {
	x := r.XAxis().Normalize()
	y := r.YAxis()
	y = y.Sub(x.MulScalar(y.Dot(x))).Normalize()
	z := x.Cross(y)
	return AxesToRotation(x, y, z)
}

// FromEuler builds a rotation from extrinsic XYZ Euler angles in degrees:
// R = Rz * Ry * Rx.
func FromEuler(xDeg, yDeg, zDeg float64) Rotation {
	x := xDeg * math.Pi / 180
	y := yDeg * math.Pi / 180
	z := zDeg * math.Pi / 180

	cx, sx := math.Cos(x), math.Sin(x)
	cy, sy := math.Cos(y), math.Sin(y)
	cz, sz := math.Cos(z), math.Sin(z)

	rx := Rotation{{1, 0, 0}, {0, cx, -sx}, {0, sx, cx}}
	ry := Rotation{{cy, 0, sy}, {0, 1, 0}, {-sy, 0, cy}}
	rz := Rotation{{cz, -sz, 0}, {sz, cz, 0}, {0, 0, 1}}

	return rz.Mul(ry).Mul(rx)
}

// gimbalEpsilon is the singularity threshold for Euler extraction.
const gimbalEpsilon = 1e-6

// EulerAngles extracts extrinsic XYZ Euler angles in degrees, the inverse of
// FromEuler. Near the pitch singularity (|y| = 90 degrees) the Z angle is
// pinned to zero.
func (r Rotation) EulerAngles() (xDeg, yDeg, zDeg float64) {
	sy := math.Sqrt(r[0][0]*r[0][0] + r[1][0]*r[1][0])

	var x, y, z float64
	if sy > gimbalEpsilon {
		x = math.Atan2(r[2][1], r[2][2])
		y = math.Atan2(-r[2][0], sy)
		z = math.Atan2(r[1][0], r[0][0])
	} else {
		x = math.Atan2(-r[1][2], r[1][1])
		y = math.Atan2(-r[2][0], sy)
		z = 0
	}

	const toDeg = 180 / math.Pi
	return x * toDeg, y * toDeg, z * toDeg
}

package spatial

import "math"

// Epsilon is the tolerance used by the ApproxEqual helpers.
const Epsilon = 1e-6

// Vector3 is a 3D vector in meters.
type Vector3 struct {
	X, Y, Z float64
}

func V3(x, y, z float64) Vector3 { return Vector3{X: x, Y: y, Z: z} }

// One is the unit scale.
func One() Vector3 { return Vector3{X: 1, Y: 1, Z: 1} }

func (v Vector3) Add(o Vector3) Vector3 { return Vector3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vector3) Dot(o Vector3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }
func (v Vector3) Len() float64          { return math.Sqrt(v.Dot(v)) }

func (v Vector3) ApproxEqual(o Vector3) bool {
	return approx(v.X, o.X) && approx(v.Y, o.Y) && approx(v.Z, o.Z)
}

// Quaternion is a rotation stored as (x, y, z, w).
type Quaternion struct {
	X, Y, Z, W float64
}

func IdentityQuaternion() Quaternion { return Quaternion{W: 1} }

func (q Quaternion) Len() float64 {
	return math.Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
}

// Normalize returns the unit quaternion, or identity for a zero quaternion.
func (q Quaternion) Normalize() Quaternion {
	l := q.Len()
	if l == 0 {
		return IdentityQuaternion()
	}
	return Quaternion{q.X / l, q.Y / l, q.Z / l, q.W / l}
}

// ApproxEqual treats q and -q as the same rotation.
func (q Quaternion) ApproxEqual(o Quaternion) bool {
	same := approx(q.X, o.X) && approx(q.Y, o.Y) && approx(q.Z, o.Z) && approx(q.W, o.W)
	flipped := approx(q.X, -o.X) && approx(q.Y, -o.Y) && approx(q.Z, -o.Z) && approx(q.W, -o.W)
	return same || flipped
}

// AxisAngle builds a rotation of rad radians around axis.
func AxisAngle(axis Vector3, rad float64) Quaternion {
	l := axis.Len()
	if l == 0 {
		return IdentityQuaternion()
	}
	s := math.Sin(rad/2) / l
	return Quaternion{X: axis.X * s, Y: axis.Y * s, Z: axis.Z * s, W: math.Cos(rad / 2)}
}

func approx(a, b float64) bool { return math.Abs(a-b) <= Epsilon }

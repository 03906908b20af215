package spatial

import "math"

// Matrix4 is a column-major 4x4 matrix: m[col*4+row].
//
// This is the layout platform pose transforms arrive in.
type Matrix4 [16]float64

// Compose builds a matrix from translation, rotation and scale.
func Compose(pos Vector3, rot Quaternion, scale Vector3) Matrix4 {
	x, y, z, w := rot.X, rot.Y, rot.Z, rot.W
	x2, y2, z2 := x+x, y+y, z+z
	xx, xy, xz := x*x2, x*y2, x*z2
	yy, yz, zz := y*y2, y*z2, z*z2
	wx, wy, wz := w*x2, w*y2, w*z2

	return Matrix4{
		(1 - (yy + zz)) * scale.X, (xy + wz) * scale.X, (xz - wy) * scale.X, 0,
		(xy - wz) * scale.Y, (1 - (xx + zz)) * scale.Y, (yz + wx) * scale.Y, 0,
		(xz + wy) * scale.Z, (yz - wx) * scale.Z, (1 - (xx + yy)) * scale.Z, 0,
		pos.X, pos.Y, pos.Z, 1,
	}
}

// PoseMatrix is Compose with unit scale.
func PoseMatrix(p Pose) Matrix4 {
	return Compose(p.Position, p.Orientation, One())
}

// Decompose splits m into translation, rotation and scale. A negative
// determinant is folded into the X scale.
func (m Matrix4) Decompose() (Vector3, Quaternion, Vector3) {
	sx := Vector3{m[0], m[1], m[2]}.Len()
	sy := Vector3{m[4], m[5], m[6]}.Len()
	sz := Vector3{m[8], m[9], m[10]}.Len()
	if m.det() < 0 {
		sx = -sx
	}
	pos := Vector3{m[12], m[13], m[14]}
	scale := Vector3{sx, sy, sz}
	if sx == 0 || sy == 0 || sz == 0 {
		return pos, IdentityQuaternion(), scale
	}

	r := m
	r[0], r[1], r[2] = r[0]/sx, r[1]/sx, r[2]/sx
	r[4], r[5], r[6] = r[4]/sy, r[5]/sy, r[6]/sy
	r[8], r[9], r[10] = r[8]/sz, r[9]/sz, r[10]/sz
	return pos, rotationQuaternion(r), scale
}

// Pose decomposes m and drops scale.
func (m Matrix4) Pose() Pose {
	pos, rot, _ := m.Decompose()
	return Pose{Position: pos, Orientation: rot}
}

func (m Matrix4) det() float64 {
	// Upper 3x3 is enough for affine transforms.
	return m[0]*(m[5]*m[10]-m[9]*m[6]) -
		m[4]*(m[1]*m[10]-m[9]*m[2]) +
		m[8]*(m[1]*m[6]-m[5]*m[2])
}

func rotationQuaternion(m Matrix4) Quaternion {
	m11, m12, m13 := m[0], m[4], m[8]
	m21, m22, m23 := m[1], m[5], m[9]
	m31, m32, m33 := m[2], m[6], m[10]
	trace := m11 + m22 + m33

	var q Quaternion
	switch {
	case trace > 0:
		s := 0.5 / math.Sqrt(trace+1.0)
		q = Quaternion{W: 0.25 / s, X: (m32 - m23) * s, Y: (m13 - m31) * s, Z: (m21 - m12) * s}
	case m11 > m22 && m11 > m33:
		s := 2.0 * math.Sqrt(1.0+m11-m22-m33)
		q = Quaternion{W: (m32 - m23) / s, X: 0.25 * s, Y: (m12 + m21) / s, Z: (m13 + m31) / s}
	case m22 > m33:
		s := 2.0 * math.Sqrt(1.0+m22-m11-m33)
		q = Quaternion{W: (m13 - m31) / s, X: (m12 + m21) / s, Y: 0.25 * s, Z: (m23 + m32) / s}
	default:
		s := 2.0 * math.Sqrt(1.0+m33-m11-m22)
		q = Quaternion{W: (m21 - m12) / s, X: (m13 + m31) / s, Y: (m23 + m32) / s, Z: 0.25 * s}
	}
	return q.Normalize()
}

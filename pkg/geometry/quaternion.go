package geometry

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/num/quat"
)

// Quaternion is a rotation in the same left-handed, Y-up space as Vector3D.
// Composition follows the Hamilton product: a.Mul(b) applies b first, then a.
// Euler angles are in degrees and follow the Z, then X, then Y application order,
// so FromEuler(x, y, z) == AngleAxis(y, Up) * AngleAxis(x, Right) * AngleAxis(z, Forward).
type Quaternion struct {
	W, X, Y, Z float64
}

// Identity is the "no rotation" quaternion.
var Identity = Quaternion{W: 1}

// dotThreshold above which two rotations are treated as identical.
const dotThreshold = 1 - 1e-12

func (q Quaternion) number() quat.Number {
	return quat.Number{Real: q.W, Imag: q.X, Jmag: q.Y, Kmag: q.Z}
}

func fromNumber(n quat.Number) Quaternion {
	return Quaternion{W: n.Real, X: n.Imag, Y: n.Jmag, Z: n.Kmag}
}

func (q Quaternion) String() string {
	return fmt.Sprintf("(w=%.4f, x=%.4f, y=%.4f, z=%.4f)", q.W, q.X, q.Y, q.Z)
}

// AngleAxis builds a rotation of angleDeg degrees around axis.
// A zero axis yields Identity.
func AngleAxis(angleDeg float64, axis Vector3D) Quaternion {
	n := axis.Normalize()
	if n.IsZero() {
		return Identity
	}
	half := angleDeg * Deg2Rad / 2
	s := math.Sin(half)
	return Quaternion{W: math.Cos(half), X: n.X * s, Y: n.Y * s, Z: n.Z * s}
}

// FromEuler builds a rotation from Euler angles in degrees (pitch X, yaw Y, roll Z).
func FromEuler(euler Vector3D) Quaternion {
	qx := AngleAxis(euler.X, Right)
	qy := AngleAxis(euler.Y, Up)
	qz := AngleAxis(euler.Z, Forward)
	return qy.Mul(qx).Mul(qz).Normalize()
}

// Euler returns the Euler angles in degrees, each wrapped into [0, 360).
func (q Quaternion) Euler() Vector3D {
	n := q.Normalize()
	w, x, y, z := n.W, n.X, n.Y, n.Z

	m00 := 1 - 2*(y*y+z*z)
	m02 := 2 * (x*z + w*y)
	m10 := 2 * (x*y + w*z)
	m11 := 1 - 2*(x*x+z*z)
	m12 := 2 * (y*z - w*x)
	m20 := 2 * (x*z - w*y)
	m22 := 1 - 2*(x*x+y*y)

	sinX := Clamp(-m12, -1, 1)
	pitch := math.Asin(sinX)
	var yaw, roll float64
	if math.Abs(sinX) < 1-1e-9 {
		yaw = math.Atan2(m02, m22)
		roll = math.Atan2(m10, m11)
	} else {
		// gimbal lock: roll folded into yaw
		yaw = math.Atan2(-m20, m00)
		roll = 0
	}
	return Vector3D{
		X: WrapDegrees(pitch * Rad2Deg),
		Y: WrapDegrees(yaw * Rad2Deg),
		Z: WrapDegrees(roll * Rad2Deg),
	}
}

// Mul returns the composition q * other.
func (q Quaternion) Mul(other Quaternion) Quaternion {
	return fromNumber(quat.Mul(q.number(), other.number()))
}

// Dot returns the 4D dot product of two quaternions.
func (q Quaternion) Dot(other Quaternion) float64 {
	return q.W*other.W + q.X*other.X + q.Y*other.Y + q.Z*other.Z
}

// Len returns the quaternion norm.
func (q Quaternion) Len() float64 {
	return quat.Abs(q.number())
}

// Normalize returns the unit quaternion; a degenerate input yields Identity.
func (q Quaternion) Normalize() Quaternion {
	l := q.Len()
	if l < Epsilon || math.IsNaN(l) {
		return Identity
	}
	return fromNumber(quat.Scale(1/l, q.number()))
}

// Inverse returns the inverse rotation.
func (q Quaternion) Inverse() Quaternion {
	return fromNumber(quat.Conj(q.Normalize().number()))
}

// Rotate applies the rotation to v.
func (q Quaternion) Rotate(v Vector3D) Vector3D {
	n := q.Normalize().number()
	p := quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}
	r := quat.Mul(quat.Mul(n, p), quat.Conj(n))
	return Vector3D{X: r.Imag, Y: r.Jmag, Z: r.Kmag}
}

// Forward is the direction the rotation faces (+Z rotated by q).
func (q Quaternion) Forward() Vector3D {
	return q.Rotate(Forward)
}

// Angle returns the angle in degrees between two rotations, in [0, 180].
func Angle(a, b Quaternion) float64 {
	d := math.Min(math.Abs(a.Normalize().Dot(b.Normalize())), 1)
	if d > dotThreshold {
		return 0
	}
	return 2 * math.Acos(d) * Rad2Deg
}

// Slerp interpolates spherically from a to b along the shortest path.
// t is clamped to [0, 1].
func Slerp(a, b Quaternion, t float64) Quaternion {
	t = Clamp01(t)
	a, b = a.Normalize(), b.Normalize()
	cos := a.Dot(b)
	if cos < 0 {
		b = Quaternion{W: -b.W, X: -b.X, Y: -b.Y, Z: -b.Z}
		cos = -cos
	}
	var sa, sb float64
	if cos > 0.9995 {
		// nearly parallel, nlerp is accurate enough and avoids sin(θ)≈0
		sa, sb = 1-t, t
	} else {
		theta := math.Acos(cos)
		sinTheta := math.Sin(theta)
		sa = math.Sin((1-t)*theta) / sinTheta
		sb = math.Sin(t*theta) / sinTheta
	}
	return fromNumber(quat.Add(quat.Scale(sa, a.number()), quat.Scale(sb, b.number()))).Normalize()
}

// LookRotation returns the rotation whose forward axis points along forward,
// keeping its up axis as close to Up as possible.
// ok is false when forward has no usable direction.
func LookRotation(forward Vector3D) (q Quaternion, ok bool) {
	f := forward.Normalize()
	if f.IsZero() {
		return Identity, false
	}
	up := Up
	right := up.Cross(f)
	if right.IsZero() {
		// looking straight up or down
		if f.Y > 0 {
			up = Vector3D{Z: -1}
		} else {
			up = Vector3D{Z: 1}
		}
		right = up.Cross(f)
	}
	right = right.Normalize()
	newUp := f.Cross(right)
	return fromBasis(right, newUp, f), true
}

// fromBasis converts the rotation matrix with columns (x, y, z) into a quaternion.
func fromBasis(x, y, z Vector3D) Quaternion {
	m00, m01, m02 := x.X, y.X, z.X
	m10, m11, m12 := x.Y, y.Y, z.Y
	m20, m21, m22 := x.Z, y.Z, z.Z

	var q Quaternion
	trace := m00 + m11 + m22
	switch {
	case trace > 0:
		s := 0.5 / math.Sqrt(trace+1)
		q = Quaternion{W: 0.25 / s, X: (m21 - m12) * s, Y: (m02 - m20) * s, Z: (m10 - m01) * s}
	case m00 > m11 && m00 > m22:
		s := 2 * math.Sqrt(1+m00-m11-m22)
		q = Quaternion{W: (m21 - m12) / s, X: 0.25 * s, Y: (m01 + m10) / s, Z: (m02 + m20) / s}
	case m11 > m22:
		s := 2 * math.Sqrt(1+m11-m00-m22)
		q = Quaternion{W: (m02 - m20) / s, X: (m01 + m10) / s, Y: 0.25 * s, Z: (m12 + m21) / s}
	default:
		s := 2 * math.Sqrt(1+m22-m00-m11)
		q = Quaternion{W: (m10 - m01) / s, X: (m02 + m20) / s, Y: (m12 + m21) / s, Z: 0.25 * s}
	}
	return q.Normalize()
}

// SameRotation reports whether a and b describe the same rotation within toleranceDeg.
func SameRotation(a, b Quaternion, toleranceDeg float64) bool {
	return Angle(a, b) <= toleranceDeg
}

package algebra

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// unitTolerance is how far |q| may drift from 1 before Rotate normalizes a copy.
const unitTolerance = 1e-12

// AxisAngle returns the unit quaternion rotating by radians around axis.
// The axis does not need to be normalized.
func AxisAngle(axis mgl64.Vec3, radians float64) mgl64.Quat {
	s, c := math.Sincos(radians / 2)

	return mgl64.Quat{W: c, V: Normalize(axis).Mul(s)}
}

// Rotate applies q to v: v + 2w(q×v) + 2(q×(q×v)), with q the vector part.
// A non-unit q is normalized on a copy; the caller's quaternion is left as is.
func Rotate(q mgl64.Quat, v mgl64.Vec3) mgl64.Vec3 {
	if math.Abs(q.Dot(q)-1) > unitTolerance {
		q = NormalizeQuat(q)
	}

	cross := q.V.Cross(v)

	return v.Add(cross.Mul(2 * q.W)).Add(q.V.Cross(cross).Mul(2))
}

// RotateInPlace is Rotate, but stores the normalized quaternion back into q.
func RotateInPlace(q *mgl64.Quat, v mgl64.Vec3) mgl64.Vec3 {
	if math.Abs(q.Dot(*q)-1) > unitTolerance {
		*q = NormalizeQuat(*q)
	}

	return Rotate(*q, v)
}

// Compose returns the rotation that applies existing first, then applied: applied * existing.
func Compose(applied, existing mgl64.Quat) mgl64.Quat {
	return applied.Mul(existing)
}

// NormalizeQuat returns q scaled to unit length. A zero quaternion becomes the identity.
func NormalizeQuat(q mgl64.Quat) mgl64.Quat {
	length := q.Len()
	if length == 0 {
		return mgl64.QuatIdent()
	}

	return q.Scale(1.0 / length)
}

// Unrotate applies the inverse rotation of q to v.
func Unrotate(q mgl64.Quat, v mgl64.Vec3) mgl64.Vec3 {
	return Rotate(NormalizeQuat(q).Conjugate(), v)
}

// QuatToMat3 converts q to a rotation matrix. q is assumed to be unit length.
func QuatToMat3(q mgl64.Quat) mgl64.Mat3 {
	x, y, z, w := q.V[0], q.V[1], q.V[2], q.W
	xx, yy, zz := x*x, y*y, z*z
	xy, xz, yz := x*y, x*z, y*z
	wx, wy, wz := w*x, w*y, w*z

	return mgl64.Mat3FromRows(
		mgl64.Vec3{1 - 2*(yy+zz), 2 * (xy - wz), 2 * (xz + wy)},
		mgl64.Vec3{2 * (xy + wz), 1 - 2*(xx+zz), 2 * (yz - wx)},
		mgl64.Vec3{2 * (xz - wy), 2 * (yz + wx), 1 - 2*(xx+yy)},
	)
}

// Mat3ToQuat converts a rotation matrix to a quaternion.
// With a non-positive trace the largest diagonal element picks the formula, keeping the divisor away from zero.
func Mat3ToQuat(m mgl64.Mat3) mgl64.Quat {
	m00, m11, m22 := m.At(0, 0), m.At(1, 1), m.At(2, 2)
	trace := m00 + m11 + m22

	switch {
	case trace > 0:
		s := 0.5 / math.Sqrt(trace+1)
		return mgl64.Quat{
			W: 0.25 / s,
			V: mgl64.Vec3{
				(m.At(2, 1) - m.At(1, 2)) * s,
				(m.At(0, 2) - m.At(2, 0)) * s,
				(m.At(1, 0) - m.At(0, 1)) * s,
			},
		}
	case m00 > m11 && m00 > m22:
		s := 2 * math.Sqrt(1+m00-m11-m22)
		return mgl64.Quat{
			W: (m.At(2, 1) - m.At(1, 2)) / s,
			V: mgl64.Vec3{
				0.25 * s,
				(m.At(0, 1) + m.At(1, 0)) / s,
				(m.At(0, 2) + m.At(2, 0)) / s,
			},
		}
	case m11 > m22:
		s := 2 * math.Sqrt(1+m11-m00-m22)
		return mgl64.Quat{
			W: (m.At(0, 2) - m.At(2, 0)) / s,
			V: mgl64.Vec3{
				(m.At(0, 1) + m.At(1, 0)) / s,
				0.25 * s,
				(m.At(1, 2) + m.At(2, 1)) / s,
			},
		}
	default:
		s := 2 * math.Sqrt(1+m22-m00-m11)
		return mgl64.Quat{
			W: (m.At(1, 0) - m.At(0, 1)) / s,
			V: mgl64.Vec3{
				(m.At(0, 2) + m.At(2, 0)) / s,
				(m.At(1, 2) + m.At(2, 1)) / s,
				0.25 * s,
			},
		}
	}
}

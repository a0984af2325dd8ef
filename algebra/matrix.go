package algebra

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// DegenerateDeterminant is the |det| below which Inverse gives up and returns the identity.
const DegenerateDeterminant = 0.0005

// Inverse returns the inverse of m computed from its cofactors.
// A near-singular m yields the identity matrix rather than an error.
func Inverse(m mgl64.Mat3) mgl64.Mat3 {
	a, b, c := m.At(0, 0), m.At(0, 1), m.At(0, 2)
	d, e, f := m.At(1, 0), m.At(1, 1), m.At(1, 2)
	g, h, i := m.At(2, 0), m.At(2, 1), m.At(2, 2)

	c00 := e*i - f*h
	c01 := -(d*i - f*g)
	c02 := d*h - e*g

	det := a*c00 + b*c01 + c*c02
	if math.Abs(det) < DegenerateDeterminant {
		return mgl64.Ident3()
	}
	invDet := 1.0 / det

	// adjugate = transpose of the cofactor matrix
	return mgl64.Mat3FromRows(
		mgl64.Vec3{c00, -(b*i - c*h), b*f - c*e}.Mul(invDet),
		mgl64.Vec3{c01, a*i - c*g, -(a*f - c*d)}.Mul(invDet),
		mgl64.Vec3{c02, -(a*h - b*g), a*e - b*d}.Mul(invDet),
	)
}

// Diagonal returns the matrix with x, y, z on the diagonal.
func Diagonal(x, y, z float64) mgl64.Mat3 {
	return mgl64.Diag3(mgl64.Vec3{x, y, z})
}

// ToWorld expresses a body-frame tensor in world frame: R * m * R^T.
func ToWorld(rotation, m mgl64.Mat3) mgl64.Mat3 {
	return rotation.Mul3(m).Mul3(rotation.Transpose())
}

// Symmetric reports whether m equals its transpose within epsilon.
func Symmetric(m mgl64.Mat3, epsilon float64) bool {
	return m.ApproxEqualThreshold(m.Transpose(), epsilon)
}

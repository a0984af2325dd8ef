// Package algebra holds the vector, quaternion and 3x3 matrix operations used by the integrator.
// Storage types come from mgl64; this package adds the numeric policies the bodies rely on
// (zero-safe normalization, on-demand quaternion normalization, degenerate-matrix fallback).
package algebra

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

// ErrComponentIndex is returned when a vector component index is outside 0..2.
var ErrComponentIndex = errors.New("vector component index out of range")

// Normalize returns the unit vector of v. A zero-length vector is returned unchanged.
func Normalize(v mgl64.Vec3) mgl64.Vec3 {
	length := v.Len()
	if length == 0 {
		return v
	}

	return v.Mul(1.0 / length)
}

// BecomeUnitVector normalizes v in place.
func BecomeUnitVector(v *mgl64.Vec3) {
	*v = Normalize(*v)
}

// Divide returns v / s. The caller guards s == 0.
func Divide(v mgl64.Vec3, s float64) mgl64.Vec3 {
	return mgl64.Vec3{v[0] / s, v[1] / s, v[2] / s}
}

func Component(v mgl64.Vec3, i int) (float64, error) {
	if i < 0 || i > 2 {
		return 0, errors.Wrapf(ErrComponentIndex, "index %d", i)
	}

	return v[i], nil
}

func SetComponent(v *mgl64.Vec3, i int, value float64) error {
	if i < 0 || i > 2 {
		return errors.Wrapf(ErrComponentIndex, "index %d", i)
	}
	v[i] = value

	return nil
}

// IsZero reports whether every component is exactly zero.
func IsZero(v mgl64.Vec3) bool {
	return v[0] == 0 && v[1] == 0 && v[2] == 0
}

// AngleBetween returns the angle in radians between a and b.
// Rounding can push the cosine slightly outside [-1, 1]; the NaN that arccos would produce is reported as 0.
func AngleBetween(a, b mgl64.Vec3) float64 {
	angle := math.Acos(Normalize(a).Dot(Normalize(b)))
	if math.IsNaN(angle) {
		return 0
	}

	return angle
}

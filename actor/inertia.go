package actor

import (
	"github.com/akmonengine/tumble/algebra"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// MassProperties is what an inertia model derives for a body
type MassProperties struct {
	Mass         float64
	CenterOfMass mgl64.Vec3 // relative to the body position, body frame
	Inertia      mgl64.Mat3 // body frame, about the center of mass
}

// InertiaModel computes how a body's mass is distributed.
// Closed-form models scale with the body mass; aggregate models derive the mass themselves.
type InertiaModel interface {
	// MassProperties derives the mass data for a body of the given mass.
	// Models that own their mass ignore the argument.
	MassProperties(mass float64) MassProperties
	// DerivesMass reports whether the mass comes from the model rather than the body.
	DerivesMass() bool
	// Dirty reports whether the model changed since MassProperties was last called.
	Dirty() bool
}

// SolidSphere is a uniform ball centered on the body position
type SolidSphere struct {
	radius float64
}

func NewSolidSphere(radius float64) (*SolidSphere, error) {
	if radius <= 0 {
		return nil, errors.Wrapf(ErrNonPositiveRadius, "radius %v", radius)
	}

	return &SolidSphere{radius: radius}, nil
}

func (s *SolidSphere) Radius() float64 {
	return s.radius
}

// MassProperties: I = 2/5 * m * r² on the diagonal
func (s *SolidSphere) MassProperties(mass float64) MassProperties {
	i := 0.4 * mass * s.radius * s.radius

	return MassProperties{
		Mass:    mass,
		Inertia: algebra.Diagonal(i, i, i),
	}
}

func (s *SolidSphere) DerivesMass() bool { return false }
func (s *SolidSphere) Dirty() bool       { return false }

// SolidBox is a uniform box centered on the body position.
// The box is defined by its half-extents (half-width, half-height, half-depth)
type SolidBox struct {
	HalfExtents mgl64.Vec3
}

func (b *SolidBox) MassProperties(mass float64) MassProperties {
	// Full dimensions
	x := b.HalfExtents.X() * 2
	y := b.HalfExtents.Y() * 2
	z := b.HalfExtents.Z() * 2

	// I = (m/12) * (d1² + d2²)
	factor := mass / 12.0

	return MassProperties{
		Mass: mass,
		Inertia: algebra.Diagonal(
			factor*(y*y+z*z),
			factor*(x*x+z*z),
			factor*(x*x+y*y),
		),
	}
}

func (b *SolidBox) DerivesMass() bool { return false }
func (b *SolidBox) Dirty() bool       { return false }

// Tensor is an explicitly given inertia tensor and center of mass.
// The tensor is used as is, whatever the body mass.
type Tensor struct {
	Inertia      mgl64.Mat3
	CenterOfMass mgl64.Vec3
}

func (t *Tensor) MassProperties(mass float64) MassProperties {
	return MassProperties{
		Mass:         mass,
		CenterOfMass: t.CenterOfMass,
		Inertia:      t.Inertia,
	}
}

func (t *Tensor) DerivesMass() bool { return false }
func (t *Tensor) Dirty() bool       { return false }

// PrincipalMoments diagonalizes a symmetric inertia tensor.
// It returns the principal moments in ascending order, and the matrix whose columns are the matching principal axes.
func PrincipalMoments(inertia mgl64.Mat3) (mgl64.Vec3, mgl64.Mat3, error) {
	sym := mat.NewSymDense(3, nil)
	for r := 0; r < 3; r++ {
		for c := r; c < 3; c++ {
			sym.SetSym(r, c, (inertia.At(r, c)+inertia.At(c, r))/2)
		}
	}

	var eigen mat.EigenSym
	if !eigen.Factorize(sym, true) {
		return mgl64.Vec3{}, mgl64.Ident3(), errors.New("inertia tensor eigen decomposition did not converge")
	}

	values := eigen.Values(nil)
	var vectors mat.Dense
	eigen.VectorsTo(&vectors)

	var axes mgl64.Mat3
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			axes.Set(r, c, vectors.At(r, c))
		}
	}

	return mgl64.Vec3{values[0], values[1], values[2]}, axes, nil
}

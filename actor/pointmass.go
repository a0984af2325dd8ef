package actor

import (
	"github.com/akmonengine/tumble/algebra"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// MinimumMass stands in for the mass of a body without any point mass, so forces never divide by zero.
const MinimumMass = 1e-9

// PointMassSpec describes a point mass to add.
type PointMassSpec struct {
	Position mgl64.Vec3
	Mass     float64
}

// PointMass is a mass concentrated at a point of the body frame.
// Changing it marks the owning cloud for a rebuild.
type PointMass struct {
	position mgl64.Vec3
	mass     float64
	cloud    *PointCloud
}

func (p *PointMass) Position() mgl64.Vec3 {
	return p.position
}

func (p *PointMass) Mass() float64 {
	return p.mass
}

func (p *PointMass) SetPosition(position mgl64.Vec3) {
	p.position = position
	p.invalidate()
}

func (p *PointMass) SetMass(mass float64) error {
	if mass <= 0 {
		return errors.Wrapf(ErrNonPositiveMass, "point mass %v", mass)
	}
	p.mass = mass
	p.invalidate()

	return nil
}

func (p *PointMass) invalidate() {
	if p.cloud != nil {
		p.cloud.dirty = true
	}
}

// PointCloud derives mass, center of mass and inertia from a set of point masses.
type PointCloud struct {
	points []*PointMass
	dirty  bool
}

func NewPointCloud() *PointCloud {
	return &PointCloud{dirty: true}
}

// Add appends a point mass at (x, y, z) in the body frame.
func (c *PointCloud) Add(x, y, z, mass float64) (*PointMass, error) {
	if mass <= 0 {
		return nil, errors.Wrapf(ErrNonPositiveMass, "point mass %v", mass)
	}

	pm := &PointMass{position: mgl64.Vec3{x, y, z}, mass: mass, cloud: c}
	c.points = append(c.points, pm)
	c.dirty = true

	return pm, nil
}

// AddRange appends every spec, or none of them if one is invalid.
func (c *PointCloud) AddRange(specs []PointMassSpec) ([]*PointMass, error) {
	for i, spec := range specs {
		if spec.Mass <= 0 {
			return nil, errors.Wrapf(ErrNonPositiveMass, "point mass %d: %v", i, spec.Mass)
		}
	}

	added := lo.Map(specs, func(spec PointMassSpec, _ int) *PointMass {
		return &PointMass{position: spec.Position, mass: spec.Mass, cloud: c}
	})
	c.points = append(c.points, added...)
	c.dirty = true

	return added, nil
}

// Remove detaches pm from the cloud. It reports whether pm was found.
func (c *PointCloud) Remove(pm *PointMass) bool {
	if !lo.Contains(c.points, pm) {
		return false
	}

	c.points = lo.Without(c.points, pm)
	pm.cloud = nil
	c.dirty = true

	return true
}

// Points returns the point masses in insertion order.
func (c *PointCloud) Points() []*PointMass {
	return append([]*PointMass(nil), c.points...)
}

func (c *PointCloud) DerivesMass() bool { return true }

func (c *PointCloud) Dirty() bool { return c.dirty }

// MassProperties sums the point masses. The inertia tensor is taken about the center of mass:
// Ixx = Σm(y²+z²) and cyclic on the diagonal, Ixy = -Σm·x·y and cyclic off it.
func (c *PointCloud) MassProperties(float64) MassProperties {
	c.dirty = false

	total := lo.SumBy(c.points, func(p *PointMass) float64 { return p.mass })
	if len(c.points) == 0 || total <= 0 {
		return MassProperties{
			Mass:    MinimumMass,
			Inertia: mgl64.Ident3(),
		}
	}

	var weighted mgl64.Vec3
	for _, p := range c.points {
		weighted = weighted.Add(p.position.Mul(p.mass))
	}
	center := algebra.Divide(weighted, total)

	var ixx, iyy, izz, ixy, ixz, iyz float64
	for _, p := range c.points {
		r := p.position.Sub(center)
		x, y, z := r.X(), r.Y(), r.Z()

		ixx += p.mass * (y*y + z*z)
		iyy += p.mass * (x*x + z*z)
		izz += p.mass * (x*x + y*y)
		ixy -= p.mass * x * y
		ixz -= p.mass * x * z
		iyz -= p.mass * y * z
	}

	return MassProperties{
		Mass:         total,
		CenterOfMass: center,
		Inertia: mgl64.Mat3FromRows(
			mgl64.Vec3{ixx, ixy, ixz},
			mgl64.Vec3{ixy, iyy, iyz},
			mgl64.Vec3{ixz, iyz, izz},
		),
	}
}

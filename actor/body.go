package actor

import (
	"github.com/akmonengine/tumble/algebra"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

// Phase is where a body stands in its integration cycle
type Phase uint8

const (
	// PhaseIdle bodies wait for PrepareForNewCycle
	PhaseIdle Phase = iota
	// PhasePrepared bodies accept forces and torques
	PhasePrepared
	// PhaseTested bodies hold a speculative position; TestPosition may be called again
	PhaseTested
)

// TorqueMode selects the frames torques are integrated in
type TorqueMode uint8

const (
	// TorqueModeDirect adds the merged torque to the angular momentum as is,
	// and measures every force arm from the unrotated center of mass.
	TorqueModeDirect TorqueMode = iota
	// TorqueModeWorld rotates the merged body-frame torque into world frame before adding it to the momentum,
	// and rotates the center of mass into world frame for external force arms.
	TorqueModeWorld
)

type Material struct {
	elasticity float64

	KineticFriction float64
	StaticFriction  float64
}

func (material Material) GetElasticity() float64 {
	return material.elasticity
}

// spin holds the rotational state of a body that responds to torque
type spin struct {
	model InertiaModel

	centerOfMass       mgl64.Vec3
	inertiaBody        mgl64.Mat3
	inertiaBodyInverse mgl64.Mat3

	externalTorque  mgl64.Vec3
	internalTorque  mgl64.Vec3
	angularMomentum mgl64.Vec3
	angularVelocity mgl64.Vec3
}

// snapshot is the state TestPosition restores before every trial move
type snapshot struct {
	position  mgl64.Vec3
	rotation  mgl64.Quat
	rotations int
	velocity  mgl64.Vec3
}

// Body represents a simulated object: an oriented point with mass, linear motion, and
// optionally rotational motion driven by an inertia model.
type Body struct {
	Id interface{}

	// Spatial properties
	Transform Transform

	// Linear motion, persistent across cycles (m/s)
	Velocity mgl64.Vec3

	// Per-cycle accumulators, cleared by PrepareForNewCycle.
	// ExternalForce is world frame, InternalForce is body frame.
	ExternalForce mgl64.Vec3
	InternalForce mgl64.Vec3
	acceleration  mgl64.Vec3

	// Bounds keeps the body inside a box when set
	Bounds *AABB

	IsSleeping bool
	SleepTimer float64

	Material Material
	mass     float64

	// TorqueMode only matters for bodies that spin; the zero value is TorqueModeDirect
	TorqueMode TorqueMode

	phase      Phase
	saved      *snapshot
	dt         float64
	lastBounce []algebra.Axis

	spin *spin
}

// NewBall creates a body with linear motion only.
func NewBall(transform Transform, mass float64) (*Body, error) {
	if mass <= 0 {
		return nil, errors.Wrapf(ErrNonPositiveMass, "mass %v", mass)
	}

	return &Body{
		Transform: transform,
		Material:  Material{elasticity: 1},
		mass:      mass,
	}, nil
}

// NewTorqueBall creates a body with an explicit body-frame inertia tensor and center of mass.
func NewTorqueBall(transform Transform, mass float64, inertia mgl64.Mat3, centerOfMass mgl64.Vec3) (*Body, error) {
	return newSpinningBody(transform, mass, &Tensor{Inertia: inertia, CenterOfMass: centerOfMass})
}

// NewSolidBall creates a uniform ball of the given radius.
func NewSolidBall(transform Transform, mass, radius float64) (*Body, error) {
	sphere, err := NewSolidSphere(radius)
	if err != nil {
		return nil, err
	}

	return newSpinningBody(transform, mass, sphere)
}

// NewSolidBox creates a uniform box of the given half extents.
func NewSolidBox(transform Transform, mass float64, halfExtents mgl64.Vec3) (*Body, error) {
	return newSpinningBody(transform, mass, &SolidBox{HalfExtents: halfExtents})
}

// NewRigidBody creates a body whose mass distribution comes from point masses.
// Until a point mass is added, its mass is MinimumMass.
func NewRigidBody(transform Transform) *Body {
	rb, _ := newSpinningBody(transform, MinimumMass, NewPointCloud())

	return rb
}

func newSpinningBody(transform Transform, mass float64, model InertiaModel) (*Body, error) {
	rb, err := NewBall(transform, mass)
	if err != nil {
		return nil, err
	}

	rb.spin = &spin{model: model}
	rb.applyMassProperties()

	return rb, nil
}

func (rb *Body) applyMassProperties() {
	props := rb.spin.model.MassProperties(rb.mass)

	rb.mass = props.Mass
	rb.spin.centerOfMass = props.CenterOfMass
	rb.setInertiaTensor(props.Inertia)
}

// setInertiaTensor keeps the tensor and its inverse in step
func (rb *Body) setInertiaTensor(inertia mgl64.Mat3) {
	rb.spin.inertiaBody = inertia
	rb.spin.inertiaBodyInverse = algebra.Inverse(inertia)
}

// refresh rebuilds derived mass data if the inertia model changed
func (rb *Body) refresh() {
	if rb.spin != nil && rb.spin.model.Dirty() {
		rb.applyMassProperties()
	}
}

// HasSpin reports whether the body responds to torque.
func (rb *Body) HasSpin() bool {
	return rb.spin != nil
}

// InertiaModel returns the model deriving the body's mass distribution, nil for linear-only bodies.
func (rb *Body) InertiaModel() InertiaModel {
	if rb.spin == nil {
		return nil
	}

	return rb.spin.model
}

func (rb *Body) Mass() float64 {
	rb.refresh()

	return rb.mass
}

// SetMass changes the mass. Closed-form inertia tensors are recomputed.
func (rb *Body) SetMass(mass float64) error {
	if rb.spin != nil && rb.spin.model.DerivesMass() {
		return ErrMassDerived
	}
	if mass <= 0 {
		return errors.Wrapf(ErrNonPositiveMass, "mass %v", mass)
	}

	rb.mass = mass
	if rb.spin != nil {
		rb.applyMassProperties()
	}

	return nil
}

// SetRadius changes the radius of a solid ball and recomputes its inertia tensor.
func (rb *Body) SetRadius(radius float64) error {
	if rb.spin == nil {
		return errors.Wrap(ErrInvalidOperation, "set radius")
	}
	if _, ok := rb.spin.model.(*SolidSphere); !ok {
		return errors.Wrapf(ErrInvalidOperation, "set radius on %T", rb.spin.model)
	}

	sphere, err := NewSolidSphere(radius)
	if err != nil {
		return err
	}
	rb.spin.model = sphere
	rb.applyMassProperties()

	return nil
}

func (rb *Body) SetElasticity(elasticity float64) error {
	if elasticity < 0 {
		return errors.Wrapf(ErrNegativeElasticity, "elasticity %v", elasticity)
	}
	rb.Material.elasticity = elasticity

	return nil
}

func (rb *Body) Position() mgl64.Vec3 {
	return rb.Transform.Position
}

func (rb *Body) Rotation() mgl64.Quat {
	return rb.Transform.Rotation()
}

func (rb *Body) DirectionFacing() Facing {
	return rb.Transform.DirectionFacing()
}

// CenterOfMass is relative to the position, in body frame. Linear-only bodies report zero.
func (rb *Body) CenterOfMass() mgl64.Vec3 {
	if rb.spin == nil {
		return mgl64.Vec3{}
	}
	rb.refresh()

	return rb.spin.centerOfMass
}

// WorldCenterOfMass returns the center of mass in world coordinates.
func (rb *Body) WorldCenterOfMass() mgl64.Vec3 {
	return rb.Transform.ToWorld(rb.CenterOfMass())
}

// InertiaTensor returns the body-frame inertia tensor. Linear-only bodies report zero.
func (rb *Body) InertiaTensor() mgl64.Mat3 {
	if rb.spin == nil {
		return mgl64.Mat3{}
	}
	rb.refresh()

	return rb.spin.inertiaBody
}

// InverseInertiaTensor returns the cached inverse of the body-frame inertia tensor.
func (rb *Body) InverseInertiaTensor() mgl64.Mat3 {
	if rb.spin == nil {
		return mgl64.Mat3{}
	}
	rb.refresh()

	return rb.spin.inertiaBodyInverse
}

func (rb *Body) Acceleration() mgl64.Vec3 {
	return rb.acceleration
}

func (rb *Body) AngularVelocity() mgl64.Vec3 {
	if rb.spin == nil {
		return mgl64.Vec3{}
	}

	return rb.spin.angularVelocity
}

func (rb *Body) AngularMomentum() mgl64.Vec3 {
	if rb.spin == nil {
		return mgl64.Vec3{}
	}

	return rb.spin.angularMomentum
}

// ExternalTorque is the world-frame torque accumulated this cycle.
func (rb *Body) ExternalTorque() mgl64.Vec3 {
	if rb.spin == nil {
		return mgl64.Vec3{}
	}

	return rb.spin.externalTorque
}

// InternalTorque is the body-frame torque accumulated this cycle.
func (rb *Body) InternalTorque() mgl64.Vec3 {
	if rb.spin == nil {
		return mgl64.Vec3{}
	}

	return rb.spin.internalTorque
}

func (rb *Body) Phase() Phase {
	return rb.phase
}

// AddPointMass adds a point mass at (x, y, z) in the body frame of a rigid body.
func (rb *Body) AddPointMass(x, y, z, mass float64) (*PointMass, error) {
	cloud, err := rb.pointCloud()
	if err != nil {
		return nil, err
	}

	return cloud.Add(x, y, z, mass)
}

// AddRangePointMasses adds several point masses at once.
func (rb *Body) AddRangePointMasses(specs []PointMassSpec) ([]*PointMass, error) {
	cloud, err := rb.pointCloud()
	if err != nil {
		return nil, err
	}

	return cloud.AddRange(specs)
}

// RemovePointMass removes pm from a rigid body.
func (rb *Body) RemovePointMass(pm *PointMass) (bool, error) {
	cloud, err := rb.pointCloud()
	if err != nil {
		return false, err
	}

	return cloud.Remove(pm), nil
}

func (rb *Body) PointMasses() []*PointMass {
	cloud, err := rb.pointCloud()
	if err != nil {
		return nil
	}

	return cloud.Points()
}

func (rb *Body) pointCloud() (*PointCloud, error) {
	if rb.spin != nil {
		if cloud, ok := rb.spin.model.(*PointCloud); ok {
			return cloud, nil
		}
	}

	return nil, errors.Wrap(ErrInvalidOperation, "body has no point masses")
}

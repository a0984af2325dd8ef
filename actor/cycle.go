package actor

import (
	"github.com/akmonengine/tumble/algebra"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

// PrepareForNewCycle clears the per-cycle accumulators and the TestPosition snapshot.
// Calling it in the middle of a cycle abandons that cycle.
func (rb *Body) PrepareForNewCycle() {
	rb.ExternalForce = mgl64.Vec3{}
	rb.InternalForce = mgl64.Vec3{}
	rb.acceleration = mgl64.Vec3{}

	if rb.spin != nil {
		rb.spin.externalTorque = mgl64.Vec3{}
		rb.spin.internalTorque = mgl64.Vec3{}
	}

	rb.saved = nil
	rb.dt = 0
	rb.lastBounce = nil
	rb.phase = PhasePrepared
}

// TestPosition moves the body to where it would be after dt.
// Every call starts over from the state the body had at the first call of the cycle,
// so it can be called repeatedly with different trial durations.
// The orbit around an off-center mass is applied before the bounds, so the tested position always lies inside them.
func (rb *Body) TestPosition(dt float64) error {
	if rb.phase == PhaseIdle {
		return errors.Wrap(ErrCycleOrder, "test position")
	}
	rb.refresh()

	if rb.saved == nil {
		rb.save()
	} else {
		rb.restore()
	}
	rb.dt = dt

	// ========== ANGULAR ==========
	// the orbit does not depend on the translation, so it can go first
	if rb.spin != nil {
		rb.testRotation(dt)
	}

	// ========== LINEAR ==========
	delta := rb.Velocity.Mul(dt)
	if rb.Bounds != nil {
		rb.Transform.Position, rb.Velocity, rb.lastBounce = rb.Bounds.Reflect(rb.Transform.Position, delta, rb.Velocity)
	} else {
		rb.lastBounce = nil
		rb.Transform.Position = rb.Transform.Position.Add(delta)
	}

	rb.phase = PhaseTested

	return nil
}

func (rb *Body) testRotation(dt float64) {
	omega := rb.spin.angularVelocity
	if algebra.IsZero(omega) {
		return
	}

	increment := algebra.AxisAngle(omega, omega.Len()*dt)

	// Spinning about an off-center mass moves the position around it
	if !algebra.IsZero(rb.spin.centerOfMass) {
		pivot := rb.Transform.ToWorld(rb.spin.centerOfMass)
		arm := rb.Transform.Position.Sub(pivot)
		rb.Transform.Position = pivot.Add(algebra.Rotate(increment, arm))
	}

	rb.Transform.rotate(increment)
}

func (rb *Body) save() {
	rb.saved = &snapshot{
		position:  rb.Transform.Position,
		rotation:  rb.Transform.Rotation(),
		rotations: rb.Transform.rotations,
		velocity:  rb.Velocity,
	}
}

func (rb *Body) restore() {
	rb.Transform.Position = rb.saved.position
	rb.Transform.SetRotation(rb.saved.rotation)
	rb.Transform.rotations = rb.saved.rotations
	rb.Velocity = rb.saved.velocity
}

// TimerFinish commits the last tested position and integrates the accumulated forces and torques
// over the duration given to the last TestPosition call.
func (rb *Body) TimerFinish() error {
	if rb.phase == PhaseIdle {
		return errors.Wrap(ErrCycleOrder, "timer finish")
	}
	rb.refresh()

	rotation := rb.Transform.Rotation()

	// ========== LINEAR INTEGRATION ==========
	force := algebra.Rotate(rotation, rb.InternalForce).Add(rb.ExternalForce)
	rb.acceleration = rb.acceleration.Add(force.Mul(1.0 / rb.mass))
	rb.Velocity = rb.Velocity.Add(rb.acceleration.Mul(rb.dt))

	// ========== ANGULAR INTEGRATION ==========
	if rb.spin != nil {
		s := rb.spin
		R := rb.Transform.RotationMatrix()

		s.internalTorque = s.internalTorque.Add(algebra.Rotate(rb.Transform.InverseRotation(), s.externalTorque))
		torque := s.internalTorque
		if rb.TorqueMode == TorqueModeWorld {
			torque = R.Mul3x1(torque)
		}
		s.angularMomentum = s.angularMomentum.Add(torque.Mul(rb.dt))

		// ω is re-derived from L every step, so torque-free bodies precess correctly
		inverseInertiaWorld := algebra.ToWorld(R, s.inertiaBodyInverse)
		s.angularVelocity = inverseInertiaWorld.Mul3x1(s.angularMomentum)
	}

	rb.saved = nil
	rb.phase = PhaseIdle

	return nil
}

// LastBounce returns the axes clipped by the bounds during the last TestPosition call.
func (rb *Body) LastBounce() []algebra.Axis {
	return rb.lastBounce
}

// StopBall zeroes the linear velocity.
func (rb *Body) StopBall() {
	rb.Velocity = mgl64.Vec3{}
}

// StopSpin zeroes the angular momentum and velocity.
func (rb *Body) StopSpin() {
	if rb.spin != nil {
		rb.spin.angularMomentum = mgl64.Vec3{}
		rb.spin.angularVelocity = mgl64.Vec3{}
	}
}

// ApplyExternalForce pushes the body with a world-frame force applied at an offset from the body position.
// Off-center forces also produce a torque about the center of mass.
// With TorqueModeWorld the offset is world aligned and the center of mass is rotated to match.
func (rb *Body) ApplyExternalForce(offset, force mgl64.Vec3) {
	rb.ExternalForce = rb.ExternalForce.Add(force)

	if rb.spin != nil {
		rb.refresh()
		centerOfMass := rb.spin.centerOfMass
		if rb.TorqueMode == TorqueModeWorld {
			centerOfMass = algebra.Rotate(rb.Transform.Rotation(), centerOfMass)
		}
		r := offset.Sub(centerOfMass)
		rb.spin.externalTorque = rb.spin.externalTorque.Add(r.Cross(force))
	}
}

// ApplyInternalForce pushes the body with a body-frame force applied at a body-frame offset.
func (rb *Body) ApplyInternalForce(offset, force mgl64.Vec3) {
	rb.InternalForce = rb.InternalForce.Add(force)

	if rb.spin != nil {
		rb.refresh()
		r := offset.Sub(rb.spin.centerOfMass)
		rb.spin.internalTorque = rb.spin.internalTorque.Add(r.Cross(force))
	}
}

// AddExternalTorque adds a world-frame torque for this cycle.
func (rb *Body) AddExternalTorque(torque mgl64.Vec3) {
	if rb.spin != nil {
		rb.spin.externalTorque = rb.spin.externalTorque.Add(torque)
	}
}

// AddInternalTorque adds a body-frame torque for this cycle.
func (rb *Body) AddInternalTorque(torque mgl64.Vec3) {
	if rb.spin != nil {
		rb.spin.internalTorque = rb.spin.internalTorque.Add(torque)
	}
}

// SetAngularVelocity sets the angular momentum that makes the body spin at omega (world frame):
// L = R * I * R^T * omega.
func (rb *Body) SetAngularVelocity(omega mgl64.Vec3) error {
	if rb.spin == nil {
		return errors.Wrap(ErrInvalidOperation, "set angular velocity on a linear body")
	}
	rb.refresh()

	inertiaWorld := algebra.ToWorld(rb.Transform.RotationMatrix(), rb.spin.inertiaBody)
	rb.spin.angularMomentum = inertiaWorld.Mul3x1(omega)
	rb.spin.angularVelocity = omega

	return nil
}

// KineticEnergy returns the translational plus rotational kinetic energy.
func (rb *Body) KineticEnergy() float64 {
	energy := 0.5 * rb.Mass() * rb.Velocity.LenSqr()
	if rb.spin != nil {
		energy += 0.5 * rb.spin.angularVelocity.Dot(rb.spin.angularMomentum)
	}

	return energy
}

func (rb *Body) TrySleep(dt float64, timeThreshold float64, velocityThreshold float64) {
	if rb.Velocity.Len() < velocityThreshold && rb.AngularVelocity().Len() < velocityThreshold {
		rb.SleepTimer += dt
		if rb.SleepTimer >= timeThreshold {
			rb.Sleep()
		}
	} else {
		rb.Awake()
	}
}

func (rb *Body) Sleep() {
	rb.IsSleeping = true
	rb.SleepTimer = 0.0

	rb.StopBall()
	rb.StopSpin()
}

func (rb *Body) Awake() {
	rb.IsSleeping = false
	rb.SleepTimer = 0.0
}

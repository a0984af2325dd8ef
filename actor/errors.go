package actor

import "github.com/pkg/errors"

var (
	ErrNonPositiveMass    = errors.New("mass must be positive")
	ErrNegativeElasticity = errors.New("elasticity must not be negative")
	ErrNonPositiveRadius  = errors.New("radius must be positive")
	// ErrMassDerived is returned when setting the mass of a body whose mass comes from its point masses.
	ErrMassDerived = errors.New("mass is derived from point masses and cannot be set")
	// ErrInvalidOperation is returned when an operation does not apply to the body's inertia model.
	ErrInvalidOperation = errors.New("operation not supported by this body")
	// ErrCycleOrder is returned when TestPosition or TimerFinish are called outside a cycle.
	ErrCycleOrder = errors.New("PrepareForNewCycle must be called first")
)

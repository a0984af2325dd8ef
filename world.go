package tumble

import (
	"github.com/akmonengine/tumble/actor"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const DEFAULT_WORKERS = 1

// ForceFunc adds forces or torques to a body between PrepareForNewCycle and TestPosition.
// It is called from worker goroutines, once per body and substep.
type ForceFunc func(body *actor.Body, dt float64)

type World struct {
	// List of all bodies in the world
	Bodies []*actor.Body
	// Gravity acceleration (m/s², or N/kg)
	Gravity  mgl64.Vec3
	Forces   []ForceFunc
	Substeps int
	Workers  int

	// A body slower than SleepVelocity for SleepTime seconds is put to sleep.
	// A zero SleepTime disables sleeping.
	SleepTime     float64
	SleepVelocity float64

	Events Events
	Logger *zap.SugaredLogger

	steps uint64
}

// NewWorld creates a world with one substep and a single worker.
func NewWorld(logger *zap.SugaredLogger) *World {
	return &World{
		Substeps: 1,
		Workers:  DEFAULT_WORKERS,
		Events:   NewEvents(),
		Logger:   logger,
	}
}

// AddBody adds a body to the world
func (w *World) AddBody(body *actor.Body) {
	w.Bodies = append(w.Bodies, body)
}

// RemoveBody removes a body from the world
func (w *World) RemoveBody(body *actor.Body) {
	k := -1
	for i, b := range w.Bodies {
		if b == body {
			k = i
			break
		}
	}

	if k != -1 {
		w.Bodies = append(w.Bodies[:k], w.Bodies[k+1:]...)
	}

	delete(w.Events.sleepStates, body)
}

// AddForce registers a force generator applied to every awake body each substep.
func (w *World) AddForce(fn ForceFunc) {
	w.Forces = append(w.Forces, fn)
}

// Steps returns how many times Step has completed.
func (w *World) Steps() uint64 {
	return w.steps
}

// Step advances every awake body by dt, split in Substeps cycles.
// Each body goes through PrepareForNewCycle, force generation, TestPosition and TimerFinish;
// bodies are spread over Workers goroutines, but a body is only ever handled by one of them at a time.
// Events are dispatched on the calling goroutine once all substeps are done.
func (w *World) Step(dt float64) error {
	w.Workers = max(DEFAULT_WORKERS, w.Workers)
	w.Substeps = max(1, w.Substeps)
	h := dt / float64(w.Substeps)
	logger := w.logger()

	for iter, n := 0, w.Substeps; iter < n; iter++ {
		bodies := w.awakeBodies()

		// Phase 1: clear accumulators
		task(w.Workers, bodies, func(body *actor.Body) {
			body.PrepareForNewCycle()
		})

		// Phase 2: forces
		task(w.Workers, bodies, func(body *actor.Body) {
			w.applyForces(body, h)
		})

		// Phase 3: move
		if err := taskErr(w.Workers, bodies, func(body *actor.Body) error {
			return body.TestPosition(h)
		}); err != nil {
			return errors.Wrap(err, "test position")
		}
		w.recordBounces(bodies)

		// Phase 4: commit, integrate velocities
		if err := taskErr(w.Workers, bodies, func(body *actor.Body) error {
			return body.TimerFinish()
		}); err != nil {
			return errors.Wrap(err, "timer finish")
		}

		w.trySleep(h)
	}

	w.steps++
	logger.Debugw("world stepped", "step", w.steps, "dt", dt, "bodies", len(w.Bodies))

	for _, event := range w.Events.processSleepEvents(w.Bodies) {
		switch ev := event.(type) {
		case SleepEvent:
			logger.Infow("body asleep", "id", ev.Body.Id, "position", ev.Body.Position())
		case WakeEvent:
			logger.Infow("body awake", "id", ev.Body.Id)
		}
	}
	w.Events.flush()

	return nil
}

func (w *World) applyForces(body *actor.Body, h float64) {
	if w.Gravity != (mgl64.Vec3{}) {
		body.ExternalForce = body.ExternalForce.Add(w.Gravity.Mul(body.Mass()))
	}
	for _, fn := range w.Forces {
		fn(body, h)
	}
}

func (w *World) awakeBodies() []*actor.Body {
	bodies := make([]*actor.Body, 0, len(w.Bodies))
	for _, body := range w.Bodies {
		if !body.IsSleeping {
			bodies = append(bodies, body)
		}
	}

	return bodies
}

func (w *World) recordBounces(bodies []*actor.Body) {
	for _, body := range bodies {
		if axes := body.LastBounce(); len(axes) > 0 {
			w.Events.emitBounce(body, axes)
		}
	}
}

// trySleep sets the body to sleep if its velocity is lower than the threshold, for a given duration
// this method is too simple to use a task, it slows down in multiple goroutines
func (w *World) trySleep(h float64) {
	if w.SleepTime <= 0 {
		return
	}

	for _, body := range w.Bodies {
		if !body.IsSleeping {
			body.TrySleep(h, w.SleepTime, w.SleepVelocity)
		}
	}
}

// Wake wakes a sleeping body up, so it is stepped again.
func (w *World) Wake(body *actor.Body) {
	body.Awake()
}

func (w *World) logger() *zap.SugaredLogger {
	if w.Logger == nil {
		w.Logger = zap.NewNop().Sugar()
	}

	return w.Logger
}

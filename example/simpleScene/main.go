package main

import (
	"fmt"

	"github.com/akmonengine/tumble"
	"github.com/akmonengine/tumble/actor"
	"github.com/akmonengine/tumble/logging"
	"github.com/go-gl/mathgl/mgl64"
)

// groundY is the height of the landing pad the asteroid must not sink under
const groundY = 0.0

// SetupScene creates a lumpy asteroid above a landing pad, and a probe bouncing in a box
func SetupScene() (*tumble.World, *actor.Body, *actor.Body) {
	world := tumble.NewWorld(logging.NewLogger("simpleScene"))
	world.Gravity = mgl64.Vec3{0, -1.62, 0}
	world.Substeps = 1

	// Asteroid made of point masses, heavier on +X so it spins around an off-center mass
	asteroid := actor.NewRigidBody(actor.NewTransform(mgl64.Vec3{0, 20, 0}, mgl64.Vec3{0, 0, 1}, mgl64.Vec3{0, 1, 0}))
	_, err := asteroid.AddRangePointMasses([]actor.PointMassSpec{
		{Position: mgl64.Vec3{2, 0, 0}, Mass: 40},
		{Position: mgl64.Vec3{-1, 0, 0}, Mass: 10},
		{Position: mgl64.Vec3{0, 1.5, 0.5}, Mass: 15},
		{Position: mgl64.Vec3{0, -1.5, -0.5}, Mass: 15},
	})
	if err != nil {
		panic(err)
	}
	asteroid.Id = "asteroid"
	asteroid.Velocity = mgl64.Vec3{1, 0, 0}
	if err := asteroid.SetAngularVelocity(mgl64.Vec3{0.3, 0.1, 1.2}); err != nil {
		panic(err)
	}

	probe, err := actor.NewBall(actor.Transform{Position: mgl64.Vec3{0, 5, 0}}, 1)
	if err != nil {
		panic(err)
	}
	probe.Id = "probe"
	probe.Velocity = mgl64.Vec3{6, 0, 4}
	probe.Bounds = &actor.AABB{Min: mgl64.Vec3{-10, 0, -10}, Max: mgl64.Vec3{10, 10, 10}}

	world.AddBody(probe)

	return world, asteroid, probe
}

// LandAsteroid steps the asteroid by hand, shortening the last cycle so it stops on the pad
func LandAsteroid(asteroid *actor.Body, dt float64, maxSteps int) {
	below := func(b *actor.Body) bool {
		return b.WorldCenterOfMass().Y() < groundY
	}

	for step := 0; step < maxSteps; step++ {
		asteroid.PrepareForNewCycle()
		asteroid.ExternalForce = mgl64.Vec3{0, -1.62 * asteroid.Mass(), 0}

		toi, err := tumble.TimeOfImpact(asteroid, dt, 30, below)
		if err != nil {
			panic(err)
		}
		if err := asteroid.TimerFinish(); err != nil {
			panic(err)
		}

		if step%30 == 0 || toi < dt {
			facing := asteroid.DirectionFacing()
			fmt.Printf("step %d\n", step)
			fmt.Printf("  Center of mass: %v\n", asteroid.WorldCenterOfMass())
			fmt.Printf("  Velocity: %v\n", asteroid.Velocity)
			fmt.Printf("  Angular Velocity: %v (len=%.3f)\n", asteroid.AngularVelocity(), asteroid.AngularVelocity().Len())
			fmt.Printf("  Facing: %v\n", facing.Primary)
		}

		if toi < dt {
			fmt.Printf("Landed after %.4fs of the last step\n", toi)
			asteroid.StopBall()
			asteroid.StopSpin()
			return
		}
	}
}

func main() {
	world, asteroid, probe := SetupScene()
	world.Events.Subscribe(tumble.BOUNDARY_BOUNCE, func(event tumble.Event) {
		bounce := event.(tumble.BounceEvent)
		fmt.Printf("probe bounced on %v at %v\n", bounce.Axes, bounce.Body.Position())
	})

	const dt float64 = 1.0 / 60.0
	for step := 0; step < 300; step++ {
		if err := world.Step(dt); err != nil {
			panic(err)
		}
	}
	fmt.Printf("probe: position %v, energy %.3f\n", probe.Position(), probe.KineticEnergy())

	LandAsteroid(asteroid, dt, 2000)
}

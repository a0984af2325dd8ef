// Package main is the tumble command, running YAML scenes.
package main

import (
	"log"
	"os"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/akmonengine/tumble"
	"github.com/akmonengine/tumble/actor"
	"github.com/akmonengine/tumble/config"
	"github.com/akmonengine/tumble/logging"
)

const (
	// Flags.
	runFlagScene       = "scene"
	runFlagSteps       = "steps"
	runFlagDt          = "dt"
	runFlagReportEvery = "report-every"
	flagDebug          = "debug"
)

func main() {
	var logger *zap.SugaredLogger

	app := &cli.App{
		Name:  "tumble",
		Usage: "step rigid bodies through their integration cycles",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    flagDebug,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool(flagDebug) {
				logger = logging.NewDebugLogger("tumble")
			} else {
				logger = logging.NewLogger("tumble")
			}

			return nil
		},
		After: func(c *cli.Context) error {
			if logger != nil {
				//nolint:errcheck
				logger.Sync()
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:      "run",
				Usage:     "run a scene file",
				UsageText: "tumble run --scene <file> [--steps N] [--dt seconds] [--report-every N]",
				Flags: []cli.Flag{
					&cli.PathFlag{
						Name:     runFlagScene,
						Aliases:  []string{"s"},
						Required: true,
						Usage:    "load the scene from `FILE`",
					},
					&cli.IntFlag{
						Name:  runFlagSteps,
						Usage: "number of steps, overriding the scene",
					},
					&cli.Float64Flag{
						Name:  runFlagDt,
						Usage: "step duration in seconds, overriding the scene",
					},
					&cli.IntFlag{
						Name:  runFlagReportEvery,
						Value: 60,
						Usage: "log every body state each N steps, 0 to only log the final state",
					},
				},
				Action: func(c *cli.Context) error {
					return runAction(c, logger)
				},
			},
			{
				Name:      "validate",
				Usage:     "check a scene file without running it",
				ArgsUsage: "<file>",
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return errors.New("expected exactly one scene file")
					}
					scene, err := config.Load(c.Args().First())
					if err != nil {
						return err
					}
					if err := scene.Validate(); err != nil {
						return err
					}
					logger.Infow("scene is valid", "bodies", len(scene.Bodies))
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runAction(c *cli.Context, logger *zap.SugaredLogger) error {
	scene, err := config.Load(c.Path(runFlagScene))
	if err != nil {
		return err
	}
	if c.IsSet(runFlagSteps) {
		scene.World.Steps = c.Int(runFlagSteps)
	}
	if c.IsSet(runFlagDt) {
		scene.World.Dt = c.Float64(runFlagDt)
	}

	world, err := scene.Build(logger)
	if err != nil {
		return err
	}

	world.Events.Subscribe(tumble.BOUNDARY_BOUNCE, func(event tumble.Event) {
		bounce := event.(tumble.BounceEvent)
		logger.Infow("bounce", "id", bounce.Body.Id, "axes", bounce.Axes, "position", bounce.Body.Position())
	})

	for _, body := range world.Bodies {
		if !body.HasSpin() {
			continue
		}
		moments, axes, err := actor.PrincipalMoments(body.InertiaTensor())
		if err != nil {
			logger.Warnw("cannot diagonalize inertia tensor", "id", body.Id, "error", err)
			continue
		}
		logger.Debugw("principal moments", "id", body.Id, "moments", moments, "axes", axes, "center_of_mass", body.CenterOfMass())
	}

	reportEvery := c.Int(runFlagReportEvery)
	logger.Infow("running scene", "bodies", len(world.Bodies), "steps", scene.World.Steps, "dt", scene.World.Dt)
	for i := 1; i <= scene.World.Steps; i++ {
		if err := world.Step(scene.World.Dt); err != nil {
			return errors.Wrapf(err, "step %d", i)
		}
		if reportEvery > 0 && i%reportEvery == 0 {
			report(logger, world)
		}
	}
	report(logger, world)

	return nil
}

func report(logger *zap.SugaredLogger, world *tumble.World) {
	for _, body := range world.Bodies {
		logBody(logger, world.Steps(), body)
	}
}

func logBody(logger *zap.SugaredLogger, step uint64, body *actor.Body) {
	facing := body.DirectionFacing()
	logger.Infow("body",
		"step", step,
		"id", body.Id,
		"position", body.Position(),
		"velocity", body.Velocity,
		"angular_velocity", body.AngularVelocity(),
		"facing", facing.Primary,
		"energy", body.KineticEnergy(),
		"sleeping", body.IsSleeping,
	)
}

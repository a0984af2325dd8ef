// Package config reads YAML scene files and builds worlds from them.
package config

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/akmonengine/tumble"
	"github.com/akmonengine/tumble/actor"
	"github.com/akmonengine/tumble/algebra"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var (
	// ErrFieldRequired is returned when a scene omits a field its body kind needs.
	ErrFieldRequired = errors.New("field required")
	// ErrInvalidField is returned when a scene field holds a value out of its domain.
	ErrInvalidField = errors.New("invalid field")
)

// Kind selects the constructor used for a body.
type Kind string

const (
	KindBall       Kind = "ball"
	KindSolidBall  Kind = "solid_ball"
	KindSolidBox   Kind = "solid_box"
	KindTorqueBall Kind = "torque_ball"
	KindRigidBody  Kind = "rigid_body"
)

// Kinds lists every body kind a scene may use.
var Kinds = []Kind{KindBall, KindSolidBall, KindSolidBox, KindTorqueBall, KindRigidBody}

// TorqueModes maps the torque_mode tags to their mode; an empty tag is direct.
var TorqueModes = map[string]actor.TorqueMode{
	"":       actor.TorqueModeDirect,
	"direct": actor.TorqueModeDirect,
	"world":  actor.TorqueModeWorld,
}

// Spins reports whether bodies of this kind carry rotational state.
func (k Kind) Spins() bool {
	return k != KindBall
}

// Vector is a 3 component vector; an empty vector means the field was not set.
type Vector []float64

// Vec3 returns the vector, or zero when it is not set.
func (v Vector) Vec3() mgl64.Vec3 {
	if len(v) != 3 {
		return mgl64.Vec3{}
	}
	return mgl64.Vec3{v[0], v[1], v[2]}
}

func (v Vector) validate(path string) error {
	if len(v) != 0 && len(v) != 3 {
		return errors.Wrapf(ErrInvalidField, "%s: want 3 components, got %d", path, len(v))
	}
	return nil
}

// Scene describes a world and the bodies in it.
type Scene struct {
	World  WorldConfig  `yaml:"world"`
	Bodies []BodyConfig `yaml:"bodies"`
}

// WorldConfig holds the stepping settings of a scene.
type WorldConfig struct {
	Gravity       Vector  `yaml:"gravity"`
	Substeps      int     `yaml:"substeps"`
	Workers       int     `yaml:"workers"`
	Dt            float64 `yaml:"dt"`
	Steps         int     `yaml:"steps"`
	SleepTime     float64 `yaml:"sleep_time"`
	SleepVelocity float64 `yaml:"sleep_velocity"`
	// Bounds applies to every body that has none of its own
	Bounds *BoundsConfig `yaml:"bounds"`
}

// BoundsConfig is the box a body bounces inside of.
// Axes lists the bounded axes ("x", "y", "z"); the others are left open. All three when empty.
type BoundsConfig struct {
	Min  Vector   `yaml:"min"`
	Max  Vector   `yaml:"max"`
	Axes []string `yaml:"axes"`
}

// AABB returns the box, open on every axis missing from Axes. Axes must have been validated.
func (b *BoundsConfig) AABB() *actor.AABB {
	aabb := &actor.AABB{Min: b.Min.Vec3(), Max: b.Max.Vec3()}
	if len(b.Axes) == 0 {
		return aabb
	}

	bounded := lo.FilterMap(b.Axes, func(tag string, _ int) (algebra.Axis, bool) {
		axis, err := algebra.ParseAxis(tag)
		return axis, err == nil
	})
	for _, axis := range algebra.Axes {
		if !lo.Contains(bounded, axis) {
			aabb.Min[axis.Index()] = math.Inf(-1)
			aabb.Max[axis.Index()] = math.Inf(1)
		}
	}

	return aabb
}

// PointMassConfig is one point mass of a rigid_body.
type PointMassConfig struct {
	Position Vector  `yaml:"position"`
	Mass     float64 `yaml:"mass"`
}

// BodyConfig describes a body. Which fields apply depends on Kind.
type BodyConfig struct {
	Id   string `yaml:"id"`
	Kind Kind   `yaml:"kind"`

	Mass         float64           `yaml:"mass"`
	Radius       float64           `yaml:"radius"`
	HalfExtents  Vector            `yaml:"half_extents"`
	Inertia      []Vector          `yaml:"inertia"`
	CenterOfMass Vector            `yaml:"center_of_mass"`
	PointMasses  []PointMassConfig `yaml:"point_masses"`

	Position        Vector `yaml:"position"`
	Facing          Vector `yaml:"facing"`
	Orthogonal      Vector `yaml:"orthogonal"`
	Velocity        Vector `yaml:"velocity"`
	AngularVelocity Vector `yaml:"angular_velocity"`

	TorqueMode      string        `yaml:"torque_mode"`
	Elasticity      *float64      `yaml:"elasticity"`
	KineticFriction float64       `yaml:"kinetic_friction"`
	StaticFriction  float64       `yaml:"static_friction"`
	Bounds          *BoundsConfig `yaml:"bounds"`
}

// Default returns an empty scene under earth gravity, stepped at 60Hz for ten seconds.
func Default() *Scene {
	return &Scene{
		World: WorldConfig{
			Gravity:  Vector{0, -9.81, 0},
			Substeps: 1,
			Workers:  tumble.DEFAULT_WORKERS,
			Dt:       1.0 / 60.0,
			Steps:    600,
		},
	}
}

// Load reads and parses a scene file.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read scene %q", path)
	}

	scene, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "scene %q", path)
	}

	return scene, nil
}

// Parse decodes a YAML scene over the defaults. Unknown fields are rejected.
func Parse(data []byte) (*Scene, error) {
	scene := Default()

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(scene); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrap(err, "decode")
	}

	return scene, nil
}

// Body returns the body config with the given id.
func (s *Scene) Body(id string) (BodyConfig, bool) {
	return lo.Find(s.Bodies, func(body BodyConfig) bool {
		return body.Id == id
	})
}

// Validate checks the whole scene and returns every problem found, combined.
func (s *Scene) Validate() error {
	err := s.World.validate("world")

	ids := lo.Compact(lo.Map(s.Bodies, func(body BodyConfig, _ int) string {
		return body.Id
	}))
	for _, id := range lo.FindDuplicates(ids) {
		err = multierr.Append(err, errors.Wrapf(ErrInvalidField, "bodies: duplicate id %q", id))
	}

	for i, body := range s.Bodies {
		err = multierr.Append(err, body.validate(fmt.Sprintf("bodies.%d", i)))
	}

	return err
}

func (w *WorldConfig) validate(path string) error {
	err := w.Gravity.validate(path + ".gravity")
	if w.Substeps < 1 {
		err = multierr.Append(err, errors.Wrapf(ErrInvalidField, "%s.substeps: %d must be at least 1", path, w.Substeps))
	}
	if w.Workers < 1 {
		err = multierr.Append(err, errors.Wrapf(ErrInvalidField, "%s.workers: %d must be at least 1", path, w.Workers))
	}
	if w.Dt <= 0 {
		err = multierr.Append(err, errors.Wrapf(ErrInvalidField, "%s.dt: %v must be positive", path, w.Dt))
	}
	if w.Steps < 0 {
		err = multierr.Append(err, errors.Wrapf(ErrInvalidField, "%s.steps: %d must not be negative", path, w.Steps))
	}
	if w.SleepTime < 0 || w.SleepVelocity < 0 {
		err = multierr.Append(err, errors.Wrapf(ErrInvalidField, "%s: sleep thresholds must not be negative", path))
	}
	if w.Bounds != nil {
		err = multierr.Append(err, w.Bounds.validate(path+".bounds"))
	}

	return err
}

func (b *BoundsConfig) validate(path string) error {
	if len(b.Min) != 3 {
		return errors.Wrapf(ErrFieldRequired, "%s.min", path)
	}
	if len(b.Max) != 3 {
		return errors.Wrapf(ErrFieldRequired, "%s.max", path)
	}
	var err error
	for i, tag := range b.Axes {
		if _, axisErr := algebra.ParseAxis(tag); axisErr != nil {
			err = multierr.Append(err, errors.Wrapf(axisErr, "%s.axes.%d", path, i))
		}
	}
	if err != nil {
		return err
	}
	for i := 0; i < 3; i++ {
		if b.Min[i] > b.Max[i] {
			return errors.Wrapf(ErrInvalidField, "%s: min %v is above max %v", path, b.Min, b.Max)
		}
	}

	return nil
}

func (b *BodyConfig) validate(path string) error {
	err := multierr.Combine(
		b.Position.validate(path+".position"),
		b.Facing.validate(path+".facing"),
		b.Orthogonal.validate(path+".orthogonal"),
		b.Velocity.validate(path+".velocity"),
		b.AngularVelocity.validate(path+".angular_velocity"),
		b.CenterOfMass.validate(path+".center_of_mass"),
	)

	if !lo.Contains(Kinds, b.Kind) {
		return multierr.Append(err, errors.Wrapf(ErrInvalidField, "%s.kind: unknown kind %q", path, b.Kind))
	}

	if (len(b.Facing) == 0) != (len(b.Orthogonal) == 0) {
		err = multierr.Append(err, errors.Wrapf(ErrFieldRequired, "%s: facing and orthogonal go together", path))
	}
	if _, ok := TorqueModes[b.TorqueMode]; !ok {
		err = multierr.Append(err, errors.Wrapf(ErrInvalidField, "%s.torque_mode: unknown mode %q", path, b.TorqueMode))
	}
	if b.Elasticity != nil && *b.Elasticity < 0 {
		err = multierr.Append(err, errors.Wrapf(ErrInvalidField, "%s.elasticity: %v must not be negative", path, *b.Elasticity))
	}
	if b.Bounds != nil {
		err = multierr.Append(err, b.Bounds.validate(path+".bounds"))
	}
	if !b.Kind.Spins() && len(b.AngularVelocity) != 0 {
		err = multierr.Append(err, errors.Wrapf(ErrInvalidField, "%s.angular_velocity: %s bodies do not spin", path, b.Kind))
	}

	if b.Kind == KindRigidBody {
		if b.Mass != 0 {
			err = multierr.Append(err, errors.Wrapf(ErrInvalidField, "%s.mass: derived from point_masses", path))
		}
		for i, pm := range b.PointMasses {
			pmPath := fmt.Sprintf("%s.point_masses.%d", path, i)
			if len(pm.Position) != 3 {
				err = multierr.Append(err, errors.Wrapf(ErrFieldRequired, "%s.position", pmPath))
			}
			if pm.Mass <= 0 {
				err = multierr.Append(err, errors.Wrapf(ErrInvalidField, "%s.mass: %v must be positive", pmPath, pm.Mass))
			}
		}
		return err
	}

	if len(b.PointMasses) != 0 {
		err = multierr.Append(err, errors.Wrapf(ErrInvalidField, "%s.point_masses: only rigid_body takes point masses", path))
	}
	if b.Mass <= 0 {
		err = multierr.Append(err, errors.Wrapf(ErrInvalidField, "%s.mass: %v must be positive", path, b.Mass))
	}

	switch b.Kind {
	case KindSolidBall:
		if b.Radius <= 0 {
			err = multierr.Append(err, errors.Wrapf(ErrInvalidField, "%s.radius: %v must be positive", path, b.Radius))
		}
	case KindSolidBox:
		if len(b.HalfExtents) != 3 {
			err = multierr.Append(err, errors.Wrapf(ErrFieldRequired, "%s.half_extents: want 3 components", path))
		} else if lo.SomeBy(b.HalfExtents, func(e float64) bool { return e <= 0 }) {
			err = multierr.Append(err, errors.Wrapf(ErrInvalidField, "%s.half_extents: %v must be positive", path, b.HalfExtents))
		}
	case KindTorqueBall:
		if len(b.Inertia) != 3 || lo.SomeBy(b.Inertia, func(row Vector) bool { return len(row) != 3 }) {
			err = multierr.Append(err, errors.Wrapf(ErrFieldRequired, "%s.inertia: want 3 rows of 3", path))
		}
	}

	return err
}

// Build validates the scene and creates its world. Bodies get their config id as Id.
func (s *Scene) Build(logger *zap.SugaredLogger) (*tumble.World, error) {
	if err := s.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid scene")
	}

	world := tumble.NewWorld(logger)
	world.Gravity = s.World.Gravity.Vec3()
	world.Substeps = s.World.Substeps
	world.Workers = s.World.Workers
	world.SleepTime = s.World.SleepTime
	world.SleepVelocity = s.World.SleepVelocity

	for i, bodyConfig := range s.Bodies {
		if bodyConfig.Bounds == nil {
			bodyConfig.Bounds = s.World.Bounds
		}

		body, err := bodyConfig.build()
		if err != nil {
			return nil, errors.Wrapf(err, "bodies.%d", i)
		}
		world.AddBody(body)
	}

	return world, nil
}

func (b *BodyConfig) transform() actor.Transform {
	if len(b.Facing) == 0 {
		transform := actor.IdentityTransform()
		transform.Position = b.Position.Vec3()
		return transform
	}

	return actor.NewTransform(b.Position.Vec3(), b.Facing.Vec3(), b.Orthogonal.Vec3())
}

func (b *BodyConfig) build() (*actor.Body, error) {
	var (
		body *actor.Body
		err  error
	)

	transform := b.transform()
	switch b.Kind {
	case KindBall:
		body, err = actor.NewBall(transform, b.Mass)
	case KindSolidBall:
		body, err = actor.NewSolidBall(transform, b.Mass, b.Radius)
	case KindSolidBox:
		body, err = actor.NewSolidBox(transform, b.Mass, b.HalfExtents.Vec3())
	case KindTorqueBall:
		inertia := mgl64.Mat3FromRows(b.Inertia[0].Vec3(), b.Inertia[1].Vec3(), b.Inertia[2].Vec3())
		body, err = actor.NewTorqueBall(transform, b.Mass, inertia, b.CenterOfMass.Vec3())
	case KindRigidBody:
		body = actor.NewRigidBody(transform)
		_, err = body.AddRangePointMasses(lo.Map(b.PointMasses, func(pm PointMassConfig, _ int) actor.PointMassSpec {
			return actor.PointMassSpec{Position: pm.Position.Vec3(), Mass: pm.Mass}
		}))
	default:
		err = errors.Wrapf(ErrInvalidField, "unknown kind %q", b.Kind)
	}
	if err != nil {
		return nil, err
	}

	body.Id = b.Id
	body.TorqueMode = TorqueModes[b.TorqueMode]
	body.Velocity = b.Velocity.Vec3()
	body.Material.KineticFriction = b.KineticFriction
	body.Material.StaticFriction = b.StaticFriction

	if b.Elasticity != nil {
		if err := body.SetElasticity(*b.Elasticity); err != nil {
			return nil, err
		}
	}
	if b.Bounds != nil {
		body.Bounds = b.Bounds.AABB()
	}
	if len(b.AngularVelocity) == 3 {
		if err := body.SetAngularVelocity(b.AngularVelocity.Vec3()); err != nil {
			return nil, err
		}
	}

	return body, nil
}

package tumble

import (
	"testing"

	"github.com/akmonengine/tumble/actor"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

func TestTimeOfImpact(t *testing.T) {
	tests := []struct {
		name     string
		velocity mgl64.Vec3
		wall     float64
		want     float64
	}{
		{"hits a quarter in", mgl64.Vec3{10, 0, 0}, 2.5, 0.25},
		{"hits near the end", mgl64.Vec3{10, 0, 0}, 9, 0.9},
		{"never hits", mgl64.Vec3{1, 0, 0}, 2.5, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := createBall(t, mgl64.Vec3{}, 1)
			body.Velocity = tt.velocity
			body.PrepareForNewCycle()

			toi, err := TimeOfImpact(body, 1, 40, func(b *actor.Body) bool {
				return b.Position().X() > tt.wall
			})
			if err != nil {
				t.Fatal(err)
			}

			if !almostEqual(toi, tt.want, 1e-9) {
				t.Errorf("TimeOfImpact = %v, want %v", toi, tt.want)
			}
			if body.Position().X() > tt.wall {
				t.Errorf("body left at %v, past the wall at %v", body.Position().X(), tt.wall)
			}
			if body.Phase() != actor.PhaseTested {
				t.Errorf("Phase = %v, want PhaseTested", body.Phase())
			}
			if err := body.TimerFinish(); err != nil {
				t.Fatal(err)
			}
		})
	}
}

func TestTimeOfImpact_BlockedFromStart(t *testing.T) {
	body := createBall(t, mgl64.Vec3{}, 1)
	body.Velocity = mgl64.Vec3{1, 0, 0}
	body.PrepareForNewCycle()

	toi, err := TimeOfImpact(body, 1, 10, func(*actor.Body) bool { return true })
	if err != nil {
		t.Fatal(err)
	}

	if toi != 0 {
		t.Errorf("TimeOfImpact = %v, want 0", toi)
	}
	if body.Position() != (mgl64.Vec3{}) {
		t.Errorf("Position = %v, want origin", body.Position())
	}
}

func TestTimeOfImpact_RequiresPreparedBody(t *testing.T) {
	body := createBall(t, mgl64.Vec3{}, 1)

	_, err := TimeOfImpact(body, 1, 10, func(*actor.Body) bool { return false })
	if !errors.Is(err, actor.ErrCycleOrder) {
		t.Errorf("error = %v, want ErrCycleOrder", err)
	}
}

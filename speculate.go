package tumble

import (
	"github.com/akmonengine/tumble/actor"
)

// HitFunc reports whether a tested body is in a state the caller wants to avoid (overlap, crossing...)
type HitFunc func(body *actor.Body) bool

// TimeOfImpact finds how far into dt a prepared body can move before hit reports true.
// It bisects over trial TestPosition calls, which all start from the same saved state,
// and returns the largest duration found free of hits. The body is left tested at that duration,
// so TimerFinish integrates forces over it.
func TimeOfImpact(body *actor.Body, dt float64, iterations int, hit HitFunc) (float64, error) {
	if err := body.TestPosition(dt); err != nil {
		return 0, err
	}
	if !hit(body) {
		return dt, nil
	}

	free, blocked := 0.0, dt
	for iter, n := 0, iterations; iter < n; iter++ {
		mid := (free + blocked) / 2
		if err := body.TestPosition(mid); err != nil {
			return 0, err
		}

		if hit(body) {
			blocked = mid
		} else {
			free = mid
		}
	}

	if err := body.TestPosition(free); err != nil {
		return 0, err
	}

	return free, nil
}

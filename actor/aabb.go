package actor

import (
	"github.com/akmonengine/tumble/algebra"
	"github.com/go-gl/mathgl/mgl64"
)

// AABB represents an axis-aligned box a body is kept inside of
type AABB struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// ContainsPoint checks if a point is inside the AABB
func (a AABB) ContainsPoint(point mgl64.Vec3) bool {
	return point.X() >= a.Min.X() && point.X() <= a.Max.X() &&
		point.Y() >= a.Min.Y() && point.Y() <= a.Max.Y() &&
		point.Z() >= a.Min.Z() && point.Z() <= a.Max.Z()
}

// Reflect moves position by delta, bouncing off the walls of the box.
// Each axis is handled on its own: when the proposed coordinate leaves the box, the position is
// clamped to that wall, the velocity component is negated and no further motion is applied on that axis.
// At a corner two or three axes may flip in the same call.
// It returns the new position and velocity, and the axes that were clipped.
func (a AABB) Reflect(position, delta, velocity mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3, []algebra.Axis) {
	proposed := position.Add(delta)
	if a.ContainsPoint(proposed) {
		return proposed, velocity, nil
	}

	var clipped []algebra.Axis

	for _, axis := range algebra.Axes {
		i := axis.Index()

		var wall float64
		switch {
		case proposed[i] > a.Max[i]:
			wall = a.Max[i]
		case proposed[i] < a.Min[i]:
			wall = a.Min[i]
		default:
			continue
		}

		position[i] = wall
		delta[i] = 0
		velocity[i] = -velocity[i]
		clipped = append(clipped, axis)
	}

	return position.Add(delta), velocity, clipped
}

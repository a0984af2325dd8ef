package actor

import (
	"github.com/akmonengine/tumble/algebra"
	"github.com/go-gl/mathgl/mgl64"
)

// RenormalizeEvery is the number of composed rotations after which the accumulated quaternion is re-normalized.
const RenormalizeEvery = 10000

// Facing is a pair of orthogonal directions attached to a body: where it points, and which way is "up".
type Facing struct {
	Primary    mgl64.Vec3
	Orthogonal mgl64.Vec3
}

// Transform represents a position and an orientation in 3D space.
// The original facing is fixed at construction; the current facing is derived from it and the rotation.
type Transform struct {
	Position mgl64.Vec3

	rotation  mgl64.Quat
	rotations int

	originalFacing Facing
	facing         *Facing
	facingDirty    bool
}

// NewTransform creates a transform at position with the given facing pair and no rotation.
// Both facing vectors are normalized.
func NewTransform(position, primary, orthogonal mgl64.Vec3) Transform {
	return Transform{
		Position: position,
		rotation: mgl64.QuatIdent(),
		originalFacing: Facing{
			Primary:    algebra.Normalize(primary),
			Orthogonal: algebra.Normalize(orthogonal),
		},
	}
}

// IdentityTransform creates a transform at the origin facing +Z with +Y as orthogonal.
func IdentityTransform() Transform {
	return NewTransform(mgl64.Vec3{}, mgl64.Vec3{0, 0, 1}, mgl64.Vec3{0, 1, 0})
}

func (t *Transform) Rotation() mgl64.Quat {
	if t.rotation == (mgl64.Quat{}) {
		// zero value transform
		return mgl64.QuatIdent()
	}

	return t.rotation
}

// InverseRotation is the rotation taking world-frame vectors into the body frame.
func (t *Transform) InverseRotation() mgl64.Quat {
	return algebra.NormalizeQuat(t.Rotation()).Conjugate()
}

// RotationMatrix returns the current rotation as a matrix.
func (t *Transform) RotationMatrix() mgl64.Mat3 {
	return algebra.QuatToMat3(algebra.NormalizeQuat(t.Rotation()))
}

// SetRotation replaces the orientation.
func (t *Transform) SetRotation(q mgl64.Quat) {
	t.rotation = q
	t.facingDirty = true
}

// SetRotationMatrix replaces the orientation from a rotation matrix.
func (t *Transform) SetRotationMatrix(m mgl64.Mat3) {
	t.SetRotation(algebra.Mat3ToQuat(m))
}

// RotateAroundAxis rotates by radians around a world-frame axis, after the existing rotation.
func (t *Transform) RotateAroundAxis(axis mgl64.Vec3, radians float64) {
	t.rotate(algebra.AxisAngle(axis, radians))
}

func (t *Transform) rotate(increment mgl64.Quat) {
	t.rotation = algebra.Compose(increment, t.Rotation())

	t.rotations++
	if t.rotations >= RenormalizeEvery {
		t.rotation = algebra.NormalizeQuat(t.rotation)
		t.rotations = 0
	}
	t.facingDirty = true
}

// ResetRotation restores the identity orientation; the facing becomes the original facing exactly.
func (t *Transform) ResetRotation() {
	t.rotation = mgl64.QuatIdent()
	t.rotations = 0
	if t.facing != nil {
		*t.facing = t.originalFacing
		t.facingDirty = false
	}
}

// OriginalFacing returns the facing pair given at construction.
func (t *Transform) OriginalFacing() Facing {
	return t.originalFacing
}

// DirectionFacing returns the original facing rotated by the current orientation.
func (t *Transform) DirectionFacing() Facing {
	if t.facing == nil {
		t.facing = &Facing{}
		t.facingDirty = true
	}
	if t.facingDirty {
		t.facing.Primary = algebra.Rotate(t.Rotation(), t.originalFacing.Primary)
		t.facing.Orthogonal = algebra.Rotate(t.Rotation(), t.originalFacing.Orthogonal)
		t.facingDirty = false
	}

	return *t.facing
}

// ToWorld maps a body-frame point to world coordinates.
func (t *Transform) ToWorld(local mgl64.Vec3) mgl64.Vec3 {
	return t.Position.Add(algebra.Rotate(t.Rotation(), local))
}

// ToLocal maps a world-frame point to body coordinates.
func (t *Transform) ToLocal(world mgl64.Vec3) mgl64.Vec3 {
	return algebra.Unrotate(t.Rotation(), world.Sub(t.Position))
}

package actor

import (
	"math"
	"testing"

	"github.com/akmonengine/tumble/algebra"
	"github.com/go-gl/mathgl/mgl64"
)

// =============================================================================
// Transform Construction Tests
// =============================================================================

func TestNewTransform_NormalizesFacing(t *testing.T) {
	transform := NewTransform(mgl64.Vec3{1, 2, 3}, mgl64.Vec3{0, 0, 10}, mgl64.Vec3{0, 3, 0})

	original := transform.OriginalFacing()
	if original.Primary != (mgl64.Vec3{0, 0, 1}) {
		t.Errorf("Primary = %v, want {0, 0, 1}", original.Primary)
	}
	if original.Orthogonal != (mgl64.Vec3{0, 1, 0}) {
		t.Errorf("Orthogonal = %v, want {0, 1, 0}", original.Orthogonal)
	}
	if transform.Rotation() != mgl64.QuatIdent() {
		t.Errorf("Rotation = %v, want identity", transform.Rotation())
	}
}

func TestTransform_ZeroValueRotation(t *testing.T) {
	var transform Transform

	if transform.Rotation() != mgl64.QuatIdent() {
		t.Errorf("zero value Rotation = %v, want identity", transform.Rotation())
	}

	transform.RotateAroundAxis(mgl64.Vec3{0, 0, 1}, math.Pi/2)
	want := algebra.AxisAngle(mgl64.Vec3{0, 0, 1}, math.Pi/2)
	if !quatAlmostEqual(transform.Rotation(), want, 1e-12) {
		t.Errorf("Rotation = %v, want %v", transform.Rotation(), want)
	}
}

// =============================================================================
// Rotation Tests
// =============================================================================

func TestRotateAroundAxis_Facing(t *testing.T) {
	transform := IdentityTransform()

	// +Z turned a quarter around +Y points to +X
	transform.RotateAroundAxis(mgl64.Vec3{0, 1, 0}, math.Pi/2)
	facing := transform.DirectionFacing()

	if !vec3AlmostEqual(facing.Primary, mgl64.Vec3{1, 0, 0}, 1e-12) {
		t.Errorf("Primary = %v, want {1, 0, 0}", facing.Primary)
	}
	if !vec3AlmostEqual(facing.Orthogonal, mgl64.Vec3{0, 1, 0}, 1e-12) {
		t.Errorf("Orthogonal = %v, want {0, 1, 0}", facing.Orthogonal)
	}
}

func TestRotateAroundAxis_ComposesAfterExisting(t *testing.T) {
	transform := IdentityTransform()

	transform.RotateAroundAxis(mgl64.Vec3{0, 1, 0}, math.Pi/2) // +Z -> +X
	transform.RotateAroundAxis(mgl64.Vec3{0, 0, 1}, math.Pi/2) // +X -> +Y

	facing := transform.DirectionFacing()
	if !vec3AlmostEqual(facing.Primary, mgl64.Vec3{0, 1, 0}, 1e-12) {
		t.Errorf("Primary = %v, want {0, 1, 0}", facing.Primary)
	}
	// orthogonal +Y: untouched by the first turn, then turned to -X
	if !vec3AlmostEqual(facing.Orthogonal, mgl64.Vec3{-1, 0, 0}, 1e-12) {
		t.Errorf("Orthogonal = %v, want {-1, 0, 0}", facing.Orthogonal)
	}
}

func TestDirectionFacing_StaysLive(t *testing.T) {
	transform := IdentityTransform()
	_ = transform.DirectionFacing()

	transform.RotateAroundAxis(mgl64.Vec3{1, 0, 0}, math.Pi)
	if facing := transform.DirectionFacing(); !vec3AlmostEqual(facing.Primary, mgl64.Vec3{0, 0, -1}, 1e-12) {
		t.Errorf("after rotate Primary = %v, want {0, 0, -1}", facing.Primary)
	}

	transform.SetRotationMatrix(algebra.QuatToMat3(algebra.AxisAngle(mgl64.Vec3{0, 1, 0}, -math.Pi/2)))
	if facing := transform.DirectionFacing(); !vec3AlmostEqual(facing.Primary, mgl64.Vec3{-1, 0, 0}, 1e-12) {
		t.Errorf("after SetRotationMatrix Primary = %v, want {-1, 0, 0}", facing.Primary)
	}

	transform.SetRotation(mgl64.QuatIdent())
	if facing := transform.DirectionFacing(); !vec3AlmostEqual(facing.Primary, mgl64.Vec3{0, 0, 1}, 1e-12) {
		t.Errorf("after SetRotation Primary = %v, want {0, 0, 1}", facing.Primary)
	}
}

func TestResetRotation_RestoresOriginalFacingExactly(t *testing.T) {
	transform := NewTransform(mgl64.Vec3{}, mgl64.Vec3{1, 2, 3}, mgl64.Vec3{3, 0, -1})
	original := transform.OriginalFacing()
	_ = transform.DirectionFacing()

	axes := []mgl64.Vec3{{1, 0, 0}, {0.3, 1, -2}, {0, 0, 1}, {-1, 1, 1}}
	for i := 0; i < 1000; i++ {
		transform.RotateAroundAxis(axes[i%len(axes)], 0.1*float64(i%7+1))
	}
	transform.ResetRotation()

	if got := transform.DirectionFacing(); got != original {
		t.Errorf("DirectionFacing = %v, want exactly %v", got, original)
	}
	if transform.Rotation() != mgl64.QuatIdent() {
		t.Errorf("Rotation = %v, want identity", transform.Rotation())
	}
}

func TestResetRotation_BeforeFacingRequested(t *testing.T) {
	transform := IdentityTransform()
	transform.RotateAroundAxis(mgl64.Vec3{1, 1, 0}, 2)
	transform.ResetRotation()

	if got := transform.DirectionFacing(); got != transform.OriginalFacing() {
		t.Errorf("DirectionFacing = %v, want %v", got, transform.OriginalFacing())
	}
}

func TestRotateAroundAxis_Renormalizes(t *testing.T) {
	transform := IdentityTransform()
	// drift the quaternion on purpose, the next renormalization must pull it back
	transform.SetRotation(mgl64.QuatIdent().Scale(1.5))
	transform.rotations = RenormalizeEvery - 1

	transform.RotateAroundAxis(mgl64.Vec3{0, 0, 1}, 0.01)

	if !almostEqual(transform.Rotation().Len(), 1, 1e-12) {
		t.Errorf("|q| = %v, want 1 after %d rotations", transform.Rotation().Len(), RenormalizeEvery)
	}
	if transform.rotations != 0 {
		t.Errorf("rotation counter = %d, want 0", transform.rotations)
	}
}

func TestTransform_WorldLocalRoundTrip(t *testing.T) {
	transform := NewTransform(mgl64.Vec3{5, -1, 2}, mgl64.Vec3{0, 0, 1}, mgl64.Vec3{0, 1, 0})
	transform.RotateAroundAxis(mgl64.Vec3{1, 2, 3}, 1.1)

	local := mgl64.Vec3{0.5, 0.25, -3}
	if got := transform.ToLocal(transform.ToWorld(local)); !vec3AlmostEqual(got, local, 1e-12) {
		t.Errorf("ToLocal(ToWorld(p)) = %v, want %v", got, local)
	}

	inverse := transform.InverseRotation()
	v := mgl64.Vec3{1, 0, 0}
	if got := algebra.Rotate(inverse, algebra.Rotate(transform.Rotation(), v)); !vec3AlmostEqual(got, v, 1e-12) {
		t.Errorf("inverse rotation round trip = %v, want %v", got, v)
	}
}

package controller

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/leterax/go-sandbox/pkg/render"
)

// Look constants
const (
	MouseSensitivity = 0.005 // radians per pixel
	MinPitchDegrees  = -80
	MaxPitchDegrees  = 75
)

var (
	minPitch = mgl32.DegToRad(MinPitchDegrees)
	maxPitch = mgl32.DegToRad(MaxPitchDegrees)
	rightX   = mgl32.Vec3{1, 0, 0}
)

// CameraAxis is the look state accumulated from mouse movement, in radians.
// It is relative to a controller's base orientation.
type CameraAxis struct {
	Yaw   float32
	Pitch float32
}

// Turn applies a mouse delta in pixels and clamps the pitch
func (a CameraAxis) Turn(delta mgl32.Vec2) CameraAxis {
	a.Yaw -= delta.X() * MouseSensitivity
	a.Pitch -= delta.Y() * MouseSensitivity
	return a.Clamped()
}

// Clamped returns a with its pitch limited to the look range
func (a CameraAxis) Clamped() CameraAxis {
	a.Pitch = mgl32.Clamp(a.Pitch, minPitch, maxPitch)
	return a
}

// Orientation composes base with the yaw and then the pitch rotation
func (a CameraAxis) Orientation(base mgl32.Quat) mgl32.Quat {
	yaw := mgl32.QuatRotate(a.Yaw, render.WorldUp)
	pitch := mgl32.QuatRotate(a.Pitch, rightX)
	return base.Mul(yaw).Mul(pitch).Normalize()
}

// Pose is what survives a camera mode switch
type Pose struct {
	Position mgl32.Vec3 // eye position
	Base     mgl32.Quat // yaw only
	Axis     CameraAxis
}

// headingOf returns the yaw angle of q's forward direction around world up
func headingOf(q mgl32.Quat) float32 {
	f := q.Rotate(mgl32.Vec3{0, 0, -1})
	return float32(math.Atan2(float64(-f.X()), float64(-f.Z())))
}

// pitchOf returns the elevation of q's forward direction
func pitchOf(q mgl32.Quat) float32 {
	f := q.Rotate(mgl32.Vec3{0, 0, -1})
	return float32(math.Asin(float64(mgl32.Clamp(f.Y(), -1, 1))))
}

// yawOnly strips pitch and roll from q
func yawOnly(q mgl32.Quat) mgl32.Quat {
	return mgl32.QuatRotate(headingOf(q), render.WorldUp)
}

func orIdentity(q mgl32.Quat) mgl32.Quat {
	if q == (mgl32.Quat{}) {
		return mgl32.QuatIdent()
	}
	return q
}

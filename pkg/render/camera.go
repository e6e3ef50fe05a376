package render

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Camera is a perspective camera placed by a position and an orientation
type Camera struct {
	position mgl32.Vec3
	rotation mgl32.Quat

	// Projection
	fov        float32 // vertical, degrees
	near       float32
	far        float32
	width      int
	height     int
	projection mgl32.Mat4
}

// NewCamera creates a camera at position looking down -Z
func NewCamera(fov float32, position mgl32.Vec3) *Camera {
	camera := &Camera{
		position: position,
		rotation: mgl32.QuatIdent(),
		fov:      fov,
		near:     DefaultNear,
		far:      DefaultFar,
		width:    800, // Default size
		height:   600,
	}

	camera.updateProjectionMatrix()

	return camera
}

// updateProjectionMatrix recalculates the projection matrix
func (c *Camera) updateProjectionMatrix() {
	c.projection = mgl32.Perspective(mgl32.DegToRad(c.fov), c.Aspect(), c.near, c.far)
}

// UpdateProjectionMatrix updates the projection matrix with new dimensions
func (c *Camera) UpdateProjectionMatrix(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.width = width
	c.height = height
	c.updateProjectionMatrix()
}

// Aspect returns width over height
func (c *Camera) Aspect() float32 {
	return float32(c.width) / float32(c.height)
}

// FOV returns the vertical field of view in degrees
func (c *Camera) FOV() float32 {
	return c.fov
}

// SetFOV sets the vertical field of view in degrees
func (c *Camera) SetFOV(fov float32) {
	if fov < MinFOV {
		fov = MinFOV
	}
	if fov > MaxFOV {
		fov = MaxFOV
	}
	c.fov = fov
	c.updateProjectionMatrix()
}

// SetClipPlanes sets the near and far planes
func (c *Camera) SetClipPlanes(near, far float32) {
	c.near = near
	c.far = far
	c.updateProjectionMatrix()
}

// ViewMatrix returns the current view matrix
func (c *Camera) ViewMatrix() mgl32.Mat4 {
	return c.rotation.Conjugate().Mat4().Mul4(mgl32.Translate3D(-c.position.X(), -c.position.Y(), -c.position.Z()))
}

// ProjectionMatrix returns the current projection matrix
func (c *Camera) ProjectionMatrix() mgl32.Mat4 {
	return c.projection
}

// Position returns the current camera position
func (c *Camera) Position() mgl32.Vec3 {
	return c.position
}

// SetPosition sets the camera position
func (c *Camera) SetPosition(pos mgl32.Vec3) {
	c.position = pos
}

// Rotation returns the camera orientation
func (c *Camera) Rotation() mgl32.Quat {
	return c.rotation
}

// SetRotation sets the camera orientation
func (c *Camera) SetRotation(q mgl32.Quat) {
	c.rotation = q.Normalize()
}

// LookAt makes the camera look at a specific point
func (c *Camera) LookAt(target mgl32.Vec3) {
	if target.ApproxEqual(c.position) {
		return
	}
	c.rotation = mgl32.QuatLookAtV(c.position, target, WorldUp)
}

// FrontVector returns the camera's front direction vector
func (c *Camera) FrontVector() mgl32.Vec3 {
	return c.rotation.Rotate(mgl32.Vec3{0, 0, -1})
}

// RightVector returns the camera's right direction vector
func (c *Camera) RightVector() mgl32.Vec3 {
	return c.rotation.Rotate(mgl32.Vec3{1, 0, 0})
}

// UpVector returns the camera's up direction vector
func (c *Camera) UpVector() mgl32.Vec3 {
	return c.rotation.Rotate(mgl32.Vec3{0, 1, 0})
}

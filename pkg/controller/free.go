package controller

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/leterax/go-sandbox/pkg/input"
	"github.com/leterax/go-sandbox/pkg/render"
)

// Fly speeds in units per second
const (
	FlySpeed    = 10
	MaxFlySpeed = 30
)

// FreeCameraOptions configures a FreeCamera
type FreeCameraOptions struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat // base orientation, zero value means identity
	Axis     CameraAxis
	FOV      float32 // zero means the configured field of view
	Deps     Deps
}

// FreeCamera flies along its view direction
type FreeCamera struct {
	*view
	deps  Deps
	base  mgl32.Quat
	axis  CameraAxis
	speed float32
}

// NewFreeCamera creates a free camera
func NewFreeCamera(opts FreeCameraOptions) (*FreeCamera, error) {
	if err := opts.Deps.check(); err != nil {
		return nil, err
	}
	v, err := newView(opts.FOV, opts.Position, opts.Deps.Config)
	if err != nil {
		return nil, err
	}
	c := &FreeCamera{
		view:  v,
		deps:  opts.Deps,
		base:  orIdentity(opts.Rotation),
		axis:  opts.Axis.Clamped(),
		speed: FlySpeed,
	}
	c.camera.SetRotation(c.axis.Orientation(c.base))
	return c, nil
}

func (*FreeCamera) sealed() {}

// Kind returns KindFree
func (*FreeCamera) Kind() Kind { return KindFree }

// Add is a no-op, a free camera has nothing to draw
func (c *FreeCamera) Add(*render.Graph) error {
	return c.check()
}

// Axis returns the accumulated look angles
func (c *FreeCamera) Axis() CameraAxis {
	return c.axis
}

// Speed returns the current fly speed
func (c *FreeCamera) Speed() float32 {
	return c.speed
}

// Update turns the camera by the mouse movement since the last tick and
// flies it along the held directions
func (c *FreeCamera) Update(dt float32) error {
	if err := c.check(); err != nil {
		return err
	}
	keys := c.deps.Keys

	c.axis = c.axis.Turn(c.deps.Mouse.Drain())
	orientation := c.axis.Orientation(c.base)
	c.camera.SetRotation(orientation)

	dir := moveInput(keys)
	moving := dir.Len() > 0
	target := float32(FlySpeed)
	if moving && keys.Held(input.Sprint) {
		target = MaxFlySpeed
	}
	c.speed = approach(c.speed, target, FlySpeed, MaxFlySpeed, dt)

	if moving {
		step := orientation.Rotate(dir).Mul(c.speed * dt)
		c.camera.SetPosition(c.camera.Position().Add(step))
	}

	c.applyZoom(dt, keys.Held(input.Zoom))
	return nil
}

// Pose snapshots the camera for a mode switch
func (c *FreeCamera) Pose() Pose {
	return Pose{
		Position: c.camera.Position(),
		Base:     yawOnly(c.base),
		Axis:     c.axis,
	}
}

// Remove stops observing settings
func (c *FreeCamera) Remove() error {
	return c.release()
}

// FreeCameraBuilder fills FreeCameraOptions fluently
type FreeCameraBuilder struct {
	builder
	opts FreeCameraOptions
}

// BuildFreeCamera starts a free camera with the given field of view, zero
// meaning the configured one
func BuildFreeCamera(fov float32, deps Deps) *FreeCameraBuilder {
	return &FreeCameraBuilder{opts: FreeCameraOptions{FOV: fov, Deps: deps}}
}

// AddPosition sets the camera position
func (b *FreeCameraBuilder) AddPosition(position mgl32.Vec3) *FreeCameraBuilder {
	if b.open() {
		b.opts.Position = position
	}
	return b
}

// AddRotation sets the base orientation
func (b *FreeCameraBuilder) AddRotation(rotation mgl32.Quat) *FreeCameraBuilder {
	if b.open() {
		b.opts.Rotation = rotation
	}
	return b
}

// AddAxis sets the initial look angles
func (b *FreeCameraBuilder) AddAxis(axis CameraAxis) *FreeCameraBuilder {
	if b.open() {
		b.opts.Axis = axis
	}
	return b
}

// End builds the camera. It may only be called once.
func (b *FreeCameraBuilder) End() (*FreeCamera, error) {
	if err := b.finish(); err != nil {
		return nil, err
	}
	return NewFreeCamera(b.opts)
}

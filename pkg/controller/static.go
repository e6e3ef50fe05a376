package controller

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/leterax/go-sandbox/pkg/config"
	"github.com/leterax/go-sandbox/pkg/render"
)

// StaticCameraOptions configures a StaticCamera
type StaticCameraOptions struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat // zero value means identity
	FOV      float32
	Config   *config.Store // optional
}

// StaticCamera never moves
type StaticCamera struct {
	*view
}

// NewStaticCamera creates a fixed camera
func NewStaticCamera(opts StaticCameraOptions) (*StaticCamera, error) {
	v, err := newView(opts.FOV, opts.Position, opts.Config)
	if err != nil {
		return nil, err
	}
	v.camera.SetRotation(orIdentity(opts.Rotation))
	v.camera.SetFOV(v.fov)
	return &StaticCamera{view: v}, nil
}

func (*StaticCamera) sealed() {}

// Kind returns KindStatic
func (*StaticCamera) Kind() Kind { return KindStatic }

// Add is a no-op, a static camera has nothing to draw
func (c *StaticCamera) Add(*render.Graph) error {
	return c.check()
}

// Update keeps the camera on the configured field of view
func (c *StaticCamera) Update(float32) error {
	if err := c.check(); err != nil {
		return err
	}
	c.camera.SetFOV(c.fov)
	return nil
}

// Pose splits the fixed rotation into heading and pitch
func (c *StaticCamera) Pose() Pose {
	rot := c.camera.Rotation()
	return Pose{
		Position: c.camera.Position(),
		Base:     mgl32.QuatIdent(),
		Axis:     CameraAxis{Yaw: headingOf(rot), Pitch: pitchOf(rot)}.Clamped(),
	}
}

// Remove stops observing settings
func (c *StaticCamera) Remove() error {
	return c.release()
}

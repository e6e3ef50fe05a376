// Package controller turns mouse and key input into a camera. A free camera
// flies, a static camera stays put and a player walks a physics capsule.
package controller

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/leterax/go-sandbox/pkg/config"
	"github.com/leterax/go-sandbox/pkg/input"
	"github.com/leterax/go-sandbox/pkg/model"
	"github.com/leterax/go-sandbox/pkg/physics"
	"github.com/leterax/go-sandbox/pkg/render"
)

var (
	// ErrUnknownController is returned for controller kinds nothing knows how to handle
	ErrUnknownController = errors.New("unknown controller")
	// ErrMissingInput is returned when a controller is built without keys or mouse
	ErrMissingInput = errors.New("controller needs keys and mouse")
)

// Kind tags a controller variant
type Kind int

const (
	KindFree Kind = iota
	KindStatic
	KindPlayer
)

// String returns the controller kind name
func (k Kind) String() string {
	switch k {
	case KindFree:
		return "free"
	case KindStatic:
		return "static"
	case KindPlayer:
		return "player"
	}
	return "unknown"
}

// Controller is one of *FreeCamera, *StaticCamera or *Player
type Controller interface {
	model.Model
	Camera() (*render.Camera, error)
	Pose() Pose
	Kind() Kind
	sealed()
}

// Deps are the input and settings a controller reads each tick
type Deps struct {
	Keys   *input.KeyManager
	Mouse  *input.Mouse
	Config *config.Store // optional, drives the field of view
}

func (d Deps) check() error {
	if d.Keys == nil || d.Mouse == nil {
		return ErrMissingInput
	}
	return nil
}

// view is the camera state every controller shares
type view struct {
	camera  *render.Camera
	fov     float32 // configured, before zoom
	zoom    zoom
	fovSub  config.Subscription
	removed bool
}

func newView(fov float32, position mgl32.Vec3, store *config.Store) (*view, error) {
	if store != nil && fov == 0 {
		fov = store.Configurations().FieldOfView
	}
	if fov == 0 {
		fov = render.DefaultFOV
	}
	v := &view{
		camera: render.NewCamera(fov, position),
		fov:    fov,
		zoom:   newZoom(fov),
	}
	if store == nil {
		return v, nil
	}
	sub, err := store.ObserveFloat(config.FieldOfView, func(fov float32) {
		v.fov = fov
	})
	if err != nil {
		return nil, fmt.Errorf("failed to observe field of view: %w", err)
	}
	v.fovSub = sub
	return v, nil
}

// Alive reports whether the controller has not been removed
func (v *view) Alive() bool {
	return !v.removed
}

func (v *view) check() error {
	if v.removed {
		return model.ErrRemoved
	}
	return nil
}

// Camera returns the camera to render from
func (v *view) Camera() (*render.Camera, error) {
	if err := v.check(); err != nil {
		return nil, err
	}
	return v.camera, nil
}

func (v *view) applyZoom(dt float32, held bool) {
	v.camera.SetFOV(v.zoom.update(dt, v.fov, held))
}

// release marks the view removed and stops observing settings
func (v *view) release() error {
	if err := v.check(); err != nil {
		return err
	}
	v.removed = true
	v.fovSub.Unsubscribe()
	return nil
}

// Switch swaps the active controller for one of the other kind built from its
// pose: free and static cameras become a player, a player becomes a free
// camera. The old controller is removed.
func Switch(active Controller, world *physics.World, deps Deps) (Controller, error) {
	pose := active.Pose()

	var (
		next Controller
		err  error
	)
	switch active.(type) {
	case *FreeCamera, *StaticCamera:
		next, err = NewPlayer(PlayerOptions{
			Position: pose.Position.Sub(mgl32.Vec3{0, EyeHeight, 0}),
			Rotation: pose.Base,
			Axis:     pose.Axis,
			World:    world,
			Deps:     deps,
		})
	case *Player:
		next, err = NewFreeCamera(FreeCameraOptions{
			Position: pose.Position,
			Rotation: pose.Base,
			Axis:     pose.Axis,
			Deps:     deps,
		})
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownController, active)
	}
	if err != nil {
		return nil, err
	}

	if err := active.Remove(); err != nil {
		_ = next.Remove()
		return nil, fmt.Errorf("failed to remove %s controller: %w", active.Kind(), err)
	}
	return next, nil
}

// builder is the sticky state of the fluent controller builders
type builder struct {
	built bool
	err   error
}

func (b *builder) open() bool {
	if b.err != nil {
		return false
	}
	if b.built {
		b.err = model.ErrAlreadyConstructed
		return false
	}
	return true
}

func (b *builder) finish() error {
	if b.built {
		return model.ErrAlreadyConstructed
	}
	b.built = true
	return b.err
}

// Err returns the first configuration error, if any
func (b *builder) Err() error {
	return b.err
}

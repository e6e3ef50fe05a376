// Package scene composes lights, geometry, a physics world and the active
// camera controller, and drives them once per tick.
package scene

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/leterax/go-sandbox/pkg/cache"
	"github.com/leterax/go-sandbox/pkg/config"
	"github.com/leterax/go-sandbox/pkg/controller"
	"github.com/leterax/go-sandbox/pkg/input"
	"github.com/leterax/go-sandbox/pkg/model"
	"github.com/leterax/go-sandbox/pkg/physics"
	"github.com/leterax/go-sandbox/pkg/render"
)

var (
	// ErrNotLoaded is returned when a scene is used before LoadContents
	ErrNotLoaded = errors.New("scene contents are not loaded")
	// ErrAlreadyLoaded is returned when LoadContents runs twice
	ErrAlreadyLoaded = errors.New("scene contents are already loaded")
	// ErrClosed is returned when a closed scene is used
	ErrClosed = errors.New("scene is closed")
)

// Scene is driven by the game loop
type Scene interface {
	LoadContents() error
	// Update advances the scene by dt seconds
	Update(dt float32) error
	Render(target render.Target) error
	Close()
}

// Deps are what a scene needs from the game
type Deps struct {
	Config *config.Store
	Keys   *input.KeyManager
	Mouse  *input.Mouse
	Logger *slog.Logger
}

// Base holds what every scene shares: a render graph, a physics world, the
// named models and the active controller. Per tick it steps physics, then
// updates models, then the controller.
type Base struct {
	deps   Deps
	logger *slog.Logger

	graph  *render.Graph
	world  *physics.World
	models *cache.Cache[model.Model]
	active controller.Controller

	gravitySub      config.Subscription
	toggleSub       input.Subscription
	toggleRequested bool
	loaded          bool
	closed          bool
}

// NewBase creates an empty scene whose gravity follows the settings
func NewBase(name string, deps Deps) (*Base, error) {
	if deps.Config == nil || deps.Keys == nil || deps.Mouse == nil {
		return nil, errors.New("scene needs config, keys and mouse")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	b := &Base{
		deps:   deps,
		logger: logger.With("scene", name),
		graph:  render.NewGraph(),
		world:  physics.NewWorld(gravityVector(deps.Config.Configurations().Gravity)),
		models: cache.New[model.Model](name + " models"),
	}

	var err error
	b.gravitySub, err = deps.Config.ObserveFloat(config.Gravity, func(g float32) {
		b.world.SetGravity(gravityVector(g))
	})
	if err != nil {
		return nil, fmt.Errorf("failed to observe gravity: %w", err)
	}
	b.toggleSub, err = deps.Keys.OnPressKey(input.ToggleCamera, func() {
		b.toggleRequested = true
	})
	if err != nil {
		b.gravitySub.Unsubscribe()
		return nil, fmt.Errorf("failed to bind camera toggle: %w", err)
	}
	return b, nil
}

func gravityVector(g float32) mgl32.Vec3 {
	return mgl32.Vec3{0, g, 0}
}

// Graph returns the render graph
func (b *Base) Graph() *render.Graph { return b.graph }

// World returns the physics world
func (b *Base) World() *physics.World { return b.world }

// Models returns the named models
func (b *Base) Models() *cache.Cache[model.Model] { return b.models }

// Active returns the controller the scene is seen through
func (b *Base) Active() (controller.Controller, error) {
	if b.active == nil {
		return nil, ErrNotLoaded
	}
	return b.active, nil
}

// ControllerDeps returns the input controllers of this scene read
func (b *Base) ControllerDeps() controller.Deps {
	return controller.Deps{Keys: b.deps.Keys, Mouse: b.deps.Mouse, Config: b.deps.Config}
}

// AddModel adds m to the graph and registers it under name. A model already
// registered under name is removed first.
func (b *Base) AddModel(name string, m model.Model) error {
	if b.closed {
		return ErrClosed
	}
	if old, err := b.models.Get(name); err == nil {
		if err := old.Remove(); err != nil && !errors.Is(err, model.ErrRemoved) {
			return fmt.Errorf("failed to replace %s: %w", name, err)
		}
	}
	if err := m.Add(b.graph); err != nil {
		return fmt.Errorf("failed to add %s: %w", name, err)
	}
	b.models.Set(name, m)
	return nil
}

// RemoveModel removes the model registered under name
func (b *Base) RemoveModel(name string) error {
	m, err := b.models.Get(name)
	if err != nil {
		return err
	}
	b.models.Delete(name)
	return m.Remove()
}

// SetController installs c as the active controller, removing the previous one
func (b *Base) SetController(c controller.Controller) error {
	if b.closed {
		return ErrClosed
	}
	if err := c.Add(b.graph); err != nil {
		return fmt.Errorf("failed to add %s controller: %w", c.Kind(), err)
	}
	if b.active != nil && b.active != c && b.active.Alive() {
		if err := b.active.Remove(); err != nil {
			return fmt.Errorf("failed to remove %s controller: %w", b.active.Kind(), err)
		}
	}
	b.active = c
	return nil
}

// ToggleCamera switches between flying and walking, keeping the view
func (b *Base) ToggleCamera() error {
	if b.active == nil {
		return ErrNotLoaded
	}
	from := b.active.Kind()
	next, err := controller.Switch(b.active, b.world, b.ControllerDeps())
	if err != nil {
		return fmt.Errorf("failed to switch camera: %w", err)
	}
	b.active = nil
	if err := b.SetController(next); err != nil {
		if rerr := next.Remove(); rerr != nil {
			b.logger.Warn("Failed to remove controller", "error", rerr)
		}
		return err
	}
	b.logger.Info("Camera switched", "from", from, "to", next.Kind())
	return nil
}

// Update steps physics, then every model, then the active controller
func (b *Base) Update(dt float32) error {
	if b.closed {
		return ErrClosed
	}
	if b.active == nil {
		return ErrNotLoaded
	}
	if b.toggleRequested {
		b.toggleRequested = false
		if err := b.ToggleCamera(); err != nil {
			return err
		}
	}

	b.world.Step()

	var err error
	b.models.Range(func(name string, m model.Model) bool {
		u, ok := m.(model.Updater)
		if !ok {
			return true
		}
		if uerr := u.Update(dt); uerr != nil {
			err = fmt.Errorf("failed to update %s: %w", name, uerr)
			return false
		}
		return true
	})
	if err != nil {
		return err
	}

	return b.updateController(dt)
}

func (b *Base) updateController(dt float32) error {
	switch c := b.active.(type) {
	case *controller.Player:
		return c.Update(dt, b.world)
	case *controller.FreeCamera:
		return c.Update(dt)
	case *controller.StaticCamera:
		return c.Update(dt)
	default:
		return fmt.Errorf("%w: %T", controller.ErrUnknownController, c)
	}
}

// Render submits the graph as seen by the active controller's camera
func (b *Base) Render(target render.Target) error {
	if b.closed {
		return ErrClosed
	}
	if b.active == nil {
		return ErrNotLoaded
	}
	camera, err := b.active.Camera()
	if err != nil {
		return fmt.Errorf("failed to get camera: %w", err)
	}
	return target.Render(b.graph, camera)
}

// Close removes every model and the controller. Calling it twice is harmless.
func (b *Base) Close() {
	if b.closed {
		return
	}
	b.closed = true
	b.gravitySub.Unsubscribe()
	b.toggleSub.Unsubscribe()

	for _, name := range b.models.Keys() {
		if err := b.RemoveModel(name); err != nil {
			b.logger.Warn("Failed to remove model", "model", name, "error", err)
		}
	}
	if b.active != nil && b.active.Alive() {
		if err := b.active.Remove(); err != nil {
			b.logger.Warn("Failed to remove controller", "error", err)
		}
	}
}

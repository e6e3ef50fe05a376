// Package game owns the window, the settings and the input managers, and
// runs the frame loop that drives the active scene.
package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/leterax/go-sandbox/pkg/config"
	"github.com/leterax/go-sandbox/pkg/input"
	"github.com/leterax/go-sandbox/pkg/render"
	"github.com/leterax/go-sandbox/pkg/scene"
)

// ErrAlreadyRunning is returned by a second call to Run
var ErrAlreadyRunning = errors.New("game is already running")

// escapeKey releases the pointer, or closes the window when it is free
const escapeKey = "escape"

// maxFrameTime caps dt after a stall. Physics always steps a fixed amount, so
// this only bounds the speed ramps, zoom and platform motion.
const maxFrameTime = 0.1

// Window is the surface the game draws to and takes input from
type Window interface {
	render.Surface
	input.EventSource
	SetCursorHandler(handler func(xpos, ypos float64))
	SetMouseButtonHandler(handler func(button input.MouseButton, pressed bool))
	SetResizeHandler(handler func(width, height int))
	SetFocusHandler(handler func(focused bool))
	SetMouseCaptured(captured bool)
	SetTitle(title string)
	PollEvents()
	SwapBuffers()
	ShouldClose() bool
	SetShouldClose(close bool)
	Time() float64
}

// SceneFactory creates the scene the game runs
type SceneFactory func(deps scene.Deps) (scene.Scene, error)

// Options configures New
type Options struct {
	Window  Window
	Title   string
	Devices render.DeviceFactory
	Config  *config.Store   // nil means defaults
	KeyMap  input.KeyMap    // nil means the stock bindings
	Watcher *config.Watcher // optional settings hot reload
	Scene   SceneFactory    // nil means the main scene
	Logger  *slog.Logger
}

// Game runs the frame loop
type Game struct {
	ctx     Context
	window  Window
	title   string
	watcher *config.Watcher
	newScn  SceneFactory
	logger  *slog.Logger

	onKey   func(key string, event input.KeyEvent)
	scene   scene.Scene
	started bool
	frames  uint64

	fpsFrames int
	fpsSince  float64
}

// New wires the window to the input managers and creates the renderer.
// Nothing is drawn until Run.
func New(opts Options) (*Game, error) {
	if opts.Window == nil {
		return nil, errors.New("game needs a window")
	}
	if opts.Devices == nil {
		return nil, errors.New("game needs a device factory")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	store := opts.Config
	if store == nil {
		store = config.New()
	}
	newScene := opts.Scene
	if newScene == nil {
		newScene = func(deps scene.Deps) (scene.Scene, error) {
			return scene.NewMainScene(deps)
		}
	}

	g := &Game{
		window:  opts.Window,
		title:   opts.Title,
		watcher: opts.Watcher,
		newScn:  newScene,
		logger:  logger,
	}

	renderer, err := render.NewRenderer(store, opts.Window, opts.Devices, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	g.ctx = Context{
		Config:   store,
		Keys:     input.NewKeyManager(g, opts.KeyMap),
		Mouse:    input.NewMouse(),
		Renderer: renderer,
		Clock:    ClockFunc(opts.Window.Time),
	}

	opts.Window.SetKeyHandler(g.handleKey)
	opts.Window.SetCursorHandler(g.ctx.Mouse.HandleCursor)
	opts.Window.SetMouseButtonHandler(g.handleButton)
	opts.Window.SetResizeHandler(renderer.Resize)
	opts.Window.SetFocusHandler(g.handleFocus)
	return g, nil
}

// Context returns the shared systems
func (g *Game) Context() *Context { return &g.ctx }

// Scene returns the running scene, nil before Run
func (g *Game) Scene() scene.Scene { return g.scene }

// Frames returns how many frames were completed
func (g *Game) Frames() uint64 { return g.frames }

// SetKeyHandler lets the key manager listen through the game, which keeps
// escape handling ahead of the key map
func (g *Game) SetKeyHandler(handler func(key string, event input.KeyEvent)) {
	g.onKey = handler
}

func (g *Game) handleKey(key string, event input.KeyEvent) {
	if key == escapeKey && event == input.KeyDown {
		if g.ctx.Mouse.Captured() {
			g.setCaptured(false)
		} else {
			g.window.SetShouldClose(true)
		}
	}
	if g.onKey != nil {
		g.onKey(key, event)
	}
}

func (g *Game) handleButton(button input.MouseButton, pressed bool) {
	if button == input.MouseRight && pressed && !g.ctx.Mouse.Captured() {
		g.setCaptured(true)
	}
}

// handleFocus drops held keys so nothing stays pressed after alt-tab
func (g *Game) handleFocus(focused bool) {
	if !focused {
		g.ctx.Keys.Release()
	}
}

func (g *Game) setCaptured(captured bool) {
	g.ctx.Mouse.SetCaptured(captured)
	g.window.SetMouseCaptured(captured)
	g.logger.Debug("Pointer capture changed", "captured", captured)
}

// Run creates the device and the scene, then ticks until the window closes
// or ctx is cancelled. It may only be called once.
func (g *Game) Run(ctx context.Context) error {
	if g.started {
		return ErrAlreadyRunning
	}
	g.started = true
	defer g.ctx.Renderer.Close()

	if err := g.ctx.Renderer.Start(); err != nil {
		return err
	}

	deps := g.ctx.SceneDeps()
	deps.Logger = g.logger
	s, err := g.newScn(deps)
	if err != nil {
		return fmt.Errorf("failed to create scene: %w", err)
	}
	defer s.Close()
	if err := s.LoadContents(); err != nil {
		return fmt.Errorf("failed to load scene: %w", err)
	}
	g.scene = s

	g.logger.Info("Game started")
	last := g.ctx.Clock.Now()
	g.fpsSince = last
	for !g.window.ShouldClose() {
		select {
		case <-ctx.Done():
			g.logger.Info("Game stopped", "reason", ctx.Err(), "frames", g.frames)
			return nil
		default:
		}

		now := g.ctx.Clock.Now()
		dt := float32(min(now-last, maxFrameTime))
		last = now

		if err := g.tick(dt); err != nil {
			return err
		}
		g.countFrame(now)
	}
	g.logger.Info("Game stopped", "reason", "window closed", "frames", g.frames)
	return nil
}

// tick runs one frame: events, settings, simulation, render
func (g *Game) tick(dt float32) error {
	g.window.PollEvents()

	if g.watcher != nil {
		if err := g.watcher.Drain(g.ctx.Config); err != nil {
			g.logger.Warn("Failed to reload settings", "err", err)
		}
	}

	if err := g.scene.Update(dt); err != nil {
		return fmt.Errorf("failed to update scene: %w", err)
	}
	if err := g.scene.Render(g.ctx.Renderer); err != nil {
		return fmt.Errorf("failed to render scene: %w", err)
	}
	g.window.SwapBuffers()
	g.frames++
	return nil
}

// countFrame puts the frame rate in the title once per second
func (g *Game) countFrame(now float64) {
	g.fpsFrames++
	if now-g.fpsSince < 1 {
		return
	}
	fps := float64(g.fpsFrames) / (now - g.fpsSince)
	g.fpsFrames = 0
	g.fpsSince = now
	if g.title != "" {
		g.window.SetTitle(fmt.Sprintf("%s | %.0f FPS", g.title, fps))
	}
}

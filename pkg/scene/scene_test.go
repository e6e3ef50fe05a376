package scene

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leterax/go-sandbox/pkg/cache"
	"github.com/leterax/go-sandbox/pkg/config"
	"github.com/leterax/go-sandbox/pkg/controller"
	"github.com/leterax/go-sandbox/pkg/input"
	"github.com/leterax/go-sandbox/pkg/model"
	"github.com/leterax/go-sandbox/pkg/physics"
	"github.com/leterax/go-sandbox/pkg/render"
)

const tick = float32(1.0 / 60.0)

func newDeps() Deps {
	return Deps{
		Config: config.New(),
		Keys:   input.NewKeyManager(nil, nil),
		Mouse:  input.NewMouse(),
	}
}

// recorder records the physics step count it saw when updated
type recorder struct {
	world   *physics.World
	seen    []uint64
	alive   bool
	fail    error
	removed int
}

func (p *recorder) Add(*render.Graph) error {
	p.alive = true
	return nil
}

func (p *recorder) Alive() bool { return p.alive }

func (p *recorder) Remove() error {
	if !p.alive {
		return model.ErrRemoved
	}
	p.alive = false
	p.removed++
	return nil
}

func (p *recorder) Update(float32) error {
	if p.fail != nil {
		return p.fail
	}
	p.seen = append(p.seen, p.world.Steps())
	return nil
}

func newBaseWithCamera(t *testing.T, deps Deps) *Base {
	t.Helper()
	b, err := NewBase("test", deps)
	require.NoError(t, err)
	cam, err := controller.NewFreeCamera(controller.FreeCameraOptions{Deps: b.ControllerDeps()})
	require.NoError(t, err)
	require.NoError(t, b.SetController(cam))
	return b
}

func TestModelsUpdateAfterPhysicsStep(t *testing.T) {
	b := newBaseWithCamera(t, newDeps())
	p := &recorder{world: b.World()}
	require.NoError(t, b.AddModel("recorder", p))

	require.NoError(t, b.Update(tick))
	require.NoError(t, b.Update(tick))
	assert.Equal(t, []uint64{1, 2}, p.seen)
}

func TestUpdateErrorNamesModel(t *testing.T) {
	b := newBaseWithCamera(t, newDeps())
	boom := errors.New("boom")
	require.NoError(t, b.AddModel("recorder", &recorder{world: b.World(), fail: boom}))

	err := b.Update(tick)
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "recorder")
}

func TestAddModelReplacesExisting(t *testing.T) {
	b := newBaseWithCamera(t, newDeps())
	first := &recorder{world: b.World()}
	second := &recorder{world: b.World()}
	require.NoError(t, b.AddModel("recorder", first))
	require.NoError(t, b.AddModel("recorder", second))

	assert.False(t, first.Alive())
	assert.True(t, second.Alive())
	assert.Equal(t, 1, b.Models().Len())
}

func TestGravityFollowsSettings(t *testing.T) {
	deps := newDeps()
	b, err := NewBase("test", deps)
	require.NoError(t, err)
	assert.InDelta(t, config.Defaults().Gravity, b.World().Gravity().Y(), 1e-6)

	require.NoError(t, deps.Config.Set(config.Gravity, float32(-9.8)))
	assert.InDelta(t, -9.8, b.World().Gravity().Y(), 1e-6)

	b.Close()
	require.NoError(t, deps.Config.Set(config.Gravity, float32(-20)))
	assert.InDelta(t, -9.8, b.World().Gravity().Y(), 1e-6)
	assert.Zero(t, deps.Config.ObserverCount(config.Gravity))
}

func TestBaseNeedsInput(t *testing.T) {
	_, err := NewBase("test", Deps{Config: config.New()})
	assert.Error(t, err)
}

func TestMainSceneLoadsOnce(t *testing.T) {
	s, err := NewMainScene(newDeps())
	require.NoError(t, err)

	require.NoError(t, s.LoadContents())
	assert.ErrorIs(t, s.LoadContents(), ErrAlreadyLoaded)

	for _, name := range []string{AmbientName, SunName, LampName, SpotName, FloorName, PlatformName} {
		assert.True(t, s.Models().Has(name), name)
	}
	assert.Equal(t, 6+len(crates), s.Models().Len())

	active, err := s.Active()
	require.NoError(t, err)
	assert.Equal(t, controller.KindPlayer, active.Kind())
}

func TestMainSceneNeedsLoading(t *testing.T) {
	s, err := NewMainScene(newDeps())
	require.NoError(t, err)

	assert.ErrorIs(t, s.Update(tick), ErrNotLoaded)
	assert.ErrorIs(t, s.Render(&render.NullDevice{}), ErrNotLoaded)
	_, err = s.Active()
	assert.ErrorIs(t, err, ErrNotLoaded)
}

func TestPlatformMoves(t *testing.T) {
	s, err := NewMainScene(newDeps())
	require.NoError(t, err)
	require.NoError(t, s.LoadContents())

	platform, err := cache.GetAs[*model.Cube](s.Models(), PlatformName)
	require.NoError(t, err)
	start := platform.Body().Translation()

	for range 60 {
		require.NoError(t, s.Update(tick))
	}
	moved := platform.Body().Translation()
	assert.InDelta(t, platformHeight, moved.Y(), 1e-4)
	assert.Greater(t, moved.Sub(start).Len(), float32(1))
	assert.InDelta(t, 0, moved.Sub(platformPosition(1)).Len(), 1e-3)
}

func TestCratesFall(t *testing.T) {
	s, err := NewMainScene(newDeps())
	require.NoError(t, err)
	require.NoError(t, s.LoadContents())

	crate, err := cache.GetAs[*model.Cube](s.Models(), cratePrefix+"3")
	require.NoError(t, err)
	start := crate.Body().Translation()

	for range 10 {
		require.NoError(t, s.Update(tick))
	}
	assert.Less(t, crate.Body().Translation().Y(), start.Y())
	mesh, err := crate.Get()
	require.NoError(t, err)
	assert.Equal(t, crate.Body().Translation(), mesh.Position)
}

func TestToggleCameraKey(t *testing.T) {
	deps := newDeps()
	s, err := NewMainScene(deps)
	require.NoError(t, err)
	require.NoError(t, s.LoadContents())

	player, err := s.Active()
	require.NoError(t, err)
	eye := player.Pose().Position

	deps.Keys.HandleKey("c", input.KeyDown)
	require.NoError(t, s.Update(tick))
	active, err := s.Active()
	require.NoError(t, err)
	assert.Equal(t, controller.KindFree, active.Kind())
	assert.False(t, player.Alive())
	assert.False(t, s.Graph().Contains(player.(*controller.Player).Mesh()))
	assert.InDelta(t, 0, active.Pose().Position.Sub(eye).Len(), 0.5)

	// Held keys do not toggle again
	deps.Keys.HandleKey("c", input.KeyRepeat)
	require.NoError(t, s.Update(tick))
	active, err = s.Active()
	require.NoError(t, err)
	assert.Equal(t, controller.KindFree, active.Kind())

	deps.Keys.HandleKey("c", input.KeyUp)
	deps.Keys.HandleKey("c", input.KeyDown)
	require.NoError(t, s.Update(tick))
	active, err = s.Active()
	require.NoError(t, err)
	assert.Equal(t, controller.KindPlayer, active.Kind())
}

func TestToggleCameraReleasesUninstalledController(t *testing.T) {
	deps := newDeps()
	b := newBaseWithCamera(t, deps)
	fovObservers := deps.Config.ObserverCount(config.FieldOfView)

	// The switch succeeds but the new player cannot be installed
	b.closed = true
	assert.ErrorIs(t, b.ToggleCamera(), ErrClosed)

	assert.Empty(t, b.World().Bodies())
	assert.Zero(t, b.Graph().Len())
	assert.Equal(t, fovObservers-1, deps.Config.ObserverCount(config.FieldOfView))
}

func TestRenderThroughRenderer(t *testing.T) {
	deps := newDeps()
	s, err := NewMainScene(deps)
	require.NoError(t, err)
	require.NoError(t, s.LoadContents())

	factory := &render.NullFactory{}
	r, err := render.NewRenderer(deps.Config, render.StaticSurface{Width: 800, Height: 400}, factory.Create, nil)
	require.NoError(t, err)
	require.NoError(t, r.Start())
	defer r.Close()

	require.NoError(t, s.Render(r))
	device := factory.Last()
	require.NotNil(t, device)
	assert.Equal(t, 1, device.Frames)
	assert.Same(t, s.Graph(), device.LastGraph)

	active, err := s.Active()
	require.NoError(t, err)
	camera, err := active.Camera()
	require.NoError(t, err)
	assert.Same(t, camera, device.LastCamera)
	assert.InDelta(t, 2, camera.Aspect(), 1e-6)
}

func TestCloseRemovesEverything(t *testing.T) {
	deps := newDeps()
	s, err := NewMainScene(deps)
	require.NoError(t, err)
	require.NoError(t, s.LoadContents())
	require.NoError(t, s.Update(tick))

	s.Close()
	s.Close()

	assert.Zero(t, s.Graph().Len())
	assert.Empty(t, s.World().Bodies())
	assert.Zero(t, s.Models().Len())
	assert.Zero(t, deps.Config.ObserverCount(config.ShadowSoftness))
	assert.Zero(t, deps.Config.ObserverCount(config.FieldOfView))

	assert.ErrorIs(t, s.Update(tick), ErrClosed)
	assert.ErrorIs(t, s.Render(&render.NullDevice{}), ErrClosed)
	assert.ErrorIs(t, s.LoadContents(), ErrClosed)
}

func TestRemoveModelUnknown(t *testing.T) {
	b := newBaseWithCamera(t, newDeps())
	assert.ErrorIs(t, b.RemoveModel("missing"), cache.ErrKeyNotFound)
}

var _ Scene = (*MainScene)(nil)

func TestPlayerStartsAboveFloor(t *testing.T) {
	assert.Greater(t, PlayerStart.Y(), float32(controller.PlayerHalfHeight+controller.PlayerRadius))
}

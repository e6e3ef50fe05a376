package game

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leterax/go-sandbox/pkg/config"
	"github.com/leterax/go-sandbox/pkg/controller"
	"github.com/leterax/go-sandbox/pkg/input"
	"github.com/leterax/go-sandbox/pkg/render"
	"github.com/leterax/go-sandbox/pkg/scene"
)

func newGame(t *testing.T, frames int) (*Game, *HeadlessWindow, *render.NullFactory) {
	t.Helper()
	window := NewHeadlessWindow(800, 600)
	window.MaxFrames = frames
	factory := &render.NullFactory{}
	g, err := New(Options{Window: window, Title: "test", Devices: factory.Create})
	require.NoError(t, err)
	return g, window, factory
}

func activeController(t *testing.T, g *Game) controller.Controller {
	t.Helper()
	s, ok := g.Scene().(*scene.MainScene)
	require.True(t, ok)
	c, err := s.Active()
	require.NoError(t, err)
	return c
}

func TestRunDrivesFrames(t *testing.T) {
	g, window, factory := newGame(t, 5)
	require.NoError(t, g.Run(context.Background()))

	assert.EqualValues(t, 5, g.Frames())
	assert.Equal(t, 5, window.Swaps)
	device := factory.Last()
	require.NotNil(t, device)
	assert.Equal(t, 5, device.Frames)
	assert.True(t, device.Closed, "device is released when the loop ends")
}

func TestRunOnlyOnce(t *testing.T) {
	g, _, _ := newGame(t, 1)
	require.NoError(t, g.Run(context.Background()))
	assert.ErrorIs(t, g.Run(context.Background()), ErrAlreadyRunning)
}

func TestCancelledContextStops(t *testing.T) {
	g, _, _ := newGame(t, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, g.Run(ctx))
	assert.Zero(t, g.Frames())
}

func TestPointerCaptureAndEscape(t *testing.T) {
	g, window, _ := newGame(t, 100)
	window.At(0, func(w *HeadlessWindow) {
		w.Button(input.MouseRight, true)
		w.MoveCursor(0, 0)
	})
	window.At(1, func(w *HeadlessWindow) {
		assert.True(t, w.Captured)
		w.MoveCursor(100, 0)
	})
	window.At(2, func(w *HeadlessWindow) { w.Key("escape", input.KeyDown) })
	window.At(3, func(w *HeadlessWindow) {
		assert.False(t, w.Captured)
		assert.False(t, w.ShouldClose())
		w.Key("escape", input.KeyUp)
		w.Key("escape", input.KeyDown)
	})

	require.NoError(t, g.Run(context.Background()))
	assert.EqualValues(t, 4, g.Frames(), "escape with a free pointer closes the window")
	assert.False(t, g.Context().Mouse.Captured())

	player, ok := activeController(t, g).(*controller.Player)
	require.True(t, ok)
	assert.InDelta(t, -100*controller.MouseSensitivity, player.Axis().Yaw, 1e-6)
}

func TestLeftButtonDoesNotCapture(t *testing.T) {
	g, window, _ := newGame(t, 2)
	window.At(0, func(w *HeadlessWindow) { w.Button(input.MouseLeft, true) })
	require.NoError(t, g.Run(context.Background()))
	assert.False(t, window.Captured)
}

func TestFocusLossReleasesKeys(t *testing.T) {
	g, window, _ := newGame(t, 3)
	window.At(0, func(w *HeadlessWindow) { w.Key("w", input.KeyDown) })
	window.At(1, func(w *HeadlessWindow) {
		assert.True(t, g.Context().Keys.Held(input.MoveForward))
		w.Focus(false)
	})
	require.NoError(t, g.Run(context.Background()))
	assert.False(t, g.Context().Keys.Held(input.MoveForward))
}

func TestToggleCameraThroughWindow(t *testing.T) {
	g, window, _ := newGame(t, 2)
	window.At(0, func(w *HeadlessWindow) { w.Key("c", input.KeyDown) })
	require.NoError(t, g.Run(context.Background()))
	assert.Equal(t, controller.KindFree, activeController(t, g).Kind())
}

func TestResizeReachesDevice(t *testing.T) {
	g, window, factory := newGame(t, 2)
	window.At(0, func(w *HeadlessWindow) { w.Resize(1024, 512) })
	require.NoError(t, g.Run(context.Background()))

	device := factory.Last()
	assert.Equal(t, 1024, device.Width)
	assert.Equal(t, 512, device.Height)
	require.NotNil(t, device.LastCamera)
	assert.InDelta(t, 2, device.LastCamera.Aspect(), 1e-6)
}

func TestSettingsChangesDuringRun(t *testing.T) {
	g, window, factory := newGame(t, 3)
	store := g.Context().Config
	window.At(1, func(*HeadlessWindow) {
		require.NoError(t, store.Set(config.Shadows, false))
		require.NoError(t, store.Set(config.AntiAlias, false))
	})
	require.NoError(t, g.Run(context.Background()))

	require.Len(t, factory.Devices, 2)
	assert.True(t, factory.Devices[0].Closed)
	assert.False(t, factory.Devices[1].Options.AntiAlias)
	assert.False(t, factory.Devices[1].ShadowsEnabled)
	assert.Equal(t, 2, factory.Devices[1].Frames)
}

func TestTitleShowsFrameRate(t *testing.T) {
	g, window, _ := newGame(t, 90)
	require.NoError(t, g.Run(context.Background()))
	assert.Contains(t, window.Title, "test | ")
	assert.Contains(t, window.Title, "FPS")
}

func TestSceneErrorsStopRun(t *testing.T) {
	window := NewHeadlessWindow(800, 600)
	factory := &render.NullFactory{}
	boom := errors.New("boom")
	g, err := New(Options{
		Window:  window,
		Devices: factory.Create,
		Scene: func(scene.Deps) (scene.Scene, error) {
			return nil, boom
		},
	})
	require.NoError(t, err)
	assert.ErrorIs(t, g.Run(context.Background()), boom)
	assert.True(t, factory.Last().Closed)
}

func TestNewNeedsWindowAndDevices(t *testing.T) {
	_, err := New(Options{Devices: (&render.NullFactory{}).Create})
	assert.Error(t, err)
	_, err = New(Options{Window: NewHeadlessWindow(1, 1)})
	assert.Error(t, err)
}

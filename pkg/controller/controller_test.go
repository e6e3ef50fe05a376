package controller

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leterax/go-sandbox/pkg/config"
	"github.com/leterax/go-sandbox/pkg/input"
	"github.com/leterax/go-sandbox/pkg/model"
	"github.com/leterax/go-sandbox/pkg/physics"
	"github.com/leterax/go-sandbox/pkg/render"
)

const tick = float32(1.0 / 60.0)

func newDeps() Deps {
	mouse := input.NewMouse()
	mouse.SetCaptured(true)
	return Deps{
		Keys:   input.NewKeyManager(nil, nil),
		Mouse:  mouse,
		Config: config.New(),
	}
}

// worldWithFloor returns a world whose floor top is at y = 0
func worldWithFloor(t *testing.T) *physics.World {
	t.Helper()
	world := physics.NewWorld(mgl32.Vec3{0, -10, 0})
	floor := world.CreateRigidBody(physics.NewFixedBody(mgl32.Vec3{0, -0.5, 0}))
	_, err := world.CreateCollider(physics.NewColliderDesc(physics.Cuboid(50, 0.5, 50)), floor)
	require.NoError(t, err)
	return world
}

// standingHeight puts the capsule's bottom on y = 0
const standingHeight = PlayerHalfHeight + PlayerRadius

func newStandingPlayer(t *testing.T, deps Deps) (*Player, *physics.World) {
	t.Helper()
	world := worldWithFloor(t)
	p, err := NewPlayer(PlayerOptions{
		Position: mgl32.Vec3{0, standingHeight, 0},
		World:    world,
		Deps:     deps,
	})
	require.NoError(t, err)
	return p, world
}

func horizontal(v mgl32.Vec3) float32 {
	return mgl32.Vec2{v.X(), v.Z()}.Len()
}

func TestPitchClampsAtLimits(t *testing.T) {
	deps := newDeps()
	cam, err := NewFreeCamera(FreeCameraOptions{Deps: deps})
	require.NoError(t, err)

	deps.Mouse.Move(0, -100000)
	require.NoError(t, cam.Update(tick))
	assert.InDelta(t, mgl32.DegToRad(75), cam.Axis().Pitch, 1e-6)

	deps.Mouse.Move(0, 100000)
	require.NoError(t, cam.Update(tick))
	assert.InDelta(t, mgl32.DegToRad(-80), cam.Axis().Pitch, 1e-6)
}

func TestMouseDeltaIsConsumed(t *testing.T) {
	deps := newDeps()
	cam, err := NewFreeCamera(FreeCameraOptions{Deps: deps})
	require.NoError(t, err)

	deps.Mouse.Move(100, 0)
	require.NoError(t, cam.Update(tick))
	assert.InDelta(t, -0.5, cam.Axis().Yaw, 1e-6)

	require.NoError(t, cam.Update(tick))
	assert.InDelta(t, -0.5, cam.Axis().Yaw, 1e-6)
}

func TestOrientationComposesYawThenPitch(t *testing.T) {
	axis := CameraAxis{Yaw: mgl32.DegToRad(90), Pitch: mgl32.DegToRad(30)}
	f := axis.Orientation(mgl32.QuatIdent()).Rotate(mgl32.Vec3{0, 0, -1})

	// Turned left and looking up
	assert.InDelta(t, -0.866, f.X(), 1e-3)
	assert.InDelta(t, 0.5, f.Y(), 1e-3)
	assert.InDelta(t, 0, f.Z(), 1e-3)
}

func TestHeadingRoundTrip(t *testing.T) {
	for _, yaw := range []float32{-2.5, -1, 0, 0.3, 1.2, 3} {
		q := CameraAxis{Yaw: yaw, Pitch: 0.4}.Orientation(mgl32.QuatIdent())
		assert.InDelta(t, yaw, headingOf(q), 1e-4)
		assert.InDelta(t, 0.4, pitchOf(q), 1e-4)
	}
}

func TestFreeCameraFlies(t *testing.T) {
	deps := newDeps()
	cam, err := NewFreeCamera(FreeCameraOptions{Position: mgl32.Vec3{0, 5, 0}, Deps: deps})
	require.NoError(t, err)

	deps.Keys.HandleKey("w", input.KeyDown)
	require.NoError(t, cam.Update(0.5))

	c, err := cam.Camera()
	require.NoError(t, err)
	assert.InDelta(t, -5, c.Position().Z(), 1e-4)
	assert.InDelta(t, 5, c.Position().Y(), 1e-4)
}

func TestFreeCameraSprintRamp(t *testing.T) {
	deps := newDeps()
	cam, err := NewFreeCamera(FreeCameraOptions{Deps: deps})
	require.NoError(t, err)

	deps.Keys.HandleKey("w", input.KeyDown)
	deps.Keys.HandleKey("shift", input.KeyDown)
	for range 300 {
		require.NoError(t, cam.Update(tick))
	}
	assert.InDelta(t, MaxFlySpeed, cam.Speed(), 0.1)

	deps.Keys.HandleKey("shift", input.KeyUp)
	for range 300 {
		require.NoError(t, cam.Update(tick))
	}
	assert.InDelta(t, FlySpeed, cam.Speed(), 0.1)
}

func TestDiagonalMovementIsNormalized(t *testing.T) {
	deps := newDeps()
	p, _ := newStandingPlayer(t, deps)

	deps.Keys.HandleKey("w", input.KeyDown)
	require.NoError(t, p.Update(tick, nil))
	straight := horizontal(p.Body().Linvel())

	deps.Keys.HandleKey("d", input.KeyDown)
	require.NoError(t, p.Update(tick, nil))
	diagonal := horizontal(p.Body().Linvel())

	assert.InDelta(t, BaseSpeed, straight, 1e-4)
	assert.InDelta(t, straight, diagonal, 1e-4)
	v := p.Body().Linvel()
	assert.InDelta(t, v.X(), -v.Z(), 1e-4)
}

func TestWalkIgnoresPitch(t *testing.T) {
	deps := newDeps()
	p, _ := newStandingPlayer(t, deps)

	deps.Mouse.Move(0, -200)
	deps.Keys.HandleKey("w", input.KeyDown)
	require.NoError(t, p.Update(tick, nil))

	require.Greater(t, p.Axis().Pitch, float32(0.5))
	v := p.Body().Linvel()
	assert.InDelta(t, 0, v.Y(), 1e-4)
	assert.InDelta(t, -BaseSpeed, v.Z(), 1e-4)
}

func TestJumpWhenGrounded(t *testing.T) {
	deps := newDeps()
	p, _ := newStandingPlayer(t, deps)

	deps.Keys.HandleKey("space", input.KeyDown)
	require.NoError(t, p.Update(tick, nil))

	assert.True(t, p.Grounded())
	assert.True(t, p.JumpInFlight())
	assert.InDelta(t, JumpSpeed, p.Body().Linvel().Y(), 1e-3)
}

func TestJumpMidAirIsDropped(t *testing.T) {
	deps := newDeps()
	world := worldWithFloor(t)
	p, err := NewPlayer(PlayerOptions{Position: mgl32.Vec3{0, 10, 0}, World: world, Deps: deps})
	require.NoError(t, err)

	deps.Keys.HandleKey("space", input.KeyDown)
	require.NoError(t, p.Update(tick, world))

	assert.False(t, p.Grounded())
	assert.False(t, p.JumpInFlight())
	assert.Zero(t, p.Body().Linvel().Y())

	// The request does not linger until landing
	p.Body().SetTranslation(mgl32.Vec3{0, standingHeight, 0})
	require.NoError(t, p.Update(tick, world))
	assert.True(t, p.Grounded())
	assert.False(t, p.JumpInFlight())
	assert.Zero(t, p.Body().Linvel().Y())
}

func TestFasterPlayersJumpLower(t *testing.T) {
	deps := newDeps()
	p, _ := newStandingPlayer(t, deps)
	p.speed = MaxSpeed

	deps.Keys.HandleKey("space", input.KeyDown)
	require.NoError(t, p.Update(tick, nil))
	assert.InDelta(t, JumpSpeed*0.5, p.Body().Linvel().Y(), 1e-3)
}

func TestJumpLandsAndClears(t *testing.T) {
	deps := newDeps()
	p, world := newStandingPlayer(t, deps)

	deps.Keys.HandleKey("space", input.KeyDown)
	require.NoError(t, p.Update(tick, world))
	require.True(t, p.JumpInFlight())

	sawAirborne := false
	for range 600 {
		world.Step()
		require.NoError(t, p.Update(tick, world))
		if !p.Grounded() {
			sawAirborne = true
		}
		if sawAirborne && !p.JumpInFlight() {
			break
		}
	}
	assert.True(t, sawAirborne)
	assert.False(t, p.JumpInFlight())
	assert.True(t, p.Grounded())
}

func TestBunnyHopSpeedRamp(t *testing.T) {
	deps := newDeps()
	world := physics.NewWorld(mgl32.Vec3{})
	p, err := NewPlayer(PlayerOptions{Position: mgl32.Vec3{0, 10, 0}, World: world, Deps: deps})
	require.NoError(t, err)

	deps.Keys.HandleKey("w", input.KeyDown)
	deps.Keys.HandleKey("shift", input.KeyDown)
	for range 600 {
		require.NoError(t, p.Update(tick, world))
	}
	assert.False(t, p.Grounded())
	assert.Greater(t, p.Speed(), float32(SprintSpeed))
	assert.LessOrEqual(t, p.Speed(), float32(MaxSpeed))
	assert.InDelta(t, MaxSpeed, p.Speed(), 0.1)

	deps.Keys.HandleKey("shift", input.KeyUp)
	for range 600 {
		require.NoError(t, p.Update(tick, world))
	}
	assert.InDelta(t, BaseSpeed, p.Speed(), 0.1)
}

func TestGroundedSprintCapsAtSprintSpeed(t *testing.T) {
	deps := newDeps()
	p, _ := newStandingPlayer(t, deps)

	deps.Keys.HandleKey("w", input.KeyDown)
	deps.Keys.HandleKey("shift", input.KeyDown)
	for range 600 {
		// Stay in place so the floor stays underneath
		p.Body().SetTranslation(mgl32.Vec3{0, standingHeight, 0})
		require.NoError(t, p.Update(tick, nil))
	}
	assert.True(t, p.Grounded())
	assert.InDelta(t, SprintSpeed, p.Speed(), 0.1)
}

func TestModeSwitchRoundTrip(t *testing.T) {
	deps := newDeps()
	world := worldWithFloor(t)
	graph := render.NewGraph()

	roll := mgl32.QuatRotate(0.4, mgl32.Vec3{0, 0, 1})
	axis := CameraAxis{Yaw: 0.3, Pitch: 0.2}
	free, err := NewFreeCamera(FreeCameraOptions{
		Position: mgl32.Vec3{1, 5, 2},
		Rotation: roll,
		Axis:     axis,
		Deps:     deps,
	})
	require.NoError(t, err)

	next, err := Switch(free, world, deps)
	require.NoError(t, err)
	require.NoError(t, next.Add(graph))
	player, ok := next.(*Player)
	require.True(t, ok)
	assert.False(t, free.Alive())
	assert.InDelta(t, axis.Yaw, player.Axis().Yaw, 1e-5)
	assert.InDelta(t, axis.Pitch, player.Axis().Pitch, 1e-5)
	assert.InDelta(t, 0, player.Body().Translation().Sub(mgl32.Vec3{1, 5 - EyeHeight, 2}).Len(), 1e-5)
	assert.True(t, graph.Contains(player.Mesh()))

	back, err := Switch(player, world, deps)
	require.NoError(t, err)
	require.Equal(t, KindFree, back.Kind())
	assert.False(t, player.Alive())
	assert.False(t, graph.Contains(player.Mesh()))
	assert.Len(t, world.Bodies(), 1)

	pose := back.Pose()
	assert.InDelta(t, axis.Yaw, pose.Axis.Yaw, 1e-5)
	assert.InDelta(t, axis.Pitch, pose.Axis.Pitch, 1e-5)
	assert.InDelta(t, 0, pose.Position.Sub(mgl32.Vec3{1, 5, 2}).Len(), 1e-5)

	// Roll is gone: the camera's right vector stays level
	cam, err := back.Camera()
	require.NoError(t, err)
	assert.InDelta(t, 0, cam.RightVector().Y(), 1e-5)
}

func TestStaticCameraSwitchesToPlayer(t *testing.T) {
	deps := newDeps()
	world := worldWithFloor(t)
	static, err := NewStaticCamera(StaticCameraOptions{
		Position: mgl32.Vec3{0, 3, 0},
		Rotation: mgl32.QuatRotate(0.5, render.WorldUp),
	})
	require.NoError(t, err)
	require.NoError(t, static.Update(tick))

	pose := static.Pose()
	assert.InDelta(t, 0.5, pose.Axis.Yaw, 1e-5)
	assert.InDelta(t, 0, pose.Axis.Pitch, 1e-5)

	next, err := Switch(static, world, deps)
	require.NoError(t, err)
	assert.Equal(t, KindPlayer, next.Kind())
	assert.False(t, static.Alive())
}

func TestZoomSpringsFieldOfView(t *testing.T) {
	deps := newDeps()
	cam, err := NewFreeCamera(FreeCameraOptions{Deps: deps})
	require.NoError(t, err)
	c, _ := cam.Camera()

	deps.Keys.HandleKey("z", input.KeyDown)
	for range 180 {
		require.NoError(t, cam.Update(tick))
	}
	assert.InDelta(t, 70.0/3, c.FOV(), 0.1)

	deps.Keys.HandleKey("z", input.KeyUp)
	require.NoError(t, deps.Config.Set(config.FieldOfView, 90))
	for range 180 {
		require.NoError(t, cam.Update(tick))
	}
	assert.InDelta(t, 90, c.FOV(), 0.1)
}

func TestBuildersAreSingleUse(t *testing.T) {
	deps := newDeps()
	world := worldWithFloor(t)

	fb := BuildFreeCamera(0, deps).AddPosition(mgl32.Vec3{0, 1, 0})
	_, err := fb.End()
	require.NoError(t, err)
	fb.AddAxis(CameraAxis{Yaw: 1})
	assert.ErrorIs(t, fb.Err(), model.ErrAlreadyConstructed)
	_, err = fb.End()
	assert.ErrorIs(t, err, model.ErrAlreadyConstructed)

	pb := BuildPlayer(0, deps).AddCollider(world).AddPosition(mgl32.Vec3{0, standingHeight, 0})
	_, err = pb.End()
	require.NoError(t, err)
	pb.AddRotation(mgl32.QuatIdent())
	assert.ErrorIs(t, pb.Err(), model.ErrAlreadyConstructed)
}

func TestPlayerRemove(t *testing.T) {
	deps := newDeps()
	p, world := newStandingPlayer(t, deps)
	assert.Equal(t, 1, deps.Config.ObserverCount(config.FieldOfView))

	require.NoError(t, p.Remove())
	assert.ErrorIs(t, p.Remove(), model.ErrRemoved)
	assert.ErrorIs(t, p.Update(tick, world), model.ErrRemoved)
	_, err := p.Camera()
	assert.ErrorIs(t, err, model.ErrRemoved)

	assert.Len(t, world.Bodies(), 1)
	assert.Equal(t, 0, deps.Config.ObserverCount(config.FieldOfView))
	// Jump binding is gone
	deps.Keys.HandleKey("space", input.KeyDown)
	assert.False(t, p.jumpRequested)
}

func TestControllersNeedInput(t *testing.T) {
	_, err := NewFreeCamera(FreeCameraOptions{})
	assert.ErrorIs(t, err, ErrMissingInput)

	_, err = NewPlayer(PlayerOptions{Deps: newDeps()})
	assert.ErrorIs(t, err, model.ErrNoWorld)
}

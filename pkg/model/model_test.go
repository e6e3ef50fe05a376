package model

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leterax/go-sandbox/pkg/config"
	"github.com/leterax/go-sandbox/pkg/physics"
	"github.com/leterax/go-sandbox/pkg/render"
)

func TestBuilderRejectsAddAfterEnd(t *testing.T) {
	b := BuildCube(mgl32.Vec3{1, 1, 1})
	cube, err := b.End()
	require.NoError(t, err)
	require.NotNil(t, cube)

	b.AddPosition(mgl32.Vec3{1, 2, 3})
	assert.ErrorIs(t, b.Err(), ErrAlreadyConstructed)

	_, err = b.End()
	assert.ErrorIs(t, err, ErrAlreadyConstructed)
}

func TestLightBuilderRejectsAddAfterEnd(t *testing.T) {
	b := BuildPointLight(1, 0, 0)
	_, err := b.End()
	require.NoError(t, err)

	b.AddColor(mgl32.Vec3{1, 0, 0}).AddIntensity(3)
	assert.ErrorIs(t, b.Err(), ErrAlreadyConstructed)
	_, err = b.End()
	assert.ErrorIs(t, err, ErrAlreadyConstructed)
}

func TestRemoveTwice(t *testing.T) {
	graph := render.NewGraph()
	cube, err := NewCube(CubeOptions{})
	require.NoError(t, err)
	require.NoError(t, cube.Add(graph))
	assert.Equal(t, 1, graph.Len())

	require.NoError(t, cube.Remove())
	assert.False(t, cube.Alive())
	assert.Equal(t, 0, graph.Len())

	assert.ErrorIs(t, cube.Remove(), ErrRemoved)
}

func TestUseAfterRemove(t *testing.T) {
	graph := render.NewGraph()
	cube, err := NewCube(CubeOptions{})
	require.NoError(t, err)
	require.NoError(t, cube.Remove())

	assert.ErrorIs(t, cube.Add(graph), ErrRemoved)
	assert.ErrorIs(t, cube.Update(1), ErrRemoved)
	_, err = cube.Get()
	assert.ErrorIs(t, err, ErrRemoved)
	assert.Equal(t, 0, graph.Len())
}

func TestCubeDefaults(t *testing.T) {
	cube, err := BuildCube(mgl32.Vec3{}).AddShadow().End()
	require.NoError(t, err)

	mesh, err := cube.Get()
	require.NoError(t, err)
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, mesh.Geometry.Size)
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, mesh.Material.Color)
	assert.Equal(t, mgl32.QuatIdent(), mesh.Rotation)
	assert.True(t, mesh.CastShadow)
	assert.True(t, mesh.ReceiveShadow)
	assert.Nil(t, cube.Body())
}

func TestCubeColliderNeedsWorld(t *testing.T) {
	_, err := NewCube(CubeOptions{Collider: Active})
	assert.ErrorIs(t, err, ErrNoWorld)
}

func TestColliderTypes(t *testing.T) {
	world := physics.NewWorld(mgl32.Vec3{0, -10, 0})
	cases := map[ColliderType]physics.BodyType{
		Active:    physics.Dynamic,
		Passive:   physics.Fixed,
		Kinematic: physics.KinematicPositionBased,
	}
	for ct, want := range cases {
		t.Run(ct.String(), func(t *testing.T) {
			cube, err := BuildCube(mgl32.Vec3{2, 2, 2}).
				AddPosition(mgl32.Vec3{0, 5, 0}).
				AddCollider(ct, world).
				End()
			require.NoError(t, err)
			require.NotNil(t, cube.Body())
			assert.Equal(t, want, cube.Body().Type())
			assert.Equal(t, mgl32.Vec3{0, 5, 0}, cube.Body().Translation())
			assert.Equal(t, mgl32.Vec3{1, 1, 1}, cube.Collider().Shape().HalfExtents)
		})
	}
}

func TestActiveCubeFollowsBody(t *testing.T) {
	world := physics.NewWorld(mgl32.Vec3{0, -10, 0})
	graph := render.NewGraph()

	cube, err := BuildCube(mgl32.Vec3{1, 1, 1}).
		AddPosition(mgl32.Vec3{0, 10, 0}).
		AddCollider(Active, world).
		End()
	require.NoError(t, err)
	require.NoError(t, cube.Add(graph))

	for range 10 {
		world.Step()
	}
	require.NoError(t, cube.Update(physics.TimeStep))

	mesh, err := cube.Get()
	require.NoError(t, err)
	assert.Less(t, mesh.Position.Y(), float32(10))
	assert.Equal(t, cube.Body().Translation(), mesh.Position)
}

func TestCubeRemoveReleasesPhysics(t *testing.T) {
	world := physics.NewWorld(mgl32.Vec3{0, -10, 0})
	cube, err := NewCube(CubeOptions{Collider: Passive, World: world})
	require.NoError(t, err)
	assert.Len(t, world.Bodies(), 1)
	assert.Len(t, world.Colliders(), 1)

	require.NoError(t, cube.Remove())
	assert.Empty(t, world.Bodies())
	assert.Empty(t, world.Colliders())
	assert.True(t, cube.Body().Removed())
}

func TestCubeMoveTo(t *testing.T) {
	world := physics.NewWorld(mgl32.Vec3{})
	cube, err := NewCube(CubeOptions{Collider: Kinematic, World: world})
	require.NoError(t, err)

	require.NoError(t, cube.MoveTo(mgl32.Vec3{3, 0, 0}))
	require.NoError(t, cube.Update(0))
	mesh, _ := cube.Get()
	assert.Equal(t, mgl32.Vec3{3, 0, 0}, mesh.Position)
}

func TestPointLightDefaults(t *testing.T) {
	light, err := NewPointLight(PointLightOptions{})
	require.NoError(t, err)
	rl, err := light.Get()
	require.NoError(t, err)

	assert.Equal(t, render.PointLight, rl.Kind)
	assert.Equal(t, float32(DefaultDistance), rl.Distance)
	assert.Equal(t, float32(DefaultDecay), rl.Decay)
	assert.Equal(t, float32(1), rl.Intensity)
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, rl.Color)
}

func TestSpotLight(t *testing.T) {
	light, err := BuildSpotLight(2, 50, 30, 1).
		AddPosition(mgl32.Vec3{0, 10, 0}).
		AddShadow(0, nil).
		End()
	require.NoError(t, err)
	rl, _ := light.Get()

	assert.InDelta(t, mgl32.DegToRad(30), rl.Angle, 1e-6)
	assert.Equal(t, float32(DefaultSpotPenumbra), rl.Penumbra)
	assert.Equal(t, float32(50), rl.Distance)
	assert.True(t, rl.CastShadow)
	assert.Equal(t, DefaultShadowMapSize, rl.Shadow.MapSize)
	assert.Equal(t, float32(DefaultSpotRadius), rl.Shadow.Radius)

	_, err = NewSpotLight(SpotLightOptions{Angle: 95})
	assert.Error(t, err)
}

func TestDirectionalLightRotation(t *testing.T) {
	light, err := BuildDirectionalLight(1).
		AddPosition(mgl32.Vec3{0, 10, 0}).
		End()
	require.NoError(t, err)
	rl, _ := light.Get()
	assert.InDelta(t, 0, rl.Direction().Sub(mgl32.Vec3{0, -1, 0}).Len(), 1e-5)

	light, err = BuildDirectionalLight(1).AddRotation(mgl32.Vec3{0, 0, 90}).End()
	require.NoError(t, err)
	rl, _ = light.Get()
	assert.InDelta(t, 0, rl.Direction().Sub(mgl32.Vec3{1, 0, 0}).Len(), 1e-5)
}

func TestDirectionalLightFollowsShadowSoftness(t *testing.T) {
	store := config.New()
	graph := render.NewGraph()

	light, err := BuildDirectionalLight(1).AddShadow(30, store).End()
	require.NoError(t, err)
	require.NoError(t, light.Add(graph))
	rl, _ := light.Get()

	assert.Equal(t, float32(2), rl.Shadow.Radius)
	assert.Equal(t, float32(30), rl.Shadow.Range)
	assert.Equal(t, 1, store.ObserverCount(config.ShadowSoftness))

	require.NoError(t, store.Set(config.ShadowSoftness, 7))
	assert.Equal(t, float32(7), rl.Shadow.Radius)

	require.NoError(t, light.Remove())
	assert.Equal(t, 0, store.ObserverCount(config.ShadowSoftness))
	assert.False(t, graph.Contains(rl))

	require.NoError(t, store.Set(config.ShadowSoftness, 1))
	assert.Equal(t, float32(7), rl.Shadow.Radius)
}

func TestDirectionalShadowNeedsStore(t *testing.T) {
	_, err := NewDirectionalLight(DirectionalLightOptions{CastShadow: true})
	assert.Error(t, err)
}

func TestAmbientLight(t *testing.T) {
	light, err := BuildAmbientLight(0.3).AddColor(mgl32.Vec3{1, 0.5, 0.5}).End()
	require.NoError(t, err)
	assert.Equal(t, render.AmbientLight, light.Kind())
	rl, _ := light.Get()
	assert.Equal(t, float32(0.3), rl.Intensity)
	assert.Equal(t, mgl32.Vec3{1, 0.5, 0.5}, rl.Color)
}

package scene

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/leterax/go-sandbox/pkg/cache"
	"github.com/leterax/go-sandbox/pkg/controller"
	"github.com/leterax/go-sandbox/pkg/model"
	"github.com/leterax/go-sandbox/pkg/render"
)

// Names of the models MainScene loads
const (
	AmbientName  = "ambientLight"
	SunName      = "sun"
	LampName     = "lamp"
	SpotName     = "spot"
	FloorName    = "floor"
	PlatformName = "platform"
	cratePrefix  = "crate-"
)

// PlayerStart is where the player's body starts
var PlayerStart = mgl32.Vec3{0, 3, 12}

// Moving platform path
const (
	platformRadius = 6
	platformSpeed  = 0.5 // radians per second
	platformHeight = 1.5
)

var crates = []struct {
	position mgl32.Vec3
	size     float32
	color    mgl32.Vec3
}{
	{mgl32.Vec3{-4, 1, 0}, 2, mgl32.Vec3{0.8, 0.3, 0.2}},
	{mgl32.Vec3{-4, 3.5, 0}, 1.5, mgl32.Vec3{0.9, 0.6, 0.2}},
	{mgl32.Vec3{3, 1.5, -3}, 3, mgl32.Vec3{0.3, 0.5, 0.8}},
	{mgl32.Vec3{5, 8, 2}, 1, mgl32.Vec3{0.4, 0.8, 0.4}},
}

// MainScene is the sandbox: a lit floor, a few physics crates, a moving
// platform and a player
type MainScene struct {
	*Base
	time float32
}

// NewMainScene creates the sandbox scene without loading it
func NewMainScene(deps Deps) (*MainScene, error) {
	base, err := NewBase("main", deps)
	if err != nil {
		return nil, err
	}
	return &MainScene{Base: base}, nil
}

// LoadContents builds the lights, geometry and the player
func (s *MainScene) LoadContents() error {
	if s.closed {
		return ErrClosed
	}
	if s.loaded {
		return ErrAlreadyLoaded
	}
	s.loaded = true

	if err := s.loadLights(); err != nil {
		return err
	}
	if err := s.loadGeometry(); err != nil {
		return err
	}

	player, err := controller.BuildPlayer(0, s.ControllerDeps()).
		AddPosition(PlayerStart).
		AddCollider(s.world).
		End()
	if err != nil {
		return fmt.Errorf("failed to build player: %w", err)
	}
	if err := s.SetController(player); err != nil {
		return err
	}

	s.logger.Info("Scene loaded", "models", s.models.Len(), "bodies", len(s.world.Bodies()))
	return nil
}

func (s *MainScene) loadLights() error {
	type entry struct {
		name    string
		builder *model.LightBuilder
	}
	lights := []entry{
		{AmbientName, model.BuildAmbientLight(0.35)},
		{SunName, model.BuildDirectionalLight(1.2).
			AddPosition(mgl32.Vec3{20, 40, 15}).
			AddRotation(mgl32.Vec3{-35, 0, 25}).
			AddShadow(40, s.deps.Config)},
		{LampName, model.BuildPointLight(2, 30, 2).
			AddColor(mgl32.Vec3{1, 0.8, 0.6}).
			AddPosition(mgl32.Vec3{0, 6, 0})},
		{SpotName, model.BuildSpotLight(3, 60, 30, 2).
			AddPosition(mgl32.Vec3{-12, 14, -12}).
			AddTarget(mgl32.Vec3{0, 0, 0}).
			AddShadow(0, nil)},
	}
	for _, l := range lights {
		light, err := l.builder.End()
		if err != nil {
			return fmt.Errorf("failed to build %s: %w", l.name, err)
		}
		if err := s.AddModel(l.name, light); err != nil {
			return err
		}
	}
	return nil
}

func (s *MainScene) loadGeometry() error {
	floor, err := model.BuildCube(mgl32.Vec3{100, 1, 100}).
		AddPosition(mgl32.Vec3{0, -0.5, 0}).
		AddMaterial(render.Material{Color: mgl32.Vec3{0.55, 0.55, 0.6}, Roughness: 0.9}).
		AddShadow().
		AddCollider(model.Passive, s.world).
		End()
	if err != nil {
		return fmt.Errorf("failed to build floor: %w", err)
	}
	if err := s.AddModel(FloorName, floor); err != nil {
		return err
	}

	for i, c := range crates {
		crate, err := model.BuildCube(mgl32.Vec3{c.size, c.size, c.size}).
			AddPosition(c.position).
			AddMaterial(render.Material{Color: c.color, Roughness: 0.6}).
			AddShadow().
			AddCollider(model.Active, s.world).
			AddRestitution(0.2).
			End()
		if err != nil {
			return fmt.Errorf("failed to build crate %d: %w", i, err)
		}
		if err := s.AddModel(fmt.Sprintf("%s%d", cratePrefix, i), crate); err != nil {
			return err
		}
	}

	platform, err := model.BuildCube(mgl32.Vec3{4, 0.5, 4}).
		AddPosition(platformPosition(0)).
		AddMaterial(render.Material{Color: mgl32.Vec3{0.9, 0.9, 0.9}, Metalness: 0.5}).
		AddShadow().
		AddCollider(model.Kinematic, s.world).
		End()
	if err != nil {
		return fmt.Errorf("failed to build platform: %w", err)
	}
	return s.AddModel(PlatformName, platform)
}

// platformPosition is the platform's place on its circle at time t
func platformPosition(t float32) mgl32.Vec3 {
	angle := float64(t * platformSpeed)
	return mgl32.Vec3{
		platformRadius * float32(math.Cos(angle)),
		platformHeight,
		platformRadius * float32(math.Sin(angle)),
	}
}

// Update moves the platform, then runs the shared tick
func (s *MainScene) Update(dt float32) error {
	if !s.loaded {
		return ErrNotLoaded
	}
	s.time += dt
	if platform, err := cache.GetAs[*model.Cube](s.models, PlatformName); err == nil {
		if err := platform.MoveTo(platformPosition(s.time)); err != nil {
			return fmt.Errorf("failed to move platform: %w", err)
		}
	}
	return s.Base.Update(dt)
}

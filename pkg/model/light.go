package model

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/leterax/go-sandbox/pkg/config"
	"github.com/leterax/go-sandbox/pkg/render"
)

// Light defaults
const (
	DefaultIntensity     = 1
	DefaultDistance      = 100
	DefaultDecay         = 2
	DefaultSpotAngle     = 45 // degrees
	DefaultSpotPenumbra  = 0.4
	DefaultSpotRadius    = 8
	DefaultShadowMapSize = 1024
	DefaultShadowBias    = -0.0005
)

var white = mgl32.Vec3{1, 1, 1}

// Light wraps a render light of any kind
type Light struct {
	lifecycle

	light *render.Light
	sub   config.Subscription
}

// Add puts the light into graph
func (l *Light) Add(graph *render.Graph) error {
	return l.attach(graph, l.light)
}

// Get returns the underlying render light
func (l *Light) Get() (*render.Light, error) {
	if err := l.check(); err != nil {
		return nil, err
	}
	return l.light, nil
}

// Kind returns the light kind
func (l *Light) Kind() render.LightKind {
	return l.light.Kind
}

// Remove takes the light out of its graph and stops observing settings
func (l *Light) Remove() error {
	if err := l.detach(l.light); err != nil {
		return err
	}
	l.sub.Unsubscribe()
	return nil
}

func orWhite(c mgl32.Vec3) mgl32.Vec3 {
	if c == (mgl32.Vec3{}) {
		return white
	}
	return c
}

func orDefault(v, def float32) float32 {
	if v == 0 {
		return def
	}
	return v
}

// AmbientLightOptions configures an ambient light
type AmbientLightOptions struct {
	Color     mgl32.Vec3 // zero means white
	Intensity float32    // zero means 1
}

// NewAmbientLight creates a light that lights everything evenly
func NewAmbientLight(opts AmbientLightOptions) (*Light, error) {
	return &Light{light: &render.Light{
		Kind:      render.AmbientLight,
		Color:     orWhite(opts.Color),
		Intensity: orDefault(opts.Intensity, DefaultIntensity),
	}}, nil
}

// DirectionalLightOptions configures a directional light
type DirectionalLightOptions struct {
	Color     mgl32.Vec3
	Intensity float32
	Position  mgl32.Vec3
	// Rotation turns the light's default downward direction, in degrees
	// applied in Y, X, Z order
	Rotation mgl32.Vec3

	CastShadow    bool
	ShadowRange   float32 // half size of the shadow volume
	ShadowMapSize int
	// Config binds the shadow radius to the shadowSoftness setting. Required
	// when CastShadow is set.
	Config *config.Store

	Helper bool
}

// lightDirection rotates (0, -1, 0) by Euler angles in degrees
func lightDirection(rotation mgl32.Vec3) mgl32.Vec3 {
	q := mgl32.AnglesToQuat(
		mgl32.DegToRad(rotation.Y()),
		mgl32.DegToRad(rotation.X()),
		mgl32.DegToRad(rotation.Z()),
		mgl32.YXZ,
	)
	return q.Rotate(mgl32.Vec3{0, -1, 0})
}

// NewDirectionalLight creates a sun like light. With shadows, the shadow
// radius follows the shadowSoftness setting until the light is removed.
func NewDirectionalLight(opts DirectionalLightOptions) (*Light, error) {
	rl := &render.Light{
		Kind:      render.DirectionalLight,
		Color:     orWhite(opts.Color),
		Intensity: orDefault(opts.Intensity, DefaultIntensity),
		Position:  opts.Position,
		Target:    opts.Position.Add(lightDirection(opts.Rotation)),
		Helper:    opts.Helper,
	}
	l := &Light{light: rl}
	if !opts.CastShadow {
		return l, nil
	}
	if opts.Config == nil {
		return nil, errors.New("directional light shadows need a configuration store")
	}

	mapSize := opts.ShadowMapSize
	if mapSize <= 0 {
		mapSize = DefaultShadowMapSize
	}
	rl.CastShadow = true
	rl.Shadow = render.Shadow{
		MapSize: mapSize,
		Bias:    DefaultShadowBias,
		Radius:  opts.Config.Configurations().ShadowSoftness,
		Range:   orDefault(opts.ShadowRange, render.DefaultShadowRange),
	}

	sub, err := opts.Config.ObserveFloat(config.ShadowSoftness, func(softness float32) {
		rl.Shadow.Radius = softness
	})
	if err != nil {
		return nil, fmt.Errorf("failed to observe shadow softness: %w", err)
	}
	l.sub = sub
	return l, nil
}

// PointLightOptions configures a point light
type PointLightOptions struct {
	Color      mgl32.Vec3
	Intensity  float32
	Position   mgl32.Vec3
	Distance   float32 // zero means 100
	Decay      float32 // zero means 2
	CastShadow bool
}

// NewPointLight creates a light shining in every direction from a point
func NewPointLight(opts PointLightOptions) (*Light, error) {
	return &Light{light: &render.Light{
		Kind:       render.PointLight,
		Color:      orWhite(opts.Color),
		Intensity:  orDefault(opts.Intensity, DefaultIntensity),
		Position:   opts.Position,
		Distance:   orDefault(opts.Distance, DefaultDistance),
		Decay:      orDefault(opts.Decay, DefaultDecay),
		CastShadow: opts.CastShadow,
	}}, nil
}

// SpotLightOptions configures a spot light
type SpotLightOptions struct {
	Color     mgl32.Vec3
	Intensity float32
	Position  mgl32.Vec3
	Target    mgl32.Vec3
	Distance  float32 // zero means 100
	Decay     float32 // zero means 2
	Angle     float32 // half angle in degrees, zero means 45

	CastShadow    bool
	ShadowMapSize int
}

// NewSpotLight creates a cone shaped light pointing at Target
func NewSpotLight(opts SpotLightOptions) (*Light, error) {
	angle := orDefault(opts.Angle, DefaultSpotAngle)
	if angle < 0 || angle >= 90 {
		return nil, fmt.Errorf("spot light angle %v out of range (0, 90)", angle)
	}
	rl := &render.Light{
		Kind:      render.SpotLight,
		Color:     orWhite(opts.Color),
		Intensity: orDefault(opts.Intensity, DefaultIntensity),
		Position:  opts.Position,
		Target:    opts.Target,
		Distance:  orDefault(opts.Distance, DefaultDistance),
		Decay:     orDefault(opts.Decay, DefaultDecay),
		Angle:     mgl32.DegToRad(angle),
		Penumbra:  DefaultSpotPenumbra,
	}
	if opts.CastShadow {
		mapSize := opts.ShadowMapSize
		if mapSize <= 0 {
			mapSize = DefaultShadowMapSize
		}
		rl.CastShadow = true
		rl.Shadow = render.Shadow{MapSize: mapSize, Bias: DefaultShadowBias, Radius: DefaultSpotRadius}
	}
	return &Light{light: rl}, nil
}

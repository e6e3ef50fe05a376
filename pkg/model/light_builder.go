package model

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/leterax/go-sandbox/pkg/config"
	"github.com/leterax/go-sandbox/pkg/render"
)

// LightBuilder fills the options of one light kind fluently. Calls that do
// not apply to the kind are ignored.
type LightBuilder struct {
	builder
	kind        render.LightKind
	ambient     AmbientLightOptions
	directional DirectionalLightOptions
	point       PointLightOptions
	spot        SpotLightOptions
}

// BuildAmbientLight starts an ambient light
func BuildAmbientLight(intensity float32) *LightBuilder {
	return &LightBuilder{kind: render.AmbientLight, ambient: AmbientLightOptions{Intensity: intensity}}
}

// BuildDirectionalLight starts a directional light shining down
func BuildDirectionalLight(intensity float32) *LightBuilder {
	return &LightBuilder{kind: render.DirectionalLight, directional: DirectionalLightOptions{Intensity: intensity}}
}

// BuildPointLight starts a point light
func BuildPointLight(intensity, distance, decay float32) *LightBuilder {
	return &LightBuilder{kind: render.PointLight, point: PointLightOptions{
		Intensity: intensity,
		Distance:  distance,
		Decay:     decay,
	}}
}

// BuildSpotLight starts a spot light with its half angle in degrees
func BuildSpotLight(intensity, distance, angle, decay float32) *LightBuilder {
	return &LightBuilder{kind: render.SpotLight, spot: SpotLightOptions{
		Intensity: intensity,
		Distance:  distance,
		Angle:     angle,
		Decay:     decay,
	}}
}

// AddColor sets the light colour
func (b *LightBuilder) AddColor(color mgl32.Vec3) *LightBuilder {
	if b.open() {
		b.ambient.Color = color
		b.directional.Color = color
		b.point.Color = color
		b.spot.Color = color
	}
	return b
}

// AddIntensity sets the light intensity
func (b *LightBuilder) AddIntensity(intensity float32) *LightBuilder {
	if b.open() {
		b.ambient.Intensity = intensity
		b.directional.Intensity = intensity
		b.point.Intensity = intensity
		b.spot.Intensity = intensity
	}
	return b
}

// AddPosition places the light
func (b *LightBuilder) AddPosition(position mgl32.Vec3) *LightBuilder {
	if b.open() {
		b.directional.Position = position
		b.point.Position = position
		b.spot.Position = position
	}
	return b
}

// AddRotation turns a directional light, in degrees
func (b *LightBuilder) AddRotation(degrees mgl32.Vec3) *LightBuilder {
	if b.open() {
		b.directional.Rotation = degrees
	}
	return b
}

// AddTarget points a spot light at target
func (b *LightBuilder) AddTarget(target mgl32.Vec3) *LightBuilder {
	if b.open() {
		b.spot.Target = target
	}
	return b
}

// AddDistance sets the range of point and spot lights
func (b *LightBuilder) AddDistance(distance float32) *LightBuilder {
	if b.open() {
		b.point.Distance = distance
		b.spot.Distance = distance
	}
	return b
}

// AddDecay sets the falloff of point and spot lights
func (b *LightBuilder) AddDecay(decay float32) *LightBuilder {
	if b.open() {
		b.point.Decay = decay
		b.spot.Decay = decay
	}
	return b
}

// AddShadow enables shadows. shadowRange only applies to directional lights,
// store binds their softness to the settings.
func (b *LightBuilder) AddShadow(shadowRange float32, store *config.Store) *LightBuilder {
	if b.open() {
		b.directional.CastShadow = true
		b.directional.ShadowRange = shadowRange
		b.directional.Config = store
		b.point.CastShadow = true
		b.spot.CastShadow = true
	}
	return b
}

// AddHelper draws a marker at a directional light
func (b *LightBuilder) AddHelper() *LightBuilder {
	if b.open() {
		b.directional.Helper = true
	}
	return b
}

// End builds the light. It may only be called once.
func (b *LightBuilder) End() (*Light, error) {
	if err := b.finish(); err != nil {
		return nil, err
	}
	switch b.kind {
	case render.DirectionalLight:
		return NewDirectionalLight(b.directional)
	case render.PointLight:
		return NewPointLight(b.point)
	case render.SpotLight:
		return NewSpotLight(b.spot)
	default:
		return NewAmbientLight(b.ambient)
	}
}

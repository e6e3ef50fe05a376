package controller

import (
	"math"

	"github.com/charmbracelet/harmonica"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/leterax/go-sandbox/pkg/input"
)

// Speed ramp rates, per second
const (
	RampRate  = 3
	DecayRate = 6
)

// Zoom narrows the field of view to a third while held
const (
	zoomFactor    = 3
	zoomFrequency = 12.0
	zoomDamping   = 1.0
)

// moveInput returns the unit length input direction in the local frame
// (-Z forward, +X right). Diagonals are normalized.
func moveInput(keys *input.KeyManager) mgl32.Vec3 {
	var v mgl32.Vec3
	if keys.Held(input.MoveForward) {
		v[2]--
	}
	if keys.Held(input.MoveBackward) {
		v[2]++
	}
	if keys.Held(input.MoveRight) {
		v[0]++
	}
	if keys.Held(input.MoveLeft) {
		v[0]--
	}
	if v.Len() > 0 {
		v = v.Normalize()
	}
	return v
}

// approach moves speed exponentially toward target and keeps it in [lo, hi]
func approach(speed, target, lo, hi, dt float32) float32 {
	rate := float32(DecayRate)
	if target > speed {
		rate = RampRate
	}
	speed += (target - speed) * (1 - float32(math.Exp(float64(-rate*dt))))
	return mgl32.Clamp(speed, lo, hi)
}

// zoom springs the field of view toward a narrower angle while the zoom
// action is held and back when it is released
type zoom struct {
	spring harmonica.Spring
	dt     float32
	fov    float64
	vel    float64
}

func newZoom(fov float32) zoom {
	return zoom{fov: float64(fov)}
}

// update advances the spring and returns the field of view to use
func (z *zoom) update(dt, base float32, held bool) float32 {
	if dt <= 0 {
		return float32(z.fov)
	}
	if dt != z.dt {
		z.spring = harmonica.NewSpring(float64(dt), zoomFrequency, zoomDamping)
		z.dt = dt
	}
	target := base
	if held {
		target = base / zoomFactor
	}
	z.fov, z.vel = z.spring.Update(z.fov, z.vel, float64(target))
	return float32(z.fov)
}

package render

import "github.com/go-gl/mathgl/mgl32"

// WorldUp is the Y-up axis of the world
var WorldUp = mgl32.Vec3{0, 1, 0}

// Camera constants
const (
	// Clip planes
	DefaultNear = 0.1
	DefaultFar  = 1000.0

	// Field of view
	DefaultFOV = 70.0
	MinFOV     = 1.0
	MaxFOV     = 179.0
)

// Shadow defaults
const (
	DefaultShadowMapSize = 1024
	DefaultShadowBias    = -0.0005
	DefaultShadowRange   = 50.0
)

// ClearColor is the background colour
var ClearColor = mgl32.Vec4{0.05, 0.05, 0.1, 1.0}

package input

import "github.com/go-gl/mathgl/mgl32"

// MouseButton identifies a mouse button
type MouseButton int

const (
	MouseLeft MouseButton = iota
	MouseRight // secondary button, captures the pointer
	MouseMiddle
)

// Mouse accumulates cursor movement between ticks. Controllers drain it once
// per update; the delta is a per-tick signal, not a level.
type Mouse struct {
	delta    mgl32.Vec2
	captured bool

	// Absolute cursor tracking
	lastX      float64
	lastY      float64
	firstMouse bool
}

// NewMouse creates an uncaptured mouse
func NewMouse() *Mouse {
	return &Mouse{firstMouse: true}
}

// SetCaptured enables or disables delta accumulation. While released the
// cursor is free and movement does not turn the camera.
func (m *Mouse) SetCaptured(captured bool) {
	m.captured = captured
	m.firstMouse = true
	m.delta = mgl32.Vec2{}
}

// Captured reports whether the pointer is locked to the window
func (m *Mouse) Captured() bool {
	return m.captured
}

// Move adds a relative movement in pixels
func (m *Mouse) Move(dx, dy float64) {
	if !m.captured {
		return
	}
	m.delta = m.delta.Add(mgl32.Vec2{float32(dx), float32(dy)})
}

// HandleCursor converts absolute cursor positions into relative movement
func (m *Mouse) HandleCursor(xpos, ypos float64) {
	if m.firstMouse {
		m.lastX = xpos
		m.lastY = ypos
		m.firstMouse = false
		return
	}

	dx := xpos - m.lastX
	dy := ypos - m.lastY
	m.lastX = xpos
	m.lastY = ypos
	m.Move(dx, dy)
}

// Drain returns the movement since the last drain and resets it to zero
func (m *Mouse) Drain() mgl32.Vec2 {
	d := m.delta
	m.delta = mgl32.Vec2{}
	return d
}

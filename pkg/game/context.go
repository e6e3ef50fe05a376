package game

import (
	"github.com/leterax/go-sandbox/pkg/config"
	"github.com/leterax/go-sandbox/pkg/input"
	"github.com/leterax/go-sandbox/pkg/render"
	"github.com/leterax/go-sandbox/pkg/scene"
)

// Clock returns monotonic seconds
type Clock interface {
	Now() float64
}

// ClockFunc adapts a function to Clock
type ClockFunc func() float64

// Now calls f
func (f ClockFunc) Now() float64 { return f() }

// Context is what the game shares with its systems. It is created once by
// New and handed out explicitly; there is no global instance.
type Context struct {
	Config   *config.Store
	Keys     *input.KeyManager
	Mouse    *input.Mouse
	Renderer *render.Renderer
	Clock    Clock
}

// SceneDeps returns the part of the context a scene needs
func (c *Context) SceneDeps() scene.Deps {
	return scene.Deps{Config: c.Config, Keys: c.Keys, Mouse: c.Mouse}
}

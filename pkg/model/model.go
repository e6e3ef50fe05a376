// Package model holds the entities a scene is built from. Every entity is
// created once from an options struct, added to a render graph, updated each
// tick if it has state to sync, and removed exactly once.
package model

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/leterax/go-sandbox/pkg/physics"
	"github.com/leterax/go-sandbox/pkg/render"
)

var (
	// ErrAlreadyConstructed is returned when a builder is used after End
	ErrAlreadyConstructed = errors.New("model is already constructed")
	// ErrRemoved is returned when a removed model is used
	ErrRemoved = errors.New("model is removed")
	// ErrNoWorld is returned when a collider is requested without a physics world
	ErrNoWorld = errors.New("collider needs a physics world")
)

// Model is a constructed scene entity
type Model interface {
	// Add inserts the model's nodes into graph
	Add(graph *render.Graph) error
	// Remove takes the model out of its graph and releases its physics resources
	Remove() error
	Alive() bool
}

// Updater is implemented by models that sync state every tick
type Updater interface {
	Update(dt float32) error
}

// ColliderType selects how a model takes part in the physics world
type ColliderType int

const (
	NoCollider ColliderType = iota
	Active                  // dynamic body
	Passive                 // fixed body
	Kinematic               // kinematic, position based
)

// String returns the collider type name
func (t ColliderType) String() string {
	switch t {
	case NoCollider:
		return "none"
	case Active:
		return "active"
	case Passive:
		return "passive"
	case Kinematic:
		return "kinematic"
	}
	return "unknown"
}

// bodyDesc returns the rigid body description for t
func (t ColliderType) bodyDesc(translation mgl32.Vec3) physics.RigidBodyDesc {
	switch t {
	case Active:
		return physics.NewDynamicBody(translation)
	case Kinematic:
		return physics.NewKinematicBody(translation)
	default:
		return physics.NewFixedBody(translation)
	}
}

// lifecycle is embedded by every model and tracks where it was added and
// whether it was removed
type lifecycle struct {
	graph   *render.Graph
	removed bool
}

// Alive reports whether the model has not been removed
func (l *lifecycle) Alive() bool {
	return !l.removed
}

func (l *lifecycle) check() error {
	if l.removed {
		return ErrRemoved
	}
	return nil
}

// attach records graph and adds nodes to it
func (l *lifecycle) attach(graph *render.Graph, nodes ...render.Node) error {
	if err := l.check(); err != nil {
		return err
	}
	if graph == nil {
		return errors.New("model needs a render graph")
	}
	for _, n := range nodes {
		graph.Add(n)
	}
	l.graph = graph
	return nil
}

// detach marks the model removed and takes nodes out of the graph it was added to
func (l *lifecycle) detach(nodes ...render.Node) error {
	if err := l.check(); err != nil {
		return err
	}
	l.removed = true
	if l.graph != nil {
		for _, n := range nodes {
			l.graph.Remove(n)
		}
	}
	return nil
}

// builder is the sticky state shared by every fluent builder. The first
// error wins and is reported by End.
type builder struct {
	built bool
	err   error
}

// open reports whether configuration calls may still change the builder
func (b *builder) open() bool {
	if b.err != nil {
		return false
	}
	if b.built {
		b.err = ErrAlreadyConstructed
		return false
	}
	return true
}

// finish moves the builder to its terminal state
func (b *builder) finish() error {
	if b.built {
		return ErrAlreadyConstructed
	}
	b.built = true
	return b.err
}

// Err returns the first configuration error, if any
func (b *builder) Err() error {
	return b.err
}

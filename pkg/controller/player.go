package controller

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/leterax/go-sandbox/pkg/input"
	"github.com/leterax/go-sandbox/pkg/model"
	"github.com/leterax/go-sandbox/pkg/physics"
	"github.com/leterax/go-sandbox/pkg/render"
)

// Player body
const (
	PlayerRadius     = 0.5
	PlayerHalfHeight = 0.9 // of the capsule's cylinder
	EyeHeight        = 0.7 // above the body centre
	groundReach      = 0.15

	playerFriction       = 0.7
	playerLinearDamping  = 0.5
	playerAngularDamping = 1.0
)

// Player speeds in units per second. MaxSpeed is only reached by sprinting
// while airborne.
const (
	BaseSpeed   = 8
	SprintSpeed = 12
	MaxSpeed    = 20
	JumpSpeed   = 25 // vertical speed gained by a jump at base speed
)

// PlayerOptions configures a Player
type PlayerOptions struct {
	Position mgl32.Vec3 // body centre
	Rotation mgl32.Quat // base orientation, zero value means identity
	Axis     CameraAxis
	FOV      float32
	World    *physics.World
	Deps     Deps
}

// Player is a first person controller walking a capsule through the physics
// world. Looking up or down never tilts the walk direction.
type Player struct {
	*view
	deps  Deps
	world *physics.World
	graph *render.Graph

	body     *physics.RigidBody
	collider *physics.Collider
	mesh     *render.Mesh
	jumpSub  input.Subscription

	base mgl32.Quat
	axis CameraAxis

	speed         float32
	grounded      bool
	moving        bool
	jumpRequested bool
	jumpInFlight  bool
}

// NewPlayer creates the capsule body and its camera
func NewPlayer(opts PlayerOptions) (*Player, error) {
	if err := opts.Deps.check(); err != nil {
		return nil, err
	}
	if opts.World == nil {
		return nil, fmt.Errorf("player: %w", model.ErrNoWorld)
	}

	v, err := newView(opts.FOV, opts.Position.Add(mgl32.Vec3{0, EyeHeight, 0}), opts.Deps.Config)
	if err != nil {
		return nil, err
	}

	desc := physics.NewDynamicBody(opts.Position)
	desc.LinearDamping = playerLinearDamping
	desc.AngularDamping = playerAngularDamping
	desc.LockRotations = true
	desc.CanSleep = false
	body := opts.World.CreateRigidBody(desc)

	colliderDesc := physics.NewColliderDesc(physics.Capsule(PlayerHalfHeight, PlayerRadius))
	colliderDesc.Friction = playerFriction
	colliderDesc.Restitution = 0
	collider, err := opts.World.CreateCollider(colliderDesc, body)
	if err != nil {
		opts.World.RemoveRigidBody(body)
		_ = v.release()
		return nil, fmt.Errorf("failed to create player collider: %w", err)
	}

	mesh := render.NewMesh(render.CapsuleGeometry(PlayerHalfHeight, PlayerRadius),
		render.Material{Color: mgl32.Vec3{1, 1, 1}, Roughness: 1})
	mesh.Position = opts.Position
	mesh.CastShadow = true

	p := &Player{
		view:     v,
		deps:     opts.Deps,
		world:    opts.World,
		body:     body,
		collider: collider,
		mesh:     mesh,
		base:     orIdentity(opts.Rotation),
		axis:     opts.Axis.Clamped(),
		speed:    BaseSpeed,
	}

	p.jumpSub, err = opts.Deps.Keys.OnPressKey(input.Jump, func() {
		p.jumpRequested = true
	})
	if err != nil {
		_ = p.Remove()
		return nil, fmt.Errorf("failed to bind jump: %w", err)
	}

	orientation := p.axis.Orientation(p.base)
	p.camera.SetRotation(orientation)
	p.mesh.Rotation = yawOnly(orientation)
	return p, nil
}

func (*Player) sealed() {}

// Kind returns KindPlayer
func (*Player) Kind() Kind { return KindPlayer }

// Add puts the player's capsule into graph
func (p *Player) Add(graph *render.Graph) error {
	if err := p.check(); err != nil {
		return err
	}
	graph.Add(p.mesh)
	p.graph = graph
	return nil
}

// Update runs one tick: look, ground check, jump, walk. world is the world
// the body lives in.
func (p *Player) Update(dt float32, world *physics.World) error {
	if err := p.check(); err != nil {
		return err
	}
	if world == nil {
		world = p.world
	}
	keys := p.deps.Keys

	p.axis = p.axis.Turn(p.deps.Mouse.Drain())
	orientation := p.axis.Orientation(p.base)
	heading := yawOnly(orientation)
	p.camera.SetRotation(orientation)
	p.mesh.Rotation = heading

	p.grounded = p.checkGround(world)
	if p.jumpRequested {
		p.jumpRequested = false
		if p.grounded {
			p.jump()
		}
	}

	dir := moveInput(keys)
	p.moving = dir.Len() > 0
	p.speed = approach(p.speed, p.targetSpeed(keys.Held(input.Sprint)), BaseSpeed, MaxSpeed, dt)

	// Gravity stays with the physics world, only the horizontal part is driven
	vel := heading.Rotate(dir).Mul(p.speed)
	vel[1] = p.body.Linvel().Y()
	p.body.SetLinvel(vel)

	if p.jumpInFlight && ((p.grounded && vel.Y() <= 0) || vel.Len() == 0) {
		p.jumpInFlight = false
	}

	position := p.body.Translation()
	p.mesh.Position = position
	p.camera.SetPosition(position.Add(mgl32.Vec3{0, EyeHeight, 0}))

	p.applyZoom(dt, keys.Held(input.Zoom))
	return nil
}

// checkGround casts a short ray down from the bottom of the capsule's cylinder
func (p *Player) checkGround(world *physics.World) bool {
	foot := p.body.Translation().Sub(mgl32.Vec3{0, PlayerHalfHeight, 0})
	ray := physics.Ray{Origin: foot, Dir: mgl32.Vec3{0, -1, 0}}
	_, hit := world.CastRay(ray, PlayerRadius+groundReach, true, p.collider)
	return hit
}

// targetSpeed is the speed the ramp heads for. Sprinting in the air keeps
// accelerating toward MaxSpeed so chained jumps build momentum.
func (p *Player) targetSpeed(sprint bool) float32 {
	switch {
	case !sprint || !p.moving:
		return BaseSpeed
	case !p.grounded:
		return MaxSpeed
	default:
		return SprintSpeed
	}
}

// jump pushes the body up. Faster players jump lower.
func (p *Player) jump() {
	fraction := (p.speed - BaseSpeed) / (MaxSpeed - BaseSpeed)
	impulse := JumpSpeed * p.body.Mass() * (1 - 0.5*fraction)
	p.body.ApplyImpulse(mgl32.Vec3{0, impulse, 0})
	p.jumpInFlight = true
}

// Pose snapshots the eye position and look state for a mode switch
func (p *Player) Pose() Pose {
	return Pose{
		Position: p.body.Translation().Add(mgl32.Vec3{0, EyeHeight, 0}),
		Base:     yawOnly(p.base),
		Axis:     p.axis,
	}
}

// Axis returns the accumulated look angles
func (p *Player) Axis() CameraAxis { return p.axis }

// Speed returns the current walk speed
func (p *Player) Speed() float32 { return p.speed }

// Grounded reports whether the last ground check hit something
func (p *Player) Grounded() bool { return p.grounded }

// Moving reports whether a move key was held last tick
func (p *Player) Moving() bool { return p.moving }

// JumpInFlight reports whether a jump has not landed yet
func (p *Player) JumpInFlight() bool { return p.jumpInFlight }

// Body returns the capsule body
func (p *Player) Body() *physics.RigidBody { return p.body }

// Collider returns the capsule collider
func (p *Player) Collider() *physics.Collider { return p.collider }

// Mesh returns the capsule mesh
func (p *Player) Mesh() *render.Mesh { return p.mesh }

// Remove releases the body, the jump binding and the capsule mesh
func (p *Player) Remove() error {
	if err := p.release(); err != nil {
		return err
	}
	p.jumpSub.Unsubscribe()
	p.world.RemoveCollider(p.collider, true)
	p.world.RemoveRigidBody(p.body)
	if p.graph != nil {
		p.graph.Remove(p.mesh)
	}
	return nil
}

// PlayerBuilder fills PlayerOptions fluently
type PlayerBuilder struct {
	builder
	opts PlayerOptions
}

// BuildPlayer starts a player with the given field of view, zero meaning the
// configured one
func BuildPlayer(fov float32, deps Deps) *PlayerBuilder {
	return &PlayerBuilder{opts: PlayerOptions{FOV: fov, Deps: deps}}
}

// AddPosition sets the body centre
func (b *PlayerBuilder) AddPosition(position mgl32.Vec3) *PlayerBuilder {
	if b.open() {
		b.opts.Position = position
	}
	return b
}

// AddRotation sets the base orientation
func (b *PlayerBuilder) AddRotation(rotation mgl32.Quat) *PlayerBuilder {
	if b.open() {
		b.opts.Rotation = rotation
	}
	return b
}

// AddAxis sets the initial look angles
func (b *PlayerBuilder) AddAxis(axis CameraAxis) *PlayerBuilder {
	if b.open() {
		b.opts.Axis = axis
	}
	return b
}

// AddCollider sets the world the body lives in
func (b *PlayerBuilder) AddCollider(world *physics.World) *PlayerBuilder {
	if b.open() {
		b.opts.World = world
	}
	return b
}

// End builds the player. It may only be called once.
func (b *PlayerBuilder) End() (*Player, error) {
	if err := b.finish(); err != nil {
		return nil, err
	}
	return NewPlayer(b.opts)
}

package model

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/leterax/go-sandbox/pkg/physics"
	"github.com/leterax/go-sandbox/pkg/render"
)

// CubeOptions configures a Cube
type CubeOptions struct {
	Size     mgl32.Vec3 // full extents, zero means a unit cube
	Position mgl32.Vec3
	Rotation mgl32.Quat // zero value means identity
	Material render.Material
	Shadows  bool // cast and receive

	Collider    ColliderType
	World       *physics.World // required with a collider
	Friction    float32        // zero keeps the physics default
	Restitution float32
}

// Cube is a box mesh, optionally bound to a rigid body
type Cube struct {
	lifecycle

	mesh     *render.Mesh
	world    *physics.World
	body     *physics.RigidBody
	collider *physics.Collider
}

// NewCube creates the mesh and, if requested, the rigid body and collider at
// the final position and rotation
func NewCube(opts CubeOptions) (*Cube, error) {
	size := opts.Size
	if size == (mgl32.Vec3{}) {
		size = mgl32.Vec3{1, 1, 1}
	}
	rotation := opts.Rotation
	if rotation == (mgl32.Quat{}) {
		rotation = mgl32.QuatIdent()
	}
	material := opts.Material
	if material.Color == (mgl32.Vec3{}) {
		material.Color = mgl32.Vec3{1, 1, 1}
	}

	mesh := render.NewMesh(render.Box(size), material)
	mesh.Position = opts.Position
	mesh.Rotation = rotation
	mesh.CastShadow = opts.Shadows
	mesh.ReceiveShadow = opts.Shadows

	c := &Cube{mesh: mesh}
	if opts.Collider == NoCollider {
		return c, nil
	}
	if opts.World == nil {
		return nil, fmt.Errorf("%s cube: %w", opts.Collider, ErrNoWorld)
	}

	desc := opts.Collider.bodyDesc(opts.Position)
	desc.Rotation = rotation
	body := opts.World.CreateRigidBody(desc)

	colliderDesc := physics.NewColliderDesc(physics.Cuboid(size.X()/2, size.Y()/2, size.Z()/2))
	if opts.Friction > 0 {
		colliderDesc.Friction = opts.Friction
	}
	colliderDesc.Restitution = opts.Restitution
	collider, err := opts.World.CreateCollider(colliderDesc, body)
	if err != nil {
		opts.World.RemoveRigidBody(body)
		return nil, fmt.Errorf("failed to create cube collider: %w", err)
	}

	c.world = opts.World
	c.body = body
	c.collider = collider
	return c, nil
}

// Add puts the cube's mesh into graph
func (c *Cube) Add(graph *render.Graph) error {
	return c.attach(graph, c.mesh)
}

// Update copies the body transform onto the mesh
func (c *Cube) Update(float32) error {
	if err := c.check(); err != nil {
		return err
	}
	if c.body != nil {
		c.mesh.Position = c.body.Translation()
		c.mesh.Rotation = c.body.Rotation()
	}
	return nil
}

// Get returns the cube's mesh
func (c *Cube) Get() (*render.Mesh, error) {
	if err := c.check(); err != nil {
		return nil, err
	}
	return c.mesh, nil
}

// Body returns the rigid body, nil without a collider
func (c *Cube) Body() *physics.RigidBody {
	return c.body
}

// Collider returns the collider, nil without one
func (c *Cube) Collider() *physics.Collider {
	return c.collider
}

// MoveTo places the cube. Bodies are moved through the physics world and
// picked up by the next Update.
func (c *Cube) MoveTo(position mgl32.Vec3) error {
	if err := c.check(); err != nil {
		return err
	}
	if c.body != nil {
		c.body.SetTranslation(position)
		return nil
	}
	c.mesh.Position = position
	return nil
}

// Remove takes the mesh out of its graph and frees the physics resources
func (c *Cube) Remove() error {
	if err := c.detach(c.mesh); err != nil {
		return err
	}
	if c.world != nil {
		c.world.RemoveCollider(c.collider, true)
		c.world.RemoveRigidBody(c.body)
	}
	return nil
}

// CubeBuilder fills CubeOptions fluently
type CubeBuilder struct {
	builder
	opts CubeOptions
}

// BuildCube starts a cube of the given full extents
func BuildCube(size mgl32.Vec3) *CubeBuilder {
	return &CubeBuilder{opts: CubeOptions{Size: size}}
}

// AddPosition sets the cube centre
func (b *CubeBuilder) AddPosition(position mgl32.Vec3) *CubeBuilder {
	if b.open() {
		b.opts.Position = position
	}
	return b
}

// AddRotation sets the cube orientation
func (b *CubeBuilder) AddRotation(rotation mgl32.Quat) *CubeBuilder {
	if b.open() {
		b.opts.Rotation = rotation
	}
	return b
}

// AddMaterial sets the surface material
func (b *CubeBuilder) AddMaterial(material render.Material) *CubeBuilder {
	if b.open() {
		b.opts.Material = material
	}
	return b
}

// AddShadow makes the cube cast and receive shadows
func (b *CubeBuilder) AddShadow() *CubeBuilder {
	if b.open() {
		b.opts.Shadows = true
	}
	return b
}

// AddCollider gives the cube a body of colliderType in world
func (b *CubeBuilder) AddCollider(colliderType ColliderType, world *physics.World) *CubeBuilder {
	if b.open() {
		b.opts.Collider = colliderType
		b.opts.World = world
	}
	return b
}

// AddRestitution sets the collider bounciness
func (b *CubeBuilder) AddRestitution(restitution float32) *CubeBuilder {
	if b.open() {
		b.opts.Restitution = restitution
	}
	return b
}

// End builds the cube. It may only be called once.
func (b *CubeBuilder) End() (*Cube, error) {
	if err := b.finish(); err != nil {
		return nil, err
	}
	return NewCube(b.opts)
}

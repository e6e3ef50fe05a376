package physics

import "github.com/go-gl/mathgl/mgl32"

// ColliderDesc describes a collider to attach to a body
type ColliderDesc struct {
	Shape       Shape
	Translation mgl32.Vec3 // offset from the body origin
	Rotation    mgl32.Quat // zero value means identity
	Density     float32    // zero value means 1
	Friction    float32
	Restitution float32
}

// NewColliderDesc returns a desc for shape with density 1 and friction 0.5
func NewColliderDesc(shape Shape) ColliderDesc {
	return ColliderDesc{Shape: shape, Density: 1, Friction: 0.5}
}

// Collider is a shape attached to a rigid body
type Collider struct {
	body        *RigidBody
	shape       Shape
	translation mgl32.Vec3
	rotation    mgl32.Quat
	density     float32
	friction    float32
	restitution float32
	removed     bool
}

// Body returns the body the collider is attached to
func (c *Collider) Body() *RigidBody {
	return c.body
}

// Shape returns the collider shape
func (c *Collider) Shape() Shape {
	return c.shape
}

// Friction returns the friction coefficient
func (c *Collider) Friction() float32 {
	return c.friction
}

// Restitution returns the bounciness in [0, 1]
func (c *Collider) Restitution() float32 {
	return c.restitution
}

// Mass returns density times volume
func (c *Collider) Mass() float32 {
	return c.density * c.shape.Volume()
}

// Removed reports whether the collider was removed from its world
func (c *Collider) Removed() bool {
	return c.removed
}

// Pose returns the world position and orientation of the collider
func (c *Collider) Pose() (mgl32.Vec3, mgl32.Quat) {
	rot := c.body.rotation
	center := c.body.translation.Add(rot.Rotate(c.translation))
	return center, rot.Mul(c.rotation)
}

// Bounds returns the world AABB of the collider
func (c *Collider) Bounds() AABB {
	center, rot := c.Pose()
	if c.shape.Kind == ShapeBall {
		rot = mgl32.QuatIdent()
	}
	return boundsOf(center, rot, c.shape.localHalfExtents())
}

// castRay intersects ray with the collider. It returns the time of impact in
// units of the ray direction and the surface normal.
func (c *Collider) castRay(ray Ray, solid bool) (float32, mgl32.Vec3, bool) {
	center, rot := c.Pose()
	inv := rot.Conjugate()
	origin := inv.Rotate(ray.Origin.Sub(center))
	dir := inv.Rotate(ray.Dir)

	var (
		toi    float32
		normal mgl32.Vec3
		ok     bool
	)
	if c.shape.Kind == ShapeBall {
		toi, normal, ok = raySphere(origin, dir, c.shape.Radius, solid)
	} else {
		toi, normal, ok = rayBox(origin, dir, c.shape.localHalfExtents(), solid)
	}
	if !ok {
		return 0, mgl32.Vec3{}, false
	}
	return toi, rot.Rotate(normal), true
}

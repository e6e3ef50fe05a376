package physics

import "github.com/go-gl/mathgl/mgl32"

// BodyType selects how a rigid body participates in the simulation
type BodyType int

const (
	// Dynamic bodies are moved by gravity, impulses and contacts
	Dynamic BodyType = iota
	// Fixed bodies never move
	Fixed
	// KinematicPositionBased bodies move only when their translation is set
	KinematicPositionBased
)

// String returns the body type name
func (t BodyType) String() string {
	switch t {
	case Dynamic:
		return "dynamic"
	case Fixed:
		return "fixed"
	case KinematicPositionBased:
		return "kinematic"
	}
	return "unknown"
}

// RigidBodyDesc describes a body to create
type RigidBodyDesc struct {
	Type           BodyType
	Translation    mgl32.Vec3
	Rotation       mgl32.Quat // zero value means identity
	Linvel         mgl32.Vec3
	LinearDamping  float32
	AngularDamping float32
	GravityScale   float32 // zero value means 1
	LockRotations  bool
	CanSleep       bool
}

// NewDynamicBody returns a desc for a dynamic body at translation
func NewDynamicBody(translation mgl32.Vec3) RigidBodyDesc {
	return RigidBodyDesc{Type: Dynamic, Translation: translation, CanSleep: true}
}

// NewFixedBody returns a desc for a fixed body at translation
func NewFixedBody(translation mgl32.Vec3) RigidBodyDesc {
	return RigidBodyDesc{Type: Fixed, Translation: translation}
}

// NewKinematicBody returns a desc for a kinematic position based body
func NewKinematicBody(translation mgl32.Vec3) RigidBodyDesc {
	return RigidBodyDesc{Type: KinematicPositionBased, Translation: translation}
}

const (
	sleepSpeed = 0.05
	sleepSteps = 30
)

// RigidBody is a simulated body. Colliders attached to it move with it.
type RigidBody struct {
	world *World

	bodyType       BodyType
	translation    mgl32.Vec3
	rotation       mgl32.Quat
	linvel         mgl32.Vec3
	angvel         mgl32.Vec3
	linearDamping  float32
	angularDamping float32
	gravityScale   float32
	enabledRot     [3]bool
	canSleep       bool

	colliders []*Collider
	mass      float32
	sleeping  bool
	still     int
	removed   bool
}

// Type returns the body type
func (b *RigidBody) Type() BodyType {
	return b.bodyType
}

// IsDynamic reports whether the body is simulated
func (b *RigidBody) IsDynamic() bool {
	return b.bodyType == Dynamic
}

// Translation returns the world position of the body
func (b *RigidBody) Translation() mgl32.Vec3 {
	return b.translation
}

// SetTranslation teleports the body and wakes it
func (b *RigidBody) SetTranslation(t mgl32.Vec3) {
	b.translation = t
	b.WakeUp()
}

// Rotation returns the world orientation of the body
func (b *RigidBody) Rotation() mgl32.Quat {
	return b.rotation
}

// SetRotation sets the body orientation and wakes it
func (b *RigidBody) SetRotation(q mgl32.Quat) {
	b.rotation = q.Normalize()
	b.WakeUp()
}

// Linvel returns the linear velocity
func (b *RigidBody) Linvel() mgl32.Vec3 {
	return b.linvel
}

// SetLinvel sets the linear velocity and wakes the body
func (b *RigidBody) SetLinvel(v mgl32.Vec3) {
	b.linvel = v
	b.WakeUp()
}

// Angvel returns the angular velocity in radians per second
func (b *RigidBody) Angvel() mgl32.Vec3 {
	return b.angvel
}

// SetAngvel sets the angular velocity. Locked axes stay at zero.
func (b *RigidBody) SetAngvel(v mgl32.Vec3) {
	b.angvel = b.maskRotation(v)
	b.WakeUp()
}

// ApplyImpulse changes the velocity of a dynamic body by impulse/mass
func (b *RigidBody) ApplyImpulse(impulse mgl32.Vec3) {
	if b.bodyType != Dynamic {
		return
	}
	b.linvel = b.linvel.Add(impulse.Mul(b.InvMass()))
	b.WakeUp()
}

// SetEnabledRotations enables or disables rotation around each axis
func (b *RigidBody) SetEnabledRotations(x, y, z bool) {
	b.enabledRot = [3]bool{x, y, z}
	b.angvel = b.maskRotation(b.angvel)
}

// LockRotations stops the body from rotating at all
func (b *RigidBody) LockRotations() {
	b.SetEnabledRotations(false, false, false)
}

func (b *RigidBody) maskRotation(v mgl32.Vec3) mgl32.Vec3 {
	for i, enabled := range b.enabledRot {
		if !enabled {
			v[i] = 0
		}
	}
	return v
}

// Mass returns the sum of the collider masses, or 1 for a body without colliders
func (b *RigidBody) Mass() float32 {
	if b.mass <= 0 {
		return 1
	}
	return b.mass
}

// InvMass returns the inverse mass, zero for non dynamic bodies
func (b *RigidBody) InvMass() float32 {
	if b.bodyType != Dynamic {
		return 0
	}
	return 1 / b.Mass()
}

// Colliders returns the colliders attached to the body
func (b *RigidBody) Colliders() []*Collider {
	return b.colliders
}

// Sleeping reports whether the body has come to rest and stopped simulating
func (b *RigidBody) Sleeping() bool {
	return b.sleeping
}

// WakeUp resumes simulation of a sleeping body
func (b *RigidBody) WakeUp() {
	b.sleeping = false
	b.still = 0
}

// Removed reports whether the body was removed from its world
func (b *RigidBody) Removed() bool {
	return b.removed
}

// integrate advances a dynamic body by one step
func (b *RigidBody) integrate(gravity mgl32.Vec3, dt float32) {
	if b.bodyType != Dynamic || b.sleeping {
		return
	}

	b.linvel = b.linvel.Add(gravity.Mul(b.gravityScale * dt))
	b.linvel = b.linvel.Mul(1 / (1 + dt*b.linearDamping))
	b.angvel = b.maskRotation(b.angvel.Mul(1 / (1 + dt*b.angularDamping)))

	b.translation = b.translation.Add(b.linvel.Mul(dt))
	if b.angvel.Len() > 0 {
		b.rotation = stepRotation(b.rotation, b.angvel, dt)
	}
}

// updateSleep puts the body to sleep after it stayed still for a while
func (b *RigidBody) updateSleep() {
	if b.bodyType != Dynamic || !b.canSleep || b.sleeping {
		return
	}
	if b.linvel.Len() < sleepSpeed && b.angvel.Len() < sleepSpeed {
		b.still++
		if b.still >= sleepSteps {
			b.sleeping = true
			b.linvel = mgl32.Vec3{}
			b.angvel = mgl32.Vec3{}
		}
		return
	}
	b.still = 0
}

// stepRotation integrates an angular velocity into an orientation
func stepRotation(q mgl32.Quat, angvel mgl32.Vec3, dt float32) mgl32.Quat {
	angle := angvel.Len() * dt
	dq := mgl32.QuatRotate(angle, angvel.Normalize())
	return dq.Mul(q).Normalize()
}

// Package physics is a small rigid body world: gravity, damping, box shaped
// contacts and ray casts.
package physics

import (
	"errors"
	"fmt"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
)

// TimeStep is the fixed duration of one Step in seconds
const TimeStep float32 = 1.0 / 60.0

const (
	solverIterations = 4
	bounceThreshold  = 1.0 // slower impacts do not bounce
	wakeMargin       = 0.1
)

var (
	ErrNoBody       = errors.New("collider needs a rigid body")
	ErrForeignBody  = errors.New("rigid body belongs to another world")
	ErrRemoved      = errors.New("rigid body was removed")
	ErrInvalidShape = errors.New("invalid collider shape")
	ErrInvalidDesc  = errors.New("invalid collider description")
)

// World owns bodies and colliders and advances them in fixed steps
type World struct {
	gravity   mgl32.Vec3
	bodies    []*RigidBody
	colliders []*Collider
	steps     uint64
}

// NewWorld creates an empty world
func NewWorld(gravity mgl32.Vec3) *World {
	return &World{gravity: gravity}
}

// Gravity returns the gravity vector
func (w *World) Gravity() mgl32.Vec3 {
	return w.gravity
}

// SetGravity changes gravity and wakes every body so the change takes effect
func (w *World) SetGravity(g mgl32.Vec3) {
	w.gravity = g
	for _, b := range w.bodies {
		b.WakeUp()
	}
}

// Bodies returns the live bodies
func (w *World) Bodies() []*RigidBody {
	return w.bodies
}

// Colliders returns the live colliders
func (w *World) Colliders() []*Collider {
	return w.colliders
}

// Steps returns the number of steps taken
func (w *World) Steps() uint64 {
	return w.steps
}

// CreateRigidBody adds a body described by desc
func (w *World) CreateRigidBody(desc RigidBodyDesc) *RigidBody {
	rot := desc.Rotation
	if rot == (mgl32.Quat{}) {
		rot = mgl32.QuatIdent()
	}
	gravityScale := desc.GravityScale
	if gravityScale == 0 {
		gravityScale = 1
	}

	b := &RigidBody{
		world:          w,
		bodyType:       desc.Type,
		translation:    desc.Translation,
		rotation:       rot.Normalize(),
		linvel:         desc.Linvel,
		linearDamping:  desc.LinearDamping,
		angularDamping: desc.AngularDamping,
		gravityScale:   gravityScale,
		enabledRot:     [3]bool{true, true, true},
		canSleep:       desc.CanSleep,
	}
	if desc.LockRotations {
		b.LockRotations()
	}
	w.bodies = append(w.bodies, b)
	return b
}

// CreateCollider attaches a collider described by desc to body
func (w *World) CreateCollider(desc ColliderDesc, body *RigidBody) (*Collider, error) {
	if body == nil {
		return nil, ErrNoBody
	}
	if body.world != w {
		return nil, ErrForeignBody
	}
	if body.removed {
		return nil, ErrRemoved
	}
	if !desc.Shape.valid() {
		return nil, fmt.Errorf("%w: %s %+v", ErrInvalidShape, desc.Shape.Kind, desc.Shape)
	}
	if desc.Density < 0 || desc.Friction < 0 || desc.Restitution < 0 || desc.Restitution > 1 {
		return nil, fmt.Errorf("%w: density %v friction %v restitution %v",
			ErrInvalidDesc, desc.Density, desc.Friction, desc.Restitution)
	}

	rot := desc.Rotation
	if rot == (mgl32.Quat{}) {
		rot = mgl32.QuatIdent()
	}
	density := desc.Density
	if density == 0 {
		density = 1
	}

	c := &Collider{
		body:        body,
		shape:       desc.Shape,
		translation: desc.Translation,
		rotation:    rot.Normalize(),
		density:     density,
		friction:    desc.Friction,
		restitution: desc.Restitution,
	}
	body.colliders = append(body.colliders, c)
	body.mass += c.Mass()
	body.WakeUp()
	w.colliders = append(w.colliders, c)
	return c, nil
}

// RemoveRigidBody removes body and all of its colliders
func (w *World) RemoveRigidBody(body *RigidBody) {
	if body == nil || body.removed || body.world != w {
		return
	}
	for _, c := range slices.Clone(body.colliders) {
		w.RemoveCollider(c, true)
	}
	body.removed = true
	w.bodies = slices.DeleteFunc(w.bodies, func(b *RigidBody) bool { return b == body })
}

// RemoveCollider detaches c from its body. With wakeUp set, sleeping bodies
// touching c are woken so they can react to its absence.
func (w *World) RemoveCollider(c *Collider, wakeUp bool) {
	if c == nil || c.removed || c.body.world != w {
		return
	}
	bounds := c.Bounds().Expand(wakeMargin)

	c.removed = true
	w.colliders = slices.DeleteFunc(w.colliders, func(o *Collider) bool { return o == c })
	body := c.body
	body.colliders = slices.DeleteFunc(body.colliders, func(o *Collider) bool { return o == c })
	body.mass -= c.Mass()
	if len(body.colliders) == 0 {
		body.mass = 0
	}

	if !wakeUp {
		return
	}
	for _, o := range w.colliders {
		if o.body.sleeping && o.Bounds().Overlaps(bounds) {
			o.body.WakeUp()
		}
	}
}

// Step advances the world by TimeStep
func (w *World) Step() {
	for _, b := range w.bodies {
		b.integrate(w.gravity, TimeStep)
	}
	for range solverIterations {
		w.resolveContacts()
	}
	for _, b := range w.bodies {
		b.updateSleep()
	}
	w.steps++
}

// awake reports whether b is a dynamic body that is currently simulated
func awake(b *RigidBody) bool {
	return b.bodyType == Dynamic && !b.sleeping
}

func (w *World) resolveContacts() {
	for i, a := range w.colliders {
		for _, b := range w.colliders[i+1:] {
			if a.body == b.body {
				continue
			}
			if !awake(a.body) && !awake(b.body) {
				continue
			}
			resolvePair(a, b)
		}
	}
}

func contactInvMass(b *RigidBody) float32 {
	if b.sleeping {
		return 0
	}
	return b.InvMass()
}

// resolvePair separates two overlapping colliders along the axis of least
// penetration and removes their approaching velocity
func resolvePair(ca, cb *Collider) {
	aa, bb := ca.Bounds(), cb.Bounds()
	if !aa.Overlaps(bb) {
		return
	}

	axis := -1
	var pen float32
	for i := range 3 {
		overlap := min(aa.Max[i], bb.Max[i]) - max(aa.Min[i], bb.Min[i])
		if axis < 0 || overlap < pen {
			axis = i
			pen = overlap
		}
	}
	if pen <= 0 {
		return
	}

	a, b := ca.body, cb.body
	// Sleeping bodies hold still like fixed ones until woken explicitly
	ia, ib := contactInvMass(a), contactInvMass(b)
	total := ia + ib
	if total == 0 {
		return
	}

	// Normal points from b towards a
	var n mgl32.Vec3
	ac := aa.Min.Add(aa.Max).Mul(0.5)
	bc := bb.Min.Add(bb.Max).Mul(0.5)
	if ac[axis] < bc[axis] {
		n[axis] = -1
	} else {
		n[axis] = 1
	}

	a.translation = a.translation.Add(n.Mul(pen * ia / total))
	b.translation = b.translation.Sub(n.Mul(pen * ib / total))

	rel := a.linvel.Sub(b.linvel)
	vn := rel.Dot(n)
	if vn >= 0 {
		return
	}

	e := (ca.restitution + cb.restitution) / 2
	if -vn < bounceThreshold {
		e = 0
	}
	j := -(1 + e) * vn / total
	a.linvel = a.linvel.Add(n.Mul(j * ia))
	b.linvel = b.linvel.Sub(n.Mul(j * ib))

	// Coulomb friction on the tangential part of the relative velocity
	tangent := rel.Sub(n.Mul(vn))
	tl := tangent.Len()
	if tl < 1e-6 {
		return
	}
	mu := (ca.friction + cb.friction) / 2
	jt := min(tl/total, mu*j)
	dir := tangent.Mul(1 / tl)
	a.linvel = a.linvel.Sub(dir.Mul(jt * ia))
	b.linvel = b.linvel.Add(dir.Mul(jt * ib))
}

// CastRay returns the closest collider hit by ray within maxToi, ignoring
// exclude. With solid set, a ray starting inside a shape hits it at time zero;
// otherwise it hits the far side.
func (w *World) CastRay(ray Ray, maxToi float32, solid bool, exclude *Collider) (Hit, bool) {
	var (
		best  Hit
		found bool
	)
	for _, c := range w.colliders {
		if c == exclude {
			continue
		}
		toi, normal, ok := c.castRay(ray, solid)
		if !ok || toi > maxToi {
			continue
		}
		if !found || toi < best.TOI {
			best = Hit{Collider: c, TOI: toi, Point: ray.PointAt(toi), Normal: normal}
			found = true
		}
	}
	return best, found
}

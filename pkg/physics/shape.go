package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// ShapeKind identifies a collider shape
type ShapeKind int

const (
	ShapeCuboid ShapeKind = iota
	ShapeCapsule
	ShapeBall
)

// String returns the shape name
func (k ShapeKind) String() string {
	switch k {
	case ShapeCuboid:
		return "cuboid"
	case ShapeCapsule:
		return "capsule"
	case ShapeBall:
		return "ball"
	}
	return "unknown"
}

// Shape is the geometry of a collider in its local frame. Capsules are
// aligned with the local Y axis.
type Shape struct {
	Kind        ShapeKind
	HalfExtents mgl32.Vec3 // cuboid
	HalfHeight  float32    // capsule, half the length of the inner segment
	Radius      float32    // capsule and ball
}

// Cuboid returns a box shape with the given half extents
func Cuboid(hx, hy, hz float32) Shape {
	return Shape{Kind: ShapeCuboid, HalfExtents: mgl32.Vec3{hx, hy, hz}}
}

// Capsule returns a Y aligned capsule shape
func Capsule(halfHeight, radius float32) Shape {
	return Shape{Kind: ShapeCapsule, HalfHeight: halfHeight, Radius: radius}
}

// Ball returns a sphere shape
func Ball(radius float32) Shape {
	return Shape{Kind: ShapeBall, Radius: radius}
}

func (s Shape) valid() bool {
	switch s.Kind {
	case ShapeCuboid:
		return s.HalfExtents.X() > 0 && s.HalfExtents.Y() > 0 && s.HalfExtents.Z() > 0
	case ShapeCapsule:
		return s.HalfHeight >= 0 && s.Radius > 0
	case ShapeBall:
		return s.Radius > 0
	}
	return false
}

// Volume returns the shape volume
func (s Shape) Volume() float32 {
	switch s.Kind {
	case ShapeCuboid:
		h := s.HalfExtents
		return 8 * h.X() * h.Y() * h.Z()
	case ShapeCapsule:
		r := s.Radius
		return math.Pi*r*r*2*s.HalfHeight + 4.0/3.0*math.Pi*r*r*r
	case ShapeBall:
		r := s.Radius
		return 4.0 / 3.0 * math.Pi * r * r * r
	}
	return 0
}

// localHalfExtents returns the half extents of the shape's local bounding box
func (s Shape) localHalfExtents() mgl32.Vec3 {
	switch s.Kind {
	case ShapeCuboid:
		return s.HalfExtents
	case ShapeCapsule:
		return mgl32.Vec3{s.Radius, s.HalfHeight + s.Radius, s.Radius}
	case ShapeBall:
		return mgl32.Vec3{s.Radius, s.Radius, s.Radius}
	}
	return mgl32.Vec3{}
}

// AABB is an axis aligned bounding box
type AABB struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// Overlaps reports whether the boxes intersect or touch
func (a AABB) Overlaps(b AABB) bool {
	return a.Min.X() <= b.Max.X() && a.Max.X() >= b.Min.X() &&
		a.Min.Y() <= b.Max.Y() && a.Max.Y() >= b.Min.Y() &&
		a.Min.Z() <= b.Max.Z() && a.Max.Z() >= b.Min.Z()
}

// Expand grows the box by margin on every side
func (a AABB) Expand(margin float32) AABB {
	m := mgl32.Vec3{margin, margin, margin}
	return AABB{Min: a.Min.Sub(m), Max: a.Max.Add(m)}
}

// boundsOf returns the world AABB of a box with the given centre, rotation and
// local half extents
func boundsOf(center mgl32.Vec3, rot mgl32.Quat, half mgl32.Vec3) AABB {
	m := rot.Mat4().Mat3()
	var ext mgl32.Vec3
	for i := range 3 {
		for j := range 3 {
			ext[i] += abs32(m.At(i, j)) * half[j]
		}
	}
	return AABB{Min: center.Sub(ext), Max: center.Add(ext)}
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

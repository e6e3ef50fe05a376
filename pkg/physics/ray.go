package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Ray is a half line starting at Origin. Dir does not need to be normalized;
// times of impact are measured in multiples of Dir.
type Ray struct {
	Origin mgl32.Vec3
	Dir    mgl32.Vec3
}

// PointAt returns the point at time t along the ray
func (r Ray) PointAt(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}

// Hit is the result of a successful ray cast
type Hit struct {
	Collider *Collider
	TOI      float32
	Point    mgl32.Vec3
	Normal   mgl32.Vec3
}

// rayBox is the slab test against a box centred on the origin
func rayBox(origin, dir, half mgl32.Vec3, solid bool) (float32, mgl32.Vec3, bool) {
	tmin := float32(math.Inf(-1))
	tmax := float32(math.Inf(1))
	enterAxis, exitAxis := -1, -1

	for i := range 3 {
		if abs32(dir[i]) < 1e-8 {
			// Parallel to the slab, must start inside it
			if origin[i] < -half[i] || origin[i] > half[i] {
				return 0, mgl32.Vec3{}, false
			}
			continue
		}
		inv := 1 / dir[i]
		t1 := (-half[i] - origin[i]) * inv
		t2 := (half[i] - origin[i]) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
			enterAxis = i
		}
		if t2 < tmax {
			tmax = t2
			exitAxis = i
		}
		if tmin > tmax {
			return 0, mgl32.Vec3{}, false
		}
	}
	if tmax < 0 {
		return 0, mgl32.Vec3{}, false
	}

	if tmin >= 0 {
		var n mgl32.Vec3
		n[enterAxis] = -sign(dir[enterAxis])
		return tmin, n, true
	}

	// The origin is inside the box
	if solid {
		return 0, mgl32.Vec3{}, true
	}
	var n mgl32.Vec3
	if exitAxis >= 0 {
		n[exitAxis] = sign(dir[exitAxis])
	}
	return tmax, n, true
}

// raySphere intersects a ray with a sphere centred on the origin
func raySphere(origin, dir mgl32.Vec3, radius float32, solid bool) (float32, mgl32.Vec3, bool) {
	a := dir.Dot(dir)
	if a == 0 {
		return 0, mgl32.Vec3{}, false
	}
	b := origin.Dot(dir)
	c := origin.Dot(origin) - radius*radius
	disc := b*b - a*c
	if disc < 0 {
		return 0, mgl32.Vec3{}, false
	}
	sq := float32(math.Sqrt(float64(disc)))
	t0 := (-b - sq) / a
	t1 := (-b + sq) / a
	if t1 < 0 {
		return 0, mgl32.Vec3{}, false
	}
	if t0 >= 0 {
		return t0, origin.Add(dir.Mul(t0)).Normalize(), true
	}
	if solid {
		return 0, mgl32.Vec3{}, true
	}
	return t1, origin.Add(dir.Mul(t1)).Normalize(), true
}

func sign(v float32) float32 {
	if v < 0 {
		return -1
	}
	return 1
}

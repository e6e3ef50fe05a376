package render

import (
	"fmt"
	"math"
)

// FloatsPerVertex is the vertex layout of Triangles: position then normal
const FloatsPerVertex = 6

const (
	capsuleSegments = 24
	capsuleRings    = 8 // per hemisphere
)

// Key identifies the geometry for mesh caching
func (g Geometry) Key() string {
	switch g.Kind {
	case GeometryBox:
		return fmt.Sprintf("box:%g,%g,%g", g.Size.X(), g.Size.Y(), g.Size.Z())
	case GeometryCapsule:
		return fmt.Sprintf("capsule:%g,%g", g.HalfHeight, g.Radius)
	case GeometrySphere:
		return fmt.Sprintf("sphere:%g", g.Radius)
	}
	return "unknown"
}

// Triangles returns interleaved position/normal vertices and CCW triangle indices
func (g Geometry) Triangles() ([]float32, []uint32) {
	switch g.Kind {
	case GeometryBox:
		return boxTriangles(g.Size.X()/2, g.Size.Y()/2, g.Size.Z()/2)
	case GeometryCapsule:
		return capsuleTriangles(g.HalfHeight, g.Radius)
	case GeometrySphere:
		return capsuleTriangles(0, g.Radius)
	}
	return nil, nil
}

// unitCube is a 1x1x1 cube: position (3), normal (3)
var unitCube = []float32{
	// Front face
	-0.5, -0.5, 0.5, 0.0, 0.0, 1.0, // Bottom-left
	0.5, -0.5, 0.5, 0.0, 0.0, 1.0, // Bottom-right
	0.5, 0.5, 0.5, 0.0, 0.0, 1.0, // Top-right
	-0.5, 0.5, 0.5, 0.0, 0.0, 1.0, // Top-left

	// Back face
	-0.5, -0.5, -0.5, 0.0, 0.0, -1.0, // Bottom-left
	-0.5, 0.5, -0.5, 0.0, 0.0, -1.0, // Top-left
	0.5, 0.5, -0.5, 0.0, 0.0, -1.0, // Top-right
	0.5, -0.5, -0.5, 0.0, 0.0, -1.0, // Bottom-right

	// Top face
	-0.5, 0.5, -0.5, 0.0, 1.0, 0.0, // Back-left
	-0.5, 0.5, 0.5, 0.0, 1.0, 0.0, // Front-left
	0.5, 0.5, 0.5, 0.0, 1.0, 0.0, // Front-right
	0.5, 0.5, -0.5, 0.0, 1.0, 0.0, // Back-right

	// Bottom face
	-0.5, -0.5, -0.5, 0.0, -1.0, 0.0, // Back-left
	0.5, -0.5, -0.5, 0.0, -1.0, 0.0, // Back-right
	0.5, -0.5, 0.5, 0.0, -1.0, 0.0, // Front-right
	-0.5, -0.5, 0.5, 0.0, -1.0, 0.0, // Front-left

	// Right face
	0.5, -0.5, -0.5, 1.0, 0.0, 0.0, // Bottom-back
	0.5, 0.5, -0.5, 1.0, 0.0, 0.0, // Top-back
	0.5, 0.5, 0.5, 1.0, 0.0, 0.0, // Top-front
	0.5, -0.5, 0.5, 1.0, 0.0, 0.0, // Bottom-front

	// Left face
	-0.5, -0.5, -0.5, -1.0, 0.0, 0.0, // Bottom-back
	-0.5, -0.5, 0.5, -1.0, 0.0, 0.0, // Bottom-front
	-0.5, 0.5, 0.5, -1.0, 0.0, 0.0, // Top-front
	-0.5, 0.5, -0.5, -1.0, 0.0, 0.0, // Top-back
}

func boxTriangles(hx, hy, hz float32) ([]float32, []uint32) {
	vertices := make([]float32, len(unitCube))
	copy(vertices, unitCube)
	for i := 0; i < len(vertices); i += FloatsPerVertex {
		vertices[i] *= 2 * hx
		vertices[i+1] *= 2 * hy
		vertices[i+2] *= 2 * hz
	}

	indices := make([]uint32, 0, 36)
	for face := uint32(0); face < 6; face++ {
		base := face * 4
		indices = append(indices, base, base+1, base+2, base+2, base+3, base)
	}
	return vertices, indices
}

// capsuleTriangles builds a Y aligned capsule as two hemispheres whose
// equators are joined by the cylinder
func capsuleTriangles(halfHeight, radius float32) ([]float32, []uint32) {
	type ring struct {
		phi    float64
		offset float32
	}
	rings := make([]ring, 0, 2*(capsuleRings+1))
	for i := 0; i <= capsuleRings; i++ {
		rings = append(rings, ring{phi: float64(i) / capsuleRings * math.Pi / 2, offset: halfHeight})
	}
	for i := 0; i <= capsuleRings; i++ {
		rings = append(rings, ring{phi: math.Pi/2 + float64(i)/capsuleRings*math.Pi/2, offset: -halfHeight})
	}

	perRing := capsuleSegments + 1
	vertices := make([]float32, 0, len(rings)*perRing*FloatsPerVertex)
	for _, r := range rings {
		sinPhi, cosPhi := math.Sincos(r.phi)
		for j := 0; j <= capsuleSegments; j++ {
			theta := float64(j) / capsuleSegments * 2 * math.Pi
			sinTheta, cosTheta := math.Sincos(theta)
			nx := float32(sinPhi * cosTheta)
			ny := float32(cosPhi)
			nz := float32(sinPhi * sinTheta)
			vertices = append(vertices,
				nx*radius, ny*radius+r.offset, nz*radius,
				nx, ny, nz)
		}
	}

	indices := make([]uint32, 0, (len(rings)-1)*capsuleSegments*6)
	for i := 0; i < len(rings)-1; i++ {
		for j := 0; j < capsuleSegments; j++ {
			a := uint32(i*perRing + j)
			b := a + uint32(perRing)
			indices = append(indices, a, a+1, b, a+1, b+1, b)
		}
	}
	return vertices, indices
}

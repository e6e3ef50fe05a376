package render

import (
	"slices"

	"github.com/go-gl/mathgl/mgl32"
)

// Node is anything that can be placed in a Graph
type Node interface {
	node()
}

// GeometryKind selects a procedural mesh
type GeometryKind int

const (
	GeometryBox GeometryKind = iota
	GeometryCapsule
	GeometrySphere
)

// Geometry describes a procedural mesh in its local frame
type Geometry struct {
	Kind       GeometryKind
	Size       mgl32.Vec3 // box, full extents
	Radius     float32    // capsule and sphere
	HalfHeight float32    // capsule
}

// Box returns box geometry with the given full extents
func Box(size mgl32.Vec3) Geometry {
	return Geometry{Kind: GeometryBox, Size: size}
}

// CapsuleGeometry returns a Y aligned capsule
func CapsuleGeometry(halfHeight, radius float32) Geometry {
	return Geometry{Kind: GeometryCapsule, HalfHeight: halfHeight, Radius: radius}
}

// Material is a simple lit surface
type Material struct {
	Color     mgl32.Vec3
	Roughness float32
	Metalness float32
	Wireframe bool
}

// Mesh is a piece of geometry placed in the world
type Mesh struct {
	Geometry      Geometry
	Material      Material
	Position      mgl32.Vec3
	Rotation      mgl32.Quat
	Scale         mgl32.Vec3
	CastShadow    bool
	ReceiveShadow bool
	Visible       bool
}

// NewMesh creates a visible mesh at the origin
func NewMesh(geometry Geometry, material Material) *Mesh {
	return &Mesh{
		Geometry: geometry,
		Material: material,
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
		Visible:  true,
	}
}

func (*Mesh) node() {}

// ModelMatrix returns the local to world transform
func (m *Mesh) ModelMatrix() mgl32.Mat4 {
	t := mgl32.Translate3D(m.Position.X(), m.Position.Y(), m.Position.Z())
	s := mgl32.Scale3D(m.Scale.X(), m.Scale.Y(), m.Scale.Z())
	return t.Mul4(m.Rotation.Mat4()).Mul4(s)
}

// LightKind identifies a light type
type LightKind int

const (
	AmbientLight LightKind = iota
	DirectionalLight
	PointLight
	SpotLight
)

// String returns the light kind name
func (k LightKind) String() string {
	switch k {
	case AmbientLight:
		return "ambient"
	case DirectionalLight:
		return "directional"
	case PointLight:
		return "point"
	case SpotLight:
		return "spot"
	}
	return "unknown"
}

// Shadow configures the shadow map of a light
type Shadow struct {
	MapSize int
	Bias    float32
	Radius  float32 // blur radius in texels
	Range   float32 // half size of a directional light's shadow volume
}

// Light is a light source. Fields that do not apply to Kind are ignored.
type Light struct {
	Kind       LightKind
	Color      mgl32.Vec3
	Intensity  float32
	Position   mgl32.Vec3
	Target     mgl32.Vec3 // directional and spot
	Distance   float32    // point and spot, zero means unlimited
	Decay      float32    // point and spot
	Angle      float32    // spot, half angle in radians
	Penumbra   float32    // spot, in [0, 1]
	CastShadow bool
	Shadow     Shadow
	Helper     bool // draw a debug marker
}

func (*Light) node() {}

// Direction returns the normalized direction the light shines towards
func (l *Light) Direction() mgl32.Vec3 {
	d := l.Target.Sub(l.Position)
	if d.Len() == 0 {
		return mgl32.Vec3{0, -1, 0}
	}
	return d.Normalize()
}

// Graph is the root of everything drawn in a frame
type Graph struct {
	meshes []*Mesh
	lights []*Light
}

// NewGraph creates an empty graph
func NewGraph() *Graph {
	return &Graph{}
}

// Add inserts n unless it is already present
func (g *Graph) Add(n Node) {
	switch n := n.(type) {
	case *Mesh:
		if !slices.Contains(g.meshes, n) {
			g.meshes = append(g.meshes, n)
		}
	case *Light:
		if !slices.Contains(g.lights, n) {
			g.lights = append(g.lights, n)
		}
	}
}

// Remove deletes n and reports whether it was present
func (g *Graph) Remove(n Node) bool {
	switch n := n.(type) {
	case *Mesh:
		if i := slices.Index(g.meshes, n); i >= 0 {
			g.meshes = slices.Delete(g.meshes, i, i+1)
			return true
		}
	case *Light:
		if i := slices.Index(g.lights, n); i >= 0 {
			g.lights = slices.Delete(g.lights, i, i+1)
			return true
		}
	}
	return false
}

// Contains reports whether n is in the graph
func (g *Graph) Contains(n Node) bool {
	switch n := n.(type) {
	case *Mesh:
		return slices.Contains(g.meshes, n)
	case *Light:
		return slices.Contains(g.lights, n)
	}
	return false
}

// Meshes returns the meshes in insertion order
func (g *Graph) Meshes() []*Mesh {
	return g.meshes
}

// Lights returns the lights in insertion order
func (g *Graph) Lights() []*Light {
	return g.lights
}

// Len returns the number of nodes
func (g *Graph) Len() int {
	return len(g.meshes) + len(g.lights)
}

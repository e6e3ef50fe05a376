// Package gldevice draws render graphs with OpenGL 4.6. A GL context must be
// current on the calling thread.
package gldevice

import (
	_ "embed"
	"fmt"
	"math"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/leterax/go-sandbox/internal/openglhelper"
	"github.com/leterax/go-sandbox/pkg/cache"
	"github.com/leterax/go-sandbox/pkg/render"
)

var (
	//go:embed shaders/lit.vert
	litVert string
	//go:embed shaders/lit.frag
	litFrag string
	//go:embed shaders/depth.vert
	depthVert string
	//go:embed shaders/depth.frag
	depthFrag string
)

const (
	msaaSamples     = 4
	maxPointLights  = 8
	maxSpotLights   = 4
	maxPixelDensity = 2
	helperRadius    = 0.25
)

// Device renders into an offscreen target that is resolved into the window
// framebuffer. With antialiasing the target is multisampled.
type Device struct {
	surface render.Surface
	opts    render.DeviceOptions

	width   int
	height  int
	density float32
	shadows bool

	lit    *openglhelper.Shader
	depth  *openglhelper.Shader
	meshes *cache.Cache[*openglhelper.Mesh]

	target    *openglhelper.Framebuffer
	shadowMap *openglhelper.Framebuffer

	closed bool
}

// New is a render.DeviceFactory
func New(surface render.Surface, opts render.DeviceOptions) (render.Device, error) {
	lit, err := openglhelper.NewShader(litVert, litFrag)
	if err != nil {
		return nil, fmt.Errorf("failed to build lit shader: %w", err)
	}
	depth, err := openglhelper.NewShader(depthVert, depthFrag)
	if err != nil {
		lit.Delete()
		return nil, fmt.Errorf("failed to build depth shader: %w", err)
	}

	d := &Device{
		surface: surface,
		opts:    opts,
		density: 1,
		lit:     lit,
		depth:   depth,
		meshes:  cache.New[*openglhelper.Mesh]("gl meshes"),
	}
	d.width, d.height = surface.Size()

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	if opts.AntiAlias {
		gl.Enable(gl.MULTISAMPLE)
	} else {
		gl.Disable(gl.MULTISAMPLE)
	}

	return d, nil
}

// SetViewportSize sets the output size in screen coordinates
func (d *Device) SetViewportSize(width, height int) {
	d.width = width
	d.height = height
}

// SetPixelDensity sets the target scale, capped at maxPixelDensity
func (d *Device) SetPixelDensity(ratio float32) {
	if ratio <= 0 {
		ratio = 1
	}
	d.density = min(ratio, maxPixelDensity)
}

// SetShadowsEnabled toggles the shadow pass
func (d *Device) SetShadowsEnabled(enabled bool) {
	d.shadows = enabled
	if !enabled && d.shadowMap != nil {
		d.shadowMap.Delete()
		d.shadowMap = nil
	}
}

// Render draws graph from camera and resolves it into the window framebuffer
func (d *Device) Render(graph *render.Graph, camera *render.Camera) error {
	if d.closed {
		return render.ErrDeviceClosed
	}
	if d.width <= 0 || d.height <= 0 {
		return nil
	}

	targetW := int32(float32(d.width) * d.density)
	targetH := int32(float32(d.height) * d.density)
	if err := d.ensureTarget(targetW, targetH); err != nil {
		return err
	}

	lights := collectLights(graph.Lights())

	lightSpace := mgl32.Ident4()
	shadowing := d.shadows && lights.shadowCaster != nil
	if shadowing {
		var err error
		lightSpace, err = d.shadowPass(graph, lights.shadowCaster)
		if err != nil {
			return err
		}
	}

	d.target.Bind()
	gl.ClearColor(render.ClearColor.X(), render.ClearColor.Y(), render.ClearColor.Z(), render.ClearColor.W())
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	d.lit.Use()
	d.lit.SetMat4("view", camera.ViewMatrix())
	d.lit.SetMat4("projection", camera.ProjectionMatrix())
	d.lit.SetMat4("lightSpace", lightSpace)
	d.lit.SetVec3("viewPos", camera.Position())
	d.lit.SetBool("shadowsEnabled", shadowing)
	d.lit.SetInt("shadowMap", 0)
	if shadowing {
		d.shadowMap.BindDepthTexture(0)
		d.lit.SetFloat("shadowBias", lights.shadowCaster.Shadow.Bias)
		d.lit.SetInt("shadowRadius", int32(math.Round(float64(lights.shadowCaster.Shadow.Radius))))
	}
	lights.apply(d.lit)

	for _, mesh := range graph.Meshes() {
		if !mesh.Visible {
			continue
		}
		d.drawLit(mesh, false)
	}
	for _, l := range graph.Lights() {
		if !l.Helper {
			continue
		}
		marker := render.NewMesh(render.Geometry{Kind: render.GeometrySphere, Radius: helperRadius},
			render.Material{Color: l.Color})
		marker.Position = l.Position
		d.drawLit(marker, true)
	}

	fbW, fbH := d.framebufferSize()
	d.target.BlitToDefault(fbW, fbH)
	gl.Viewport(0, 0, fbW, fbH)
	return nil
}

func (d *Device) framebufferSize() (int32, int32) {
	scale := d.surface.ContentScale()
	return int32(float32(d.width) * scale), int32(float32(d.height) * scale)
}

func (d *Device) ensureTarget(width, height int32) error {
	if d.target != nil && d.target.Width == width && d.target.Height == height {
		return nil
	}
	if d.target != nil {
		d.target.Delete()
		d.target = nil
	}

	samples := int32(1)
	if d.opts.AntiAlias {
		samples = msaaSamples
	}
	target, err := openglhelper.NewColorFramebuffer(width, height, samples)
	if err != nil {
		return fmt.Errorf("failed to create render target: %w", err)
	}
	d.target = target
	return nil
}

// shadowPass renders shadow casters into the depth map and returns the light space matrix
func (d *Device) shadowPass(graph *render.Graph, light *render.Light) (mgl32.Mat4, error) {
	size := int32(light.Shadow.MapSize)
	if size <= 0 {
		size = render.DefaultShadowMapSize
	}
	if d.shadowMap == nil || d.shadowMap.Width != size {
		if d.shadowMap != nil {
			d.shadowMap.Delete()
		}
		shadowMap, err := openglhelper.NewDepthFramebuffer(size)
		if err != nil {
			d.shadowMap = nil
			return mgl32.Ident4(), fmt.Errorf("failed to create shadow map: %w", err)
		}
		d.shadowMap = shadowMap
	}

	lightSpace := directionalLightSpace(light)

	d.shadowMap.Bind()
	gl.Clear(gl.DEPTH_BUFFER_BIT)
	gl.CullFace(gl.FRONT)
	d.depth.Use()
	d.depth.SetMat4("lightSpace", lightSpace)
	for _, mesh := range graph.Meshes() {
		if !mesh.Visible || !mesh.CastShadow {
			continue
		}
		d.depth.SetMat4("model", mesh.ModelMatrix())
		d.mesh(mesh.Geometry).Draw()
	}
	gl.CullFace(gl.BACK)

	return lightSpace, nil
}

// directionalLightSpace fits an orthographic volume of the light's shadow range
// around its target
func directionalLightSpace(light *render.Light) mgl32.Mat4 {
	r := light.Shadow.Range
	if r <= 0 {
		r = render.DefaultShadowRange
	}
	up := render.WorldUp
	if math.Abs(float64(light.Direction().Dot(up))) > 0.99 {
		up = mgl32.Vec3{0, 0, 1}
	}
	dist := light.Target.Sub(light.Position).Len()
	projection := mgl32.Ortho(-r, r, -r, r, 0.1, dist+2*r)
	view := mgl32.LookAtV(light.Position, light.Target, up)
	return projection.Mul4(view)
}

func (d *Device) drawLit(mesh *render.Mesh, unlit bool) {
	d.lit.SetMat4("model", mesh.ModelMatrix())
	d.lit.SetVec3("baseColor", mesh.Material.Color)
	d.lit.SetFloat("roughness", mesh.Material.Roughness)
	d.lit.SetFloat("metalness", mesh.Material.Metalness)
	d.lit.SetBool("unlit", unlit)
	d.lit.SetBool("receiveShadow", mesh.ReceiveShadow)

	if mesh.Material.Wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
		d.mesh(mesh.Geometry).Draw()
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
		return
	}
	d.mesh(mesh.Geometry).Draw()
}

// mesh returns the uploaded mesh for g, uploading it on first use
func (d *Device) mesh(g render.Geometry) *openglhelper.Mesh {
	key := g.Key()
	if m, err := d.meshes.Get(key); err == nil {
		return m
	}
	vertices, indices := g.Triangles()
	m := openglhelper.NewMesh(vertices, indices)
	d.meshes.Set(key, m)
	return m
}

// Close releases every GL resource owned by the device
func (d *Device) Close() {
	if d.closed {
		return
	}
	d.closed = true

	d.meshes.Range(func(key string, m *openglhelper.Mesh) bool {
		m.Delete()
		d.meshes.Delete(key)
		return true
	})
	if d.target != nil {
		d.target.Delete()
		d.target = nil
	}
	if d.shadowMap != nil {
		d.shadowMap.Delete()
		d.shadowMap = nil
	}
	d.lit.Delete()
	d.depth.Delete()
}

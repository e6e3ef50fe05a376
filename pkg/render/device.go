package render

import "errors"

// ErrDeviceClosed is returned when rendering with a closed device
var ErrDeviceClosed = errors.New("render device is closed")

// Surface is what a device draws into
type Surface interface {
	// Size returns the drawable size in screen coordinates
	Size() (width, height int)
	// ContentScale returns the ratio of pixels to screen coordinates
	ContentScale() float32
}

// DeviceOptions are fixed for the lifetime of a device
type DeviceOptions struct {
	AntiAlias bool
}

// Device draws a graph as seen by a camera
type Device interface {
	// SetViewportSize sets the output size in screen coordinates. The drawing
	// buffer is that size times the pixel density.
	SetViewportSize(width, height int)
	SetPixelDensity(ratio float32)
	SetShadowsEnabled(enabled bool)
	Render(graph *Graph, camera *Camera) error
	Close()
}

// Target accepts frames. Devices and the Renderer are targets.
type Target interface {
	Render(graph *Graph, camera *Camera) error
}

// DeviceFactory creates a device for surface
type DeviceFactory func(surface Surface, opts DeviceOptions) (Device, error)

// NullDevice records what it was asked to do without drawing anything
type NullDevice struct {
	Options        DeviceOptions
	Width, Height  int
	PixelDensity   float32
	ShadowsEnabled bool
	Frames         int
	LastGraph      *Graph
	LastCamera     *Camera
	Closed         bool
}

// SetViewportSize records the size
func (d *NullDevice) SetViewportSize(width, height int) {
	d.Width = width
	d.Height = height
}

// SetPixelDensity records the density
func (d *NullDevice) SetPixelDensity(ratio float32) {
	d.PixelDensity = ratio
}

// SetShadowsEnabled records the shadow flag
func (d *NullDevice) SetShadowsEnabled(enabled bool) {
	d.ShadowsEnabled = enabled
}

// Render counts the frame and keeps its graph and camera
func (d *NullDevice) Render(graph *Graph, camera *Camera) error {
	if d.Closed {
		return ErrDeviceClosed
	}
	d.Frames++
	d.LastGraph = graph
	d.LastCamera = camera
	return nil
}

// Close marks the device closed
func (d *NullDevice) Close() {
	d.Closed = true
}

// NullFactory hands out NullDevices and remembers every one it created
type NullFactory struct {
	Devices []*NullDevice
}

// Create is a DeviceFactory
func (f *NullFactory) Create(_ Surface, opts DeviceOptions) (Device, error) {
	d := &NullDevice{Options: opts}
	f.Devices = append(f.Devices, d)
	return d, nil
}

// Last returns the most recently created device
func (f *NullFactory) Last() *NullDevice {
	if len(f.Devices) == 0 {
		return nil
	}
	return f.Devices[len(f.Devices)-1]
}

// StaticSurface is a Surface of fixed size, for headless runs
type StaticSurface struct {
	Width, Height int
	Scale         float32
}

// Size returns the fixed size
func (s StaticSurface) Size() (int, int) {
	return s.Width, s.Height
}

// ContentScale returns Scale, or 1 when unset
func (s StaticSurface) ContentScale() float32 {
	if s.Scale == 0 {
		return 1
	}
	return s.Scale
}

package render

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/leterax/go-sandbox/pkg/config"
)

// ErrNoDevice is returned when the render device has not been created
var ErrNoDevice = errors.New("render device doesn't exist")

// Renderer owns the render device and keeps it in sync with the settings.
// Shadow changes are applied in place; antialiasing needs a new device.
type Renderer struct {
	store   *config.Store
	surface Surface
	factory DeviceFactory
	logger  *slog.Logger

	device Device
	subs   []config.Subscription
	err    error

	width  int
	height int
}

// NewRenderer creates a renderer. The device is created by Start.
func NewRenderer(store *config.Store, surface Surface, factory DeviceFactory, logger *slog.Logger) (*Renderer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Renderer{
		store:   store,
		surface: surface,
		factory: factory,
		logger:  logger,
	}
	r.width, r.height = surface.Size()

	shadows, err := store.ObserveBool(config.Shadows, func(enabled bool) {
		if r.device == nil {
			return
		}
		r.device.SetShadowsEnabled(enabled)
		r.device.SetPixelDensity(r.surface.ContentScale())
	})
	if err != nil {
		return nil, fmt.Errorf("failed to observe shadows: %w", err)
	}
	antiAlias, err := store.ObserveBool(config.AntiAlias, func(bool) {
		// A failed recreation is retried on the next change
		if r.device == nil && r.err == nil {
			return
		}
		if err := r.recreate(); err != nil {
			r.err = err
			r.logger.Error("render device recreation failed", "err", err)
		}
	})
	if err != nil {
		shadows.Unsubscribe()
		return nil, fmt.Errorf("failed to observe antiAlias: %w", err)
	}
	r.subs = []config.Subscription{shadows, antiAlias}

	return r, nil
}

// Start creates the device
func (r *Renderer) Start() error {
	if r.device != nil {
		return nil
	}
	return r.recreate()
}

// recreate closes the current device and creates a new one from the settings
func (r *Renderer) recreate() error {
	if r.device != nil {
		r.device.Close()
		r.device = nil
	}

	settings := r.store.Configurations()
	device, err := r.factory(r.surface, DeviceOptions{AntiAlias: settings.AntiAlias})
	if err != nil {
		return fmt.Errorf("failed to create render device: %w", err)
	}
	device.SetViewportSize(r.width, r.height)
	device.SetPixelDensity(r.surface.ContentScale())
	device.SetShadowsEnabled(settings.Shadows)

	r.device = device
	r.err = nil
	r.logger.Info("render device created", "antiAlias", settings.AntiAlias, "shadows", settings.Shadows,
		"width", r.width, "height", r.height)
	return nil
}

// Device returns the current device
func (r *Renderer) Device() (Device, error) {
	if r.err != nil {
		return nil, r.err
	}
	if r.device == nil {
		return nil, ErrNoDevice
	}
	return r.device, nil
}

// Resize updates the viewport after the surface changed size
func (r *Renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.width = width
	r.height = height
	if r.device != nil {
		r.device.SetViewportSize(width, height)
	}
}

// Size returns the viewport size
func (r *Renderer) Size() (int, int) {
	return r.width, r.height
}

// Render draws graph through camera, matching the camera to the viewport
func (r *Renderer) Render(graph *Graph, camera *Camera) error {
	device, err := r.Device()
	if err != nil {
		return err
	}
	camera.UpdateProjectionMatrix(r.width, r.height)
	return device.Render(graph, camera)
}

// Close releases the device and stops observing the settings
func (r *Renderer) Close() {
	for _, sub := range r.subs {
		sub.Unsubscribe()
	}
	r.subs = nil
	if r.device != nil {
		r.device.Close()
		r.device = nil
	}
}

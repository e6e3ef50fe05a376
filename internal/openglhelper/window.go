package openglhelper

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/leterax/go-sandbox/pkg/input"
)

// Window handles GLFW window creation and management.
// It is the render surface and the key event source of the game.
type Window struct {
	glfwWindow    *glfw.Window
	width         int
	height        int
	title         string
	mouseCaptured bool
	vsync         bool

	onKey    func(key string, event input.KeyEvent)
	onCursor func(xpos, ypos float64)
	onButton func(button input.MouseButton, pressed bool)
	onResize func(width, height int)
	onFocus  func(focused bool)
}

// NewWindow creates a new GLFW window with OpenGL context
func NewWindow(width, height int, title string, vsync bool) (*Window, error) {
	// Initialize GLFW
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	// Configure GLFW
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 6)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ScaleToMonitor, glfw.True)

	// Create window
	glfwWindow, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create GLFW window: %w", err)
	}

	glfwWindow.MakeContextCurrent()
	if vsync {
		glfw.SwapInterval(1) // Enable vsync
	} else {
		glfw.SwapInterval(0) // Disable vsync
	}

	// Initialize OpenGL
	if err := gl.Init(); err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	slog.Info("OpenGL context ready", "version", gl.GoStr(gl.GetString(gl.VERSION)),
		"renderer", gl.GoStr(gl.GetString(gl.RENDERER)))

	w := &Window{
		glfwWindow: glfwWindow,
		title:      title,
		vsync:      vsync,
	}
	w.width, w.height = glfwWindow.GetSize()

	glfwWindow.SetKeyCallback(w.keyCallback)
	glfwWindow.SetCursorPosCallback(w.cursorPosCallback)
	glfwWindow.SetMouseButtonCallback(w.mouseButtonCallback)
	glfwWindow.SetSizeCallback(w.sizeCallback)
	glfwWindow.SetFocusCallback(w.focusCallback)

	return w, nil
}

// Clear clears the screen
func (w *Window) Clear(color mgl32.Vec4) {
	gl.ClearColor(color.X(), color.Y(), color.Z(), color.W())
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// SwapBuffers swaps the front and back buffers
func (w *Window) SwapBuffers() {
	w.glfwWindow.SwapBuffers()
}

// PollEvents processes pending events. Callbacks run on the calling goroutine.
func (w *Window) PollEvents() {
	glfw.PollEvents()
}

// ShouldClose returns whether the window should close
func (w *Window) ShouldClose() bool {
	return w.glfwWindow.ShouldClose()
}

// SetShouldClose asks the run loop to stop
func (w *Window) SetShouldClose(close bool) {
	w.glfwWindow.SetShouldClose(close)
}

// Close releases all resources
func (w *Window) Close() {
	w.glfwWindow.Destroy()
	glfw.Terminate()
}

// Size returns the window dimensions in screen coordinates
func (w *Window) Size() (width, height int) {
	return w.width, w.height
}

// FramebufferSize returns the window dimensions in pixels
func (w *Window) FramebufferSize() (width, height int) {
	return w.glfwWindow.GetFramebufferSize()
}

// ContentScale returns the ratio between pixels and screen coordinates
func (w *Window) ContentScale() float32 {
	fbWidth, _ := w.glfwWindow.GetFramebufferSize()
	if w.width > 0 && fbWidth > 0 {
		return float32(fbWidth) / float32(w.width)
	}
	x, _ := w.glfwWindow.GetContentScale()
	return x
}

// SetTitle sets the window title
func (w *Window) SetTitle(title string) {
	w.title = title
	w.glfwWindow.SetTitle(title)
}

// Time returns seconds since GLFW was initialized
func (w *Window) Time() float64 {
	return glfw.GetTime()
}

// SetKeyHandler receives every key event as a lower case key name
func (w *Window) SetKeyHandler(handler func(key string, event input.KeyEvent)) {
	w.onKey = handler
}

// SetCursorHandler receives absolute cursor positions
func (w *Window) SetCursorHandler(handler func(xpos, ypos float64)) {
	w.onCursor = handler
}

// SetMouseButtonHandler receives mouse button presses and releases
func (w *Window) SetMouseButtonHandler(handler func(button input.MouseButton, pressed bool)) {
	w.onButton = handler
}

// SetResizeHandler receives the new window size in screen coordinates
func (w *Window) SetResizeHandler(handler func(width, height int)) {
	w.onResize = handler
}

// SetFocusHandler is told when the window gains or loses focus
func (w *Window) SetFocusHandler(handler func(focused bool)) {
	w.onFocus = handler
}

// SetMouseCaptured captures or releases the mouse cursor
func (w *Window) SetMouseCaptured(captured bool) {
	w.mouseCaptured = captured

	if captured {
		w.glfwWindow.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
		if glfw.RawMouseMotionSupported() {
			w.glfwWindow.SetInputMode(glfw.RawMouseMotion, glfw.True)
		}
	} else {
		w.glfwWindow.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	}
}

// IsMouseCaptured returns whether the mouse is currently captured
func (w *Window) IsMouseCaptured() bool {
	return w.mouseCaptured
}

// Callback functions
func (w *Window) keyCallback(_ *glfw.Window, key glfw.Key, scancode int, action glfw.Action, _ glfw.ModifierKey) {
	if w.onKey == nil {
		return
	}
	name := keyName(key, scancode)
	if name == "" {
		return
	}

	switch action {
	case glfw.Press:
		w.onKey(name, input.KeyDown)
	case glfw.Release:
		w.onKey(name, input.KeyUp)
	case glfw.Repeat:
		w.onKey(name, input.KeyRepeat)
	}
}

func (w *Window) cursorPosCallback(_ *glfw.Window, xpos, ypos float64) {
	if w.onCursor != nil {
		w.onCursor(xpos, ypos)
	}
}

func (w *Window) mouseButtonCallback(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
	if w.onButton == nil || action == glfw.Repeat {
		return
	}

	var b input.MouseButton
	switch button {
	case glfw.MouseButtonLeft:
		b = input.MouseLeft
	case glfw.MouseButtonRight:
		b = input.MouseRight
	case glfw.MouseButtonMiddle:
		b = input.MouseMiddle
	default:
		return
	}
	w.onButton(b, action == glfw.Press)
}

func (w *Window) sizeCallback(_ *glfw.Window, width, height int) {
	w.width = width
	w.height = height
	if w.onResize != nil {
		w.onResize(width, height)
	}
}

func (w *Window) focusCallback(_ *glfw.Window, focused bool) {
	if w.onFocus != nil {
		w.onFocus(focused)
	}
}

// namedKeys covers keys without a printable name
var namedKeys = map[glfw.Key]string{
	glfw.KeySpace:        "space",
	glfw.KeyUp:           "arrowup",
	glfw.KeyDown:         "arrowdown",
	glfw.KeyLeft:         "arrowleft",
	glfw.KeyRight:        "arrowright",
	glfw.KeyLeftShift:    "shift",
	glfw.KeyRightShift:   "shift",
	glfw.KeyLeftControl:  "control",
	glfw.KeyRightControl: "control",
	glfw.KeyLeftAlt:      "alt",
	glfw.KeyRightAlt:     "alt",
	glfw.KeyEscape:       "escape",
	glfw.KeyEnter:        "enter",
	glfw.KeyTab:          "tab",
	glfw.KeyBackspace:    "backspace",
}

// keyName maps a GLFW key to the lower case name used by key maps
func keyName(key glfw.Key, scancode int) string {
	if name, ok := namedKeys[key]; ok {
		return name
	}
	if key >= glfw.KeyA && key <= glfw.KeyZ {
		return string(rune('a' + (key - glfw.KeyA)))
	}
	if key >= glfw.Key0 && key <= glfw.Key9 {
		return string(rune('0' + (key - glfw.Key0)))
	}
	return strings.ToLower(glfw.GetKeyName(key, scancode))
}

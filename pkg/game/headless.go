package game

import (
	"github.com/leterax/go-sandbox/pkg/input"
	"github.com/leterax/go-sandbox/pkg/render"
)

// HeadlessWindow is a Window without a display. Its clock advances by a fixed
// step on every poll, and scripted events fire on the frame they are
// scheduled for.
type HeadlessWindow struct {
	render.StaticSurface
	Title     string
	Step      float64 // seconds per frame
	MaxFrames int     // close after this many polls, zero means never
	Captured  bool
	Swaps     int

	now         float64
	polls       int
	shouldClose bool
	script      map[int][]func(w *HeadlessWindow)

	onKey    func(key string, event input.KeyEvent)
	onCursor func(xpos, ypos float64)
	onButton func(button input.MouseButton, pressed bool)
	onResize func(width, height int)
	onFocus  func(focused bool)
}

// NewHeadlessWindow creates a window of the given size ticking at 60 Hz
func NewHeadlessWindow(width, height int) *HeadlessWindow {
	return &HeadlessWindow{
		StaticSurface: render.StaticSurface{Width: width, Height: height},
		Step:          1.0 / 60.0,
		script:        make(map[int][]func(w *HeadlessWindow)),
	}
}

// At schedules fn to run while polling events for frame (counting from 0)
func (w *HeadlessWindow) At(frame int, fn func(w *HeadlessWindow)) {
	w.script[frame] = append(w.script[frame], fn)
}

// Polls returns how many times events were polled
func (w *HeadlessWindow) Polls() int { return w.polls }

// SetKeyHandler receives the events sent by Key
func (w *HeadlessWindow) SetKeyHandler(handler func(key string, event input.KeyEvent)) {
	w.onKey = handler
}

// SetCursorHandler receives the positions sent by MoveCursor
func (w *HeadlessWindow) SetCursorHandler(handler func(xpos, ypos float64)) {
	w.onCursor = handler
}

// SetMouseButtonHandler receives the events sent by Button
func (w *HeadlessWindow) SetMouseButtonHandler(handler func(button input.MouseButton, pressed bool)) {
	w.onButton = handler
}

// SetResizeHandler receives the sizes sent by Resize
func (w *HeadlessWindow) SetResizeHandler(handler func(width, height int)) {
	w.onResize = handler
}

// SetFocusHandler receives the changes sent by Focus
func (w *HeadlessWindow) SetFocusHandler(handler func(focused bool)) {
	w.onFocus = handler
}

// SetMouseCaptured records the capture state
func (w *HeadlessWindow) SetMouseCaptured(captured bool) { w.Captured = captured }

// SetTitle records the title
func (w *HeadlessWindow) SetTitle(title string) { w.Title = title }

// SwapBuffers counts presented frames
func (w *HeadlessWindow) SwapBuffers() { w.Swaps++ }

// ShouldClose reports whether the run should end
func (w *HeadlessWindow) ShouldClose() bool { return w.shouldClose }

// SetShouldClose asks the run loop to stop
func (w *HeadlessWindow) SetShouldClose(close bool) { w.shouldClose = close }

// Time returns the simulated seconds
func (w *HeadlessWindow) Time() float64 { return w.now }

// PollEvents advances the clock and delivers this frame's scripted events
func (w *HeadlessWindow) PollEvents() {
	w.now += w.Step
	for _, fn := range w.script[w.polls] {
		fn(w)
	}
	w.polls++
	if w.MaxFrames > 0 && w.polls >= w.MaxFrames {
		w.shouldClose = true
	}
}

// Key sends a key event to the handler
func (w *HeadlessWindow) Key(key string, event input.KeyEvent) {
	if w.onKey != nil {
		w.onKey(key, event)
	}
}

// MoveCursor sends an absolute cursor position
func (w *HeadlessWindow) MoveCursor(xpos, ypos float64) {
	if w.onCursor != nil {
		w.onCursor(xpos, ypos)
	}
}

// Button sends a mouse button press or release
func (w *HeadlessWindow) Button(button input.MouseButton, pressed bool) {
	if w.onButton != nil {
		w.onButton(button, pressed)
	}
}

// Resize changes the surface size and notifies the handler
func (w *HeadlessWindow) Resize(width, height int) {
	w.Width = width
	w.Height = height
	if w.onResize != nil {
		w.onResize(width, height)
	}
}

// Focus notifies the handler of a focus change
func (w *HeadlessWindow) Focus(focused bool) {
	if w.onFocus != nil {
		w.onFocus(focused)
	}
}

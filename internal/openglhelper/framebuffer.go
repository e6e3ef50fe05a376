package openglhelper

import (
	"fmt"

	"github.com/go-gl/gl/v4.6-core/gl"
)

// Framebuffer is an offscreen render target
type Framebuffer struct {
	ID      uint32
	Width   int32
	Height  int32
	Samples int32

	colorRB  uint32
	depthRB  uint32
	depthTex uint32
}

// NewColorFramebuffer creates a colour + depth target, multisampled when samples > 1
func NewColorFramebuffer(width, height, samples int32) (*Framebuffer, error) {
	fb := &Framebuffer{Width: width, Height: height, Samples: samples}
	gl.GenFramebuffers(1, &fb.ID)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fb.ID)

	gl.GenRenderbuffers(1, &fb.colorRB)
	gl.BindRenderbuffer(gl.RENDERBUFFER, fb.colorRB)
	if samples > 1 {
		gl.RenderbufferStorageMultisample(gl.RENDERBUFFER, samples, gl.RGBA8, width, height)
	} else {
		gl.RenderbufferStorage(gl.RENDERBUFFER, gl.RGBA8, width, height)
	}
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.RENDERBUFFER, fb.colorRB)

	gl.GenRenderbuffers(1, &fb.depthRB)
	gl.BindRenderbuffer(gl.RENDERBUFFER, fb.depthRB)
	if samples > 1 {
		gl.RenderbufferStorageMultisample(gl.RENDERBUFFER, samples, gl.DEPTH_COMPONENT24, width, height)
	} else {
		gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH_COMPONENT24, width, height)
	}
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.RENDERBUFFER, fb.depthRB)

	return fb, fb.check()
}

// NewDepthFramebuffer creates a square depth-only target backed by a texture, for shadow maps
func NewDepthFramebuffer(size int32) (*Framebuffer, error) {
	fb := &Framebuffer{Width: size, Height: size, Samples: 1}
	gl.GenFramebuffers(1, &fb.ID)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fb.ID)

	gl.GenTextures(1, &fb.depthTex)
	gl.BindTexture(gl.TEXTURE_2D, fb.depthTex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.DEPTH_COMPONENT32F, size, size, 0, gl.DEPTH_COMPONENT, gl.FLOAT, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_BORDER)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_BORDER)
	border := [4]float32{1, 1, 1, 1}
	gl.TexParameterfv(gl.TEXTURE_2D, gl.TEXTURE_BORDER_COLOR, &border[0])
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.TEXTURE_2D, fb.depthTex, 0)
	gl.DrawBuffer(gl.NONE)
	gl.ReadBuffer(gl.NONE)

	return fb, fb.check()
}

func (fb *Framebuffer) check() error {
	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		fb.Delete()
		return fmt.Errorf("framebuffer incomplete: 0x%x", status)
	}
	return nil
}

// Bind makes the framebuffer the draw target and sets the viewport to cover it
func (fb *Framebuffer) Bind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, fb.ID)
	gl.Viewport(0, 0, fb.Width, fb.Height)
}

// BindDepthTexture binds the depth texture to a texture unit
func (fb *Framebuffer) BindDepthTexture(unit uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, fb.depthTex)
}

// BlitToDefault resolves the colour buffer into the window framebuffer
func (fb *Framebuffer) BlitToDefault(width, height int32) {
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, fb.ID)
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, 0)
	filter := uint32(gl.LINEAR)
	if fb.Samples > 1 || (fb.Width == width && fb.Height == height) {
		filter = gl.NEAREST
	}
	if fb.Samples > 1 && (fb.Width != width || fb.Height != height) {
		// Multisampled blits cannot scale
		width, height = fb.Width, fb.Height
	}
	gl.BlitFramebuffer(0, 0, fb.Width, fb.Height, 0, 0, width, height, gl.COLOR_BUFFER_BIT, filter)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

// Delete releases the framebuffer and its attachments
func (fb *Framebuffer) Delete() {
	if fb.colorRB != 0 {
		gl.DeleteRenderbuffers(1, &fb.colorRB)
	}
	if fb.depthRB != 0 {
		gl.DeleteRenderbuffers(1, &fb.depthRB)
	}
	if fb.depthTex != 0 {
		gl.DeleteTextures(1, &fb.depthTex)
	}
	gl.DeleteFramebuffers(1, &fb.ID)
}

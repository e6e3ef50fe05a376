// Package openglhelper wraps the GL objects the sandbox needs: the GLFW
// window, shader programs, meshes and framebuffers.
package openglhelper

import (
	"github.com/go-gl/gl/v4.6-core/gl"
)

// floatSize is the byte size of a float32 and a uint32
const floatSize = 4

// vertexStride is position (3) followed by normal (3)
const vertexStride = 6 * floatSize

// Mesh is an indexed triangle list uploaded to the GPU
type Mesh struct {
	vao        uint32
	vbo        uint32
	ebo        uint32
	indexCount int32
}

// NewMesh uploads interleaved position/normal vertices and triangle indices.
// The geometry never changes after upload.
func NewMesh(vertices []float32, indices []uint32) *Mesh {
	m := &Mesh{indexCount: int32(len(indices))}

	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*floatSize, gl.Ptr(vertices), gl.STATIC_DRAW)

	gl.GenBuffers(1, &m.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*floatSize, gl.Ptr(indices), gl.STATIC_DRAW)

	attribute(0, 0)           // position
	attribute(1, 3*floatSize) // normal

	// The element buffer binding is VAO state, so unbind the VAO first
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return m
}

func attribute(index uint32, offset int) {
	gl.VertexAttribPointer(index, 3, gl.FLOAT, false, vertexStride, gl.PtrOffset(offset))
	gl.EnableVertexAttribArray(index)
}

// Draw renders the mesh with whatever program is bound
func (m *Mesh) Draw() {
	gl.BindVertexArray(m.vao)
	gl.DrawElements(gl.TRIANGLES, m.indexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

// Delete releases the vertex array and both buffers
func (m *Mesh) Delete() {
	gl.DeleteVertexArrays(1, &m.vao)
	gl.DeleteBuffers(1, &m.vbo)
	gl.DeleteBuffers(1, &m.ebo)
}

package openglhelper

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// Shader is a linked vertex + fragment program with cached uniform locations
type Shader struct {
	ID        uint32
	locations map[string]int32
}

// NewShader compiles both stages and links them
func NewShader(vertexSource, fragmentSource string) (*Shader, error) {
	vs, err := compileStage("vertex", gl.VERTEX_SHADER, vertexSource)
	if err != nil {
		return nil, err
	}
	defer gl.DeleteShader(vs)
	fs, err := compileStage("fragment", gl.FRAGMENT_SHADER, fragmentSource)
	if err != nil {
		return nil, err
	}
	defer gl.DeleteShader(fs)

	program := gl.CreateProgram()
	gl.AttachShader(program, vs)
	gl.AttachShader(program, fs)
	gl.LinkProgram(program)

	var ok int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &ok)
	if ok == gl.FALSE {
		msg := infoLog(program, gl.GetProgramiv, gl.GetProgramInfoLog)
		gl.DeleteProgram(program)
		return nil, fmt.Errorf("failed to link shader program: %s", msg)
	}
	return &Shader{ID: program, locations: make(map[string]int32)}, nil
}

func compileStage(name string, kind uint32, source string) (uint32, error) {
	shader := gl.CreateShader(kind)
	src, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, src, nil)
	free()
	gl.CompileShader(shader)

	var ok int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &ok)
	if ok == gl.FALSE {
		msg := infoLog(shader, gl.GetShaderiv, gl.GetShaderInfoLog)
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("failed to compile %s shader: %s", name, msg)
	}
	return shader, nil
}

// infoLog reads a shader or program log
func infoLog(id uint32, param func(uint32, uint32, *int32), read func(uint32, int32, *int32, *uint8)) string {
	var length int32
	param(id, gl.INFO_LOG_LENGTH, &length)
	if length == 0 {
		return "no log"
	}
	buf := strings.Repeat("\x00", int(length+1))
	read(id, length, nil, gl.Str(buf))
	return strings.TrimRight(buf, "\x00\n")
}

// Use makes the program current
func (s *Shader) Use() {
	gl.UseProgram(s.ID)
}

// Delete releases the program
func (s *Shader) Delete() {
	gl.DeleteProgram(s.ID)
}

// location returns -1 for uniforms the compiler optimised away, which GL
// silently ignores
func (s *Shader) location(name string) int32 {
	loc, ok := s.locations[name]
	if !ok {
		loc = gl.GetUniformLocation(s.ID, gl.Str(name+"\x00"))
		s.locations[name] = loc
	}
	return loc
}

// SetBool sets a bool uniform
func (s *Shader) SetBool(name string, value bool) {
	var v int32
	if value {
		v = 1
	}
	gl.Uniform1i(s.location(name), v)
}

// SetInt sets an int uniform
func (s *Shader) SetInt(name string, value int32) {
	gl.Uniform1i(s.location(name), value)
}

// SetFloat sets a float uniform
func (s *Shader) SetFloat(name string, value float32) {
	gl.Uniform1f(s.location(name), value)
}

// SetVec3 sets a vec3 uniform
func (s *Shader) SetVec3(name string, v mgl32.Vec3) {
	gl.Uniform3fv(s.location(name), 1, &v[0])
}

// SetMat4 sets a mat4 uniform
func (s *Shader) SetMat4(name string, m mgl32.Mat4) {
	gl.UniformMatrix4fv(s.location(name), 1, false, &m[0])
}

package renderer

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// GLDriver issues the calls against the current OpenGL context. It must only
// be used on the thread that owns the context, after gl.Init.
type GLDriver struct{}

func (GLDriver) GetUniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (GLDriver) Uniform1i(location int32, value int32) {
	gl.Uniform1i(location, value)
}

func (GLDriver) Uniform1f(location int32, value float32) {
	gl.Uniform1f(location, value)
}

func (GLDriver) Uniform2fv(location int32, value mgl32.Vec2) {
	gl.Uniform2fv(location, 1, &value[0])
}

func (GLDriver) Uniform3fv(location int32, value mgl32.Vec3) {
	gl.Uniform3fv(location, 1, &value[0])
}

func (GLDriver) Uniform4fv(location int32, value mgl32.Vec4) {
	gl.Uniform4fv(location, 1, &value[0])
}

func (GLDriver) UniformMatrix2fv(location int32, value mgl32.Mat2) {
	gl.UniformMatrix2fv(location, 1, false, &value[0])
}

func (GLDriver) UniformMatrix3fv(location int32, value mgl32.Mat3) {
	gl.UniformMatrix3fv(location, 1, false, &value[0])
}

func (GLDriver) UniformMatrix4fv(location int32, value mgl32.Mat4) {
	gl.UniformMatrix4fv(location, 1, false, &value[0])
}

func (GLDriver) UseProgram(program uint32) {
	gl.UseProgram(program)
}

func (GLDriver) DeleteProgram(program uint32) {
	gl.DeleteProgram(program)
}

func (GLDriver) ActiveTexture(unit uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
}

func (GLDriver) BindTexture2D(texture uint32) {
	gl.BindTexture(gl.TEXTURE_2D, texture)
}

func (GLDriver) CompileShader(source string, stage ShaderStage) (uint32, error) {
	shaderType := uint32(gl.VERTEX_SHADER)
	if stage == FragmentStage {
		shaderType = gl.FRAGMENT_SHADER
	}
	if !strings.HasSuffix(source, "\x00") {
		source += "\x00"
	}

	shader := gl.CreateShader(shaderType)
	cSources, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, cSources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)

		return 0, fmt.Errorf("%s compile error: %s", stage, strings.TrimRight(log, "\x00"))
	}
	return shader, nil
}

func (GLDriver) DeleteShader(shader uint32) {
	gl.DeleteShader(shader)
}

func (GLDriver) LinkProgram(vertexShader, fragmentShader uint32) (uint32, error) {
	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	defer func() {
		gl.DetachShader(program, vertexShader)
		gl.DeleteShader(vertexShader)
		gl.DetachShader(program, fragmentShader)
		gl.DeleteShader(fragmentShader)
	}()

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)

		return 0, fmt.Errorf("link error: %s", strings.TrimRight(log, "\x00"))
	}
	return program, nil
}

package renderer

import (
	"github.com/go-gl/mathgl/mgl32"
)

type ShaderStage int

const (
	VertexStage ShaderStage = iota
	FragmentStage
)

func (s ShaderStage) String() string {
	switch s {
	case VertexStage:
		return "VERTEX"
	case FragmentStage:
		return "FRAGMENT"
	}
	return "UNKNOWN"
}

// InvalidLocation is what the driver reports for a uniform the linked program
// does not declare (or optimised out). Writes to it are ignored.
const InvalidLocation int32 = -1

// Driver is the slice of the OpenGL API this package issues calls through.
// GLDriver forwards to go-gl; tests substitute a recorder.
type Driver interface {
	GetUniformLocation(program uint32, name string) int32

	Uniform1i(location int32, value int32)
	Uniform1f(location int32, value float32)
	Uniform2fv(location int32, value mgl32.Vec2)
	Uniform3fv(location int32, value mgl32.Vec3)
	Uniform4fv(location int32, value mgl32.Vec4)
	UniformMatrix2fv(location int32, value mgl32.Mat2)
	UniformMatrix3fv(location int32, value mgl32.Mat3)
	UniformMatrix4fv(location int32, value mgl32.Mat4)

	UseProgram(program uint32)
	DeleteProgram(program uint32)

	// ActiveTexture selects texture unit `unit` (0 = GL_TEXTURE0)
	ActiveTexture(unit uint32)
	BindTexture2D(texture uint32)

	CompileShader(source string, stage ShaderStage) (uint32, error)
	DeleteShader(shader uint32)
	// LinkProgram links both stages and releases the stage objects either way
	LinkProgram(vertexShader, fragmentShader uint32) (uint32, error)
}

package renderer

import (
	"errors"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

type uniformWrite struct {
	Location int32
	Name     string
	Value    interface{}
}

type textureBind struct {
	Unit    uint32
	Texture uint32
}

// fakeDriver records every call. Declared names get locations in
// declaration order, everything else resolves to InvalidLocation.
type fakeDriver struct {
	locations   map[string]int32
	names       map[int32]string
	lookups     map[string]int
	writes      []uniformWrite
	used        []uint32
	deleted     []uint32
	released    []uint32
	binds       []textureBind
	activeUnit  uint32
	nextShader  uint32
	nextProgram uint32
	linkErr     error
}

func newFakeDriver(declared ...string) *fakeDriver {
	d := &fakeDriver{
		locations:   make(map[string]int32),
		names:       make(map[int32]string),
		lookups:     make(map[string]int),
		nextShader:  1,
		nextProgram: 100,
	}
	for i, name := range declared {
		d.locations[name] = int32(i)
		d.names[int32(i)] = name
	}
	return d
}

func (d *fakeDriver) totalLookups() int {
	n := 0
	for _, c := range d.lookups {
		n += c
	}
	return n
}

func (d *fakeDriver) GetUniformLocation(program uint32, name string) int32 {
	d.lookups[name]++
	if loc, ok := d.locations[name]; ok {
		return loc
	}
	return InvalidLocation
}

func (d *fakeDriver) record(loc int32, v interface{}) {
	d.writes = append(d.writes, uniformWrite{Location: loc, Name: d.names[loc], Value: v})
}

func (d *fakeDriver) Uniform1i(loc int32, v int32) { d.record(loc, v) }
func (d *fakeDriver) Uniform1f(loc int32, v float32) { d.record(loc, v) }
func (d *fakeDriver) Uniform2fv(loc int32, v mgl32.Vec2) { d.record(loc, v) }
func (d *fakeDriver) Uniform3fv(loc int32, v mgl32.Vec3) { d.record(loc, v) }
func (d *fakeDriver) Uniform4fv(loc int32, v mgl32.Vec4) { d.record(loc, v) }
func (d *fakeDriver) UniformMatrix2fv(loc int32, v mgl32.Mat2) { d.record(loc, v) }
func (d *fakeDriver) UniformMatrix3fv(loc int32, v mgl32.Mat3) { d.record(loc, v) }
func (d *fakeDriver) UniformMatrix4fv(loc int32, v mgl32.Mat4) { d.record(loc, v) }

func (d *fakeDriver) UseProgram(program uint32) { d.used = append(d.used, program) }
func (d *fakeDriver) DeleteProgram(program uint32) { d.deleted = append(d.deleted, program) }

func (d *fakeDriver) ActiveTexture(unit uint32) { d.activeUnit = unit }

func (d *fakeDriver) BindTexture2D(texture uint32) {
	d.binds = append(d.binds, textureBind{Unit: d.activeUnit, Texture: texture})
}

// Sources containing "#error" fail to compile
func (d *fakeDriver) CompileShader(source string, stage ShaderStage) (uint32, error) {
	if strings.Contains(source, "#error") {
		return 0, errors.New(stage.String() + " compile error: #error directive")
	}
	d.nextShader++
	return d.nextShader, nil
}

func (d *fakeDriver) DeleteShader(shader uint32) { d.released = append(d.released, shader) }

// LinkProgram releases both stage objects whether or not linking succeeds
func (d *fakeDriver) LinkProgram(vert, frag uint32) (uint32, error) {
	d.released = append(d.released, vert, frag)
	if d.linkErr != nil {
		return 0, d.linkErr
	}
	d.nextProgram++
	return d.nextProgram, nil
}

type shaderCall struct {
	Kind  string
	Name  string
	Value interface{}
}

// recordingShader is a MaterialShader that keeps the ordered list of writes
type recordingShader struct {
	calls []shaderCall
}

func (s *recordingShader) add(kind, name string, v interface{}) {
	s.calls = append(s.calls, shaderCall{Kind: kind, Name: name, Value: v})
}

func (s *recordingShader) Use() { s.add("use", "", nil) }
func (s *recordingShader) SetBool(name string, v bool) { s.add("bool", name, v) }
func (s *recordingShader) SetInt(name string, v int32) { s.add("int", name, v) }
func (s *recordingShader) SetFloat(name string, v float32) { s.add("float", name, v) }
func (s *recordingShader) SetVec2(name string, v mgl32.Vec2) { s.add("vec2", name, v) }
func (s *recordingShader) SetVec3(name string, v mgl32.Vec3) { s.add("vec3", name, v) }
func (s *recordingShader) SetVec4(name string, v mgl32.Vec4) { s.add("vec4", name, v) }
func (s *recordingShader) SetMat2(name string, v mgl32.Mat2) { s.add("mat2", name, v) }
func (s *recordingShader) SetMat3(name string, v mgl32.Mat3) { s.add("mat3", name, v) }
func (s *recordingShader) SetMat4(name string, v mgl32.Mat4) { s.add("mat4", name, v) }
func (s *recordingShader) BindTexture2D(unit, texture uint32) { s.add("texture", "", textureBind{unit, texture}) }

func (s *recordingShader) names() []string {
	out := make([]string, 0, len(s.calls))
	for _, c := range s.calls {
		if c.Name != "" {
			out = append(out, c.Name)
		}
	}
	return out
}

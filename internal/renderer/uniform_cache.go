package renderer

import "github.com/go-gl/mathgl/mgl32"

// UniformCache caches uniform locations to avoid repeated GetUniformLocation calls.
// A location never changes for the lifetime of a linked program, so entries
// (including InvalidLocation for undeclared names) are kept until Clear.
type UniformCache struct {
	locations map[string]int32
	program   uint32
	driver    Driver
}

// NewUniformCache creates a new uniform cache for a shader program
func NewUniformCache(driver Driver, program uint32) *UniformCache {
	return &UniformCache{
		locations: make(map[string]int32),
		program:   program,
		driver:    driver,
	}
}

// GetLocation returns the cached uniform location or fetches and caches it
func (uc *UniformCache) GetLocation(name string) int32 {
	if loc, exists := uc.locations[name]; exists {
		return loc
	}

	loc := uc.driver.GetUniformLocation(uc.program, name)
	uc.locations[name] = loc
	return loc
}

// Preload resolves names up front, typically right after linking, so the
// per-frame path only does map lookups.
func (uc *UniformCache) Preload(names ...string) {
	for _, name := range names {
		uc.GetLocation(name)
	}
}

// Len returns the number of resolved names
func (uc *UniformCache) Len() int {
	return len(uc.locations)
}

// Program returns the program the locations belong to
func (uc *UniformCache) Program() uint32 {
	return uc.program
}

// The setters always issue the write, even for InvalidLocation: the driver
// ignores it, which lets shader variants omit uniforms they do not use.

func (uc *UniformCache) SetBool(name string, value bool) {
	var v int32
	if value {
		v = 1
	}
	uc.driver.Uniform1i(uc.GetLocation(name), v)
}

func (uc *UniformCache) SetInt(name string, value int32) {
	uc.driver.Uniform1i(uc.GetLocation(name), value)
}

func (uc *UniformCache) SetFloat(name string, value float32) {
	uc.driver.Uniform1f(uc.GetLocation(name), value)
}

func (uc *UniformCache) SetVec2(name string, value mgl32.Vec2) {
	uc.driver.Uniform2fv(uc.GetLocation(name), value)
}

func (uc *UniformCache) SetVec3(name string, value mgl32.Vec3) {
	uc.driver.Uniform3fv(uc.GetLocation(name), value)
}

func (uc *UniformCache) SetVec4(name string, value mgl32.Vec4) {
	uc.driver.Uniform4fv(uc.GetLocation(name), value)
}

func (uc *UniformCache) SetMat2(name string, value mgl32.Mat2) {
	uc.driver.UniformMatrix2fv(uc.GetLocation(name), value)
}

func (uc *UniformCache) SetMat3(name string, value mgl32.Mat3) {
	uc.driver.UniformMatrix3fv(uc.GetLocation(name), value)
}

func (uc *UniformCache) SetMat4(name string, value mgl32.Mat4) {
	uc.driver.UniformMatrix4fv(uc.GetLocation(name), value)
}

// Clear clears the cache (call when the program is deleted or replaced)
func (uc *UniformCache) Clear() {
	uc.locations = make(map[string]int32)
}

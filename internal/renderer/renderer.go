package renderer

import (
	"github.com/go-gl/mathgl/mgl32"
)

// UniformSetter is the shader abstraction lights and the material update
// write through. Writes target the program that is currently in use.
type UniformSetter interface {
	Use()
	SetBool(name string, value bool)
	SetInt(name string, value int32)
	SetFloat(name string, value float32)
	SetVec2(name string, value mgl32.Vec2)
	SetVec3(name string, value mgl32.Vec3)
	SetVec4(name string, value mgl32.Vec4)
	SetMat2(name string, value mgl32.Mat2)
	SetMat3(name string, value mgl32.Mat3)
	SetMat4(name string, value mgl32.Mat4)
}

// MaterialShader is a UniformSetter that can also bind material textures
type MaterialShader interface {
	UniformSetter
	// BindTexture2D activates texture unit `unit` and binds texture to it
	BindTexture2D(unit uint32, texture uint32)
}

var (
	_ MaterialShader = (*ShaderProgram)(nil)
	_ UniformSetter  = (*UniformCache)(nil)
)

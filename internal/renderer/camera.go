// camera.go
package renderer

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

type CameraMovement int

const (
	Forward CameraMovement = iota
	Backward
	Left
	Right
	Up
	Down
)

const (
	DefaultYaw         float32 = -90.0
	DefaultPitch       float32 = 0.0
	DefaultSpeed       float32 = 2.5
	DefaultSensitivity float32 = 0.1
	DefaultFov         float32 = 45.0

	minFov float32 = 1.0
	maxFov float32 = 45.0
)

type Camera struct {
	// HOT DATA - Accessed every frame for view/projection calculations
	Position mgl32.Vec3
	Front    mgl32.Vec3
	Up       mgl32.Vec3
	Right    mgl32.Vec3
	Pitch    float32
	Yaw      float32

	// COLD DATA - Configuration and input handling
	WorldUp     mgl32.Vec3
	Speed       float32
	Sensitivity float32
	Fov         float32 // zoom, in degrees
	Near        float32
	Far         float32
	AspectRatio float32
	InvertMouse bool
}

func NewDefaultCamera(width, height int32) *Camera {
	camera := Camera{
		Position:    mgl32.Vec3{0, 0, 3},
		WorldUp:     mgl32.Vec3{0, 1, 0},
		Yaw:         DefaultYaw,
		Pitch:       DefaultPitch,
		Speed:       DefaultSpeed,
		Sensitivity: DefaultSensitivity,
		Fov:         DefaultFov,
		Near:        0.1,
		Far:         100.0,
		AspectRatio: float32(width) / float32(height),
	}
	camera.updateCameraVectors()
	return &camera
}

func (c *Camera) SetAspectRatio(width, height int32) {
	if height == 0 {
		return
	}
	c.AspectRatio = float32(width) / float32(height)
}

func (c *Camera) GetViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Position.Add(c.Front), c.Up)
}

func (c *Camera) GetProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.Fov), c.AspectRatio, c.Near, c.Far)
}

func (c *Camera) GetViewProjection() mgl32.Mat4 {
	return c.GetProjectionMatrix().Mul4(c.GetViewMatrix())
}

// alignToWorld flattens v onto the ground plane so looking up or down does
// not change walking speed
func (c *Camera) alignToWorld(v mgl32.Vec3) mgl32.Vec3 {
	flat := v.Sub(c.WorldUp.Mul(v.Dot(c.WorldUp)))
	if flat.Len() < 1e-6 {
		return mgl32.Vec3{}
	}
	return flat.Normalize()
}

func (c *Camera) ProcessKeyboard(direction CameraMovement, deltaTime float32) {
	velocity := c.Speed * deltaTime
	switch direction {
	case Forward:
		c.Position = c.Position.Add(c.alignToWorld(c.Front).Mul(velocity))
	case Backward:
		c.Position = c.Position.Sub(c.alignToWorld(c.Front).Mul(velocity))
	case Right:
		c.Position = c.Position.Add(c.alignToWorld(c.Right).Mul(velocity))
	case Left:
		c.Position = c.Position.Sub(c.alignToWorld(c.Right).Mul(velocity))
	case Up:
		c.Position = c.Position.Add(c.WorldUp.Mul(velocity))
	case Down:
		c.Position = c.Position.Sub(c.WorldUp.Mul(velocity))
	}
}

func (c *Camera) ProcessMouseMovement(xoffset, yoffset float32, constrainPitch bool) {
	xoffset *= c.Sensitivity
	yoffset *= c.Sensitivity

	c.Yaw += xoffset
	if c.InvertMouse {
		c.Pitch -= yoffset
	} else {
		c.Pitch += yoffset
	}
	if constrainPitch {
		c.Pitch = mgl32.Clamp(c.Pitch, -89.0, 89.0)
	}
	c.updateCameraVectors()
}

func (c *Camera) ProcessMouseScroll(yoffset float32) {
	c.Fov = mgl32.Clamp(c.Fov-yoffset, minFov, maxFov)
}

func (c *Camera) updateCameraVectors() {
	yawRad := float64(mgl32.DegToRad(c.Yaw))
	pitchRad := float64(mgl32.DegToRad(c.Pitch))

	front := mgl32.Vec3{
		float32(math.Cos(yawRad) * math.Cos(pitchRad)),
		float32(math.Sin(pitchRad)),
		float32(math.Sin(yawRad) * math.Cos(pitchRad)),
	}

	c.Front = front.Normalize()
	c.Right = c.Front.Cross(c.WorldUp).Normalize()
	c.Up = c.Right.Cross(c.Front).Normalize()
}

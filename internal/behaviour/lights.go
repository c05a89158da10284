package behaviour

import (
	"math"

	"Elk3D/internal/renderer"

	"github.com/aquilax/go-perlin"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	OrbitBehaviour   = "orbit"
	FlickerBehaviour = "flicker"

	DefaultFlickerAmount float32 = 0.6
	DefaultFlickerRate   float32 = 3.0
)

// OrbitingSun swings a directional light around the vertical axis, one full
// turn every 2π/Speed seconds.
type OrbitingSun struct {
	Light *renderer.DirectionalLight
	Speed float32
}

func NewOrbitingSun(light *renderer.DirectionalLight) *OrbitingSun {
	return &OrbitingSun{Light: light, Speed: 1}
}

func (o *OrbitingSun) Start() {}

func (o *OrbitingSun) Update(frame Frame) {
	t := float64(frame.Time * o.Speed)
	o.Light.Dir = mgl32.Vec4{float32(math.Sin(t)), -1, float32(math.Cos(t)), 0}
}

// FlickerLight modulates a point light's diffuse colour with 1D Perlin noise.
// Amount is the largest relative change, Rate how fast the noise is sampled.
type FlickerLight struct {
	Light  *renderer.PointLight
	Amount float32
	Rate   float32

	base  mgl32.Vec4
	noise *perlin.Perlin
}

func NewFlickerLight(light *renderer.PointLight, amount, rate float32, seed int64) *FlickerLight {
	return &FlickerLight{
		Light:  light,
		Amount: amount,
		Rate:   rate,
		noise:  perlin.NewPerlin(2, 2, 3, seed),
	}
}

// Start captures the colour the flicker oscillates around
func (f *FlickerLight) Start() {
	f.base = f.Light.Diffuse
}

func (f *FlickerLight) Update(frame Frame) {
	n := float32(f.noise.Noise1D(float64(frame.Time * f.Rate)))
	scale := mgl32.Clamp(1+f.Amount*n, 0, 1+f.Amount)
	f.Light.Diffuse = mgl32.Vec4{
		f.base.X() * scale,
		f.base.Y() * scale,
		f.base.Z() * scale,
		f.base.W(),
	}
}

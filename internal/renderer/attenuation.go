package renderer

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Empirical falloff constants. Distance is a tunable visibility radius, not a
// physical distance.
const (
	DefaultLinearAttenuation    float32 = 4.5
	DefaultQuadraticAttenuation float32 = 75.0

	// DefaultVisibilityDistance is the radius point and spot lights start with
	DefaultVisibilityDistance float32 = 50.0
)

var ErrInvalidDistance = errors.New("visibility distance must be a positive finite number")

// AttenuationModel maps a visibility distance to the (constant, linear,
// quadratic) coefficients the fragment shader divides light intensity by.
type AttenuationModel struct {
	Linear    float32 `yaml:"linear" json:"linear"`
	Quadratic float32 `yaml:"quadratic" json:"quadratic"`
}

var DefaultAttenuation = AttenuationModel{
	Linear:    DefaultLinearAttenuation,
	Quadratic: DefaultQuadraticAttenuation,
}

// Attenuation returns (1, Linear/d, Quadratic/d²). Zero, negative, NaN and
// infinite distances are rejected, as are distances so small that a
// coefficient overflows float32.
func (m AttenuationModel) Attenuation(distance float32) (mgl32.Vec3, error) {
	d := float64(distance)
	if math.IsNaN(d) || math.IsInf(d, 0) || distance <= 0 {
		return mgl32.Vec3{}, fmt.Errorf("attenuation(%v): %w", distance, ErrInvalidDistance)
	}
	v := mgl32.Vec3{1.0, m.Linear / distance, m.Quadratic / (distance * distance)}
	for _, c := range v {
		if !finite(c) {
			return mgl32.Vec3{}, fmt.Errorf("attenuation(%v) = %v: %w", distance, v, ErrInvalidDistance)
		}
	}
	return v, nil
}

func finite(f float32) bool {
	x := float64(f)
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// Attenuation evaluates DefaultAttenuation
func Attenuation(distance float32) (mgl32.Vec3, error) {
	return DefaultAttenuation.Attenuation(distance)
}

func defaultVisibility() mgl32.Vec3 {
	v, _ := Attenuation(DefaultVisibilityDistance)
	return v
}

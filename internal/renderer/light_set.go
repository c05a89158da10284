package renderer

import (
	"fmt"
)

// LightSet is the ordered collection of lights bound to a shader each frame.
// It keeps point light slots unique and holds at most one directional and one
// spot light.
type LightSet struct {
	lights      []Light
	attenuation AttenuationModel
	distance    float32
}

func NewLightSet(model AttenuationModel) *LightSet {
	return &LightSet{
		attenuation: model,
		distance:    DefaultVisibilityDistance,
	}
}

// Add appends light after validating it against the lights already present
func (s *LightSet) Add(light Light) error {
	if err := light.Validate(); err != nil {
		return err
	}
	if err := ValidateLights(append(s.Lights(), light)); err != nil {
		return err
	}
	s.lights = append(s.lights, light)
	return nil
}

// NextPointSlot returns the lowest free point_lights slot, or -1 when full
func (s *LightSet) NextPointSlot() int {
	var used [MaxPointLights]bool
	for _, l := range s.lights {
		if p, ok := l.(*PointLight); ok {
			used[p.Slot] = true
		}
	}
	for i, u := range used {
		if !u {
			return i
		}
	}
	return -1
}

// AddPointLight assigns the next free slot to light and adds it
func (s *LightSet) AddPointLight(light *PointLight) error {
	slot := s.NextPointSlot()
	if slot < 0 {
		return fmt.Errorf("%d point lights already bound: %w", MaxPointLights, ErrSlotOutOfRange)
	}
	light.Slot = slot
	return s.Add(light)
}

// Lights returns a copy of the lights in insertion order
func (s *LightSet) Lights() []Light {
	out := make([]Light, len(s.lights))
	copy(out, s.lights)
	return out
}

func (s *LightSet) Len() int {
	return len(s.lights)
}

func (s *LightSet) Distance() float32 {
	return s.distance
}

// SetVisibility recomputes attenuation on every point and spot light. It is
// meant to be called when the distance changes, not every frame.
func (s *LightSet) SetVisibility(distance float32) error {
	v, err := s.attenuation.Attenuation(distance)
	if err != nil {
		return err
	}
	for _, l := range s.lights {
		switch light := l.(type) {
		case *PointLight:
			light.Visibility = v
		case *SpotLight:
			light.Visibility = v
		}
	}
	s.distance = distance
	return nil
}

// Apply runs UpdateMaterialShader with the set's lights
func (s *LightSet) Apply(shader MaterialShader, material Material, time float32, disableEmission bool) error {
	return UpdateMaterialShader(shader, s.lights, material, time, disableEmission)
}

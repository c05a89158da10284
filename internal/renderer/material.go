package renderer

import (
	"errors"
	"fmt"
)

// Texture units the fragment shader samples material maps from
const (
	DiffuseTextureUnit  uint32 = 0
	SpecularTextureUnit uint32 = 1
	EmissionTextureUnit uint32 = 2
)

const DefaultShininess float32 = 32.0

var (
	ErrSlotCollision  = errors.New("point lights share a slot")
	ErrSlotOutOfRange = errors.New("point light slot out of range")
	ErrDuplicateLight = errors.New("shader has a single uniform block for this light type")
)

// Material references textures owned by whoever loaded them; nothing here
// deletes them.
type Material struct {
	Diffuse   uint32
	Specular  uint32
	Emission  uint32
	Shininess float32
}

func NewMaterial(diffuse, specular, emission uint32) Material {
	return Material{
		Diffuse:   diffuse,
		Specular:  specular,
		Emission:  emission,
		Shininess: DefaultShininess,
	}
}

// ValidatePointSlots checks that every point light has a slot inside the
// shader array and that no two lights share one.
func ValidatePointSlots(lights []Light) error {
	var used [MaxPointLights]bool
	for _, l := range lights {
		p, ok := l.(*PointLight)
		if !ok {
			continue
		}
		if p.Slot < 0 || p.Slot >= MaxPointLights {
			return fmt.Errorf("point light slot %d: %w", p.Slot, ErrSlotOutOfRange)
		}
		if used[p.Slot] {
			return fmt.Errorf("point light slot %d: %w", p.Slot, ErrSlotCollision)
		}
		used[p.Slot] = true
	}
	return nil
}

// ValidateLights checks point slots and that at most one directional and one
// spot light are present, since each writes the shader's only dir_light or
// spot_light block.
func ValidateLights(lights []Light) error {
	var directional, spot int
	for _, l := range lights {
		switch l.(type) {
		case *DirectionalLight:
			directional++
			if directional > 1 {
				return fmt.Errorf("directional light: %w", ErrDuplicateLight)
			}
		case *SpotLight:
			spot++
			if spot > 1 {
				return fmt.Errorf("spot light: %w", ErrDuplicateLight)
			}
		}
	}
	return ValidatePointSlots(lights)
}

// UpdateMaterialShader prepares shader for drawing with material under lights.
// The caller must already have made shader the active program. Lights are
// written in order, then time, then the material textures on units 0, 1 and 2
// (emission skipped when disableEmission is set) and finally the shininess.
// If ValidateLights rejects lights nothing is written.
func UpdateMaterialShader(shader MaterialShader, lights []Light, material Material, time float32, disableEmission bool) error {
	if err := ValidateLights(lights); err != nil {
		return err
	}

	for _, light := range lights {
		light.Update(shader)
	}

	shader.SetFloat(UniformTime, time)

	shader.BindTexture2D(DiffuseTextureUnit, material.Diffuse)
	shader.BindTexture2D(SpecularTextureUnit, material.Specular)
	if !disableEmission {
		shader.BindTexture2D(EmissionTextureUnit, material.Emission)
	}

	shader.SetFloat(UniformShininess, material.Shininess)
	return nil
}

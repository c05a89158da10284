package renderer

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// DefaultCutoffOffset widens the outer spot cone (in cosine space) when no
// explicit cutoff is given, so the soft falloff band is never empty.
const DefaultCutoffOffset float32 = 0.01

var (
	ErrInvalidCutoff = errors.New("spot light cutoff must be greater than soft cutoff")
	ErrNegativeColor = errors.New("light color channels must be non-negative")
)

// Light is a source that knows how to write itself into the fragment shader's
// uniforms. The set of implementations is closed: DirectionalLight, PointLight
// and SpotLight, each matching a fixed uniform block of the shader.
type Light interface {
	Update(shader UniformSetter)
	Validate() error
	isLight()
}

// DirectionalLight has no position. Dir.W is 0.
type DirectionalLight struct {
	Dir      mgl32.Vec4
	Ambient  mgl32.Vec4
	Diffuse  mgl32.Vec4
	Specular mgl32.Vec4
}

func NewDirectionalLight(dir, ambient, diffuse, specular mgl32.Vec4) *DirectionalLight {
	return &DirectionalLight{
		Dir:      dir,
		Ambient:  ambient,
		Diffuse:  diffuse,
		Specular: specular,
	}
}

func (l *DirectionalLight) isLight() {}

func (l *DirectionalLight) Update(shader UniformSetter) {
	shader.SetVec4(uniformDirLightDir, l.Dir)
	shader.SetVec4(uniformDirLightAmbient, l.Ambient)
	shader.SetVec4(uniformDirLightDiffuse, l.Diffuse)
	shader.SetVec4(uniformDirLightSpecular, l.Specular)
}

func (l *DirectionalLight) Validate() error {
	return validateColors("directional light", l.Ambient, l.Diffuse, l.Specular)
}

// PointLight occupies element Slot of the shader's point_lights array. Callers
// bind at most one light per slot per frame; UpdateMaterialShader and LightSet
// reject collisions.
type PointLight struct {
	Pos        mgl32.Vec4
	Ambient    mgl32.Vec4
	Diffuse    mgl32.Vec4
	Specular   mgl32.Vec4
	Visibility mgl32.Vec3
	Slot       int
}

func NewPointLight(pos, ambient, diffuse, specular mgl32.Vec4, slot int) *PointLight {
	return &PointLight{
		Pos:        pos,
		Ambient:    ambient,
		Diffuse:    diffuse,
		Specular:   specular,
		Visibility: defaultVisibility(),
		Slot:       slot,
	}
}

func (l *PointLight) isLight() {}

func (l *PointLight) Update(shader UniformSetter) {
	names := pointUniformNames(l.Slot)
	shader.SetVec4(names.pos, l.Pos)
	shader.SetVec4(names.ambient, l.Ambient)
	shader.SetVec4(names.diffuse, l.Diffuse)
	shader.SetVec4(names.specular, l.Specular)
	shader.SetVec3(names.visibility, l.Visibility)
}

// SetVisibility recomputes the attenuation for a new visibility distance.
// On error the previous coefficients are kept.
func (l *PointLight) SetVisibility(model AttenuationModel, distance float32) error {
	v, err := model.Attenuation(distance)
	if err != nil {
		return err
	}
	l.Visibility = v
	return nil
}

func (l *PointLight) Validate() error {
	if l.Slot < 0 || l.Slot >= MaxPointLights {
		return fmt.Errorf("point light slot %d: %w", l.Slot, ErrSlotOutOfRange)
	}
	return validateColors(fmt.Sprintf("point light %d", l.Slot), l.Ambient, l.Diffuse, l.Specular)
}

// SpotLight cutoffs are cosines of the cone half-angles
type SpotLight struct {
	Pos        mgl32.Vec4
	Dir        mgl32.Vec4
	Ambient    mgl32.Vec4
	Diffuse    mgl32.Vec4
	Specular   mgl32.Vec4
	Visibility mgl32.Vec3
	SoftCutoff float32
	Cutoff     float32
}

// NewSpotLight sets Cutoff to softCutoff + DefaultCutoffOffset
func NewSpotLight(pos, dir, ambient, diffuse, specular mgl32.Vec4, softCutoff float32) *SpotLight {
	return &SpotLight{
		Pos:        pos,
		Dir:        dir,
		Ambient:    ambient,
		Diffuse:    diffuse,
		Specular:   specular,
		Visibility: defaultVisibility(),
		SoftCutoff: softCutoff,
		Cutoff:     softCutoff + DefaultCutoffOffset,
	}
}

// NewSpotLightWithCutoff uses an explicit outer cutoff, which must be strictly
// greater than softCutoff.
func NewSpotLightWithCutoff(pos, dir, ambient, diffuse, specular mgl32.Vec4, softCutoff, cutoff float32) (*SpotLight, error) {
	l := NewSpotLight(pos, dir, ambient, diffuse, specular, softCutoff)
	l.Cutoff = cutoff
	if err := l.validateCutoff(); err != nil {
		return nil, err
	}
	return l, nil
}

// CutoffFromDegrees converts a cone half-angle in degrees to the cosine the
// shader compares against
func CutoffFromDegrees(degrees float32) float32 {
	return float32(math.Cos(float64(mgl32.DegToRad(degrees))))
}

func (l *SpotLight) isLight() {}

func (l *SpotLight) Update(shader UniformSetter) {
	shader.SetVec4(uniformSpotLightPos, l.Pos)
	shader.SetVec4(uniformSpotLightDir, l.Dir)
	shader.SetVec4(uniformSpotLightAmbient, l.Ambient)
	shader.SetVec4(uniformSpotLightDiffuse, l.Diffuse)
	shader.SetVec4(uniformSpotLightSpecular, l.Specular)
	shader.SetVec3(uniformSpotLightVisibility, l.Visibility)
	shader.SetFloat(uniformSpotLightSoftCutoff, l.SoftCutoff)
	shader.SetFloat(uniformSpotLightCutoff, l.Cutoff)
}

func (l *SpotLight) SetVisibility(model AttenuationModel, distance float32) error {
	v, err := model.Attenuation(distance)
	if err != nil {
		return err
	}
	l.Visibility = v
	return nil
}

func (l *SpotLight) Validate() error {
	if err := l.validateCutoff(); err != nil {
		return err
	}
	return validateColors("spot light", l.Ambient, l.Diffuse, l.Specular)
}

func (l *SpotLight) validateCutoff() error {
	if !(l.Cutoff > l.SoftCutoff) {
		return fmt.Errorf("cutoff %v, soft cutoff %v: %w", l.Cutoff, l.SoftCutoff, ErrInvalidCutoff)
	}
	return nil
}

func validateColors(what string, colors ...mgl32.Vec4) error {
	for _, c := range colors {
		for _, ch := range c {
			if ch < 0 {
				return fmt.Errorf("%s color %v: %w", what, c, ErrNegativeColor)
			}
		}
	}
	return nil
}

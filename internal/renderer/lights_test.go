package renderer

import (
	"fmt"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	white = mgl32.Vec4{1, 1, 1, 1}
	black = mgl32.Vec4{0, 0, 0, 1}
)

func TestDirectionalLightUpdate(t *testing.T) {
	light := NewDirectionalLight(mgl32.Vec4{0, -1, 0, 0}, black, white, white)
	shader := &recordingShader{}

	light.Update(shader)

	want := []shaderCall{
		{"vec4", "dir_light.dir", mgl32.Vec4{0, -1, 0, 0}},
		{"vec4", "dir_light.ambient", mgl32.Vec4{0, 0, 0, 1}},
		{"vec4", "dir_light.diffuse", mgl32.Vec4{1, 1, 1, 1}},
		{"vec4", "dir_light.specular", mgl32.Vec4{1, 1, 1, 1}},
	}
	assert.Equal(t, want, shader.calls)
}

func TestPointLightUpdate(t *testing.T) {
	light := NewPointLight(mgl32.Vec4{1.2, 1, 2, 1}, black, white, white, 2)
	shader := &recordingShader{}

	light.Update(shader)

	assert.Equal(t, []string{
		"point_lights[2].pos",
		"point_lights[2].ambient",
		"point_lights[2].diffuse",
		"point_lights[2].specular",
		"point_lights[2].visibility",
	}, shader.names())
	assert.Equal(t, "vec3", shader.calls[4].Kind)
	assert.Equal(t, light.Visibility, shader.calls[4].Value)
}

func TestFourPointLightsUseDistinctSlots(t *testing.T) {
	shader := &recordingShader{}
	positions := []mgl32.Vec4{
		{0.7, 0.2, 2, 1},
		{2.3, -3.3, -4, 1},
		{-4, 2, -12, 1},
		{0, 0, -3, 1},
	}
	for i, pos := range positions {
		NewPointLight(pos, black, white, white, i).Update(shader)
	}

	seen := map[string]mgl32.Vec4{}
	for _, c := range shader.calls {
		if len(c.Name) > 4 && c.Name[len(c.Name)-4:] == ".pos" {
			_, dup := seen[c.Name]
			assert.False(t, dup, "slot written twice: %s", c.Name)
			seen[c.Name] = c.Value.(mgl32.Vec4)
		}
	}
	require.Len(t, seen, 4)
	for i, pos := range positions {
		assert.Equal(t, pos, seen[fmt.Sprintf("point_lights[%d].pos", i)])
	}
}

func TestPointLightSlotBeyondArrayStillFormats(t *testing.T) {
	shader := &recordingShader{}
	NewPointLight(white, black, white, white, 9).Update(shader)
	assert.Equal(t, "point_lights[9].pos", shader.calls[0].Name)
}

func TestSpotLightUpdate(t *testing.T) {
	light := NewSpotLight(mgl32.Vec4{0, 0, 0, 1}, mgl32.Vec4{0, 0, -1, 0}, black, white, white, 0.9)
	shader := &recordingShader{}

	light.Update(shader)

	assert.Equal(t, []string{
		"spot_light.pos",
		"spot_light.dir",
		"spot_light.ambient",
		"spot_light.diffuse",
		"spot_light.specular",
		"spot_light.visibility",
		"spot_light.soft_cutoff",
		"spot_light.cutoff",
	}, shader.names())
	assert.Equal(t, shaderCall{"float", "spot_light.soft_cutoff", float32(0.9)}, shader.calls[6])
	assert.Equal(t, shaderCall{"float", "spot_light.cutoff", light.Cutoff}, shader.calls[7])
}

func TestSpotLightDefaultCutoff(t *testing.T) {
	for _, soft := range []float32{-0.5, 0, 0.5, 0.9, CutoffFromDegrees(10)} {
		light := NewSpotLight(white, white, black, white, white, soft)
		assert.Equal(t, soft+DefaultCutoffOffset, light.Cutoff)
		assert.Greater(t, light.Cutoff, light.SoftCutoff)
		assert.NoError(t, light.Validate())
	}
}

func TestSpotLightExplicitCutoff(t *testing.T) {
	light, err := NewSpotLightWithCutoff(white, white, black, white, white, 0.9, 0.95)
	require.NoError(t, err)
	assert.Equal(t, float32(0.95), light.Cutoff)

	_, err = NewSpotLightWithCutoff(white, white, black, white, white, 0.9, 0.85)
	assert.ErrorIs(t, err, ErrInvalidCutoff)

	_, err = NewSpotLightWithCutoff(white, white, black, white, white, 0.9, 0.9)
	assert.ErrorIs(t, err, ErrInvalidCutoff)
}

func TestCutoffFromDegrees(t *testing.T) {
	assert.InDelta(t, 0.5, CutoffFromDegrees(60), 1e-6)
	assert.InDelta(t, 1.0, CutoffFromDegrees(0), 1e-6)
	assert.Greater(t, CutoffFromDegrees(10), CutoffFromDegrees(11))
}

func TestLightUpdateIsIdempotent(t *testing.T) {
	lights := []Light{
		NewDirectionalLight(mgl32.Vec4{-0.2, -1, -0.3, 0}, black, white, white),
		NewPointLight(mgl32.Vec4{1, 2, 3, 1}, black, white, white, 1),
		NewSpotLight(white, mgl32.Vec4{0, 0, -1, 0}, black, white, white, 0.95),
	}
	for _, light := range lights {
		first, second := &recordingShader{}, &recordingShader{}
		light.Update(first)
		light.Update(second)
		assert.Equal(t, first.calls, second.calls, "%T", light)
	}
}

func TestNewLightsStartWithDefaultVisibility(t *testing.T) {
	want, err := Attenuation(DefaultVisibilityDistance)
	require.NoError(t, err)

	assert.Equal(t, want, NewPointLight(white, black, white, white, 0).Visibility)
	assert.Equal(t, want, NewSpotLight(white, white, black, white, white, 0.9).Visibility)
}

func TestSetVisibility(t *testing.T) {
	light := NewPointLight(white, black, white, white, 0)
	require.NoError(t, light.SetVisibility(DefaultAttenuation, 10))
	assert.True(t, light.Visibility.ApproxEqual(mgl32.Vec3{1, 0.45, 0.75}), "got %v", light.Visibility)

	before := light.Visibility
	assert.ErrorIs(t, light.SetVisibility(DefaultAttenuation, 0), ErrInvalidDistance)
	assert.Equal(t, before, light.Visibility)

	spot := NewSpotLight(white, white, black, white, white, 0.9)
	require.NoError(t, spot.SetVisibility(DefaultAttenuation, 10))
	assert.Equal(t, light.Visibility, spot.Visibility)
}

func TestLightValidate(t *testing.T) {
	negative := mgl32.Vec4{-0.1, 0, 0, 1}

	assert.ErrorIs(t, NewDirectionalLight(white, negative, white, white).Validate(), ErrNegativeColor)
	assert.ErrorIs(t, NewPointLight(white, black, negative, white, 0).Validate(), ErrNegativeColor)
	assert.ErrorIs(t, NewPointLight(white, black, white, white, MaxPointLights).Validate(), ErrSlotOutOfRange)
	assert.ErrorIs(t, NewPointLight(white, black, white, white, -1).Validate(), ErrSlotOutOfRange)

	spot := NewSpotLight(white, white, black, white, white, 0.9)
	spot.Cutoff = 0.5
	assert.ErrorIs(t, spot.Validate(), ErrInvalidCutoff)
}

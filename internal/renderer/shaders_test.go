package renderer

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testVertexSource   = "#version 410 core\nvoid main() {}\n"
	testFragmentSource = "#version 410 core\nvoid main() {}\n"
	brokenSource       = "#version 410 core\n#error broken\n"
)

func writeShaderFiles(t *testing.T, vert, frag string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	vertPath := filepath.Join(dir, "shader.vert")
	fragPath := filepath.Join(dir, "shader.frag")
	require.NoError(t, os.WriteFile(vertPath, []byte(vert), 0o644))
	require.NoError(t, os.WriteFile(fragPath, []byte(frag), 0o644))
	return vertPath, fragPath
}

func TestShaderProgramFromSource(t *testing.T) {
	driver := newFakeDriver()
	sp := NewShaderProgramFromSource(driver, "test", testVertexSource, testFragmentSource)

	require.True(t, sp.IsValid())
	assert.NoError(t, sp.Err())
	assert.Equal(t, uint32(101), sp.Program())
	assert.Equal(t, sp.Program(), sp.Uniforms().Program())

	sp.Use()
	assert.Equal(t, []uint32{101}, driver.used)
	assert.Equal(t, []uint32{2, 3}, driver.released)
}

func TestShaderProgramCompileFailureIsNotFatal(t *testing.T) {
	driver := newFakeDriver()
	sp := NewShaderProgramFromSource(driver, "broken", testVertexSource, brokenSource)

	assert.False(t, sp.IsValid())
	assert.Error(t, sp.Err())
	assert.Contains(t, sp.Err().Error(), "FRAGMENT")
	assert.Equal(t, []uint32{2}, driver.released, "compiled vertex stage must be released")

	// an invalid program still accepts calls
	sp.Use()
	sp.SetFloat(UniformTime, 1)
	assert.Equal(t, []uint32{0}, driver.used)
}

func TestShaderProgramLinkFailure(t *testing.T) {
	driver := newFakeDriver()
	driver.linkErr = errors.New("link failed")

	sp := NewShaderProgramFromSource(driver, "unlinked", testVertexSource, testFragmentSource)

	assert.False(t, sp.IsValid())
	assert.ErrorIs(t, sp.Err(), driver.linkErr)
}

func TestShaderProgramMissingFile(t *testing.T) {
	sp := NewShaderProgram(newFakeDriver(), "does/not/exist.vert", "does/not/exist.frag")

	assert.False(t, sp.IsValid())
	assert.ErrorIs(t, sp.Err(), os.ErrNotExist)
}

func TestShaderProgramFromFiles(t *testing.T) {
	vert, frag := writeShaderFiles(t, testVertexSource, testFragmentSource)

	sp := NewShaderProgram(newFakeDriver(), vert, frag)

	require.True(t, sp.IsValid())
	gotVert, gotFrag := sp.Paths()
	assert.Equal(t, vert, gotVert)
	assert.Equal(t, frag, gotFrag)
}

func TestShaderProgramReload(t *testing.T) {
	driver := newFakeDriver(UniformTime)
	vert, frag := writeShaderFiles(t, testVertexSource, testFragmentSource)
	sp := NewShaderProgram(driver, vert, frag)
	require.True(t, sp.IsValid())
	sp.Preload(UniformTime)
	old := sp.Program()

	require.NoError(t, sp.Reload())

	assert.NotEqual(t, old, sp.Program())
	assert.Equal(t, []uint32{old}, driver.deleted)
	assert.Equal(t, sp.Program(), sp.Uniforms().Program())
	assert.Equal(t, 1, sp.Uniforms().Len(), "preloaded names survive a reload")
	assert.Equal(t, 2, driver.lookups[UniformTime])
}

func TestShaderProgramReloadFailureKeepsProgram(t *testing.T) {
	driver := newFakeDriver()
	vert, frag := writeShaderFiles(t, testVertexSource, testFragmentSource)
	sp := NewShaderProgram(driver, vert, frag)
	old := sp.Program()

	require.NoError(t, os.WriteFile(frag, []byte(brokenSource), 0o644))
	err := sp.Reload()

	assert.Error(t, err)
	assert.Equal(t, old, sp.Program())
	assert.True(t, sp.IsValid())
	assert.Empty(t, driver.deleted)
}

func TestShaderProgramReloadRequiresFiles(t *testing.T) {
	sp := NewShaderProgramFromSource(newFakeDriver(), "inline", testVertexSource, testFragmentSource)

	assert.ErrorIs(t, sp.Reload(), ErrNotFromFiles)
}

func TestShaderProgramDelete(t *testing.T) {
	driver := newFakeDriver(UniformTime)
	sp := NewShaderProgramFromSource(driver, "test", testVertexSource, testFragmentSource)
	sp.SetFloat(UniformTime, 1)
	program := sp.Program()

	sp.Delete()

	assert.Equal(t, []uint32{program}, driver.deleted)
	assert.False(t, sp.IsValid())
	assert.Equal(t, 0, sp.Uniforms().Len())
}

func TestShaderProgramBindTexture(t *testing.T) {
	driver := newFakeDriver()
	sp := NewShaderProgramFromSource(driver, "test", testVertexSource, testFragmentSource)

	sp.BindTexture2D(EmissionTextureUnit, 42)

	assert.Equal(t, []textureBind{{EmissionTextureUnit, 42}}, driver.binds)
}

func TestDefaultPhongShaderPreloadsLighting(t *testing.T) {
	driver := newFakeDriver(StandardUniformNames(MaxPointLights)...)
	sp := DefaultPhongShader(driver)
	require.True(t, sp.IsValid())
	lookupsAfterLink := driver.totalLookups()

	set := NewLightSet(DefaultAttenuation)
	require.NoError(t, set.Add(NewDirectionalLight(white, black, white, white)))
	require.NoError(t, set.Add(NewSpotLight(white, white, black, white, white, 0.9)))
	for i := 0; i < MaxPointLights; i++ {
		require.NoError(t, set.AddPointLight(NewPointLight(white, black, white, white, 0)))
	}
	require.NoError(t, set.Apply(sp, NewMaterial(1, 2, 3), 0.5, false))

	assert.Equal(t, lookupsAfterLink, driver.totalLookups(), "frame after link should only hit the cache")
}

func TestDefaultPhongShaderSamplerUnits(t *testing.T) {
	names := append(StandardUniformNames(MaxPointLights), uniformDiffuseMap, uniformSpecularMap, uniformEmissionMap)
	driver := newFakeDriver(names...)

	DefaultPhongShader(driver)

	got := map[string]interface{}{}
	for _, w := range driver.writes {
		got[w.Name] = w.Value
	}
	assert.Equal(t, int32(DiffuseTextureUnit), got[uniformDiffuseMap])
	assert.Equal(t, int32(SpecularTextureUnit), got[uniformSpecularMap])
	assert.Equal(t, int32(EmissionTextureUnit), got[uniformEmissionMap])
}

func TestPrepareMaterialShaderSurvivesReload(t *testing.T) {
	driver := newFakeDriver(uniformDiffuseMap, uniformSpecularMap, uniformEmissionMap)
	vert, frag := writeShaderFiles(t, testVertexSource, testFragmentSource)
	sp := NewShaderProgram(driver, vert, frag)
	PrepareMaterialShader(sp)
	require.Len(t, driver.writes, 3)

	require.NoError(t, sp.Reload())

	require.Len(t, driver.writes, 6, "samplers are set again on the new program")
	assert.Equal(t, sp.Program(), driver.used[len(driver.used)-1])
}

func TestPrepareMaterialShaderOnBrokenProgram(t *testing.T) {
	driver := newFakeDriver()
	vert, frag := writeShaderFiles(t, testVertexSource, brokenSource)
	sp := NewShaderProgram(driver, vert, frag)
	require.False(t, sp.IsValid())

	PrepareMaterialShader(sp)
	assert.Zero(t, driver.totalLookups(), "nothing is resolved against program 0")

	require.NoError(t, os.WriteFile(frag, []byte(testFragmentSource), 0o644))
	require.NoError(t, sp.Reload())

	assert.True(t, sp.IsValid())
	assert.Equal(t, len(StandardUniformNames(MaxPointLights))+5+3, driver.totalLookups())
}

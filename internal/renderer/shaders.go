package renderer

import (
	"errors"
	"fmt"
	"os"

	"Elk3D/internal/logger"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

var ErrNotFromFiles = errors.New("shader program was not built from files")

// =============================================================
//
//	Shaders
//
// =============================================================

// ShaderProgram owns one linked vertex+fragment program and the uniform
// locations resolved against it. A failed build is logged and leaves the
// program unusable (IsValid false) rather than failing the caller.
type ShaderProgram struct {
	Name string

	vertPath       string
	fragPath       string
	vertexSource   string
	fragmentSource string

	program  uint32
	uniforms *UniformCache
	preload  []string
	onReload func(sp *ShaderProgram)
	driver   Driver
	err      error
}

// NewShaderProgram reads, compiles and links the two stage files
func NewShaderProgram(driver Driver, vertPath, fragPath string) *ShaderProgram {
	sp := &ShaderProgram{
		Name:     vertPath + "+" + fragPath,
		vertPath: vertPath,
		fragPath: fragPath,
		driver:   driver,
	}
	sp.uniforms = NewUniformCache(driver, 0)

	vertSrc, fragSrc, err := readShaderSources(vertPath, fragPath)
	if err != nil {
		sp.fail(err)
		return sp
	}
	sp.vertexSource, sp.fragmentSource = vertSrc, fragSrc
	sp.build()
	return sp
}

// NewShaderProgramFromSource compiles in-memory sources. Reload is not
// available for these programs.
func NewShaderProgramFromSource(driver Driver, name, vertexSource, fragmentSource string) *ShaderProgram {
	sp := &ShaderProgram{
		Name:           name,
		vertexSource:   vertexSource,
		fragmentSource: fragmentSource,
		driver:         driver,
	}
	sp.uniforms = NewUniformCache(driver, 0)
	sp.build()
	return sp
}

func readShaderSources(vertPath, fragPath string) (string, string, error) {
	vert, err := os.ReadFile(vertPath)
	if err != nil {
		return "", "", fmt.Errorf("read vertex shader %s: %w", vertPath, err)
	}
	frag, err := os.ReadFile(fragPath)
	if err != nil {
		return "", "", fmt.Errorf("read fragment shader %s: %w", fragPath, err)
	}
	return string(vert), string(frag), nil
}

func (sp *ShaderProgram) build() {
	program, err := link(sp.driver, sp.vertexSource, sp.fragmentSource)
	if err != nil {
		sp.fail(err)
		return
	}
	sp.program = program
	sp.uniforms = NewUniformCache(sp.driver, program)
	sp.err = nil
	logger.Log.Info("Shader program linked", zap.String("name", sp.Name), zap.Uint32("program", program))
}

func link(driver Driver, vertexSource, fragmentSource string) (uint32, error) {
	vert, err := driver.CompileShader(vertexSource, VertexStage)
	if err != nil {
		return 0, err
	}
	frag, err := driver.CompileShader(fragmentSource, FragmentStage)
	if err != nil {
		driver.DeleteShader(vert)
		return 0, err
	}
	return driver.LinkProgram(vert, frag)
}

func (sp *ShaderProgram) fail(err error) {
	sp.err = err
	logger.Log.Error("Failed to build shader program", zap.String("name", sp.Name), zap.Error(err))
}

// IsValid reports whether the program linked
func (sp *ShaderProgram) IsValid() bool {
	return sp.program != 0
}

// Err returns the last build or reload failure
func (sp *ShaderProgram) Err() error {
	return sp.err
}

func (sp *ShaderProgram) Program() uint32 {
	return sp.program
}

// Uniforms exposes the location cache, mostly for diagnostics
func (sp *ShaderProgram) Uniforms() *UniformCache {
	return sp.uniforms
}

// Paths returns the stage files the program was built from, if any
func (sp *ShaderProgram) Paths() (vert, frag string) {
	return sp.vertPath, sp.fragPath
}

func (sp *ShaderProgram) Use() {
	sp.driver.UseProgram(sp.program)
}

// Preload resolves names now, if the program is linked, and again after
// every successful Reload.
func (sp *ShaderProgram) Preload(names ...string) {
	sp.preload = append(sp.preload, names...)
	if sp.IsValid() {
		sp.uniforms.Preload(names...)
	}
}

// SetOnReload registers fn to run after each successful Reload, with the new
// program already in use. Uniform values do not survive a relink, so this is
// where constant uniforms are set again.
func (sp *ShaderProgram) SetOnReload(fn func(sp *ShaderProgram)) {
	sp.onReload = fn
}

// Reload recompiles from the stage files. On failure the current program is
// kept and the error is returned.
func (sp *ShaderProgram) Reload() error {
	if sp.vertPath == "" || sp.fragPath == "" {
		return ErrNotFromFiles
	}

	vertSrc, fragSrc, err := readShaderSources(sp.vertPath, sp.fragPath)
	if err != nil {
		logger.Log.Warn("Shader reload failed", zap.String("name", sp.Name), zap.Error(err))
		return err
	}
	program, err := link(sp.driver, vertSrc, fragSrc)
	if err != nil {
		logger.Log.Warn("Shader reload failed", zap.String("name", sp.Name), zap.Error(err))
		return err
	}

	if sp.program != 0 {
		sp.driver.DeleteProgram(sp.program)
	}
	sp.uniforms.Clear()
	sp.vertexSource, sp.fragmentSource = vertSrc, fragSrc
	sp.program = program
	sp.uniforms = NewUniformCache(sp.driver, program)
	sp.uniforms.Preload(sp.preload...)
	sp.err = nil

	logger.Log.Info("Shader program reloaded", zap.String("name", sp.Name), zap.Uint32("program", program))
	if sp.onReload != nil {
		sp.Use()
		sp.onReload(sp)
	}
	return nil
}

// Delete releases the GL program and its cached locations
func (sp *ShaderProgram) Delete() {
	if sp.program != 0 {
		sp.driver.DeleteProgram(sp.program)
	}
	sp.program = 0
	sp.uniforms.Clear()
}

func (sp *ShaderProgram) SetBool(name string, value bool) { sp.uniforms.SetBool(name, value) }
func (sp *ShaderProgram) SetInt(name string, value int32) { sp.uniforms.SetInt(name, value) }
func (sp *ShaderProgram) SetFloat(name string, value float32) { sp.uniforms.SetFloat(name, value) }
func (sp *ShaderProgram) SetVec2(name string, value mgl32.Vec2) { sp.uniforms.SetVec2(name, value) }
func (sp *ShaderProgram) SetVec3(name string, value mgl32.Vec3) { sp.uniforms.SetVec3(name, value) }
func (sp *ShaderProgram) SetVec4(name string, value mgl32.Vec4) { sp.uniforms.SetVec4(name, value) }
func (sp *ShaderProgram) SetMat2(name string, value mgl32.Mat2) { sp.uniforms.SetMat2(name, value) }
func (sp *ShaderProgram) SetMat3(name string, value mgl32.Mat3) { sp.uniforms.SetMat3(name, value) }
func (sp *ShaderProgram) SetMat4(name string, value mgl32.Mat4) { sp.uniforms.SetMat4(name, value) }

func (sp *ShaderProgram) BindTexture2D(unit uint32, texture uint32) {
	sp.driver.ActiveTexture(unit)
	sp.driver.BindTexture2D(texture)
}

// DefaultPhongShader builds the bundled Phong program ready for
// UpdateMaterialShader.
func DefaultPhongShader(driver Driver) *ShaderProgram {
	sp := NewShaderProgramFromSource(driver, "phong", phongVertexShaderSource, phongFragmentShaderSource)
	PrepareMaterialShader(sp)
	return sp
}

// PrepareMaterialShader points the material samplers at their texture units
// and preloads the lighting and transform uniforms. Both are applied again
// whenever sp is reloaded.
func PrepareMaterialShader(sp *ShaderProgram) {
	sp.SetOnReload(bindMaterialSamplers)
	sp.Preload(StandardUniformNames(MaxPointLights)...)
	sp.Preload(UniformModel, UniformView, UniformProjection, UniformViewPos, UniformDisableEmission)
	if sp.IsValid() {
		sp.Use()
		bindMaterialSamplers(sp)
	}
}

func bindMaterialSamplers(sp *ShaderProgram) {
	sp.SetInt(uniformDiffuseMap, int32(DiffuseTextureUnit))
	sp.SetInt(uniformSpecularMap, int32(SpecularTextureUnit))
	sp.SetInt(uniformEmissionMap, int32(EmissionTextureUnit))
}

// DefaultLightSourceShader draws the light bulbs as flat coloured meshes
func DefaultLightSourceShader(driver Driver) *ShaderProgram {
	return NewShaderProgramFromSource(driver, "light_source", phongVertexShaderSource, lightSourceFragmentShaderSource)
}

const (
	UniformModel           = "model"
	UniformView            = "view"
	UniformProjection      = "proj"
	UniformViewPos         = "view_pos"
	UniformLightColor      = "light_color"
	UniformDisableEmission = "disable_emission"
)

var phongVertexShaderSource = `#version 410 core

layout(location = 0) in vec3 in_pos;
layout(location = 1) in vec3 in_normal;
layout(location = 2) in vec2 in_tex_coord;

uniform mat4 model;
uniform mat4 view;
uniform mat4 proj;

out vec3 frag_pos;
out vec3 normal;
out vec2 tex_coord;

void main() {
    frag_pos = vec3(model * vec4(in_pos, 1.0));
    normal = mat3(transpose(inverse(model))) * in_normal;
    tex_coord = in_tex_coord;
    gl_Position = proj * view * vec4(frag_pos, 1.0);
}
`

var phongFragmentShaderSource = `#version 410 core

#define NR_POINT_LIGHTS 4

struct Material {
    sampler2D diffuse;
    sampler2D specular;
    sampler2D emission;
    float shininess;
};

struct DirLight {
    vec4 dir;
    vec4 ambient;
    vec4 diffuse;
    vec4 specular;
};

struct PointLight {
    vec4 pos;
    vec4 ambient;
    vec4 diffuse;
    vec4 specular;
    vec3 visibility;
};

struct SpotLight {
    vec4 pos;
    vec4 dir;
    vec4 ambient;
    vec4 diffuse;
    vec4 specular;
    vec3 visibility;
    float soft_cutoff;
    float cutoff;
};

in vec3 frag_pos;
in vec3 normal;
in vec2 tex_coord;

uniform vec3 view_pos;
uniform float time;
uniform bool disable_emission;
uniform Material material;
uniform DirLight dir_light;
uniform PointLight point_lights[NR_POINT_LIGHTS];
uniform SpotLight spot_light;

out vec4 frag_color;

vec3 phong(vec3 light_dir, vec4 ambient, vec4 diffuse, vec4 specular, vec3 n, vec3 view_dir) {
    float diff = max(dot(n, light_dir), 0.0);
    vec3 reflect_dir = reflect(-light_dir, n);
    float spec = pow(max(dot(view_dir, reflect_dir), 0.0), material.shininess);

    vec3 base = vec3(texture(material.diffuse, tex_coord));
    vec3 a = ambient.rgb * base;
    vec3 d = diffuse.rgb * diff * base;
    vec3 s = specular.rgb * spec * vec3(texture(material.specular, tex_coord));
    return a + d + s;
}

float falloff(vec3 visibility, float dist) {
    return 1.0 / (visibility.x + visibility.y * dist + visibility.z * dist * dist);
}

void main() {
    vec3 n = normalize(normal);
    vec3 view_dir = normalize(view_pos - frag_pos);

    vec3 result = phong(normalize(-dir_light.dir.xyz), dir_light.ambient, dir_light.diffuse, dir_light.specular, n, view_dir);

    for (int i = 0; i < NR_POINT_LIGHTS; i++) {
        vec3 to_light = point_lights[i].pos.xyz - frag_pos;
        float att = falloff(point_lights[i].visibility, length(to_light));
        result += att * phong(normalize(to_light), point_lights[i].ambient, point_lights[i].diffuse, point_lights[i].specular, n, view_dir);
    }

    vec3 to_spot = spot_light.pos.xyz - frag_pos;
    vec3 spot_dir = normalize(to_spot);
    float theta = dot(spot_dir, normalize(-spot_light.dir.xyz));
    float lo = min(spot_light.soft_cutoff, spot_light.cutoff);
    float hi = max(spot_light.soft_cutoff, spot_light.cutoff);
    float cone = smoothstep(lo, hi, theta);
    result += cone * falloff(spot_light.visibility, length(to_spot)) *
        phong(spot_dir, spot_light.ambient, spot_light.diffuse, spot_light.specular, n, view_dir);

    if (!disable_emission) {
        result += vec3(texture(material.emission, tex_coord + vec2(0.0, time * 0.1)));
    }

    frag_color = vec4(result, 1.0);
}
`

var lightSourceFragmentShaderSource = `#version 410 core

uniform vec4 light_color;

out vec4 frag_color;

void main() {
    frag_color = light_color;
}
`

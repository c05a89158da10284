package renderer

import "fmt"

// MaxPointLights is the size of the point_lights array declared by the bundled
// Phong fragment shader.
const MaxPointLights = 4

// Uniform names shared with the fragment shader. These are the contract with
// the GLSL side and must match it exactly.
const (
	UniformTime      = "time"
	UniformShininess = "material.shininess"

	uniformDirLightDir      = "dir_light.dir"
	uniformDirLightAmbient  = "dir_light.ambient"
	uniformDirLightDiffuse  = "dir_light.diffuse"
	uniformDirLightSpecular = "dir_light.specular"

	uniformSpotLightPos        = "spot_light.pos"
	uniformSpotLightDir        = "spot_light.dir"
	uniformSpotLightAmbient    = "spot_light.ambient"
	uniformSpotLightDiffuse    = "spot_light.diffuse"
	uniformSpotLightSpecular   = "spot_light.specular"
	uniformSpotLightVisibility = "spot_light.visibility"
	uniformSpotLightSoftCutoff = "spot_light.soft_cutoff"
	uniformSpotLightCutoff     = "spot_light.cutoff"

	uniformDiffuseMap  = "material.diffuse"
	uniformSpecularMap = "material.specular"
	uniformEmissionMap = "material.emission"
)

type pointLightNames struct {
	pos, ambient, diffuse, specular, visibility string
}

var pointNames [MaxPointLights]pointLightNames

func init() {
	for i := range pointNames {
		pointNames[i] = formatPointLightNames(i)
	}
}

func formatPointLightNames(slot int) pointLightNames {
	prefix := fmt.Sprintf("point_lights[%d].", slot)
	return pointLightNames{
		pos:        prefix + "pos",
		ambient:    prefix + "ambient",
		diffuse:    prefix + "diffuse",
		specular:   prefix + "specular",
		visibility: prefix + "visibility",
	}
}

// pointUniformNames avoids formatting strings every frame for in-range slots
func pointUniformNames(slot int) pointLightNames {
	if slot >= 0 && slot < len(pointNames) {
		return pointNames[slot]
	}
	return formatPointLightNames(slot)
}

// StandardUniformNames lists every lighting/material uniform the update
// protocol writes, for ShaderProgram.Preload.
func StandardUniformNames(maxPointLights int) []string {
	names := []string{
		UniformTime, UniformShininess,
		uniformDirLightDir, uniformDirLightAmbient, uniformDirLightDiffuse, uniformDirLightSpecular,
		uniformSpotLightPos, uniformSpotLightDir, uniformSpotLightAmbient, uniformSpotLightDiffuse,
		uniformSpotLightSpecular, uniformSpotLightVisibility, uniformSpotLightSoftCutoff, uniformSpotLightCutoff,
	}
	for i := 0; i < maxPointLights; i++ {
		n := pointUniformNames(i)
		names = append(names, n.pos, n.ambient, n.diffuse, n.specular, n.visibility)
	}
	return names
}

package config

import (
	"fmt"

	"Elk3D/internal/renderer"

	"github.com/go-gl/mathgl/mgl32"
)

// BuiltLight pairs a renderer light with the config entry it came from
type BuiltLight struct {
	Name      string
	Behaviour string
	Light     renderer.Light
}

// SceneLights is the result of BuildLights
type SceneLights struct {
	Set     *renderer.LightSet
	Entries []BuiltLight
}

// Find returns the light built from the entry called name
func (s *SceneLights) Find(name string) (renderer.Light, bool) {
	for _, e := range s.Entries {
		if e.Name == name {
			return e.Light, true
		}
	}
	return nil, false
}

// BuildLights converts the configured lights into a LightSet whose point and
// spot visibility matches Lighting.Distance.
func (c *Config) BuildLights() (*SceneLights, error) {
	model := c.Attenuation()
	scene := &SceneLights{Set: renderer.NewLightSet(model)}

	// explicit slots first so auto-assigned lights fill the gaps
	var deferred []int
	for i, lc := range c.Lights {
		if lc.Type == LightPoint && lc.Slot == nil {
			deferred = append(deferred, i)
			continue
		}
		if err := scene.add(c.Lights[i], i, false); err != nil {
			return nil, err
		}
	}
	for _, i := range deferred {
		if err := scene.add(c.Lights[i], i, true); err != nil {
			return nil, err
		}
	}

	if err := scene.Set.SetVisibility(c.Lighting.Distance); err != nil {
		return nil, fmt.Errorf("lighting distance: %w", err)
	}
	return scene, nil
}

func (s *SceneLights) add(lc LightConfig, index int, autoSlot bool) error {
	light, err := lc.build()
	if err != nil {
		return fmt.Errorf("light %d (%s): %w", index, lc.label(), err)
	}

	if p, ok := light.(*renderer.PointLight); ok && autoSlot {
		err = s.Set.AddPointLight(p)
	} else {
		err = s.Set.Add(light)
	}
	if err != nil {
		return fmt.Errorf("light %d (%s): %w", index, lc.label(), err)
	}

	s.Entries = append(s.Entries, BuiltLight{Name: lc.Name, Behaviour: lc.Behaviour, Light: light})
	return nil
}

func (lc LightConfig) label() string {
	if lc.Name != "" {
		return lc.Name
	}
	return lc.Type
}

func (lc LightConfig) build() (renderer.Light, error) {
	ambient, err := color(lc.Ambient, mgl32.Vec4{0, 0, 0, 1})
	if err != nil {
		return nil, fmt.Errorf("ambient: %w", err)
	}
	diffuse, err := color(lc.Diffuse, mgl32.Vec4{1, 1, 1, 1})
	if err != nil {
		return nil, fmt.Errorf("diffuse: %w", err)
	}
	specular, err := color(lc.Specular, mgl32.Vec4{1, 1, 1, 1})
	if err != nil {
		return nil, fmt.Errorf("specular: %w", err)
	}

	switch lc.Type {
	case LightDirectional:
		dir, err := vector(lc.Direction, 0)
		if err != nil {
			return nil, fmt.Errorf("direction: %w", err)
		}
		return renderer.NewDirectionalLight(dir, ambient, diffuse, specular), nil

	case LightPoint:
		pos, err := vector(lc.Position, 1)
		if err != nil {
			return nil, fmt.Errorf("position: %w", err)
		}
		slot := 0
		if lc.Slot != nil {
			slot = *lc.Slot
		}
		return renderer.NewPointLight(pos, ambient, diffuse, specular, slot), nil

	case LightSpot:
		pos, err := vector(lc.Position, 1)
		if err != nil {
			return nil, fmt.Errorf("position: %w", err)
		}
		dir, err := vector(lc.Direction, 0)
		if err != nil {
			return nil, fmt.Errorf("direction: %w", err)
		}
		if lc.SoftCutoffDeg <= 0 || lc.SoftCutoffDeg >= 90 {
			return nil, fmt.Errorf("soft cutoff %v degrees: %w", lc.SoftCutoffDeg, ErrInvalidConfig)
		}
		soft := renderer.CutoffFromDegrees(lc.SoftCutoffDeg)
		if lc.CutoffCos == 0 {
			return renderer.NewSpotLight(pos, dir, ambient, diffuse, specular, soft), nil
		}
		return renderer.NewSpotLightWithCutoff(pos, dir, ambient, diffuse, specular, soft, lc.CutoffCos)

	default:
		return nil, fmt.Errorf("unknown light type %q: %w", lc.Type, ErrInvalidConfig)
	}
}

func vector(v []float32, w float32) (mgl32.Vec4, error) {
	if len(v) != 3 {
		return mgl32.Vec4{}, fmt.Errorf("want 3 components, got %d: %w", len(v), ErrInvalidConfig)
	}
	return mgl32.Vec4{v[0], v[1], v[2], w}, nil
}

func color(v []float32, def mgl32.Vec4) (mgl32.Vec4, error) {
	switch len(v) {
	case 0:
		return def, nil
	case 3:
		return mgl32.Vec4{v[0], v[1], v[2], 1}, nil
	case 4:
		return mgl32.Vec4{v[0], v[1], v[2], v[3]}, nil
	default:
		return mgl32.Vec4{}, fmt.Errorf("want 3 or 4 components, got %d: %w", len(v), ErrInvalidConfig)
	}
}

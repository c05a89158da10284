package behaviour

import (
	"errors"
	"fmt"
	"sort"

	"Elk3D/internal/renderer"
)

var ErrUnknownBehaviour = errors.New("unknown behaviour")

// Constructor builds a behaviour driving light. It fails when the light is
// not of the kind the behaviour animates.
type Constructor func(light renderer.Light) (Behaviour, error)

var registry = make(map[string]Constructor)

func init() {
	Register(OrbitBehaviour, func(light renderer.Light) (Behaviour, error) {
		sun, ok := light.(*renderer.DirectionalLight)
		if !ok {
			return nil, fmt.Errorf("%s needs a directional light, got %T", OrbitBehaviour, light)
		}
		return NewOrbitingSun(sun), nil
	})
	Register(FlickerBehaviour, func(light renderer.Light) (Behaviour, error) {
		bulb, ok := light.(*renderer.PointLight)
		if !ok {
			return nil, fmt.Errorf("%s needs a point light, got %T", FlickerBehaviour, light)
		}
		return NewFlickerLight(bulb, DefaultFlickerAmount, DefaultFlickerRate, int64(bulb.Slot)+1), nil
	})
}

// Register makes a behaviour available to scene configs under name
func Register(name string, constructor Constructor) {
	registry[name] = constructor
}

// Available returns the registered behaviour names, sorted
func Available() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func Create(name string, light renderer.Light) (Behaviour, error) {
	constructor, exists := registry[name]
	if !exists {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownBehaviour)
	}
	return constructor(light)
}

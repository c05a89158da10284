package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"Elk3D/internal/renderer"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v2"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config describes a lit demo scene: the window, which shaders to use and the
// lights bound to them.
type Config struct {
	LogLevel string         `yaml:"log_level" json:"log_level" toml:"log_level"`
	Window   WindowConfig   `yaml:"window" json:"window" toml:"window"`
	Shaders  ShaderConfig   `yaml:"shaders" json:"shaders" toml:"shaders"`
	Lighting LightingConfig `yaml:"lighting" json:"lighting" toml:"lighting"`
	Lights   []LightConfig  `yaml:"lights" json:"lights" toml:"lights"`
}

type WindowConfig struct {
	Title  string `yaml:"title" json:"title" toml:"title"`
	Width  int    `yaml:"width" json:"width" toml:"width"`
	Height int    `yaml:"height" json:"height" toml:"height"`
	VSync  bool   `yaml:"vsync" json:"vsync" toml:"vsync"`
}

// ShaderConfig points at GLSL files on disk. Empty paths select the built-in
// Phong program.
type ShaderConfig struct {
	Vertex    string `yaml:"vertex" json:"vertex" toml:"vertex"`
	Fragment  string `yaml:"fragment" json:"fragment" toml:"fragment"`
	HotReload bool   `yaml:"hot_reload" json:"hot_reload" toml:"hot_reload"`
}

// LightingConfig holds the attenuation constants and the starting view
// distance used to derive point/spot visibility.
type LightingConfig struct {
	Distance        float32 `yaml:"distance" json:"distance" toml:"distance"`
	DistanceStep    float32 `yaml:"distance_step" json:"distance_step" toml:"distance_step"`
	Linear          float32 `yaml:"linear" json:"linear" toml:"linear"`
	Quadratic       float32 `yaml:"quadratic" json:"quadratic" toml:"quadratic"`
	Shininess       float32 `yaml:"shininess" json:"shininess" toml:"shininess"`
	DisableEmission bool    `yaml:"disable_emission" json:"disable_emission" toml:"disable_emission"`
}

// LightConfig is one light. Type is "directional", "point" or "spot".
// Positions and directions are 3 numbers, colours 3 or 4 (alpha defaults to
// 1). Slot is only used by point lights; when absent the next free slot is
// taken. SoftCutoffDeg is the inner cone half-angle in degrees. CutoffCos is
// the outer cutoff as a cosine and must be greater than the soft cutoff's
// cosine; zero selects the default offset.
type LightConfig struct {
	Name          string    `yaml:"name" json:"name" toml:"name"`
	Type          string    `yaml:"type" json:"type" toml:"type"`
	Position      []float32 `yaml:"position,omitempty" json:"position,omitempty" toml:"position,omitempty"`
	Direction     []float32 `yaml:"direction,omitempty" json:"direction,omitempty" toml:"direction,omitempty"`
	Ambient       []float32 `yaml:"ambient" json:"ambient" toml:"ambient"`
	Diffuse       []float32 `yaml:"diffuse" json:"diffuse" toml:"diffuse"`
	Specular      []float32 `yaml:"specular" json:"specular" toml:"specular"`
	Slot          *int      `yaml:"slot,omitempty" json:"slot,omitempty" toml:"slot,omitempty"`
	SoftCutoffDeg float32   `yaml:"soft_cutoff_deg,omitempty" json:"soft_cutoff_deg,omitempty" toml:"soft_cutoff_deg,omitempty"`
	CutoffCos     float32   `yaml:"cutoff_cos,omitempty" json:"cutoff_cos,omitempty" toml:"cutoff_cos,omitempty"`
	Behaviour     string    `yaml:"behaviour,omitempty" json:"behaviour,omitempty" toml:"behaviour,omitempty"`
}

const (
	LightDirectional = "directional"
	LightPoint       = "point"
	LightSpot        = "spot"
)

// Load reads a .yaml/.yml, .json or .toml file. Fields missing from the file keep
// their Default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	cfg.Lights = nil
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	case ".json":
		err = json.Unmarshal(data, cfg)
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	default:
		return nil, fmt.Errorf("config %s: unsupported extension %q: %w", path, filepath.Ext(path), ErrInvalidConfig)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if len(cfg.Lights) == 0 {
		cfg.Lights = Default().Lights
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config in the format implied by the file extension
func (c *Config) Save(path string) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	case ".json":
		data, err = json.MarshalIndent(c, "", "  ")
	case ".toml":
		data, err = toml.Marshal(c)
	default:
		return fmt.Errorf("config %s: unsupported extension %q: %w", path, filepath.Ext(path), ErrInvalidConfig)
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Default is the chess board scene: a slowly orbiting sun, four red bulbs
// and a flashlight looking down -Z.
func Default() *Config {
	black := []float32{0, 0, 0}
	white := []float32{1, 1, 1}
	bulbDiffuse := []float32{0.7, 0.2, 0.2}

	cfg := &Config{
		LogLevel: "info",
		Window: WindowConfig{
			Title:  "Model Viewer",
			Width:  800,
			Height: 600,
			VSync:  true,
		},
		Lighting: LightingConfig{
			Distance:     10,
			DistanceStep: 5,
			Linear:       renderer.DefaultLinearAttenuation,
			Quadratic:    renderer.DefaultQuadraticAttenuation,
			Shininess:    renderer.DefaultShininess,
		},
		Lights: []LightConfig{
			{
				Name:      "sun",
				Type:      LightDirectional,
				Direction: []float32{-0.2, -1, -0.3},
				Ambient:   []float32{0.02, 0.01, 0.005},
				Diffuse:   []float32{0.5, 0.5, 0.5},
				Specular:  white,
				Behaviour: "orbit",
			},
		},
	}

	positions := [][]float32{
		{0.7, 0.2, 2},
		{2.3, -3.3, -4},
		{-4, 2, -12},
		{0, 0, -3},
	}
	for i, pos := range positions {
		slot := i
		cfg.Lights = append(cfg.Lights, LightConfig{
			Name:     fmt.Sprintf("bulb%d", i),
			Type:     LightPoint,
			Position: pos,
			Ambient:  black,
			Diffuse:  bulbDiffuse,
			Specular: white,
			Slot:     &slot,
		})
	}

	cfg.Lights = append(cfg.Lights, LightConfig{
		Name:          "flashlight",
		Type:          LightSpot,
		Position:      []float32{0, 0, 0},
		Direction:     []float32{0, 0, -1},
		Ambient:       black,
		Diffuse:       []float32{0.5, 0.5, 0.5},
		Specular:      white,
		SoftCutoffDeg: 10,
	})
	return cfg
}

// Attenuation returns the configured attenuation model
func (c *Config) Attenuation() renderer.AttenuationModel {
	return renderer.AttenuationModel{Linear: c.Lighting.Linear, Quadratic: c.Lighting.Quadratic}
}

// HasShaderFiles reports whether the scene uses shaders from disk rather
// than the built-in Phong program.
func (c *Config) HasShaderFiles() bool {
	return c.Shaders.Vertex != "" && c.Shaders.Fragment != ""
}

func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size %dx%d: %w", c.Window.Width, c.Window.Height, ErrInvalidConfig)
	}
	if (c.Shaders.Vertex == "") != (c.Shaders.Fragment == "") {
		return fmt.Errorf("shaders: vertex and fragment must be given together: %w", ErrInvalidConfig)
	}
	if c.Lighting.Linear < 0 || c.Lighting.Quadratic < 0 {
		return fmt.Errorf("attenuation constants must be non-negative: %w", ErrInvalidConfig)
	}
	if _, err := c.Attenuation().Attenuation(c.Lighting.Distance); err != nil {
		return fmt.Errorf("lighting distance: %w", err)
	}
	if c.Lighting.DistanceStep < 0 {
		return fmt.Errorf("distance step %v: %w", c.Lighting.DistanceStep, ErrInvalidConfig)
	}
	if c.Lighting.Shininess <= 0 {
		return fmt.Errorf("shininess %v: %w", c.Lighting.Shininess, ErrInvalidConfig)
	}

	_, err := c.BuildLights()
	return err
}

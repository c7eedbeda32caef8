// Package config handles objmesh configuration loading and management.
package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Config holds all settings.
type Config struct {
	Model   ModelConfig   `yaml:"model"`
	Texture TextureConfig `yaml:"texture"`
	Viewer  ViewerConfig  `yaml:"viewer"`
	Logging LoggingConfig `yaml:"logging"`
}

// ModelConfig holds model loading settings.
type ModelConfig struct {
	Scale         Scale  `yaml:"scale"`          // Uniform or per-axis position scale
	MaterialsFile string `yaml:"materials_file"` // Explicit MTL file, overrides mtllib
	TexturesDir   string `yaml:"textures_dir"`   // Base dir for map_Kd paths, model dir if empty
	UseMtllib     bool   `yaml:"use_mtllib"`     // Load mtllib references from the model
}

// TextureConfig holds texture resolution settings.
type TextureConfig struct {
	RemapExtension    string `yaml:"remap_extension"` // Replace map_Kd extensions, e.g. ".png"
	DefaultResolution int    `yaml:"default_resolution"`
	DefaultDivisions  int    `yaml:"default_divisions"`
	RandomColors      bool   `yaml:"random_colors"`
	MaxSize           int    `yaml:"max_size"`   // Downscale larger textures, 0 = off
	CacheSize         int    `yaml:"cache_size"` // Decoded texture handles kept per loader
}

// ViewerConfig holds display settings for objview.
type ViewerConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Scale is a per-axis scale factor. In YAML it may be written as a single
// number (applied to every axis) or as a three element list.
type Scale [3]float32

// Uniform returns a Scale applying s to every axis.
func Uniform(s float32) Scale {
	return Scale{s, s, s}
}

// UnmarshalYAML accepts a scalar or a sequence of three numbers.
func (s *Scale) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var f float32
		if err := value.Decode(&f); err != nil {
			return fmt.Errorf("scale: %w", err)
		}
		*s = Uniform(f)
		return nil
	case yaml.SequenceNode:
		var fs []float32
		if err := value.Decode(&fs); err != nil {
			return fmt.Errorf("scale: %w", err)
		}
		if len(fs) != 3 {
			return fmt.Errorf("scale: line %d: expected 3 values, got %d", value.Line, len(fs))
		}
		*s = Scale{fs[0], fs[1], fs[2]}
		return nil
	default:
		return fmt.Errorf("scale: line %d: expected number or list", value.Line)
	}
}

// MarshalYAML writes uniform scales as a single number.
func (s Scale) MarshalYAML() (any, error) {
	if s[0] == s[1] && s[1] == s[2] {
		return s[0], nil
	}
	return []float32{s[0], s[1], s[2]}, nil
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Model: ModelConfig{
			Scale:     Uniform(1),
			UseMtllib: true,
		},
		Texture: TextureConfig{
			RemapExtension:    "",
			DefaultResolution: 100,
			DefaultDivisions:  8,
			RandomColors:      false,
			MaxSize:           0,
			CacheSize:         64,
		},
		Viewer: ViewerConfig{
			Title:      "objview",
			Width:      800,
			Height:     600,
			Fullscreen: false,
			VSync:      true,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

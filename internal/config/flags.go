package config

import (
	"flag"
	"fmt"
	"strconv"
	"strings"
)

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagScale      = flag.String("scale", "", "Position scale: s or x,y,z")
	flagMaterials  = flag.String("mtl", "", "Materials file (overrides mtllib)")
	flagTextures   = flag.String("textures", "", "Texture directory")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) error {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagScale != "" {
		s, err := ParseScale(*flagScale)
		if err != nil {
			return fmt.Errorf("invalid -scale: %w", err)
		}
		cfg.Model.Scale = s
	}
	if *flagMaterials != "" {
		cfg.Model.MaterialsFile = *flagMaterials
	}
	if *flagTextures != "" {
		cfg.Model.TexturesDir = *flagTextures
	}
	if *flagFullscreen {
		cfg.Viewer.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Viewer.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Viewer.Height = *flagHeight
	}
	return nil
}

// ParseScale parses "s" or "x,y,z".
func ParseScale(v string) (Scale, error) {
	parts := strings.Split(v, ",")
	if len(parts) != 1 && len(parts) != 3 {
		return Scale{}, fmt.Errorf("scale %q: expected 1 or 3 values", v)
	}

	var s Scale
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return Scale{}, fmt.Errorf("scale %q: %w", v, err)
		}
		s[i] = float32(f)
	}
	if len(parts) == 1 {
		s = Uniform(s[0])
	}
	return s, nil
}

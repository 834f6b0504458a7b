package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadTilerun loads the Tile Run configuration.
// Search order: customPath -> ~/.tabletop/configs/tilerun.yaml -> ./configs/tilerun.yaml -> embedded default
func LoadTilerun(customPath string) (TilerunConfig, error) {
	var cfg TilerunConfig

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("tilerun.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile("configs/tilerun.yaml"); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultTilerunYAML, &cfg); err != nil {
		return DefaultTilerunConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".tabletop", "configs", filename)
}

// ApplyPacingPreset modifies the config based on a pacing preset.
func ApplyPacingPreset(cfg *TilerunConfig, preset PacingPreset) {
	if preset == PacingFixed {
		cfg.Pacing.Enabled = false
	} else {
		cfg.Pacing.Enabled = true
		cfg.Pacing.InitialLevel = InitialLevelForPacing(preset)
	}
}

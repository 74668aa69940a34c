package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/crowd-runner/internal/games/crowdrun/sim"
)

const crowdFile = "crowdrun.yaml"

// LoadCrowd loads Crowd Runner configuration.
// Search order: customPath -> ~/.arcade/configs/crowdrun.yaml -> ./configs/crowdrun.yaml -> embedded default.
// Values missing from a file keep their defaults.
func LoadCrowd(customPath string) (CrowdConfig, error) {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return DefaultCrowdConfig(), fmt.Errorf("config: read %s: %w", customPath, err)
		}
		cfg, err := parseCrowd(data)
		if err != nil {
			return DefaultCrowdConfig(), fmt.Errorf("config: parse %s: %w", customPath, err)
		}
		return cfg, nil
	}

	candidates := []string{userConfigPath(crowdFile), filepath.Join("configs", crowdFile)}
	for _, path := range candidates {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if cfg, err := parseCrowd(data); err == nil {
			return cfg, nil
		}
	}

	cfg, err := parseCrowd(defaultCrowdYAML)
	if err != nil {
		return DefaultCrowdConfig(), nil
	}
	return cfg, nil
}

func parseCrowd(data []byte) (CrowdConfig, error) {
	cfg := DefaultCrowdConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	cfg.Validate()
	return cfg, nil
}

// userConfigPath returns the path to a user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".arcade", "configs", filename)
}

// Validate clamps the generation knobs to their playable ranges and
// repairs values the simulation cannot use.
func (c *CrowdConfig) Validate() {
	g := sim.GenParams{Level: 1, Spacing: c.Generation.GateSpacing, Difficulty: c.Generation.Difficulty}.Normalize()
	c.Generation.GateSpacing = g.Spacing
	c.Generation.Difficulty = g.Difficulty

	if c.Player.LateralStep <= 0 {
		c.Player.LateralStep = 1
	}
	if c.Battle.Policy != sim.BattleTimed.String() {
		c.Battle.Policy = sim.BattleAttrition.String()
	}
	if c.Difficulty.Progression.Type != "level" {
		c.Difficulty.Progression.Type = "none"
	}
	if c.Difficulty.Progression.MaxAt < 2 {
		c.Difficulty.Progression.MaxAt = 2
	}
}

// ApplyCrowdPreset modifies the config based on a difficulty preset.
// Easy and hard override the multiplier and gate spacing. Normal leaves the
// file untouched; fixed keeps it too but turns the per-level ramp off.
func ApplyCrowdPreset(cfg *CrowdConfig, preset DifficultyPreset) {
	if m, ok := MultiplierForPreset(preset); ok {
		cfg.Generation.Difficulty = m
	}
	if preset == DifficultyFixed {
		cfg.Difficulty.Enabled = false
	}

	switch preset {
	case DifficultyEasy:
		cfg.Generation.GateSpacing = 15
	case DifficultyHard:
		cfg.Generation.GateSpacing = 30
	}
	cfg.Validate()
}

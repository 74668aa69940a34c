// Package config provides YAML-based game configuration loading and
// difficulty presets.
package config

import (
	"fmt"
	"strings"
)

// CrowdConfig contains all configuration for Crowd Runner.
type CrowdConfig struct {
	World      WorldConfig      `yaml:"world"`
	Battle     BattleConfig     `yaml:"battle"`
	Scoring    ScoringConfig    `yaml:"scoring"`
	Generation GenerationConfig `yaml:"generation"`
	Player     PlayerConfig     `yaml:"player"`
	Warnings   WarningsConfig   `yaml:"warnings"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// WorldConfig defines distances along the travel axis.
type WorldConfig struct {
	Speed                float64 `yaml:"speed"` // World units per second
	InitialEnemyPosition float64 `yaml:"initial_enemy_position"`
	NextWavePosition     float64 `yaml:"next_wave_position"`
	FinishLinePosition   float64 `yaml:"finish_line_position"`
}

// BattleConfig defines how enemy waves are fought.
type BattleConfig struct {
	Waves             int     `yaml:"waves"`
	Policy            string  `yaml:"policy"`   // "attrition" or "timed"
	Duration          float64 `yaml:"duration"` // Seconds, timed policy
	StageAdvanceDelay float64 `yaml:"stage_advance_delay"`
	CrowdLossRate     float64 `yaml:"crowd_loss_rate"`
	EnemyLossRate     float64 `yaml:"enemy_loss_rate"`
	ChangeThreshold   float64 `yaml:"change_threshold"`
}

// ScoringConfig defines point awards.
type ScoringConfig struct {
	PerEnemy         float64 `yaml:"per_enemy"`
	LevelBonusFactor int     `yaml:"level_bonus_factor"`
}

// GenerationConfig defines gate placement and enemy strength.
type GenerationConfig struct {
	GateSpacing float64 `yaml:"gate_spacing"`
	Difficulty  float64 `yaml:"difficulty"` // Enemy count multiplier
}

// PlayerConfig defines runner movement.
type PlayerConfig struct {
	LaneLimit   float64 `yaml:"lane_limit"`
	LateralStep float64 `yaml:"lateral_step"` // Units moved per key press
}

// WarningsConfig defines the approach banners.
type WarningsConfig struct {
	Distances      []float64 `yaml:"distances"`
	FinishDistance float64   `yaml:"finish_distance"`
	Duration       float64   `yaml:"duration"`
}

// DifficultyConfig defines how enemy strength ramps up with the level.
type DifficultyConfig struct {
	Enabled     bool              `yaml:"enabled"`
	Progression ProgressionConfig `yaml:"progression"`
	Scaling     ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines when the ramp reaches its maximum.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "level" or "none"
	MaxAt int    `yaml:"max_at"` // Level at which the full ramp applies
}

// ScalingConfig defines the size of the ramp.
type ScalingConfig struct {
	EnemyMultiplier float64 `yaml:"enemy_multiplier"` // Added to the difficulty multiplier at MaxAt
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset validates a preset name. An empty name is the normal preset.
func ParsePreset(name string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(strings.ToLower(strings.TrimSpace(name))); p {
	case "":
		return DifficultyNormal, nil
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	default:
		return "", fmt.Errorf("config: unknown difficulty %q (want easy, normal, hard or fixed)", name)
	}
}

// MultiplierForPreset returns the enemy multiplier of a preset.
// Normal and fixed keep whatever the file says and report ok=false.
func MultiplierForPreset(preset DifficultyPreset) (m float64, ok bool) {
	switch preset {
	case DifficultyEasy:
		return 0.5, true
	case DifficultyHard:
		return 1.5, true
	default:
		return 0, false
	}
}

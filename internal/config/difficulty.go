package config

import "fmt"

// DifficultyPreset names a strength level for the expectimax agent.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed" // keep the configured depth
)

// Presets lists the accepted preset names.
var Presets = []DifficultyPreset{DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed}

// ParsePreset validates a preset name. The empty string means fixed.
func ParsePreset(s string) (DifficultyPreset, error) {
	if s == "" {
		return DifficultyFixed, nil
	}
	for _, p := range Presets {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("config: unknown preset %q", s)
}

// DepthForPreset returns the search depth a preset selects, 0 for fixed.
func DepthForPreset(preset DifficultyPreset) int {
	switch preset {
	case DifficultyEasy:
		return 1
	case DifficultyNormal:
		return 3
	case DifficultyHard:
		return 5
	default:
		return 0
	}
}

// ApplyPreset adjusts the search settings for a preset.
func ApplyPreset(cfg *AgentConfig, preset DifficultyPreset) {
	if preset == DifficultyFixed {
		return
	}
	cfg.Search.MaxDepth = DepthForPreset(preset)

	switch preset {
	case DifficultyEasy:
		cfg.Search.Evaluator = "score"
	case DifficultyHard:
		cfg.Search.Evaluator = "weighted"
	}
}

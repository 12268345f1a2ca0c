package config

import (
	_ "embed"
)

//go:embed defaults/agent.yaml
var defaultAgentYAML []byte

// DefaultAgentConfig returns the built-in configuration, used when no YAML
// file can be read.
func DefaultAgentConfig() AgentConfig {
	return AgentConfig{
		Search: SearchConfig{
			MaxDepth:  3,
			Evaluator: "score",
			Weights: WeightsConfig{
				MaxTile:      1,
				Empty:        128,
				Corner:       1,
				Smoothness:   32,
				Monotonicity: 16,
			},
			Workers: 4,
		},
		Autoplay: AutoplayConfig{
			Agent:       "expectimax",
			MoveEvery:   6,
			MoveDelayMs: 150,
		},
	}
}

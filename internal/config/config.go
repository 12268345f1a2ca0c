// Package config provides YAML configuration for the agents and the
// autoplay loop, with named difficulty presets.
package config

import (
	"errors"
	"fmt"
)

// AgentConfig is the root of agent.yaml.
type AgentConfig struct {
	Search   SearchConfig   `yaml:"search" json:"search"`
	Autoplay AutoplayConfig `yaml:"autoplay" json:"autoplay"`
}

// SearchConfig parameterises the expectimax agent.
type SearchConfig struct {
	MaxDepth          int           `yaml:"max_depth" json:"max_depth"`                   // plies, player and environment both count
	Evaluator         string        `yaml:"evaluator" json:"evaluator"`                   // name of the horizon evaluator
	TerminalEvaluator string        `yaml:"terminal_evaluator" json:"terminal_evaluator"` // empty: exact score on finished boards
	Weights           WeightsConfig `yaml:"weights" json:"weights"`
	Workers           int           `yaml:"workers" json:"workers"`               // concurrent root moves
	TimeBudgetMs      int           `yaml:"time_budget_ms" json:"time_budget_ms"` // 0: fixed depth, no deadline
}

// WeightsConfig scales the bonus terms of the combined evaluators.
type WeightsConfig struct {
	MaxTile      float64 `yaml:"max_tile" json:"max_tile"`
	Empty        float64 `yaml:"empty" json:"empty"`
	Corner       float64 `yaml:"corner" json:"corner"`
	Smoothness   float64 `yaml:"smoothness" json:"smoothness"`
	Monotonicity float64 `yaml:"monotonicity" json:"monotonicity"`
}

// AutoplayConfig controls unattended games.
type AutoplayConfig struct {
	Agent       string `yaml:"agent" json:"agent"`                 // expectimax, random, down, left_down
	MoveEvery   int    `yaml:"move_every" json:"move_every"`       // ticks between moves in the TUI
	MoveDelayMs int    `yaml:"move_delay_ms" json:"move_delay_ms"` // pause between moves when streaming
}

var (
	errDepth   = errors.New("search.max_depth must be at least 1")
	errWorkers = errors.New("search.workers must not be negative")
	errBudget  = errors.New("search.time_budget_ms must not be negative")
)

// Validate checks ranges that the YAML schema cannot express.
// Evaluator and agent names are resolved by their consumers.
func (c AgentConfig) Validate() error {
	var errs []error
	if c.Search.MaxDepth < 1 {
		errs = append(errs, fmt.Errorf("%w, got %d", errDepth, c.Search.MaxDepth))
	}
	if c.Search.Workers < 0 {
		errs = append(errs, errWorkers)
	}
	if c.Search.TimeBudgetMs < 0 {
		errs = append(errs, errBudget)
	}
	if c.Autoplay.MoveEvery < 0 || c.Autoplay.MoveDelayMs < 0 {
		errs = append(errs, errors.New("autoplay intervals must not be negative"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

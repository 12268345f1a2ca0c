package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/agent"
	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/registry"
	"github.com/vovakirdan/tui-2048/internal/search"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered games",
	Args:  cobra.NoArgs,
	Run:   runList,
}

var evaluatorsCmd = &cobra.Command{
	Use:   "evaluators",
	Short: "List evaluators, agents and presets",
	Args:  cobra.NoArgs,
	Run:   runEvaluators,
}

func runList(_ *cobra.Command, _ []string) {
	games := registry.List()

	maxIDLen := len("ID")
	for _, g := range games {
		maxIDLen = max(maxIDLen, len(g.ID))
	}

	fmt.Println("Available games:")
	fmt.Println()
	fmt.Printf("  %-*s  %s\n", maxIDLen, "ID", "Title")
	fmt.Printf("  %-*s  %s\n", maxIDLen, "--", "-----")
	for _, g := range games {
		fmt.Printf("  %-*s  %s\n", maxIDLen, g.ID, g.Title)
	}
	fmt.Println()
	fmt.Println("Run 't2048 play <id>' to play a game.")
}

func runEvaluators(_ *cobra.Command, _ []string) {
	fmt.Printf("Evaluators: %s\n", strings.Join(search.EvaluatorNames(), ", "))
	fmt.Printf("Agents:     %s\n", strings.Join(agent.Names, ", "))

	presets := make([]string, 0, len(config.Presets))
	for _, p := range config.Presets {
		if d := config.DepthForPreset(p); d > 0 {
			presets = append(presets, fmt.Sprintf("%s (depth %d)", p, d))
		} else {
			presets = append(presets, string(p))
		}
	}
	fmt.Printf("Presets:    %s\n", strings.Join(presets, ", "))

	s := agentCfg.Search
	fmt.Printf("\nActive: depth %d, evaluator %s, workers %d", s.MaxDepth, s.Evaluator, s.Workers)
	if s.TimeBudgetMs > 0 {
		fmt.Printf(", budget %dms", s.TimeBudgetMs)
	}
	fmt.Println()
}

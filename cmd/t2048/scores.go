package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/registry"
)

var flagRecent int

var scoresCmd = &cobra.Command{
	Use:   "scores [game]",
	Short: "Show high scores and agent records",
	Long: `Display the top 10 scores for a game (default "2048") followed by
the recorded agent games.

Examples:
  t2048 scores
  t2048 scores 2048_ai
  t2048 scores --recent 20`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagRecent, "recent", 5, "Number of recent agent games to list")
}

func runScores(_ *cobra.Command, args []string) {
	gameID := "2048"
	if len(args) == 1 {
		gameID = args[0]
	}
	game, err := registry.Create(gameID)
	if err != nil {
		logger.Fatal("unknown game, run 't2048 list' to see available games", "game", gameID)
	}

	store := openStore(true)
	defer store.Close()

	scores, err := store.TopScores(gameID, 10)
	if err != nil {
		logger.Fatal("cannot load scores", "err", err)
	}

	fmt.Printf("High Scores - %s\n\n", game.Title())
	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Printf("Run 't2048 play %s' to set the first one.\n", gameID)
	} else {
		fmt.Printf("  %-4s  %-8s  %-6s  %s\n", "Rank", "Score", "Tile", "Date")
		fmt.Printf("  %-4s  %-8s  %-6s  %s\n", "----", "-----", "----", "----")
		for i, e := range scores {
			fmt.Printf("  %-4d  %-8d  %-6d  %s\n", i+1, e.Score, e.MaxTile, e.CreatedAt.Format("2006-01-02 15:04"))
		}
		if stats, err := store.GameStats(gameID); err == nil {
			fmt.Printf("\nGames: %d  Best: %d  Average: %.0f  Best tile: %d\n",
				stats.GamesCount, stats.HighScore, stats.AvgScore, stats.BestTile)
		}
	}

	summaries, err := store.AgentSummaries()
	if err != nil {
		logger.Fatal("cannot load agent records", "err", err)
	}
	if len(summaries) == 0 {
		return
	}

	fmt.Printf("\nAgent records\n\n")
	fmt.Printf("  %-12s  %-12s  %-5s  %-5s  %-8s  %-8s  %s\n", "Agent", "Evaluator", "Depth", "Runs", "Best", "Average", "Tile")
	for _, s := range summaries {
		eval, depth := s.Evaluator, fmt.Sprint(s.Depth)
		if eval == "" {
			eval, depth = "-", "-"
		}
		fmt.Printf("  %-12s  %-12s  %-5s  %-5d  %-8d  %-8.0f  %d\n",
			s.Agent, eval, depth, s.Runs, s.BestScore, s.AvgScore, s.BestTile)
	}

	if flagRecent <= 0 {
		return
	}
	runs, err := store.RecentAgentRuns(flagRecent)
	if err != nil {
		logger.Fatal("cannot load agent games", "err", err)
	}
	fmt.Printf("\nRecent agent games\n\n")
	for _, r := range runs {
		fmt.Printf("  %s  %-12s  seed %-20d  score %-7d  tile %-5d  moves %d\n",
			r.CreatedAt.Format("2006-01-02 15:04"), r.Agent, r.Seed, r.Score, r.MaxTile, r.Moves)
	}
}

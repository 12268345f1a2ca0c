package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/agent"
	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

var (
	flagAgent     string
	flagDepth     int
	flagEvaluator string
	flagShowMoves bool
	flagNoSave    bool
)

var autoCmd = &cobra.Command{
	Use:   "auto",
	Short: "Let an agent play one game without a UI",
	Long: `Play a single game with the chosen agent, print the final board and
record the result in the scores database.

Agents: expectimax, random, down, left_down.

Examples:
  t2048 auto
  t2048 auto --agent random --seed 7
  t2048 auto --depth 4 --evaluator weighted --show-moves
  t2048 auto --preset hard --no-save`,
	Args: cobra.NoArgs,
	Run:  runAuto,
}

func init() {
	autoCmd.Flags().StringVar(&flagAgent, "agent", "", "Agent name (default from config)")
	autoCmd.Flags().IntVar(&flagDepth, "depth", 0, "Override search depth")
	autoCmd.Flags().StringVar(&flagEvaluator, "evaluator", "", "Override evaluator")
	autoCmd.Flags().BoolVar(&flagShowMoves, "show-moves", false, "Print the board after every move")
	autoCmd.Flags().BoolVar(&flagNoSave, "no-save", false, "Do not record the game")
}

func runAuto(_ *cobra.Command, _ []string) {
	cfg := agentCfg
	if flagAgent != "" {
		cfg.Autoplay.Agent = flagAgent
	}
	if flagDepth != 0 {
		cfg.Search.MaxDepth = flagDepth
	}
	if flagEvaluator != "" {
		cfg.Search.Evaluator = flagEvaluator
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid agent settings", "err", err)
	}

	gameSeed := seed()
	rng := rand.New(rand.NewSource(gameSeed))
	a, err := agent.New(cfg.Autoplay.Agent, cfg, rng, logger)
	if err != nil {
		logger.Fatal("cannot build agent", "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := []agent.PlayOption{agent.WithPlayLogger(logger)}
	if flagShowMoves {
		opts = append(opts, agent.WithObserver(func(st agent.Step) error {
			fmt.Printf("turn %d: %s\n%s\n", st.Turn, st.Move, st.Board)
			return nil
		}))
	}

	board := t2048.NewGame(nil, rng)
	logger.Info("game started", "agent", a.Name(), "seed", gameSeed)
	res, err := agent.Play(ctx, a, board, rng, opts...)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Warn("interrupted", "moves", res.Moves)
		} else {
			logger.Error("game aborted", "err", err)
		}
	}

	fmt.Println(board)
	fmt.Printf("agent %s  seed %d  score %d  max tile %d  moves %d  wasted %d  time %s\n",
		res.Agent, gameSeed, res.Score, res.MaxTile, res.Moves, res.Wasted, res.Duration.Round(time.Millisecond))

	if err != nil || flagNoSave {
		return
	}
	store := openStore(false)
	if store == nil {
		return
	}
	defer store.Close()

	run := storage.AgentRun{
		Agent:    res.Agent,
		Seed:     gameSeed,
		Score:    res.Score,
		MaxTile:  res.MaxTile,
		Moves:    res.Moves,
		Wasted:   res.Wasted,
		Duration: res.Duration,
	}
	if res.Agent == "expectimax" {
		run.Evaluator, run.Depth = cfg.Search.Evaluator, cfg.Search.MaxDepth
	}
	if _, err := store.SaveAgentRun(run); err != nil {
		logger.Warn("game not recorded", "err", err)
	}
}

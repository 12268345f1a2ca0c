package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/agent"
	"github.com/vovakirdan/tui-2048/internal/platform/tui"
	"github.com/vovakirdan/tui-2048/internal/registry"
)

var playCmd = &cobra.Command{
	Use:   "play [game]",
	Short: "Play 2048",
	Long: `Start a game in the terminal. The game defaults to "2048".

Controls:
  Arrows/WASD/HJKL - Slide tiles
  P/Space          - Pause
  R                - Restart
  Ctrl+S           - Save a text screenshot
  Q/Esc/Ctrl+C     - Quit

Examples:
  t2048 play
  t2048 play --seed 42
  t2048 play 2048_ai --preset hard`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the agent play",
	Long: `Run the autopilot game. Without --preset a picker asks for the
agent strength first.

Examples:
  t2048 watch
  t2048 watch --preset easy
  t2048 watch --config ./agent.yaml --preset fixed`,
	Args: cobra.NoArgs,
	Run:  runWatch,
}

func runPlay(_ *cobra.Command, args []string) {
	gameID := "2048"
	if len(args) == 1 {
		gameID = args[0]
	}
	if !registry.Exists(gameID) {
		logger.Fatal("unknown game, run 't2048 list' to see available games", "game", gameID)
	}
	runGame(gameID)
}

func runWatch(_ *cobra.Command, _ []string) {
	if flagPreset == "" {
		sel, err := tui.RunAutopilotMenu(runtimeConfig())
		if err != nil {
			logger.Fatal("autopilot menu", "err", err)
		}
		if sel == nil {
			return
		}
		cfg := agentCfg
		sel.Apply(&cfg)
		if err := cfg.Validate(); err != nil {
			logger.Fatal("invalid selection", "err", err)
		}
		agentCfg = cfg
	}
	runGame(agent.AutopilotID)
}

// runGame runs gameID in the terminal with scores saved when possible.
func runGame(gameID string) {
	tuiLog, closeLog := tuiLogger()
	defer closeLog()
	agent.Configure(agentCfg, tuiLog)

	game, err := registry.Create(gameID)
	if err != nil {
		logger.Fatal("cannot create game", "err", err)
	}

	store := openStore(false)
	if store != nil {
		defer store.Close()
	}

	if err := tui.Run(game, store, runtimeConfig(), tuiLog); err != nil {
		logger.Error("game exited", "err", err)
	}
}

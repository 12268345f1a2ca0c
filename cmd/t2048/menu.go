package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/agent"
	"github.com/vovakirdan/tui-2048/internal/platform/tui"
	"github.com/vovakirdan/tui-2048/internal/registry"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Pick a game interactively",
	Long: `Start in menu mode. After a game ends you return to the menu.

Controls:
  Up/Down/j/k  - Navigate
  Enter/Space  - Select
  Tab          - Scoreboard
  Q            - Quit`,
	Args: cobra.NoArgs,
	Run:  runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	tuiLog, closeLog := tuiLogger()
	defer closeLog()

	store := openStore(false)
	if store != nil {
		defer store.Close()
	}

	cfg := runtimeConfig()
	for {
		result, err := tui.RunMenu(store, cfg)
		if err != nil {
			logger.Error("menu", "err", err)
			return
		}
		cfg = result.Config

		switch {
		case result.Quit:
			return
		case result.WantsScoreboard:
			goBack, err := tui.RunScoreboard(store, cfg.ScreenW, cfg.ScreenH)
			if err != nil {
				logger.Error("scoreboard", "err", err)
			}
			if !goBack {
				return
			}
			continue
		}

		pilotCfg := agentCfg
		if result.GameID == agent.AutopilotID {
			sel, err := tui.RunAutopilotMenu(cfg)
			if err != nil {
				logger.Error("autopilot menu", "err", err)
				continue
			}
			if sel == nil {
				continue
			}
			sel.Apply(&pilotCfg)
		}
		agent.Configure(pilotCfg, tuiLog)

		game, err := registry.Create(result.GameID)
		if err != nil {
			logger.Error("cannot create game", "err", err)
			continue
		}
		cfg.Seed = seed()
		if err := tui.Run(game, store, cfg, tuiLog); err != nil {
			logger.Error("game exited", "err", err)
		}
	}
}

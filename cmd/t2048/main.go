// t2048 plays 2048 in the terminal, lets an expectimax agent play it, and
// serves both over SSH and HTTP.
//
// Usage:
//
//	t2048 play              - Play 2048 yourself
//	t2048 watch             - Watch the agent play in the terminal
//	t2048 auto              - Let an agent play one game headless and print the result
//	t2048 menu              - Pick a game interactively
//	t2048 scores [game]     - Show high scores and agent records
//	t2048 serve             - Start the SSH server
//	t2048 api               - Start the HTTP/WebSocket API
//	t2048 list              - List registered games
//	t2048 evaluators        - List evaluators and agents
//
// Global flags:
//
//	--seed <value>     - RNG seed (0 = random)
//	--db <path>        - Scores database (default: ~/.t2048/scores.db)
//	--config <path>    - Agent config YAML
//	--preset <name>    - Agent strength: easy, normal, hard, fixed
//	--log-level <lvl>  - debug, info, warn, error
//	--fps <rate>       - Tick rate for terminal games
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-2048/internal/agent"
	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/core"
	_ "github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

var (
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagConfig   string
	flagPreset   string
	flagLogLevel string
	flagLogFile  string
)

// Set up by the root command before any subcommand runs.
var (
	logger   *log.Logger
	agentCfg config.AgentConfig
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "t2048",
	Short: "2048 in your terminal, with an expectimax agent",
	Long: `t2048 is a terminal 2048 with a built-in expectimax player.

Available commands:
  play        - Play 2048 yourself
  watch       - Watch the agent play
  auto        - Run one headless agent game
  menu        - Interactive game picker
  scores      - View high scores and agent records
  serve       - Start SSH server for remote play
  api         - Start the HTTP/WebSocket API
  list        - Show registered games
  evaluators  - Show evaluators and agents

Examples:
  t2048 play
  t2048 watch --preset hard
  t2048 auto --agent expectimax --seed 42
  t2048 serve --ssh :2222
  t2048 api --addr :8080`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.IntVar(&flagFPS, "fps", 30, "Tick rate (frames per second)")
	pf.Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random)")
	pf.StringVar(&flagDBPath, "db", "~/.t2048/scores.db", "Path to scores database")
	pf.StringVar(&flagConfig, "config", "", "Path to agent config YAML")
	pf.StringVar(&flagPreset, "preset", "", "Agent strength: easy, normal, hard, fixed")
	pf.StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	pf.StringVar(&flagLogFile, "log-file", "", "Write logs here while a terminal UI is running")

	rootCmd.AddCommand(playCmd, watchCmd, autoCmd, menuCmd, scoresCmd, serveCmd, apiCmd, listCmd, evaluatorsCmd)
}

// setup builds the logger and loads the agent configuration.
func setup(cmd *cobra.Command, _ []string) error {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return fmt.Errorf("--log-level: %w", err)
	}
	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "t2048",
		Level:           level,
	})

	agentCfg, err = config.Load(flagConfig)
	if err != nil {
		return err
	}
	preset, err := config.ParsePreset(flagPreset)
	if err != nil {
		return err
	}
	config.ApplyPreset(&agentCfg, preset)
	if err := agentCfg.Validate(); err != nil {
		return err
	}

	agent.Configure(agentCfg, logger)
	logger.Debug("config loaded", "command", cmd.Name(), "depth", agentCfg.Search.MaxDepth,
		"evaluator", agentCfg.Search.Evaluator, "agent", agentCfg.Autoplay.Agent)
	return nil
}

// tuiLogger redirects logging away from the terminal the UI draws on: to
// --log-file when given, otherwise nowhere. The returned func closes the file.
func tuiLogger() (*log.Logger, func()) {
	l := logger.With()
	l.SetOutput(io.Discard)
	if flagLogFile == "" {
		return l, func() {}
	}

	if err := os.MkdirAll(filepath.Dir(flagLogFile), 0o755); err != nil {
		logger.Warn("log file disabled", "err", err)
		return l, func() {}
	}
	f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		logger.Warn("log file disabled", "err", err)
		return l, func() {}
	}
	l.SetOutput(f)
	return l, func() { f.Close() }
}

// runtimeConfig sizes the screen from the controlling terminal.
func runtimeConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW, cfg.ScreenH = w, h
	}
	cfg.TickRate = flagFPS
	cfg.Seed = flagSeed
	return cfg
}

// seed returns --seed, or a fresh random seed when it is 0.
func seed() int64 {
	if flagSeed != 0 {
		return flagSeed
	}
	return agent.RandomSeed()
}

// openStore opens the scores database. Terminal games run without one when
// it cannot be opened.
func openStore(required bool) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		if required {
			logger.Fatal("cannot open scores database", "path", flagDBPath, "err", err)
		}
		logger.Warn("scores will not be saved", "err", err)
		return nil
	}
	return store
}

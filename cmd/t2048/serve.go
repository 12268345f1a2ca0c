package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/platform/httpapi"
	"github.com/vovakirdan/tui-2048/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
	flagAPIAddr     string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the SSH server",
	Long: `Start an SSH server. Each connection gets its own menu; all users
share one scores database.

The host key is read from --host-key or generated at ~/.t2048/host_key.

Examples:
  t2048 serve
  t2048 serve --ssh :2222
  t2048 serve --host-key ./host_key --db ./scores.db

Connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the HTTP/WebSocket API",
	Long: `Serve the engine over HTTP.

Routes:
  GET  /api/ping
  GET  /api/evaluators
  POST /api/move          {"board": [[...]], "score": 0, "depth": 3, "evaluator": "weighted"}
  GET  /api/scores/{game}?limit=10
  GET  /api/agent-runs
  GET  /ws/autoplay?agent=expectimax&seed=1&delay_ms=150

Examples:
  t2048 api
  t2048 api --addr 127.0.0.1:9000 --preset easy`,
	Args: cobra.NoArgs,
	Run:  runAPI,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (generated if missing)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes")
	apiCmd.Flags().StringVar(&flagAPIAddr, "addr", ":8080", "HTTP listen address")
}

func runServe(_ *cobra.Command, _ []string) {
	store := openStore(false)
	if store != nil {
		defer store.Close()
	}

	cfg := tui.DefaultSSHServerConfig()
	cfg.Address = flagSSHAddr
	cfg.HostKeyPath = flagHostKey
	cfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	cfg.TickRate = flagFPS

	server, err := tui.NewSSHServer(cfg, store, logger)
	if err != nil {
		logger.Fatal("cannot create SSH server", "err", err)
	}
	if err := server.ListenAndServe(); err != nil {
		logger.Fatal("SSH server stopped", "err", err)
	}
}

func runAPI(_ *cobra.Command, _ []string) {
	store := openStore(false)
	if store != nil {
		defer store.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := httpapi.New(agentCfg, store, logger).ListenAndServe(ctx, flagAPIAddr); err != nil {
		logger.Error("API server stopped", "err", err)
	}
}

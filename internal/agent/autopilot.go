package agent

import (
	"io"
	"math/rand"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/registry"
)

// AutopilotID is the registry ID of the agent-driven game.
const AutopilotID = "2048_ai"

var (
	pilotMu     sync.RWMutex
	pilotConfig = config.DefaultAgentConfig()
	pilotLogger = log.New(io.Discard)
)

// Configure sets the agent settings used by autopilot games created afterwards.
func Configure(cfg config.AgentConfig, logger *log.Logger) {
	pilotMu.Lock()
	defer pilotMu.Unlock()

	pilotConfig = cfg
	if logger != nil {
		pilotLogger = logger
	}
}

func init() {
	registry.Register(AutopilotID, func() registry.Game {
		return NewAutopilot()
	})
}

// NewAutopilot creates a game played by the configured agent.
func NewAutopilot() *t2048.Game {
	pilotMu.RLock()
	cfg, logger := pilotConfig, pilotLogger
	pilotMu.RUnlock()

	var pilot t2048.Pilot
	a, err := New(cfg.Autoplay.Agent, cfg, rand.New(rand.NewSource(RandomSeed())), logger)
	if err != nil {
		logger.Error("autopilot disabled", "err", err)
		pilot = brokenPilot{err: err}
	} else {
		pilot = a
	}
	return t2048.NewWithPilot(AutopilotID, "2048 Autopilot", pilot, cfg.Autoplay.MoveEvery)
}

// brokenPilot reports a configuration error on its first move.
type brokenPilot struct{ err error }

func (p brokenPilot) NextMove(*t2048.Board) (t2048.Direction, error) {
	return 0, p.err
}

// Package agent holds the move-choosing players and the loop that plays one
// game with them.
package agent

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"lukechampine.com/frand"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/search"
)

// Agent chooses the next move for a board. Implementations must not retain b.
type Agent interface {
	Name() string
	NextMove(b *t2048.Board) (t2048.Direction, error)
}

// Names lists the agents accepted by New.
var Names = []string{"expectimax", "random", "down", "left_down"}

// New builds the named agent. Randomised agents draw from rng and are not
// safe for concurrent use.
func New(name string, cfg config.AgentConfig, rng *rand.Rand, logger *log.Logger) (Agent, error) {
	switch name {
	case "expectimax":
		a, err := FromConfig(cfg.Search, logger)
		if err != nil {
			return nil, err
		}
		return a, nil
	case "random":
		return NewRandom(rng), nil
	case "down":
		return NewDownFirst(rng), nil
	case "left_down":
		return &LeftDown{}, nil
	}
	return nil, fmt.Errorf("agent: unknown agent %q (have %v)", name, Names)
}

// FromConfig builds an expectimax agent from search settings.
func FromConfig(cfg config.SearchConfig, logger *log.Logger) (*search.Agent, error) {
	weights := search.Weights{
		MaxTile:      cfg.Weights.MaxTile,
		Empty:        cfg.Weights.Empty,
		Corner:       cfg.Weights.Corner,
		Smoothness:   cfg.Weights.Smoothness,
		Monotonicity: cfg.Weights.Monotonicity,
	}

	eval, err := search.EvaluatorByName(cfg.Evaluator, weights)
	if err != nil {
		return nil, fmt.Errorf("agent: %w", err)
	}
	opts := []search.Option{search.WithEvaluator(eval)}

	if cfg.TerminalEvaluator != "" {
		terminal, err := search.EvaluatorByName(cfg.TerminalEvaluator, weights)
		if err != nil {
			return nil, fmt.Errorf("agent: terminal: %w", err)
		}
		opts = append(opts, search.WithTerminalEvaluator(terminal))
	}
	if cfg.Workers > 0 {
		opts = append(opts, search.WithWorkers(cfg.Workers))
	}
	if cfg.TimeBudgetMs > 0 {
		opts = append(opts, search.WithTimeBudget(time.Duration(cfg.TimeBudgetMs)*time.Millisecond))
	}
	if logger != nil {
		opts = append(opts, search.WithLogger(logger.WithPrefix("search")))
	}

	return search.NewAgent(cfg.MaxDepth, opts...)
}

// RandomSeed returns a seed drawn from the system CSPRNG.
func RandomSeed() int64 {
	return int64(frand.Uint64n(math.MaxInt64))
}

// Random plays a uniformly random legal move.
type Random struct {
	rng *rand.Rand
}

// NewRandom returns a Random agent.
func NewRandom(rng *rand.Rand) *Random {
	return &Random{rng: rng}
}

func (a *Random) Name() string { return "random" }

func (a *Random) NextMove(b *t2048.Board) (t2048.Direction, error) {
	moves := b.LegalMoves()
	if len(moves) == 0 {
		return 0, search.ErrNoLegalMoves
	}
	return moves[a.rng.Intn(len(moves))], nil
}

// DownFirst slides down whenever that changes the board and otherwise plays
// a random legal move.
type DownFirst struct {
	fallback *Random
}

// NewDownFirst returns a DownFirst agent.
func NewDownFirst(rng *rand.Rand) *DownFirst {
	return &DownFirst{fallback: NewRandom(rng)}
}

func (a *DownFirst) Name() string { return "down" }

func (a *DownFirst) NextMove(b *t2048.Board) (t2048.Direction, error) {
	if b.Copy().MakeMove(t2048.Down) {
		return t2048.Down, nil
	}
	return a.fallback.NextMove(b)
}

// LeftDown alternates left and down, falling back to up and then right.
type LeftDown struct {
	downNext bool
}

func (a *LeftDown) Name() string { return "left_down" }

func (a *LeftDown) NextMove(b *t2048.Board) (t2048.Direction, error) {
	legal := func(d t2048.Direction) bool { return b.Copy().MakeMove(d) }

	if !a.downNext && legal(t2048.Left) {
		a.downNext = true
		return t2048.Left, nil
	}
	if legal(t2048.Down) {
		a.downNext = false
		return t2048.Down, nil
	}
	if legal(t2048.Left) {
		a.downNext = true
		return t2048.Left, nil
	}
	if legal(t2048.Up) {
		a.downNext = true
		return t2048.Up, nil
	}
	a.downNext = false
	if legal(t2048.Right) {
		return t2048.Right, nil
	}
	return 0, search.ErrNoLegalMoves
}

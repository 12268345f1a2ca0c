package agent

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-2048/internal/games/t2048"
)

// ErrStalled is returned when an agent keeps choosing moves that change nothing.
var ErrStalled = errors.New("agent: too many consecutive moves without effect")

// Step describes one turn of a game.
type Step struct {
	Turn    int
	Move    t2048.Direction
	Moved   bool
	Spawned t2048.Placement // zero when Moved is false
	Board   *t2048.Board    // snapshot after the spawn
}

// Result summarises a finished (or aborted) game.
type Result struct {
	Agent    string
	Score    int
	MaxTile  int
	Moves    int
	Wasted   int
	Duration time.Duration
}

type playOptions struct {
	observer   func(Step) error
	logger     *log.Logger
	stallLimit int
}

// PlayOption configures Play.
type PlayOption func(*playOptions)

// WithObserver calls fn after every turn; a non-nil error ends the game.
func WithObserver(fn func(Step) error) PlayOption {
	return func(o *playOptions) { o.observer = fn }
}

// WithPlayLogger logs the game summary at info level and each turn at debug.
func WithPlayLogger(l *log.Logger) PlayOption {
	return func(o *playOptions) { o.logger = l }
}

// WithStallLimit sets how many consecutive ineffective moves are tolerated.
func WithStallLimit(n int) PlayOption {
	return func(o *playOptions) { o.stallLimit = max(n, 1) }
}

// Play runs a single game on b until no move remains: ask the agent for a
// move, apply it, and spawn a tile if the board changed.
func Play(ctx context.Context, a Agent, b *t2048.Board, rng *rand.Rand, opts ...PlayOption) (Result, error) {
	o := playOptions{logger: log.New(io.Discard), stallLimit: 64}
	for _, opt := range opts {
		opt(&o)
	}

	start := time.Now()
	res := Result{Agent: a.Name()}
	finish := func(err error) (Result, error) {
		res.Score = b.Score()
		res.MaxTile = b.MaxTile()
		res.Duration = time.Since(start)
		return res, err
	}

	stalled := 0
	for turn := 1; b.HasMoves(); turn++ {
		if err := ctx.Err(); err != nil {
			return finish(err)
		}

		dir, err := a.NextMove(b.Copy())
		if err != nil {
			return finish(fmt.Errorf("agent %s: %w", a.Name(), err))
		}

		step := Step{Turn: turn, Move: dir}
		if b.MakeMove(dir) {
			step.Moved = true
			step.Spawned = b.AddRandomTile(rng)
			res.Moves++
			stalled = 0
		} else {
			res.Wasted++
			stalled++
		}
		step.Board = b.Copy()
		o.logger.Debug("turn", "n", turn, "move", dir, "moved", step.Moved, "score", b.Score())

		if o.observer != nil {
			if err := o.observer(step); err != nil {
				return finish(err)
			}
		}
		if stalled >= o.stallLimit {
			return finish(fmt.Errorf("%w: %s chose %s %d times", ErrStalled, a.Name(), dir, stalled))
		}
	}

	res, err := finish(nil)
	o.logger.Info("game over", "agent", res.Agent, "score", res.Score, "max_tile", res.MaxTile,
		"moves", res.Moves, "wasted", res.Wasted, "elapsed", res.Duration.Round(time.Millisecond))
	return res, err
}

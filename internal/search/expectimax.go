package search

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/tui-2048/internal/games/t2048"
)

var (
	// ErrNoLegalMoves is returned when asked for a move on a finished board.
	ErrNoLegalMoves = errors.New("search: no legal moves")

	// ErrMalformedHeuristic is returned when an evaluator yields NaN or ±Inf.
	ErrMalformedHeuristic = errors.New("search: evaluator returned a non-finite value")
)

// Agent picks moves by expectimax: the player maximises over directions and
// the environment averages over tile placements, weighted 0.9 for a 2 and
// 0.1 for a 4. Nodes at the depth bound are scored by the evaluator; finished
// boards by their exact score unless a terminal evaluator is set.
//
// An Agent is safe for concurrent use.
type Agent struct {
	maxDepth int
	eval     Evaluator
	terminal Evaluator
	workers  int
	budget   time.Duration
	logger   *log.Logger

	nodes atomic.Int64
}

// Option configures an Agent.
type Option func(*Agent)

// WithEvaluator sets the horizon evaluator. The default is Score.
func WithEvaluator(e Evaluator) Option {
	return func(a *Agent) { a.eval = e }
}

// WithTerminalEvaluator scores finished boards with e instead of the exact score.
func WithTerminalEvaluator(e Evaluator) Option {
	return func(a *Agent) { a.terminal = e }
}

// WithWorkers bounds how many root moves are searched concurrently.
func WithWorkers(n int) Option {
	return func(a *Agent) { a.workers = max(n, 1) }
}

// WithTimeBudget makes NextMove use iterative deepening limited to d.
func WithTimeBudget(d time.Duration) Option {
	return func(a *Agent) { a.budget = d }
}

// WithLogger sets the logger used for per-move debug output.
func WithLogger(l *log.Logger) Option {
	return func(a *Agent) { a.logger = l }
}

// NewAgent returns an agent searching maxDepth plies (player and environment
// plies both count).
func NewAgent(maxDepth int, opts ...Option) (*Agent, error) {
	if maxDepth < 1 {
		return nil, fmt.Errorf("search: max depth must be at least 1, got %d", maxDepth)
	}
	a := &Agent{
		maxDepth: maxDepth,
		eval:     Score,
		workers:  len(t2048.Directions),
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.eval == nil {
		return nil, errors.New("search: nil evaluator")
	}
	return a, nil
}

// Name identifies the agent in logs and stored results.
func (a *Agent) Name() string { return "expectimax" }

// MaxDepth returns the configured depth bound.
func (a *Agent) MaxDepth() int { return a.maxDepth }

// Nodes returns the number of tree nodes visited since the agent was built.
func (a *Agent) Nodes() int64 { return a.nodes.Load() }

// NextMove chooses a move for b, honouring the time budget if one is set.
func (a *Agent) NextMove(b *t2048.Board) (t2048.Direction, error) {
	if a.budget > 0 {
		return a.BestMoveWithin(context.Background(), b, a.budget)
	}
	return a.GetMove(b)
}

// GetMove searches to the full depth and returns the best direction. Ties go
// to the earliest direction in t2048.Directions order.
func (a *Agent) GetMove(b *t2048.Board) (t2048.Direction, error) {
	return a.BestMove(context.Background(), b)
}

// BestMove is GetMove with cancellation.
func (a *Agent) BestMove(ctx context.Context, b *t2048.Board) (t2048.Direction, error) {
	moves := b.LegalMoves()
	switch len(moves) {
	case 0:
		return 0, ErrNoLegalMoves
	case 1:
		return moves[0], nil
	}

	start := time.Now()
	dir, v, nodes, err := a.searchRoot(ctx, b, moves, a.maxDepth)
	if err != nil {
		return 0, err
	}
	a.logger.Debug("search", "depth", a.maxDepth, "move", dir, "value", v,
		"nodes", nodes, "elapsed", time.Since(start))
	return dir, nil
}

// BestMoveWithin deepens the search one ply at a time until budget runs out
// or the depth bound is reached, returning the move of the deepest completed
// iteration. If not even depth 1 completes, the first legal move is returned.
func (a *Agent) BestMoveWithin(ctx context.Context, b *t2048.Board, budget time.Duration) (t2048.Direction, error) {
	moves := b.LegalMoves()
	switch len(moves) {
	case 0:
		return 0, ErrNoLegalMoves
	case 1:
		return moves[0], nil
	}

	deadline, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	best, reached := moves[0], 0
	for bound := 1; bound <= a.maxDepth; bound++ {
		dir, v, nodes, err := a.searchRoot(deadline, b, moves, bound)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
				break
			}
			return 0, err
		}
		best, reached = dir, bound
		a.logger.Debug("iteration", "depth", bound, "move", dir, "value", v, "nodes", nodes)
	}

	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if reached == 0 {
		a.logger.Warn("time budget too small for one ply", "budget", budget, "fallback", best)
	}
	return best, nil
}

// Value evaluates s as if reached at depth (root children are at depth 1).
func (a *Agent) Value(ctx context.Context, s SearchState, depth int) (float64, error) {
	r := &run{ctx: ctx, done: ctx.Done(), bound: a.maxDepth}
	v, err := a.value(r, s, depth)
	a.nodes.Add(r.nodes)
	return v, err
}

// MoveValue is the expected value of playing Move from the root.
type MoveValue struct {
	Move  t2048.Direction `json:"move"`
	Value float64         `json:"value"`
}

// Analyze values every legal move of b at the full depth, in
// t2048.Directions order. The best move is the first with the greatest value,
// matching BestMove.
func (a *Agent) Analyze(ctx context.Context, b *t2048.Board) ([]MoveValue, error) {
	moves := b.LegalMoves()
	if len(moves) == 0 {
		return nil, ErrNoLegalMoves
	}

	out := make([]MoveValue, 0, len(moves))
	for _, m := range moves {
		child := b.Copy()
		child.MakeMove(m)
		v, err := a.Value(ctx, SearchState{Board: child}, 1)
		if err != nil {
			return nil, err
		}
		out = append(out, MoveValue{Move: m, Value: v})
	}
	return out, nil
}

// searchRoot scores every root move concurrently and picks the strictly
// greatest value, scanning in moves order.
func (a *Agent) searchRoot(ctx context.Context, b *t2048.Board, moves []t2048.Direction, bound int) (t2048.Direction, float64, int64, error) {
	values := make([]float64, len(moves))
	counts := make([]int64, len(moves))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)
	for i, d := range moves {
		g.Go(func() error {
			next := b.Copy()
			next.MakeMove(d)

			r := &run{ctx: gctx, done: gctx.Done(), bound: bound}
			v, err := a.value(r, SearchState{Board: next}, 1)
			values[i], counts[i] = v, r.nodes
			return err
		})
	}
	err := g.Wait()

	var nodes int64
	for _, n := range counts {
		nodes += n
	}
	a.nodes.Add(nodes)
	if err != nil {
		return 0, 0, nodes, err
	}

	best := 0
	for i := 1; i < len(values); i++ {
		if values[i] > values[best] {
			best = i
		}
	}
	return moves[best], values[best], nodes, nil
}

// run is the per-goroutine state of one subtree evaluation.
type run struct {
	ctx   context.Context
	done  <-chan struct{}
	bound int
	nodes int64
}

func (a *Agent) value(r *run, s SearchState, depth int) (float64, error) {
	r.nodes++
	select {
	case <-r.done:
		return 0, r.ctx.Err()
	default:
	}

	if s.IsOver() {
		if a.terminal == nil {
			return float64(s.Board.Score()), nil
		}
		return a.leaf(a.terminal, s.Board)
	}
	if depth >= r.bound {
		return a.leaf(a.eval, s.Board)
	}

	if s.Maximizing {
		best := math.Inf(-1)
		for _, child := range s.Successors() {
			v, err := a.value(r, child, depth+1)
			if err != nil {
				return 0, err
			}
			best = max(best, v)
		}
		return best, nil
	}
	return a.chanceValue(r, s, depth)
}

// chanceValue is 0.9·mean(children with a 2) + 0.1·mean(children with a 4).
func (a *Agent) chanceValue(r *run, s SearchState, depth int) (float64, error) {
	outcomes := s.ChanceOutcomes()
	if len(outcomes) == 0 {
		// Full board with a merge available: nothing to place, the player moves.
		return a.value(r, SearchState{Board: s.Board, Maximizing: true}, depth+1)
	}

	var sumTwo, sumFour float64
	for _, o := range outcomes {
		v, err := a.value(r, o.State, depth+1)
		if err != nil {
			return 0, err
		}
		if o.Placement.Value == 2 {
			sumTwo += v
		} else {
			sumFour += v
		}
	}
	cells := float64(len(outcomes) / len(spawnValues))
	v := t2048.SpawnTwoProb*sumTwo/cells + t2048.SpawnFourProb*sumFour/cells
	if !finite(v) {
		return 0, fmt.Errorf("%w: chance node valued %v on board\n%v", ErrMalformedHeuristic, v, s.Board)
	}
	return v, nil
}

func (a *Agent) leaf(e Evaluator, b *t2048.Board) (float64, error) {
	v := e.Evaluate(b)
	if !finite(v) {
		return 0, fmt.Errorf("%w: got %v on board\n%v", ErrMalformedHeuristic, v, b)
	}
	return v, nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

package search

import (
	"context"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-2048/internal/games/t2048"
)

func boardWithScore(t *testing.T, values [t2048.Size][t2048.Size]int, score int) (*t2048.Board, error) {
	t.Helper()
	return t2048.BoardFromValues(nil, values, score)
}

func constant(v float64) Evaluator {
	return EvaluatorFunc(func(*t2048.Board) float64 { return v })
}

var deadBoard = [4][4]int{
	{2, 4, 2, 4},
	{4, 2, 4, 2},
	{2, 4, 2, 4},
	{4, 2, 4, 2},
}

func TestNewAgentRejectsZeroDepth(t *testing.T) {
	_, err := NewAgent(0)
	require.Error(t, err)

	_, err = NewAgent(1, WithEvaluator(nil))
	require.Error(t, err)
}

func TestChanceNodeWeighting(t *testing.T) {
	b := board(t, [4][4]int{
		{0, 0, 8, 16},
		{32, 64, 128, 256},
		{512, 1024, 2048, 4096},
		{2, 2, 4, 8},
	})
	probe := EvaluatorFunc(func(b *t2048.Board) float64 {
		first, _ := b.CellAt(0, 0)
		second, _ := b.CellAt(0, 1)
		return float64(10*first + second)
	})
	agent, err := NewAgent(2, WithEvaluator(probe))
	require.NoError(t, err)

	v, err := agent.Value(context.Background(), SearchState{Board: b}, 1)
	require.NoError(t, err)

	// twos: (20 + 2) / 2, fours: (40 + 4) / 2
	require.InDelta(t, 0.9*11+0.1*22, v, 1e-9)
	require.NotEqual(t, (20.0+2+40+4)/4, v)
}

func TestTerminalValue(t *testing.T) {
	b, err := boardWithScore(t, deadBoard, 500)
	require.NoError(t, err)
	s := SearchState{Board: b, Maximizing: true}

	agent, err := NewAgent(3, WithEvaluator(constant(-1)))
	require.NoError(t, err)
	v, err := agent.Value(context.Background(), s, 1)
	require.NoError(t, err)
	require.Equal(t, 500.0, v)

	agent, err = NewAgent(3, WithTerminalEvaluator(constant(-1000)))
	require.NoError(t, err)
	v, err = agent.Value(context.Background(), s, 1)
	require.NoError(t, err)
	require.Equal(t, -1000.0, v)
}

func TestDepthBoundUsesEvaluator(t *testing.T) {
	agent, err := NewAgent(1, WithEvaluator(constant(7)))
	require.NoError(t, err)

	v, err := agent.Value(context.Background(), SearchState{Board: board(t, [4][4]int{{2}})}, 1)
	require.NoError(t, err)
	require.Equal(t, 7.0, v)
}

func TestSingleLegalMove(t *testing.T) {
	b := board(t, [4][4]int{
		{},
		{},
		{},
		{2, 4, 8, 16},
	})
	require.Equal(t, []t2048.Direction{t2048.Up}, b.LegalMoves())

	agent, err := NewAgent(1)
	require.NoError(t, err)
	dir, err := agent.GetMove(b)
	require.NoError(t, err)
	require.Equal(t, t2048.Up, dir)
}

func TestTiesGoToFirstDirection(t *testing.T) {
	agent, err := NewAgent(2, WithEvaluator(constant(0)))
	require.NoError(t, err)

	center := board(t, [4][4]int{{}, {0, 2}})
	dir, err := agent.GetMove(center)
	require.NoError(t, err)
	require.Equal(t, t2048.Up, dir)

	corner := board(t, [4][4]int{{2}})
	dir, err = agent.GetMove(corner)
	require.NoError(t, err)
	require.Equal(t, t2048.Down, dir)
}

func TestMaxNodePrefersMerge(t *testing.T) {
	b := board(t, [4][4]int{{2, 2}})
	require.Equal(t, []t2048.Direction{t2048.Down, t2048.Left, t2048.Right}, b.LegalMoves())

	agent, err := NewAgent(1)
	require.NoError(t, err)
	dir, err := agent.GetMove(b)
	require.NoError(t, err)
	require.Equal(t, t2048.Left, dir, "left and right both score 4; left comes first")
	require.Positive(t, agent.Nodes())
}

func TestMalformedHeuristic(t *testing.T) {
	agent, err := NewAgent(2, WithEvaluator(constant(math.NaN())))
	require.NoError(t, err)

	_, err = agent.GetMove(board(t, [4][4]int{{}, {0, 2}}))
	require.ErrorIs(t, err, ErrMalformedHeuristic)

	_, err = agent.Value(context.Background(), SearchState{Board: board(t, [4][4]int{{2}})}, 2)
	require.ErrorIs(t, err, ErrMalformedHeuristic)
}

func TestInfiniteHeuristic(t *testing.T) {
	b := board(t, [4][4]int{{}, {0, 2}})
	mixed := EvaluatorFunc(func(b *t2048.Board) float64 {
		if b.MaxTile() >= 4 {
			return math.Inf(-1)
		}
		return math.Inf(1)
	})

	tests := []struct {
		name string
		eval Evaluator
	}{
		{"positive", constant(math.Inf(1))},
		{"negative", constant(math.Inf(-1))},
		{"mixed", mixed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agent, err := NewAgent(2, WithEvaluator(tt.eval))
			require.NoError(t, err)

			_, err = agent.GetMove(b)
			require.ErrorIs(t, err, ErrMalformedHeuristic)

			_, err = agent.Analyze(context.Background(), b)
			require.ErrorIs(t, err, ErrMalformedHeuristic)
		})
	}
}

func TestNoLegalMoves(t *testing.T) {
	agent, err := NewAgent(2)
	require.NoError(t, err)
	dead := board(t, deadBoard)

	_, err = agent.GetMove(dead)
	require.ErrorIs(t, err, ErrNoLegalMoves)

	_, err = agent.BestMoveWithin(context.Background(), dead, time.Second)
	require.ErrorIs(t, err, ErrNoLegalMoves)
}

func TestParallelMatchesSequential(t *testing.T) {
	eval, err := EvaluatorByName("weighted", DefaultWeights)
	require.NoError(t, err)
	seq, err := NewAgent(3, WithEvaluator(eval), WithWorkers(1))
	require.NoError(t, err)
	par, err := NewAgent(3, WithEvaluator(eval), WithWorkers(4))
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(11))
	b := t2048.NewGame(nil, rng)
	for range 40 {
		if !b.HasMoves() {
			break
		}
		want, err := seq.GetMove(b)
		require.NoError(t, err)
		got, err := par.GetMove(b)
		require.NoError(t, err)
		require.Equal(t, want, got, "board:\n%v", b)

		require.True(t, b.MakeMove(got))
		b.AddRandomTile(rng)
	}
}

func TestBestMoveWithin(t *testing.T) {
	b := board(t, [4][4]int{
		{2, 4, 0, 0},
		{0, 8, 0, 2},
		{0, 0, 16, 0},
		{2, 0, 0, 4},
	})
	agent, err := NewAgent(2, WithEvaluator(EmptyCells))
	require.NoError(t, err)

	full, err := agent.GetMove(b)
	require.NoError(t, err)
	deepened, err := agent.BestMoveWithin(context.Background(), b, time.Minute)
	require.NoError(t, err)
	require.Equal(t, full, deepened)

	rushed, err := agent.BestMoveWithin(context.Background(), b, time.Nanosecond)
	require.NoError(t, err)
	require.Contains(t, b.LegalMoves(), rushed)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = agent.BestMoveWithin(ctx, b, time.Minute)
	require.ErrorIs(t, err, context.Canceled)
}

func TestNextMoveUsesBudget(t *testing.T) {
	agent, err := NewAgent(3, WithTimeBudget(time.Minute))
	require.NoError(t, err)

	b := board(t, [4][4]int{{2, 2}})
	dir, err := agent.NextMove(b)
	require.NoError(t, err)
	require.Contains(t, b.LegalMoves(), dir)
	require.Equal(t, "expectimax", agent.Name())
}

func TestAnalyzeAgreesWithBestMove(t *testing.T) {
	eval, err := EvaluatorByName("weighted", DefaultWeights)
	require.NoError(t, err)
	agent, err := NewAgent(2, WithEvaluator(eval))
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(5))
	b := t2048.NewGame(nil, rng)
	for range 10 {
		values, err := agent.Analyze(context.Background(), b)
		require.NoError(t, err)
		require.Len(t, values, len(b.LegalMoves()))

		best := values[0]
		for _, mv := range values[1:] {
			if mv.Value > best.Value {
				best = mv
			}
		}
		dir, err := agent.GetMove(b)
		require.NoError(t, err)
		if len(values) > 1 {
			require.Equal(t, best.Move, dir)
		}

		b.MakeMove(dir)
		b.AddRandomTile(rng)
	}

	_, err = agent.Analyze(context.Background(), board(t, deadBoard))
	require.ErrorIs(t, err, ErrNoLegalMoves)
}

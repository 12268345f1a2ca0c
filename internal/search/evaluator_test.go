package search

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSmoothness(t *testing.T) {
	b := board(t, [4][4]int{
		{2, 8, 0, 0},
		{2, 0, 0, 0},
		{0, 0, 0, 64},
		{0, 0, 0, 16},
	})
	// |1-3| + |1-1| + |6-4|
	require.Equal(t, -4.0, Smoothness.Evaluate(b))
}

func TestCornerBonus(t *testing.T) {
	corner := board(t, [4][4]int{
		{0, 0, 0, 0},
		{0, 2, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 256},
	})
	require.Equal(t, 256.0, CornerBonus.Evaluate(corner))

	middle := board(t, [4][4]int{
		{2, 0, 0, 0},
		{0, 256, 0, 0},
	})
	require.Zero(t, CornerBonus.Evaluate(middle))
	require.Zero(t, CornerBonus.Evaluate(board(t, [4][4]int{})))
}

func TestMonotonicity(t *testing.T) {
	snake := board(t, [4][4]int{
		{64, 32, 16, 8},
		{32, 16, 8, 4},
		{16, 8, 4, 2},
		{8, 4, 2, 0},
	})
	// every adjacent pair decreases away from the top-left corner
	require.Equal(t, 24.0, Monotonicity.Evaluate(snake))

	mixed := board(t, [4][4]int{
		{2, 64, 2, 64},
	})
	require.Less(t, Monotonicity.Evaluate(mixed), 24.0)
}

func TestSimpleFeatures(t *testing.T) {
	b, err := boardWithScore(t, [4][4]int{{2, 4}, {0, 128}}, 300)
	require.NoError(t, err)

	require.Equal(t, 300.0, Score.Evaluate(b))
	require.Equal(t, 128.0, MaxTile.Evaluate(b))
	require.Equal(t, 13.0, EmptyCells.Evaluate(b))
}

func TestWeighted(t *testing.T) {
	b, err := boardWithScore(t, [4][4]int{{2, 4}}, 40)
	require.NoError(t, err)

	w := Weighted{{Score, 0.5}, {EmptyCells, 2}}
	require.Equal(t, 0.5*40+2*14, w.Evaluate(b))
}

func TestEvaluatorByName(t *testing.T) {
	b, err := boardWithScore(t, [4][4]int{{2, 4}}, 40)
	require.NoError(t, err)

	for _, name := range EvaluatorNames() {
		e, err := EvaluatorByName(name, DefaultWeights)
		require.NoError(t, err, name)
		require.NotNil(t, e, name)
		require.False(t, math.IsNaN(e.Evaluate(b)), name)
	}

	empty, err := EvaluatorByName("empty", Weights{Empty: 10})
	require.NoError(t, err)
	require.Equal(t, 40.0+10*14, empty.Evaluate(b))

	_, err = EvaluatorByName("psychic", DefaultWeights)
	require.Error(t, err)
}

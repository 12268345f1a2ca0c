package search

import (
	"fmt"
	"slices"

	"github.com/vovakirdan/tui-2048/internal/games/t2048"
)

// Evaluator estimates the value of a board at the search horizon.
type Evaluator interface {
	Evaluate(b *t2048.Board) float64
}

// EvaluatorFunc adapts a plain function to Evaluator.
type EvaluatorFunc func(b *t2048.Board) float64

// Evaluate calls f(b).
func (f EvaluatorFunc) Evaluate(b *t2048.Board) float64 { return f(b) }

// Single-feature evaluators. Score is the only one that is meaningful alone;
// the rest are meant as weighted terms.
var (
	Score        Evaluator = EvaluatorFunc(scoreOf)
	MaxTile      Evaluator = EvaluatorFunc(func(b *t2048.Board) float64 { return float64(b.MaxTile()) })
	EmptyCells   Evaluator = EvaluatorFunc(func(b *t2048.Board) float64 { return float64(b.EmptyCount()) })
	CornerBonus  Evaluator = EvaluatorFunc(cornerBonus)
	Smoothness   Evaluator = EvaluatorFunc(smoothness)
	Monotonicity Evaluator = EvaluatorFunc(monotonicity)
)

func scoreOf(b *t2048.Board) float64 {
	return float64(b.Score())
}

// cornerBonus is the largest tile's value when it sits in a corner, else 0.
func cornerBonus(b *t2048.Board) float64 {
	best, br, bc := 0, 0, 0
	for r := range t2048.Size {
		for c := range t2048.Size {
			if e := b.Exponent(r, c); e > best {
				best, br, bc = e, r, c
			}
		}
	}
	if best == 0 {
		return 0
	}
	last := t2048.Size - 1
	if (br == 0 || br == last) && (bc == 0 || bc == last) {
		return float64(int(1) << best)
	}
	return 0
}

// smoothness is minus the sum of |log2 a - log2 b| over orthogonally
// adjacent non-empty tiles.
func smoothness(b *t2048.Board) float64 {
	penalty := 0
	for r := range t2048.Size {
		for c := range t2048.Size {
			e := b.Exponent(r, c)
			if e == 0 {
				continue
			}
			if c+1 < t2048.Size {
				if right := b.Exponent(r, c+1); right != 0 {
					penalty += abs(e - right)
				}
			}
			if r+1 < t2048.Size {
				if down := b.Exponent(r+1, c); down != 0 {
					penalty += abs(e - down)
				}
			}
		}
	}
	return -float64(penalty)
}

// monotonicity counts adjacent pairs that do not increase away from the best
// corner, over rows and columns.
func monotonicity(b *t2048.Board) float64 {
	best := 0
	for _, fromTop := range [...]bool{true, false} {
		for _, fromLeft := range [...]bool{true, false} {
			best = max(best, monotoneFrom(b, fromTop, fromLeft))
		}
	}
	return float64(best)
}

func monotoneFrom(b *t2048.Board, fromTop, fromLeft bool) int {
	last := t2048.Size - 1
	at := func(r, c int) int {
		if !fromTop {
			r = last - r
		}
		if !fromLeft {
			c = last - c
		}
		return b.Exponent(r, c)
	}

	n := 0
	for i := range t2048.Size {
		for j := range last {
			if at(i, j) >= at(i, j+1) {
				n++
			}
			if at(j, i) >= at(j+1, i) {
				n++
			}
		}
	}
	return n
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Term is one weighted component of a Weighted evaluator.
type Term struct {
	Evaluator Evaluator
	Weight    float64
}

// Weighted sums its terms' weighted values.
type Weighted []Term

// Evaluate returns Σ weight·value.
func (w Weighted) Evaluate(b *t2048.Board) float64 {
	total := 0.0
	for _, t := range w {
		total += t.Weight * t.Evaluator.Evaluate(b)
	}
	return total
}

// Weights scales the terms the named evaluators add on top of the score.
type Weights struct {
	MaxTile      float64
	Empty        float64
	Corner       float64
	Smoothness   float64
	Monotonicity float64
}

// DefaultWeights keeps each bonus within an order of magnitude of a
// mid-game score.
var DefaultWeights = Weights{
	MaxTile:      1,
	Empty:        128,
	Corner:       1,
	Smoothness:   32,
	Monotonicity: 16,
}

var namedEvaluators = map[string]func(w Weights) Evaluator{
	"score": func(Weights) Evaluator { return Score },
	"max_tile": func(w Weights) Evaluator {
		return Weighted{{Score, 1}, {MaxTile, w.MaxTile}}
	},
	"empty": func(w Weights) Evaluator {
		return Weighted{{Score, 1}, {EmptyCells, w.Empty}}
	},
	"corner": func(w Weights) Evaluator {
		return Weighted{{Score, 1}, {CornerBonus, w.Corner}}
	},
	"smoothness": func(w Weights) Evaluator {
		return Weighted{{Score, 1}, {Smoothness, w.Smoothness}}
	},
	"monotonicity": func(w Weights) Evaluator {
		return Weighted{{Score, 1}, {Monotonicity, w.Monotonicity}}
	},
	"weighted": func(w Weights) Evaluator {
		return Weighted{
			{Score, 1},
			{MaxTile, w.MaxTile},
			{EmptyCells, w.Empty},
			{CornerBonus, w.Corner},
			{Smoothness, w.Smoothness},
			{Monotonicity, w.Monotonicity},
		}
	},
}

// EvaluatorByName builds one of the named evaluators.
func EvaluatorByName(name string, w Weights) (Evaluator, error) {
	build, ok := namedEvaluators[name]
	if !ok {
		return nil, fmt.Errorf("search: unknown evaluator %q (have %v)", name, EvaluatorNames())
	}
	return build(w), nil
}

// EvaluatorNames lists the names accepted by EvaluatorByName, sorted.
func EvaluatorNames() []string {
	names := make([]string, 0, len(namedEvaluators))
	for name := range namedEvaluators {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

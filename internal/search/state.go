// Package search implements depth-bounded expectimax over 2048 boards.
package search

import "github.com/vovakirdan/tui-2048/internal/games/t2048"

// spawnValues are the tiles the environment may place, in probability order.
var spawnValues = [...]int{2, 4}

// SearchState is a node of the game tree. Maximizing nodes belong to the
// player choosing a direction; the others to the environment placing a tile.
type SearchState struct {
	Board      *t2048.Board
	Maximizing bool
}

// Outcome is one environment move: the tile placed and the resulting state.
type Outcome struct {
	Placement t2048.Placement
	State     SearchState
}

// IsOver reports whether the board admits no further move.
func (s SearchState) IsOver() bool {
	return !s.Board.HasMoves()
}

// Successors returns the child states with the turn passed to the other side.
func (s SearchState) Successors() []SearchState {
	if s.Maximizing {
		boards := s.Board.PossibleSuccessors()
		out := make([]SearchState, len(boards))
		for i, b := range boards {
			out[i] = SearchState{Board: b}
		}
		return out
	}

	outcomes := s.ChanceOutcomes()
	out := make([]SearchState, len(outcomes))
	for i, o := range outcomes {
		out[i] = o.State
	}
	return out
}

// ChanceOutcomes lists every (empty cell, tile) placement, cells in row-major order.
func (s SearchState) ChanceOutcomes() []Outcome {
	empty := s.Board.EmptyCells()
	out := make([]Outcome, 0, len(empty)*len(spawnValues))
	for _, cell := range empty {
		for _, v := range spawnValues {
			p := t2048.Placement{Row: cell.Row, Col: cell.Col, Value: v}
			next := s.Board.Copy()
			next.Spawn(p)
			out = append(out, Outcome{Placement: p, State: SearchState{Board: next, Maximizing: true}})
		}
	}
	return out
}

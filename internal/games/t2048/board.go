package t2048

import (
	"errors"
	"fmt"
	"math/bits"
	"math/rand"
	"strconv"
	"strings"
)

// Spawn odds for AddRandomTile.
const (
	SpawnTwoProb  = 0.9
	SpawnFourProb = 1 - SpawnTwoProb
)

// ErrBoardFull is the panic value cause when a tile is spawned onto a full board.
var ErrBoardFull = errors.New("t2048: no empty cell to spawn into")

// Cell is a board coordinate.
type Cell struct {
	Row, Col int
}

// Placement is a tile value put on a cell by the environment.
type Placement struct {
	Row   int `json:"row"`
	Col   int `json:"col"`
	Value int `json:"value"`
}

// Board is a 4x4 grid of tiles plus the score accumulated from merges.
// Cells hold exponents; a zero value Board is unusable, use NewBoard.
type Board struct {
	table *RowTable
	cells [Size][Size]uint8
	score int
}

// NewBoard returns an empty board backed by table.
// A nil table selects SharedRowTable.
func NewBoard(table *RowTable) *Board {
	if table == nil {
		table = SharedRowTable()
	}
	return &Board{table: table}
}

// NewGame returns a board seeded with two random tiles.
func NewGame(table *RowTable, rng *rand.Rand) *Board {
	b := NewBoard(table)
	b.AddRandomTile(rng)
	b.AddRandomTile(rng)
	return b
}

// BoardFromValues builds a board from tile values (0 for empty).
func BoardFromValues(table *RowTable, values [Size][Size]int, score int) (*Board, error) {
	if score < 0 {
		return nil, fmt.Errorf("t2048: negative score %d", score)
	}
	b := NewBoard(table)
	b.score = score
	for r := range Size {
		for c := range Size {
			exp, err := exponentOf(values[r][c])
			if err != nil {
				return nil, fmt.Errorf("t2048: cell (%d,%d): %w", r, c, err)
			}
			b.cells[r][c] = exp
		}
	}
	return b, nil
}

func exponentOf(v int) (uint8, error) {
	if v == 0 {
		return 0, nil
	}
	if v < 2 || v&(v-1) != 0 {
		return 0, fmt.Errorf("value %d is not a power of two >= 2", v)
	}
	exp := bits.TrailingZeros(uint(v))
	if exp > MaxExponent {
		return 0, fmt.Errorf("value %d exceeds %d", v, 1<<MaxExponent)
	}
	return uint8(exp), nil
}

// Score returns the total of all merged tile values so far.
func (b *Board) Score() int {
	return b.score
}

// CellAt returns the tile value at (row, col) and whether the cell is occupied.
func (b *Board) CellAt(row, col int) (int, bool) {
	exp := b.cells[row][col]
	if exp == 0 {
		return 0, false
	}
	return 1 << exp, true
}

// Exponent returns log2 of the tile at (row, col), or 0 for an empty cell.
func (b *Board) Exponent(row, col int) int {
	return int(b.cells[row][col])
}

// Values returns the tile values as a plain grid.
func (b *Board) Values() [Size][Size]int {
	var out [Size][Size]int
	for r := range Size {
		for c := range Size {
			out[r][c], _ = b.CellAt(r, c)
		}
	}
	return out
}

// Copy returns an independent board sharing the same row table.
func (b *Board) Copy() *Board {
	c := *b
	return &c
}

// MakeMove slides every row or column toward dir, merging equal neighbours.
// It reports whether any tile moved; on false the board is untouched.
func (b *Board) MakeMove(dir Direction) bool {
	if !dir.Valid() {
		return false
	}

	changed := false
	for i := range Size {
		var res RowResult
		if dir == Left || dir == Up {
			res = b.table.Left(b.line(dir, i))
		} else {
			res = b.table.Right(b.line(dir, i))
		}
		if !res.Changed {
			continue
		}
		changed = true
		b.score += res.Score
		b.setLine(dir, i, res.Row)
	}
	return changed
}

// line extracts row i for horizontal moves or column i (top to bottom) for vertical ones.
func (b *Board) line(dir Direction, i int) Row {
	if dir == Left || dir == Right {
		return Row(b.cells[i])
	}
	return Row{b.cells[0][i], b.cells[1][i], b.cells[2][i], b.cells[3][i]}
}

func (b *Board) setLine(dir Direction, i int, r Row) {
	if dir == Left || dir == Right {
		b.cells[i] = r
		return
	}
	for k := range Size {
		b.cells[k][i] = r[k]
	}
}

// EmptyCells lists the unoccupied cells in row-major order.
func (b *Board) EmptyCells() []Cell {
	var out []Cell
	for r := range Size {
		for c := range Size {
			if b.cells[r][c] == 0 {
				out = append(out, Cell{Row: r, Col: c})
			}
		}
	}
	return out
}

// EmptyCount returns the number of unoccupied cells.
func (b *Board) EmptyCount() int {
	n := 0
	for r := range Size {
		for c := range Size {
			if b.cells[r][c] == 0 {
				n++
			}
		}
	}
	return n
}

// MaxTile returns the largest tile value, or 0 on an empty board.
func (b *Board) MaxTile() int {
	var best uint8
	for r := range Size {
		for c := range Size {
			best = max(best, b.cells[r][c])
		}
	}
	if best == 0 {
		return 0
	}
	return 1 << best
}

// Spawn puts p on the board. The target cell must be empty and the value a
// power of two; violating either is a programming error and panics.
func (b *Board) Spawn(p Placement) {
	exp, err := exponentOf(p.Value)
	if err != nil || exp == 0 {
		panic(fmt.Sprintf("t2048: invalid spawn value %d", p.Value))
	}
	if b.cells[p.Row][p.Col] != 0 {
		panic(fmt.Sprintf("t2048: spawn onto occupied cell (%d,%d)", p.Row, p.Col))
	}
	b.cells[p.Row][p.Col] = exp
}

// AddRandomTile places a 2 (p=0.9) or a 4 (p=0.1) on a uniformly chosen
// empty cell. Calling it on a full board panics with ErrBoardFull.
func (b *Board) AddRandomTile(rng *rand.Rand) Placement {
	empty := b.EmptyCells()
	if len(empty) == 0 {
		panic(ErrBoardFull)
	}

	cell := empty[rng.Intn(len(empty))]
	p := Placement{Row: cell.Row, Col: cell.Col, Value: 2}
	if rng.Float64() >= SpawnTwoProb {
		p.Value = 4
	}
	b.Spawn(p)
	return p
}

// HasMoves reports whether some direction would change the board.
func (b *Board) HasMoves() bool {
	for r := range Size {
		for c := range Size {
			v := b.cells[r][c]
			if v == 0 {
				return true
			}
			if c+1 < Size && b.cells[r][c+1] == v && v < MaxExponent {
				return true
			}
			if r+1 < Size && b.cells[r+1][c] == v && v < MaxExponent {
				return true
			}
		}
	}
	return false
}

// LegalMoves returns the directions that change the board, in Directions order.
func (b *Board) LegalMoves() []Direction {
	var out []Direction
	for _, d := range Directions {
		if b.Copy().MakeMove(d) {
			out = append(out, d)
		}
	}
	return out
}

// PossibleSuccessors returns the post-move, pre-spawn board of every legal
// move, in LegalMoves order.
func (b *Board) PossibleSuccessors() []*Board {
	var out []*Board
	for _, d := range Directions {
		next := b.Copy()
		if next.MakeMove(d) {
			out = append(out, next)
		}
	}
	return out
}

const (
	cellTextWidth  = 7
	cellTextHeight = 3
)

// String draws the board with box-drawing characters followed by the score.
func (b *Board) String() string {
	var sb strings.Builder

	border := func(left, mid, right string) {
		sb.WriteString(left)
		for c := range Size {
			if c > 0 {
				sb.WriteString(mid)
			}
			sb.WriteString(strings.Repeat("─", cellTextWidth))
		}
		sb.WriteString(right + "\n")
	}
	blank := strings.Repeat("│"+strings.Repeat(" ", cellTextWidth), Size) + "│\n"

	border("┌", "┬", "┐")
	for r := range Size {
		if r > 0 {
			border("├", "┼", "┤")
		}
		for range cellTextHeight / 2 {
			sb.WriteString(blank)
		}
		for c := range Size {
			text := ""
			if v, ok := b.CellAt(r, c); ok {
				text = strconv.Itoa(v)
			}
			pad := cellTextWidth - len(text)
			sb.WriteString("│" + strings.Repeat(" ", (pad+1)/2) + text + strings.Repeat(" ", pad/2))
		}
		sb.WriteString("│\n")
		for range (cellTextHeight - 1) / 2 {
			sb.WriteString(blank)
		}
	}
	border("└", "┴", "┘")
	sb.WriteString("Score: " + strconv.Itoa(b.score))
	return sb.String()
}

package t2048

import "sync"

const (
	// Size is the board dimension.
	Size = 4

	// MaxExponent is the largest tile exponent a row can hold (2^17 = 131072).
	MaxExponent = 17

	exponentBase = MaxExponent + 1
	rowCount     = exponentBase * exponentBase * exponentBase * exponentBase
)

// Row is one line of the board as tile exponents; 0 is an empty cell.
type Row [Size]uint8

// Reverse returns the row read from the other end.
func (r Row) Reverse() Row {
	return Row{r[3], r[2], r[1], r[0]}
}

func (r Row) index() int {
	return ((int(r[0])*exponentBase+int(r[1]))*exponentBase+int(r[2]))*exponentBase + int(r[3])
}

func rowFromIndex(idx int) Row {
	var r Row
	for i := Size - 1; i >= 0; i-- {
		r[i] = uint8(idx % exponentBase)
		idx /= exponentBase
	}
	return r
}

// RowResult is the outcome of sliding one row.
type RowResult struct {
	Row     Row
	Changed bool
	Score   int // sum of merged tile values
}

// RowTable holds the precomputed leftward slide of every representable row.
// It is immutable after construction and safe for concurrent use.
type RowTable struct {
	left []RowResult
}

// NewRowTable computes the slide outcome for all 18^4 rows.
func NewRowTable() *RowTable {
	t := &RowTable{left: make([]RowResult, rowCount)}
	for idx := range rowCount {
		t.left[idx] = slideLeft(rowFromIndex(idx))
	}
	return t
}

// SharedRowTable returns a process-wide table, built on first use.
var SharedRowTable = sync.OnceValue(NewRowTable)

// Left returns the result of sliding the row toward index 0.
func (t *RowTable) Left(r Row) RowResult {
	return t.left[r.index()]
}

// Right returns the result of sliding the row toward index Size-1.
func (t *RowTable) Right(r Row) RowResult {
	res := t.left[r.Reverse().index()]
	res.Row = res.Row.Reverse()
	return res
}

// slideLeft compacts a row toward index 0. A tile merges at most once per
// slide and only with the tile placed immediately before it, so [2,2,2,2]
// becomes [4,4,_,_] rather than [8,_,_,_]. Two MaxExponent tiles never merge.
func slideLeft(in Row) RowResult {
	var (
		out    Row
		merged [Size]bool
		n      int
		score  int
	)

	for _, e := range in {
		if e == 0 {
			continue
		}
		if n > 0 && out[n-1] == e && !merged[n-1] && e < MaxExponent {
			out[n-1]++
			merged[n-1] = true
			score += 1 << out[n-1]
			continue
		}
		out[n] = e
		n++
	}

	return RowResult{Row: out, Changed: out != in, Score: score}
}

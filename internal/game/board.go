package game

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
)

// Board owns the grid of cells. Callers address cells by coordinate and are
// expected to stay within the grid; only neighbour enumeration clips.
type Board struct {
	rows  int
	cols  int
	mines int
	cells [][]*Cell
}

// RevealResult describes what a reveal or chord changed.
type RevealResult struct {
	// Value of the target cell for a single reveal that opened it.
	Value int
	// Revealed lists every cell opened by the call, each once.
	Revealed []Coord
	// Detonated is set when a mine was hit; At is where.
	Detonated bool
	At        Coord
}

// FlagResult describes a mark transition.
type FlagResult struct {
	Prev    Mark
	Next    Mark
	Changed bool
}

// Marked reports a transition into FlaggedAsMine.
func (f FlagResult) Marked() bool { return f.Changed && f.Next == FlaggedAsMine }

// Unmarked reports a transition out of FlaggedAsMine.
func (f FlagResult) Unmarked() bool { return f.Changed && f.Prev == FlaggedAsMine }

// NewRandomBoard generates a field with rng and wraps it in a board.
func NewRandomBoard(rows, cols, mines int, rng *rand.Rand) (*Board, error) {
	field, err := Generate(rows, cols, mines, rng)
	if err != nil {
		return nil, err
	}
	return NewBoard(field)
}

// NewBoard builds a board from a prepared field. The field must be
// rectangular, and every non-mine value must equal its neighbouring mine count.
func NewBoard(field [][]int) (*Board, error) {
	rows := len(field)
	if rows == 0 {
		return nil, &InvalidBoardParamsError{}
	}
	cols := len(field[0])

	mines := 0
	for r, row := range field {
		if len(row) != cols {
			return nil, fmt.Errorf("field row %d has %d columns, want %d", r, len(row), cols)
		}
		for _, v := range row {
			if v == Mine {
				mines++
			}
		}
	}
	if err := ValidateParams(rows, cols, mines); err != nil {
		return nil, err
	}

	b := &Board{rows: rows, cols: cols, mines: mines, cells: make([][]*Cell, rows)}
	for r := range field {
		b.cells[r] = make([]*Cell, cols)
		for c, v := range field[r] {
			if v == Mine {
				b.cells[r][c] = newCell(r, c, v)
				continue
			}
			want := 0
			forEachNeighbor(rows, cols, r, c, func(nr, nc int) {
				if field[nr][nc] == Mine {
					want++
				}
			})
			if v != want {
				return nil, fmt.Errorf("cell (%d,%d) has value %d, want %d", r, c, v, want)
			}
			b.cells[r][c] = newCell(r, c, v)
		}
	}
	return b, nil
}

func (b *Board) Rows() int  { return b.rows }
func (b *Board) Cols() int  { return b.cols }
func (b *Board) Mines() int { return b.mines }

// Cell returns the cell at (r, c).
func (b *Board) Cell(r, c int) *Cell {
	return b.cells[r][c]
}

// InBounds reports whether (r, c) lies on the board.
func (b *Board) InBounds(r, c int) bool {
	return r >= 0 && r < b.rows && c >= 0 && c < b.cols
}

// Neighbors returns the in-bounds Moore neighbours of (r, c), row by row.
func (b *Board) Neighbors(r, c int) []Coord {
	out := make([]Coord, 0, 8)
	forEachNeighbor(b.rows, b.cols, r, c, func(nr, nc int) {
		out = append(out, Coord{nr, nc})
	})
	return out
}

// Reveal opens (r, c). Hitting an unflagged mine reports a detonation and
// changes nothing. Revealed or mine-flagged cells are a no-op. A zero cell
// opens its whole zero region plus its numbered border.
func (b *Board) Reveal(r, c int) RevealResult {
	var res RevealResult
	b.reveal(r, c, &res)
	if len(res.Revealed) > 0 {
		res.Value = b.cells[r][c].value
	}
	return res
}

func (b *Board) reveal(r, c int, res *RevealResult) {
	cell := b.cells[r][c]
	if cell.revealed || cell.mark == FlaggedAsMine {
		return
	}
	if cell.IsMine() {
		res.Detonated = true
		res.At = Coord{r, c}
		return
	}
	b.floodFill(cell, res)
}

// floodFill opens start and, through zero cells, everything connected to it.
// Cells are opened when pushed so none is queued twice. Mine flags stop the
// fill whether or not a mine is underneath.
func (b *Board) floodFill(start *Cell, res *RevealResult) {
	if !start.reveal() {
		return
	}
	res.Revealed = append(res.Revealed, start.Coord())
	if start.value != 0 {
		return
	}

	stack := []*Cell{start}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		forEachNeighbor(b.rows, b.cols, cur.row, cur.col, func(nr, nc int) {
			n := b.cells[nr][nc]
			if !n.reveal() {
				return
			}
			res.Revealed = append(res.Revealed, n.Coord())
			if n.value == 0 {
				stack = append(stack, n)
			}
		})
	}
}

// RevealNeighbors is the chord: on a revealed cell whose mine-flagged
// neighbour count equals its value, every unrevealed neighbour is revealed
// with Reveal semantics. Wrong flags are not checked, so a matching count can
// still detonate a mine under an unflagged neighbour; the chord stops there.
func (b *Board) RevealNeighbors(r, c int) RevealResult {
	var res RevealResult
	cell := b.cells[r][c]
	if !cell.revealed {
		return res
	}

	neighbors := b.Neighbors(r, c)
	flagged := 0
	for _, n := range neighbors {
		if b.cells[n.Row][n.Col].IsFlagged() {
			flagged++
		}
	}
	if flagged != cell.value {
		return res
	}

	for _, n := range neighbors {
		if b.cells[n.Row][n.Col].revealed {
			continue
		}
		b.reveal(n.Row, n.Col, &res)
		if res.Detonated {
			return res
		}
	}
	return res
}

// ToggleFlag cycles the mark of an unrevealed cell.
func (b *Board) ToggleFlag(r, c int) FlagResult {
	prev, next, ok := b.cells[r][c].toggleFlag()
	return FlagResult{Prev: prev, Next: next, Changed: ok}
}

// CheckWin reports whether every safe cell is revealed. Flags are ignored.
func (b *Board) CheckWin() bool {
	for _, row := range b.cells {
		for _, cell := range row {
			if !cell.revealed && !cell.IsMine() {
				return false
			}
		}
	}
	return true
}

// FinalizeLoss sets the end-of-game markers after the mine at (r, c) went
// off. Cell values and reveal state are untouched.
func (b *Board) FinalizeLoss(r, c int) {
	for _, row := range b.cells {
		for _, cell := range row {
			switch {
			case cell.row == r && cell.col == c:
				cell.marker = Detonated
			case cell.mark == FlaggedAsMine && !cell.IsMine():
				cell.marker = WrongFlag
			case cell.mark == FlaggedAsMine:
				cell.marker = CorrectFlag
			case cell.IsMine() && !cell.revealed:
				cell.marker = MissedMine
			}
		}
	}
}

// FinalizeWin marks every mine as correctly flagged.
func (b *Board) FinalizeWin() {
	for _, row := range b.cells {
		for _, cell := range row {
			if cell.IsMine() {
				cell.marker = CorrectFlag
			}
		}
	}
}

// CellView is what a player may see of a cell.
type CellView struct {
	Row    int    `json:"row"`
	Col    int    `json:"col"`
	State  string `json:"state"` // hidden, flag, question, open
	Value  *int   `json:"value,omitempty"`
	Marker string `json:"marker,omitempty"`
}

// Snapshot returns the visible board. Values of unopened cells are only
// included when showAll is set, which callers do once the game is over.
func (b *Board) Snapshot(showAll bool) [][]CellView {
	out := make([][]CellView, b.rows)
	for r, row := range b.cells {
		out[r] = make([]CellView, b.cols)
		for c, cell := range row {
			v := CellView{Row: r, Col: c, Marker: cell.marker.String()}
			switch {
			case cell.revealed:
				v.State = "open"
			case cell.mark == FlaggedAsMine:
				v.State = "flag"
			case cell.mark == FlaggedAsQuestion:
				v.State = "question"
			default:
				v.State = "hidden"
			}
			if cell.revealed || showAll {
				value := cell.value
				v.Value = &value
			}
			out[r][c] = v
		}
	}
	return out
}

// String renders the board: '#' hidden, 'F' flag, '?' question, '*' mine
// (only once marked by reconciliation), '.' open zero, digits otherwise.
func (b *Board) String() string {
	var sb strings.Builder
	for _, row := range b.cells {
		for _, cell := range row {
			switch {
			case cell.revealed && cell.value == 0:
				sb.WriteByte('.')
			case cell.revealed:
				sb.WriteString(strconv.Itoa(cell.value))
			case cell.marker == Detonated || cell.marker == MissedMine:
				sb.WriteByte('*')
			case cell.mark == FlaggedAsMine:
				sb.WriteByte('F')
			case cell.mark == FlaggedAsQuestion:
				sb.WriteByte('?')
			default:
				sb.WriteByte('#')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

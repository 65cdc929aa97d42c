package game

import (
	"fmt"
	"math/rand"

	"minesweeper/internal/domain"
)

// Mine is the cell value that marks a mine.
const Mine = -1

// InvalidBoardParamsError reports board dimensions or a mine count that
// cannot produce a playable board.
type InvalidBoardParamsError struct {
	Rows  int
	Cols  int
	Mines int
}

func (e *InvalidBoardParamsError) Error() string {
	switch {
	case e.Rows <= 0:
		return fmt.Sprintf("cannot create a board with %d rows", e.Rows)
	case e.Cols <= 0:
		return fmt.Sprintf("cannot create a board with %d columns", e.Cols)
	case e.Mines <= 0:
		return fmt.Sprintf("a board needs at least one mine, got %d", e.Mines)
	case e.Mines >= e.Rows*e.Cols:
		return fmt.Sprintf("not enough space for %d mines on a %dx%d board (max %d)", e.Mines, e.Rows, e.Cols, e.Rows*e.Cols-1)
	default:
		return "cannot construct board: unknown error"
	}
}

// ValidateParams checks 0 < mines < rows*cols on a non-empty grid.
func ValidateParams(rows, cols, mines int) error {
	if !(domain.Difficulty{Rows: rows, Cols: cols, Mines: mines}).Playable() {
		return &InvalidBoardParamsError{Rows: rows, Cols: cols, Mines: mines}
	}
	return nil
}

// Generate lays out a field of cell values: Mine for mines, otherwise the
// number of mines among the Moore neighbours. Mines are placed by drawing a
// uniformly random cell and redrawing on collision, so a fixed rng seed gives
// a fixed field.
func Generate(rows, cols, mines int, rng *rand.Rand) ([][]int, error) {
	if err := ValidateParams(rows, cols, mines); err != nil {
		return nil, err
	}

	field := make([][]int, rows)
	for r := range field {
		field[r] = make([]int, cols)
	}

	placed := 0
	for placed < mines {
		r, c := rng.Intn(rows), rng.Intn(cols)
		if field[r][c] == Mine {
			continue
		}
		field[r][c] = Mine
		placed++
		forEachNeighbor(rows, cols, r, c, func(nr, nc int) {
			if field[nr][nc] != Mine {
				field[nr][nc]++
			}
		})
	}
	return field, nil
}

// forEachNeighbor visits the in-bounds Moore neighbours of (r, c) row by row.
func forEachNeighbor(rows, cols, r, c int, fn func(nr, nc int)) {
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			nr, nc := r+dr, c+dc
			if nr >= 0 && nr < rows && nc >= 0 && nc < cols {
				fn(nr, nc)
			}
		}
	}
}

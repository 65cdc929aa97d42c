package game

// Mark is the player's annotation on an unrevealed cell.
type Mark int

const (
	NoMark Mark = iota
	FlaggedAsMine
	FlaggedAsQuestion
)

// Next returns the mark a right click cycles to:
// none -> mine flag -> question -> none.
func (m Mark) Next() Mark {
	switch m {
	case NoMark:
		return FlaggedAsMine
	case FlaggedAsMine:
		return FlaggedAsQuestion
	default:
		return NoMark
	}
}

func (m Mark) String() string {
	switch m {
	case FlaggedAsMine:
		return "flag"
	case FlaggedAsQuestion:
		return "question"
	default:
		return "none"
	}
}

// Marker is the end-of-game display annotation.
type Marker int

const (
	NoMarker Marker = iota
	Detonated
	WrongFlag
	CorrectFlag
	MissedMine
)

func (m Marker) String() string {
	switch m {
	case Detonated:
		return "detonated"
	case WrongFlag:
		return "wrong_flag"
	case CorrectFlag:
		return "correct_flag"
	case MissedMine:
		return "missed_mine"
	default:
		return ""
	}
}

// Coord addresses a cell.
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type Cell struct {
	row      int
	col      int
	value    int
	revealed bool
	mark     Mark
	marker   Marker
}

func newCell(row, col, value int) *Cell {
	return &Cell{row: row, col: col, value: value}
}

func (c *Cell) Row() int         { return c.row }
func (c *Cell) Col() int         { return c.col }
func (c *Cell) Coord() Coord     { return Coord{c.row, c.col} }
func (c *Cell) Value() int       { return c.value }
func (c *Cell) IsMine() bool     { return c.value == Mine }
func (c *Cell) IsRevealed() bool { return c.revealed }
func (c *Cell) Mark() Mark       { return c.mark }
func (c *Cell) Marker() Marker   { return c.marker }

// IsFlagged reports a mine flag; question marks do not count.
func (c *Cell) IsFlagged() bool { return c.mark == FlaggedAsMine }

// reveal opens a safe cell. Mines and mine-flagged cells are left alone; the
// board decides what a mine reveal means.
func (c *Cell) reveal() bool {
	if c.revealed || c.IsMine() || c.mark == FlaggedAsMine {
		return false
	}
	c.revealed = true
	c.mark = NoMark
	return true
}

// toggleFlag cycles the mark of an unrevealed cell and returns the previous
// and new marks. ok is false for revealed cells.
func (c *Cell) toggleFlag() (prev, next Mark, ok bool) {
	if c.revealed {
		return c.mark, c.mark, false
	}
	prev = c.mark
	c.mark = prev.Next()
	return prev, c.mark, true
}

package event

import "fmt"

// Kind identifies a game event.
type Kind int

const (
	KindUnknown Kind = iota
	NewGame          // request to discard the session and start another
	GameStart        // first player action happened
	Reveal           // request to reveal a cell
	RevealNeighbors  // chord-reveal request on a revealed numbered cell
	MineMarked       // a cell became flagged-as-mine
	MineUnmarked     // a cell stopped being flagged-as-mine
	GameOver         // a mine was revealed
	Win              // all safe cells revealed
	GameEnd          // session reached a terminal state
)

var kindNames = [...]string{
	KindUnknown:     "unknown",
	NewGame:         "new_game",
	GameStart:       "game_start",
	Reveal:          "reveal",
	RevealNeighbors: "reveal_neighbors_for_revealed",
	MineMarked:      "mine_marked",
	MineUnmarked:    "mine_unmarked",
	GameOver:        "game_over",
	Win:             "win",
	GameEnd:         "game_end",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind is the inverse of String.
func ParseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if name == s && Kind(k) != KindUnknown {
			return Kind(k), true
		}
	}
	return KindUnknown, false
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	parsed, ok := ParseKind(string(b))
	if !ok {
		return fmt.Errorf("unknown event kind %q", string(b))
	}
	*k = parsed
	return nil
}

// Event carries a kind and its payload. Row and Col are meaningful for
// Reveal, RevealNeighbors and GameOver; Difficulty for NewGame and Win.
type Event struct {
	Kind       Kind   `json:"type"`
	Row        int    `json:"row"`
	Col        int    `json:"col"`
	Difficulty string `json:"difficulty,omitempty"`
}

// Of builds a payload-less event.
func Of(kind Kind) Event {
	return Event{Kind: kind}
}

// At builds a coordinate event.
func At(kind Kind, row, col int) Event {
	return Event{Kind: kind, Row: row, Col: col}
}

// NewGameRequest builds a new_game event; an empty difficulty keeps the
// current one.
func NewGameRequest(difficulty string) Event {
	return Event{Kind: NewGame, Difficulty: difficulty}
}

func (e Event) String() string {
	switch e.Kind {
	case Reveal, RevealNeighbors, GameOver:
		return fmt.Sprintf("%s(%d,%d)", e.Kind, e.Row, e.Col)
	case NewGame, Win:
		if e.Difficulty != "" {
			return fmt.Sprintf("%s(%s)", e.Kind, e.Difficulty)
		}
	}
	return e.Kind.String()
}

// Kinds lists every known kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, len(kindNames)-1)
	for k := NewGame; int(k) < len(kindNames); k++ {
		out = append(out, k)
	}
	return out
}

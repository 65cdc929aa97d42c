package domain

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultBestTime is what a best-time store reports for a difficulty that
// has no record yet. It is also the elapsed-timer ceiling.
const DefaultBestTime = 999

// Difficulty is a named board parameterisation.
type Difficulty struct {
	Name  string `json:"name"`
	Rows  int    `json:"rows"`
	Cols  int    `json:"cols"`
	Mines int    `json:"mines"`
}

func (d Difficulty) String() string {
	return fmt.Sprintf("%s (%dx%d, %d mines)", d.Name, d.Rows, d.Cols, d.Mines)
}

// Playable reports whether the board has room for its mines and at least
// one safe cell.
func (d Difficulty) Playable() bool {
	return d.Rows > 0 && d.Cols > 0 && d.Mines > 0 && d.Mines < d.Rows*d.Cols
}

// Preset names
const (
	Beginner = "beginner"
	Advanced = "advanced"
	Expert   = "expert"
)

// GameResult - terminal outcome of a session
type GameResult string

const (
	GameResultWin  GameResult = "win"
	GameResultLose GameResult = "lose"
)

// Presets is an ordered set of difficulties addressable by name.
type Presets struct {
	order  []string
	byName map[string]Difficulty
}

// NewPresets builds a preset set. Names are case-insensitive and must be
// unique; every board must be Playable.
func NewPresets(difficulties ...Difficulty) (*Presets, error) {
	p := &Presets{byName: make(map[string]Difficulty, len(difficulties))}
	for _, d := range difficulties {
		d.Name = strings.ToLower(d.Name)
		if d.Name == "" {
			return nil, fmt.Errorf("difficulty without a name: %v", d)
		}
		if !d.Playable() {
			return nil, fmt.Errorf("difficulty %q is not playable: %dx%d with %d mines", d.Name, d.Rows, d.Cols, d.Mines)
		}
		if _, dup := p.byName[d.Name]; dup {
			return nil, fmt.Errorf("duplicate difficulty %q", d.Name)
		}
		p.order = append(p.order, d.Name)
		p.byName[d.Name] = d
	}
	return p, nil
}

// StandardPresets: 10x10/10, 20x20/50, 16x30/99.
func StandardPresets() *Presets {
	p, _ := NewPresets(
		Difficulty{Name: Beginner, Rows: 10, Cols: 10, Mines: 10},
		Difficulty{Name: Advanced, Rows: 20, Cols: 20, Mines: 50},
		Difficulty{Name: Expert, Rows: 16, Cols: 30, Mines: 99},
	)
	return p
}

// ClassicPresets is the earlier preset set with a 30x30 expert board.
func ClassicPresets() *Presets {
	p, _ := NewPresets(
		Difficulty{Name: Beginner, Rows: 10, Cols: 10, Mines: 10},
		Difficulty{Name: Advanced, Rows: 20, Cols: 20, Mines: 50},
		Difficulty{Name: Expert, Rows: 30, Cols: 30, Mines: 200},
	)
	return p
}

// PresetsByName resolves a DIFFICULTY_SET value.
func PresetsByName(name string) (*Presets, error) {
	switch strings.ToLower(name) {
	case "", "standard":
		return StandardPresets(), nil
	case "classic":
		return ClassicPresets(), nil
	default:
		return nil, fmt.Errorf("unknown difficulty set %q", name)
	}
}

// Get looks a difficulty up by name.
func (p *Presets) Get(name string) (Difficulty, bool) {
	d, ok := p.byName[strings.ToLower(name)]
	return d, ok
}

// All returns the difficulties in declaration order.
func (p *Presets) All() []Difficulty {
	out := make([]Difficulty, 0, len(p.order))
	for _, n := range p.order {
		out = append(out, p.byName[n])
	}
	return out
}

// Names returns the preset names sorted alphabetically.
func (p *Presets) Names() []string {
	names := append([]string(nil), p.order...)
	sort.Strings(names)
	return names
}

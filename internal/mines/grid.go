package mines

import (
	"fmt"
	"strconv"
	"strings"
)

type CellState uint8

const (
	Hidden CellState = iota
	Flagged
	Revealed
)

var cellStateNames = [...]string{
	Hidden:   "hidden",
	Flagged:  "flagged",
	Revealed: "revealed",
}

func (s CellState) String() string {
	if int(s) < len(cellStateNames) {
		return cellStateNames[s]
	}
	return "CellState(" + strconv.Itoa(int(s)) + ")"
}

// [CellState] implements [encoding.TextMarshaler]
func (s CellState) MarshalText() ([]byte, error) {
	if int(s) >= len(cellStateNames) {
		return nil, fmt.Errorf("unknown cell state %d", s)
	}
	return []byte(s.String()), nil
}

func (s *CellState) UnmarshalText(text []byte) error {
	for i, name := range cellStateNames {
		if name == string(text) {
			*s = CellState(i)
			return nil
		}
	}
	return fmt.Errorf("unknown cell state %q", text)
}

type Cell struct {
	IsMine        bool
	AdjacentMines int
	State         CellState
}

const (
	HiddenValue int8 = -1
	MineValue   int8 = 9
)

// CellView is what a presentation layer is allowed to know about a cell.
// Value is the adjacency count (0-8) of a revealed safe cell, MineValue for
// a revealed mine and HiddenValue otherwise.
type CellView struct {
	State     CellState `json:"state"`
	Value     int8      `json:"value"`
	Exploded  bool      `json:"exploded,omitempty"`
	WrongFlag bool      `json:"wrong_flag,omitempty"`
}

func (v CellView) String() string {
	switch {
	case v.State == Flagged && v.WrongFlag:
		return "x"
	case v.State == Flagged:
		return "!"
	case v.State == Hidden:
		return " "
	case v.Value == MineValue:
		return "*"
	default:
		return strconv.Itoa(int(v.Value))
	}
}

type Grid []CellView

func (g Grid) ToString(cols int) string {
	var b strings.Builder
	for row := range len(g) / cols {
		for col := range cols {
			fmt.Fprint(&b, g[row*cols+col].String()+" ")
		}
		fmt.Fprint(&b, "\n")
	}
	return b.String()
}

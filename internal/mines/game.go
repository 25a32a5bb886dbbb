package mines

import (
	"fmt"
	"math/rand/v2"
	"strconv"

	"github.com/sirupsen/logrus"
)

type Status uint8

const (
	InProgress Status = iota
	Won
	Lost
)

var statusNames = [...]string{
	InProgress: "in_progress",
	Won:        "won",
	Lost:       "lost",
}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return "Status(" + strconv.Itoa(int(s)) + ")"
}

// [Status] implements [encoding.TextMarshaler]
func (s Status) MarshalText() ([]byte, error) {
	if int(s) >= len(statusNames) {
		return nil, fmt.Errorf("unknown game status %d", s)
	}
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	for i, name := range statusNames {
		if name == string(text) {
			*s = Status(i)
			return nil
		}
	}
	return fmt.Errorf("unknown game status %q", text)
}

type Change struct {
	Point
	View CellView `json:"view"`
}

type Observer interface {
	CellChanged(c Change)
	StatusChanged(s Status)
}

// Game applies player actions to a Board. Illegal actions on legal
// coordinates are no-ops; only out-of-range coordinates are errors.
// A Game is not safe for concurrent use.
type Game struct {
	board               *Board
	minesRemainingGuess int
	actualMinesLeft     int
	status              Status
	exploded            int
	changes             []Change
	observer            Observer
}

func NewGame(params GameParams, r *rand.Rand) (*Game, error) {
	board, err := NewBoard(params, r)
	if err != nil {
		return nil, err
	}
	return NewGameFromBoard(board), nil
}

func NewGameFromBoard(board *Board) *Game {
	return &Game{
		board:               board,
		minesRemainingGuess: board.MineCount,
		actualMinesLeft:     board.MineCount,
		status:              InProgress,
		exploded:            -1,
	}
}

func (g *Game) SetObserver(o Observer) {
	g.observer = o
}

func (g *Game) Params() GameParams {
	return g.board.GameParams
}

func (g *Game) Status() Status {
	return g.status
}

func (g *Game) Over() bool {
	return g.status != InProgress
}

func (g *Game) MinesRemainingGuess() int {
	return g.minesRemainingGuess
}

func (g *Game) ActualMinesLeft() int {
	return g.actualMinesLeft
}

func (g *Game) Flag(row, col int) (Status, error) {
	if err := g.board.checkPoint(row, col); err != nil {
		return g.status, err
	}
	if g.Over() || g.minesRemainingGuess == 0 {
		return g.status, nil
	}
	i := g.board.index(row, col)
	cell := &g.board.cells[i]
	if cell.State != Hidden {
		return g.status, nil
	}

	cell.State = Flagged
	g.minesRemainingGuess--
	g.emit(i)

	if cell.IsMine {
		g.actualMinesLeft--
		if g.actualMinesLeft == 0 {
			g.setStatus(Won)
		}
	}
	return g.status, nil
}

func (g *Game) Unflag(row, col int) (Status, error) {
	if err := g.board.checkPoint(row, col); err != nil {
		return g.status, err
	}
	if g.Over() {
		return g.status, nil
	}
	i := g.board.index(row, col)
	cell := &g.board.cells[i]
	if cell.State != Flagged {
		return g.status, nil
	}

	cell.State = Hidden
	g.minesRemainingGuess++
	if cell.IsMine {
		g.actualMinesLeft++
	}
	g.emit(i)
	return g.status, nil
}

func (g *Game) Reveal(row, col int) (Status, error) {
	if err := g.board.checkPoint(row, col); err != nil {
		return g.status, err
	}
	if g.Over() {
		return g.status, nil
	}
	i := g.board.index(row, col)
	cell := &g.board.cells[i]
	if cell.State != Hidden {
		return g.status, nil
	}

	if cell.IsMine {
		cell.State = Revealed
		g.exploded = i
		g.setStatus(Lost)
		g.emit(i)
		g.revealMines()
		return g.status, nil
	}

	g.flood(i)
	return g.status, nil
}

// flood reveals start and, through zero-count cells, the connected region
// around it. Cells are marked Revealed when queued, which keeps every cell
// in the worklist at most once.
func (g *Game) flood(start int) {
	cells := g.board.cells
	todo := newCelltodo(len(cells))

	cells[start].State = Revealed
	g.emit(start)
	if cells[start].AdjacentMines == 0 {
		todo.add(start)
	}

	for i, ok := todo.pop(); ok; i, ok = todo.pop() {
		g.board.forEachNeighbour(i, func(j int) {
			if cells[j].State != Hidden {
				return
			}
			cells[j].State = Revealed
			g.emit(j)
			if cells[j].AdjacentMines == 0 {
				todo.add(j)
			}
		})
	}
}

// revealMines exposes the layout after a loss. Flags on safe cells stay in
// place; they are reported again so the view can mark them wrong.
func (g *Game) revealMines() {
	for i := range g.board.cells {
		cell := &g.board.cells[i]
		switch {
		case cell.IsMine && cell.State != Revealed:
			cell.State = Revealed
			g.emit(i)
		case !cell.IsMine && cell.State == Flagged:
			g.emit(i)
		}
	}
}

func (g *Game) setStatus(s Status) {
	g.status = s
	Log.WithFields(logrus.Fields{
		"seed":                  g.board.Seed(),
		"status":                s.String(),
		"mines_remaining_guess": g.minesRemainingGuess,
	}).Info("game over")
	if g.observer != nil {
		g.observer.StatusChanged(s)
	}
}

func (g *Game) emit(i int) {
	row, col := g.board.point(i)
	c := Change{Point: Point{row, col}, View: g.view(i)}
	g.changes = append(g.changes, c)
	if g.observer != nil {
		g.observer.CellChanged(c)
	}
}

// Drain returns the changes produced since the previous call.
func (g *Game) Drain() []Change {
	changes := g.changes
	g.changes = nil
	return changes
}

func (g *Game) view(i int) CellView {
	cell := g.board.cells[i]
	v := CellView{State: cell.State, Value: HiddenValue}
	switch cell.State {
	case Revealed:
		if cell.IsMine {
			v.Value = MineValue
			v.Exploded = i == g.exploded
		} else {
			v.Value = int8(cell.AdjacentMines)
		}
	case Flagged:
		v.WrongFlag = g.status == Lost && !cell.IsMine
	}
	return v
}

func (g *Game) CellView(row, col int) (CellView, error) {
	if err := g.board.checkPoint(row, col); err != nil {
		return CellView{}, err
	}
	return g.view(g.board.index(row, col)), nil
}

func (g *Game) Grid() Grid {
	grid := make(Grid, len(g.board.cells))
	for i := range grid {
		grid[i] = g.view(i)
	}
	return grid
}

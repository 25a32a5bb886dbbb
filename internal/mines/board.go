package mines

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
)

type Point struct {
	Row int `json:"row" schema:"row,required"`
	Col int `json:"col" schema:"col,required"`
}

// Board owns the mine layout and adjacency counts. Cells are stored
// row-major; only the Game mutates cell states.
type Board struct {
	GameParams
	cells []Cell
}

func newEmptyBoard(params GameParams) *Board {
	return &Board{
		GameParams: params,
		cells:      make([]Cell, params.Rows*params.Cols),
	}
}

// NewBoard places exactly params.MineCount mines at uniformly random cells.
// A pick that lands on an existing mine is retried, never skipped.
func NewBoard(params GameParams, r *rand.Rand) (*Board, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	b := newEmptyBoard(params)

	placed, collisions := 0, 0
	for placed < params.MineCount {
		row, col := r.IntN(params.Rows), r.IntN(params.Cols)
		i := b.index(row, col)
		if b.cells[i].IsMine {
			collisions++
			continue
		}
		b.placeMine(i)
		placed++
	}

	Log.WithField("seed", params.Seed()).
		WithField("collisions", collisions).
		Debug("board generated")

	return b, nil
}

// NewBoardFromMines builds a board with a fixed mine layout.
func NewBoardFromMines(rows, cols int, mines []Point) (*Board, error) {
	params := GameParams{Rows: rows, Cols: cols, MineCount: len(mines)}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	b := newEmptyBoard(params)
	for _, p := range mines {
		if err := params.checkPoint(p.Row, p.Col); err != nil {
			return nil, err
		}
		i := b.index(p.Row, p.Col)
		if b.cells[i].IsMine {
			return nil, fmt.Errorf("duplicate mine at (%d, %d)", p.Row, p.Col)
		}
		b.placeMine(i)
	}
	return b, nil
}

func (b *Board) index(row, col int) int {
	return row*b.Cols + col
}

func (b *Board) point(i int) (row, col int) {
	return i / b.Cols, i % b.Cols
}

func (b *Board) placeMine(i int) {
	b.cells[i].IsMine = true
	b.cells[i].AdjacentMines = 0
	b.forEachNeighbour(i, func(j int) {
		if !b.cells[j].IsMine {
			b.cells[j].AdjacentMines++
		}
	})
}

// forEachNeighbour visits the in-bounds part of the 3x3 window around i,
// excluding i itself.
func (b *Board) forEachNeighbour(i int, fn func(j int)) {
	row, col := b.point(i)
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			r, c := row+dr, col+dc
			if b.PointInBounds(r, c) {
				fn(b.index(r, c))
			}
		}
	}
}

func (b *Board) CellAt(row, col int) (Cell, error) {
	if err := b.checkPoint(row, col); err != nil {
		return Cell{}, err
	}
	return b.cells[b.index(row, col)], nil
}

func (b *Board) Neighbours(row, col int) ([]Point, error) {
	if err := b.checkPoint(row, col); err != nil {
		return nil, err
	}
	points := make([]Point, 0, 8)
	b.forEachNeighbour(b.index(row, col), func(j int) {
		r, c := b.point(j)
		points = append(points, Point{r, c})
	})
	return points, nil
}

// Mines lists the mine layout in row-major order.
func (b *Board) Mines() []Point {
	points := make([]Point, 0, b.MineCount)
	for i, cell := range b.cells {
		if cell.IsMine {
			r, c := b.point(i)
			points = append(points, Point{r, c})
		}
	}
	return points
}

// String renders the full layout: '*' for mines, '.' for zero counts.
func (b *Board) String() string {
	var sb strings.Builder
	sb.WriteString("   ")
	for col := range b.Cols {
		fmt.Fprintf(&sb, "%2d", col%100)
	}
	sb.WriteString("\n")
	for row := range b.Rows {
		fmt.Fprintf(&sb, "%2d:", row%100)
		for col := range b.Cols {
			cell := b.cells[b.index(row, col)]
			switch {
			case cell.IsMine:
				sb.WriteString(" *")
			case cell.AdjacentMines == 0:
				sb.WriteString(" .")
			default:
				sb.WriteString(" " + strconv.Itoa(cell.AdjacentMines))
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

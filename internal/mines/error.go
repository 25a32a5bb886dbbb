package mines

import "fmt"

type InvalidCoordinateError struct {
	Row, Col   int
	Rows, Cols int
}

// [InvalidCoordinateError] implements [error]
func (e InvalidCoordinateError) Error() string {
	return fmt.Sprintf(
		"cell (%d, %d) is outside of the %dx%d board",
		e.Row, e.Col, e.Rows, e.Cols,
	)
}

type InvalidConfigurationError struct {
	GameParams
}

// [InvalidConfigurationError] implements [error]
func (e InvalidConfigurationError) Error() string {
	switch {
	case e.Rows < 1:
		return fmt.Sprintf("cannot create a board with %d rows", e.Rows)
	case e.Cols < 1:
		return fmt.Sprintf("cannot create a board with %d columns", e.Cols)
	case e.Rows > MaxCells/e.Cols:
		return fmt.Sprintf(
			"a %dx%d board exceeds the limit of %d cells",
			e.Rows, e.Cols, MaxCells,
		)
	case e.MineCount < 1:
		return fmt.Sprintf("cannot create a board with %d mines", e.MineCount)
	case e.MineCount >= e.Rows*e.Cols:
		return fmt.Sprintf(
			"not enough space for %d mines on a %dx%d board",
			e.MineCount, e.Rows, e.Cols,
		)
	default:
		return "invalid game configuration"
	}
}

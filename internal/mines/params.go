package mines

import (
	"fmt"
	"strings"
)

const (
	DefaultRows      = 16
	DefaultCols      = 16
	DefaultMineCount = 10

	// MaxCells bounds Rows*Cols so a board always fits in memory.
	MaxCells = 1 << 16
)

type GameParams struct {
	Rows, Cols, MineCount int
}

func DefaultParams() GameParams {
	return GameParams{
		Rows:      DefaultRows,
		Cols:      DefaultCols,
		MineCount: DefaultMineCount,
	}
}

func (p GameParams) Validate() error {
	if p.Rows < 1 || p.Cols < 1 || p.MineCount < 1 ||
		p.Rows > MaxCells/p.Cols || p.MineCount >= p.Rows*p.Cols {
		return InvalidConfigurationError{p}
	}
	return nil
}

func (p GameParams) PointInBounds(row, col int) bool {
	return 0 <= row && row < p.Rows && 0 <= col && col < p.Cols
}

func (p GameParams) checkPoint(row, col int) error {
	if !p.PointInBounds(row, col) {
		return InvalidCoordinateError{row, col, p.Rows, p.Cols}
	}
	return nil
}

func (p GameParams) Seed() string {
	return fmt.Sprintf("%d:%d:%d", p.Rows, p.Cols, p.MineCount)
}

func ParseSeed(seed string) (*GameParams, error) {
	p := &GameParams{}
	sseed := strings.ReplaceAll(seed, ":", " ")
	n, err := fmt.Sscanf(sseed, "%d %d %d", &p.Rows, &p.Cols, &p.MineCount)
	if n != 3 || err != nil {
		return nil, fmt.Errorf(
			`invalid game params seed (sseed = "%s", n = %d, err = %w)`,
			sseed, n, err,
		)
	}
	return p, nil
}

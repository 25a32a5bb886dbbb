package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/vancomm/minesweap/internal/mines"
)

func lookupInt(key string, fallback int) (int, error) {
	s, ok := os.LookupEnv(key)
	if !ok || s == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return v, nil
}

// NewGameDefaults returns the parameters used for games created without
// explicit dimensions.
func NewGameDefaults() (*mines.GameParams, error) {
	rows, err := lookupInt("GAME_ROWS", mines.DefaultRows)
	if err != nil {
		return nil, err
	}
	cols, err := lookupInt("GAME_COLS", mines.DefaultCols)
	if err != nil {
		return nil, err
	}
	mineCount, err := lookupInt("GAME_MINES", mines.DefaultMineCount)
	if err != nil {
		return nil, err
	}

	params := &mines.GameParams{Rows: rows, Cols: cols, MineCount: mineCount}
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid GAME_ROWS/GAME_COLS/GAME_MINES: %w", err)
	}
	return params, nil
}

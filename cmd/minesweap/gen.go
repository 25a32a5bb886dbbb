package main

import (
	"fmt"
	"hash/maphash"
	"math/rand/v2"

	"github.com/spf13/cobra"

	"github.com/vancomm/minesweap/internal/mines"
)

var (
	genRows   int
	genCols   int
	genMines  int
	genParams string
	genSeed   uint64
	genList   bool
)

func init() {
	genCmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate a minesweeper board",
		Long: `Generate a board and print its layout.

Examples:
  minesweap gen --rows 9 --cols 9 --mines 10
  minesweap gen --params 16:30:99 --seed 42
  minesweap gen --seed 7 --list`,
		Args: cobra.NoArgs,
		RunE: runGen,
	}

	genCmd.Flags().IntVarP(&genRows, "rows", "r", mines.DefaultRows, "Number of rows")
	genCmd.Flags().IntVarP(&genCols, "cols", "c", mines.DefaultCols, "Number of columns")
	genCmd.Flags().IntVarP(&genMines, "mines", "m", mines.DefaultMineCount, "Number of mines")
	genCmd.Flags().StringVarP(&genParams, "params", "p", "", "Board parameters as rows:cols:mines, overrides the other size flags")
	genCmd.Flags().Uint64VarP(&genSeed, "seed", "s", 0, "Random seed (random if unset)")
	genCmd.Flags().BoolVarP(&genList, "list", "l", false, "Print mine coordinates instead of the layout")

	rootCmd.AddCommand(genCmd)
}

func runGen(cmd *cobra.Command, args []string) error {
	params := mines.GameParams{Rows: genRows, Cols: genCols, MineCount: genMines}
	if genParams != "" {
		p, err := mines.ParseSeed(genParams)
		if err != nil {
			return err
		}
		params = *p
	}

	seed := genSeed
	if !cmd.Flags().Changed("seed") {
		seed = new(maphash.Hash).Sum64()
	}

	board, err := mines.NewBoard(params, rand.New(rand.NewPCG(seed, seed)))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "# %s seed=%d\n", params.Seed(), seed)
	if genList {
		for _, p := range board.Mines() {
			fmt.Fprintf(out, "%d %d\n", p.Row, p.Col)
		}
		return nil
	}
	fmt.Fprint(out, board.String())
	return nil
}

package main

import (
	"strings"

	"github.com/spf13/cobra"

	"league_grid_go/internal/types"
	"league_grid_go/internal/visualizer"
)

var checkSep string

var checkCmd = &cobra.Command{
	Use:   "check <id> <clue,clue,...>",
	Short: "Score an arrangement of a saved puzzle",
	Long: `check reads sixteen clues in row-major order and reports which rows name a
character, which are one clue off, and whether a column holds the bonus.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		uc, closeStore, err := newService(ctx, false)
		if err != nil {
			return err
		}
		defer closeStore()

		arrangement := splitArrangement(args[1], checkSep)
		res, err := uc.Check(ctx, args[0], arrangement)
		if err != nil {
			return err
		}
		p, err := uc.Load(ctx, args[0])
		if err != nil {
			return err
		}
		visualizer.NewVisualizer(p).PrintResult(cmd.OutOrStdout(), arrangement, res)
		return nil
	},
}

func init() {
	checkCmd.Flags().StringVar(&checkSep, "sep", ",", "Separator between clues")
}

func splitArrangement(s, sep string) []string {
	parts := strings.Split(s, sep)
	out := make([]string, 0, types.Cells)
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

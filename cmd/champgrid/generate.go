package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"league_grid_go/internal/generator"
	"league_grid_go/internal/types"
	"league_grid_go/internal/usecase"
	"league_grid_go/internal/visualizer"
)

const maxRerolls = 3

var (
	genPolicy    string
	genSeed      uint64
	genNoShuffle bool
	genYes       bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a puzzle, show the answer sheet and optionally save it",
	Args:  cobra.NoArgs,
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&genPolicy, "policy", "", "Selection policy: prefix|random (default from config)")
	generateCmd.Flags().Uint64Var(&genSeed, "seed", 0, "Seed for a reproducible puzzle (0 picks one)")
	generateCmd.Flags().BoolVar(&genNoShuffle, "no-shuffle", false, "Keep the grid in row order")
	generateCmd.Flags().BoolVarP(&genYes, "yes", "y", false, "Save without asking")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	uc, closeStore, err := newService(ctx, true)
	if err != nil {
		return err
	}
	defer closeStore()

	opts := usecase.GenerateOptions{
		Policy:  types.Policy(strings.ToLower(cfg.Generator.Policy)),
		Seed:    genSeed,
		Shuffle: cfg.Generator.Shuffle && !genNoShuffle,
	}
	if genPolicy != "" {
		opts.Policy = types.Policy(strings.ToLower(genPolicy))
	}

	out := cmd.OutOrStdout()
	reader := bufio.NewReader(cmd.InOrStdin())

	for attempt := 1; attempt <= maxRerolls; attempt++ {
		p, err := uc.Generate(ctx, opts)
		if errors.Is(err, generator.ErrInsufficientCandidates) {
			return fmt.Errorf("catalog cannot fill a grid: %w", err)
		}
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "\nPuzzle %s\n", p.ID)
		visualizer.NewVisualizer(p).Print(out)

		if genYes || ask(out, reader, "Save this puzzle? (y/n): ") {
			if err := uc.Save(ctx, p); err != nil {
				return err
			}
			logger.Info("puzzle saved", zap.String("id", p.ID), zap.String("driver", cfg.Storage.Driver))
			fmt.Fprintln(out, p.ID)
			return nil
		}

		// A pinned seed would only reproduce the same grid.
		if genSeed != 0 || attempt == maxRerolls || !ask(out, reader, "Generate another? (y/n): ") {
			break
		}
	}
	fmt.Fprintln(out, "Nothing saved.")
	return nil
}

func ask(w io.Writer, r *bufio.Reader, prompt string) bool {
	fmt.Fprint(w, prompt)
	response, _ := r.ReadString('\n')
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}

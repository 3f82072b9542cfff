package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"league_grid_go/internal/catalog"
	"league_grid_go/internal/types"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export-csv",
	Short: "Write the configured catalog as CSV",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := catalog.Open(cfg.Catalog, logger)
		if err != nil {
			return err
		}
		chars, err := cat.Characters(cmd.Context())
		if err != nil {
			return err
		}

		if exportOut == "-" {
			err = writeCSV(cmd.OutOrStdout(), chars)
		} else {
			err = writeCSVFile(exportOut, chars)
		}
		if err != nil {
			return err
		}
		logger.Info("catalog exported", zap.String("out", exportOut), zap.Int("characters", len(chars)))
		return nil
	},
}

func writeCSV(w io.Writer, chars []types.Character) error {
	if err := catalog.WriteCSV(w, chars); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// writeCSVFile reports a failed Close, since buffered data may be lost with it.
func writeCSVFile(path string, chars []types.Character) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := writeCSV(f, chars); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "champions.csv", `Output file, "-" for stdout`)
}

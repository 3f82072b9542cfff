package main

import (
	"strings"

	"github.com/spf13/cobra"

	"league_grid_go/internal/server"
	"league_grid_go/internal/types"
	"league_grid_go/internal/usecase"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the puzzle API over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		uc, closeStore, err := newService(ctx, true)
		if err != nil {
			return err
		}
		defer closeStore()

		addr := cfg.Server.Addr
		if serveAddr != "" {
			addr = serveAddr
		}
		srv := server.New(uc, server.Options{
			Addr:            addr,
			AllowedOrigin:   cfg.Server.AllowedOrigin,
			ShutdownTimeout: cfg.Server.GetShutdownTimeout(),
			Defaults: usecase.GenerateOptions{
				Policy:  types.Policy(strings.ToLower(cfg.Generator.Policy)),
				Shuffle: cfg.Generator.Shuffle,
			},
		}, logger)
		return srv.Run(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config)")
}

package main

import (
	"context"
	"fmt"
	"strings"

	"league_grid_go/db"
	"league_grid_go/internal/catalog"
	"league_grid_go/internal/config"
	"league_grid_go/internal/ports"
	"league_grid_go/internal/store"
	"league_grid_go/internal/usecase"
	"league_grid_go/internal/validator"
)

// openStore returns the configured puzzle store and a func releasing it.
func openStore(ctx context.Context, sc config.StorageConfig) (ports.Storage, func(), error) {
	switch strings.ToLower(sc.Driver) {
	case "sqlite":
		s, err := store.OpenSQLite(ctx, sc.SQLitePath, logger)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	case "pocketbase":
		c, err := db.New(sc.PocketBase, logger)
		if err != nil {
			return nil, nil, err
		}
		authCtx, cancel := context.WithCancel(ctx)
		if err := c.Authenticate(authCtx, sc.PocketBase.GetReauthInterval()); err != nil {
			cancel()
			return nil, nil, err
		}
		return c, cancel, nil
	default:
		return store.NewFS(sc.Dir), func() {}, nil
	}
}

// newService wires the builder, validator and store from cfg. The catalog is only
// opened for commands that generate puzzles.
func newService(ctx context.Context, withCatalog bool) (*usecase.Service, func(), error) {
	var cat ports.Catalog
	if withCatalog {
		c, err := catalog.Open(cfg.Catalog, logger)
		if err != nil {
			return nil, nil, err
		}
		cat = c
	}
	st, closeStore, err := openStore(ctx, cfg.Storage)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s store: %w", cfg.Storage.Driver, err)
	}
	uc := usecase.NewService(cat, usecase.GeneratorFactory(cfg.Generator.MaxNodes), validator.New(), st, logger)
	return uc, closeStore, nil
}

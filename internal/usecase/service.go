package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"league_grid_go/internal/generator"
	"league_grid_go/internal/ports"
	"league_grid_go/internal/types"
)

type Service struct {
	Catalog   ports.Catalog
	Builders  ports.BuilderFactory
	Validator ports.Validator
	Storage   ports.Storage
	Logger    *zap.Logger

	// Now and NewID default to the wall clock and random UUIDs.
	Now   func() time.Time
	NewID func() string
}

func NewService(c ports.Catalog, b ports.BuilderFactory, v ports.Validator, st ports.Storage, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{Catalog: c, Builders: b, Validator: v, Storage: st, Logger: logger}
}

var errNotConfigured = errors.New("usecase dependency not configured")

// GenerateOptions tune one generation run. A zero Seed picks a random one, which
// is recorded on the puzzle so the run can be repeated.
type GenerateOptions struct {
	Policy  types.Policy
	Seed    uint64
	Shuffle bool
}

// GeneratorFactory wires the grid builder with a seeded rng and the named policy.
func GeneratorFactory(maxNodes int) ports.BuilderFactory {
	return func(policy types.Policy, seed uint64, shuffle bool) (ports.Builder, error) {
		rng := generator.NewRand(seed)
		sel, err := generator.PolicyFor(string(policy), rng)
		if err != nil {
			return nil, err
		}
		b := generator.NewBuilder(sel, rng)
		b.SetShuffle(shuffle)
		b.SetMaxNodes(maxNodes)
		return b, nil
	}
}

func (u *Service) logger() *zap.Logger {
	if u.Logger == nil {
		return zap.NewNop()
	}
	return u.Logger
}

func (u *Service) now() time.Time {
	if u.Now != nil {
		return u.Now()
	}
	return time.Now()
}

func (u *Service) newID() string {
	if u.NewID != nil {
		return u.NewID()
	}
	return uuid.NewString()
}

// Generate reads the catalog and builds a fresh puzzle. It does not persist it.
func (u *Service) Generate(ctx context.Context, opts GenerateOptions) (*types.Puzzle, error) {
	if u.Catalog == nil || u.Builders == nil {
		return nil, errNotConfigured
	}
	pool, err := u.Catalog.Characters(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	seed := opts.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	b, err := u.Builders(opts.Policy, seed, opts.Shuffle)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	p, err := b.Build(pool)
	if err != nil {
		u.logger().Warn("puzzle generation failed",
			zap.Int("pool", len(pool)),
			zap.Uint64("seed", seed),
			zap.Error(err))
		return nil, err
	}
	p.ID = u.newID()
	p.Seed = seed
	p.CreatedAt = u.now().UTC()

	u.logger().Info("puzzle generated",
		zap.String("id", p.ID),
		zap.String("policy", string(p.Policy)),
		zap.Uint64("seed", seed),
		zap.Strings("characters", p.Solutions),
		zap.Duration("took", time.Since(start)))
	return p, nil
}

// Create generates a puzzle and saves it.
func (u *Service) Create(ctx context.Context, opts GenerateOptions) (*types.Puzzle, error) {
	if u.Storage == nil {
		return nil, errNotConfigured
	}
	p, err := u.Generate(ctx, opts)
	if err != nil {
		return nil, err
	}
	if err := u.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Check loads puzzle id and classifies arrangement against it.
func (u *Service) Check(ctx context.Context, id string, arrangement []string) (*types.ValidationResult, error) {
	if u.Validator == nil {
		return nil, errNotConfigured
	}
	p, err := u.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	res, err := u.Validator.Validate(p, arrangement)
	if err != nil {
		return nil, err
	}
	u.logger().Debug("arrangement checked",
		zap.String("id", id),
		zap.Bool("allRowsSolved", res.AllRowsSolved))
	return res, nil
}

// Persistence
func (u *Service) Save(ctx context.Context, p *types.Puzzle) error {
	if u.Storage == nil {
		return errNotConfigured
	}
	if err := u.Storage.Save(ctx, p); err != nil {
		return fmt.Errorf("save puzzle %s: %w", p.ID, err)
	}
	return nil
}
func (u *Service) Load(ctx context.Context, id string) (*types.Puzzle, error) {
	if u.Storage == nil {
		return nil, errNotConfigured
	}
	return u.Storage.Load(ctx, id)
}
func (u *Service) List(ctx context.Context) ([]types.PuzzleMeta, error) {
	if u.Storage == nil {
		return nil, errNotConfigured
	}
	return u.Storage.List(ctx)
}

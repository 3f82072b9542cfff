// Package db publishes puzzles to a PocketBase collection.
package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/habibrosyad/pocketbase-go-sdk"
	"go.uber.org/zap"

	"league_grid_go/internal/config"
	"league_grid_go/internal/store"
	"league_grid_go/internal/types"
)

const pageSize = 200

var safeID = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// Client implements store.Store on top of PocketBase. PocketBase assigns its own
// record ids, so the puzzle id lives in the puzzleId field and the full puzzle is
// kept as a JSON string in the puzzle field.
type Client struct {
	pb         *pocketbase.Client
	collection string
	logger     *zap.Logger
}

var _ store.Store = (*Client)(nil)

func New(cfg config.PocketBaseConfig, logger *zap.Logger) (*Client, error) {
	if cfg.URL == "" {
		return nil, errors.New("pocketbase: url not configured")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	collection := cfg.Collection
	if collection == "" {
		collection = "champgrids"
	}
	pb := pocketbase.NewClient(cfg.URL,
		pocketbase.WithSuperuserEmailPassword(cfg.Email, cfg.Password))
	return &Client{pb: pb, collection: collection, logger: logger}, nil
}

// Authenticate authorizes once and then keeps the session fresh every interval
// until ctx is done.
func (c *Client) Authenticate(ctx context.Context, interval time.Duration) error {
	if err := c.pb.Authorize(); err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := c.pb.Authorize(); err != nil {
					c.logger.Warn("pocketbase re-authentication failed", zap.Error(err))
				} else {
					c.logger.Debug("pocketbase re-authenticated")
				}
			}
		}
	}()
	return nil
}

func (c *Client) Save(ctx context.Context, p *types.Puzzle) error {
	if p == nil || !safeID.MatchString(p.ID) {
		return errors.New("invalid puzzle: id must be 1-64 letters, digits, '-' or '_'")
	}
	exists, err := c.Exists(ctx, p.ID)
	if err != nil {
		return fmt.Errorf("failed to check if puzzle exists: %w", err)
	}
	if exists {
		return fmt.Errorf("puzzle with ID %s already exists", p.ID)
	}

	data, err := toRecord(p)
	if err != nil {
		return err
	}
	rec, err := c.pb.Create(c.collection, data)
	if err != nil {
		return fmt.Errorf("failed to upload puzzle: %w", err)
	}
	c.logger.Info("puzzle published",
		zap.String("id", p.ID),
		zap.String("record", rec.ID),
		zap.String("collection", c.collection))
	return nil
}

func (c *Client) Load(ctx context.Context, id string) (*types.Puzzle, error) {
	rec, err := c.find(id)
	if err != nil {
		return nil, err
	}
	return fromRecord(rec)
}

func (c *Client) List(ctx context.Context) ([]types.PuzzleMeta, error) {
	var out []types.PuzzleMeta
	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res, err := c.pb.List(c.collection, pocketbase.ParamsList{
			Page: page,
			Size: pageSize,
			Sort: "-createdAt",
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list puzzles: %w", err)
		}
		for _, rec := range res.Items {
			meta, err := metaFromRecord(rec)
			if err != nil {
				c.logger.Warn("skipping unreadable record", zap.Any("id", rec["id"]), zap.Error(err))
				continue
			}
			out = append(out, meta)
		}
		if len(res.Items) < pageSize {
			store.SortNewestFirst(out)
			return out, nil
		}
	}
}

func (c *Client) Exists(ctx context.Context, id string) (bool, error) {
	_, err := c.find(id)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (c *Client) find(id string) (map[string]any, error) {
	if !safeID.MatchString(id) {
		return nil, fmt.Errorf("%w: %q", store.ErrNotFound, id)
	}
	res, err := c.pb.List(c.collection, pocketbase.ParamsList{
		Page:    1,
		Size:    1,
		Filters: byPuzzleID(id),
	})
	if err != nil {
		if strings.Contains(err.Error(), "404") {
			return nil, fmt.Errorf("%w: %s", store.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to load puzzle %s: %w", id, err)
	}
	if len(res.Items) == 0 {
		return nil, fmt.Errorf("%w: %s", store.ErrNotFound, id)
	}
	return res.Items[0], nil
}

// byPuzzleID builds the filter expression; id must already match safeID.
func byPuzzleID(id string) string {
	return fmt.Sprintf("puzzleId = %q", id)
}

func toRecord(p *types.Puzzle) (map[string]any, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal puzzle: %w", err)
	}
	return map[string]any{
		"puzzleId":  p.ID,
		"policy":    string(p.Policy),
		"createdAt": p.CreatedAt.UTC().Format(time.RFC3339Nano),
		"puzzle":    string(payload),
	}, nil
}

// puzzleField accepts the payload as a JSON string or, for json fields, as an
// already decoded object.
func puzzleField(rec map[string]any) ([]byte, error) {
	switch v := rec["puzzle"].(type) {
	case string:
		return []byte(v), nil
	case map[string]any:
		return json.Marshal(v)
	default:
		return nil, fmt.Errorf("record %v has no puzzle payload", rec["id"])
	}
}

func fromRecord(rec map[string]any) (*types.Puzzle, error) {
	data, err := puzzleField(rec)
	if err != nil {
		return nil, err
	}
	return types.FromJSON(data)
}

func metaFromRecord(rec map[string]any) (types.PuzzleMeta, error) {
	id, _ := rec["puzzleId"].(string)
	if id == "" {
		return types.PuzzleMeta{}, errors.New("missing puzzleId")
	}
	meta := types.PuzzleMeta{ID: id}
	if policy, ok := rec["policy"].(string); ok {
		meta.Policy = types.Policy(policy)
	}
	if created, ok := rec["createdAt"].(string); ok {
		t, err := time.Parse(time.RFC3339Nano, created)
		if err != nil {
			return meta, fmt.Errorf("bad createdAt: %w", err)
		}
		meta.CreatedAt = t
	}
	return meta, nil
}

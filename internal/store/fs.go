package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"league_grid_go/internal/types"
)

// FS keeps one indented JSON file per puzzle under dir/<policy>/. Files written
// directly into dir by older builds are still listed and loaded.
type FS struct{ dir string }

func NewFS(dir string) *FS { return &FS{dir: dir} }

func (s *FS) pathFor(p *types.Puzzle) string {
	sub := string(p.Policy)
	if sub == "" {
		sub = string(types.Prefix)
	}
	return filepath.Join(s.dir, sub, p.ID+".json")
}

func validID(id string) bool {
	return id != "" && !strings.ContainsAny(id, `/\`) && id != "." && id != ".."
}

func (s *FS) Save(ctx context.Context, p *types.Puzzle) error {
	if p == nil || !validID(p.ID) {
		return errors.New("invalid puzzle: missing or unusable ID")
	}
	data, err := p.ToJSON()
	if err != nil {
		return err
	}
	target := s.pathFor(p)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	// rename is atomic within one filesystem, readers never see a partial file
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, target)
}

func (s *FS) candidates(id string) []string {
	return []string{
		filepath.Join(s.dir, string(types.Prefix), id+".json"),
		filepath.Join(s.dir, string(types.Random), id+".json"),
		filepath.Join(s.dir, id+".json"), // legacy flat layout
	}
}

func (s *FS) Load(ctx context.Context, id string) (*types.Puzzle, error) {
	id = strings.TrimSpace(id)
	if !validID(id) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	for _, path := range s.candidates(id) {
		data, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return types.FromJSON(data)
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}

func (s *FS) List(ctx context.Context) ([]types.PuzzleMeta, error) {
	dirs := []string{
		filepath.Join(s.dir, string(types.Prefix)),
		filepath.Join(s.dir, string(types.Random)),
		s.dir,
	}
	var out []types.PuzzleMeta
	for _, dir := range dirs {
		ents, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		for _, e := range ents {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
				continue
			}
			data, err := os.ReadFile(filepath.Join(dir, e.Name()))
			if err != nil {
				continue
			}
			var meta types.PuzzleMeta
			if err := json.Unmarshal(data, &meta); err != nil || meta.ID == "" {
				continue
			}
			out = append(out, meta)
		}
	}
	SortNewestFirst(out)
	return out, nil
}

package catalog

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"league_grid_go/internal/types"
)

// File reads a catalog from disk. ".csv" files use the export layout written by
// WriteCSV; anything else is parsed as JSON.
type File struct {
	Path string
}

func NewFile(path string) *File { return &File{Path: path} }

func (f *File) Characters(ctx context.Context) ([]types.Character, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	if strings.EqualFold(filepath.Ext(f.Path), ".csv") {
		return ReadCSV(f.Path, bytes.NewReader(data))
	}
	return decodeJSON(f.Path, data)
}

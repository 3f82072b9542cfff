// Package catalog loads the character pool puzzles are built from. Providers read
// a local file, the Data Dragon CDN, or a BigQuery table and all normalise records
// into types.Character.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"league_grid_go/internal/config"
	"league_grid_go/internal/types"
)

// Provider returns every character of a catalog.
type Provider interface {
	Characters(ctx context.Context) ([]types.Character, error)
}

// MalformedCatalogError reports a catalog document or record that does not have
// the expected shape.
type MalformedCatalogError struct {
	Source string
	// Record is the offending record's key or position, empty for document errors.
	Record string
	Reason string
	Err    error
}

func (e *MalformedCatalogError) Error() string {
	msg := "malformed catalog " + e.Source
	if e.Record != "" {
		msg += ": record " + e.Record
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedCatalogError) Unwrap() error { return e.Err }

// Open builds the provider selected by cfg.Source.
func Open(cfg config.CatalogConfig, logger *zap.Logger) (Provider, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Source)) {
	case "", "file":
		if cfg.Path == "" {
			return nil, fmt.Errorf("catalog: file source needs a path")
		}
		return NewFile(cfg.Path), nil
	case "ddragon":
		return NewDDragon(cfg.BaseURL, cfg.Version, cfg.Locale, cfg.GetTimeout(), logger), nil
	case "bigquery":
		return NewBigQuery(cfg.BigQuery.Project, cfg.BigQuery.Table)
	default:
		return nil, fmt.Errorf("catalog: unknown source %q", cfg.Source)
	}
}

// tagList decodes tags given either as a JSON array or a "; " joined string.
type tagList []string

func (t *tagList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*t = list
		return nil
	}
	var joined string
	if err := json.Unmarshal(data, &joined); err != nil {
		return fmt.Errorf("tags must be an array or a string")
	}
	*t = splitTags(joined)
	return nil
}

func splitTags(joined string) []string {
	var out []string
	for _, tag := range strings.Split(joined, ";") {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}

// record is the union of the shapes seen in Data Dragon exports and hand-made
// catalogs.
type record struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Title       string           `json:"title"`
	Tags        tagList          `json:"tags"`
	Partype     string           `json:"partype"`
	Species     string           `json:"species"`
	ReleaseYear types.FlexString `json:"release year"`
	ReleaseAlt  types.FlexString `json:"releaseYear"`
	Region      string           `json:"region"`
	Difficulty  types.FlexString `json:"difficulty"`
	Info        *struct {
		Difficulty *float64 `json:"difficulty"`
	} `json:"info"`
}

func (r record) character(source, key string) (types.Character, error) {
	c := types.Character{
		ID:           strings.TrimSpace(r.ID),
		Name:         strings.TrimSpace(r.Name),
		Title:        r.Title,
		Tags:         r.Tags,
		ResourceType: r.Partype,
		Species:      r.Species,
		ReleaseYear:  r.ReleaseYear,
		Region:       r.Region,
	}
	if c.ID == "" && c.Name == "" {
		return c, &MalformedCatalogError{Source: source, Record: key, Reason: "record has neither id nor name"}
	}
	if c.ReleaseYear == "" {
		c.ReleaseYear = r.ReleaseAlt
	}

	switch {
	case strings.TrimSpace(string(r.Difficulty)) != "":
		d, err := parseDifficulty(string(r.Difficulty))
		if err != nil {
			return c, &MalformedCatalogError{Source: source, Record: key, Reason: "bad difficulty", Err: err}
		}
		c.Difficulty = d
	case r.Info != nil && r.Info.Difficulty != nil:
		c.Difficulty = types.Difficulty(*r.Info.Difficulty)
	}
	return c, nil
}

func parseDifficulty(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return types.Difficulty(f), nil
}

// decodeJSON accepts the Data Dragon envelope {"data": {key: record}} or a bare
// array of records. Envelope entries come back sorted by key so catalog order is
// stable across runs.
func decodeJSON(source string, data []byte) ([]types.Character, error) {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var recs []json.RawMessage
		if err := json.Unmarshal(data, &recs); err != nil {
			return nil, &MalformedCatalogError{Source: source, Reason: "invalid JSON array", Err: err}
		}
		out := make([]types.Character, 0, len(recs))
		for i, raw := range recs {
			c, err := decodeRecord(source, strconv.Itoa(i), raw)
			if err != nil {
				return nil, err
			}
			out = append(out, c)
		}
		return out, nil
	}

	var env struct {
		Version string                     `json:"version"`
		Data    map[string]json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, &MalformedCatalogError{Source: source, Reason: "invalid JSON document", Err: err}
	}
	if env.Data == nil {
		return nil, &MalformedCatalogError{Source: source, Reason: `missing "data" object`}
	}
	keys := make([]string, 0, len(env.Data))
	for k := range env.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]types.Character, 0, len(keys))
	for _, k := range keys {
		c, err := decodeRecord(source, k, env.Data[k])
		if err != nil {
			return nil, err
		}
		if c.ID == "" {
			c.ID = k
		}
		out = append(out, c)
	}
	return out, nil
}

func decodeRecord(source, key string, raw json.RawMessage) (types.Character, error) {
	var r record
	if err := json.Unmarshal(raw, &r); err != nil {
		return types.Character{}, &MalformedCatalogError{Source: source, Record: key, Reason: "invalid record", Err: err}
	}
	return r.character(source, key)
}

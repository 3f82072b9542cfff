package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"league_grid_go/internal/types"
)

var csvHeader = []string{"id", "name", "title", "tags", "partype", "difficulty"}

// WriteCSV writes characters in the flat export layout. Tags are joined with "; "
// and a missing difficulty becomes an empty cell.
func WriteCSV(w io.Writer, chars []types.Character) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, c := range chars {
		difficulty := ""
		if c.Difficulty != nil {
			difficulty = strconv.FormatFloat(*c.Difficulty, 'f', -1, 64)
		}
		row := []string{c.ID, c.Name, c.Title, strings.Join(c.Tags, "; "), c.ResourceType, difficulty}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a catalog with a header row. Column names are matched case
// insensitively; species, release year and region are read when present and
// unknown columns are ignored.
func ReadCSV(source string, r io.Reader) ([]types.Character, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &MalformedCatalogError{Source: source, Reason: "empty CSV"}
		}
		return nil, &MalformedCatalogError{Source: source, Reason: "invalid CSV header", Err: err}
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := col["id"]; !ok {
		if _, ok := col["name"]; !ok {
			return nil, &MalformedCatalogError{Source: source, Reason: "CSV needs an id or name column"}
		}
	}
	if _, ok := col["release year"]; !ok {
		if i, ok := col["releaseyear"]; ok {
			col["release year"] = i
		}
	}

	var out []types.Character
	for line := 2; ; line++ {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &MalformedCatalogError{Source: source, Record: "line " + strconv.Itoa(line), Reason: "invalid CSV row", Err: err}
		}
		get := func(name string) string {
			i, ok := col[name]
			if !ok || i >= len(fields) {
				return ""
			}
			return strings.TrimSpace(fields[i])
		}

		rec := record{
			ID:          get("id"),
			Name:        get("name"),
			Title:       get("title"),
			Tags:        splitTags(get("tags")),
			Partype:     get("partype"),
			Species:     get("species"),
			ReleaseYear: types.FlexString(get("release year")),
			Region:      get("region"),
			Difficulty:  types.FlexString(get("difficulty")),
		}
		c, err := rec.character(source, "line "+strconv.Itoa(line))
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("catalog %s: no records", source)
	}
	return out, nil
}

package catalog

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"

	"league_grid_go/internal/types"
)

var tableName = regexp.MustCompile(`^[A-Za-z0-9_\-]+(\.[A-Za-z0-9_\-]+){1,2}$`)

// BigQuery reads characters from a table with the flat export columns plus the
// optional species, release_year and region columns.
type BigQuery struct {
	Project string
	Table   string
}

func NewBigQuery(project, table string) (*BigQuery, error) {
	if project == "" {
		return nil, errors.New("catalog: bigquery source needs a project")
	}
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("catalog: bad bigquery table %q, want dataset.table or project.dataset.table", table)
	}
	return &BigQuery{Project: project, Table: table}, nil
}

type bqRow struct {
	ID          bigquery.NullString  `bigquery:"id"`
	Name        bigquery.NullString  `bigquery:"name"`
	Title       bigquery.NullString  `bigquery:"title"`
	Tags        bigquery.NullString  `bigquery:"tags"`
	Partype     bigquery.NullString  `bigquery:"partype"`
	Species     bigquery.NullString  `bigquery:"species"`
	ReleaseYear bigquery.NullString  `bigquery:"release_year"`
	Region      bigquery.NullString  `bigquery:"region"`
	Difficulty  bigquery.NullFloat64 `bigquery:"difficulty"`
}

func (b *BigQuery) query() string {
	return fmt.Sprintf("SELECT id, name, title, tags, partype, species, "+
		"CAST(release_year AS STRING) AS release_year, region, CAST(difficulty AS FLOAT64) AS difficulty FROM `%s` ORDER BY id", b.Table)
}

func (b *BigQuery) Characters(ctx context.Context) ([]types.Character, error) {
	client, err := bigquery.NewClient(ctx, b.Project)
	if err != nil {
		return nil, fmt.Errorf("bigquery client: %w", err)
	}
	defer client.Close()

	it, err := client.Query(b.query()).Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("bigquery read %s: %w", b.Table, err)
	}
	var out []types.Character
	for n := 0; ; n++ {
		var row bqRow
		err := it.Next(&row)
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("bigquery row %d: %w", n, err)
		}
		c, err := row.character(b.Table, n)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (r bqRow) character(source string, n int) (types.Character, error) {
	rec := record{
		ID:          r.ID.StringVal,
		Name:        r.Name.StringVal,
		Title:       r.Title.StringVal,
		Tags:        splitTags(r.Tags.StringVal),
		Partype:     r.Partype.StringVal,
		Species:     r.Species.StringVal,
		ReleaseYear: types.FlexString(r.ReleaseYear.StringVal),
		Region:      r.Region.StringVal,
	}
	c, err := rec.character("bigquery "+source, fmt.Sprintf("row %d", n))
	if err != nil {
		return c, err
	}
	if r.Difficulty.Valid {
		c.Difficulty = types.Difficulty(r.Difficulty.Float64)
	}
	return c, nil
}

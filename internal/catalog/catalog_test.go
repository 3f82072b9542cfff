package catalog

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"league_grid_go/internal/clues"
	"league_grid_go/internal/config"
	"league_grid_go/internal/types"
)

func names(chars []types.Character) []string {
	out := make([]string, len(chars))
	for i, c := range chars {
		out[i] = c.Name
	}
	return out
}

func TestFileReadsDataDragonEnvelope(t *testing.T) {
	chars, err := NewFile("testdata/champion.json").Characters(context.Background())
	require.NoError(t, err)

	// Envelope keys come back sorted.
	assert.Equal(t, []string{"Aatrox", "Ahri", "Akali"}, names(chars))

	want := types.Character{
		ID:           "Ahri",
		Name:         "Ahri",
		Title:        "the Nine-Tailed Fox",
		Tags:         []string{"Mage", "Assassin"},
		ResourceType: "Mana",
		Difficulty:   types.Difficulty(5),
	}
	if diff := cmp.Diff(want, chars[1]); diff != "" {
		t.Fatalf("Ahri mismatch (-want +got):\n%s", diff)
	}
}

func TestFileReadsArrayWithLooseFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "champs.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"name": "Sejuani", "tags": "Tank; Fighter", "species": "Human", "release year": 2012, "region": "Freljord", "difficulty": "4"},
		{"id": "KSante", "name": "K'Sante", "releaseYear": "2022", "difficulty": 9}
	]`), 0644))

	chars, err := NewFile(path).Characters(context.Background())
	require.NoError(t, err)
	require.Len(t, chars, 2)

	assert.Equal(t, []string{"Tank", "Fighter"}, chars[0].Tags)
	assert.Equal(t, types.FlexString("2012"), chars[0].ReleaseYear)
	assert.Equal(t, "Freljord", chars[0].Region)
	require.NotNil(t, chars[0].Difficulty)
	assert.Equal(t, 4.0, *chars[0].Difficulty)
	assert.Equal(t, "Sejuani", chars[0].Key())

	assert.Equal(t, types.FlexString("2022"), chars[1].ReleaseYear)
	assert.Equal(t, 9.0, *chars[1].Difficulty)
}

func TestFractionalDifficultyKeepsItsBucket(t *testing.T) {
	path := filepath.Join(t.TempDir(), "champs.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"id": "Annie", "title": "the Dark Child", "difficulty": 3.5},
		{"id": "Azir", "title": "the Emperor of the Sands", "difficulty": "6.5"}
	]`), 0644))

	chars, err := NewFile(path).Characters(context.Background())
	require.NoError(t, err)
	require.Len(t, chars, 2)
	assert.Equal(t, []string{"the Dark Child", "Medium"}, clues.Extract(chars[0]))
	assert.Equal(t, []string{"the Emperor of the Sands", "Hard"}, clues.Extract(chars[1]))

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, chars))
	assert.Contains(t, buf.String(), "Annie,,the Dark Child,,,3.5\n")
}

func TestFileMalformed(t *testing.T) {
	cases := []struct {
		name, body string
	}{
		{"not json", `{"data": `},
		{"no data object", `{"type": "champion"}`},
		{"nameless record", `[{"title": "the Nobody"}]`},
		{"bad difficulty", `[{"id": "Ahri", "difficulty": "hard"}]`},
		{"bad tags", `[{"id": "Ahri", "tags": 7}]`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.json")
			require.NoError(t, os.WriteFile(path, []byte(tc.body), 0644))

			_, err := NewFile(path).Characters(context.Background())
			var malformed *MalformedCatalogError
			require.True(t, errors.As(err, &malformed), "got %v", err)
			assert.Equal(t, path, malformed.Source)
		})
	}
}

func TestFileMissing(t *testing.T) {
	_, err := NewFile(filepath.Join(t.TempDir(), "nope.json")).Characters(context.Background())
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestCSVRoundTrip(t *testing.T) {
	chars, err := NewFile("testdata/champion.json").Characters(context.Background())
	require.NoError(t, err)
	chars[0].Difficulty = nil

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, chars))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "id,name,title,tags,partype,difficulty", lines[0])
	assert.Equal(t, "Aatrox,Aatrox,the Darkin Blade,Fighter; Tank,Blood Well,", lines[1])
	assert.Equal(t, "Ahri,Ahri,the Nine-Tailed Fox,Mage; Assassin,Mana,5", lines[2])

	path := filepath.Join(t.TempDir(), "champions.csv")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
	back, err := NewFile(path).Characters(context.Background())
	require.NoError(t, err)
	if diff := cmp.Diff(chars, back); diff != "" {
		t.Fatalf("csv round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestReadCSVExtraColumns(t *testing.T) {
	in := "Name,Region,ReleaseYear,Tags\nAshe,Freljord,2009,Marksman;Support\n"
	chars, err := ReadCSV("inline", strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, chars, 1)
	assert.Equal(t, "Freljord", chars[0].Region)
	assert.Equal(t, types.FlexString("2009"), chars[0].ReleaseYear)
	assert.Equal(t, []string{"Marksman", "Support"}, chars[0].Tags)
}

func TestReadCSVMalformed(t *testing.T) {
	_, err := ReadCSV("inline", strings.NewReader(""))
	var malformed *MalformedCatalogError
	assert.True(t, errors.As(err, &malformed))

	_, err = ReadCSV("inline", strings.NewReader("title,tags\nthe Nobody,Mage\n"))
	assert.True(t, errors.As(err, &malformed))
}

func ddragonServer(t *testing.T, hits *[]string) *httptest.Server {
	t.Helper()
	body, err := os.ReadFile("testdata/champion.json")
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*hits = append(*hits, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/versions.json":
			_, _ = w.Write([]byte(`["14.1.1", "13.24.1"]`))
		case "/cdn/14.1.1/data/en_US/champion.json", "/cdn/13.14.1/data/en_US/champion.json":
			_, _ = w.Write(body)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestDDragonFetchesPinnedVersion(t *testing.T) {
	var hits []string
	srv := ddragonServer(t, &hits)

	chars, err := NewDDragon(srv.URL, "", "", 0, nil).Characters(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Aatrox", "Ahri", "Akali"}, names(chars))
	assert.Equal(t, []string{"/cdn/13.14.1/data/en_US/champion.json"}, hits)
}

func TestDDragonResolvesLatest(t *testing.T) {
	var hits []string
	srv := ddragonServer(t, &hits)

	_, err := NewDDragon(srv.URL, "latest", "en_US", 0, nil).Characters(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"/api/versions.json", "/cdn/14.1.1/data/en_US/champion.json"}, hits)
}

func TestDDragonHTTPError(t *testing.T) {
	var hits []string
	srv := ddragonServer(t, &hits)

	_, err := NewDDragon(srv.URL, "1.0.0", "en_US", 0, nil).Characters(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestBigQueryRowConversion(t *testing.T) {
	bq, err := NewBigQuery("proj", "lol.champions")
	require.NoError(t, err)
	assert.Contains(t, bq.query(), "FROM `lol.champions`")

	row := bqRow{}
	row.Name.StringVal, row.Name.Valid = "Jinx", true
	row.Tags.StringVal, row.Tags.Valid = "Marksman; ", true
	row.Difficulty.Float64, row.Difficulty.Valid = 6.5, true

	c, err := row.character("lol.champions", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Marksman"}, c.Tags)
	assert.Equal(t, 6.5, *c.Difficulty)

	_, err = bqRow{}.character("lol.champions", 1)
	var malformed *MalformedCatalogError
	assert.True(t, errors.As(err, &malformed))
}

func TestNewBigQueryRejectsBadTable(t *testing.T) {
	_, err := NewBigQuery("proj", "champions; DROP TABLE x")
	assert.Error(t, err)
	_, err = NewBigQuery("", "lol.champions")
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	p, err := Open(config.CatalogConfig{Source: "file", Path: "testdata/champion.json"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &File{}, p)

	p, err = Open(config.CatalogConfig{Source: "DDragon"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &DDragon{}, p)

	_, err = Open(config.CatalogConfig{Source: "file"}, nil)
	assert.Error(t, err)

	_, err = Open(config.CatalogConfig{Source: "s3"}, nil)
	assert.Error(t, err)
}

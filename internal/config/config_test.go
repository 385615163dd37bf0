package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/poi-reconcile/internal/errors"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	assert.Equal(t, "data/poi.csv", cfg.Paths.Table)
	assert.Equal(t, "data/poi.geojson", cfg.Paths.Geometry)
	assert.Equal(t, "data/poi_fixed.csv", cfg.Paths.Output)
	assert.Equal(t, "data/poi.gpx", cfg.Paths.GPX)
	assert.Equal(t, ";", cfg.CSV.Delimiter)
	assert.Equal(t, LineEndingCRLF, cfg.CSV.LineEnding)
	assert.Equal(t, BackupTimestamp, cfg.Geometry.Backup)
	assert.Equal(t, []string{"title", "title_en", "position"}, cfg.Match.Strategies)
	assert.True(t, cfg.ExcelSafe())
	assert.True(t, cfg.ColumnOptions().PositionalFallback)
	assert.Equal(t, []string{"latitude", "lat", "y"}, cfg.Columns.Synonyms.Latitude)
	assert.NoError(t, cfg.Validate())

	b, err := cfg.Bounds()
	require.NoError(t, err)
	assert.Nil(t, b)
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	writeFile(t, filepath.Join(dir, DefaultConfigFile), `
paths:
  table: export/poi.csv
columns:
  synonyms:
    latitude: [breite]
  positional_fallback: false
match:
  excel_safe: false
geometry:
  bbox: "13.28,52.45,13.29,52.46"
`)
	writeFile(t, filepath.Join(dir, ".env"), "POITOOL_PATHS_GEOMETRY=export/poi.geojson\n")
	t.Setenv("POITOOL_MATCH_STRATEGIES", "id, title")
	t.Setenv("POITOOL_GEOMETRY_SWAP_SUSPICIOUS", "true")
	t.Setenv("POITOOL_PATHS_GEOMETRY", "")

	// godotenv only sets variables that are not already present.
	require.NoError(t, os.Unsetenv("POITOOL_PATHS_GEOMETRY"))
	t.Cleanup(func() { _ = os.Unsetenv("POITOOL_PATHS_GEOMETRY") })

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "export/poi.csv", cfg.Paths.Table)
	assert.Equal(t, "export/poi.geojson", cfg.Paths.Geometry)
	assert.Equal(t, []string{"breite"}, cfg.Columns.Synonyms.Latitude)
	assert.Equal(t, []string{"longitude", "lon", "lng", "x"}, cfg.Columns.Synonyms.Longitude)
	assert.False(t, cfg.ColumnOptions().PositionalFallback)
	assert.False(t, cfg.ExcelSafe())
	assert.Equal(t, []string{"id", "title"}, cfg.Match.Strategies)
	assert.True(t, cfg.Geometry.SwapSuspicious)

	b, err := cfg.Bounds()
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.True(t, b.Contains(52.455, 13.285))
}

func TestLoad_WithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "data/poi.csv", cfg.Paths.Table)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := Load("nope.yaml")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestLoad_Invalid(t *testing.T) {
	cases := []struct {
		name  string
		yaml  string
		field string
	}{
		{"line ending", "csv:\n  line_ending: cr\n", "csv.line_ending"},
		{"bom", "csv:\n  bom: sometimes\n", "csv.bom"},
		{"backup", "geometry:\n  backup: move\n", "geometry.backup"},
		{"bbox", "geometry:\n  bbox: \"1,2,3\"\n", "geometry.bbox"},
		{"log format", "logging:\n  format: xml\n", "logging.format"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			t.Chdir(dir)
			path := filepath.Join(dir, "custom.yaml")
			writeFile(t, path, tc.yaml)

			_, err := Load(path)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrInvalidInput))

			var cfgErr *errors.ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tc.field, cfgErr.Field)
		})
	}
}

func TestLoadFile_ParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	writeFile(t, path, "paths: [unclosed")

	_, err := LoadFile(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
}

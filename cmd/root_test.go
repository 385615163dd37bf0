package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs poitool with args in a fresh working directory holding a
// data/poi.csv, and returns stdout.
func execute(t *testing.T, csv string, args ...string) (string, error) {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "data"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data", "poi.csv"), []byte(csv), 0644))
	t.Chdir(dir)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--log-level", "off"}, args...))
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

const testCSV = "ID;latitude;longitude;title\r\n" +
	"1;52,4591;13,2887;Kuhstall\r\n" +
	"2;52.4593;13.2889;Backhaus\r\n" +
	"3;;;Weide\r\n"

func TestGeoJSONCommand(t *testing.T) {
	out, err := execute(t, testCSV, "geojson", "--backup", "none")
	require.NoError(t, err)

	assert.Contains(t, out, "Wrote data/poi.geojson with 2 features")
	assert.Contains(t, out, "Dropped:         1")
	assert.FileExists(t, filepath.Join("data", "poi.geojson"))
}

func TestGPXCommand(t *testing.T) {
	_, err := execute(t, testCSV, "geojson", "--backup", "none")
	require.NoError(t, err)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"--log-level", "off", "gpx"})
	require.NoError(t, rootCmd.Execute())

	assert.Contains(t, out.String(), "Wrote data/poi.gpx with 2 waypoints")
	assert.FileExists(t, filepath.Join("data", "poi.gpx"))
}

func TestValidateCommand_JSON(t *testing.T) {
	out, err := execute(t, testCSV, "validate", "--format", "json")
	require.NoError(t, err)

	var result struct {
		Rows     int `json:"rows"`
		Invalid  int `json:"invalid"`
		Problems []struct {
			ID   string `json:"id"`
			Rule string `json:"rule"`
		} `json:"problems"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 3, result.Rows)
	assert.Equal(t, 1, result.Invalid)
	require.Len(t, result.Problems, 1)
	assert.Equal(t, "3", result.Problems[0].ID)
	assert.Equal(t, "invalid_coordinates", result.Problems[0].Rule)
}

func TestCompareCommand_MissingFile(t *testing.T) {
	_, err := execute(t, testCSV, "compare", "--format", "json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "table file not found: data/data_bak.csv")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, testCSV, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Version:    "+Version)
}

func TestSplitIDs(t *testing.T) {
	assert.Equal(t, []string{"4", "5", "6"}, splitIDs([]string{"4", " 5,6", ""}))
	assert.Nil(t, splitIDs(nil))
}

func TestFormatStrategies(t *testing.T) {
	assert.Equal(t, "-", formatStrategies(nil))
	assert.Equal(t, "position=1, title=3", formatStrategies(map[string]int{"title": 3, "position": 1}))
}

package csvparser

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/poi-reconcile/internal/config"
	"github.com/ginjaninja78/poi-reconcile/internal/errors"
	"github.com/ginjaninja78/poi-reconcile/internal/types"
)

func defaultSettings() config.CSVSettings {
	return config.Defaults().CSV
}

func TestRead(t *testing.T) {
	input := "\ufeffID;latitude;longitude;title\r\n" +
		"1;52,4591;13,2887;Kuhstall\r\n" +
		"2;'52.459.3; 13.2889\r\n" +
		"\r\n" +
		"3;52.4595;13.2891;\"Back;haus\";extra\r\n"

	table, err := Read(strings.NewReader(input), defaultSettings())
	require.NoError(t, err)

	assert.True(t, table.BOM)
	require.Len(t, table.Rows, 4)
	assert.Equal(t, []string{"ID", "latitude", "longitude", "title"}, table.Rows[0])
	assert.Equal(t, []string{"2", "'52.459.3", " 13.2889"}, table.Rows[2])
	assert.Equal(t, []string{"3", "52.4595", "13.2891", "Back;haus", "extra"}, table.Rows[3])
}

func TestRead_LazyQuotes(t *testing.T) {
	table, err := Read(strings.NewReader("ID;title\n1;Der \"alte\" Stall\n"), defaultSettings())
	require.NoError(t, err)
	assert.Equal(t, `Der "alte" Stall`, table.Rows[1][1])
	assert.False(t, table.BOM)
}

func TestRead_Empty(t *testing.T) {
	_, err := Read(strings.NewReader(""), defaultSettings())
	assert.True(t, errors.Is(err, errors.ErrEmptyInput))
}

func TestParse_MissingFile(t *testing.T) {
	_, err := Parse(filepath.Join(t.TempDir(), "poi.csv"), defaultSettings())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
	assert.Contains(t, err.Error(), "table file not found")
}

func TestDelimiter(t *testing.T) {
	assert.Equal(t, ';', Delimiter(""))
	assert.Equal(t, ';', Delimiter("semicolon"))
	assert.Equal(t, ',', Delimiter("comma"))
	assert.Equal(t, '\t', Delimiter("tab"))
	assert.Equal(t, '|', Delimiter("|"))
	assert.Equal(t, '#', Delimiter("#"))
}

func TestEncode(t *testing.T) {
	table := &types.Table{
		Rows: [][]string{
			{"ID", "latitude", "title"},
			{"1", "'52.4591", "Back;haus"},
		},
		BOM: true,
	}

	cases := []struct {
		name     string
		settings config.CSVSettings
		want     string
	}{
		{
			"defaults preserve bom and use crlf",
			defaultSettings(),
			"\ufeffID;latitude;title\r\n1;'52.4591;\"Back;haus\"\r\n",
		},
		{
			"lf without bom",
			config.CSVSettings{Delimiter: ";", LineEnding: config.LineEndingLF, BOM: config.BOMNever},
			"ID;latitude;title\n1;'52.4591;\"Back;haus\"\n",
		},
		{
			"comma delimiter",
			config.CSVSettings{Delimiter: "comma", LineEnding: config.LineEndingLF, BOM: config.BOMNever},
			"ID,latitude,title\n1,'52.4591,Back;haus\n",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, table, tc.settings))
			assert.Equal(t, tc.want, buf.String())
		})
	}
}

func TestEncode_BOMAlways(t *testing.T) {
	var buf bytes.Buffer
	settings := config.CSVSettings{BOM: config.BOMAlways, LineEnding: config.LineEndingLF}
	require.NoError(t, Encode(&buf, &types.Table{Rows: [][]string{{"a"}}}, settings))
	assert.Equal(t, "\ufeffa\n", buf.String())
}

func TestWriteParse_RoundTrip(t *testing.T) {
	input := "\ufeffID;latitude;longitude\r\n1;52,4591;13,2887\r\n2;;\r\n"
	src := filepath.Join(t.TempDir(), "poi.csv")
	require.NoError(t, os.WriteFile(src, []byte(input), 0644))

	table, err := Parse(src, defaultSettings())
	require.NoError(t, err)
	assert.Equal(t, src, table.SourceFile)

	out := filepath.Join(t.TempDir(), "nested", "poi_fixed.csv")
	require.NoError(t, Write(out, table, defaultSettings()))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, input, string(data))
}

package matcher

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/poi-reconcile/internal/columns"
	"github.com/ginjaninja78/poi-reconcile/internal/errors"
	"github.com/ginjaninja78/poi-reconcile/internal/geometry"
	"github.com/ginjaninja78/poi-reconcile/internal/types"
)

const collection = `{"type":"FeatureCollection","features":[
	{"type":"Feature","properties":{"ID":"1","title":"Kuhstall","title_en":"Cow shed"},"geometry":{"type":"Point","coordinates":[13.2887,52.4591]}},
	{"type":"Feature","properties":{"ID":"2","title":"Backhaus","title_en":"Bakehouse"},"geometry":{"type":"Point","coordinates":[null,null]}},
	{"type":"Feature","properties":{"ID":"3","title":"","title_en":""},"geometry":{"type":"Point","coordinates":[13.2891,52.4595]}},
	{"type":"Feature","properties":{"ID":7,"title":"Kräutergarten  Süd","title_en":"Herb garden"},"geometry":{"type":"Point","coordinates":[13.2893,52.4597]}}
]}`

func mustCollection(t *testing.T, doc string) *geometry.FeatureCollection {
	t.Helper()
	fc, err := geometry.Decode(strings.NewReader(doc))
	require.NoError(t, err)
	return fc
}

func mustLayout(t *testing.T, table *types.Table) *columns.Layout {
	t.Helper()
	layout, err := columns.Resolve(table.Rows, columns.DefaultOptions())
	require.NoError(t, err)
	return layout
}

func TestParseStrategies(t *testing.T) {
	got, err := ParseStrategies(" Title, id ,position")
	require.NoError(t, err)
	assert.Equal(t, []string{StrategyTitle, StrategyID, StrategyPosition}, got)

	_, err = ParseStrategies("title,guess")
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))

	_, err = ParseStrategies(" , ")
	assert.Error(t, err)
}

func TestNew_RejectsUnknownStrategy(t *testing.T) {
	_, err := New(mustCollection(t, collection), Options{Strategies: []string{"nearest"}})
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
}

func TestLookup(t *testing.T) {
	m, err := New(mustCollection(t, collection), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 3, m.Indexed())

	cases := []struct {
		name         string
		title        string
		titleEN      string
		id           string
		wantStrategy string
		wantLat      string
	}{
		{"exact title", "Kuhstall", "", "", StrategyTitle, "52.4591"},
		{"title case and whitespace", "  kuhSTALL ", "", "", StrategyTitle, "52.4591"},
		{"title unicode form", "Kräutergarten Süd", "", "", StrategyTitle, "52.4597"},
		{"english title", "Unknown", "cow shed", "", StrategyTitleEN, "52.4591"},
		{"position fallback", "Unknown", "", "3", StrategyPosition, "52.4595"},
		{"title wins over position", "Kuhstall", "", "3", StrategyTitle, "52.4591"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			point, strategy, ok := m.Lookup(tc.title, tc.titleEN, tc.id)
			require.True(t, ok)
			assert.Equal(t, tc.wantStrategy, strategy)
			assert.Equal(t, tc.wantLat, point.Latitude.Text)
		})
	}
}

func TestLookup_NotFound(t *testing.T) {
	m, err := New(mustCollection(t, collection), DefaultOptions())
	require.NoError(t, err)

	for _, tc := range [][3]string{
		{"Backhaus", "Bakehouse", ""}, // feature has null coordinates
		{"", "", "2"},                 // position of a feature without point
		{"", "", "99"},
		{"", "", "abc"},
		{"", "", ""},
	} {
		_, _, ok := m.Lookup(tc[0], tc[1], tc[2])
		assert.False(t, ok, "%v", tc)
	}
}

func TestLookup_ByID(t *testing.T) {
	m, err := New(mustCollection(t, collection), Options{Strategies: []string{StrategyID}})
	require.NoError(t, err)

	point, strategy, ok := m.Lookup("", "", " 7 ")
	require.True(t, ok)
	assert.Equal(t, StrategyID, strategy)
	assert.Equal(t, "13.2893", point.Longitude.Text)

	_, _, ok = m.Lookup("Kuhstall", "", "2")
	assert.False(t, ok)
}

func TestLookup_DuplicateTitleLastWins(t *testing.T) {
	doc := `{"type":"FeatureCollection","features":[
		{"type":"Feature","properties":{"title":"Stall"},"geometry":{"type":"Point","coordinates":[1.5,2.5]}},
		{"type":"Feature","properties":{"title":"stall"},"geometry":{"type":"Point","coordinates":[3.5,4.5]}}
	]}`
	m, err := New(mustCollection(t, doc), DefaultOptions())
	require.NoError(t, err)

	point, _, ok := m.Lookup("Stall", "", "")
	require.True(t, ok)
	assert.Equal(t, "4.5", point.Latitude.Text)
}

func TestMatchAndApply(t *testing.T) {
	table := &types.Table{Rows: [][]string{
		{"ID", "latitude", "longitude", "title", "title_en"},
		{"1", "52.459.1", "13,2887", "Kuhstall", "Cow shed"},
		{"2", "52,4593", "13,2889", "Backhaus", "Bakehouse"},
		{"3", "'52.4595", "'13.2891", "", ""},
		{"ID", "latitude", "longitude", "title", "title_en"},
	}}
	layout := mustLayout(t, table)
	m, err := New(mustCollection(t, collection), DefaultOptions())
	require.NoError(t, err)

	result := m.Match(table, layout)
	assert.Equal(t, 2, result.Replaced)
	assert.Equal(t, 1, result.NotFound)
	assert.Equal(t, 1, result.Changed)
	assert.Equal(t, []int{2}, result.Unmatched)
	assert.Equal(t, 1, result.ByStrategy[StrategyTitle])
	assert.Equal(t, 1, result.ByStrategy[StrategyPosition])

	fixed := Apply(table, layout, result, false)
	assert.Equal(t, []string{"1", "52.4591", "13.2887", "Kuhstall", "Cow shed"}, fixed.Rows[1])
	assert.Equal(t, []string{"2", "52,4593", "13,2889", "Backhaus", "Bakehouse"}, fixed.Rows[2])
	assert.Equal(t, "52.4595", fixed.Rows[3][1])
	assert.Equal(t, "52.459.1", table.Rows[1][1], "input table must not change")

	safe := Apply(table, layout, result, true)
	assert.Equal(t, "'52.4591", safe.Rows[1][1])
	assert.Equal(t, "'13,2889", safe.Rows[2][2], "unmatched rows are prefixed too")
	assert.Equal(t, "'52.4595", safe.Rows[3][1])
	assert.Equal(t, "latitude", safe.Rows[4][1], "header copies are left alone")
}

func TestApply_PadsShortRows(t *testing.T) {
	table := &types.Table{Rows: [][]string{
		{"ID", "title", "latitude", "longitude"},
		{"1", "Kuhstall"},
	}}
	layout := mustLayout(t, table)
	m, err := New(mustCollection(t, collection), DefaultOptions())
	require.NoError(t, err)

	fixed := Apply(table, layout, m.Match(table, layout), true)
	assert.Equal(t, []string{"1", "Kuhstall", "'52.4591", "'13.2887"}, fixed.Rows[1])
}

func TestApply_Idempotent(t *testing.T) {
	table := &types.Table{Rows: [][]string{
		{"ID", "latitude", "longitude", "title"},
		{"1", "52.459.1", "13,2887", "Kuhstall"},
		{"3", "5", "x", "Nothing"},
		{"9", "47,1", "8,2", "Elsewhere"},
	}}
	layout := mustLayout(t, table)
	m, err := New(mustCollection(t, collection), DefaultOptions())
	require.NoError(t, err)

	for _, excelSafe := range []bool{false, true} {
		once := Apply(table, layout, m.Match(table, layout), excelSafe)

		second := m.Match(once, layout)
		assert.Equal(t, 0, second.Changed)

		twice := Apply(once, layout, second, excelSafe)
		assert.Equal(t, once.Rows, twice.Rows)
	}
}

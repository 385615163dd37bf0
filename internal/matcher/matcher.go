// =============================================================================
// POI Reconcile - Record Matcher
// =============================================================================
//
// This module maps table rows to their authoritative geometry features and
// rewrites the row coordinates with the feature's.
//
// MATCHING STRATEGIES (tried in the configured order, first hit wins):
//   title     Row title equals a feature's "title" property.
//   title_en  Row English title equals a feature's "title_en" property.
//   position  Row ID N selects the Nth feature of the geometry file.
//   id        Row ID equals a feature's "ID" property.
//
// Titles are compared after Unicode NFC normalization, whitespace collapsing
// and case folding. When several features share a title, the last one in
// document order wins.
//
// The position strategy assumes that the geometry file lists features in the
// original table order. Nothing verifies this; reordering either file makes
// position matches silently wrong. Result.ByStrategy reports how many rows
// relied on it.
//
// Rows that match nothing keep their values and are counted as not found.
//
// =============================================================================

package matcher

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/ginjaninja78/poi-reconcile/internal/columns"
	"github.com/ginjaninja78/poi-reconcile/internal/coords"
	"github.com/ginjaninja78/poi-reconcile/internal/errors"
	"github.com/ginjaninja78/poi-reconcile/internal/geometry"
	"github.com/ginjaninja78/poi-reconcile/internal/types"
)

// Strategy names.
const (
	StrategyTitle    = "title"
	StrategyTitleEN  = "title_en"
	StrategyPosition = "position"
	StrategyID       = "id"
)

// =============================================================================
// OPTIONS
// =============================================================================

// Options controls how rows are matched to features.
type Options struct {
	// Strategies in priority order.
	Strategies []string

	// Feature property names holding the title, English title and ID.
	// Compared case-insensitively.
	TitleKeys   []string
	TitleENKeys []string
	IDKeys      []string
}

// DefaultOptions returns title, English title and position matching.
func DefaultOptions() Options {
	return Options{
		Strategies:  []string{StrategyTitle, StrategyTitleEN, StrategyPosition},
		TitleKeys:   []string{"title"},
		TitleENKeys: []string{"title_en"},
		IDKeys:      []string{"id"},
	}
}

// ParseStrategies parses a comma-separated strategy list.
func ParseStrategies(s string) ([]string, error) {
	var strategies []string
	for _, part := range strings.Split(s, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		if name == "" {
			continue
		}
		if !isStrategy(name) {
			return nil, fmt.Errorf("%w: unknown match strategy %q (want title, title_en, position or id)", errors.ErrInvalidInput, name)
		}
		strategies = append(strategies, name)
	}
	if len(strategies) == 0 {
		return nil, fmt.Errorf("%w: no match strategy given", errors.ErrInvalidInput)
	}
	return strategies, nil
}

func isStrategy(name string) bool {
	switch name {
	case StrategyTitle, StrategyTitleEN, StrategyPosition, StrategyID:
		return true
	}
	return false
}

// =============================================================================
// MATCHER
// =============================================================================

// Matcher holds the feature indexes built from a geometry file.
type Matcher struct {
	strategies []string
	fold       cases.Caser

	byTitle    map[string]types.Point
	byTitleEN  map[string]types.Point
	byPosition map[int]types.Point
	byID       map[string]types.Point
}

// New indexes the features of a collection.
//
// Features without a usable point are not indexed, but still count for
// positional numbering.
func New(fc *geometry.FeatureCollection, opts Options) (*Matcher, error) {
	defaults := DefaultOptions()
	if len(opts.Strategies) == 0 {
		opts.Strategies = defaults.Strategies
	}
	if len(opts.TitleKeys) == 0 {
		opts.TitleKeys = defaults.TitleKeys
	}
	if len(opts.TitleENKeys) == 0 {
		opts.TitleENKeys = defaults.TitleENKeys
	}
	if len(opts.IDKeys) == 0 {
		opts.IDKeys = defaults.IDKeys
	}
	for _, s := range opts.Strategies {
		if !isStrategy(s) {
			return nil, fmt.Errorf("%w: unknown match strategy %q", errors.ErrInvalidInput, s)
		}
	}

	m := &Matcher{
		strategies: opts.Strategies,
		fold:       cases.Fold(),
		byTitle:    make(map[string]types.Point),
		byTitleEN:  make(map[string]types.Point),
		byPosition: make(map[int]types.Point),
		byID:       make(map[string]types.Point),
	}

	for i, f := range fc.Features {
		point, ok := f.Point()
		if !ok {
			continue
		}
		m.byPosition[i+1] = point

		if title, ok := f.Properties.Lookup(opts.TitleKeys); ok {
			m.byTitle[m.normalizeTitle(title)] = point
		}
		if title, ok := f.Properties.Lookup(opts.TitleENKeys); ok {
			m.byTitleEN[m.normalizeTitle(title)] = point
		}
		if id, ok := f.Properties.Lookup(opts.IDKeys); ok {
			m.byID[strings.TrimSpace(id)] = point
		}
	}

	return m, nil
}

// normalizeTitle makes titles comparable across spreadsheet edits.
func (m *Matcher) normalizeTitle(s string) string {
	s = norm.NFC.String(s)
	return m.fold.String(strings.Join(strings.Fields(s), " "))
}

// Indexed returns the number of features with a usable point.
func (m *Matcher) Indexed() int {
	return len(m.byPosition)
}

// Lookup finds the feature for a row's title, English title and ID.
//
// RETURNS:
//   - The feature's point.
//   - The strategy that matched.
//   - false when no strategy matched.
func (m *Matcher) Lookup(title, titleEN, id string) (types.Point, string, bool) {
	for _, strategy := range m.strategies {
		var (
			point types.Point
			ok    bool
		)
		switch strategy {
		case StrategyTitle:
			if strings.TrimSpace(title) != "" {
				point, ok = m.byTitle[m.normalizeTitle(title)]
			}
		case StrategyTitleEN:
			if strings.TrimSpace(titleEN) != "" {
				point, ok = m.byTitleEN[m.normalizeTitle(titleEN)]
			}
		case StrategyPosition:
			if n, err := strconv.Atoi(strings.TrimSpace(id)); err == nil {
				point, ok = m.byPosition[n]
			}
		case StrategyID:
			if id = strings.TrimSpace(id); id != "" {
				point, ok = m.byID[id]
			}
		}
		if ok {
			return point, strategy, true
		}
	}
	return types.Point{}, "", false
}

// =============================================================================
// MATCHING
// =============================================================================

// Match is a row that was matched to a feature.
type Match struct {
	// Row is the index of the row in the table.
	Row      int
	ID       string
	Strategy string
	Point    types.Point

	// Changed is true when the row's coordinates differ from the feature's.
	Changed bool
}

// Result summarizes matching a table.
type Result struct {
	Replaced int
	NotFound int
	Changed  int

	// ByStrategy counts matches per strategy.
	ByStrategy map[string]int

	Matches []Match

	// Unmatched holds the row indexes that matched nothing.
	Unmatched []int
}

// Match maps every data row of a table to a feature. The table is not
// modified.
func (m *Matcher) Match(table *types.Table, layout *columns.Layout) *Result {
	result := &Result{ByStrategy: make(map[string]int)}

	for _, row := range layout.DataRows(table.Rows) {
		id := table.Cell(row, layout.ID)
		point, strategy, ok := m.Lookup(table.Cell(row, layout.Title), table.Cell(row, layout.TitleEN), id)
		if !ok {
			result.NotFound++
			result.Unmatched = append(result.Unmatched, row)
			continue
		}

		changed := coords.StripExcelMarker(table.Cell(row, layout.Latitude)) != point.Latitude.Text ||
			coords.StripExcelMarker(table.Cell(row, layout.Longitude)) != point.Longitude.Text

		result.Replaced++
		result.ByStrategy[strategy]++
		if changed {
			result.Changed++
		}
		result.Matches = append(result.Matches, Match{
			Row:      row,
			ID:       id,
			Strategy: strategy,
			Point:    point,
			Changed:  changed,
		})
	}

	return result
}

// Apply returns a copy of the table with matched coordinates rewritten.
//
// Coordinates are written with the exact text of the geometry file. When
// excelSafe is set, every non-empty coordinate cell of every data row (matched
// or not) gets an apostrophe prefix.
func Apply(table *types.Table, layout *columns.Layout, result *Result, excelSafe bool) *types.Table {
	fixed := table.Clone()

	for _, match := range result.Matches {
		fixed.SetCell(match.Row, layout.Latitude, match.Point.Latitude.Text)
		fixed.SetCell(match.Row, layout.Longitude, match.Point.Longitude.Text)
	}

	if excelSafe {
		for _, row := range layout.DataRows(fixed.Rows) {
			for _, col := range []int{layout.Latitude, layout.Longitude} {
				if col < len(fixed.Rows[row]) {
					fixed.Rows[row][col] = coords.ExcelSafe(fixed.Rows[row][col])
				}
			}
		}
	}

	return fixed
}

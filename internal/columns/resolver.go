// =============================================================================
// POI Reconcile - Column Resolver
// =============================================================================
//
// This module finds the columns that carry a role (latitude, longitude,
// identifier, title) in a POI table. Exports from spreadsheet applications
// are not always well formed, so resolution is layered:
//
//   1. Header cells are trimmed and stripped of a byte-order mark.
//   2. Placeholder headers ("Column1", "Column2", ...) are replaced by the
//      next row when that row names the coordinate columns, and by the
//      canonical schema otherwise.
//   3. Each role is looked up by its synonym list (case-insensitive, exact).
//      Synonyms are tried in order; the first one present wins.
//   4. When the coordinate columns are still missing, the canonical
//      positions are used (if allowed) or resolution fails.
//
// A copy of the header row inside the data body is a common export artifact;
// Layout.DataRows skips such rows.
//
// =============================================================================

package columns

import (
	"fmt"
	"strings"

	"github.com/ginjaninja78/poi-reconcile/internal/errors"
)

// =============================================================================
// SYNONYMS AND CANONICAL SCHEMA
// =============================================================================

// Synonyms lists the accepted header names for each column role.
type Synonyms struct {
	Latitude  []string `yaml:"latitude"`
	Longitude []string `yaml:"longitude"`
	ID        []string `yaml:"id"`
	Title     []string `yaml:"title"`
	TitleEN   []string `yaml:"title_en"`
}

// DefaultSynonyms returns the synonym lists used when none are configured.
func DefaultSynonyms() Synonyms {
	return Synonyms{
		Latitude:  []string{"latitude", "lat", "y"},
		Longitude: []string{"longitude", "lon", "lng", "x"},
		ID:        []string{"id"},
		Title:     []string{"title"},
		TitleEN:   []string{"title_en"},
	}
}

// CanonicalSchema is the field order of a POI export. It is used as the
// header when a file has no real header row.
func CanonicalSchema() []string {
	return []string{
		"ID", "latitude", "longitude",
		"category", "category_en",
		"subject", "subject_en",
		"title", "title_en",
		"text", "text_en",
		"funfact", "funfact_en",
		"image", "link",
	}
}

// Options controls column resolution.
type Options struct {
	Synonyms Synonyms

	// Canonical is the fallback header. Defaults to CanonicalSchema().
	Canonical []string

	// PositionalFallback uses the canonical latitude/longitude positions when
	// the header does not name them. When false a missing coordinate column
	// is an error.
	PositionalFallback bool
}

// DefaultOptions returns options with the default synonyms and schema.
func DefaultOptions() Options {
	return Options{
		Synonyms:           DefaultSynonyms(),
		Canonical:          CanonicalSchema(),
		PositionalFallback: true,
	}
}

// =============================================================================
// LAYOUT
// =============================================================================

// Layout describes where things are in a table.
// Column indexes are -1 when the role is absent.
type Layout struct {
	// Header is the effective header (cleaned, possibly canonical).
	Header []string

	// HeaderRow is the index of the header row in the table, -1 when the
	// canonical schema stands in for a placeholder header.
	HeaderRow int

	// DataStart is the index of the first data row.
	DataStart int

	Latitude  int
	Longitude int
	ID        int
	Title     int
	TitleEN   int

	// Canonical is true when Header came from the canonical schema.
	Canonical bool

	// Positional is true when the coordinate columns were not found by name.
	Positional bool
}

// Resolve determines the layout of a table from its raw rows.
//
// PARAMETERS:
//   - rows: All rows of the table, header first.
//   - opts: Synonyms, canonical schema and fallback policy.
//
// RETURNS:
//   - The resolved layout.
//   - errors.ErrEmptyInput for a table without rows, or a ColumnError when
//     a coordinate column is missing and positional fallback is disabled.
func Resolve(rows [][]string, opts Options) (*Layout, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("resolve columns: %w", errors.ErrEmptyInput)
	}

	canonical := opts.Canonical
	if len(canonical) == 0 {
		canonical = CanonicalSchema()
	}

	layout := &Layout{
		Header:    CleanHeader(rows[0]),
		HeaderRow: 0,
		DataStart: 1,
	}

	// Spreadsheet exports without a header get "Column1", "Column2", ...
	if isPlaceholderHeader(layout.Header) {
		var candidate []string
		if len(rows) > 1 {
			candidate = CleanHeader(rows[1])
		}
		if candidate != nil &&
			Find(candidate, opts.Synonyms.Latitude) >= 0 &&
			Find(candidate, opts.Synonyms.Longitude) >= 0 {
			layout.Header = candidate
			layout.HeaderRow = 1
			layout.DataStart = 2
		} else {
			layout.Header = append([]string(nil), canonical...)
			layout.HeaderRow = -1
			layout.Canonical = true
		}
	}

	layout.Latitude = Find(layout.Header, opts.Synonyms.Latitude)
	layout.Longitude = Find(layout.Header, opts.Synonyms.Longitude)

	if layout.Latitude < 0 || layout.Longitude < 0 {
		if !opts.PositionalFallback {
			column := "latitude"
			if layout.Latitude >= 0 {
				column = "longitude"
			}
			return nil, errors.NewColumnError(column, layout.Header)
		}
		layout.Latitude, layout.Longitude = canonicalPositions(canonical, opts.Synonyms)
		layout.Positional = true
	}

	layout.ID = Find(layout.Header, opts.Synonyms.ID)
	layout.Title = Find(layout.Header, opts.Synonyms.Title)
	layout.TitleEN = Find(layout.Header, opts.Synonyms.TitleEN)

	return layout, nil
}

// canonicalPositions returns the latitude and longitude indexes of the
// canonical schema, defaulting to the second and third column.
func canonicalPositions(canonical []string, synonyms Synonyms) (int, int) {
	lat := Find(canonical, synonyms.Latitude)
	lon := Find(canonical, synonyms.Longitude)
	if lat < 0 || lon < 0 {
		return 1, 2
	}
	return lat, lon
}

// Find returns the index of the first synonym present in the header.
// Synonyms are tried in order; -1 when none matches.
func Find(header []string, synonyms []string) int {
	for _, name := range synonyms {
		for i, h := range header {
			if strings.EqualFold(strings.TrimSpace(h), strings.TrimSpace(name)) {
				return i
			}
		}
	}
	return -1
}

// CleanHeader trims header cells and removes a UTF-8 byte-order mark.
func CleanHeader(row []string) []string {
	cleaned := make([]string, len(row))
	for i, h := range row {
		cleaned[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	return cleaned
}

func isPlaceholderHeader(header []string) bool {
	for _, h := range header {
		if strings.HasPrefix(strings.ToLower(h), "column") {
			return true
		}
	}
	return false
}

// =============================================================================
// ROW HELPERS
// =============================================================================

// IsHeaderRow reports whether a data row repeats the header.
// Cells are compared trimmed and case-insensitively; a row with extra
// non-empty cells is not a header copy.
func (l *Layout) IsHeaderRow(row []string) bool {
	n := len(l.Header)
	if len(row) > n {
		n = len(row)
	}
	for i := 0; i < n; i++ {
		var cell, head string
		if i < len(row) {
			cell = strings.TrimSpace(row[i])
		}
		if i < len(l.Header) {
			head = strings.TrimSpace(l.Header[i])
		}
		if !strings.EqualFold(cell, head) {
			return false
		}
	}
	return true
}

// DataRows returns the indexes of the data rows, skipping header copies.
func (l *Layout) DataRows(rows [][]string) []int {
	indexes := make([]int, 0, len(rows))
	for i := l.DataStart; i < len(rows); i++ {
		if l.IsHeaderRow(rows[i]) {
			continue
		}
		indexes = append(indexes, i)
	}
	return indexes
}

// PropertyNames returns the header with empty names replaced by "colN".
func (l *Layout) PropertyNames() []string {
	names := make([]string, len(l.Header))
	for i, h := range l.Header {
		if h == "" {
			h = fmt.Sprintf("col%d", i+1)
		}
		names[i] = h
	}
	return names
}

// HeaderName returns the header of a column, or "" when it is out of range.
func (l *Layout) HeaderName(col int) string {
	if col < 0 || col >= len(l.Header) {
		return ""
	}
	return l.Header[col]
}

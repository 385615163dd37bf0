// =============================================================================
// POI Reconcile - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - csvparser / xlsxparser (reading and writing tables)
//   - columns (header resolution)
//   - geometry (building features from rows)
//   - matcher (rewriting coordinates into rows)
//   - converter (pipelines)
//
// =============================================================================

package types

import "strings"

// =============================================================================
// TABLE TYPES
// =============================================================================

// Table is a tabular POI file held entirely in memory.
//
// Rows are kept raw (header row included) so that a table can be written back
// with exactly the same layout it was read with. Column roles (latitude,
// longitude, ...) are resolved separately by the columns package.
type Table struct {
	// Rows contains every non-empty row of the file, header row first.
	Rows [][]string

	// SourceFile is the path the table was read from.
	SourceFile string

	// BOM is true when the source file started with a UTF-8 byte-order mark.
	// Writers reproduce it so spreadsheet applications keep detecting UTF-8.
	BOM bool

	// Sheet is the worksheet name for workbook sources. Empty for CSV.
	Sheet string
}

// Cell returns the trimmed value at (row, col), or "" when the row is too short.
func (t *Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) || col < 0 || col >= len(t.Rows[row]) {
		return ""
	}
	return strings.TrimSpace(t.Rows[row][col])
}

// SetCell assigns a value, padding the row with empty cells when needed.
func (t *Table) SetCell(row, col int, value string) {
	for len(t.Rows[row]) <= col {
		t.Rows[row] = append(t.Rows[row], "")
	}
	t.Rows[row][col] = value
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	rows := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		rows[i] = append([]string(nil), row...)
	}
	return &Table{Rows: rows, SourceFile: t.SourceFile, BOM: t.BOM, Sheet: t.Sheet}
}

// =============================================================================
// COORDINATE TYPES
// =============================================================================

// Coordinate is a single normalized coordinate value.
type Coordinate struct {
	// Value is the parsed decimal degree value.
	Value float64

	// Text is the exact textual form of the value in its source document.
	// Rewriting a table with Text instead of a re-formatted Value keeps the
	// rewrite lossless.
	Text string
}

// Point is a longitude/latitude pair.
type Point struct {
	Longitude Coordinate
	Latitude  Coordinate
}

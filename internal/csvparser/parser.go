// =============================================================================
// POI Reconcile - CSV Parser Module
// =============================================================================
//
// This module reads and writes the tabular POI file. Spreadsheet applications
// produce it with a few quirks that have to survive a read/write cycle:
//   - Semicolon delimiter (configurable)
//   - Optional UTF-8 byte-order mark
//   - Rows with fewer or more cells than the header
//   - Stray quotes inside unquoted cells
//
// Rows are kept exactly as read (no trimming, no header handling); the
// columns package decides which row is the header and where data starts.
// Writing a table that was read without changes reproduces the file, apart
// from quoting normalization and the configured line ending.
//
// =============================================================================

package csvparser

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ginjaninja78/poi-reconcile/internal/config"
	"github.com/ginjaninja78/poi-reconcile/internal/errors"
	"github.com/ginjaninja78/poi-reconcile/internal/types"
)

// utf8BOM is the UTF-8 encoded byte-order mark.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads a CSV file into a table.
//
// PARAMETERS:
//   - filePath: The path to the CSV file.
//   - settings: Delimiter and related settings.
//
// RETURNS:
//   - The table with every row of the file, header included.
//   - A FileNotFoundError if the file does not exist, errors.ErrEmptyInput if
//     it has no rows, or a wrapped read error.
func Parse(filePath string, settings config.CSVSettings) (*types.Table, error) {
	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewFileNotFoundError("table", filePath)
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	table, err := Read(file, settings)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filePath, err)
	}
	table.SourceFile = filePath

	return table, nil
}

// Read parses CSV data from a reader.
func Read(r io.Reader, settings config.CSVSettings) (*types.Table, error) {
	reader := bufio.NewReader(r)

	table := &types.Table{}

	// A BOM is remembered so writers can reproduce it.
	if head, err := reader.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		table.BOM = true
		if _, err := reader.Discard(len(utf8BOM)); err != nil {
			return nil, err
		}
	}

	csvReader := csv.NewReader(reader)
	configureReader(csvReader, settings)

	allRows, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	if len(allRows) == 0 {
		return nil, fmt.Errorf("CSV file has no rows: %w", errors.ErrEmptyInput)
	}

	table.Rows = allRows
	return table, nil
}

// configureReader configures the CSV reader based on the settings.
func configureReader(reader *csv.Reader, settings config.CSVSettings) {
	reader.Comma = Delimiter(settings.Delimiter)

	// Allow variable number of fields per row.
	// Spreadsheet exports drop trailing empty cells.
	reader.FieldsPerRecord = -1

	// Allow lazy quotes (quotes that don't follow strict CSV rules).
	reader.LazyQuotes = true

	// Leading spaces are kept so a rewrite does not alter untouched cells.
	reader.TrimLeadingSpace = false
}

// Delimiter resolves a configured delimiter name to its rune.
// Semicolon is the default.
func Delimiter(name string) rune {
	switch name {
	case "\\t", "tab", "TAB":
		return '\t'
	case "|", "pipe", "PIPE":
		return '|'
	case ",", "comma", "COMMA":
		return ','
	case "", ";", "semicolon", "SEMICOLON":
		return ';'
	default:
		return []rune(name)[0]
	}
}

// =============================================================================
// WRITER FUNCTIONS
// =============================================================================

// Write saves a table as CSV, creating the parent directory if needed.
//
// PARAMETERS:
//   - filePath: The output path.
//   - table: The table to write. Rows are written as they are.
//   - settings: Delimiter, line ending and BOM policy.
//
// RETURNS:
//   - An error if the file cannot be written.
func Write(filePath string, table *types.Table, settings config.CSVSettings) error {
	if dir := filepath.Dir(filePath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	if err := Encode(writer, table, settings); err != nil {
		return err
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to write %s: %w", filePath, err)
	}

	return file.Close()
}

// Encode writes a table as CSV data.
func Encode(w io.Writer, table *types.Table, settings config.CSVSettings) error {
	if writeBOM(table, settings) {
		if _, err := w.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = Delimiter(settings.Delimiter)
	csvWriter.UseCRLF = !strings.EqualFold(settings.LineEnding, config.LineEndingLF)

	if err := csvWriter.WriteAll(table.Rows); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}

func writeBOM(table *types.Table, settings config.CSVSettings) bool {
	switch strings.ToLower(settings.BOM) {
	case config.BOMAlways:
		return true
	case config.BOMNever:
		return false
	default:
		return table.BOM
	}
}

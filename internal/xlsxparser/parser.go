// =============================================================================
// POI Reconcile - XLSX Table Module
// =============================================================================
//
// This module reads and writes POI tables stored as Excel workbooks. Editors
// often keep the table as a workbook and export the CSV from it, so the fix
// command can rewrite the workbook directly.
//
// READING:
//   - One sheet (the configured one, or the first).
//   - Raw cell values, not the displayed ones: a number cell formatted with a
//     locale number format still yields its stored value.
//   - Fully empty rows are skipped, like blank lines in a CSV file.
//
// WRITING:
//   - Every cell is written as a string cell. Spreadsheet applications do not
//     reinterpret string cells, so no apostrophe prefix is needed.
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/poi-reconcile/internal/config"
	"github.com/ginjaninja78/poi-reconcile/internal/errors"
	"github.com/ginjaninja78/poi-reconcile/internal/types"
)

// DefaultSheet names the sheet of a newly written workbook.
const DefaultSheet = "POI"

// IsWorkbook reports whether a path names an Excel workbook.
func IsWorkbook(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return true
	}
	return false
}

// =============================================================================
// READING
// =============================================================================

// Parse reads one sheet of a workbook into a table.
//
// PARAMETERS:
//   - path: The path to the workbook.
//   - settings: The sheet to read; empty means the first sheet.
//
// RETURNS:
//   - The table with every non-empty row of the sheet, header included.
//   - A FileNotFoundError if the file does not exist, errors.ErrEmptyInput if
//     the sheet has no rows.
func Parse(path string, settings config.WorkbookSettings) (*types.Table, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, errors.NewFileNotFoundError("table", path)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheetName := settings.Sheet
	if sheetName == "" {
		sheetName = f.GetSheetName(0)
	}
	if sheetName == "" {
		return nil, fmt.Errorf("workbook %s has no sheets: %w", path, errors.ErrEmptyInput)
	}

	index, err := f.GetSheetIndex(sheetName)
	if err != nil || index < 0 {
		return nil, fmt.Errorf("%w: sheet %q not found in %s", errors.ErrInvalidInput, sheetName, path)
	}

	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	table := &types.Table{
		Rows:       make([][]string, 0, len(rows)),
		SourceFile: path,
		Sheet:      sheetName,
	}
	for _, row := range rows {
		if isRowEmpty(row) {
			continue
		}
		table.Rows = append(table.Rows, row)
	}

	if len(table.Rows) == 0 {
		return nil, fmt.Errorf("sheet %q of %s has no rows: %w", sheetName, path, errors.ErrEmptyInput)
	}

	return table, nil
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// =============================================================================
// WRITING
// =============================================================================

// Write saves a table as a single-sheet workbook.
// The sheet keeps the name the table was read from.
func Write(path string, table *types.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := table.Sheet
	if sheetName == "" {
		sheetName = DefaultSheet
	}
	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	for r, row := range table.Rows {
		for c, value := range row {
			if value == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return fmt.Errorf("row %d, column %d: %w", r+1, c+1, err)
			}
			if err := f.SetCellStr(sheetName, cell, value); err != nil {
				return fmt.Errorf("failed to write cell %s: %w", cell, err)
			}
		}
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// =============================================================================
// POI Reconcile - Coordinate Validation
// =============================================================================
//
// This module checks the coordinate cells of a POI table. It is shared by the
// geometry builder (which drops rows that fail) and the validate command
// (which only reports them).
//
// CHECKS (applied in order, per row):
//   1. Both cells normalize to a finite number. Otherwise the row fails with
//      "Missing/invalid coordinates".
//   2. Optionally, a pair that looks swapped (|lat| <= 35 and |lon| >= 35) is
//      swapped back. This is reported as a warning, not a failure.
//   3. Optionally, the point lies inside the configured region (a bounding
//      box or a boundary polygon). Otherwise the row fails with
//      "Coordinates outside bounds".
//
// ERROR HANDLING:
//   - Problems are collected, never returned as Go errors.
//   - Each problem carries the row number (header = row 1), the row ID and
//     the offending value.
//
// =============================================================================

package validation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ginjaninja78/poi-reconcile/internal/columns"
	"github.com/ginjaninja78/poi-reconcile/internal/coords"
	"github.com/ginjaninja78/poi-reconcile/internal/types"
)

// Severity levels.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Rules that a row can violate.
const (
	RuleInvalidCoordinates = "invalid_coordinates"
	RuleOutOfBounds        = "out_of_bounds"
	RuleSwapped            = "swapped"
)

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

// ValidationError represents a single problem found in a row.
type ValidationError struct {
	// Severity is "error" when the row is unusable and "warning" when it was
	// repaired.
	Severity string `json:"severity" yaml:"severity"`

	// Field is the column the problem was found in.
	Field string `json:"field" yaml:"field"`

	// Value is the raw cell value.
	Value string `json:"value" yaml:"value"`

	// Rule is the check that was violated.
	Rule string `json:"rule" yaml:"rule"`

	// Message is a human-readable description.
	Message string `json:"message" yaml:"message"`

	// ID is the row's identifier, if the table has one.
	ID string `json:"id" yaml:"id"`

	// RowNumber is the 1-based row number in the table; the header is row 1.
	RowNumber int `json:"row" yaml:"row"`
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	id := e.ID
	if id == "" {
		id = "-"
	}
	return fmt.Sprintf("[%s] Row %d, ID %s, Field '%s': %s (value: '%s')",
		strings.ToUpper(e.Severity),
		e.RowNumber,
		id,
		e.Field,
		e.Message,
		e.Value,
	)
}

// =============================================================================
// VALIDATION RESULT
// =============================================================================

// ValidationResult contains the results of validating a table.
type ValidationResult struct {
	// IsValid is true if no row failed.
	IsValid bool

	// Errors contains all problems, warnings included.
	Errors []*ValidationError

	// ErrorCount is the number of rows that failed.
	ErrorCount int

	// WarningCount is the number of repaired rows.
	WarningCount int

	// RowsValidated is the number of data rows checked.
	RowsValidated int

	// ValidRows is the number of rows that passed.
	ValidRows int
}

// RowResult is the outcome of checking one row.
type RowResult struct {
	Latitude  float64
	Longitude float64

	// Valid is true when the row has usable coordinates.
	Valid bool

	// Swapped is true when latitude and longitude were exchanged.
	Swapped bool

	Problems []*ValidationError
}

// =============================================================================
// VALIDATOR
// =============================================================================

// Region is an area a point must lie in.
// coords.Bounds and geometry.Boundary implement it.
type Region interface {
	Contains(lat, lon float64) bool
}

// ValidationOptions contains options for validation.
type ValidationOptions struct {
	// SwapSuspicious swaps pairs that look like latitude and longitude were
	// entered in each other's column.
	// Default: false
	SwapSuspicious bool

	// Region, when set, rejects points outside of it.
	// Default: nil
	Region Region
}

// Validator checks coordinate rows.
type Validator struct {
	options ValidationOptions
}

// DefaultValidationOptions returns the default validation options.
func DefaultValidationOptions() ValidationOptions {
	return ValidationOptions{}
}

// NewValidator creates a new Validator instance.
func NewValidator(options ValidationOptions) *Validator {
	return &Validator{options: options}
}

// CheckRow checks one pair of raw coordinate cells.
//
// PARAMETERS:
//   - rowNumber: The 1-based row number used in reports.
//   - id: The row identifier used in reports. May be empty.
//   - latRaw, lonRaw: The raw latitude and longitude cells.
//
// RETURNS:
//   - The normalized (and possibly swapped) coordinates with any problems.
func (v *Validator) CheckRow(rowNumber int, id, latRaw, lonRaw string) *RowResult {
	result := &RowResult{}

	lat, latOK := coords.Normalize(latRaw)
	lon, lonOK := coords.Normalize(lonRaw)
	if !latOK || !lonOK {
		field, value := "latitude", latRaw
		if latOK {
			field, value = "longitude", lonRaw
		}
		result.Problems = append(result.Problems, &ValidationError{
			Severity:  SeverityError,
			Field:     field,
			Value:     value,
			Rule:      RuleInvalidCoordinates,
			Message:   "Missing/invalid coordinates",
			ID:        id,
			RowNumber: rowNumber,
		})
		return result
	}

	if v.options.SwapSuspicious && coords.LooksSwapped(lat, lon) {
		lat, lon = lon, lat
		result.Swapped = true
		result.Problems = append(result.Problems, &ValidationError{
			Severity:  SeverityWarning,
			Field:     "latitude",
			Value:     latRaw,
			Rule:      RuleSwapped,
			Message:   "Latitude and longitude look swapped; exchanged",
			ID:        id,
			RowNumber: rowNumber,
		})
	}

	if v.options.Region != nil && !v.options.Region.Contains(lat, lon) {
		result.Problems = append(result.Problems, &ValidationError{
			Severity:  SeverityError,
			Field:     "coordinates",
			Value:     coords.Format(lat) + "," + coords.Format(lon),
			Rule:      RuleOutOfBounds,
			Message:   "Coordinates outside bounds",
			ID:        id,
			RowNumber: rowNumber,
		})
		return result
	}

	result.Latitude = lat
	result.Longitude = lon
	result.Valid = true
	return result
}

// =============================================================================
// MAIN VALIDATION FUNCTION
// =============================================================================

// Validate checks every data row of a table and returns a detailed result.
func Validate(table *types.Table, layout *columns.Layout, options ValidationOptions) *ValidationResult {
	return NewValidator(options).ValidateTable(table, layout)
}

// ValidateTable checks every data row of a table.
// Duplicated header rows are skipped.
func (v *Validator) ValidateTable(table *types.Table, layout *columns.Layout) *ValidationResult {
	result := &ValidationResult{
		IsValid: true,
		Errors:  make([]*ValidationError, 0),
	}

	for _, row := range layout.DataRows(table.Rows) {
		result.RowsValidated++

		check := v.CheckRow(row+1, table.Cell(row, layout.ID),
			table.Cell(row, layout.Latitude), table.Cell(row, layout.Longitude))
		result.Errors = append(result.Errors, check.Problems...)

		if check.Valid {
			result.ValidRows++
		} else {
			result.ErrorCount++
			result.IsValid = false
		}
		if check.Swapped {
			result.WarningCount++
		}
	}

	return result
}

// =============================================================================
// ERROR FORMATTING
// =============================================================================

// FormatErrors formats validation errors for display or logging.
//
// PARAMETERS:
//   - errors: The validation errors to format.
//
// RETURNS:
//   - A formatted string containing all errors.
func FormatErrors(errors []*ValidationError) string {
	if len(errors) == 0 {
		return "No validation errors."
	}

	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("Validation completed with %d problem(s):\n\n", len(errors)))

	for i, err := range errors {
		builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, err.Error()))
	}

	return builder.String()
}

// WriteErrorLog writes validation errors to a log file.
//
// PARAMETERS:
//   - errors: The validation errors to write.
//   - filePath: The path to the output file.
//   - source: The validated file, named in the log header.
//
// RETURNS:
//   - An error if writing fails.
func WriteErrorLog(errors []*ValidationError, filePath, source string) error {
	if dir := filepath.Dir(filePath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("Validation log for %s\n", source))
	builder.WriteString(fmt.Sprintf("Generated: %s\n\n", time.Now().Format(time.RFC3339)))
	builder.WriteString(FormatErrors(errors))

	if err := os.WriteFile(filePath, []byte(builder.String()), 0644); err != nil {
		return fmt.Errorf("failed to write validation log: %w", err)
	}
	return nil
}

package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/poi-reconcile/internal/columns"
	"github.com/ginjaninja78/poi-reconcile/internal/coords"
	"github.com/ginjaninja78/poi-reconcile/internal/types"
)

func TestCheckRow(t *testing.T) {
	bounds, err := coords.ParseBounds("13,52,14,53")
	require.NoError(t, err)

	cases := []struct {
		name        string
		options     ValidationOptions
		lat, lon    string
		wantValid   bool
		wantSwapped bool
		wantRule    string
		wantField   string
	}{
		{"valid", DefaultValidationOptions(), "52,45", "13,28", true, false, "", ""},
		{"missing latitude", DefaultValidationOptions(), "", "13,28", false, false, RuleInvalidCoordinates, "latitude"},
		{"garbage longitude", DefaultValidationOptions(), "52,45", "abc", false, false, RuleInvalidCoordinates, "longitude"},
		{"swap disabled", DefaultValidationOptions(), "13.28", "52.45", true, false, "", ""},
		{"swap enabled", ValidationOptions{SwapSuspicious: true}, "13.28", "52.45", true, true, RuleSwapped, "latitude"},
		{"inside bounds", ValidationOptions{Region: bounds}, "52.5", "13.5", true, false, "", ""},
		{"outside bounds", ValidationOptions{Region: bounds}, "48.1", "11.5", false, false, RuleOutOfBounds, "coordinates"},
		{"swapped into bounds", ValidationOptions{SwapSuspicious: true, Region: bounds}, "13.5", "52.5", true, true, RuleSwapped, "latitude"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := NewValidator(tc.options).CheckRow(7, "42", tc.lat, tc.lon)

			assert.Equal(t, tc.wantValid, result.Valid)
			assert.Equal(t, tc.wantSwapped, result.Swapped)
			if tc.wantRule == "" {
				assert.Empty(t, result.Problems)
				return
			}
			require.Len(t, result.Problems, 1)
			assert.Equal(t, tc.wantRule, result.Problems[0].Rule)
			assert.Equal(t, tc.wantField, result.Problems[0].Field)
			assert.Equal(t, 7, result.Problems[0].RowNumber)
			assert.Equal(t, "42", result.Problems[0].ID)
		})
	}
}

func TestCheckRow_SwapsValues(t *testing.T) {
	result := NewValidator(ValidationOptions{SwapSuspicious: true}).CheckRow(2, "", "13,28", "52,45")
	require.True(t, result.Valid)
	assert.InDelta(t, 52.45, result.Latitude, 1e-9)
	assert.InDelta(t, 13.28, result.Longitude, 1e-9)
}

func TestValidate_Table(t *testing.T) {
	table := &types.Table{Rows: [][]string{
		{"ID", "latitude", "longitude"},
		{"1", "52,45", "13,28"},
		{"2", "x", "13,28"},
		{"ID", "latitude", "longitude"},
		{"3", "13,28", "52,45"},
	}}
	layout, err := columns.Resolve(table.Rows, columns.DefaultOptions())
	require.NoError(t, err)

	result := Validate(table, layout, ValidationOptions{SwapSuspicious: true})

	assert.False(t, result.IsValid)
	assert.Equal(t, 3, result.RowsValidated)
	assert.Equal(t, 2, result.ValidRows)
	assert.Equal(t, 1, result.ErrorCount)
	assert.Equal(t, 1, result.WarningCount)
	require.Len(t, result.Errors, 2)
	assert.Equal(t, 3, result.Errors[0].RowNumber)
	assert.Equal(t, 5, result.Errors[1].RowNumber)
}

func TestFormatErrors(t *testing.T) {
	assert.Equal(t, "No validation errors.", FormatErrors(nil))

	out := FormatErrors([]*ValidationError{{
		Severity:  SeverityError,
		Field:     "latitude",
		Value:     "x",
		Rule:      RuleInvalidCoordinates,
		Message:   "Missing/invalid coordinates",
		RowNumber: 3,
	}})
	assert.Contains(t, out, "1 problem(s)")
	assert.Contains(t, out, "1. [ERROR] Row 3, ID -, Field 'latitude': Missing/invalid coordinates (value: 'x')")
}

func TestWriteErrorLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "validation.log")
	errs := []*ValidationError{{Severity: SeverityWarning, Field: "latitude", Message: "swapped", RowNumber: 2}}

	require.NoError(t, WriteErrorLog(errs, path, "data/poi.csv"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Validation log for data/poi.csv")
	assert.Contains(t, string(data), "[WARNING] Row 2")
}

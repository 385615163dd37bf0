// =============================================================================
// POI Reconcile - Coordinate Token Normalizer
// =============================================================================
//
// This module turns raw coordinate tokens, as found in spreadsheet-edited
// tables, back into decimal degrees. Spreadsheet applications running with a
// non-English locale reinterpret decimal and thousands separators when a file
// is opened and saved again, so the same latitude can show up as:
//
//   52.4591     (original)
//   52,4591     (comma decimal separator)
//   '52.4591    (apostrophe text marker)
//   52.459.1    (dots read as thousands separators)
//   524.591     (a single misplaced dot)
//
// NORMALIZATION RULES (applied in order):
//   1. Trim, drop apostrophes and whitespace.
//   2. "." and "," both present: "." is a thousands separator, "," the decimal.
//   3. Only ",": "," is the decimal separator.
//   4. More than one ".": collapse the dots and put a single decimal point
//      after the first two characters (degree values are two digits wide).
//   5. Keep only digits, ".", "-", "+", "e", "E".
//   6. Parse; on failure keep the digits only and, when more than two remain,
//      put a decimal point after the first two.
//   7. Otherwise the token is invalid.
//
// This is a best-effort lossy recovery, not a parser. "12.345" is returned as
// 12.345 even if it started out as 12345; the geometry file is the source of
// truth whenever the two disagree.
//
// =============================================================================

package coords

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// degreeDigits is the number of integer digits reinserted in front of the
// decimal point by the reconstruction heuristics.
const degreeDigits = 2

// =============================================================================
// NORMALIZATION
// =============================================================================

// Normalize converts a raw coordinate token to decimal degrees.
//
// PARAMETERS:
//   - token: The raw cell value.
//
// RETURNS:
//   - The parsed value.
//   - false if the token is empty or cannot be recovered.
//
// EXAMPLES:
//   "46,123"     -> 46.123
//   "1.234,56"   -> 1234.56
//   "7.123.456"  -> 71.23456
//   "'52.4591"   -> 52.4591
//   ""           -> invalid
func Normalize(token string) (float64, bool) {
	s := strings.Map(func(r rune) rune {
		if r == '\'' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, strings.TrimSpace(token))
	if s == "" {
		return 0, false
	}

	hasDot := strings.Contains(s, ".")
	hasComma := strings.Contains(s, ",")

	switch {
	case hasDot && hasComma:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	case hasComma:
		s = strings.ReplaceAll(s, ",", ".")
	case strings.Count(s, ".") > 1:
		s = insertDegreePoint(strings.ReplaceAll(s, ".", ""))
	}

	s = strings.Map(keepNumeric, s)

	if v, err := strconv.ParseFloat(s, 64); err == nil && isFinite(v) {
		return v, true
	}

	digits := strings.Map(keepDigit, s)
	if len(digits) <= degreeDigits {
		return 0, false
	}

	v, err := strconv.ParseFloat(insertDegreePoint(digits), 64)
	if err != nil || !isFinite(v) {
		return 0, false
	}
	return v, true
}

// NormalizeCell is Normalize for an optional cell; nil is invalid.
func NormalizeCell(cell *string) (float64, bool) {
	if cell == nil {
		return 0, false
	}
	return Normalize(*cell)
}

// insertDegreePoint puts a decimal point after the first two characters.
// Shorter values are returned unchanged.
func insertDegreePoint(s string) string {
	if len(s) <= degreeDigits {
		return s
	}
	return s[:degreeDigits] + "." + s[degreeDigits:]
}

func keepNumeric(r rune) rune {
	switch {
	case r >= '0' && r <= '9':
		return r
	case r == '.', r == '-', r == '+', r == 'e', r == 'E':
		return r
	default:
		return -1
	}
}

func keepDigit(r rune) rune {
	if r >= '0' && r <= '9' {
		return r
	}
	return -1
}

func isFinite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}

// =============================================================================
// FORMATTING
// =============================================================================

// Format renders a coordinate with the fewest digits that round-trip.
func Format(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ExcelSafe prefixes a value with an apostrophe so spreadsheet applications
// import it as text. Empty values and values already prefixed are unchanged.
func ExcelSafe(value string) string {
	if value == "" || strings.HasPrefix(value, "'") {
		return value
	}
	return "'" + value
}

// StripExcelMarker removes surrounding whitespace and a leading apostrophe.
func StripExcelMarker(value string) string {
	return strings.TrimPrefix(strings.TrimSpace(value), "'")
}

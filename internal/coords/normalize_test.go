package coords

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name  string
		token string
		want  float64
	}{
		{"plain decimal", "52.4591", 52.4591},
		{"comma decimal", "46,123", 46.123},
		{"surrounding whitespace", "  13,2887 ", 13.2887},
		{"apostrophe marker", "'52.4591", 52.4591},
		{"apostrophe and comma", "'13,2887", 13.2887},
		{"thousands dot and decimal comma", "1.234,56", 1234.56},
		{"degenerate dots", "7.123.456", 71.23456},
		{"degenerate dots latitude", "52.459.123", 52.459123},
		{"degenerate dots negative", "-7.123.456", -7.123456},
		{"internal spaces", "52. 4591", 52.4591},
		{"non breaking space", "13,\u00a02887", 13.2887},
		{"stray letters", "N52.45", 52.45},
		{"integer", "13", 13},
		{"negative", "-0,5", -0.5},
		{"explicit plus", "+52.1", 52.1},
		{"exponent", "5.24591e1", 52.4591},
		{"repeated commas fall back to digits", "1,234,5", 12.345},
		{"overflow falls back to digits", "1e999", 19.99},
		{"unparsable suffix falls back to digits", "52.45E", 52.45},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Normalize(tc.token)
			require.True(t, ok, "Normalize(%q) reported invalid", tc.token)
			assert.InDelta(t, tc.want, got, 1e-9)
		})
	}
}

func TestNormalize_DegenerateDotsIsNotSingleDigitDegree(t *testing.T) {
	got, ok := Normalize("7.123.456")
	require.True(t, ok)
	assert.NotEqual(t, 7.123456, got)
}

func TestNormalize_Invalid(t *testing.T) {
	cases := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"whitespace", "   "},
		{"only apostrophe", "'"},
		{"no digits", "abc"},
		{"only sign", "-"},
		{"too few digits after cleanup", "1-2"},
		{"dots only", "..."},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, ok := Normalize(tc.token)
			assert.False(t, ok, "Normalize(%q) should be invalid", tc.token)
		})
	}
}

func TestNormalizeCell(t *testing.T) {
	_, ok := NormalizeCell(nil)
	assert.False(t, ok)

	v := "52,5"
	got, ok := NormalizeCell(&v)
	require.True(t, ok)
	assert.InDelta(t, 52.5, got, 1e-9)
}

func TestNormalize_FixedPoint(t *testing.T) {
	// Formatting a normalized value and normalizing it again is stable.
	for _, token := range []string{"52,4591", "13.2887", "7.123.456", "'1.234,56"} {
		v, ok := Normalize(token)
		require.True(t, ok)

		again, ok := Normalize(Format(v))
		require.True(t, ok)
		assert.Equal(t, v, again, token)
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "52.4591", Format(52.4591))
	assert.Equal(t, "13", Format(13))
	assert.Equal(t, "-0.5", Format(-0.5))
}

func TestExcelSafe(t *testing.T) {
	assert.Equal(t, "'52.4591", ExcelSafe("52.4591"))
	assert.Equal(t, "'52.4591", ExcelSafe("'52.4591"))
	assert.Equal(t, "", ExcelSafe(""))
	assert.Equal(t, "52.4591", StripExcelMarker(" '52.4591 "))
}

func TestParseBounds(t *testing.T) {
	b, err := ParseBounds("13.2877241, 52.4581727, 13.2898741, 52.4601029")
	require.NoError(t, err)
	assert.True(t, b.Contains(52.459, 13.288))
	assert.False(t, b.Contains(13.288, 52.459))
	assert.Equal(t, "13.2877241,52.4581727,13.2898741,52.4601029", b.String())

	for _, bad := range []string{"", "1,2,3", "a,b,c,d", "2,2,1,3", "1,3,2,3"} {
		_, err := ParseBounds(bad)
		assert.Error(t, err, bad)
	}
}

func TestLooksSwapped(t *testing.T) {
	assert.True(t, LooksSwapped(13.28, 52.45))
	assert.False(t, LooksSwapped(52.45, 13.28))
	assert.False(t, LooksSwapped(40, 40))
}

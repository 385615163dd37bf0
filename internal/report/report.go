// =============================================================================
// poitool - Report Formatting
// =============================================================================
//
// This package renders command results (diff rows, compare rows, validation
// problems) to stdout in one of three formats:
//   - table : aligned columns for a terminal (tablewriter)
//   - json  : indented JSON for pipes and scripts
//   - yaml  : YAML for humans who want structure
//
// When no format is requested, a terminal gets a table and everything else
// gets JSON.
//
// =============================================================================

package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"

	"github.com/ginjaninja78/poi-reconcile/internal/errors"
)

// Format is an output format name.
type Format string

const (
	// FormatTable renders aligned columns.
	FormatTable Format = "table"

	// FormatJSON renders indented JSON.
	FormatJSON Format = "json"

	// FormatYAML renders YAML.
	FormatYAML Format = "yaml"
)

// =============================================================================
// TABLE DATA
// =============================================================================

// Data is a result already laid out as rows and columns.
type Data struct {
	Headers []string
	Rows    [][]string
}

// Tabular is implemented by results that know how to lay themselves out as a
// table. Everything else is written as JSON even when a table is requested.
type Tabular interface {
	TableData() Data
}

// =============================================================================
// FORMATTERS
// =============================================================================

// Formatter writes data to w.
type Formatter interface {
	Format(w io.Writer, data any) error
}

// NewFormatter returns the formatter for format. Unknown formats get a table.
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Indent: "  "}
	case FormatYAML:
		return &YAMLFormatter{}
	default:
		return &TableFormatter{}
	}
}

// JSONFormatter outputs JSON.
type JSONFormatter struct {
	Indent string
}

// Format implements Formatter. HTML characters and non-ASCII text are written
// as-is so place names stay readable.
func (f *JSONFormatter) Format(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	if f.Indent != "" {
		encoder.SetIndent("", f.Indent)
	}
	return encoder.Encode(data)
}

// YAMLFormatter outputs YAML.
type YAMLFormatter struct{}

// Format implements Formatter.
func (f *YAMLFormatter) Format(w io.Writer, data any) error {
	out, err := yaml.MarshalWithOptions(data,
		yaml.Indent(2),
		yaml.IndentSequence(false),
	)
	if err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	_, err = w.Write(out)
	return err
}

// TableFormatter outputs aligned columns.
type TableFormatter struct{}

// Format implements Formatter.
func (f *TableFormatter) Format(w io.Writer, data any) error {
	switch v := data.(type) {
	case Data:
		return f.formatTable(w, v)
	case *Data:
		return f.formatTable(w, *v)
	case Tabular:
		return f.formatTable(w, v.TableData())
	default:
		return (&JSONFormatter{Indent: "  "}).Format(w, data)
	}
}

func (f *TableFormatter) formatTable(w io.Writer, data Data) error {
	table := tablewriter.NewTable(w)

	if len(data.Headers) > 0 {
		headers := make([]any, len(data.Headers))
		for i, h := range data.Headers {
			headers[i] = h
		}
		table.Header(headers...)
	}

	for _, row := range data.Rows {
		cells := make([]any, len(row))
		for i, cell := range row {
			cells[i] = cell
		}
		if err := table.Append(cells...); err != nil {
			return err
		}
	}

	return table.Render()
}

// =============================================================================
// FORMAT SELECTION
// =============================================================================

// ParseFormat validates a format name. The empty string means "detect".
func ParseFormat(s string) (Format, error) {
	format := Format(strings.ToLower(strings.TrimSpace(s)))
	switch format {
	case FormatTable, FormatJSON, FormatYAML, "":
		return format, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: unknown output format %q (want table, json or yaml)", errors.ErrInvalidInput, s)
	}
}

// DetectFormat returns explicit when set, otherwise table on a terminal and
// JSON for pipes and redirects.
func DetectFormat(explicit Format) Format {
	if explicit != "" {
		return explicit
	}
	if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return FormatTable
	}
	return FormatJSON
}

// Write parses format, resolves it and writes data to w.
func Write(w io.Writer, format string, data any) error {
	f, err := ParseFormat(format)
	if err != nil {
		return err
	}
	return NewFormatter(DetectFormat(f)).Format(w, data)
}

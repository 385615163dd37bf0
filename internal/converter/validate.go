package converter

import (
	"strconv"

	"github.com/ginjaninja78/poi-reconcile/internal/report"
	"github.com/ginjaninja78/poi-reconcile/internal/validation"
)

// ValidateResult reports the coordinate problems of a table.
type ValidateResult struct {
	Table string `json:"table" yaml:"table"`

	Rows     int `json:"rows" yaml:"rows"`
	Valid    int `json:"valid" yaml:"valid"`
	Invalid  int `json:"invalid" yaml:"invalid"`
	Warnings int `json:"warnings" yaml:"warnings"`

	Problems []*validation.ValidationError `json:"problems" yaml:"problems"`

	// LogFile is where the problems were written, if anywhere.
	LogFile string `json:"log_file,omitempty" yaml:"log_file,omitempty"`
}

// IsValid reports whether every row has usable coordinates.
func (r *ValidateResult) IsValid() bool {
	return r.Invalid == 0
}

// TableData implements report.Tabular.
func (r *ValidateResult) TableData() report.Data {
	data := report.Data{
		Headers: []string{"Row", "ID", "Severity", "Field", "Value", "Message"},
		Rows:    make([][]string, 0, len(r.Problems)),
	}
	for _, p := range r.Problems {
		data.Rows = append(data.Rows, []string{
			strconv.Itoa(p.RowNumber), p.ID, p.Severity, p.Field, p.Value, p.Message,
		})
	}
	return data
}

// Validate checks every row of the table the way BuildGeometry does,
// without writing anything but the optional log file.
//
// PARAMETERS:
//   - logFile: Where to write the problems. Empty means nowhere.
func (c *Converter) Validate(logFile string) (*ValidateResult, error) {
	path := c.cfg.Paths.Table

	table, err := c.LoadTable(path)
	if err != nil {
		return nil, err
	}
	layout, err := c.resolveLayout(table)
	if err != nil {
		return nil, err
	}
	region, err := c.region()
	if err != nil {
		return nil, err
	}

	checked := validation.Validate(table, layout, validation.ValidationOptions{
		SwapSuspicious: c.cfg.Geometry.SwapSuspicious,
		Region:         region,
	})
	c.logProblems(checked.Errors)

	result := &ValidateResult{
		Table:    path,
		Rows:     checked.RowsValidated,
		Valid:    checked.ValidRows,
		Invalid:  checked.ErrorCount,
		Warnings: checked.WarningCount,
		Problems: checked.Errors,
	}

	if logFile != "" && len(checked.Errors) > 0 {
		if err := validation.WriteErrorLog(checked.Errors, logFile, path); err != nil {
			return nil, err
		}
		result.LogFile = logFile
	}

	c.logger.Info().
		Int("rows", result.Rows).
		Int("invalid", result.Invalid).
		Int("warnings", result.Warnings).
		Msg("Validated table")

	return result, nil
}

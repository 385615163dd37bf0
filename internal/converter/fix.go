package converter

import (
	"fmt"
	"time"

	"github.com/ginjaninja78/poi-reconcile/internal/matcher"
	"github.com/ginjaninja78/poi-reconcile/internal/xlsxparser"
)

// FixResult summarizes rewriting table coordinates from the geometry file.
type FixResult struct {
	Table    string `json:"table" yaml:"table"`
	Geometry string `json:"geometry" yaml:"geometry"`
	Output   string `json:"output" yaml:"output"`

	// Features is the number of geometry features with a usable point.
	Features int `json:"features" yaml:"features"`

	// Replaced is the number of rows matched to a feature.
	Replaced int `json:"replaced" yaml:"replaced"`

	// NotFound is the number of rows left as they were.
	NotFound int `json:"not_found" yaml:"not_found"`

	// Changed is the number of matched rows whose coordinates differed.
	Changed int `json:"changed" yaml:"changed"`

	// ByStrategy counts matches per strategy.
	ByStrategy map[string]int `json:"by_strategy" yaml:"by_strategy"`

	// NotFoundIDs lists the IDs of unmatched rows.
	NotFoundIDs []string `json:"not_found_ids,omitempty" yaml:"not_found_ids,omitempty"`

	ExcelSafe bool `json:"excel_safe" yaml:"excel_safe"`

	ProcessingTime time.Duration `json:"-" yaml:"-"`
}

// Fix writes a copy of the table with coordinates taken from the geometry
// file.
//
// PROCESSING STEPS:
//  1. Read the table and resolve its columns
//  2. Read the geometry file and index its features
//  3. Match every row with the configured strategies
//  4. Write the corrected table to the output path
//
// Workbook output stores coordinates as text cells, so the apostrophe prefix
// is only applied to CSV output.
func (c *Converter) Fix() (*FixResult, error) {
	startTime := time.Now()
	paths := c.cfg.Paths

	c.logger.Info().
		Str("table", paths.Table).
		Str("geometry", paths.Geometry).
		Str("output", paths.Output).
		Msg("Fixing table coordinates")

	table, err := c.LoadTable(paths.Table)
	if err != nil {
		return nil, err
	}
	layout, err := c.resolveLayout(table)
	if err != nil {
		return nil, err
	}
	fc, err := c.loadGeometry(paths.Geometry)
	if err != nil {
		return nil, err
	}

	synonyms := c.cfg.Columns.Synonyms
	m, err := matcher.New(fc, matcher.Options{
		Strategies:  c.cfg.Match.Strategies,
		TitleKeys:   synonyms.Title,
		TitleENKeys: synonyms.TitleEN,
		IDKeys:      synonyms.ID,
	})
	if err != nil {
		return nil, err
	}

	matched := m.Match(table, layout)
	excelSafe := c.cfg.ExcelSafe() && !xlsxparser.IsWorkbook(paths.Output)
	fixed := matcher.Apply(table, layout, matched, excelSafe)

	if err := c.WriteTable(paths.Output, fixed); err != nil {
		return nil, fmt.Errorf("failed to write fixed table: %w", err)
	}

	result := &FixResult{
		Table:          paths.Table,
		Geometry:       paths.Geometry,
		Output:         paths.Output,
		Features:       m.Indexed(),
		Replaced:       matched.Replaced,
		NotFound:       matched.NotFound,
		Changed:        matched.Changed,
		ByStrategy:     matched.ByStrategy,
		ExcelSafe:      excelSafe,
		ProcessingTime: time.Since(startTime),
	}
	for _, row := range matched.Unmatched {
		id := table.Cell(row, layout.ID)
		result.NotFoundIDs = append(result.NotFoundIDs, id)
		c.logger.Debug().Int("row", row+1).Str("id", id).Msg("No matching feature")
	}

	if n := matched.ByStrategy[matcher.StrategyPosition]; n > 0 {
		c.logger.Warn().
			Int("rows", n).
			Msg("Rows matched by position; this assumes the geometry file lists features in table order")
	}

	c.logger.Info().
		Int("replaced", result.Replaced).
		Int("not_found", result.NotFound).
		Int("changed", result.Changed).
		Dur("elapsed", result.ProcessingTime).
		Msg("Wrote fixed table")

	return result, nil
}

package converter

import (
	"fmt"
	"time"

	"github.com/ginjaninja78/poi-reconcile/internal/geometry"
	"github.com/ginjaninja78/poi-reconcile/internal/validation"
	"github.com/ginjaninja78/poi-reconcile/pkg/utils"
)

// GeometryResult summarizes building the geometry file.
type GeometryResult struct {
	Table    string `json:"table" yaml:"table"`
	Geometry string `json:"geometry" yaml:"geometry"`

	// Backup is the copy of the previous geometry file, if one was made.
	Backup string `json:"backup,omitempty" yaml:"backup,omitempty"`

	// Rows is the number of data rows read.
	Rows int `json:"rows" yaml:"rows"`

	// Features is the number of features written.
	Features int `json:"features" yaml:"features"`

	// Dropped is the number of rows left out for invalid or out of bounds
	// coordinates.
	Dropped int `json:"dropped" yaml:"dropped"`

	// Swapped is the number of rows whose coordinates were exchanged.
	Swapped int `json:"swapped" yaml:"swapped"`

	Issues []*validation.ValidationError `json:"issues,omitempty" yaml:"issues,omitempty"`

	ProcessingTime time.Duration `json:"-" yaml:"-"`
}

// BuildGeometry regenerates the geometry file from the table.
//
// PROCESSING STEPS:
//  1. Read the table and resolve its columns
//  2. Build one point feature per row with valid coordinates
//  3. Back up the existing geometry file
//  4. Write the new geometry file
//
// RETURNS:
//   - The summary of the run.
//   - An error if an input is missing, the columns cannot be resolved or a
//     file cannot be written.
func (c *Converter) BuildGeometry() (*GeometryResult, error) {
	startTime := time.Now()
	paths := c.cfg.Paths

	c.logger.Info().Str("table", paths.Table).Str("geometry", paths.Geometry).Msg("Building geometry")

	table, err := c.LoadTable(paths.Table)
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

	built, err := geometry.Build(table, layout, geometry.BuildOptions{
		SwapSuspicious: c.cfg.Geometry.SwapSuspicious,
		Region:         region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build features: %w", err)
	}
	c.logProblems(built.Issues)

	backup, err := utils.BackupFile(paths.Geometry, c.cfg.Geometry.Backup, c.now())
	if err != nil {
		return nil, err
	}
	if backup != "" {
		c.logger.Info().Str("backup", backup).Msg("Backed up geometry")
	}

	if err := geometry.Write(paths.Geometry, built.Collection); err != nil {
		return nil, err
	}

	result := &GeometryResult{
		Table:          paths.Table,
		Geometry:       paths.Geometry,
		Backup:         backup,
		Rows:           built.Rows,
		Features:       len(built.Collection.Features),
		Dropped:        built.Dropped(),
		Swapped:        built.Swapped,
		Issues:         built.Issues,
		ProcessingTime: time.Since(startTime),
	}

	c.logger.Info().
		Int("features", result.Features).
		Int("dropped", result.Dropped).
		Dur("elapsed", result.ProcessingTime).
		Msg("Wrote geometry")

	return result, nil
}

// =============================================================================
// POI Reconcile - Converter Module
// =============================================================================
//
// This module contains the pipelines behind the poitool commands. Each
// pipeline reads whole files into memory, transforms them and writes the
// result:
//
//   BuildGeometry  table -> geometry file (geojson command)
//   Fix            table + geometry -> corrected table (fix command)
//   Diff           table vs geometry, by ID (diff command)
//   Compare        previous table vs table, by ID (compare command)
//   Validate       table -> problem report (validate command)
//
// All paths and options come from the configuration; the cmd package applies
// command-line flags to it before creating the Converter.
//
// ERROR HANDLING:
//   - A missing input file or an unresolvable coordinate column is returned
//     as an error and ends the command.
//   - Per-row problems are tallied in the result and logged as warnings.
//
// =============================================================================

package converter

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ginjaninja78/poi-reconcile/internal/columns"
	"github.com/ginjaninja78/poi-reconcile/internal/config"
	"github.com/ginjaninja78/poi-reconcile/internal/csvparser"
	"github.com/ginjaninja78/poi-reconcile/internal/geometry"
	"github.com/ginjaninja78/poi-reconcile/internal/logging"
	"github.com/ginjaninja78/poi-reconcile/internal/types"
	"github.com/ginjaninja78/poi-reconcile/internal/validation"
	"github.com/ginjaninja78/poi-reconcile/internal/xlsxparser"
)

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Converter runs the pipelines for one configuration.
type Converter struct {
	// cfg holds paths, CSV dialect, column and matching settings.
	cfg *config.Config

	// logger receives progress and per-row warnings.
	logger *zerolog.Logger

	// now stamps backup file names.
	now func() time.Time
}

// =============================================================================
// CONSTRUCTOR
// =============================================================================

// New creates a new Converter.
//
// PARAMETERS:
//   - ctx: Carries the logger (see logging.WithLogger).
//   - cfg: The configuration. nil means config.Defaults().
//
// RETURNS:
//   - A new Converter instance.
func New(ctx context.Context, cfg *config.Config) *Converter {
	if cfg == nil {
		cfg = config.Defaults()
	}
	return &Converter{
		cfg:    cfg,
		logger: logging.FromContext(ctx),
		now:    time.Now,
	}
}

// Config returns the configuration the converter runs with.
func (c *Converter) Config() *config.Config {
	return c.cfg
}

// =============================================================================
// TABLE I/O
// =============================================================================

// LoadTable reads a POI table. Workbooks (.xlsx, .xlsm) are read with the
// workbook settings, everything else as CSV.
func (c *Converter) LoadTable(path string) (*types.Table, error) {
	var (
		table *types.Table
		err   error
	)
	if xlsxparser.IsWorkbook(path) {
		table, err = xlsxparser.Parse(path, c.cfg.Workbook)
	} else {
		table, err = csvparser.Parse(path, c.cfg.CSV)
	}
	if err != nil {
		return nil, err
	}

	c.logger.Debug().
		Str("path", path).
		Int("rows", len(table.Rows)).
		Bool("bom", table.BOM).
		Msg("Loaded table")

	return table, nil
}

// WriteTable writes a POI table in the format its extension names.
func (c *Converter) WriteTable(path string, table *types.Table) error {
	if xlsxparser.IsWorkbook(path) {
		return xlsxparser.Write(path, table)
	}
	return csvparser.Write(path, table, c.cfg.CSV)
}

// loadGeometry reads the configured geometry file.
func (c *Converter) loadGeometry(path string) (*geometry.FeatureCollection, error) {
	fc, err := geometry.Read(path)
	if err != nil {
		return nil, err
	}
	c.logger.Debug().Str("path", path).Int("features", len(fc.Features)).Msg("Loaded geometry")
	return fc, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// resolveLayout finds the coordinate and identifier columns of a table.
func (c *Converter) resolveLayout(table *types.Table) (*columns.Layout, error) {
	layout, err := columns.Resolve(table.Rows, c.cfg.ColumnOptions())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", table.SourceFile, err)
	}

	if layout.Canonical {
		c.logger.Warn().Str("table", table.SourceFile).Msg("Table has no header row; using the canonical column order")
	}
	if layout.Positional {
		c.logger.Warn().
			Str("table", table.SourceFile).
			Int("latitude_column", layout.Latitude+1).
			Int("longitude_column", layout.Longitude+1).
			Msg("Coordinate columns not named in header; using canonical positions")
	}

	return layout, nil
}

// region returns the area points must lie in, or nil when none is
// configured. A boundary file takes precedence over a bounding box.
func (c *Converter) region() (validation.Region, error) {
	if path := c.cfg.Geometry.Boundary; path != "" {
		boundary, err := geometry.ReadBoundary(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load boundary: %w", err)
		}
		c.logger.Debug().Str("path", path).Int("polygons", boundary.Len()).Msg("Loaded boundary")
		return boundary, nil
	}

	bounds, err := c.cfg.Bounds()
	if err != nil {
		return nil, err
	}
	if bounds == nil {
		return nil, nil
	}
	c.logger.Debug().Str("bbox", bounds.String()).Msg("Using bounding box")
	return bounds, nil
}

// logProblems writes every row problem as a warning.
func (c *Converter) logProblems(problems []*validation.ValidationError) {
	for _, p := range problems {
		c.logger.Warn().
			Int("row", p.RowNumber).
			Str("id", p.ID).
			Str("rule", p.Rule).
			Str("value", p.Value).
			Msg(p.Message)
	}
}

package converter

import (
	"time"

	"github.com/ginjaninja78/poi-reconcile/internal/xmlwriter"
)

// GPXResult holds the outcome of a GPX export.
type GPXResult struct {
	Geometry string
	Output   string

	// Features is the number of features read.
	Features int

	// Waypoints is the number of features written; features without a
	// point are skipped.
	Waypoints int

	ProcessingTime time.Duration
}

// ExportGPX writes the features of the geometry file (paths.geometry) as GPX
// waypoints to paths.gpx. Coordinates keep the text of the geometry file.
func (c *Converter) ExportGPX() (*GPXResult, error) {
	start := time.Now()
	paths := c.cfg.Paths

	fc, err := c.loadGeometry(paths.Geometry)
	if err != nil {
		return nil, err
	}

	written, err := xmlwriter.Write(paths.GPX, fc, xmlwriter.DefaultGenerateOptions())
	if err != nil {
		return nil, err
	}

	result := &GPXResult{
		Geometry:       paths.Geometry,
		Output:         paths.GPX,
		Features:       len(fc.Features),
		Waypoints:      written,
		ProcessingTime: time.Since(start),
	}

	if skipped := result.Features - result.Waypoints; skipped > 0 {
		c.logger.Warn().Int("skipped", skipped).Msg("Features without a point were not exported")
	}
	c.logger.Info().
		Str("output", result.Output).
		Int("waypoints", result.Waypoints).
		Dur("duration", result.ProcessingTime).
		Msg("Exported GPX")

	return result, nil
}

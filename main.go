// =============================================================================
// poitool - Main Entry Point
// =============================================================================
//
// poitool reconciles point-of-interest coordinates between a CSV table and a
// GeoJSON file.
//
// USAGE:
//   poitool geojson    - Build the GeoJSON file from the table
//   poitool fix        - Rewrite table coordinates from the GeoJSON file
//   poitool diff       - Show differences between table and GeoJSON, by ID
//   poitool compare    - Compare two tables, by ID
//   poitool validate   - Report unusable coordinates
//   poitool gpx        - Export the GeoJSON points as GPX waypoints
//   poitool version    - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Normalization, column resolution, matching, I/O
//   - pkg/           : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/poi-reconcile/cmd"
)

func main() {
	cmd.Execute()
}

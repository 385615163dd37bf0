// =============================================================================
// poitool - GPX Command
// =============================================================================
//
// This file defines the 'gpx' command, which exports the geometry file as
// GPX waypoints for GPS devices and mapping apps.
//
// COMMAND USAGE:
//   poitool gpx [flags]
//
// FLAGS:
//   --geo  : Geometry file to read (default data/poi.geojson)
//   --out  : GPX file to write (default data/poi.gpx)
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// gpxCmd represents the 'gpx' command.
var gpxCmd = &cobra.Command{
	Use:   "gpx",
	Short: "Export the GeoJSON points as GPX waypoints",
	Long: `The gpx command writes one waypoint per point feature of the GeoJSON file.
The waypoint name, description, link and type come from the title, text,
link and category properties. Coordinates are copied as written.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		override(cmd, "geo", &appConfig.Paths.Geometry)
		override(cmd, "out", &appConfig.Paths.GPX)

		result, err := newConverter(cmd).ExportGPX()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Wrote %s with %d waypoints\n", result.Output, result.Waypoints)
		if skipped := result.Features - result.Waypoints; skipped > 0 {
			fmt.Fprintf(out, "Skipped:         %d (no point)\n", skipped)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(gpxCmd)

	gpxCmd.Flags().String("geo", "", "Geometry file (default data/poi.geojson)")
	gpxCmd.Flags().String("out", "", "GPX file to write (default data/poi.gpx)")
}

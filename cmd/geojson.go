// =============================================================================
// poitool - GeoJSON Command
// =============================================================================
//
// This file defines the 'geojson' command, which regenerates the geometry
// file from the table.
//
// COMMAND USAGE:
//   poitool geojson [flags]
//
// FLAGS:
//   --in        : Input table (default data/poi.csv)
//   --geo       : Geometry file to write (default data/poi.geojson)
//   --backup    : Backup of the existing geometry file: timestamp, fixed, none
//   --swap      : Exchange latitude/longitude pairs that look swapped
//   --bbox      : Drop points outside minLon,minLat,maxLon,maxLat
//   --boundary  : Drop points outside the polygons of a GeoJSON file
//
// PROCESSING PIPELINE:
//   1. Read the table and resolve the coordinate columns
//   2. Normalize every coordinate pair; drop rows that fail
//   3. Back up the existing geometry file
//   4. Write one point feature per remaining row
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// swapSuspicious exchanges latitude and longitude when they look swapped.
var swapSuspicious bool

// geojsonCmd represents the 'geojson' command.
var geojsonCmd = &cobra.Command{
	Use:   "geojson",
	Short: "Build the GeoJSON file from the table",
	Long: `The geojson command writes one point feature per table row. Feature
properties mirror the table columns in header order; coordinates are
[longitude, latitude].

Rows whose coordinates cannot be normalized are left out of the geometry file
and listed as warnings. An existing geometry file is backed up first.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runGeoJSON(cmd)
	},
}

func init() {
	rootCmd.AddCommand(geojsonCmd)

	geojsonCmd.Flags().String("in", "", "Input table (default data/poi.csv)")
	geojsonCmd.Flags().String("geo", "", "GeoJSON file to write (default data/poi.geojson)")
	geojsonCmd.Flags().String("backup", "", "Backup of an existing GeoJSON file: timestamp, fixed or none (default timestamp)")
	geojsonCmd.Flags().String("bbox", "", "Drop points outside minLon,minLat,maxLon,maxLat")
	geojsonCmd.Flags().String("boundary", "", "Drop points outside the polygons of this GeoJSON file")
	geojsonCmd.Flags().BoolVar(
		&swapSuspicious,
		"swap",
		false,
		"Exchange latitude and longitude when they look swapped",
	)
}

// runGeoJSON builds the geometry file and prints a summary.
func runGeoJSON(cmd *cobra.Command) error {
	override(cmd, "in", &appConfig.Paths.Table)
	override(cmd, "geo", &appConfig.Paths.Geometry)
	override(cmd, "backup", &appConfig.Geometry.Backup)
	override(cmd, "bbox", &appConfig.Geometry.BBox)
	override(cmd, "boundary", &appConfig.Geometry.Boundary)
	if cmd.Flags().Changed("swap") {
		appConfig.Geometry.SwapSuspicious = swapSuspicious
	}
	if err := appConfig.Validate(); err != nil {
		return err
	}

	result, err := newConverter(cmd).BuildGeometry()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if result.Backup != "" {
		fmt.Fprintf(out, "Backed up %s -> %s\n", result.Geometry, result.Backup)
	}
	fmt.Fprintf(out, "Wrote %s with %d features\n", result.Geometry, result.Features)
	fmt.Fprintf(out, "Rows read:       %d\n", result.Rows)
	fmt.Fprintf(out, "Dropped:         %d\n", result.Dropped)
	if result.Swapped > 0 {
		fmt.Fprintf(out, "Swapped:         %d\n", result.Swapped)
	}

	return nil
}

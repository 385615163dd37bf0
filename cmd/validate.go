// =============================================================================
// poitool - Validate Command
// =============================================================================
//
// This file defines the 'validate' command, which reports the rows that the
// geojson command would drop, without writing the geometry file.
//
// COMMAND USAGE:
//   poitool validate [flags]
//
// FLAGS:
//   --in        : Input table (default data/poi.csv)
//   --bbox      : Report points outside minLon,minLat,maxLon,maxLat
//   --boundary  : Report points outside the polygons of a GeoJSON file
//   --swap      : Exchange latitude/longitude pairs that look swapped (warning)
//   --log-file  : Also write the problems to this file
//   --format    : table, json or yaml
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/poi-reconcile/internal/report"
)

// validateSwap is the --swap flag of the validate command.
var validateSwap bool

// validateLogFile is where problems are written in addition to stdout.
var validateLogFile string

// validateCmd represents the 'validate' command.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Report rows with missing, invalid or out of bounds coordinates",
	Long: `The validate command checks the coordinate cells of every table row:
they must normalize to numbers and, with --bbox or --boundary, lie inside the
area. Nothing is written except the optional log file.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate(cmd)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().String("in", "", "Input table (default data/poi.csv)")
	validateCmd.Flags().String("bbox", "", "Report points outside minLon,minLat,maxLon,maxLat")
	validateCmd.Flags().String("boundary", "", "Report points outside the polygons of this GeoJSON file")
	validateCmd.Flags().BoolVar(&validateSwap, "swap", false, "Exchange latitude and longitude when they look swapped")
	validateCmd.Flags().StringVar(&validateLogFile, "log-file", "", "Also write the problems to this file")
	validateCmd.Flags().StringP("format", "o", "", "Output format: table, json or yaml")
}

// runValidate prints the problems of the table.
func runValidate(cmd *cobra.Command) error {
	override(cmd, "in", &appConfig.Paths.Table)
	override(cmd, "bbox", &appConfig.Geometry.BBox)
	override(cmd, "boundary", &appConfig.Geometry.Boundary)
	if cmd.Flags().Changed("swap") {
		appConfig.Geometry.SwapSuspicious = validateSwap
	}
	if err := appConfig.Validate(); err != nil {
		return err
	}
	format, _ := cmd.Flags().GetString("format")
	if _, err := report.ParseFormat(format); err != nil {
		return err
	}

	result, err := newConverter(cmd).Validate(validateLogFile)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !isTableFormat(format) {
		return report.Write(out, format, result)
	}

	if len(result.Problems) > 0 {
		if err := report.Write(out, format, result); err != nil {
			return err
		}
	}
	fmt.Fprintf(out, "Rows: %d, valid: %d, invalid: %d, warnings: %d\n",
		result.Rows, result.Valid, result.Invalid, result.Warnings)
	if result.LogFile != "" {
		fmt.Fprintf(out, "Problems written to %s\n", result.LogFile)
	}

	return nil
}

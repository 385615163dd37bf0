// =============================================================================
// poitool - Diff Command
// =============================================================================
//
// This file defines the 'diff' command, which compares the table's
// coordinates with the geometry file's, by ID.
//
// COMMAND USAGE:
//   poitool diff [flags]
//
// FLAGS:
//   --in      : Input table (default data/poi.csv)
//   --geo     : Geometry file (default data/poi.geojson)
//   --ids     : Only these IDs, listed whatever their status (e.g. 4,5,6)
//   --all     : List identical IDs too
//   --format  : table, json or yaml (default: table on a terminal, else json)
//
// STATUSES:
//   same                 spelled exactly like the geometry file
//   format               same value, different spelling ("52,4591"); fix repairs it
//   changed              different value
//   missing_in_table     only in the geometry file
//   missing_in_geometry  only in the table
//   unknown              a requested ID that is in neither file
//
// =============================================================================

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/poi-reconcile/internal/converter"
	"github.com/ginjaninja78/poi-reconcile/internal/report"
)

// diffIDs restricts the diff to a set of IDs.
var diffIDs []string

// diffAll lists identical IDs too.
var diffAll bool

// diffCmd represents the 'diff' command.
var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Show coordinate differences between the table and the GeoJSON file",
	Long: `The diff command lists, per ID, the coordinates of the table next to the
coordinates of the geometry file. By default only IDs that differ are listed.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runDiff(cmd)
	},
}

func init() {
	rootCmd.AddCommand(diffCmd)

	diffCmd.Flags().String("in", "", "Input table (default data/poi.csv)")
	diffCmd.Flags().String("geo", "", "GeoJSON file (default data/poi.geojson)")
	diffCmd.Flags().StringSliceVar(&diffIDs, "ids", nil, "Only compare these IDs (comma-separated)")
	diffCmd.Flags().BoolVar(&diffAll, "all", false, "List identical IDs too")
	diffCmd.Flags().StringP("format", "o", "", "Output format: table, json or yaml")
}

// runDiff prints the comparison.
func runDiff(cmd *cobra.Command) error {
	override(cmd, "in", &appConfig.Paths.Table)
	override(cmd, "geo", &appConfig.Paths.Geometry)
	format, _ := cmd.Flags().GetString("format")
	if _, err := report.ParseFormat(format); err != nil {
		return err
	}

	result, err := newConverter(cmd).Diff(converter.DiffOptions{
		IDs: splitIDs(diffIDs),
		All: diffAll,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(result.Entries) == 0 && isTableFormat(format) {
		fmt.Fprintf(out, "No differences found (%d IDs compared).\n", result.Compared)
		return nil
	}
	return report.Write(out, format, result)
}

// isTableFormat reports whether a format flag resolves to a table.
func isTableFormat(format string) bool {
	f, err := report.ParseFormat(format)
	return err == nil && report.DetectFormat(f) == report.FormatTable
}

// splitIDs splits comma-separated IDs, dropping empty ones.
func splitIDs(values []string) []string {
	var ids []string
	for _, v := range values {
		for _, id := range strings.Split(v, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
	}
	return ids
}

// =============================================================================
// poitool - Fix Command
// =============================================================================
//
// This file defines the 'fix' command, which writes a copy of the table with
// the coordinates of the geometry file.
//
// COMMAND USAGE:
//   poitool fix [flags]
//
// FLAGS:
//   --in             : Input table (default data/poi.csv)
//   --geo            : Geometry file with correct coordinates (default data/poi.geojson)
//   --out            : Output table (default data/poi_fixed.csv)
//   --excel-safe     : Prefix coordinates with an apostrophe (default)
//   --no-excel-safe  : Write coordinates without prefix
//   --match          : Match strategies in order (default title,title_en,position)
//
// =============================================================================

package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/poi-reconcile/internal/matcher"
)

// excelSafe and noExcelSafe control the apostrophe prefix.
var (
	excelSafe   bool
	noExcelSafe bool
)

// fixCmd represents the 'fix' command.
var fixCmd = &cobra.Command{
	Use:   "fix",
	Short: "Rewrite table coordinates from the GeoJSON file",
	Long: `The fix command matches every table row to a geometry feature and writes
the feature's coordinates into a copy of the table.

Rows are matched by title, then English title, then position (row ID N takes
the Nth feature). Rows without a match keep their coordinates and are counted
as not found.

Position matching assumes the geometry file lists features in table order.
The summary reports how many rows relied on it.

With --excel-safe (the default) coordinates are written as '52.4591 so that
spreadsheet applications keep them as text.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runFix(cmd)
	},
}

func init() {
	rootCmd.AddCommand(fixCmd)

	fixCmd.Flags().String("in", "", "Input table (default data/poi.csv)")
	fixCmd.Flags().String("geo", "", "GeoJSON file with correct coordinates (default data/poi.geojson)")
	fixCmd.Flags().String("out", "", "Output table (default data/poi_fixed.csv)")
	fixCmd.Flags().String("match", "", "Match strategies in priority order: title, title_en, position, id")
	fixCmd.Flags().BoolVar(&excelSafe, "excel-safe", true, "Prefix coordinates with an apostrophe to avoid spreadsheet auto-formatting")
	fixCmd.Flags().BoolVar(&noExcelSafe, "no-excel-safe", false, "Do not prefix coordinates; write raw numeric values")
	fixCmd.MarkFlagsMutuallyExclusive("excel-safe", "no-excel-safe")
}

// runFix writes the corrected table and prints a summary.
func runFix(cmd *cobra.Command) error {
	override(cmd, "in", &appConfig.Paths.Table)
	override(cmd, "geo", &appConfig.Paths.Geometry)
	override(cmd, "out", &appConfig.Paths.Output)

	if cmd.Flags().Changed("match") {
		value, _ := cmd.Flags().GetString("match")
		strategies, err := matcher.ParseStrategies(value)
		if err != nil {
			return err
		}
		appConfig.Match.Strategies = strategies
	}

	switch {
	case cmd.Flags().Changed("no-excel-safe"):
		safe := !noExcelSafe
		appConfig.Match.ExcelSafe = &safe
	case cmd.Flags().Changed("excel-safe"):
		safe := excelSafe
		appConfig.Match.ExcelSafe = &safe
	}

	result, err := newConverter(cmd).Fix()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Done: %d coordinates replaced, %d not found. Output: %s\n",
		result.Replaced, result.NotFound, result.Output)
	fmt.Fprintf(out, "Changed:         %d\n", result.Changed)
	fmt.Fprintf(out, "Matched by:      %s\n", formatStrategies(result.ByStrategy))
	if n := result.ByStrategy[matcher.StrategyPosition]; n > 0 {
		fmt.Fprintf(out, "Warning: %d row(s) matched by position; check that both files list POIs in the same order\n", n)
	}
	if len(result.NotFoundIDs) > 0 {
		fmt.Fprintf(out, "Not found IDs:   %s\n", strings.Join(result.NotFoundIDs, ", "))
	}

	return nil
}

// formatStrategies renders per-strategy counts as "position=1, title=3".
func formatStrategies(counts map[string]int) string {
	if len(counts) == 0 {
		return "-"
	}
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s=%d", name, counts[name])
	}
	return strings.Join(parts, ", ")
}

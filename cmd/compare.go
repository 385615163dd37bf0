// =============================================================================
// poitool - Compare Command
// =============================================================================
//
// This file defines the 'compare' command, which lists the IDs whose
// coordinate cells differ between an older copy of the table and the current
// one. Use it to see what a spreadsheet round trip changed.
//
// COMMAND USAGE:
//   poitool compare [flags]
//
// FLAGS:
//   --old     : Previous table (default data/data_bak.csv)
//   --new     : Current table (default data/poi.csv)
//   --format  : table, json or yaml
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/poi-reconcile/internal/report"
)

// compareCmd represents the 'compare' command.
var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare the coordinates of two tables by ID",
	Long: `The compare command reads two tables and lists every ID whose latitude or
longitude cell is spelled differently, or that exists in only one of them.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runCompare(cmd)
	},
}

func init() {
	rootCmd.AddCommand(compareCmd)

	compareCmd.Flags().String("old", "", "Previous table (default data/data_bak.csv)")
	compareCmd.Flags().String("new", "", "Current table (default data/poi.csv)")
	compareCmd.Flags().StringP("format", "o", "", "Output format: table, json or yaml")
}

// runCompare prints the differences.
func runCompare(cmd *cobra.Command) error {
	override(cmd, "old", &appConfig.Paths.Previous)
	override(cmd, "new", &appConfig.Paths.Table)
	format, _ := cmd.Flags().GetString("format")
	if _, err := report.ParseFormat(format); err != nil {
		return err
	}

	result, err := newConverter(cmd).Compare()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(result.Entries) == 0 && isTableFormat(format) {
		fmt.Fprintln(out, "No differences found (by ID).")
		return nil
	}
	return report.Write(out, format, result)
}

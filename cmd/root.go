// =============================================================================
// poitool - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Every utility is a
// subcommand:
//
// COBRA CLI STRUCTURE:
//   rootCmd (poitool)
//   ├── geojsonCmd  (poitool geojson)   build the geometry file from the table
//   ├── fixCmd      (poitool fix)       rewrite table coordinates from geometry
//   ├── diffCmd     (poitool diff)      table vs geometry, by ID
//   ├── compareCmd  (poitool compare)   previous table vs table, by ID
//   ├── validateCmd (poitool validate)  report unusable coordinates
//   ├── gpxCmd      (poitool gpx)       export GPX waypoints
//   └── versionCmd  (poitool version)
//
// CONFIGURATION:
//   Before any subcommand runs, the root command:
//   1. Loads poitool.yaml (or --config), .env files and POITOOL_* variables
//   2. Applies the global logging flags
//   3. Creates the logger and tags it with a run id
//   Subcommand flags are applied on top of the loaded configuration.
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/poi-reconcile/internal/config"
	"github.com/ginjaninja78/poi-reconcile/internal/converter"
	"github.com/ginjaninja78/poi-reconcile/internal/logging"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file.
// Empty means poitool.yaml in the working directory, if present.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// logLevel and logFormat override the logging configuration.
var (
	logLevel  string
	logFormat string
)

// appConfig is the configuration loaded before a subcommand runs.
var appConfig *config.Config

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "poitool",
	Short: "Reconcile POI coordinates between a CSV table and a GeoJSON file",
	Long: `poitool repairs point-of-interest data kept in two parallel files: a
semicolon-separated table (data/poi.csv) and a GeoJSON FeatureCollection
(data/poi.geojson).

Spreadsheet applications tend to corrupt coordinate cells ("52,4591" or
"52.459.1" instead of 52.4591). The geometry file is the source of truth for
coordinates; the table is the source of truth for everything else.

Example Usage:
  poitool geojson                      # Rebuild data/poi.geojson from data/poi.csv
  poitool fix --no-excel-safe          # Write data/poi_fixed.csv with geometry coordinates
  poitool diff --ids 4,5,6             # Show table and geometry coordinates for three IDs
  poitool compare                      # Compare data/data_bak.csv with data/poi.csv
  poitool validate --bbox 13.28,52.45,13.30,52.47
  poitool gpx                          # Export data/poi.geojson to data/poi.gpx`,

	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,

	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the CLI. It is called by main.main().
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"Path to the configuration file (default is "+config.DefaultConfigFile+" if present)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging",
	)

	rootCmd.PersistentFlags().StringVar(
		&logLevel,
		"log-level",
		"",
		"Log level: trace, debug, info, warn, error",
	)

	rootCmd.PersistentFlags().StringVar(
		&logFormat,
		"log-format",
		"",
		"Log format: auto, console or json",
	)
}

// setup loads the configuration and installs the logger.
func setup(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" || cmd.Name() == "help" {
		return nil
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if logFormat != "" {
		cfg.Logging.Format = logFormat
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	appConfig = cfg

	logger := logging.New(&logging.Config{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		Output:  cfg.Logging.Output,
		NoColor: os.Getenv("NO_COLOR") != "",
	})
	logging.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logging.WithRunID(logging.WithLogger(ctx, &logger), uuid.NewString())
	cmd.SetContext(ctx)

	logging.FromContext(ctx).Debug().
		Str("command", cmd.CommandPath()).
		Str("config", cfgFile).
		Msg("Starting")

	return nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// newConverter creates a converter for the loaded configuration.
func newConverter(cmd *cobra.Command) *converter.Converter {
	return converter.New(cmd.Context(), appConfig)
}

// override copies a string flag into the configuration when it was given.
func override(cmd *cobra.Command, flag string, target *string) {
	if cmd.Flags().Changed(flag) {
		value, err := cmd.Flags().GetString(flag)
		if err == nil {
			*target = value
		}
	}
}

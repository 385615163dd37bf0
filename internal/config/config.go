// =============================================================================
// POI Reconcile - Configuration Module
// =============================================================================
//
// This module loads the settings shared by all poitool commands: default file
// paths, CSV dialect, column synonyms, matching strategies, geometry options
// and logging.
//
// SOURCES (later ones win):
//   1. Built-in defaults (Defaults)
//   2. YAML config file (poitool.yaml by default, optional)
//   3. .env and .env.local files in the working directory
//   4. POITOOL_* environment variables (POITOOL_PATHS_TABLE, ...)
//   5. Command-line flags (applied by the cmd package)
//
// =============================================================================

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/poi-reconcile/internal/columns"
	"github.com/ginjaninja78/poi-reconcile/internal/coords"
	"github.com/ginjaninja78/poi-reconcile/internal/errors"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "POITOOL"

// DefaultConfigFile is read when no --config flag is given and it exists.
const DefaultConfigFile = "poitool.yaml"

// Line endings for written tables.
const (
	LineEndingCRLF = "crlf"
	LineEndingLF   = "lf"
)

// BOM policies for written tables.
const (
	BOMPreserve = "preserve"
	BOMAlways   = "always"
	BOMNever    = "never"
)

// Backup modes for the geometry file.
const (
	BackupTimestamp = "timestamp"
	BackupFixed     = "fixed"
	BackupNone      = "none"
)

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the poitool configuration.
type Config struct {
	Paths    PathSettings     `yaml:"paths"`
	CSV      CSVSettings      `yaml:"csv"`
	Workbook WorkbookSettings `yaml:"workbook"`
	Columns  ColumnSettings   `yaml:"columns"`
	Match    MatchSettings    `yaml:"match"`
	Geometry GeometrySettings `yaml:"geometry"`
	Logging  LoggingSettings  `yaml:"logging"`
}

// PathSettings holds the default file locations, relative to the working
// directory.
type PathSettings struct {
	// Table is the POI table (.csv or .xlsx).
	// Default: "data/poi.csv"
	Table string `yaml:"table"`

	// Geometry is the GeoJSON file with authoritative coordinates.
	// Default: "data/poi.geojson"
	Geometry string `yaml:"geometry"`

	// Output is where the fix command writes the corrected table.
	// Default: "data/poi_fixed.csv"
	Output string `yaml:"output"`

	// Previous is the older table the compare command diffs against.
	// Default: "data/data_bak.csv"
	Previous string `yaml:"previous"`

	// GPX is where the gpx command writes waypoints.
	// Default: "data/poi.gpx"
	GPX string `yaml:"gpx"`
}

// CSVSettings contains settings for reading and writing CSV tables.
type CSVSettings struct {
	// Delimiter is the field separator. Accepts a character or one of
	// "semicolon", "comma", "tab", "pipe".
	// Default: ";"
	Delimiter string `yaml:"delimiter"`

	// LineEnding of written files: "crlf" or "lf".
	// Default: "crlf"
	LineEnding string `yaml:"line_ending"`

	// BOM policy of written files: "preserve" (write one if the input had
	// one), "always" or "never".
	// Default: "preserve"
	BOM string `yaml:"bom"`
}

// WorkbookSettings contains settings for .xlsx tables.
type WorkbookSettings struct {
	// Sheet to read. Empty means the first sheet.
	Sheet string `yaml:"sheet"`
}

// ColumnSettings controls column resolution.
type ColumnSettings struct {
	Synonyms columns.Synonyms `yaml:"synonyms"`

	// Canonical is the header used for files without one.
	Canonical []string `yaml:"canonical"`

	// PositionalFallback uses the canonical coordinate positions when the
	// header does not name them.
	// Default: true
	PositionalFallback *bool `yaml:"positional_fallback"`
}

// MatchSettings controls how the fix and diff commands match rows.
type MatchSettings struct {
	// Strategies in priority order: title, title_en, position, id.
	// Default: [title, title_en, position]
	Strategies []string `yaml:"strategies"`

	// ExcelSafe prefixes written coordinates with an apostrophe.
	// Default: true
	ExcelSafe *bool `yaml:"excel_safe"`
}

// GeometrySettings controls building the geometry file.
type GeometrySettings struct {
	// Backup mode before overwriting: "timestamp", "fixed" or "none".
	// Default: "timestamp"
	Backup string `yaml:"backup"`

	// SwapSuspicious exchanges latitude/longitude pairs that look swapped.
	// Default: false
	SwapSuspicious bool `yaml:"swap_suspicious"`

	// BBox limits points to "minLon,minLat,maxLon,maxLat". Empty disables it.
	BBox string `yaml:"bbox"`

	// Boundary is a GeoJSON file with polygons points must lie in. Takes
	// precedence over BBox. Empty disables it.
	Boundary string `yaml:"boundary"`
}

// LoggingSettings configures the logger.
type LoggingSettings struct {
	// Level: trace, debug, info, warn, error.
	// Default: "info"
	Level string `yaml:"level"`

	// Format: "console", "json" or "auto" (console on a terminal).
	// Default: "auto"
	Format string `yaml:"format"`

	// Output: "stderr", "stdout" or a file path.
	// Default: "stderr"
	Output string `yaml:"output"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Defaults returns the built-in configuration.
func Defaults() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load builds the configuration from the config file and the environment.
//
// PARAMETERS:
//   - configPath: The YAML file to read. When empty, DefaultConfigFile is
//     read if it exists.
//
// RETURNS:
//   - The validated configuration.
//   - An error if an explicitly named file is missing or any source is invalid.
func Load(configPath string) (*Config, error) {
	path := configPath
	if path == "" {
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			path = DefaultConfigFile
		}
	}

	cfg := &Config{}
	if path != "" {
		loaded, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	loadEnvFiles()
	applyEnv(cfg, newEnv())

	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// LoadFile reads a YAML config file without environment overrides.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewFileNotFoundError("config", path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.NewConfigError(path, "failed to parse config file", err)
	}

	applyDefaults(&cfg)

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(cfg *Config) {
	if cfg.Paths.Table == "" {
		cfg.Paths.Table = "data/poi.csv"
	}
	if cfg.Paths.Geometry == "" {
		cfg.Paths.Geometry = "data/poi.geojson"
	}
	if cfg.Paths.Output == "" {
		cfg.Paths.Output = "data/poi_fixed.csv"
	}
	if cfg.Paths.Previous == "" {
		cfg.Paths.Previous = "data/data_bak.csv"
	}
	if cfg.Paths.GPX == "" {
		cfg.Paths.GPX = "data/poi.gpx"
	}

	if cfg.CSV.Delimiter == "" {
		cfg.CSV.Delimiter = ";"
	}
	if cfg.CSV.LineEnding == "" {
		cfg.CSV.LineEnding = LineEndingCRLF
	}
	if cfg.CSV.BOM == "" {
		cfg.CSV.BOM = BOMPreserve
	}

	defaults := columns.DefaultSynonyms()
	if len(cfg.Columns.Synonyms.Latitude) == 0 {
		cfg.Columns.Synonyms.Latitude = defaults.Latitude
	}
	if len(cfg.Columns.Synonyms.Longitude) == 0 {
		cfg.Columns.Synonyms.Longitude = defaults.Longitude
	}
	if len(cfg.Columns.Synonyms.ID) == 0 {
		cfg.Columns.Synonyms.ID = defaults.ID
	}
	if len(cfg.Columns.Synonyms.Title) == 0 {
		cfg.Columns.Synonyms.Title = defaults.Title
	}
	if len(cfg.Columns.Synonyms.TitleEN) == 0 {
		cfg.Columns.Synonyms.TitleEN = defaults.TitleEN
	}
	if len(cfg.Columns.Canonical) == 0 {
		cfg.Columns.Canonical = columns.CanonicalSchema()
	}
	if cfg.Columns.PositionalFallback == nil {
		cfg.Columns.PositionalFallback = boolPtr(true)
	}

	if len(cfg.Match.Strategies) == 0 {
		cfg.Match.Strategies = []string{"title", "title_en", "position"}
	}
	if cfg.Match.ExcelSafe == nil {
		cfg.Match.ExcelSafe = boolPtr(true)
	}

	if cfg.Geometry.Backup == "" {
		cfg.Geometry.Backup = BackupTimestamp
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "auto"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stderr"
	}
}

// Validate checks the enumerated settings.
func (c *Config) Validate() error {
	if !oneOf(c.CSV.LineEnding, LineEndingCRLF, LineEndingLF) {
		return errors.NewConfigError("csv.line_ending", fmt.Sprintf("unknown line ending %q (want crlf or lf)", c.CSV.LineEnding), nil)
	}
	if !oneOf(c.CSV.BOM, BOMPreserve, BOMAlways, BOMNever) {
		return errors.NewConfigError("csv.bom", fmt.Sprintf("unknown BOM policy %q (want preserve, always or never)", c.CSV.BOM), nil)
	}
	if !oneOf(c.Geometry.Backup, BackupTimestamp, BackupFixed, BackupNone) {
		return errors.NewConfigError("geometry.backup", fmt.Sprintf("unknown backup mode %q (want timestamp, fixed or none)", c.Geometry.Backup), nil)
	}
	if c.Geometry.BBox != "" {
		if _, err := coords.ParseBounds(c.Geometry.BBox); err != nil {
			return errors.NewConfigError("geometry.bbox", err.Error(), err)
		}
	}
	if !oneOf(c.Logging.Format, "auto", "console", "json", "text") {
		return errors.NewConfigError("logging.format", fmt.Sprintf("unknown log format %q", c.Logging.Format), nil)
	}
	return nil
}

// ColumnOptions returns the column resolver options.
func (c *Config) ColumnOptions() columns.Options {
	return columns.Options{
		Synonyms:           c.Columns.Synonyms,
		Canonical:          c.Columns.Canonical,
		PositionalFallback: c.Columns.PositionalFallback == nil || *c.Columns.PositionalFallback,
	}
}

// Bounds returns the configured bounding box, or nil when none is set.
func (c *Config) Bounds() (*coords.Bounds, error) {
	if c.Geometry.BBox == "" {
		return nil, nil
	}
	b, err := coords.ParseBounds(c.Geometry.BBox)
	if err != nil {
		return nil, errors.NewConfigError("geometry.bbox", err.Error(), err)
	}
	return &b, nil
}

// ExcelSafe reports whether written coordinates get an apostrophe prefix.
func (c *Config) ExcelSafe() bool {
	return c.Match.ExcelSafe == nil || *c.Match.ExcelSafe
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// loadEnvFiles loads environment variables from .env files.
// Variables that are already set are not overwritten.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}

func newEnv() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// applyEnv copies POITOOL_* variables over the file settings.
func applyEnv(cfg *Config, v *viper.Viper) {
	strs := map[string]*string{
		"paths.table":       &cfg.Paths.Table,
		"paths.geometry":    &cfg.Paths.Geometry,
		"paths.output":      &cfg.Paths.Output,
		"paths.previous":    &cfg.Paths.Previous,
		"paths.gpx":         &cfg.Paths.GPX,
		"csv.delimiter":     &cfg.CSV.Delimiter,
		"csv.line_ending":   &cfg.CSV.LineEnding,
		"csv.bom":           &cfg.CSV.BOM,
		"workbook.sheet":    &cfg.Workbook.Sheet,
		"geometry.backup":   &cfg.Geometry.Backup,
		"geometry.bbox":     &cfg.Geometry.BBox,
		"geometry.boundary": &cfg.Geometry.Boundary,
		"logging.level":     &cfg.Logging.Level,
		"logging.format":    &cfg.Logging.Format,
		"logging.output":    &cfg.Logging.Output,
	}
	for key, target := range strs {
		if v.IsSet(key) {
			*target = strings.TrimSpace(v.GetString(key))
		}
	}

	if v.IsSet("match.strategies") {
		cfg.Match.Strategies = splitList(v.GetString("match.strategies"))
	}
	if v.IsSet("match.excel_safe") {
		cfg.Match.ExcelSafe = boolPtr(v.GetBool("match.excel_safe"))
	}
	if v.IsSet("geometry.swap_suspicious") {
		cfg.Geometry.SwapSuspicious = v.GetBool("geometry.swap_suspicious")
	}
	if v.IsSet("columns.positional_fallback") {
		cfg.Columns.PositionalFallback = boolPtr(v.GetBool("columns.positional_fallback"))
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func oneOf(value string, allowed ...string) bool {
	for _, a := range allowed {
		if strings.EqualFold(value, a) {
			return true
		}
	}
	return false
}

func boolPtr(b bool) *bool {
	return &b
}

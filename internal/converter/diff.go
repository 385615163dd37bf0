package converter

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/ginjaninja78/poi-reconcile/internal/columns"
	"github.com/ginjaninja78/poi-reconcile/internal/coords"
	"github.com/ginjaninja78/poi-reconcile/internal/geometry"
	"github.com/ginjaninja78/poi-reconcile/internal/report"
	"github.com/ginjaninja78/poi-reconcile/internal/types"
)

// Diff statuses.
const (
	// StatusSame means the table spells the coordinates exactly like the
	// geometry file (an apostrophe prefix aside).
	StatusSame = "same"

	// StatusFormat means the table cells normalize to the geometry values but
	// are spelled differently, e.g. "52,4591" for 52.4591. Fix repairs these.
	StatusFormat = "format"

	// StatusChanged means the values differ.
	StatusChanged = "changed"

	// StatusMissingTable means the ID only exists in the geometry file.
	StatusMissingTable = "missing_in_table"

	// StatusMissingGeometry means the ID only exists in the table.
	StatusMissingGeometry = "missing_in_geometry"

	// StatusUnknown means a requested ID exists in neither file.
	StatusUnknown = "unknown"
)

// coordinateTolerance is the largest difference two coordinates may have and
// still be the same value. Well below GPS precision.
const coordinateTolerance = 1e-9

// DiffOptions selects the entries of a diff.
type DiffOptions struct {
	// IDs restricts the diff to these IDs, listed whatever their status.
	IDs []string

	// All lists identical entries too.
	All bool
}

// DiffEntry is the comparison of one ID.
type DiffEntry struct {
	ID     string `json:"id" yaml:"id"`
	Status string `json:"status" yaml:"status"`

	TableLatitude  string `json:"table_latitude" yaml:"table_latitude"`
	TableLongitude string `json:"table_longitude" yaml:"table_longitude"`

	GeometryLatitude  string `json:"geometry_latitude" yaml:"geometry_latitude"`
	GeometryLongitude string `json:"geometry_longitude" yaml:"geometry_longitude"`
}

// DiffResult is the comparison of a table with the geometry file.
type DiffResult struct {
	Table    string `json:"table" yaml:"table"`
	Geometry string `json:"geometry" yaml:"geometry"`

	// Compared is the number of IDs compared.
	Compared int `json:"compared" yaml:"compared"`

	// Differences is the number of compared IDs whose status is not "same".
	Differences int `json:"differences" yaml:"differences"`

	Entries []DiffEntry `json:"entries" yaml:"entries"`
}

// TableData implements report.Tabular.
func (r *DiffResult) TableData() report.Data {
	data := report.Data{
		Headers: []string{"ID", "Status", "Table Lat", "Table Lon", "Geo Lat", "Geo Lon"},
		Rows:    make([][]string, 0, len(r.Entries)),
	}
	for _, e := range r.Entries {
		data.Rows = append(data.Rows, []string{
			e.ID, e.Status,
			e.TableLatitude, e.TableLongitude,
			e.GeometryLatitude, e.GeometryLongitude,
		})
	}
	return data
}

// coordinatePair is one side of a comparison.
type coordinatePair struct {
	lat, lon string
}

// Diff compares the table's coordinates with the geometry file's, by ID.
//
// Table rows are keyed by their ID cell and features by their ID property.
// Without an ID (no ID column, or a feature without the property) the
// 1-based position is used instead, the same numbering the position match
// strategy relies on. When an ID occurs more than once the last occurrence
// is compared.
func (c *Converter) Diff(opts DiffOptions) (*DiffResult, error) {
	paths := c.cfg.Paths

	table, err := c.LoadTable(paths.Table)
	if err != nil {
		return nil, err
	}
	layout, err := c.resolveLayout(table)
	if err != nil {
		return nil, err
	}
	fc, err := c.loadGeometry(paths.Geometry)
	if err != nil {
		return nil, err
	}

	tableCoords := tableCoordinates(table, layout)
	geoCoords := geometryCoordinates(fc, c.cfg.Columns.Synonyms.ID)

	ids := opts.IDs
	if len(ids) == 0 {
		ids = unionIDs(tableCoords, geoCoords)
	}

	result := &DiffResult{
		Table:    paths.Table,
		Geometry: paths.Geometry,
		Entries:  make([]DiffEntry, 0),
	}

	for _, id := range ids {
		id = strings.TrimSpace(id)
		t, inTable := tableCoords[id]
		g, inGeo := geoCoords[id]

		entry := DiffEntry{
			ID:                id,
			TableLatitude:     t.lat,
			TableLongitude:    t.lon,
			GeometryLatitude:  g.lat,
			GeometryLongitude: g.lon,
		}
		switch {
		case !inTable && !inGeo:
			entry.Status = StatusUnknown
		case !inTable:
			entry.Status = StatusMissingTable
		case !inGeo:
			entry.Status = StatusMissingGeometry
		default:
			entry.Status = compareCoordinates(t, g)
		}

		result.Compared++
		if entry.Status != StatusSame {
			result.Differences++
		}
		if entry.Status == StatusSame && !opts.All && len(opts.IDs) == 0 {
			continue
		}
		result.Entries = append(result.Entries, entry)
	}

	c.logger.Info().
		Int("compared", result.Compared).
		Int("differences", result.Differences).
		Msg("Compared table with geometry")

	return result, nil
}

// compareCoordinates classifies a table pair against a geometry pair.
func compareCoordinates(t, g coordinatePair) string {
	if coords.StripExcelMarker(t.lat) == g.lat && coords.StripExcelMarker(t.lon) == g.lon {
		return StatusSame
	}
	if sameValue(t.lat, g.lat) && sameValue(t.lon, g.lon) {
		return StatusFormat
	}
	return StatusChanged
}

// sameValue reports whether a table cell normalizes to a geometry value.
func sameValue(cell, geo string) bool {
	want, err := strconv.ParseFloat(geo, 64)
	if err != nil {
		return false
	}
	got, ok := coords.Normalize(cell)
	return ok && math.Abs(got-want) <= coordinateTolerance
}

// tableCoordinates maps IDs to the raw coordinate cells of a table.
func tableCoordinates(table *types.Table, layout *columns.Layout) map[string]coordinatePair {
	out := make(map[string]coordinatePair)
	for n, row := range layout.DataRows(table.Rows) {
		id := table.Cell(row, layout.ID)
		if layout.ID < 0 || id == "" {
			id = strconv.Itoa(n + 1)
		}
		out[id] = coordinatePair{
			lat: table.Cell(row, layout.Latitude),
			lon: table.Cell(row, layout.Longitude),
		}
	}
	return out
}

// geometryCoordinates maps IDs to the coordinate text of each feature.
// Features without a point map to an empty pair.
func geometryCoordinates(fc *geometry.FeatureCollection, idKeys []string) map[string]coordinatePair {
	if len(idKeys) == 0 {
		idKeys = columns.DefaultSynonyms().ID
	}

	out := make(map[string]coordinatePair)
	for i, f := range fc.Features {
		id, ok := f.Properties.Lookup(idKeys)
		if !ok {
			id = strconv.Itoa(i + 1)
		}

		var pair coordinatePair
		if point, ok := f.Point(); ok {
			pair = coordinatePair{lat: point.Latitude.Text, lon: point.Longitude.Text}
		}
		out[strings.TrimSpace(id)] = pair
	}
	return out
}

// unionIDs returns the IDs of all maps, sorted with sortIDs.
func unionIDs(maps ...map[string]coordinatePair) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, m := range maps {
		for id := range m {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	sortIDs(ids)
	return ids
}

// sortIDs orders numeric IDs numerically, followed by the others in lexical
// order.
func sortIDs(ids []string) {
	sort.SliceStable(ids, func(i, j int) bool {
		a, aErr := strconv.Atoi(ids[i])
		b, bErr := strconv.Atoi(ids[j])
		switch {
		case aErr == nil && bErr == nil:
			return a < b
		case aErr == nil:
			return true
		case bErr == nil:
			return false
		default:
			return ids[i] < ids[j]
		}
	})
}

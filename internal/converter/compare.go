package converter

import (
	"github.com/ginjaninja78/poi-reconcile/internal/report"
)

// Compare statuses.
const (
	StatusAdded   = "added"
	StatusRemoved = "removed"
)

// CompareEntry is an ID whose coordinates differ between two tables.
type CompareEntry struct {
	ID     string `json:"id" yaml:"id"`
	Status string `json:"status" yaml:"status"`

	OldLatitude  string `json:"old_latitude" yaml:"old_latitude"`
	OldLongitude string `json:"old_longitude" yaml:"old_longitude"`
	NewLatitude  string `json:"new_latitude" yaml:"new_latitude"`
	NewLongitude string `json:"new_longitude" yaml:"new_longitude"`
}

// CompareResult lists the coordinate differences between two tables.
type CompareResult struct {
	Old string `json:"old" yaml:"old"`
	New string `json:"new" yaml:"new"`

	// Compared is the number of distinct IDs in both tables together.
	Compared int `json:"compared" yaml:"compared"`

	Entries []CompareEntry `json:"entries" yaml:"entries"`
}

// TableData implements report.Tabular.
func (r *CompareResult) TableData() report.Data {
	data := report.Data{
		Headers: []string{"ID", "Status", "Old Lat", "Old Lon", "New Lat", "New Lon"},
		Rows:    make([][]string, 0, len(r.Entries)),
	}
	for _, e := range r.Entries {
		data.Rows = append(data.Rows, []string{
			e.ID, e.Status,
			e.OldLatitude, e.OldLongitude,
			e.NewLatitude, e.NewLongitude,
		})
	}
	return data
}

// Compare lists the IDs whose raw coordinate cells differ between the
// previous table (paths.previous) and the current one (paths.table).
//
// Cells are compared as text, trimmed; "52,4591" and "52.4591" differ. Both
// files are required.
func (c *Converter) Compare() (*CompareResult, error) {
	paths := c.cfg.Paths

	oldTable, err := c.LoadTable(paths.Previous)
	if err != nil {
		return nil, err
	}
	oldLayout, err := c.resolveLayout(oldTable)
	if err != nil {
		return nil, err
	}
	newTable, err := c.LoadTable(paths.Table)
	if err != nil {
		return nil, err
	}
	newLayout, err := c.resolveLayout(newTable)
	if err != nil {
		return nil, err
	}

	before := tableCoordinates(oldTable, oldLayout)
	after := tableCoordinates(newTable, newLayout)
	ids := unionIDs(before, after)

	result := &CompareResult{
		Old:      paths.Previous,
		New:      paths.Table,
		Compared: len(ids),
		Entries:  make([]CompareEntry, 0),
	}

	for _, id := range ids {
		a, inOld := before[id]
		b, inNew := after[id]
		if inOld && inNew && a == b {
			continue
		}

		status := StatusChanged
		switch {
		case !inOld:
			status = StatusAdded
		case !inNew:
			status = StatusRemoved
		}
		result.Entries = append(result.Entries, CompareEntry{
			ID:           id,
			Status:       status,
			OldLatitude:  a.lat,
			OldLongitude: a.lon,
			NewLatitude:  b.lat,
			NewLongitude: b.lon,
		})
	}

	c.logger.Info().
		Int("compared", result.Compared).
		Int("differences", len(result.Entries)).
		Msg("Compared tables")

	return result, nil
}

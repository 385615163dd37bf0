package geometry

import (
	"github.com/ginjaninja78/poi-reconcile/internal/columns"
	"github.com/ginjaninja78/poi-reconcile/internal/types"
	"github.com/ginjaninja78/poi-reconcile/internal/validation"
)

// BuildOptions controls how a table is turned into features.
type BuildOptions struct {
	// SwapSuspicious exchanges latitude and longitude when they look swapped.
	SwapSuspicious bool

	// Region drops points outside of it when set.
	Region validation.Region
}

// BuildResult is a built collection with the rows that did not make it.
type BuildResult struct {
	Collection *FeatureCollection

	// Rows is the number of data rows considered.
	Rows int

	// Swapped is the number of rows whose coordinates were exchanged.
	Swapped int

	// Issues lists every problem found, warnings included. Rows with an
	// error-level issue are not in Collection.
	Issues []*validation.ValidationError
}

// Dropped returns the number of rows left out of the collection.
func (r *BuildResult) Dropped() int {
	return r.Rows - len(r.Collection.Features)
}

// Build creates one point feature per data row.
//
// Properties are keyed by header name in column order; empty cells become
// null and missing trailing cells are treated as empty. Rows whose
// coordinates do not normalize (or fall outside the region) are left out of
// the collection and reported in Issues. Duplicated header rows are skipped.
func Build(table *types.Table, layout *columns.Layout, opts BuildOptions) (*BuildResult, error) {
	validator := validation.NewValidator(validation.ValidationOptions{
		SwapSuspicious: opts.SwapSuspicious,
		Region:         opts.Region,
	})
	names := layout.PropertyNames()

	result := &BuildResult{
		Collection: &FeatureCollection{Features: make([]*Feature, 0, len(table.Rows))},
		Issues:     make([]*validation.ValidationError, 0),
	}

	for _, row := range layout.DataRows(table.Rows) {
		result.Rows++

		check := validator.CheckRow(row+1, table.Cell(row, layout.ID),
			table.Cell(row, layout.Latitude), table.Cell(row, layout.Longitude))
		result.Issues = append(result.Issues, check.Problems...)
		if check.Swapped {
			result.Swapped++
		}
		if !check.Valid {
			continue
		}

		feature, err := NewPointFeature(rowProperties(table.Rows[row], names), check.Longitude, check.Latitude)
		if err != nil {
			return nil, err
		}
		result.Collection.Features = append(result.Collection.Features, feature)
	}

	return result, nil
}

func rowProperties(row []string, names []string) *Properties {
	props := NewProperties()
	for i, name := range names {
		var value any
		if i < len(row) && row[i] != "" {
			value = row[i]
		}
		props.Set(name, value)
	}
	return props
}

package geometry

import (
	"fmt"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"

	"github.com/ginjaninja78/poi-reconcile/internal/errors"
)

// Boundary is an area made of one or more polygons, read from a GeoJSON
// file. A point is inside when it lies in the outer ring of any polygon and
// in none of that polygon's holes.
type Boundary struct {
	polygons []*geom.Polygon
}

// ReadBoundary loads every Polygon and MultiPolygon of a FeatureCollection.
func ReadBoundary(path string) (*Boundary, error) {
	fc, err := Read(path)
	if err != nil {
		return nil, err
	}
	return NewBoundary(fc)
}

// NewBoundary collects the polygons of a FeatureCollection.
// Other geometry types are ignored; a collection without polygons is invalid.
func NewBoundary(fc *FeatureCollection) (*Boundary, error) {
	b := &Boundary{}
	for i, f := range fc.Features {
		if f.Geometry == nil {
			continue
		}
		t, err := f.Geometry.Decode()
		if err != nil {
			return nil, fmt.Errorf("boundary feature %d: %w", i+1, err)
		}
		switch g := t.(type) {
		case *geom.Polygon:
			b.polygons = append(b.polygons, g)
		case *geom.MultiPolygon:
			for j := 0; j < g.NumPolygons(); j++ {
				b.polygons = append(b.polygons, g.Polygon(j))
			}
		}
	}
	if len(b.polygons) == 0 {
		return nil, fmt.Errorf("%w: boundary contains no polygons", errors.ErrInvalidInput)
	}
	return b, nil
}

// Contains reports whether the point lies inside the boundary.
func (b *Boundary) Contains(lat, lon float64) bool {
	point := geom.Coord{lon, lat}
	for _, p := range b.polygons {
		if p.NumLinearRings() == 0 {
			continue
		}
		if !xy.IsPointInRing(p.Layout(), point, p.LinearRing(0).FlatCoords()) {
			continue
		}
		inHole := false
		for k := 1; k < p.NumLinearRings(); k++ {
			if xy.IsPointInRing(p.Layout(), point, p.LinearRing(k).FlatCoords()) {
				inHole = true
				break
			}
		}
		if !inHole {
			return true
		}
	}
	return false
}

// Len returns the number of polygons.
func (b *Boundary) Len() int {
	return len(b.polygons)
}

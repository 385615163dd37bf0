// =============================================================================
// POI Reconcile - GeoJSON Document
// =============================================================================
//
// This module reads and writes the geometry file: a GeoJSON FeatureCollection
// of point features whose properties mirror the table columns.
//
// Point geometries are carried as go-geom's wire type so that coordinates keep
// their exact JSON text. A feature whose coordinates are null (or not a point)
// is kept in the collection as-is; Feature.Point reports it as having no
// position.
//
// OUTPUT FORMAT:
//   - Two-space indentation.
//   - Non-ASCII text and HTML characters written literally.
//   - Feature members in the order type, properties, geometry.
//
// =============================================================================

package geometry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/ginjaninja78/poi-reconcile/internal/coords"
	"github.com/ginjaninja78/poi-reconcile/internal/errors"
	"github.com/ginjaninja78/poi-reconcile/internal/types"
)

const (
	typeFeature           = "Feature"
	typeFeatureCollection = "FeatureCollection"
	typePoint             = "Point"
)

// =============================================================================
// DOCUMENT TYPES
// =============================================================================

// Feature is a single geometry record.
type Feature struct {
	Properties *Properties
	Geometry   *geojson.Geometry
}

// FeatureCollection is the whole geometry file.
type FeatureCollection struct {
	Features []*Feature
}

type featureJSON struct {
	Type       string            `json:"type"`
	Properties *Properties       `json:"properties"`
	Geometry   *geojson.Geometry `json:"geometry"`
}

type collectionJSON struct {
	Type     string         `json:"type"`
	Features []*featureJSON `json:"features"`
}

// NewPointFeature creates a feature with a point geometry at lon/lat.
func NewPointFeature(props *Properties, lon, lat float64) (*Feature, error) {
	g, err := geojson.Encode(geom.NewPointFlat(geom.XY, []float64{lon, lat}))
	if err != nil {
		return nil, fmt.Errorf("encode point: %w", err)
	}
	if props == nil {
		props = NewProperties()
	}
	return &Feature{Properties: props, Geometry: g}, nil
}

// Point returns the feature's coordinates.
//
// RETURNS:
//   - The longitude/latitude pair with the exact JSON text of each value.
//   - false when the geometry is missing, is not a point, or either
//     coordinate is null or non-numeric.
func (f *Feature) Point() (types.Point, bool) {
	if f == nil || f.Geometry == nil || f.Geometry.Type != typePoint || f.Geometry.Coordinates == nil {
		return types.Point{}, false
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(*f.Geometry.Coordinates, &raw); err != nil || len(raw) < 2 {
		return types.Point{}, false
	}
	for _, r := range raw[:2] {
		if string(bytes.TrimSpace(r)) == "null" {
			return types.Point{}, false
		}
	}

	t, err := f.Geometry.Decode()
	if err != nil {
		return types.Point{}, false
	}
	p, ok := t.(*geom.Point)
	if !ok || len(p.FlatCoords()) < 2 {
		return types.Point{}, false
	}

	lon, lat := p.X(), p.Y()
	if math.IsNaN(lon) || math.IsNaN(lat) || math.IsInf(lon, 0) || math.IsInf(lat, 0) {
		return types.Point{}, false
	}

	return types.Point{
		Longitude: types.Coordinate{Value: lon, Text: coordinateText(raw[0], lon)},
		Latitude:  types.Coordinate{Value: lat, Text: coordinateText(raw[1], lat)},
	}, true
}

// coordinateText returns the number as it is spelled in the document.
// Exponent notation is re-rendered in plain decimal form.
func coordinateText(raw json.RawMessage, v float64) string {
	text := string(bytes.TrimSpace(raw))
	if strings.ContainsAny(text, "eE") {
		return coords.Format(v)
	}
	return text
}

// =============================================================================
// READING
// =============================================================================

// Read loads a FeatureCollection from a file.
// A missing file is reported as a FileNotFoundError.
func Read(path string) (*FeatureCollection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewFileNotFoundError("geometry", path)
		}
		return nil, fmt.Errorf("failed to read geometry file: %w", err)
	}

	fc, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return fc, nil
}

// Decode parses a FeatureCollection document.
func Decode(r io.Reader) (*FeatureCollection, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var doc collectionJSON
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	if doc.Type != "" && doc.Type != typeFeatureCollection {
		return nil, fmt.Errorf("%w: expected %s, got %s", errors.ErrInvalidInput, typeFeatureCollection, doc.Type)
	}

	fc := &FeatureCollection{Features: make([]*Feature, 0, len(doc.Features))}
	for _, f := range doc.Features {
		if f == nil {
			continue
		}
		props := f.Properties
		if props == nil {
			props = NewProperties()
		}
		fc.Features = append(fc.Features, &Feature{Properties: props, Geometry: f.Geometry})
	}
	return fc, nil
}

// =============================================================================
// WRITING
// =============================================================================

// Write saves a FeatureCollection, creating the parent directory if needed.
func Write(path string, fc *FeatureCollection) error {
	var buf bytes.Buffer
	if err := Encode(&buf, fc); err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write geometry file: %w", err)
	}
	return nil
}

// Encode writes a FeatureCollection document.
func Encode(w io.Writer, fc *FeatureCollection) error {
	doc := collectionJSON{
		Type:     typeFeatureCollection,
		Features: make([]*featureJSON, 0, len(fc.Features)),
	}
	for _, f := range fc.Features {
		props := f.Properties
		if props == nil {
			props = NewProperties()
		}
		doc.Features = append(doc.Features, &featureJSON{
			Type:       typeFeature,
			Properties: props,
			Geometry:   f.Geometry,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode geometry: %w", err)
	}
	return nil
}

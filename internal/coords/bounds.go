package coords

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// swapThreshold separates latitudes from longitudes for the swap heuristic.
// Tuned for central Europe, where latitudes are well above it and longitudes
// well below it.
const swapThreshold = 35

// Bounds is a longitude/latitude bounding box.
type Bounds struct {
	MinLon float64
	MinLat float64
	MaxLon float64
	MaxLat float64
}

// ParseBounds parses "minLon,minLat,maxLon,maxLat".
func ParseBounds(s string) (Bounds, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return Bounds{}, fmt.Errorf("bounding box needs 4 values (minLon,minLat,maxLon,maxLat), got %d", len(parts))
	}

	var vals [4]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
			return Bounds{}, fmt.Errorf("invalid bounding box value %q", p)
		}
		vals[i] = v
	}

	b := Bounds{MinLon: vals[0], MinLat: vals[1], MaxLon: vals[2], MaxLat: vals[3]}
	if b.MinLon >= b.MaxLon || b.MinLat >= b.MaxLat {
		return Bounds{}, fmt.Errorf("empty bounding box %q", s)
	}
	return b, nil
}

// Contains reports whether the point lies inside the box, edges included.
func (b Bounds) Contains(lat, lon float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lon >= b.MinLon && lon <= b.MaxLon
}

// String returns the box in the same form ParseBounds accepts.
func (b Bounds) String() string {
	return strings.Join([]string{Format(b.MinLon), Format(b.MinLat), Format(b.MaxLon), Format(b.MaxLat)}, ",")
}

// LooksSwapped reports whether a latitude/longitude pair was most likely
// entered in the wrong columns.
func LooksSwapped(lat, lon float64) bool {
	return math.Abs(lat) <= swapThreshold && math.Abs(lon) >= swapThreshold
}

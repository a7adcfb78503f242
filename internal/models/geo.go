package models

import (
	"fmt"
	"math"
)

// BoundingBox is a rectangular map viewport in WGS-84 degrees.
type BoundingBox struct {
	North float64 `json:"north"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	West  float64 `json:"west"`
}

// Validate checks edge ordering and that all edges are finite.
// Wraparound boxes (east < west across the antimeridian) are rejected.
func (b BoundingBox) Validate() error {
	for _, v := range []float64{b.North, b.South, b.East, b.West} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("bounding box edge is not finite")
		}
	}
	if b.North <= b.South {
		return fmt.Errorf("north (%v) must be greater than south (%v)", b.North, b.South)
	}
	if b.East <= b.West {
		return fmt.Errorf("east (%v) must be greater than west (%v)", b.East, b.West)
	}
	return nil
}

// CacheKey rounds each edge to 3 decimal places (~111m at the equator) so
// viewports that pan by less than that collapse to the same key.
func (b BoundingBox) CacheKey() string {
	return fmt.Sprintf("%.3f,%.3f,%.3f,%.3f", b.North, b.South, b.East, b.West)
}

// ValidCoordinate reports whether lat/lon are finite and within range.
func ValidCoordinate(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lon) || math.IsInf(lon, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

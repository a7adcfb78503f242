// Package proximity links alerts to their nearest loaded shelter for
// display ("nearest shelter: X, 240 m away").
package proximity

import (
	"fmt"

	"streetaid/internal/models"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

// DistanceFunc returns the distance in meters between two coordinates.
// Injectable so tests and alternate projections can supply their own.
type DistanceFunc func(lat1, lon1, lat2, lon2 float64) float64

// Haversine is the default great-circle distance.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	return geo.Distance(orb.Point{lon1, lat1}, orb.Point{lon2, lat2})
}

// Annotate computes, for every alert with valid coordinates, the closest
// shelter by the supplied distance function. Ties keep the first shelter
// encountered. With no shelters loaded every alert gets a nil shelter.
// Recomputed from scratch on each call; viewport cardinalities are tens,
// not thousands, so the O(alerts x shelters) scan is fine.
func Annotate(alerts []models.Alert, shelters []models.ShelterRecord, dist DistanceFunc) map[string]models.NearestShelter {
	if dist == nil {
		dist = Haversine
	}

	out := make(map[string]models.NearestShelter, len(alerts))
	for _, alert := range alerts {
		if !models.ValidCoordinate(alert.Latitude, alert.Longitude) {
			continue
		}

		var nearest *models.ShelterRecord
		var nearestDist float64
		for i := range shelters {
			s := &shelters[i]
			if !models.ValidCoordinate(s.Latitude, s.Longitude) {
				continue
			}
			d := dist(alert.Latitude, alert.Longitude, s.Latitude, s.Longitude)
			if nearest == nil || d < nearestDist {
				nearest = s
				nearestDist = d
			}
		}

		ann := models.NearestShelter{}
		if nearest != nil {
			ann.Shelter = nearest
			d := nearestDist
			ann.DistanceMeters = &d
			ann.Distance = FormatDistance(d)
		}
		out[alert.ID.String()] = ann
	}
	return out
}

// FormatDistance renders a distance for the map popup. Whole meters below
// 100m, two-decimal kilometers up to 1km, one-decimal kilometers beyond.
// Finer precision only matters at short range.
func FormatDistance(meters float64) string {
	switch {
	case meters < 100:
		return fmt.Sprintf("%.0f m away", meters)
	case meters < 1000:
		return fmt.Sprintf("%.2f km away", meters/1000)
	default:
		return fmt.Sprintf("%.1f km away", meters/1000)
	}
}

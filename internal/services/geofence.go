package services

import (
	"math"

	"sealed-pack-tracking-service/internal/domain"
)

const earthRadiusMeters = 6371000.0

// Great-circle distance between two coordinates in meters (haversine).
func HaversineMeters(a, b domain.Coordinates) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLon*sinLon

	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(h))
}

// Report whether point lies within radiusMeters of center.
//
// A nil center means the task has no reference point configured for this check;
// the geofence is skipped and the point always passes, so a deployment can run
// a task without location enforcement. Pure function, no I/O.
func WithinGeofence(center *domain.Coordinates, radiusMeters float64, point domain.Coordinates) bool {
	if center == nil {
		return true
	}
	return HaversineMeters(*center, point) <= radiusMeters
}

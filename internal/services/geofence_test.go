package services

import (
	"testing"

	"sealed-pack-tracking-service/internal/domain"
)

func TestHaversineMetersZeroDistance(t *testing.T) {
	p := domain.Coordinates{Lat: 25.6747, Lon: 94.1086}
	if d := HaversineMeters(p, p); d != 0 {
		t.Fatalf("distance to self = %v, want 0", d)
	}
}

func TestHaversineMetersKnownDistance(t *testing.T) {
	paris := domain.Coordinates{Lat: 48.8566, Lon: 2.3522}
	london := domain.Coordinates{Lat: 51.5074, Lon: -0.1278}

	// Great-circle distance Paris -> London is roughly 343.5 km.
	d := HaversineMeters(paris, london)
	if d < 340000 || d > 347000 {
		t.Fatalf("distance = %v m, want ~343500 m", d)
	}

	if back := HaversineMeters(london, paris); back != d {
		t.Errorf("distance not symmetric: %v vs %v", d, back)
	}
}

func TestHaversineMetersShortDistance(t *testing.T) {
	center := domain.Coordinates{Lat: 25.6747, Lon: 94.1086}
	// 0.0045 degrees of latitude is close to 500 m.
	nearby := domain.Coordinates{Lat: 25.6792, Lon: 94.1086}

	d := HaversineMeters(center, nearby)
	if d < 480 || d > 520 {
		t.Fatalf("distance = %v m, want ~500 m", d)
	}
}

func TestWithinGeofence(t *testing.T) {
	center := domain.Coordinates{Lat: 25.6747, Lon: 94.1086}
	nearby := domain.Coordinates{Lat: 25.6792, Lon: 94.1086} // ~500 m away

	if !WithinGeofence(&center, 100, center) {
		t.Error("point at center should be inside any radius")
	}
	if WithinGeofence(&center, 100, nearby) {
		t.Error("point 500 m away should be outside a 100 m fence")
	}
	if !WithinGeofence(&center, 600, nearby) {
		t.Error("point 500 m away should be inside a 600 m fence")
	}
}

func TestWithinGeofenceNilCenterAlwaysPasses(t *testing.T) {
	point := domain.Coordinates{Lat: -89.9, Lon: 179.9}
	if !WithinGeofence(nil, 10, point) {
		t.Fatal("nil center must skip the geofence check")
	}
}

// If a point is inside a fence it stays inside for every larger radius.
func TestWithinGeofenceMonotonicInRadius(t *testing.T) {
	center := domain.Coordinates{Lat: 25.6747, Lon: 94.1086}
	point := domain.Coordinates{Lat: 25.6756, Lon: 94.1095} // ~135 m away

	inside := false
	for r := 10.0; r <= 1000; r += 10 {
		got := WithinGeofence(&center, r, point)
		if inside && !got {
			t.Fatalf("point left the fence when radius grew to %v m", r)
		}
		if got {
			inside = true
		}
	}
	if !inside {
		t.Fatal("point never entered the fence below the maximum radius")
	}
}

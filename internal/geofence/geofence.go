// Package geofence holds the geometry behind attendance validation: great-circle distance,
// inclusive radius checks, and a circle polygon for map display.
package geofence

import (
	"errors"
	"fmt"
	"math"
)

// EarthRadiusMeters is the IUGG mean Earth radius.
const EarthRadiusMeters = 6371008.8

const (
	DefaultSegments = 64
	MinSegments     = 32
	MaxSegments     = 360
)

var ErrInvalidPoint = errors.New("invalid coordinates")

// Point is a WGS84 coordinate in decimal degrees.
type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (p Point) Validate() error {
	if math.IsNaN(p.Latitude) || math.IsNaN(p.Longitude) ||
		p.Latitude < -90 || p.Latitude > 90 ||
		p.Longitude < -180 || p.Longitude > 180 {
		return fmt.Errorf("%w: latitude=%v longitude=%v", ErrInvalidPoint, p.Latitude, p.Longitude)
	}
	return nil
}

// Distance returns the haversine distance between a and b in meters.
func Distance(a, b Point) float64 {
	lat1 := toRadians(a.Latitude)
	lat2 := toRadians(b.Latitude)
	dLat := lat2 - lat1
	dLon := toRadians(b.Longitude - a.Longitude)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLon*sinLon
	if h > 1 {
		h = 1
	}
	return 2 * EarthRadiusMeters * math.Asin(math.Sqrt(h))
}

// WithinRadius reports whether p lies inside or exactly on the circle.
func WithinRadius(p, center Point, radiusMeters float64) bool {
	return Distance(p, center) <= radiusMeters
}

// Destination moves from origin along bearingDeg (clockwise from north) by distanceMeters.
func Destination(origin Point, bearingDeg, distanceMeters float64) Point {
	delta := distanceMeters / EarthRadiusMeters
	theta := toRadians(bearingDeg)
	lat1 := toRadians(origin.Latitude)
	lon1 := toRadians(origin.Longitude)

	lat2 := math.Asin(math.Sin(lat1)*math.Cos(delta) + math.Cos(lat1)*math.Sin(delta)*math.Cos(theta))
	lon2 := lon1 + math.Atan2(
		math.Sin(theta)*math.Sin(delta)*math.Cos(lat1),
		math.Cos(delta)-math.Sin(lat1)*math.Sin(lat2),
	)

	return Point{
		Latitude:  toDegrees(lat2),
		Longitude: normalizeLongitude(toDegrees(lon2)),
	}
}

// CirclePolygon approximates the geofence as a closed ring of segments+1 points,
// the first point repeated last. Display only; validation never uses it.
func CirclePolygon(center Point, radiusMeters float64, segments int) []Point {
	if segments < MinSegments {
		segments = MinSegments
	}
	if segments > MaxSegments {
		segments = MaxSegments
	}

	ring := make([]Point, 0, segments+1)
	for i := 0; i < segments; i++ {
		bearing := 360 * float64(i) / float64(segments)
		ring = append(ring, Destination(center, bearing, radiusMeters))
	}
	return append(ring, ring[0])
}

func toRadians(deg float64) float64 { return deg * math.Pi / 180 }

func toDegrees(rad float64) float64 { return rad * 180 / math.Pi }

func normalizeLongitude(lon float64) float64 {
	for lon > 180 {
		lon -= 360
	}
	for lon < -180 {
		lon += 360
	}
	return lon
}

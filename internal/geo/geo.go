// Package geo provides the projected-distance math used by discovery filters
// and check-in proximity checks. Coordinates are transformed to spherical
// (web) Mercator before measuring, so comparisons against fixed-meter
// thresholds hold at city scale; raw lat/lon degrees are never compared.
package geo

import (
	"errors"
	"math"
)

var ErrInvalidCoordinate = errors.New("invalid coordinate")

const earthRadius = 6378137.0 // meters, WGS84 equatorial

// MetersPerMile for converting configured mile radii into meters.
const MetersPerMile = 1609.344

type Point struct {
	Lat float64
	Lon float64
}

// NewPoint validates latitude within [-90, 90] and longitude within
// [-180, 180].
func NewPoint(lat, lon float64) (Point, error) {
	if math.IsNaN(lat) || math.IsNaN(lon) || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return Point{}, ErrInvalidCoordinate
	}
	return Point{Lat: lat, Lon: lon}, nil
}

// projected holds a point transformed to web Mercator, in meters.
type projected struct {
	x float64
	y float64
}

func project(p Point) projected {
	x := earthRadius * p.Lon * math.Pi / 180
	y := earthRadius * math.Log(math.Tan(math.Pi/4+p.Lat*math.Pi/360))
	return projected{x: x, y: y}
}

// Distance returns the planar distance in meters between two points after
// projecting both to web Mercator.
func Distance(a, b Point) float64 {
	pa := project(a)
	pb := project(b)
	return math.Hypot(pa.x-pb.x, pa.y-pb.y)
}

// Within reports whether p lies inside radiusMeters of center, using
// projected distance.
func Within(p, center Point, radiusMeters float64) bool {
	return Distance(p, center) <= radiusMeters
}

// MilesToMeters converts a radius given in miles.
func MilesToMeters(miles float64) float64 {
	return miles * MetersPerMile
}

// BoundingBox returns a lat/lon window that contains the circle of
// radiusMeters around center. Used as a coarse SQL prefilter before the
// exact projected-distance check.
func BoundingBox(center Point, radiusMeters float64) (minLat, maxLat, minLon, maxLon float64) {
	dLat := radiusMeters / earthRadius * 180 / math.Pi
	// Longitude degrees shrink with latitude; guard the poles.
	cosLat := math.Cos(center.Lat * math.Pi / 180)
	if cosLat < 0.01 {
		cosLat = 0.01
	}
	dLon := dLat / cosLat
	minLat = math.Max(center.Lat-dLat, -90)
	maxLat = math.Min(center.Lat+dLat, 90)
	minLon = math.Max(center.Lon-dLon, -180)
	maxLon = math.Min(center.Lon+dLon, 180)
	return
}

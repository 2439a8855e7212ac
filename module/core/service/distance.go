package service

import (
	"fmt"
	"math"

	"github.com/nandanugg/walkarea/module/core/domain"
)

const earthRadiusMeters = 6371000

// DistanceFunc returns the distance in meters between two points.
type DistanceFunc func(from, to domain.GeoPoint) (float64, error)

// DistanceModel returns the distance function registered under name.
func DistanceModel(name string) (DistanceFunc, error) {
	switch name {
	case "", "haversine":
		return HaversineDistance, nil
	case "planar":
		return PlanarDistance, nil
	default:
		return nil, fmt.Errorf("unknown distance model %q", name)
	}
}

func HaversineDistance(from, to domain.GeoPoint) (float64, error) {
	if err := validatePoint(from); err != nil {
		return 0, err
	}
	if err := validatePoint(to); err != nil {
		return 0, err
	}
	return haversine(from.Lat, from.Lon, to.Lat, to.Lon), nil
}

// PlanarDistance treats Lat and Lon as cartesian x and y.
func PlanarDistance(from, to domain.GeoPoint) (float64, error) {
	d := math.Hypot(to.Lat-from.Lat, to.Lon-from.Lon)
	if math.IsNaN(d) || math.IsInf(d, 0) {
		return 0, fmt.Errorf("%w: (%v, %v) -> (%v, %v)", domain.ErrInvalidCoordinate, from.Lat, from.Lon, to.Lat, to.Lon)
	}
	return d, nil
}

func validatePoint(p domain.GeoPoint) error {
	if math.IsNaN(p.Lat) || p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("%w: latitude %v", domain.ErrInvalidCoordinate, p.Lat)
	}
	if math.IsNaN(p.Lon) || p.Lon < -180 || p.Lon > 180 {
		return fmt.Errorf("%w: longitude %v", domain.ErrInvalidCoordinate, p.Lon)
	}
	return nil
}

func haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusMeters * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}

func toDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}

package service

import (
	"fmt"
	"math"

	"github.com/twpayne/go-geom"

	"github.com/nandanugg/walkarea/module/core/domain"
)

const (
	wgs84SRID              = 4326
	defaultOverlaySegments = 64
	regionMargin           = 0.05
)

// RegionSpan is the side, in meters, of a square map region big enough to host
// a walking area of the given radius.
func RegionSpan(radius float64) float64 {
	return radius*2 + radius*regionMargin
}

// CircleOverlay approximates the walking area as a closed polygon with the
// given number of vertices. Coordinates are (lon, lat).
func CircleOverlay(home domain.GeoPoint, radius float64, segments int) (*geom.Polygon, error) {
	if !(radius > 0) {
		return nil, fmt.Errorf("%w: got %v", domain.ErrInvalidRadius, radius)
	}
	if err := validatePoint(home); err != nil {
		return nil, err
	}
	if segments < 3 {
		segments = defaultOverlaySegments
	}

	ring := make([]geom.Coord, 0, segments+1)
	for i := 0; i < segments; i++ {
		bearing := 2 * math.Pi * float64(i) / float64(segments)
		p := destination(home, radius, bearing)
		ring = append(ring, geom.Coord{p.Lon, p.Lat})
	}
	ring = append(ring, ring[0])

	poly, err := geom.NewPolygon(geom.XY).SetCoords([][]geom.Coord{ring})
	if err != nil {
		return nil, fmt.Errorf("build overlay polygon: %w", err)
	}
	return poly.SetSRID(wgs84SRID), nil
}

// HomeMarker is the annotation point drawn at the center of the walking area.
func HomeMarker(home domain.GeoPoint) *geom.Point {
	return geom.NewPointFlat(geom.XY, []float64{home.Lon, home.Lat}).SetSRID(wgs84SRID)
}

func destination(from domain.GeoPoint, meters, bearing float64) domain.GeoPoint {
	delta := meters / earthRadiusMeters
	lat1 := toRad(from.Lat)
	lon1 := toRad(from.Lon)

	lat2 := math.Asin(math.Sin(lat1)*math.Cos(delta) + math.Cos(lat1)*math.Sin(delta)*math.Cos(bearing))
	lon2 := lon1 + math.Atan2(
		math.Sin(bearing)*math.Sin(delta)*math.Cos(lat1),
		math.Cos(delta)-math.Sin(lat1)*math.Sin(lat2),
	)
	// normalise to [-180, 180)
	lon2 = math.Mod(lon2+3*math.Pi, 2*math.Pi) - math.Pi

	return domain.GeoPoint{Lat: toDeg(lat2), Lon: toDeg(lon2)}
}

package geodesy

import (
	"errors"
	"math"
)

// RoutePoints is a reference polyline with coordinates pre-converted to
// radians, so one set of trig terms is derived per query point rather than
// per pair. Read-only after construction, safe for concurrent queries.
type RoutePoints struct {
	latRad []float64
	lonRad []float64
}

var ErrNoRoutePoints = errors.New("route has no valid reference points")

func NewRoutePoints(points []Point) (*RoutePoints, error) {
	if len(points) == 0 {
		return nil, ErrNoRoutePoints
	}

	route := &RoutePoints{
		latRad: make([]float64, len(points)),
		lonRad: make([]float64, len(points)),
	}
	for i, p := range points {
		route.latRad[i] = radians(p.Lat)
		route.lonRad[i] = radians(p.Lon)
	}

	return route, nil
}

func (r *RoutePoints) Len() int {
	return len(r.latRad)
}

// MinDistance returns the minimum haversine distance in metres from p to any
// of the reference points.
func (r *RoutePoints) MinDistance(p Point) float64 {
	latRad := radians(p.Lat)
	lonRad := radians(p.Lon)
	cosLat := math.Cos(latRad)

	min := math.Inf(1)
	for i := range r.latRad {
		sinDLat := math.Sin((latRad - r.latRad[i]) / 2)
		sinDLon := math.Sin((lonRad - r.lonRad[i]) / 2)
		a := sinDLat*sinDLat + cosLat*math.Cos(r.latRad[i])*sinDLon*sinDLon

		d := EarthRadiusMetres * 2 * math.Asin(math.Min(1, math.Sqrt(a)))
		if d < min {
			min = d
		}
	}

	return min
}

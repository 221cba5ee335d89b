package geodesy

import "math"

const EarthRadiusMetres = 6371000.0

// Point is a WGS84 coordinate in decimal degrees.
type Point struct {
	Lat float64
	Lon float64
}

// Haversine returns the great-circle distance between two points in metres.
// The sqrt argument can overshoot 1 by a few ulps for near-antipodal pairs,
// so it is clamped before asin.
func Haversine(p1 Point, p2 Point) float64 {
	lat1 := radians(p1.Lat)
	lat2 := radians(p2.Lat)
	dLat := radians(p2.Lat - p1.Lat)
	dLon := radians(p2.Lon - p1.Lon)

	sinDLat := math.Sin(dLat / 2)
	sinDLon := math.Sin(dLon / 2)
	a := sinDLat*sinDLat + math.Cos(lat1)*math.Cos(lat2)*sinDLon*sinDLon

	return EarthRadiusMetres * 2 * math.Asin(math.Min(1, math.Sqrt(a)))
}

// Bearing returns the initial bearing from p1 to p2 in degrees [0, 360).
func Bearing(p1 Point, p2 Point) float64 {
	lat1 := radians(p1.Lat)
	lat2 := radians(p2.Lat)
	dLon := radians(p2.Lon - p1.Lon)

	x := math.Sin(dLon) * math.Cos(lat2)
	y := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)

	return math.Mod(degrees(math.Atan2(x, y))+360, 360)
}

// LocalXY projects p into an equirectangular tangent plane centred on origin,
// returning metres east and north. Only valid for spans of a few hundred
// metres around the origin.
func LocalXY(p Point, origin Point) (float64, float64) {
	k := (math.Pi / 180) * EarthRadiusMetres
	x := (p.Lon - origin.Lon) * math.Cos(radians(origin.Lat)) * k
	y := (p.Lat - origin.Lat) * k
	return x, y
}

// SegmentDistanceFromOrigin returns the shortest distance in metres from the
// local-plane origin to the segment (x0,y0)-(x1,y1). The projection parameter
// is clamped to [0,1] so the answer never leaves the segment.
func SegmentDistanceFromOrigin(x0, y0, x1, y1 float64) float64 {
	dx := x1 - x0
	dy := y1 - y0
	if dx == 0 && dy == 0 {
		return math.Hypot(x0, y0)
	}

	t := -(x0*dx + y0*dy) / (dx*dx + dy*dy)
	t = math.Max(0, math.Min(1, t))

	return math.Hypot(x0+t*dx, y0+t*dy)
}

// PointToSegmentDistance returns the distance in metres from origin to the
// segment a-b, measured in the tangent plane centred on origin.
func PointToSegmentDistance(origin Point, a Point, b Point) float64 {
	ax, ay := LocalXY(a, origin)
	bx, by := LocalXY(b, origin)
	return SegmentDistanceFromOrigin(ax, ay, bx, by)
}

// AngleDifference returns the absolute circular difference between two
// bearings in degrees, always in [0, 180].
func AngleDifference(a float64, b float64) float64 {
	d := math.Mod(a-b+180, 360)
	if d < 0 {
		d += 360
	}
	return math.Abs(d - 180)
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

func degrees(rad float64) float64 { return rad * 180 / math.Pi }

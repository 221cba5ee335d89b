package match

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripmatch/tripmatch/pkg/geodesy"
	"github.com/tripmatch/tripmatch/pkg/probe"
	"github.com/tripmatch/tripmatch/pkg/trips"
)

func coordRecords(points []geodesy.Point) []probe.Record {
	records := make([]probe.Record, len(points))
	for i, p := range points {
		records[i] = probe.Record{Index: i, Lat: p.Lat, Lon: p.Lon, CoordsValid: true}
	}
	return records
}

func wholeFile(records []probe.Record) trips.Segment {
	return trips.Segment{Start: 0, End: len(records)}
}

func testRoute(t *testing.T) *geodesy.RoutePoints {
	t.Helper()
	route, err := geodesy.NewRoutePoints([]geodesy.Point{
		{Lat: 35.0, Lon: 135.0},
		{Lat: 35.001, Lon: 135.001},
		{Lat: 35.002, Lon: 135.002},
	})
	require.NoError(t, err)
	return route
}

func TestRouteMatcherHitsThreshold(t *testing.T) {
	route := testRoute(t)

	// Two fixes sit within ~10 m of reference points, one is far away
	records := coordRecords([]geodesy.Point{
		{Lat: 35.00005, Lon: 135.0},
		{Lat: 35.00105, Lon: 135.001},
		{Lat: 35.5, Lon: 135.5},
	})

	matcher := NewRouteMatcher(route, Options{ThresholdMetres: 15, MinHits: 2})
	result := matcher.MatchSegment(records, wholeFile(records))

	assert.True(t, result.Matched)
	assert.Equal(t, 2, result.PointHits)
	assert.Less(t, result.MinDistanceMetres, 15.0)
}

func TestRouteMatcherBelowMinHits(t *testing.T) {
	route := testRoute(t)

	records := coordRecords([]geodesy.Point{
		{Lat: 35.00005, Lon: 135.0},
		{Lat: 35.5, Lon: 135.5},
	})

	matcher := NewRouteMatcher(route, Options{ThresholdMetres: 15, MinHits: 2})
	result := matcher.MatchSegment(records, wholeFile(records))

	assert.False(t, result.Matched)
	assert.Equal(t, 1, result.PointHits)
}

func TestRouteMatcherThresholdMonotonic(t *testing.T) {
	route := testRoute(t)
	records := coordRecords([]geodesy.Point{
		{Lat: 35.0002, Lon: 135.0},
		{Lat: 35.0012, Lon: 135.001},
	})

	tight := NewRouteMatcher(route, Options{ThresholdMetres: 5, MinHits: 2})
	loose := NewRouteMatcher(route, Options{ThresholdMetres: 50, MinHits: 2})

	assert.False(t, tight.MatchSegment(records, wholeFile(records)).Matched)
	assert.True(t, loose.MatchSegment(records, wholeFile(records)).Matched)
}

func TestRouteMatcherSkipsInvalidCoords(t *testing.T) {
	route := testRoute(t)
	records := []probe.Record{
		{CoordsValid: false},
		{CoordsValid: false},
	}

	matcher := NewRouteMatcher(route, Options{ThresholdMetres: 15, MinHits: 1})
	result := matcher.MatchSegment(records, wholeFile(records))

	assert.False(t, result.Matched)
	assert.Equal(t, 0, result.PointHits)
	assert.True(t, math.IsInf(result.MinDistanceMetres, 1))
}

func TestRouteMatcherWeekdayScreening(t *testing.T) {
	route := testRoute(t)

	// 2025-02-24 is a Monday (weekday 2)
	records := coordRecords([]geodesy.Point{
		{Lat: 35.0, Lon: 135.0},
		{Lat: 35.001, Lon: 135.001},
	})
	for i := range records {
		records[i].Timestamp = time.Date(2025, 2, 24, 12, 0, 0, 0, time.UTC)
		records[i].TimestampValid = true
	}

	monOnly := NewRouteMatcher(route, Options{ThresholdMetres: 15, MinHits: 2, Weekdays: []int{2}})
	sunOnly := NewRouteMatcher(route, Options{ThresholdMetres: 15, MinHits: 2, Weekdays: []int{1}})

	assert.True(t, monOnly.MatchSegment(records, wholeFile(records)).Matched)
	assert.False(t, sunOnly.MatchSegment(records, wholeFile(records)).Matched)
}

func TestRouteMatcherRespectsSegmentBounds(t *testing.T) {
	route := testRoute(t)
	records := coordRecords([]geodesy.Point{
		{Lat: 35.0, Lon: 135.0},
		{Lat: 35.001, Lon: 135.001},
		{Lat: 35.5, Lon: 135.5},
		{Lat: 35.5, Lon: 135.5},
	})

	matcher := NewRouteMatcher(route, Options{ThresholdMetres: 15, MinHits: 1})
	result := matcher.MatchSegment(records, trips.Segment{Start: 2, End: 4})

	assert.False(t, result.Matched)
}

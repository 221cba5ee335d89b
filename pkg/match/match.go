// Package match decides whether a trip segment retraces a reference
// geometry: a sampled route polyline or a single crossroad centre. Matching
// counts point hits (a sample within threshold distance) and, for centres
// with sparse GPS sampling, segment hits (the interpolated path between two
// samples passing within threshold), short-circuiting once enough hits
// accumulate.
package match

import (
	"math"

	"github.com/tripmatch/tripmatch/pkg/geodesy"
	"github.com/tripmatch/tripmatch/pkg/probe"
	"github.com/tripmatch/tripmatch/pkg/trips"
)

// Options are caller-supplied matching parameters. Weekdays (1=SUN..7=SAT)
// screens records before any distance check; empty means no screening.
type Options struct {
	ThresholdMetres float64
	MinHits         int
	Weekdays        []int
}

func (o Options) weekdayAllowed(record *probe.Record) bool {
	if len(o.Weekdays) == 0 {
		return true
	}
	wd := record.Weekday()
	if wd == 0 {
		return false
	}
	for _, allowed := range o.Weekdays {
		if wd == allowed {
			return true
		}
	}
	return false
}

// Result carries the match decision plus diagnostics for threshold tuning.
// MinDistanceMetres is +Inf when no distance was ever measured.
type Result struct {
	Matched           bool
	PointHits         int
	SegmentHits       int
	MinDistanceMetres float64
}

// RouteMatcher checks segments against a sampled route polyline.
type RouteMatcher struct {
	route *geodesy.RoutePoints
	opts  Options
}

func NewRouteMatcher(route *geodesy.RoutePoints, opts Options) *RouteMatcher {
	return &RouteMatcher{route: route, opts: opts}
}

// MatchSegment counts records within threshold distance of the route's
// reference points and returns true once MinHits is reached. Records with
// unparsable coordinates are skipped, never counted as misses.
func (m *RouteMatcher) MatchSegment(records []probe.Record, segment trips.Segment) Result {
	result := Result{MinDistanceMetres: math.Inf(1)}

	for i := segment.Start; i < segment.End; i++ {
		record := &records[i]
		if !record.CoordsValid || !m.opts.weekdayAllowed(record) {
			continue
		}

		distance := m.route.MinDistance(record.Point())
		if distance < result.MinDistanceMetres {
			result.MinDistanceMetres = distance
		}
		if distance <= m.opts.ThresholdMetres {
			result.PointHits++
			if result.PointHits >= m.opts.MinHits {
				result.Matched = true
				return result
			}
		}
	}

	return result
}

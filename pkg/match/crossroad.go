package match

import (
	"math"

	"github.com/tripmatch/tripmatch/pkg/geodesy"
	"github.com/tripmatch/tripmatch/pkg/probe"
	"github.com/tripmatch/tripmatch/pkg/trips"
)

// CrossroadMatcher checks segments against a single centre point. Matching
// is two-tier: direct point hits first, and only when none were found a
// segment pass that projects consecutive fixes into the tangent plane at the
// centre. Sparse sampling can step over a crossroad between two fixes even
// though the path went through it; the segment pass recovers those trips
// without paying projection cost on the common dense case.
type CrossroadMatcher struct {
	center geodesy.Point
	opts   Options
}

func NewCrossroadMatcher(center geodesy.Point, opts Options) *CrossroadMatcher {
	return &CrossroadMatcher{center: center, opts: opts}
}

func (m *CrossroadMatcher) MatchSegment(records []probe.Record, segment trips.Segment) Result {
	result := Result{MinDistanceMetres: math.Inf(1)}

	var coords []geodesy.Point
	for i := segment.Start; i < segment.End; i++ {
		record := &records[i]
		if !record.CoordsValid || !m.opts.weekdayAllowed(record) {
			continue
		}

		point := record.Point()
		coords = append(coords, point)

		distance := geodesy.Haversine(point, m.center)
		if distance < result.MinDistanceMetres {
			result.MinDistanceMetres = distance
		}
		if distance <= m.opts.ThresholdMetres {
			result.PointHits++
			if result.PointHits+result.SegmentHits >= m.opts.MinHits {
				result.Matched = true
				return result
			}
		}
	}

	// With any point hit the decision already belongs to the point pass;
	// a pair of coords is the minimum for segment interpolation.
	if result.PointHits > 0 || len(coords) < 2 {
		result.Matched = result.PointHits >= m.opts.MinHits
		return result
	}

	reject := m.opts.ThresholdMetres * 3

	lastX, lastY := geodesy.LocalXY(coords[0], m.center)
	for _, point := range coords[1:] {
		x, y := geodesy.LocalXY(point, m.center)

		// Cheap reject: both endpoints well clear of the centre
		if math.Hypot(lastX, lastY) > reject && math.Hypot(x, y) > reject {
			lastX, lastY = x, y
			continue
		}

		distance := geodesy.SegmentDistanceFromOrigin(lastX, lastY, x, y)
		if distance < result.MinDistanceMetres {
			result.MinDistanceMetres = distance
		}
		if distance <= m.opts.ThresholdMetres {
			result.SegmentHits++
			if result.SegmentHits >= m.opts.MinHits {
				result.Matched = true
				return result
			}
		}
		lastX, lastY = x, y
	}

	result.Matched = result.SegmentHits >= m.opts.MinHits
	return result
}

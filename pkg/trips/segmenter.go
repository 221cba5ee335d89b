package trips

import (
	"github.com/tripmatch/tripmatch/pkg/probe"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Segment is a half-open index range [Start, End) over a file's records.
// Every segment the segmenter yields has End-Start >= 2; a single point
// carries no direction and is meaningless to the matchers.
type Segment struct {
	Start int
	End   int
}

func (s Segment) Len() int {
	return s.End - s.Start
}

// Segmenter derives trip boundaries from boundary flags and, when
// DetectTripChange is set, from changes in the trip number column. The
// trip-number signal recovers segmentation on files where explicit start/end
// flags are sparse or missing.
type Segmenter struct {
	DetectTripChange bool
}

// Boundaries returns the sorted boundary index set for a record sequence.
// The set always contains 0 and len(records). A start flag contributes the
// record's own index, an end flag the index after it; records without a
// usable flag contribute nothing.
func (s Segmenter) Boundaries(records []probe.Record) []int {
	boundaries := map[int]struct{}{
		0:            {},
		len(records): {},
	}

	prevTripNo := 0
	prevTripNoValid := false

	for i, record := range records {
		switch record.Boundary {
		case probe.BoundaryStart:
			boundaries[i] = struct{}{}
		case probe.BoundaryEnd:
			boundaries[i+1] = struct{}{}
		}

		if s.DetectTripChange && record.TripNoValid {
			if prevTripNoValid && record.TripNo != prevTripNo {
				boundaries[i] = struct{}{}
			}
			prevTripNo = record.TripNo
			prevTripNoValid = true
		}
	}

	sorted := maps.Keys(boundaries)
	slices.Sort(sorted)
	return sorted
}

// Segments yields the candidate segments between consecutive boundaries,
// dropping any range shorter than two records.
func (s Segmenter) Segments(boundaries []int) []Segment {
	var segments []Segment
	for i := 0; i+1 < len(boundaries); i++ {
		if boundaries[i+1]-boundaries[i] >= 2 {
			segments = append(segments, Segment{Start: boundaries[i], End: boundaries[i+1]})
		}
	}
	return segments
}

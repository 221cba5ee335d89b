// Package passage resolves confirmed crossroad matches into discrete passage
// events: which branch the vehicle entered by, which it left by, and how
// fast it moved through the window around the centre.
package passage

import (
	"fmt"
	"time"

	"github.com/tripmatch/tripmatch/pkg/crossroad"
	"github.com/tripmatch/tripmatch/pkg/geodesy"
	"github.com/tripmatch/tripmatch/pkg/probe"
)

// Config holds the resolver's tunables. Nothing here is hard-coded in the
// resolution logic; concurrent runs with different parameters can share the
// same crossroad tables.
type Config struct {
	// NearRadiusMetres accepts a sample as the centre candidate directly.
	NearRadiusMetres float64
	// FarRadiusMetres bounds the segment-rescue check between two samples.
	FarRadiusMetres float64
	// Debounce suppresses a second passage on the same trip within this
	// window. Samples without timestamps never trigger it.
	Debounce time.Duration
	// Stride is how far the cursor jumps after an emitted passage, so
	// adjacent samples of the same physical pass do not re-trigger. It is a
	// de-duplication heuristic, not a correctness guard: a second genuine
	// passage inside the skipped window is only caught by the debounce
	// timer.
	Stride int
}

func DefaultConfig() Config {
	return Config{
		NearRadiusMetres: 20,
		FarRadiusMetres:  200,
		Debounce:         30 * time.Second,
		Stride:           3,
	}
}

type Resolver struct {
	Crossroad *crossroad.Crossroad
	Config    Config
}

func NewResolver(cross *crossroad.Crossroad, config Config) (*Resolver, error) {
	if err := cross.Validate(); err != nil {
		return nil, err
	}
	if config.Stride < 1 {
		config.Stride = 1
	}
	return &Resolver{Crossroad: cross, Config: config}, nil
}

// Resolve walks one trip's records in file order and returns the passages it
// finds. A trip with no valid coordinates yields no events and no error.
func (r *Resolver) Resolve(records []probe.Record, meta TripMeta) []Event {
	var validIndices []int
	for i := range records {
		if records[i].CoordsValid {
			validIndices = append(validIndices, i)
		}
	}
	if len(validIndices) == 0 {
		return nil
	}

	center := r.Crossroad.Center

	var events []Event
	var lastCenterTime time.Time
	haveLastCenter := false

	cursor := 0
	for cursor < len(validIndices) {
		idx := validIndices[cursor]
		point := records[idx].Point()
		distCenter := geodesy.Haversine(point, center)

		idxCenter := -1
		if distCenter <= r.Config.NearRadiusMetres {
			idxCenter = idx
		} else if cursor < len(validIndices)-1 {
			idxNext := validIndices[cursor+1]
			next := records[idxNext].Point()
			if distCenter <= r.Config.FarRadiusMetres && geodesy.Haversine(next, center) <= r.Config.FarRadiusMetres {
				if geodesy.PointToSegmentDistance(center, point, next) <= r.Config.NearRadiusMetres {
					idxCenter = idx
					if geodesy.Haversine(next, center) < distCenter {
						idxCenter = idxNext
					}
				}
			}
		}

		if idxCenter < 0 {
			cursor++
			continue
		}

		idxBefore, idxAfter := bearingWindow(idxCenter, len(records))

		before := &records[idxBefore]
		centerRec := &records[idxCenter]
		after := &records[idxAfter]
		if !before.CoordsValid || !centerRec.CoordsValid || !after.CoordsValid {
			cursor++
			continue
		}

		if centerRec.TimestampValid && haveLastCenter &&
			centerRec.Timestamp.Sub(lastCenterTime) < r.Config.Debounce {
			cursor++
			continue
		}

		bearingIn := geodesy.Bearing(before.Point(), centerRec.Point())
		bearingOut := geodesy.Bearing(centerRec.Point(), after.Point())

		distance := accumulateDistance(records, idxBefore, idxAfter)

		var speed *float64
		if before.TimestampValid && after.TimestampValid {
			delta := after.Timestamp.Sub(before.Timestamp).Seconds()
			if delta > 0 {
				kmh := distance / delta * 3.6
				speed = &kmh
			}
		}

		events = append(events, Event{
			ScreeningLabel: meta.ScreeningLabel,
			RouteName:      meta.RouteName,
			Weekday:        probe.WeekdayAbbrFromYMD(ymd(meta.TripDate)),
			OperationID:    meta.OperationID,
			TripDate:       meta.TripDate,
			TripNo:         meta.TripNo,
			VehicleType:    centerRec.VehicleType,
			VehicleUse:     centerRec.VehicleUse,
			BranchIn:       r.Crossroad.ClosestBranch(bearingIn),
			BranchOut:      r.Crossroad.ClosestBranch(bearingOut),
			TimeBefore:     before.TimestampToken,
			TimeCenter:     centerRec.TimestampToken,
			TimeAfter:      after.TimestampToken,
			DistanceMetres: roundMillimetres(distance),
			SpeedKMH:       speed,
			CrossroadID:    r.Crossroad.ID,
		})

		if centerRec.TimestampValid {
			lastCenterTime = centerRec.Timestamp
			haveLastCenter = true
		}
		cursor += r.Config.Stride
	}

	return events
}

// bearingWindow picks the before/after indices around a centre candidate.
// Two samples either side gives bearings immune to single-sample jitter; the
// window narrows to one sample at trip edges.
func bearingWindow(center int, n int) (int, int) {
	before := center - 2
	if before < 0 {
		before = 0
	}
	after := center + 2
	if after > n-1 {
		after = n - 1
	}
	if center-before < 2 && center > 0 {
		before = center - 1
	}
	if after-center < 2 && center+1 < n {
		after = center + 1
	}
	return before, after
}

// accumulateDistance sums haversine legs over [start, end], skipping pairs
// with an invalid endpoint so one dropped fix does not poison the total.
func accumulateDistance(records []probe.Record, start int, end int) float64 {
	var total float64
	for i := start; i < end; i++ {
		if !records[i].CoordsValid || !records[i+1].CoordsValid {
			continue
		}
		total += geodesy.Haversine(records[i].Point(), records[i+1].Point())
	}
	return total
}

func roundMillimetres(metres float64) float64 {
	return float64(int64(metres*1000+0.5)) / 1000
}

func ymd(tripDate string) string {
	if len(tripDate) >= 8 {
		return tripDate[:8]
	}
	return ""
}

// String implements a compact log form used at debug level.
func (e Event) String() string {
	return fmt.Sprintf("%s %s in=%d out=%d at %s", e.CrossroadID, e.OperationID, e.BranchIn, e.BranchOut, e.TimeCenter)
}

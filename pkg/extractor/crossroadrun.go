package extractor

import (
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog/log"
	"github.com/tripmatch/tripmatch/pkg/crossroad"
	"github.com/tripmatch/tripmatch/pkg/dircount"
	"github.com/tripmatch/tripmatch/pkg/match"
	"github.com/tripmatch/tripmatch/pkg/passage"
	"github.com/tripmatch/tripmatch/pkg/probe"
	"github.com/tripmatch/tripmatch/pkg/trips"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// CrossroadExtraction detects crossroad passages on screened trip files:
// every input file is grouped into trips, each trip confirmed against the
// crossroad centre, and confirmed trips resolved into in/out branch events.
type CrossroadExtraction struct {
	Profile        Profile
	Crossroads     map[string]*crossroad.Crossroad
	ScreeningLabel string
	RouteName      string
}

type crossroadFileResult struct {
	trips  int
	events []passage.Event
	counts *dircount.Table
}

// Run processes files against every loaded crossroad and returns the events
// in deterministic order (crossroad id, then input file order).
func (e *CrossroadExtraction) Run(files []string) ([]passage.Event, *dircount.Table, error) {
	started := time.Now()

	ids := maps.Keys(e.Crossroads)
	slices.Sort(ids)

	table := dircount.NewTable()
	var events []passage.Event
	tripCount := 0

	for _, id := range ids {
		cross := e.Crossroads[id]

		resolver, err := passage.NewResolver(cross, e.Profile.resolverConfig())
		if err != nil {
			return nil, nil, err
		}
		matcher := match.NewCrossroadMatcher(cross.Center, e.Profile.matchOptions())

		results := forEachFile(files, e.Profile.MaxParallelFiles, func(path string) crossroadFileResult {
			return e.processFile(path, matcher, resolver)
		})

		for _, result := range results {
			tripCount += result.trips
			events = append(events, result.events...)
			table.Merge(result.counts)
		}
	}

	log.Info().
		Int("files", len(files)).
		Int("crossroads", len(ids)).
		Int("trips", tripCount).
		Int("events", len(events)).
		Dur("elapsed", time.Since(started)).
		Msg("Crossroad extraction finished")

	return events, table, nil
}

func (e *CrossroadExtraction) processFile(path string, matcher *match.CrossroadMatcher, resolver *passage.Resolver) crossroadFileResult {
	result := crossroadFileResult{counts: dircount.NewTable()}

	records, err := probe.ReadFile(path, e.Profile.Columns)
	if err != nil {
		log.Warn().Err(err).Str("file", filepath.Base(path)).Msg("Failed to read probe file")
		return result
	}

	for _, group := range trips.GroupByTrip(records) {
		result.trips++

		whole := trips.Segment{Start: 0, End: len(group.Records)}
		if whole.Len() < 2 || !matcher.MatchSegment(group.Records, whole).Matched {
			continue
		}

		meta := passage.TripMeta{
			ScreeningLabel: e.ScreeningLabel,
			RouteName:      e.RouteName,
			OperationID:    group.OperationID,
			TripDate:       group.TripDate,
			TripNo:         group.TripNo,
		}
		tripEvents := resolver.Resolve(group.Records, meta)
		result.events = append(result.events, tripEvents...)
		for _, event := range tripEvents {
			result.counts.Add(event)
		}
	}

	return result
}

// WriteEvents writes passage events as one CSV with a header row.
func WriteEvents(events []passage.Event, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return gocsv.Marshal(&events, file)
}

// WriteDirCounts writes the direction-count tally next to the event output.
func WriteDirCounts(table *dircount.Table, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	rows := table.Rows()
	return gocsv.Marshal(&rows, file)
}

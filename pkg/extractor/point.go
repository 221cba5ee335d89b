package extractor

import (
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tripmatch/tripmatch/pkg/crossroad"
	"github.com/tripmatch/tripmatch/pkg/match"
	"github.com/tripmatch/tripmatch/pkg/probe"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// PointExtraction scans probe files for trips that pass near any of a set of
// crossroad centres, saving matched trips like route extraction does. Unlike
// route mode it leans on trip-number changes for segmentation, since the
// files it targets rarely carry boundary flags.
type PointExtraction struct {
	Profile    Profile
	Crossroads map[string]*crossroad.Crossroad
	OutputDir  string
	DryRun     bool
}

func (e *PointExtraction) Run(files []string) Totals {
	started := time.Now()

	summaries := forEachFile(files, e.Profile.MaxParallelFiles, e.processFile)

	var totals Totals
	totals.Files = len(files)
	for _, summary := range summaries {
		totals.Trips += summary.Trips
		totals.Matched += summary.Matched
		totals.Saved += summary.Saved
	}

	log.Info().
		Int("files", totals.Files).
		Int("crossroads", len(e.Crossroads)).
		Int("trips", totals.Trips).
		Int("matched", totals.Matched).
		Int("saved", totals.Saved).
		Dur("elapsed", time.Since(started)).
		Msg("Point extraction finished")

	return totals
}

func (e *PointExtraction) processFile(path string) FileSummary {
	summary := FileSummary{File: path}

	records, err := probe.ReadFile(path, e.Profile.Columns)
	if err != nil {
		log.Warn().Err(err).Str("file", filepath.Base(path)).Msg("Failed to read probe file")
		return summary
	}
	if len(records) == 0 {
		return summary
	}

	segmenter := e.Profile.segmenter()
	segments := segmenter.Segments(segmenter.Boundaries(records))
	summary.Trips = len(segments)

	ids := maps.Keys(e.Crossroads)
	slices.Sort(ids)

	matchers := make(map[string]*match.CrossroadMatcher, len(ids))
	for _, id := range ids {
		matchers[id] = match.NewCrossroadMatcher(e.Crossroads[id].Center, e.Profile.matchOptions())
	}

	// A trip near several crossroads is saved once per crossroad, with the
	// crossroad id in the file name
	for _, segment := range segments {
		for _, id := range ids {
			if !matchers[id].MatchSegment(records, segment).Matched {
				continue
			}
			summary.Matched++

			if e.DryRun {
				summary.Saved++
				continue
			}

			if _, err := saveTrip(records, segment, e.OutputDir, id); err != nil {
				log.Warn().Err(err).Str("file", filepath.Base(path)).Str("crossroad", id).
					Msg("Failed to save matched trip")
				continue
			}
			summary.Saved++
		}
	}

	return summary
}

package extractor

import (
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tripmatch/tripmatch/pkg/geodesy"
	"github.com/tripmatch/tripmatch/pkg/match"
	"github.com/tripmatch/tripmatch/pkg/probe"
)

// RouteExtraction scans probe files for trips that retrace a sampled route
// and writes each matched trip to its own CSV under OutputDir.
type RouteExtraction struct {
	Profile   Profile
	Route     *geodesy.RoutePoints
	RouteName string
	OutputDir string
	DryRun    bool
}

// FileSummary is one file's counters; failures are absorbed into zeros so a
// bad file never stops the batch.
type FileSummary struct {
	File    string
	Trips   int
	Matched int
	Saved   int
}

type Totals struct {
	Files   int
	Trips   int
	Matched int
	Saved   int
}

func (e *RouteExtraction) Run(files []string) Totals {
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
		Int("trips", totals.Trips).
		Int("matched", totals.Matched).
		Int("saved", totals.Saved).
		Dur("elapsed", time.Since(started)).
		Msg("Route extraction finished")

	return totals
}

func (e *RouteExtraction) processFile(path string) FileSummary {
	summary := FileSummary{File: path}

	records, err := probe.ReadFile(path, e.Profile.Columns)
	if err != nil {
		log.Warn().Err(err).Str("file", filepath.Base(path)).Msg("Failed to read probe file")
		return summary
	}
	if len(records) == 0 {
		log.Debug().Str("file", filepath.Base(path)).Msg("Empty probe file")
		return summary
	}

	segmenter := e.Profile.segmenter()
	segments := segmenter.Segments(segmenter.Boundaries(records))
	summary.Trips = len(segments)

	matcher := match.NewRouteMatcher(e.Route, e.Profile.matchOptions())

	for _, segment := range segments {
		result := matcher.MatchSegment(records, segment)
		if !result.Matched {
			continue
		}
		summary.Matched++

		if e.DryRun {
			summary.Saved++
			continue
		}

		if _, err := saveTrip(records, segment, e.OutputDir, e.RouteName); err != nil {
			log.Warn().Err(err).Str("file", filepath.Base(path)).
				Int("start", segment.Start).Int("end", segment.End).
				Msg("Failed to save matched trip")
			continue
		}
		summary.Saved++
	}

	log.Debug().
		Str("file", filepath.Base(path)).
		Int("trips", summary.Trips).
		Int("matched", summary.Matched).
		Msg("Processed probe file")

	return summary
}

package extractor

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/tripmatch/tripmatch/pkg/crossroad"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "extract",
		Usage: "Extracts trips and crossroad passages from probe CSV files",
		Subcommands: []*cli.Command{
			{
				Name:  "route",
				Usage: "extract trips that retrace a sample route",
				Flags: append(commonFlags(10, 4),
					&cli.StringFlag{
						Name:     "sample",
						Usage:    "sample route CSV",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "output-dir",
						Usage: "directory for matched trip CSVs (default: <input-dir>/<route name>)",
					},
				),
				Action: runRoute,
			},
			{
				Name:  "point",
				Usage: "extract trips that pass near crossroad centres",
				Flags: append(commonFlags(20, 1),
					&cli.StringFlag{
						Name:     "crossroad-dir",
						Usage:    "directory of crossroad definition CSVs",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "output-dir",
						Usage:    "directory for matched trip CSVs",
						Required: true,
					},
				),
				Action: runPoint,
			},
			{
				Name:  "crossroad",
				Usage: "detect crossroad passages on screened trip files",
				Flags: append(commonFlags(20, 1),
					&cli.StringFlag{
						Name:     "crossroad-dir",
						Usage:    "directory of crossroad definition CSVs",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "output",
						Value: "crossroad_hits.csv",
						Usage: "output CSV for passage events",
					},
					&cli.StringFlag{
						Name:  "dircount-output",
						Usage: "also write a direction-count tally CSV",
					},
					&cli.StringFlag{
						Name:  "screening-label",
						Usage: "screening label stamped onto every event",
					},
					&cli.StringFlag{
						Name:  "route-name",
						Usage: "route name stamped onto every event",
					},
					&cli.IntFlag{
						Name:  "debounce-sec",
						Value: 30,
						Usage: "suppress repeat passages on one trip within this many seconds",
					},
				),
				Action: runCrossroad,
			},
		},
	}
}

func commonFlags(defaultThreshold float64, defaultMinHits int) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "input-dir",
			Usage:    "directory of probe CSV files",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "profile",
			Usage: "YAML run profile; flags override its values",
		},
		&cli.Float64Flag{
			Name:  "threshold",
			Value: defaultThreshold,
			Usage: "match distance threshold in metres",
		},
		&cli.IntFlag{
			Name:  "min-hits",
			Value: defaultMinHits,
			Usage: "hits needed before a segment counts as matched",
		},
		&cli.BoolFlag{
			Name:  "recursive",
			Usage: "also scan subdirectories",
		},
		&cli.BoolFlag{
			Name:  "dry-run",
			Usage: "count matches without writing output",
		},
	}
}

func profileFromContext(c *cli.Context) (Profile, error) {
	var profile Profile
	var err error

	if path := c.String("profile"); path != "" {
		profile, err = LoadProfile(path)
		if err != nil {
			return profile, err
		}
	} else {
		profile = DefaultProfile()
		profile.ThresholdMetres = c.Float64("threshold")
		profile.MinHits = c.Int("min-hits")
	}

	if c.IsSet("threshold") {
		profile.ThresholdMetres = c.Float64("threshold")
	}
	if c.IsSet("min-hits") {
		profile.MinHits = c.Int("min-hits")
	}
	if c.IsSet("debounce-sec") {
		profile.DebounceSeconds = c.Int("debounce-sec")
	}

	return profile, nil
}

func inputFiles(c *cli.Context) ([]string, error) {
	files, err := ListInputFiles(c.String("input-dir"), c.Bool("recursive"))
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no CSV files found in %s", c.String("input-dir"))
	}
	return files, nil
}

func runRoute(c *cli.Context) error {
	profile, err := profileFromContext(c)
	if err != nil {
		return err
	}

	route, err := LoadSamplePoints(c.String("sample"), profile.Columns)
	if err != nil {
		return fmt.Errorf("load sample route: %w", err)
	}

	files, err := inputFiles(c)
	if err != nil {
		return err
	}

	routeName := stem(c.String("sample"))
	outputDir := c.String("output-dir")
	if outputDir == "" {
		outputDir = defaultRouteOutputDir(c.String("input-dir"), routeName)
	}

	log.Info().
		Int("files", len(files)).
		Int("samplepoints", route.Len()).
		Str("route", routeName).
		Msg("Starting route extraction")

	extraction := RouteExtraction{
		Profile:   profile,
		Route:     route,
		RouteName: routeName,
		OutputDir: outputDir,
		DryRun:    c.Bool("dry-run"),
	}
	extraction.Run(files)

	return nil
}

func runPoint(c *cli.Context) error {
	profile, err := profileFromContext(c)
	if err != nil {
		return err
	}
	profile.DetectTripChange = true

	crossroads, err := crossroad.LoadDirectory(c.String("crossroad-dir"))
	if err != nil {
		return err
	}

	files, err := inputFiles(c)
	if err != nil {
		return err
	}

	log.Info().
		Int("files", len(files)).
		Int("crossroads", len(crossroads)).
		Msg("Starting point extraction")

	extraction := PointExtraction{
		Profile:    profile,
		Crossroads: crossroads,
		OutputDir:  c.String("output-dir"),
		DryRun:     c.Bool("dry-run"),
	}
	extraction.Run(files)

	return nil
}

func runCrossroad(c *cli.Context) error {
	profile, err := profileFromContext(c)
	if err != nil {
		return err
	}

	crossroads, err := crossroad.LoadDirectory(c.String("crossroad-dir"))
	if err != nil {
		return err
	}

	files, err := inputFiles(c)
	if err != nil {
		return err
	}

	log.Info().
		Int("files", len(files)).
		Int("crossroads", len(crossroads)).
		Msg("Starting crossroad extraction")

	extraction := CrossroadExtraction{
		Profile:        profile,
		Crossroads:     crossroads,
		ScreeningLabel: c.String("screening-label"),
		RouteName:      c.String("route-name"),
	}

	events, table, err := extraction.Run(files)
	if err != nil {
		return err
	}

	if c.Bool("dry-run") {
		log.Info().Int("events", len(events)).Msg("Dry run, skipping output")
		return nil
	}

	if err := WriteEvents(events, c.String("output")); err != nil {
		return fmt.Errorf("write events: %w", err)
	}
	log.Info().Str("output", c.String("output")).Int("events", len(events)).Msg("Wrote passage events")

	if dircountPath := c.String("dircount-output"); dircountPath != "" {
		if err := WriteDirCounts(table, dircountPath); err != nil {
			return fmt.Errorf("write direction counts: %w", err)
		}
		log.Info().Str("output", dircountPath).Msg("Wrote direction counts")
	}

	return nil
}

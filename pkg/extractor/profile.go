package extractor

import (
	"fmt"
	"os"
	"time"

	"github.com/tripmatch/tripmatch/pkg/match"
	"github.com/tripmatch/tripmatch/pkg/passage"
	"github.com/tripmatch/tripmatch/pkg/probe"
	"github.com/tripmatch/tripmatch/pkg/trips"
	"gopkg.in/yaml.v3"
)

// Profile is one run's worth of engine parameters. It replaces the knobs
// that used to live as process-wide constants: every matcher, segmenter and
// resolver gets its values from an explicit Profile, so concurrent runs with
// different settings can coexist.
type Profile struct {
	ThresholdMetres  float64       `yaml:"threshold_metres"`
	MinHits          int           `yaml:"min_hits"`
	Weekdays         []int         `yaml:"weekdays"`
	DebounceSeconds  int           `yaml:"debounce_seconds"`
	NearRadiusMetres float64       `yaml:"near_radius_metres"`
	FarRadiusMetres  float64       `yaml:"far_radius_metres"`
	Stride           int           `yaml:"stride"`
	DetectTripChange bool          `yaml:"detect_trip_change"`
	MaxParallelFiles int           `yaml:"max_parallel_files"`
	Columns          probe.Columns `yaml:"columns"`
}

func DefaultProfile() Profile {
	resolver := passage.DefaultConfig()
	return Profile{
		ThresholdMetres:  10,
		MinHits:          4,
		DebounceSeconds:  int(resolver.Debounce / time.Second),
		NearRadiusMetres: resolver.NearRadiusMetres,
		FarRadiusMetres:  resolver.FarRadiusMetres,
		Stride:           resolver.Stride,
		MaxParallelFiles: 4,
		Columns:          probe.DefaultColumns(),
	}
}

// LoadProfile reads a YAML profile over the defaults, so a file only has to
// name the values it changes.
func LoadProfile(path string) (Profile, error) {
	profile := DefaultProfile()

	contents, err := os.ReadFile(path)
	if err != nil {
		return profile, err
	}
	if err := yaml.Unmarshal(contents, &profile); err != nil {
		return profile, fmt.Errorf("parse profile %s: %w", path, err)
	}

	if profile.ThresholdMetres <= 0 {
		return profile, fmt.Errorf("profile %s: threshold_metres must be positive", path)
	}
	if profile.MinHits < 1 {
		return profile, fmt.Errorf("profile %s: min_hits must be at least 1", path)
	}

	return profile, nil
}

func (p Profile) matchOptions() match.Options {
	return match.Options{
		ThresholdMetres: p.ThresholdMetres,
		MinHits:         p.MinHits,
		Weekdays:        p.Weekdays,
	}
}

func (p Profile) resolverConfig() passage.Config {
	return passage.Config{
		NearRadiusMetres: p.NearRadiusMetres,
		FarRadiusMetres:  p.FarRadiusMetres,
		Debounce:         time.Duration(p.DebounceSeconds) * time.Second,
		Stride:           p.Stride,
	}
}

func (p Profile) segmenter() trips.Segmenter {
	return trips.Segmenter{DetectTripChange: p.DetectTripChange}
}

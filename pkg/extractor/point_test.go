package extractor

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripmatch/tripmatch/pkg/crossroad"
	"github.com/tripmatch/tripmatch/pkg/geodesy"
)

func TestPointExtraction(t *testing.T) {
	dir := t.TempDir()

	// No boundary flags; the trip-number change at row 2 splits the file
	input := writeProbeFile(t, dir, "probes.csv", []string{
		probeRow("20250224", "op1", "20250224120000", 1, "1", "", 35.0998, 135.20),
		probeRow("20250224", "op1", "20250224120010", 2, "1", "", 35.10, 135.20),
		probeRow("20250224", "op1", "20250224120020", 3, "2", "", 36.0, 136.0),
		probeRow("20250224", "op1", "20250224120030", 4, "2", "", 36.001, 136.001),
	})

	profile := DefaultProfile()
	profile.ThresholdMetres = 20
	profile.MinHits = 1
	profile.DetectTripChange = true

	extraction := PointExtraction{
		Profile:    profile,
		Crossroads: testCrossroads(),
		DryRun:     true,
	}

	totals := extraction.Run([]string{input})
	assert.Equal(t, Totals{Files: 1, Trips: 2, Matched: 1, Saved: 1}, totals)
}

func TestPointExtractionSavesPerMatchingCrossroad(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")

	// Two crossroads ~11 m apart; one trip runs through both centres
	crossroads := testCrossroads()
	crossroads["X002"] = &crossroad.Crossroad{
		ID:     "X002",
		Center: geodesy.Point{Lat: 35.1001, Lon: 135.20},
		Branches: []crossroad.Branch{
			{Number: 1, DirectionDeg: 0},
			{Number: 2, DirectionDeg: 90},
			{Number: 3, DirectionDeg: 180},
		},
	}

	input := writeProbeFile(t, dir, "probes.csv", []string{
		probeRow("20250224", "op1", "20250224120000", 1, "1", "", 35.10, 135.20),
		probeRow("20250224", "op1", "20250224120010", 2, "1", "", 35.1001, 135.20),
	})

	profile := DefaultProfile()
	profile.ThresholdMetres = 20
	profile.MinHits = 1

	extraction := PointExtraction{
		Profile:    profile,
		Crossroads: crossroads,
		OutputDir:  outDir,
	}

	totals := extraction.Run([]string{input})
	assert.Equal(t, Totals{Files: 1, Trips: 1, Matched: 2, Saved: 2}, totals)

	saved, err := filepath.Glob(filepath.Join(outDir, "*.csv"))
	require.NoError(t, err)
	require.Len(t, saved, 2)
	assert.Contains(t, filepath.Base(saved[0]), "2nd_X001_")
	assert.Contains(t, filepath.Base(saved[1]), "2nd_X002_")
}

func TestPointExtractionSavesUnderCrossroadName(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")

	input := writeProbeFile(t, dir, "probes.csv", []string{
		probeRow("20250224", "op1", "20250224120000", 1, "1", "", 35.0998, 135.20),
		probeRow("20250224", "op1", "20250224120010", 2, "1", "", 35.10, 135.20),
	})

	profile := DefaultProfile()
	profile.ThresholdMetres = 20
	profile.MinHits = 1

	extraction := PointExtraction{
		Profile:    profile,
		Crossroads: testCrossroads(),
		OutputDir:  outDir,
	}

	totals := extraction.Run([]string{input})
	require.Equal(t, 1, totals.Saved)

	saved, err := filepath.Glob(filepath.Join(outDir, "*.csv"))
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Contains(t, filepath.Base(saved[0]), "2nd_X001_")
}

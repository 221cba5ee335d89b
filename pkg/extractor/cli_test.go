package extractor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func runExtract(t *testing.T, args ...string) error {
	t.Helper()
	app := &cli.App{Commands: []*cli.Command{RegisterCLI()}}
	return app.Run(append([]string{"tripmatch", "extract"}, args...))
}

func TestCLIRouteDryRun(t *testing.T) {
	dir := t.TempDir()
	writeProbeFile(t, dir, "on.csv", []string{
		probeRow("20250224", "99", "20250224120000", 1, "1", "0", 35.0, 135.0),
		probeRow("20250224", "99", "20250224120010", 2, "1", "", 35.001, 135.001),
		probeRow("20250224", "99", "20250224120020", 3, "1", "1", 35.002, 135.002),
	})

	sampleDir := t.TempDir()
	sample := writeProbeFile(t, sampleDir, "rt.csv", []string{
		probeRow("", "", "", 0, "", "", 35.0, 135.0),
		probeRow("", "", "", 0, "", "", 35.001, 135.001),
	})

	err := runExtract(t, "route",
		"--input-dir", dir,
		"--sample", sample,
		"--threshold", "15",
		"--min-hits", "2",
		"--dry-run")
	assert.NoError(t, err)

	// Dry run writes nothing
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestCLICrossroadWritesOutputs(t *testing.T) {
	dir := t.TempDir()
	writeProbeFile(t, dir, "screened.csv", []string{
		probeRow("20250224", "op1", "20250224120000", 1, "1", "", 35.0998, 135.20),
		probeRow("20250224", "op1", "20250224120010", 2, "1", "", 35.10, 135.20),
		probeRow("20250224", "op1", "20250224120020", 3, "1", "", 35.10, 135.2002),
	})

	crossDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(crossDir, "x001.csv"), []byte(
		"crossroad_id,center_lon,center_lat,branch_no,dir_deg,branch_name\n"+
			"X001,135.20,35.10,1,0,north\n"+
			"X001,135.20,35.10,2,90,east\n"+
			"X001,135.20,35.10,3,180,south\n"+
			"X001,135.20,35.10,4,270,west\n"), 0644))

	outDir := t.TempDir()
	eventPath := filepath.Join(outDir, "events.csv")
	countPath := filepath.Join(outDir, "counts.csv")

	err := runExtract(t, "crossroad",
		"--input-dir", dir,
		"--crossroad-dir", crossDir,
		"--output", eventPath,
		"--dircount-output", countPath)
	require.NoError(t, err)

	assert.FileExists(t, eventPath)
	assert.FileExists(t, countPath)
}

func TestCLIRejectsEmptyInputDir(t *testing.T) {
	sampleDir := t.TempDir()
	sample := writeProbeFile(t, sampleDir, "rt.csv", []string{
		probeRow("", "", "", 0, "", "", 35.0, 135.0),
	})

	err := runExtract(t, "route",
		"--input-dir", t.TempDir(),
		"--sample", sample,
		"--dry-run")
	assert.Error(t, err)
}

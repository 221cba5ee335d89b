package crossroad

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, dir string, name string, contents string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(contents), 0644))
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "x001.csv",
		"crossroad_id,center_lon,center_lat,branch_no,dir_deg,branch_name\n"+
			"X001,135.20,35.10,1,0,north\n"+
			"X001,135.20,35.10,2,90,east\n"+
			"X001,135.20,35.10,3,180,south\n"+
			"X001,135.20,35.10,4,270,west\n")

	crossroads, err := LoadDirectory(dir)
	require.NoError(t, err)
	require.Len(t, crossroads, 1)

	cross := crossroads["X001"]
	require.NotNil(t, cross)
	assert.Equal(t, 35.10, cross.Center.Lat)
	assert.Equal(t, 135.20, cross.Center.Lon)
	require.Len(t, cross.Branches, 4)
	assert.Equal(t, "north", cross.Branches[0].Name)
}

func TestLoadDirectoryDropsUnderBranchedCrossroads(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "defs.csv",
		"crossroad_id,center_lon,center_lat,branch_no,dir_deg,branch_name\n"+
			"X001,135.20,35.10,1,0,north\n"+
			"X001,135.20,35.10,2,90,east\n"+
			"X001,135.20,35.10,3,180,south\n"+
			"X002,135.30,35.20,1,0,north\n"+
			"X002,135.30,35.20,2,180,south\n")

	crossroads, err := LoadDirectory(dir)
	require.NoError(t, err)
	assert.Len(t, crossroads, 1)
	assert.Contains(t, crossroads, "X001")
	assert.NotContains(t, crossroads, "X002")
}

func TestLoadDirectorySkipsBadRows(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "defs.csv",
		"crossroad_id,center_lon,center_lat,branch_no,dir_deg,branch_name\n"+
			",135.20,35.10,1,0,missing id\n"+
			"X001,not-a-number,35.10,1,0,bad centre\n"+
			"X001,135.20,35.10,1.0,0,decimal branch no\n"+
			"X001,135.20,35.10,2,-90,negative dir\n"+
			"X001,135.20,35.10,3,450,overshoot dir\n")

	crossroads, err := LoadDirectory(dir)
	require.NoError(t, err)

	cross := crossroads["X001"]
	require.NotNil(t, cross)
	require.Len(t, cross.Branches, 3)
	assert.Equal(t, 1, cross.Branches[0].Number)
	assert.Equal(t, 270.0, cross.Branches[1].DirectionDeg)
	assert.Equal(t, 90.0, cross.Branches[2].DirectionDeg)
}

func TestLoadDirectoryEmpty(t *testing.T) {
	_, err := LoadDirectory(t.TempDir())
	assert.Error(t, err)
}

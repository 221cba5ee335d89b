package crossroad

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog/log"
	"github.com/tripmatch/tripmatch/pkg/geodesy"
)

type definitionRow struct {
	CrossroadID string `csv:"crossroad_id"`
	CenterLon   string `csv:"center_lon"`
	CenterLat   string `csv:"center_lat"`
	BranchNo    string `csv:"branch_no"`
	DirDeg      string `csv:"dir_deg"`
	BranchName  string `csv:"branch_name"`
}

// LoadDirectory reads every crossroad definition CSV under dir and returns
// the valid crossroads keyed by id. Rows missing an id, centre or branch are
// skipped, files that fail to parse are skipped, and crossroads with fewer
// than three branches are dropped with a warning. An error is returned only
// when nothing valid remains.
func LoadDirectory(dir string) (map[string]*Crossroad, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	crossroads := map[string]*Crossroad{}

	for _, path := range paths {
		if err := loadFile(path, crossroads); err != nil {
			log.Warn().Err(err).Str("file", filepath.Base(path)).Msg("Skipping unreadable crossroad file")
		}
	}

	for id, cross := range crossroads {
		if err := cross.Validate(); err != nil {
			log.Warn().Err(err).Str("crossroad", id).Msg("Discarding crossroad definition")
			delete(crossroads, id)
		}
	}

	if len(crossroads) == 0 {
		return nil, fmt.Errorf("no valid crossroad definitions in %s", dir)
	}

	return crossroads, nil
}

func loadFile(path string, crossroads map[string]*Crossroad) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		r := csv.NewReader(in)
		r.FieldsPerRecord = -1
		return r
	})

	var rows []definitionRow
	if err := gocsv.Unmarshal(file, &rows); err != nil {
		return err
	}

	name := filepath.Base(path)
	for _, row := range rows {
		id := strings.TrimSpace(row.CrossroadID)
		if id == "" {
			log.Debug().Str("file", name).Msg("Crossroad row without id")
			continue
		}

		centerLat, latErr := strconv.ParseFloat(strings.TrimSpace(row.CenterLat), 64)
		centerLon, lonErr := strconv.ParseFloat(strings.TrimSpace(row.CenterLon), 64)
		if latErr != nil || lonErr != nil {
			log.Debug().Str("file", name).Str("crossroad", id).Msg("Crossroad row without centre coordinates")
			continue
		}

		cross, exists := crossroads[id]
		if !exists {
			cross = &Crossroad{
				ID:     id,
				Center: geodesy.Point{Lat: centerLat, Lon: centerLon},
			}
			crossroads[id] = cross
		} else if math.Abs(cross.Center.Lat-centerLat) > 1e-9 || math.Abs(cross.Center.Lon-centerLon) > 1e-9 {
			log.Warn().
				Str("crossroad", id).
				Float64("existinglat", cross.Center.Lat).
				Float64("existinglon", cross.Center.Lon).
				Float64("newlat", centerLat).
				Float64("newlon", centerLon).
				Msg("Crossroad centre mismatch between rows, keeping first")
		}

		// branch numbers occasionally arrive as "3.0"
		branchNoFloat, noErr := strconv.ParseFloat(strings.TrimSpace(row.BranchNo), 64)
		dirDeg, dirErr := strconv.ParseFloat(strings.TrimSpace(row.DirDeg), 64)
		if noErr != nil || dirErr != nil {
			log.Debug().Str("file", name).Str("crossroad", id).Msg("Crossroad row without branch_no/dir_deg")
			continue
		}

		cross.Branches = append(cross.Branches, Branch{
			Number:       int(branchNoFloat),
			DirectionDeg: normalizeDeg(dirDeg),
			Name:         strings.TrimSpace(row.BranchName),
		})
	}

	return nil
}

func normalizeDeg(deg float64) float64 {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	return d
}

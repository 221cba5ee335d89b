package extractor

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tripmatch/tripmatch/pkg/geodesy"
	"github.com/tripmatch/tripmatch/pkg/probe"
)

// ListInputFiles returns the sorted CSV files under root, optionally
// recursing into subdirectories.
func ListInputFiles(root string, recursive bool) ([]string, error) {
	var files []string

	if recursive {
		err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !entry.IsDir() && strings.EqualFold(filepath.Ext(path), ".csv") {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	} else {
		matches, err := filepath.Glob(filepath.Join(root, "*.csv"))
		if err != nil {
			return nil, err
		}
		files = matches
	}

	sort.Strings(files)
	return files, nil
}

// stem returns a file name without its directory or extension, used as the
// route name for output naming.
func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// defaultRouteOutputDir mirrors the convention of dropping matched trips in
// a folder named after the sample route inside the input directory.
func defaultRouteOutputDir(inputDir string, routeName string) string {
	return filepath.Join(inputDir, routeName)
}

// LoadSamplePoints reads a sample-route CSV and returns its radians-cached
// reference points. Rows without parsable coordinates are skipped; an empty
// result is a construction error, not a silent no-op.
func LoadSamplePoints(path string, cols probe.Columns) (*geodesy.RoutePoints, error) {
	records, err := probe.ReadFile(path, cols)
	if err != nil {
		return nil, err
	}

	var points []geodesy.Point
	for _, record := range records {
		if record.CoordsValid {
			points = append(points, record.Point())
		}
	}

	return geodesy.NewRoutePoints(points)
}

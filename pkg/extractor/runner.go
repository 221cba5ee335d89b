package extractor

import (
	"github.com/sourcegraph/conc/pool"
)

// forEachFile fans a per-file function out over a bounded worker pool.
// Reference geometries are read-only after construction and each file's
// records are independent, so the fan-out needs no locking. Results land in
// input order so output stays deterministic.
func forEachFile[T any](files []string, workers int, fn func(path string) T) []T {
	if workers < 1 {
		workers = 1
	}

	results := make([]T, len(files))

	p := pool.New().WithMaxGoroutines(workers)
	for i, path := range files {
		i, path := i, path
		p.Go(func() {
			results[i] = fn(path)
		})
	}
	p.Wait()

	return results
}

// Package fileproc runs per-file analysis functions over a worker
// pool. Parsers are not goroutine safe, so the pool hands each task a
// parser checked out from a fixed set sized to the worker count.
package fileproc

import (
	"context"
	"runtime"

	"github.com/sourcegraph/conc/pool"

	"github.com/svergne/pyscope/pkg/parser"
)

// MapFiles applies fn to every file concurrently and returns the
// results in input order. Workers default to twice the CPU count.
// Cancelled contexts leave the remaining results as zero values.
func MapFiles[T any](ctx context.Context, files []string, fn func(psr *parser.Parser, path string) T) []T {
	workers := runtime.NumCPU() * 2
	if workers > len(files) {
		workers = len(files)
	}
	if workers < 1 {
		workers = 1
	}

	parsers := make(chan *parser.Parser, workers)
	for i := 0; i < workers; i++ {
		parsers <- parser.New()
	}
	defer func() {
		close(parsers)
		for p := range parsers {
			p.Close()
		}
	}()

	results := make([]T, len(files))
	p := pool.New().WithMaxGoroutines(workers)
	for i, file := range files {
		p.Go(func() {
			if ctx.Err() != nil {
				return
			}
			psr := <-parsers
			defer func() { parsers <- psr }()
			results[i] = fn(psr, file)
		})
	}
	p.Wait()
	return results
}

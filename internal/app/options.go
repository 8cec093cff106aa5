package service

import (
	"time"

	"github.com/okian/benchtrack/internal/adapters/archive"
	"github.com/okian/benchtrack/internal/domain/catalog"
	"github.com/okian/benchtrack/internal/domain/quarter"
	"github.com/okian/benchtrack/pkg/logger"
)

// Default runner configuration constants.
const (
	DefaultArchiveURL    = "https://epoch.ai/data/benchmark_data.zip"
	DefaultWorkers       = 1
	DefaultUpsertTimeout = 30 * time.Second
)

// Option applies a configuration option to the Runner.
type Option func(*Runner)

// WithFetcher sets the archive source.
func WithFetcher(f Fetcher) Option {
	return func(r *Runner) {
		if f != nil {
			r.fetcher = f
		}
	}
}

// WithCatalog replaces the embedded catalog.
func WithCatalog(c *catalog.Catalog) Option {
	return func(r *Runner) {
		if c != nil {
			r.catalog = c
		}
	}
}

// WithGrid sets the quarters scores are aggregated on.
func WithGrid(g quarter.Grid) Option {
	return func(r *Runner) {
		if len(g) > 0 {
			r.grid = g
		}
	}
}

// WithArchiveURL sets where the archive is downloaded from.
func WithArchiveURL(u string) Option {
	return func(r *Runner) {
		if u != "" {
			r.archiveURL = u
		}
	}
}

// WithWorkers sets how many files are processed concurrently.
func WithWorkers(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithUpsertTimeout bounds the final write.
func WithUpsertTimeout(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.upsertTimeout = d
		}
	}
}

// WithLogger sets a custom logger for the runner.
func WithLogger(l logger.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.log = l
		}
	}
}

// defaultFetcher is used when no WithFetcher option is given.
func defaultFetcher(l logger.Logger) Fetcher {
	return archive.NewFetcher(archive.WithLogger(l.Named("fetcher")))
}

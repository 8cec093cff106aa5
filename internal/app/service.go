// Package service wires the update pipeline and the read model on top of the
// domain packages and adapters.
package service

import (
	"context"
	"fmt"

	"github.com/okian/benchtrack/internal/adapters/repository"
	"github.com/okian/benchtrack/internal/domain/catalog"
	"github.com/okian/benchtrack/internal/domain/model"
	"github.com/okian/benchtrack/internal/domain/quarter"
	"github.com/okian/benchtrack/internal/domain/series"
	"github.com/okian/benchtrack/pkg/logger"
)

// Service serves stored scores to the HTTP API.
type Service struct {
	store   repository.Store
	catalog *catalog.Catalog
	grid    quarter.Grid
	logger  logger.Logger
}

// ReadOption applies a configuration option to the Service.
type ReadOption func(*Service)

// WithReadCatalog replaces the embedded catalog.
func WithReadCatalog(c *catalog.Catalog) ReadOption {
	return func(s *Service) {
		if c != nil {
			s.catalog = c
		}
	}
}

// WithReadGrid sets the quarters the board is laid out on.
func WithReadGrid(g quarter.Grid) ReadOption {
	return func(s *Service) {
		if len(g) > 0 {
			s.grid = g
		}
	}
}

// WithReadLogger sets a custom logger for the service.
func WithReadLogger(l logger.Logger) ReadOption {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service over store.
func New(store repository.Store, opts ...ReadOption) *Service {
	s := &Service{
		store:   store,
		catalog: catalog.Default(),
		grid:    quarter.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Named("service")
	}
	return s
}

// Scores returns every stored row ordered by benchmark, lab and quarter.
func (s *Service) Scores(ctx context.Context) ([]model.ScoreRow, error) {
	if s.store == nil {
		return nil, ErrNoStore
	}
	rows, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}
	return rows, nil
}

// Board returns the stored scores reassembled into chart series.
func (s *Service) Board(ctx context.Context) (series.Board, error) {
	rows, err := s.Scores(ctx)
	if err != nil {
		return series.Board{}, err
	}
	return series.Assemble(s.catalog, s.grid, rows), nil
}

// GetStats summarizes the stored table.
func (s *Service) GetStats() map[string]interface{} {
	ctx := context.Background()
	rows, err := s.Scores(ctx)
	if err != nil {
		s.logger.Warn(ctx, "stats unavailable", logger.Error(err))
		return map[string]interface{}{"error": err.Error()}
	}
	scored := 0
	benchmarks := map[string]bool{}
	for _, r := range rows {
		benchmarks[r.Benchmark] = true
		if r.Score != nil {
			scored++
		}
	}
	return map[string]interface{}{
		"rows":        len(rows),
		"scored_rows": scored,
		"benchmarks":  len(benchmarks),
		"labs":        len(s.catalog.Labs),
		"quarters":    len(s.grid),
	}
}

// Close releases the store.
func (s *Service) Close() error {
	if s.store == nil {
		return nil
	}
	return s.store.Close()
}

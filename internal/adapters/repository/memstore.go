package repository

import (
	"context"
	"slices"
	"sync"

	"github.com/okian/benchtrack/internal/domain/model"
)

// MemStore is an in-process Store.
type MemStore struct {
	mu       sync.RWMutex
	rows     map[model.Key]model.ScoreRow
	failWith string
}

var _ Store = (*MemStore)(nil)

// NewMemStore creates an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{rows: map[model.Key]model.ScoreRow{}}
}

// FailNextUpsert makes the next Upsert fail with msg and write nothing.
func (s *MemStore) FailNextUpsert(msg string) {
	s.mu.Lock()
	s.failWith = msg
	s.mu.Unlock()
}

// Upsert implements Store.
func (s *MemStore) Upsert(ctx context.Context, rows []model.ScoreRow) error {
	if err := ctx.Err(); err != nil {
		return &UpsertError{Driver: DriverMemory, Rows: len(rows), Message: err.Error(), Err: err}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != "" {
		msg := s.failWith
		s.failWith = ""
		return &UpsertError{Driver: DriverMemory, Rows: len(rows), Message: msg}
	}
	for _, r := range rows {
		if r.Score != nil {
			r.Score = model.Score(*r.Score)
		}
		s.rows[r.Key()] = r
	}
	return nil
}

// List implements Store.
func (s *MemStore) List(_ context.Context) ([]model.ScoreRow, error) {
	s.mu.RLock()
	out := make([]model.ScoreRow, 0, len(s.rows))
	for _, r := range s.rows {
		out = append(out, r)
	}
	s.mu.RUnlock()
	slices.SortFunc(out, func(a, b model.ScoreRow) int {
		switch {
		case model.Less(a, b):
			return -1
		case model.Less(b, a):
			return 1
		}
		return 0
	})
	return out, nil
}

// Len returns the number of stored rows.
func (s *MemStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows)
}

// Close implements Store.
func (s *MemStore) Close() error { return nil }

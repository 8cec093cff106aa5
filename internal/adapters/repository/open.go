package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/okian/benchtrack/pkg/logger"
)

// Store drivers.
const (
	DriverSupabase = "supabase"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// Drivers lists the supported driver names.
func Drivers() []string {
	return []string{DriverSupabase, DriverPostgres, DriverSQLite, DriverMemory}
}

// Settings selects and configures a backend.
type Settings struct {
	Driver string
	URL    string // supabase project URL, postgres DSN or sqlite path
	Key    string // supabase service key
	// RetryMax bounds retries of failed supabase requests.
	RetryMax int
	Logger   logger.Logger
}

// Open returns a ready Store for s. SQL backends get their table created.
func Open(ctx context.Context, s Settings) (Store, error) {
	switch s.Driver {
	case DriverMemory:
		return NewMemStore(), nil
	case DriverSupabase:
		store, err := NewSupabaseStore(s.URL, s.Key, WithSupabaseLogger(s.Logger), WithSupabaseRetryMax(s.RetryMax))
		if err != nil {
			return nil, err
		}
		return store, nil
	case DriverPostgres, DriverSQLite:
		store, err := openSQL(ctx, s)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, s.Driver)
	}
}

func openSQL(ctx context.Context, s Settings) (*SQLStore, error) {
	if s.URL == "" {
		return nil, fmt.Errorf("%w: %s url", ErrMissingSettings, s.Driver)
	}
	db, err := sql.Open(s.Driver, s.URL)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.Driver, err)
	}
	if s.Driver == DriverSQLite {
		// one connection keeps ":memory:" databases shared and serializes writers
		db.SetMaxOpenConns(1)
	}
	store, err := NewSQLStore(db, s.Driver)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := store.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

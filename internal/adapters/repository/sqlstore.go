package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/okian/benchtrack/internal/domain/model"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

const (
	defaultChunkSize = 500
	conflictClause   = "ON CONFLICT (benchmark, lab, quarter) DO UPDATE SET score = EXCLUDED.score, updated_at = EXCLUDED.updated_at"
)

const createTable = `CREATE TABLE IF NOT EXISTS ` + Table + ` (
	benchmark  TEXT NOT NULL,
	lab        TEXT NOT NULL,
	quarter    TEXT NOT NULL,
	score      DOUBLE PRECISION,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	UNIQUE (benchmark, lab, quarter)
)`

// SQLStore is a Store over database/sql for Postgres and SQLite.
type SQLStore struct {
	db        *sql.DB
	driver    string
	builder   sq.StatementBuilderType
	chunkSize int
}

var _ Store = (*SQLStore)(nil)

// NewSQLStore wraps an open database. driver selects the placeholder
// dialect: DriverPostgres uses $n, DriverSQLite uses ?.
func NewSQLStore(db *sql.DB, driver string, opts ...SQLOption) (*SQLStore, error) {
	var format sq.PlaceholderFormat
	switch driver {
	case DriverPostgres:
		format = sq.Dollar
	case DriverSQLite:
		format = sq.Question
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
	s := &SQLStore{
		db:        db,
		driver:    driver,
		builder:   sq.StatementBuilder.PlaceholderFormat(format),
		chunkSize: defaultChunkSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// EnsureSchema creates the score table when it does not exist.
func (s *SQLStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createTable); err != nil {
		return fmt.Errorf("create %s: %w", Table, err)
	}
	return nil
}

// Upsert implements Store. All chunks run in one transaction.
func (s *SQLStore) Upsert(ctx context.Context, rows []model.ScoreRow) error {
	rows = Collapse(rows)
	if len(rows) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return s.upsertError(len(rows), err)
	}
	for start := 0; start < len(rows); start += s.chunkSize {
		end := min(start+s.chunkSize, len(rows))
		if err := s.insertChunk(ctx, tx, rows[start:end]); err != nil {
			_ = tx.Rollback()
			return s.upsertError(len(rows), err)
		}
	}
	if err := tx.Commit(); err != nil {
		return s.upsertError(len(rows), err)
	}
	return nil
}

func (s *SQLStore) insertChunk(ctx context.Context, tx *sql.Tx, rows []model.ScoreRow) error {
	ins := s.builder.Insert(Table).Columns("benchmark", "lab", "quarter", "score", "updated_at")
	for _, r := range rows {
		ins = ins.Values(r.Benchmark, r.Lab, r.Quarter, nullScore(r.Score), sq.Expr("CURRENT_TIMESTAMP"))
	}
	query, args, err := ins.Suffix(conflictClause).ToSql()
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, query, args...)
	return err
}

// List implements Store.
func (s *SQLStore) List(ctx context.Context) ([]model.ScoreRow, error) {
	query, args, err := s.builder.
		Select("benchmark", "lab", "quarter", "score").
		From(Table).
		OrderBy("benchmark", "lab", "quarter").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrList, err)
	}
	rs, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrList, backendMessage(err))
	}
	defer rs.Close()

	var out []model.ScoreRow
	for rs.Next() {
		var (
			r     model.ScoreRow
			score sql.NullFloat64
		)
		if err := rs.Scan(&r.Benchmark, &r.Lab, &r.Quarter, &score); err != nil {
			return nil, fmt.Errorf("%w: scan: %v", ErrList, err)
		}
		if score.Valid {
			r.Score = model.Score(score.Float64)
		}
		out = append(out, r)
	}
	if err := rs.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrList, err)
	}
	return out, nil
}

// Close implements Store.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) upsertError(n int, err error) error {
	return &UpsertError{Driver: s.driver, Rows: n, Message: backendMessage(err), Err: err}
}

func nullScore(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

// backendMessage prefers the server's own message for Postgres errors.
func backendMessage(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Detail != "" {
			return pqErr.Message + ": " + pqErr.Detail
		}
		return pqErr.Message
	}
	return err.Error()
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/okian/benchtrack/internal/adapters/archive"
	"github.com/okian/benchtrack/internal/adapters/repository"
	"github.com/okian/benchtrack/internal/domain/aggregate"
	"github.com/okian/benchtrack/internal/domain/catalog"
	"github.com/okian/benchtrack/internal/domain/model"
	"github.com/okian/benchtrack/internal/domain/normalize"
	"github.com/okian/benchtrack/internal/domain/quarter"
	"github.com/okian/benchtrack/internal/domain/scale"
	"github.com/okian/benchtrack/internal/domain/schema"
	"github.com/okian/benchtrack/pkg/logger"
	"github.com/okian/benchtrack/pkg/metrics"
)

// Run outcomes recorded in metrics.
const (
	outcomeSuccess       = "success"
	outcomeDownloadError = "download_error"
	outcomeUpsertError   = "upsert_error"
	outcomeCanceled      = "canceled"
)

// Fetcher downloads the archive to local disk.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*archive.Download, error)
}

// Runner executes one end-to-end update: fetch, read, normalize, aggregate
// and write.
type Runner struct {
	store         repository.Store
	fetcher       Fetcher
	catalog       *catalog.Catalog
	grid          quarter.Grid
	archiveURL    string
	workers       int
	upsertTimeout time.Duration
	log           logger.Logger
}

// NewRunner creates a Runner writing to store.
func NewRunner(store repository.Store, opts ...Option) *Runner {
	r := &Runner{
		store:         store,
		catalog:       catalog.Default(),
		grid:          quarter.Default(),
		archiveURL:    DefaultArchiveURL,
		workers:       DefaultWorkers,
		upsertTimeout: DefaultUpsertTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		r.log = logger.Named("runner")
	}
	if r.fetcher == nil {
		r.fetcher = defaultFetcher(r.log)
	}
	return r
}

// Run performs the update. The report is returned even on failure and
// describes how far the run got. Only download and write failures are
// errors; problems with individual files or rows are in the report.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	if r.store == nil {
		return nil, ErrNoStore
	}
	rep := &Report{
		RunID:         uuid.NewString(),
		ArchiveURL:    r.archiveURL,
		Started:       time.Now().UTC(),
		FilesExpected: len(r.catalog.Benchmarks),
	}
	log := r.log.With(logger.String("run_id", rep.RunID))

	rows, err := r.collect(ctx, log, rep)
	if err != nil {
		return rep, r.fail(ctx, log, rep, outcomeDownloadError, err)
	}

	log.Info(ctx, "upserting rows", logger.Int("rows", len(rows)))
	wctx, cancel := context.WithTimeout(ctx, r.upsertTimeout)
	start := time.Now()
	err = r.store.Upsert(wctx, rows)
	cancel()
	metrics.RecordUpsert(len(rows), time.Since(start), err)
	if err != nil {
		return rep, r.fail(ctx, log, rep, outcomeUpsertError, err)
	}
	rep.RowsWritten = len(rows)

	rep.Duration = time.Since(rep.Started)
	metrics.RecordRun(outcomeSuccess, rep.Duration)
	metrics.SetLastSuccess(time.Now())
	log.Info(ctx, "update complete",
		logger.Int("files_expected", rep.FilesExpected),
		logger.Int("files_found", rep.FilesFound),
		logger.Int("files_processed", rep.Processed()),
		logger.Int("rows_written", rep.RowsWritten),
		logger.Duration("duration", rep.Duration))
	return rep, nil
}

func (r *Runner) fail(ctx context.Context, log logger.Logger, rep *Report, outcome string, err error) error {
	if errors.Is(err, context.Canceled) {
		outcome = outcomeCanceled
	}
	rep.Duration = time.Since(rep.Started)
	metrics.RecordRun(outcome, rep.Duration)
	log.Error(ctx, "update failed", logger.String("outcome", outcome), logger.Error(err))
	return fmt.Errorf("%w: run %s: %w", ErrRun, rep.RunID, err)
}

// collect downloads the archive and turns every catalog file into rows, in
// catalog order.
func (r *Runner) collect(ctx context.Context, log logger.Logger, rep *Report) ([]model.ScoreRow, error) {
	log.Info(ctx, "downloading archive", logger.String("url", r.archiveURL))
	dl, err := r.fetcher.Fetch(ctx, r.archiveURL)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := dl.Close(); cerr != nil {
			log.Warn(ctx, "archive cleanup failed", logger.Error(cerr))
		}
	}()
	rep.ArchiveBytes = dl.Size

	contents, err := archive.ReadFile(dl.Path, r.catalog.Files())
	if err != nil {
		return nil, &archive.DownloadError{URL: r.archiveURL, Err: err}
	}
	rep.FilesFound = len(contents.Files)
	if len(contents.Missing) > 0 {
		log.Warn(ctx, "benchmark files missing from archive", logger.Strings("files", contents.Missing))
	}

	reports := make([]FileReport, len(r.catalog.Benchmarks))
	batches := make([][]model.ScoreRow, len(r.catalog.Benchmarks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, b := range r.catalog.Benchmarks {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			text, ok := contents.Files[b.File]
			reports[i], batches[i] = r.processFile(gctx, log, b, text, ok)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	rep.Files = reports

	var rows []model.ScoreRow
	for _, batch := range batches {
		rows = append(rows, batch...)
	}
	return rows, nil
}

// processFile runs one benchmark table through schema resolution,
// normalization, scale detection and aggregation.
func (r *Runner) processFile(ctx context.Context, log logger.Logger, b catalog.Benchmark, text string, found bool) (FileReport, []model.ScoreRow) {
	fr := FileReport{File: b.File, Benchmark: b.Key}
	log = log.With(logger.String("benchmark", b.Key), logger.String("file", b.File))
	defer func() { metrics.RecordFile(b.Key, string(fr.Status)) }()

	if !found {
		fr.Status = StatusMissing
		log.Warn(ctx, "benchmark file not found, skipping")
		return fr, nil
	}

	tbl, err := normalize.ParseTable(text)
	if err != nil {
		fr.Status = StatusSchemaUnresolved
		fr.Error = err.Error()
		log.Warn(ctx, "benchmark file unreadable, skipping", logger.Error(err))
		return fr, nil
	}
	if len(tbl.Rows) == 0 {
		fr.Status = StatusEmpty
		log.Warn(ctx, "benchmark file has no records, skipping")
		return fr, nil
	}
	fr.Records = len(tbl.Rows)

	cols, err := schema.Resolve(tbl.Headers, b.ScoreColumn)
	if err != nil {
		fr.Status = StatusSchemaUnresolved
		fr.Error = err.Error()
		log.Warn(ctx, "benchmark file schema unresolved, skipping", logger.Error(err))
		return fr, nil
	}
	fr.Columns = cols

	res := normalize.New(r.catalog).Normalize(tbl, cols)
	d := res.Diagnostics
	fr.Usable = d.Accepted
	fr.Dropped = map[normalize.Reason]int{}
	for reason, n := range map[normalize.Reason]int{
		normalize.ReasonUnknownOrg: d.UnknownOrg,
		normalize.ReasonBadDate:    d.BadDate,
		normalize.ReasonBadScore:   d.BadScore,
	} {
		if n > 0 {
			fr.Dropped[reason] = n
			metrics.RecordRowsDropped(b.Key, string(reason), n)
		}
	}
	metrics.RecordRowsAccepted(d.Accepted)
	for _, s := range d.Samples {
		log.Debug(ctx, "row dropped", logger.Int("row", s.Row), logger.String("reason", string(s.Reason)), logger.String("value", s.Value))
	}

	fr.Scale = scale.Factor(res.Scores())
	points := scale.Apply(res.Points, fr.Scale)

	labs := r.catalog.LabKeys()
	series := make(map[string][]*float64, len(labs))
	for _, lab := range labs {
		series[lab] = aggregate.CumulativeBest(points[lab], r.grid)
	}
	rows := aggregate.Rows(b.Key, labs, r.grid, series)

	fr.Status = StatusProcessed
	fr.Labs = res.Labs(labs)
	fr.Rows = len(rows)
	log.Info(ctx, "benchmark processed",
		logger.Int("records", fr.Records),
		logger.Int("usable", fr.Usable),
		logger.Strings("labs", fr.Labs),
		logger.Int("unknown_org", d.UnknownOrg),
		logger.Int("parse_errors", d.ParseErrors()),
		logger.Float64("scale", fr.Scale))
	return fr, rows
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/benchtrack/internal/adapters/archive"
	"github.com/okian/benchtrack/internal/adapters/repository"
	service "github.com/okian/benchtrack/internal/app"
	"github.com/okian/benchtrack/internal/config"
	"github.com/okian/benchtrack/pkg/logger"
	"github.com/okian/benchtrack/pkg/metrics"
)

const pushTimeout = 10 * time.Second

type updateOptions struct {
	dryRun     bool
	jsonReport bool
	archiveURL string
	workers    int
}

func newUpdateCmd(c *cli) *cobra.Command {
	var o updateOptions
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Download the benchmark archive and upsert cumulative best scores",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.update(cmd.Context(), o)
		},
	}
	cmd.Flags().BoolVar(&o.dryRun, "dry-run", false, "process everything but write to an in-memory store")
	cmd.Flags().BoolVar(&o.jsonReport, "json", false, "print the run report as JSON on stdout")
	cmd.Flags().StringVar(&o.archiveURL, "archive-url", "", "override archive_url")
	cmd.Flags().IntVar(&o.workers, "workers", 0, "override workers")
	return cmd
}

func (c *cli) update(ctx context.Context, o updateOptions) error {
	cfg := *c.cfg
	if o.dryRun {
		cfg.StoreDriver = config.DriverMemory
	}
	if o.archiveURL != "" {
		cfg.ArchiveURL = o.archiveURL
	}
	if o.workers > 0 {
		cfg.Workers = o.workers
	}
	if err := cfg.RequireStore(); err != nil {
		return err
	}
	grid, err := cfg.Grid()
	if err != nil {
		return err
	}

	store, err := c.openStore(ctx, &cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	fetcher := archive.NewFetcher(
		archive.WithLogger(c.log.Named("fetcher")),
		archive.WithMaxRedirects(cfg.MaxRedirects),
		archive.WithRetryMax(cfg.RetryMax),
		archive.WithTimeout(cfg.DownloadTimeout),
	)
	runner := service.NewRunner(store,
		service.WithFetcher(fetcher),
		service.WithArchiveURL(cfg.ArchiveURL),
		service.WithGrid(grid),
		service.WithWorkers(cfg.Workers),
		service.WithUpsertTimeout(cfg.UpsertTimeout),
		service.WithLogger(c.log.Named("runner")),
	)

	rep, runErr := runner.Run(ctx)
	c.pushMetrics(ctx, cfg.PushgatewayURL)

	if o.jsonReport && rep != nil {
		enc := json.NewEncoder(c.stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rep); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	}
	return runErr
}

func (c *cli) openStore(ctx context.Context, cfg *config.Config) (repository.Store, error) {
	store, err := repository.Open(ctx, repository.Settings{
		Driver:   cfg.StoreDriver,
		URL:      cfg.StoreURL,
		Key:      cfg.StoreKey,
		RetryMax: cfg.RetryMax,
		Logger:   c.log.Named(cfg.StoreDriver),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.StoreDriver, err)
	}
	return store, nil
}

// pushMetrics hands run metrics to a Pushgateway. Failures are logged only.
func (c *cli) pushMetrics(ctx context.Context, gateway string) {
	if gateway == "" {
		return
	}
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), pushTimeout)
	defer cancel()
	host, _ := os.Hostname()
	if err := metrics.Push(pctx, gateway, host); err != nil {
		c.log.Warn(ctx, "metrics push failed", logger.String("gateway", gateway), logger.Error(err))
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/okian/benchtrack/internal/domain/catalog"
	"github.com/okian/benchtrack/internal/fixtures"
	"github.com/okian/benchtrack/pkg/logger"
)

type fixtureOptions struct {
	out   string
	serve string
	rows  int
	seed  uint64
}

func newFixtureCmd(c *cli) *cobra.Command {
	var o fixtureOptions
	cmd := &cobra.Command{
		Use:   "fixture",
		Short: "Write or serve a synthetic benchmark archive for local runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.fixture(cmd.Context(), o)
		},
	}
	cmd.Flags().StringVar(&o.out, "out", "", "write the archive to this path")
	cmd.Flags().StringVar(&o.serve, "serve", "", "serve the archive on this address until interrupted")
	cmd.Flags().IntVar(&o.rows, "rows", 0, "generate this many random rows per file instead of the hand-written sample")
	cmd.Flags().Uint64Var(&o.seed, "seed", 1, "random seed for --rows")
	return cmd
}

func (c *cli) fixture(ctx context.Context, o fixtureOptions) error {
	if o.out == "" && o.serve == "" {
		return errors.New("one of --out or --serve is required")
	}

	files := fixtures.Sample()
	if o.rows > 0 {
		files = fixtures.Generate(catalog.Default(), o.rows, o.seed)
	}
	data, err := fixtures.Zip(fixtures.Nest("benchmark_data", files))
	if err != nil {
		return err
	}

	if o.out != "" {
		if err := os.WriteFile(o.out, data, 0o600); err != nil {
			return fmt.Errorf("write fixture: %w", err)
		}
		c.log.Info(ctx, "fixture written", logger.String("path", o.out), logger.Int("bytes", len(data)))
	}
	if o.serve == "" {
		return nil
	}

	srv := &http.Server{Addr: o.serve, Handler: fixtures.Handler(data), ReadHeaderTimeout: readHeaderTimeout}
	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()
	c.log.Info(ctx, "serving fixture", logger.String("url", "http://"+o.serve+"/"+fixtures.ArchiveName))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/okian/benchtrack/internal/adapters/http/api"
	service "github.com/okian/benchtrack/internal/app"
	"github.com/okian/benchtrack/pkg/logger"
)

func newChartCmd(c *cli) *cobra.Command {
	var benchmark, out string
	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Render one benchmark's stored scores as a PNG line chart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if benchmark == "" {
				return errors.New("chart: --benchmark is required")
			}
			if out == "" {
				out = benchmark + ".png"
			}
			return c.chart(cmd.Context(), benchmark, out)
		},
	}
	cmd.Flags().StringVar(&benchmark, "benchmark", "", "benchmark key, e.g. mmlu")
	cmd.Flags().StringVar(&out, "out", "", "output file (default <benchmark>.png)")
	return cmd
}

func (c *cli) chart(ctx context.Context, benchmark, out string) error {
	if err := c.cfg.RequireStore(); err != nil {
		return err
	}
	grid, err := c.cfg.Grid()
	if err != nil {
		return err
	}
	store, err := c.openStore(ctx, c.cfg)
	if err != nil {
		return err
	}
	svc := service.New(store, service.WithReadGrid(grid), service.WithReadLogger(c.log.Named("service")))
	defer func() { _ = svc.Close() }()

	board, err := svc.Board(ctx)
	if err != nil {
		return err
	}
	for _, b := range board.Benchmarks {
		if b.Key != benchmark {
			continue
		}
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("chart: %w", err)
		}
		if err := api.RenderChart(f, board, b); err != nil {
			_ = f.Close()
			_ = os.Remove(out)
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("chart: %w", err)
		}
		c.log.Info(ctx, "chart written", logger.String("benchmark", benchmark), logger.String("path", out))
		return nil
	}
	return fmt.Errorf("chart: unknown benchmark %q", benchmark)
}

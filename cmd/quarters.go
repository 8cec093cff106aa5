package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func newQuartersCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "quarters",
		Short: "Print the configured quarter grid and each quarter's cutoff",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			grid, err := c.cfg.Grid()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(c.stdout, 0, 0, 2, ' ', 0)
			for i, q := range grid {
				fmt.Fprintf(tw, "%d\t%s\t%s\n", i, q, q.End().Format(time.RFC3339Nano))
			}
			return tw.Flush()
		},
	}
}

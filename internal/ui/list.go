package ui

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/pacer/internal/dateutil"
)

func (a *App) listCmd() *cobra.Command {
	var (
		startDate string
		endDate   string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored days in a date range",
		Long: `List the blocks of every stored day within a date range.

If no dates are specified, lists today.
If only --start is specified, lists that single day.
If both --start and --end are specified, lists that range (inclusive).`,
		Example: `  pacer list
  pacer list --start=monday
  pacer list --start=2026-01-05 --end=2026-01-09`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}
			dateRange, err := dateutil.NewDateRange(startDate, endDate, a.now())
			if err != nil {
				return err
			}

			snaps, err := a.repo.ListDays(ctxOf(cmd), dateRange.Start, dateRange.End)
			if err != nil {
				return fmt.Errorf("listing days: %w", err)
			}

			w := out(cmd)
			if len(snaps) == 0 {
				fmt.Fprintln(w, "No days found in the specified date range.")
				return nil
			}

			for i, snap := range snaps {
				if i > 0 {
					fmt.Fprintln(w)
				}
				fmt.Fprintf(w, "=== %s ===\n", snap.Date.Format("2006-01-02"))
				for _, b := range snap.Blocks {
					fmt.Fprintf(w, "  %s %s %s-%s %s\n",
						formatMuted(shortID(b.ID)), tierTag(b.Energy), b.Start, b.End, b.Label)
				}
				if n := len(snap.Backlog); n > 0 {
					fmt.Fprintf(w, "  %s\n", formatMuted(fmt.Sprintf("%d in backlog", n)))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&startDate, "start", "", "Start date (YYYY-MM-DD or relative, defaults to today)")
	cmd.Flags().StringVar(&endDate, "end", "", "End date (YYYY-MM-DD or relative, defaults to start date)")

	return cmd
}

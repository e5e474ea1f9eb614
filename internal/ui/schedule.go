package ui

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/pacer/internal/scheduler"
	"github.com/javiermolinar/pacer/internal/task"
)

func (a *App) quickCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quick [item-id]",
		Short: "Append one backlog item after the last block",
		Long: `Quick-add a single backlog item right after the last block,
with a transition buffer in front when the last block is work.

Nothing changes when the item does not fit before the end of the day.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := a.openDay(cmd)
			if err != nil {
				return err
			}
			id, err := resolveID(args[0], itemIDs(day.Backlog()))
			if err != nil {
				return err
			}

			placed, err := day.QuickAdd(id)
			if errors.Is(err, scheduler.ErrNoRoom) {
				fmt.Fprintf(out(cmd), "%s %v\n", formatWarning("No room:"), err)
				fmt.Fprintf(out(cmd), "%s left before the end of the day.\n", FormatDuration(day.AvailableMinutes()))
				return nil
			}
			if err != nil {
				return err
			}
			if err := a.save(ctxOf(cmd), cmd); err != nil {
				return err
			}

			printPlaced(cmd, placed)
			return nil
		},
	}
}

func (a *App) smartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "smart",
		Short: "Schedule the whole backlog around your energy curve",
		Long: `Place as much of the backlog as fits, picking for each slot the item
whose energy best matches your curve at that time. Items that do not fit
stay in the backlog.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			day, err := a.openDay(cmd)
			if err != nil {
				return err
			}

			batch := day.SmartSchedule()
			if batch.Total() == 0 {
				fmt.Fprintln(out(cmd), "Backlog is empty, nothing to schedule.")
				return nil
			}
			if err := a.save(ctxOf(cmd), cmd); err != nil {
				return err
			}

			printPlaced(cmd, batch.Blocks)
			fmt.Fprintln(out(cmd), formatStats(batch.String()))
			if len(batch.Unplaced) > 0 {
				fmt.Fprintln(out(cmd), formatMuted("Still in backlog:"))
				PrintBacklog(out(cmd), batch.Unplaced)
			}
			return nil
		},
	}
}

func (a *App) removeCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove [block-id]",
		Aliases: []string{"rm"},
		Short:   "Remove a block from the day",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := a.openDay(cmd)
			if err != nil {
				return err
			}
			id, err := resolveID(args[0], blockIDs(day.Blocks()))
			if err != nil {
				return err
			}
			if err := day.RemoveBlock(id); err != nil {
				return err
			}
			if err := a.save(ctxOf(cmd), cmd); err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "Removed block %s\n", shortID(id))
			return nil
		},
	}
}

func (a *App) reorderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reorder [block-id...]",
		Short: "Rearrange the day's blocks",
		Long: `Rearrange blocks by listing every block id in the new order.
Start and end times are not changed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := a.openDay(cmd)
			if err != nil {
				return err
			}
			known := blockIDs(day.Blocks())
			ids := make([]string, len(args))
			for i, arg := range args {
				if ids[i], err = resolveID(arg, known); err != nil {
					return err
				}
			}
			if err := day.ReorderBlocks(ids); err != nil {
				return err
			}
			if err := a.save(ctxOf(cmd), cmd); err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "Reordered %d blocks\n", len(ids))
			return nil
		},
	}
}

func printPlaced(cmd *cobra.Command, blocks []task.Block) {
	for _, b := range blocks {
		if b.IsBreak {
			fmt.Fprintf(out(cmd), "  %s %s-%s %s\n", formatMuted("+"), b.Start, b.End, formatMuted(b.Label))
			continue
		}
		fmt.Fprintf(out(cmd), "  %s %s-%s %s %s\n", formatStats("+"), b.Start, b.End, tierTag(b.Energy), b.Label)
	}
}

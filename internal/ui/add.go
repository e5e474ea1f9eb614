package ui

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/pacer/internal/task"
)

func (a *App) addCmd() *cobra.Command {
	var (
		id      string
		minutes int
		tier    string
	)

	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Add a work item to the backlog",
		Long: `Add a work item to the selected day's backlog.

Every item needs an estimate and the energy it takes: high for deep
focus, medium for steady work, low for admin and recharge for things
that restore you.

Example:
  pacer add "Write design doc" --minutes=90 --energy=high
  pacer add "Inbox zero" -m 20 -e low --date=tomorrow`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			itemID := id
			if itemID == "" {
				itemID = uuid.NewString()
			}
			item, err := task.NewWorkItem(itemID, strings.Join(args, " "), minutes, tier)
			if err != nil {
				return err
			}

			day, err := a.openDay(cmd)
			if err != nil {
				return err
			}
			if err := day.AddToBacklog(item); err != nil {
				return err
			}
			if err := a.save(ctxOf(cmd), cmd); err != nil {
				return err
			}

			fmt.Fprintf(out(cmd), "Added %s %s %s (%s)\n",
				formatMuted(shortID(item.ID)), tierTag(item.RequiredEnergy),
				item.Title, FormatDuration(item.EstimatedMinutes))
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Item id (default: a new UUID)")
	cmd.Flags().IntVarP(&minutes, "minutes", "m", 0, "Estimated minutes (required)")
	cmd.Flags().StringVarP(&tier, "energy", "e", "medium", "Energy needed: high, medium, low or recharge")

	_ = cmd.MarkFlagRequired("minutes")

	return cmd
}

func (a *App) backlogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backlog",
		Short: "List work items waiting for a slot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			day, err := a.openDay(cmd)
			if err != nil {
				return err
			}
			items := day.Backlog()
			fmt.Fprintf(out(cmd), "=== Backlog for %s ===\n",
				formatHeader(day.Date().Format("Monday, January 2")))
			PrintBacklog(out(cmd), items)

			total := 0
			for _, item := range items {
				total += item.EstimatedMinutes
			}
			if total > 0 {
				fmt.Fprintf(out(cmd), "\n%d items, %s\n", len(items), FormatDuration(total))
			}
			return nil
		},
	}
}

package ui

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/pacer/internal/coach"
	"github.com/javiermolinar/pacer/internal/energy"
	"github.com/javiermolinar/pacer/internal/summary"
)

func (a *App) weekCmd() *cobra.Command {
	var (
		model     string
		noInsight bool
	)

	cmd := &cobra.Command{
		Use:   "week",
		Short: "Show the energy balance of the week",
		Long: `Summarize the Monday-Sunday week containing --date.

Shows how many minutes went to each energy tier per day, how many work
blocks sat at a significantly wrong energy level and how much peak time
leaked to low-energy work. Unless --no-insight is set, the configured
model adds a short coaching note.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}
			ref, err := a.selectedDate()
			if err != nil {
				return err
			}
			curve, err := a.config.Curve()
			if err != nil {
				return err
			}

			opts := summary.WeekOptions{WeekStart: ref}
			if !noInsight {
				if model == "" {
					model = a.config.LLM.Model
				}
				client, err := newLLMClient(a.config.LLM.Provider, model, a.config.LLM.BaseURL)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s insight disabled: %v\n", formatWarning("warning:"), err)
				} else {
					opts.Reviewer = coach.NewReviewer(client, curve)
				}
			}

			balance, err := summary.Week(ctxOf(cmd), a.repo, curve, opts)
			if err != nil {
				return fmt.Errorf("building week summary: %w", err)
			}

			w := out(cmd)
			if balance.Total() == 0 {
				fmt.Fprintln(w, "No time blocks scheduled for this week.")
				return nil
			}

			header := fmt.Sprintf("WEEK: %s - %s", balance.Start.Format("Mon Jan 2"), balance.End.Format("Mon Jan 2, 2006"))
			fmt.Fprintf(w, "\n  %s\n", formatHeader(header))
			fmt.Fprintln(w, RenderWeek(balance))
			fmt.Fprintln(w)
			PrintBalance(w, balance)

			if balance.Insight != "" {
				fmt.Fprintln(w)
				fmt.Fprintf(w, "  %s\n", formatHeader("INSIGHT"))
				fmt.Fprintln(w, strings.Repeat("─", 74))
				PrintInsightWrapped(w, balance.Insight, 72)
			}

			fmt.Fprintln(w)
			return nil
		},
	}

	cmd.Flags().StringVar(&model, "model", "", "LLM model to use (default from config)")
	cmd.Flags().BoolVar(&noInsight, "no-insight", false, "Skip LLM insight")
	return cmd
}

// RenderWeek renders one row per stored day with minutes per tier.
func RenderWeek(b *summary.Balance) string {
	rows := make([][]string, 0, len(b.Days))
	for _, d := range b.Days {
		row := []string{d.Date.Format("Mon Jan 2")}
		for _, t := range energy.Tiers {
			row = append(row, FormatDuration(d.Minutes[t]))
		}
		row = append(row, strconv.Itoa(d.Mismatches), FormatDuration(d.PeakLeakage))
		rows = append(rows, row)
	}

	headers := []string{"DAY"}
	for _, t := range energy.Tiers {
		headers = append(headers, strings.ToUpper(string(t)))
	}
	headers = append(headers, "MISMATCH", "PEAK LEAK")

	return table.New().
		Headers(headers...).
		Border(lipgloss.RoundedBorder()).
		BorderStyle(tableBorder).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeader
			}
			if col >= 1 && col <= len(energy.Tiers) {
				return tierStyles[energy.Tiers[col-1]].Padding(0, 1)
			}
			return tableCell
		}).
		Render()
}

// PrintBalance prints totals and percentages for a balance report.
func PrintBalance(w io.Writer, b *summary.Balance) {
	EnergyBar(w, b.Minutes, 20)
	fmt.Fprintf(w, "  Total: %s across %d days\n", formatStats(FormatDuration(b.Total())), len(b.Days))
	if b.Mismatches > 0 {
		fmt.Fprintf(w, "  %s %d blocks at a significantly wrong energy level\n", formatWarning("⚠"), b.Mismatches)
	}
	if b.PeakLeakage > 0 {
		fmt.Fprintf(w, "  %s %s of peak time spent on low-energy work\n", formatWarning("⚠"), FormatDuration(b.PeakLeakage))
	}
}

package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/pacer/internal/energy"
	"github.com/javiermolinar/pacer/internal/plan"
	"github.com/javiermolinar/pacer/internal/task"
)

// tierStyles colors the energy column of the schedule table.
var tierStyles = map[energy.Tier]lipgloss.Style{
	energy.High:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	energy.Medium:   lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	energy.Low:      lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
	energy.Recharge: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
}

var (
	tableBorder = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	tableHeader = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	tableCell   = lipgloss.NewStyle().Padding(0, 1)
	breakCell   = lipgloss.NewStyle().Padding(0, 1).Faint(true)
)

const (
	colID = iota
	colTime
	colLabel
	colEnergy
	colExpected
	colFit
	colNotes
)

func (a *App) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the day's blocks",
		Long: `Display the selected day's schedule.

Each work block is compared with your energy curve: ✓ means it sits where
your energy fits it, ~ is a one-step mismatch and ⚠ a significant one.
Long blocks get a suggested mid-point break and work blocks packed too
tightly together are flagged.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runShow(cmd)
		},
	}
}

func (a *App) runShow(cmd *cobra.Command) error {
	day, err := a.openDay(cmd)
	if err != nil {
		return err
	}
	w := out(cmd)

	fmt.Fprintf(w, "=== %s ===\n", formatHeader(day.Date().Format("Monday, January 2, 2006")))
	if a.isToday(day.Date()) {
		printNowNext(w, day)
	}
	fmt.Fprintln(w)

	blocks := day.Blocks()
	if len(blocks) == 0 {
		fmt.Fprintln(w, "No blocks scheduled.")
	} else {
		fmt.Fprintln(w, RenderSchedule(blocks, day.Annotate(), termWidth()))
		fmt.Fprintln(w)
		fmt.Fprintln(w, formatHeader("Energy"))
		EnergyBar(w, day.EnergyDistribution(), 20)
		PrintMismatches(w, day.Mismatches())
	}

	if backlog := day.Backlog(); len(backlog) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%s %d waiting, run 'pacer backlog' to list them\n",
			formatHeader("Backlog:"), len(backlog))
	}
	return nil
}

func printNowNext(w io.Writer, day *plan.Day) {
	if cur, ok := day.Current(); ok {
		fmt.Fprintf(w, "Now:  %s %s-%s %s\n", tierTag(cur.Energy), cur.Start, cur.End, cur.Label)
	} else {
		fmt.Fprintln(w, formatMuted("Now:  nothing scheduled"))
	}
	if next, ok := day.Next(); ok {
		fmt.Fprintf(w, "Next: %s %s-%s %s\n", tierTag(next.Energy), next.Start, next.End, next.Label)
	}
}

// RenderSchedule renders blocks in stored order as a table.
// Annotations are matched to work blocks by id.
func RenderSchedule(blocks []task.Block, annotations []plan.Annotation, width int) string {
	byID := make(map[string]plan.Annotation, len(annotations))
	for _, ann := range annotations {
		byID[ann.Block.ID] = ann
	}

	// id, time, energy, expected, fit and notes columns plus borders
	labelWidth := max(width-72, 16)

	rows := make([][]string, 0, len(blocks))
	for _, b := range blocks {
		row := []string{
			shortID(b.ID),
			fmt.Sprintf("%s-%s", b.Start, b.End),
			truncate(b.Label, labelWidth),
			string(b.Energy),
			"",
			"",
			"",
		}
		if ann, ok := byID[b.ID]; ok && !b.IsBreak {
			row[colExpected] = string(ann.Expected)
			row[colFit] = fitGlyph(ann.Alignment)
			row[colNotes] = annotationNotes(ann)
		}
		rows = append(rows, row)
	}

	t := table.New().
		Headers("ID", "TIME", "BLOCK", "ENERGY", "CURVE", "FIT", "NOTES").
		Border(lipgloss.RoundedBorder()).
		BorderStyle(tableBorder).
		BorderRow(false).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeader
			}
			if row < 0 || row >= len(blocks) {
				return tableCell
			}
			b := blocks[row]
			if col == colEnergy {
				if s, ok := tierStyles[b.Energy]; ok {
					return s.Padding(0, 1)
				}
			}
			if b.IsBreak {
				return breakCell
			}
			return tableCell
		})

	return t.Render()
}

func fitGlyph(a energy.Alignment) string {
	switch a {
	case energy.Aligned:
		return "✓"
	case energy.SoftMismatch:
		return "~"
	default:
		return "⚠"
	}
}

func annotationNotes(ann plan.Annotation) string {
	var notes []string
	if ann.HasSuggestedBreak {
		notes = append(notes, "break @ "+ann.SuggestedBreak.String())
	}
	if ann.MissingBuffer {
		notes = append(notes, "no buffer")
	}
	return strings.Join(notes, ", ")
}

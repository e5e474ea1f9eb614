package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/javiermolinar/pacer/internal/coach"
	"github.com/javiermolinar/pacer/internal/energy"
	"github.com/javiermolinar/pacer/internal/plan"
	"github.com/javiermolinar/pacer/internal/task"
)

// shortIDLen is how much of a UUID the CLI shows. Any unique prefix is accepted back.
const shortIDLen = 8

// FormatDuration formats minutes as a human-readable duration.
func FormatDuration(minutes int) string {
	return coach.FormatDuration(minutes)
}

func shortID(id string) string {
	if len(id) <= shortIDLen {
		return id
	}
	return id[:shortIDLen]
}

// tierTag returns the bracketed one-letter tag for a tier.
func tierTag(t energy.Tier) string {
	if t == "" {
		return "[?]"
	}
	return formatTier(t, "["+strings.ToUpper(string(t)[:1])+"]")
}

// alignmentSymbol returns the glyph shown next to a work block.
func alignmentSymbol(a energy.Alignment) string {
	switch a {
	case energy.Aligned:
		return formatStats("✓")
	case energy.SoftMismatch:
		return formatInsight("~")
	default:
		return formatWarning("⚠")
	}
}

// truncate shortens s to width display columns.
func truncate(s string, width int) string {
	if width <= 0 || ansi.StringWidth(s) <= width {
		return s
	}
	return ansi.Truncate(s, width, "…")
}

// EnergyBar renders one bar per tier scaled to the largest share.
func EnergyBar(w io.Writer, dist map[energy.Tier]int, width int) {
	total := 0
	for _, m := range dist {
		total += m
	}
	if total == 0 {
		fmt.Fprintln(w, formatMuted("  nothing scheduled"))
		return
	}
	for _, t := range energy.Tiers {
		m := dist[t]
		filled := m * width / total
		bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
		fmt.Fprintf(w, "  %-9s %s %5s %3d%%\n",
			t, formatTier(t, bar), FormatDuration(m), m*100/total)
	}
}

// PrintMismatches lists significantly misplaced work blocks.
func PrintMismatches(w io.Writer, mismatches []plan.Mismatch) {
	if len(mismatches) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, formatWarning("Energy mismatches:"))
	for _, m := range mismatches {
		fmt.Fprintf(w, "  %s %s-%s %s is %s work during a %s slot\n",
			formatWarning("⚠"), m.Block.Start, m.Block.End, m.Block.Label,
			m.Block.Energy, m.Expected)
	}
}

// PrintBacklog lists unscheduled items.
func PrintBacklog(w io.Writer, items []task.WorkItem) {
	if len(items) == 0 {
		fmt.Fprintln(w, formatMuted("Backlog is empty."))
		return
	}
	width := max(termWidth()-30, 20)
	for _, item := range items {
		fmt.Fprintf(w, "  %s  %s %5s  %s\n",
			formatMuted(shortID(item.ID)), tierTag(item.RequiredEnergy),
			FormatDuration(item.EstimatedMinutes), truncate(item.Title, width))
	}
}

// PrintInsightWrapped formats and prints insight text preserving structure.
func PrintInsightWrapped(w io.Writer, text string, width int) {
	// Strip markdown code blocks
	text = stripMarkdownCodeBlocks(text)

	lines := strings.Split(text, "\n")
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			fmt.Fprintln(w)
			continue
		}

		// Detect and format special line types
		prefix, content, contentWidth, isHeader := parseInsightLine(trimmed, width)
		if isHeader {
			fmt.Fprintln(w)
			fmt.Fprintln(w, formatHeader("  "+content))
			continue
		}

		wrapAndPrint(w, content, prefix, contentWidth)
	}
}

// parseInsightLine parses a line and returns formatting info.
// Returns: prefix, content, contentWidth, isHeader
func parseInsightLine(trimmed string, width int) (prefix, content string, contentWidth int, isHeader bool) {
	prefix = "  "
	content = trimmed
	contentWidth = width - 2

	switch {
	case strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* "):
		prefix = "    • "
		content = strings.TrimPrefix(strings.TrimPrefix(trimmed, "- "), "* ")
		contentWidth = width - 6

	case strings.HasPrefix(trimmed, "#"):
		content = strings.TrimLeft(trimmed, "# ")
		isHeader = true

	case strings.HasPrefix(trimmed, ">"):
		content = strings.TrimPrefix(trimmed, "> ")
		prefix = "  │ "
		contentWidth = width - 4

	case isNumberedItem(trimmed):
		idx := strings.Index(trimmed, ".")
		prefix = "  " + trimmed[:idx+1] + " "
		content = strings.TrimSpace(trimmed[idx+1:])
		contentWidth = width - len(prefix)
	}

	return prefix, content, contentWidth, isHeader
}

// isNumberedItem checks if a line starts with a number followed by a period.
func isNumberedItem(s string) bool {
	if len(s) < 3 {
		return false
	}
	if s[0] < '1' || s[0] > '9' {
		return false
	}
	if s[1] == '.' {
		return true
	}
	if s[1] >= '0' && s[1] <= '9' && len(s) > 3 && s[2] == '.' {
		return true
	}
	return false
}

// wrapAndPrint wraps text to width and prints with the given prefix.
func wrapAndPrint(w io.Writer, text, prefix string, width int) {
	words := strings.Fields(text)
	if len(words) == 0 {
		return
	}

	line := ""
	continuation := strings.Repeat(" ", ansi.StringWidth(prefix))
	first := true

	for _, word := range words {
		switch {
		case line == "":
			line = word
		case len(line)+1+len(word) <= width:
			line += " " + word
		default:
			printLine(w, prefix, continuation, line, first)
			first = false
			line = word
		}
	}

	if line != "" {
		printLine(w, prefix, continuation, line, first)
	}
}

func printLine(w io.Writer, prefix, continuation, line string, first bool) {
	if first {
		fmt.Fprintln(w, formatInsight(prefix+line))
	} else {
		fmt.Fprintln(w, formatInsight(continuation+line))
	}
}

// stripMarkdownCodeBlocks removes ```...``` fences from text.
func stripMarkdownCodeBlocks(text string) string {
	lines := strings.Split(text, "\n")
	var result []string
	inCodeBlock := false

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inCodeBlock = !inCodeBlock
			continue
		}
		if !inCodeBlock {
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}

package coach

import (
	"context"
	"fmt"
	"strings"

	"github.com/javiermolinar/pacer/internal/clock"
	"github.com/javiermolinar/pacer/internal/energy"
	"github.com/javiermolinar/pacer/internal/llm"
	"github.com/javiermolinar/pacer/internal/summary"
)

const reviewSystemPrompt = `You are a gentle ADHD coach. Output ONLY the exact format shown - no markdown, no extra text. Be extremely concise.`

const reviewPromptTemplate = `Review this week's energy balance and output EXACTLY this format (no markdown, no code blocks):

THEME: [ 2-4 word theme ]

⚠️  PEAK LEAKAGE: Xh of ⚡ peak time spent on low-energy work (specific blocks).
📉 MISMATCHES: One sentence about blocks placed against the energy curve.
🔋 RECHARGE: One sentence about breaks and buffers.

NEXT WEEK:
➜  First specific change to protect peak hours.
➜  Second specific scheduling change.

Data Format:
- [H] high, [M] medium, [L] low, [R] recharge
- ⚡ = Peak window (%s-%s), 🌙 = Dip window (%s-%s)

Totals: %s
Mismatched blocks: %d
Peak leakage: %s

Daily Data:
%s

Rules:
- Use the exact emoji prefixes shown (⚠️, 📉, 🔋, ➜)
- Keep each line under 70 characters
- Be specific with times and durations from the data
- If no issue exists for a category, omit that line
- Be kind; never shame`

// Reviewer asks the model for a short weekly reflection.
// It satisfies summary.Reviewer.
type Reviewer struct {
	client llm.Client
	curve  energy.Curve
}

var _ summary.Reviewer = (*Reviewer)(nil)

// NewReviewer creates a Reviewer.
func NewReviewer(client llm.Client, curve energy.Curve) *Reviewer {
	return &Reviewer{client: client, curve: curve}
}

// Review sends the balance to the model and returns its plain-text reply.
func (r *Reviewer) Review(ctx context.Context, b *summary.Balance) (string, error) {
	p := r.curve.Pattern
	prompt := fmt.Sprintf(reviewPromptTemplate,
		p.PeakStart, p.PeakEnd, p.DipStart, p.DipEnd,
		formatTotals(b),
		b.Mismatches,
		FormatDuration(b.PeakLeakage),
		r.formatDays(b),
	)

	reply, err := r.client.Chat(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: reviewSystemPrompt},
		{Role: llm.RoleUser, Content: prompt},
	})
	if err != nil {
		return "", fmt.Errorf("reviewing week: %w", err)
	}
	return strings.TrimSpace(reply), nil
}

func formatTotals(b *summary.Balance) string {
	parts := make([]string, 0, len(energy.Tiers))
	for _, tier := range energy.Tiers {
		parts = append(parts, fmt.Sprintf("%s %s (%.0f%%)", tier, FormatDuration(b.Minutes[tier]), b.Percent(tier)))
	}
	return strings.Join(parts, ", ")
}

func (r *Reviewer) formatDays(b *summary.Balance) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Week: %s - %s\n", b.Start.Format("Mon Jan 2"), b.End.Format("Mon Jan 2, 2006"))

	p := r.curve.Pattern
	for _, day := range b.Days {
		fmt.Fprintf(&sb, "\n%s\n", day.Date.Format("Mon Jan 2"))
		for _, blk := range day.Blocks {
			marker := "  "
			switch {
			case clock.Overlap(blk.Start, blk.End, p.PeakStart, p.PeakEnd) > 0:
				marker = "⚡"
			case clock.Overlap(blk.Start, blk.End, p.DipStart, p.DipEnd) > 0:
				marker = "🌙"
			}
			fmt.Fprintf(&sb, "  %s %s-%s  %s  %s  %s\n",
				marker, blk.Start, blk.End, tierTag(blk.Energy), blk.Label, FormatDuration(blk.Duration()))
		}
	}
	return sb.String()
}

func tierTag(t energy.Tier) string {
	switch t {
	case energy.High:
		return "[H]"
	case energy.Medium:
		return "[M]"
	case energy.Low:
		return "[L]"
	default:
		return "[R]"
	}
}

// FormatDuration formats minutes as a human-readable duration.
func FormatDuration(minutes int) string {
	if minutes == 0 {
		return "0m"
	}
	hours := minutes / 60
	mins := minutes % 60
	if hours == 0 {
		return fmt.Sprintf("%dm", mins)
	}
	if mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh%dm", hours, mins)
}

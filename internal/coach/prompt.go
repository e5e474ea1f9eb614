package coach

import (
	"fmt"
	"strings"

	"github.com/javiermolinar/pacer/internal/llm"
	"github.com/javiermolinar/pacer/internal/task"
)

const systemPromptFull = `You are a planning coach for people with ADHD. You build a realistic day that
matches work to the person's energy.

Context:
- Date: %s (%s)
- Workday: %s to %s
- Do not start new blocks before: %s
- Energy pattern: peak %s-%s (high), dip %s-%s (low), medium otherwise between %s and %s
- Transition buffer between work blocks: %d minutes

%s

%s

%s

Rules:
1. Return the COMPLETE list of blocks for the day, including committed blocks you keep.
2. Use 24-hour HH:MM times. Every block must fit inside the workday.
3. Blocks must not overlap.
4. Put high-energy items in the peak window and low-energy items in the dip.
5. Insert a %d minute break (is_break true, energy "recharge") between consecutive work blocks.
6. Split work longer than 90 minutes into parts with a break between them.
7. Reference backlog items with item_id. Use each item_id at most once.
8. energy must be one of "high", "medium", "low", "recharge".
9. Warn when backlog items do not fit.

Respond ONLY with valid JSON (no markdown, no explanation):
{
  "blocks": [
    {
      "label": "string",
      "start": "HH:MM",
      "end": "HH:MM",
      "energy": "high" | "medium" | "low" | "recharge",
      "is_break": false,
      "item_id": "string (optional)"
    }
  ],
  "warnings": ["string"],
  "suggestions": ["string"]
}`

const systemPromptCompact = `You are a scheduling assistant. Use the context and return JSON only.

Date: %s
Workday: %s to %s (no new blocks before %s)
Peak (high): %s-%s. Dip (low): %s-%s.
Buffer between work blocks: %d minutes.

%s

%s

Rules:
- Return JSON only (no markdown).
- Return every block for the day, committed ones included.
- HH:MM 24-hour times inside the workday, no overlaps.
- energy is "high", "medium", "low" or "recharge".
- item_id references a backlog item, at most once.
- "warnings" and "suggestions" are arrays of strings.

JSON schema:
{
  "blocks": [
    {"label": "string", "start": "HH:MM", "end": "HH:MM", "energy": "string", "is_break": false, "item_id": "string"}
  ],
  "warnings": ["string"],
  "suggestions": ["string"]
}`

// BuildMessages creates the initial conversation for req.
func BuildMessages(req Request, compact bool) []llm.Message {
	p := req.Curve.Pattern
	notBefore := req.NotBefore
	if notBefore < req.DayStart {
		notBefore = req.DayStart
	}

	var prompt string
	if compact {
		prompt = fmt.Sprintf(systemPromptCompact,
			req.Date.Format("Monday 2006-01-02"),
			req.DayStart, req.DayEnd, notBefore,
			p.PeakStart, p.PeakEnd, p.DipStart, p.DipEnd,
			req.BufferMinutes,
			formatBlocks(req.Blocks),
			formatBacklog(req.Backlog),
		)
	} else {
		prompt = fmt.Sprintf(systemPromptFull,
			req.Date.Format("2006-01-02"), req.Date.Format("Monday"),
			req.DayStart, req.DayEnd,
			notBefore,
			p.PeakStart, p.PeakEnd, p.DipStart, p.DipEnd, req.Curve.DaytimeStart, req.Curve.DaytimeEnd,
			req.BufferMinutes,
			formatBlocks(req.Blocks),
			formatBacklog(req.Backlog),
			formatInput(req.Input),
			req.BufferMinutes,
		)
	}

	messages := []llm.Message{{Role: llm.RoleSystem, Content: prompt}}
	if compact && req.Input != "" {
		messages = append(messages, llm.Message{Role: llm.RoleUser, Content: req.Input})
	} else {
		messages = append(messages, llm.Message{Role: llm.RoleUser, Content: "Plan my day."})
	}
	return messages
}

func formatBlocks(blocks []task.Block) string {
	if len(blocks) == 0 {
		return "Committed blocks: None"
	}

	var sb strings.Builder
	sb.WriteString("Committed blocks (keep unless they conflict):\n")
	for _, b := range blocks {
		kind := "work"
		if b.IsBreak {
			kind = "break"
		}
		fmt.Fprintf(&sb, "- %s-%s %s [%s, %s]\n", b.Start, b.End, b.Label, b.Energy, kind)
	}
	return sb.String()
}

func formatBacklog(items []task.WorkItem) string {
	if len(items) == 0 {
		return "Backlog: None"
	}

	var sb strings.Builder
	sb.WriteString("Backlog (unscheduled work):\n")
	for _, w := range items {
		fmt.Fprintf(&sb, "- item_id=%s %q %dm [%s]\n", w.ID, w.Title, w.EstimatedMinutes, w.RequiredEnergy)
	}
	return sb.String()
}

func formatInput(input string) string {
	if strings.TrimSpace(input) == "" {
		return "User note: None"
	}
	return fmt.Sprintf("User note: %q", input)
}

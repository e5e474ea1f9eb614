package coach

import (
	"fmt"
	"sort"
	"strings"

	"github.com/javiermolinar/pacer/internal/clock"
	"github.com/javiermolinar/pacer/internal/energy"
	"github.com/javiermolinar/pacer/internal/task"
)

// ValidationError represents a single problem with a proposed block.
type ValidationError struct {
	BlockIndex int    // Index of the block in the proposal
	Field      string // "label", "start", "end", "energy", "item_id", "window", "overlap"
	Message    string
}

// String returns a formatted error message.
func (e ValidationError) String() string {
	return fmt.Sprintf("Block %d: %s - %s", e.BlockIndex, e.Field, e.Message)
}

// ValidationResult contains the result of validating a proposal.
type ValidationResult struct {
	Valid  bool
	Errors []ValidationError
}

// FormatErrors returns the errors as feedback for the model.
func (r ValidationResult) FormatErrors() string {
	if len(r.Errors) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("Your response had these errors:\n")
	for _, e := range r.Errors {
		fmt.Fprintf(&sb, "- %s\n", e.String())
	}
	sb.WriteString("\nPlease correct these issues and respond again with valid JSON.")
	return sb.String()
}

// Validator checks proposed blocks against the day's constraints.
type Validator struct {
	dayStart  clock.Time
	dayEnd    clock.Time
	notBefore clock.Time
	existing  []task.Block
	items     map[string]bool
}

// NewValidator creates a Validator for req.
func NewValidator(req Request) *Validator {
	items := make(map[string]bool, len(req.Backlog)+len(req.Blocks))
	for _, w := range req.Backlog {
		items[w.ID] = true
	}
	for _, b := range req.Blocks {
		if b.ItemID != "" {
			items[b.ItemID] = true
		}
	}
	return &Validator{
		dayStart:  req.DayStart,
		dayEnd:    req.DayEnd,
		notBefore: req.NotBefore,
		existing:  req.Blocks,
		items:     items,
	}
}

type parsedBlock struct {
	index int
	start clock.Time
	end   clock.Time
	label string
}

// Validate checks that every block parses, fits the window, references a
// known work item at most once and does not overlap another block.
// Blocks identical to a committed block are exempt from the not-before rule.
func (v *Validator) Validate(blocks []ProposedBlock) ValidationResult {
	var (
		result ValidationResult
		parsed []parsedBlock
		seen   = make(map[string]int)
	)

	fail := func(i int, field, format string, args ...any) {
		result.Errors = append(result.Errors, ValidationError{
			BlockIndex: i,
			Field:      field,
			Message:    fmt.Sprintf(format, args...),
		})
	}

	for i, b := range blocks {
		ok := true

		if strings.TrimSpace(b.Label) == "" {
			fail(i, "label", "label cannot be empty")
			ok = false
		}

		start, err := clock.Parse(b.Start)
		if err != nil {
			fail(i, "start", "'%s' is invalid (must be HH:MM format, 00:00-23:59)", b.Start)
			ok = false
		}
		end, err2 := clock.Parse(b.End)
		if err2 != nil {
			fail(i, "end", "'%s' is invalid (must be HH:MM format, 00:00-23:59)", b.End)
			ok = false
		}
		if err == nil && err2 == nil {
			switch {
			case end <= start:
				fail(i, "end", "end time '%s' must be after start time '%s'", b.End, b.Start)
				ok = false
			case start < v.dayStart || end > v.dayEnd:
				fail(i, "window", "%s-%s is outside the workday %s-%s", b.Start, b.End, v.dayStart, v.dayEnd)
				ok = false
			case start < v.notBefore && !v.isCommitted(b, start, end):
				fail(i, "start", "start time '%s' is in the past (now %s)", b.Start, v.notBefore)
				ok = false
			}
		}

		if !(b.IsBreak && b.Energy == "") {
			if _, err := energy.ParseTier(b.Energy); err != nil {
				fail(i, "energy", "'%s' is invalid (must be high, medium, low or recharge)", b.Energy)
				ok = false
			}
		}

		if b.ItemID != "" {
			if !v.items[b.ItemID] {
				fail(i, "item_id", "'%s' is not a known work item", b.ItemID)
				ok = false
			} else if prev, dup := seen[b.ItemID]; dup {
				fail(i, "item_id", "'%s' is already scheduled by block %d", b.ItemID, prev)
				ok = false
			} else {
				seen[b.ItemID] = i
			}
		}

		if ok {
			parsed = append(parsed, parsedBlock{index: i, start: start, end: end, label: b.Label})
		}
	}

	sort.Slice(parsed, func(i, j int) bool { return parsed[i].start < parsed[j].start })
	// reach is the parsed block ending latest so far.
	for i, reach := 1, 0; i < len(parsed); i++ {
		prev, cur := parsed[reach], parsed[i]
		if cur.start < prev.end {
			fail(cur.index, "overlap", "overlaps with block '%s' (%s-%s)", prev.label, prev.start, prev.end)
		}
		if cur.end > prev.end {
			reach = i
		}
	}

	sort.SliceStable(result.Errors, func(i, j int) bool {
		return result.Errors[i].BlockIndex < result.Errors[j].BlockIndex
	})
	result.Valid = len(result.Errors) == 0
	return result
}

func (v *Validator) isCommitted(b ProposedBlock, start, end clock.Time) bool {
	_, ok := v.match(b, start, end)
	return ok
}

// match returns the committed block with the same range and label.
func (v *Validator) match(b ProposedBlock, start, end clock.Time) (task.Block, bool) {
	for _, e := range v.existing {
		if e.Start == start && e.End == end && e.Label == b.Label {
			return e, true
		}
	}
	return task.Block{}, false
}

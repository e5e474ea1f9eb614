// Package coach turns a backlog and an energy pattern into an AI-proposed day.
// Proposals are validated and fed back to the model until they fit, then
// returned as blocks ready for a wholesale replace.
package coach

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/javiermolinar/pacer/internal/clock"
	"github.com/javiermolinar/pacer/internal/energy"
	"github.com/javiermolinar/pacer/internal/llm"
	"github.com/javiermolinar/pacer/internal/logger"
	"github.com/javiermolinar/pacer/internal/task"
)

// ErrMaxRetriesExceeded is returned when all retry attempts fail validation.
var ErrMaxRetriesExceeded = errors.New("maximum retries exceeded, validation still failing")

// ErrNoSession is returned by Refine before PlanDay has run.
var ErrNoSession = errors.New("no active planning session")

// DefaultMaxRetries bounds the validation feedback loop.
const DefaultMaxRetries = 3

// Request is everything the model needs to propose a day.
type Request struct {
	Date          time.Time
	DayStart      clock.Time
	DayEnd        clock.Time
	BufferMinutes int
	// NotBefore rejects new blocks starting earlier; zero for future days.
	NotBefore clock.Time
	Curve     energy.Curve
	Blocks    []task.Block
	Backlog   []task.WorkItem
	// Input is an optional free-form note from the user.
	Input string
}

// ProposedBlock is one block as the model returns it.
type ProposedBlock struct {
	Label   string `json:"label"`
	Start   string `json:"start"`
	End     string `json:"end"`
	Energy  string `json:"energy"`
	IsBreak bool   `json:"is_break"`
	ItemID  string `json:"item_id,omitempty"`
}

// Response is the JSON document the model is asked for.
type Response struct {
	Blocks      []ProposedBlock `json:"blocks"`
	Warnings    []string        `json:"warnings"`
	Suggestions []string        `json:"suggestions"`
}

// Result is a validated proposal.
type Result struct {
	Blocks      []task.Block
	Warnings    []string
	Suggestions []string
	Attempts    int
	// ValidationErrors is set when the retry limit was reached.
	ValidationErrors []ValidationError
}

// HasValidationErrors returns true if there are unresolved validation errors.
func (r *Result) HasValidationErrors() bool {
	return len(r.ValidationErrors) > 0
}

// Options configures a Planner.
type Options struct {
	// Compact selects the short prompt used for local models.
	Compact    bool
	MaxRetries int
	NewID      func() string
}

// Planner runs a planning conversation with the model.
// A Planner holds one conversation and is not safe for concurrent use.
type Planner struct {
	client     llm.Client
	compact    bool
	maxRetries int
	newID      func() string

	req      Request
	messages []llm.Message
	last     *Response
}

// New creates a Planner.
func New(client llm.Client, opts Options) *Planner {
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	return &Planner{
		client:     client,
		compact:    opts.Compact,
		maxRetries: opts.MaxRetries,
		newID:      opts.NewID,
	}
}

// PlanDay asks the model for a full-day block list.
// When validation still fails after the retry limit, the last result is
// returned together with ErrMaxRetriesExceeded.
func (p *Planner) PlanDay(ctx context.Context, req Request) (*Result, error) {
	p.req = req
	p.last = nil
	p.messages = BuildMessages(req, p.compact)
	return p.run(ctx)
}

// Refine continues the conversation with user feedback and replans.
func (p *Planner) Refine(ctx context.Context, feedback string) (*Result, error) {
	if len(p.messages) == 0 {
		return nil, ErrNoSession
	}
	if p.last != nil {
		p.appendAssistant(p.last)
	}
	p.messages = append(p.messages, llm.Message{Role: llm.RoleUser, Content: feedback})
	return p.run(ctx)
}

func (p *Planner) run(ctx context.Context) (*Result, error) {
	validator := NewValidator(p.req)

	var validation ValidationResult
	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		var resp Response
		if err := p.client.ChatJSON(ctx, p.messages, &resp); err != nil {
			return nil, fmt.Errorf("LLM planning (attempt %d): %w", attempt+1, err)
		}
		p.last = &resp

		validation = validator.Validate(resp.Blocks)
		if validation.Valid {
			logger.Info("plan proposal accepted", "attempt", attempt+1, "blocks", len(resp.Blocks))
			return p.buildResult(&resp, validator, attempt+1, nil), nil
		}

		logger.Warn("plan proposal rejected", "attempt", attempt+1, "errors", len(validation.Errors))
		if attempt < p.maxRetries {
			p.appendAssistant(&resp)
			p.messages = append(p.messages, llm.Message{
				Role:    llm.RoleUser,
				Content: validation.FormatErrors(),
			})
		}
	}

	return p.buildResult(p.last, validator, p.maxRetries+1, validation.Errors), ErrMaxRetriesExceeded
}

func (p *Planner) appendAssistant(resp *Response) {
	data, _ := json.Marshal(resp)
	p.messages = append(p.messages, llm.Message{Role: llm.RoleAssistant, Content: string(data)})
}

// buildResult converts the proposal into blocks. Invalid entries are
// skipped, so a result with validation errors holds only the usable part.
func (p *Planner) buildResult(resp *Response, v *Validator, attempts int, errs []ValidationError) *Result {
	bad := make(map[int]bool, len(errs))
	for _, e := range errs {
		bad[e.BlockIndex] = true
	}

	result := &Result{
		Warnings:         resp.Warnings,
		Suggestions:      resp.Suggestions,
		Attempts:         attempts,
		ValidationErrors: errs,
	}
	for i, pb := range resp.Blocks {
		if bad[i] {
			continue
		}
		result.Blocks = append(result.Blocks, p.toBlock(pb, v))
	}
	sort.SliceStable(result.Blocks, func(i, j int) bool {
		return result.Blocks[i].Start < result.Blocks[j].Start
	})
	return result
}

func (p *Planner) toBlock(pb ProposedBlock, v *Validator) task.Block {
	start := clock.MustParse(pb.Start)
	end := clock.MustParse(pb.End)

	tier := energy.Recharge
	if pb.Energy != "" {
		tier, _ = energy.ParseTier(pb.Energy)
	}

	b := task.Block{
		Start:   start,
		End:     end,
		Label:   strings.TrimSpace(pb.Label),
		Energy:  tier,
		IsBreak: pb.IsBreak,
		ItemID:  pb.ItemID,
	}
	if committed, ok := v.match(pb, start, end); ok {
		b.ID = committed.ID
	} else {
		b.ID = p.newID()
	}
	return b
}

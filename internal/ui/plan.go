package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/pacer/internal/clock"
	"github.com/javiermolinar/pacer/internal/coach"
	"github.com/javiermolinar/pacer/internal/energy"
	"github.com/javiermolinar/pacer/internal/llm"
	"github.com/javiermolinar/pacer/internal/plan"
)

// newLLMClient builds the configured chat client. Replaced in tests.
var newLLMClient = llm.NewClient

func (a *App) planCmd() *cobra.Command {
	var (
		modelFlag string
		dryRun    bool
	)

	cmd := &cobra.Command{
		Use:   "plan [note]",
		Short: "Let the AI coach plan the day around your energy",
		Long: `Ask the configured model to lay out the whole day from your backlog
and energy pattern. Committed blocks are kept, work goes where your
energy fits it and breaks separate focus blocks.

Examples:
  pacer plan
  pacer plan "keep the afternoon light, I slept badly"
  pacer plan --date=tomorrow --dry-run

Interactive mode:
  After the coach proposes a schedule, you can:
  - [a]ccept: Replace the day's blocks with the proposal
  - [m]odify: Provide feedback to adjust the proposal
  - [c]ancel: Exit without saving`,
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := a.openDay(cmd)
			if err != nil {
				return err
			}

			model := modelFlag
			if model == "" {
				model = a.config.LLM.Model
			}
			provider := a.config.LLM.Provider

			client, err := newLLMClient(provider, model, a.config.LLM.BaseURL)
			if err != nil {
				return fmt.Errorf("creating LLM client: %w", err)
			}

			planner := coach.New(client, coach.Options{
				Compact:    llm.IsLocal(provider),
				MaxRetries: coach.DefaultMaxRetries,
			})

			req, err := a.coachRequest(day, strings.Join(args, " "))
			if err != nil {
				return err
			}

			w := out(cmd)
			fmt.Fprintln(w, "Planning your day...")
			result, err := planner.PlanDay(ctxOf(cmd), req)
			if err != nil && !errors.Is(err, coach.ErrMaxRetriesExceeded) {
				return fmt.Errorf("planning: %w", err)
			}

			reader := bufio.NewReader(cmd.InOrStdin())
			for {
				displayPlanResult(w, result, day.Curve())

				if result.HasValidationErrors() {
					fmt.Fprintln(w, "\nValidation errors (retry limit reached):")
					for _, ve := range result.ValidationErrors {
						fmt.Fprintf(w, "  - %s\n", ve)
					}
				}

				if dryRun {
					fmt.Fprintln(w, "\n(Dry run - plan not saved)")
					return nil
				}

				fmt.Fprint(w, "\n[a]ccept / [m]odify / [c]ancel: ")
				choice, err := readLine(reader)
				if err != nil {
					return fmt.Errorf("reading input: %w", err)
				}

				switch strings.ToLower(choice) {
				case "a", "accept":
					if result.HasValidationErrors() {
						fmt.Fprintln(w, "Cannot save: there are unresolved validation errors.")
						fmt.Fprintln(w, "Please [m]odify the plan or [c]ancel.")
						continue
					}
					if err := a.session.AcceptPlan(ctxOf(cmd), result.Blocks); err != nil {
						return fmt.Errorf("saving plan: %w", err)
					}
					fmt.Fprintf(w, "\n%d blocks saved\n", len(result.Blocks))
					return nil

				case "m", "modify":
					fmt.Fprint(w, "What would you like to change? ")
					feedback, err := readLine(reader)
					if err != nil {
						return fmt.Errorf("reading input: %w", err)
					}
					if feedback == "" {
						fmt.Fprintln(w, "No modification provided, showing current plan...")
						continue
					}

					fmt.Fprintln(w, "\nReplanning...")
					refined, err := planner.Refine(ctxOf(cmd), feedback)
					if err != nil && !errors.Is(err, coach.ErrMaxRetriesExceeded) {
						return fmt.Errorf("replanning: %w", err)
					}
					result = refined

				case "c", "cancel":
					fmt.Fprintln(w, "Planning cancelled.")
					return nil

				default:
					fmt.Fprintln(w, "Invalid choice. Please enter 'a', 'm', or 'c'.")
				}
			}
		},
	}

	cmd.Flags().StringVar(&modelFlag, "model", "", "LLM model to use (from config if not set)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the proposal without saving")

	return cmd
}

// coachRequest describes the open day to the planner. On the current day
// new blocks may not start before the current minute.
func (a *App) coachRequest(day *plan.Day, note string) (coach.Request, error) {
	sc, err := a.config.Scheduler()
	if err != nil {
		return coach.Request{}, err
	}
	req := coach.Request{
		Date:          day.Date(),
		DayStart:      sc.DayStart,
		DayEnd:        sc.DayEnd,
		BufferMinutes: sc.BufferMinutes,
		Curve:         day.Curve(),
		Blocks:        day.Blocks(),
		Backlog:       day.Backlog(),
		Input:         note,
	}
	if a.isToday(day.Date()) {
		now := a.now()
		req.NotBefore = clock.Time(now.Hour()*60 + now.Minute())
	}
	return req, nil
}

// readLine reads one trimmed line. A final line without newline is accepted.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// displayPlanResult shows the proposal with its alignment against the curve.
func displayPlanResult(w io.Writer, result *coach.Result, curve energy.Curve) {
	fmt.Fprintln(w)

	if len(result.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range result.Warnings {
			fmt.Fprintf(w, "  ! %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(result.Suggestions) > 0 {
		fmt.Fprintln(w, "Suggestions:")
		for _, s := range result.Suggestions {
			fmt.Fprintf(w, "  * %s\n", s)
		}
		fmt.Fprintln(w)
	}

	if len(result.Blocks) == 0 {
		fmt.Fprintln(w, "No blocks proposed.")
		return
	}

	fmt.Fprintln(w, strings.Repeat("-", 60))
	work := 0
	for _, b := range result.Blocks {
		if b.IsBreak {
			fmt.Fprintf(w, "     %s-%s  %s\n", b.Start, b.End, formatMuted(b.Label))
			continue
		}
		work += b.Duration()
		fit := alignmentSymbol(energy.Align(b.Energy, curve.Classify(b.Start)))
		fmt.Fprintf(w, "  %s  %s-%s  %s %s\n", fit, b.Start, b.End, tierTag(b.Energy), b.Label)
	}
	fmt.Fprintln(w, strings.Repeat("-", 60))
	fmt.Fprintf(w, "Total: %d blocks, %s of work (attempts: %d)\n",
		len(result.Blocks), FormatDuration(work), result.Attempts)
}

package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/pacer/internal/config"
	"github.com/javiermolinar/pacer/internal/dateutil"
	"github.com/javiermolinar/pacer/internal/db"
	"github.com/javiermolinar/pacer/internal/logger"
	"github.com/javiermolinar/pacer/internal/plan"
	"github.com/javiermolinar/pacer/internal/scheduler"
	"github.com/javiermolinar/pacer/internal/task"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	repo       task.Repository
	ownRepo    bool
	config     *config.Config
	configPath string
	session    *plan.Session
	root       *cobra.Command
	now        func() time.Time

	date    string
	debug   bool
	noColor bool
}

// NewApp creates a new CLI application with the given repository and config.
// A nil repo is opened lazily from the configured database path.
func NewApp(repo task.Repository, cfg *config.Config) *App {
	a := &App{
		repo:       repo,
		config:     cfg,
		configPath: config.DefaultConfigPath(),
		now:        time.Now,
	}

	a.root = &cobra.Command{
		Use:   "pacer",
		Short: "Energy-aware daily planning for ADHD brains",
		Long: `Pacer plans your day around your energy.

Tell it when you peak and when you dip, keep a backlog of work items
tagged high, medium, low or recharge, and let it place them on today's
schedule with transition buffers in between.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if a.noColor {
				DisableColor()
			}
			if err := logger.Init(logger.Config{
				Debug: a.debug || a.config.Log.Debug,
				Dir:   a.config.Log.Dir,
			}); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: logging disabled: %v\n", err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runShow(cmd)
		},
	}

	flags := a.root.PersistentFlags()
	flags.StringVarP(&a.date, "date", "d", "today", "Day to work on (today, tomorrow, yesterday, monday, last-friday, YYYY-MM-DD)")
	flags.BoolVar(&a.debug, "debug", false, "Enable debug logging")
	flags.BoolVar(&a.noColor, "no-color", false, "Disable color output")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.showCmd())
	a.root.AddCommand(a.backlogCmd())
	a.root.AddCommand(a.addCmd())
	a.root.AddCommand(a.quickCmd())
	a.root.AddCommand(a.smartCmd())
	a.root.AddCommand(a.removeCmd())
	a.root.AddCommand(a.reorderCmd())
	a.root.AddCommand(a.planCmd())
	a.root.AddCommand(a.energyCmd())
	a.root.AddCommand(a.weekCmd())
	a.root.AddCommand(a.listCmd())
	a.root.AddCommand(a.importCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pacer %s (commit: %s)\n", Version, Commit)
		},
	}
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

// Close releases the repository if the app opened it.
func (a *App) Close() error {
	if a.ownRepo && a.repo != nil {
		return a.repo.Close()
	}
	return nil
}

// ensureRepo opens the configured database on first use.
func (a *App) ensureRepo() error {
	if a.repo != nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(a.config.Storage.DBPath), 0o755); err != nil {
		return fmt.Errorf("creating database directory: %w", err)
	}
	repo, err := db.New(a.config.Storage.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	a.repo = repo
	a.ownRepo = true
	return nil
}

// planOptions builds day options from config.
func (a *App) planOptions() (plan.Options, error) {
	sc, err := a.config.Scheduler()
	if err != nil {
		return plan.Options{}, err
	}
	curve, err := a.config.Curve()
	if err != nil {
		return plan.Options{}, err
	}
	return plan.Options{
		Scheduler:        scheduler.New(sc),
		Curve:            curve,
		Now:              a.now,
		LongBlockMinutes: a.config.Schedule.LongBlockMinutes,
	}, nil
}

// selectedDate resolves the --date flag.
func (a *App) selectedDate() (time.Time, error) {
	return dateutil.ParseDay(a.date, a.now())
}

// isToday reports whether day is the current calendar day.
func (a *App) isToday(day time.Time) bool {
	return dateutil.TruncateToDay(a.now()).Equal(dateutil.TruncateToDay(day))
}

// openDay loads the selected day. A failed load is reported and an empty
// day is returned so read-only commands keep working.
func (a *App) openDay(cmd *cobra.Command) (*plan.Day, error) {
	if err := a.ensureRepo(); err != nil {
		return nil, err
	}
	if a.session == nil {
		opts, err := a.planOptions()
		if err != nil {
			return nil, err
		}
		a.session = plan.NewSession(a.repo, opts)
	}

	date, err := a.selectedDate()
	if err != nil {
		return nil, err
	}

	day, err := a.session.Open(cmd.Context(), date)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s %v\n", formatWarning("warning:"), err)
	}
	return day, nil
}

// save persists the open day and reports a failure without losing the edit.
func (a *App) save(ctx context.Context, cmd *cobra.Command) error {
	if err := a.session.Save(ctx); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s changes kept in memory only\n", formatWarning("warning:"))
		return err
	}
	return nil
}

func out(cmd *cobra.Command) io.Writer {
	return cmd.OutOrStdout()
}

// ErrAmbiguousID is returned when an id prefix matches more than one entry.
var ErrAmbiguousID = errors.New("ambiguous id")

// ErrUnknownID is returned when an id prefix matches nothing.
var ErrUnknownID = errors.New("unknown id")

// resolveID expands a unique id prefix against ids.
func resolveID(prefix string, ids []string) (string, error) {
	var match string
	for _, id := range ids {
		if id == prefix {
			return id, nil
		}
		if len(prefix) > 0 && len(id) >= len(prefix) && id[:len(prefix)] == prefix {
			if match != "" {
				return "", fmt.Errorf("%w: %s", ErrAmbiguousID, prefix)
			}
			match = id
		}
	}
	if match == "" {
		return "", fmt.Errorf("%w: %s", ErrUnknownID, prefix)
	}
	return match, nil
}

func blockIDs(blocks []task.Block) []string {
	ids := make([]string, len(blocks))
	for i, b := range blocks {
		ids[i] = b.ID
	}
	return ids
}

func itemIDs(items []task.WorkItem) []string {
	ids := make([]string, len(items))
	for i, w := range items {
		ids[i] = w.ID
	}
	return ids
}

func ctxOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

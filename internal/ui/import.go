package ui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/pacer/internal/db"
	"github.com/javiermolinar/pacer/internal/task"
)

// ImportStats reports what an import copied.
type ImportStats struct {
	Days    int
	Skipped int
	Blocks  int
	Backlog int
}

func (a *App) importCmd() *cobra.Command {
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "import [database_path]",
		Short: "Import day plans from another database",
		Long: `Import every stored day from another pacer database into the current one.

Days that already have a plan are skipped unless --overwrite is set.

Example:
  pacer import /path/to/other.db`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}

			sourcePath, err := resolvePath(args[0])
			if err != nil {
				return err
			}
			destPath, err := resolvePath(a.config.Storage.DBPath)
			if err != nil {
				return err
			}

			if sourcePath == destPath {
				return fmt.Errorf("source database matches current database")
			}

			info, err := os.Stat(sourcePath)
			if err != nil {
				if os.IsNotExist(err) {
					return fmt.Errorf("source database does not exist: %s", sourcePath)
				}
				return fmt.Errorf("checking source database: %w", err)
			}
			if info.IsDir() {
				return fmt.Errorf("source database path is a directory: %s", sourcePath)
			}

			stats, err := importDays(ctxOf(cmd), a.repo, sourcePath, overwrite)
			if err != nil {
				return err
			}

			fmt.Fprintf(out(cmd), "Imported %d days (%d blocks, %d backlog items) from %s\n",
				stats.Days, stats.Blocks, stats.Backlog, sourcePath)
			if stats.Skipped > 0 {
				fmt.Fprintf(out(cmd), "%s\n", formatMuted(fmt.Sprintf(
					"Skipped %d days that already have a plan", stats.Skipped)))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace days that already have a plan")
	return cmd
}

// Whole calendar range the date column can hold.
var (
	importFrom = time.Date(1, 1, 1, 0, 0, 0, 0, time.Local)
	importTo   = time.Date(9999, 12, 31, 0, 0, 0, 0, time.Local)
)

func importDays(ctx context.Context, dest task.Repository, sourcePath string, overwrite bool) (ImportStats, error) {
	var stats ImportStats

	sourceRepo, err := db.New(sourcePath)
	if err != nil {
		return stats, fmt.Errorf("opening source database: %w", err)
	}
	defer func() { _ = sourceRepo.Close() }()

	snaps, err := sourceRepo.ListDays(ctx, importFrom, importTo)
	if err != nil {
		return stats, fmt.Errorf("listing source days: %w", err)
	}

	for _, snap := range snaps {
		if !overwrite {
			existing, err := dest.LoadDay(ctx, snap.Date)
			if err != nil {
				return stats, fmt.Errorf("checking %s: %w", snap.Date.Format("2006-01-02"), err)
			}
			if !existing.Empty() {
				stats.Skipped++
				continue
			}
		}

		if err := dest.SaveDay(ctx, snap); err != nil {
			return stats, fmt.Errorf("importing %s: %w", snap.Date.Format("2006-01-02"), err)
		}
		stats.Days++
		stats.Blocks += len(snap.Blocks)
		stats.Backlog += len(snap.Backlog)
	}

	return stats, nil
}

func resolvePath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("empty path")
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	return absPath, nil
}

package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/pacer/internal/clock"
	"github.com/javiermolinar/pacer/internal/config"
	"github.com/javiermolinar/pacer/internal/energy"
)

func (a *App) energyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "energy",
		Short: "Show your energy curve",
		Long: `Show the energy tier expected at each hour of the day.

Peak hours are high energy, the dip is low energy, the rest of the
daytime window is medium and everything outside it is for recharging.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			curve, err := a.config.Curve()
			if err != nil {
				return err
			}
			PrintCurve(out(cmd), curve)
			return nil
		},
	}

	cmd.AddCommand(a.energySetCmd())
	return cmd
}

func (a *App) energySetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set [peak-start] [peak-end] [dip-start] [dip-end]",
		Short: "Change your peak and dip windows",
		Long: `Change the four boundaries of your energy pattern and save them to
the config file. Mismatch warnings follow the new pattern immediately.

Example:
  pacer energy set 08:30 11:00 13:30 15:00`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := energy.ParsePattern(args[0], args[1], args[2], args[3])
			if err != nil {
				return err
			}

			updated := *a.config
			updated.Energy = config.EnergyConfig{
				PeakStart: p.PeakStart.String(),
				PeakEnd:   p.PeakEnd.String(),
				DipStart:  p.DipStart.String(),
				DipEnd:    p.DipEnd.String(),
			}
			if err := updated.Validate(); err != nil {
				return fmt.Errorf("invalid pattern: %w", err)
			}
			if err := updated.SaveTo(a.configPath); err != nil {
				return fmt.Errorf("saving config: %w", err)
			}
			*a.config = updated

			day, err := a.openDay(cmd)
			if err != nil {
				return err
			}
			day.SetPattern(p)

			w := out(cmd)
			fmt.Fprintf(w, "Energy pattern saved to %s\n", a.configPath)
			if p.Overlapping() {
				fmt.Fprintf(w, "%s peak and dip overlap, the peak wins where they do\n", formatWarning("note:"))
			}
			if n := len(day.Mismatches()); n > 0 {
				fmt.Fprintf(w, "%s %d blocks on %s now sit at a significantly wrong energy level\n",
					formatWarning("⚠"), n, day.Date().Format("Mon Jan 2"))
			}
			return nil
		},
	}
}

// PrintCurve prints one row per hour with the expected tier.
func PrintCurve(w io.Writer, curve energy.Curve) {
	p := curve.Pattern
	fmt.Fprintf(w, "Peak %s-%s  Dip %s-%s  Daytime %s-%s\n\n",
		p.PeakStart, p.PeakEnd, p.DipStart, p.DipEnd, curve.DaytimeStart, curve.DaytimeEnd)

	for h := 0; h < 24; h++ {
		// classify on the half hour so windows starting at :30 show up
		t := curve.ClassifyHour(float64(h) + 0.5)
		width := energy.Rank(t) + 1
		bar := strings.Repeat("██", width) + strings.Repeat("  ", 4-width)
		label := clock.Time(h * 60).String()
		fmt.Fprintf(w, "  %s %s %s\n", label, formatTier(t, bar), formatMuted(string(t)))
	}
}

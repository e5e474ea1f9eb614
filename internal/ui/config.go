package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/pacer/internal/config"
)

func (a *App) configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Interactive configuration management.

If no config file exists, creates one with default values.
Otherwise, displays current config and allows editing.

Example:
  pacer config`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigInteractive(a.configPath, cmd.InOrStdin(), out(cmd))
		},
	}
}

func runConfigInteractive(configPath string, in io.Reader, w io.Writer) error {
	fmt.Fprintf(w, "Config file: %s\n\n", configPath)

	// Load existing config or create defaults
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	_, fileErr := os.Stat(configPath)
	if os.IsNotExist(fileErr) {
		fmt.Fprintln(w, "No config file found. Creating with default values...")
		if err := cfg.SaveTo(configPath); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintf(w, "Created %s\n\n", configPath)
	}

	printConfig(w, cfg)

	reader := bufio.NewReader(in)
	if !promptYesNo(reader, w, "\nWould you like to edit the configuration?") {
		return nil
	}

	p := prompter{r: reader, w: w}
	cfg.Schedule.DayStart = p.value("Day start", cfg.Schedule.DayStart)
	cfg.Schedule.DayEnd = p.value("Day end", cfg.Schedule.DayEnd)
	cfg.Schedule.BufferMinutes = p.integer("Buffer minutes", cfg.Schedule.BufferMinutes)
	cfg.Schedule.LongBlockMinutes = p.integer("Suggest a break above (minutes)", cfg.Schedule.LongBlockMinutes)
	cfg.Energy.PeakStart = p.value("Peak start", cfg.Energy.PeakStart)
	cfg.Energy.PeakEnd = p.value("Peak end", cfg.Energy.PeakEnd)
	cfg.Energy.DipStart = p.value("Dip start", cfg.Energy.DipStart)
	cfg.Energy.DipEnd = p.value("Dip end", cfg.Energy.DipEnd)
	cfg.LLM.Provider = p.value("LLM provider (ollama, lmstudio, openai)", cfg.LLM.Provider)
	cfg.LLM.Model = p.value("LLM model", cfg.LLM.Model)
	cfg.LLM.BaseURL = p.value("LLM base URL", cfg.LLM.BaseURL)
	cfg.Storage.DBPath = p.value("Database path", cfg.Storage.DBPath)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if err := cfg.SaveTo(configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintln(w, "\nConfiguration saved!")
	return nil
}

func printConfig(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, "Current configuration:")
	fmt.Fprintln(w, "──────────────────────")
	fmt.Fprintln(w, "[schedule]")
	fmt.Fprintf(w, "  day_start          = %s\n", cfg.Schedule.DayStart)
	fmt.Fprintf(w, "  day_end            = %s\n", cfg.Schedule.DayEnd)
	fmt.Fprintf(w, "  buffer_minutes     = %d\n", cfg.Schedule.BufferMinutes)
	fmt.Fprintf(w, "  long_block_minutes = %d\n", cfg.Schedule.LongBlockMinutes)
	fmt.Fprintf(w, "  daytime            = %s-%s\n", cfg.Schedule.DaytimeStart, cfg.Schedule.DaytimeEnd)
	fmt.Fprintln(w, "\n[energy]")
	fmt.Fprintf(w, "  peak               = %s-%s\n", cfg.Energy.PeakStart, cfg.Energy.PeakEnd)
	fmt.Fprintf(w, "  dip                = %s-%s\n", cfg.Energy.DipStart, cfg.Energy.DipEnd)
	fmt.Fprintln(w, "\n[llm]")
	fmt.Fprintf(w, "  provider           = %s\n", cfg.LLM.Provider)
	fmt.Fprintf(w, "  model              = %s\n", cfg.LLM.Model)
	fmt.Fprintf(w, "  base_url           = %s\n", cfg.LLM.BaseURL)
	fmt.Fprintln(w, "\n[storage]")
	fmt.Fprintf(w, "  db_path            = %s\n", cfg.Storage.DBPath)
}

func promptYesNo(reader *bufio.Reader, w io.Writer, question string) bool {
	fmt.Fprintf(w, "%s [y/N]: ", question)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

type prompter struct {
	r *bufio.Reader
	w io.Writer
}

func (p prompter) value(label, current string) string {
	if current == "" {
		fmt.Fprintf(p.w, "  %s: ", label)
	} else {
		fmt.Fprintf(p.w, "  %s [%s]: ", label, current)
	}
	input, _ := p.r.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	return input
}

func (p prompter) integer(label string, current int) int {
	for {
		value := p.value(label, strconv.Itoa(current))
		n, err := strconv.Atoi(value)
		if err == nil {
			return n
		}
		fmt.Fprintf(p.w, "  Invalid number %q\n", value)
	}
}

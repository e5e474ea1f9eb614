// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/javiermolinar/pacer/internal/clock"
	"github.com/javiermolinar/pacer/internal/energy"
	"github.com/javiermolinar/pacer/internal/scheduler"
)

// Config holds the application configuration.
type Config struct {
	Schedule ScheduleConfig `toml:"schedule"`
	Energy   EnergyConfig   `toml:"energy"`
	LLM      LLMConfig      `toml:"llm"`
	Storage  StorageConfig  `toml:"storage"`
	Log      LogConfig      `toml:"log"`
}

// ScheduleConfig holds the schedulable window and the daytime baseline.
type ScheduleConfig struct {
	DayStart         string `toml:"day_start"`          // e.g., "08:00"
	DayEnd           string `toml:"day_end"`            // e.g., "17:00"
	BufferMinutes    int    `toml:"buffer_minutes"`     // gap between work blocks
	DaytimeStart     string `toml:"daytime_start"`      // Medium baseline start
	DaytimeEnd       string `toml:"daytime_end"`        // Medium baseline end
	LongBlockMinutes int    `toml:"long_block_minutes"` // suggest a break above this
}

// EnergyConfig holds the daily peak and dip windows.
type EnergyConfig struct {
	PeakStart string `toml:"peak_start"`
	PeakEnd   string `toml:"peak_end"`
	DipStart  string `toml:"dip_start"`
	DipEnd    string `toml:"dip_end"`
}

// LLMConfig holds LLM provider settings.
type LLMConfig struct {
	Provider string `toml:"provider"` // "openai", "lmstudio", "ollama"
	Model    string `toml:"model"`    // e.g., "gpt-4o-mini"
	BaseURL  string `toml:"base_url"` // e.g., "http://localhost:11434"
}

// StorageConfig holds database settings.
type StorageConfig struct {
	DBPath string `toml:"db_path"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Debug bool   `toml:"debug"`
	Dir   string `toml:"dir"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Schedule: ScheduleConfig{
			DayStart:         "08:00",
			DayEnd:           "17:00",
			BufferMinutes:    scheduler.DefaultBufferMinutes,
			DaytimeStart:     "06:00",
			DaytimeEnd:       "20:00",
			LongBlockMinutes: 60,
		},
		Energy: EnergyConfig{
			PeakStart: "09:00",
			PeakEnd:   "11:30",
			DipStart:  "14:00",
			DipEnd:    "15:30",
		},
		LLM: LLMConfig{
			Provider: "ollama",
			Model:    "llama3.2",
			BaseURL:  "http://localhost:11434",
		},
		Storage: StorageConfig{
			DBPath: defaultDBPath(),
		},
		Log: LogConfig{
			Dir: defaultLogDir(),
		},
	}
}

// defaultDBPath returns the default database path.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "pacer.db"
	}
	return filepath.Join(home, ".local", "share", "pacer", "pacer.db")
}

func defaultLogDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".local", "state", "pacer")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "pacer", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	// Try to load from file (not an error if it doesn't exist)
	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)
	cfg.Log.Dir = expandPath(cfg.Log.Dir)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) error {
	strs := map[string]*string{
		"PACER_DAY_START":     &cfg.Schedule.DayStart,
		"PACER_DAY_END":       &cfg.Schedule.DayEnd,
		"PACER_DAYTIME_START": &cfg.Schedule.DaytimeStart,
		"PACER_DAYTIME_END":   &cfg.Schedule.DaytimeEnd,
		"PACER_PEAK_START":    &cfg.Energy.PeakStart,
		"PACER_PEAK_END":      &cfg.Energy.PeakEnd,
		"PACER_DIP_START":     &cfg.Energy.DipStart,
		"PACER_DIP_END":       &cfg.Energy.DipEnd,
		"PACER_LLM_PROVIDER":  &cfg.LLM.Provider,
		"PACER_LLM_MODEL":     &cfg.LLM.Model,
		"PACER_LLM_BASE_URL":  &cfg.LLM.BaseURL,
		"PACER_DB_PATH":       &cfg.Storage.DBPath,
		"PACER_LOG_DIR":       &cfg.Log.Dir,
	}
	for key, dst := range strs {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	ints := map[string]*int{
		"PACER_BUFFER_MINUTES":     &cfg.Schedule.BufferMinutes,
		"PACER_LONG_BLOCK_MINUTES": &cfg.Schedule.LongBlockMinutes,
	}
	for key, dst := range ints {
		if v := os.Getenv(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s must be an integer, got %q", key, v)
			}
			*dst = n
		}
	}

	if v := os.Getenv("PACER_DEBUG"); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("PACER_DEBUG must be a boolean, got %q", v)
		}
		cfg.Log.Debug = debug
	}
	return nil
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

var validProviders = map[string]bool{
	"openai":   true,
	"lmstudio": true,
	"ollama":   true,
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, err := c.Scheduler(); err != nil {
		return err
	}
	if _, err := c.Curve(); err != nil {
		return err
	}
	if c.Schedule.BufferMinutes < 0 {
		return errors.New("buffer_minutes must not be negative")
	}
	if c.Schedule.LongBlockMinutes <= 0 {
		return errors.New("long_block_minutes must be positive")
	}
	if !validProviders[strings.ToLower(c.LLM.Provider)] {
		return fmt.Errorf("invalid llm provider: %s", c.LLM.Provider)
	}
	if c.Storage.DBPath == "" {
		return errors.New("db_path must be set")
	}
	return nil
}

// EnergyPattern parses the configured peak and dip windows.
func (c *Config) EnergyPattern() (energy.Pattern, error) {
	return energy.ParsePattern(c.Energy.PeakStart, c.Energy.PeakEnd, c.Energy.DipStart, c.Energy.DipEnd)
}

// Curve builds the energy curve from the pattern and the daytime window.
func (c *Config) Curve() (energy.Curve, error) {
	p, err := c.EnergyPattern()
	if err != nil {
		return energy.Curve{}, err
	}
	curve := energy.NewCurve(p)
	if curve.DaytimeStart, err = parseField(c.Schedule.DaytimeStart, "daytime_start"); err != nil {
		return energy.Curve{}, err
	}
	if curve.DaytimeEnd, err = parseField(c.Schedule.DaytimeEnd, "daytime_end"); err != nil {
		return energy.Curve{}, err
	}
	if err := curve.Validate(); err != nil {
		return energy.Curve{}, err
	}
	return curve, nil
}

// Scheduler returns the schedulable window and buffer as a scheduler config.
func (c *Config) Scheduler() (scheduler.Config, error) {
	start, err := parseField(c.Schedule.DayStart, "day_start")
	if err != nil {
		return scheduler.Config{}, err
	}
	end, err := parseField(c.Schedule.DayEnd, "day_end")
	if err != nil {
		return scheduler.Config{}, err
	}
	if start >= end {
		return scheduler.Config{}, errors.New("day_start must be before day_end")
	}
	return scheduler.Config{
		DayStart:      start,
		DayEnd:        end,
		BufferMinutes: max(c.Schedule.BufferMinutes, 0),
	}, nil
}

func parseField(s, field string) (clock.Time, error) {
	t, err := clock.Parse(s)
	if err != nil {
		return 0, fmt.Errorf("%s must be in HH:MM format, got %q", field, s)
	}
	return t, nil
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

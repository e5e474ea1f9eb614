package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/javiermolinar/pacer/internal/clock"
	"github.com/javiermolinar/pacer/internal/energy"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Schedule.DayStart != "08:00" {
		t.Errorf("expected day_start 08:00, got %s", cfg.Schedule.DayStart)
	}
	if cfg.Schedule.DayEnd != "17:00" {
		t.Errorf("expected day_end 17:00, got %s", cfg.Schedule.DayEnd)
	}
	if cfg.Schedule.BufferMinutes != 10 {
		t.Errorf("expected buffer_minutes 10, got %d", cfg.Schedule.BufferMinutes)
	}
	if cfg.Energy.PeakStart != "09:00" || cfg.Energy.DipEnd != "15:30" {
		t.Errorf("unexpected energy defaults: %+v", cfg.Energy)
	}
	if cfg.LLM.Provider != "ollama" {
		t.Errorf("expected provider ollama, got %s", cfg.LLM.Provider)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFrom_FileNotExists(t *testing.T) {
	cfg, err := LoadFrom("/nonexistent/path/config.toml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Schedule.DayStart != "08:00" {
		t.Errorf("expected default day_start, got %s", cfg.Schedule.DayStart)
	}
}

func TestLoadFrom_ValidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	content := `
[schedule]
day_start = "07:30"
day_end = "16:00"
buffer_minutes = 5

[energy]
peak_start = "08:00"
peak_end = "10:00"
dip_start = "13:00"
dip_end = "14:00"

[llm]
provider = "openai"
model = "gpt-4o-mini"
base_url = "http://localhost:11435"

[storage]
db_path = "/tmp/test.db"

[log]
debug = true
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Schedule.DayStart != "07:30" {
		t.Errorf("expected day_start 07:30, got %s", cfg.Schedule.DayStart)
	}
	if cfg.Schedule.BufferMinutes != 5 {
		t.Errorf("expected buffer_minutes 5, got %d", cfg.Schedule.BufferMinutes)
	}
	// Unset keys keep their defaults.
	if cfg.Schedule.DaytimeEnd != "20:00" {
		t.Errorf("expected default daytime_end, got %s", cfg.Schedule.DaytimeEnd)
	}
	if cfg.LLM.Provider != "openai" {
		t.Errorf("expected provider openai, got %s", cfg.LLM.Provider)
	}
	if cfg.Storage.DBPath != "/tmp/test.db" {
		t.Errorf("expected db_path /tmp/test.db, got %s", cfg.Storage.DBPath)
	}
	if !cfg.Log.Debug {
		t.Error("expected debug logging enabled")
	}

	curve, err := cfg.Curve()
	if err != nil {
		t.Fatalf("Curve: %v", err)
	}
	if got := curve.Classify(clock.MustParse("08:30")); got != energy.High {
		t.Errorf("Classify(08:30) = %s, want high", got)
	}
	if got := curve.Classify(clock.MustParse("13:30")); got != energy.Low {
		t.Errorf("Classify(13:30) = %s, want low", got)
	}
}

func TestLoadFrom_InvalidTOML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("[schedule\nday_start = "), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	if _, err := LoadFrom(configPath); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoadFrom_EnvOverrides(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	content := `
[schedule]
day_start = "08:00"
day_end = "16:00"

[storage]
db_path = "/tmp/test.db"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	t.Setenv("PACER_DAY_START", "10:00")
	t.Setenv("PACER_BUFFER_MINUTES", "0")
	t.Setenv("PACER_LLM_MODEL", "qwen2.5")
	t.Setenv("PACER_DEBUG", "true")

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Schedule.DayStart != "10:00" {
		t.Errorf("expected day_start 10:00 from env, got %s", cfg.Schedule.DayStart)
	}
	if cfg.Schedule.DayEnd != "16:00" {
		t.Errorf("expected day_end 16:00 from file, got %s", cfg.Schedule.DayEnd)
	}
	if cfg.Schedule.BufferMinutes != 0 {
		t.Errorf("expected buffer_minutes 0 from env, got %d", cfg.Schedule.BufferMinutes)
	}
	if cfg.LLM.Model != "qwen2.5" {
		t.Errorf("expected model qwen2.5 from env, got %s", cfg.LLM.Model)
	}
	if !cfg.Log.Debug {
		t.Error("expected debug from env")
	}
}

func TestLoadFrom_BadEnvInteger(t *testing.T) {
	t.Setenv("PACER_BUFFER_MINUTES", "ten")
	if _, err := LoadFrom("/nonexistent/path/config.toml"); err == nil {
		t.Error("expected error for non-integer buffer override")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"day start missing zero", func(c *Config) { c.Schedule.DayStart = "9:00" }},
		{"day start after end", func(c *Config) { c.Schedule.DayStart, c.Schedule.DayEnd = "18:00", "09:00" }},
		{"day start equals end", func(c *Config) { c.Schedule.DayEnd = c.Schedule.DayStart }},
		{"hour out of range", func(c *Config) { c.Schedule.DayEnd = "25:00" }},
		{"negative buffer", func(c *Config) { c.Schedule.BufferMinutes = -1 }},
		{"zero long block", func(c *Config) { c.Schedule.LongBlockMinutes = 0 }},
		{"peak reversed", func(c *Config) { c.Energy.PeakStart, c.Energy.PeakEnd = "12:00", "10:00" }},
		{"dip malformed", func(c *Config) { c.Energy.DipStart = "2pm" }},
		{"daytime reversed", func(c *Config) { c.Schedule.DaytimeStart = "21:00" }},
		{"unknown provider", func(c *Config) { c.LLM.Provider = "copilot" }},
		{"empty db path", func(c *Config) { c.Storage.DBPath = "" }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestScheduler(t *testing.T) {
	cfg := Default()
	cfg.Schedule.BufferMinutes = 15

	sc, err := cfg.Scheduler()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sc.DayStart != clock.MustParse("08:00") || sc.DayEnd != clock.MustParse("17:00") {
		t.Errorf("unexpected window %s-%s", sc.DayStart, sc.DayEnd)
	}
	if sc.BufferMinutes != 15 {
		t.Errorf("expected buffer 15, got %d", sc.BufferMinutes)
	}
}

func TestSaveTo_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := Default()
	cfg.Energy.PeakStart = "08:30"
	cfg.Storage.DBPath = "/tmp/pacer.db"

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if loaded.Energy.PeakStart != "08:30" {
		t.Errorf("expected peak_start 08:30, got %s", loaded.Energy.PeakStart)
	}
}

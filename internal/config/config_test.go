package config

import (
	"path/filepath"
	"testing"
	"time"
)

func setCredentials(t *testing.T) {
	t.Helper()
	t.Setenv("ALPACA_API_KEY", "test-key")
	t.Setenv("ALPACA_API_SECRET", "test-secret")
}

func TestLoadDefaults(t *testing.T) {
	setCredentials(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Alpaca.APIKey != "test-key" {
		t.Fatalf("unexpected api key: %s", cfg.Alpaca.APIKey)
	}
	if !cfg.Alpaca.IsPaper() {
		t.Fatalf("expected paper mode by default")
	}
	if cfg.Strategy.Symbol != "SPY" {
		t.Fatalf("unexpected default symbol: %s", cfg.Strategy.Symbol)
	}
	if cfg.Strategy.DailyAmount != 100.0 {
		t.Fatalf("unexpected default daily amount: %.2f", cfg.Strategy.DailyAmount)
	}
	if cfg.Strategy.TimeInForce != "day" {
		t.Fatalf("unexpected default time in force: %s", cfg.Strategy.TimeInForce)
	}
	if cfg.Scheduler.DailyAt != "09:35" {
		t.Fatalf("unexpected default trigger time: %s", cfg.Scheduler.DailyAt)
	}
	if cfg.Scheduler.PollInterval != 60*time.Second {
		t.Fatalf("unexpected default poll interval: %s", cfg.Scheduler.PollInterval)
	}
	if len(cfg.Logging.OutputPaths) != 2 || cfg.Logging.OutputPaths[1] != "dca_strategy.log" {
		t.Fatalf("expected stdout and log file outputs, got %+v", cfg.Logging.OutputPaths)
	}
}

func TestLoadMissingCredentials(t *testing.T) {
	t.Setenv("ALPACA_API_KEY", "")
	t.Setenv("ALPACA_API_SECRET", "")

	if _, err := Load(""); err == nil {
		t.Fatalf("expected error when credentials are missing")
	}
}

func TestLoadPaperFlagFidelity(t *testing.T) {
	setCredentials(t)

	cases := []struct {
		value string
		paper bool
	}{
		{"true", true},
		{"TRUE", true},
		{"True", true},
		{"false", false},
		{"1", false},
		{"yes", false},
		{"paper", false},
	}

	for _, tc := range cases {
		t.Setenv("IS_PAPER", tc.value)
		cfg, err := Load("")
		if err != nil {
			t.Fatalf("Load returned error for IS_PAPER=%q: %v", tc.value, err)
		}
		if cfg.Alpaca.IsPaper() != tc.paper {
			t.Errorf("IS_PAPER=%q: expected paper=%t", tc.value, tc.paper)
		}
	}
}

func TestLoadFromFile(t *testing.T) {
	setCredentials(t)

	cfg, err := Load(filepath.Join("testdata", "config.yaml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Strategy.Symbol != "VOO" {
		t.Fatalf("unexpected symbol: %s", cfg.Strategy.Symbol)
	}
	if cfg.Strategy.DailyAmount != 25.5 {
		t.Fatalf("unexpected daily amount: %.2f", cfg.Strategy.DailyAmount)
	}
	if cfg.Scheduler.DailyAt != "10:00" {
		t.Fatalf("unexpected trigger time: %s", cfg.Scheduler.DailyAt)
	}
	if cfg.Scheduler.Timezone != "America/New_York" {
		t.Fatalf("unexpected timezone: %s", cfg.Scheduler.Timezone)
	}
	if cfg.Scheduler.PollInterval != 30*time.Second {
		t.Fatalf("unexpected poll interval: %s", cfg.Scheduler.PollInterval)
	}
	if !cfg.Monitor.Enabled || cfg.Monitor.Port != 9900 {
		t.Fatalf("unexpected monitor config: %+v", cfg.Monitor)
	}
}

func TestLoadExplicitMissingFile(t *testing.T) {
	setCredentials(t)

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing explicit config file")
	}
}

func TestParseDailyTime(t *testing.T) {
	hour, minute, err := ParseDailyTime("09:35")
	if err != nil {
		t.Fatalf("ParseDailyTime returned error: %v", err)
	}
	if hour != 9 || minute != 35 {
		t.Fatalf("unexpected result: %d:%d", hour, minute)
	}

	for _, bad := range []string{"", "935", "9:35:00", "24:00", "12:60", "ab:cd"} {
		if _, _, err := ParseDailyTime(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	setCredentials(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	cfg.Strategy.DailyAmount = 0
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for non-positive daily amount")
	}

	cfg.Strategy.DailyAmount = 100
	cfg.Scheduler.PollInterval = 0
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for non-positive poll interval")
	}
}

package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadSettingsDefaults(t *testing.T) {
	cfg, err := loadSettings("")
	if err != nil {
		t.Fatalf("loadSettings: %v", err)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.Proc.TaskType != "Operation" {
		t.Errorf("TaskType = %q, want Operation", cfg.Proc.TaskType)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Addr = %q, want :8080", cfg.Server.Addr)
	}
	if cfg.Server.JobTTL != time.Hour {
		t.Errorf("JobTTL = %v, want 1h", cfg.Server.JobTTL)
	}
}

func TestLoadSettingsEnvOverride(t *testing.T) {
	t.Setenv("TASKMILL_SERVER_ADDR", ":9999")
	t.Setenv("TASKMILL_TASK_TYPE", "Inspection")

	cfg, err := loadSettings("")
	if err != nil {
		t.Fatalf("loadSettings: %v", err)
	}
	if cfg.Server.Addr != ":9999" {
		t.Errorf("Addr = %q, want :9999", cfg.Server.Addr)
	}
	if cfg.Proc.TaskType != "Inspection" {
		t.Errorf("TaskType = %q, want Inspection", cfg.Proc.TaskType)
	}
}

func TestLoadSettingsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	content := "log_level: debug\ntask_type: Repair\nserver:\n  addr: \":7070\"\n  job_ttl: 30m\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := loadSettings(path)
	if err != nil {
		t.Fatalf("loadSettings: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.Proc.TaskType != "Repair" {
		t.Errorf("TaskType = %q, want Repair", cfg.Proc.TaskType)
	}
	if cfg.Server.Addr != ":7070" {
		t.Errorf("Addr = %q, want :7070", cfg.Server.Addr)
	}
	if cfg.Server.JobTTL != 30*time.Minute {
		t.Errorf("JobTTL = %v, want 30m", cfg.Server.JobTTL)
	}
}

func TestLoadSettingsMissingExplicitFile(t *testing.T) {
	if _, err := loadSettings(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for a missing explicit config file")
	}
}

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tc := range cases {
		if got := parseLevel(tc.in); got != tc.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

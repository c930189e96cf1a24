package update

import (
	"testing"
	"time"
)

func TestRuntimeConfigDefaults(t *testing.T) {
	cfg := DefaultRuntimeConfig()
	if cfg.FocusWorkMinutes != 25 || cfg.FocusBreakMinutes != 5 {
		t.Fatalf("unexpected focus defaults: %+v", cfg)
	}
	if cfg.RefreshAttempts != 3 || cfg.RefreshSchedule != "@every 5m" || cfg.ReminderBuffer != 64 {
		t.Fatalf("unexpected runtime defaults: %+v", cfg)
	}
	if cfg.DBPath != "studyplan.db" || cfg.ReminderLead() != 10*time.Minute {
		t.Fatalf("unexpected storage defaults: %+v", cfg)
	}
}

func TestRuntimeConfigFromEnv(t *testing.T) {
	t.Setenv("STUDYPLAN_DB_PATH", "data/plan.db")
	t.Setenv("STUDYPLAN_REFRESH_SCHEDULE", "@every 1m")
	t.Setenv("STUDYPLAN_REFRESH_ATTEMPTS", "5")
	t.Setenv("STUDYPLAN_REMINDER_BUFFER", "128")
	t.Setenv("STUDYPLAN_REMINDER_LEAD_MINUTES", "0")
	t.Setenv("STUDYPLAN_FOCUS_WORK_MINUTES", "30")
	t.Setenv("STUDYPLAN_FOCUS_BREAK_MINUTES", "7")
	t.Setenv("STUDYPLAN_DESKTOP_NOTIFICATIONS", "true")
	t.Setenv("STUDYPLAN_LOG_FILE", "plan.log")

	cfg := RuntimeConfigFromEnv(DefaultRuntimeConfig())
	if cfg.DBPath != "data/plan.db" || cfg.RefreshSchedule != "@every 1m" || cfg.RefreshAttempts != 5 {
		t.Fatalf("unexpected overrides: %+v", cfg)
	}
	if cfg.ReminderBuffer != 128 || cfg.ReminderLead() != 0 {
		t.Fatalf("unexpected reminder overrides: %+v", cfg)
	}
	if cfg.FocusWorkMinutes != 30 || cfg.FocusBreakMinutes != 7 {
		t.Fatalf("unexpected focus config: %+v", cfg)
	}
	if !cfg.DesktopNotifications || cfg.LogFile != "plan.log" {
		t.Fatalf("unexpected flags: %+v", cfg)
	}
}

func TestRuntimeConfigEmptyScheduleDisablesRefresh(t *testing.T) {
	t.Setenv("STUDYPLAN_REFRESH_SCHEDULE", "")
	t.Setenv("STUDYPLAN_REFRESH_ATTEMPTS", "zero")

	cfg := RuntimeConfigFromEnv(DefaultRuntimeConfig())
	if cfg.RefreshSchedule != "" {
		t.Fatalf("expected refresh disabled, got %q", cfg.RefreshSchedule)
	}
	if cfg.RefreshAttempts != 3 {
		t.Fatalf("invalid value should keep default, got %d", cfg.RefreshAttempts)
	}
}

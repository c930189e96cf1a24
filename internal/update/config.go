package update

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type RuntimeConfig struct {
	DBPath               string
	RefreshSchedule      string
	RefreshAttempts      int
	ReminderBuffer       int
	ReminderLeadMinutes  int
	FocusWorkMinutes     int
	FocusBreakMinutes    int
	DesktopNotifications bool
	LogFile              string
}

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		DBPath:               "studyplan.db",
		RefreshSchedule:      "@every 5m",
		RefreshAttempts:      3,
		ReminderBuffer:       64,
		ReminderLeadMinutes:  10,
		FocusWorkMinutes:     25,
		FocusBreakMinutes:    5,
		DesktopNotifications: false,
	}
}

func RuntimeConfigFromEnv(base RuntimeConfig) RuntimeConfig {
	cfg := base
	if v := strings.TrimSpace(os.Getenv("STUDYPLAN_DB_PATH")); v != "" {
		cfg.DBPath = v
	}
	// Set but empty turns background refresh off.
	if v, ok := os.LookupEnv("STUDYPLAN_REFRESH_SCHEDULE"); ok {
		cfg.RefreshSchedule = strings.TrimSpace(v)
	}
	if v, ok := getEnvInt("STUDYPLAN_REFRESH_ATTEMPTS"); ok && v > 0 {
		cfg.RefreshAttempts = v
	}
	if v, ok := getEnvInt("STUDYPLAN_REMINDER_BUFFER"); ok && v > 0 {
		cfg.ReminderBuffer = v
	}
	if v, ok := getEnvInt("STUDYPLAN_REMINDER_LEAD_MINUTES"); ok && v >= 0 {
		cfg.ReminderLeadMinutes = v
	}
	if v, ok := getEnvInt("STUDYPLAN_FOCUS_WORK_MINUTES"); ok && v > 0 {
		cfg.FocusWorkMinutes = v
	}
	if v, ok := getEnvInt("STUDYPLAN_FOCUS_BREAK_MINUTES"); ok && v > 0 {
		cfg.FocusBreakMinutes = v
	}
	if v, ok := getEnvBool("STUDYPLAN_DESKTOP_NOTIFICATIONS"); ok {
		cfg.DesktopNotifications = v
	}
	if v := strings.TrimSpace(os.Getenv("STUDYPLAN_LOG_FILE")); v != "" {
		cfg.LogFile = v
	}
	return cfg
}

func (c RuntimeConfig) ReminderLead() time.Duration {
	return time.Duration(c.ReminderLeadMinutes) * time.Minute
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}

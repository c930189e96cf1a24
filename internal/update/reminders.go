package update

import (
	"fmt"
	"time"

	"github.com/sandeepkv93/studyplan/internal/scheduler"
)

const maxReminderLog = 20

// onReminder reports a due reminder unless its task is gone or done.
func (m *Model) onReminder(r scheduler.Reminder) {
	t, ok := m.store.Task(r.TaskID)
	if !ok || t.Completed {
		return
	}
	m.ReminderLog = append(m.ReminderLog, r)
	if len(m.ReminderLog) > maxReminderLog {
		m.ReminderLog = m.ReminderLog[len(m.ReminderLog)-maxReminderLog:]
	}
	text := reminderText(t.Title, r.StartsAt, m.dates.Now())
	m.Status = StatusBar{Text: text}
	m.notify("Reminder", text, "info")
}

func reminderText(title string, startsAt, now time.Time) string {
	left := startsAt.Sub(now).Round(time.Minute)
	if left <= 0 {
		return fmt.Sprintf("%q starts now", title)
	}
	return fmt.Sprintf("%q starts in %d min", title, int(left.Minutes()))
}

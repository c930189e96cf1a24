package scheduler

import (
	"time"

	"github.com/sandeepkv93/studyplan/internal/datekey"
	"github.com/sandeepkv93/studyplan/internal/model"
)

// ForTask builds the reminder of an open timed task, lead before it starts.
func ForTask(t model.Task, lead time.Duration, dates datekey.Normalizer) (Reminder, bool) {
	if t.Completed || !t.IsTimed() {
		return Reminder{}, false
	}
	key := dates.Normalize(t.Date)
	startsAt, err := time.ParseInLocation(datekey.Layout+" 15:04", key+" "+t.Time, dates.Location())
	if err != nil {
		return Reminder{}, false
	}
	return Reminder{
		TaskID:    t.ID,
		Title:     t.Title,
		StartsAt:  startsAt,
		TriggerAt: startsAt.Add(-lead),
	}, true
}

// Sync replaces the pending reminders with those of tasks that have not
// started yet. A task already inside its lead window fires right away.
func (e *Engine) Sync(tasks []model.Task, lead time.Duration, dates datekey.Normalizer) (int, error) {
	now := dates.Now()
	reminders := make([]Reminder, 0, len(tasks))
	for _, t := range tasks {
		r, ok := ForTask(t, lead, dates)
		if !ok || !r.StartsAt.After(now) {
			continue
		}
		if r.TriggerAt.Before(now) {
			r.TriggerAt = now
		}
		reminders = append(reminders, r)
	}
	return e.Replace(reminders)
}

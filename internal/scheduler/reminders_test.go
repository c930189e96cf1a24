package scheduler

import (
	"testing"
	"time"

	"github.com/sandeepkv93/studyplan/internal/datekey"
	"github.com/sandeepkv93/studyplan/internal/model"
)

func TestForTask(t *testing.T) {
	zone := time.FixedZone("UTC-5", -5*60*60)
	dates := datekey.New(zone, nil)

	r, ok := ForTask(model.Task{ID: "t", Title: "Lab", Date: "2024-03-10", Time: "09:00"}, 10*time.Minute, dates)
	if !ok {
		t.Fatal("expected reminder for timed task")
	}
	want := time.Date(2024, 3, 10, 9, 0, 0, 0, zone)
	if !r.StartsAt.Equal(want) || !r.TriggerAt.Equal(want.Add(-10*time.Minute)) {
		t.Fatalf("unexpected reminder: %+v", r)
	}

	for _, task := range []model.Task{
		{ID: "allday", Date: "2024-03-10"},
		{ID: "done", Date: "2024-03-10", Time: "09:00", Completed: true},
		{ID: "junk", Date: "someday", Time: "09:00"},
	} {
		if _, ok := ForTask(task, time.Minute, dates); ok {
			t.Fatalf("task %s should have no reminder", task.ID)
		}
	}
}

func TestSyncQueuesOnlyFutureStarts(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	dates := datekey.New(time.UTC, func() time.Time { return now })
	engine := NewEngine(4)

	n, err := engine.Sync([]model.Task{
		{ID: "past", Date: "2024-03-10", Time: "11:00"},
		{ID: "soon", Date: "2024-03-10", Time: "12:05"},
		{ID: "later", Date: "2024-03-11", Time: "08:00"},
		{ID: "allday", Date: "2024-03-11"},
	}, 10*time.Minute, dates)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if n != 2 || engine.Pending() != 2 {
		t.Fatalf("expected 2 queued reminders, got n=%d pending=%d", n, engine.Pending())
	}
}

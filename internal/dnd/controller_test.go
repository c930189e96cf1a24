package dnd

import (
	"context"
	"testing"

	"github.com/sandeepkv93/studyplan/internal/model"
	"github.com/sandeepkv93/studyplan/internal/store"
)

type fakeUpdater struct {
	tasks map[string]model.Task
	calls int
}

func (f *fakeUpdater) Task(id string) (model.Task, bool) {
	t, ok := f.tasks[id]
	return t, ok
}

func (f *fakeUpdater) UpdateTaskDate(_ context.Context, id, newDate string, opts ...store.DateOption) (model.Task, error) {
	f.calls++
	patch := model.Patch{Date: &newDate}
	for _, opt := range opts {
		opt(&patch)
	}
	next := patch.Apply(f.tasks[id])
	f.tasks[id] = next
	return next, nil
}

func TestControllerMismatchedDropLeavesDate(t *testing.T) {
	up := &fakeUpdater{tasks: map[string]model.Task{"task-1": {ID: "task-1", Date: "2024-03-10"}}}
	c := NewController(up)

	c.Start("task-1", "2024-03-10")
	_, ok, err := c.Drop(t.Context(), DayCell("task-9", "2024-03-12"))
	if err != nil || ok {
		t.Fatalf("expected ignored drop, got ok=%v err=%v", ok, err)
	}
	if up.calls != 0 || up.tasks["task-1"].Date != "2024-03-10" {
		t.Fatalf("task must not move: %+v", up.tasks["task-1"])
	}
	if c.State().Phase != Idle {
		t.Fatalf("expected idle, got %v", c.State().Phase)
	}
}

func TestControllerKeepsDuration(t *testing.T) {
	up := &fakeUpdater{tasks: map[string]model.Task{
		"task-1": {ID: "task-1", Date: "2024-03-10", Time: "09:30", EndTime: "11:00"},
	}}
	c := NewController(up)

	c.Start("task-1", "2024-03-10")
	got, ok, err := c.Drop(t.Context(), HourCell("task-1", "2024-03-11", 14))
	if err != nil || !ok {
		t.Fatalf("expected applied drop, got ok=%v err=%v", ok, err)
	}
	if got.Date != "2024-03-11" || got.Time != "14:00" || got.EndTime != "15:30" {
		t.Fatalf("unexpected task after drop: %+v", got)
	}
}

func TestControllerClampsEndOfDay(t *testing.T) {
	up := &fakeUpdater{tasks: map[string]model.Task{
		"task-1": {ID: "task-1", Date: "2024-03-10", Time: "09:00", EndTime: "12:00"},
	}}
	c := NewController(up)

	c.Start("task-1", "2024-03-10")
	got, _, err := c.Drop(t.Context(), HourCell("task-1", "2024-03-10", 22))
	if err != nil {
		t.Fatalf("drop: %v", err)
	}
	if got.Time != "22:00" || got.EndTime != "23:59" {
		t.Fatalf("unexpected clamped times: %+v", got)
	}
}

func TestControllerAllDayDropKeepsTimes(t *testing.T) {
	up := &fakeUpdater{tasks: map[string]model.Task{
		"task-1": {ID: "task-1", Date: "2024-03-10", Time: "09:00", EndTime: "10:00"},
	}}
	c := NewController(up)

	c.Start("task-1", "2024-03-10")
	got, ok, err := c.Drop(t.Context(), DayCell("task-1", "2024-03-15"))
	if err != nil || !ok {
		t.Fatalf("expected applied drop, got ok=%v err=%v", ok, err)
	}
	if got.Date != "2024-03-15" || got.Time != "09:00" || got.EndTime != "10:00" {
		t.Fatalf("unexpected task after drop: %+v", got)
	}
}

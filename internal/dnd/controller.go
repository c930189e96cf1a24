package dnd

import (
	"context"
	"sync"
	"time"

	"github.com/sandeepkv93/studyplan/internal/model"
	"github.com/sandeepkv93/studyplan/internal/store"
)

// Updater is the part of the store a drop needs.
type Updater interface {
	Task(id string) (model.Task, bool)
	UpdateTaskDate(ctx context.Context, id, newDate string, opts ...store.DateOption) (model.Task, error)
}

// Controller owns the drag state of one view.
type Controller struct {
	up Updater

	mu    sync.Mutex
	state State
}

func NewController(up Updater) *Controller {
	return &Controller{up: up}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Start(taskID, sourceDate string) {
	c.fire(Start{TaskID: taskID, SourceDate: sourceDate})
}

func (c *Controller) Cancel() {
	c.fire(Cancel{})
}

// Drop ends the drag on target. It reports false when the drop was not valid,
// in which case nothing is written.
func (c *Controller) Drop(ctx context.Context, target Target) (model.Task, bool, error) {
	r := c.Release(target)
	if r == nil {
		return model.Task{}, false, nil
	}
	task, err := c.Apply(ctx, *r)
	if err != nil {
		return model.Task{}, true, err
	}
	return task, true, nil
}

// Release ends the drag on target without writing anything. A non-nil result
// is handed to Apply.
func (c *Controller) Release(target Target) *Reschedule {
	return c.fire(Drop{Target: target})
}

// Apply writes a reschedule through the store. Moving a timed task with an end
// time keeps its duration, clamped to the end of the day.
func (c *Controller) Apply(ctx context.Context, r Reschedule) (model.Task, error) {
	var opts []store.DateOption
	if r.Time != "" {
		opts = append(opts, store.WithTime(r.Time))
		if current, ok := c.up.Task(r.TaskID); ok {
			if end, ok := shiftEnd(current.Time, current.EndTime, r.Time); ok {
				opts = append(opts, store.WithEndTime(end))
			}
		}
	}
	return c.up.UpdateTaskDate(ctx, r.TaskID, r.Date, opts...)
}

func (c *Controller) fire(e Event) *Reschedule {
	c.mu.Lock()
	defer c.mu.Unlock()
	next, r := Transition(c.state, e)
	c.state = next
	return r
}

const clock = "15:04"

func shiftEnd(start, end, newStart string) (string, bool) {
	if start == "" || end == "" {
		return "", false
	}
	s, err1 := time.Parse(clock, start)
	e, err2 := time.Parse(clock, end)
	ns, err3 := time.Parse(clock, newStart)
	if err1 != nil || err2 != nil || err3 != nil || e.Before(s) {
		return "", false
	}
	shifted := ns.Add(e.Sub(s))
	lastMinute := time.Date(ns.Year(), ns.Month(), ns.Day(), 23, 59, 0, 0, time.UTC)
	if shifted.After(lastMinute) {
		shifted = lastMinute
	}
	return shifted.Format(clock), true
}

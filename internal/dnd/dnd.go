// Package dnd is the grab-and-drop flow that reassigns a task to another day
// or hour cell.
package dnd

import "fmt"

type Phase int

const (
	Idle Phase = iota
	Dragging
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// State is the in-flight drag, if any. TaskID and SourceDate are empty when Idle.
type State struct {
	Phase      Phase
	TaskID     string
	SourceDate string
}

type Event interface {
	isEvent()
}

type Start struct {
	TaskID     string
	SourceDate string
}

type Drop struct {
	Target Target
}

type Cancel struct{}

func (Start) isEvent()  {}
func (Drop) isEvent()   {}
func (Cancel) isEvent() {}

// Target is a drop cell. DragID is the task id the cell saw being dragged
// over it. Hour is only meaningful when Timed is set.
type Target struct {
	DragID string
	Date   string
	Timed  bool
	Hour   int
}

// DayCell is a cell of the all-day band.
func DayCell(dragID, date string) Target {
	return Target{DragID: dragID, Date: date}
}

// HourCell is a cell of the hourly grid.
func HourCell(dragID, date string, hour int) Target {
	return Target{DragID: dragID, Date: date, Timed: true, Hour: hour}
}

// Reschedule is what a valid drop asks the store to do. Time is empty for
// all-day drops, which leave the task's time alone.
type Reschedule struct {
	TaskID     string
	SourceDate string
	Date       string
	Time       string
}

// Transition is shared by every drop target. A drop produces a Reschedule only
// while dragging and only when the target's drag id matches the dragged task;
// any drop or cancel leaves the machine Idle.
func Transition(s State, e Event) (State, *Reschedule) {
	switch ev := e.(type) {
	case Start:
		if ev.TaskID == "" {
			return State{Phase: Idle}, nil
		}
		return State{Phase: Dragging, TaskID: ev.TaskID, SourceDate: ev.SourceDate}, nil
	case Drop:
		if s.Phase != Dragging || ev.Target.DragID != s.TaskID || ev.Target.Date == "" {
			return State{Phase: Idle}, nil
		}
		r := &Reschedule{TaskID: s.TaskID, SourceDate: s.SourceDate, Date: ev.Target.Date}
		if ev.Target.Timed && ev.Target.Hour >= 0 && ev.Target.Hour < 24 {
			r.Time = fmt.Sprintf("%02d:00", ev.Target.Hour)
		}
		return State{Phase: Idle}, r
	case Cancel:
		return State{Phase: Idle}, nil
	default:
		return s, nil
	}
}

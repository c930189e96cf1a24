package store

import (
	"time"

	"github.com/sandeepkv93/studyplan/internal/model"
)

type State struct {
	Tasks     []model.Task
	IsLoading bool
	Err       error
}

// Action is one of the *Action types below.
type Action interface {
	isAction()
}

// SetTasksAction replaces the whole list and clears loading and error.
type SetTasksAction struct {
	Tasks []model.Task
}

type SetLoadingAction struct {
	Loading bool
}

// SetErrorAction records err and ends loading.
type SetErrorAction struct {
	Err error
}

type AddTaskAction struct {
	Task model.Task
}

type AddMultipleTasksAction struct {
	Tasks []model.Task
}

// UpdateTaskAction shallow-merges Patch into the task with ID. A non-zero
// UpdatedAt replaces the task's timestamp.
type UpdateTaskAction struct {
	ID        string
	Patch     model.Patch
	UpdatedAt time.Time
}

type DeleteTaskAction struct {
	ID string
}

func (SetTasksAction) isAction()         {}
func (SetLoadingAction) isAction()       {}
func (SetErrorAction) isAction()         {}
func (AddTaskAction) isAction()          {}
func (AddMultipleTasksAction) isAction() {}
func (UpdateTaskAction) isAction()       {}
func (DeleteTaskAction) isAction()       {}

// Reduce returns the state that follows action. It never modifies s or the
// tasks reachable from it.
func Reduce(s State, action Action) State {
	switch a := action.(type) {
	case SetTasksAction:
		s.Tasks = cloneTasks(a.Tasks)
		s.IsLoading = false
		s.Err = nil
	case SetLoadingAction:
		s.IsLoading = a.Loading
	case SetErrorAction:
		s.Err = a.Err
		s.IsLoading = false
	case AddTaskAction:
		tasks := make([]model.Task, 0, len(s.Tasks)+1)
		tasks = append(tasks, s.Tasks...)
		s.Tasks = append(tasks, a.Task.Clone())
	case AddMultipleTasksAction:
		tasks := make([]model.Task, 0, len(s.Tasks)+len(a.Tasks))
		tasks = append(tasks, s.Tasks...)
		s.Tasks = append(tasks, cloneTasks(a.Tasks)...)
	case UpdateTaskAction:
		tasks := make([]model.Task, len(s.Tasks))
		copy(tasks, s.Tasks)
		for i := range tasks {
			if tasks[i].ID != a.ID {
				continue
			}
			tasks[i] = a.Patch.Apply(tasks[i])
			if !a.UpdatedAt.IsZero() {
				tasks[i].UpdatedAt = a.UpdatedAt
			}
		}
		s.Tasks = tasks
	case DeleteTaskAction:
		tasks := make([]model.Task, 0, len(s.Tasks))
		for _, t := range s.Tasks {
			if t.ID != a.ID {
				tasks = append(tasks, t)
			}
		}
		s.Tasks = tasks
	}
	return s
}

func cloneTasks(in []model.Task) []model.Task {
	out := make([]model.Task, len(in))
	for i, t := range in {
		out[i] = t.Clone()
	}
	return out
}

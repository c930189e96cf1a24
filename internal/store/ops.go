package store

import (
	"context"
	"fmt"

	"github.com/sandeepkv93/studyplan/internal/model"
)

func (s *Store) AddTask(ctx context.Context, draft model.Draft) (model.Task, error) {
	draft.Date = s.dates.Normalize(draft.Date)
	s.Dispatch(SetLoadingAction{Loading: true})

	task, err := s.gw.Create(ctx, draft)
	if err != nil {
		return model.Task{}, s.fail(NotifyOnFailure, "add task", err)
	}
	s.Dispatch(AddTaskAction{Task: task})
	s.Dispatch(SetLoadingAction{Loading: false})
	s.notifier.Notify(Notification{Level: LevelSuccess, Title: "Task added", Message: task.Title})
	return task, nil
}

func (s *Store) UpdateTask(ctx context.Context, id string, patch model.Patch) (model.Task, error) {
	s.Dispatch(SetLoadingAction{Loading: true})
	task, err := s.update(ctx, id, patch)
	if err != nil {
		return model.Task{}, s.fail(NotifyOnFailure, "update task", err)
	}
	s.Dispatch(SetLoadingAction{Loading: false})
	s.notifier.Notify(Notification{Level: LevelSuccess, Title: "Task updated", Message: task.Title})
	return task, nil
}

func (s *Store) DeleteTask(ctx context.Context, id string) (bool, error) {
	s.Dispatch(SetLoadingAction{Loading: true})
	if err := s.gw.Delete(ctx, id); err != nil {
		return false, s.fail(NotifyOnFailure, "delete task", err)
	}
	s.Dispatch(DeleteTaskAction{ID: id})
	s.Dispatch(SetLoadingAction{Loading: false})
	s.notifier.Notify(Notification{Level: LevelSuccess, Title: "Task deleted"})
	return true, nil
}

// ToggleTaskCompletion flips the completed flag of the task as currently held.
func (s *Store) ToggleTaskCompletion(ctx context.Context, id string) (model.Task, error) {
	current, ok := s.Task(id)
	if !ok {
		return model.Task{}, s.fail(LogOnFailure, "toggle task", fmt.Errorf("%w: %q", ErrTaskNotFound, id))
	}
	task, err := s.update(ctx, id, model.Patch{Completed: model.Ptr(!current.Completed)})
	if err != nil {
		return model.Task{}, s.fail(LogOnFailure, "toggle task", err)
	}
	return task, nil
}

func (s *Store) ToggleSubtaskCompletion(ctx context.Context, taskID, subtaskID string) (model.Task, error) {
	task, err := s.gw.ToggleSubtask(ctx, taskID, subtaskID)
	if err != nil {
		return model.Task{}, s.fail(LogOnFailure, "toggle subtask", err)
	}
	s.Dispatch(UpdateTaskAction{
		ID:        taskID,
		Patch:     model.Patch{Subtasks: task.Subtasks},
		UpdatedAt: task.UpdatedAt,
	})
	return task, nil
}

// MoveTask changes only the date.
func (s *Store) MoveTask(ctx context.Context, id, newDate string) (model.Task, error) {
	return s.UpdateTask(ctx, id, model.Patch{Date: &newDate})
}

type DateOption func(*model.Patch)

func WithTime(hhmm string) DateOption {
	return func(p *model.Patch) { p.Time = &hhmm }
}

func WithEndTime(hhmm string) DateOption {
	return func(p *model.Patch) { p.EndTime = &hhmm }
}

// UpdateTaskDate sets the date and, only when given, the time and end time.
// Leaving an option out keeps the stored value.
func (s *Store) UpdateTaskDate(ctx context.Context, id, newDate string, opts ...DateOption) (model.Task, error) {
	patch := model.Patch{Date: &newDate}
	for _, opt := range opts {
		opt(&patch)
	}
	return s.UpdateTask(ctx, id, patch)
}

// update normalizes the patch, calls the gateway and dispatches the stored record.
func (s *Store) update(ctx context.Context, id string, patch model.Patch) (model.Task, error) {
	if patch.Date != nil {
		patch.Date = model.Ptr(s.dates.Normalize(*patch.Date))
	}
	task, err := s.gw.Update(ctx, id, patch)
	if err != nil {
		return model.Task{}, err
	}
	s.Dispatch(UpdateTaskAction{ID: id, Patch: model.PatchFrom(task), UpdatedAt: task.UpdatedAt})
	return task, nil
}

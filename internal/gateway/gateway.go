// Package gateway persists tasks for the store. It plays the remote backend's
// part: it assigns ids and timestamps and answers every mutation with the whole
// stored record.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sandeepkv93/studyplan/internal/model"
	"github.com/sandeepkv93/studyplan/internal/storage"
)

var ErrSubtaskNotFound = errors.New("gateway: subtask not found")

type SQLite struct {
	repo  storage.Repository
	now   func() time.Time
	newID func() string
}

type Option func(*SQLite)

func WithClock(now func() time.Time) Option {
	return func(g *SQLite) {
		if now != nil {
			g.now = now
		}
	}
}

func WithIDs(newID func() string) Option {
	return func(g *SQLite) {
		if newID != nil {
			g.newID = newID
		}
	}
}

func NewSQLite(repo storage.Repository, opts ...Option) *SQLite {
	g := &SQLite{
		repo:  repo,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *SQLite) List(ctx context.Context) ([]model.Task, error) {
	rows, err := g.repo.ListTasks(ctx, storage.TaskListFilter{})
	if err != nil {
		return nil, fmt.Errorf("gateway: list tasks: %w", err)
	}
	out := make([]model.Task, 0, len(rows))
	for _, row := range rows {
		out = append(out, toModel(row))
	}
	return out, nil
}

func (g *SQLite) Create(ctx context.Context, draft model.Draft) (model.Task, error) {
	draft = draft.WithDefaults()
	if err := draft.Validate(); err != nil {
		return model.Task{}, err
	}
	now := g.now().UTC()
	task := model.Task{
		ID:                    g.newID(),
		Title:                 draft.Title,
		Description:           draft.Description,
		Date:                  draft.Date,
		Time:                  draft.Time,
		EndTime:               draft.EndTime,
		Completed:             draft.Completed,
		Priority:              draft.Priority,
		Category:              draft.Category,
		SystemID:              draft.SystemID,
		SystemName:            draft.SystemName,
		Subtasks:              g.withSubtaskIDs(draft.Subtasks),
		ProductivityTechnique: draft.ProductivityTechnique,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if err := g.repo.CreateTask(ctx, toEntity(task)); err != nil {
		return model.Task{}, fmt.Errorf("gateway: create task: %w", err)
	}
	return task, nil
}

// Update loads the stored record, merges patch into it and writes it back.
func (g *SQLite) Update(ctx context.Context, id string, patch model.Patch) (model.Task, error) {
	current, err := g.get(ctx, id)
	if err != nil {
		return model.Task{}, err
	}
	next := patch.Apply(current)
	next.Subtasks = g.withSubtaskIDs(next.Subtasks)
	if err := next.Validate(); err != nil {
		return model.Task{}, err
	}
	next.UpdatedAt = g.now().UTC()
	if err := g.repo.UpdateTask(ctx, toEntity(next)); err != nil {
		return model.Task{}, fmt.Errorf("gateway: update task %q: %w", id, err)
	}
	return next, nil
}

func (g *SQLite) Delete(ctx context.Context, id string) error {
	if err := g.repo.DeleteTask(ctx, id); err != nil {
		return fmt.Errorf("gateway: delete task %q: %w", id, err)
	}
	return nil
}

// ToggleSubtask flips one subtask and returns the parent as stored afterwards.
func (g *SQLite) ToggleSubtask(ctx context.Context, taskID, subtaskID string) (model.Task, error) {
	current, err := g.get(ctx, taskID)
	if err != nil {
		return model.Task{}, err
	}
	st, ok := current.Subtask(subtaskID)
	if !ok {
		return model.Task{}, fmt.Errorf("%w: %q", ErrSubtaskNotFound, subtaskID)
	}
	if err := g.repo.SetSubtaskCompleted(ctx, taskID, subtaskID, !st.Completed); err != nil {
		return model.Task{}, fmt.Errorf("gateway: toggle subtask %q: %w", subtaskID, err)
	}
	return g.get(ctx, taskID)
}

func (g *SQLite) get(ctx context.Context, id string) (model.Task, error) {
	row, err := g.repo.GetTask(ctx, id)
	if err != nil {
		return model.Task{}, fmt.Errorf("gateway: task %q: %w", id, err)
	}
	return toModel(row), nil
}

func (g *SQLite) withSubtaskIDs(in []model.Subtask) []model.Subtask {
	out := make([]model.Subtask, len(in))
	for i, st := range in {
		if st.ID == "" {
			st.ID = g.newID()
		}
		out[i] = st
	}
	return out
}

func toEntity(t model.Task) storage.Task {
	subtasks := make([]storage.Subtask, 0, len(t.Subtasks))
	for i, st := range t.Subtasks {
		subtasks = append(subtasks, storage.Subtask{
			ID:        st.ID,
			TaskID:    t.ID,
			Position:  i,
			Title:     st.Title,
			Completed: st.Completed,
		})
	}
	return storage.Task{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Date:        t.Date,
		Time:        t.Time,
		EndTime:     t.EndTime,
		Completed:   t.Completed,
		Priority:    string(t.Priority),
		Category:    string(t.Category),
		SystemID:    t.SystemID,
		SystemName:  t.SystemName,
		Technique:   string(t.ProductivityTechnique),
		Subtasks:    subtasks,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func toModel(e storage.Task) model.Task {
	subtasks := make([]model.Subtask, 0, len(e.Subtasks))
	for _, st := range e.Subtasks {
		subtasks = append(subtasks, model.Subtask{ID: st.ID, Title: st.Title, Completed: st.Completed})
	}
	return model.Task{
		ID:                    e.ID,
		Title:                 e.Title,
		Description:           e.Description,
		Date:                  e.Date,
		Time:                  e.Time,
		EndTime:               e.EndTime,
		Completed:             e.Completed,
		Priority:              model.Priority(e.Priority),
		Category:              model.Category(e.Category),
		SystemID:              e.SystemID,
		SystemName:            e.SystemName,
		Subtasks:              subtasks,
		ProductivityTechnique: model.Technique(e.Technique),
		CreatedAt:             e.CreatedAt,
		UpdatedAt:             e.UpdatedAt,
	}
}

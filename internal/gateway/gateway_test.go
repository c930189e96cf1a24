package gateway

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sandeepkv93/studyplan/internal/model"
	"github.com/sandeepkv93/studyplan/internal/storage"
)

func newTestGateway(t *testing.T) *SQLite {
	t.Helper()
	repo, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "gateway.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	seq := 0
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	return NewSQLite(repo,
		WithClock(func() time.Time { return now }),
		WithIDs(func() string {
			seq++
			return fmt.Sprintf("id-%d", seq)
		}),
	)
}

func TestCreateAssignsIDsAndDefaults(t *testing.T) {
	g := newTestGateway(t)

	task, err := g.Create(t.Context(), model.Draft{
		Title:    "Read ch.1",
		Date:     "2024-03-10",
		Subtasks: []model.Subtask{{Title: "Skim"}},
	})
	require.NoError(t, err)
	require.Equal(t, "id-1", task.ID)
	require.Equal(t, "id-2", task.Subtasks[0].ID)
	require.Equal(t, model.PriorityMedium, task.Priority)
	require.Equal(t, model.CategoryOther, task.Category)

	list, err := g.List(t.Context())
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, task.Title, list[0].Title)
	require.Equal(t, task.Subtasks, list[0].Subtasks)
	require.True(t, task.CreatedAt.Equal(list[0].CreatedAt))
}

func TestCreateRejectsInvalidDraft(t *testing.T) {
	g := newTestGateway(t)
	_, err := g.Create(t.Context(), model.Draft{Title: "x", Date: "2024-03-10", Priority: "urgent"})
	require.ErrorIs(t, err, model.ErrInvalidPriority)
}

func TestUpdateMergesPatch(t *testing.T) {
	g := newTestGateway(t)
	task, err := g.Create(t.Context(), model.Draft{Title: "Review", Date: "2024-03-10", Time: "14:00"})
	require.NoError(t, err)

	got, err := g.Update(t.Context(), task.ID, model.Patch{Date: model.Ptr("2024-03-12")})
	require.NoError(t, err)
	require.Equal(t, "2024-03-12", got.Date)
	require.Equal(t, "14:00", got.Time)

	_, err = g.Update(t.Context(), "missing", model.Patch{Title: model.Ptr("x")})
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestToggleSubtaskLeavesParentAlone(t *testing.T) {
	g := newTestGateway(t)
	task, err := g.Create(t.Context(), model.Draft{
		Title:    "Practice",
		Date:     "2024-03-10",
		Subtasks: []model.Subtask{{ID: "st-1", Title: "Set A"}, {ID: "st-2", Title: "Set B"}},
	})
	require.NoError(t, err)

	got, err := g.ToggleSubtask(t.Context(), task.ID, "st-2")
	require.NoError(t, err)
	require.False(t, got.Subtasks[0].Completed)
	require.True(t, got.Subtasks[1].Completed)
	require.False(t, got.Completed)

	got, err = g.ToggleSubtask(t.Context(), task.ID, "st-2")
	require.NoError(t, err)
	require.False(t, got.Subtasks[1].Completed)

	_, err = g.ToggleSubtask(t.Context(), task.ID, "nope")
	require.ErrorIs(t, err, ErrSubtaskNotFound)
}

func TestDelete(t *testing.T) {
	g := newTestGateway(t)
	task, err := g.Create(t.Context(), model.Draft{Title: "x", Date: "2024-03-10"})
	require.NoError(t, err)

	require.NoError(t, g.Delete(t.Context(), task.ID))
	require.ErrorIs(t, g.Delete(t.Context(), task.ID), storage.ErrNotFound)

	list, err := g.List(t.Context())
	require.NoError(t, err)
	require.Empty(t, list)
}

package store

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sandeepkv93/studyplan/internal/model"
)

func TestReduceDoesNotAliasInput(t *testing.T) {
	before := State{Tasks: []model.Task{
		{ID: "a", Title: "A", Subtasks: []model.Subtask{{ID: "s", Title: "s"}}},
		{ID: "b", Title: "B"},
	}}

	after := Reduce(before, UpdateTaskAction{ID: "a", Patch: model.Patch{Title: model.Ptr("A2")}})
	require.Equal(t, "A", before.Tasks[0].Title)
	require.Equal(t, "A2", after.Tasks[0].Title)

	after = Reduce(before, DeleteTaskAction{ID: "a"})
	require.Len(t, before.Tasks, 2)
	require.Len(t, after.Tasks, 1)
	require.Equal(t, "b", after.Tasks[0].ID)

	after = Reduce(before, AddMultipleTasksAction{Tasks: []model.Task{{ID: "c"}, {ID: "d"}}})
	require.Len(t, before.Tasks, 2)
	require.Len(t, after.Tasks, 4)

	after = Reduce(State{IsLoading: true, Err: errGatewayDown}, SetTasksAction{Tasks: before.Tasks})
	require.False(t, after.IsLoading)
	require.NoError(t, after.Err)
	after.Tasks[0].Subtasks[0].Completed = true
	require.False(t, before.Tasks[0].Subtasks[0].Completed)

	after = Reduce(State{IsLoading: true}, SetErrorAction{Err: errGatewayDown})
	require.False(t, after.IsLoading)
	require.ErrorIs(t, after.Err, errGatewayDown)
}

func TestAddTaskStoresServerRecord(t *testing.T) {
	notes := &recordingNotifier{}
	s := newTestStore(newFakeGateway(), notes, nil)
	require.Empty(t, s.Snapshot().Tasks)

	task, err := s.AddTask(t.Context(), model.Draft{
		Title:    "Read ch.1",
		Date:     "2024-03-10",
		Priority: model.PriorityHigh,
		Category: model.CategoryStudy,
		Subtasks: []model.Subtask{},
	})
	require.NoError(t, err)
	require.NotEmpty(t, task.ID)

	snap := s.Snapshot()
	require.Len(t, snap.Tasks, 1)
	got := snap.Tasks[0]
	require.Equal(t, task.ID, got.ID)
	require.Equal(t, "Read ch.1", got.Title)
	require.Equal(t, "2024-03-10", got.Date)
	require.Equal(t, model.PriorityHigh, got.Priority)
	require.Equal(t, model.CategoryStudy, got.Category)
	require.False(t, got.Completed)
	require.Empty(t, got.Subtasks)
	require.False(t, snap.IsLoading)
	require.Equal(t, []Level{LevelSuccess}, notes.levels())
}

func TestAddTaskNormalizesDate(t *testing.T) {
	s := newTestStore(newFakeGateway(), &recordingNotifier{}, nil)
	task, err := s.AddTask(t.Context(), model.Draft{Title: "x", Date: "March 12, 2024"})
	require.NoError(t, err)
	require.Equal(t, "2024-03-12", task.Date)
}

func TestAddTaskFailureNotifiesAndReturnsError(t *testing.T) {
	gw := newFakeGateway()
	gw.failCreate = func(model.Draft) bool { return true }
	notes := &recordingNotifier{}
	s := newTestStore(gw, notes, nil)

	_, err := s.AddTask(t.Context(), model.Draft{Title: "x", Date: "2024-03-10"})
	require.ErrorIs(t, err, errGatewayDown)

	snap := s.Snapshot()
	require.ErrorIs(t, snap.Err, errGatewayDown)
	require.False(t, snap.IsLoading)
	require.Empty(t, snap.Tasks)
	require.Equal(t, []Level{LevelError}, notes.levels())
}

func TestUpdateTaskDateOmissionKeepsTime(t *testing.T) {
	gw := newFakeGateway(model.Task{ID: "task-1", Title: "Review", Date: "2024-03-10", Time: "14:00", EndTime: "15:00"})
	s := newTestStore(gw, &recordingNotifier{}, nil)
	require.NoError(t, s.RefreshTasks(t.Context()))

	task, err := s.UpdateTaskDate(t.Context(), "task-1", "2024-03-12")
	require.NoError(t, err)
	require.Equal(t, "2024-03-12", task.Date)
	require.Equal(t, "14:00", task.Time)

	held, ok := s.Task("task-1")
	require.True(t, ok)
	require.Equal(t, "2024-03-12", held.Date)
	require.Equal(t, "14:00", held.Time)
	require.Equal(t, "15:00", held.EndTime)

	task, err = s.UpdateTaskDate(t.Context(), "task-1", "2024-03-13", WithTime("09:00"), WithEndTime("10:00"))
	require.NoError(t, err)
	require.Equal(t, "09:00", task.Time)
	require.Equal(t, "10:00", task.EndTime)
}

func TestMoveTaskChangesOnlyDate(t *testing.T) {
	gw := newFakeGateway(model.Task{ID: "task-1", Title: "Review", Date: "2024-03-10", Priority: model.PriorityLow})
	s := newTestStore(gw, &recordingNotifier{}, nil)
	require.NoError(t, s.RefreshTasks(t.Context()))

	task, err := s.MoveTask(t.Context(), "task-1", "2024-03-11T10:00:00")
	require.NoError(t, err)
	require.Equal(t, "2024-03-11", task.Date)
	require.Equal(t, model.PriorityLow, task.Priority)
}

func TestDeleteTask(t *testing.T) {
	gw := newFakeGateway(model.Task{ID: "task-1", Title: "a", Date: "2024-03-10"})
	s := newTestStore(gw, &recordingNotifier{}, nil)
	require.NoError(t, s.RefreshTasks(t.Context()))

	ok, err := s.DeleteTask(t.Context(), "task-1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Empty(t, s.Snapshot().Tasks)

	ok, err = s.DeleteTask(t.Context(), "task-1")
	require.Error(t, err)
	require.False(t, ok)
}

func TestTogglesLogInsteadOfNotifying(t *testing.T) {
	gw := newFakeGateway(model.Task{
		ID: "task-1", Title: "a", Date: "2024-03-10",
		Subtasks: []model.Subtask{{ID: "s1", Title: "one"}},
	})
	notes := &recordingNotifier{}
	var logs bytes.Buffer
	s := newTestStore(gw, notes, &logs)
	require.NoError(t, s.RefreshTasks(t.Context()))

	task, err := s.ToggleTaskCompletion(t.Context(), "task-1")
	require.NoError(t, err)
	require.True(t, task.Completed)

	task, err = s.ToggleSubtaskCompletion(t.Context(), "task-1", "s1")
	require.NoError(t, err)
	require.True(t, task.Subtasks[0].Completed)
	held, _ := s.Task("task-1")
	require.True(t, held.Subtasks[0].Completed)
	require.True(t, held.Completed)

	gw.failUpdate = true
	_, err = s.ToggleTaskCompletion(t.Context(), "task-1")
	require.ErrorIs(t, err, errGatewayDown)
	_, err = s.ToggleTaskCompletion(t.Context(), "missing")
	require.ErrorIs(t, err, ErrTaskNotFound)

	require.Empty(t, notes.levels())
	require.NoError(t, s.Snapshot().Err)
	require.Contains(t, logs.String(), "[store] toggle task failed")
}

func TestImportSkipsFailedCreates(t *testing.T) {
	gw := newFakeGateway()
	gw.failCreate = func(d model.Draft) bool { return d.Title == "t3" }
	notes := &recordingNotifier{}
	var logs bytes.Buffer
	s := newTestStore(gw, notes, &logs)

	drafts := make([]model.Draft, 0, 5)
	for _, title := range []string{"t1", "t2", "t3", "t4", "t5"} {
		drafts = append(drafts, model.Draft{Title: title, Date: "2024-03-10"})
	}
	res, err := s.ImportTasksFromTemplate(t.Context(), "sys-1", "Calculus I", drafts)
	require.NoError(t, err)
	require.Len(t, res.Imported, 4)
	require.Equal(t, 1, res.Failed)

	snap := s.Snapshot()
	require.Len(t, snap.Tasks, 4)
	for _, task := range snap.Tasks {
		require.Equal(t, "sys-1", task.SystemID)
		require.Equal(t, "Calculus I", task.SystemName)
	}
	require.Equal(t, 1, strings.Count(logs.String(), "failed"))
	require.Equal(t, []Level{LevelSuccess}, notes.levels())
}

func TestImportAllFailedNotifiesFailure(t *testing.T) {
	gw := newFakeGateway()
	gw.failCreate = func(model.Draft) bool { return true }
	notes := &recordingNotifier{}
	s := newTestStore(gw, notes, nil)

	res, err := s.ImportTasksFromTemplate(t.Context(), "sys-1", "Calc", []model.Draft{{Title: "a", Date: "2024-03-10"}})
	require.NoError(t, err)
	require.Empty(t, res.Imported)
	require.Equal(t, []Level{LevelError}, notes.levels())
}

func TestImportStopsOnCancelledContext(t *testing.T) {
	s := newTestStore(newFakeGateway(), &recordingNotifier{}, nil)
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	res, err := s.ImportTasksFromTemplate(ctx, "sys", "Sys", []model.Draft{{Title: "a", Date: "2024-03-10"}, {Title: "b", Date: "2024-03-10"}})
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 2, res.Failed)
	require.Empty(t, s.Snapshot().Tasks)
}

func TestRefreshRetriesThenNotifiesOnce(t *testing.T) {
	gw := newFakeGateway(model.Task{ID: "task-1", Title: "a", Date: "2024-03-10T08:00:00Z"})
	gw.failList = 100
	notes := &recordingNotifier{}
	s := newTestStore(gw, notes, nil)

	err := s.RefreshTasks(t.Context())
	require.ErrorIs(t, err, errGatewayDown)
	require.Equal(t, 3, gw.listCalls)
	require.Equal(t, 3, s.RefreshFailures())
	require.Equal(t, []Level{LevelError}, notes.levels())

	// Past the ceiling: one attempt per call and no repeated toast.
	require.Error(t, s.RefreshTasks(t.Context()))
	require.Equal(t, 4, gw.listCalls)
	require.Equal(t, []Level{LevelError}, notes.levels())

	gw.failList = 0
	require.NoError(t, s.RefreshTasks(t.Context()))
	require.Equal(t, 0, s.RefreshFailures())
	snap := s.Snapshot()
	require.Len(t, snap.Tasks, 1)
	require.Equal(t, "2024-03-10", snap.Tasks[0].Date)
	require.NoError(t, snap.Err)

	// After a success the notice is armed again.
	gw.failList = 100
	require.Error(t, s.RefreshTasks(t.Context()))
	require.Equal(t, []Level{LevelError, LevelError}, notes.levels())
}

func TestRefreshRecoversWithinAttempts(t *testing.T) {
	gw := newFakeGateway(model.Task{ID: "task-1", Title: "a", Date: "2024-03-10"})
	gw.failList = 2
	notes := &recordingNotifier{}
	s := newTestStore(gw, notes, nil)

	require.NoError(t, s.RefreshTasks(t.Context()))
	require.Equal(t, 3, gw.listCalls)
	require.Len(t, s.Snapshot().Tasks, 1)
	require.Empty(t, notes.levels())
}

func TestSubscribeSignalsDispatch(t *testing.T) {
	s := newTestStore(newFakeGateway(), &recordingNotifier{}, nil)
	ch, cancel := s.Subscribe()
	defer cancel()

	s.Dispatch(SetLoadingAction{Loading: true})
	select {
	case <-ch:
	default:
		t.Fatal("expected a signal after dispatch")
	}

	cancel()
	s.Dispatch(SetLoadingAction{Loading: false})
	select {
	case <-ch:
		t.Fatal("unexpected signal after cancel")
	default:
	}
}

func TestFailurePolicyIsExplicit(t *testing.T) {
	notes := &recordingNotifier{}
	s := newTestStore(newFakeGateway(), notes, nil)
	err := errors.New("boom")

	require.Equal(t, err, s.fail(LogOnFailure, "x", err))
	require.Empty(t, notes.levels())
	require.NoError(t, s.Snapshot().Err)

	require.Equal(t, err, s.fail(NotifyOnFailure, "x", err))
	require.Equal(t, []Level{LevelError}, notes.levels())
	require.Equal(t, err, s.Snapshot().Err)
}

package update

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/studyplan/internal/dnd"
	"github.com/sandeepkv93/studyplan/internal/model"
	"github.com/sandeepkv93/studyplan/internal/refresh"
	"github.com/sandeepkv93/studyplan/internal/scheduler"
	"github.com/sandeepkv93/studyplan/internal/store"
)

const opTimeout = 10 * time.Second

// ChannelNotifier hands store notifications to the UI loop. Notifications
// are dropped while the buffer is full.
type ChannelNotifier struct {
	ch chan store.Notification
}

func NewChannelNotifier(buffer int) *ChannelNotifier {
	if buffer <= 0 {
		buffer = 16
	}
	return &ChannelNotifier{ch: make(chan store.Notification, buffer)}
}

func (n *ChannelNotifier) Notify(note store.Notification) {
	select {
	case n.ch <- note:
	default:
	}
}

func (n *ChannelNotifier) C() <-chan store.Notification {
	return n.ch
}

func waitForChangeCmd(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return TasksChangedMsg{}
	}
}

func waitForNotificationCmd(n *ChannelNotifier) tea.Cmd {
	if n == nil {
		return nil
	}
	return func() tea.Msg {
		note, ok := <-n.ch
		if !ok {
			return nil
		}
		return NotificationMsg{Notification: note}
	}
}

func waitForReminderCmd(engine *scheduler.Engine) tea.Cmd {
	if engine == nil {
		return nil
	}
	ch := engine.C()
	return func() tea.Msg {
		r, ok := <-ch
		if !ok {
			return nil
		}
		return ReminderDueMsg{Reminder: r}
	}
}

func refreshCmd(st *store.Store, svc *refresh.Service) tea.Cmd {
	return func() tea.Msg {
		var err error
		if svc != nil {
			err = svc.RunNow(context.Background())
		} else {
			ctx, cancel := context.WithTimeout(context.Background(), refresh.DefaultTimeout)
			err = st.RefreshTasks(ctx)
			cancel()
		}
		if err != nil {
			return OpResultMsg{Err: fmt.Errorf("refresh: %w", err)}
		}
		return OpResultMsg{Text: "tasks refreshed"}
	}
}

func addTaskCmd(st *store.Store, draft model.Draft) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		t, err := st.AddTask(ctx, draft)
		if err != nil {
			return OpResultMsg{Err: err}
		}
		return OpResultMsg{Text: fmt.Sprintf("added %q on %s", t.Title, t.Date)}
	}
}

func toggleTaskCmd(st *store.Store, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		t, err := st.ToggleTaskCompletion(ctx, id)
		if err != nil {
			return OpResultMsg{Err: err}
		}
		if t.Completed {
			return OpResultMsg{Text: fmt.Sprintf("completed %q", t.Title)}
		}
		return OpResultMsg{Text: fmt.Sprintf("reopened %q", t.Title)}
	}
}

func toggleSubtaskCmd(st *store.Store, taskID, subtaskID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		if _, err := st.ToggleSubtaskCompletion(ctx, taskID, subtaskID); err != nil {
			return OpResultMsg{Err: err}
		}
		return OpResultMsg{Text: "subtask updated"}
	}
}

func deleteTaskCmd(st *store.Store, id, title string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		if _, err := st.DeleteTask(ctx, id); err != nil {
			return OpResultMsg{Err: err}
		}
		return OpResultMsg{Text: fmt.Sprintf("deleted %q", title)}
	}
}

func moveTaskCmd(st *store.Store, id, date string, opts ...store.DateOption) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		t, err := st.UpdateTaskDate(ctx, id, date, opts...)
		if err != nil {
			return OpResultMsg{Err: err}
		}
		return OpResultMsg{Text: fmt.Sprintf("moved %q to %s", t.Title, slot(t))}
	}
}

func rescheduleCmd(c *dnd.Controller, r dnd.Reschedule) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		t, err := c.Apply(ctx, r)
		if err != nil {
			return OpResultMsg{Err: err}
		}
		return OpResultMsg{Text: fmt.Sprintf("moved %q to %s", t.Title, slot(t))}
	}
}

func importCmd(st *store.Store, systemID, systemName string, drafts []model.Draft) tea.Cmd {
	return func() tea.Msg {
		res, err := st.ImportTasksFromTemplate(context.Background(), systemID, systemName, drafts)
		if err != nil {
			return OpResultMsg{Err: err}
		}
		return OpResultMsg{Text: fmt.Sprintf("imported %d of %d tasks from %s", len(res.Imported), len(res.Imported)+res.Failed, systemName)}
	}
}

func slot(t model.Task) string {
	if t.Time == "" {
		return t.Date
	}
	return t.Date + " " + t.Time
}

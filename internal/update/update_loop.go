package update

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/studyplan/internal/dnd"
	"github.com/sandeepkv93/studyplan/internal/scheduler"
	"github.com/sandeepkv93/studyplan/internal/store"
	"github.com/sandeepkv93/studyplan/internal/views"
)

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		refreshCmd(m.store, m.refresher),
		waitForChangeCmd(m.changes),
		waitForNotificationCmd(m.notices),
		waitForReminderCmd(m.scheduler),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		if typed.String() == "ctrl+c" {
			return m.quit()
		}
		if m.Palette.Active {
			if typed.String() == m.Keys.Help {
				m.HelpVisible = !m.HelpVisible
				return m, nil
			}
			return m.handlePaletteKey(typed)
		}
		if m.Searching {
			return m.handleSearchKey(typed), nil
		}

		switch typed.String() {
		case m.Keys.Palette:
			m.Palette.Active = true
			m.Palette.Input = ""
			m.commandInput.SetValue("")
			m.commandInput.Focus()
			m.Status = StatusBar{Text: "command palette active"}
			return m, nil
		case m.Keys.List:
			m.CurrentView = ViewList
			return m, nil
		case m.Keys.Week:
			m.CurrentView = ViewWeek
			return m, nil
		case m.Keys.Techniques:
			m.CurrentView = ViewTechniques
			m.syncTechniquePage()
			return m, nil
		case m.Keys.Focus:
			m.CurrentView = ViewFocus
			m.bootstrapFocusTask()
			return m, nil
		case m.Keys.Help:
			m.HelpVisible = !m.HelpVisible
			if m.HelpVisible {
				m.Status = StatusBar{Text: "help shown"}
			} else {
				m.Status = StatusBar{Text: "help hidden"}
			}
			return m, nil
		case m.Keys.Refresh:
			m.Status = StatusBar{Text: "refreshing"}
			return m, refreshCmd(m.store, m.refresher)
		case m.Keys.Quit:
			return m.quit()
		}
		switch m.CurrentView {
		case ViewList:
			return m.handleListKey(typed)
		case ViewWeek:
			return m.handleWeekKey(typed)
		case ViewTechniques:
			return m.handleTechniqueKey(typed)
		case ViewFocus:
			return m.handleFocusKey(typed)
		}
	case spinner.TickMsg:
		if m.Loading {
			var cmd tea.Cmd
			m.syncSpinner, cmd = m.syncSpinner.Update(typed)
			return m, cmd
		}
	case TasksChangedMsg:
		wasLoading := m.Loading
		m.reloadTasks()
		cmds := []tea.Cmd{waitForChangeCmd(m.changes)}
		if m.Loading && !wasLoading {
			cmds = append(cmds, m.syncSpinner.Tick)
		}
		return m, tea.Batch(cmds...)
	case NotificationMsg:
		m.onStoreNotification(typed.Notification)
		return m, waitForNotificationCmd(m.notices)
	case ReminderDueMsg:
		m.onReminder(typed.Reminder)
		return m, waitForReminderCmd(m.scheduler)
	case OpResultMsg:
		if typed.Err != nil {
			m.LastError = typed.Err
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
			return m, nil
		}
		m.Status = StatusBar{Text: typed.Text}
		return m, nil
	case GrabMsg:
		m.grab(typed.TaskID)
		return m, nil
	case DropMsg:
		return m.drop(typed.Target)
	case SwitchViewMsg:
		if isKnownView(typed.View) {
			m.CurrentView = typed.View
			if typed.View == ViewFocus {
				m.bootstrapFocusTask()
			}
			if typed.View == ViewTechniques {
				m.syncTechniquePage()
			}
		}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		m.notify("Status", typed.Text, levelFromError(typed.IsError))
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
			m.notify("Error", typed.Err.Error(), "error")
		}
		return m, nil
	case FocusTickMsg:
		return m.onFocusTick()
	}

	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.Quitting = true
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
	return m, tea.Quit
}

// reloadTasks takes a fresh snapshot of the store and re-arms reminders.
func (m *Model) reloadTasks() {
	snap := m.store.Snapshot()
	m.Tasks = snap.Tasks
	m.Loading = snap.IsLoading
	if snap.Err != nil {
		m.LastError = snap.Err
	}
	m.clampCursor()
	m.syncFocusTask()
	if m.scheduler == nil {
		return
	}
	if _, err := m.scheduler.Sync(m.Tasks, m.reminderLead, m.dates); err != nil && !errors.Is(err, scheduler.ErrStopped) {
		m.Status = StatusBar{Text: fmt.Sprintf("reminders: %v", err), IsError: true}
	}
}

func (m *Model) onStoreNotification(n store.Notification) {
	body := n.Title
	if n.Message != "" {
		body = n.Title + ": " + n.Message
	}
	isErr := n.Level == store.LevelError
	m.Status = StatusBar{Text: body, IsError: isErr}
	m.notify(n.Title, n.Message, string(n.Level))
}

func (m *Model) grab(taskID string) {
	t, ok := m.store.Task(taskID)
	if !ok {
		m.Status = StatusBar{Text: fmt.Sprintf("no task %s to move", taskID), IsError: true}
		return
	}
	m.drag.Start(t.ID, m.dates.Normalize(t.Date))
	m.SelectedTaskID = t.ID
	m.Status = StatusBar{Text: fmt.Sprintf("moving %q", t.Title)}
}

func (m Model) drop(target dnd.Target) (tea.Model, tea.Cmd) {
	r := m.drag.Release(target)
	if r == nil {
		m.Status = StatusBar{Text: "drop ignored"}
		return m, nil
	}
	m.Status = StatusBar{Text: "moving task"}
	return m, rescheduleCmd(m.drag, *r)
}

func (m Model) View() string {
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}
	sidebar := ""
	leftPane := ""
	rightPane := ""
	switch m.CurrentView {
	case ViewList:
		sidebar = m.renderSidebar()
		leftPane = m.renderListView()
	case ViewWeek:
		sidebar = m.renderSidebar()
		leftPane = m.renderWeekView()
	case ViewTechniques:
		leftPane = m.renderTechniqueList()
		rightPane = m.pageViewport.View()
	case ViewFocus:
		leftPane = m.renderFocusView()
	}
	if extra := strings.TrimSpace(m.renderCommandPalette() + "\n" + m.renderHelpIfVisible()); extra != "" {
		rightPane = strings.TrimSpace(rightPane + "\n" + extra)
	}

	notificationView := ""
	if len(m.ReminderLog) > 0 {
		last := m.ReminderLog[len(m.ReminderLog)-1]
		notificationView = fmt.Sprintf("last-reminder: %s @ %s", last.Title, last.StartsAt.Format("15:04"))
	}
	if m.Loading {
		notificationView = strings.TrimSpace(notificationView + "\nsync: " + m.syncSpinner.View() + " loading")
	}
	notificationView = strings.TrimSpace(strings.Join([]string{
		notificationView,
		strings.TrimSpace(m.renderNotificationsView()),
	}, "\n"))

	return views.RenderApp(views.AppData{
		Header:       fmt.Sprintf("studyplan | view: %s | selected: %s | %s", m.CurrentView, m.selectedTitle(), m.dates.Display(m.dates.Today())),
		Sidebar:      sidebar,
		LeftPane:     leftPane,
		RightPane:    rightPane,
		StatusLine:   status,
		Notification: notificationView,
		Footer: fmt.Sprintf("keys: %s list | %s week | %s techniques | %s focus | %s cmd | %s refresh | %s help | %s quit",
			m.Keys.List, m.Keys.Week, m.Keys.Techniques, m.Keys.Focus, m.Keys.Palette, m.Keys.Refresh, m.Keys.Help, m.Keys.Quit),
	})
}

func (m Model) selectedTitle() string {
	if t, ok := m.store.Task(m.SelectedTaskID); ok {
		return t.Title
	}
	return "-"
}

func isKnownView(v View) bool {
	switch v {
	case ViewList, ViewWeek, ViewTechniques, ViewFocus:
		return true
	default:
		return false
	}
}

func focusTickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return FocusTickMsg{} })
}

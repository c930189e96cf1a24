package update

import (
	"slices"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/studyplan/internal/datekey"
	"github.com/sandeepkv93/studyplan/internal/filter"
	"github.com/sandeepkv93/studyplan/internal/model"
	"github.com/sandeepkv93/studyplan/internal/views"
)

func (m Model) handleListKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.Sidebar.Focused {
		return m.handleSidebarKey(msg), nil
	}
	switch msg.String() {
	case "j", "down":
		m.moveCursor(1)
	case "k", "up":
		m.moveCursor(-1)
	case "x":
		if m.SelectedTaskID != "" {
			return m, toggleTaskCmd(m.store, m.SelectedTaskID)
		}
	case "D":
		if t, ok := m.store.Task(m.SelectedTaskID); ok {
			return m, deleteTaskCmd(m.store, t.ID, t.Title)
		}
	case "s":
		m.Filter.Status = nextStatus(m.Filter.Status)
		m.clampCursor()
		m.Status = StatusBar{Text: "status: " + string(m.Filter.Status)}
	case "o":
		m.Filter.SortBy = nextSort(m.Filter.SortBy)
		m.clampCursor()
		m.Status = StatusBar{Text: "sort: " + string(m.Filter.SortBy)}
	case "O":
		m.Filter.Direction = m.Filter.Direction.Toggle()
		m.clampCursor()
		m.Status = StatusBar{Text: "direction: " + string(m.Filter.Direction)}
	case "/":
		m.Searching = true
		m.searchInput.SetValue(m.Filter.Search)
		m.searchInput.Focus()
	case "tab":
		m.Sidebar.Focused = true
	case "]":
		m.moveSubtaskCursor(1)
	case "[":
		m.moveSubtaskCursor(-1)
	case "t":
		if t, ok := m.store.Task(m.SelectedTaskID); ok && m.SubtaskCursor < len(t.Subtasks) {
			return m, toggleSubtaskCmd(m.store, t.ID, t.Subtasks[m.SubtaskCursor].ID)
		}
	case "f":
		if m.SelectedTaskID != "" {
			m.Focus.TaskID = ""
			m.CurrentView = ViewFocus
			m.bootstrapFocusTask()
		}
	}
	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "enter", "esc":
		m.Searching = false
		m.searchInput.Blur()
		if msg.String() == "esc" {
			m.searchInput.SetValue("")
		}
	default:
		if msg.Type == tea.KeyRunes {
			m.searchInput.SetValue(m.searchInput.Value() + string(msg.Runes))
		} else {
			m.searchInput, _ = m.searchInput.Update(msg)
		}
	}
	m.Filter.Search = m.searchInput.Value()
	m.clampCursor()
	return m
}

func (m Model) handleSidebarKey(msg tea.KeyMsg) Model {
	systems := filter.Systems(m.Tasks)
	switch msg.String() {
	case "tab", "esc":
		m.Sidebar.Focused = false
	case "j", "down":
		if m.Sidebar.Cursor < len(systems)-1 {
			m.Sidebar.Cursor++
		}
	case "k", "up":
		if m.Sidebar.Cursor > 0 {
			m.Sidebar.Cursor--
		}
	case " ", "enter":
		if m.Sidebar.Cursor < len(systems) {
			name := systems[m.Sidebar.Cursor]
			m.Sidebar.Hidden[name] = !m.Sidebar.Hidden[name]
			m.clampCursor()
		}
	}
	return m
}

// listOptions are the user's filter settings with the sidebar applied.
func (m Model) listOptions() filter.Options {
	opts := m.Filter
	opts.VisibleSystems = m.visibleSystems()
	return opts
}

func (m Model) visibleSystems() []string {
	hidden := false
	for _, h := range m.Sidebar.Hidden {
		hidden = hidden || h
	}
	if !hidden {
		return nil
	}
	out := make([]string, 0)
	for _, name := range filter.Systems(m.Tasks) {
		if !m.Sidebar.Hidden[name] {
			out = append(out, name)
		}
	}
	return out
}

func (m Model) listGroups() []filter.DayGroup {
	return filter.GroupByDay(filter.Apply(m.Tasks, m.listOptions(), m.dates), m.dates)
}

func (m Model) listRowIDs() []string {
	ids := make([]string, 0, len(m.Tasks))
	for _, g := range m.listGroups() {
		for _, t := range g.Tasks {
			ids = append(ids, t.ID)
		}
	}
	return ids
}

// clampCursor keeps the selection on the same task when it is still listed.
func (m *Model) clampCursor() {
	ids := m.listRowIDs()
	if i := slices.Index(ids, m.SelectedTaskID); i >= 0 {
		m.Cursor = i
	} else {
		if m.Cursor >= len(ids) {
			m.Cursor = len(ids) - 1
		}
		if m.Cursor < 0 {
			m.Cursor = 0
		}
		m.SelectedTaskID = ""
		if len(ids) > 0 {
			m.SelectedTaskID = ids[m.Cursor]
		}
	}
	m.clampSubtaskCursor()
}

func (m *Model) moveCursor(delta int) {
	ids := m.listRowIDs()
	if len(ids) == 0 {
		return
	}
	m.Cursor = max(0, min(len(ids)-1, m.Cursor+delta))
	if ids[m.Cursor] != m.SelectedTaskID {
		m.SubtaskCursor = 0
	}
	m.SelectedTaskID = ids[m.Cursor]
}

func (m *Model) moveSubtaskCursor(delta int) {
	m.SubtaskCursor += delta
	m.clampSubtaskCursor()
}

func (m *Model) clampSubtaskCursor() {
	t, _ := m.store.Task(m.SelectedTaskID)
	m.SubtaskCursor = max(0, min(len(t.Subtasks)-1, m.SubtaskCursor))
}

func (m Model) renderListView() string {
	groups := m.listGroups()
	data := views.ListPanelData{
		Status:        string(m.Filter.Status),
		Sort:          string(m.Filter.SortBy),
		Direction:     string(m.Filter.Direction),
		Groups:        make([]views.DayGroupData, 0, len(groups)),
		SelectedID:    m.SelectedTaskID,
		SubtaskCursor: m.SubtaskCursor,
	}
	if m.Searching || m.Filter.Search != "" {
		data.SearchView = m.searchInput.View()
	}
	if m.Loading {
		data.Loading = m.syncSpinner.View() + " loading"
	}
	for _, g := range groups {
		rows := make([]views.TaskRow, 0, len(g.Tasks))
		for _, t := range g.Tasks {
			rows = append(rows, taskRow(t, m.dates))
		}
		data.Groups = append(data.Groups, views.DayGroupData{Label: g.Label, Rows: rows})
	}
	return views.RenderListPanel(data)
}

func (m Model) renderSidebar() string {
	systems := filter.Systems(m.Tasks)
	data := views.SidebarData{Cursor: m.Sidebar.Cursor, Focused: m.Sidebar.Focused}
	for _, name := range systems {
		count := 0
		for _, t := range m.Tasks {
			if t.SystemName == name {
				count++
			}
		}
		data.Systems = append(data.Systems, views.SidebarSystem{Name: name, Visible: !m.Sidebar.Hidden[name], Count: count})
	}
	return views.RenderSidebar(data)
}

func taskRow(t model.Task, dates datekey.Normalizer) views.TaskRow {
	day, parsed := dates.Parse(t.Date)
	row := views.TaskRow{
		ID:         t.ID,
		Title:      t.Title,
		Time:       t.Time,
		EndTime:    t.EndTime,
		Priority:   string(t.Priority),
		Category:   string(t.Category),
		SystemName: t.SystemName,
		Technique:  string(t.ProductivityTechnique),
		Completed:  t.Completed,
		Overdue:    parsed && !t.Completed && day.Format(datekey.Layout) < dates.Today(),
	}
	for _, st := range t.Subtasks {
		row.Subtasks = append(row.Subtasks, views.SubtaskRow{ID: st.ID, Title: st.Title, Completed: st.Completed})
	}
	return row
}

func nextStatus(s filter.Status) filter.Status {
	i := slices.Index(filter.Statuses, s)
	return filter.Statuses[(i+1)%len(filter.Statuses)]
}

func nextSort(f filter.SortField) filter.SortField {
	i := slices.Index(filter.SortFields, f)
	return filter.SortFields[(i+1)%len(filter.SortFields)]
}

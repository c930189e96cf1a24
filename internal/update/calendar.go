package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/studyplan/internal/dnd"
	"github.com/sandeepkv93/studyplan/internal/filter"
	"github.com/sandeepkv93/studyplan/internal/model"
	"github.com/sandeepkv93/studyplan/internal/views"
)

func (m Model) handleWeekKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "h", "left":
		m.shiftDay(-1)
	case "l", "right":
		m.shiftDay(1)
	case "j", "down":
		m.shiftHour(1)
	case "k", "up":
		m.shiftHour(-1)
	case "n":
		m.shiftWeek(7)
	case "p":
		m.shiftWeek(-7)
	case "t":
		m.Week.Anchor = m.dates.Today()
		m.Week.Day = weekdayIndex(m.Week.Anchor, m.weekDays())
	case "g":
		tasks := m.cursorCellTasks()
		if len(tasks) == 0 {
			m.Status = StatusBar{Text: "nothing to move in this cell"}
			return m, nil
		}
		pick := tasks[0]
		for _, t := range tasks {
			if t.ID == m.SelectedTaskID {
				pick = t
			}
		}
		m.grab(pick.ID)
	case "enter":
		if m.drag.State().Phase != dnd.Dragging {
			return m, nil
		}
		return m.dropOnCursor()
	case "esc":
		if m.drag.State().Phase == dnd.Dragging {
			m.drag.Cancel()
			m.Status = StatusBar{Text: "move cancelled"}
		}
	}
	return m, nil
}

// dropOnCursor releases the dragged task over the focused cell.
func (m Model) dropOnCursor() (Model, tea.Cmd) {
	days := m.weekDays()
	dragID := m.drag.State().TaskID
	target := dnd.DayCell(dragID, days[m.Week.Day])
	if m.Week.Hour != allDayBand {
		target = dnd.HourCell(dragID, days[m.Week.Day], m.Week.Hour)
	}
	next, cmd := m.drop(target)
	return next.(Model), cmd
}

func (m *Model) shiftDay(delta int) {
	day := m.Week.Day + delta
	switch {
	case day < 0:
		m.shiftWeek(-7)
		day = 6
	case day > 6:
		m.shiftWeek(7)
		day = 0
	}
	m.Week.Day = day
}

func (m *Model) shiftHour(delta int) {
	hour := m.Week.Hour
	switch {
	case hour == allDayBand && delta > 0:
		hour = firstHour
	case hour == firstHour && delta < 0:
		hour = allDayBand
	case hour == allDayBand:
	default:
		hour = max(firstHour, min(lastHour, hour+delta))
	}
	m.Week.Hour = hour
}

func (m *Model) shiftWeek(days int) {
	if next, ok := m.dates.AddDays(m.Week.Anchor, days); ok {
		m.Week.Anchor = next
	}
}

func (m Model) weekDays() []string {
	return filter.WeekOf(m.Week.Anchor, m.dates)
}

// weekTasks are the visible tasks of the shown week, with normalized dates.
func (m Model) weekTasks() map[string][]model.Task {
	opts := m.listOptions()
	opts.Status = filter.StatusAll
	opts.SortBy = filter.SortDate
	opts.Direction = filter.Asc
	days := m.weekDays()
	out := make(map[string][]model.Task, len(days))
	for _, day := range days {
		out[day] = nil
	}
	for _, t := range filter.Apply(m.Tasks, opts, m.dates) {
		key := m.dates.Normalize(t.Date)
		if _, ok := out[key]; !ok {
			continue
		}
		t.Date = key
		out[key] = append(out[key], t)
	}
	return out
}

func (m Model) cursorCellTasks() []model.Task {
	day := m.weekDays()[m.Week.Day]
	tasks := m.weekTasks()[day]
	if m.Week.Hour == allDayBand {
		return filter.AllDay(tasks)
	}
	return gridHours(tasks)[m.Week.Hour]
}

// gridHours buckets timed tasks into the visible rows; tasks outside the
// grid land on its first or last row.
func gridHours(tasks []model.Task) map[int][]model.Task {
	out := make(map[int][]model.Task)
	for hour, list := range filter.ByHour(tasks) {
		row := max(firstHour, min(lastHour, hour))
		out[row] = append(out[row], list...)
	}
	return out
}

func (m Model) renderWeekView() string {
	days := m.weekDays()
	byDay := m.weekTasks()
	data := views.WeekPanelData{
		FirstHour:  firstHour,
		LastHour:   lastHour,
		CursorDay:  m.Week.Day,
		CursorHour: m.Week.Hour,
	}
	if s := m.drag.State(); s.Phase == dnd.Dragging {
		if t, ok := m.store.Task(s.TaskID); ok {
			data.DragTitle = t.Title
		}
	}
	for _, day := range days {
		tasks := byDay[day]
		wd := views.WeekDayData{Key: day, Label: m.dayLabel(day), Hours: make(map[int][]views.TaskRow)}
		for _, t := range filter.AllDay(tasks) {
			wd.AllDay = append(wd.AllDay, taskRow(t, m.dates))
		}
		for hour, list := range gridHours(tasks) {
			for _, t := range list {
				wd.Hours[hour] = append(wd.Hours[hour], taskRow(t, m.dates))
			}
		}
		data.Days = append(data.Days, wd)
	}
	return views.RenderWeekPanel(data)
}

func (m Model) dayLabel(key string) string {
	t, ok := m.dates.Parse(key)
	if !ok {
		return key
	}
	label := t.Format("Mon Jan 2")
	if key == m.dates.Today() {
		label = fmt.Sprintf("%s (today)", label)
	}
	return label
}

func weekdayIndex(key string, days []string) int {
	for i, d := range days {
		if d == key {
			return i
		}
	}
	return 0
}

package views

import (
	"fmt"
	"strings"
)

type SubtaskRow struct {
	ID        string
	Title     string
	Completed bool
}

type TaskRow struct {
	ID         string
	Title      string
	Time       string
	EndTime    string
	Priority   string
	Category   string
	SystemName string
	Technique  string
	Completed  bool
	Overdue    bool
	Subtasks   []SubtaskRow
}

type DayGroupData struct {
	Label string
	Rows  []TaskRow
}

type ListPanelData struct {
	Status        string
	Sort          string
	Direction     string
	SearchView    string
	Groups        []DayGroupData
	SelectedID    string
	SubtaskCursor int
	Loading       string
}

type WeekDayData struct {
	Key    string
	Label  string
	AllDay []TaskRow
	Hours  map[int][]TaskRow
}

type WeekPanelData struct {
	Days       []WeekDayData
	FirstHour  int
	LastHour   int
	CursorDay  int
	CursorHour int // -1 is the all-day band
	DragTitle  string
}

type SidebarSystem struct {
	Name    string
	Visible bool
	Count   int
}

type SidebarData struct {
	Systems []SidebarSystem
	Cursor  int
	Focused bool
}

type TechniqueItem struct {
	ID    string
	Title string
}

type TechniquePanelData struct {
	Items    []TechniqueItem
	Cursor   int
	PageView string
}

type FocusPanelData struct {
	TaskTitle          string
	Technique          string
	Phase              string
	Timer              string
	ProgressView       string
	ProgressPct        int
	CompletedPomodoros int
	ShowEndPrompt      bool
}

type HelpPanelData struct {
	CurrentView string
	Bindings    []string
	HelpView    string
}

func RenderListPanel(data ListPanelData) string {
	var b strings.Builder
	b.WriteString("tasks:\n")
	b.WriteString(fmt.Sprintf("status: %s | sort: %s %s", data.Status, data.Sort, data.Direction))
	if data.Loading != "" {
		b.WriteString(" | " + data.Loading)
	}
	b.WriteString("\n")
	if data.SearchView != "" {
		b.WriteString(data.SearchView + "\n")
	}
	for _, g := range data.Groups {
		b.WriteString(fmt.Sprintf("\n%s:\n", g.Label))
		if len(g.Rows) == 0 {
			b.WriteString(mutedStyle.Render("  no tasks") + "\n")
			continue
		}
		for _, row := range g.Rows {
			selected := row.ID == data.SelectedID
			b.WriteString(renderTaskLine(row, selected) + "\n")
			if !selected {
				continue
			}
			for i, st := range row.Subtasks {
				cursor := "   "
				if i == data.SubtaskCursor {
					cursor = " » "
				}
				b.WriteString(fmt.Sprintf("  %s%s %s\n", cursor, checkbox(st.Completed), st.Title))
			}
		}
	}
	return strings.TrimSpace(b.String())
}

func renderTaskLine(row TaskRow, selected bool) string {
	cursor := " "
	if selected {
		cursor = cursorStyle.Render(">")
	}
	title := row.Title
	switch {
	case row.Completed:
		title = doneStyle.Render(title)
	case row.Overdue:
		title = overdueStyle.Render(title)
	}
	parts := []string{cursor, checkbox(row.Completed)}
	if row.Time != "" {
		when := row.Time
		if row.EndTime != "" {
			when += "-" + row.EndTime
		}
		parts = append(parts, when)
	}
	parts = append(parts, title, PriorityBadge(row.Priority), CategoryBadge(row.Category))
	if row.SystemName != "" {
		parts = append(parts, mutedStyle.Render("("+row.SystemName+")"))
	}
	if row.Technique != "" {
		parts = append(parts, mutedStyle.Render("~"+row.Technique))
	}
	return strings.Join(nonEmpty(parts), " ")
}

func RenderWeekPanel(data WeekPanelData) string {
	var b strings.Builder
	b.WriteString("week:\n")
	if data.DragTitle != "" {
		b.WriteString(fmt.Sprintf("moving: %s (enter drop, esc cancel)\n", data.DragTitle))
	}
	for i, day := range data.Days {
		marker := " "
		if i == data.CursorDay {
			marker = cursorStyle.Render(">")
		}
		b.WriteString(fmt.Sprintf("\n%s %s %s\n", marker, day.Label, mutedStyle.Render(day.Key)))
		b.WriteString(renderCell("all-day", day.AllDay, i == data.CursorDay && data.CursorHour < 0))
		for h := data.FirstHour; h <= data.LastHour; h++ {
			rows := day.Hours[h]
			focused := i == data.CursorDay && data.CursorHour == h
			if len(rows) == 0 && !focused {
				continue
			}
			b.WriteString(renderCell(fmt.Sprintf("%02d:00", h), rows, focused))
		}
	}
	return strings.TrimSpace(b.String())
}

func renderCell(label string, rows []TaskRow, focused bool) string {
	cursor := "  "
	if focused {
		cursor = cursorStyle.Render("» ")
	}
	if len(rows) == 0 {
		return fmt.Sprintf("  %s%-7s %s\n", cursor, label, mutedStyle.Render("·"))
	}
	titles := make([]string, 0, len(rows))
	for _, r := range rows {
		t := r.Title
		if r.Completed {
			t = doneStyle.Render(t)
		}
		titles = append(titles, t)
	}
	return fmt.Sprintf("  %s%-7s %s\n", cursor, label, strings.Join(titles, ", "))
}

func RenderSidebar(data SidebarData) string {
	var b strings.Builder
	title := "systems:"
	if data.Focused {
		title = cursorStyle.Render("systems:")
	}
	b.WriteString(title + "\n")
	if len(data.Systems) == 0 {
		b.WriteString(mutedStyle.Render("(none imported)"))
		return b.String()
	}
	for i, s := range data.Systems {
		cursor := " "
		if data.Focused && i == data.Cursor {
			cursor = ">"
		}
		b.WriteString(fmt.Sprintf("%s %s %s (%d)\n", cursor, checkbox(s.Visible), s.Name, s.Count))
	}
	return strings.TrimSpace(b.String())
}

func RenderTechniquePanel(data TechniquePanelData) string {
	var b strings.Builder
	b.WriteString("techniques:\n")
	for i, item := range data.Items {
		cursor := " "
		if i == data.Cursor {
			cursor = cursorStyle.Render(">")
		}
		b.WriteString(fmt.Sprintf("%s %s\n", cursor, item.Title))
	}
	return strings.TrimSpace(b.String())
}

func RenderFocusPanel(data FocusPanelData) string {
	var b strings.Builder
	b.WriteString("focus:\n")
	if data.TaskTitle != "" {
		b.WriteString(fmt.Sprintf("task: %s\n", data.TaskTitle))
	} else {
		b.WriteString("task: (none selected)\n")
	}
	if data.Technique != "" {
		b.WriteString(fmt.Sprintf("technique: %s\n", data.Technique))
	}
	b.WriteString(fmt.Sprintf("phase: %s\n", strings.ToUpper(data.Phase)))
	b.WriteString(fmt.Sprintf("timer: %s\n", data.Timer))
	b.WriteString(fmt.Sprintf("progress: %s %d%%\n", data.ProgressView, data.ProgressPct))
	b.WriteString(fmt.Sprintf("pomodoros completed: %d\n", data.CompletedPomodoros))
	b.WriteString("actions: [space]start/pause [r]reset [n]next-phase [x]complete task\n")
	if data.ShowEndPrompt {
		b.WriteString("prompt: session ended, press [n] to continue")
	}
	return strings.TrimSpace(b.String())
}

func RenderCommandPalette(active bool, inputView string) string {
	if !active {
		return ""
	}
	return "command: " + inputView
}

func RenderNotification(level string, body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	return fmt.Sprintf("notification: [%s] %s", strings.ToUpper(level), body)
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help (%s view):\n%s\n%s",
		strings.ToLower(data.CurrentView),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

func nonEmpty(parts []string) []string {
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

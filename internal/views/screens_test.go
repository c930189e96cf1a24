package views

import (
	"strings"
	"testing"
)

func TestRenderListPanelShowsEmptyDaysAndSubtasks(t *testing.T) {
	out := RenderListPanel(ListPanelData{
		Status:    "all",
		Sort:      "date",
		Direction: "asc",
		Groups: []DayGroupData{
			{Label: "Today", Rows: []TaskRow{{
				ID: "t1", Title: "Read ch.1", Time: "09:00", EndTime: "10:00",
				Priority: "high", Category: "study", SystemName: "Calculus I",
				Subtasks: []SubtaskRow{{ID: "s1", Title: "Skim", Completed: true}},
			}}},
			{Label: "Tomorrow"},
		},
		SelectedID: "t1",
	})
	for _, want := range []string{"Today:", "Tomorrow:", "no tasks", "09:00-10:00", "Read ch.1", "[HIGH]", "#study", "(Calculus I)", "[x] Skim"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestRenderWeekPanelMarksCursorAndDrag(t *testing.T) {
	out := RenderWeekPanel(WeekPanelData{
		Days: []WeekDayData{
			{Key: "2024-03-04", Label: "Mon", AllDay: []TaskRow{{Title: "Essay"}}},
			{Key: "2024-03-05", Label: "Tue", Hours: map[int][]TaskRow{9: {{Title: "Lab"}}}},
		},
		FirstHour:  6,
		LastHour:   22,
		CursorDay:  1,
		CursorHour: 14,
		DragTitle:  "Essay",
	})
	for _, want := range []string{"moving: Essay", "Essay", "09:00", "Lab", "14:00"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "07:00") {
		t.Fatalf("empty unfocused hours should be hidden:\n%s", out)
	}
}

func TestRenderSidebar(t *testing.T) {
	out := RenderSidebar(SidebarData{Systems: []SidebarSystem{{Name: "Bio", Visible: false, Count: 2}}, Focused: true})
	if !strings.Contains(out, "> [ ] Bio (2)") {
		t.Fatalf("unexpected sidebar:\n%s", out)
	}
	if !strings.Contains(RenderSidebar(SidebarData{}), "none imported") {
		t.Fatal("expected empty sidebar hint")
	}
}

func TestRenderMarkdownFallsBackOnEmpty(t *testing.T) {
	if RenderMarkdown("   ", 40) != "" {
		t.Fatal("expected empty output for blank markdown")
	}
	if out := RenderMarkdown("# Pomodoro\n\nWork in sprints.", 40); !strings.Contains(out, "Pomodoro") {
		t.Fatalf("expected heading text in rendered markdown: %q", out)
	}
}

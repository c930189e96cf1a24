package model

import (
	"errors"
	"testing"
)

func TestDraftValidateSuccess(t *testing.T) {
	d := Draft{
		Title:                 "Read ch.1",
		Date:                  "2024-03-10",
		Time:                  "09:00",
		EndTime:               "10:30",
		Priority:              PriorityHigh,
		Category:              CategoryStudy,
		ProductivityTechnique: TechniquePomodoro,
		Subtasks:              []Subtask{{ID: "s1", Title: "Skim"}},
	}
	if err := d.Validate(); err != nil {
		t.Fatalf("expected valid draft, got error: %v", err)
	}
}

func TestDraftValidateInvalidEnums(t *testing.T) {
	d := Draft{Title: "x", Date: "2024-03-10", Priority: Priority("urgent"), Category: CategoryWork}
	if err := d.Validate(); !errors.Is(err, ErrInvalidPriority) {
		t.Fatalf("expected ErrInvalidPriority, got: %v", err)
	}

	d.Priority = PriorityLow
	d.Category = Category("hobby")
	if err := d.Validate(); !errors.Is(err, ErrInvalidCategory) {
		t.Fatalf("expected ErrInvalidCategory, got: %v", err)
	}

	d.Category = CategoryOther
	d.ProductivityTechnique = Technique("cramming")
	if err := d.Validate(); !errors.Is(err, ErrInvalidTechnique) {
		t.Fatalf("expected ErrInvalidTechnique, got: %v", err)
	}

	d.ProductivityTechnique = ""
	d.Time = "9am"
	if err := d.Validate(); !errors.Is(err, ErrInvalidTime) {
		t.Fatalf("expected ErrInvalidTime, got: %v", err)
	}
}

func TestDraftWithDefaults(t *testing.T) {
	d := Draft{Title: "x", Date: "2024-03-10"}.WithDefaults()
	if d.Priority != PriorityMedium || d.Category != CategoryOther {
		t.Fatalf("unexpected defaults: %+v", d)
	}
	if err := d.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestTaskValidateRequiresID(t *testing.T) {
	task := Task{Title: "x", Date: "2024-03-10", Priority: PriorityLow, Category: CategoryOther}
	if err := task.Validate(); err == nil || err.Error() != "model: task id is required" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPriorityRank(t *testing.T) {
	if !(PriorityHigh.Rank() > PriorityMedium.Rank() && PriorityMedium.Rank() > PriorityLow.Rank()) {
		t.Fatal("expected high > medium > low")
	}
	if Priority("").Rank() != 0 {
		t.Fatal("expected unknown priority rank 0")
	}
}

func TestPatchApplyOnlyTouchesSuppliedFields(t *testing.T) {
	task := Task{
		ID:       "task-1",
		Title:    "Review notes",
		Date:     "2024-03-10",
		Time:     "14:00",
		Priority: PriorityLow,
		Subtasks: []Subtask{{ID: "s1", Title: "a"}},
	}
	got := Patch{Date: Ptr("2024-03-12")}.Apply(task)
	if got.Date != "2024-03-12" || got.Time != "14:00" || got.Title != "Review notes" {
		t.Fatalf("unexpected patched task: %+v", got)
	}

	got.Subtasks[0].Completed = true
	if task.Subtasks[0].Completed {
		t.Fatal("apply must not alias subtasks of the input")
	}
}

func TestPatchFromRoundTrip(t *testing.T) {
	task := Task{ID: "t", Title: "x", Date: "2024-03-10", Completed: true, Priority: PriorityHigh}
	got := PatchFrom(task).Apply(Task{ID: "t"})
	if got.Title != "x" || !got.Completed || got.Priority != PriorityHigh || got.Subtasks == nil {
		t.Fatalf("unexpected result: %+v", got)
	}
	if (Patch{}).IsEmpty() != true || PatchFrom(task).IsEmpty() {
		t.Fatal("unexpected IsEmpty result")
	}
}

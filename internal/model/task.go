package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidPriority  = errors.New("model: invalid task priority")
	ErrInvalidCategory  = errors.New("model: invalid task category")
	ErrInvalidTechnique = errors.New("model: invalid productivity technique")
	ErrInvalidTime      = errors.New("model: invalid time of day")
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// Rank orders priorities for sorting: high=3, medium=2, low=1, unknown=0.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

type Category string

const (
	CategoryWork     Category = "work"
	CategoryPersonal Category = "personal"
	CategoryStudy    Category = "study"
	CategoryHealth   Category = "health"
	CategoryErrands  Category = "errands"
	CategoryFinance  Category = "finance"
	CategoryOther    Category = "other"
)

func (c Category) IsValid() bool {
	switch c {
	case CategoryWork, CategoryPersonal, CategoryStudy, CategoryHealth, CategoryErrands, CategoryFinance, CategoryOther:
		return true
	default:
		return false
	}
}

type Technique string

const (
	TechniquePomodoro         Technique = "pomodoro"
	TechniqueTimeBlocking     Technique = "timeblocking"
	TechniqueEisenhower       Technique = "eisenhower"
	TechniqueFeynman          Technique = "feynman"
	TechniqueSpacedRepetition Technique = "spaced-repetition"
	TechniqueActiveRecall     Technique = "active-recall"
	TechniqueGTD              Technique = "gtd"
	TechniqueEatTheFrog       Technique = "eat-the-frog"
)

// Techniques lists every known technique in display order.
var Techniques = []Technique{
	TechniquePomodoro,
	TechniqueTimeBlocking,
	TechniqueEisenhower,
	TechniqueFeynman,
	TechniqueSpacedRepetition,
	TechniqueActiveRecall,
	TechniqueGTD,
	TechniqueEatTheFrog,
}

// IsValid accepts the empty technique, which means "none".
func (t Technique) IsValid() bool {
	if t == "" {
		return true
	}
	for _, known := range Techniques {
		if t == known {
			return true
		}
	}
	return false
}

type Subtask struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

type Task struct {
	ID                    string    `json:"id"`
	Title                 string    `json:"title"`
	Description           string    `json:"description,omitempty"`
	Date                  string    `json:"date"`
	Time                  string    `json:"time,omitempty"`
	EndTime               string    `json:"endTime,omitempty"`
	Completed             bool      `json:"completed"`
	Priority              Priority  `json:"priority"`
	Category              Category  `json:"category"`
	SystemID              string    `json:"systemId,omitempty"`
	SystemName            string    `json:"systemName,omitempty"`
	Subtasks              []Subtask `json:"subtasks"`
	ProductivityTechnique Technique `json:"productivityTechnique,omitempty"`
	CreatedAt             time.Time `json:"createdAt"`
	UpdatedAt             time.Time `json:"updatedAt"`
}

// IsTimed reports whether the task belongs to the hourly grid rather than the all-day band.
func (t Task) IsTimed() bool {
	return strings.TrimSpace(t.Time) != ""
}

func (t Task) Subtask(id string) (Subtask, bool) {
	for _, st := range t.Subtasks {
		if st.ID == id {
			return st, true
		}
	}
	return Subtask{}, false
}

// Clone returns a copy that does not share the subtask slice.
func (t Task) Clone() Task {
	out := t
	if t.Subtasks != nil {
		out.Subtasks = make([]Subtask, len(t.Subtasks))
		copy(out.Subtasks, t.Subtasks)
	}
	return out
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("model: task id is required")
	}
	return t.Draft().Validate()
}

// Draft strips server-owned fields.
func (t Task) Draft() Draft {
	return Draft{
		Title:                 t.Title,
		Description:           t.Description,
		Date:                  t.Date,
		Time:                  t.Time,
		EndTime:               t.EndTime,
		Completed:             t.Completed,
		Priority:              t.Priority,
		Category:              t.Category,
		SystemID:              t.SystemID,
		SystemName:            t.SystemName,
		Subtasks:              t.Clone().Subtasks,
		ProductivityTechnique: t.ProductivityTechnique,
	}
}

// Draft is a task that has not been persisted yet.
type Draft struct {
	Title                 string    `json:"title"`
	Description           string    `json:"description,omitempty"`
	Date                  string    `json:"date"`
	Time                  string    `json:"time,omitempty"`
	EndTime               string    `json:"endTime,omitempty"`
	Completed             bool      `json:"completed"`
	Priority              Priority  `json:"priority"`
	Category              Category  `json:"category"`
	SystemID              string    `json:"systemId,omitempty"`
	SystemName            string    `json:"systemName,omitempty"`
	Subtasks              []Subtask `json:"subtasks"`
	ProductivityTechnique Technique `json:"productivityTechnique,omitempty"`
}

// WithDefaults fills an empty priority and category.
func (d Draft) WithDefaults() Draft {
	if d.Priority == "" {
		d.Priority = PriorityMedium
	}
	if d.Category == "" {
		d.Category = CategoryOther
	}
	return d
}

func (d Draft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return errors.New("model: task title is required")
	}
	if strings.TrimSpace(d.Date) == "" {
		return errors.New("model: task date is required")
	}
	if !d.Priority.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, d.Priority)
	}
	if !d.Category.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, d.Category)
	}
	if !d.ProductivityTechnique.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidTechnique, d.ProductivityTechnique)
	}
	if d.Time != "" && !IsClock(d.Time) {
		return fmt.Errorf("%w: %q", ErrInvalidTime, d.Time)
	}
	if d.EndTime != "" && !IsClock(d.EndTime) {
		return fmt.Errorf("%w: %q", ErrInvalidTime, d.EndTime)
	}
	for i, st := range d.Subtasks {
		if strings.TrimSpace(st.Title) == "" {
			return fmt.Errorf("model: subtask %d title is required", i)
		}
	}
	return nil
}

// IsClock reports whether s is a 24h HH:MM time of day.
func IsClock(s string) bool {
	_, err := time.Parse("15:04", s)
	return err == nil && len(s) == 5
}

package storage

import "time"

type Task struct {
	ID          string
	Title       string
	Description string
	Date        string
	Time        string
	EndTime     string
	Completed   bool
	Priority    string
	Category    string
	SystemID    string
	SystemName  string
	Technique   string
	Subtasks    []Subtask
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Subtask struct {
	ID        string
	TaskID    string
	Position  int
	Title     string
	Completed bool
}

type TaskListFilter struct {
	Date      string
	SystemID  string
	Completed *bool
	Limit     int
	Offset    int
}

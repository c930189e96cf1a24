// Package filter derives the views' task collections: filtered and sorted
// lists, and tasks bucketed by day.
package filter

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/sandeepkv93/studyplan/internal/datekey"
	"github.com/sandeepkv93/studyplan/internal/model"
)

type Status string

const (
	StatusAll       Status = "all"
	StatusToday     Status = "today"
	StatusUpcoming  Status = "upcoming"
	StatusCompleted Status = "completed"
	StatusOverdue   Status = "overdue"
)

var Statuses = []Status{StatusAll, StatusToday, StatusUpcoming, StatusCompleted, StatusOverdue}

func (s Status) IsValid() bool {
	return slices.Contains(Statuses, s)
}

type SortField string

const (
	SortDate     SortField = "date"
	SortPriority SortField = "priority"
	SortTitle    SortField = "title"
)

var SortFields = []SortField{SortDate, SortPriority, SortTitle}

func (f SortField) IsValid() bool {
	return slices.Contains(SortFields, f)
}

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

func (d Direction) IsValid() bool {
	return d == Asc || d == Desc
}

func (d Direction) Toggle() Direction {
	if d == Asc {
		return Desc
	}
	return Asc
}

type Options struct {
	// VisibleSystems lists the learning-system names to show. Nil shows all.
	// Tasks outside any system are always shown.
	VisibleSystems []string
	Search         string
	Status         Status
	Category       model.Category
	Priority       model.Priority
	SortBy         SortField
	Direction      Direction
}

func DefaultOptions() Options {
	return Options{Status: StatusAll, SortBy: SortDate, Direction: Asc}
}

// Validate rejects unknown enum values; empty values mean the default.
func (o Options) Validate() error {
	if o.Status != "" && !o.Status.IsValid() {
		return fmt.Errorf("filter: unknown status %q", o.Status)
	}
	if o.SortBy != "" && !o.SortBy.IsValid() {
		return fmt.Errorf("filter: unknown sort field %q", o.SortBy)
	}
	if o.Direction != "" && !o.Direction.IsValid() {
		return fmt.Errorf("filter: unknown sort direction %q", o.Direction)
	}
	if o.Category != "" && !o.Category.IsValid() {
		return fmt.Errorf("%w: %q", model.ErrInvalidCategory, o.Category)
	}
	if o.Priority != "" && !o.Priority.IsValid() {
		return fmt.Errorf("%w: %q", model.ErrInvalidPriority, o.Priority)
	}
	return nil
}

// Apply filters by system, then search text, then status and the category and
// priority selections, and finally sorts. The input is not modified.
func Apply(tasks []model.Task, opts Options, dates datekey.Normalizer) []model.Task {
	today := dates.Today()
	search := strings.ToLower(strings.TrimSpace(opts.Search))

	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if !systemVisible(t, opts.VisibleSystems) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(t.Title), search) &&
			!strings.Contains(strings.ToLower(t.Description), search) {
			continue
		}
		if !matchStatus(t, opts.Status, today, dates) {
			continue
		}
		if opts.Category != "" && t.Category != opts.Category {
			continue
		}
		if opts.Priority != "" && t.Priority != opts.Priority {
			continue
		}
		out = append(out, t.Clone())
	}

	slices.SortStableFunc(out, comparator(opts, dates))
	return out
}

func systemVisible(t model.Task, visible []string) bool {
	if visible == nil || t.SystemName == "" {
		return true
	}
	return slices.Contains(visible, t.SystemName)
}

func matchStatus(t model.Task, status Status, today string, dates datekey.Normalizer) bool {
	switch status {
	case StatusToday:
		key, ok := dayKey(t, dates)
		return ok && key == today
	case StatusUpcoming:
		key, ok := dayKey(t, dates)
		return ok && key > today && !t.Completed
	case StatusCompleted:
		return t.Completed
	case StatusOverdue:
		key, ok := dayKey(t, dates)
		return ok && key < today && !t.Completed
	default:
		return true
	}
}

func dayKey(t model.Task, dates datekey.Normalizer) (string, bool) {
	parsed, ok := dates.Parse(t.Date)
	if !ok {
		return "", false
	}
	return parsed.Format(datekey.Layout), true
}

func comparator(opts Options, dates datekey.Normalizer) func(a, b model.Task) int {
	dir := opts.Direction
	if dir == "" {
		dir = Asc
	}
	switch opts.SortBy {
	case SortPriority:
		return func(a, b model.Task) int {
			if dir == Asc {
				return cmp.Compare(a.Priority.Rank(), b.Priority.Rank())
			}
			return cmp.Compare(b.Priority.Rank(), a.Priority.Rank())
		}
	case SortTitle:
		col := collate.New(language.English, collate.IgnoreCase)
		return func(a, b model.Task) int {
			return directed(dir, col.CompareString(a.Title, b.Title))
		}
	default:
		return func(a, b model.Task) int {
			ta, okA := dates.Parse(a.Date)
			tb, okB := dates.Parse(b.Date)
			if !okA || !okB {
				return 0
			}
			c := ta.Compare(tb)
			if c == 0 {
				// Within a day, all-day tasks come first, then by start time.
				c = strings.Compare(a.Time, b.Time)
			}
			return directed(dir, c)
		}
	}
}

func directed(dir Direction, c int) int {
	if dir == Desc {
		return -c
	}
	return c
}

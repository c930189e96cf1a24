package filter

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/sandeepkv93/studyplan/internal/datekey"
	"github.com/sandeepkv93/studyplan/internal/model"
)

type DayGroup struct {
	Key   string
	Label string
	Tasks []model.Task
}

// GroupByDay buckets tasks by normalized day key, sorted by key. Today and
// tomorrow are always present, empty or not; no other group is ever empty.
// Tasks in the result carry their normalized date.
func GroupByDay(tasks []model.Task, dates datekey.Normalizer) []DayGroup {
	buckets := map[string][]model.Task{
		dates.Today():    nil,
		dates.Tomorrow(): nil,
	}
	for _, t := range tasks {
		c := t.Clone()
		c.Date = dates.Normalize(t.Date)
		buckets[c.Date] = append(buckets[c.Date], c)
	}

	out := make([]DayGroup, 0, len(buckets))
	for key, list := range buckets {
		if list == nil {
			list = []model.Task{}
		}
		out = append(out, DayGroup{Key: key, Label: dates.Display(key), Tasks: list})
	}
	slices.SortFunc(out, func(a, b DayGroup) int { return strings.Compare(a.Key, b.Key) })
	return out
}

// WeekOf returns the seven day keys, Monday first, of the week holding anchor.
// An unparsable anchor means today.
func WeekOf(anchor string, dates datekey.Normalizer) []string {
	start, ok := dates.Parse(anchor)
	if !ok {
		start, _ = dates.Parse(dates.Today())
	}
	offset := (int(start.Weekday()) + 6) % 7
	start = start.AddDate(0, 0, -offset)

	out := make([]string, 7)
	for i := range out {
		out[i] = start.AddDate(0, 0, i).Format(datekey.Layout)
	}
	return out
}

// Timed returns the tasks with a start time, ordered by it.
func Timed(tasks []model.Task) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.IsTimed() {
			out = append(out, t)
		}
	}
	slices.SortStableFunc(out, func(a, b model.Task) int { return strings.Compare(a.Time, b.Time) })
	return out
}

// AllDay returns the tasks without a start time.
func AllDay(tasks []model.Task) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if !t.IsTimed() {
			out = append(out, t)
		}
	}
	return out
}

// StartHour is the hour cell a timed task belongs to.
func StartHour(t model.Task) (int, bool) {
	if !t.IsTimed() {
		return 0, false
	}
	clock, err := time.Parse("15:04", strings.TrimSpace(t.Time))
	if err != nil {
		return 0, false
	}
	return clock.Hour(), true
}

// ByHour buckets timed tasks into hour cells.
func ByHour(tasks []model.Task) map[int][]model.Task {
	out := make(map[int][]model.Task)
	for _, t := range Timed(tasks) {
		if h, ok := StartHour(t); ok {
			out[h] = append(out[h], t)
		}
	}
	return out
}

// HourLabel renders an hour cell as "HH:00".
func HourLabel(hour int) string {
	return fmt.Sprintf("%02d:00", hour)
}

// Systems lists the distinct learning-system names, sorted.
func Systems(tasks []model.Task) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, t := range tasks {
		if t.SystemName == "" {
			continue
		}
		if _, ok := seen[t.SystemName]; ok {
			continue
		}
		seen[t.SystemName] = struct{}{}
		out = append(out, t.SystemName)
	}
	slices.Sort(out)
	return out
}

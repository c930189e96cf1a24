// Package templates loads learning-system templates: a named course split into
// modules whose tasks are dated relative to a start day.
package templates

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sandeepkv93/studyplan/internal/datekey"
	"github.com/sandeepkv93/studyplan/internal/model"
)

var ErrInvalidTemplate = errors.New("templates: invalid template")

type Template struct {
	ID      string   `yaml:"id"`
	Name    string   `yaml:"name"`
	Modules []Module `yaml:"modules"`
}

type Module struct {
	Title string `yaml:"title"`
	Tasks []Task `yaml:"tasks"`
}

type Task struct {
	Title       string          `yaml:"title"`
	Description string          `yaml:"description"`
	OffsetDays  int             `yaml:"offsetDays"`
	Time        string          `yaml:"time"`
	EndTime     string          `yaml:"endTime"`
	Priority    model.Priority  `yaml:"priority"`
	Category    model.Category  `yaml:"category"`
	Technique   model.Technique `yaml:"technique"`
	Subtasks    []string        `yaml:"subtasks"`
}

func Parse(r io.Reader) (Template, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var tpl Template
	if err := dec.Decode(&tpl); err != nil {
		return Template{}, fmt.Errorf("%w: %v", ErrInvalidTemplate, err)
	}
	if err := tpl.Validate(); err != nil {
		return Template{}, err
	}
	return tpl, nil
}

func Load(path string) (Template, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Template{}, fmt.Errorf("templates: read %s: %w", path, err)
	}
	return Parse(bytes.NewReader(raw))
}

func (t Template) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidTemplate)
	}
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidTemplate)
	}
	if len(t.Modules) == 0 {
		return fmt.Errorf("%w: at least one module is required", ErrInvalidTemplate)
	}
	for mi, m := range t.Modules {
		if strings.TrimSpace(m.Title) == "" {
			return fmt.Errorf("%w: module %d: title is required", ErrInvalidTemplate, mi)
		}
		for ti, task := range m.Tasks {
			if task.OffsetDays < 0 {
				return fmt.Errorf("%w: module %d task %d: offsetDays must not be negative", ErrInvalidTemplate, mi, ti)
			}
			if err := task.draft("2000-01-01", m.Title).WithDefaults().Validate(); err != nil {
				return fmt.Errorf("%w: module %d task %d: %v", ErrInvalidTemplate, mi, ti, err)
			}
		}
	}
	return nil
}

// Drafts expands every module task into a draft dated start+offsetDays. The
// module title becomes the first line of each description.
func (t Template) Drafts(start string, dates datekey.Normalizer) ([]model.Draft, error) {
	if _, ok := dates.Parse(start); !ok {
		return nil, fmt.Errorf("templates: unparsable start date %q", start)
	}
	out := make([]model.Draft, 0, t.TaskCount())
	for _, m := range t.Modules {
		for _, task := range m.Tasks {
			day, _ := dates.AddDays(start, task.OffsetDays)
			d := task.draft(day, m.Title)
			d.SystemID = t.ID
			d.SystemName = t.Name
			out = append(out, d)
		}
	}
	return out, nil
}

func (t Template) TaskCount() int {
	n := 0
	for _, m := range t.Modules {
		n += len(m.Tasks)
	}
	return n
}

func (task Task) draft(date, module string) model.Draft {
	description := module
	if task.Description != "" {
		description = module + "\n" + task.Description
	}
	subtasks := make([]model.Subtask, 0, len(task.Subtasks))
	for _, title := range task.Subtasks {
		subtasks = append(subtasks, model.Subtask{Title: title})
	}
	category := task.Category
	if category == "" {
		category = model.CategoryStudy
	}
	return model.Draft{
		Title:                 task.Title,
		Description:           description,
		Date:                  date,
		Time:                  task.Time,
		EndTime:               task.EndTime,
		Priority:              task.Priority,
		Category:              category,
		Subtasks:              subtasks,
		ProductivityTechnique: task.Technique,
	}
}

package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/studyplan/internal/commands"
	"github.com/sandeepkv93/studyplan/internal/filter"
	"github.com/sandeepkv93/studyplan/internal/model"
	"github.com/sandeepkv93/studyplan/internal/store"
	"github.com/sandeepkv93/studyplan/internal/techniques"
	"github.com/sandeepkv93/studyplan/internal/templates"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closePalette()
		m.Status = StatusBar{Text: "command palette closed"}
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		return m.executePaletteCommand()
	default:
		if msg.Type == tea.KeyRunes {
			m.commandInput.SetValue(m.commandInput.Value() + string(msg.Runes))
			m.Palette.Input = m.commandInput.Value()
			return m, nil
		}
		m.commandInput, _ = m.commandInput.Update(msg)
		m.Palette.Input = m.commandInput.Value()
	}
	return m, nil
}

func (m *Model) closePalette() {
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Blur()
}

// executePaletteCommand runs the typed command. Handlers that touch the store
// leave their work in pending so it runs outside the update loop.
func (m Model) executePaletteCommand() (Model, tea.Cmd) {
	raw := strings.TrimSpace(m.Palette.Input)
	m.closePalette()
	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}

	var pending tea.Cmd
	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			date := a.Date
			if date == "" {
				date = m.dates.Today()
			}
			pending = addTaskCmd(m.store, model.Draft{
				Title:    a.Title,
				Date:     date,
				Time:     a.Time,
				EndTime:  a.EndTime,
				Priority: a.Priority,
				Category: a.Category,
			})
			return commands.Result{Message: fmt.Sprintf("adding %q", a.Title)}, nil
		},
		Move: func(a commands.MoveArgs) (commands.Result, error) {
			t, err := m.resolveTarget(a.Target)
			if err != nil {
				return commands.Result{}, err
			}
			if _, ok := m.dates.Parse(a.Date); !ok {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("unreadable date %q", a.Date)}
			}
			var opts []store.DateOption
			if a.Time != "" {
				opts = append(opts, store.WithTime(a.Time))
			}
			if a.EndTime != "" {
				opts = append(opts, store.WithEndTime(a.EndTime))
			}
			pending = moveTaskCmd(m.store, t.ID, a.Date, opts...)
			return commands.Result{Message: fmt.Sprintf("moving %q", t.Title)}, nil
		},
		Done: func(a commands.DoneArgs) (commands.Result, error) {
			t, err := m.resolveTarget(a.Target)
			if err != nil {
				return commands.Result{}, err
			}
			pending = toggleTaskCmd(m.store, t.ID)
			return commands.Result{Message: fmt.Sprintf("toggling %q", t.Title)}, nil
		},
		Show: func(a commands.ShowArgs) (commands.Result, error) {
			return m.applyShow(a)
		},
		Import: func(a commands.ImportArgs) (commands.Result, error) {
			tpl, err := templates.Load(a.Path)
			if err != nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: err.Error()}
			}
			start := a.Start
			if start == "" {
				start = m.dates.Today()
			}
			drafts, err := tpl.Drafts(start, m.dates)
			if err != nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: err.Error()}
			}
			pending = importCmd(m.store, tpl.ID, tpl.Name, drafts)
			return commands.Result{Message: fmt.Sprintf("importing %d tasks from %s", len(drafts), tpl.Name)}, nil
		},
		Refresh: func() (commands.Result, error) {
			pending = refreshCmd(m.store, m.refresher)
			return commands.Result{Message: "refreshing"}, nil
		},
		Technique: func(a commands.TechniqueArgs) (commands.Result, error) {
			page, err := techniques.Lookup(a.Name)
			if err != nil {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown technique %q", a.Name)}
			}
			for i, p := range m.Pages {
				if p.Technique == page.Technique {
					m.TechniqueCursor = i
				}
			}
			m.CurrentView = ViewTechniques
			m.syncTechniquePage()
			return commands.Result{Message: page.Title}, nil
		},
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.notify("Command Failed", err.Error(), "error")
		return m, nil
	}
	m.Status = StatusBar{Text: res.Message}
	return m, pending
}

// resolveTarget maps "selected" or a task id to a task.
func (m Model) resolveTarget(target string) (model.Task, error) {
	id := target
	if target == "" || strings.EqualFold(target, "selected") {
		id = m.SelectedTaskID
	}
	t, ok := m.store.Task(id)
	if !ok {
		return model.Task{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("no task %q", target)}
	}
	return t, nil
}

// applyShow switches view for "show week" and friends, and otherwise treats the
// subject as a status filter.
func (m *Model) applyShow(a commands.ShowArgs) (commands.Result, error) {
	switch a.Subject {
	case "list":
		m.CurrentView = ViewList
	case "week", "calendar":
		m.CurrentView = ViewWeek
	case "techniques":
		m.CurrentView = ViewTechniques
	case "focus":
		m.CurrentView = ViewFocus
		m.bootstrapFocusTask()
	default:
		status := filter.Status(a.Subject)
		if !status.IsValid() {
			return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown subject %q", a.Subject)}
		}
		m.Filter.Status = status
		m.CurrentView = ViewList
	}
	if a.Sort != "" {
		f := filter.SortField(a.Sort)
		if !f.IsValid() {
			return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown sort %q", a.Sort)}
		}
		m.Filter.SortBy = f
	}
	if a.Direction != "" {
		d := filter.Direction(a.Direction)
		if !d.IsValid() {
			return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown direction %q", a.Direction)}
		}
		m.Filter.Direction = d
	}
	if a.System != "" {
		m.showOnlySystem(a.System)
	}
	m.clampCursor()
	return commands.Result{Message: fmt.Sprintf("showing %s", a.Subject)}, nil
}

// showOnlySystem hides every other system; "all" shows everything again.
func (m *Model) showOnlySystem(name string) {
	clear(m.Sidebar.Hidden)
	if strings.EqualFold(name, "all") {
		return
	}
	for _, s := range filter.Systems(m.Tasks) {
		if !strings.EqualFold(s, name) {
			m.Sidebar.Hidden[s] = true
		}
	}
}

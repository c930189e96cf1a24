package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"

	"github.com/sandeepkv93/studyplan/internal/views"
)

type KeyBinding struct {
	Key    string
	Action string
}

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

func (m Model) renderHelpIfVisible() string {
	if !m.HelpVisible {
		return ""
	}
	return m.renderHelpView()
}

func (m Model) renderHelpView() string {
	bindings := m.helpBindings()
	var plain []string
	for _, kb := range m.viewBindings() {
		plain = append(plain, fmt.Sprintf("- %s: %s", kb.Key, kb.Action))
	}
	return views.RenderHelpPanel(views.HelpPanelData{
		CurrentView: string(m.CurrentView),
		Bindings:    plain,
		HelpView: m.helpModel.View(helpKeyMap{
			short: bindings,
			full:  [][]key.Binding{bindings},
		}),
	})
}

func (m Model) globalBindings() []KeyBinding {
	return []KeyBinding{
		{Key: m.Keys.List, Action: "switch to List"},
		{Key: m.Keys.Week, Action: "switch to Week"},
		{Key: m.Keys.Techniques, Action: "switch to Techniques"},
		{Key: m.Keys.Focus, Action: "switch to Focus"},
		{Key: m.Keys.Palette, Action: "open command palette"},
		{Key: m.Keys.Refresh, Action: "refresh tasks"},
		{Key: m.Keys.Help, Action: "toggle help panel"},
		{Key: m.Keys.Quit, Action: "quit app"},
	}
}

func (m Model) viewBindings() []KeyBinding {
	switch m.CurrentView {
	case ViewList:
		return []KeyBinding{
			{Key: "j/k", Action: "move selection"},
			{Key: "x", Action: "toggle done"},
			{Key: "D", Action: "delete task"},
			{Key: "s", Action: "cycle status filter"},
			{Key: "o/O", Action: "cycle sort / flip direction"},
			{Key: "/", Action: "search"},
			{Key: "[/]", Action: "move subtask cursor"},
			{Key: "t", Action: "toggle subtask"},
			{Key: "f", Action: "focus on task"},
			{Key: "tab", Action: "systems sidebar"},
		}
	case ViewWeek:
		return []KeyBinding{
			{Key: "h/l", Action: "previous/next day"},
			{Key: "j/k", Action: "move between all-day and hours"},
			{Key: "n/p", Action: "next/previous week"},
			{Key: "t", Action: "jump to today"},
			{Key: "g", Action: "grab task in cell"},
			{Key: "enter", Action: "drop grabbed task"},
			{Key: "esc", Action: "cancel move"},
		}
	case ViewTechniques:
		return []KeyBinding{
			{Key: "j/k", Action: "choose technique"},
			{Key: "pgup/pgdown", Action: "scroll page"},
		}
	case ViewFocus:
		return []KeyBinding{
			{Key: "space", Action: "start/pause timer"},
			{Key: "r", Action: "reset timer"},
			{Key: "n", Action: "next focus phase"},
			{Key: "x", Action: "complete task"},
		}
	default:
		return []KeyBinding{{Key: "-", Action: "no contextual bindings"}}
	}
}

func (m Model) helpBindings() []key.Binding {
	out := make([]key.Binding, 0, len(m.globalBindings())+len(m.viewBindings()))
	for _, kb := range m.globalBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	for _, kb := range m.viewBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	return out
}

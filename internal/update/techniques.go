package update

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/studyplan/internal/views"
)

func (m Model) handleTechniqueKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.TechniqueCursor < len(m.Pages)-1 {
			m.TechniqueCursor++
			m.syncTechniquePage()
		}
	case "k", "up":
		if m.TechniqueCursor > 0 {
			m.TechniqueCursor--
			m.syncTechniquePage()
		}
	case "pgdown", "pgup", "ctrl+d", "ctrl+u":
		var cmd tea.Cmd
		m.pageViewport, cmd = m.pageViewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

// syncTechniquePage renders the page under the cursor into the viewport.
func (m *Model) syncTechniquePage() {
	if m.TechniqueCursor >= len(m.Pages) {
		m.pageViewport.SetContent("")
		return
	}
	page := m.Pages[m.TechniqueCursor]
	m.pageViewport.SetContent(views.RenderMarkdown(page.Markdown, m.pageViewport.Width-2))
	m.pageViewport.GotoTop()
}

func (m Model) renderTechniqueList() string {
	data := views.TechniquePanelData{Cursor: m.TechniqueCursor}
	for _, p := range m.Pages {
		data.Items = append(data.Items, views.TechniqueItem{ID: string(p.Technique), Title: p.Title})
	}
	return views.RenderTechniquePanel(data)
}

package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/studyplan/internal/views"
)

func (m Model) handleFocusKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case " ":
		if m.Focus.Running {
			m.Focus.Running = false
			m.Status = StatusBar{Text: "focus paused"}
			return m, nil
		}
		if m.Focus.RemainingSec <= 0 {
			m.Focus.RemainingSec = m.currentFocusTotal()
		}
		m.Focus.Running = true
		m.Status = StatusBar{Text: "focus running"}
		return m, focusTickCmd()
	case "r":
		m.Focus.Running = false
		m.Focus.RemainingSec = m.currentFocusTotal()
		m.Status = StatusBar{Text: "focus reset"}
		return m, nil
	case "n":
		m.completeFocusPhase()
		return m, nil
	case "x":
		if m.Focus.TaskID != "" {
			return m, toggleTaskCmd(m.store, m.Focus.TaskID)
		}
	}
	return m, nil
}

func (m Model) onFocusTick() (tea.Model, tea.Cmd) {
	if !m.Focus.Running {
		return m, nil
	}
	if m.Focus.RemainingSec > 0 {
		m.Focus.RemainingSec--
	}
	if m.Focus.RemainingSec == 0 {
		m.Focus.Running = false
		if m.Focus.Phase == FocusPhaseWork {
			m.Status = StatusBar{Text: "work session complete; press n to start break"}
			m.notify("Focus", fmt.Sprintf("work session on %q complete", m.Focus.TaskTitle), "success")
		} else {
			m.Status = StatusBar{Text: "break complete; press n for next focus block"}
		}
		return m, nil
	}
	return m, focusTickCmd()
}

// bootstrapFocusTask binds the timer to the selected task once.
func (m *Model) bootstrapFocusTask() {
	if m.Focus.TaskID != "" {
		return
	}
	t, ok := m.store.Task(m.SelectedTaskID)
	if !ok {
		return
	}
	m.Focus.TaskID = t.ID
	m.Focus.TaskTitle = t.Title
	m.Focus.Technique = t.ProductivityTechnique
}

// syncFocusTask follows renames and drops a deleted task.
func (m *Model) syncFocusTask() {
	if m.Focus.TaskID == "" {
		return
	}
	t, ok := m.store.Task(m.Focus.TaskID)
	if !ok {
		m.Focus.TaskID, m.Focus.TaskTitle, m.Focus.Technique = "", "", ""
		return
	}
	m.Focus.TaskTitle = t.Title
	m.Focus.Technique = t.ProductivityTechnique
}

func (m *Model) completeFocusPhase() {
	if m.Focus.Phase == FocusPhaseWork {
		m.Focus.CompletedPomodoros++
		m.Focus.Phase = FocusPhaseBreak
		m.Focus.RemainingSec = m.Focus.BreakDurationSec
		m.Focus.Running = false
		m.Status = StatusBar{Text: "break ready"}
		return
	}
	m.Focus.Phase = FocusPhaseWork
	m.Focus.RemainingSec = m.Focus.WorkDurationSec
	m.Focus.Running = false
	m.Status = StatusBar{Text: "focus block ready"}
}

func (m Model) currentFocusTotal() int {
	if m.Focus.Phase == FocusPhaseBreak {
		return m.Focus.BreakDurationSec
	}
	return m.Focus.WorkDurationSec
}

func (m Model) focusPercent() float64 {
	total := m.currentFocusTotal()
	if total <= 0 {
		return 0
	}
	pct := float64(total-m.Focus.RemainingSec) / float64(total)
	return max(0, min(1, pct))
}

func (m Model) renderFocusView() string {
	pct := m.focusPercent()
	return views.RenderFocusPanel(views.FocusPanelData{
		TaskTitle:          m.Focus.TaskTitle,
		Technique:          string(m.Focus.Technique),
		Phase:              string(m.Focus.Phase),
		Timer:              formatDuration(m.Focus.RemainingSec),
		ProgressView:       m.focusProgress.ViewAs(pct),
		ProgressPct:        int(pct * 100),
		CompletedPomodoros: m.Focus.CompletedPomodoros,
		ShowEndPrompt:      m.Focus.RemainingSec == 0,
	})
}

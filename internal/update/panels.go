package update

import (
	"strings"
	"time"

	"github.com/sandeepkv93/studyplan/internal/views"
)

const maxNotifications = 40

func (m Model) renderCommandPalette() string {
	if !m.Palette.Active {
		return ""
	}
	return views.RenderCommandPalette(true, m.commandInput.View())
}

func (m Model) renderNotificationsView() string {
	if len(m.Notifications) == 0 {
		return ""
	}
	n := m.Notifications[len(m.Notifications)-1]
	body := n.Body
	if n.Title != "" && n.Title != "Status" {
		body = strings.TrimSpace(n.Title + ": " + n.Body)
	}
	return views.RenderNotification(n.Level, body)
}

func (m *Model) notify(title, body, level string) {
	if strings.TrimSpace(body) == "" && strings.TrimSpace(title) == "" {
		return
	}
	n := Notification{
		Title: title,
		Body:  body,
		Level: level,
		At:    time.Now().UTC(),
	}
	m.Notifications = append(m.Notifications, n)
	if len(m.Notifications) > maxNotifications {
		m.Notifications = m.Notifications[len(m.Notifications)-maxNotifications:]
	}
	if m.DesktopEnabled && m.notifier != nil {
		_ = m.notifier.Send(n)
	}
}

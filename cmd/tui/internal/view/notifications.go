package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/procurement/internal/notification"
)

const notificationLimit = 50

type NotificationsModel struct {
	CommonModel
	notifications *notification.Service

	table   table.Model
	items   []*notification.Notification
	unread  int
	loading bool
	err     error
	status  string
}

func NewNotificationsModel(svc *notification.Service) NotificationsModel {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "", Width: 1},
			{Title: "Received", Width: 16},
			{Title: "Title", Width: 24},
			{Title: "Message", Width: 48},
		}),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return NotificationsModel{
		notifications: svc,
		table:         t,
		loading:       true,
	}
}

func (m NotificationsModel) Title() string { return "Notifications" }
func (m NotificationsModel) ShortHelp() string {
	return "Esc: back | Enter: mark read | a: mark all read | x: delete | r: refresh"
}

func (m NotificationsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m NotificationsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadNotificationsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.items, m.unread = msg.items, msg.unread
		m.refreshTable()
		return m, nil

	case notificationActionMsg:
		m.status = ""
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		}
		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.table.SetHeight(max(msg.Height-10, 5))
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "enter":
			if n := m.selected(); n != nil && !n.Read {
				return m, m.actionCmd(func(svc *notification.Service) error {
					ctx, cancel := DbCtx()
					defer cancel()
					return svc.MarkRead(ctx, n.ID)
				})
			}
			return m, nil
		case "a":
			return m, m.actionCmd(func(svc *notification.Service) error {
				ctx, cancel := DbCtx()
				defer cancel()
				return svc.MarkAllRead(ctx)
			})
		case "x":
			if n := m.selected(); n != nil {
				return m, m.actionCmd(func(svc *notification.Service) error {
					ctx, cancel := DbCtx()
					defer cancel()
					return svc.Delete(ctx, n.ID)
				})
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m NotificationsModel) selected() *notification.Notification {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.items) {
		return nil
	}

	return m.items[idx]
}

func (m *NotificationsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.items))
	for _, n := range m.items {
		marker := " "
		if !n.Read {
			marker = "•"
		}
		rows = append(rows, table.Row{marker, FormatTime(n.CreatedAt), n.Title, n.Message})
	}
	m.table.SetRows(rows)
}

func (m NotificationsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading notifications...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle(fmt.Sprintf("Error: %v", m.err)))
	}

	header := fmt.Sprintf("Unread: %s", activeStyle(fmt.Sprint(m.unread)))

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			Render(m.table.View()),
	)

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

type loadNotificationsMsg struct {
	items  []*notification.Notification
	unread int
	err    error
}

func (m NotificationsModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		items, err := m.notifications.List(ctx, notificationLimit)
		if err != nil {
			return loadNotificationsMsg{err: err}
		}

		unread, err := m.notifications.UnreadCount(ctx)
		return loadNotificationsMsg{items: items, unread: unread, err: err}
	}
}

type notificationActionMsg struct {
	err error
}

func (m NotificationsModel) actionCmd(action func(*notification.Service) error) tea.Cmd {
	svc := m.notifications

	return func() tea.Msg {
		return notificationActionMsg{err: action(svc)}
	}
}

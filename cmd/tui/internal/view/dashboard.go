package view

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/procurement/internal/purchase"
)

type DashboardModel struct {
	CommonModel
	purchases *purchase.Service

	stats   purchase.Stats
	loading bool
	err     error
}

func NewDashboardModel(svc *purchase.Service) DashboardModel {
	return DashboardModel{purchases: svc, loading: true}
}

func (m DashboardModel) Title() string     { return "Dashboard" }
func (m DashboardModel) ShortHelp() string { return "Esc: back | r: refresh" }

func (m DashboardModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case statsMsg:
		m.loading = false
		m.stats, m.err = msg.stats, msg.err
		return m, nil

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		}
	}

	return m, nil
}

var cardStyle = lipgloss.NewStyle().
	Padding(0, 2).
	MarginRight(1).
	BorderStyle(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("63")).
	Width(18)

func card(label, value string) string {
	return cardStyle.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.NewStyle().Faint(true).Render(label),
			lipgloss.NewStyle().Bold(true).Render(value),
		),
	)
}

func (m DashboardModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading dashboard...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle(fmt.Sprintf("Error: %v", m.err)))
	}

	s := m.stats

	counts := lipgloss.JoinHorizontal(lipgloss.Top,
		card("Total", fmt.Sprint(s.Total)),
		card("Pending", fmt.Sprint(s.Pending)),
		card("For Review", fmt.Sprint(s.ForReview)),
		card("Approved", fmt.Sprint(s.Approved)),
	)

	outcomes := lipgloss.JoinHorizontal(lipgloss.Top,
		card("Denied", fmt.Sprint(s.Denied)),
		card("Completed", fmt.Sprint(s.Completed)),
		card("High Priority", fmt.Sprint(s.HighPriority)),
		card("Last 7 Days", fmt.Sprint(s.RecentActivity)),
	)

	total := lipgloss.NewStyle().
		PaddingTop(1).
		Render(fmt.Sprintf("Total amount (excluding denied): %s", activeStyle(FormatAmount(s.TotalAmount))))

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.NewStyle().Bold(true).PaddingBottom(1).Render("Procurement Dashboard"),
			counts,
			outcomes,
			total,
		),
	)
}

type statsMsg struct {
	stats purchase.Stats
	err   error
}

func (m DashboardModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		stats, err := m.purchases.Stats(ctx)
		return statsMsg{stats: stats, err: err}
	}
}

package main

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/procurement/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/procurement/internal/config"
	"github.com/MrJamesThe3rd/procurement/internal/database"
	"github.com/MrJamesThe3rd/procurement/internal/export"
	"github.com/MrJamesThe3rd/procurement/internal/logger"
	"github.com/MrJamesThe3rd/procurement/internal/notification"
	notificationStore "github.com/MrJamesThe3rd/procurement/internal/notification/store"
	"github.com/MrJamesThe3rd/procurement/internal/purchase"
	purchaseStore "github.com/MrJamesThe3rd/procurement/internal/purchase/store"
)

// logFile receives log output while the terminal is owned by the UI.
const logFile = "procurement-tui.log"

type services struct {
	purchases     *purchase.Service
	notifications *notification.Service
	export        *export.Service
	actor         string
}

type model struct {
	svc services

	// current is nil while the menu is shown.
	current view.View
	size    tea.WindowSizeMsg
}

var menuEntries = []struct {
	key   string
	label string
	open  func(services) view.View
}{
	{"1", "Purchase Requests", func(s services) view.View { return view.NewListModel(s.purchases, s.actor) }},
	{"2", "Dashboard", func(s services) view.View { return view.NewDashboardModel(s.purchases) }},
	{"3", "Notifications", func(s services) view.View { return view.NewNotificationsModel(s.notifications) }},
	{"4", "Export", func(s services) view.View { return view.NewExportModel(s.export) }},
	{"5", "Import", func(s services) view.View { return view.NewImportModel(s.export) }},
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.size = msg
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.current == nil {
			return m.updateMenu(msg)
		}
	case view.BackMsg:
		m.current = nil
		return m, nil
	}

	if m.current == nil {
		return m, nil
	}

	next, cmd := m.current.Update(msg)
	if v, ok := next.(view.View); ok {
		m.current = v
	}

	return m, cmd
}

func (m model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "q" {
		return m, tea.Quit
	}

	for _, e := range menuEntries {
		if msg.String() != e.key {
			continue
		}

		m.current = e.open(m.svc)
		cmd := m.current.Init()

		if m.size.Width > 0 {
			next, sizeCmd := m.current.Update(m.size)
			m.current = next.(view.View)
			cmd = tea.Batch(cmd, sizeCmd)
		}

		return m, cmd
	}

	return m, nil
}

func (m model) View() string {
	if m.current == nil {
		menu := "MDRRMO Procurement\n\n"
		for _, e := range menuEntries {
			menu += fmt.Sprintf("%s. %s\n", e.key, e.label)
		}
		menu += "\nq. Quit"

		return lipgloss.NewStyle().Padding(2).Render(menu)
	}

	title := lipgloss.NewStyle().Bold(true).PaddingLeft(1).Render(m.current.Title())
	help := lipgloss.NewStyle().Faint(true).PaddingLeft(1).Render(m.current.ShortHelp())

	return lipgloss.JoinVertical(lipgloss.Left, title, m.current.View(), help)
}

func setup(ctx context.Context) (services, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return services{}, nil, fmt.Errorf("loading config: %w", err)
	}

	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return services{}, nil, fmt.Errorf("opening log file: %w", err)
	}

	slog.SetDefault(logger.New(f, cfg.App.Env, cfg.App.LogLevel))

	db, err := database.New(cfg.DB.Driver, cfg.DSN())
	if err != nil {
		f.Close()
		return services{}, nil, fmt.Errorf("connecting to database: %w", err)
	}

	cleanup := func() {
		db.Close()
		f.Close()
	}

	if err := database.Migrate(ctx, db, cfg.DB.Driver); err != nil {
		cleanup()
		return services{}, nil, fmt.Errorf("migrating database: %w", err)
	}

	notificationService := notification.NewService(notificationStore.New(db, cfg.DB.Driver))
	purchaseService := purchase.NewService(purchaseStore.New(db, cfg.DB.Driver), notificationService)

	return services{
		purchases:     purchaseService,
		notifications: notificationService,
		export:        export.NewService(purchaseService),
		actor:         cmp.Or(os.Getenv("USER"), purchase.DefaultActor),
	}, cleanup, nil
}

func main() {
	svc, cleanup, err := setup(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	p := tea.NewProgram(model{svc: svc}, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		cleanup()
		os.Exit(1)
	}
}

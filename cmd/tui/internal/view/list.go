package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/procurement/internal/purchase"
)

type listState int

const (
	listStateBrowse listState = iota
	listStateSearch
	listStateStatus
	listStateDelete
	listStateCreate
)

// statusFields backs the status change form.
type statusFields struct {
	status     purchase.Status
	approvedBy string
	comments   string
}

type ListModel struct {
	CommonModel
	purchases *purchase.Service

	state     listState
	table     table.Model
	items     []*purchase.Purchase
	form      *huh.Form
	search    textinput.Model
	createdBy string

	statusFields *statusFields
	confirmed    *bool
	draft        *draftFields

	// Filter cycling, 0 means no constraint.
	statusFilterIdx   int
	priorityFilterIdx int

	filter  purchase.ListFilter
	loading bool
	err     error
	status  string
}

func NewListModel(svc *purchase.Service, createdBy string) ListModel {
	columns := []table.Column{
		{Title: "PR No", Width: 14},
		{Title: "Date", Width: 12},
		{Title: "Title", Width: 30},
		{Title: "Department", Width: 16},
		{Title: "Status", Width: 12},
		{Title: "Priority", Width: 9},
		{Title: "Amount", Width: 14},
	}

	t := table.New(
		table.WithColumns(columns),
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

	search := textinput.New()
	search.Placeholder = "title, purpose, department or PR no"
	search.Prompt = "Search: "
	search.Width = 40

	return ListModel{
		purchases: svc,
		table:     t,
		search:    search,
		createdBy: createdBy,
		loading:   true,
	}
}

func (m ListModel) Title() string { return "Purchase Requests" }

func (m ListModel) ShortHelp() string {
	switch m.state {
	case listStateSearch:
		return "Enter: apply | Esc: cancel"
	case listStateStatus, listStateDelete, listStateCreate:
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | n: new | e: status | x: delete | s: status filter | p: priority filter | /: search | r: refresh"
}

func (m ListModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m ListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadListMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.items = msg.purchases
		m.refreshTable()
		return m, nil

	case listSaveMsg:
		m.status = msg.message
		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
		}
		m.resetForm()
		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.table.SetHeight(max(msg.Height-10, 5))
		return m, nil
	}

	switch m.state {
	case listStateBrowse:
		return m.updateBrowse(msg)
	case listStateSearch:
		return m.updateSearch(msg)
	case listStateStatus, listStateDelete, listStateCreate:
		return m.updateForm(msg)
	}

	return m, nil
}

func (m ListModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "n":
			return m.enterCreateMode()
		case "e":
			return m.enterStatusMode()
		case "x":
			return m.enterDeleteMode()
		case "/":
			m.state = listStateSearch
			m.table.Blur()
			m.search.SetValue(m.filter.Search)
			return m, m.search.Focus()
		case "s":
			m.statusFilterIdx = (m.statusFilterIdx + 1) % (len(purchase.Statuses) + 1)
			m.applyFilter()
			return m, m.loadCmd()
		case "p":
			m.priorityFilterIdx = (m.priorityFilterIdx + 1) % (len(purchase.Priorities) + 1)
			m.applyFilter()
			return m, m.loadCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m ListModel) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyEsc:
			m.state = listStateBrowse
			m.search.Blur()
			m.table.Focus()
			return m, nil
		case tea.KeyEnter:
			m.state = listStateBrowse
			m.search.Blur()
			m.table.Focus()
			m.filter.Search = strings.TrimSpace(m.search.Value())
			return m, m.loadCmd()
		}
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m ListModel) selectedPurchase() *purchase.Purchase {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.items) {
		return nil
	}

	return m.items[idx]
}

func (m ListModel) enterStatusMode() (tea.Model, tea.Cmd) {
	p := m.selectedPurchase()
	if p == nil {
		return m, nil
	}

	m.statusFields = &statusFields{status: p.Status, approvedBy: m.createdBy}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[purchase.Status]().
				Key("status").
				Title("Status").
				Options(huh.NewOptions(purchase.Statuses...)...).
				Value(&m.statusFields.status),

			huh.NewInput().
				Key("approved_by").
				Title("Approved By").
				Value(&m.statusFields.approvedBy),

			huh.NewText().
				Key("comments").
				Title("Comments").
				Lines(3).
				Value(&m.statusFields.comments),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = listStateStatus
	m.table.Blur()
	return m, m.form.Init()
}

func (m ListModel) enterDeleteMode() (tea.Model, tea.Cmd) {
	p := m.selectedPurchase()
	if p == nil {
		return m, nil
	}

	m.confirmed = new(false)

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key("confirm").
				Title(fmt.Sprintf("Delete %s?", p.PRNo)).
				Description(p.Title).
				Affirmative("Delete").
				Negative("Cancel").
				Value(m.confirmed),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = listStateDelete
	m.table.Blur()
	return m, m.form.Init()
}

func (m ListModel) enterCreateMode() (tea.Model, tea.Cmd) {
	m.draft = newDraftFields()
	m.form = m.draft.form()

	m.state = listStateCreate
	m.table.Blur()
	return m, m.form.Init()
}

func (m ListModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.resetForm()
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
	case huh.StateAborted:
		m.resetForm()
		return m, nil
	default:
		return m, cmd
	}

	var save tea.Cmd

	switch m.state {
	case listStateStatus:
		save = m.statusCmd()
	case listStateDelete:
		if *m.confirmed {
			save = m.deleteCmd()
		}
	case listStateCreate:
		save = m.createCmd()
	}

	m.resetForm()
	return m, save
}

func (m *ListModel) resetForm() {
	m.state = listStateBrowse
	m.form = nil
	m.statusFields = nil
	m.confirmed = nil
	m.draft = nil
	m.table.Focus()
}

func (m ListModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading purchase requests...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle(fmt.Sprintf("Error: %v", m.err)))
	}

	header := fmt.Sprintf(
		"Filter: [s] Status: %s | [p] Priority: %s | [/] Search: %s",
		activeStyle(m.statusLabel()),
		activeStyle(m.priorityLabel()),
		activeStyle(orDefault(m.filter.Search, "-")),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	sections := []string{lipgloss.NewStyle().PaddingBottom(1).Render(header)}
	if m.state == listStateSearch {
		sections = append(sections, m.search.View())
	}
	sections = append(sections, tableView,
		lipgloss.NewStyle().Faint(true).Render(fmt.Sprintf("%d request(s)", len(m.items))))

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	if m.form != nil {
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, m.formPanel())
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m ListModel) formPanel() string {
	heading := "New Purchase Request"

	if p := m.selectedPurchase(); p != nil && m.state != listStateCreate {
		heading = fmt.Sprintf("%s\n\n%s\nCurrent status: %s", p.PRNo, p.Title, p.Status)
		if p.ApprovalInfo.ApprovedBy != "" {
			heading += fmt.Sprintf("\nLast approver: %s", p.ApprovalInfo.ApprovedBy)
		}
	}

	return lipgloss.NewStyle().
		Padding(1, 2).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Width(48).
		Render(heading + "\n\n" + m.form.View())
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}

	return s
}

func (m ListModel) statusLabel() string {
	if m.statusFilterIdx == 0 {
		return "All"
	}

	return string(purchase.Statuses[m.statusFilterIdx-1])
}

func (m ListModel) priorityLabel() string {
	if m.priorityFilterIdx == 0 {
		return "All"
	}

	return string(purchase.Priorities[m.priorityFilterIdx-1])
}

func (m *ListModel) applyFilter() {
	m.filter.Status = nil
	if m.statusFilterIdx > 0 {
		m.filter.Status = new(purchase.Statuses[m.statusFilterIdx-1])
	}

	m.filter.Priority = nil
	if m.priorityFilterIdx > 0 {
		m.filter.Priority = new(purchase.Priorities[m.priorityFilterIdx-1])
	}
}

func (m *ListModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.items))
	for _, p := range m.items {
		rows = append(rows, table.Row{
			p.PRNo,
			p.Date,
			p.Title,
			p.Department,
			string(p.Status),
			string(p.Priority),
			FormatAmount(p.TotalAmount),
		})
	}
	m.table.SetRows(rows)
}

// Messages

type loadListMsg struct {
	purchases []*purchase.Purchase
	err       error
}

func (m ListModel) loadCmd() tea.Cmd {
	filter := m.filter

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		purchases, err := m.purchases.List(ctx, filter)
		return loadListMsg{purchases: purchases, err: err}
	}
}

type listSaveMsg struct {
	message string
	err     error
}

func (m ListModel) statusCmd() tea.Cmd {
	p := m.selectedPurchase()
	if p == nil {
		return nil
	}

	id := p.ID
	fields := *m.statusFields

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		updated, err := m.purchases.UpdateStatus(ctx, id, purchase.StatusParams{
			Status:     fields.status,
			ApprovedBy: strings.TrimSpace(fields.approvedBy),
			Comments:   strings.TrimSpace(fields.comments),
		})
		if err != nil {
			return listSaveMsg{err: err}
		}

		return listSaveMsg{message: fmt.Sprintf("%s is now %s", updated.PRNo, updated.Status)}
	}
}

func (m ListModel) deleteCmd() tea.Cmd {
	p := m.selectedPurchase()
	if p == nil {
		return nil
	}

	id, prNo := p.ID, p.PRNo

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.purchases.Delete(ctx, id); err != nil {
			return listSaveMsg{err: err}
		}

		return listSaveMsg{message: fmt.Sprintf("Deleted %s", prNo)}
	}
}

func (m ListModel) createCmd() tea.Cmd {
	params, err := m.draft.params(m.createdBy)
	if err != nil {
		return func() tea.Msg { return listSaveMsg{err: err} }
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		created, err := m.purchases.Create(ctx, params)
		if err != nil {
			return listSaveMsg{err: err}
		}

		return listSaveMsg{message: fmt.Sprintf("Created %s", created.PRNo)}
	}
}

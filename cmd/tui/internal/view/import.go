package view

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/procurement/internal/export"
)

const importTimeout = 2 * time.Minute

// maxShownRowErrors caps how many row errors the result screen lists.
const maxShownRowErrors = 15

type importState int

const (
	importStateFilePick importState = iota
	importStateImporting
	importStateResult
)

type ImportModel struct {
	CommonModel
	exportService *export.Service

	state      importState
	filePicker filepicker.Model
	spinner    spinner.Model
	path       string

	result export.ImportResult
	err    error
}

func NewImportModel(svc *export.Service) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".xlsx"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return ImportModel{
		exportService: svc,
		filePicker:    fp,
		spinner:       s,
	}
}

func (m ImportModel) Title() string { return "Import Purchase Requests" }

func (m ImportModel) ShortHelp() string {
	if m.state == importStateResult {
		return "Esc: pick another file"
	}

	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

	case importResultMsg:
		m.state = importStateResult
		m.result, m.err = msg.result, msg.err
		return m, nil
	}

	switch m.state {
	case importStateImporting:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case importStateResult:
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = importStateImporting
		m.path = path

		return m, tea.Batch(m.spinner.Tick, m.importCmd(path))
	}

	return m, cmd
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case importStateImporting:
		return m, nil
	case importStateResult:
		m.state = importStateFilePick
		m.err = nil
		m.result = export.ImportResult{}

		return m, m.filePicker.Init()
	}

	return m, Back
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("Select a CSV or XLSX file to import:\n\n%s", m.filePicker.View()),
		)
	case importStateImporting:
		return lipgloss.NewStyle().Padding(2).Render(
			fmt.Sprintf("%s Importing from %s...", m.spinner.View(), m.path),
		)
	case importStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ImportModel) viewResult() string {
	style := lipgloss.NewStyle().Padding(2)
	if m.err != nil {
		return style.Render(errorStyle(fmt.Sprintf("Error: %v", m.err)) + "\n\n(Esc to go back)")
	}

	var b strings.Builder
	b.WriteString(successStyle(fmt.Sprintf("Created %d, updated %d.", m.result.Created, m.result.Updated)))

	if n := len(m.result.Errors); n > 0 {
		fmt.Fprintf(&b, "\n\n%s\n", errorStyle(fmt.Sprintf("%d row(s) skipped:", n)))

		for i, rowErr := range m.result.Errors {
			if i == maxShownRowErrors {
				fmt.Fprintf(&b, "  ... and %d more\n", n-maxShownRowErrors)
				break
			}
			fmt.Fprintf(&b, "  row %d: %s\n", rowErr.Row, rowErr.Message)
		}
	}

	b.WriteString("\n\n(Esc to go back)")

	return style.Render(b.String())
}

type importResultMsg struct {
	result export.ImportResult
	err    error
}

func (m ImportModel) importCmd(path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return importResultMsg{err: err}
		}
		defer f.Close()

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		result, err := m.exportService.Import(ctx, f)
		return importResultMsg{result: result, err: err}
	}
}

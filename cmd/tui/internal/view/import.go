package view

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/cestas/internal/importer"
	"github.com/MrJamesThe3rd/cestas/internal/item"
)

const importTimeout = 2 * time.Minute

type importState int

const (
	importStateFilePick importState = iota
	importStateParsing
	importStatePreview
	importStateImporting
	importStateResult
)

type ImportModel struct {
	CommonModel
	importService *importer.Service

	state      importState
	filePicker filepicker.Model
	path       string
	preview    table.Model
	rows       []item.CreateParams

	result *importer.Result
	status string
	err    error
}

func NewImportModel(impSvc *importer.Service) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".txt"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	columns := []table.Column{
		{Title: "Item", Width: 24},
		{Title: "Qtd", Width: 6},
		{Title: "Un", Width: 4},
		{Title: "Preço", Width: 12},
		{Title: "Compra", Width: 12},
	}

	return ImportModel{
		importService: impSvc,
		filePicker:    fp,
		preview:       newTable(columns, 12),
	}
}

func (m ImportModel) Title() string { return "Importar planilha" }

func (m ImportModel) ShortHelp() string {
	switch m.state {
	case importStatePreview:
		return "Enter: importar | Esc: escolher outro arquivo"
	case importStateResult:
		return "Esc: voltar"
	}

	return "Esc: voltar | Enter: selecionar"
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

		if m.state == importStatePreview {
			switch msg.Type {
			case tea.KeyEnter:
				m.state = importStateImporting
				m.status = fmt.Sprintf("Importando %d linha(s) de %s...", len(m.rows), filepath.Base(m.path))

				return m, m.importCmd(m.path)
			default:
				var cmd tea.Cmd
				m.preview, cmd = m.preview.Update(msg)

				return m, cmd
			}
		}

	case previewMsg:
		if msg.err != nil {
			m.state = importStateResult
			m.err = msg.err

			return m, nil
		}

		m.rows = msg.rows
		m.state = importStatePreview
		m.refreshPreview()

		return m, nil

	case importResultMsg:
		m.state = importStateResult
		m.result = msg.result
		m.err = msg.err

		return m, nil
	}

	if m.state != importStateFilePick {
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.path = path
		m.state = importStateParsing
		m.status = fmt.Sprintf("Lendo %s...", filepath.Base(path))

		return m, m.previewCmd(path)
	}

	return m, cmd
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case importStatePreview, importStateResult:
		m.state = importStateFilePick
		m.rows = nil
		m.result = nil
		m.err = nil
		m.status = ""

		return m, m.filePicker.Init()
	case importStateParsing, importStateImporting:
		return m, nil
	}

	return m, Back
}

func (m *ImportModel) refreshPreview() {
	rows := make([]table.Row, len(m.rows))
	for i, p := range m.rows {
		rows[i] = table.Row{
			p.Name,
			strconv.Itoa(p.Quantity),
			p.Unit,
			FormatMoney(p.UnitPrice),
			FormatDate(p.LastPurchaseDate),
		}
	}

	m.preview.SetRows(rows)
	m.preview.SetCursor(0)
}

func (m ImportModel) View() string {
	style := lipgloss.NewStyle().Padding(1)

	switch m.state {
	case importStateFilePick:
		return style.Render(fmt.Sprintf("Selecione a planilha de estoque (CSV):\n\n%s", m.filePicker.View()))
	case importStateParsing, importStateImporting:
		return style.Render(m.status)
	case importStatePreview:
		return style.Render(lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render(fmt.Sprintf("%s: %d linha(s)", filepath.Base(m.path), len(m.rows))),
			tableBorder.Render(m.preview.View()),
			helpStyle.Render(m.ShortHelp()),
		))
	case importStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ImportModel) viewResult() string {
	style := lipgloss.NewStyle().Padding(2)

	if m.err != nil {
		msg := errorStyle.Render(fmt.Sprintf("Erro: %v", m.err))
		if m.result != nil {
			msg += fmt.Sprintf("\n\nAntes do erro: %d criado(s), %d atualizado(s).", len(m.result.Created), len(m.result.Updated))
		}

		return style.Render(msg + "\n\n" + helpStyle.Render("(Esc para voltar)"))
	}

	return style.Render(
		successStyle.Render(fmt.Sprintf("Importação concluída: %d item(ns) criado(s), %d atualizado(s).",
			len(m.result.Created), len(m.result.Updated))) +
			"\n\n" + helpStyle.Render("(Esc para voltar)"),
	)
}

// Messages

type previewMsg struct {
	rows []item.CreateParams
	err  error
}

type importResultMsg struct {
	result *importer.Result
	err    error
}

func (m ImportModel) previewCmd(path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return previewMsg{err: err}
		}
		defer f.Close()

		rows, err := m.importService.Parse(importer.FormatPlanilha, f)

		return previewMsg{rows: rows, err: err}
	}
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

		res, err := m.importService.Import(ctx, importer.FormatPlanilha, f)

		return importResultMsg{result: res, err: err}
	}
}

package view

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/cestas/internal/export"
)

type exportState int

const (
	exportStateTimeframe exportState = iota
	exportStateOptions
	exportStateExporting
	exportStateResult
)

// exportAll selects the zip bundle holding every report.
const exportAll = "all"

type ExportModel struct {
	CommonModel
	exportService *export.Service

	state           exportState
	err             error
	timeframePicker TimeframePicker
	period          TimeframeSelectedMsg

	form    *huh.Form
	options *exportOptions
	spinner spinner.Model
	written string
}

type exportOptions struct {
	kind string
	dir  string
}

func NewExportModel(svc *export.Service) ExportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return ExportModel{
		exportService:   svc,
		state:           exportStateTimeframe,
		timeframePicker: NewTimeframePicker(TimeframeThisMonth),
		spinner:         s,
	}
}

func (m ExportModel) Title() string { return "Exportar relatórios" }

func (m ExportModel) ShortHelp() string {
	switch m.state {
	case exportStateResult:
		return "Esc: voltar ao menu"
	case exportStateExporting:
		return "Exportando..."
	}

	return "Esc: voltar | Enter: confirmar"
}

func (m ExportModel) Init() tea.Cmd {
	return nil
}

func (m ExportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if tfMsg, ok := msg.(TimeframeSelectedMsg); ok {
		m.period = tfMsg
		m.options = &exportOptions{kind: string(export.TypeInventory), dir: "./relatorios"}
		m.form = m.buildOptionsForm()
		m.state = exportStateOptions

		return m, m.form.Init()
	}

	switch m.state {
	case exportStateTimeframe:
		return m.updateTimeframe(msg)
	case exportStateOptions:
		return m.updateOptions(msg)
	case exportStateExporting:
		return m.updateExporting(msg)
	case exportStateResult:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	return m, nil
}

func (m ExportModel) updateTimeframe(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc && m.timeframePicker.IsSelecting() {
			return m, Back
		}
	}

	var cmd tea.Cmd
	m.timeframePicker, cmd = m.timeframePicker.Update(msg)

	return m, cmd
}

func (m ExportModel) updateOptions(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = exportStateTimeframe
		m.timeframePicker.Reset()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = exportStateExporting
	m.err = nil

	return m, tea.Batch(m.spinner.Tick, m.runExportCmd(*m.options))
}

func (m ExportModel) updateExporting(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(exportResultMsg); ok {
		m.state = exportStateResult
		m.err = result.err
		m.written = result.path

		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)

	return m, cmd
}

func (m ExportModel) buildOptionsForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Relatório").
				Options(
					huh.NewOption("Inventário", string(export.TypeInventory)),
					huh.NewOption("Transações", string(export.TypeTransactions)),
					huh.NewOption("Financeiro", string(export.TypeFinancial)),
					huh.NewOption("Todos (zip)", exportAll),
				).
				Value(&m.options.kind),
			huh.NewInput().
				Title("Pasta de destino").
				Description("Será criada se não existir").
				Placeholder("./relatorios").
				Value(&m.options.dir),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m ExportModel) View() string {
	style := lipgloss.NewStyle().Padding(1)

	switch m.state {
	case exportStateTimeframe:
		return style.Render(m.timeframePicker.View())
	case exportStateOptions:
		return style.Render(fmt.Sprintf("Período: %s\n\n%s", activeStyle(m.period.Label()), m.form.View()))
	case exportStateExporting:
		return style.Render(fmt.Sprintf("%s Gerando relatório...", m.spinner.View()))
	case exportStateResult:
		if m.err != nil {
			return style.Render(errorStyle.Render(fmt.Sprintf("Erro: %v", m.err)))
		}

		return style.Render(lipgloss.JoinVertical(lipgloss.Left,
			successStyle.Bold(true).Render("Exportação concluída!"),
			"",
			"Arquivo: "+m.written,
			"",
			helpStyle.Render(m.ShortHelp()),
		))
	}

	return ""
}

type exportResultMsg struct {
	path string
	err  error
}

const exportTimeout = time.Minute

func (m ExportModel) runExportCmd(opts exportOptions) tea.Cmd {
	filter := m.period.Filter()

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
		defer cancel()

		if err := os.MkdirAll(opts.dir, 0o755); err != nil {
			return exportResultMsg{err: fmt.Errorf("creating %s: %w", opts.dir, err)}
		}

		now := time.Now()

		if opts.kind == exportAll {
			path := filepath.Join(opts.dir, fmt.Sprintf("relatorios_%s.zip", now.Format("20060102")))

			err := writeFile(path, func(f *os.File) error {
				return m.exportService.Bundle(ctx, filter.StartDate, filter.EndDate, f)
			})

			return exportResultMsg{path: path, err: err}
		}

		cfg := export.ReportConfig{
			StartDate: filter.StartDate,
			EndDate:   filter.EndDate,
			Type:      export.Type(opts.kind),
		}
		path := filepath.Join(opts.dir, cfg.Filename(now))

		err := writeFile(path, func(f *os.File) error {
			return m.exportService.Generate(ctx, cfg, f)
		})

		return exportResultMsg{path: path, err: err}
	}
}

// writeFile creates path and removes it again if fill fails.
func writeFile(path string, fill func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	if err := fill(f); err != nil {
		f.Close()
		os.Remove(path)

		return err
	}

	return f.Close()
}

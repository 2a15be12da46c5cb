package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/cestas/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/cestas/internal/app"
	"github.com/MrJamesThe3rd/cestas/internal/config"
)

type model struct {
	app *app.App

	currentView View

	dashboardView view.DashboardModel
	stockView     view.StockModel
	basketsView   view.BasketsModel
	financeView   view.FinanceModel
	importView    view.ImportModel
	exportView    view.ExportModel
}

type View int

const (
	ViewMenu      View = 0
	ViewDashboard View = 1
	ViewStock     View = 2
	ViewBaskets   View = 3
	ViewFinance   View = 4
	ViewImport    View = 5
	ViewExport    View = 6
)

func initialModel(a *app.App) model {
	return model{
		app:         a,
		currentView: ViewMenu,
		importView:  view.NewImportModel(a.Import),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewDashboard
				m.dashboardView = view.NewDashboardModel(m.app.Items, m.app.Transactions)

				return m, m.dashboardView.Init()
			case "2":
				m.currentView = ViewStock
				m.stockView = view.NewStockModel(m.app.Items, m.app.Sales)

				return m, m.stockView.Init()
			case "3":
				m.currentView = ViewBaskets
				m.basketsView = view.NewBasketsModel(m.app.Baskets, m.app.Items)

				return m, m.basketsView.Init()
			case "4":
				m.currentView = ViewFinance
				m.financeView = view.NewFinanceModel(m.app.Transactions, m.app.Items)

				return m, m.financeView.Init()
			case "5":
				m.currentView = ViewImport
				return m, m.importView.Init()
			case "6":
				m.currentView = ViewExport
				m.exportView = view.NewExportModel(m.app.Export)

				return m, m.exportView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewDashboard:
		var newModel tea.Model
		newModel, cmd = m.dashboardView.Update(msg)
		m.dashboardView = newModel.(view.DashboardModel)
	case ViewStock:
		var newModel tea.Model
		newModel, cmd = m.stockView.Update(msg)
		m.stockView = newModel.(view.StockModel)
	case ViewBaskets:
		var newModel tea.Model
		newModel, cmd = m.basketsView.Update(msg)
		m.basketsView = newModel.(view.BasketsModel)
	case ViewFinance:
		var newModel tea.Model
		newModel, cmd = m.financeView.Update(msg)
		m.financeView = newModel.(view.FinanceModel)
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	case ViewExport:
		var newModel tea.Model
		newModel, cmd = m.exportView.Update(msg)
		m.exportView = newModel.(view.ExportModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Cestas\n\n" +
				"1. Painel\n" +
				"2. Estoque\n" +
				"3. Calculadora de cestas\n" +
				"4. Financeiro\n" +
				"5. Importar planilha\n" +
				"6. Exportar relatórios\n\n" +
				"q. Sair",
		)
	case ViewDashboard:
		return m.dashboardView.View()
	case ViewStock:
		return m.stockView.View()
	case ViewBaskets:
		return m.basketsView.View()
	case ViewFinance:
		return m.financeView.View()
	case ViewImport:
		return m.importView.View()
	case ViewExport:
		return m.exportView.View()
	}

	return "Tela desconhecida"
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	a, err := app.New(context.Background(), cfg)
	if err != nil {
		slog.Error("failed to open storage", "driver", cfg.Storage.Driver, "error", err)
		os.Exit(1)
	}
	defer a.Close()

	p := tea.NewProgram(initialModel(a), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}

package view

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/cestas/internal/item"
	"github.com/MrJamesThe3rd/cestas/internal/report"
	"github.com/MrJamesThe3rd/cestas/internal/transaction"
)

// DashboardModel shows the stock and finance overviews side by side.
type DashboardModel struct {
	CommonModel
	items  *item.Service
	ledger *transaction.Service
	now    func() time.Time

	stock   report.StockSummary
	finance report.FinanceSummary
	names   item.Index

	loading bool
	err     error
}

func NewDashboardModel(items *item.Service, ledger *transaction.Service) DashboardModel {
	return DashboardModel{items: items, ledger: ledger, now: time.Now, loading: true}
}

func (m DashboardModel) Title() string { return "Painel" }

func (m DashboardModel) ShortHelp() string { return "Esc: voltar | r: atualizar" }

func (m DashboardModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardLoadedMsg:
		m.loading = false
		m.err = msg.err

		if msg.err == nil {
			m.stock = report.Stock(msg.stock)
			m.finance = report.Finance(msg.txs, m.now())
			m.names = item.NewIndex(msg.stock)
		}

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

func (m DashboardModel) View() string {
	style := lipgloss.NewStyle().Padding(1)

	if m.loading {
		return style.Render("Carregando...")
	}

	if m.err != nil {
		return style.Render(errorStyle.Render(fmt.Sprintf("Erro: %v", m.err)))
	}

	return style.Render(lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, m.stockPanel(), m.financePanel()),
		helpStyle.Render(m.ShortHelp()),
	))
}

func (m DashboardModel) stockPanel() string {
	s := m.stock

	var b strings.Builder

	fmt.Fprintf(&b, "%s\n\n", titleStyle.Render("Estoque"))
	fmt.Fprintf(&b, "Itens: %d   Unidades: %d\n", s.Items, s.TotalUnits)
	fmt.Fprintf(&b, "Valor total: %s\n\n", FormatMoney(s.TotalValue))

	b.WriteString("Por categoria\n")

	for _, c := range s.Categories {
		share := 0.0
		if s.TotalValue.IsPositive() {
			share = c.Value.Div(s.TotalValue).InexactFloat64()
		}

		fmt.Fprintf(&b, "  %-10s %14s  %s\n", c.Category, FormatMoney(c.Value), FormatPercent(share))
	}

	b.WriteString("\nMais valiosos\n")

	for i, it := range s.TopItems {
		fmt.Fprintf(&b, "  %d. %-18s %s\n", i+1, it.Name, FormatMoney(it.Value()))
	}

	fmt.Fprintf(&b, "\nEstoque baixo: %d (%s)\n", s.LowStockCount, FormatPercent(s.LowStockRatio))

	for _, it := range s.LowStock {
		fmt.Fprintf(&b, "  %s %s: %d/%d %s\n", warnStyle.Render("•"), it.Name, it.Quantity, it.MinQuantity, it.Unit)
	}

	if extra := s.LowStockCount - len(s.LowStock); extra > 0 {
		fmt.Fprintf(&b, "  %s\n", helpStyle.Render(fmt.Sprintf("e mais %d", extra)))
	}

	return panelStyle.Width(50).Render(b.String())
}

func (m DashboardModel) financePanel() string {
	f := m.finance

	var b strings.Builder

	fmt.Fprintf(&b, "%s\n\n", titleStyle.Render("Financeiro"))
	fmt.Fprintf(&b, "Total gasto: %s\n", FormatMoney(f.TotalSpent))
	fmt.Fprintf(&b, "Gasto hoje (%s): %s\n\n", FormatDate(f.Date), FormatMoney(f.SpentToday))

	b.WriteString("Por mês\n")
	b.WriteString(monthlyBars(f.Monthly))

	b.WriteString("\nÚltimas transações\n")

	if len(f.Recent) == 0 {
		b.WriteString(helpStyle.Render("  nenhuma"))
	}

	for _, tx := range f.Recent {
		fmt.Fprintf(&b, "  %s %-16s %s\n", FormatDate(tx.Date), m.names.Name(tx.ItemID), FormatMoney(tx.TotalPrice))
	}

	return panelStyle.Width(54).Render(b.String())
}

type dashboardLoadedMsg struct {
	stock []item.Item
	txs   []transaction.Transaction
	err   error
}

func (m DashboardModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		stock, err := m.items.List(ctx)
		if err != nil {
			return dashboardLoadedMsg{err: err}
		}

		txs, err := m.ledger.List(ctx, transaction.ListFilter{})
		if err != nil {
			return dashboardLoadedMsg{err: err}
		}

		return dashboardLoadedMsg{stock: stock, txs: txs}
	}
}


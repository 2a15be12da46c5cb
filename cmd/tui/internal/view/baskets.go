package view

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/cestas/internal/basket"
	"github.com/MrJamesThe3rd/cestas/internal/feasibility"
	"github.com/MrJamesThe3rd/cestas/internal/item"
)

type BasketsModel struct {
	CommonModel
	baskets *basket.Service
	items   *item.Service

	table   table.Model
	models  []basket.Model
	results []feasibility.Result
	stock   item.Index

	loading bool
	err     error
}

func NewBasketsModel(baskets *basket.Service, items *item.Service) BasketsModel {
	columns := []table.Column{
		{Title: "Cesta", Width: 20},
		{Title: "Itens", Width: 6},
		{Title: "Montáveis", Width: 10},
		{Title: "Custo", Width: 14},
	}

	return BasketsModel{
		baskets: baskets,
		items:   items,
		table:   newTable(columns, 10),
		loading: true,
	}
}

func (m BasketsModel) Title() string { return "Cestas" }

func (m BasketsModel) ShortHelp() string {
	return "Esc: voltar | ↑/↓: selecionar | r: recalcular"
}

func (m BasketsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m BasketsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case basketsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.models = msg.models
		m.stock = item.NewIndex(msg.stock)
		m.results = make([]feasibility.Result, len(msg.models))

		rows := make([]table.Row, len(msg.models))
		for i, model := range msg.models {
			m.results[i] = feasibility.Evaluate(model, m.stock)
			rows[i] = table.Row{
				model.Name,
				strconv.Itoa(len(model.Lines)),
				strconv.Itoa(m.results[i].MaxBaskets),
				FormatMoney(m.results[i].Cost),
			}
		}

		m.table.SetRows(rows)

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

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m BasketsModel) View() string {
	style := lipgloss.NewStyle().Padding(1)

	if m.loading {
		return style.Render("Calculando cestas...")
	}

	if m.err != nil {
		return style.Render(errorStyle.Render(fmt.Sprintf("Erro: %v", m.err)))
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Calculadora de cestas"),
		tableBorder.Render(m.table.View()),
	)

	if i := m.table.Cursor(); i >= 0 && i < len(m.models) {
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, m.detail(m.models[i], m.results[i]))
	}

	return style.Render(lipgloss.JoinVertical(lipgloss.Left, content, helpStyle.Render(m.ShortHelp())))
}

func (m BasketsModel) detail(model basket.Model, res feasibility.Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n\n", titleStyle.Render(model.Name))

	for _, l := range model.Lines {
		it, ok := m.stock.Lookup(l.ItemID)
		if !ok {
			fmt.Fprintf(&b, "  %-18s %3d\n", item.UnknownName, l.Quantity)
			continue
		}

		fmt.Fprintf(&b, "  %-18s %3d %-3s (estoque %d)\n", it.Name, l.Quantity, it.Unit, it.Quantity)
	}

	fmt.Fprintf(&b, "\nCusto por cesta: %s\n", FormatMoney(res.Cost))

	if res.MaxBaskets == 0 {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Estoque insuficiente para montar %s.", model.Name)))
	} else {
		b.WriteString(successStyle.Render(fmt.Sprintf("É possível montar %d cesta(s).", res.MaxBaskets)))
	}

	if len(res.Limiting) > 0 {
		b.WriteString("\n\nItens limitantes:\n")

		for _, it := range res.Limiting {
			fmt.Fprintf(&b, "  %s %s\n", warnStyle.Render("•"), fmt.Sprintf("%s (%d %s)", it.Name, it.Quantity, it.Unit))
		}
	}

	return panelStyle.Width(52).Render(b.String())
}

type basketsLoadedMsg struct {
	models []basket.Model
	stock  []item.Item
	err    error
}

func (m BasketsModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		models, err := m.baskets.List(ctx)
		if err != nil {
			return basketsLoadedMsg{err: err}
		}

		stock, err := m.items.List(ctx)
		if err != nil {
			return basketsLoadedMsg{err: err}
		}

		return basketsLoadedMsg{models: models, stock: stock}
	}
}

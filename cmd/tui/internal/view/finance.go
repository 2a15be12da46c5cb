package view

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/cestas/internal/item"
	"github.com/MrJamesThe3rd/cestas/internal/report"
	"github.com/MrJamesThe3rd/cestas/internal/transaction"
)

type financeState int

const (
	financeStateTimeframe financeState = iota
	financeStateList
	financeStateAdd
)

const barWidth = 30

type FinanceModel struct {
	CommonModel
	ledger *transaction.Service
	items  *item.Service

	state           financeState
	timeframePicker TimeframePicker
	period          TimeframeSelectedMsg
	table           table.Model
	form            *huh.Form
	draft           *transactionForm

	txs     []transaction.Transaction
	stock   []item.Item
	summary report.FinanceSummary
	now     func() time.Time

	status string
	err    error
}

type transactionForm struct {
	date        string
	itemID      string
	quantity    string
	total       string
	description string
}

func NewFinanceModel(ledger *transaction.Service, items *item.Service) FinanceModel {
	columns := []table.Column{
		{Title: "Data", Width: 12},
		{Title: "Item", Width: 20},
		{Title: "Qtd", Width: 6},
		{Title: "Total", Width: 14},
		{Title: "Descrição", Width: 32},
	}

	return FinanceModel{
		ledger:          ledger,
		items:           items,
		timeframePicker: NewTimeframePicker(TimeframeThisWeek),
		table:           newTable(columns, 10),
		now:             time.Now,
	}
}

func (m FinanceModel) Title() string { return "Financeiro" }

func (m FinanceModel) ShortHelp() string {
	switch m.state {
	case financeStateAdd:
		return "Navegue pelo formulário | Esc: cancelar"
	case financeStateList:
		return "Esc: voltar | a: nova transação | x: remover | t: período | r: recarregar"
	}

	return "Esc: voltar | Enter: confirmar"
}

func (m FinanceModel) Init() tea.Cmd {
	return nil
}

func (m FinanceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TimeframeSelectedMsg:
		m.period = msg
		m.state = financeStateList
		m.table.Focus()

		return m, m.loadCmd()

	case financeLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.txs = msg.txs
		m.stock = msg.stock
		m.summary = report.Finance(msg.txs, m.now())
		m.refreshTable()

		return m, nil

	case financeChangedMsg:
		m.status = msg.status
		if msg.err != nil {
			m.status = fmt.Sprintf("Erro: %v", msg.err)
		}

		return m, m.loadCmd()
	}

	switch m.state {
	case financeStateTimeframe:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc && m.timeframePicker.IsSelecting() {
			return m, Back
		}

		var cmd tea.Cmd
		m.timeframePicker, cmd = m.timeframePicker.Update(msg)

		return m, cmd

	case financeStateAdd:
		return m.updateAdd(msg)
	}

	return m.updateList(msg)
}

func (m FinanceModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "t":
			m.state = financeStateTimeframe
			m.timeframePicker.Reset()

			return m, nil
		case "r":
			return m, m.loadCmd()
		case "a":
			return m.enterAdd()
		case "x":
			return m, m.removeCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m FinanceModel) enterAdd() (tea.Model, tea.Cmd) {
	if len(m.stock) == 0 {
		m.status = "Cadastre itens no estoque antes de lançar transações."
		return m, nil
	}

	m.draft = &transactionForm{date: m.now().Format(dateLayout), itemID: m.stock[0].ID, quantity: "1"}
	f := m.draft

	options := make([]huh.Option[string], len(m.stock))
	for i, it := range m.stock {
		options[i] = huh.NewOption(it.Name, it.ID)
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Data").Placeholder("DD/MM/AAAA").Value(&f.date).Validate(validDate),
			huh.NewSelect[string]().Title("Item").Options(options...).Value(&f.itemID),
			huh.NewInput().Title("Quantidade").Value(&f.quantity).Validate(nonZeroInt),
			huh.NewInput().Title("Valor total").Placeholder("0,00").Value(&f.total).Validate(positiveMoney),
			huh.NewText().Title("Descrição").Lines(2).Value(&f.description),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = financeStateAdd
	m.table.Blur()

	return m, m.form.Init()
}

func (m FinanceModel) updateAdd(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m.leaveAdd(), nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateAborted:
		return m.leaveAdd(), nil
	case huh.StateCompleted:
		params := m.draft.params()
		return m.leaveAdd(), m.addCmd(params)
	}

	return m, cmd
}

func (m FinanceModel) leaveAdd() FinanceModel {
	m.state = financeStateList
	m.form = nil
	m.draft = nil
	m.table.Focus()

	return m
}

func (f transactionForm) params() transaction.CreateParams {
	date, _ := time.Parse(dateLayout, strings.TrimSpace(f.date))
	quantity, _ := strconv.Atoi(strings.TrimSpace(f.quantity))
	total, _ := parseMoney(f.total)

	params := transaction.CreateParams{
		Date:       date,
		ItemID:     f.itemID,
		Quantity:   quantity,
		TotalPrice: total,
	}

	if d := strings.TrimSpace(f.description); d != "" {
		params.Description = &d
	}

	return params
}

func (m *FinanceModel) refreshTable() {
	idx := item.NewIndex(m.stock)

	rows := make([]table.Row, len(m.txs))
	for i, tx := range m.txs {
		rows[i] = table.Row{
			FormatDate(tx.Date),
			idx.Name(tx.ItemID),
			strconv.Itoa(tx.Quantity),
			FormatMoney(tx.TotalPrice),
			tx.DescriptionOr(""),
		}
	}

	m.table.SetRows(rows)

	if c := m.table.Cursor(); c >= len(rows) && len(rows) > 0 {
		m.table.SetCursor(len(rows) - 1)
	}
}

func (m FinanceModel) View() string {
	style := lipgloss.NewStyle().Padding(1)

	if m.state == financeStateTimeframe {
		return style.Render(m.timeframePicker.View())
	}

	if m.err != nil {
		return style.Render(errorStyle.Render(fmt.Sprintf("Erro: %v", m.err)))
	}

	header := fmt.Sprintf("Período: %s | Total: %s | Hoje: %s",
		activeStyle(m.period.Label()),
		activeStyle(FormatMoney(m.summary.TotalSpent)),
		activeStyle(FormatMoney(m.summary.SpentToday)),
	)

	left := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Financeiro"),
		header,
		tableBorder.Render(m.table.View()),
	)

	right := panelStyle.Width(48).Render("Gastos por mês\n\n" + monthlyBars(m.summary.Monthly))
	if m.state == financeStateAdd && m.form != nil {
		right = panelStyle.Width(48).Render("Nova transação\n\n" + m.form.View())
	}

	content := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	if m.status != "" {
		content = lipgloss.JoinVertical(lipgloss.Left, content, helpStyle.Render(m.status))
	}

	return style.Render(lipgloss.JoinVertical(lipgloss.Left, content, helpStyle.Render(m.ShortHelp())))
}

// monthlyBars renders one proportional bar per month with spending.
func monthlyBars(months []report.MonthTotal) string {
	if len(months) == 0 {
		return helpStyle.Render("Nenhuma transação no período.")
	}

	peak := decimal.Zero
	for _, mt := range months {
		peak = decimal.Max(peak, mt.Total)
	}

	var b strings.Builder

	for _, mt := range months {
		n := 0
		if peak.IsPositive() {
			n = int(mt.Total.Mul(decimal.NewFromInt(barWidth)).Div(peak).IntPart())
		}

		fmt.Fprintf(&b, "%s %s %s\n", mt.Label, activeStyle(strings.Repeat("█", n)), FormatMoney(mt.Total))
	}

	return b.String()
}

// Messages

type financeLoadedMsg struct {
	txs   []transaction.Transaction
	stock []item.Item
	err   error
}

type financeChangedMsg struct {
	status string
	err    error
}

func (m FinanceModel) loadCmd() tea.Cmd {
	filter := m.period.Filter()

	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		txs, err := m.ledger.List(ctx, filter)
		if err != nil {
			return financeLoadedMsg{err: err}
		}

		stock, err := m.items.List(ctx)
		if err != nil {
			return financeLoadedMsg{err: err}
		}

		return financeLoadedMsg{txs: txs, stock: stock}
	}
}

func (m FinanceModel) addCmd(params transaction.CreateParams) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		if _, err := m.ledger.Add(ctx, params); err != nil {
			return financeChangedMsg{err: err}
		}

		return financeChangedMsg{status: "Transação registrada."}
	}
}

func (m FinanceModel) removeCmd() tea.Cmd {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.txs) {
		return nil
	}

	id := m.txs[i].ID

	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		if err := m.ledger.Remove(ctx, id); err != nil {
			return financeChangedMsg{err: err}
		}

		return financeChangedMsg{status: "Transação removida."}
	}
}

func validDate(s string) error {
	if _, err := time.Parse(dateLayout, strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("use DD/MM/AAAA")
	}

	return nil
}

func nonZeroInt(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("informe um número inteiro")
	}

	if n == 0 {
		return fmt.Errorf("não pode ser zero")
	}

	return nil
}

func positiveMoney(s string) error {
	d, err := parseMoney(s)
	if err != nil {
		return err
	}

	if !d.IsPositive() {
		return fmt.Errorf("deve ser maior que zero")
	}

	return nil
}

package view

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/cestas/internal/item"
	"github.com/MrJamesThe3rd/cestas/internal/report"
	"github.com/MrJamesThe3rd/cestas/internal/sales"
)

type stockState int

const (
	stockStateBrowse stockState = iota
	stockStateSearch
	stockStateAdd
	stockStateConfirmSales
)

type StockModel struct {
	CommonModel
	items *item.Service
	sales *sales.Service

	state  stockState
	table  table.Model
	search textinput.Model
	form   *huh.Form

	all     []item.Item
	visible []item.Item
	summary report.StockSummary

	draft  *itemForm
	status string
	err    error
}

// itemForm holds the huh bindings for a new item.
type itemForm struct {
	name     string
	quantity string
	minimum  string
	unit     string
	price    string
	confirm  bool
}

func NewStockModel(items *item.Service, salesSvc *sales.Service) StockModel {
	columns := []table.Column{
		{Title: "Item", Width: 22},
		{Title: "Categoria", Width: 10},
		{Title: "Qtd", Width: 6},
		{Title: "Mín", Width: 6},
		{Title: "Un", Width: 4},
		{Title: "Preço", Width: 12},
		{Title: "Valor", Width: 14},
		{Title: "Última compra", Width: 13},
		{Title: "", Width: 6},
	}

	si := textinput.New()
	si.Placeholder = "buscar por nome"
	si.Prompt = "/ "
	si.CharLimit = 40

	return StockModel{
		items:  items,
		sales:  salesSvc,
		table:  newTable(columns, 12),
		search: si,
	}
}

func (m StockModel) Title() string { return "Estoque" }

func (m StockModel) ShortHelp() string {
	switch m.state {
	case stockStateSearch:
		return "Enter: aplicar | Esc: limpar"
	case stockStateAdd:
		return "Navegue pelo formulário | Esc: cancelar"
	case stockStateConfirmSales:
		return "y: confirmar | n: cancelar"
	}

	return "Esc: voltar | +/-: ajustar | /: buscar | a: novo | x: remover | v: aplicar vendas | r: recarregar"
}

func (m StockModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m StockModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stockLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.all = msg.items
		m.summary = report.Stock(msg.items)
		m.refreshTable()

		return m, nil

	case stockChangedMsg:
		m.status = msg.status
		if msg.err != nil {
			m.status = fmt.Sprintf("Erro: %v", msg.err)
		}

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.table.SetHeight(max(msg.Height-16, 5))

		return m, nil
	}

	switch m.state {
	case stockStateSearch:
		return m.updateSearch(msg)
	case stockStateAdd:
		return m.updateAdd(msg)
	case stockStateConfirmSales:
		return m.updateConfirmSales(msg)
	}

	return m.updateBrowse(msg)
}

func (m StockModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			return m, m.loadCmd()
		case "+", "=":
			return m, m.adjustCmd(1)
		case "-":
			return m, m.adjustCmd(-1)
		case "/":
			m.state = stockStateSearch
			m.table.Blur()

			return m, m.search.Focus()
		case "a":
			return m.enterAdd()
		case "x":
			return m, m.removeCmd()
		case "v":
			m.state = stockStateConfirmSales
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m StockModel) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyEsc:
			m.search.SetValue("")
			fallthrough
		case tea.KeyEnter:
			m.state = stockStateBrowse
			m.search.Blur()
			m.table.Focus()
			m.refreshTable()

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.refreshTable()

	return m, cmd
}

func (m StockModel) updateConfirmSales(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "y", "s":
		m.state = stockStateBrowse
		return m, m.applySalesCmd()
	case "n", "esc":
		m.state = stockStateBrowse
	}

	return m, nil
}

func (m StockModel) enterAdd() (tea.Model, tea.Cmd) {
	m.draft = &itemForm{unit: "un", quantity: "0", minimum: "0"}
	f := m.draft

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Nome").Value(&f.name).Validate(required("nome")),
			huh.NewInput().Title("Quantidade").Value(&f.quantity).Validate(nonNegativeInt),
			huh.NewInput().Title("Quantidade mínima").Value(&f.minimum).Validate(nonNegativeInt),
			huh.NewSelect[string]().
				Title("Unidade").
				Options(huh.NewOptions("un", "kg", "g", "l", "ml", "pct", "cx")...).
				Value(&f.unit),
			huh.NewInput().Title("Preço unitário").Placeholder("0,00").Value(&f.price).Validate(nonNegativeMoney),
			huh.NewConfirm().Title("Salvar item?").Value(&f.confirm),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = stockStateAdd
	m.table.Blur()

	return m, m.form.Init()
}

func (m StockModel) updateAdd(msg tea.Msg) (tea.Model, tea.Cmd) {
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
		params, save := m.draft.params()

		m = m.leaveAdd()
		if !save {
			return m, nil
		}

		return m, m.addCmd(params)
	}

	return m, cmd
}

func (m StockModel) leaveAdd() StockModel {
	m.state = stockStateBrowse
	m.form = nil
	m.draft = nil
	m.table.Focus()

	return m
}

func (f itemForm) params() (item.CreateParams, bool) {
	quantity, _ := strconv.Atoi(strings.TrimSpace(f.quantity))
	minimum, _ := strconv.Atoi(strings.TrimSpace(f.minimum))
	price, _ := parseMoney(f.price)

	return item.CreateParams{
		Name:        strings.TrimSpace(f.name),
		Quantity:    quantity,
		MinQuantity: minimum,
		Unit:        f.unit,
		UnitPrice:   price,
	}, f.confirm
}

func (m *StockModel) refreshTable() {
	term := strings.ToLower(strings.TrimSpace(m.search.Value()))

	m.visible = nil
	for _, it := range m.all {
		if term == "" || strings.Contains(strings.ToLower(it.Name), term) {
			m.visible = append(m.visible, it)
		}
	}

	rows := make([]table.Row, 0, len(m.visible))
	for _, it := range m.visible {
		low := ""
		if it.IsLowStock() {
			low = "baixo"
		}

		rows = append(rows, table.Row{
			it.Name,
			it.CategoryOr(string(report.Classify(it.Name))),
			strconv.Itoa(it.Quantity),
			strconv.Itoa(it.MinQuantity),
			it.Unit,
			FormatMoney(it.UnitPrice),
			FormatMoney(it.Value()),
			FormatDate(it.LastPurchaseDate),
			low,
		})
	}

	m.table.SetRows(rows)

	if c := m.table.Cursor(); c >= len(rows) && len(rows) > 0 {
		m.table.SetCursor(len(rows) - 1)
	}
}

func (m StockModel) selected() (item.Item, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.visible) {
		return item.Item{}, false
	}

	return m.visible[i], true
}

func (m StockModel) View() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle.Render(fmt.Sprintf("Erro: %v", m.err)))
	}

	s := m.summary
	header := lipgloss.JoinHorizontal(lipgloss.Top,
		m.card("Itens", strconv.Itoa(s.Items)),
		m.card("Unidades", strconv.Itoa(s.TotalUnits)),
		m.card("Valor total", FormatMoney(s.TotalValue)),
		m.card("Estoque baixo", fmt.Sprintf("%d (%s)", s.LowStockCount, FormatPercent(s.LowStockRatio))),
	)

	content := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Estoque"),
		header,
		tableBorder.Render(m.table.View()),
	)

	switch m.state {
	case stockStateSearch:
		content = lipgloss.JoinVertical(lipgloss.Left, content, m.search.View())
	case stockStateAdd:
		if m.form != nil {
			content = lipgloss.JoinHorizontal(lipgloss.Top, content,
				panelStyle.Width(48).Render("Novo item\n\n"+m.form.View()))
		}
	case stockStateConfirmSales:
		content = lipgloss.JoinVertical(lipgloss.Left, content,
			warnStyle.Render("Abater todas as transações registradas do estoque? (y/n)"))
	default:
		if term := m.search.Value(); term != "" {
			content = lipgloss.JoinVertical(lipgloss.Left, content, helpStyle.Render("Filtro: "+activeStyle(term)))
		}
	}

	if m.status != "" {
		content = lipgloss.JoinVertical(lipgloss.Left, content, helpStyle.Render(m.status))
	}

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left, content, helpStyle.Render(m.ShortHelp())),
	)
}

func (m StockModel) card(label, value string) string {
	return lipgloss.NewStyle().
		Padding(0, 2).
		MarginRight(1).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(helpStyle.Render(label) + "\n" + value)
}

// Messages

type stockLoadedMsg struct {
	items []item.Item
	err   error
}

type stockChangedMsg struct {
	status string
	err    error
}

func (m StockModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		items, err := m.items.List(ctx)

		return stockLoadedMsg{items: items, err: err}
	}
}

func (m StockModel) adjustCmd(delta int) tea.Cmd {
	it, ok := m.selected()
	if !ok {
		return nil
	}

	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		updated, err := m.items.AdjustQuantity(ctx, it.ID, delta)
		if err != nil {
			return stockChangedMsg{err: err}
		}

		return stockChangedMsg{status: fmt.Sprintf("%s: %d %s", updated.Name, updated.Quantity, updated.Unit)}
	}
}

func (m StockModel) removeCmd() tea.Cmd {
	it, ok := m.selected()
	if !ok {
		return nil
	}

	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		if err := m.items.Remove(ctx, it.ID); err != nil {
			return stockChangedMsg{err: err}
		}

		return stockChangedMsg{status: fmt.Sprintf("%s removido.", it.Name)}
	}
}

func (m StockModel) addCmd(params item.CreateParams) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		created, err := m.items.Add(ctx, params)
		if err != nil {
			return stockChangedMsg{err: err}
		}

		return stockChangedMsg{status: fmt.Sprintf("%s adicionado.", created.Name)}
	}
}

func (m StockModel) applySalesCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := StoreCtx()
		defer cancel()

		if _, err := m.sales.Apply(ctx); err != nil {
			return stockChangedMsg{err: err}
		}

		return stockChangedMsg{status: "Vendas abatidas do estoque."}
	}
}

// Form validators

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s é obrigatório", field)
		}

		return nil
	}
}

func nonNegativeInt(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return errors.New("informe um número inteiro")
	}

	if n < 0 {
		return errors.New("não pode ser negativo")
	}

	return nil
}

func nonNegativeMoney(s string) error {
	d, err := parseMoney(s)
	if err != nil {
		return err
	}

	if d.IsNegative() {
		return errors.New("não pode ser negativo")
	}

	return nil
}

// parseMoney accepts "12,50", "12.50" and "R$ 1.234,50". Blank is zero.
func parseMoney(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "R$"))
	if s == "" {
		return decimal.Zero, nil
	}

	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, errors.New("valor inválido")
	}

	return d, nil
}

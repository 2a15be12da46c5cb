package view

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MrJamesThe3rd/cestas/internal/transaction"
)

const dateLayout = "02/01/2006"

// Timeframe is a predefined or custom date range selection.
type Timeframe int

const (
	TimeframeThisWeek Timeframe = iota
	TimeframeLastWeek
	TimeframeThisMonth
	TimeframeLastMonth
	TimeframeAll
	TimeframeCustom
)

func (t Timeframe) String() string {
	switch t {
	case TimeframeThisWeek:
		return "Esta semana"
	case TimeframeLastWeek:
		return "Semana passada"
	case TimeframeThisMonth:
		return "Este mês"
	case TimeframeLastMonth:
		return "Mês passado"
	case TimeframeAll:
		return "Todo o período"
	case TimeframeCustom:
		return "Personalizado"
	}

	return "Desconhecido"
}

// dateRange resolves tf against now. Weeks start on Monday.
func dateRange(tf Timeframe, now time.Time) (time.Time, time.Time) {
	var start, end time.Time

	switch tf {
	case TimeframeThisWeek:
		offset := int(now.Weekday())
		if offset == 0 {
			offset = 7
		}

		start = now.AddDate(0, 0, -offset+1)
		end = now
	case TimeframeLastWeek:
		offset := int(now.Weekday())
		if offset == 0 {
			offset = 7
		}

		end = now.AddDate(0, 0, -offset)
		start = end.AddDate(0, 0, -6)
	case TimeframeThisMonth:
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		end = now
	case TimeframeLastMonth:
		lastMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -1, 0)
		start = lastMonth
		end = start.AddDate(0, 1, -1)
	}

	return transaction.DateOnly(start), transaction.DateOnly(end)
}

// TimeframeSelectedMsg is emitted once the user settles on a range. Start and
// End are zero when All is true.
type TimeframeSelectedMsg struct {
	Start time.Time
	End   time.Time
	All   bool
}

// Filter converts the selection into a ledger filter.
func (m TimeframeSelectedMsg) Filter() transaction.ListFilter {
	if m.All {
		return transaction.ListFilter{}
	}

	return transaction.ListFilter{StartDate: new(m.Start), EndDate: new(m.End)}
}

func (m TimeframeSelectedMsg) Label() string {
	if m.All {
		return TimeframeAll.String()
	}

	return fmt.Sprintf("%s a %s", FormatDate(m.Start), FormatDate(m.End))
}

type timeframeState int

const (
	timeframeStateSelect timeframeState = iota
	timeframeStateCustom
)

// TimeframePicker lets the user pick a date range.
type TimeframePicker struct {
	state    timeframeState
	selected Timeframe
	minFrame Timeframe
	now      func() time.Time

	startInput textinput.Model
	endInput   textinput.Model
	focusIndex int

	err error
}

func NewTimeframePicker(minFrame Timeframe) TimeframePicker {
	si := textinput.New()
	si.Placeholder = "DD/MM/AAAA"
	si.CharLimit = 10
	si.Width = 12
	si.Prompt = "Início: "

	ei := textinput.New()
	ei.Placeholder = "DD/MM/AAAA"
	ei.CharLimit = 10
	ei.Width = 12
	ei.Prompt = "Fim:    "

	return TimeframePicker{
		state:      timeframeStateSelect,
		selected:   minFrame,
		minFrame:   minFrame,
		now:        time.Now,
		startInput: si,
		endInput:   ei,
	}
}

func (m TimeframePicker) Init() tea.Cmd {
	return nil
}

func (m TimeframePicker) Update(msg tea.Msg) (TimeframePicker, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch m.state {
		case timeframeStateSelect:
			return m.updateSelect(msg)
		case timeframeStateCustom:
			return m.updateCustom(msg)
		}
	}

	return m, nil
}

func (m TimeframePicker) updateSelect(msg tea.KeyMsg) (TimeframePicker, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		if m.selected > m.minFrame {
			m.selected--
		}
	case tea.KeyDown:
		if m.selected < TimeframeCustom {
			m.selected++
		}
	case tea.KeyEnter:
		switch m.selected {
		case TimeframeCustom:
			m.state = timeframeStateCustom
			m.focusIndex = 0
			m.startInput.Focus()

			return m, textinput.Blink
		case TimeframeAll:
			return m, func() tea.Msg {
				return TimeframeSelectedMsg{All: true}
			}
		}

		start, end := dateRange(m.selected, m.now())

		return m, func() tea.Msg {
			return TimeframeSelectedMsg{Start: start, End: end}
		}
	}

	return m, nil
}

func (m TimeframePicker) updateCustom(msg tea.KeyMsg) (TimeframePicker, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab":
		m.focusIndex = (m.focusIndex + 1) % 2
		m.startInput.Blur()
		m.endInput.Blur()

		if m.focusIndex == 0 {
			m.startInput.Focus()
		} else {
			m.endInput.Focus()
		}

		return m, textinput.Blink

	case "enter":
		start, err := time.Parse(dateLayout, m.startInput.Value())
		if err != nil {
			m.err = fmt.Errorf("data inicial inválida (DD/MM/AAAA)")
			return m, nil
		}

		end, err := time.Parse(dateLayout, m.endInput.Value())
		if err != nil {
			m.err = fmt.Errorf("data final inválida (DD/MM/AAAA)")
			return m, nil
		}

		if end.Before(start) {
			m.err = fmt.Errorf("data final anterior à inicial")
			return m, nil
		}

		m.err = nil

		return m, func() tea.Msg {
			return TimeframeSelectedMsg{Start: start, End: end}
		}

	case "esc":
		m.state = timeframeStateSelect
		m.err = nil

		return m, nil
	}

	var cmd tea.Cmd
	if m.focusIndex == 0 {
		m.startInput, cmd = m.startInput.Update(msg)
	} else {
		m.endInput, cmd = m.endInput.Update(msg)
	}

	return m, cmd
}

func (m TimeframePicker) View() string {
	errStr := ""
	if m.err != nil {
		errStr = errorStyle.Render(fmt.Sprintf("\n\nErro: %v", m.err))
	}

	if m.state == timeframeStateCustom {
		return fmt.Sprintf(
			"Período personalizado:\n\n%s\n%s\n\n%s%s",
			m.startInput.View(),
			m.endInput.View(),
			helpStyle.Render("(Enter confirma, Tab alterna, Esc volta)"),
			errStr,
		)
	}

	s := "Selecione o período:\n\n"
	for i := m.minFrame; i <= TimeframeCustom; i++ {
		cursor := " "
		if m.selected == i {
			cursor = ">"
		}

		s += fmt.Sprintf("%s %s\n", cursor, i)
	}

	s += "\n" + helpStyle.Render("(Enter seleciona, Esc volta)")

	return s + errStr
}

// IsSelecting reports whether the picker is on the preset list.
func (m TimeframePicker) IsSelecting() bool {
	return m.state == timeframeStateSelect
}

func (m *TimeframePicker) Reset() {
	m.state = timeframeStateSelect
	m.selected = m.minFrame
	m.err = nil
	m.startInput.SetValue("")
	m.endInput.SetValue("")
}

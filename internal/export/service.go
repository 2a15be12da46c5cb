// Package export renders stock and ledger reports as spreadsheet-friendly CSV.
package export

import (
	"archive/zip"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/cestas/internal/item"
	"github.com/MrJamesThe3rd/cestas/internal/report"
	"github.com/MrJamesThe3rd/cestas/internal/transaction"
)

var ErrInvalidConfig = errors.New("invalid report config")

type Type string

const (
	TypeInventory    Type = "inventory"
	TypeTransactions Type = "transactions"
	TypeFinancial    Type = "financial"
)

// Types lists every report kind, in bundle order.
var Types = []Type{TypeInventory, TypeTransactions, TypeFinancial}

// ReportConfig selects a report and the inclusive date range it covers. The
// range filters transactions; inventory reports always show current stock.
type ReportConfig struct {
	StartDate *time.Time
	EndDate   *time.Time
	Type      Type
}

func (c ReportConfig) validate() error {
	switch c.Type {
	case TypeInventory, TypeTransactions, TypeFinancial:
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidConfig, c.Type)
	}

	if c.StartDate != nil && c.EndDate != nil && c.EndDate.Before(*c.StartDate) {
		return fmt.Errorf("%w: end date before start date", ErrInvalidConfig)
	}

	return nil
}

// Filename is the suggested download name, e.g. "relatorio_inventory_20230430.csv".
func (c ReportConfig) Filename(now time.Time) string {
	return fmt.Sprintf("relatorio_%s_%s.csv", c.Type, now.Format("20060102"))
}

type Stock interface {
	List(ctx context.Context) ([]item.Item, error)
}

type Ledger interface {
	List(ctx context.Context, filter transaction.ListFilter) ([]transaction.Transaction, error)
}

type Service struct {
	stock  Stock
	ledger Ledger
	now    func() time.Time
}

func NewService(stock Stock, ledger Ledger) *Service {
	return &Service{stock: stock, ledger: ledger, now: time.Now}
}

// Generate writes the configured report to w.
func (s *Service) Generate(ctx context.Context, cfg ReportConfig, w io.Writer) error {
	if err := cfg.validate(); err != nil {
		return err
	}

	stock, err := s.stock.List(ctx)
	if err != nil {
		return fmt.Errorf("listing stock: %w", err)
	}

	var txs []transaction.Transaction

	if cfg.Type != TypeInventory {
		txs, err = s.ledger.List(ctx, transaction.ListFilter{StartDate: cfg.StartDate, EndDate: cfg.EndDate})
		if err != nil {
			return fmt.Errorf("listing transactions: %w", err)
		}
	}

	cw := csv.NewWriter(w)
	cw.Comma = ';'

	switch cfg.Type {
	case TypeInventory:
		err = writeInventory(cw, stock)
	case TypeTransactions:
		err = writeTransactions(cw, txs, item.NewIndex(stock))
	case TypeFinancial:
		err = writeFinancial(cw, cfg, txs, s.now())
	}

	if err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}

	return nil
}

// Bundle writes a zip holding every report type for the range.
func (s *Service) Bundle(ctx context.Context, start, end *time.Time, w io.Writer) error {
	zw := zip.NewWriter(w)
	now := s.now()

	for _, t := range Types {
		cfg := ReportConfig{StartDate: start, EndDate: end, Type: t}

		f, err := zw.Create(cfg.Filename(now))
		if err != nil {
			return fmt.Errorf("creating %s entry: %w", t, err)
		}

		if err := s.Generate(ctx, cfg, f); err != nil {
			return fmt.Errorf("generating %s report: %w", t, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("closing zip: %w", err)
	}

	return nil
}

func writeInventory(cw *csv.Writer, stock []item.Item) error {
	rows := [][]string{{"Nome", "Categoria", "Quantidade", "Quantidade mínima", "Unidade", "Preço unitário", "Valor total", "Última compra", "Estoque baixo"}}

	for _, it := range stock {
		rows = append(rows, []string{
			it.Name,
			it.CategoryOr(string(report.Classify(it.Name))),
			fmt.Sprint(it.Quantity),
			fmt.Sprint(it.MinQuantity),
			it.Unit,
			money(it.UnitPrice),
			money(it.Value()),
			formatDate(it.LastPurchaseDate),
			yesNo(it.IsLowStock()),
		})
	}

	rows = append(rows, []string{"Total", "", fmt.Sprint(report.TotalUnits(stock)), "", "", "", money(report.TotalValue(stock)), "", ""})

	return cw.WriteAll(rows)
}

func writeTransactions(cw *csv.Writer, txs []transaction.Transaction, idx item.Index) error {
	rows := [][]string{{"Data", "Item", "Quantidade", "Valor total", "Descrição"}}

	for _, tx := range txs {
		rows = append(rows, []string{
			formatDate(tx.Date),
			idx.Name(tx.ItemID),
			fmt.Sprint(tx.Quantity),
			money(tx.TotalPrice),
			tx.DescriptionOr(""),
		})
	}

	rows = append(rows, []string{"Total", "", "", money(report.TotalSpent(txs)), ""})

	return cw.WriteAll(rows)
}

func writeFinancial(cw *csv.Writer, cfg ReportConfig, txs []transaction.Transaction, now time.Time) error {
	summary := report.Finance(txs, now)

	rows := [][]string{
		{"Período", periodLabel(cfg)},
		{"Total gasto", money(summary.TotalSpent)},
		{"Gasto hoje", money(summary.SpentToday)},
		{"Transações", fmt.Sprint(len(txs))},
		{},
		{"Mês", "Total"},
	}

	for _, m := range summary.Monthly {
		rows = append(rows, []string{m.Label, money(m.Total)})
	}

	return cw.WriteAll(rows)
}

func periodLabel(cfg ReportConfig) string {
	from, to := "início", "hoje"

	if cfg.StartDate != nil {
		from = formatDate(*cfg.StartDate)
	}

	if cfg.EndDate != nil {
		to = formatDate(*cfg.EndDate)
	}

	return from + " a " + to
}

// money formats with a decimal comma and no grouping: 1234.5 -> "1234,50".
func money(d decimal.Decimal) string {
	return strings.Replace(d.StringFixed(2), ".", ",", 1)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return t.Format("02/01/2006")
}

func yesNo(b bool) string {
	if b {
		return "Sim"
	}

	return "Não"
}

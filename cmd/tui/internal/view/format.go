package view

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const storeTimeout = 5 * time.Second

var printer = message.NewPrinter(language.BrazilianPortuguese)

// FormatMoney renders an amount in reais, e.g. "R$ 1.234,50".
func FormatMoney(d decimal.Decimal) string {
	return printer.Sprintf("R$ %.2f", d.Round(2).InexactFloat64())
}

// FormatDate renders a calendar date as DD/MM/YYYY.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}

	return t.Format("02/01/2006")
}

func FormatPercent(ratio float64) string {
	return printer.Sprintf("%.1f%%", ratio*100)
}

// StoreCtx returns a context bounded by the standard storage timeout.
func StoreCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), storeTimeout)
}

package report

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/cestas/internal/transaction"
)

const recentTransactions = 3

var monthLabels = [12]string{"Jan", "Fev", "Mar", "Abr", "Mai", "Jun", "Jul", "Ago", "Set", "Out", "Nov", "Dez"}

// MonthLabel returns the short Portuguese month name.
func MonthLabel(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}

	return monthLabels[m-1]
}

type MonthTotal struct {
	Month time.Month
	Label string
	Total decimal.Decimal
}

// MonthlySpend sums total prices per calendar month, January first. The year is
// not part of the grouping, so April 2023 and April 2024 share a bucket.
func MonthlySpend(txs []transaction.Transaction) []MonthTotal {
	var (
		sums [12]decimal.Decimal
		seen [12]bool
	)

	for _, tx := range txs {
		i := tx.Date.Month() - 1
		sums[i] = sums[i].Add(tx.TotalPrice)
		seen[i] = true
	}

	var out []MonthTotal

	for i := range sums {
		if !seen[i] {
			continue
		}

		m := time.Month(i + 1)
		out = append(out, MonthTotal{Month: m, Label: MonthLabel(m), Total: sums[i]})
	}

	return out
}

// DailySpend sums the transactions dated on the calendar day of ref.
func DailySpend(txs []transaction.Transaction, ref time.Time) decimal.Decimal {
	total := decimal.Zero

	for _, tx := range txs {
		if tx.SameDay(ref) {
			total = total.Add(tx.TotalPrice)
		}
	}

	return total
}

func TotalSpent(txs []transaction.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range txs {
		total = total.Add(tx.TotalPrice)
	}

	return total
}

// RecentTransactions returns the last n recorded transactions, newest first.
func RecentTransactions(txs []transaction.Transaction, n int) []transaction.Transaction {
	if n <= 0 {
		return nil
	}

	start := max(len(txs)-n, 0)
	out := make([]transaction.Transaction, 0, len(txs)-start)

	for i := len(txs) - 1; i >= start; i-- {
		out = append(out, txs[i])
	}

	return out
}

type FinanceSummary struct {
	Date       time.Time
	TotalSpent decimal.Decimal
	SpentToday decimal.Decimal
	Monthly    []MonthTotal
	Recent     []transaction.Transaction
}

// Finance bundles the finance page figures relative to ref.
func Finance(txs []transaction.Transaction, ref time.Time) FinanceSummary {
	return FinanceSummary{
		Date:       transaction.DateOnly(ref),
		TotalSpent: TotalSpent(txs),
		SpentToday: DailySpend(txs, ref),
		Monthly:    MonthlySpend(txs),
		Recent:     RecentTransactions(txs, recentTransactions),
	}
}

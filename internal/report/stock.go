// Package report derives read-only summaries from stock and ledger snapshots.
package report

import (
	"slices"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/cestas/internal/item"
)

const (
	lowStockPreview = 3
	topItems        = 5
)

func TotalUnits(stock []item.Item) int {
	total := 0
	for _, it := range stock {
		total += it.Quantity
	}

	return total
}

// LowStockItems returns the items below their minimum, in repository order.
func LowStockItems(stock []item.Item) []item.Item {
	var out []item.Item

	for _, it := range stock {
		if it.IsLowStock() {
			out = append(out, it)
		}
	}

	return out
}

// LowStockRatio is the share of items below their minimum, 0 for empty stock.
func LowStockRatio(stock []item.Item) float64 {
	if len(stock) == 0 {
		return 0
	}

	return float64(len(LowStockItems(stock))) / float64(len(stock))
}

func TotalValue(stock []item.Item) decimal.Decimal {
	total := decimal.Zero
	for _, it := range stock {
		total = total.Add(it.Value())
	}

	return total
}

// TopValuableItems returns at most n items by descending stock value. Ties keep
// repository order.
func TopValuableItems(stock []item.Item, n int) []item.Item {
	if n <= 0 {
		return nil
	}

	sorted := slices.Clone(stock)
	slices.SortStableFunc(sorted, func(a, b item.Item) int {
		return b.Value().Cmp(a.Value())
	})

	if len(sorted) > n {
		sorted = sorted[:n]
	}

	return sorted
}

type StockSummary struct {
	Items         int
	TotalUnits    int
	TotalValue    decimal.Decimal
	LowStock      []item.Item // first few only, see LowStockCount
	LowStockCount int
	LowStockRatio float64
	Categories    []CategoryValue
	TopItems      []item.Item
}

// Stock bundles the stock overview figures.
func Stock(stock []item.Item) StockSummary {
	low := LowStockItems(stock)

	return StockSummary{
		Items:         len(stock),
		TotalUnits:    TotalUnits(stock),
		TotalValue:    TotalValue(stock),
		LowStock:      low[:min(len(low), lowStockPreview)],
		LowStockCount: len(low),
		LowStockRatio: LowStockRatio(stock),
		Categories:    CategoryBreakdown(stock),
		TopItems:      TopValuableItems(stock, topItems),
	}
}

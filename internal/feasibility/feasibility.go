// Package feasibility computes how many complete baskets a stock snapshot can
// assemble and which items bind that count.
package feasibility

import (
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/cestas/internal/basket"
	"github.com/MrJamesThe3rd/cestas/internal/item"
)

// MaxLimitingItems caps the number of items LimitingItems reports.
const MaxLimitingItems = 3

type Result struct {
	MaxBaskets int
	Limiting   []item.Item
	Cost       decimal.Decimal
}

// Evaluate runs the full feasibility check for one model.
func Evaluate(model basket.Model, stock item.Index) Result {
	n := MaxBaskets(model, stock)

	return Result{
		MaxBaskets: n,
		Limiting:   LimitingItems(model, stock, n),
		Cost:       Cost(model, stock),
	}
}

// MaxBaskets returns the number of complete baskets of model that stock can
// assemble. Lines referencing unknown items block assembly; lines with no
// requirement add no constraint. A model without any constraining line yields 0.
func MaxBaskets(model basket.Model, stock item.Index) int {
	result := -1

	for _, line := range model.Lines {
		c, ok := capacity(line, stock)
		if !ok {
			continue
		}

		if result < 0 || c < result {
			result = c
		}
	}

	return max(result, 0)
}

// LimitingItems returns, in line order, up to MaxLimitingItems items whose
// capacity is within 10% of maxBaskets.
func LimitingItems(model basket.Model, stock item.Index, maxBaskets int) []item.Item {
	var out []item.Item

	for _, line := range model.Lines {
		if len(out) == MaxLimitingItems {
			break
		}

		it, found := stock.Lookup(line.ItemID)
		if !found {
			continue
		}

		c, ok := capacity(line, stock)
		if !ok {
			continue
		}

		// c <= maxBaskets*1.1 in integer form
		if c*10 <= maxBaskets*11 {
			out = append(out, it)
		}
	}

	return out
}

// Cost is the price of one basket at current unit prices. Unknown items are
// left out.
func Cost(model basket.Model, stock item.Index) decimal.Decimal {
	total := decimal.Zero

	for _, line := range model.Lines {
		it, ok := stock.Lookup(line.ItemID)
		if !ok {
			continue
		}

		total = total.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	return total
}

// capacity reports how many baskets a single line allows. ok is false when the
// line imposes no constraint.
func capacity(line basket.Line, stock item.Index) (n int, ok bool) {
	if line.Quantity <= 0 {
		return 0, false
	}

	it, found := stock.Lookup(line.ItemID)
	if !found {
		return 0, true
	}

	return max(it.Quantity, 0) / line.Quantity, true
}

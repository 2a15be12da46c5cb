package report

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/cestas/internal/item"
)

type Category string

const (
	Alimentos Category = "Alimentos"
	Limpeza   Category = "Limpeza"
	Outros    Category = "Outros"
)

// Categories lists the breakdown buckets in display order.
var Categories = []Category{Alimentos, Limpeza, Outros}

var markers = []struct {
	category Category
	keywords []string
}{
	{Alimentos, []string{"Arroz", "Feijão"}},
	{Limpeza, []string{"Detergente", "Sabão"}},
}

// Classify maps an item name to its breakdown bucket by keyword substring.
// Matching is case sensitive.
func Classify(name string) Category {
	for _, m := range markers {
		for _, kw := range m.keywords {
			if strings.Contains(name, kw) {
				return m.category
			}
		}
	}

	return Outros
}

type CategoryValue struct {
	Category Category
	Value    decimal.Decimal
}

// CategoryBreakdown sums stock value per bucket. Every bucket is present, in
// Categories order, and the values add up to TotalValue.
func CategoryBreakdown(stock []item.Item) []CategoryValue {
	sums := make(map[Category]decimal.Decimal, len(Categories))
	for _, it := range stock {
		c := Classify(it.Name)
		sums[c] = sums[c].Add(it.Value())
	}

	out := make([]CategoryValue, len(Categories))
	for i, c := range Categories {
		out[i] = CategoryValue{Category: c, Value: sums[c]}
	}

	return out
}

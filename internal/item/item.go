package item

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound = errors.New("item not found")
	ErrInvalid  = errors.New("invalid item")
)

// Item is a stock-keeping unit held by the stock repository.
type Item struct {
	ID               string
	Name             string
	Quantity         int
	MinQuantity      int
	Unit             string
	UnitPrice        decimal.Decimal
	LastPurchaseDate time.Time
	Category         *string
}

// Value is the stock value of the item: quantity times unit price.
func (i Item) Value() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// IsLowStock reports whether the quantity has fallen below the minimum threshold.
func (i Item) IsLowStock() bool {
	return i.Quantity < i.MinQuantity
}

// CategoryOr returns the item's category label, or def when none is set.
func (i Item) CategoryOr(def string) string {
	if i.Category == nil || *i.Category == "" {
		return def
	}

	return *i.Category
}

// Index gives lookup by id over a stock snapshot.
type Index map[string]Item

func NewIndex(items []Item) Index {
	idx := make(Index, len(items))
	for _, it := range items {
		idx[it.ID] = it
	}

	return idx
}

func (idx Index) Lookup(id string) (Item, bool) {
	it, ok := idx[id]
	return it, ok
}

// Name returns the item name, or "Item desconhecido" for a dangling reference.
func (idx Index) Name(id string) string {
	if it, ok := idx[id]; ok {
		return it.Name
	}

	return UnknownName
}

const UnknownName = "Item desconhecido"

func clampQuantity(q int) int {
	return max(q, 0)
}

package item

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/cestas/internal/item"
)

type itemResponse struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Quantity         int             `json:"quantity"`
	MinQuantity      int             `json:"min_quantity"`
	Unit             string          `json:"unit"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	Value            decimal.Decimal `json:"value"`
	LastPurchaseDate string          `json:"last_purchase_date"`
	Category         *string         `json:"category,omitempty"`
	LowStock         bool            `json:"low_stock"`
}

func toResponse(it *item.Item) itemResponse {
	return itemResponse{
		ID:               it.ID,
		Name:             it.Name,
		Quantity:         it.Quantity,
		MinQuantity:      it.MinQuantity,
		Unit:             it.Unit,
		UnitPrice:        it.UnitPrice,
		Value:            it.Value(),
		LastPurchaseDate: it.LastPurchaseDate.Format(time.DateOnly),
		Category:         it.Category,
		LowStock:         it.IsLowStock(),
	}
}

func toResponseList(items []item.Item) []itemResponse {
	resp := make([]itemResponse, len(items))
	for i := range items {
		resp[i] = toResponse(&items[i])
	}

	return resp
}

package transaction

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/cestas/internal/item"
	"github.com/MrJamesThe3rd/cestas/internal/transaction"
)

type transactionResponse struct {
	ID          string          `json:"id"`
	Date        string          `json:"date"`
	ItemID      string          `json:"item_id"`
	ItemName    string          `json:"item_name"`
	Quantity    int             `json:"quantity"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	Description *string         `json:"description,omitempty"`
}

func toResponse(tx *transaction.Transaction, stock item.Index) transactionResponse {
	return transactionResponse{
		ID:          tx.ID,
		Date:        tx.Date.Format(time.DateOnly),
		ItemID:      tx.ItemID,
		ItemName:    stock.Name(tx.ItemID),
		Quantity:    tx.Quantity,
		TotalPrice:  tx.TotalPrice,
		Description: tx.Description,
	}
}

func toResponseList(txs []transaction.Transaction, stock item.Index) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i := range txs {
		resp[i] = toResponse(&txs[i], stock)
	}

	return resp
}

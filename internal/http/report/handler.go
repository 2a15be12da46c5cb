package report

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/cestas/internal/item"
	"github.com/MrJamesThe3rd/cestas/internal/report"
	"github.com/MrJamesThe3rd/cestas/internal/transaction"
)

type Handler struct {
	stock  *item.Service
	ledger *transaction.Service
	now    func() time.Time
}

func NewHandler(stock *item.Service, ledger *transaction.Service) *Handler {
	return &Handler{stock: stock, ledger: ledger, now: time.Now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/stock", h.stockSummary)
	r.Get("/finance", h.financeSummary)
}

type itemSummary struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Quantity    int             `json:"quantity"`
	MinQuantity int             `json:"min_quantity"`
	Unit        string          `json:"unit"`
	Value       decimal.Decimal `json:"value"`
}

type categoryValue struct {
	Category string          `json:"category"`
	Value    decimal.Decimal `json:"value"`
}

type stockResponse struct {
	Items         int             `json:"items"`
	TotalUnits    int             `json:"total_units"`
	TotalValue    decimal.Decimal `json:"total_value"`
	LowStock      []itemSummary   `json:"low_stock"`
	LowStockCount int             `json:"low_stock_count"`
	LowStockRatio float64         `json:"low_stock_ratio"`
	Categories    []categoryValue `json:"categories"`
	TopItems      []itemSummary   `json:"top_items"`
}

type monthTotal struct {
	Month int             `json:"month"`
	Label string          `json:"label"`
	Total decimal.Decimal `json:"total"`
}

type recentTransaction struct {
	ID          string          `json:"id"`
	Date        string          `json:"date"`
	ItemName    string          `json:"item_name"`
	Quantity    int             `json:"quantity"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	Description string          `json:"description"`
}

type financeResponse struct {
	Date       string              `json:"date"`
	TotalSpent decimal.Decimal     `json:"total_spent"`
	SpentToday decimal.Decimal     `json:"spent_today"`
	Monthly    []monthTotal        `json:"monthly"`
	Recent     []recentTransaction `json:"recent"`
}

func (h *Handler) stockSummary(w http.ResponseWriter, r *http.Request) {
	items, err := h.stock.List(r.Context())
	if err != nil {
		slog.Error("failed to list stock", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	s := report.Stock(items)

	resp := stockResponse{
		Items:         s.Items,
		TotalUnits:    s.TotalUnits,
		TotalValue:    s.TotalValue,
		LowStock:      toItemSummaries(s.LowStock),
		LowStockCount: s.LowStockCount,
		LowStockRatio: s.LowStockRatio,
		Categories:    make([]categoryValue, len(s.Categories)),
		TopItems:      toItemSummaries(s.TopItems),
	}

	for i, c := range s.Categories {
		resp.Categories[i] = categoryValue{Category: string(c.Category), Value: c.Value}
	}

	writeJSON(w, resp)
}

// financeSummary reports relative to ?date=YYYY-MM-DD, today by default.
func (h *Handler) financeSummary(w http.ResponseWriter, r *http.Request) {
	ref := h.now()

	if s := r.URL.Query().Get("date"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			http.Error(w, "invalid date", http.StatusBadRequest)
			return
		}

		ref = t
	}

	txs, err := h.ledger.List(r.Context(), transaction.ListFilter{})
	if err != nil {
		slog.Error("failed to list transactions", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	items, err := h.stock.List(r.Context())
	if err != nil {
		slog.Error("failed to list stock", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	idx := item.NewIndex(items)
	f := report.Finance(txs, ref)

	resp := financeResponse{
		Date:       f.Date.Format(time.DateOnly),
		TotalSpent: f.TotalSpent,
		SpentToday: f.SpentToday,
		Monthly:    make([]monthTotal, len(f.Monthly)),
		Recent:     make([]recentTransaction, len(f.Recent)),
	}

	for i, m := range f.Monthly {
		resp.Monthly[i] = monthTotal{Month: int(m.Month), Label: m.Label, Total: m.Total}
	}

	for i, tx := range f.Recent {
		resp.Recent[i] = recentTransaction{
			ID:          tx.ID,
			Date:        tx.Date.Format(time.DateOnly),
			ItemName:    idx.Name(tx.ItemID),
			Quantity:    tx.Quantity,
			TotalPrice:  tx.TotalPrice,
			Description: tx.DescriptionOr(""),
		}
	}

	writeJSON(w, resp)
}

func toItemSummaries(items []item.Item) []itemSummary {
	out := make([]itemSummary, len(items))
	for i, it := range items {
		out[i] = itemSummary{
			ID:          it.ID,
			Name:        it.Name,
			Quantity:    it.Quantity,
			MinQuantity: it.MinQuantity,
			Unit:        it.Unit,
			Value:       it.Value(),
		}
	}

	return out
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

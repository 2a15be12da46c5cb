package transaction

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/cestas/internal/http/request"
	"github.com/MrJamesThe3rd/cestas/internal/item"
	"github.com/MrJamesThe3rd/cestas/internal/transaction"
)

type Handler struct {
	svc   *transaction.Service
	stock *item.Service
}

func NewHandler(svc *transaction.Service, stock *item.Service) *Handler {
	return &Handler{svc: svc, stock: stock}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Delete("/{id}", h.delete)
	r.Patch("/{id}", h.update)
}

type createTransactionRequest struct {
	Date        string          `json:"date" validate:"required,datetime=2006-01-02"`
	ItemID      string          `json:"item_id" validate:"required"`
	Quantity    int             `json:"quantity" validate:"required"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	Description *string         `json:"description,omitempty"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := request.Decode(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	params := transaction.CreateParams{
		ItemID:      req.ItemID,
		Quantity:    req.Quantity,
		TotalPrice:  req.TotalPrice,
		Description: req.Description,
	}

	if req.Date != "" {
		d, err := time.Parse(time.DateOnly, req.Date)
		if err != nil {
			http.Error(w, "invalid date", http.StatusBadRequest)
			return
		}

		params.Date = d
	}

	tx, err := h.svc.Add(r.Context(), params)
	if err != nil {
		writeError(w, err)
		return
	}

	h.respond(w, r.Context(), http.StatusCreated, tx)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := transaction.ListFilter{}

	if s := r.URL.Query().Get("start_date"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			filter.StartDate = new(t)
		}
	}

	if s := r.URL.Query().Get("end_date"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			filter.EndDate = new(t)
		}
	}

	txs, err := h.svc.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	stock, err := h.snapshot(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toResponseList(txs, stock))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	tx, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	h.respond(w, r.Context(), http.StatusOK, tx)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type updateTransactionRequest struct {
	Date        *string          `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ItemID      *string          `json:"item_id,omitempty"`
	Quantity    *int             `json:"quantity,omitempty"`
	TotalPrice  *decimal.Decimal `json:"total_price,omitempty"`
	Description *string          `json:"description,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req updateTransactionRequest
	if err := request.Decode(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	params := transaction.UpdateParams{
		ItemID:      req.ItemID,
		Quantity:    req.Quantity,
		TotalPrice:  req.TotalPrice,
		Description: req.Description,
	}

	if req.Date != nil {
		d, err := time.Parse(time.DateOnly, *req.Date)
		if err != nil {
			http.Error(w, "invalid date", http.StatusBadRequest)
			return
		}

		params.Date = &d
	}

	tx, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), params)
	if err != nil {
		writeError(w, err)
		return
	}

	h.respond(w, r.Context(), http.StatusOK, tx)
}

func (h *Handler) respond(w http.ResponseWriter, ctx context.Context, status int, tx *transaction.Transaction) {
	stock, err := h.snapshot(ctx)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, status, toResponse(tx, stock))
}

func (h *Handler) snapshot(ctx context.Context) (item.Index, error) {
	items, err := h.stock.List(ctx)
	if err != nil {
		return nil, err
	}

	return item.NewIndex(items), nil
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, transaction.ErrNotFound):
		http.Error(w, "transaction not found", http.StatusNotFound)
	case errors.Is(err, transaction.ErrInvalid):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		slog.Error("transaction request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

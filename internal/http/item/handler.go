package item

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/cestas/internal/http/request"
	"github.com/MrJamesThe3rd/cestas/internal/item"
	"github.com/MrJamesThe3rd/cestas/internal/sales"
)

type Handler struct {
	svc   *item.Service
	sales *sales.Service
}

func NewHandler(svc *item.Service, sales *sales.Service) *Handler {
	return &Handler{svc: svc, sales: sales}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Post("/apply-sales", h.applySales)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Put("/{id}", h.upsert)
	r.Delete("/{id}", h.delete)
	r.Post("/{id}/adjust", h.adjust)
}

type itemRequest struct {
	Name             string          `json:"name" validate:"required"`
	Quantity         int             `json:"quantity" validate:"min=0"`
	MinQuantity      int             `json:"min_quantity" validate:"min=0"`
	Unit             string          `json:"unit" validate:"required"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	LastPurchaseDate string          `json:"last_purchase_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Category         *string         `json:"category,omitempty"`
}

type updateItemRequest struct {
	Name             *string          `json:"name,omitempty"`
	Quantity         *int             `json:"quantity,omitempty" validate:"omitempty,min=0"`
	MinQuantity      *int             `json:"min_quantity,omitempty" validate:"omitempty,min=0"`
	Unit             *string          `json:"unit,omitempty"`
	UnitPrice        *decimal.Decimal `json:"unit_price,omitempty"`
	LastPurchaseDate *string          `json:"last_purchase_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Category         *string          `json:"category,omitempty"`
}

type adjustRequest struct {
	Delta int `json:"delta"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toResponseList(items))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := request.Decode(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	params := item.CreateParams{
		Name:        req.Name,
		Quantity:    req.Quantity,
		MinQuantity: req.MinQuantity,
		Unit:        req.Unit,
		UnitPrice:   req.UnitPrice,
		Category:    req.Category,
	}

	if req.LastPurchaseDate != "" {
		d, err := time.Parse(time.DateOnly, req.LastPurchaseDate)
		if err != nil {
			http.Error(w, "invalid last_purchase_date", http.StatusBadRequest)
			return
		}

		params.LastPurchaseDate = d
	}

	it, err := h.svc.Add(r.Context(), params)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toResponse(it))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	it, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toResponse(it))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req updateItemRequest
	if err := request.Decode(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	params := item.UpdateParams{
		Name:        req.Name,
		Quantity:    req.Quantity,
		MinQuantity: req.MinQuantity,
		Unit:        req.Unit,
		UnitPrice:   req.UnitPrice,
		Category:    req.Category,
	}

	if req.LastPurchaseDate != nil {
		d, err := time.Parse(time.DateOnly, *req.LastPurchaseDate)
		if err != nil {
			http.Error(w, "invalid last_purchase_date", http.StatusBadRequest)
			return
		}

		params.LastPurchaseDate = &d
	}

	it, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), params)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toResponse(it))
}

// upsert stores the full item under the path id, creating it when missing.
func (h *Handler) upsert(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := request.Decode(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	it := item.Item{
		ID:          chi.URLParam(r, "id"),
		Name:        req.Name,
		Quantity:    req.Quantity,
		MinQuantity: req.MinQuantity,
		Unit:        req.Unit,
		UnitPrice:   req.UnitPrice,
		Category:    req.Category,
	}

	if req.LastPurchaseDate != "" {
		d, err := time.Parse(time.DateOnly, req.LastPurchaseDate)
		if err != nil {
			http.Error(w, "invalid last_purchase_date", http.StatusBadRequest)
			return
		}

		it.LastPurchaseDate = d
	}

	if err := h.svc.Upsert(r.Context(), it); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toResponse(&it))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) adjust(w http.ResponseWriter, r *http.Request) {
	var req adjustRequest
	if err := request.Decode(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	it, err := h.svc.AdjustQuantity(r.Context(), chi.URLParam(r, "id"), req.Delta)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toResponse(it))
}

func (h *Handler) applySales(w http.ResponseWriter, r *http.Request) {
	items, err := h.sales.Apply(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toResponseList(items))
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, item.ErrNotFound):
		http.Error(w, "item not found", http.StatusNotFound)
	case errors.Is(err, item.ErrInvalid):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		slog.Error("item request failed", "error", err)
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

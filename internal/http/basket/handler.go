package basket

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/cestas/internal/basket"
	"github.com/MrJamesThe3rd/cestas/internal/http/request"
	"github.com/MrJamesThe3rd/cestas/internal/item"
)

type Handler struct {
	svc   *basket.Service
	stock *item.Service
}

func NewHandler(svc *basket.Service, stock *item.Service) *Handler {
	return &Handler{svc: svc, stock: stock}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/feasibility", h.feasibilityAll)
	r.Get("/{id}", h.get)
	r.Get("/{id}/feasibility", h.feasibility)
}

type lineRequest struct {
	ItemID   string `json:"item_id" validate:"required"`
	Quantity int    `json:"quantity" validate:"gt=0"`
}

type createBasketRequest struct {
	Name  string        `json:"name" validate:"required"`
	Lines []lineRequest `json:"lines" validate:"required,min=1,dive"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	models, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	stock, err := h.snapshot(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toResponseList(models, stock))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createBasketRequest
	if err := request.Decode(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	params := basket.CreateParams{Name: req.Name}
	for _, l := range req.Lines {
		params.Lines = append(params.Lines, basket.Line{ItemID: l.ItemID, Quantity: l.Quantity})
	}

	m, err := h.svc.Add(r.Context(), params)
	if err != nil {
		writeError(w, err)
		return
	}

	stock, err := h.snapshot(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toResponse(m, stock))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	m, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	stock, err := h.snapshot(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toResponse(m, stock))
}

func (h *Handler) feasibility(w http.ResponseWriter, r *http.Request) {
	m, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	stock, err := h.snapshot(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toFeasibilityResponse(m, stock))
}

func (h *Handler) feasibilityAll(w http.ResponseWriter, r *http.Request) {
	models, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	stock, err := h.snapshot(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]feasibilityResponse, len(models))
	for i := range models {
		resp[i] = toFeasibilityResponse(&models[i], stock)
	}

	writeJSON(w, http.StatusOK, resp)
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
	case errors.Is(err, basket.ErrNotFound):
		http.Error(w, "basket not found", http.StatusNotFound)
	case errors.Is(err, basket.ErrInvalid):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		slog.Error("basket request failed", "error", err)
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

package importcsv

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/cestas/internal/importer"
	"github.com/MrJamesThe3rd/cestas/internal/item"
)

const maxUpload = 10 << 20

type Handler struct {
	importSvc *importer.Service
}

func NewHandler(importSvc *importer.Service) *Handler {
	return &Handler{importSvc: importSvc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importCSV)
	r.Post("/preview", h.preview)
}

type itemResponse struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Quantity         int             `json:"quantity"`
	Unit             string          `json:"unit"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	LastPurchaseDate string          `json:"last_purchase_date"`
}

type importResponse struct {
	Created []itemResponse `json:"created"`
	Updated []itemResponse `json:"updated"`
}

type rowDTO struct {
	Name             string          `json:"name"`
	Quantity         int             `json:"quantity"`
	MinQuantity      int             `json:"min_quantity"`
	Unit             string          `json:"unit"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	LastPurchaseDate string          `json:"last_purchase_date,omitempty"`
	Category         *string         `json:"category,omitempty"`
}

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	res, err := h.importSvc.Import(r.Context(), importer.Format(r.FormValue("format")), file)
	if err != nil {
		if errors.Is(err, importer.ErrInvalidFile) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		if res != nil {
			slog.Error("import stopped partway", "error", err, "created", len(res.Created), "updated", len(res.Updated))
		} else {
			slog.Error("import failed", "error", err)
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	writeJSON(w, http.StatusOK, importResponse{
		Created: toItemResponses(res.Created),
		Updated: toItemResponses(res.Updated),
	})
}

// preview returns the parsed rows without touching stock.
func (h *Handler) preview(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	rows, err := h.importSvc.Parse(importer.Format(r.FormValue("format")), file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp := make([]rowDTO, len(rows))
	for i, p := range rows {
		resp[i] = rowDTO{
			Name:        p.Name,
			Quantity:    p.Quantity,
			MinQuantity: p.MinQuantity,
			Unit:        p.Unit,
			UnitPrice:   p.UnitPrice,
			Category:    p.Category,
		}

		if !p.LastPurchaseDate.IsZero() {
			resp[i].LastPurchaseDate = p.LastPurchaseDate.Format(time.DateOnly)
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func toItemResponses(items []item.Item) []itemResponse {
	out := make([]itemResponse, len(items))
	for i, it := range items {
		out[i] = itemResponse{
			ID:               it.ID,
			Name:             it.Name,
			Quantity:         it.Quantity,
			Unit:             it.Unit,
			UnitPrice:        it.UnitPrice,
			LastPurchaseDate: it.LastPurchaseDate.Format(time.DateOnly),
		}
	}

	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

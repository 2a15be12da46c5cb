package export

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/cestas/internal/export"
	"github.com/MrJamesThe3rd/cestas/internal/http/request"
)

type Handler struct {
	svc *export.Service
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.report)
	r.Post("/download", h.download)
}

type exportRequest struct {
	StartDate *string     `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate   *string     `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Type      export.Type `json:"type"`
}

func (req exportRequest) config() (export.ReportConfig, error) {
	cfg := export.ReportConfig{Type: req.Type}

	if req.StartDate != nil {
		t, err := time.Parse(time.DateOnly, *req.StartDate)
		if err != nil {
			return cfg, fmt.Errorf("invalid start_date: %w", err)
		}

		cfg.StartDate = &t
	}

	if req.EndDate != nil {
		t, err := time.Parse(time.DateOnly, *req.EndDate)
		if err != nil {
			return cfg, fmt.Errorf("invalid end_date: %w", err)
		}

		cfg.EndDate = &t
	}

	return cfg, nil
}

// report renders a single CSV report.
func (h *Handler) report(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := request.Decode(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	cfg, err := req.config()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var buf bytes.Buffer
	if err := h.svc.Generate(r.Context(), cfg, &buf); err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", cfg.Filename(time.Now())))

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write report", "error", err)
	}
}

// download bundles every report for the range into one zip.
func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := request.Decode(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	cfg, err := req.config()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var buf bytes.Buffer
	if err := h.svc.Bundle(r.Context(), cfg.StartDate, cfg.EndDate, &buf); err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"relatorios_%s.zip\"", time.Now().Format("20060102")))

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write zip", "error", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, export.ErrInvalidConfig) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	slog.Error("export failed", "error", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}

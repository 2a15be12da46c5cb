package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/cestas/internal/http/auth"
	"github.com/MrJamesThe3rd/cestas/internal/http/basket"
	"github.com/MrJamesThe3rd/cestas/internal/http/export"
	"github.com/MrJamesThe3rd/cestas/internal/http/importcsv"
	"github.com/MrJamesThe3rd/cestas/internal/http/item"
	"github.com/MrJamesThe3rd/cestas/internal/http/report"
	"github.com/MrJamesThe3rd/cestas/internal/http/transaction"
)

type Handlers struct {
	Auth         *auth.Handler
	Items        *item.Handler
	Baskets      *basket.Handler
	Transactions *transaction.Handler
	Reports      *report.Handler
	Import       *importcsv.Handler
	Export       *export.Handler
}

type Options struct {
	AllowedOrigins []string
	// RequireAuth guards every route except login.
	RequireAuth func(http.Handler) http.Handler
}

func New(h Handlers, opts Options) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Auth.Routes(r)
		})

		r.Group(func(r chi.Router) {
			if opts.RequireAuth != nil {
				r.Use(opts.RequireAuth)
			}

			r.Route("/items", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				h.Items.Routes(r)
			})

			r.Route("/baskets", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				h.Baskets.Routes(r)
			})

			r.Route("/transactions", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				h.Transactions.Routes(r)
			})

			r.Route("/reports", h.Reports.Routes)

			r.Route("/import", h.Import.Routes)

			r.Route("/export", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				h.Export.Routes(r)
			})
		})
	})

	return router
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/cestas/internal/app"
	"github.com/MrJamesThe3rd/cestas/internal/config"
	cestasHttp "github.com/MrJamesThe3rd/cestas/internal/http"
	authHandler "github.com/MrJamesThe3rd/cestas/internal/http/auth"
	basketHandler "github.com/MrJamesThe3rd/cestas/internal/http/basket"
	exportHandler "github.com/MrJamesThe3rd/cestas/internal/http/export"
	importHandler "github.com/MrJamesThe3rd/cestas/internal/http/importcsv"
	itemHandler "github.com/MrJamesThe3rd/cestas/internal/http/item"
	reportHandler "github.com/MrJamesThe3rd/cestas/internal/http/report"
	txHandler "github.com/MrJamesThe3rd/cestas/internal/http/transaction"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		slog.Error("failed to open storage", "driver", cfg.Storage.Driver, "error", err)
		os.Exit(1)
	}
	defer a.Close()

	router := cestasHttp.New(cestasHttp.Handlers{
		Auth:         authHandler.NewHandler(a.Auth),
		Items:        itemHandler.NewHandler(a.Items, a.Sales),
		Baskets:      basketHandler.NewHandler(a.Baskets, a.Items),
		Transactions: txHandler.NewHandler(a.Transactions, a.Items),
		Reports:      reportHandler.NewHandler(a.Items, a.Transactions),
		Import:       importHandler.NewHandler(a.Import),
		Export:       exportHandler.NewHandler(a.Export),
	}, cestasHttp.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		RequireAuth:    a.Auth.Middleware,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown failed", "error", err)
		}
	}()

	slog.Info("starting server", "app", cfg.App.Name, "port", srv.Addr, "storage", cfg.Storage.Driver)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

// Package app wires storage, domain services and their collaborators from
// configuration. Both binaries build on it.
package app

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MrJamesThe3rd/cestas/internal/auth"
	"github.com/MrJamesThe3rd/cestas/internal/basket"
	basketStore "github.com/MrJamesThe3rd/cestas/internal/basket/store"
	"github.com/MrJamesThe3rd/cestas/internal/config"
	"github.com/MrJamesThe3rd/cestas/internal/database"
	"github.com/MrJamesThe3rd/cestas/internal/export"
	"github.com/MrJamesThe3rd/cestas/internal/importer"
	"github.com/MrJamesThe3rd/cestas/internal/item"
	itemStore "github.com/MrJamesThe3rd/cestas/internal/item/store"
	"github.com/MrJamesThe3rd/cestas/internal/kv"
	"github.com/MrJamesThe3rd/cestas/internal/kv/file"
	"github.com/MrJamesThe3rd/cestas/internal/kv/memory"
	"github.com/MrJamesThe3rd/cestas/internal/kv/postgres"
	"github.com/MrJamesThe3rd/cestas/internal/sales"
	salesStore "github.com/MrJamesThe3rd/cestas/internal/sales/store"
	"github.com/MrJamesThe3rd/cestas/internal/seed"
	"github.com/MrJamesThe3rd/cestas/internal/transaction"
	txStore "github.com/MrJamesThe3rd/cestas/internal/transaction/store"
)

type App struct {
	Items        *item.Service
	Baskets      *basket.Service
	Transactions *transaction.Service
	Sales        *sales.Service
	Import       *importer.Service
	Export       *export.Service
	Auth         *auth.Service

	db *sql.DB
}

// New opens the configured storage driver and builds the services over it.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	store, db, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	a := Build(store)
	a.db = db
	a.Auth = auth.NewService(auth.Config{
		Username: cfg.Auth.Username,
		Password: cfg.Auth.Password,
		Secret:   cfg.Auth.Secret,
		TokenTTL: cfg.Auth.TokenTTL,
	})

	return a, nil
}

// Build assembles the domain services over an already open store, seeding
// each collection with the demonstration data until it is first saved.
func Build(store kv.Store) *App {
	var (
		items        = item.NewService(itemStore.New(store, seed.Items()))
		baskets      = basket.NewService(basketStore.New(store, seed.Baskets()))
		transactions = transaction.NewService(txStore.New(store, seed.Transactions()))
	)

	return &App{
		Items:        items,
		Baskets:      baskets,
		Transactions: transactions,
		Sales:        sales.NewService(items, transactions, salesStore.New(store)),
		Import:       importer.NewService(items),
		Export:       export.NewService(items, transactions),
	}
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}

	return a.db.Close()
}

func openStore(ctx context.Context, cfg *config.Config) (kv.Store, *sql.DB, error) {
	switch cfg.Storage.Driver {
	case "memory":
		return memory.New(), nil, nil
	case "file":
		s, err := file.Open(cfg.Storage.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("opening file store: %w", err)
		}

		return s, nil, nil
	case "postgres":
		db, err := database.New(ctx, cfg.ConnectionString())
		if err != nil {
			return nil, nil, err
		}

		s := postgres.New(db)
		if err := s.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("ensuring kv schema: %w", err)
		}

		return s, db, nil
	}

	return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}

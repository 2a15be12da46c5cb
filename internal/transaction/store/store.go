package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/cestas/internal/kv"
	"github.com/MrJamesThe3rd/cestas/internal/transaction"
)

const Key = "financial-transactions"

type Store struct {
	kv   kv.Store
	seed []transaction.Transaction
}

func New(store kv.Store, seed []transaction.Transaction) *Store {
	return &Store{kv: store, seed: seed}
}

type record struct {
	ID          string          `json:"id"`
	Date        string          `json:"date"`
	ItemID      string          `json:"itemId"`
	Quantity    int             `json:"quantity"`
	TotalPrice  decimal.Decimal `json:"totalPrice"`
	Description *string         `json:"description,omitempty"`
}

func (s *Store) Load(ctx context.Context) ([]transaction.Transaction, error) {
	data, err := s.kv.Get(ctx, Key)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return s.seedCopy(), nil
		}

		return nil, fmt.Errorf("reading transactions: %w", err)
	}

	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		slog.Warn("stored transactions are unreadable, using seed", "key", Key, "error", err)
		return s.seedCopy(), nil
	}

	txs := make([]transaction.Transaction, 0, len(records))

	for _, r := range records {
		date, err := time.Parse(time.DateOnly, r.Date)
		if err != nil {
			slog.Warn("skipping transaction with invalid date", "id", r.ID, "date", r.Date)
			continue
		}

		txs = append(txs, transaction.Transaction{
			ID:          r.ID,
			Date:        date,
			ItemID:      r.ItemID,
			Quantity:    r.Quantity,
			TotalPrice:  r.TotalPrice,
			Description: r.Description,
		})
	}

	return txs, nil
}

func (s *Store) Save(ctx context.Context, txs []transaction.Transaction) error {
	records := make([]record, len(txs))
	for i, tx := range txs {
		records[i] = record{
			ID:          tx.ID,
			Date:        tx.Date.Format(time.DateOnly),
			ItemID:      tx.ItemID,
			Quantity:    tx.Quantity,
			TotalPrice:  tx.TotalPrice,
			Description: tx.Description,
		}
	}

	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encoding transactions: %w", err)
	}

	if err := s.kv.Set(ctx, Key, data); err != nil {
		return fmt.Errorf("writing transactions: %w", err)
	}

	return nil
}

func (s *Store) seedCopy() []transaction.Transaction {
	return append([]transaction.Transaction(nil), s.seed...)
}

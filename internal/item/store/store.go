package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/cestas/internal/item"
	"github.com/MrJamesThe3rd/cestas/internal/kv"
)

// Key is the fixed storage key holding the whole item collection.
const Key = "inventory-items"

type Store struct {
	kv   kv.Store
	seed []item.Item
}

// New returns a store over kv. seed is served when nothing was saved yet or
// the saved value cannot be decoded.
func New(store kv.Store, seed []item.Item) *Store {
	return &Store{kv: store, seed: seed}
}

// record is the persisted JSON shape of an item.
type record struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Quantity         int             `json:"quantity"`
	MinQuantity      int             `json:"minQuantity"`
	Unit             string          `json:"unit"`
	UnitPrice        decimal.Decimal `json:"unitPrice"`
	LastPurchaseDate string          `json:"lastPurchaseDate"`
	Category         *string         `json:"category,omitempty"`
}

func (s *Store) Load(ctx context.Context) ([]item.Item, error) {
	data, err := s.kv.Get(ctx, Key)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return s.seedCopy(), nil
		}

		return nil, fmt.Errorf("reading items: %w", err)
	}

	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		slog.Warn("stored items are unreadable, using seed", "key", Key, "error", err)
		return s.seedCopy(), nil
	}

	items := make([]item.Item, 0, len(records))
	for _, r := range records {
		items = append(items, fromRecord(r))
	}

	return items, nil
}

func (s *Store) Save(ctx context.Context, items []item.Item) error {
	records := make([]record, len(items))
	for i, it := range items {
		records[i] = toRecord(it)
	}

	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encoding items: %w", err)
	}

	if err := s.kv.Set(ctx, Key, data); err != nil {
		return fmt.Errorf("writing items: %w", err)
	}

	return nil
}

func (s *Store) seedCopy() []item.Item {
	return append([]item.Item(nil), s.seed...)
}

func toRecord(it item.Item) record {
	r := record{
		ID:          it.ID,
		Name:        it.Name,
		Quantity:    it.Quantity,
		MinQuantity: it.MinQuantity,
		Unit:        it.Unit,
		UnitPrice:   it.UnitPrice,
		Category:    it.Category,
	}

	if !it.LastPurchaseDate.IsZero() {
		r.LastPurchaseDate = it.LastPurchaseDate.Format(time.DateOnly)
	}

	return r
}

func fromRecord(r record) item.Item {
	it := item.Item{
		ID:          r.ID,
		Name:        r.Name,
		Quantity:    max(r.Quantity, 0),
		MinQuantity: r.MinQuantity,
		Unit:        r.Unit,
		UnitPrice:   r.UnitPrice,
		Category:    r.Category,
	}

	if d, err := time.Parse(time.DateOnly, r.LastPurchaseDate); err == nil {
		it.LastPurchaseDate = d
	}

	return it
}

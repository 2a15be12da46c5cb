package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/MrJamesThe3rd/cestas/internal/basket"
	"github.com/MrJamesThe3rd/cestas/internal/kv"
)

const Key = "basket-models"

type Store struct {
	kv   kv.Store
	seed []basket.Model
}

func New(store kv.Store, seed []basket.Model) *Store {
	return &Store{kv: store, seed: seed}
}

type lineRecord struct {
	ItemID   string `json:"itemId"`
	Quantity int    `json:"quantity"`
}

type modelRecord struct {
	ID    string       `json:"id"`
	Name  string       `json:"name"`
	Items []lineRecord `json:"items"`
}

func (s *Store) Load(ctx context.Context) ([]basket.Model, error) {
	data, err := s.kv.Get(ctx, Key)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return s.seedCopy(), nil
		}

		return nil, fmt.Errorf("reading basket models: %w", err)
	}

	var records []modelRecord
	if err := json.Unmarshal(data, &records); err != nil {
		slog.Warn("stored basket models are unreadable, using seed", "key", Key, "error", err)
		return s.seedCopy(), nil
	}

	models := make([]basket.Model, 0, len(records))

	for _, r := range records {
		m := basket.Model{ID: r.ID, Name: r.Name, Lines: make([]basket.Line, 0, len(r.Items))}
		for _, l := range r.Items {
			m.Lines = append(m.Lines, basket.Line{ItemID: l.ItemID, Quantity: l.Quantity})
		}

		models = append(models, m)
	}

	return models, nil
}

func (s *Store) Save(ctx context.Context, models []basket.Model) error {
	records := make([]modelRecord, len(models))

	for i, m := range models {
		r := modelRecord{ID: m.ID, Name: m.Name, Items: make([]lineRecord, len(m.Lines))}
		for j, l := range m.Lines {
			r.Items[j] = lineRecord{ItemID: l.ItemID, Quantity: l.Quantity}
		}

		records[i] = r
	}

	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encoding basket models: %w", err)
	}

	if err := s.kv.Set(ctx, Key, data); err != nil {
		return fmt.Errorf("writing basket models: %w", err)
	}

	return nil
}

func (s *Store) seedCopy() []basket.Model {
	return append([]basket.Model(nil), s.seed...)
}

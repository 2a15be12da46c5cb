package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/cestas/internal/kv"
)

// Key holds the ids of the transactions already booked against stock.
const Key = "applied-sales"

type Store struct {
	kv kv.Store
}

func New(store kv.Store) *Store {
	return &Store{kv: store}
}

// Load returns the booked transaction ids. Nothing saved yet means nothing
// was booked.
func (s *Store) Load(ctx context.Context) ([]string, error) {
	data, err := s.kv.Get(ctx, Key)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, nil
		}

		return nil, fmt.Errorf("reading applied sales: %w", err)
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("decoding applied sales: %w", err)
	}

	return ids, nil
}

func (s *Store) Save(ctx context.Context, ids []string) error {
	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("encoding applied sales: %w", err)
	}

	if err := s.kv.Set(ctx, Key, data); err != nil {
		return fmt.Errorf("writing applied sales: %w", err)
	}

	return nil
}

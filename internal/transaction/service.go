package transaction

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	Load(ctx context.Context) ([]Transaction, error)
	Save(ctx context.Context, txs []Transaction) error
}

// Service is the transaction ledger.
type Service struct {
	mu   sync.Mutex
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Date        time.Time
	ItemID      string
	Quantity    int
	TotalPrice  decimal.Decimal
	Description *string
}

type UpdateParams struct {
	Date        *time.Time
	ItemID      *string
	Quantity    *int
	TotalPrice  *decimal.Decimal
	Description *string
}

// ListFilter narrows List to an inclusive calendar date range.
type ListFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
}

func (f ListFilter) match(tx Transaction) bool {
	if f.StartDate != nil && tx.Date.Before(DateOnly(*f.StartDate)) {
		return false
	}

	if f.EndDate != nil && tx.Date.After(DateOnly(*f.EndDate)) {
		return false
	}

	return true
}

// List returns the transactions in recording order.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Transaction, error) {
	txs, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading transactions: %w", err)
	}

	if filter.StartDate == nil && filter.EndDate == nil {
		return txs, nil
	}

	var out []Transaction

	for _, tx := range txs {
		if filter.match(tx) {
			out = append(out, tx)
		}
	}

	return out, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Transaction, error) {
	txs, err := s.List(ctx, ListFilter{})
	if err != nil {
		return nil, err
	}

	for _, tx := range txs {
		if tx.ID == id {
			return &tx, nil
		}
	}

	return nil, ErrNotFound
}

func (s *Service) Add(ctx context.Context, params CreateParams) (*Transaction, error) {
	tx := Transaction{
		ID:          uuid.Must(uuid.NewV7()).String(),
		Date:        DateOnly(params.Date),
		ItemID:      params.ItemID,
		Quantity:    params.Quantity,
		TotalPrice:  params.TotalPrice,
		Description: normalizeDescription(params.Description),
	}

	if err := validate(tx); err != nil {
		return nil, err
	}

	err := s.mutate(ctx, func(txs []Transaction) ([]Transaction, error) {
		return append(txs, tx), nil
	})
	if err != nil {
		return nil, err
	}

	return &tx, nil
}

// Update applies params to the transaction with the given id, keeping the id.
func (s *Service) Update(ctx context.Context, id string, params UpdateParams) (*Transaction, error) {
	var updated Transaction

	err := s.mutate(ctx, func(txs []Transaction) ([]Transaction, error) {
		i := indexOf(txs, id)
		if i < 0 {
			return nil, ErrNotFound
		}

		tx := txs[i]

		if params.Date != nil {
			tx.Date = DateOnly(*params.Date)
		}

		if params.ItemID != nil {
			tx.ItemID = *params.ItemID
		}

		if params.Quantity != nil {
			tx.Quantity = *params.Quantity
		}

		if params.TotalPrice != nil {
			tx.TotalPrice = *params.TotalPrice
		}

		if params.Description != nil {
			tx.Description = normalizeDescription(params.Description)
		}

		if err := validate(tx); err != nil {
			return nil, err
		}

		txs[i] = tx
		updated = tx

		return txs, nil
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

func (s *Service) Remove(ctx context.Context, id string) error {
	return s.mutate(ctx, func(txs []Transaction) ([]Transaction, error) {
		i := indexOf(txs, id)
		if i < 0 {
			return nil, ErrNotFound
		}

		return append(txs[:i], txs[i+1:]...), nil
	})
}

func (s *Service) mutate(ctx context.Context, fn func([]Transaction) ([]Transaction, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading transactions: %w", err)
	}

	next, err := fn(append([]Transaction(nil), current...))
	if err != nil {
		return err
	}

	if err := s.repo.Save(ctx, next); err != nil {
		return fmt.Errorf("saving transactions: %w", err)
	}

	return nil
}

// validate enforces the fields required at save time.
func validate(tx Transaction) error {
	switch {
	case tx.Date.IsZero():
		return fmt.Errorf("%w: date is required", ErrInvalid)
	case tx.ItemID == "":
		return fmt.Errorf("%w: item is required", ErrInvalid)
	case tx.Quantity == 0:
		return fmt.Errorf("%w: quantity is required", ErrInvalid)
	case !tx.TotalPrice.IsPositive():
		return fmt.Errorf("%w: total price must be positive", ErrInvalid)
	}

	return nil
}

func normalizeDescription(d *string) *string {
	if d == nil {
		return nil
	}

	trimmed := strings.TrimSpace(*d)
	if trimmed == "" {
		return nil
	}

	return &trimmed
}

func indexOf(txs []Transaction, id string) int {
	for i := range txs {
		if txs[i].ID == id {
			return i
		}
	}

	return -1
}

package item

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=item
type Repository interface {
	Load(ctx context.Context) ([]Item, error)
	Save(ctx context.Context, items []Item) error
}

// Service is the stock repository. Every mutation loads the whole collection,
// applies the change to a copy and saves the copy back.
type Service struct {
	mu   sync.Mutex
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

type CreateParams struct {
	Name             string
	Quantity         int
	MinQuantity      int
	Unit             string
	UnitPrice        decimal.Decimal
	LastPurchaseDate time.Time
	Category         *string
}

type UpdateParams struct {
	Name             *string
	Quantity         *int
	MinQuantity      *int
	Unit             *string
	UnitPrice        *decimal.Decimal
	LastPurchaseDate *time.Time
	Category         *string
}

func (s *Service) List(ctx context.Context) ([]Item, error) {
	items, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading items: %w", err)
	}

	return items, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Item, error) {
	items, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	for _, it := range items {
		if it.ID == id {
			return &it, nil
		}
	}

	return nil, ErrNotFound
}

// Search returns items whose name contains term, ignoring case.
func (s *Service) Search(ctx context.Context, term string) ([]Item, error) {
	items, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return items, nil
	}

	var out []Item

	for _, it := range items {
		if strings.Contains(strings.ToLower(it.Name), term) {
			out = append(out, it)
		}
	}

	return out, nil
}

func (s *Service) Add(ctx context.Context, params CreateParams) (*Item, error) {
	it := Item{
		ID:               uuid.Must(uuid.NewV7()).String(),
		Name:             strings.TrimSpace(params.Name),
		Quantity:         params.Quantity,
		MinQuantity:      params.MinQuantity,
		Unit:             strings.TrimSpace(params.Unit),
		UnitPrice:        params.UnitPrice,
		LastPurchaseDate: dateOnly(params.LastPurchaseDate),
		Category:         params.Category,
	}

	if params.LastPurchaseDate.IsZero() {
		it.LastPurchaseDate = dateOnly(s.now())
	}

	if err := validate(it); err != nil {
		return nil, err
	}

	err := s.mutate(ctx, func(items []Item) ([]Item, error) {
		return append(items, it), nil
	})
	if err != nil {
		return nil, err
	}

	return &it, nil
}

// Upsert replaces the item with the same id, or appends it when none exists.
func (s *Service) Upsert(ctx context.Context, it Item) error {
	if it.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalid)
	}

	if err := validate(it); err != nil {
		return err
	}

	return s.mutate(ctx, func(items []Item) ([]Item, error) {
		for i := range items {
			if items[i].ID == it.ID {
				items[i] = it
				return items, nil
			}
		}

		return append(items, it), nil
	})
}

func (s *Service) Update(ctx context.Context, id string, params UpdateParams) (*Item, error) {
	var updated Item

	err := s.mutate(ctx, func(items []Item) ([]Item, error) {
		i := indexOf(items, id)
		if i < 0 {
			return nil, ErrNotFound
		}

		it := items[i]
		applyUpdate(&it, params)

		if err := validate(it); err != nil {
			return nil, err
		}

		items[i] = it
		updated = it

		return items, nil
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

func (s *Service) Remove(ctx context.Context, id string) error {
	return s.mutate(ctx, func(items []Item) ([]Item, error) {
		i := indexOf(items, id)
		if i < 0 {
			return nil, ErrNotFound
		}

		return append(items[:i], items[i+1:]...), nil
	})
}

// AdjustQuantity adds delta to the item's quantity, clamping the result at zero.
func (s *Service) AdjustQuantity(ctx context.Context, id string, delta int) (*Item, error) {
	var updated Item

	err := s.mutate(ctx, func(items []Item) ([]Item, error) {
		i := indexOf(items, id)
		if i < 0 {
			return nil, ErrNotFound
		}

		items[i].Quantity = clampQuantity(items[i].Quantity + delta)
		updated = items[i]

		return items, nil
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

// SetQuantity sets an absolute quantity. Negative values are rejected.
func (s *Service) SetQuantity(ctx context.Context, id string, quantity int) (*Item, error) {
	if quantity < 0 {
		return nil, fmt.Errorf("%w: quantity cannot be negative", ErrInvalid)
	}

	q := quantity

	return s.Update(ctx, id, UpdateParams{Quantity: &q})
}

// ReplaceAll swaps the whole collection.
func (s *Service) ReplaceAll(ctx context.Context, items []Item) error {
	for _, it := range items {
		if err := validate(it); err != nil {
			return err
		}
	}

	return s.mutate(ctx, func([]Item) ([]Item, error) {
		return append([]Item(nil), items...), nil
	})
}

// Transform replaces the collection with fn's result in a single locked
// load-and-save step and returns what was stored.
func (s *Service) Transform(ctx context.Context, fn func([]Item) []Item) ([]Item, error) {
	var out []Item

	err := s.mutate(ctx, func(items []Item) ([]Item, error) {
		next := fn(items)
		for _, it := range next {
			if err := validate(it); err != nil {
				return nil, err
			}
		}

		out = append([]Item(nil), next...)

		return next, nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

func (s *Service) mutate(ctx context.Context, fn func([]Item) ([]Item, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading items: %w", err)
	}

	next, err := fn(append([]Item(nil), current...))
	if err != nil {
		return err
	}

	if err := s.repo.Save(ctx, next); err != nil {
		return fmt.Errorf("saving items: %w", err)
	}

	return nil
}

func applyUpdate(it *Item, p UpdateParams) {
	if p.Name != nil {
		it.Name = strings.TrimSpace(*p.Name)
	}

	if p.Quantity != nil {
		it.Quantity = *p.Quantity
	}

	if p.MinQuantity != nil {
		it.MinQuantity = *p.MinQuantity
	}

	if p.Unit != nil {
		it.Unit = strings.TrimSpace(*p.Unit)
	}

	if p.UnitPrice != nil {
		it.UnitPrice = *p.UnitPrice
	}

	if p.LastPurchaseDate != nil {
		it.LastPurchaseDate = dateOnly(*p.LastPurchaseDate)
	}

	if p.Category != nil {
		if *p.Category == "" {
			it.Category = nil
		} else {
			it.Category = new(*p.Category)
		}
	}
}

func validate(it Item) error {
	switch {
	case it.Name == "":
		return fmt.Errorf("%w: name is required", ErrInvalid)
	case it.Unit == "":
		return fmt.Errorf("%w: unit is required", ErrInvalid)
	case it.Quantity < 0:
		return fmt.Errorf("%w: quantity cannot be negative", ErrInvalid)
	case it.MinQuantity < 0:
		return fmt.Errorf("%w: minimum quantity cannot be negative", ErrInvalid)
	case it.UnitPrice.IsNegative():
		return fmt.Errorf("%w: unit price cannot be negative", ErrInvalid)
	}

	return nil
}

func indexOf(items []Item, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}

	return -1
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

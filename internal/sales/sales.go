// Package sales books recorded transactions against stock.
package sales

import (
	"context"
	"fmt"
	"sync"

	"github.com/MrJamesThe3rd/cestas/internal/item"
	"github.com/MrJamesThe3rd/cestas/internal/transaction"
)

// ApplyToStock returns a copy of items with each quantity reduced by the sum of
// the transaction quantities referencing it, floored at zero. The inputs are
// left untouched.
func ApplyToStock(items []item.Item, txs []transaction.Transaction) []item.Item {
	sold := make(map[string]int, len(items))
	for _, tx := range txs {
		sold[tx.ItemID] += tx.Quantity
	}

	out := make([]item.Item, len(items))
	for i, it := range items {
		it.Quantity = max(it.Quantity-sold[it.ID], 0)
		out[i] = it
	}

	return out
}

type StockRepository interface {
	Transform(ctx context.Context, fn func([]item.Item) []item.Item) ([]item.Item, error)
}

type Ledger interface {
	List(ctx context.Context, filter transaction.ListFilter) ([]transaction.Transaction, error)
}

// AppliedRepository remembers which transactions were already booked.
type AppliedRepository interface {
	Load(ctx context.Context) ([]string, error)
	Save(ctx context.Context, ids []string) error
}

type Service struct {
	mu      sync.Mutex
	stock   StockRepository
	ledger  Ledger
	applied AppliedRepository
}

func NewService(stock StockRepository, ledger Ledger, applied AppliedRepository) *Service {
	return &Service{stock: stock, ledger: ledger, applied: applied}
}

// Apply books the transactions not booked yet against current stock and
// stores the result. Calling it again without new transactions leaves stock
// unchanged.
func (s *Service) Apply(ctx context.Context) ([]item.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	applied, err := s.applied.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading applied sales: %w", err)
	}

	txs, err := s.ledger.List(ctx, transaction.ListFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	pending := Pending(txs, applied)

	next, err := s.stock.Transform(ctx, func(items []item.Item) []item.Item {
		return ApplyToStock(items, pending)
	})
	if err != nil {
		return nil, fmt.Errorf("updating stock: %w", err)
	}

	if len(pending) == 0 {
		return next, nil
	}

	for _, tx := range pending {
		applied = append(applied, tx.ID)
	}

	if err := s.applied.Save(ctx, applied); err != nil {
		return nil, fmt.Errorf("saving applied sales: %w", err)
	}

	return next, nil
}

// Pending returns the transactions whose id is not in applied, in ledger order.
func Pending(txs []transaction.Transaction, applied []string) []transaction.Transaction {
	seen := make(map[string]struct{}, len(applied))
	for _, id := range applied {
		seen[id] = struct{}{}
	}

	var out []transaction.Transaction
	for _, tx := range txs {
		if _, ok := seen[tx.ID]; !ok {
			out = append(out, tx)
		}
	}

	return out
}

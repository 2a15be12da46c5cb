package sales_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/cestas/internal/item"
	itemstore "github.com/MrJamesThe3rd/cestas/internal/item/store"
	"github.com/MrJamesThe3rd/cestas/internal/kv/memory"
	"github.com/MrJamesThe3rd/cestas/internal/sales"
	salesstore "github.com/MrJamesThe3rd/cestas/internal/sales/store"
	"github.com/MrJamesThe3rd/cestas/internal/transaction"
	txstore "github.com/MrJamesThe3rd/cestas/internal/transaction/store"
)

func sale(itemID string, q int) transaction.Transaction {
	return transaction.Transaction{
		ID:         itemID,
		Date:       time.Date(2023, 4, 15, 0, 0, 0, 0, time.UTC),
		ItemID:     itemID,
		Quantity:   q,
		TotalPrice: decimal.NewFromInt(1),
	}
}

func TestApplyToStock(t *testing.T) {
	items := []item.Item{
		{ID: "1", Name: "Arroz", Quantity: 50},
		{ID: "2", Name: "Feijão", Quantity: 30},
		{ID: "3", Name: "Açúcar", Quantity: 25},
	}
	txs := []transaction.Transaction{sale("1", 10), sale("1", 5), sale("2", 100), sale("9", 3)}

	got := sales.ApplyToStock(items, txs)

	require.Len(t, got, 3)
	assert.Equal(t, 35, got[0].Quantity)
	assert.Equal(t, 0, got[1].Quantity)
	assert.Equal(t, 25, got[2].Quantity)

	assert.Equal(t, 50, items[0].Quantity)
	assert.Equal(t, 30, items[1].Quantity)
}

func TestApplyToStock_NeverNegative(t *testing.T) {
	items := []item.Item{{ID: "1", Quantity: 3}, {ID: "2", Quantity: 0}}

	for n := 0; n < 20; n++ {
		var txs []transaction.Transaction
		for range n {
			txs = append(txs, sale("1", 2), sale("2", 1))
		}

		for _, it := range sales.ApplyToStock(items, txs) {
			assert.GreaterOrEqual(t, it.Quantity, 0)
		}
	}
}

func TestPending(t *testing.T) {
	type args struct {
		txs     []transaction.Transaction
		applied []string
	}

	type testCase struct {
		name string
		args args
		want []string
	}

	tests := []testCase{
		{
			name: "NothingApplied",
			args: args{txs: []transaction.Transaction{sale("1", 1), sale("2", 1)}},
			want: []string{"1", "2"},
		},
		{
			name: "SomeApplied",
			args: args{txs: []transaction.Transaction{sale("1", 1), sale("2", 1)}, applied: []string{"1"}},
			want: []string{"2"},
		},
		{
			name: "AllApplied",
			args: args{txs: []transaction.Transaction{sale("1", 1)}, applied: []string{"1", "9"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, tx := range sales.Pending(tt.args.txs, tt.args.applied) {
				got = append(got, tx.ID)
			}

			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_Apply(t *testing.T) {
	ctx := context.Background()
	backing := memory.New()

	stock := item.NewService(itemstore.New(backing, []item.Item{
		{ID: "1", Name: "Arroz", Quantity: 50, Unit: "kg"},
		{ID: "2", Name: "Feijão", Quantity: 30, Unit: "kg"},
	}))
	ledger := transaction.NewService(txstore.New(backing, []transaction.Transaction{sale("1", 20), sale("2", 40)}))

	got, err := sales.NewService(stock, ledger, salesstore.New(backing)).Apply(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 30, got[0].Quantity)
	assert.Equal(t, 0, got[1].Quantity)

	stored, err := stock.List(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, 30, stored[0].Quantity)
	assert.Equal(t, 0, stored[1].Quantity)
}

func TestService_Apply_BooksEachSaleOnce(t *testing.T) {
	ctx := context.Background()
	backing := memory.New()

	stock := item.NewService(itemstore.New(backing, []item.Item{{ID: "1", Name: "Arroz", Quantity: 50, Unit: "kg"}}))
	ledger := transaction.NewService(txstore.New(backing, []transaction.Transaction{sale("1", 10)}))
	svc := sales.NewService(stock, ledger, salesstore.New(backing))

	first, err := svc.Apply(ctx)
	require.NoError(t, err)
	assert.Equal(t, 40, first[0].Quantity)

	second, err := svc.Apply(ctx)
	require.NoError(t, err)
	assert.Equal(t, 40, second[0].Quantity)

	_, err = stock.AdjustQuantity(ctx, "1", 5)
	require.NoError(t, err)

	_, err = ledger.Add(ctx, transaction.CreateParams{
		Date:       time.Date(2023, 4, 20, 0, 0, 0, 0, time.UTC),
		ItemID:     "1",
		Quantity:   3,
		TotalPrice: decimal.NewFromInt(15),
	})
	require.NoError(t, err)

	third, err := svc.Apply(ctx)
	require.NoError(t, err)
	assert.Equal(t, 42, third[0].Quantity)

	applied, err := salesstore.New(backing).Load(ctx)
	require.NoError(t, err)
	assert.Len(t, applied, 2)
}

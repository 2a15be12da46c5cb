package transaction_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/cestas/internal/transaction"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ledger() []transaction.Transaction {
	return []transaction.Transaction{
		{ID: "1", Date: day(2023, 4, 15), ItemID: "1", Quantity: 100, TotalPrice: decimal.NewFromInt(550)},
		{ID: "2", Date: day(2023, 4, 20), ItemID: "2", Quantity: 50, TotalPrice: decimal.RequireFromString("362.50")},
		{ID: "4", Date: day(2023, 3, 30), ItemID: "4", Quantity: 20, TotalPrice: decimal.NewFromInt(500)},
	}
}

func TestService_Add(t *testing.T) {
	type args struct {
		params transaction.CreateParams
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(m *transaction.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name: "Success",
			args: args{
				params: transaction.CreateParams{
					Date:        time.Date(2023, 5, 2, 14, 30, 0, 0, time.UTC),
					ItemID:      "3",
					Quantity:    10,
					TotalPrice:  decimal.NewFromInt(50),
					Description: new("  Compra de açúcar "),
				},
			},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().Load(gomock.Any()).Return(ledger(), nil)
				m.EXPECT().
					Save(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, txs []transaction.Transaction) error {
						require.Len(t, txs, 4)
						assert.Equal(t, day(2023, 5, 2), txs[3].Date)
						assert.Equal(t, "Compra de açúcar", txs[3].DescriptionOr(""))

						return nil
					})
			},
		},
		{
			name:    "MissingDate",
			args:    args{params: transaction.CreateParams{ItemID: "1", Quantity: 1, TotalPrice: decimal.NewFromInt(1)}},
			wantErr: transaction.ErrInvalid,
		},
		{
			name:    "MissingItem",
			args:    args{params: transaction.CreateParams{Date: day(2023, 5, 2), Quantity: 1, TotalPrice: decimal.NewFromInt(1)}},
			wantErr: transaction.ErrInvalid,
		},
		{
			name:    "ZeroQuantity",
			args:    args{params: transaction.CreateParams{Date: day(2023, 5, 2), ItemID: "1", TotalPrice: decimal.NewFromInt(1)}},
			wantErr: transaction.ErrInvalid,
		},
		{
			name:    "ZeroPrice",
			args:    args{params: transaction.CreateParams{Date: day(2023, 5, 2), ItemID: "1", Quantity: 1}},
			wantErr: transaction.ErrInvalid,
		},
		{
			name: "LoadError",
			args: args{params: transaction.CreateParams{Date: day(2023, 5, 2), ItemID: "1", Quantity: 1, TotalPrice: decimal.NewFromInt(1)}},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().Load(gomock.Any()).Return(nil, errors.New("connection refused"))
			},
			wantErr: errors.New("connection refused"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := transaction.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := transaction.NewService(repo)
			got, err := svc.Add(context.Background(), tt.args.params)

			if tt.wantErr != nil {
				assert.Error(t, err)
				assert.Nil(t, got)

				if errors.Is(tt.wantErr, transaction.ErrInvalid) {
					assert.ErrorIs(t, err, transaction.ErrInvalid)
				}

				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, got.ID)
		})
	}
}

func TestService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := transaction.NewMockRepository(ctrl)

	repo.EXPECT().Load(gomock.Any()).Return(ledger(), nil)
	repo.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, txs []transaction.Transaction) error {
			require.Len(t, txs, 3)
			assert.Equal(t, "2", txs[1].ID)
			assert.Equal(t, 60, txs[1].Quantity)

			return nil
		})

	got, err := transaction.NewService(repo).Update(context.Background(), "2", transaction.UpdateParams{
		Quantity: new(60),
	})
	require.NoError(t, err)
	assert.Equal(t, "2", got.ID)
	assert.True(t, decimal.RequireFromString("362.50").Equal(got.TotalPrice))
}

func TestService_UpdateUnknown(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := transaction.NewMockRepository(ctrl)

	repo.EXPECT().Load(gomock.Any()).Return(ledger(), nil)

	_, err := transaction.NewService(repo).Update(context.Background(), "99", transaction.UpdateParams{})
	assert.ErrorIs(t, err, transaction.ErrNotFound)
}

func TestService_Remove(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := transaction.NewMockRepository(ctrl)

	repo.EXPECT().Load(gomock.Any()).Return(ledger(), nil)
	repo.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, txs []transaction.Transaction) error {
			require.Len(t, txs, 2)
			assert.Equal(t, "1", txs[0].ID)
			assert.Equal(t, "4", txs[1].ID)

			return nil
		})

	require.NoError(t, transaction.NewService(repo).Remove(context.Background(), "2"))
}

func TestService_List(t *testing.T) {
	type testCase struct {
		name    string
		filter  transaction.ListFilter
		wantIDs []string
	}

	tests := []testCase{
		{name: "All", wantIDs: []string{"1", "2", "4"}},
		{name: "April", filter: transaction.ListFilter{StartDate: new(day(2023, 4, 1)), EndDate: new(day(2023, 4, 30))}, wantIDs: []string{"1", "2"}},
		{name: "InclusiveBounds", filter: transaction.ListFilter{StartDate: new(day(2023, 3, 30)), EndDate: new(day(2023, 4, 15))}, wantIDs: []string{"1", "4"}},
		{name: "Empty", filter: transaction.ListFilter{StartDate: new(day(2024, 1, 1))}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := transaction.NewMockRepository(ctrl)
			repo.EXPECT().Load(gomock.Any()).Return(ledger(), nil)

			got, err := transaction.NewService(repo).List(context.Background(), tt.filter)
			require.NoError(t, err)

			var ids []string
			for _, tx := range got {
				ids = append(ids, tx.ID)
			}

			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestTransaction_SameDay(t *testing.T) {
	tx := transaction.Transaction{Date: day(2023, 4, 15)}

	assert.True(t, tx.SameDay(time.Date(2023, 4, 15, 23, 59, 0, 0, time.UTC)))
	assert.False(t, tx.SameDay(day(2023, 4, 16)))
}

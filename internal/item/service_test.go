package item_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/cestas/internal/item"
)

func stock() []item.Item {
	return []item.Item{
		{ID: "1", Name: "Arroz", Quantity: 50, MinQuantity: 20, Unit: "kg", UnitPrice: decimal.RequireFromString("5.50")},
		{ID: "4", Name: "Café", Quantity: 8, MinQuantity: 10, Unit: "kg", UnitPrice: decimal.RequireFromString("25.00")},
	}
}

func TestService_Add(t *testing.T) {
	type args struct {
		params item.CreateParams
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(m *item.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name: "Success",
			args: args{
				params: item.CreateParams{
					Name:        "Sabão em pó",
					Quantity:    12,
					MinQuantity: 5,
					Unit:        "un",
					UnitPrice:   decimal.RequireFromString("4.00"),
				},
			},
			setupMock: func(m *item.MockRepository) {
				m.EXPECT().Load(gomock.Any()).Return(stock(), nil)
				m.EXPECT().
					Save(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, items []item.Item) error {
						require.Len(t, items, 3)
						assert.Equal(t, "Sabão em pó", items[2].Name)

						return nil
					})
			},
		},
		{
			name: "MissingName",
			args: args{
				params: item.CreateParams{Unit: "un"},
			},
			wantErr: item.ErrInvalid,
		},
		{
			name: "NegativePrice",
			args: args{
				params: item.CreateParams{Name: "Sal", Unit: "kg", UnitPrice: decimal.NewFromInt(-1)},
			},
			wantErr: item.ErrInvalid,
		},
		{
			name: "RepoError",
			args: args{
				params: item.CreateParams{Name: "Sal", Unit: "kg"},
			},
			setupMock: func(m *item.MockRepository) {
				m.EXPECT().Load(gomock.Any()).Return(stock(), nil)
				m.EXPECT().Save(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))
			},
			wantErr: errors.New("disk full"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := item.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := item.NewService(repo)
			got, err := svc.Add(context.Background(), tt.args.params)

			if tt.wantErr != nil {
				assert.Error(t, err)
				assert.Nil(t, got)

				if errors.Is(tt.wantErr, item.ErrInvalid) {
					assert.ErrorIs(t, err, item.ErrInvalid)
				}

				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, got.ID)
			assert.False(t, got.LastPurchaseDate.IsZero())
		})
	}
}

func TestService_Add_TruncatesPurchaseDate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := item.NewMockRepository(ctrl)
	repo.EXPECT().Load(gomock.Any()).Return(stock(), nil)
	repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)

	saoPaulo := time.FixedZone("BRT", -3*60*60)

	got, err := item.NewService(repo).Add(context.Background(), item.CreateParams{
		Name:             "Sal",
		Unit:             "kg",
		LastPurchaseDate: time.Date(2023, 4, 15, 22, 30, 0, 0, saoPaulo),
	})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 4, 15, 0, 0, 0, 0, time.UTC), got.LastPurchaseDate)
}

func TestService_Transform(t *testing.T) {
	type testCase struct {
		name     string
		fn       func([]item.Item) []item.Item
		wantSave bool
		want     []int
		wantErr  error
	}

	tests := []testCase{
		{
			name: "Success",
			fn: func(items []item.Item) []item.Item {
				items[0].Quantity -= 10
				return items
			},
			wantSave: true,
			want:     []int{40, 8},
		},
		{
			name: "Invalid",
			fn: func(items []item.Item) []item.Item {
				items[1].Quantity = -1
				return items
			},
			wantErr: item.ErrInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := item.NewMockRepository(ctrl)
			repo.EXPECT().Load(gomock.Any()).Return(stock(), nil)

			if tt.wantSave {
				repo.EXPECT().
					Save(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, items []item.Item) error {
						require.Len(t, items, 2)
						assert.Equal(t, 40, items[0].Quantity)

						return nil
					})
			}

			got, err := item.NewService(repo).Transform(context.Background(), tt.fn)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			require.Len(t, got, len(tt.want))

			for i, q := range tt.want {
				assert.Equal(t, q, got[i].Quantity)
			}
		})
	}
}

func TestService_AdjustQuantity(t *testing.T) {
	type testCase struct {
		name    string
		id      string
		delta   int
		want    int
		wantErr error
	}

	tests := []testCase{
		{name: "Increase", id: "4", delta: 2, want: 10},
		{name: "Decrease", id: "1", delta: -10, want: 40},
		{name: "ClampsAtZero", id: "4", delta: -100, want: 0},
		{name: "Unknown", id: "99", delta: 1, wantErr: item.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := item.NewMockRepository(ctrl)
			repo.EXPECT().Load(gomock.Any()).Return(stock(), nil)

			if tt.wantErr == nil {
				repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
			}

			svc := item.NewService(repo)
			got, err := svc.AdjustQuantity(context.Background(), tt.id, tt.delta)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Quantity)
		})
	}
}

func TestService_SetQuantity_RejectsNegative(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := item.NewService(item.NewMockRepository(ctrl))

	_, err := svc.SetQuantity(context.Background(), "1", -1)
	assert.ErrorIs(t, err, item.ErrInvalid)
}

func TestService_Remove(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := item.NewMockRepository(ctrl)
	repo.EXPECT().Load(gomock.Any()).Return(stock(), nil)
	repo.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, items []item.Item) error {
			require.Len(t, items, 1)
			assert.Equal(t, "4", items[0].ID)

			return nil
		})

	svc := item.NewService(repo)
	require.NoError(t, svc.Remove(context.Background(), "1"))
}

func TestService_Upsert(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := item.NewMockRepository(ctrl)
	svc := item.NewService(repo)

	replaced := item.Item{ID: "1", Name: "Arroz Integral", Quantity: 5, Unit: "kg"}

	repo.EXPECT().Load(gomock.Any()).Return(stock(), nil)
	repo.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, items []item.Item) error {
			require.Len(t, items, 2)
			assert.Equal(t, replaced, items[0])

			return nil
		})

	require.NoError(t, svc.Upsert(context.Background(), replaced))
}

func TestService_Search(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := item.NewMockRepository(ctrl)
	repo.EXPECT().Load(gomock.Any()).Return(stock(), nil).Times(2)

	svc := item.NewService(repo)

	got, err := svc.Search(context.Background(), "CAF")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "4", got[0].ID)

	got, err = svc.Search(context.Background(), "  ")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestItem_Value(t *testing.T) {
	it := item.Item{Quantity: 3, UnitPrice: decimal.RequireFromString("7.25")}
	assert.True(t, decimal.RequireFromString("21.75").Equal(it.Value()))
}

func TestIndex_Name(t *testing.T) {
	idx := item.NewIndex(stock())

	assert.Equal(t, "Arroz", idx.Name("1"))
	assert.Equal(t, item.UnknownName, idx.Name("gone"))
}

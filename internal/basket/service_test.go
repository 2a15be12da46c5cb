package basket_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/cestas/internal/basket"
)

func TestService_Add(t *testing.T) {
	type args struct {
		params basket.CreateParams
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(m *basket.MockRepository)
		wantLines []basket.Line
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "MergesDuplicateItems",
			args: args{params: basket.CreateParams{
				Name: "Cesta Básica",
				Lines: []basket.Line{
					{ItemID: "1", Quantity: 2},
					{ItemID: "2", Quantity: 1},
					{ItemID: "1", Quantity: 3},
				},
			}},
			setupMock: func(m *basket.MockRepository) {
				m.EXPECT().Load(gomock.Any()).Return(nil, nil)
				m.EXPECT().Save(gomock.Any(), gomock.Len(1)).Return(nil)
			},
			wantLines: []basket.Line{{ItemID: "1", Quantity: 5}, {ItemID: "2", Quantity: 1}},
		},
		{
			name:    "NoLines",
			args:    args{params: basket.CreateParams{Name: "Vazia"}},
			wantErr: true,
		},
		{
			name:    "NoName",
			args:    args{params: basket.CreateParams{Lines: []basket.Line{{ItemID: "1", Quantity: 1}}}},
			wantErr: true,
		},
		{
			name:    "ZeroQuantity",
			args:    args{params: basket.CreateParams{Name: "X", Lines: []basket.Line{{ItemID: "1", Quantity: 0}}}},
			wantErr: true,
		},
		{
			name: "RepoError",
			args: args{params: basket.CreateParams{Name: "X", Lines: []basket.Line{{ItemID: "1", Quantity: 1}}}},
			setupMock: func(m *basket.MockRepository) {
				m.EXPECT().Load(gomock.Any()).Return(nil, errors.New("unavailable"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := basket.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := basket.NewService(repo)
			got, err := svc.Add(context.Background(), tt.args.params)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, got.ID)
			assert.Equal(t, tt.wantLines, got.Lines)
		})
	}
}

func TestService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := basket.NewMockRepository(ctrl)
	repo.EXPECT().Load(gomock.Any()).Return([]basket.Model{{ID: "1", Name: "Cesta Premium"}}, nil).Times(2)

	svc := basket.NewService(repo)

	got, err := svc.Get(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "Cesta Premium", got.Name)

	_, err = svc.Get(context.Background(), "2")
	assert.ErrorIs(t, err, basket.ErrNotFound)
}

func TestMergeLine_DoesNotMutateInput(t *testing.T) {
	lines := []basket.Line{{ItemID: "1", Quantity: 2}}

	merged := basket.MergeLine(lines, basket.Line{ItemID: "1", Quantity: 1})

	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, []basket.Line{{ItemID: "1", Quantity: 3}}, merged)
}

func TestRemoveLine(t *testing.T) {
	lines := []basket.Line{{ItemID: "1", Quantity: 2}, {ItemID: "2", Quantity: 1}}

	assert.Equal(t, []basket.Line{{ItemID: "2", Quantity: 1}}, basket.RemoveLine(lines, "1"))
}

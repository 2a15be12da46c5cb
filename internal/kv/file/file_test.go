package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/cestas/internal/kv"
	"github.com/MrJamesThe3rd/cestas/internal/kv/file"
)

func TestStore_PersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "cestas.json")

	s, err := file.Open(path)
	require.NoError(t, err)

	_, err = s.Get(ctx, "basket-models")
	assert.ErrorIs(t, err, kv.ErrNotFound)

	require.NoError(t, s.Set(ctx, "basket-models", []byte(`[{"id":"1","name":"Cesta Bronze"}]`)))

	reopened, err := file.Open(path)
	require.NoError(t, err)

	got, err := reopened.Get(ctx, "basket-models")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"1","name":"Cesta Bronze"}]`, string(got))
}

func TestStore_RejectsInvalidJSON(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cestas.json")

	s, err := file.Open(path)
	require.NoError(t, err)

	err = s.Set(ctx, "inventory-items", []byte("not json"))
	require.Error(t, err)

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestOpen_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cestas.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o600))

	_, err := file.Open(path)
	assert.Error(t, err)
}

package kv_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verseapp/versequiz/internal/kv"
)

func TestSQLite(t *testing.T) {
	s := openSQLite(t)
	ctx := context.Background()

	_, err := s.Get(ctx, "missing")
	assert.ErrorIs(t, err, kv.ErrNotFound)

	require.NoError(t, s.Set(ctx, "k", []byte("v1")))

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), got)

	require.NoError(t, s.Set(ctx, "k", []byte("v2")), "set must overwrite")

	got, err = s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), got)

	require.NoError(t, s.Del(ctx, "k"))

	_, err = s.Get(ctx, "k")
	assert.ErrorIs(t, err, kv.ErrNotFound)

	require.NoError(t, s.Del(ctx, "k"), "deleting a missing key is not an error")
}

func TestSQLite_KeysAreIndependent(t *testing.T) {
	s := openSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "a", []byte("1")))
	require.NoError(t, s.Set(ctx, "b", []byte("2")))
	require.NoError(t, s.Del(ctx, "a"))

	got, err := s.Get(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, []byte("2"), got)
}

func TestSQLite_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv.db")
	ctx := context.Background()

	s, err := kv.OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "k", []byte("survives")))
	require.NoError(t, s.Close())

	s, err = kv.OpenSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("survives"), got)
}

func openSQLite(t *testing.T) *kv.SQLite {
	t.Helper()

	s, err := kv.OpenSQLite(filepath.Join(t.TempDir(), "kv.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	return s
}

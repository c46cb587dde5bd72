package memstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docmapper/storage"
	"docmapper/storage/storagetest"
)

func TestStore(t *testing.T) {
	storagetest.Run(t, New())
}

func TestStore_Len(t *testing.T) {
	s := New()

	c, err := s.Collection("orders")
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, c.Upsert(ctx, 1, storage.Document{}))
	require.NoError(t, c.Upsert(ctx, 2, storage.Document{}))
	require.NoError(t, c.Upsert(ctx, int64(2), storage.Document{}))

	assert.Equal(t, 2, s.Len("orders"))
	assert.Zero(t, s.Len("customers"))
}

func TestStore_CanceledContext(t *testing.T) {
	c, err := New().Collection("orders")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err = c.Find(ctx, 1)
	require.ErrorIs(t, err, context.Canceled)
}

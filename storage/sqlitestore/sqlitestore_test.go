package sqlitestore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docmapper/storage"
	"docmapper/storage/storagetest"
)

func TestStore(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "docs.sqlite"))
	require.NoError(t, err)

	t.Cleanup(func() { _ = s.Close() })

	storagetest.Run(t, s)
}

func TestStore_Memory(t *testing.T) {
	s, err := Open(":memory:")
	require.NoError(t, err)

	defer s.Close()

	c, err := s.Collection("orders")
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, c.Upsert(ctx, 1, storage.Document{"_id": 1}))

	_, ok, err := c.Find(ctx, "1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := Open("  ")
	require.Error(t, err)
}

func TestStore_CloseNil(t *testing.T) {
	var s *Store
	assert.NoError(t, s.Close())
}

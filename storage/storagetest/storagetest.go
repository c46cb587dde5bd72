// Package storagetest checks that a storage.Store behaves like the others.
package storagetest

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docmapper/storage"
)

// Run exercises store. The store must be empty.
func Run(t *testing.T, store storage.Store) {
	t.Helper()

	ctx := context.Background()

	t.Run("RoundTrip", func(t *testing.T) {
		books, err := store.Collection("books")
		require.NoError(t, err)

		doc := storage.Document{
			"_id":      "b-1",
			"title":    "Dune",
			"pages":    412,
			"big":      int64(1) << 60,
			"price":    9.5,
			"tags":     []any{"sf", "classic"},
			"author":   "a-1",
			"chapters": []any{int64(1), int64(2)},
		}

		require.NoError(t, books.Upsert(ctx, "b-1", doc))

		got, ok, err := books.Find(ctx, "b-1")
		require.NoError(t, err)
		require.True(t, ok)

		assert.Equal(t, "Dune", got["title"])
		assert.Equal(t, json.Number("412"), got["pages"])
		assert.Equal(t, json.Number("1152921504606846976"), got["big"])
		assert.Equal(t, json.Number("9.5"), got["price"])
		assert.Equal(t, []any{"sf", "classic"}, got["tags"])
		assert.Equal(t, []any{json.Number("1"), json.Number("2")}, got["chapters"])
	})

	t.Run("Missing", func(t *testing.T) {
		books, err := store.Collection("books")
		require.NoError(t, err)

		got, ok, err := books.Find(ctx, "nope")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, got)
	})

	t.Run("Overwrite", func(t *testing.T) {
		books, err := store.Collection("books")
		require.NoError(t, err)

		require.NoError(t, books.Upsert(ctx, "b-2", storage.Document{"title": "first", "extra": true}))
		require.NoError(t, books.Upsert(ctx, "b-2", storage.Document{"title": "second"}))

		got, ok, err := books.Find(ctx, "b-2")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, storage.Document{"title": "second"}, got)
	})

	t.Run("Isolation", func(t *testing.T) {
		books, err := store.Collection("books")
		require.NoError(t, err)

		authors, err := store.Collection("authors")
		require.NoError(t, err)

		require.NoError(t, authors.Upsert(ctx, "shared", storage.Document{"name": "Herbert"}))

		_, ok, err := books.Find(ctx, "shared")
		require.NoError(t, err)
		assert.False(t, ok, "collections must not share documents")
	})

	t.Run("CallerCopy", func(t *testing.T) {
		books, err := store.Collection("books")
		require.NoError(t, err)

		doc := storage.Document{"title": "before"}
		require.NoError(t, books.Upsert(ctx, "b-3", doc))
		doc["title"] = "after"

		got, _, err := books.Find(ctx, "b-3")
		require.NoError(t, err)
		assert.Equal(t, "before", got["title"])

		got["title"] = "mutated"

		again, _, err := books.Find(ctx, "b-3")
		require.NoError(t, err)
		assert.Equal(t, "before", again["title"])
	})

	t.Run("IntegerKeys", func(t *testing.T) {
		chapters, err := store.Collection("chapters")
		require.NoError(t, err)

		require.NoError(t, chapters.Upsert(ctx, 7, storage.Document{"_id": 7}))

		for _, id := range []any{int64(7), uint8(7), json.Number("7"), 7.0} {
			_, ok, err := chapters.Find(ctx, id)
			require.NoError(t, err)
			assert.True(t, ok, "id %#v", id)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		books, err := store.Collection("books")
		require.NoError(t, err)

		require.NoError(t, books.Upsert(ctx, "b-4", storage.Document{"title": "gone"}))
		require.NoError(t, books.Delete(ctx, "b-4"))

		_, ok, err := books.Find(ctx, "b-4")
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, books.Delete(ctx, "b-4"), "deleting twice is fine")
	})

	t.Run("InvalidKey", func(t *testing.T) {
		books, err := store.Collection("books")
		require.NoError(t, err)

		_, _, err = books.Find(ctx, nil)
		require.ErrorIs(t, err, storage.ErrInvalidKey)

		err = books.Upsert(ctx, "", storage.Document{})
		require.ErrorIs(t, err, storage.ErrInvalidKey)
	})
}

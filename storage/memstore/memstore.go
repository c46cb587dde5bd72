// Package memstore is an in-process document store.
package memstore

import (
	"context"
	"sync"

	"docmapper/storage"
)

// Store keeps encoded documents in memory. Documents are copied on the way
// in and out, so callers never share state with the store.
type Store struct {
	mu          sync.RWMutex
	collections map[string]map[string][]byte
}

var _ storage.Store = (*Store)(nil)

func New() *Store {
	return &Store{collections: map[string]map[string][]byte{}}
}

// Collection returns the named collection, creating it on first use.
func (s *Store) Collection(name string) (storage.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.collections[name]; !ok {
		s.collections[name] = map[string][]byte{}
	}

	return &collection{s: s, name: name}, nil
}

// Close is a no-op.
func (s *Store) Close() error { return nil }

// Len returns the number of documents in the named collection.
func (s *Store) Len(name string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.collections[name])
}

type collection struct {
	s    *Store
	name string
}

func (c *collection) Find(ctx context.Context, id any) (storage.Document, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	key, err := storage.Key(id)
	if err != nil {
		return nil, false, err
	}

	c.s.mu.RLock()
	data, ok := c.s.collections[c.name][key]
	c.s.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}

	doc, err := storage.Decode(data)
	if err != nil {
		return nil, false, err
	}

	return doc, true, nil
}

func (c *collection) Upsert(ctx context.Context, id any, doc storage.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key, err := storage.Key(id)
	if err != nil {
		return err
	}

	data, err := storage.Encode(doc)
	if err != nil {
		return err
	}

	c.s.mu.Lock()
	c.s.collections[c.name][key] = data
	c.s.mu.Unlock()

	return nil
}

func (c *collection) Delete(ctx context.Context, id any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	key, err := storage.Key(id)
	if err != nil {
		return err
	}

	c.s.mu.Lock()
	delete(c.s.collections[c.name], key)
	c.s.mu.Unlock()

	return nil
}

package storage

import (
	"context"
	"time"

	"docmapper/internal/metrics"
)

const (
	OpFind   = "find"
	OpUpsert = "upsert"
	OpDelete = "delete"
)

// Instrument wraps store so every collection operation is recorded in m.
// A nil m returns store unchanged.
func Instrument(store Store, m *metrics.Metrics) Store {
	if m == nil {
		return store
	}

	return &instrumented{Store: store, m: m}
}

type instrumented struct {
	Store
	m *metrics.Metrics
}

func (s *instrumented) Collection(name string) (Collection, error) {
	c, err := s.Store.Collection(name)
	if err != nil {
		return nil, err
	}

	return &instrumentedCollection{c: c, name: name, m: s.m}, nil
}

type instrumentedCollection struct {
	c    Collection
	name string
	m    *metrics.Metrics
}

func (c *instrumentedCollection) Find(ctx context.Context, id any) (Document, bool, error) {
	start := time.Now()
	doc, ok, err := c.c.Find(ctx, id)
	c.m.StorageOp(OpFind, c.name, start, err)

	return doc, ok, err
}

func (c *instrumentedCollection) Upsert(ctx context.Context, id any, doc Document) error {
	start := time.Now()
	err := c.c.Upsert(ctx, id, doc)
	c.m.StorageOp(OpUpsert, c.name, start, err)

	return err
}

func (c *instrumentedCollection) Delete(ctx context.Context, id any) error {
	start := time.Now()
	err := c.c.Delete(ctx, id)
	c.m.StorageOp(OpDelete, c.name, start, err)

	return err
}

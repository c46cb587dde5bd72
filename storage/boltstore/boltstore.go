// Package boltstore stores documents in a bbolt file, one bucket per
// collection.
package boltstore

import (
	"context"
	"time"

	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"

	"docmapper/storage"
)

// Store is a bbolt-backed document store.
type Store struct {
	path string
	db   *bolt.DB
}

var _ storage.Store = (*Store)(nil)

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, errors.Wrap(err, "opening storage")
	}

	return &Store{path: path, db: db}, nil
}

// Path returns the path of the data file.
func (s *Store) Path() string { return s.path }

// Close closes the store.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}

	return errors.Wrap(s.db.Close(), "closing storage")
}

// Collection returns the named collection, creating its bucket on first use.
func (s *Store) Collection(name string) (storage.Collection, error) {
	if name == "" {
		return nil, errors.New("collection name is required")
	}

	if err := s.db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(name))
		return err
	}); err != nil {
		return nil, errors.Wrapf(err, "initializing collection %s", name)
	}

	return &collection{db: s.db, bucket: []byte(name)}, nil
}

type collection struct {
	db     *bolt.DB
	bucket []byte
}

func (c *collection) Find(ctx context.Context, id any) (storage.Document, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	key, err := storage.Key(id)
	if err != nil {
		return nil, false, err
	}

	var doc storage.Document
	if err := c.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(c.bucket).Get([]byte(key))
		if v == nil {
			return nil
		}

		// v is only valid for the life of the transaction.
		doc, err = storage.Decode(v)
		return err
	}); err != nil {
		return nil, false, errors.Wrapf(err, "finding %s/%s", c.bucket, key)
	}

	return doc, doc != nil, nil
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

	if err := c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(c.bucket).Put([]byte(key), data)
	}); err != nil {
		return errors.Wrapf(err, "storing %s/%s", c.bucket, key)
	}

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

	if err := c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(c.bucket).Delete([]byte(key))
	}); err != nil {
		return errors.Wrapf(err, "deleting %s/%s", c.bucket, key)
	}

	return nil
}

// Package storage defines the document store consumed by entity instances
// and the codec shared by its backends.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"

	"github.com/google/uuid"
)

// Document is a stored entity keyed by storage name.
type Document map[string]any

// Store hands out collections. Implementations are safe for concurrent use.
type Store interface {
	Collection(name string) (Collection, error)
	Close() error
}

// Collection holds the documents of one contract.
type Collection interface {
	// Find returns the document stored under id. ok is false when there is none.
	Find(ctx context.Context, id any) (doc Document, ok bool, err error)
	// Upsert replaces the document stored under id.
	Upsert(ctx context.Context, id any, doc Document) error
	// Delete removes the document stored under id. Deleting a missing
	// document is not an error.
	Delete(ctx context.Context, id any) error
}

var ErrInvalidKey = errors.New("invalid document key")

// Key returns the canonical key of an identifier. Identifiers of different
// integer types with the same value share a key, so a document saved with an
// int identifier can be found with the int64 decoded from JSON.
func Key(id any) (string, error) {
	switch v := id.(type) {
	case nil:
		return "", fmt.Errorf("%w: nil identifier", ErrInvalidKey)
	case string:
		if v == "" {
			return "", fmt.Errorf("%w: empty identifier", ErrInvalidKey)
		}

		return v, nil
	case json.Number:
		return numberKey(v)
	case uuid.UUID:
		return v.String(), nil
	case fmt.Stringer:
		return Key(v.String())
	}

	rv := reflect.ValueOf(id)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10), nil
	case reflect.Float32, reflect.Float64:
		return floatKey(rv.Float())
	case reflect.String:
		return Key(rv.String())
	default:
		return "", fmt.Errorf("%w: unsupported identifier type %T", ErrInvalidKey, id)
	}
}

func numberKey(n json.Number) (string, error) {
	if i, err := n.Int64(); err == nil {
		return strconv.FormatInt(i, 10), nil
	}

	f, err := n.Float64()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}

	return floatKey(f)
}

func floatKey(f float64) (string, error) {
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return "", fmt.Errorf("%w: non-integral identifier %v", ErrInvalidKey, f)
	}

	return strconv.FormatFloat(f, 'f', -1, 64), nil
}

// Encode serializes a document.
func Encode(doc Document) ([]byte, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}

	return data, nil
}

// Decode parses a document written by Encode. Numbers are kept as
// json.Number so integers beyond float64 precision survive.
func Decode(data []byte) (Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}

	if doc == nil {
		doc = Document{}
	}

	return doc, nil
}

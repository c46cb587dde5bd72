package metadata

import "reflect"

// Source looks up the markers of a contract.
type Source interface {
	Metadata(contract reflect.Type) (Contract, bool)
}

// Map is a programmatic Source keyed by contract type.
type Map map[reflect.Type]Contract

func (m Map) Metadata(contract reflect.Type) (Contract, bool) {
	c, ok := m[contract]
	return c, ok
}

// For registers the markers of contract T.
func For[T any](m Map, c Contract) {
	m[reflect.TypeFor[T]()] = c
}

// Chain merges the markers of several sources. Earlier sources win when two
// of them set the same value.
type Chain []Source

func (c Chain) Metadata(contract reflect.Type) (Contract, bool) {
	var (
		merged Contract
		found  bool
	)

	for _, src := range c {
		if src == nil {
			continue
		}

		md, ok := src.Metadata(contract)
		if !ok {
			continue
		}

		if !found {
			merged, found = md, true
			continue
		}

		merged = merged.Merge(md)
	}

	return merged, found
}

// None is a Source without any markers.
var None Source = Map(nil)

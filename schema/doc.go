// Package schema compiles entity contracts into immutable schemas.
//
// A contract is a named interface type that embeds the base entity contract
// and declares properties through accessors:
//
//	type Order interface {
//		entity.Entity
//		GetID() string
//		SetID(string) Order
//		GetItems() []Item
//		SetItems([]Item) Order
//		AddItem(Item) Order
//	}
//
// The Compiler walks the method set, enforces the accessor convention and
// caches one *Schema per contract. Concurrent first requests for the same
// contract share a single build; failed builds are not cached.
//
// The base contract is injected through NewCompiler so that this package does
// not depend on the entity runtime.
package schema

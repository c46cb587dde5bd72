// Package entity backs declared contracts with live instances.
//
// A contract is a named interface embedding Entity:
//
//	type Order interface {
//		entity.Entity
//		GetID() string
//		SetID(string) Order
//		GetTotal() float64
//		SetTotal(float64) Order
//	}
//
// A wrapper embedding *Instance implements the accessors by calling the
// dispatcher (see Value, Ref, Refs, MustSet, MustAdd) and is registered with a
// Factory. docmapper gen writes such wrappers.
package entity

import (
	"context"
	"reflect"

	"docmapper/schema"
)

// Entity is the capability set every contract embeds.
type Entity interface {
	// Get reads a property by logical name.
	Get(name string) (any, error)
	// Set writes a property by logical name.
	Set(name string, value any) error
	Save(ctx context.Context) error
	Load(ctx context.Context, id any) error
	Drop(ctx context.Context) error
	// Seal makes the entity immutable.
	Seal()
	Equals(other any) bool
	HashCode() uint64
	String() string
	// EntityClass returns the contract interface type.
	EntityClass() reflect.Type

	entity() *Instance
}

var entityType = reflect.TypeFor[Entity]()

// NewCompiler returns a schema compiler for contracts embedding Entity.
func NewCompiler(opts ...schema.Option) *schema.Compiler {
	return schema.NewCompiler(entityType, opts...)
}

// InstanceOf returns the dispatcher behind e.
func InstanceOf(e Entity) *Instance {
	if e == nil {
		return nil
	}

	return e.entity()
}

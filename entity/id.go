package entity

import (
	"fmt"
	"reflect"
	"sync/atomic"

	"github.com/google/uuid"

	"docmapper/schema"
)

// IDGenerator produces an identifier for an instance saved without one. The
// returned value must be assignable or convertible to the property's type.
type IDGenerator func(p *schema.Property) (any, error)

var uuidType = reflect.TypeFor[uuid.UUID]()

// UUIDs generates random UUIDs for uuid.UUID and string based identifiers.
func UUIDs(p *schema.Property) (any, error) {
	switch {
	case p.Type() == uuidType:
		return uuid.New(), nil
	case p.Type().Kind() == reflect.String:
		return reflect.ValueOf(uuid.NewString()).Convert(p.Type()).Interface(), nil
	default:
		return nil, fmt.Errorf("can't generate a UUID identifier of type %v", p.Type())
	}
}

// Sequence returns a generator of increasing integers starting at first.
func Sequence(first int64) IDGenerator {
	var next atomic.Int64
	next.Store(first)

	return func(p *schema.Property) (any, error) {
		if k := p.Type().Kind(); k < reflect.Int || k > reflect.Int64 {
			return nil, fmt.Errorf("can't generate a sequence identifier of type %v", p.Type())
		}

		v := reflect.New(p.Type()).Elem()
		v.SetInt(next.Add(1) - 1)

		return v.Interface(), nil
	}
}

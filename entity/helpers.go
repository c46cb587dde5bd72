package entity

import (
	"context"
	"fmt"
	"reflect"
)

// The helpers below back generated accessors, which have no error result.
// They panic with the dispatcher error.

// Value reads a scalar property as T.
func Value[T any](i *Instance, name string) T {
	v, err := i.Get(name)
	if err != nil {
		panic(err)
	}

	if v == nil {
		var zero T
		return zero
	}

	t, ok := v.(T)
	if !ok {
		panic(fmt.Errorf("%s: property %s holds %T, not %v", i.contract(), name, v, reflect.TypeFor[T]()))
	}

	return t
}

// Ref resolves a single-reference property as T. An unset reference is the
// zero T.
func Ref[T Entity](i *Instance, name string) T {
	return Value[T](i, name)
}

// Refs resolves a multi-reference property as a slice of T.
func Refs[T Entity](i *Instance, name string) []T {
	v, err := i.Get(name)
	if err != nil {
		panic(err)
	}

	s, ok := v.(*Seq)
	if !ok {
		panic(fmt.Errorf("%s: property %s is not a multi reference", i.contract(), name))
	}

	out := make([]T, 0, s.Len())

	for e, err := range s.All(context.Background()) {
		if err != nil {
			panic(err)
		}

		out = append(out, e.(T))
	}

	return out
}

// MustSet sets a property and returns the wrapper, for fluent setters.
func MustSet(i *Instance, name string, value any) Entity {
	if err := i.Set(name, value); err != nil {
		panic(err)
	}

	return i.self
}

// MustAdd adds to a multi-reference property and returns the wrapper.
func MustAdd(i *Instance, name string, value any) Entity {
	if err := i.Add(name, value); err != nil {
		panic(err)
	}

	return i.self
}

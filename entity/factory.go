package entity

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"

	"go.uber.org/zap"

	"docmapper/schema"
	"docmapper/storage"
)

// ErrNotRegistered is returned for contracts without a registered wrapper.
var ErrNotRegistered = errors.New("contract has no registered wrapper")

// DefaultResolveLimit bounds the concurrent fetches of Instance.Resolve.
const DefaultResolveLimit = 8

// Factory creates and finds entities. It holds the schema compiler, the
// store and the wrapper registry; pass it to whatever needs entities.
type Factory struct {
	store    storage.Store
	compiler *schema.Compiler
	log      *zap.Logger
	ids      IDGenerator
	limit    int

	mu       sync.RWMutex
	wrappers map[reflect.Type]func(*Instance) Entity
}

type FactoryOption func(*Factory)

// WithCompiler sets the schema compiler. The compiler's base contract must
// be Entity.
func WithCompiler(c *schema.Compiler) FactoryOption {
	return func(f *Factory) {
		if c != nil {
			f.compiler = c
		}
	}
}

func WithLogger(l *zap.Logger) FactoryOption {
	return func(f *Factory) {
		if l != nil {
			f.log = l
		}
	}
}

// WithIDGenerator sets the generator used by Save for instances without
// identifier.
func WithIDGenerator(g IDGenerator) FactoryOption {
	return func(f *Factory) { f.ids = g }
}

func WithResolveLimit(n int) FactoryOption {
	return func(f *Factory) {
		if n > 0 {
			f.limit = n
		}
	}
}

func NewFactory(store storage.Store, opts ...FactoryOption) *Factory {
	f := &Factory{
		store:    store,
		log:      zap.NewNop(),
		limit:    DefaultResolveLimit,
		wrappers: map[reflect.Type]func(*Instance) Entity{},
	}

	for _, opt := range opts {
		opt(f)
	}

	if f.compiler == nil {
		f.compiler = NewCompiler(schema.WithLogger(f.log))
	}

	if f.compiler.Base() != entityType {
		panic(fmt.Sprintf("entity: compiler base must be %v, got %v", entityType, f.compiler.Base()))
	}

	return f
}

// Compiler returns the schema compiler.
func (f *Factory) Compiler() *schema.Compiler { return f.compiler }

// Store returns the document store.
func (f *Factory) Store() storage.Store { return f.store }

// Register compiles the schema of T and records wrap as the way to turn an
// Instance into a T.
func Register[T Entity](f *Factory, wrap func(*Instance) T) error {
	contract := reflect.TypeFor[T]()

	if _, err := f.compiler.Schema(contract); err != nil {
		return err
	}

	f.mu.Lock()
	f.wrappers[contract] = func(i *Instance) Entity { return wrap(i) }
	f.mu.Unlock()

	f.log.Debug("contract registered", zap.Stringer("contract", contract))

	return nil
}

// Registered returns the contracts with a wrapper.
func (f *Factory) Registered() []reflect.Type {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([]reflect.Type, 0, len(f.wrappers))
	for t := range f.wrappers {
		out = append(out, t)
	}

	return out
}

// Create returns a new, empty entity of contract.
func (f *Factory) Create(contract reflect.Type) (Entity, error) {
	s, err := f.compiler.Schema(contract)
	if err != nil {
		return nil, err
	}

	f.mu.RLock()
	wrap, ok := f.wrappers[contract]
	f.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%v: %w", contract, ErrNotRegistered)
	}

	i := newInstance(f, s)
	i.self = wrap(i)

	return i.self, nil
}

// Find loads the entity of contract stored under id.
func (f *Factory) Find(ctx context.Context, contract reflect.Type, id any) (Entity, error) {
	e, err := f.Create(contract)
	if err != nil {
		return nil, err
	}

	if err := e.Load(ctx, id); err != nil {
		return nil, err
	}

	return e, nil
}

// New returns a new, empty T.
func New[T Entity](f *Factory) (T, error) {
	e, err := f.Create(reflect.TypeFor[T]())
	if err != nil {
		var zero T
		return zero, err
	}

	return e.(T), nil
}

// Find loads the T stored under id.
func Find[T Entity](ctx context.Context, f *Factory, id any) (T, error) {
	e, err := f.Find(ctx, reflect.TypeFor[T](), id)
	if err != nil {
		var zero T
		return zero, err
	}

	return e.(T), nil
}

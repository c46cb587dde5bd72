package schema

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"go.uber.org/zap"

	"docmapper/docerr"
	"docmapper/internal/metrics"
	"docmapper/internal/naming"
	"docmapper/metadata"
	"docmapper/validate"
)

// Compiler builds and caches schemas. It is safe for concurrent use.
type Compiler struct {
	base      reflect.Type
	md        metadata.Source
	validator validate.Validator
	log       *zap.Logger
	metrics   *metrics.Metrics

	mu      sync.Mutex
	entries map[reflect.Type]*entry
}

// entry is a build in flight or a completed schema.
type entry struct {
	done   chan struct{}
	schema *Schema
	err    error
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithMetadata sets the marker source. The default has no markers.
func WithMetadata(src metadata.Source) Option {
	return func(c *Compiler) {
		if src != nil {
			c.md = src
		}
	}
}

// WithValidator sets the validator used to check constraints at build time
// and later by instances.
func WithValidator(v validate.Validator) Option {
	return func(c *Compiler) {
		if v != nil {
			c.validator = v
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Compiler) {
		if l != nil {
			c.log = l
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Compiler) { c.metrics = m }
}

// NewCompiler returns a Compiler for contracts that embed base. base must be
// an interface type.
func NewCompiler(base reflect.Type, opts ...Option) *Compiler {
	if base == nil || base.Kind() != reflect.Interface {
		panic(fmt.Sprintf("schema: base contract must be an interface type, got %v", base))
	}

	c := &Compiler{
		base:      base,
		md:        metadata.None,
		validator: validate.Nop{},
		log:       zap.NewNop(),
		entries:   map[reflect.Type]*entry{},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Base returns the base contract.
func (c *Compiler) Base() reflect.Type { return c.base }

// Validator returns the configured validator.
func (c *Compiler) Validator() validate.Validator { return c.validator }

// Metadata returns the configured marker source.
func (c *Compiler) Metadata() metadata.Source { return c.md }

// For returns the schema of contract T.
func For[T any](c *Compiler) (*Schema, error) {
	return c.Schema(reflect.TypeFor[T]())
}

// Schema returns the schema of contract, building it on first request.
// Concurrent callers for an unseen contract wait for a single build and get
// the same schema or the same error. Failed builds are forgotten.
func (c *Compiler) Schema(contract reflect.Type) (*Schema, error) {
	c.mu.Lock()
	if e, ok := c.entries[contract]; ok {
		c.mu.Unlock()
		<-e.done

		if e.err == nil {
			c.metrics.CacheHit()
		}

		return e.schema, e.err
	}

	e := &entry{done: make(chan struct{})}
	c.entries[contract] = e
	c.mu.Unlock()

	defer close(e.done)

	failed := true
	defer func() {
		if failed {
			c.mu.Lock()
			delete(c.entries, contract)
			c.mu.Unlock()
		}
	}()

	e.err = fmt.Errorf("schema: build of %v aborted", typeName{contract})
	e.schema, e.err = c.build(contract)
	if e.err != nil {
		e.schema = nil
		c.metrics.SchemaBuilt(e.err)
		c.log.Warn("schema build failed", zap.Stringer("contract", typeName{contract}), zap.Error(e.err))

		return nil, e.err
	}

	failed = false

	c.metrics.SchemaBuilt(nil)
	c.log.Debug("schema built",
		zap.Stringer("contract", contract),
		zap.String("collection", e.schema.collection),
		zap.Int("properties", len(e.schema.properties)))

	return e.schema, nil
}

// Len returns the number of cached or in-flight schemas.
func (c *Compiler) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

type typeName struct{ t reflect.Type }

func (n typeName) String() string {
	if n.t == nil {
		return "<nil>"
	}

	return n.t.String()
}

func (c *Compiler) build(contract reflect.Type) (*Schema, error) {
	if contract == nil {
		return nil, &docerr.NotEntityError{Reason: "nil type"}
	}

	name := contract.String()

	if contract.Kind() != reflect.Interface || contract.Name() == "" {
		return nil, &docerr.NotEntityError{Contract: name, Reason: "contracts must be named interface types"}
	}

	md, _ := c.md.Metadata(contract)

	b := &builder{
		c:        c,
		contract: contract,
		md:       md,
		schema:   newSchema(contract),
		getters:  map[string]string{},
		setters:  map[string]string{},
		adders:   map[string]struct{}{},
	}

	if err := b.walk(); err != nil {
		return nil, docerr.Attribute(err, name)
	}

	if !contract.Implements(c.base) {
		return nil, &docerr.NotEntityError{Contract: name, Reason: "must embed " + c.base.String()}
	}

	b.schema.collection = naming.CollectionName(contract.Name(), md.Named)

	if err := b.indexes(); err != nil {
		return nil, err
	}

	return b.schema, nil
}

// builder holds the state of one build.
type builder struct {
	c        *Compiler
	contract reflect.Type
	md       metadata.Contract
	schema   *Schema

	getters map[string]string   // folded logical name -> getter
	setters map[string]string   // folded logical name -> pending setter
	adders  map[string]struct{} // pending adders
}

func (b *builder) walk() error {
	methods := make([]reflect.Method, 0, b.contract.NumMethod())
	for i := range b.contract.NumMethod() {
		methods = append(methods, b.contract.Method(i))
	}

	sort.SliceStable(methods, func(i, j int) bool { return methods[i].Name < methods[j].Name })

	for _, m := range methods {
		if err := b.method(m); err != nil {
			return err
		}
	}

	return b.orphans()
}

func (b *builder) method(m reflect.Method) error {
	// inherited from the base contract
	if bm, ok := b.c.base.MethodByName(m.Name); ok && bm.PkgPath == m.PkgPath && bm.Type == m.Type {
		return nil
	}

	if m.PkgPath != "" {
		return &docerr.UnknownConventionError{Method: m.Name}
	}

	switch naming.Classify(m.Name) {
	case naming.AccessorUtility:
		bm, ok := b.c.base.MethodByName(m.Name)
		if !ok || bm.Type != m.Type {
			return &docerr.IllegalOverrideError{Method: m.Name}
		}

		return nil

	case naming.AccessorSetter:
		prop, err := naming.PropertyName(m.Name)
		if err != nil {
			return err
		}

		key := naming.Fold(prop)
		if _, ok := b.setters[key]; ok {
			return &docerr.DuplicateSetterError{Method: m.Name, Property: prop}
		}

		b.setters[key] = m.Name

		return nil

	case naming.AccessorGetter:
		return b.getter(m)

	case naming.AccessorAdder:
		if _, err := naming.PropertyName(m.Name); err != nil {
			return err
		}

		b.adders[m.Name] = struct{}{}

		return nil

	default:
		return &docerr.UnknownConventionError{Method: m.Name}
	}
}

func (b *builder) getter(m reflect.Method) error {
	prop, err := naming.PropertyName(m.Name)
	if err != nil {
		return err
	}

	key := naming.Fold(prop)
	if first, ok := b.getters[key]; ok {
		return &docerr.NamingConflictError{Name: prop, First: first, Second: m.Name}
	}

	b.getters[key] = m.Name

	p, err := buildProperty(b.contract, b.c.base, m, b.md.Accessor(m.Name), b.c.validator)
	if err != nil {
		return err
	}

	if other, ok := b.schema.byStorage[p.storageName]; ok {
		if p.id && other.id {
			return &docerr.DuplicateIdentifierError{First: other.accessors.Getter, Second: m.Name}
		}

		return &docerr.NamingConflictError{Name: p.storageName, First: other.accessors.Getter, Second: m.Name}
	}

	b.schema.add(p)

	return nil
}

// orphans reports setters and adders no getter consumed.
func (b *builder) orphans() error {
	for _, p := range b.schema.properties {
		key := naming.Fold(p.name)
		if b.setters[key] == p.accessors.Setter {
			delete(b.setters, key)
		}

		delete(b.adders, p.accessors.Adder)
	}

	if len(b.setters) > 0 {
		methods := make([]string, 0, len(b.setters))
		for _, name := range b.setters {
			methods = append(methods, name)
		}

		sort.Strings(methods)

		return &docerr.OrphanSetterError{Contract: b.contract.String(), Methods: methods}
	}

	if len(b.adders) > 0 {
		methods := make([]string, 0, len(b.adders))
		for name := range b.adders {
			methods = append(methods, name)
		}

		sort.Strings(methods)

		return &docerr.OrphanAdderError{Contract: b.contract.String(), Methods: methods}
	}

	return nil
}

// indexes resolves index fields to storage names.
func (b *builder) indexes() error {
	for _, idx := range b.md.Indexes {
		resolved := Index{Name: idx.Name, Unique: idx.Unique, Fields: make([]metadata.IndexField, 0, len(idx.Fields))}

		for _, f := range idx.Fields {
			p, ok := b.schema.byStorage[f.Field]
			if !ok {
				p, ok = b.schema.Property(f.Field)
			}

			if !ok {
				name := idx.Name
				if name == "" {
					name = idx.DefaultName()
				}

				return &docerr.IndexFieldError{Contract: b.contract.String(), Index: name, Field: f.Field}
			}

			order := f.Order
			if order == 0 {
				order = metadata.Ascending
			}

			resolved.Fields = append(resolved.Fields, metadata.IndexField{Field: p.storageName, Order: order})
		}

		if resolved.Name == "" {
			resolved.Name = metadata.Index{Fields: resolved.Fields}.DefaultName()
		}

		b.schema.indexes = append(b.schema.indexes, resolved)
	}

	return nil
}

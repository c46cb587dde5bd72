package entity

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"

	"docmapper/docerr"
	"docmapper/internal/naming"
	"docmapper/primitive"
	"docmapper/schema"
	"docmapper/storage"
	"docmapper/validate"
)

// Instance is the dispatcher behind every live entity. All property access
// and lifecycle operations of a wrapper go through it. An Instance is not
// safe for concurrent mutation.
type Instance struct {
	f      *Factory
	schema *schema.Schema
	self   Entity

	// fields holds scalars and unresolved reference identifiers by storage name.
	fields map[string]any
	refs   map[string]Entity
	seqs   map[string]*Seq

	persisted bool
	sealed    bool
}

func newInstance(f *Factory, s *schema.Schema) *Instance {
	return &Instance{
		f:      f,
		schema: s,
		fields: map[string]any{},
		refs:   map[string]Entity{},
		seqs:   map[string]*Seq{},
	}
}

func (i *Instance) entity() *Instance { return i }

// Schema returns the compiled schema of the contract.
func (i *Instance) Schema() *schema.Schema { return i.schema }

// Self returns the wrapper bound to the instance.
func (i *Instance) Self() Entity { return i.self }

func (i *Instance) contract() string { return i.schema.Contract().String() }

func (i *Instance) property(name string) (*schema.Property, error) {
	p, ok := i.schema.Property(name)
	if !ok {
		return nil, &docerr.UnknownPropertyError{
			Contract:   i.contract(),
			Property:   name,
			Suggestion: i.schema.Suggest(name),
		}
	}

	return p, nil
}

// Get reads a property. References are resolved with a background context.
func (i *Instance) Get(name string) (any, error) {
	return i.GetContext(context.Background(), name)
}

// GetContext reads a property. Unset scalars read as the zero value of their
// type, single references resolve on first access, and multi references
// return their *Seq.
func (i *Instance) GetContext(ctx context.Context, name string) (any, error) {
	p, err := i.property(name)
	if err != nil {
		return nil, err
	}

	switch {
	case p.IsComputed():
		return p.Compute()(func(other string) (any, error) { return i.GetContext(ctx, other) })
	case p.Shape() == schema.ShapeReference:
		return i.reference(ctx, p)
	case p.Shape() == schema.ShapeReferences:
		return i.seq(p), nil
	}

	if v, ok := i.fields[p.StorageName()]; ok {
		return v, nil
	}

	return p.Zero(), nil
}

func (i *Instance) reference(ctx context.Context, p *schema.Property) (Entity, error) {
	if e, ok := i.refs[p.StorageName()]; ok {
		return e, nil
	}

	id, ok := i.fields[p.StorageName()]
	if !ok {
		return nil, nil
	}

	e, err := i.f.Find(ctx, p.Target(), id)
	if err != nil {
		return nil, fmt.Errorf("%s: resolve %s: %w", i.contract(), p.Name(), err)
	}

	i.refs[p.StorageName()] = e
	delete(i.fields, p.StorageName())

	return e, nil
}

func (i *Instance) seq(p *schema.Property) *Seq {
	s, ok := i.seqs[p.StorageName()]
	if !ok {
		s = newSeq(i.f, p)
		i.seqs[p.StorageName()] = s
	}

	return s
}

func (i *Instance) writable(p *schema.Property) error {
	if i.sealed {
		return &docerr.SealedEntityError{Contract: i.contract(), Property: p.Name()}
	}

	if p.IsReadOnly() {
		return &docerr.ReadOnlyPropertyError{Contract: i.contract(), Property: p.Name()}
	}

	return nil
}

func (i *Instance) mismatch(p *schema.Property, want string, value any) error {
	return &docerr.TypeMismatchError{
		Contract: i.contract(),
		Property: p.Name(),
		Want:     want,
		Got:      fmt.Sprintf("%T", value),
	}
}

// Set writes a property. Scalars must be assignable to the declared type or
// numbers convertible to it without loss; a nil value clears the property.
func (i *Instance) Set(name string, value any) error {
	p, err := i.property(name)
	if err != nil {
		return err
	}

	if err := i.writable(p); err != nil {
		return err
	}

	switch p.Shape() {
	case schema.ShapeReference:
		return i.setReference(p, value)
	case schema.ShapeReferences:
		return i.setReferences(p, value)
	}

	if value == nil {
		if p.IsIdentifier() && i.persisted {
			return &docerr.IdentifierChangeError{Contract: i.contract(), Old: i.fields[p.StorageName()]}
		}

		delete(i.fields, p.StorageName())

		return nil
	}

	v, err := i.coerce(p, value, assignable)
	if err != nil {
		return err
	}

	if p.IsIdentifier() && i.persisted {
		if old, ok := i.fields[p.StorageName()]; ok && !reflect.DeepEqual(old, v) {
			return &docerr.IdentifierChangeError{Contract: i.contract(), Old: old, New: v}
		}
	}

	i.fields[p.StorageName()] = v

	return nil
}

// coerce converts value to the declared type of p.
func (i *Instance) coerce(p *schema.Property, value any, allowed primitive.CategoryEnum) (any, error) {
	if value == nil {
		return nil, i.mismatch(p, p.Type().String(), value)
	}

	t := reflect.TypeOf(value)
	if t.AssignableTo(p.Type()) {
		if t == p.Type() {
			return value, nil
		}

		out := reflect.New(p.Type()).Elem()
		out.Set(reflect.ValueOf(value))

		return out.Interface(), nil
	}

	if p.Kind() != 0 {
		if v, err := primitive.Convert(value, p.Type(), allowed); err == nil {
			return v.Interface(), nil
		}
	}

	return nil, i.mismatch(p, p.Type().String(), value)
}

func (i *Instance) setReference(p *schema.Property, value any) error {
	delete(i.fields, p.StorageName())

	if value == nil {
		delete(i.refs, p.StorageName())
		return nil
	}

	e, ok := value.(Entity)
	if !ok || !reflect.TypeOf(value).Implements(p.Target()) {
		return i.mismatch(p, p.Target().String(), value)
	}

	i.refs[p.StorageName()] = e

	return nil
}

func (i *Instance) setReferences(p *schema.Property, value any) error {
	s := newSeq(i.f, p)

	if value != nil {
		rv := reflect.ValueOf(value)
		if rv.Kind() != reflect.Slice {
			return i.mismatch(p, "[]"+p.Target().String(), value)
		}

		for n := range rv.Len() {
			e, ok := rv.Index(n).Interface().(Entity)
			if !ok || !reflect.TypeOf(e).Implements(p.Target()) {
				return i.mismatch(p, "[]"+p.Target().String(), value)
			}

			s.append(e)
		}
	}

	i.seqs[p.StorageName()] = s

	return nil
}

// Add appends value to a multi-reference property.
func (i *Instance) Add(name string, value any) error {
	p, err := i.property(name)
	if err != nil {
		return err
	}

	if err := i.writable(p); err != nil {
		return err
	}

	if p.Shape() != schema.ShapeReferences {
		return &docerr.TypeMismatchError{
			Contract: i.contract(),
			Property: p.Name(),
			Want:     schema.ShapeReferences.String(),
			Got:      p.Shape().String(),
		}
	}

	e, ok := value.(Entity)
	if !ok || !reflect.TypeOf(value).Implements(p.Target()) {
		return i.mismatch(p, p.Target().String(), value)
	}

	i.seq(p).append(e)

	return nil
}

// Persist marks the instance as stored. It is idempotent.
func (i *Instance) Persist() { i.persisted = true }

// IsPersisted reports whether the instance was saved or loaded.
func (i *Instance) IsPersisted() bool { return i.persisted }

// Seal makes the instance immutable. It is idempotent.
func (i *Instance) Seal() { i.sealed = true }

func (i *Instance) IsSealed() bool { return i.sealed }

// ID returns the identifier value, if assigned.
func (i *Instance) ID() (any, bool) {
	v, ok := i.fields[storageID]
	if !ok || v == nil || reflect.ValueOf(v).IsZero() {
		return nil, false
	}

	return v, true
}

const storageID = naming.IDField

// assignable lets Set convert between numeric types when the value survives
// the conversion.
const assignable = primitive.CategorySafeNumber | primitive.CategoryUnsafeNumber

// Validate checks every constrained property and aggregates the violations.
func (i *Instance) Validate() error {
	v := i.f.compiler.Validator()

	var violations []validate.Violation

	for _, p := range i.schema.Properties() {
		constraints := p.Constraints()
		if len(constraints) == 0 || p.IsReference() {
			continue
		}

		value, err := i.Get(p.Name())
		if err != nil {
			return err
		}

		for _, violation := range v.Validate(value, constraints) {
			violation.Property = p.Name()
			violations = append(violations, violation)
		}
	}

	if len(violations) > 0 {
		return &validate.Error{Contract: i.contract(), Violations: violations}
	}

	return nil
}

// Document returns the stored form of the instance. Every referenced entity
// must carry an identifier.
func (i *Instance) Document() (storage.Document, error) {
	doc := make(storage.Document, len(i.fields)+len(i.refs)+len(i.seqs))

	for _, p := range i.schema.Properties() {
		key := p.StorageName()

		switch p.Shape() {
		case schema.ShapeScalar:
			if v, ok := i.fields[key]; ok && !p.IsComputed() {
				doc[key] = v
			}
		case schema.ShapeReference:
			if e, ok := i.refs[key]; ok {
				id, ok := e.entity().ID()
				if !ok {
					return nil, &docerr.MissingIdentifierError{Contract: i.contract(), Operation: "save", Property: p.Name()}
				}

				doc[key] = id
			} else if id, ok := i.fields[key]; ok {
				doc[key] = id
			}
		case schema.ShapeReferences:
			s, ok := i.seqs[key]
			if !ok {
				continue
			}

			ids, err := s.IDs()
			if err != nil {
				return nil, &docerr.MissingIdentifierError{Contract: i.contract(), Operation: "save", Property: p.Name()}
			}

			doc[key] = ids
		}
	}

	return doc, nil
}

func (i *Instance) collection() (storage.Collection, error) {
	return i.f.store.Collection(i.schema.CollectionName())
}

// Save validates the instance and upserts its document. An instance without
// identifier gets one from the factory's generator, if configured; the
// identifier is kept only once the document is stored.
func (i *Instance) Save(ctx context.Context) error {
	if err := i.Validate(); err != nil {
		return err
	}

	id, assigned := i.ID()
	if !assigned {
		if i.sealed {
			return &docerr.SealedEntityError{Contract: i.contract()}
		}

		var err error
		if id, err = i.generateID(); err != nil {
			return err
		}
	}

	doc, err := i.Document()
	if err != nil {
		return err
	}

	doc[storageID] = id

	c, err := i.collection()
	if err != nil {
		return fmt.Errorf("%s: save: %w", i.contract(), err)
	}

	if err := c.Upsert(ctx, id, doc); err != nil {
		return fmt.Errorf("%s: save %v: %w", i.contract(), id, err)
	}

	if !assigned {
		i.fields[storageID] = id
	}

	i.Persist()
	i.f.log.Debug("entity saved",
		zap.String("collection", i.schema.CollectionName()),
		zap.Any("id", id))

	return nil
}

func (i *Instance) generateID() (any, error) {
	p, ok := i.schema.Identifier()
	if !ok || i.f.ids == nil {
		return nil, &docerr.MissingIdentifierError{Contract: i.contract(), Operation: "save"}
	}

	id, err := i.f.ids(p)
	if err != nil {
		return nil, fmt.Errorf("%s: generate identifier: %w", i.contract(), err)
	}

	return i.coerce(p, id, assignable)
}

// Load replaces the state of the instance with the document stored under id.
func (i *Instance) Load(ctx context.Context, id any) error {
	if i.sealed {
		return &docerr.SealedEntityError{Contract: i.contract()}
	}

	c, err := i.collection()
	if err != nil {
		return fmt.Errorf("%s: load: %w", i.contract(), err)
	}

	doc, ok, err := c.Find(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: load %v: %w", i.contract(), id, err)
	}

	if !ok {
		return &docerr.NotFoundError{Collection: i.schema.CollectionName(), ID: id}
	}

	if err := i.apply(doc); err != nil {
		return err
	}

	if _, ok := i.ID(); !ok {
		if p, ok := i.schema.Identifier(); ok {
			if v, err := i.decode(p, id); err == nil {
				i.fields[storageID] = v
			}
		}
	}

	i.Persist()

	return nil
}

// apply replaces the fields with the decoded document.
func (i *Instance) apply(doc storage.Document) error {
	fields := map[string]any{}
	seqs := map[string]*Seq{}

	for _, p := range i.schema.Properties() {
		raw, ok := doc[p.StorageName()]
		if !ok || raw == nil || p.IsComputed() {
			continue
		}

		switch p.Shape() {
		case schema.ShapeReference:
			fields[p.StorageName()] = raw
		case schema.ShapeReferences:
			ids, ok := raw.([]any)
			if !ok {
				return i.mismatch(p, "identifier list", raw)
			}

			s := newSeq(i.f, p)
			for _, id := range ids {
				s.appendID(id)
			}

			seqs[p.StorageName()] = s
		default:
			v, err := i.decode(p, raw)
			if err != nil {
				return err
			}

			fields[p.StorageName()] = v
		}
	}

	i.fields = fields
	i.refs = map[string]Entity{}
	i.seqs = seqs

	return nil
}

// decode converts a stored value to the declared type of p. Composite
// values the scalar coercion doesn't cover go through a JSON round trip.
func (i *Instance) decode(p *schema.Property, raw any) (any, error) {
	v, err := i.coerce(p, raw, primitive.CategoryDocument)
	if err == nil || p.Kind() != 0 {
		return v, err
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return nil, i.mismatch(p, p.Type().String(), raw)
	}

	out := reflect.New(p.Type())
	if err := json.Unmarshal(data, out.Interface()); err != nil {
		return nil, i.mismatch(p, p.Type().String(), raw)
	}

	return out.Elem().Interface(), nil
}

// Drop deletes the stored document and clears the persisted flag.
func (i *Instance) Drop(ctx context.Context) error {
	id, ok := i.ID()
	if !ok {
		return &docerr.MissingIdentifierError{Contract: i.contract(), Operation: "drop"}
	}

	c, err := i.collection()
	if err != nil {
		return fmt.Errorf("%s: drop: %w", i.contract(), err)
	}

	if err := c.Delete(ctx, id); err != nil {
		return fmt.Errorf("%s: drop %v: %w", i.contract(), id, err)
	}

	i.persisted = false

	return nil
}

// canonical returns the JSON form of the document. Keys are sorted by
// encoding/json.
func (i *Instance) canonical() ([]byte, error) {
	doc, err := i.Document()
	if err != nil {
		return nil, err
	}

	return storage.Encode(doc)
}

// Equals reports whether other is an entity of the same contract with the
// same document.
func (i *Instance) Equals(other any) bool {
	e, ok := other.(Entity)
	if !ok || e == nil {
		return false
	}

	o := e.entity()
	if o == i {
		return true
	}

	if o == nil || o.schema.Contract() != i.schema.Contract() {
		return false
	}

	a, errA := i.canonical()
	b, errB := o.canonical()

	return errA == nil && errB == nil && string(a) == string(b)
}

// HashCode is consistent with Equals.
func (i *Instance) HashCode() uint64 {
	data, err := i.canonical()
	if err != nil {
		return xxhash.Sum64String(i.contract())
	}

	return xxhash.Sum64(data)
}

// String returns the JSON document.
func (i *Instance) String() string {
	data, err := i.canonical()
	if err != nil {
		return fmt.Sprintf("%s(%v)", i.contract(), err)
	}

	return string(data)
}

func (i *Instance) EntityClass() reflect.Type { return i.schema.Contract() }

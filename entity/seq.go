package entity

import (
	"context"
	"errors"
	"iter"
	"reflect"

	"golang.org/x/sync/errgroup"

	"docmapper/schema"
)

// Seq is the lazy value of a multi-reference property. Stored identifiers are
// fetched on iteration and the resolved entities are kept, so iterating again
// doesn't hit the store.
type Seq struct {
	f      *Factory
	target reflect.Type
	items  []seqItem
}

type seqItem struct {
	id any
	e  Entity
}

func newSeq(f *Factory, p *schema.Property) *Seq {
	return &Seq{f: f, target: p.Target()}
}

func (s *Seq) append(e Entity) { s.items = append(s.items, seqItem{e: e}) }

func (s *Seq) appendID(id any) { s.items = append(s.items, seqItem{id: id}) }

// Len returns the number of references.
func (s *Seq) Len() int { return len(s.items) }

// Target returns the referenced contract.
func (s *Seq) Target() reflect.Type { return s.target }

var errNoIdentifier = errors.New("referenced entity has no identifier")

// IDs returns the identifiers of the referenced entities.
func (s *Seq) IDs() ([]any, error) {
	ids := make([]any, 0, len(s.items))

	for _, it := range s.items {
		if it.e == nil {
			ids = append(ids, it.id)
			continue
		}

		id, ok := it.e.entity().ID()
		if !ok {
			return nil, errNoIdentifier
		}

		ids = append(ids, id)
	}

	return ids, nil
}

func (s *Seq) resolve(ctx context.Context, n int) (Entity, error) {
	if e := s.items[n].e; e != nil {
		return e, nil
	}

	e, err := s.f.Find(ctx, s.target, s.items[n].id)
	if err != nil {
		return nil, err
	}

	s.items[n].e = e

	return e, nil
}

// All iterates over the referenced entities, fetching unresolved ones. A
// fetch failure is yielded with a nil entity and ends the iteration.
func (s *Seq) All(ctx context.Context) iter.Seq2[Entity, error] {
	return func(yield func(Entity, error) bool) {
		for n := range s.items {
			e, err := s.resolve(ctx, n)
			if err != nil {
				yield(nil, err)
				return
			}

			if !yield(e, nil) {
				return
			}
		}
	}
}

// Slice resolves every reference and returns them in order.
func (s *Seq) Slice(ctx context.Context) ([]Entity, error) {
	out := make([]Entity, 0, len(s.items))

	for e, err := range s.All(ctx) {
		if err != nil {
			return nil, err
		}

		out = append(out, e)
	}

	return out, nil
}

// Resolve fetches every unresolved reference of the instance concurrently.
// At most the factory's resolve limit of fetches run at once.
func (i *Instance) Resolve(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(i.f.limit)

	type single struct {
		key string
		e   Entity
	}

	var singles []*single

	for _, p := range i.schema.Properties() {
		key := p.StorageName()

		switch p.Shape() {
		case schema.ShapeReference:
			if _, ok := i.refs[key]; ok {
				continue
			}

			id, ok := i.fields[key]
			if !ok {
				continue
			}

			r := &single{key: key}
			singles = append(singles, r)
			target := p.Target()

			g.Go(func() error {
				e, err := i.f.Find(ctx, target, id)
				r.e = e

				return err
			})
		case schema.ShapeReferences:
			s, ok := i.seqs[key]
			if !ok {
				continue
			}

			for n := range s.items {
				if s.items[n].e != nil {
					continue
				}

				g.Go(func() error {
					_, err := s.resolve(ctx, n)
					return err
				})
			}
		}
	}

	err := g.Wait()

	for _, r := range singles {
		if r.e != nil {
			i.refs[r.key] = r.e
			delete(i.fields, r.key)
		}
	}

	return err
}

package entity_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"docmapper/entity"
	"docmapper/metadata"
	"docmapper/schema"
	"docmapper/storage"
	"docmapper/storage/memstore"
	"docmapper/validate"
)

type Customer interface {
	entity.Entity
	GetID() string
	SetID(string) Customer
	GetName() string
	SetName(string) Customer
}

type Item interface {
	entity.Entity
	GetID() int64
	SetID(int64) Item
	GetSku() string
	SetSku(string) Item
	GetQty() int
	SetQty(int) Item
}

type Order interface {
	entity.Entity
	GetID() string
	SetID(string) Order
	GetTotal() float64
	SetTotal(float64) Order
	GetPlaced() time.Time
	SetPlaced(time.Time) Order
	GetTags() []string
	SetTags([]string) Order
	GetCustomer() Customer
	SetCustomer(Customer) Order
	GetItems() []Item
	SetItems([]Item) Order
	AddItem(Item) Order
	GetItemCount() int
}

// Unregistered compiles but has no wrapper.
type Unregistered interface {
	entity.Entity
	GetID() string
}

type customer struct{ *entity.Instance }

func (c customer) GetID() string { return entity.Value[string](c.Instance, "id") }

func (c customer) SetID(v string) Customer { return entity.MustSet(c.Instance, "id", v).(Customer) }

func (c customer) GetName() string { return entity.Value[string](c.Instance, "name") }

func (c customer) SetName(v string) Customer { return entity.MustSet(c.Instance, "name", v).(Customer) }

type item struct{ *entity.Instance }

func (i item) GetID() int64 { return entity.Value[int64](i.Instance, "id") }

func (i item) SetID(v int64) Item { return entity.MustSet(i.Instance, "id", v).(Item) }

func (i item) GetSku() string { return entity.Value[string](i.Instance, "sku") }

func (i item) SetSku(v string) Item { return entity.MustSet(i.Instance, "sku", v).(Item) }

func (i item) GetQty() int { return entity.Value[int](i.Instance, "qty") }

func (i item) SetQty(v int) Item { return entity.MustSet(i.Instance, "qty", v).(Item) }

type order struct{ *entity.Instance }

func (o order) GetID() string { return entity.Value[string](o.Instance, "id") }

func (o order) SetID(v string) Order { return entity.MustSet(o.Instance, "id", v).(Order) }

func (o order) GetTotal() float64 { return entity.Value[float64](o.Instance, "total") }

func (o order) SetTotal(v float64) Order { return entity.MustSet(o.Instance, "total", v).(Order) }

func (o order) GetPlaced() time.Time { return entity.Value[time.Time](o.Instance, "placed") }

func (o order) SetPlaced(v time.Time) Order { return entity.MustSet(o.Instance, "placed", v).(Order) }

func (o order) GetTags() []string { return entity.Value[[]string](o.Instance, "tags") }

func (o order) SetTags(v []string) Order { return entity.MustSet(o.Instance, "tags", v).(Order) }

func (o order) GetCustomer() Customer { return entity.Ref[Customer](o.Instance, "customer") }

func (o order) SetCustomer(v Customer) Order {
	return entity.MustSet(o.Instance, "customer", v).(Order)
}

func (o order) GetItems() []Item { return entity.Refs[Item](o.Instance, "items") }

func (o order) SetItems(v []Item) Order { return entity.MustSet(o.Instance, "items", v).(Order) }

func (o order) AddItem(v Item) Order { return entity.MustAdd(o.Instance, "items", v).(Order) }

func (o order) GetItemCount() int { return entity.Value[int](o.Instance, "itemCount") }

func itemCount(get func(string) (any, error)) (any, error) {
	v, err := get("items")
	if err != nil {
		return nil, err
	}

	return v.(*entity.Seq).Len(), nil
}

func shopMetadata() metadata.Map {
	md := metadata.Map{}

	metadata.For[Order](md, metadata.Contract{
		Accessors: map[string]metadata.Accessor{
			"GetTotal":     {Constraints: []string{"gte=0"}},
			"GetItemCount": {Compute: itemCount},
		},
	})
	metadata.For[Customer](md, metadata.Contract{
		Named: "clients",
		Accessors: map[string]metadata.Accessor{
			"GetName": {Constraints: []string{"required"}},
		},
	})

	return md
}

// countingStore counts Find calls across all collections.
type countingStore struct {
	storage.Store
	finds atomic.Int64
}

func (s *countingStore) Collection(name string) (storage.Collection, error) {
	c, err := s.Store.Collection(name)
	if err != nil {
		return nil, err
	}

	return &countingCollection{Collection: c, finds: &s.finds}, nil
}

type countingCollection struct {
	storage.Collection
	finds *atomic.Int64
}

func (c *countingCollection) Find(ctx context.Context, id any) (storage.Document, bool, error) {
	c.finds.Add(1)
	return c.Collection.Find(ctx, id)
}

type fixture struct {
	f     *entity.Factory
	store *countingStore
}

func newFixture(t *testing.T, opts ...entity.FactoryOption) *fixture {
	t.Helper()

	store := &countingStore{Store: memstore.New()}
	compiler := entity.NewCompiler(schema.WithMetadata(shopMetadata()), schema.WithValidator(validate.New()))

	f := entity.NewFactory(store, append([]entity.FactoryOption{entity.WithCompiler(compiler)}, opts...)...)

	require.NoError(t, entity.Register(f, func(i *entity.Instance) Customer { return customer{i} }))
	require.NoError(t, entity.Register(f, func(i *entity.Instance) Item { return item{i} }))
	require.NoError(t, entity.Register(f, func(i *entity.Instance) Order { return order{i} }))

	return &fixture{f: f, store: store}
}

func (fx *fixture) customer(t *testing.T, id, name string) Customer {
	t.Helper()

	c, err := entity.New[Customer](fx.f)
	require.NoError(t, err)

	c.SetID(id).SetName(name)
	require.NoError(t, c.Save(context.Background()))

	return c
}

func (fx *fixture) item(t *testing.T, id int64, sku string, qty int) Item {
	t.Helper()

	i, err := entity.New[Item](fx.f)
	require.NoError(t, err)

	i.SetID(id).SetSku(sku).SetQty(qty)
	require.NoError(t, i.Save(context.Background()))

	return i
}

func (fx *fixture) order(t *testing.T) Order {
	t.Helper()

	o, err := entity.New[Order](fx.f)
	require.NoError(t, err)

	return o
}

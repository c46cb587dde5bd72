package entity_test

import (
	"context"
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docmapper/docerr"
	"docmapper/entity"
	"docmapper/storage/memstore"
	"docmapper/validate"
)

func TestInstance_SealBlocksMutation(t *testing.T) {
	fx := newFixture(t)
	o := fx.order(t)
	o.SetTotal(10)

	o.Seal()
	o.Seal()

	i := entity.InstanceOf(o)
	assert.True(t, i.IsSealed())

	err := i.Set("total", 20.0)

	var sealed *docerr.SealedEntityError
	require.ErrorAs(t, err, &sealed)
	assert.Equal(t, "total", sealed.Property)
	require.ErrorIs(t, err, docerr.ErrState)

	err = i.Add("items", fx.item(t, 1, "A", 1))
	require.ErrorAs(t, err, &sealed)

	err = i.Add("total", fx.item(t, 2, "B", 1))
	require.ErrorAs(t, err, &sealed)
	assert.Equal(t, "total", sealed.Property)

	assert.Panics(t, func() { o.SetTotal(30) })
	assert.InDelta(t, 10.0, o.GetTotal(), 0)

	require.ErrorAs(t, o.Load(context.Background(), "o-1"), &sealed)
}

func TestInstance_PersistIsIdempotent(t *testing.T) {
	i := entity.InstanceOf(newFixture(t).order(t))
	assert.False(t, i.IsPersisted())

	i.Persist()
	i.Persist()

	assert.True(t, i.IsPersisted())
}

func TestInstance_GetSet(t *testing.T) {
	o := newFixture(t).order(t)
	i := entity.InstanceOf(o)

	assert.Zero(t, o.GetTotal())
	assert.Empty(t, o.GetID())
	assert.Nil(t, o.GetTags())
	assert.Nil(t, o.GetCustomer())
	assert.Empty(t, o.GetItems())

	o.SetTotal(12.5).SetTags([]string{"gift"})
	assert.InDelta(t, 12.5, o.GetTotal(), 0)
	assert.Equal(t, []string{"gift"}, o.GetTags())

	// lossless numeric conversion
	require.NoError(t, i.Set("total", 3))
	assert.InDelta(t, 3.0, o.GetTotal(), 0)

	v, err := i.Get("Total")
	require.NoError(t, err)
	assert.Equal(t, 3.0, v)

	require.NoError(t, i.Set("tags", nil))
	assert.Nil(t, o.GetTags())
}

func TestInstance_Errors(t *testing.T) {
	fx := newFixture(t)
	i := entity.InstanceOf(fx.order(t))

	var unknown *docerr.UnknownPropertyError
	_, err := i.Get("totl")
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "total", unknown.Suggestion)
	assert.Contains(t, err.Error(), `did you mean "total"?`)

	var mismatch *docerr.TypeMismatchError
	require.ErrorAs(t, i.Set("total", "lots"), &mismatch)
	assert.Equal(t, "float64", mismatch.Want)
	assert.Equal(t, "string", mismatch.Got)

	require.ErrorAs(t, i.Set("customer", fx.item(t, 1, "A", 1)), &mismatch)
	require.ErrorAs(t, i.Add("total", 1.0), &mismatch)
	require.ErrorAs(t, i.Set("items", "x"), &mismatch)

	var readOnly *docerr.ReadOnlyPropertyError
	require.ErrorAs(t, i.Set("itemCount", 3), &readOnly)
}

func TestInstance_ComputedProperty(t *testing.T) {
	fx := newFixture(t)
	o := fx.order(t).SetID("o-1")

	o.AddItem(fx.item(t, 1, "A", 1)).AddItem(fx.item(t, 2, "B", 2))
	assert.Equal(t, 2, o.GetItemCount())

	doc, err := entity.InstanceOf(o).Document()
	require.NoError(t, err)
	assert.NotContains(t, doc, "itemCount")
}

func TestInstance_SaveLoad(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	placed := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)

	o := fx.order(t).
		SetID("o-1").
		SetTotal(42.5).
		SetPlaced(placed).
		SetTags([]string{"gift", "express"}).
		SetCustomer(fx.customer(t, "c-1", "Ann")).
		AddItem(fx.item(t, 1, "A", 3)).
		AddItem(fx.item(t, 2, "B", 1))

	require.NoError(t, o.Save(ctx))
	assert.True(t, entity.InstanceOf(o).IsPersisted())

	orders, err := fx.store.Collection("orders")
	require.NoError(t, err)

	doc, ok, err := orders.Find(ctx, "o-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "c-1", doc["customer"])
	assert.Equal(t, []any{json.Number("1"), json.Number("2")}, doc["items"])
	assert.Equal(t, "o-1", doc["_id"])

	got, err := entity.Find[Order](ctx, fx.f, "o-1")
	require.NoError(t, err)

	assert.True(t, entity.InstanceOf(got).IsPersisted())
	assert.Equal(t, "o-1", got.GetID())
	assert.InDelta(t, 42.5, got.GetTotal(), 0)
	assert.True(t, placed.Equal(got.GetPlaced()), "placed %v", got.GetPlaced())
	assert.Equal(t, []string{"gift", "express"}, got.GetTags())
	assert.Equal(t, "Ann", got.GetCustomer().GetName())

	items := got.GetItems()
	require.Len(t, items, 2)
	assert.Equal(t, int64(1), items[0].GetID())
	assert.Equal(t, "A", items[0].GetSku())
	assert.Equal(t, 3, items[0].GetQty())
	assert.Equal(t, "B", items[1].GetSku())

	assert.True(t, o.Equals(got))
	assert.Equal(t, o.HashCode(), got.HashCode())
}

func TestInstance_CustomCollectionName(t *testing.T) {
	fx := newFixture(t)
	fx.customer(t, "c-1", "Ann")

	clients, err := fx.store.Collection("clients")
	require.NoError(t, err)

	_, ok, err := clients.Find(context.Background(), "c-1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestInstance_SaveRequiresIdentifier(t *testing.T) {
	fx := newFixture(t)

	err := fx.order(t).SetTotal(1).Save(context.Background())

	var missing *docerr.MissingIdentifierError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "save", missing.Operation)
	assert.Empty(t, missing.Property)
}

func TestInstance_SaveGeneratesIdentifier(t *testing.T) {
	fx := newFixture(t, entity.WithIDGenerator(entity.UUIDs))
	ctx := context.Background()

	o := fx.order(t).SetTotal(1)
	require.NoError(t, o.Save(ctx))

	id := o.GetID()
	assert.Len(t, id, 36)

	got, err := entity.Find[Order](ctx, fx.f, id)
	require.NoError(t, err)
	assert.Equal(t, id, got.GetID())
}

func TestInstance_FailedSaveKeepsNoIdentifier(t *testing.T) {
	fx := newFixture(t, entity.WithIDGenerator(entity.UUIDs))
	ctx := context.Background()

	c, err := entity.New[Customer](fx.f)
	require.NoError(t, err)

	o := fx.order(t).SetCustomer(c.SetName("Ann"))

	var missing *docerr.MissingIdentifierError
	require.ErrorAs(t, o.Save(ctx), &missing)
	assert.Empty(t, o.GetID())
	assert.False(t, entity.InstanceOf(o).IsPersisted())

	sealed := fx.order(t).SetTotal(2)
	sealed.Seal()

	var sealedErr *docerr.SealedEntityError
	require.ErrorAs(t, sealed.Save(ctx), &sealedErr)
	assert.Empty(t, sealed.GetID())
	assert.Zero(t, fx.store.Store.(*memstore.Store).Len("orders"))
}

func TestInstance_SequenceIdentifiers(t *testing.T) {
	fx := newFixture(t, entity.WithIDGenerator(entity.Sequence(100)))
	ctx := context.Background()

	a, err := entity.New[Item](fx.f)
	require.NoError(t, err)
	require.NoError(t, a.SetSku("A").Save(ctx))

	b, err := entity.New[Item](fx.f)
	require.NoError(t, err)
	require.NoError(t, b.SetSku("B").Save(ctx))

	assert.Equal(t, int64(100), a.GetID())
	assert.Equal(t, int64(101), b.GetID())

	// string identifiers can't come from a sequence
	err = fx.order(t).Save(ctx)
	require.Error(t, err)
}

func TestInstance_SaveValidates(t *testing.T) {
	fx := newFixture(t)

	c, err := entity.New[Customer](fx.f)
	require.NoError(t, err)

	err = c.SetID("c-1").Save(context.Background())

	var verr *validate.Error
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Violations, 1)
	assert.Equal(t, "name", verr.Violations[0].Property)
	assert.Len(t, verr.Errors(), 1)
	assert.False(t, entity.InstanceOf(c).IsPersisted())

	err = fx.order(t).SetID("o-1").SetTotal(-1).Save(context.Background())
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, validate.Constraint("gte=0"), verr.Violations[0].Constraint)
}

func TestInstance_SaveRequiresReferencedIdentifiers(t *testing.T) {
	fx := newFixture(t)

	c, err := entity.New[Customer](fx.f)
	require.NoError(t, err)

	err = fx.order(t).SetID("o-1").SetCustomer(c.SetName("Ann")).Save(context.Background())

	var missing *docerr.MissingIdentifierError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "customer", missing.Property)

	i, err := entity.New[Item](fx.f)
	require.NoError(t, err)

	err = fx.order(t).SetID("o-2").AddItem(i).Save(context.Background())
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "items", missing.Property)
}

func TestInstance_LoadMissing(t *testing.T) {
	fx := newFixture(t)

	_, err := entity.Find[Order](context.Background(), fx.f, "nope")

	var notFound *docerr.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "orders", notFound.Collection)
	assert.Equal(t, "nope", notFound.ID)
}

func TestInstance_Drop(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	var missing *docerr.MissingIdentifierError
	require.ErrorAs(t, fx.order(t).Drop(ctx), &missing)
	assert.Equal(t, "drop", missing.Operation)

	o := fx.order(t).SetID("o-1")
	require.NoError(t, o.Save(ctx))
	require.NoError(t, o.Drop(ctx))
	assert.False(t, entity.InstanceOf(o).IsPersisted())

	var notFound *docerr.NotFoundError
	_, err := entity.Find[Order](ctx, fx.f, "o-1")
	require.ErrorAs(t, err, &notFound)
}

func TestInstance_IdentifierChange(t *testing.T) {
	fx := newFixture(t)
	o := fx.order(t).SetID("o-1")

	o.SetID("o-2")
	require.NoError(t, o.Save(context.Background()))

	i := entity.InstanceOf(o)
	require.NoError(t, i.Set("id", "o-2"))

	var change *docerr.IdentifierChangeError
	require.ErrorAs(t, i.Set("id", "o-3"), &change)
	assert.Equal(t, "o-2", change.Old)
	assert.Equal(t, "o-3", change.New)

	require.ErrorAs(t, i.Set("id", nil), &change)
}

func TestInstance_EqualsHashString(t *testing.T) {
	fx := newFixture(t)

	a := fx.order(t).SetID("o-1").SetTotal(5)
	b := fx.order(t).SetID("o-1").SetTotal(5)
	c := fx.order(t).SetID("o-1").SetTotal(6)

	assert.True(t, a.Equals(b))
	assert.Equal(t, a.HashCode(), b.HashCode())
	assert.False(t, a.Equals(c))
	assert.NotEqual(t, a.HashCode(), c.HashCode())
	assert.False(t, a.Equals("o-1"))
	assert.False(t, a.Equals(nil))

	other, err := entity.New[Customer](fx.f)
	require.NoError(t, err)
	assert.False(t, a.Equals(other.SetID("o-1")))

	assert.JSONEq(t, `{"_id":"o-1","total":5}`, a.String())
	assert.Equal(t, reflect.TypeFor[Order](), a.EntityClass())
}

func TestInstance_LazyReferences(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	o := fx.order(t).SetID("o-1").
		SetCustomer(fx.customer(t, "c-1", "Ann")).
		AddItem(fx.item(t, 1, "A", 1)).
		AddItem(fx.item(t, 2, "B", 1))
	require.NoError(t, o.Save(ctx))

	fx.store.finds.Store(0)

	got, err := entity.Find[Order](ctx, fx.f, "o-1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, fx.store.finds.Load())

	assert.Equal(t, "Ann", got.GetCustomer().GetName())
	assert.Equal(t, "Ann", got.GetCustomer().GetName())
	assert.EqualValues(t, 2, fx.store.finds.Load(), "single reference fetched once")

	assert.Len(t, got.GetItems(), 2)
	assert.Len(t, got.GetItems(), 2)
	assert.EqualValues(t, 4, fx.store.finds.Load(), "multi reference fetched once per element")
}

func TestInstance_Resolve(t *testing.T) {
	fx := newFixture(t, entity.WithResolveLimit(2))
	ctx := context.Background()

	o := fx.order(t).SetID("o-1").SetCustomer(fx.customer(t, "c-1", "Ann"))
	for n := range int64(5) {
		o.AddItem(fx.item(t, n+1, "sku", 1))
	}

	require.NoError(t, o.Save(ctx))

	got, err := entity.Find[Order](ctx, fx.f, "o-1")
	require.NoError(t, err)

	fx.store.finds.Store(0)
	require.NoError(t, entity.InstanceOf(got).Resolve(ctx))
	assert.EqualValues(t, 6, fx.store.finds.Load())

	assert.Equal(t, "Ann", got.GetCustomer().GetName())
	assert.Len(t, got.GetItems(), 5)
	assert.EqualValues(t, 6, fx.store.finds.Load())

	require.NoError(t, entity.InstanceOf(got).Resolve(ctx))
	assert.EqualValues(t, 6, fx.store.finds.Load())
}

func TestInstance_ResolveFailure(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	gone := fx.item(t, 9, "gone", 1)
	o := fx.order(t).SetID("o-1").AddItem(gone)
	require.NoError(t, o.Save(ctx))
	require.NoError(t, gone.Drop(ctx))

	got, err := entity.Find[Order](ctx, fx.f, "o-1")
	require.NoError(t, err)

	var notFound *docerr.NotFoundError
	require.ErrorAs(t, entity.InstanceOf(got).Resolve(ctx), &notFound)
	assert.Panics(t, func() { got.GetItems() })
}

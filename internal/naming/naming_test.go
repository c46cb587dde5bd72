package naming

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docmapper/docerr"
)

func TestDecapitalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"A", "a"},
		{"a", "a"},
		{"URL", "URL"},
		{"URLe", "uRLe"},
		{"CamelCase", "camelCase"},
		{"camelCase", "camelCase"},
		{"ID", "ID"},
		{"Élan", "élan"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Decapitalize(tt.in))
		})
	}
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "", Capitalize(""))
	assert.Equal(t, "Title", Capitalize("title"))
	assert.Equal(t, "URL", Capitalize("uRL"))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		want AccessorKind
	}{
		{"GetTitle", AccessorGetter},
		{"SetTitle", AccessorSetter},
		{"AddItem", AccessorAdder},
		{"Get", AccessorUtility},
		{"Set", AccessorUtility},
		{"Save", AccessorUtility},
		{"EntityClass", AccessorUtility},
		{"Compute", AccessorInvalid},
		{"Remove", AccessorInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.name))
		})
	}
}

func TestAccessorKind_String(t *testing.T) {
	assert.Equal(t, "AccessorGetter", AccessorGetter.String())
	assert.Equal(t, "AccessorUtility", AccessorUtility.String())
	assert.Equal(t, "AccessorKind(42)", AccessorKind(42).String())
	assert.Equal(t, 5, AccessorTotal)
}

func TestPropertyName(t *testing.T) {
	tests := []struct {
		method string
		want   string
	}{
		{"GetTitle", "title"},
		{"SetTitle", "title"},
		{"AddItem", "item"},
		{"GetURL", "URL"},
		{"GetURLe", "uRLe"},
		{"GetX", "x"},
		{"GetSize", "size"},
		{"SetGadget", "gadget"},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			got, err := PropertyName(tt.method)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPropertyName_Invalid(t *testing.T) {
	for _, method := range []string{"Get", "Add", "Fetch", "title", ""} {
		t.Run(method, func(t *testing.T) {
			_, err := PropertyName(method)
			require.Error(t, err)

			var target *docerr.InvalidConventionError
			require.ErrorAs(t, err, &target)
			assert.Equal(t, method, target.Method)
			assert.True(t, errors.Is(err, docerr.ErrConvention))
		})
	}
}

func TestStorageName(t *testing.T) {
	tests := []struct {
		name    string
		getter  string
		markers Markers
		want    string
	}{
		{"plain", "GetTitle", Markers{}, "title"},
		{"acronym", "GetURL", Markers{}, "URL"},
		{"reserved id", "GetId", Markers{}, IDField},
		{"reserved ID", "GetID", Markers{}, IDField},
		{"id marker", "GetSku", Markers{ID: true}, IDField},
		{"renamed", "GetTitle", Markers{Named: "t"}, "t"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := StorageName(tt.getter, tt.markers)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStorageName_Conflicts(t *testing.T) {
	_, err := StorageName("GetSku", Markers{ID: true, Named: "sku"})

	var conflict *docerr.ConflictingMetadataError
	require.ErrorAs(t, err, &conflict)
	assert.ErrorIs(t, err, docerr.ErrMetadata)
	assert.Equal(t, "GetSku", conflict.Method)

	_, err = StorageName("GetSku", Markers{Named: IDField})
	require.ErrorAs(t, err, &conflict)

	_, err = StorageName("SetSku", Markers{})
	assert.ErrorIs(t, err, docerr.ErrConvention)
}

func TestCollectionName(t *testing.T) {
	assert.Equal(t, "orders", CollectionName("Order", ""))
	assert.Equal(t, "purchase", CollectionName("Order", "purchase"))
	assert.Equal(t, "lineItems", CollectionName("LineItem", ""))
}

func TestAccessorPairing(t *testing.T) {
	assert.Equal(t, "SetSize", SetterFor("GetSize"))
	assert.Equal(t, "SetGadget", SetterFor("GetGadget"))
	assert.Equal(t, "GetSize", GetterFor("SetSize"))
	assert.Equal(t, "GetItems", GetterFor("AddItems"))
	assert.Equal(t, "Save", GetterFor("Save"))

	assert.Equal(t, []string{"AddItems", "AddItem"}, AdderCandidates("GetItems"))
	assert.Equal(t, []string{"AddCategories", "AddCategory"}, AdderCandidates("GetCategories"))
	assert.Equal(t, []string{"AddAddress"}, AdderCandidates("GetAddress"))
	assert.Equal(t, []string{"AddStock"}, AdderCandidates("GetStock"))
}

func TestFold(t *testing.T) {
	assert.Equal(t, Fold("URL"), Fold("url"))
	assert.NotEqual(t, Fold("url"), Fold("uri"))
}

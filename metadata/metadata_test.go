package metadata

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type order interface {
	GetNumber() string
}

type customer interface {
	GetName() string
}

const sample = `
contracts:
  - contract: metadata.order
    named: purchases
    indexes:
      - fields: [customer, {field: total, order: desc}]
        unique: true
      - name: by_date
        fields:
          - {field: createdAt, order: -1}
    accessors:
      GetNumber: {id: true}
      GetTotal:
        constraints: ["gte=0"]
      GetSummary: {readonly: true}
`

func TestParse(t *testing.T) {
	f, err := Parse([]byte(sample))
	require.NoError(t, err)

	assert.Equal(t, "1", f.Version)
	require.Len(t, f.Contracts, 1)

	e := f.Contracts[0]
	assert.Equal(t, "metadata.order", e.Name)
	assert.Equal(t, "purchases", e.Named)
	require.Len(t, e.Indexes, 2)

	assert.Equal(t, []IndexField{{"customer", Ascending}, {"total", Descending}}, e.Indexes[0].Fields)
	assert.True(t, e.Indexes[0].Unique)
	assert.Equal(t, "customer_1_total_-1", e.Indexes[0].DefaultName())
	assert.Equal(t, "by_date", e.Indexes[1].Name)
	assert.Equal(t, Descending, e.Indexes[1].Fields[0].Order)

	assert.True(t, e.Accessor("GetNumber").ID)
	assert.Equal(t, []string{"gte=0"}, e.Accessor("GetTotal").Constraints)
	assert.True(t, e.Accessor("GetSummary").ReadOnly)
	assert.Equal(t, Accessor{}, e.Accessor("GetMissing"))
}

func TestParse_BadDirection(t *testing.T) {
	_, err := Parse([]byte(`
contracts:
  - contract: a.B
    indexes:
      - fields: [{field: x, order: sideways}]
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sideways")
}

func TestFile_RoundTrip(t *testing.T) {
	f, err := Parse([]byte(sample))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "meta.yaml")
	require.NoError(t, WriteFile(f, path))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, f, loaded)
}

func TestFile_Metadata(t *testing.T) {
	orderType := reflect.TypeFor[order]()

	f := &File{Contracts: []ContractEntry{
		{Name: "metadata.order", Contract: Contract{Named: "short"}},
		{Name: orderType.PkgPath() + ".order", Contract: Contract{Named: "full"}},
	}}

	md, ok := f.Metadata(orderType)
	require.True(t, ok)
	assert.Equal(t, "full", md.Named)

	_, ok = f.Metadata(reflect.TypeFor[customer]())
	assert.False(t, ok)

	var nilFile *File
	_, ok = nilFile.Metadata(orderType)
	assert.False(t, ok)
}

func TestChain(t *testing.T) {
	compute := func(func(string) (any, error)) (any, error) { return "computed", nil }

	m := Map{}
	For[order](m, Contract{
		Accessors: map[string]Accessor{
			"GetSummary": {Compute: compute},
			"GetTotal":   {Constraints: []string{"required"}},
		},
	})

	f, err := Parse([]byte(sample))
	require.NoError(t, err)

	md, ok := Chain{nil, m, f}.Metadata(reflect.TypeFor[order]())
	require.True(t, ok)

	assert.Equal(t, "purchases", md.Named)
	assert.Len(t, md.Indexes, 2)
	assert.True(t, md.Accessor("GetNumber").ID)
	assert.Equal(t, []string{"required", "gte=0"}, md.Accessor("GetTotal").Constraints)
	assert.NotNil(t, md.Accessor("GetSummary").Compute)
	assert.True(t, md.Accessor("GetSummary").ReadOnly)

	_, ok = Chain{m}.Metadata(reflect.TypeFor[customer]())
	assert.False(t, ok)

	_, ok = None.Metadata(reflect.TypeFor[order]())
	assert.False(t, ok)
}

func TestValidate(t *testing.T) {
	f, err := Parse([]byte(`
contracts:
  - contract: shop.Order
    accessors:
      GetNumber: {id: true, named: number}
      GetCode: {id: true}
      SetNumber: {readonly: true}
      GetTotal: {constraints: [""]}
    indexes:
      - fields: []
      - fields: [total]
      - name: total_1
        fields: [total]
  - contract: shop.Order
  - contract: Customer
  - named: nothing
`))
	require.NoError(t, err)

	res := Validate(f)
	assert.True(t, res.HasErrors())
	assert.ElementsMatch(t, []string{
		"conflicting_markers",
		"not_a_getter",
		"empty_constraint",
		"duplicate_identifier",
		"empty_index",
		"duplicate_index",
		"duplicate_contract",
		"unqualified_contract",
		"missing_contract",
	}, res.Codes())

	assert.False(t, Validate(nil).IsValid())
}

func TestValidate_Clean(t *testing.T) {
	f, err := Parse([]byte(sample))
	require.NoError(t, err)

	res := Validate(f)
	assert.True(t, res.IsValid(), res.Error())
}

package analyze

import (
	"go/types"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImports(t *testing.T) {
	shop := types.NewPackage("docmapper/examples/shop", "shop")
	entity := types.NewPackage("docmapper/entity", "entity")
	other := types.NewPackage("example.com/other/entity", "entity")

	named := func(pkg *types.Package, name string) types.Type {
		return types.NewNamed(types.NewTypeName(0, pkg, name, nil), types.NewStruct(nil, nil), nil)
	}

	im := NewImports(shop.Path())

	assert.Equal(t, "Order", im.TypeString(named(shop, "Order")))
	assert.Equal(t, "[]entity.Instance", im.TypeString(types.NewSlice(named(entity, "Instance"))))
	assert.Equal(t, "*entity2.Thing", im.TypeString(types.NewPointer(named(other, "Thing"))))
	assert.Equal(t, "entity", im.Add("docmapper/entity", "entity"))

	assert.Equal(t, []Import{
		{Path: "docmapper/entity"},
		{Path: "example.com/other/entity", Alias: "entity2"},
	}, im.List())
}

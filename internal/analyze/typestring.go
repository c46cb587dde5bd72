package analyze

import (
	"go/types"
	"sort"
	"strconv"

	"docmapper/internal/common"
)

// Imports renders types relative to one package and records the imports the
// rendered strings need.
type Imports struct {
	self  string
	names map[string]string // import path -> local name
	taken map[string]string // local name -> import path
}

// NewImports creates Imports for code living in package pkgPath.
func NewImports(pkgPath string) *Imports {
	return &Imports{
		self:  pkgPath,
		names: make(map[string]string),
		taken: make(map[string]string),
	}
}

// Add records an import and returns the local name to qualify it with.
// Colliding package names get a numeric suffix.
func (im *Imports) Add(path, name string) string {
	if local, ok := im.names[path]; ok {
		return local
	}

	if name == "" {
		name = common.PkgAlias(path)
	}

	local := name
	for n := 2; ; n++ {
		if _, used := im.taken[local]; !used {
			break
		}

		local = name + strconv.Itoa(n)
	}

	im.names[path] = local
	im.taken[local] = path

	return local
}

// Qualifier implements types.Qualifier.
func (im *Imports) Qualifier(pkg *types.Package) string {
	if pkg == nil || pkg.Path() == im.self {
		return ""
	}

	return im.Add(pkg.Path(), pkg.Name())
}

// TypeString returns t as written in the package.
func (im *Imports) TypeString(t types.Type) string {
	return types.TypeString(t, im.Qualifier)
}

// Import is one line of an import block.
type Import struct {
	Path  string
	Alias string // set when the local name differs from the package name
}

// List returns the recorded imports sorted by path.
func (im *Imports) List() []Import {
	out := make([]Import, 0, len(im.names))

	for path, local := range im.names {
		imp := Import{Path: path}
		if local != common.PkgAlias(path) {
			imp.Alias = local
		}

		out = append(out, imp)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })

	return out
}

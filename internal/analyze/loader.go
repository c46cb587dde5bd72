package analyze

import (
	"fmt"
	"go/types"
	"path/filepath"

	"golang.org/x/tools/go/packages"
)

// EntityPkgPath and EntityName identify the entity base contract.
const (
	EntityPkgPath = "docmapper/entity"
	EntityName    = "Entity"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports |
	packages.NeedDeps

// Analyzer loads Go packages and extracts their interface contracts.
type Analyzer struct {
	graph     *TypeGraph
	dir       string
	entity    *types.Interface
	typeCache map[types.Type]*TypeInfo // Cache to handle recursive types
}

// NewAnalyzer creates a new Analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		graph:     NewTypeGraph(),
		typeCache: make(map[types.Type]*TypeInfo),
	}
}

// WithDir sets the directory patterns are resolved against.
func (a *Analyzer) WithDir(dir string) *Analyzer {
	a.dir = dir
	return a
}

// LoadPackages loads the specified packages and builds the type graph.
// Patterns are standard Go package patterns (e.g., "./shop", "docmapper/examples/shop").
func (a *Analyzer) LoadPackages(patterns ...string) (*TypeGraph, error) {
	cfg := &packages.Config{
		Mode: LoadMode,
		Dir:  a.dir,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	// Check for package errors
	var errs []error
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors: %v", errs)
	}

	a.entity = findEntity(pkgs)

	// Process each package
	for _, pkg := range pkgs {
		a.processPackage(pkg)
	}

	return a.graph, nil
}

// Graph returns the current type graph.
func (a *Analyzer) Graph() *TypeGraph {
	return a.graph
}

// Entity returns the entity base found while loading, or nil.
func (a *Analyzer) Entity() *types.Interface {
	return a.entity
}

// findEntity looks up the entity base among the loaded packages and their
// dependencies.
func findEntity(pkgs []*packages.Package) *types.Interface {
	var found *types.Interface

	packages.Visit(pkgs, func(pkg *packages.Package) bool {
		if found != nil {
			return false
		}

		if pkg.PkgPath != EntityPkgPath || pkg.Types == nil {
			return true
		}

		if obj, ok := pkg.Types.Scope().Lookup(EntityName).(*types.TypeName); ok {
			found, _ = obj.Type().Underlying().(*types.Interface)
		}

		return false
	}, nil)

	return found
}

// processPackage extracts the exported interfaces of a loaded package.
func (a *Analyzer) processPackage(pkg *packages.Package) {
	pkgInfo := &PackageInfo{
		Path:  pkg.PkgPath,
		Name:  pkg.Name,
		Types: pkg.Types,
	}

	if len(pkg.GoFiles) > 0 {
		pkgInfo.Dir = filepath.Dir(pkg.GoFiles[0])
	}

	a.graph.Packages[pkg.PkgPath] = pkgInfo

	scope := pkg.Types.Scope()
	for _, name := range scope.Names() {
		typeName, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || !typeName.Exported() || typeName.IsAlias() {
			continue
		}

		named, ok := typeName.Type().(*types.Named)
		if !ok {
			continue
		}

		iface, ok := named.Underlying().(*types.Interface)
		if !ok {
			continue
		}

		id := TypeID{PkgPath: pkg.PkgPath, Name: name}
		a.graph.Contracts[id] = a.analyzeContract(pkg, id, named, iface)
		pkgInfo.Contracts = append(pkgInfo.Contracts, id)
	}
}

func (a *Analyzer) analyzeContract(pkg *packages.Package, id TypeID, named *types.Named,
	iface *types.Interface,
) *ContractInfo {
	info := &ContractInfo{
		ID:       id,
		GoType:   named,
		IsEntity: a.isEntity(named),
		Pos:      pkg.Fset.Position(named.Obj().Pos()),
	}

	// the complete method set, ordered by method id
	for i := range iface.NumMethods() {
		m := iface.Method(i)
		sig := m.Type().(*types.Signature)

		method := MethodInfo{
			Name:     m.Name(),
			Exported: m.Exported(),
			Variadic: sig.Variadic(),
			Pos:      pkg.Fset.Position(m.Pos()),
		}

		for j := range sig.Params().Len() {
			method.Params = append(method.Params, a.analyzeType(sig.Params().At(j).Type()))
		}

		for j := range sig.Results().Len() {
			method.Results = append(method.Results, a.analyzeType(sig.Results().At(j).Type()))
		}

		if a.entity != nil {
			if obj, _, _ := types.LookupFieldOrMethod(a.entity, false, m.Pkg(), m.Name()); obj != nil {
				method.Inherited = types.Identical(obj.Type(), m.Type())
				method.Override = !method.Inherited
			}
		}

		info.Methods = append(info.Methods, method)
	}

	return info
}

func (a *Analyzer) isEntity(t types.Type) bool {
	if a.entity == nil {
		return false
	}

	if _, ok := t.Underlying().(*types.Interface); !ok {
		return false
	}

	return types.Implements(t, a.entity)
}

// analyzeType recursively analyzes a go/types.Type and returns a TypeInfo.
func (a *Analyzer) analyzeType(t types.Type) *TypeInfo {
	// Check cache to handle recursive types
	if cached, ok := a.typeCache[t]; ok {
		return cached
	}

	info := &TypeInfo{
		GoType: t,
	}

	// Pre-cache to handle recursive types (we'll fill in details)
	a.typeCache[t] = info

	switch tt := t.(type) {
	case *types.Named:
		a.analyzeNamedType(tt, info)

	case *types.Basic:
		info.Kind = TypeKindBasic

	case *types.Pointer:
		info.Kind = TypeKindPointer
		info.ElemType = a.analyzeType(tt.Elem())

	case *types.Slice:
		info.Kind = TypeKindSlice
		info.ElemType = a.analyzeType(tt.Elem())

	case *types.Map:
		info.Kind = TypeKindMap

	case *types.Struct:
		info.Kind = TypeKindStruct

	case *types.Interface:
		info.Kind = TypeKindInterface

	case *types.Chan, *types.Signature:
		info.Kind = TypeKindUnsupported

	default:
		info.Kind = TypeKindUnknown
	}

	return info
}

// analyzeNamedType analyzes a named type.
func (a *Analyzer) analyzeNamedType(named *types.Named, info *TypeInfo) {
	obj := named.Obj()
	if obj.Pkg() != nil {
		info.ID = TypeID{PkgPath: obj.Pkg().Path(), Name: obj.Name()}
	} else {
		// predeclared error
		info.ID = TypeID{Name: obj.Name()}
	}

	switch ut := named.Underlying().(type) {
	case *types.Interface:
		info.Kind = TypeKindInterface
		if a.isEntity(named) {
			info.Kind = TypeKindEntity
		}

	case *types.Struct:
		info.Kind = TypeKindStruct
		if a.isExternalPackage(info.ID.PkgPath) {
			info.Kind = TypeKindExternal
		}

	case *types.Basic:
		// e.g., type OrderStatus string
		info.Kind = TypeKindAlias
		info.ElemType = a.analyzeType(ut)

	default:
		info.Kind = TypeKindExternal
	}
}

// isExternalPackage returns true if the package is not in our analyzed set.
func (a *Analyzer) isExternalPackage(pkgPath string) bool {
	_, ok := a.graph.Packages[pkgPath]
	return !ok
}

// GetContract returns the ContractInfo of an exported interface.
func (a *Analyzer) GetContract(pkgPath, typeName string) (*ContractInfo, error) {
	id := TypeID{PkgPath: pkgPath, Name: typeName}

	info := a.graph.GetContract(id)
	if info == nil {
		return nil, fmt.Errorf("contract %s not found", id)
	}

	return info, nil
}

package analyze

import (
	"go/token"
	"go/types"
	"sort"
)

// TypeID uniquely identifies a type by its package path and name.
type TypeID struct {
	PkgPath string // e.g., "docmapper/examples/shop"
	Name    string // e.g., "Order"
}

// String returns a human-readable representation of the TypeID.
func (t TypeID) String() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return t.PkgPath + "." + t.Name
}

// TypeKind represents the kind of a type.
type TypeKind int

const (
	TypeKindUnknown    TypeKind = iota
	TypeKindBasic               // int, string, bool, etc.
	TypeKindStruct              // struct type
	TypeKindPointer             // pointer to another type
	TypeKindSlice               // slice of another type
	TypeKindMap                 // map type
	TypeKindInterface           // interface type other than an entity contract
	TypeKindEntity              // interface implementing the entity base
	TypeKindAlias               // named type wrapping a basic type
	TypeKindExternal            // external/opaque type (e.g., time.Time)
	TypeKindUnsupported         // channels and functions
)

// String returns a human-readable representation of the TypeKind.
func (k TypeKind) String() string {
	switch k {
	case TypeKindBasic:
		return "basic"
	case TypeKindStruct:
		return "struct"
	case TypeKindPointer:
		return "pointer"
	case TypeKindSlice:
		return "slice"
	case TypeKindMap:
		return "map"
	case TypeKindInterface:
		return "interface"
	case TypeKindEntity:
		return "entity"
	case TypeKindAlias:
		return "alias"
	case TypeKindExternal:
		return "external"
	case TypeKindUnsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

// TypeInfo describes the type of a parameter or result.
type TypeInfo struct {
	ID       TypeID     // Unique identifier (empty for unnamed types like *T or []T)
	Kind     TypeKind   // Kind of type
	ElemType *TypeInfo  // For pointers and slices, the element type
	GoType   types.Type // The original go/types.Type
}

// IsNamed returns true if this type has a name (TypeID is set).
func (t *TypeInfo) IsNamed() bool {
	return t.ID.Name != ""
}

// IsEntity reports whether the type is a reference to an entity contract.
func (t *TypeInfo) IsEntity() bool {
	return t != nil && t.Kind == TypeKindEntity
}

// IsEntitySlice reports whether the type is a slice of entity contracts.
func (t *TypeInfo) IsEntitySlice() bool {
	return t != nil && t.Kind == TypeKindSlice && t.ElemType.IsEntity()
}

// MethodInfo describes one method of a contract's method set.
type MethodInfo struct {
	Name      string
	Exported  bool
	Params    []*TypeInfo
	Results   []*TypeInfo
	Variadic  bool
	Inherited bool // identical to a method of the entity base
	Override  bool // same name as a base method, different signature
	Pos       token.Position
}

// ContractInfo describes an exported interface type.
type ContractInfo struct {
	ID       TypeID
	IsEntity bool // implements the entity base
	Methods  []MethodInfo
	GoType   *types.Named
	Pos      token.Position
}

// Method returns the method called name.
func (c *ContractInfo) Method(name string) (*MethodInfo, bool) {
	for i := range c.Methods {
		if c.Methods[i].Name == name {
			return &c.Methods[i], true
		}
	}

	return nil, false
}

// Implements reports whether the contract implements the interface t.
func (c *ContractInfo) Implements(t types.Type) bool {
	iface, ok := t.Underlying().(*types.Interface)
	if !ok {
		return false
	}

	return types.Implements(c.GoType, iface)
}

// TypeGraph holds all analyzed contracts from loaded packages.
type TypeGraph struct {
	// Contracts maps TypeID to ContractInfo for all exported interfaces.
	Contracts map[TypeID]*ContractInfo
	// Packages maps package paths to their package info.
	Packages map[string]*PackageInfo
}

// NewTypeGraph creates a new empty TypeGraph.
func NewTypeGraph() *TypeGraph {
	return &TypeGraph{
		Contracts: make(map[TypeID]*ContractInfo),
		Packages:  make(map[string]*PackageInfo),
	}
}

// GetContract returns the ContractInfo for a given TypeID, or nil if not found.
func (g *TypeGraph) GetContract(id TypeID) *ContractInfo {
	return g.Contracts[id]
}

// Entities returns the entity contracts of pkgPath sorted by name.
func (g *TypeGraph) Entities(pkgPath string) []*ContractInfo {
	pkg, ok := g.Packages[pkgPath]
	if !ok {
		return nil
	}

	var out []*ContractInfo

	for _, id := range pkg.Contracts {
		if c := g.Contracts[id]; c != nil && c.IsEntity {
			out = append(out, c)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID.Name < out[j].ID.Name })

	return out
}

// PackageInfo holds information about a loaded package.
type PackageInfo struct {
	Path      string   // Import path
	Name      string   // Package name
	Dir       string   // Directory of the package sources
	Contracts []TypeID // Exported interfaces defined in this package
	Types     *types.Package
}

package lint

import (
	"fmt"
	"go/types"
	"reflect"
	"slices"
	"strings"

	"docmapper/internal/analyze"
	"docmapper/internal/common"
	"docmapper/internal/diagnostic"
	"docmapper/internal/naming"
	"docmapper/metadata"
	"docmapper/validate"
)

// Diagnostic codes.
const (
	CodeUnknownConvention  = "unknown_convention"
	CodeIllegalOverride    = "illegal_override"
	CodeInvalidConvention  = "invalid_convention"
	CodeDuplicateSetter    = "duplicate_setter"
	CodeNamingConflict     = "naming_conflict"
	CodeDuplicateID        = "duplicate_identifier"
	CodeConflictingMarkers = "conflicting_markers"
	CodeMissingSetter      = "missing_setter"
	CodeInvalidSetter      = "invalid_setter"
	CodeMissingAdder       = "missing_adder"
	CodeInvalidAdder       = "invalid_adder"
	CodeOrphanSetter       = "orphan_setter"
	CodeOrphanAdder        = "orphan_adder"
	CodeUnknownAccessor    = "unknown_accessor"
	CodeIndexField         = "index_field"
	CodeInvalidConstraint  = "invalid_constraint"

	// warnings
	CodeUnsupportedType = "unsupported_type"
	CodeNoIdentifier    = "no_identifier"
)

var errorType = types.Universe.Lookup("error").Type()

// Check lints every entity contract of graph. md is optional.
func Check(graph *analyze.TypeGraph, md *metadata.File) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if graph == nil {
		res.AddError("graph_is_nil", "type graph is nil", "", "")
		return res
	}

	base := analyze.TypeID{PkgPath: analyze.EntityPkgPath, Name: analyze.EntityName}
	v := validate.New()

	paths := make([]string, 0, len(graph.Packages))
	for path := range graph.Packages {
		paths = append(paths, path)
	}

	slices.Sort(paths)

	found := 0

	for _, path := range paths {
		for _, c := range graph.Entities(path) {
			if c.ID == base {
				continue
			}

			found++

			contract, _ := md.Lookup(c.ID.PkgPath, c.ID.Name)
			newChecker(res, c, contract, v).run()
		}
	}

	if found == 0 {
		res.AddInfo("no_contracts", "no entity contracts found", "", "")
	}

	return res
}

// getter is a getter that passed the signature checks.
type getter struct {
	method  *analyze.MethodInfo
	name    string // logical
	storage string
	id      bool
}

// checker holds the state of one contract check.
type checker struct {
	res *diagnostic.Diagnostics
	c   *analyze.ContractInfo
	md  metadata.Contract
	v   validate.Checker

	name string // pkg.Name

	getterNames []string            // every Get* method
	setters     map[string]string   // folded logical name -> setter
	adders      map[string]struct{} // pending adders
	folded      map[string]string   // folded logical name -> getter
	storage     map[string]*getter  // storage name -> getter
	getters     []*getter
}

func newChecker(res *diagnostic.Diagnostics, c *analyze.ContractInfo, md metadata.Contract,
	v validate.Checker,
) *checker {
	return &checker{
		res:     res,
		c:       c,
		md:      md,
		v:       v,
		name:    common.ShortName(c.ID.PkgPath, c.ID.Name),
		setters: map[string]string{},
		adders:  map[string]struct{}{},
		folded:  map[string]string{},
		storage: map[string]*getter{},
	}
}

func (k *checker) errorf(code, method, format string, args ...any) {
	k.res.AddError(code, fmt.Sprintf(format, args...), k.name, method)
}

func (k *checker) run() {
	methods := slices.Clone(k.c.Methods)
	slices.SortStableFunc(methods, func(a, b analyze.MethodInfo) int { return strings.Compare(a.Name, b.Name) })

	for _, m := range methods {
		if !m.Inherited && naming.Classify(m.Name) == naming.AccessorGetter {
			k.getterNames = append(k.getterNames, m.Name)
		}
	}

	var getters []*analyze.MethodInfo

	for i := range methods {
		m := &methods[i]
		if m.Inherited {
			continue
		}

		if k.method(m) {
			getters = append(getters, m)
		}
	}

	for _, m := range getters {
		k.getter(m)
	}

	k.orphans()
	k.metadata()

	if !slices.ContainsFunc(k.getters, func(g *getter) bool { return g.id }) {
		k.res.AddWarning(CodeNoIdentifier,
			"contract has no identifier property, saving requires an identifier generator", k.name, "")
	}
}

// method classifies m and records setters and adders. It reports whether m
// is a getter to check once every setter is known.
func (k *checker) method(m *analyze.MethodInfo) bool {
	if !m.Exported {
		k.errorf(CodeUnknownConvention, m.Name, "unexported method %s can't be an accessor", m.Name)
		return false
	}

	if m.Override {
		k.errorf(CodeIllegalOverride, m.Name, "%s redeclares a base method with a different signature", m.Name)
		return false
	}

	switch naming.Classify(m.Name) {
	case naming.AccessorUtility:
		k.errorf(CodeIllegalOverride, m.Name, "don't declare custom %s methods", m.Name)

	case naming.AccessorSetter:
		prop, err := naming.PropertyName(m.Name)
		if err != nil {
			k.errorf(CodeInvalidConvention, m.Name, "setter has no property name")
			return false
		}

		key := naming.Fold(prop)
		if first, ok := k.setters[key]; ok {
			k.errorf(CodeDuplicateSetter, m.Name, "property %s already has setter %s", prop, first)
			return false
		}

		k.setters[key] = m.Name

	case naming.AccessorAdder:
		if _, err := naming.PropertyName(m.Name); err != nil {
			k.errorf(CodeInvalidConvention, m.Name, "adder has no property name")
			return false
		}

		k.adders[m.Name] = struct{}{}

	case naming.AccessorGetter:
		return true

	default:
		k.res.AddError(CodeUnknownConvention,
			fmt.Sprintf("%s is neither a getter, setter, adder nor a utility method", m.Name),
			k.name, m.Name, k.suggest(m.Name)...)
	}

	return false
}

// suggest returns the accessor name closest to method, if any.
func (k *checker) suggest(method string) []string {
	candidates := slices.Clone(k.getterNames)
	for _, g := range k.getterNames {
		candidates = append(candidates, naming.SetterFor(g))
		candidates = append(candidates, naming.AdderCandidates(g)...)
	}

	candidates = append(candidates, naming.UtilityMethods()...)

	if s, ok := naming.Suggest(method, candidates); ok {
		return []string{s}
	}

	return nil
}

func (k *checker) getter(m *analyze.MethodInfo) {
	if len(m.Params) != 0 || len(m.Results) != 1 {
		k.errorf(CodeInvalidConvention, m.Name, "getters take no arguments and return exactly one value")
		return
	}

	prop, err := naming.PropertyName(m.Name)
	if err != nil {
		k.errorf(CodeInvalidConvention, m.Name, "getter has no property name")
		return
	}

	key := naming.Fold(prop)
	if first, ok := k.folded[key]; ok {
		k.errorf(CodeNamingConflict, m.Name, "%s and %s both map to property %q", first, m.Name, prop)
		return
	}

	k.folded[key] = m.Name

	acc := k.md.Accessor(m.Name)

	storage, err := naming.StorageName(m.Name, naming.Markers{ID: acc.ID, Named: acc.Named})
	if err != nil {
		k.errorf(CodeConflictingMarkers, m.Name, "%v", unwrapReason(err))
		return
	}

	g := &getter{method: m, name: prop, storage: storage, id: storage == naming.IDField}

	if other, ok := k.storage[storage]; ok {
		if g.id && other.id {
			k.errorf(CodeDuplicateID, m.Name, "only one identifier property allowed, found %s and %s",
				other.method.Name, m.Name)
		} else {
			k.errorf(CodeNamingConflict, m.Name, "%s and %s both store field %q", other.method.Name, m.Name, storage)
		}

		return
	}

	result, _ := common.First(m.Results)

	switch {
	case result.IsEntity(), result.IsEntitySlice():
		target := result
		if result.IsEntitySlice() {
			target = result.ElemType
		}

		if target.ID.PkgPath == analyze.EntityPkgPath && target.ID.Name == analyze.EntityName {
			k.errorf(CodeInvalidConvention, m.Name, "references must name a concrete contract, not the base contract")
			return
		}

		if g.id {
			k.errorf(CodeConflictingMarkers, m.Name, "a reference can't be the identifier")
			return
		}

	case result.Kind == analyze.TypeKindUnsupported, result.Kind == analyze.TypeKindInterface && result.IsNamed():
		k.res.AddWarning(CodeUnsupportedType,
			fmt.Sprintf("values of type %s can't be stored", typeString(result.GoType)), k.name, m.Name)
	}

	k.storage[storage] = g
	k.getters = append(k.getters, g)

	k.setter(g, result, acc.ReadOnly)

	if result.IsEntitySlice() {
		k.adder(g, result.ElemType, acc.ReadOnly)
	}
}

func (k *checker) setter(g *getter, result *analyze.TypeInfo, readOnly bool) {
	name := naming.SetterFor(g.method.Name)

	m, ok := k.c.Method(name)
	if !ok {
		if g.id || readOnly {
			return
		}

		k.errorf(CodeMissingSetter, g.method.Name, "method %s has no corresponding %s method", g.method.Name, name)

		return
	}

	if k.setters[naming.Fold(g.name)] == name {
		delete(k.setters, naming.Fold(g.name))
	}

	if readOnly {
		k.errorf(CodeConflictingMarkers, g.method.Name, "read-only property declares setter %s", name)
		return
	}

	if reason := k.mutator(m, result.GoType); reason != "" {
		k.errorf(CodeInvalidSetter, name, "%s", reason)
	}
}

func (k *checker) adder(g *getter, elem *analyze.TypeInfo, readOnly bool) {
	candidates := naming.AdderCandidates(g.method.Name)

	var (
		found  string
		reason string
	)

	for _, name := range candidates {
		m, ok := k.c.Method(name)
		if !ok {
			continue
		}

		delete(k.adders, name)

		if r := k.mutator(m, elem.GoType); r != "" {
			reason = r
			continue
		}

		found = name

		break
	}

	switch {
	case found != "" && readOnly:
		k.errorf(CodeConflictingMarkers, g.method.Name, "read-only property declares adder %s", found)
	case found != "" || readOnly:
	case reason != "":
		k.errorf(CodeInvalidAdder, g.method.Name, "%s", reason)
	default:
		k.errorf(CodeMissingAdder, g.method.Name, "method %s has no corresponding %s method",
			g.method.Name, strings.Join(candidates, " or "))
	}
}

// mutator validates a setter or adder signature: one parameter of type param,
// and no result, an error, or an interface the contract implements.
func (k *checker) mutator(m *analyze.MethodInfo, param types.Type) string {
	in, ok := common.Only(m.Params)
	if !ok || m.Variadic || !types.Identical(in.GoType, param) {
		return "expected exactly one parameter of type " + typeString(param)
	}

	if len(m.Results) > 1 {
		return "at most one result allowed"
	}

	out, ok := common.First(m.Results)
	if !ok || types.Identical(out.GoType, errorType) {
		return ""
	}

	if _, isIface := out.GoType.Underlying().(*types.Interface); isIface && k.c.Implements(out.GoType) {
		return ""
	}

	return "result must be error or an interface implemented by " + k.c.ID.Name
}

// orphans reports the setters and adders no getter consumed.
func (k *checker) orphans() {
	var getters []string
	for _, g := range k.getters {
		getters = append(getters, g.method.Name)
	}

	setters := make([]string, 0, len(k.setters))
	for _, name := range k.setters {
		setters = append(setters, name)
	}

	slices.Sort(setters)

	for _, name := range setters {
		var suggestions []string
		if s, ok := naming.Suggest(naming.GetterFor(name), getters); ok {
			suggestions = append(suggestions, s)
		}

		k.res.AddError(CodeOrphanSetter, "setter has no matching getter", k.name, name, suggestions...)
	}

	adders := make([]string, 0, len(k.adders))
	for name := range k.adders {
		adders = append(adders, name)
	}

	slices.Sort(adders)

	for _, name := range adders {
		k.errorf(CodeOrphanAdder, name, "adder has no matching collection getter")
	}
}

// metadata checks the markers against the contract.
func (k *checker) metadata() {
	names := make([]string, 0, len(k.md.Accessors))
	for name := range k.md.Accessors {
		names = append(names, name)
	}

	slices.Sort(names)

	for _, name := range names {
		m, ok := k.c.Method(name)
		if !ok {
			var suggestions []string
			if s, ok := naming.Suggest(name, k.getterNames); ok {
				suggestions = append(suggestions, s)
			}

			k.res.AddError(CodeUnknownAccessor, "metadata names a getter the contract doesn't declare",
				k.name, name, suggestions...)

			continue
		}

		constraints := make([]validate.Constraint, 0, len(k.md.Accessors[name].Constraints))
		for _, c := range k.md.Accessors[name].Constraints {
			constraints = append(constraints, validate.Constraint(c))
		}

		var result types.Type
		if out, ok := common.Only(m.Results); ok {
			result = out.GoType
		}

		if err := k.v.Check(basicType(result), constraints); err != nil {
			k.errorf(CodeInvalidConstraint, name, "invalid constraint: %v", err)
		}
	}

	for _, idx := range k.md.Indexes {
		for _, f := range idx.Fields {
			if k.hasField(f.Field) {
				continue
			}

			name := idx.Name
			if name == "" {
				name = idx.DefaultName()
			}

			k.errorf(CodeIndexField, "", "index field %q of index %q does not exist", f.Field, name)
		}
	}
}

func (k *checker) hasField(field string) bool {
	if _, ok := k.storage[field]; ok {
		return true
	}

	_, ok := k.folded[naming.Fold(field)]

	return ok
}

func typeString(t types.Type) string {
	return types.TypeString(t, (*types.Package).Name)
}

// unwrapReason returns the reason carried by a naming error.
func unwrapReason(err error) string {
	msg := err.Error()
	if i := strings.LastIndex(msg, ": "); i >= 0 {
		return msg[i+2:]
	}

	return msg
}

var basicTypes = map[types.BasicKind]reflect.Type{
	types.Bool:    reflect.TypeFor[bool](),
	types.Int:     reflect.TypeFor[int](),
	types.Int8:    reflect.TypeFor[int8](),
	types.Int16:   reflect.TypeFor[int16](),
	types.Int32:   reflect.TypeFor[int32](),
	types.Int64:   reflect.TypeFor[int64](),
	types.Uint:    reflect.TypeFor[uint](),
	types.Uint8:   reflect.TypeFor[uint8](),
	types.Uint16:  reflect.TypeFor[uint16](),
	types.Uint32:  reflect.TypeFor[uint32](),
	types.Uint64:  reflect.TypeFor[uint64](),
	types.Float32: reflect.TypeFor[float32](),
	types.Float64: reflect.TypeFor[float64](),
	types.String:  reflect.TypeFor[string](),
}

// basicType returns the runtime type constraints on a getter of type t are
// checked against: the underlying basic type, or nil for anything else.
func basicType(t types.Type) reflect.Type {
	if t == nil {
		return nil
	}

	if b, ok := t.Underlying().(*types.Basic); ok {
		return basicTypes[b.Kind()]
	}

	return nil
}

package gen

import (
	"fmt"
	"go/types"
	"strconv"
	"strings"

	"docmapper/internal/analyze"
	"docmapper/internal/common"
	"docmapper/internal/naming"
)

// templateData holds all data needed for the wrapper template.
type templateData struct {
	PackageName      string
	Imports          []analyze.Import
	Entity           string // alias of the entity package
	GenerateComments bool
	Wrappers         []wrapperData
}

// wrapperData describes the wrapper of one contract.
type wrapperData struct {
	Contract string // contract type name
	Type     string // wrapper struct name
	Methods  []methodData
}

// methodData is one generated accessor.
type methodData struct {
	Name   string
	Param  string // parameter type, empty for getters
	Result string // result type, empty when none
	Body   string
}

var errorType = types.Universe.Lookup("error").Type()

// wrapperName returns the unexported wrapper type name of a contract.
func wrapperName(contract string) string {
	return naming.Decapitalize(contract) + "Entity"
}

// builder builds the template data of one package.
type builder struct {
	pkg     *analyze.PackageInfo
	imports *analyze.Imports
	entity  string
}

func newBuilder(pkg *analyze.PackageInfo) *builder {
	im := analyze.NewImports(pkg.Path)

	return &builder{
		pkg:     pkg,
		imports: im,
		entity:  im.Add(analyze.EntityPkgPath, common.PkgAlias(analyze.EntityPkgPath)),
	}
}

// property is a getter paired with its logical name.
type property struct {
	name   string
	result *analyze.TypeInfo
}

func (b *builder) wrapper(c *analyze.ContractInfo) (wrapperData, error) {
	w := wrapperData{Contract: c.ID.Name, Type: wrapperName(c.ID.Name)}

	// accessor name -> property, filled from the getters
	props := map[string]property{}

	for _, m := range c.Methods {
		if m.Inherited || naming.Classify(m.Name) != naming.AccessorGetter {
			continue
		}

		result, ok := common.First(m.Results)
		if !ok {
			return w, fmt.Errorf("%s: getter %s has no result", c.ID, m.Name)
		}

		name, err := naming.PropertyName(m.Name)
		if err != nil {
			return w, fmt.Errorf("%s: %w", c.ID, err)
		}

		p := property{name: name, result: result}
		props[m.Name] = p
		props[naming.SetterFor(m.Name)] = p

		if result.IsEntitySlice() {
			for _, adder := range naming.AdderCandidates(m.Name) {
				props[adder] = p
			}
		}
	}

	for i := range c.Methods {
		m := &c.Methods[i]
		if m.Inherited {
			continue
		}

		p, ok := props[m.Name]
		if !ok {
			return w, fmt.Errorf("%s: method %s is not an accessor", c.ID, m.Name)
		}

		md, err := b.method(c, m, p)
		if err != nil {
			return w, err
		}

		w.Methods = append(w.Methods, md)
	}

	return w, nil
}

func (b *builder) method(c *analyze.ContractInfo, m *analyze.MethodInfo, p property) (methodData, error) {
	md := methodData{Name: m.Name}
	prop := strconv.Quote(p.name)

	if naming.Classify(m.Name) == naming.AccessorGetter {
		md.Result = b.imports.TypeString(p.result.GoType)

		switch {
		case p.result.IsEntitySlice():
			md.Body = fmt.Sprintf("return %s.Refs[%s](e.Instance, %s)",
				b.entity, b.imports.TypeString(p.result.ElemType.GoType), prop)
		case p.result.IsEntity():
			md.Body = fmt.Sprintf("return %s.Ref[%s](e.Instance, %s)", b.entity, md.Result, prop)
		default:
			md.Body = fmt.Sprintf("return %s.Value[%s](e.Instance, %s)", b.entity, md.Result, prop)
		}

		return md, nil
	}

	param, ok := common.Only(m.Params)
	if !ok || len(m.Results) > 1 {
		return md, fmt.Errorf("%s: %s must take one parameter and return at most one result", c.ID, m.Name)
	}

	md.Param = b.imports.TypeString(param.GoType)

	helper, method := "MustSet", "Set"
	if naming.Classify(m.Name) == naming.AccessorAdder {
		helper, method = "MustAdd", "Add"
	}

	result, ok := common.First(m.Results)

	switch {
	case !ok:
		md.Body = fmt.Sprintf("%s.%s(e.Instance, %s, v)", b.entity, helper, prop)
	case types.Identical(result.GoType, errorType):
		md.Result = "error"
		md.Body = fmt.Sprintf("return e.Instance.%s(%s, v)", method, prop)
	default:
		md.Result = b.imports.TypeString(result.GoType)
		md.Body = fmt.Sprintf("%s.%s(e.Instance, %s, v)\nreturn e", b.entity, helper, prop)
	}

	return md, nil
}

// references returns the contracts of the same package c refers to.
func references(c *analyze.ContractInfo) []analyze.TypeID {
	var out []analyze.TypeID

	for _, m := range c.Methods {
		result, ok := common.First(m.Results)
		if m.Inherited || !ok {
			continue
		}

		if result.IsEntitySlice() {
			result = result.ElemType
		}

		if result.IsEntity() && result.ID.PkgPath == c.ID.PkgPath && result.ID != c.ID {
			out = append(out, result.ID)
		}
	}

	return out
}

// indent prefixes every line of body with a tab.
func indent(body string) string {
	return "\t" + strings.ReplaceAll(body, "\n", "\n\t")
}

package schema

import (
	"reflect"
	"strings"

	"docmapper/docerr"
	"docmapper/internal/naming"
	"docmapper/metadata"
	"docmapper/primitive"
	"docmapper/validate"
)

var errorType = reflect.TypeFor[error]()

// BuildProperty builds the descriptor of one getter of contract. base is the
// entity capability set used to detect references; md carries the getter's
// markers.
func BuildProperty(contract, base reflect.Type, getter reflect.Method, md metadata.Accessor,
	v validate.Validator,
) (*Property, error) {
	p, err := buildProperty(contract, base, getter, md, v)
	if err != nil {
		return nil, docerr.Attribute(err, contract.String())
	}

	return p, nil
}

func buildProperty(contract, base reflect.Type, getter reflect.Method, md metadata.Accessor,
	v validate.Validator,
) (*Property, error) {
	ft := getter.Type
	if ft.NumIn() != 0 || ft.NumOut() != 1 {
		return nil, &docerr.InvalidConventionError{
			Method: getter.Name,
			Reason: "getters take no arguments and return exactly one value",
		}
	}

	logical, err := naming.PropertyName(getter.Name)
	if err != nil {
		return nil, err
	}

	storage, err := naming.StorageName(getter.Name, naming.Markers{ID: md.ID, Named: md.Named})
	if err != nil {
		return nil, err
	}

	out := ft.Out(0)
	p := &Property{
		name:        logical,
		storageName: storage,
		typ:         out,
		kind:        primitive.FromReflectType(out),
		id:          storage == naming.IDField,
		readOnly:    md.ReadOnly,
		compute:     md.Compute,
		accessors:   Accessors{Getter: getter.Name},
	}

	var reason string
	if p.shape, p.target, reason = classify(out, base); reason != "" {
		return nil, &docerr.InvalidConventionError{Method: getter.Name, Reason: reason}
	}

	if p.shape != ShapeScalar {
		p.kind = 0
	}

	if err := checkMarkers(p, getter.Name); err != nil {
		return nil, err
	}

	if err := attachConstraints(p, getter.Name, md.Constraints, v); err != nil {
		return nil, err
	}

	if err := resolveSetter(p, contract, getter.Name); err != nil {
		return nil, err
	}

	if p.shape == ShapeReferences {
		if err := resolveAdder(p, contract, getter.Name); err != nil {
			return nil, err
		}
	}

	return p, nil
}

const baseReference = "references must name a concrete contract, not the base contract"

// classify tells scalars from single and multi references.
func classify(t, base reflect.Type) (Shape, reflect.Type, string) {
	isEntity := func(t reflect.Type) bool {
		return t.Kind() == reflect.Interface && t.Implements(base)
	}

	switch {
	case isEntity(t):
		if t == base {
			return 0, nil, baseReference
		}

		return ShapeReference, t, ""
	case t.Kind() == reflect.Slice && isEntity(t.Elem()):
		if t.Elem() == base {
			return 0, nil, baseReference
		}

		return ShapeReferences, t.Elem(), ""
	default:
		return ShapeScalar, nil, ""
	}
}

func checkMarkers(p *Property, getter string) error {
	switch {
	case p.id && p.shape != ShapeScalar:
		return &docerr.ConflictingMetadataError{Method: getter, Reason: "a reference can't be the identifier"}
	case p.id && p.compute != nil:
		return &docerr.ConflictingMetadataError{Method: getter, Reason: "the identifier can't be computed"}
	}

	return nil
}

func attachConstraints(p *Property, getter string, tags []string, v validate.Validator) error {
	if len(tags) == 0 {
		return nil
	}

	constraints := make([]validate.Constraint, 0, len(tags))
	for _, tag := range tags {
		constraints = append(constraints, validate.Constraint(tag))
	}

	if checker, ok := v.(validate.Checker); ok {
		var t reflect.Type
		if p.shape == ShapeScalar {
			t = p.typ
		}

		if err := checker.Check(t, constraints); err != nil {
			return &docerr.InvalidConstraintError{
				Method:     getter,
				Constraint: strings.Join(tags, ","),
				Err:        err,
			}
		}
	}

	p.constraints = constraints

	return nil
}

func resolveSetter(p *Property, contract reflect.Type, getter string) error {
	setter := naming.SetterFor(getter)

	m, ok := contract.MethodByName(setter)
	if !ok {
		if p.id || p.IsReadOnly() {
			return nil
		}

		return &docerr.MissingAccessorError{Getter: getter, Accessor: setter}
	}

	if p.IsReadOnly() {
		return &docerr.ConflictingMetadataError{
			Method: getter,
			Reason: "read-only property declares setter " + setter,
		}
	}

	if reason := checkMutator(contract, m, p.typ); reason != "" {
		return &docerr.InvalidConventionError{Method: setter, Reason: reason}
	}

	p.accessors.Setter = setter

	return nil
}

func resolveAdder(p *Property, contract reflect.Type, getter string) error {
	candidates := naming.AdderCandidates(getter)

	for _, name := range candidates {
		m, ok := contract.MethodByName(name)
		if !ok || checkMutator(contract, m, p.target) != "" {
			continue
		}

		if p.IsReadOnly() {
			return &docerr.ConflictingMetadataError{
				Method: getter,
				Reason: "read-only property declares adder " + name,
			}
		}

		p.accessors.Adder = name

		return nil
	}

	if p.IsReadOnly() {
		return nil
	}

	return &docerr.MissingAccessorError{Getter: getter, Accessor: strings.Join(candidates, " or ")}
}

// checkMutator validates a setter or adder signature: one parameter of type
// param, and no result, an error, or an interface the contract implements.
func checkMutator(contract reflect.Type, m reflect.Method, param reflect.Type) string {
	ft := m.Type

	if ft.NumIn() != 1 || ft.IsVariadic() || ft.In(0) != param {
		return "expected exactly one parameter of type " + param.String()
	}

	switch ft.NumOut() {
	case 0:
		return ""
	case 1:
		out := ft.Out(0)
		if out == errorType || (out.Kind() == reflect.Interface && contract.Implements(out)) {
			return ""
		}

		return "result must be error or an interface implemented by " + contract.String()
	default:
		return "at most one result allowed"
	}
}

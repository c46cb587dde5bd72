package schema

import (
	"reflect"
	"slices"

	"docmapper/metadata"
	"docmapper/primitive"
	"docmapper/validate"
)

// Shape tells how a property value relates to other entities.
type Shape int

const (
	ShapeScalar     Shape = iota // plain value, stored as is
	ShapeReference               // one entity, stored as its identifier
	ShapeReferences              // slice of entities, stored as identifiers
)

func (s Shape) String() string {
	switch s {
	case ShapeScalar:
		return "scalar"
	case ShapeReference:
		return "reference"
	case ShapeReferences:
		return "references"
	default:
		return "unknown"
	}
}

// Accessors names the methods backing a property.
type Accessors struct {
	Getter string
	Setter string // empty when the property has no setter
	Adder  string // empty unless the property is a multi reference
}

// Property describes one property of a contract. Properties are immutable.
type Property struct {
	name        string
	storageName string
	typ         reflect.Type
	kind        primitive.KindEnum
	shape       Shape
	target      reflect.Type
	id          bool
	readOnly    bool
	compute     metadata.Computer
	constraints []validate.Constraint
	accessors   Accessors
}

// Name returns the logical name, e.g. "title" for GetTitle.
func (p *Property) Name() string { return p.name }

// StorageName returns the document field name.
func (p *Property) StorageName() string { return p.storageName }

// Type returns the getter's result type.
func (p *Property) Type() reflect.Type { return p.typ }

// Kind returns the scalar kind, zero for references and composite values.
func (p *Property) Kind() primitive.KindEnum { return p.kind }

func (p *Property) Shape() Shape { return p.shape }

// IsReference reports whether the property points to one or many entities.
func (p *Property) IsReference() bool { return p.shape != ShapeScalar }

// Target returns the referenced contract, nil for scalars.
func (p *Property) Target() reflect.Type { return p.target }

func (p *Property) IsIdentifier() bool { return p.id }

// IsReadOnly reports whether writes are rejected. Computed properties are
// always read-only.
func (p *Property) IsReadOnly() bool { return p.readOnly || p.compute != nil }

func (p *Property) IsComputed() bool { return p.compute != nil }

// Compute returns the function of a computed property.
func (p *Property) Compute() metadata.Computer { return p.compute }

// Constraints returns a copy of the validation constraints.
func (p *Property) Constraints() []validate.Constraint { return slices.Clone(p.constraints) }

func (p *Property) Accessors() Accessors { return p.accessors }

// Zero returns the zero value of the property type.
func (p *Property) Zero() any { return reflect.Zero(p.typ).Interface() }

package metadata

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Direction is the sort order of an index field.
type Direction int

const (
	Ascending  Direction = 1
	Descending Direction = -1
)

// String returns "asc" or "desc".
func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}

	return "asc"
}

// ParseDirection accepts asc, desc, 1 and -1. The empty string is Ascending.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc", "ascending", "1":
		return Ascending, nil
	case "desc", "descending", "-1":
		return Descending, nil
	default:
		return 0, fmt.Errorf("unknown index direction %q, expected asc or desc", s)
	}
}

// UnmarshalYAML implements custom YAML unmarshaling for Direction.
func (d *Direction) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected index direction, got %v", node.Line, node.Kind)
	}

	parsed, err := ParseDirection(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}

	*d = parsed

	return nil
}

// MarshalYAML implements custom YAML marshaling for Direction.
func (d Direction) MarshalYAML() (any, error) {
	return d.String(), nil
}

// IndexField is one field of an index.
type IndexField struct {
	// Field is a logical or storage property name.
	Field string `yaml:"field"`
	// Order defaults to ascending.
	Order Direction `yaml:"order,omitempty"`
}

// UnmarshalYAML accepts either a bare field name or a {field, order} mapping.
func (f *IndexField) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*f = IndexField{Field: node.Value, Order: Ascending}
		return nil

	case yaml.MappingNode:
		type plain IndexField

		var p plain
		if err := node.Decode(&p); err != nil {
			return err
		}

		if p.Order == 0 {
			p.Order = Ascending
		}

		*f = IndexField(p)

		return nil

	default:
		return fmt.Errorf("line %d: expected field name or mapping, got %v", node.Line, node.Kind)
	}
}

// MarshalYAML writes ascending fields as a bare name.
func (f IndexField) MarshalYAML() (any, error) {
	if f.Order != Descending {
		return f.Field, nil
	}

	return struct {
		Field string    `yaml:"field"`
		Order Direction `yaml:"order"`
	}{f.Field, f.Order}, nil
}

// Index describes a contract level index. Indexes are recorded on the schema
// for the storage layer, they are never created here.
type Index struct {
	Name   string       `yaml:"name,omitempty"`
	Fields []IndexField `yaml:"fields"`
	Unique bool         `yaml:"unique,omitempty"`
}

// DefaultName returns the conventional index name, e.g. customer_1_total_-1.
func (i Index) DefaultName() string {
	parts := make([]string, 0, 2*len(i.Fields))
	for _, f := range i.Fields {
		order := f.Order
		if order == 0 {
			order = Ascending
		}

		parts = append(parts, f.Field, strconv.Itoa(int(order)))
	}

	return strings.Join(parts, "_")
}

// Computer produces the value of a computed property. get reads other
// properties of the same instance by logical name.
type Computer func(get func(name string) (any, error)) (any, error)

// Accessor holds the markers attached to one getter.
type Accessor struct {
	// ID marks the identifier property.
	ID bool `yaml:"id,omitempty"`
	// Named overrides the storage name.
	Named string `yaml:"named,omitempty"`
	// ReadOnly properties need no setter and reject writes.
	ReadOnly bool `yaml:"readonly,omitempty"`
	// Constraints are validator tags, e.g. "required" or "gte=0".
	Constraints []string `yaml:"constraints,omitempty"`
	// Compute makes the property computed, and therefore read-only.
	Compute Computer `yaml:"-"`
}

// Contract holds the markers of one contract. Accessors is keyed by getter name.
type Contract struct {
	Named     string              `yaml:"named,omitempty"`
	Indexes   []Index             `yaml:"indexes,omitempty"`
	Accessors map[string]Accessor `yaml:"accessors,omitempty"`
}

// Accessor returns the markers of getter, or the zero Accessor.
func (c Contract) Accessor(getter string) Accessor {
	return c.Accessors[getter]
}

// Merge combines two sets of contract markers. Values set in c win; flags are
// or-ed, constraints and indexes are unioned.
func (c Contract) Merge(other Contract) Contract {
	out := Contract{
		Named:     c.Named,
		Indexes:   slices.Clone(c.Indexes),
		Accessors: make(map[string]Accessor, len(c.Accessors)+len(other.Accessors)),
	}

	if out.Named == "" {
		out.Named = other.Named
	}

	for _, idx := range other.Indexes {
		if !slices.ContainsFunc(out.Indexes, func(i Index) bool { return i.DefaultName() == idx.DefaultName() }) {
			out.Indexes = append(out.Indexes, idx)
		}
	}

	for name, a := range c.Accessors {
		out.Accessors[name] = a
	}

	for name, b := range other.Accessors {
		a, ok := out.Accessors[name]
		if !ok {
			out.Accessors[name] = b
			continue
		}

		out.Accessors[name] = a.merge(b)
	}

	return out
}

func (a Accessor) merge(b Accessor) Accessor {
	out := a
	out.ID = a.ID || b.ID
	out.ReadOnly = a.ReadOnly || b.ReadOnly

	if out.Named == "" {
		out.Named = b.Named
	}

	if out.Compute == nil {
		out.Compute = b.Compute
	}

	out.Constraints = slices.Clone(a.Constraints)
	for _, c := range b.Constraints {
		if !slices.Contains(out.Constraints, c) {
			out.Constraints = append(out.Constraints, c)
		}
	}

	return out
}

package schema

import (
	"reflect"
	"slices"

	"docmapper/internal/naming"
	"docmapper/metadata"
)

// Index is a contract index with fields resolved to storage names.
type Index struct {
	Name   string
	Fields []metadata.IndexField
	Unique bool
}

// Schema is the compiled, immutable description of a contract.
type Schema struct {
	contract   reflect.Type
	collection string
	properties []*Property
	byName     map[string]*Property
	byFold     map[string]*Property
	byStorage  map[string]*Property
	identifier *Property
	indexes    []Index
}

func newSchema(contract reflect.Type) *Schema {
	return &Schema{
		contract:  contract,
		byName:    map[string]*Property{},
		byFold:    map[string]*Property{},
		byStorage: map[string]*Property{},
	}
}

func (s *Schema) add(p *Property) {
	s.properties = append(s.properties, p)
	s.byName[p.name] = p
	s.byFold[naming.Fold(p.name)] = p
	s.byStorage[p.storageName] = p

	if p.id {
		s.identifier = p
	}
}

// Contract returns the contract interface type.
func (s *Schema) Contract() reflect.Type { return s.contract }

// CollectionName returns the storage collection of the contract.
func (s *Schema) CollectionName() string { return s.collection }

// Properties returns the properties in getter order.
func (s *Schema) Properties() []*Property { return slices.Clone(s.properties) }

// Property looks up a property by logical name. An exact match wins over a
// case-insensitive one.
func (s *Schema) Property(name string) (*Property, bool) {
	if p, ok := s.byName[name]; ok {
		return p, true
	}

	p, ok := s.byFold[naming.Fold(name)]

	return p, ok
}

// ByStorageName looks up a property by document field name.
func (s *Schema) ByStorageName(field string) (*Property, bool) {
	p, ok := s.byStorage[field]
	return p, ok
}

// Identifier returns the identifier property, if the contract declares one.
func (s *Schema) Identifier() (*Property, bool) {
	return s.identifier, s.identifier != nil
}

// Indexes returns a copy of the declared indexes.
func (s *Schema) Indexes() []Index {
	out := make([]Index, len(s.indexes))
	for i, idx := range s.indexes {
		out[i] = Index{Name: idx.Name, Fields: slices.Clone(idx.Fields), Unique: idx.Unique}
	}

	return out
}

// Names returns the logical property names in getter order.
func (s *Schema) Names() []string {
	names := make([]string, len(s.properties))
	for i, p := range s.properties {
		names[i] = p.name
	}

	return names
}

// Suggest returns the property name closest to name.
func (s *Schema) Suggest(name string) string {
	best, _ := naming.Suggest(name, s.Names())
	return best
}

func (s *Schema) String() string {
	return s.contract.String() + "@" + s.collection
}

package docerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAttribute(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"invalid convention", &InvalidConventionError{Method: "Get"}},
		{"orphan setter", &OrphanSetterError{Methods: []string{"SetFoo"}}},
		{"orphan adder", &OrphanAdderError{Methods: []string{"AddFoo"}}},
		{"naming conflict", &NamingConflictError{Name: "url", First: "GetURL", Second: "GetUrl"}},
		{"duplicate identifier", &DuplicateIdentifierError{First: "GetID", Second: "GetSku"}},
		{"index field", &IndexFieldError{Index: "by_name", Field: "name"}},
		{"missing accessor", &MissingAccessorError{Accessor: "SetName"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Attribute(tt.err, "shop.Order")
			assert.Same(t, tt.err, err)
			assert.Contains(t, err.Error(), "shop.Order")
			assert.NotContains(t, err.Error(), "<unknown contract>")
		})
	}
}

func TestAttribute_KeepsContract(t *testing.T) {
	err := Attribute(&DuplicateIdentifierError{Contract: "shop.Item", First: "GetID", Second: "GetSku"}, "shop.Order")
	assert.Equal(t, "shop.Item: only one identifier property allowed, found GetID and GetSku", err.Error())

	plain := errors.New("boom")
	assert.Same(t, plain, Attribute(plain, "shop.Order"))
}

package validate

import (
	"errors"
	"reflect"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_Validate(t *testing.T) {
	v := New()

	tests := []struct {
		name        string
		value       any
		constraints []Constraint
		violations  int
	}{
		{"no constraints", "", nil, 0},
		{"required ok", "x", []Constraint{"required"}, 0},
		{"required missing", "", []Constraint{"required"}, 1},
		{"number range", 12, []Constraint{"gte=0", "lte=10"}, 1},
		{"email", "someone@example.com", []Constraint{"email"}, 0},
		{"not email", "someone", []Constraint{"email"}, 1},
		{"slice length", []string{"a"}, []Constraint{"min=2"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := v.Validate(tt.value, tt.constraints)
			assert.Len(t, got, tt.violations)
		})
	}
}

func TestEngine_ViolationDetails(t *testing.T) {
	got := New().Validate(12, []Constraint{"lte=10"})
	require.Len(t, got, 1)

	assert.Equal(t, Constraint("lte=10"), got[0].Constraint)
	assert.Equal(t, 12, got[0].Value)
	assert.Contains(t, got[0].Message, "lte=10")
}

func TestEngine_Check(t *testing.T) {
	v := New()

	str := reflect.TypeFor[string]()

	require.NoError(t, v.Check(str, nil))
	require.NoError(t, v.Check(str, []Constraint{"required", "max=64"}))
	require.NoError(t, v.Check(reflect.TypeFor[[]string](), []Constraint{"dive", "required"}))

	assert.Error(t, v.Check(str, []Constraint{"definitely_not_a_tag"}))
	assert.Error(t, v.Check(str, []Constraint{"max=abc"}))
	assert.Error(t, v.Check(nil, []Constraint{"definitely_not_a_tag"}))
}

func TestEngine_CheckFloatParameters(t *testing.T) {
	v := New()
	f64 := reflect.TypeFor[float64]()

	require.NoError(t, v.Check(f64, []Constraint{"gte=0.5"}))
	require.NoError(t, v.Check(f64, []Constraint{"gt=0", "lte=99.99"}))
	require.NoError(t, v.Check(nil, []Constraint{"gte=0.5"}))
	assert.Empty(t, v.Validate(0.75, []Constraint{"gte=0.5"}))
	assert.Len(t, v.Validate(0.25, []Constraint{"gte=0.5"}), 1)

	assert.Error(t, v.Check(reflect.TypeFor[int](), []Constraint{"gte=0.5"}))
}

func TestEngine_RegisterValidation(t *testing.T) {
	v := New()
	require.NoError(t, v.RegisterValidation("even", func(fl validator.FieldLevel) bool {
		return fl.Field().Int()%2 == 0
	}))

	assert.Empty(t, v.Validate(4, []Constraint{"even"}))
	assert.Len(t, v.Validate(3, []Constraint{"even"}), 1)
	require.NoError(t, v.Check(reflect.TypeFor[int](), []Constraint{"even"}))
}

func TestNop(t *testing.T) {
	var v Validator = Nop{}
	assert.Empty(t, v.Validate("", []Constraint{"required"}))

	_, ok := v.(Checker)
	assert.False(t, ok)
}

func TestError(t *testing.T) {
	err := &Error{
		Contract: "shop.Order",
		Violations: []Violation{
			{Property: "total", Message: "value -1 does not satisfy \"gte=0\""},
			{Property: "number", Message: "value \"\" does not satisfy \"required\""},
		},
	}

	assert.Equal(t,
		`shop.Order: validation failed: total: value -1 does not satisfy "gte=0"; number: value "" does not satisfy "required"`,
		err.Error())

	errs := err.Errors()
	require.Len(t, errs, 2)

	var v Violation
	require.True(t, errors.As(errs[1], &v))
	assert.Equal(t, "number", v.Property)
}

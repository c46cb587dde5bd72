package primitive

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrUnsupported is returned when either side is not a scalar kind.
	ErrUnsupported = errors.New("unsupported conversion")
	// ErrNotAllowed is returned when the conversion category is not allowed.
	ErrNotAllowed = errors.New("conversion category not allowed")
	// ErrLossy is returned when a value doesn't fit the target type.
	ErrLossy = errors.New("value doesn't fit the target type")
)

// ConversionError describes a failed Convert call.
type ConversionError struct {
	From, To reflect.Type
	Value    any
	Err      error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("convert %v (%v) to %v: %v", e.Value, e.From, e.To, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

var (
	stringerType = reflect.TypeFor[fmt.Stringer]()
	validType    = reflect.TypeFor[interface{ IsValid() bool }]()
)

// Convert coerces value into type to using the allowed categories. A nil
// value yields the zero value of to. json.Number values are read as int64 when
// integral and as float64 otherwise.
func Convert(value any, to reflect.Type, allowed CategoryEnum) (reflect.Value, error) {
	if value == nil {
		return reflect.Zero(to), nil
	}

	if n, ok := value.(json.Number); ok {
		value = fromNumber(n)
	}

	src := reflect.ValueOf(value)
	if src.Type() == to {
		return src, nil
	}

	fail := func(err error) (reflect.Value, error) {
		return reflect.Value{}, &ConversionError{From: src.Type(), To: to, Value: value, Err: err}
	}

	fromKind, toKind := FromReflectType(src.Type()), FromReflectType(to)
	if fromKind == 0 || toKind == 0 {
		return fail(ErrUnsupported)
	}

	if fromKind == KindPrimitiveEnum || toKind == KindPrimitiveEnum {
		if allowed&CategoryEnumString == 0 {
			return fail(ErrNotAllowed)
		}

		out, err := convertEnum(src, to, allowed)
		if err != nil {
			return fail(err)
		}

		return out, nil
	}

	if !Allowed(fromKind, toKind, allowed) {
		return fail(ErrNotAllowed)
	}

	out, err := convertScalar(src, fromKind, to, toKind)
	if err != nil {
		return fail(err)
	}

	return out, nil
}

func fromNumber(n json.Number) any {
	if i, err := n.Int64(); err == nil {
		return i
	}

	if f, err := n.Float64(); err == nil {
		return f
	}

	return n.String()
}

// underlying returns the predeclared type sharing t's kind.
func underlying(t reflect.Type) reflect.Type {
	switch t.Kind() {
	case reflect.String:
		return reflect.TypeFor[string]()
	case reflect.Bool:
		return reflect.TypeFor[bool]()
	case reflect.Int:
		return reflect.TypeFor[int]()
	case reflect.Int8:
		return reflect.TypeFor[int8]()
	case reflect.Int16:
		return reflect.TypeFor[int16]()
	case reflect.Int32:
		return reflect.TypeFor[int32]()
	case reflect.Int64:
		return reflect.TypeFor[int64]()
	case reflect.Uint:
		return reflect.TypeFor[uint]()
	case reflect.Uint8:
		return reflect.TypeFor[uint8]()
	case reflect.Uint16:
		return reflect.TypeFor[uint16]()
	case reflect.Uint32:
		return reflect.TypeFor[uint32]()
	case reflect.Uint64:
		return reflect.TypeFor[uint64]()
	}

	return t
}

func convertEnum(src reflect.Value, to reflect.Type, allowed CategoryEnum) (reflect.Value, error) {
	// enum to string goes through String() when the enum isn't string based
	if to.Kind() == reflect.String && src.Kind() != reflect.String && src.Type().Implements(stringerType) {
		s := src.Interface().(fmt.Stringer).String()
		return reflect.ValueOf(s).Convert(to), nil
	}

	base := underlying(src.Type())
	plain := src.Convert(base)
	target := underlying(to)

	fromKind, toKind := FromReflectType(base), FromReflectType(target)
	if !Allowed(fromKind, toKind, allowed) {
		return reflect.Value{}, ErrNotAllowed
	}

	out, err := convertScalar(plain, fromKind, target, toKind)
	if err != nil {
		return reflect.Value{}, err
	}

	out = out.Convert(to)
	if to.Implements(validType) && !out.Interface().(interface{ IsValid() bool }).IsValid() {
		return reflect.Value{}, fmt.Errorf("%w: %v is not a valid %v", ErrLossy, out.Interface(), to)
	}

	return out, nil
}

func convertScalar(src reflect.Value, from KindEnum, to reflect.Type, toKind KindEnum) (reflect.Value, error) {
	switch {
	case from == toKind:
		return src.Convert(to), nil
	case from.IsNumber() && toKind.IsNumber():
		return convertNumber(src, to)
	}

	switch Categorize(from, toKind) {
	case CategoryTextNumber:
		if from == KindString {
			return parseNumber(src.String(), to, toKind)
		}

		return reflect.ValueOf(formatNumber(src, from)).Convert(to), nil
	case CategoryNumericBool:
		if from == KindBool {
			n := 0
			if src.Bool() {
				n = 1
			}

			return convertNumber(reflect.ValueOf(n), to)
		}

		switch i := asInt64(src, from); i {
		case 0, 1:
			return reflect.ValueOf(i == 1), nil
		default:
			return reflect.Value{}, fmt.Errorf("%w: %d is not a boolean", ErrLossy, i)
		}
	case CategoryTextualBool:
		if from == KindBool {
			return reflect.ValueOf(strconv.FormatBool(src.Bool())).Convert(to), nil
		}

		return parseBool(src.String())
	case CategoryDatetime:
		if from == KindTime {
			return reflect.ValueOf(src.Interface().(time.Time).Format(time.RFC3339Nano)).Convert(to), nil
		}

		t, err := time.Parse(time.RFC3339Nano, src.String())
		if err != nil {
			return reflect.Value{}, err
		}

		return reflect.ValueOf(t), nil
	case CategoryTimestamp:
		if from == KindTime {
			return convertNumber(reflect.ValueOf(src.Interface().(time.Time).Unix()), to)
		}

		return reflect.ValueOf(time.Unix(asInt64(src, from), 0).UTC()), nil
	case CategoryDuration:
		if from == KindDuration {
			return reflect.ValueOf(time.Duration(src.Int()).String()).Convert(to), nil
		}

		d, err := time.ParseDuration(src.String())
		if err != nil {
			return reflect.Value{}, err
		}

		return reflect.ValueOf(d), nil
	case CategoryNanoseconds:
		if from == KindDuration {
			return convertNumber(reflect.ValueOf(src.Int()), to)
		}

		if from.IsUnsigned() && src.Uint() > math.MaxInt64 {
			return reflect.Value{}, ErrLossy
		}

		return reflect.ValueOf(time.Duration(asInt64(src, from))), nil
	case CategorySeconds:
		if from == KindDuration {
			return convertNumber(reflect.ValueOf(time.Duration(src.Int()).Seconds()), to)
		}

		return reflect.ValueOf(time.Duration(src.Float() * float64(time.Second))), nil
	}

	return reflect.Value{}, ErrUnsupported
}

// convertNumber converts between numeric types and rejects values that don't
// survive the round trip.
func convertNumber(src reflect.Value, to reflect.Type) (reflect.Value, error) {
	if !src.CanConvert(to) {
		return reflect.Value{}, ErrUnsupported
	}

	if src.CanFloat() && to.Kind() != reflect.Float32 && to.Kind() != reflect.Float64 {
		f := src.Float()
		if f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f) {
			return reflect.Value{}, fmt.Errorf("%w: %v has a fractional part", ErrLossy, f)
		}

		if f < -(1<<63) || f >= 1<<64 {
			return reflect.Value{}, fmt.Errorf("%w: %v is out of range", ErrLossy, f)
		}
	}

	if src.CanInt() && src.Int() < 0 && to.Kind() >= reflect.Uint && to.Kind() <= reflect.Uintptr {
		return reflect.Value{}, fmt.Errorf("%w: %d is negative", ErrLossy, src.Int())
	}

	if src.CanUint() && (to.Kind() >= reflect.Int && to.Kind() <= reflect.Int64) && src.Uint() > math.MaxInt64 {
		return reflect.Value{}, fmt.Errorf("%w: %d overflows %v", ErrLossy, src.Uint(), to)
	}

	out := src.Convert(to)

	// float narrowing keeps the nearest value, only overflow is rejected
	if src.CanFloat() && out.CanFloat() {
		if math.IsInf(out.Float(), 0) && !math.IsInf(src.Float(), 0) {
			return reflect.Value{}, fmt.Errorf("%w: %v overflows %v", ErrLossy, src.Interface(), to)
		}

		return out, nil
	}

	if !out.Convert(src.Type()).Equal(src) {
		return reflect.Value{}, fmt.Errorf("%w: %v overflows %v", ErrLossy, src.Interface(), to)
	}

	return out, nil
}

func asInt64(v reflect.Value, k KindEnum) int64 {
	if k.IsUnsigned() {
		return int64(v.Uint())
	}

	return v.Int()
}

func formatNumber(v reflect.Value, k KindEnum) string {
	switch {
	case k.IsSigned():
		return strconv.FormatInt(v.Int(), 10)
	case k.IsUnsigned():
		return strconv.FormatUint(v.Uint(), 10)
	default:
		return strconv.FormatFloat(v.Float(), 'g', -1, k.Bits())
	}
}

func parseNumber(s string, to reflect.Type, k KindEnum) (reflect.Value, error) {
	s = strings.TrimSpace(s)

	switch {
	case k.IsSigned():
		n, err := strconv.ParseInt(s, 10, k.Bits())
		if err != nil {
			return reflect.Value{}, err
		}

		return reflect.ValueOf(n).Convert(to), nil
	case k.IsUnsigned():
		n, err := strconv.ParseUint(s, 10, k.Bits())
		if err != nil {
			return reflect.Value{}, err
		}

		return reflect.ValueOf(n).Convert(to), nil
	default:
		f, err := strconv.ParseFloat(s, k.Bits())
		if err != nil {
			return reflect.Value{}, err
		}

		return reflect.ValueOf(f).Convert(to), nil
	}
}

func parseBool(s string) (reflect.Value, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "on", "1":
		return reflect.ValueOf(true), nil
	case "false", "no", "off", "0":
		return reflect.ValueOf(false), nil
	}

	return reflect.Value{}, fmt.Errorf("%w: %q is not a boolean", ErrLossy, s)
}

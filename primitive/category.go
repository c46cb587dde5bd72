package primitive

// CategoryEnum is a bit set of conversion families.
type CategoryEnum int

// ConversionPair is a (from, to) pair of kinds.
type ConversionPair struct {
	From, To KindEnum
}

const (
	CategorySafeNumber   CategoryEnum = 1 << iota // int, uint, float without precision loss
	CategoryUnsafeNumber                          // int, uint, float, rejected at runtime when the value doesn't fit
	CategoryTextNumber                            // int, uint, float <-> string: textual number representation
	CategoryNumericBool                           // int <-> bool: 0, 1 representation of boolean values
	CategoryTextualBool                           // string <-> bool: yes, no, on, off, true, false
	CategoryDatetime                              // string(RFC3339Nano) <-> time.Time
	CategoryTimestamp                             // int(Unix seconds) <-> time.Time
	CategoryDuration                              // string(2h45m) <-> time.Duration
	CategoryNanoseconds                           // int(nanoseconds) <-> time.Duration
	CategorySeconds                               // float(seconds) <-> time.Duration
	CategoryEnumString                            // named scalar types, string form through String()

	CategoryAll  = (1 << iota) - 1 // all categories combined
	CategoryNone = 0               // no categories selected

	// CategoryDocument covers the representations document stores hand back:
	// JSON numbers for any numeric or duration value, RFC3339 strings for
	// times and the underlying scalar for named types.
	CategoryDocument = CategorySafeNumber | CategoryUnsafeNumber | CategoryDatetime |
		CategoryNanoseconds | CategoryEnumString
)

// Categorize returns the single category converting from into to, or
// CategoryNone. Pairs involving KindPrimitiveEnum are CategoryEnumString.
func Categorize(from, to KindEnum) CategoryEnum {
	switch {
	case from == 0 || to == 0:
		return CategoryNone
	case from == KindPrimitiveEnum || to == KindPrimitiveEnum:
		return CategoryEnumString
	case from.IsNumber() && to.IsNumber():
		if safeNumber(from, to) {
			return CategorySafeNumber
		}

		return CategoryUnsafeNumber
	}

	p := ConversionPair{from, to}
	if p.From == KindString || p.From == KindDuration || p.From == KindTime || p.From == KindBool {
		// normalize so the textual or temporal side is always To
		p = ConversionPair{to, from}
	}

	switch {
	case p.To == KindString && p.From.IsNumber():
		return CategoryTextNumber
	case p.To == KindBool && p.From.IsInteger():
		return CategoryNumericBool
	case p.To == KindBool && p.From == KindString, p.To == KindString && p.From == KindBool:
		return CategoryTextualBool
	case p.To == KindTime && p.From == KindString, p.To == KindString && p.From == KindTime:
		return CategoryDatetime
	case p.To == KindTime && p.From.IsInteger():
		return CategoryTimestamp
	case p.To == KindDuration && p.From == KindString, p.To == KindString && p.From == KindDuration:
		return CategoryDuration
	case p.To == KindDuration && p.From.IsInteger() && p.From != KindUint64:
		return CategoryNanoseconds
	case p.To == KindDuration && p.From.IsFloat():
		return CategorySeconds
	}

	return CategoryNone
}

// Allowed reports whether a conversion from into to belongs to one of the
// allowed categories. Identical kinds are always allowed.
func Allowed(from, to KindEnum, allowed CategoryEnum) bool {
	if from == to && from != 0 && from != KindPrimitiveEnum {
		return true
	}

	return Categorize(from, to)&allowed != 0
}

// safeNumber reports whether every value of from is exactly representable in to.
func safeNumber(from, to KindEnum) bool {
	if from == to {
		return true
	}

	switch {
	case from.IsFloat():
		return to == KindFloat64
	case to.IsFloat():
		return maxBits(from) <= to.mantissa()
	case from.IsSigned() && to.IsUnsigned():
		return false
	case from.IsUnsigned() && to.IsSigned():
		return minBits(to) > maxBits(from)
	default:
		return minBits(to) >= maxBits(from)
	}
}

// maxBits treats int and uint as 64 bits wide, minBits as 32 bits wide.
func maxBits(k KindEnum) int {
	if k == KindInt || k == KindUint {
		return 64
	}

	return k.Bits()
}

func minBits(k KindEnum) int {
	if k == KindInt || k == KindUint {
		return 32
	}

	return k.Bits()
}

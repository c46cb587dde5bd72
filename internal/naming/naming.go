package naming

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"docmapper/docerr"
)

const (
	// IDName is the logical name reserved for the identifier property.
	IDName = "id"
	// IDField is the storage name of the identifier property.
	IDField = "_id"
	// PluralSuffix is appended to contract names to derive collection names.
	PluralSuffix = "s"
)

// Markers are the declarative markers on a getter that influence its storage name.
type Markers struct {
	ID    bool   // identifier marker
	Named string // rename marker, empty when absent
}

// Decapitalize lowers the first letter of name. Single letters are lowered,
// names made only of upper-case letters are returned unchanged, so CamelCase
// becomes camelCase, URL stays URL and URLe becomes uRLe.
func Decapitalize(name string) string {
	if name == "" {
		return name
	}

	if utf8.RuneCountInString(name) == 1 {
		return strings.ToLower(name)
	}

	if isAllUpper(name) {
		return name
	}

	r, size := utf8.DecodeRuneInString(name)

	return string(unicode.ToLower(r)) + name[size:]
}

// Capitalize upper-cases the first letter of name and keeps the rest as is.
func Capitalize(name string) string {
	if name == "" {
		return name
	}

	r, size := utf8.DecodeRuneInString(name)

	return string(unicode.ToUpper(r)) + name[size:]
}

func isAllUpper(s string) bool {
	for _, r := range s {
		if !unicode.IsUpper(r) {
			return false
		}
	}

	return true
}

// verbPrefix returns the accessor verb method starts with.
func verbPrefix(method string) (string, bool) {
	for _, p := range [...]string{GetterPrefix, SetterPrefix, AdderPrefix} {
		if strings.HasPrefix(method, p) {
			return p, true
		}
	}

	return "", false
}

// PropertyName derives the logical property name from a getter, setter or
// adder by stripping the verb and decapitalizing the rest.
func PropertyName(method string) (string, error) {
	prefix, ok := verbPrefix(method)
	if !ok {
		return "", &docerr.InvalidConventionError{
			Method: method,
			Reason: "don't know how to retrieve a property name, expected Get, Set or Add prefix",
		}
	}

	rest := method[len(prefix):]
	if rest == "" {
		return "", &docerr.InvalidConventionError{
			Method: method,
			Reason: "no property name after the " + prefix + " prefix",
		}
	}

	return Decapitalize(rest), nil
}

// StorageName returns the document field name of the property declared by getter.
func StorageName(getter string, m Markers) (string, error) {
	if !strings.HasPrefix(getter, GetterPrefix) {
		return "", &docerr.InvalidConventionError{
			Method: getter,
			Reason: "storage names can only be derived from getters",
		}
	}

	if m.ID && m.Named != "" {
		return "", &docerr.ConflictingMetadataError{
			Method: getter,
			Reason: "a property can't carry both the identifier and the rename marker",
		}
	}

	name, err := PropertyName(getter)
	if err != nil {
		return "", err
	}

	if m.ID || strings.EqualFold(name, IDName) {
		return IDField, nil
	}

	if m.Named != "" {
		if m.Named == IDField {
			return "", &docerr.ConflictingMetadataError{
				Method: getter,
				Reason: "the rename marker can't declare the identifier field, use the identifier marker",
			}
		}

		return m.Named, nil
	}

	return name, nil
}

// CollectionName returns named when set, otherwise the decapitalized
// contract name in plural.
func CollectionName(typeName, named string) string {
	if named != "" {
		return named
	}

	return Decapitalize(typeName) + PluralSuffix
}

// SetterFor returns the setter name paired with getter.
func SetterFor(getter string) string {
	return SetterPrefix + strings.TrimPrefix(getter, GetterPrefix)
}

// GetterFor returns the getter paired with a setter or adder. Other names are
// returned unchanged.
func GetterFor(method string) string {
	prefix, ok := verbPrefix(method)
	if !ok {
		return method
	}

	return GetterPrefix + method[len(prefix):]
}

// AdderCandidates returns the adder names accepted for a multi reference
// getter, most specific first: the plain verb substitution (GetItems ->
// AddItems) followed by the singular form (AddItem).
func AdderCandidates(getter string) []string {
	rest := strings.TrimPrefix(getter, GetterPrefix)
	candidates := []string{AdderPrefix + rest}

	if singular := singularize(rest); singular != rest && singular != "" {
		candidates = append(candidates, AdderPrefix+singular)
	}

	return candidates
}

func singularize(s string) string {
	switch {
	case strings.HasSuffix(s, "ies") && len(s) > 3:
		return strings.TrimSuffix(s, "ies") + "y"
	case strings.HasSuffix(s, "ss"):
		return s
	case strings.HasSuffix(s, "s"):
		return strings.TrimSuffix(s, "s")
	default:
		return s
	}
}

// Fold returns the case-insensitive key of a property name.
func Fold(name string) string {
	return strings.ToLower(name)
}

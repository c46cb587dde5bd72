package naming

import "strings"

//go:generate go tool stringer -type=AccessorKind -output=accessorkind_string.go

// AccessorKind classifies a contract method by the accessor convention.
type AccessorKind int

const (
	AccessorInvalid AccessorKind = iota // matches no convention
	AccessorGetter                      // Get<Name>() T
	AccessorSetter                      // Set<Name>(T)
	AccessorAdder                       // Add<Name>(E)
	AccessorUtility                     // allow-listed base contract method

	// AccessorTotal is the number of accessor kinds.
	AccessorTotal = int(iota)
)

const (
	GetterPrefix = "Get"
	SetterPrefix = "Set"
	AdderPrefix  = "Add"

	prefixLen = 3
)

// utilityMethods are allowed on contracts although they don't follow the
// accessor convention. They must keep the base contract's signature.
var utilityMethods = map[string]struct{}{
	"Drop":        {},
	"Get":         {},
	"Set":         {},
	"Equals":      {},
	"HashCode":    {},
	"String":      {},
	"Save":        {},
	"Seal":        {},
	"Load":        {},
	"EntityClass": {},
}

// IsUtility reports whether name is one of the allow-listed utility methods.
func IsUtility(name string) bool {
	_, ok := utilityMethods[name]
	return ok
}

// UtilityMethods returns the allow-list of utility method names.
func UtilityMethods() []string {
	names := make([]string, 0, len(utilityMethods))
	for name := range utilityMethods {
		names = append(names, name)
	}

	return names
}

// Classify tags a method name. The utility allow-list is consulted first so
// that plain Get and Set are never read as accessors.
func Classify(name string) AccessorKind {
	switch {
	case IsUtility(name):
		return AccessorUtility
	case strings.HasPrefix(name, GetterPrefix):
		return AccessorGetter
	case strings.HasPrefix(name, SetterPrefix):
		return AccessorSetter
	case strings.HasPrefix(name, AdderPrefix):
		return AccessorAdder
	default:
		return AccessorInvalid
	}
}

// Package naming holds the accessor naming convention of entity contracts.
//
// Contracts declare properties through Go-cased accessor methods:
//
//	GetTitle() string      // getter, property "title"
//	SetTitle(string) Book  // setter, paired by explicit prefix replacement
//	GetTags() []Tag        // multi reference getter
//	AddTag(Tag) Book       // adder, exact or singular verb substitution
//
// Key functions:
//   - Classify: tags a method as getter, setter, adder, utility or invalid
//   - Decapitalize / Capitalize: first letter case rules (URL stays URL)
//   - PropertyName, StorageName, CollectionName: derived names
//   - SetterFor, AdderCandidates, GetterFor: accessor pairing
//   - Suggest: closest known name for "did you mean" hints
package naming

// Package lint checks entity contracts statically.
//
// It applies the accessor conventions the schema compiler enforces at run
// time to the contracts of loaded packages, reporting every finding instead
// of stopping at the first one:
//   - methods outside the Get/Set/Add convention and custom utility methods
//   - getter, setter and adder signatures
//   - setters and adders without a getter, getters without a setter or adder
//   - logical and storage name collisions
//   - metadata naming unknown getters or index fields, invalid constraints
package lint

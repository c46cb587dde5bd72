// Package analyze provides package loading and contract extraction.
//
// It uses golang.org/x/tools/go/packages with AST and go/types
// to build a canonical in-memory model of the exported interfaces of a
// package and their method sets.
//
// Key types:
//   - TypeID: package import path + type name
//   - ContractInfo: an exported interface, whether it implements entity.Entity
//   - MethodInfo: name, parameter/result types, inherited or overriding
//   - TypeInfo: describes kind (basic/alias/entity/slice/external/...)
//   - Imports: qualifies type names for generated code
package analyze

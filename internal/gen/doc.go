// Package gen generates typed wrappers for entity contracts.
//
// For every entity contract of a package it writes a struct embedding
// *entity.Instance whose accessors call the dispatcher helpers, plus a
// Register function per contract and a RegisterAll for the package.
//
// Generation uses text/template + go/format for readable Go code.
//
// Accessor bodies:
//   - scalar getters read through entity.Value
//   - reference getters resolve through entity.Ref and entity.Refs
//   - setters and adders write through entity.MustSet and entity.MustAdd,
//     or return the dispatcher error when the method declares one
package gen

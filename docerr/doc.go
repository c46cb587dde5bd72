// Package docerr defines the error taxonomy shared by the schema compiler and
// the entity dispatcher.
//
// Every error is a small value carrier naming the offending contract, accessor
// or property. Errors are grouped by sentinel so callers can branch on the
// category with errors.Is and inspect details with errors.As:
//
//   - ErrConvention: the contract does not follow the accessor convention
//     (InvalidConventionError, UnknownConventionError, IllegalOverrideError,
//     DuplicateSetterError, OrphanSetterError, OrphanAdderError,
//     NamingConflictError, DuplicateIdentifierError, IndexFieldError,
//     NotEntityError).
//   - ErrMetadata: declarative metadata or accessor pairing is unusable
//     (MissingAccessorError, ConflictingMetadataError, InvalidConstraintError).
//   - ErrState: an operation is not allowed in the instance's current state
//     (SealedEntityError, MissingIdentifierError, ReadOnlyPropertyError,
//     IdentifierChangeError, TypeMismatchError, UnknownPropertyError,
//     NotFoundError).
//
// Schema build failures are never cached, so requesting the same contract again
// re-runs the build and returns a fresh error.
package docerr

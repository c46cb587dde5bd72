package docerr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConvention groups contract convention violations.
	ErrConvention = errors.New("convention violation")
	// ErrMetadata groups descriptor build failures caused by metadata or missing accessors.
	ErrMetadata = errors.New("metadata error")
	// ErrState groups failures of instance operations.
	ErrState = errors.New("invalid entity state")
)

// InvalidConventionError is returned when an accessor name or signature cannot
// be interpreted, e.g. "Get" without a property name or a getter taking arguments.
type InvalidConventionError struct {
	Contract string
	Method   string
	Reason   string
}

func (e *InvalidConventionError) Error() string {
	return fmt.Sprintf("%s: method %s does not follow the accessor convention: %s",
		orUnknown(e.Contract), e.Method, e.Reason)
}

func (e *InvalidConventionError) Unwrap() error { return ErrConvention }

// UnknownConventionError is returned for a method that is neither getter,
// setter, adder nor an allowed utility method.
type UnknownConventionError struct {
	Contract string
	Method   string
}

func (e *UnknownConventionError) Error() string {
	return fmt.Sprintf("%s: found method %s, which doesn't conform to the entity method convention",
		orUnknown(e.Contract), e.Method)
}

func (e *UnknownConventionError) Unwrap() error { return ErrConvention }

// IllegalOverrideError is returned when a contract redeclares a utility method
// (Save, String, Equals, ...) with a signature different from the base contract.
type IllegalOverrideError struct {
	Contract string
	Method   string
}

func (e *IllegalOverrideError) Error() string {
	return fmt.Sprintf("%s: don't declare custom %s methods, found a custom signature",
		orUnknown(e.Contract), e.Method)
}

func (e *IllegalOverrideError) Unwrap() error { return ErrConvention }

// DuplicateSetterError is returned when two setters map to the same property.
type DuplicateSetterError struct {
	Contract string
	Method   string
	Property string
}

func (e *DuplicateSetterError) Error() string {
	return fmt.Sprintf("%s: multiple setters found for property %s (%s)",
		orUnknown(e.Contract), e.Property, e.Method)
}

func (e *DuplicateSetterError) Unwrap() error { return ErrConvention }

// OrphanSetterError lists setters that have no matching getter.
type OrphanSetterError struct {
	Contract string
	Methods  []string
}

func (e *OrphanSetterError) Error() string {
	return fmt.Sprintf("%s: found setter methods which have no matching getter [%s]",
		orUnknown(e.Contract), strings.Join(e.Methods, ", "))
}

func (e *OrphanSetterError) Unwrap() error { return ErrConvention }

// OrphanAdderError lists adders that are not paired with a multi-reference getter.
type OrphanAdderError struct {
	Contract string
	Methods  []string
}

func (e *OrphanAdderError) Error() string {
	return fmt.Sprintf("%s: found adder methods which have no matching collection getter [%s]",
		orUnknown(e.Contract), strings.Join(e.Methods, ", "))
}

func (e *OrphanAdderError) Unwrap() error { return ErrConvention }

// NamingConflictError is returned when two getters resolve to the same logical
// name (case-insensitively) or the same storage name.
type NamingConflictError struct {
	Contract string
	Name     string
	First    string
	Second   string
}

func (e *NamingConflictError) Error() string {
	return fmt.Sprintf("%s: methods %s and %s both map to property %q",
		orUnknown(e.Contract), e.First, e.Second, e.Name)
}

func (e *NamingConflictError) Unwrap() error { return ErrConvention }

// DuplicateIdentifierError is returned when more than one property maps to the
// identifier slot.
type DuplicateIdentifierError struct {
	Contract string
	First    string
	Second   string
}

func (e *DuplicateIdentifierError) Error() string {
	return fmt.Sprintf("%s: only one identifier property allowed, found %s and %s",
		orUnknown(e.Contract), e.First, e.Second)
}

func (e *DuplicateIdentifierError) Unwrap() error { return ErrConvention }

// IndexFieldError is returned when an index references an unknown property.
type IndexFieldError struct {
	Contract string
	Index    string
	Field    string
}

func (e *IndexFieldError) Error() string {
	return fmt.Sprintf("%s: Index field %q of index %q does not exist",
		orUnknown(e.Contract), e.Field, e.Index)
}

func (e *IndexFieldError) Unwrap() error { return ErrConvention }

// NotEntityError is returned when a type cannot serve as an entity contract.
type NotEntityError struct {
	Contract string
	Reason   string
}

func (e *NotEntityError) Error() string {
	return fmt.Sprintf("%s is not an entity contract: %s", orUnknown(e.Contract), e.Reason)
}

func (e *NotEntityError) Unwrap() error { return ErrConvention }

// MissingAccessorError is returned when a getter lacks its required setter or
// adder.
type MissingAccessorError struct {
	Contract string
	Getter   string
	Accessor string
}

func (e *MissingAccessorError) Error() string {
	return fmt.Sprintf("%s: method %s has no corresponding %s method",
		orUnknown(e.Contract), e.Getter, e.Accessor)
}

func (e *MissingAccessorError) Unwrap() error { return ErrMetadata }

// ConflictingMetadataError is returned when markers on one accessor contradict
// each other.
type ConflictingMetadataError struct {
	Contract string
	Method   string
	Reason   string
}

func (e *ConflictingMetadataError) Error() string {
	return fmt.Sprintf("%s: conflicting metadata on %s: %s", orUnknown(e.Contract), e.Method, e.Reason)
}

func (e *ConflictingMetadataError) Unwrap() error { return ErrMetadata }

// InvalidConstraintError is returned when the validator rejects a declared
// constraint.
type InvalidConstraintError struct {
	Contract   string
	Method     string
	Constraint string
	Err        error
}

func (e *InvalidConstraintError) Error() string {
	return fmt.Sprintf("%s: invalid constraint %q on %s: %v",
		orUnknown(e.Contract), e.Constraint, e.Method, e.Err)
}

func (e *InvalidConstraintError) Unwrap() []error { return []error{ErrMetadata, e.Err} }

// SealedEntityError is returned when mutating a sealed instance.
type SealedEntityError struct {
	Contract string
	Property string
}

func (e *SealedEntityError) Error() string {
	if e.Property == "" {
		return fmt.Sprintf("%s: entity is sealed", orUnknown(e.Contract))
	}

	return fmt.Sprintf("%s: entity is sealed, can't modify property %s", orUnknown(e.Contract), e.Property)
}

func (e *SealedEntityError) Unwrap() error { return ErrState }

// MissingIdentifierError is returned when an operation needs an identifier that
// is not assigned. Property names the reference property when the identifier is
// missing on a referenced entity.
type MissingIdentifierError struct {
	Contract  string
	Operation string
	Property  string
}

func (e *MissingIdentifierError) Error() string {
	if e.Property != "" {
		return fmt.Sprintf("%s: can't %s, entity referenced by %s has no identifier",
			orUnknown(e.Contract), e.Operation, e.Property)
	}

	return fmt.Sprintf("%s: can't %s entity without identifier", orUnknown(e.Contract), e.Operation)
}

func (e *MissingIdentifierError) Unwrap() error { return ErrState }

// ReadOnlyPropertyError is returned when writing a property without setter.
type ReadOnlyPropertyError struct {
	Contract string
	Property string
}

func (e *ReadOnlyPropertyError) Error() string {
	return fmt.Sprintf("%s: property %s is read-only", orUnknown(e.Contract), e.Property)
}

func (e *ReadOnlyPropertyError) Unwrap() error { return ErrState }

// IdentifierChangeError is returned when the identifier of a persisted instance
// is reassigned.
type IdentifierChangeError struct {
	Contract string
	Old      any
	New      any
}

func (e *IdentifierChangeError) Error() string {
	return fmt.Sprintf("%s: can't change identifier of persisted entity from %v to %v",
		orUnknown(e.Contract), e.Old, e.New)
}

func (e *IdentifierChangeError) Unwrap() error { return ErrState }

// TypeMismatchError is returned when a value doesn't fit a property's declared type.
type TypeMismatchError struct {
	Contract string
	Property string
	Want     string
	Got      string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("%s: property %s expects %s, got %s", orUnknown(e.Contract), e.Property, e.Want, e.Got)
}

func (e *TypeMismatchError) Unwrap() error { return ErrState }

// UnknownPropertyError is returned for a logical name not present in the schema.
type UnknownPropertyError struct {
	Contract   string
	Property   string
	Suggestion string
}

func (e *UnknownPropertyError) Error() string {
	msg := fmt.Sprintf("%s: unknown property %q", orUnknown(e.Contract), e.Property)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(", did you mean %q?", e.Suggestion)
	}

	return msg
}

func (e *UnknownPropertyError) Unwrap() error { return ErrState }

// NotFoundError is returned when no document exists for an identifier.
type NotFoundError struct {
	Collection string
	ID         any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no document with id %v in collection %s", e.ID, e.Collection)
}

func (e *NotFoundError) Unwrap() error { return ErrState }

func orUnknown(contract string) string {
	if contract == "" {
		return "<unknown contract>"
	}

	return contract
}

// Attribute fills in the contract name on errors produced by helpers that
// don't know which contract they are working on. Errors that already name a
// contract are returned unchanged.
func Attribute(err error, contract string) error {
	switch e := err.(type) {
	case *InvalidConventionError:
		setIfEmpty(&e.Contract, contract)
	case *UnknownConventionError:
		setIfEmpty(&e.Contract, contract)
	case *IllegalOverrideError:
		setIfEmpty(&e.Contract, contract)
	case *DuplicateSetterError:
		setIfEmpty(&e.Contract, contract)
	case *OrphanSetterError:
		setIfEmpty(&e.Contract, contract)
	case *OrphanAdderError:
		setIfEmpty(&e.Contract, contract)
	case *NamingConflictError:
		setIfEmpty(&e.Contract, contract)
	case *DuplicateIdentifierError:
		setIfEmpty(&e.Contract, contract)
	case *IndexFieldError:
		setIfEmpty(&e.Contract, contract)
	case *MissingAccessorError:
		setIfEmpty(&e.Contract, contract)
	case *ConflictingMetadataError:
		setIfEmpty(&e.Contract, contract)
	case *InvalidConstraintError:
		setIfEmpty(&e.Contract, contract)
	}

	return err
}

func setIfEmpty(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}

package request

import (
	"errors"
	"fmt"

	"github.com/rflorenc/catalog-console/internal/models"
)

var (
	// ErrValidation is matched by every error the builder returns.
	ErrValidation = errors.New("validation failed")
	// ErrMissingAssociationTarget is matched when link/unlink cannot name
	// both ends of the association.
	ErrMissingAssociationTarget = errors.New("association target is required")
)

// Error codes reported to callers.
const (
	CodeMissingIdentifier          = "missing_identifier"
	CodeMissingAssociationTarget   = "missing_association_target"
	CodeAmbiguousAssociationTarget = "ambiguous_association_target"
	CodeUnsupportedOperation       = "unsupported_operation"
	CodeUnknownResource            = "unknown_resource"
	CodeUnknownOperation           = "unknown_operation"
	CodeInvalidNumber              = "invalid_number"
)

// MissingIdentifierError is returned when an item-level operation has no id.
type MissingIdentifierError struct {
	Field string
}

func (e *MissingIdentifierError) Error() string { return e.Field + " is required" }
func (e *MissingIdentifierError) Code() string  { return CodeMissingIdentifier }
func (e *MissingIdentifierError) Unwrap() error { return ErrValidation }

// MissingAssociationTargetError is returned when link/unlink lacks the
// product or both association targets. Field names what is missing.
type MissingAssociationTargetError struct {
	Field string
}

func (e *MissingAssociationTargetError) Error() string {
	return e.Field + " is required to link/unlink"
}
func (e *MissingAssociationTargetError) Code() string { return CodeMissingAssociationTarget }
func (e *MissingAssociationTargetError) Unwrap() []error {
	return []error{ErrMissingAssociationTarget, ErrValidation}
}

// AmbiguousAssociationTargetError is returned when link/unlink names both a
// supplier and a category.
type AmbiguousAssociationTargetError struct{}

func (e *AmbiguousAssociationTargetError) Error() string {
	return "provide either supplier_id or category_id to link/unlink, not both"
}
func (e *AmbiguousAssociationTargetError) Code() string  { return CodeAmbiguousAssociationTarget }
func (e *AmbiguousAssociationTargetError) Unwrap() error { return ErrValidation }

// UnsupportedOperationError is returned for operations outside a resource's set.
type UnsupportedOperationError struct {
	Resource  models.ResourceKind
	Operation models.Operation
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("operation %q is not supported for %s", e.Operation, e.Resource)
}
func (e *UnsupportedOperationError) Code() string  { return CodeUnsupportedOperation }
func (e *UnsupportedOperationError) Unwrap() error { return ErrValidation }

// UnknownResourceError is returned when a resource name is not registered.
type UnknownResourceError struct {
	Name string
}

func (e *UnknownResourceError) Error() string { return fmt.Sprintf("unknown resource %q", e.Name) }
func (e *UnknownResourceError) Code() string  { return CodeUnknownResource }
func (e *UnknownResourceError) Unwrap() error { return ErrValidation }

// UnknownOperationError is returned when an operation name is not recognised.
type UnknownOperationError struct {
	Name string
}

func (e *UnknownOperationError) Error() string { return fmt.Sprintf("unknown operation %q", e.Name) }
func (e *UnknownOperationError) Code() string  { return CodeUnknownOperation }
func (e *UnknownOperationError) Unwrap() error { return ErrValidation }

// InvalidNumberError is returned when a numeric field cannot be parsed.
type InvalidNumberError struct {
	Field string
	Value string
}

func (e *InvalidNumberError) Error() string {
	return fmt.Sprintf("%s must be a number, got %q", e.Field, e.Value)
}
func (e *InvalidNumberError) Code() string  { return CodeInvalidNumber }
func (e *InvalidNumberError) Unwrap() error { return ErrValidation }

// ErrorCode returns the machine-readable code for a builder error, or "" for
// anything else.
func ErrorCode(err error) string {
	var coded interface{ Code() string }
	if errors.As(err, &coded) {
		return coded.Code()
	}
	return ""
}

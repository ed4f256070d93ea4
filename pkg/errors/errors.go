package errors

import (
	"errors"
	"fmt"
)

// StructuralError indicates a clause required by the query model is absent.
type StructuralError struct {
	Clause string
}

func NewStructuralError(clause string) *StructuralError {
	return &StructuralError{Clause: clause}
}

func NewMissingFromClauseError() *StructuralError {
	return NewStructuralError("FROM")
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("query must have a %s clause", e.Clause)
}

// IsStructuralError checks if the error is a StructuralError.
func IsStructuralError(err error) bool {
	var e *StructuralError
	return errors.As(err, &e)
}

// LookupError indicates a table identifier is not registered in the query.
type LookupError struct {
	Identifier string
}

func NewLookupError(identifier string) *LookupError {
	return &LookupError{Identifier: identifier}
}

func NewPrimaryTableNotFoundError() *LookupError {
	return &LookupError{}
}

func (e *LookupError) Error() string {
	if e.Identifier == "" {
		return "primary table not found"
	}
	return fmt.Sprintf("table with identifier '%s' not found", e.Identifier)
}

func IsLookupError(err error) bool {
	var e *LookupError
	return errors.As(err, &e)
}

// InvalidJoinKindError indicates a join kind outside INNER, LEFT, RIGHT and OUTER.
type InvalidJoinKindError struct {
	Kind string
}

func NewInvalidJoinKindError(kind string) *InvalidJoinKindError {
	return &InvalidJoinKindError{Kind: kind}
}

func (e *InvalidJoinKindError) Error() string {
	return fmt.Sprintf("invalid join kind '%s'", e.Kind)
}

func IsInvalidJoinKindError(err error) bool {
	var e *InvalidJoinKindError
	return errors.As(err, &e)
}

// MalformedQueryError indicates text the scanner cannot segment.
type MalformedQueryError struct {
	// Offset in the normalized query text.
	Position int
	Message  string
}

func NewMalformedQueryError(pos int, format string, args ...any) *MalformedQueryError {
	return &MalformedQueryError{Position: pos, Message: fmt.Sprintf(format, args...)}
}

func (e *MalformedQueryError) Error() string {
	return fmt.Sprintf("malformed query at %d: %s", e.Position, e.Message)
}

func IsMalformedQueryError(err error) bool {
	var e *MalformedQueryError
	return errors.As(err, &e)
}

// ValidationError indicates the database rejected a rendered query.
type ValidationError struct {
	Reason string
}

func NewValidationError(reason string) *ValidationError {
	return &ValidationError{Reason: reason}
}

func NewPaginationNotValidatableError() *ValidationError {
	return NewValidationError("paginated queries use @offsetRows/@rowCount bindings and cannot be validated")
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("query failed validation: %s", e.Reason)
}

func IsValidationError(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

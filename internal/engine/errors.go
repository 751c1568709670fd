package engine

import (
	"errors"
	"fmt"
)

// QueryError represents a failure to execute one query.
//
// Query errors are recoverable per-query: the runner catches them at its
// boundary, reports them with the offending label, and continues with the
// next query in the battery. The immutable graph means a failed query cannot
// corrupt shared state.
type QueryError struct {
	// Code identifies the error category.
	Code QueryErrorCode

	// Message is a human-readable description.
	Message string

	// Err is the underlying engine error, if any.
	Err error
}

// QueryErrorCode categorizes query failures.
type QueryErrorCode string

const (
	// ErrCodeSyntax indicates the query text failed to parse.
	ErrCodeSyntax QueryErrorCode = "SYNTAX_ERROR"

	// ErrCodeType indicates a type error in a filter or bind expression.
	ErrCodeType QueryErrorCode = "TYPE_ERROR"

	// ErrCodeExecution indicates the engine failed during evaluation,
	// including per-query timeouts.
	ErrCodeExecution QueryErrorCode = "EXECUTION_ERROR"
)

// Error implements the error interface.
func (e *QueryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying engine error.
func (e *QueryError) Unwrap() error { return e.Err }

// NewSyntaxError creates a QueryError for unparseable query text.
func NewSyntaxError(err error) *QueryError {
	return &QueryError{Code: ErrCodeSyntax, Message: "query text failed to parse", Err: err}
}

// NewExecutionError creates a QueryError for an evaluation failure.
func NewExecutionError(msg string, err error) *QueryError {
	return &QueryError{Code: ErrCodeExecution, Message: msg, Err: err}
}

// IsSyntaxError reports whether err is a syntax-category query error.
// Uses errors.As to handle wrapped errors.
func IsSyntaxError(err error) bool {
	var qe *QueryError
	return errors.As(err, &qe) && qe.Code == ErrCodeSyntax
}

// IsQueryError reports whether err is any query-level failure.
func IsQueryError(err error) bool {
	var qe *QueryError
	return errors.As(err, &qe)
}

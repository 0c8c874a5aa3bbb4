package value

import (
	"errors"
	"fmt"
)

// ErrorType classifies a language error.
type ErrorType string

const (
	// ErrorStaticType is a type mismatch found while typechecking.
	ErrorStaticType ErrorType = "STATIC_TYPE_ERROR"
	// ErrorDynamicType is a runtime value whose kind violates an operator's
	// expectation.
	ErrorDynamicType ErrorType = "DYNAMIC_TYPE_ERROR"
	// ErrorScope is a duplicate declaration or an undeclared lookup/update.
	ErrorScope ErrorType = "SCOPE_ERROR"
	// ErrorDispatch is a call to an unregistered function name.
	ErrorDispatch ErrorType = "DISPATCH_ERROR"
)

// Error is the single error type raised by the typechecker and the
// interpreter. Every Error is fatal: it aborts the whole run.
type Error struct {
	Type    ErrorType
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

func newError(t ErrorType, format string, args ...any) *Error {
	return &Error{Type: t, Message: fmt.Sprintf(format, args...)}
}

// NewStaticTypeError creates a STATIC_TYPE_ERROR.
func NewStaticTypeError(format string, args ...any) *Error {
	return newError(ErrorStaticType, format, args...)
}

// NewDynamicTypeError creates a DYNAMIC_TYPE_ERROR.
func NewDynamicTypeError(format string, args ...any) *Error {
	return newError(ErrorDynamicType, format, args...)
}

// NewScopeError creates a SCOPE_ERROR.
func NewScopeError(format string, args ...any) *Error {
	return newError(ErrorScope, format, args...)
}

// NewDispatchError creates a DISPATCH_ERROR.
func NewDispatchError(format string, args ...any) *Error {
	return newError(ErrorDispatch, format, args...)
}

// TypeOf returns the ErrorType of the first *Error in err's chain.
func TypeOf(err error) (ErrorType, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Type, true
	}
	return "", false
}

func isType(err error, t ErrorType) bool {
	got, ok := TypeOf(err)
	return ok && got == t
}

func IsStaticTypeError(err error) bool  { return isType(err, ErrorStaticType) }
func IsDynamicTypeError(err error) bool { return isType(err, ErrorDynamicType) }
func IsScopeError(err error) bool       { return isType(err, ErrorScope) }
func IsDispatchError(err error) bool    { return isType(err, ErrorDispatch) }

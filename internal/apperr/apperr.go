// Package apperr defines the failure taxonomy shared by every protocol:
// validation (bad input, nothing written), not found (unknown id),
// forbidden (a business rule such as insufficient balance would be violated)
// and infrastructure (store failures, always rolled back).
package apperr

import (
	"fmt"
	"net/http"
)

type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindForbidden
	KindInfrastructure
)

type Error struct {
	Kind    Kind
	Message string
	// Context carries the numeric details a caller needs to correct a
	// rejected request (current balance, requested amount, shortfall).
	Context map[string]interface{}
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func Validation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFound reports an unresolved entity id, e.g. "Couldn't find Envelope id: 7".
func NotFound(entity, id string) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("Couldn't find %s id: %s", entity, id)}
}

func Forbidden(message string, context map[string]interface{}) *Error {
	return &Error{Kind: KindForbidden, Message: message, Context: context}
}

func Infrastructure(op string, err error) *Error {
	return &Error{Kind: KindInfrastructure, Message: op + " failed", Err: err}
}

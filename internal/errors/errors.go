// Package errors carries a machine-readable code alongside error messages so
// the client, the mock servers and the UI agree on what went wrong.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies a class of failure.
type Code string

const (
	CodeUnknown Code = "unknown"

	// Talking to the services
	CodeAPIFailed   Code = "api_failed"
	CodeParseFailed Code = "parse_failed"
	CodeNotFound    Code = "not_found"

	// Employee records
	CodeValidation     Code = "validation_failed"
	CodeInvalidRole    Code = "invalid_role"
	CodeInvalidEmpType Code = "invalid_employment_type"
	CodeInvalidImage   Code = "invalid_image"

	// Local files and databases
	CodeStorage Code = "storage_failed"
)

// Error is a coded error. Message is what users see; Err keeps the cause for
// errors.Is and errors.As.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Code)
}

func (e Error) Unwrap() error {
	return e.Err
}

// New builds an Error.
func New(code Code, msg string, err error) Error {
	return Error{Code: code, Message: msg, Err: err}
}

// Wrap describes err as the failure of op, e.g. "save draft step1: disk full".
func Wrap(code Code, op string, err error) Error {
	return Error{Code: code, Message: fmt.Sprintf("%s: %v", op, err), Err: err}
}

// CodeOf returns the code of the first Error in err's chain.
func CodeOf(err error) Code {
	var coded Error
	if errors.As(err, &coded) {
		return coded.Code
	}
	return CodeUnknown
}

// IsCode reports whether err's chain carries code.
func IsCode(err error, code Code) bool {
	return CodeOf(err) == code
}

// FromStatus classifies a non-2xx response from one of the services.
func FromStatus(status int) Code {
	switch {
	case status == http.StatusNotFound:
		return CodeNotFound
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		return CodeValidation
	default:
		return CodeAPIFailed
	}
}

// HTTPStatus is the response status the mock services send for code.
func HTTPStatus(code Code) int {
	switch code {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeValidation, CodeParseFailed, CodeInvalidRole, CodeInvalidEmpType, CodeInvalidImage:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

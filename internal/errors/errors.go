// Package errors provides coded domain errors for the Penwell API.
//
// Services return typed errors and the HTTP layer maps the code to a status:
//
//	if !policy.CanPerform(actor, policy.ActionDelete, policy.Post{OwnerID: post.UserID}) {
//	    return errors.Forbidden("not allowed to delete this post")
//	}
//
//	var domainErr *errors.Error
//	if errors.As(err, &domainErr) {
//	    status := domainErr.HTTPStatus()
//	}
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Standard library helpers, so callers need a single errors import.
var (
	Is  = errors.Is
	As  = errors.As
	New = errors.New
)

// Code is the machine-readable kind of a domain error. It is sent to clients
// as error.code in the response envelope.
type Code string

const (
	CodeInvalidArgument    Code = "INVALID_ARGUMENT"
	CodeNotFound           Code = "NOT_FOUND"
	CodeForbidden          Code = "FORBIDDEN"
	CodeConflict           Code = "CONFLICT"
	CodeUnauthorized       Code = "UNAUTHORIZED"
	CodeInvalidCredentials Code = "INVALID_CREDENTIALS"
	CodeInternal           Code = "INTERNAL"
)

var statusByCode = map[Code]int{
	CodeInvalidArgument:    http.StatusBadRequest,
	CodeNotFound:           http.StatusNotFound,
	CodeForbidden:          http.StatusForbidden,
	CodeConflict:           http.StatusConflict,
	CodeUnauthorized:       http.StatusUnauthorized,
	CodeInvalidCredentials: http.StatusUnauthorized,
}

// HTTPStatus returns the response status for c. Unknown codes are 500.
func (c Code) HTTPStatus() int {
	if status, ok := statusByCode[c]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// Error is a domain error. Two errors match under errors.Is when their codes
// are equal, so the sentinels below work for any message.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	cause   error
}

func (e *Error) Error() string {
	if e.cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.cause.Error()
}

func (e *Error) Unwrap() error { return e.cause }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// HTTPStatus returns the response status for the error's code.
func (e *Error) HTTPStatus() int {
	return e.Code.HTTPStatus()
}

// WithDetails returns a copy of e carrying details. e is not modified.
func (e *Error) WithDetails(details any) *Error {
	cp := *e
	cp.Details = details
	return &cp
}

// Sentinels for errors.Is.
var (
	ErrInvalidArgument    = &Error{Code: CodeInvalidArgument, Message: "invalid argument"}
	ErrNotFound           = &Error{Code: CodeNotFound, Message: "not found"}
	ErrForbidden          = &Error{Code: CodeForbidden, Message: "forbidden"}
	ErrConflict           = &Error{Code: CodeConflict, Message: "conflict"}
	ErrUnauthorized       = &Error{Code: CodeUnauthorized, Message: "unauthorized"}
	ErrInvalidCredentials = &Error{Code: CodeInvalidCredentials, Message: "invalid credentials"}
	ErrInternal           = &Error{Code: CodeInternal, Message: "internal error"}
)

func newError(code Code, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

func InvalidArgument(msg string) *Error { return newError(CodeInvalidArgument, msg) }

func InvalidArgumentf(format string, args ...any) *Error {
	return newError(CodeInvalidArgument, fmt.Sprintf(format, args...))
}

// ValidationWithDetails is an invalid argument error carrying per-field messages.
func ValidationWithDetails(msg string, details any) *Error {
	return newError(CodeInvalidArgument, msg).WithDetails(details)
}

func NotFound(msg string) *Error { return newError(CodeNotFound, msg) }

func NotFoundf(format string, args ...any) *Error {
	return newError(CodeNotFound, fmt.Sprintf(format, args...))
}

func Forbidden(msg string) *Error { return newError(CodeForbidden, msg) }

func Conflict(msg string) *Error { return newError(CodeConflict, msg) }

func Conflictf(format string, args ...any) *Error {
	return newError(CodeConflict, fmt.Sprintf(format, args...))
}

func Unauthorized(msg string) *Error { return newError(CodeUnauthorized, msg) }

func InvalidCredentials(msg string) *Error { return newError(CodeInvalidCredentials, msg) }

func Internal(msg string) *Error { return newError(CodeInternal, msg) }

// Wrap attaches code and msg to err. The result unwraps to err.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, cause: err}
}

// Package apperrors holds the error kinds shared by the HTTP and WebSocket paths.
package apperrors

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindInternal Kind = iota
	KindBadRequest
	KindUnauthorized
	KindForbidden
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindBadRequest:
		return "bad_request"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func BadRequest(message string) *Error   { return New(KindBadRequest, message) }
func Unauthorized(message string) *Error { return New(KindUnauthorized, message) }
func Forbidden(message string) *Error    { return New(KindForbidden, message) }
func NotFound(message string) *Error     { return New(KindNotFound, message) }

func UserAlreadyExists(email string) *Error {
	return BadRequest(fmt.Sprintf("User with the id: %s, already exists", email))
}

func WrongCredentials() *Error {
	return BadRequest("Wrong credentials provided")
}

func UserNotFound(id any) *Error {
	return NotFound(fmt.Sprintf("User with the id: %v, was not found", id))
}

func TaskNotFound(id uint) *Error {
	return NotFound(fmt.Sprintf("Task with the id: %d, was not found", id))
}

// ServerError hides err from clients; the message is fixed.
func ServerError(err error) *Error {
	return Wrap(KindInternal, "An error has occurred with the server", err)
}

// KindOf returns KindInternal for errors that are not *Error.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// PublicMessage คืนข้อความที่ส่งให้ client ได้
func PublicMessage(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "An error has occurred with the server"
}

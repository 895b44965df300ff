package models

import (
	"errors"
	"fmt"
)

type ErrorKind int

const (
	KindNotFound ErrorKind = iota + 1
	KindInvalidCode
	KindNetwork
	KindValidation
	KindUnauthorized
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "NOT_FOUND"
	case KindInvalidCode:
		return "INVALID_CODE"
	case KindNetwork:
		return "NETWORK_ERROR"
	case KindValidation:
		return "VALIDATION_ERROR"
	case KindUnauthorized:
		return "UNAUTHORIZED"
	default:
		return "UNKNOWN"
	}
}

type FieldError struct {
	Path    string `json:"path,omitempty"`
	Message string `json:"message"`
}

// AppError is the single error shape surfaced by repositories and services.
type AppError struct {
	Kind    ErrorKind
	Message string
	Errors  []FieldError
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

func NewNotFound(message string) *AppError {
	return &AppError{Kind: KindNotFound, Message: message}
}

func NewValidation(message string, fields ...FieldError) *AppError {
	return &AppError{Kind: KindValidation, Message: message, Errors: fields}
}

func NewNetwork(message string, err error) *AppError {
	return &AppError{Kind: KindNetwork, Message: message, Err: err}
}

func NewUnauthorized(message string) *AppError {
	return &AppError{Kind: KindUnauthorized, Message: message}
}

// NewInvalidCode mirrors the CMS validation payload so clients can render it
// with the same code path as any other field error.
func NewInvalidCode(code string) *AppError {
	return &AppError{
		Kind:    KindInvalidCode,
		Message: "Invalid discount code",
		Errors: []FieldError{{
			Path:    "code",
			Message: fmt.Sprintf("discount code %q is not valid for this store", code),
		}},
	}
}

// KindOf returns the kind of the first AppError in err's chain, or 0.
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return 0
}

func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

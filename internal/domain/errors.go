package domain

import (
	"errors"
	"fmt"
)

// Error codes. Every user-facing failure carries one of these so adapters
// can resolve a localized message without switching on error values.
const (
	CodeParse      = "parse_error"
	CodeValidation = "validation_error"
	CodeStorage    = "storage_error"
	CodeRemote     = "remote_error"
)

// CodedError is a recoverable domain error with a stable code.
type CodedError struct {
	ErrCode string
	Message string
	cause   error
}

func (e *CodedError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *CodedError) Unwrap() error { return e.cause }

// Code extracts the domain error code, or "" for non-domain errors.
func Code(err error) string {
	var ce *CodedError
	if errors.As(err, &ce) {
		return ce.ErrCode
	}
	return ""
}

// Domain errors.
var (
	ErrEmptyInput     = &CodedError{ErrCode: CodeParse, Message: "empty message"}
	ErrUnintelligible = &CodedError{ErrCode: CodeParse, Message: "no alphanumeric content"}
	ErrEndBeforeStart = &CodedError{ErrCode: CodeValidation, Message: "end time before start time"}
	ErrBadPosition    = &CodedError{ErrCode: CodeValidation, Message: "no event at that position"}
)

// StorageError wraps a persistence failure with the storage code.
func StorageError(err error) error {
	return &CodedError{ErrCode: CodeStorage, Message: "storage failure", cause: err}
}

// RemoteError wraps a calendar service failure with the remote code.
func RemoteError(err error) error {
	return &CodedError{ErrCode: CodeRemote, Message: "calendar service failure", cause: err}
}

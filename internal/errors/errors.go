// Package errors centralizes the error taxonomy named in the
// pipeline's error handling design: UnknownFormat, BadDateTime,
// BadStationName, BadStationMapping, PersistenceFailed, UnknownMode.
package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError is a structured application error carrying a stable code so
// callers can branch on failure kind without string-matching messages.
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError.
func New(code, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Wrap wraps an error with additional context, preserving its code.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{Code: appErr.Code, Message: message, Cause: appErr}
	}
	return &AppError{Code: CodeInternalError, Message: message, Cause: err}
}

// Wrapf wraps an error with formatted additional context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// GetCode returns the error code if err is, or wraps, an AppError,
// otherwise "UNKNOWN". It unwraps through fmt.Errorf("%w", ...) chains
// so a caller further up the stack still sees the original code.
func GetCode(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return "UNKNOWN"
}

// Predefined error codes, one per kind in the error handling design.
const (
	CodeUnknownFormat     = "UNKNOWN_FORMAT"
	CodeBadDateTime       = "BAD_DATETIME"
	CodeBadStationName    = "BAD_STATION_NAME"
	CodeBadStationMapping = "BAD_STATION_MAPPING"
	CodePersistenceFailed = "PERSISTENCE_FAILED"
	CodeUnknownMode       = "UNKNOWN_MODE"
	CodeConfigInvalid     = "CONFIG_INVALID"
	CodeInternalError     = "INTERNAL_ERROR"
)

// UnknownFormat is raised by the Format Recogniser when no layout
// matches a file's column signature.
func UnknownFormat(columns []string) *AppError {
	return New(CodeUnknownFormat, fmt.Sprintf("no recognised layout matches columns %v", columns))
}

// BadDateTime is raised by the Normaliser when neither spelling of a
// layout's timestamp column parses.
func BadDateTime(value string) *AppError {
	return New(CodeBadDateTime, fmt.Sprintf("could not parse timestamp %q", value))
}

// BadStationName is raised when a reconciled station name still fails
// the station-name shape after mapping has been applied.
func BadStationName(offenders []string) *AppError {
	return New(CodeBadStationName, fmt.Sprintf("invalid station name(s): %v", offenders))
}

// BadStationMapping is raised when the station mapping file itself is
// malformed (empty file, missing columns).
func BadStationMapping(reason string) *AppError {
	return New(CodeBadStationMapping, fmt.Sprintf("malformed station mapping: %s", reason))
}

// PersistenceFailed is raised by the Store Coordinator when the
// persistence engine rejects a row for one transmitter.
func PersistenceFailed(transmitterID string, cause error) *AppError {
	return &AppError{
		Code:    CodePersistenceFailed,
		Message: fmt.Sprintf("persistence failed for transmitter %s", transmitterID),
		Cause:   cause,
	}
}

// UnknownMode is raised by the CLI when --conn names neither "local"
// nor "remote".
func UnknownMode(mode string) *AppError {
	return New(CodeUnknownMode, fmt.Sprintf("unknown connection mode %q, want \"local\" or \"remote\"", mode))
}

// ConfigInvalid is raised when required configuration is missing or
// malformed.
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

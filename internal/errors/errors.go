package errors

import (
	"errors"
	"fmt"
)

// Standard application errors
var (
	ErrEmptyInput      = errors.New("input is empty or contains only whitespace")
	ErrFileNotFound    = errors.New("file not found")
	ErrFileEmpty       = errors.New("file is empty")
	ErrInvalidFilePath = errors.New("invalid file path")
)

// ErrorType categorizes errors
type ErrorType string

const (
	ErrorTypeTypeMismatch         ErrorType = "type mismatch"
	ErrorTypeKeyNotFound          ErrorType = "key not found"
	ErrorTypeIndexOutOfBounds     ErrorType = "index out of bounds"
	ErrorTypeMalformedEscape      ErrorType = "malformed escape"
	ErrorTypeMalformedNumber      ErrorType = "malformed number"
	ErrorTypeMalformedLiteral     ErrorType = "malformed literal"
	ErrorTypeUnexpectedToken      ErrorType = "unexpected token"
	ErrorTypeUnexpectedEndOfInput ErrorType = "unexpected end of input"
	ErrorTypeUnknownVariant       ErrorType = "unknown variant"
	ErrorTypeArityMismatch        ErrorType = "arity mismatch"
	ErrorTypeDepthExceeded        ErrorType = "depth exceeded"
	ErrorTypeUnsupported          ErrorType = "unsupported"
	ErrorTypeInput                ErrorType = "input"
	ErrorTypeOutput               ErrorType = "output"
	ErrorTypeConfig               ErrorType = "config"
)

// Sentinels for errors.Is. AppError.Is compares by Type only, so any error
// produced by the constructors below matches the sentinel of its type.
var (
	ErrTypeMismatch         = &AppError{Type: ErrorTypeTypeMismatch}
	ErrKeyNotFound          = &AppError{Type: ErrorTypeKeyNotFound}
	ErrIndexOutOfBounds     = &AppError{Type: ErrorTypeIndexOutOfBounds}
	ErrMalformedEscape      = &AppError{Type: ErrorTypeMalformedEscape}
	ErrMalformedNumber      = &AppError{Type: ErrorTypeMalformedNumber}
	ErrMalformedLiteral     = &AppError{Type: ErrorTypeMalformedLiteral}
	ErrUnexpectedToken      = &AppError{Type: ErrorTypeUnexpectedToken}
	ErrUnexpectedEndOfInput = &AppError{Type: ErrorTypeUnexpectedEndOfInput}
	ErrUnknownVariant       = &AppError{Type: ErrorTypeUnknownVariant}
	ErrArityMismatch        = &AppError{Type: ErrorTypeArityMismatch}
	ErrDepthExceeded        = &AppError{Type: ErrorTypeDepthExceeded}
	ErrUnsupported          = &AppError{Type: ErrorTypeUnsupported}
)

// AppError is an application-specific error with context
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	if e.Message == "" {
		return string(e.Type)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for comparison
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// TypeOf returns the ErrorType of the first AppError in err's chain, or ""
// when there is none.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ""
}

func newf(t ErrorType, format string, args ...any) *AppError {
	return &AppError{Type: t, Message: fmt.Sprintf(format, args...)}
}

// NewTypeMismatch reports an operation applied to a node of the wrong kind
func NewTypeMismatch(format string, args ...any) *AppError {
	return newf(ErrorTypeTypeMismatch, format, args...)
}

// NewKeyNotFound reports a read of an absent object key
func NewKeyNotFound(key string) *AppError {
	return newf(ErrorTypeKeyNotFound, "key %q", key)
}

// NewIndexOutOfBounds reports an array access outside [0, length)
func NewIndexOutOfBounds(index, length int) *AppError {
	return newf(ErrorTypeIndexOutOfBounds, "index %d with length %d", index, length)
}

// NewMalformedEscape reports an invalid backslash escape at a byte offset
func NewMalformedEscape(offset int, format string, args ...any) *AppError {
	return atOffset(ErrorTypeMalformedEscape, offset, format, args...)
}

// NewMalformedNumber reports a number literal that does not parse
func NewMalformedNumber(offset int, text string) *AppError {
	return atOffset(ErrorTypeMalformedNumber, offset, "%q", text)
}

// NewMalformedLiteral reports a bare word other than true, false or null
func NewMalformedLiteral(offset int, text string) *AppError {
	return atOffset(ErrorTypeMalformedLiteral, offset, "%q", text)
}

// NewUnexpectedToken reports a token (or character) the grammar does not allow
func NewUnexpectedToken(offset int, format string, args ...any) *AppError {
	return atOffset(ErrorTypeUnexpectedToken, offset, format, args...)
}

// NewUnexpectedEndOfInput reports input that stops in the middle of a value
func NewUnexpectedEndOfInput(format string, args ...any) *AppError {
	return newf(ErrorTypeUnexpectedEndOfInput, format, args...)
}

// NewUnknownVariant reports a tagged-union "type" that names no variant
func NewUnknownVariant(format string, args ...any) *AppError {
	return newf(ErrorTypeUnknownVariant, format, args...)
}

// NewArityMismatch reports a positional array of the wrong length
func NewArityMismatch(want, got int) *AppError {
	return newf(ErrorTypeArityMismatch, "want %d elements, got %d", want, got)
}

// NewDepthExceeded reports nesting past a configured limit
func NewDepthExceeded(limit int) *AppError {
	return newf(ErrorTypeDepthExceeded, "nesting deeper than %d", limit)
}

// NewUnsupported reports a Go type the mapping protocol cannot represent
func NewUnsupported(format string, args ...any) *AppError {
	return newf(ErrorTypeUnsupported, format, args...)
}

// NewInputError creates a new error related to input processing
func NewInputError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInput,
		Message: message,
		Err:     err,
	}
}

// NewOutputError creates a new error related to output processing
func NewOutputError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeOutput,
		Message: message,
		Err:     err,
	}
}

// NewConfigError creates a new error related to configuration
func NewConfigError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeConfig,
		Message: message,
		Err:     err,
	}
}

// Wrap prefixes the message of an AppError with a path element, keeping its
// type. Used while descending into nested values so the final message shows
// where the failure happened. Non-AppErrors are returned unchanged.
func Wrap(err error, where string) error {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return err
	}
	msg := where
	if appErr.Message != "" {
		msg = where + ": " + appErr.Message
	}
	return &AppError{Type: appErr.Type, Message: msg, Err: appErr.Err}
}

func atOffset(t ErrorType, offset int, format string, args ...any) *AppError {
	return &AppError{Type: t, Message: fmt.Sprintf(format, args...) + fmt.Sprintf(" at offset %d", offset)}
}

// UserFriendlyError returns a user-friendly error message
func UserFriendlyError(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case ErrorTypeInput:
			return fmt.Sprintf("Input error: %s", appErr.Message)
		case ErrorTypeOutput:
			return fmt.Sprintf("Output error: %s", appErr.Message)
		case ErrorTypeConfig:
			return fmt.Sprintf("Configuration error: %s", appErr.Message)
		case ErrorTypeMalformedEscape, ErrorTypeMalformedNumber, ErrorTypeMalformedLiteral,
			ErrorTypeUnexpectedToken, ErrorTypeUnexpectedEndOfInput, ErrorTypeDepthExceeded:
			return fmt.Sprintf("JSON syntax error: %s", appErr.Error())
		default:
			return fmt.Sprintf("Error: %s", appErr.Error())
		}
	}

	// Handle standard errors
	if errors.Is(err, ErrEmptyInput) {
		return "Error: The input is empty. Please provide valid JSON data."
	}
	if errors.Is(err, ErrFileNotFound) {
		return "Error: The specified file could not be found. Please check the file path."
	}
	if errors.Is(err, ErrFileEmpty) {
		return "Error: The specified file is empty. Please provide a file with valid JSON content."
	}
	if errors.Is(err, ErrInvalidFilePath) {
		return "Error: Invalid file path. Please provide a valid file path."
	}

	// Generic error message for unknown errors
	return fmt.Sprintf("Error: %v", err)
}

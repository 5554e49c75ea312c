/*
Package dynamodel – error types.

ConvertError is returned by every decode path of the codec. TableError and
ArgError are returned by the store adapter (Table / Collection).
*/
package dynamodel

import (
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ErrorCode is a well-known error category string.
type ErrorCode string

// Codec failure kinds. The set is closed; none of them is retried.
const (
	ErrFieldNotSet            ErrorCode = "FieldNotSet"
	ErrAttributeValueMismatch ErrorCode = "AttributeValueMismatch"
	ErrParseNumber            ErrorCode = "ParseNumber"
	ErrVariantNotFound        ErrorCode = "VariantNotFound"
	ErrOther                  ErrorCode = "Other"
)

// Store adapter categories.
const (
	ErrArgument ErrorCode = "ArgumentError"
	ErrRuntime  ErrorCode = "RuntimeError"
	ErrUnique   ErrorCode = "UniqueError"
	ErrNotFound ErrorCode = "NotFoundError"
	ErrConvert  ErrorCode = "ConvertError"
)

// ConvertError describes why an attribute map could not be decoded.
//
// Only the fields relevant to Code are set: Key for FieldNotSet, Expected and
// Actual for AttributeValueMismatch, Cause for ParseNumber and Other.
type ConvertError struct {
	Code     ErrorCode
	Key      string
	Expected Kind
	Actual   types.AttributeValue
	Cause    error
}

func (e *ConvertError) Error() string {
	switch e.Code {
	case ErrFieldNotSet:
		return fmt.Sprintf("`%s` field is not set", e.Key)
	case ErrAttributeValueMismatch:
		return fmt.Sprintf("expect `%s` type, but got %s", e.Expected, Describe(e.Actual))
	case ErrVariantNotFound:
		return "not found any variant in item"
	}
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return string(e.Code)
}

func (e *ConvertError) Unwrap() error { return e.Cause }

// Is reports whether target is a ConvertError of the same code. Sentinel
// values such as ErrNotSet compare by code only.
func (e *ConvertError) Is(target error) bool {
	t, ok := target.(*ConvertError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Sentinels for errors.Is.
var (
	ErrNotSet        error = &ConvertError{Code: ErrFieldNotSet}
	ErrMismatch      error = &ConvertError{Code: ErrAttributeValueMismatch}
	ErrNumber        error = &ConvertError{Code: ErrParseNumber}
	ErrNoVariant     error = &ConvertError{Code: ErrVariantNotFound}
	ErrCustomFailure error = &ConvertError{Code: ErrOther}
)

// FieldNotSet reports a missing key.
func FieldNotSet(key string) *ConvertError {
	return &ConvertError{Code: ErrFieldNotSet, Key: key}
}

// Mismatch reports an attribute value of the wrong kind.
func Mismatch(expected Kind, actual types.AttributeValue) *ConvertError {
	return &ConvertError{Code: ErrAttributeValueMismatch, Expected: expected, Actual: actual}
}

// ParseNumber wraps a malformed number error.
func ParseNumber(cause error) *ConvertError {
	return &ConvertError{Code: ErrParseNumber, Cause: cause}
}

// VariantNotFound reports that no union variant matched the item.
func VariantNotFound() *ConvertError {
	return &ConvertError{Code: ErrVariantNotFound}
}

// Other wraps an arbitrary failure raised by a custom hook.
func Other(cause error) *ConvertError {
	return &ConvertError{Code: ErrOther, Cause: cause}
}

// CodeOf returns the outermost ErrorCode carried by err, or "" when err
// holds none of this package's error types.
func CodeOf(err error) ErrorCode {
	var te *TableError
	if errors.As(err, &te) {
		return te.Code
	}
	var ce *ConvertError
	if errors.As(err, &ce) {
		return ce.Code
	}
	var ae *ArgError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}

// TableError is the general store adapter error. It carries an optional Code
// and a free-form Context map for extra debugging data.
type TableError struct {
	Message string
	Code    ErrorCode
	Context map[string]any
	Cause   error
}

func (e *TableError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return e.Message
}

func (e *TableError) Unwrap() error { return e.Cause }

// NewError constructs a TableError.
func NewError(msg string, opts ...func(*TableError)) *TableError {
	err := &TableError{Message: msg}
	for _, o := range opts {
		o(err)
	}
	return err
}

// WithCode sets the error code.
func WithCode(c ErrorCode) func(*TableError) {
	return func(e *TableError) { e.Code = c }
}

// WithContext attaches a context map.
func WithContext(ctx map[string]any) func(*TableError) {
	return func(e *TableError) { e.Context = ctx }
}

// WithCause wraps an underlying error.
func WithCause(cause error) func(*TableError) {
	return func(e *TableError) { e.Cause = cause }
}

// ArgError is for invalid argument / configuration errors.
type ArgError struct {
	Message string
	Code    ErrorCode
}

func (e *ArgError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return e.Message
}

// NewArgError constructs an ArgError.
func NewArgError(msg string, code ...ErrorCode) *ArgError {
	c := ErrArgument
	if len(code) > 0 {
		c = code[0]
	}
	return &ArgError{Message: msg, Code: c}
}

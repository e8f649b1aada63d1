package phonenumber

import (
	"errors"
	"fmt"
)

// ErrorType is the closed set of reasons a parse can fail.
type ErrorType int

const (
	NoError ErrorType = iota
	NotANumber
	InvalidCountryCode
	// TooShortAfterIDD means too few digits were left after the international dialling prefix to hold a country code.
	TooShortAfterIDD
	TooShortNSN
	TooLongNSN
)

var errorTypeNames = [...]string{
	NoError:            "NO_ERROR",
	NotANumber:         "NOT_A_NUMBER",
	InvalidCountryCode: "INVALID_COUNTRY_CODE",
	TooShortAfterIDD:   "TOO_SHORT_AFTER_IDD",
	TooShortNSN:        "TOO_SHORT_NSN",
	TooLongNSN:         "TOO_LONG_NSN",
}

var errorTypeMessages = [...]string{
	NoError:            "no error",
	NotANumber:         "the string supplied did not seem to be a phone number",
	InvalidCountryCode: "invalid country calling code",
	TooShortAfterIDD:   "phone number had an IDD, but after this was not long enough to be a viable phone number",
	TooShortNSN:        "the string supplied is too short to be a phone number",
	TooLongNSN:         "the string supplied is too long to be a phone number",
}

func (t ErrorType) String() string {
	if t < 0 || int(t) >= len(errorTypeNames) {
		return fmt.Sprintf("ErrorType(%d)", int(t))
	}
	return errorTypeNames[t]
}

// ParseError is returned by every parse failure.
type ParseError struct {
	Type  ErrorType
	Input string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	message := e.Type.String()
	if e.Type >= 0 && int(e.Type) < len(errorTypeMessages) {
		message = errorTypeMessages[e.Type]
	}
	if e.Input == "" {
		return message
	}
	return fmt.Sprintf("parsing %q: %s", e.Input, message)
}

// Is matches any ParseError of the same type, so that errors.Is(err, ErrTooShortNSN) works whatever the input.
func (e *ParseError) Is(err error) bool {
	target, ok := err.(*ParseError)
	return ok && target.Type == e.Type
}

var (
	ErrNotANumber         = &ParseError{Type: NotANumber}
	ErrInvalidCountryCode = &ParseError{Type: InvalidCountryCode}
	ErrTooShortAfterIDD   = &ParseError{Type: TooShortAfterIDD}
	ErrTooShortNSN        = &ParseError{Type: TooShortNSN}
	ErrTooLongNSN         = &ParseError{Type: TooLongNSN}
)

func newParseError(t ErrorType, input string) *ParseError {
	return &ParseError{Type: t, Input: input}
}

// ErrorTypeOf returns the type of a parse error anywhere in the chain of err.
// It returns NoError when err is nil or holds no ParseError.
func ErrorTypeOf(err error) ErrorType {
	var parseError *ParseError
	if errors.As(err, &parseError) {
		return parseError.Type
	}
	return NoError
}

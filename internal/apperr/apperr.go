// Package apperr defines the error kinds surfaced to users of the comparison pipeline.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure for presentation.
type Kind string

const (
	KindNotFound             Kind = "not_found"
	KindDirectoryUnavailable Kind = "directory_unavailable"
	KindProvider             Kind = "provider_error"
	KindValidation           Kind = "validation_error"
)

// Sentinels usable with errors.Is.
var (
	ErrNotFound             = &Error{Kind: KindNotFound}
	ErrDirectoryUnavailable = &Error{Kind: KindDirectoryUnavailable}
	ErrProvider             = &Error{Kind: KindProvider}
	ErrValidation           = &Error{Kind: KindValidation}
)

// Error is a classified error with a user-facing message.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Msg != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	case e.Msg != "":
		return e.Msg
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return string(e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so the sentinels compare by kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// NotFound reports an unresolvable symbol.
func NotFound(input string) error {
	return &Error{
		Kind: KindNotFound,
		Msg:  fmt.Sprintf("%q not found; enter the exact company name or the 6-digit ticker code", input),
	}
}

// DirectoryUnavailable wraps a listing fetch or parse failure.
func DirectoryUnavailable(err error) error {
	return &Error{Kind: KindDirectoryUnavailable, Msg: "company directory unavailable", Err: err}
}

// Provider wraps a price retrieval failure for the given code.
func Provider(code string, err error) error {
	return &Error{Kind: KindProvider, Msg: fmt.Sprintf("price history for %s unavailable", code), Err: err}
}

// Validation reports a rejected request.
func Validation(format string, args ...any) error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

// ValidationWrap reports a rejected request caused by err.
func ValidationWrap(err error, format string, args ...any) error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the kind of the first classified error in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

package publish

import (
	"errors"
	"fmt"
)

// Kind classifies a run failure.
type Kind string

const (
	KindArgument      Kind = "argument"
	KindConfiguration Kind = "configuration"
	KindRemoteQuery   Kind = "remote_query"
	KindAuth          Kind = "auth"
	KindPublish       Kind = "publish"
	KindIndexing      Kind = "indexing"
)

// Error tags an underlying failure with its kind.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e == nil || e.Err == nil {
		return string(KindPublish)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// E wraps an error with a kind.
func E(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// Errorf builds a kinded error from a format string.
func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// KindOf reports the kind of an error, or the empty string for untagged
// errors.
func KindOf(err error) Kind {
	var tagged *Error
	if errors.As(err, &tagged) {
		return tagged.Kind
	}
	return ""
}

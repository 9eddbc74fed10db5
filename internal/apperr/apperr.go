// Package apperr carries the error taxonomy for placement operations. Callers
// branch on Kind instead of matching message strings.
package apperr

import "errors"

type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindAlreadyPlaced
	KindQuotaExhausted
	KindContentExhausted
	KindNotFound
	KindUnauthorized
	KindInsufficientBalance
	KindPublishFailure
	KindTransient
)

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf returns the kind of err, or KindUnknown for untagged errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Retryable reports whether the whole operation may be safely re-attempted.
func Retryable(err error) bool {
	k := KindOf(err)
	return k == KindTransient || k == KindPublishFailure
}

package custom

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a failure so the dispatch layer knows whether it is
// expected control flow (validation, not-found, conflict), an author mistake
// (template), or an operational failure (remote API, storage).
type Kind uint8

const (
	KindUnknown Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindRemoteAPI
	KindTemplate
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindRemoteAPI:
		return "remote_api"
	case KindTemplate:
		return "template"
	case KindStorage:
		return "storage"
	default:
		return "unknown"
	}
}

// Error carries a kind, the operation that failed, a user-presentable
// message, and the underlying cause.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if e.Op != "" {
		b.WriteString(": ")
		b.WriteString(e.Op)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Errf builds an Error with a formatted user-presentable message.
func Errf(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Message: fmt.Sprintf(format, args...)}
}

// WrapErr attaches a cause to a kinded error.
func WrapErr(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf returns the kind of err, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// UserMessage converts err into the text shown in chat. Expected kinds keep
// their specific message; operational failures collapse to a generic line so
// internals never reach the channel.
func UserMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return "Something went wrong. Try again later."
	}

	switch e.Kind {
	case KindValidation, KindNotFound, KindConflict:
		return e.Message
	case KindTemplate:
		if e.Err != nil {
			return "Template error: " + e.Err.Error()
		}
		return "Template error: " + e.Message
	case KindRemoteAPI:
		if e.Message != "" {
			return "Discord rejected the request: " + e.Message
		}
		return "Discord rejected the request. Try again later."
	default:
		return "Something went wrong. Try again later."
	}
}

// Redact replaces every secret with *** wherever it appears in s. Applied to
// upstream error text before it is logged or displayed.
func Redact(s string, secrets ...string) string {
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		s = strings.ReplaceAll(s, secret, "***")
	}
	return s
}

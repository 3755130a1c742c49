// Package scooperr is the shared error domain type for gscoop, modeled on
// claircore's root Error type: a single concrete error carrying an Op
// (which subsystem/operation raised it), a Kind (the domain's error
// taxonomy), a human Message, and an optional wrapped Inner error.
//
// Component packages create a *scooperr.Error at the system boundary (a
// failed file read, a bad JSON parse, a non-2xx HTTP response) and
// intermediate layers should prefer fmt.Errorf("...: %w", err) over
// wrapping in another *scooperr.Error, so that errors.As only ever needs
// to unwrap to the first one.
package scooperr

import (
	"fmt"
	"strings"
)

// Kind enumerates the domain's error taxonomy.
type Kind string

// Error implements error so Kind can be compared with errors.Is directly.
func (k Kind) Error() string { return string(k) }

const (
	IO              Kind = "io"
	ParsingManifest Kind = "parsing_manifest"
	Bucket          Kind = "bucket"
	Repo            Kind = "repo"
	Hash            Kind = "hash"
	Reference       Kind = "reference"
	Cache           Kind = "cache"
	Context         Kind = "context"
)

// Error is the concrete error type backing every gscoop component error.
type Error struct {
	Op      string
	Kind    Kind
	Message string
	Inner   error
}

var (
	_ error                       = (*Error)(nil)
	_ interface{ Is(error) bool } = (*Error)(nil)
	_ interface{ Unwrap() error } = (*Error)(nil)
)

// New constructs an *Error. Message may be empty when Inner carries enough
// context on its own.
func New(op string, kind Kind, message string, inner error) *Error {
	return &Error{Op: op, Kind: kind, Message: message, Inner: inner}
}

// Error implements error.
func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString("[")
	b.WriteString(string(e.Kind))
	b.WriteString("]")
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Inner != nil {
		b.WriteString(": ")
		b.WriteString(e.Inner.Error())
	}
	return b.String()
}

// Is enables errors.Is(err, someKind) to match on Kind.
func (e *Error) Is(target error) bool {
	if k, ok := target.(Kind); ok {
		return e.Kind == k
	}
	return false
}

// Unwrap enables errors.Unwrap/errors.As to reach Inner.
func (e *Error) Unwrap() error { return e.Inner }

// Errorf is a convenience matching fmt.Errorf's call shape for the common
// case of a message with no Op and no wrapped Inner.
func Errorf(kind Kind, format string, args ...any) *Error {
	return New("", kind, fmt.Sprintf(format, args...), nil)
}

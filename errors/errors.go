package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseMaterialize Phase = "materialize" // lazy decode from the backing binary
	PhaseResolve     Phase = "resolve"     // token and reference resolution
	PhaseMutate      Phase = "mutate"      // model mutation (collections, fields)
	PhaseLookup      Phase = "lookup"      // name and identity lookups
	PhaseDispose     Phase = "dispose"     // module teardown
)

// Kind categorizes the error
type Kind string

const (
	KindInvalidArgument Kind = "invalid_argument"
	KindInvariant       Kind = "invariant"
	KindAlreadySet      Kind = "already_set"
	KindMalformedRow    Kind = "malformed_row"
	KindOwnership       Kind = "ownership"
	KindCanceled        Kind = "canceled"
	KindDisposed        Kind = "disposed"
)

// Error is the structured error type used throughout the library.
// Lookups that can legitimately miss never produce an Error; they report
// absence through a (value, ok) pair. Error is reserved for hard failures.
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Entity string
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Entity != "" {
		b.WriteString(": ")
		b.WriteString(e.Entity)
	}

	if e.Detail != "" {
		if e.Entity != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Entity sets the entity name the failure concerns
func (b *Builder) Entity(name string) *Builder {
	b.err.Entity = name
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// InvalidArgument reports a nil or out-of-range value passed where a valid
// one is mandatory.
func InvalidArgument(phase Phase, what, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidArgument,
		Entity: what,
		Detail: detail,
	}
}

// Invariant reports a programmer error: a model invariant would be broken
// by the attempted operation.
func Invariant(phase Phase, entity, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvariant,
		Entity: entity,
		Detail: detail,
	}
}

// Ownership reports an attempt to give an entity a second owner.
func Ownership(entity, detail string) *Error {
	return &Error{
		Phase:  PhaseMutate,
		Kind:   KindOwnership,
		Entity: entity,
		Detail: detail,
	}
}

// AlreadySet reports a second assignment to a set-at-most-once field.
func AlreadySet(field string) *Error {
	return &Error{
		Phase:  PhaseMutate,
		Kind:   KindAlreadySet,
		Entity: field,
		Detail: "can only be set once",
	}
}

// MalformedRow reports an out-of-range or inconsistent row found while
// materializing from the backing binary.
func MalformedRow(entity string, rid uint32, detail string) *Error {
	return &Error{
		Phase:  PhaseMaterialize,
		Kind:   KindMalformedRow,
		Entity: entity,
		Detail: fmt.Sprintf("row %d: %s", rid, detail),
		Value:  rid,
	}
}

// Canceled wraps a context cancellation observed during bulk materialization.
func Canceled(cause error) *Error {
	return &Error{
		Phase:  PhaseMaterialize,
		Kind:   KindCanceled,
		Detail: "load aborted",
		Cause:  cause,
	}
}

// Disposed reports use of a module after Dispose.
func Disposed(what string) *Error {
	return &Error{
		Phase:  PhaseDispose,
		Kind:   KindDisposed,
		Entity: what,
		Detail: "already disposed",
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

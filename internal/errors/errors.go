package errors

import "fmt"

// ListError is the structured error type returned by every vlist public
// operation. It carries enough context for a host binding to translate
// the failure into its own runtime's native error representation.
type ListError struct {
	// Kind is the discriminated failure taxonomy.
	Kind Kind

	// Code is the stable string form of Kind, for logging and JSON output.
	Code string

	// Message is the human-readable description.
	Message string

	// Details carries additional context as key-value pairs (e.g. the
	// offending index, the valid range).
	Details map[string]string

	// Cause is the underlying error, if any.
	Cause error
}

// Error implements the error interface.
func (e *ListError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *ListError) Unwrap() error {
	return e.Cause
}

// Is enables errors.Is(err, target) to match by Kind.
func (e *ListError) Is(target error) bool {
	t, ok := target.(*ListError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// WithDetail adds a key-value detail and returns the error for chaining.
func (e *ListError) WithDetail(key, value string) *ListError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// New creates a ListError of the given kind.
func New(kind Kind, message string) *ListError {
	return &ListError{
		Kind:    kind,
		Code:    codeForKind(kind),
		Message: message,
	}
}

// Wrap creates a ListError of the given kind from an existing error.
func Wrap(kind Kind, err error) *ListError {
	if err == nil {
		return nil
	}
	return &ListError{
		Kind:    kind,
		Code:    codeForKind(kind),
		Message: err.Error(),
		Cause:   err,
	}
}

// OutOfBounds creates a KindOutOfBounds error.
func OutOfBounds(message string) *ListError {
	return New(KindOutOfBounds, message)
}

// InvalidSize creates a KindInvalidSize error.
func InvalidSize(message string) *ListError {
	return New(KindInvalidSize, message)
}

// InvalidArgument creates a KindInvalidArgument error.
func InvalidArgument(message string) *ListError {
	return New(KindInvalidArgument, message)
}

// InternalInvariant creates a KindInternalInvariant error. Callers that
// observe one of these should treat it as a bug report, not a recoverable
// condition.
func InternalInvariant(message string) *ListError {
	return New(KindInternalInvariant, message)
}

// KindOf extracts the Kind from an error, if it is a *ListError.
func KindOf(err error) (Kind, bool) {
	le, ok := err.(*ListError)
	if !ok {
		return "", false
	}
	return le.Kind, true
}

// Is reports whether err is a *ListError of the given kind.
func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

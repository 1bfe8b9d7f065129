package widgets

import (
	"errors"
	"fmt"
)

var (
	// ErrStructural marks failures of the generic type/length/required rules.
	ErrStructural = errors.New("structural validation failed")
	// ErrTimeParse: neither the absolute nor the relative parser accepted the input.
	ErrTimeParse = errors.New("time expression not recognised")
	// ErrTimeGranularity: a date-only field received a sub-day component.
	ErrTimeGranularity = errors.New("time of day not allowed")
	// ErrTimeRangeOrder: the start of a period is not before its end.
	ErrTimeRangeOrder = errors.New("period start must be before its end")
	// ErrUnknownWidget is returned by the registry for unregistered widget types.
	ErrUnknownWidget = errors.New("unknown widget type")
)

// Translator renders a message format with its arguments. fmt.Sprintf is a
// valid Translator and is used when none is given.
type Translator func(format string, args ...any) string

// FieldError is a user-facing validation failure of one widget field. Path
// is the field's full name, optionally followed by a sub-path
// ("Thresholds/2/color"). Detail is a message format that is translated
// before being embedded into MsgInvalidParameter.
type FieldError struct {
	Path   string
	Detail string
	Args   []any
	Cause  error
}

func newFieldError(cause error, path, detail string, args ...any) *FieldError {
	return &FieldError{Path: path, Detail: detail, Args: args, Cause: cause}
}

func structuralError(path, detail string, args ...any) *FieldError {
	return newFieldError(ErrStructural, path, detail, args...)
}

// Text renders the message with tr, falling back to English.
func (e *FieldError) Text(tr Translator) string {
	if tr == nil {
		tr = fmt.Sprintf
	}
	return tr(MsgInvalidParameter, e.Path, tr(e.Detail, e.Args...))
}

func (e *FieldError) Error() string { return e.Text(nil) }

func (e *FieldError) Unwrap() error { return e.Cause }

// Messages renders a list of field errors.
func Messages(errs []*FieldError, tr Translator) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Text(tr))
	}
	return out
}

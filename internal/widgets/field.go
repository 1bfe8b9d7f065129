package widgets

import "reflect"

// Flags alter how a field is validated and rendered.
type Flags uint8

const (
	// FlagNotEmpty makes the field mandatory under strict validation.
	FlagNotEmpty Flags = 1 << iota
	// FlagLabelAsterisk marks the field label as required in the UI.
	FlagLabelAsterisk
)

// FieldType is the storage type of a persisted widget field value.
type FieldType int

const (
	FieldTypeInt32 FieldType = 0
	FieldTypeStr   FieldType = 1
	FieldTypeGroup FieldType = 2
	FieldTypeHost  FieldType = 3
)

func (t FieldType) String() string {
	switch t {
	case FieldTypeInt32:
		return "int32"
	case FieldTypeStr:
		return "str"
	case FieldTypeGroup:
		return "group"
	case FieldTypeHost:
		return "host"
	}
	return "unknown"
}

// WidgetFieldValue is one name/type/value triple of a saved widget.
type WidgetFieldValue struct {
	Type  FieldType `json:"type" yaml:"type"`
	Name  string    `json:"name" yaml:"name"`
	Value any       `json:"value" yaml:"value"`
}

// Field is a single input of a widget configuration form.
type Field interface {
	Name() string
	Label() string
	// FullName is the name used in error messages.
	FullName() string
	Flags() Flags
	Default() any
	Value() any
	// SetValue decodes raw into the field. A decoding failure is also
	// reported by the next Validate call.
	SetValue(raw any) error
	Validate(strict bool) []*FieldError
	ToAPI() []WidgetFieldValue
	// Reset restores the default value and clears decoding failures.
	Reset()
}

type baseField struct {
	name     string
	label    string
	fullName string
	flags    Flags

	decodeErr *FieldError
}

func newBase(name, label string) baseField {
	return baseField{name: name, label: label}
}

func (b *baseField) Name() string  { return b.name }
func (b *baseField) Label() string { return b.label }
func (b *baseField) Flags() Flags  { return b.flags }

func (b *baseField) FullName() string {
	switch {
	case b.fullName != "":
		return b.fullName
	case b.label != "":
		return b.label
	}
	return b.name
}

// SetFlags replaces the field's flags.
func (b *baseField) SetFlags(f Flags) { b.flags = f }

// SetFullName overrides the name used in error messages.
func (b *baseField) SetFullName(s string) { b.fullName = s }

func (b *baseField) required(strict bool) bool {
	return strict && b.flags&FlagNotEmpty != 0
}

func (b *baseField) setDecodeErr(err *FieldError) error {
	b.decodeErr = err
	if err == nil {
		return nil
	}
	return err
}

func (b *baseField) decodeErrors() []*FieldError {
	if b.decodeErr == nil {
		return nil
	}
	return []*FieldError{b.decodeErr}
}

func errorList(errs ...*FieldError) []*FieldError {
	var out []*FieldError
	for _, e := range errs {
		if e != nil {
			out = append(out, e)
		}
	}
	return out
}

func isDefault(value, def any) bool {
	return reflect.DeepEqual(value, def)
}

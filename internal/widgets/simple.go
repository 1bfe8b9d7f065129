package widgets

import (
	"slices"
	"strconv"
)

// Option is one choice of a list-based field.
type Option struct {
	Value int
	Label string
}

func optionValues(opts []Option) []int {
	out := make([]int, len(opts))
	for i, o := range opts {
		out[i] = o.Value
	}
	return out
}

// CheckBox holds 0 or 1.
type CheckBox struct {
	baseField
	def, value int
}

func NewCheckBox(name, label string) *CheckBox {
	return &CheckBox{baseField: newBase(name, label)}
}

// SetDefault sets both the default and the current value.
func (f *CheckBox) SetDefault(v int) *CheckBox {
	f.def, f.value = v, v
	return f
}

func (f *CheckBox) Default() any  { return f.def }
func (f *CheckBox) Value() any    { return f.value }
func (f *CheckBox) Checked() bool { return f.value == 1 }
func (f *CheckBox) Reset()        { f.value, f.decodeErr = f.def, nil }

func (f *CheckBox) SetValue(raw any) error {
	n, err := asInt(f.FullName(), raw)
	if err == nil {
		f.value = n
	}
	return f.setDecodeErr(err)
}

func (f *CheckBox) Validate(bool) []*FieldError {
	if f.decodeErr != nil {
		return f.decodeErrors()
	}
	return errorList(checkIntIn(f.FullName(), f.value, []int{0, 1}))
}

func (f *CheckBox) ToAPI() []WidgetFieldValue {
	if f.value == f.def {
		return nil
	}
	return []WidgetFieldValue{{Type: FieldTypeInt32, Name: f.name, Value: f.value}}
}

// CheckBoxList holds a subset of its options.
type CheckBoxList struct {
	baseField
	options    []Option
	def, value []int
}

func NewCheckBoxList(name, label string, options []Option) *CheckBoxList {
	return &CheckBoxList{baseField: newBase(name, label), options: options, def: []int{}, value: []int{}}
}

func (f *CheckBoxList) SetDefault(v []int) *CheckBoxList {
	f.def, f.value = slices.Clone(v), slices.Clone(v)
	return f
}

func (f *CheckBoxList) Default() any      { return slices.Clone(f.def) }
func (f *CheckBoxList) Value() any        { return slices.Clone(f.value) }
func (f *CheckBoxList) Options() []Option { return f.options }
func (f *CheckBoxList) Reset()            { f.value, f.decodeErr = slices.Clone(f.def), nil }

// Has reports whether option v is checked.
func (f *CheckBoxList) Has(v int) bool { return slices.Contains(f.value, v) }

func (f *CheckBoxList) SetValue(raw any) error {
	path := f.FullName()
	items, ferr := asList(path, raw)
	if ferr != nil {
		return f.setDecodeErr(ferr)
	}
	values := make([]int, 0, len(items))
	for i, item := range items {
		n, ferr := asInt(subPath(path, i+1), item)
		if ferr != nil {
			return f.setDecodeErr(ferr)
		}
		values = append(values, n)
	}
	f.value = values
	return f.setDecodeErr(nil)
}

func (f *CheckBoxList) Validate(strict bool) []*FieldError {
	if f.decodeErr != nil {
		return f.decodeErrors()
	}
	path := f.FullName()
	if f.required(strict) && len(f.value) == 0 {
		return errorList(structuralError(path, MsgCannotBeEmpty))
	}
	allowed := optionValues(f.options)
	for i, v := range f.value {
		if err := checkIntIn(subPath(path, i+1), v, allowed); err != nil {
			return errorList(err)
		}
	}
	return nil
}

func (f *CheckBoxList) ToAPI() []WidgetFieldValue {
	if slices.Equal(f.value, f.def) {
		return nil
	}
	out := make([]WidgetFieldValue, 0, len(f.value))
	for i, v := range f.value {
		out = append(out, WidgetFieldValue{Type: FieldTypeInt32, Name: f.name + "." + strconv.Itoa(i), Value: v})
	}
	return out
}

// IntegerBox holds an integer within [min, max].
type IntegerBox struct {
	baseField
	min, max   int
	def, value int
}

func NewIntegerBox(name, label string, min, max int) *IntegerBox {
	return &IntegerBox{baseField: newBase(name, label), min: min, max: max}
}

func (f *IntegerBox) SetDefault(v int) *IntegerBox {
	f.def, f.value = v, v
	return f
}

func (f *IntegerBox) Default() any { return f.def }
func (f *IntegerBox) Value() any   { return f.value }
func (f *IntegerBox) Int() int     { return f.value }
func (f *IntegerBox) Reset()       { f.value, f.decodeErr = f.def, nil }

func (f *IntegerBox) SetValue(raw any) error {
	if s, ok := raw.(string); ok && s == "" {
		return f.setDecodeErr(structuralError(f.FullName(), MsgCannotBeEmpty))
	}
	n, err := asInt(f.FullName(), raw)
	if err == nil {
		f.value = n
	}
	return f.setDecodeErr(err)
}

func (f *IntegerBox) Validate(bool) []*FieldError {
	if f.decodeErr != nil {
		return f.decodeErrors()
	}
	return errorList(checkIntRange(f.FullName(), f.value, f.min, f.max))
}

func (f *IntegerBox) ToAPI() []WidgetFieldValue {
	if f.value == f.def {
		return nil
	}
	return []WidgetFieldValue{{Type: FieldTypeInt32, Name: f.name, Value: f.value}}
}

type choiceField struct {
	baseField
	options    []Option
	def, value int
}

func (f *choiceField) Default() any      { return f.def }
func (f *choiceField) Value() any        { return f.value }
func (f *choiceField) Int() int          { return f.value }
func (f *choiceField) Options() []Option { return f.options }
func (f *choiceField) Reset()            { f.value, f.decodeErr = f.def, nil }

func (f *choiceField) SetValue(raw any) error {
	n, err := asInt(f.FullName(), raw)
	if err == nil {
		f.value = n
	}
	return f.setDecodeErr(err)
}

func (f *choiceField) Validate(bool) []*FieldError {
	if f.decodeErr != nil {
		return f.decodeErrors()
	}
	return errorList(checkIntIn(f.FullName(), f.value, optionValues(f.options)))
}

func (f *choiceField) ToAPI() []WidgetFieldValue {
	if f.value == f.def {
		return nil
	}
	return []WidgetFieldValue{{Type: FieldTypeInt32, Name: f.name, Value: f.value}}
}

// Select is a drop-down with a single choice.
type Select struct{ choiceField }

func NewSelect(name, label string, options []Option) *Select {
	return &Select{choiceField{baseField: newBase(name, label), options: options}}
}

func (f *Select) SetDefault(v int) *Select {
	f.def, f.value = v, v
	return f
}

// RadioButtonList is a segmented single choice.
type RadioButtonList struct{ choiceField }

func NewRadioButtonList(name, label string, options []Option) *RadioButtonList {
	return &RadioButtonList{choiceField{baseField: newBase(name, label), options: options}}
}

func (f *RadioButtonList) SetDefault(v int) *RadioButtonList {
	f.def, f.value = v, v
	return f
}

type stringField struct {
	baseField
	maxLen     int
	def, value string
}

func (f *stringField) Default() any   { return f.def }
func (f *stringField) Value() any     { return f.value }
func (f *stringField) String() string { return f.value }
func (f *stringField) Reset()         { f.value, f.decodeErr = f.def, nil }

func (f *stringField) SetValue(raw any) error {
	s, err := asString(f.FullName(), raw)
	if err == nil {
		f.value = s
	}
	return f.setDecodeErr(err)
}

func (f *stringField) Validate(strict bool) []*FieldError {
	if f.decodeErr != nil {
		return f.decodeErrors()
	}
	return errorList(checkString(f.FullName(), f.value, f.maxLen, f.required(strict)))
}

func (f *stringField) ToAPI() []WidgetFieldValue {
	if f.value == f.def {
		return nil
	}
	return []WidgetFieldValue{{Type: FieldTypeStr, Name: f.name, Value: f.value}}
}

// TextBox is a single-line string.
type TextBox struct{ stringField }

func NewTextBox(name, label string) *TextBox {
	return &TextBox{stringField{baseField: newBase(name, label), maxLen: DefaultMaxLength}}
}

func (f *TextBox) SetDefault(v string) *TextBox {
	f.def, f.value = v, v
	return f
}

// TextAreaMaxLength is the length limit of multi-line strings.
const TextAreaMaxLength = 2048

// TextArea is a multi-line string.
type TextArea struct{ stringField }

func NewTextArea(name, label string) *TextArea {
	return &TextArea{stringField{baseField: newBase(name, label), maxLen: TextAreaMaxLength}}
}

func (f *TextArea) SetDefault(v string) *TextArea {
	f.def, f.value = v, v
	return f
}

// Color holds a 6-digit hex color without the leading '#'; empty means
// the theme default.
type Color struct{ stringField }

func NewColor(name, label string) *Color {
	return &Color{stringField{baseField: newBase(name, label)}}
}

func (f *Color) SetDefault(v string) *Color {
	f.def, f.value = v, v
	return f
}

func (f *Color) Validate(strict bool) []*FieldError {
	if f.decodeErr != nil {
		return f.decodeErrors()
	}
	return errorList(checkColor(f.FullName(), f.value, f.required(strict)))
}

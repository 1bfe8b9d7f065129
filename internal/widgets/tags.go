package widgets

import "strconv"

// Tag filter operators.
const (
	TagOperatorLike = iota
	TagOperatorEqual
	TagOperatorNotLike
	TagOperatorNotEqual
	TagOperatorExists
	TagOperatorNotExists
)

var tagOperators = []int{
	TagOperatorLike, TagOperatorEqual, TagOperatorNotLike,
	TagOperatorNotEqual, TagOperatorExists, TagOperatorNotExists,
}

// Tag is one row of a tag filter.
type Tag struct {
	Tag      string `json:"tag" yaml:"tag"`
	Operator int    `json:"operator" yaml:"operator"`
	Value    string `json:"value" yaml:"value"`
}

// Tags holds tag filter rows. Rows with an empty tag and value are dropped
// on input.
type Tags struct {
	baseField
	value []Tag
}

func NewTags(name, label string) *Tags {
	return &Tags{baseField: newBase(name, label), value: []Tag{}}
}

func (f *Tags) Default() any { return []Tag{} }
func (f *Tags) Value() any   { return append([]Tag(nil), f.value...) }
func (f *Tags) Tags() []Tag  { return append([]Tag(nil), f.value...) }
func (f *Tags) Reset()       { f.value, f.decodeErr = []Tag{}, nil }

func (f *Tags) SetValue(raw any) error {
	path := f.FullName()
	if tags, ok := raw.([]Tag); ok {
		f.value = dropEmptyTags(tags)
		return f.setDecodeErr(nil)
	}

	rows, ferr := asList(path, raw)
	if ferr != nil {
		return f.setDecodeErr(ferr)
	}
	tags := make([]Tag, 0, len(rows))
	for i, row := range rows {
		rowPath := subPath(path, i+1)
		m, ferr := asMap(rowPath, row)
		if ferr != nil {
			return f.setDecodeErr(ferr)
		}
		var t Tag
		for k, v := range m {
			switch k {
			case "tag":
				t.Tag, ferr = asString(subPath(rowPath, k), v)
			case "value":
				t.Value, ferr = asString(subPath(rowPath, k), v)
			case "operator":
				t.Operator, ferr = asInt(subPath(rowPath, k), v)
			default:
				ferr = structuralError(rowPath, MsgUnexpected, k)
			}
			if ferr != nil {
				return f.setDecodeErr(ferr)
			}
		}
		tags = append(tags, t)
	}
	f.value = dropEmptyTags(tags)
	return f.setDecodeErr(nil)
}

func dropEmptyTags(tags []Tag) []Tag {
	out := make([]Tag, 0, len(tags))
	for _, t := range tags {
		if t.Tag == "" && t.Value == "" {
			continue
		}
		out = append(out, t)
	}
	return out
}

func (f *Tags) Validate(strict bool) []*FieldError {
	if f.decodeErr != nil {
		return f.decodeErrors()
	}
	path := f.FullName()
	if f.required(strict) && len(f.value) == 0 {
		return errorList(structuralError(path, MsgCannotBeEmpty))
	}
	for i, t := range f.value {
		rowPath := subPath(path, i+1)
		if err := checkString(subPath(rowPath, "tag"), t.Tag, DefaultMaxLength, true); err != nil {
			return errorList(err)
		}
		if err := checkIntIn(subPath(rowPath, "operator"), t.Operator, tagOperators); err != nil {
			return errorList(err)
		}
		if err := checkString(subPath(rowPath, "value"), t.Value, DefaultMaxLength, false); err != nil {
			return errorList(err)
		}
	}
	return nil
}

func (f *Tags) ToAPI() []WidgetFieldValue {
	out := make([]WidgetFieldValue, 0, 3*len(f.value))
	for i, t := range f.value {
		prefix := f.name + "." + strconv.Itoa(i) + "."
		out = append(out,
			WidgetFieldValue{Type: FieldTypeStr, Name: prefix + "tag", Value: t.Tag},
			WidgetFieldValue{Type: FieldTypeInt32, Name: prefix + "operator", Value: t.Operator},
			WidgetFieldValue{Type: FieldTypeStr, Name: prefix + "value", Value: t.Value},
		)
	}
	return out
}

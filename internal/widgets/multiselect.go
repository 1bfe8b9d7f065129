package widgets

import (
	"regexp"
	"slices"
	"strconv"
	"strings"
)

const (
	// ForeignReferenceKey is the value key carrying a typed reference
	// instead of literal IDs.
	ForeignReferenceKey = "_reference"
	// ReferenceDashboard names the dashboard as a data source.
	ReferenceDashboard = "DASHBOARD"
	// DataTypeHostIDs is the data type of host ID lists.
	DataTypeHostIDs = "_hostids"
)

var typedReferencePattern = regexp.MustCompile(`^(DASHBOARD|[A-Z]{5})\._[a-z_]+$`)

// TypedReference joins a data source and a data type, e.g.
// "DASHBOARD._hostids".
func TypedReference(source, dataType string) string {
	return source + "." + dataType
}

func decodeIDs(path string, raw any) ([]string, *FieldError) {
	items, ferr := asList(path, raw)
	if ferr != nil {
		return nil, ferr
	}
	ids := make([]string, 0, len(items))
	for i, item := range items {
		s, ferr := asString(subPath(path, i+1), item)
		if ferr != nil {
			return nil, ferr
		}
		ids = append(ids, s)
	}
	return ids, nil
}

func validateIDs(path string, ids []string, required bool) *FieldError {
	if required && len(ids) == 0 {
		return structuralError(path, MsgCannotBeEmpty)
	}
	for i, id := range ids {
		if err := checkID(subPath(path, i+1), id); err != nil {
			return err
		}
	}
	return nil
}

func idsToAPI(name string, t FieldType, ids []string) []WidgetFieldValue {
	out := make([]WidgetFieldValue, 0, len(ids))
	for i, id := range ids {
		out = append(out, WidgetFieldValue{Type: t, Name: name + "." + strconv.Itoa(i), Value: id})
	}
	return out
}

// MultiSelectGroup holds host group IDs.
type MultiSelectGroup struct {
	baseField
	value []string
}

func NewMultiSelectGroup(name, label string) *MultiSelectGroup {
	return &MultiSelectGroup{baseField: newBase(name, label), value: []string{}}
}

func (f *MultiSelectGroup) Default() any  { return []string{} }
func (f *MultiSelectGroup) Value() any    { return slices.Clone(f.value) }
func (f *MultiSelectGroup) IDs() []string { return slices.Clone(f.value) }
func (f *MultiSelectGroup) Reset()        { f.value, f.decodeErr = []string{}, nil }

func (f *MultiSelectGroup) SetValue(raw any) error {
	ids, ferr := decodeIDs(f.FullName(), raw)
	if ferr == nil {
		f.value = ids
	}
	return f.setDecodeErr(ferr)
}

func (f *MultiSelectGroup) Validate(strict bool) []*FieldError {
	if f.decodeErr != nil {
		return f.decodeErrors()
	}
	return errorList(validateIDs(f.FullName(), f.value, f.required(strict)))
}

func (f *MultiSelectGroup) ToAPI() []WidgetFieldValue {
	return idsToAPI(f.name, FieldTypeGroup, f.value)
}

// HostSelection is the value of a MultiSelectHost: either literal host IDs
// or a typed reference resolved at render time.
type HostSelection struct {
	IDs       []string `json:"ids,omitempty" yaml:"ids,omitempty"`
	Reference string   `json:"_reference,omitempty" yaml:"_reference,omitempty"`
}

// IsReference reports whether the selection names a data source.
func (h HostSelection) IsReference() bool { return h.Reference != "" }

func (h HostSelection) clone() HostSelection {
	return HostSelection{IDs: slices.Clone(h.IDs), Reference: h.Reference}
}

// MultiSelectHost holds host IDs or a reference such as
// {"_reference": "DASHBOARD._hostids"}.
type MultiSelectHost struct {
	baseField
	def, value HostSelection
}

func NewMultiSelectHost(name, label string) *MultiSelectHost {
	return &MultiSelectHost{baseField: newBase(name, label)}
}

func (f *MultiSelectHost) SetDefault(v HostSelection) *MultiSelectHost {
	f.def, f.value = v.clone(), v.clone()
	return f
}

func (f *MultiSelectHost) Default() any             { return f.def.clone() }
func (f *MultiSelectHost) Value() any               { return f.value.clone() }
func (f *MultiSelectHost) Selection() HostSelection { return f.value.clone() }
func (f *MultiSelectHost) Reset()                   { f.value, f.decodeErr = f.def.clone(), nil }

func (f *MultiSelectHost) SetValue(raw any) error {
	path := f.FullName()
	switch v := raw.(type) {
	case HostSelection:
		f.value = v.clone()
		return f.setDecodeErr(nil)
	case map[string]any, map[string]string, map[any]any:
		m, ferr := asMap(path, v)
		if ferr != nil {
			return f.setDecodeErr(ferr)
		}
		if ref, ok := m[ForeignReferenceKey]; ok {
			if len(m) != 1 {
				return f.setDecodeErr(structuralError(path, MsgReference))
			}
			s, ferr := asString(subPath(path, ForeignReferenceKey), ref)
			if ferr != nil {
				return f.setDecodeErr(ferr)
			}
			f.value = HostSelection{Reference: s}
			return f.setDecodeErr(nil)
		}
	}
	ids, ferr := decodeIDs(path, raw)
	if ferr == nil {
		f.value = HostSelection{IDs: ids}
	}
	return f.setDecodeErr(ferr)
}

func (f *MultiSelectHost) Validate(strict bool) []*FieldError {
	if f.decodeErr != nil {
		return f.decodeErrors()
	}
	path := f.FullName()
	if f.value.IsReference() {
		if !typedReferencePattern.MatchString(f.value.Reference) {
			return errorList(structuralError(subPath(path, ForeignReferenceKey), MsgReference))
		}
		return nil
	}
	return errorList(validateIDs(path, f.value.IDs, f.required(strict)))
}

func (f *MultiSelectHost) ToAPI() []WidgetFieldValue {
	if f.value.IsReference() {
		if f.value.Reference == f.def.Reference && f.def.IsReference() {
			return nil
		}
		return []WidgetFieldValue{{Type: FieldTypeStr, Name: f.name + "." + ForeignReferenceKey, Value: f.value.Reference}}
	}
	return idsToAPI(f.name, FieldTypeHost, f.value.IDs)
}

// ItemPatternSelect holds item name patterns; '*' is a wildcard.
type ItemPatternSelect struct {
	baseField
	value []string
}

func NewItemPatternSelect(name, label string) *ItemPatternSelect {
	return &ItemPatternSelect{baseField: newBase(name, label), value: []string{}}
}

func (f *ItemPatternSelect) Default() any       { return []string{} }
func (f *ItemPatternSelect) Value() any         { return slices.Clone(f.value) }
func (f *ItemPatternSelect) Patterns() []string { return slices.Clone(f.value) }
func (f *ItemPatternSelect) Reset()             { f.value, f.decodeErr = []string{}, nil }

func (f *ItemPatternSelect) SetValue(raw any) error {
	path := f.FullName()
	items, ferr := asList(path, raw)
	if ferr != nil {
		return f.setDecodeErr(ferr)
	}
	patterns := make([]string, 0, len(items))
	for i, item := range items {
		s, ferr := asString(subPath(path, i+1), item)
		if ferr != nil {
			return f.setDecodeErr(ferr)
		}
		patterns = append(patterns, s)
	}
	f.value = patterns
	return f.setDecodeErr(nil)
}

func (f *ItemPatternSelect) Validate(strict bool) []*FieldError {
	if f.decodeErr != nil {
		return f.decodeErrors()
	}
	path := f.FullName()
	if f.required(strict) && len(f.value) == 0 {
		return errorList(structuralError(path, MsgCannotBeEmpty))
	}
	for i, p := range f.value {
		if err := checkString(subPath(path, i+1), strings.TrimSpace(p), DefaultMaxLength, true); err != nil {
			return errorList(err)
		}
	}
	return nil
}

func (f *ItemPatternSelect) ToAPI() []WidgetFieldValue {
	out := make([]WidgetFieldValue, 0, len(f.value))
	for i, p := range f.value {
		out = append(out, WidgetFieldValue{Type: FieldTypeStr, Name: f.name + "." + strconv.Itoa(i), Value: p})
	}
	return out
}

package widgets

import (
	"errors"
	"fmt"
	"sort"

	"github.com/platformbuilds/mirador-console/internal/timeparse"
)

// TimePeriodValue is either a DefaultPeriod or a PeriodReference.
type TimePeriodValue interface {
	isTimePeriodValue()
}

// DefaultPeriod is a period given by two time expressions. Empty strings
// leave the respective bound open.
type DefaultPeriod struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

// PeriodReference takes the period from the dashboard (ReferenceDashboard)
// or from another widget.
type PeriodReference struct {
	Reference string `json:"reference" yaml:"reference"`
}

func (DefaultPeriod) isTimePeriodValue()   {}
func (PeriodReference) isTimePeriodValue() {}

// DataSource tells where a time period comes from.
type DataSource int

const (
	DataSourceDefault DataSource = iota
	DataSourceWidget
	DataSourceDashboard
)

func (d DataSource) String() string {
	switch d {
	case DataSourceDefault:
		return "default"
	case DataSourceWidget:
		return "widget"
	case DataSourceDashboard:
		return "dashboard"
	}
	return fmt.Sprintf("DataSource(%d)", int(d))
}

// DataSourceOf derives the data source of a period value. A nil value is
// treated as the default period.
func DataSourceOf(v TimePeriodValue) DataSource {
	ref, ok := v.(PeriodReference)
	switch {
	case !ok:
		return DataSourceDefault
	case ref.Reference == ReferenceDashboard:
		return DataSourceDashboard
	}
	return DataSourceWidget
}

// ParsedPeriod holds unix timestamps of the period bounds; 0 is an open
// bound.
type ParsedPeriod struct {
	From int64 `json:"from"`
	To   int64 `json:"to"`
}

// TimePeriodOptions configures ValidateTimePeriod.
type TimePeriodOptions struct {
	// DateOnly rejects any time-of-day component.
	DateOnly bool
	// Required rejects empty strings.
	Required bool
	// Name is used in error messages.
	Name string
}

// TimePeriodResult is a validated period.
type TimePeriodResult struct {
	Value      TimePeriodValue
	DataSource DataSource
	Period     ParsedPeriod
}

// ValidateTimePeriod checks value structurally and, for default periods,
// resolves both bounds with p. Errors are *FieldError; semantic failures
// wrap ErrTimeParse, ErrTimeGranularity or ErrTimeRangeOrder and carry a
// single "a date/time is expected" message.
func ValidateTimePeriod(value TimePeriodValue, opts TimePeriodOptions, p timeparse.Parser) (TimePeriodResult, error) {
	if value == nil {
		value = DefaultPeriod{}
	}
	res := TimePeriodResult{Value: value, DataSource: DataSourceOf(value)}

	if err := checkPeriodStructure(value, opts); err != nil {
		return res, err
	}

	period, ok := value.(DefaultPeriod)
	if !ok {
		return res, nil
	}

	detail := MsgTimeExpected
	if opts.DateOnly {
		detail = MsgDateExpected
	}

	from, err := resolveBound(period.From, true, opts.DateOnly, p)
	if err != nil {
		return res, newFieldError(err, opts.Name, detail)
	}
	to, err := resolveBound(period.To, false, opts.DateOnly, p)
	if err != nil {
		return res, newFieldError(err, opts.Name, detail)
	}
	if from != 0 && to != 0 && from >= to {
		return res, newFieldError(ErrTimeRangeOrder, opts.Name, detail)
	}

	res.Period = ParsedPeriod{From: from, To: to}
	return res, nil
}

func checkPeriodStructure(value TimePeriodValue, opts TimePeriodOptions) error {
	switch v := value.(type) {
	case DefaultPeriod:
		if err := checkString(subPath(opts.Name, "from"), v.From, DefaultMaxLength, opts.Required); err != nil {
			return err
		}
		if err := checkString(subPath(opts.Name, "to"), v.To, DefaultMaxLength, opts.Required); err != nil {
			return err
		}
	case PeriodReference:
		if err := checkString(subPath(opts.Name, "reference"), v.Reference, DefaultMaxLength, opts.Required); err != nil {
			return err
		}
	default:
		return structuralError(opts.Name, MsgArrayExpected)
	}
	return nil
}

// resolveBound returns the unix time of s, or 0 for an empty string. The
// start of a period resolves to the first second of a rounded unit, the
// end to its last second. Absolute strings always resolve to their first
// second, so that a date-only end such as "2024-03-31" stays at midnight.
func resolveBound(s string, isStart, dateOnly bool, p timeparse.Parser) (int64, error) {
	if s == "" {
		return 0, nil
	}

	if abs, err := p.Absolute(s); err == nil {
		if dateOnly && !abs.IsMidnight() {
			return 0, ErrTimeGranularity
		}
		return abs.Time(true).Unix(), nil
	} else if errors.Is(err, timeparse.ErrOutOfRange) {
		return 0, fmt.Errorf("%w: %w", ErrTimeParse, err)
	}

	rel, err := p.Relative(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrTimeParse, err)
	}
	if dateOnly && rel.HasSubDayUnit() {
		return 0, ErrTimeGranularity
	}
	t, err := rel.Time(p.Now(), isStart)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrTimeParse, err)
	}
	return t.Unix(), nil
}

// TimePeriod is a widget field holding a TimePeriodValue.
type TimePeriod struct {
	baseField
	dateOnly bool
	parser   timeparse.Parser
	value    TimePeriodValue
	result   TimePeriodResult
}

// NewTimePeriod returns a time period field with an empty default period.
func NewTimePeriod(name, label string, dateOnly bool) *TimePeriod {
	f := &TimePeriod{baseField: newBase(name, label), dateOnly: dateOnly}
	f.Reset()
	return f
}

// SetParser sets the parser bounds are resolved with.
func (f *TimePeriod) SetParser(p timeparse.Parser) { f.parser = p }

func (f *TimePeriod) Default() any { return DefaultPeriod{} }
func (f *TimePeriod) Value() any   { return f.value }

// Period returns the bounds resolved by the last successful Validate.
func (f *TimePeriod) Period() ParsedPeriod { return f.result.Period }

func (f *TimePeriod) DataSource() DataSource { return DataSourceOf(f.value) }

func (f *TimePeriod) Reset() {
	f.value = DefaultPeriod{}
	f.result = TimePeriodResult{Value: f.value}
	f.decodeErr = nil
}

// SetValue accepts a TimePeriodValue or an object with "from" and "to" or
// with "reference". A "data_source" key is checked and dropped; the data
// source is always derived from the other keys.
func (f *TimePeriod) SetValue(raw any) error {
	switch v := raw.(type) {
	case DefaultPeriod:
		f.value = v
		return f.setDecodeErr(nil)
	case PeriodReference:
		f.value = v
		return f.setDecodeErr(nil)
	}

	path := f.FullName()
	m, ferr := asMap(path, raw)
	if ferr != nil {
		return f.setDecodeErr(ferr)
	}
	m = copyMap(m)

	if ds, ok := m["data_source"]; ok {
		n, ferr := asInt(subPath(path, "data_source"), ds)
		if ferr == nil {
			ferr = checkIntIn(subPath(path, "data_source"), n,
				[]int{int(DataSourceDefault), int(DataSourceWidget), int(DataSourceDashboard)})
		}
		if ferr != nil {
			return f.setDecodeErr(ferr)
		}
		delete(m, "data_source")
	}

	if ref, ok := m["reference"]; ok {
		if len(m) > 1 {
			delete(m, "reference")
			return f.setDecodeErr(structuralError(path, MsgUnexpected, firstKey(m)))
		}
		s, ferr := asString(subPath(path, "reference"), ref)
		if ferr != nil {
			return f.setDecodeErr(ferr)
		}
		f.value = PeriodReference{Reference: s}
		return f.setDecodeErr(nil)
	}

	var period DefaultPeriod
	for _, key := range []string{"from", "to"} {
		rv, ok := m[key]
		if !ok {
			return f.setDecodeErr(structuralError(path, MsgMissing, key))
		}
		s, ferr := rawString(subPath(path, key), rv)
		if ferr != nil {
			return f.setDecodeErr(ferr)
		}
		if key == "from" {
			period.From = s
		} else {
			period.To = s
		}
		delete(m, key)
	}
	if len(m) > 0 {
		return f.setDecodeErr(structuralError(path, MsgUnexpected, firstKey(m)))
	}
	f.value = period
	return f.setDecodeErr(nil)
}

// rawString accepts only strings; time expressions are never numbers.
func rawString(path string, raw any) (string, *FieldError) {
	s, ok := raw.(string)
	if !ok {
		return "", structuralError(path, MsgStringExpected)
	}
	return s, nil
}

func firstKey(m map[string]any) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys[0]
}

func copyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (f *TimePeriod) Validate(strict bool) []*FieldError {
	if f.decodeErr != nil {
		return f.decodeErrors()
	}
	res, err := ValidateTimePeriod(f.value, TimePeriodOptions{
		DateOnly: f.dateOnly,
		Required: f.required(strict),
		Name:     f.FullName(),
	}, f.parser)
	if err != nil {
		var fe *FieldError
		if errors.As(err, &fe) {
			return []*FieldError{fe}
		}
		return []*FieldError{newFieldError(err, f.FullName(), err.Error())}
	}
	f.result = res
	return nil
}

func (f *TimePeriod) ToAPI() []WidgetFieldValue {
	switch v := f.value.(type) {
	case DefaultPeriod:
		if v == (DefaultPeriod{}) {
			return nil
		}
		return []WidgetFieldValue{
			{Type: FieldTypeStr, Name: f.name + "[from]", Value: v.From},
			{Type: FieldTypeStr, Name: f.name + "[to]", Value: v.To},
		}
	case PeriodReference:
		return []WidgetFieldValue{{Type: FieldTypeStr, Name: f.name + "[reference]", Value: v.Reference}}
	}
	return nil
}

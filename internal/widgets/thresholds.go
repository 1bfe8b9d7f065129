package widgets

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var numberPattern = regexp.MustCompile(`^-?(?:\d+(?:\.\d*)?|\.\d+)(?:[eE][+-]?\d+)?([KMGTsmhdw])?$`)

var suffixMultipliers = map[string]float64{
	"K": 1 << 10,
	"M": 1 << 20,
	"G": 1 << 30,
	"T": 1 << 40,
	"s": 1,
	"m": 60,
	"h": 3600,
	"d": 86400,
	"w": 7 * 86400,
}

// ParseNumber parses a number with an optional binary size suffix (K, M, G,
// T) or time suffix (s, m, h, d, w).
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	m := numberPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	num := strings.TrimSuffix(s, m[1])
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, false
	}
	if mult, ok := suffixMultipliers[m[1]]; ok {
		v *= mult
	}
	return v, true
}

// Threshold colors values at or above Threshold.
type Threshold struct {
	Color     string `json:"color" yaml:"color"`
	Threshold string `json:"threshold" yaml:"threshold"`
}

// Thresholds holds threshold rows sorted by numeric value.
type Thresholds struct {
	baseField
	value []Threshold
}

func NewThresholds(name, label string) *Thresholds {
	return &Thresholds{baseField: newBase(name, label), value: []Threshold{}}
}

func (f *Thresholds) Default() any            { return []Threshold{} }
func (f *Thresholds) Value() any              { return append([]Threshold(nil), f.value...) }
func (f *Thresholds) Thresholds() []Threshold { return append([]Threshold(nil), f.value...) }
func (f *Thresholds) Reset()                  { f.value, f.decodeErr = []Threshold{}, nil }

func (f *Thresholds) SetValue(raw any) error {
	path := f.FullName()
	if rows, ok := raw.([]Threshold); ok {
		f.value = sortThresholds(rows)
		return f.setDecodeErr(nil)
	}

	rows, ferr := asList(path, raw)
	if ferr != nil {
		return f.setDecodeErr(ferr)
	}
	out := make([]Threshold, 0, len(rows))
	for i, row := range rows {
		rowPath := subPath(path, i+1)
		m, ferr := asMap(rowPath, row)
		if ferr != nil {
			return f.setDecodeErr(ferr)
		}
		var t Threshold
		for k, v := range m {
			switch k {
			case "color":
				t.Color, ferr = asString(subPath(rowPath, k), v)
			case "threshold":
				t.Threshold, ferr = asString(subPath(rowPath, k), v)
			default:
				ferr = structuralError(rowPath, MsgUnexpected, k)
			}
			if ferr != nil {
				return f.setDecodeErr(ferr)
			}
		}
		if t.Color == "" && strings.TrimSpace(t.Threshold) == "" {
			continue
		}
		out = append(out, t)
	}
	f.value = sortThresholds(out)
	return f.setDecodeErr(nil)
}

// sortThresholds orders rows by value; unparsable rows keep their relative
// position at the end so validation can report them.
func sortThresholds(rows []Threshold) []Threshold {
	out := append([]Threshold(nil), rows...)
	sort.SliceStable(out, func(i, j int) bool {
		a, okA := ParseNumber(out[i].Threshold)
		b, okB := ParseNumber(out[j].Threshold)
		switch {
		case okA && okB:
			return a < b
		case okA:
			return true
		}
		return false
	})
	return out
}

func (f *Thresholds) Validate(strict bool) []*FieldError {
	if f.decodeErr != nil {
		return f.decodeErrors()
	}
	path := f.FullName()
	if f.required(strict) && len(f.value) == 0 {
		return errorList(structuralError(path, MsgCannotBeEmpty))
	}
	for i, t := range f.value {
		rowPath := subPath(path, i+1)
		if err := checkColor(subPath(rowPath, "color"), t.Color, true); err != nil {
			return errorList(err)
		}
		thPath := subPath(rowPath, "threshold")
		if strings.TrimSpace(t.Threshold) == "" {
			return errorList(structuralError(thPath, MsgCannotBeEmpty))
		}
		if _, ok := ParseNumber(t.Threshold); !ok {
			return errorList(structuralError(thPath, MsgNumberExpected))
		}
	}
	return nil
}

func (f *Thresholds) ToAPI() []WidgetFieldValue {
	out := make([]WidgetFieldValue, 0, 2*len(f.value))
	for i, t := range f.value {
		prefix := f.name + "." + strconv.Itoa(i) + "."
		out = append(out,
			WidgetFieldValue{Type: FieldTypeStr, Name: prefix + "color", Value: t.Color},
			WidgetFieldValue{Type: FieldTypeStr, Name: prefix + "threshold", Value: strings.TrimSpace(t.Threshold)},
		)
	}
	return out
}

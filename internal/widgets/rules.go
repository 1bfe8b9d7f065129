package widgets

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// DefaultMaxLength is the length limit of single-line string values.
const DefaultMaxLength = 255

var (
	colorPattern = regexp.MustCompile(`^[0-9a-fA-F]{6}$`)
	idPattern    = regexp.MustCompile(`^[1-9][0-9]{0,19}$`)
)

// rules is the generic rule engine shared by every field kind. It owns the
// type-independent constraints (presence, length, enumerations, formats);
// fields only decide which tags apply.
var rules = newRuleEngine()

func newRuleEngine() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("rgbhex", func(fl validator.FieldLevel) bool {
		return colorPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("objectid", func(fl validator.FieldLevel) bool {
		return idPattern.MatchString(fl.Field().String())
	})
	return v
}

// checkString enforces non-emptiness (when required) and a rune length
// limit (when maxLen > 0).
func checkString(path, s string, maxLen int, required bool) *FieldError {
	var tags []string
	if required {
		tags = append(tags, "required")
	}
	if maxLen > 0 {
		tags = append(tags, "max="+strconv.Itoa(maxLen))
	}
	return checkVar(path, s, strings.Join(tags, ","), "")
}

// checkIntRange enforces min <= n <= max.
func checkIntRange(path string, n, min, max int) *FieldError {
	tag := fmt.Sprintf("min=%d,max=%d", min, max)
	return checkVar(path, n, tag, fmt.Sprintf("%d-%d", min, max))
}

// checkIntIn enforces membership of n in allowed.
func checkIntIn(path string, n int, allowed []int) *FieldError {
	parts := make([]string, len(allowed))
	for i, a := range allowed {
		parts[i] = strconv.Itoa(a)
	}
	tag := "oneof=" + strings.Join(parts, " ")
	return checkVar(path, n, tag, strings.Join(parts, ", "))
}

func checkColor(path, s string, required bool) *FieldError {
	if s == "" {
		if required {
			return structuralError(path, MsgCannotBeEmpty)
		}
		return nil
	}
	return checkVar(path, s, "rgbhex", "")
}

func checkID(path, s string) *FieldError {
	return checkVar(path, s, "objectid", "")
}

// checkVar runs tag against value and maps the first failing rule to a
// user-facing detail. allowed describes the accepted set for range and
// enumeration rules.
func checkVar(path string, value any, tag, allowed string) *FieldError {
	if tag == "" {
		return nil
	}
	err := rules.Var(value, tag)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return structuralError(path, err.Error())
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return structuralError(path, MsgCannotBeEmpty)
	case "max":
		if fe.Kind() == reflect.String {
			return structuralError(path, MsgTooLong)
		}
		return structuralError(path, MsgOneOf, allowed)
	case "min", "oneof":
		return structuralError(path, MsgOneOf, allowed)
	case "rgbhex":
		return structuralError(path, MsgColorExpected)
	case "objectid":
		return structuralError(path, MsgNumberExpected)
	}
	return structuralError(path, err.Error())
}

func subPath(path string, elems ...any) string {
	var b strings.Builder
	b.WriteString(path)
	for _, e := range elems {
		b.WriteByte('/')
		fmt.Fprint(&b, e)
	}
	return b.String()
}

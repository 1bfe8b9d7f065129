package widgets

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Raw field values arrive from JSON bodies, form posts or YAML documents, so
// the decoders below accept every representation those produce.

func asString(path string, raw any) (string, *FieldError) {
	switch v := raw.(type) {
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	}
	return "", structuralError(path, MsgStringExpected)
}

func asInt(path string, raw any) (int, *FieldError) {
	switch v := raw.(type) {
	case int:
		return v, nil
	case int32:
		return int(v), nil
	case int64:
		return int(v), nil
	case float64:
		if v == math.Trunc(v) && math.Abs(v) <= math.MaxInt32 {
			return int(v), nil
		}
	case json.Number:
		if n, err := strconv.Atoi(v.String()); err == nil {
			return n, nil
		}
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n, nil
		}
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	}
	return 0, structuralError(path, MsgIntegerExpected)
}

// asList accepts arrays and objects keyed by index ("0", "1", ...), the
// latter being what form posts of repeated rows decode to.
func asList(path string, raw any) ([]any, *FieldError) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case []any:
		return v, nil
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out, nil
	case []int:
		out := make([]any, len(v))
		for i, n := range v {
			out[i] = n
		}
		return out, nil
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			if _, err := strconv.Atoi(k); err != nil {
				return nil, structuralError(path, MsgArrayExpected)
			}
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			a, _ := strconv.Atoi(keys[i])
			b, _ := strconv.Atoi(keys[j])
			return a < b
		})
		out := make([]any, len(keys))
		for i, k := range keys {
			out[i] = v[k]
		}
		return out, nil
	}
	return nil, structuralError(path, MsgArrayExpected)
}

func asMap(path string, raw any) (map[string]any, *FieldError) {
	switch v := raw.(type) {
	case map[string]any:
		return v, nil
	case map[string]string:
		out := make(map[string]any, len(v))
		for k, s := range v {
			out[k] = s
		}
		return out, nil
	case map[any]any:
		out := make(map[string]any, len(v))
		for k, x := range v {
			ks, ok := k.(string)
			if !ok {
				return nil, structuralError(path, MsgArrayExpected)
			}
			out[ks] = x
		}
		return out, nil
	}
	return nil, structuralError(path, MsgArrayExpected)
}

// Package normalize converts raw, loosely-typed server payloads into the
// canonical internal shapes. Every function here is pure and total: missing
// or malformed fields fall back to a default, never an error.
package normalize

import "strconv"

// firstString returns the first non-empty string among the given keys.
func firstString(raw map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := raw[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// firstNumber returns the first numeric value among the given keys.
// JSON numbers decode as float64; numeric strings are also accepted
// because the backend is not consistent about id types.
func firstNumber(raw map[string]any, keys ...string) (float64, bool) {
	for _, k := range keys {
		switch v := raw[k].(type) {
		case float64:
			return v, true
		case int:
			return float64(v), true
		case int64:
			return float64(v), true
		case string:
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

// firstInt64 is firstNumber truncated to an integer id or counter.
func firstInt64(raw map[string]any, keys ...string) (int64, bool) {
	f, ok := firstNumber(raw, keys...)
	return int64(f), ok
}

// optionalInt64 returns a pointer only when one of the keys held a number.
func optionalInt64(raw map[string]any, keys ...string) *int64 {
	if v, ok := firstInt64(raw, keys...); ok {
		return &v
	}
	return nil
}

// firstTruthy returns true if any of the given keys holds a truthy value:
// boolean true, non-zero number, or the strings "true"/"1".
func firstTruthy(raw map[string]any, keys ...string) bool {
	for _, k := range keys {
		switch v := raw[k].(type) {
		case bool:
			if v {
				return true
			}
		case float64:
			if v != 0 {
				return true
			}
		case string:
			if v == "true" || v == "1" {
				return true
			}
		}
	}
	return false
}

// stringSlice coerces a value into a string slice, skipping non-strings.
func stringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// asObject returns the value as a map when it is one.
func asObject(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

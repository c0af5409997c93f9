package extract

import (
	"encoding/json"
	"strconv"
	"strings"

	"match-overlay-service/internal/upstream"
)

// Field probing helpers. Upstream records are schema-free; every accessor takes
// an ordered list of candidate keys and returns the first usable value.

func stringField(m upstream.RawMatch, keys ...string) string {
	for _, key := range keys {
		if s, ok := m[key].(string); ok {
			if trimmed := strings.TrimSpace(s); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}

// stringifyField accepts string and numeric values, so id-like fields survive
// providers that flip between "1234" and 1234.
func stringifyField(m upstream.RawMatch, keys ...string) string {
	for _, key := range keys {
		if s := stringify(m[key]); s != "" {
			return s
		}
	}
	return ""
}

func stringify(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case json.Number:
		return val.String()
	}
	return ""
}

func mapValue(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

func listField(m upstream.RawMatch, keys ...string) ([]any, bool) {
	for _, key := range keys {
		if list, ok := m[key].([]any); ok {
			return list, true
		}
	}
	return nil, false
}

func intValue(v any) (int, bool) {
	switch val := v.(type) {
	case float64:
		return int(val), true
	case int:
		return val, true
	case string:
		n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(val), "'"))
		if err != nil {
			return 0, false
		}
		return n, true
	case json.Number:
		n, err := val.Int64()
		if err != nil {
			return 0, false
		}
		return int(n), true
	}
	return 0, false
}

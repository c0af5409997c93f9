package sportsfeed

import (
	"encoding/json"
	"fmt"
	"io"

	"match-overlay-service/internal/upstream"
)

// listFieldNames are the envelope keys known to hold the record array when the
// response is an object with a named list field.
var listFieldNames = []string{"data", "games", "matches", "results"}

// decodeEnvelope unwraps the envelope shapes upstream is known to use: a bare
// array, an object with a named list field, or an object whose values are the
// records themselves. Non-object entries are dropped rather than failing the
// whole response.
func decodeEnvelope(r io.Reader) ([]upstream.RawMatch, error) {
	var root any
	if err := json.NewDecoder(r).Decode(&root); err != nil {
		return nil, fmt.Errorf("sportsfeed: malformed response: %w", err)
	}

	switch v := root.(type) {
	case []any:
		return coerceRecords(v), nil
	case map[string]any:
		for _, key := range listFieldNames {
			if list, ok := v[key].([]any); ok {
				return coerceRecords(list), nil
			}
		}
		records := make([]upstream.RawMatch, 0, len(v))
		for _, val := range v {
			if rec, ok := val.(map[string]any); ok {
				records = append(records, rec)
			}
		}
		return records, nil
	}
	return nil, fmt.Errorf("sportsfeed: unrecognized envelope shape %T", root)
}

func coerceRecords(list []any) []upstream.RawMatch {
	records := make([]upstream.RawMatch, 0, len(list))
	for _, entry := range list {
		if rec, ok := entry.(map[string]any); ok {
			records = append(records, rec)
		}
	}
	return records
}

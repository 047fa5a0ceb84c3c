package normalize

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Record is one loosely-typed object from a remote reply. Numbers are
// json.Number when the reply was decoded with UseNumber.
type Record map[string]any

// First returns the text of the first alias that is present and non-empty.
// Objects and arrays never count as present.
func (r Record) First(keys ...string) (string, bool) {
	for _, key := range keys {
		if s, ok := text(r[key]); ok && s != "" {
			return s, true
		}
	}
	return "", false
}

// FirstOr is First with a default for when no alias is present.
func (r Record) FirstOr(def string, keys ...string) string {
	if s, ok := r.First(keys...); ok {
		return s
	}
	return def
}

// Object returns the nested object under key, if any.
func (r Record) Object(key string) (Record, bool) {
	switch v := r[key].(type) {
	case map[string]any:
		return Record(v), true
	case Record:
		return v, true
	}
	return nil, false
}

func text(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t), true
	case json.Number:
		return t.String(), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case bool:
		return strconv.FormatBool(t), true
	}
	return "", false
}

// Records keeps the object items of a decoded JSON array and drops the rest.
func Records(items []any) []Record {
	out := make([]Record, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			out = append(out, Record(m))
		}
	}
	return out
}

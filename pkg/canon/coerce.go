package canon

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// coerceID converts a raw identity value to int64. String-encoded
// integers are accepted; anything else is rejected so that garbage in
// an identity field surfaces as a standardization failure instead of
// silently becoming zero.
func coerceID(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int64(n), true
	case float32:
		f := float64(n)
		if f != math.Trunc(f) {
			return 0, false
		}
		return int64(f), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return i, true
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}

// coerceText converts a raw value to a nullable string. Nil stays
// null; scalars are rendered; containers cannot be a text field and
// come back null.
func coerceText(v any) *string {
	switch s := v.(type) {
	case nil:
		return nil
	case string:
		return &s
	case []byte:
		t := string(s)
		return &t
	case bool, int, int32, int64, uint, uint32, uint64, float32, float64, json.Number:
		t := fmt.Sprint(s)
		return &t
	default:
		return nil
	}
}

// coerceString is coerceText with null collapsed to the empty string,
// for required string fields. The validator reports the empty string
// as a violation; the standardizer never invents content for it.
func coerceString(v any) string {
	if s := coerceText(v); s != nil {
		return *s
	}
	return ""
}

// timeLayouts are the accepted timestamp encodings, tried in order.
// The second matches ISO 8601 without a zone, as produced by the
// original Postgres backend.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// coerceTime converts a raw value to a nullable timestamp.
// Unparseable values come back null; timestamps are never identity
// fields, so they degrade instead of failing standardization.
func coerceTime(v any) *time.Time {
	switch t := v.(type) {
	case nil:
		return nil
	case time.Time:
		return &t
	case *time.Time:
		return t
	case string:
		for _, layout := range timeLayouts {
			if parsed, err := time.Parse(layout, t); err == nil {
				return &parsed
			}
		}
		return nil
	default:
		return nil
	}
}

// asMap reports whether v is a string-keyed mapping.
func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

// asSeq reports whether v is a sequence.
func asSeq(v any) ([]any, bool) {
	s, ok := v.([]any)
	return s, ok
}

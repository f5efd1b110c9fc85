package canon

import (
	"sort"
	"strings"
	"unicode"
)

// normalizeKey lowercases s and strips delimiter runes so that
// snake_case, kebab-case, camelCase, and spaced variants of the same
// field name compare equal: "target_id", "targetId", and "Target ID"
// all normalize to "targetid".
func normalizeKey(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '_' || r == '-' || r == ' ' || r == '.' {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// fieldValue looks up the raw value for a contract field. Exact key
// hits on the canonical name and its aliases win; otherwise raw keys
// are matched by normalizeKey. Candidate keys are scanned in sorted
// order so repeated calls on the same map give the same answer.
func fieldValue(raw map[string]any, f Field) (any, bool) {
	if v, ok := raw[f.Name]; ok {
		return v, true
	}
	for _, alias := range f.Aliases {
		if v, ok := raw[alias]; ok {
			return v, true
		}
	}

	want := make(map[string]bool, len(f.Aliases)+1)
	want[normalizeKey(f.Name)] = true
	for _, alias := range f.Aliases {
		want[normalizeKey(alias)] = true
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		if want[normalizeKey(k)] {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return nil, false
	}
	sort.Strings(keys)
	return raw[keys[0]], true
}

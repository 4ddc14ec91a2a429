package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var fenceRe = regexp.MustCompile("(?i)```json\\s*|```\\s*")

// StripFences removes markdown code-fence wrapping that models sometimes add
// around JSON output.
func StripFences(raw string) string {
	return strings.TrimSpace(fenceRe.ReplaceAllString(raw, ""))
}

// Fields is a loosely-typed JSON object. Accessors coerce each field to the
// target type and substitute a default instead of failing, so a response is
// never rejected solely for a missing or oddly-typed optional field.
type Fields map[string]any

// DecodeFields strips fences and parses one JSON object.
func DecodeFields(raw string) (Fields, error) {
	var f Fields
	if err := json.Unmarshal([]byte(StripFences(raw)), &f); err != nil {
		return nil, fmt.Errorf("failed to parse model response: %w", err)
	}
	return f, nil
}

// String returns the field as a non-empty string, or def.
func (f Fields) String(key, def string) string {
	if v, ok := f[key].(string); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return def
}

// Int returns the field as an integer, accepting numbers and numeric strings.
func (f Fields) Int(key string, def int) int {
	switch v := f[key].(type) {
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return def
}

// StringList returns the field as a list of strings, dropping non-string
// elements. A missing field yields an empty list.
func (f Fields) StringList(key string) []string {
	items, ok := f[key].([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

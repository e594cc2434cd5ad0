package syntax

import "strings"

// ParseKeyValues splits an optional-argument list such as
// "label={fig:a}, caption=Plot, float" into a map. Commas nested in braces
// do not split, and one pair of braces around a value is removed.
func ParseKeyValues(s string) map[string]string {
	out := make(map[string]string)
	for _, item := range splitTopLevel(s, ',') {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		key, value, found := cutTopLevel(item, '=')
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		if !found {
			out[key] = ""
			continue
		}
		out[key] = unbrace(strings.TrimSpace(value))
	}
	return out
}

func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth, last := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '{':
			depth++
		case '}':
			if depth > 0 {
				depth--
			}
		case sep:
			if depth == 0 {
				parts = append(parts, s[last:i])
				last = i + 1
			}
		}
	}
	return append(parts, s[last:])
}

func cutTopLevel(s string, sep byte) (string, string, bool) {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '{':
			depth++
		case '}':
			if depth > 0 {
				depth--
			}
		case sep:
			if depth == 0 {
				return s[:i], s[i+1:], true
			}
		}
	}
	return s, "", false
}

func unbrace(v string) string {
	if len(v) < 2 || v[0] != '{' || v[len(v)-1] != '}' {
		return v
	}
	depth := 0
	for i := 0; i < len(v); i++ {
		switch v[i] {
		case '\\':
			i++
		case '{':
			depth++
		case '}':
			depth--
			// The opening brace closes before the end: "{a}{b}" keeps its braces.
			if depth == 0 && i != len(v)-1 {
				return v
			}
		}
	}
	return v[1 : len(v)-1]
}

// Package template resolves {{name}} placeholders in prompt text.
//
// A placeholder is exactly "{{" followed by one or more word characters
// (ASCII letters, digits, underscore) and "}}". Anything else, including
// "{{ name }}" or an unmatched brace, is plain text. Resolution never fails:
// placeholders without a value are left verbatim so partially filled
// templates stay intact while they are being edited.
package template

import (
	"maps"
	"regexp"
)

var placeholder = regexp.MustCompile(`\{\{(\w+)\}\}`)

// ExtractVariables returns the distinct placeholder names in t, in order of
// first occurrence. It returns nil for an empty template.
func ExtractVariables(t string) []string {
	if t == "" {
		return nil
	}

	var names []string
	seen := make(map[string]struct{})

	for _, m := range placeholder.FindAllStringSubmatch(t, -1) {
		name := m[1]
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}

	return names
}

// Resolve replaces every placeholder in t that has an entry in vars. Unknown
// placeholders are kept in their literal {{name}} form.
func Resolve(t string, vars map[string]string) string {
	if t == "" {
		return ""
	}

	return placeholder.ReplaceAllStringFunc(t, func(m string) string {
		if v, ok := vars[m[2:len(m)-2]]; ok {
			return v
		}
		return m
	})
}

// ConvertDelimiter rewrites {{name}} placeholders to the single-brace {name}
// form used by orchestration frameworks. Other text is untouched.
func ConvertDelimiter(t string) string {
	if t == "" {
		return ""
	}

	return placeholder.ReplaceAllString(t, "{$1}")
}

// Missing returns the placeholder names in t that vars does not cover, in
// order of first occurrence.
func Missing(t string, vars map[string]string) []string {
	var missing []string
	for _, name := range ExtractVariables(t) {
		if _, ok := vars[name]; !ok {
			missing = append(missing, name)
		}
	}

	return missing
}

// Merge layers overrides on top of defaults and returns a new map. Keys
// present in both take the override value. Neither input is modified.
func Merge(defaults, overrides map[string]string) map[string]string {
	merged := make(map[string]string, len(defaults)+len(overrides))
	maps.Copy(merged, defaults)
	maps.Copy(merged, overrides)

	return merged
}

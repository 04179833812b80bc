package catalog

import (
	"slices"
	"strings"
)

// ProviderCount is one row of GroupByProvider.
type ProviderCount struct {
	Prefix string `json:"prefix"`
	Count  int    `json:"count"`
}

// FindByID returns the model with the given id.
func FindByID(models []Model, id string) (Model, bool) {
	i := slices.IndexFunc(models, func(m Model) bool { return m.ID == id })
	if i < 0 {
		return Model{}, false
	}
	return models[i], true
}

// GroupByProvider counts models per provider prefix, ordered by descending
// count. Ties keep first-seen order. When allow is non-empty only the listed
// prefixes are counted.
func GroupByProvider(models []Model, allow ...string) []ProviderCount {
	var out []ProviderCount
	index := make(map[string]int)

	for _, m := range models {
		prefix := m.Prefix()
		if len(allow) > 0 && !slices.Contains(allow, prefix) {
			continue
		}

		if i, ok := index[prefix]; ok {
			out[i].Count++
			continue
		}

		index[prefix] = len(out)
		out = append(out, ProviderCount{Prefix: prefix, Count: 1})
	}

	slices.SortStableFunc(out, func(a, b ProviderCount) int {
		return b.Count - a.Count
	})

	return out
}

// Search filters models by provider prefix (when prefixes is non-empty) and
// then by a case-insensitive substring match of query against id or name. An
// empty query keeps every model that passed the prefix filter.
func Search(models []Model, query string, prefixes ...string) []Model {
	q := strings.ToLower(strings.TrimSpace(query))

	out := make([]Model, 0, len(models))
	for _, m := range models {
		if len(prefixes) > 0 && !slices.Contains(prefixes, m.Prefix()) {
			continue
		}

		if q != "" &&
			!strings.Contains(strings.ToLower(m.ID), q) &&
			!strings.Contains(strings.ToLower(m.Name), q) {
			continue
		}

		out = append(out, m)
	}

	return out
}

// SupportsParameter reports whether m accepts the wire parameter name. A
// model with no supported parameter list is assumed to accept everything.
func SupportsParameter(m Model, param string) bool {
	if len(m.SupportedParameters) == 0 {
		return true
	}
	return slices.Contains(m.SupportedParameters, param)
}

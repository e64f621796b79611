package search

import (
	"fmt"
	"sort"

	"github.com/rubiojr/quarry/pkg/core"
)

// searchJSON recursively scans one JSON dataset and returns one match
// record per matched location: object keys, string values and string array
// items, each scored 1. Recursion descends into nested containers whether
// or not the container itself matched.
func (m *matcher) searchJSON(dataset string, content core.JSONContent) []Match {
	return m.walkJSON(dataset, content.Value, "")
}

func (m *matcher) walkJSON(dataset string, value any, path string) []Match {
	var matches []Match

	switch v := value.(type) {
	case map[string]any:
		// Object entries are visited in key order so results are
		// deterministic across runs.
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		for _, key := range keys {
			child := v[key]
			currentPath := key
			if path != "" {
				currentPath = path + "." + key
			}

			if m.matchText(key) {
				matches = append(matches, Match{
					Dataset:        dataset,
					Type:           core.KindJSON,
					RelevanceScore: 1,
					MatchType:      MatchKey,
					Path:           currentPath,
					Key:            key,
					Value:          child,
				})
			}

			// A key match and a value match on the same entry are
			// independent records.
			if s, ok := child.(string); ok && m.matchText(s) {
				matches = append(matches, Match{
					Dataset:        dataset,
					Type:           core.KindJSON,
					RelevanceScore: 1,
					MatchType:      MatchValue,
					Path:           currentPath,
					Key:            key,
					Value:          s,
				})
			}

			switch child.(type) {
			case map[string]any, []any:
				matches = append(matches, m.walkJSON(dataset, child, currentPath)...)
			}
		}

	case []any:
		for i, item := range v {
			currentPath := fmt.Sprintf("%s[%d]", path, i)

			if s, ok := item.(string); ok && m.matchText(s) {
				matches = append(matches, Match{
					Dataset:        dataset,
					Type:           core.KindJSON,
					RelevanceScore: 1,
					MatchType:      MatchArrayItem,
					Path:           currentPath,
					Value:          s,
				})
			}

			switch item.(type) {
			case map[string]any, []any:
				matches = append(matches, m.walkJSON(dataset, item, currentPath)...)
			}
		}
	}

	return matches
}

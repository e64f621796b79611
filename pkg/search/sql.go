package search

import (
	"strings"

	"github.com/rubiojr/quarry/pkg/core"
)

// previewLength is how much of the original content a match record carries.
const previewLength = 200

// searchSQL scans one SQL dataset and returns at most one aggregate match
// record: the full list of occurrences, their count as the relevance score,
// and a preview of the original (unnormalized) content.
func (m *matcher) searchSQL(dataset string, content core.SQLContent) []Match {
	searchable := m.fold(content.Text)

	var matches []string
	if m.useRegex && m.re != nil {
		matches = m.re.FindAllString(searchable, -1)
	} else if strings.Contains(searchable, m.folded) {
		count := strings.Count(searchable, m.folded)
		matches = make([]string, count)
		for i := range matches {
			matches[i] = m.folded
		}
	}

	if len(matches) == 0 {
		return nil
	}

	return []Match{{
		Dataset:        dataset,
		Type:           core.KindSQL,
		RelevanceScore: len(matches),
		Matches:        matches,
		MatchCount:     len(matches),
		ContentPreview: preview(content.Text),
	}}
}

func preview(content string) string {
	if len(content) > previewLength {
		return content[:previewLength] + "..."
	}
	return content
}

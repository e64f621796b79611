package search

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
)

// matcher holds the per-search matching state: the case-folded query, the
// compiled pattern when regex mode is active, and the folder shared by
// every comparison in the search. It is the single point where case folding
// and the regex-versus-literal decision happen, so the SQL and JSON paths
// cannot drift apart. A matcher belongs to one search call and is not safe
// for concurrent use (cases.Caser is stateful).
type matcher struct {
	query         string
	folded        string
	caseSensitive bool
	useRegex      bool
	folder        cases.Caser

	// re is non-nil only when regex mode is active and the pattern
	// compiled; a failed compile leaves it nil and matching falls back to
	// literal containment of the raw query.
	re *regexp.Regexp
}

func newMatcher(query string, caseSensitive, useRegex bool) *matcher {
	m := &matcher{
		query:         query,
		folded:        query,
		caseSensitive: caseSensitive,
		useRegex:      useRegex,
		folder:        cases.Fold(),
	}
	if !caseSensitive {
		m.folded = m.folder.String(query)
	}
	if useRegex {
		pattern := query
		if !caseSensitive {
			pattern = "(?i)" + pattern
		}
		if re, err := regexp.Compile(pattern); err == nil {
			m.re = re
		}
	}
	return m
}

// matchText reports whether text contains the query. The empty query never
// matches anything.
func (m *matcher) matchText(text string) bool {
	if m.query == "" {
		return false
	}
	if m.re != nil {
		return m.re.MatchString(text)
	}
	if m.caseSensitive {
		return strings.Contains(text, m.query)
	}
	return strings.Contains(m.folder.String(text), m.folded)
}

// fold normalizes content the same way the query was normalized.
func (m *matcher) fold(text string) string {
	if m.caseSensitive {
		return text
	}
	return m.folder.String(text)
}

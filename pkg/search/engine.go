package search

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rubiojr/quarry/pkg/core"
	"github.com/rubiojr/quarry/pkg/log"
	"github.com/rubiojr/quarry/pkg/storage"
)

// Dataset type filters accepted by Options.Type.
const (
	TypeAll  = "all"
	TypeSQL  = "sql"
	TypeJSON = "json"
)

// Options configures one search execution.
type Options struct {
	// Type restricts which dataset variants are scanned: TypeAll (the
	// default when empty), TypeSQL or TypeJSON. Any other value is a
	// validation error.
	Type string

	// CaseSensitive disables the case folding applied to both query and
	// content before comparison.
	CaseSensitive bool

	// Regex compiles the query as a regular expression. Invalid patterns
	// fall back silently to literal substring matching.
	Regex bool

	// Limit truncates the ranked result sequence. Zero or negative means
	// unlimited: every match across every dataset is returned.
	Limit int
}

// Parameters echoes the options back in the result.
type Parameters struct {
	Type          string `json:"search_type"`
	CaseSensitive bool   `json:"case_sensitive"`
	UseRegex      bool   `json:"use_regex"`
	Limit         int    `json:"limit,omitempty"`
}

// MatchType tells which part of a JSON document matched.
type MatchType string

const (
	MatchKey       MatchType = "key"
	MatchValue     MatchType = "value"
	MatchArrayItem MatchType = "array_item"
)

// Match is one unit of search evidence for a dataset: an aggregate record
// for SQL content, a per-location record for JSON content.
type Match struct {
	Dataset        string    `json:"dataset"`
	Type           core.Kind `json:"type"`
	RelevanceScore int       `json:"relevance_score"`

	// SQL payload.
	Matches        []string `json:"matches,omitempty"`
	MatchCount     int      `json:"match_count,omitempty"`
	ContentPreview string   `json:"content_preview,omitempty"`

	// JSON payload.
	MatchType MatchType `json:"match_type,omitempty"`
	Path      string    `json:"path,omitempty"`
	Key       string    `json:"key,omitempty"`
	Value     any       `json:"value,omitempty"`
}

// Result is the aggregate response for one query execution.
type Result struct {
	Query                  string     `json:"query"`
	TotalResults           int        `json:"total_results"`
	DatasetsSearched       int        `json:"datasets_searched"`
	TotalDatasetsAvailable int        `json:"total_datasets_available"`
	ResultsReturned        int        `json:"results_returned"`
	Limited                bool       `json:"limited"`
	Results                []Match    `json:"results"`
	Parameters             Parameters `json:"search_parameters"`
}

// Engine executes searches against a dataset store. It never mutates the
// store; every search operates on a snapshot taken at call start.
type Engine struct {
	store  *storage.Store
	logger *log.Logger
}

func NewEngine(store *storage.Store) *Engine {
	return &Engine{
		store:  store,
		logger: log.ForComponent("search"),
	}
}

// Search runs one query against the full store. The only error condition is
// an unrecognized Options.Type; empty queries and invalid regex patterns
// are defined fallbacks, not errors.
func (e *Engine) Search(query string, opts Options) (*Result, error) {
	if opts.Type == "" {
		opts.Type = TypeAll
	}
	switch opts.Type {
	case TypeAll, TypeSQL, TypeJSON:
	default:
		return nil, fmt.Errorf("unknown search type %q (want %q, %q or %q)", opts.Type, TypeAll, TypeSQL, TypeJSON)
	}

	params := Parameters{
		Type:          opts.Type,
		CaseSensitive: opts.CaseSensitive,
		UseRegex:      opts.Regex,
		Limit:         max(opts.Limit, 0),
	}

	if strings.TrimSpace(query) == "" {
		total := e.store.Count()
		return &Result{
			Query:                  query,
			DatasetsSearched:       total,
			TotalDatasetsAvailable: total,
			Results:                []Match{},
			Parameters:             params,
		}, nil
	}

	snapshot := e.store.All()
	names := make([]string, 0, len(snapshot))
	for name := range snapshot {
		names = append(names, name)
	}
	// Sorted iteration makes the arrival order, and therefore the order of
	// equal-relevance results after the stable sort, deterministic.
	sort.Strings(names)

	m := newMatcher(query, opts.CaseSensitive, opts.Regex)

	var all []Match
	datasetsSearched := 0
	for _, name := range names {
		content := snapshot[name]
		datasetsSearched++

		if opts.Type == TypeSQL && content.Kind() != core.KindSQL {
			continue
		}
		if opts.Type == TypeJSON && content.Kind() != core.KindJSON {
			continue
		}

		switch c := content.(type) {
		case core.SQLContent:
			all = append(all, m.searchSQL(name, c)...)
		case core.JSONContent:
			all = append(all, m.searchJSON(name, c)...)
		}
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].RelevanceScore > all[j].RelevanceScore
	})

	totalResults := len(all)
	limited := false
	results := all
	if opts.Limit > 0 && totalResults > opts.Limit {
		results = all[:opts.Limit]
		limited = true
	}
	if results == nil {
		results = []Match{}
	}

	e.logger.Debugf("query %q matched %d results across %d datasets", query, totalResults, datasetsSearched)

	return &Result{
		Query:                  query,
		TotalResults:           totalResults,
		DatasetsSearched:       datasetsSearched,
		TotalDatasetsAvailable: len(snapshot),
		ResultsReturned:        len(results),
		Limited:                limited,
		Results:                results,
		Parameters:             params,
	}, nil
}

package search

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rubiojr/quarry/pkg/core"
	"github.com/rubiojr/quarry/pkg/storage"
)

func newTestEngine(t *testing.T) (*Engine, *storage.Store) {
	t.Helper()
	provider, err := storage.NewDirProvider(filepath.Join(t.TempDir(), "datasets"))
	if err != nil {
		t.Fatal(err)
	}
	store := storage.NewStore(provider, 72)
	return NewEngine(store), store
}

func addSQL(t *testing.T, store *storage.Store, name, text string) {
	t.Helper()
	if err := store.Add(name, core.SQLContent{Text: text}); err != nil {
		t.Fatal(err)
	}
}

func addJSON(t *testing.T, store *storage.Store, name string, value any) {
	t.Helper()
	if err := store.Add(name, core.JSONContent{Value: value}); err != nil {
		t.Fatal(err)
	}
}

// populateCorpus mirrors the shape of the generated sample data: ten SQL
// scripts and ten JSON documents sharing common searchable terms.
func populateCorpus(t *testing.T, store *storage.Store) {
	t.Helper()
	for i := 0; i < 10; i++ {
		addSQL(t, store, fmt.Sprintf("sql_test_%d", i), fmt.Sprintf(`
			CREATE TABLE test_table_%d (id INTEGER PRIMARY KEY, name VARCHAR(100));
			INSERT INTO test_table_%d VALUES (%d, 'test_record_%d', 'searchable_description_%d');
		`, i, i, i, i, i))
		addJSON(t, store, fmt.Sprintf("json_test_%d", i), map[string]any{
			"id":           float64(i),
			"name":         fmt.Sprintf("test_dataset_%d", i),
			"description":  fmt.Sprintf("This is test dataset number %d", i),
			"tags":         []any{"test", "sample", fmt.Sprintf("dataset_%d", i)},
			"common_field": "searchable_value",
		})
	}
}

func search(t *testing.T, e *Engine, query string, opts Options) *Result {
	t.Helper()
	result, err := e.Search(query, opts)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	return result
}

func TestUnlimitedSearch(t *testing.T) {
	engine, store := newTestEngine(t)
	populateCorpus(t, store)

	result := search(t, engine, "test", Options{})

	if result.DatasetsSearched != 20 {
		t.Errorf("expected 20 datasets searched, got %d", result.DatasetsSearched)
	}
	if result.TotalResults == 0 {
		t.Fatal("expected matches across the corpus")
	}
	if result.Limited {
		t.Error("no limit supplied, limited must be false")
	}
	if result.TotalResults != result.ResultsReturned {
		t.Errorf("without a limit every match must be returned: total %d, returned %d",
			result.TotalResults, result.ResultsReturned)
	}
	if len(result.Results) != result.ResultsReturned {
		t.Errorf("results_returned (%d) must equal len(results) (%d)",
			result.ResultsReturned, len(result.Results))
	}
}

func TestExplicitLimitTruncation(t *testing.T) {
	engine, store := newTestEngine(t)
	populateCorpus(t, store)

	unlimited := search(t, engine, "test", Options{})
	if unlimited.TotalResults <= 5 {
		t.Fatalf("corpus too small for this test: %d matches", unlimited.TotalResults)
	}

	result := search(t, engine, "test", Options{Limit: 5})
	if result.ResultsReturned != 5 {
		t.Errorf("expected 5 results returned, got %d", result.ResultsReturned)
	}
	if len(result.Results) != 5 {
		t.Errorf("expected 5 results, got %d", len(result.Results))
	}
	if !result.Limited {
		t.Error("expected limited == true")
	}
	if result.TotalResults != unlimited.TotalResults {
		t.Errorf("total_results must count all matches before truncation: %d vs %d",
			result.TotalResults, unlimited.TotalResults)
	}
}

func TestLimitLargerThanResults(t *testing.T) {
	engine, store := newTestEngine(t)
	addSQL(t, store, "only", "SELECT needle;")

	result := search(t, engine, "needle", Options{Limit: 100})
	if result.Limited {
		t.Error("limit above total must not set limited")
	}
	if result.ResultsReturned != 1 {
		t.Errorf("expected 1 result, got %d", result.ResultsReturned)
	}
}

func TestTypeFilterExclusivity(t *testing.T) {
	engine, store := newTestEngine(t)
	populateCorpus(t, store)

	sqlOnly := search(t, engine, "test", Options{Type: TypeSQL})
	for _, match := range sqlOnly.Results {
		if match.Type != core.KindSQL {
			t.Errorf("sql filter returned %q match for dataset %s", match.Type, match.Dataset)
		}
	}

	jsonOnly := search(t, engine, "test", Options{Type: TypeJSON})
	for _, match := range jsonOnly.Results {
		if match.Type != core.KindJSON {
			t.Errorf("json filter returned %q match for dataset %s", match.Type, match.Dataset)
		}
	}

	// Filtered-out datasets still count as searched.
	if sqlOnly.DatasetsSearched != 20 {
		t.Errorf("expected datasets_searched == 20 under filter, got %d", sqlOnly.DatasetsSearched)
	}
}

func TestUnknownTypeIsError(t *testing.T) {
	engine, store := newTestEngine(t)
	populateCorpus(t, store)

	if _, err := engine.Search("test", Options{Type: "xml"}); err == nil {
		t.Fatal("expected error for unknown search type")
	}
}

func TestCaseSensitivityMonotonicity(t *testing.T) {
	engine, store := newTestEngine(t)
	addSQL(t, store, "upper", "SELECT * FROM Records;")
	addSQL(t, store, "lower", "select * from records;")
	addJSON(t, store, "mixed", map[string]any{"label": "Records and records"})

	insensitive := search(t, engine, "Records", Options{})
	sensitive := search(t, engine, "Records", Options{CaseSensitive: true})

	if insensitive.TotalResults < sensitive.TotalResults {
		t.Errorf("case-insensitive results (%d) must be >= case-sensitive (%d)",
			insensitive.TotalResults, sensitive.TotalResults)
	}
	if sensitive.TotalResults >= insensitive.TotalResults {
		t.Errorf("corpus designed so sensitive (%d) < insensitive (%d)",
			sensitive.TotalResults, insensitive.TotalResults)
	}
}

func TestEmptyQueryShortCircuits(t *testing.T) {
	engine, store := newTestEngine(t)
	populateCorpus(t, store)

	for _, query := range []string{"", "   ", "\t\n"} {
		result := search(t, engine, query, Options{})
		if result.TotalResults != 0 {
			t.Errorf("query %q: expected 0 results, got %d", query, result.TotalResults)
		}
		if len(result.Results) != 0 {
			t.Errorf("query %q: expected empty results slice", query)
		}
		if result.DatasetsSearched != 20 {
			t.Errorf("query %q: datasets_searched must still report the store count, got %d",
				query, result.DatasetsSearched)
		}
		if result.Limited {
			t.Errorf("query %q: limited must be false", query)
		}
	}
}

func TestRelevanceOrdering(t *testing.T) {
	engine, store := newTestEngine(t)
	addSQL(t, store, "one_hit", "needle")
	addSQL(t, store, "three_hits", "needle needle needle")
	addSQL(t, store, "two_hits", "needle and needle")
	addJSON(t, store, "json_hit", map[string]any{"note": "a needle here"})

	result := search(t, engine, "needle", Options{})
	for i := 0; i+1 < len(result.Results); i++ {
		if result.Results[i].RelevanceScore < result.Results[i+1].RelevanceScore {
			t.Fatalf("results not sorted by relevance descending at %d: %d < %d",
				i, result.Results[i].RelevanceScore, result.Results[i+1].RelevanceScore)
		}
	}

	if result.Results[0].Dataset != "three_hits" {
		t.Errorf("expected highest-scoring dataset first, got %s", result.Results[0].Dataset)
	}
	if result.Results[0].RelevanceScore != 3 {
		t.Errorf("expected score 3, got %d", result.Results[0].RelevanceScore)
	}
}

func TestEqualScoresKeepArrivalOrder(t *testing.T) {
	engine, store := newTestEngine(t)
	addSQL(t, store, "zeta", "needle")
	addSQL(t, store, "alpha", "needle")
	addSQL(t, store, "mid", "needle")

	// Arrival order is sorted dataset names; the stable sort must keep it
	// for equal scores.
	result := search(t, engine, "needle", Options{})
	expected := []string{"alpha", "mid", "zeta"}
	if len(result.Results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(result.Results))
	}
	for i, name := range expected {
		if result.Results[i].Dataset != name {
			t.Errorf("expected results[%d] from %q, got %q", i, name, result.Results[i].Dataset)
		}
	}
}

func TestRegexSearch(t *testing.T) {
	engine, store := newTestEngine(t)
	addSQL(t, store, "script", "SELECT a FROM t; INSERT INTO t VALUES (1); SELECT b FROM t;")

	result := search(t, engine, "SELECT|INSERT", Options{Regex: true})
	if result.TotalResults != 1 {
		t.Fatalf("expected one aggregate SQL record, got %d", result.TotalResults)
	}
	match := result.Results[0]
	if match.MatchCount != 3 {
		t.Errorf("expected 3 pattern occurrences, got %d", match.MatchCount)
	}
	if match.RelevanceScore != 3 {
		t.Errorf("score must equal occurrence count, got %d", match.RelevanceScore)
	}
}

func TestRegexCaseInsensitiveByDefault(t *testing.T) {
	engine, store := newTestEngine(t)
	addSQL(t, store, "script", "Select one; SELECT two;")

	insensitive := search(t, engine, "select", Options{Regex: true})
	if insensitive.TotalResults != 1 || insensitive.Results[0].MatchCount != 2 {
		t.Fatalf("expected 2 case-insensitive occurrences, got %+v", insensitive.Results)
	}

	sensitive := search(t, engine, "select", Options{Regex: true, CaseSensitive: true})
	if sensitive.TotalResults != 0 {
		t.Errorf("expected no case-sensitive matches, got %d", sensitive.TotalResults)
	}
}

func TestRegexFallbackSafety(t *testing.T) {
	engine, store := newTestEngine(t)
	addSQL(t, store, "brackets", "SELECT arr[0] FROM t;")
	addJSON(t, store, "doc", map[string]any{"expr": "value[index]"})

	// "[" is an invalid pattern; matching falls back to the literal string.
	result := search(t, engine, "[", Options{Regex: true})
	if result.TotalResults != 2 {
		t.Fatalf("expected literal fallback to match both datasets, got %d", result.TotalResults)
	}
}

func TestEndToEndScenario(t *testing.T) {
	engine, store := newTestEngine(t)
	addSQL(t, store, "sql_1", "CREATE TABLE t (id INT); SELECT * FROM t WHERE id > 5;")
	addJSON(t, store, "json_1", map[string]any{"name": "Record A", "value": float64(10)})

	result := search(t, engine, "record", Options{})
	if result.TotalResults != 1 {
		t.Fatalf("expected exactly one match, got %d", result.TotalResults)
	}

	match := result.Results[0]
	if match.Dataset != "json_1" || match.Type != core.KindJSON {
		t.Errorf("expected JSON match from json_1, got %+v", match)
	}
	if match.MatchType != MatchValue {
		t.Errorf("expected value match, got %q", match.MatchType)
	}
	if match.Path != "name" {
		t.Errorf("expected path 'name', got %q", match.Path)
	}
	if match.Value != "Record A" {
		t.Errorf("expected matched value 'Record A', got %v", match.Value)
	}
}

func TestSQLAggregateRecord(t *testing.T) {
	engine, store := newTestEngine(t)
	addSQL(t, store, "multi", "test test test")

	result := search(t, engine, "test", Options{})
	if result.TotalResults != 1 {
		t.Fatalf("expected one aggregate record per SQL dataset, got %d", result.TotalResults)
	}
	match := result.Results[0]
	if match.MatchCount != 3 || len(match.Matches) != 3 {
		t.Errorf("expected 3 occurrences, got count %d, matches %v", match.MatchCount, match.Matches)
	}
	if match.RelevanceScore != 3 {
		t.Errorf("expected score 3, got %d", match.RelevanceScore)
	}
}

func TestContentPreviewTruncation(t *testing.T) {
	engine, store := newTestEngine(t)

	long := "SELECT needle; " + strings.Repeat("-- padding line\n", 30)
	if len(long) <= 200 {
		t.Fatal("test content must exceed the preview length")
	}
	addSQL(t, store, "long", long)
	addSQL(t, store, "short", "SELECT needle;")

	result := search(t, engine, "needle", Options{})
	for _, match := range result.Results {
		switch match.Dataset {
		case "long":
			if len(match.ContentPreview) != 203 || !strings.HasSuffix(match.ContentPreview, "...") {
				t.Errorf("expected 200-char preview with ellipsis, got %d chars", len(match.ContentPreview))
			}
			if match.ContentPreview[:200] != long[:200] {
				t.Error("preview must come from the original, unnormalized content")
			}
		case "short":
			if match.ContentPreview != "SELECT needle;" {
				t.Errorf("short content must be previewed verbatim, got %q", match.ContentPreview)
			}
		}
	}
}

func TestSearchDoesNotMutateStore(t *testing.T) {
	engine, store := newTestEngine(t)
	populateCorpus(t, store)

	before := store.Count()
	search(t, engine, "test", Options{})
	if store.Count() != before {
		t.Error("search must not mutate the store")
	}
}

func TestStats(t *testing.T) {
	engine, store := newTestEngine(t)
	for i := 0; i < 40; i++ {
		addSQL(t, store, fmt.Sprintf("sql_%d", i), "SELECT 1;")
	}
	for i := 0; i < 32; i++ {
		addJSON(t, store, fmt.Sprintf("json_%d", i), map[string]any{"i": float64(i)})
	}

	stats := engine.Stats()
	if stats.TotalDatasets != 72 {
		t.Errorf("expected 72 datasets, got %d", stats.TotalDatasets)
	}
	if stats.SQLDatasets != 40 || stats.JSONDatasets != 32 {
		t.Errorf("expected 40 sql / 32 json, got %d/%d", stats.SQLDatasets, stats.JSONDatasets)
	}
	if stats.CapacityUtilization != "100.0%" {
		t.Errorf("expected 100.0%% utilization at target capacity, got %q", stats.CapacityUtilization)
	}
	if !stats.SearchUnlimited || !stats.SupportsRegex || !stats.SupportsCaseSensitive {
		t.Error("capability flags must all be true")
	}
}

func TestStatsOverCapacity(t *testing.T) {
	engine, store := newTestEngine(t)
	for i := 0; i < 73; i++ {
		addSQL(t, store, fmt.Sprintf("sql_%d", i), "SELECT 1;")
	}

	stats := engine.Stats()
	if stats.CapacityUtilization != "Over capacity" {
		t.Errorf("expected 'Over capacity', got %q", stats.CapacityUtilization)
	}
}

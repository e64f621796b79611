// Package sample generates demonstration datasets so the search engine has
// something to chew on before any real data is added.
package sample

import (
	"fmt"

	"github.com/rubiojr/quarry/pkg/core"
	"github.com/rubiojr/quarry/pkg/storage"
)

// DefaultCount is the number of datasets Generate creates when the caller
// does not ask for a specific amount.
const DefaultCount = 15

// Generate adds count sample datasets to the store: the first half SQL
// scripts, the rest JSON documents. Returns the number of datasets added.
func Generate(store *storage.Store, count int) (int, error) {
	if count <= 0 {
		count = DefaultCount
	}

	added := 0
	for i := 1; i <= count/2; i++ {
		if err := store.Add(fmt.Sprintf("sql_dataset_%d", i), sqlDataset(i)); err != nil {
			return added, fmt.Errorf("adding sample SQL dataset %d: %w", i, err)
		}
		added++
	}
	for i := count/2 + 1; i <= count; i++ {
		if err := store.Add(fmt.Sprintf("json_dataset_%d", i), jsonDataset(i)); err != nil {
			return added, fmt.Errorf("adding sample JSON dataset %d: %w", i, err)
		}
		added++
	}

	return added, nil
}

func sqlDataset(i int) core.SQLContent {
	text := fmt.Sprintf(`-- Sample SQL Dataset %d
CREATE TABLE dataset_%d (
    id INTEGER PRIMARY KEY,
    name VARCHAR(100),
    value DECIMAL(10,2),
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

INSERT INTO dataset_%d (name, value) VALUES
    ('Sample Record A', %.1f),
    ('Sample Record B', %.1f),
    ('Test Data %d', %.1f);

SELECT * FROM dataset_%d WHERE value > %d;
`, i, i, i, float64(i)*10.5, float64(i)*15.3, i, float64(i)*7.8, i, i*5)

	return core.SQLContent{Text: text}
}

func jsonDataset(i int) core.JSONContent {
	records := make([]any, 0, 5)
	for j := 1; j <= 5; j++ {
		priority := "high"
		if j%2 == 0 {
			priority = "normal"
		}
		records = append(records, map[string]any{
			"id":       float64(j),
			"name":     fmt.Sprintf("Record %d from dataset %d", j, i),
			"value":    float64(i) * float64(j) * 2.5,
			"category": "sample_data",
			"attributes": map[string]any{
				"searchable": true,
				"priority":   priority,
			},
		})
	}

	return core.JSONContent{Value: map[string]any{
		"dataset_id": fmt.Sprintf("json_dataset_%d", i),
		"metadata": map[string]any{
			"version":     "1.0",
			"created":     "2024-01-01",
			"description": fmt.Sprintf("Sample JSON dataset number %d", i),
			"tags":        []any{"sample", "test", fmt.Sprintf("dataset_%d", i)},
		},
		"data": records,
		"summary": map[string]any{
			"total_records":     float64(5),
			"avg_value":         float64(i) * 7.5,
			"categories":        []any{"sample_data"},
			"searchable_fields": []any{"name", "category", "attributes"},
		},
	}}
}

package search

import (
	"fmt"

	"github.com/rubiojr/quarry/pkg/core"
)

// Stats summarizes the searchable corpus and the engine's capabilities.
type Stats struct {
	TotalDatasets         int    `json:"total_datasets"`
	SQLDatasets           int    `json:"sql_datasets"`
	JSONDatasets          int    `json:"json_datasets"`
	TargetCapacity        int    `json:"target_capacity"`
	CapacityUtilization   string `json:"capacity_utilization"`
	SearchUnlimited       bool   `json:"search_unlimited"`
	SupportsRegex         bool   `json:"supports_regex"`
	SupportsCaseSensitive bool   `json:"supports_case_sensitive"`
}

// Stats reports corpus statistics. Capacity utilization is relative to the
// configured target capacity, which is a reporting figure, not a ceiling;
// beyond it the utilization reads "Over capacity".
func (e *Engine) Stats() Stats {
	snapshot := e.store.All()

	sqlCount := 0
	jsonCount := 0
	for _, content := range snapshot {
		switch content.Kind() {
		case core.KindSQL:
			sqlCount++
		case core.KindJSON:
			jsonCount++
		}
	}

	total := len(snapshot)
	target := e.store.TargetCapacity()
	utilization := fmt.Sprintf("%.1f%%", float64(total)/float64(target)*100)
	if total > target {
		utilization = "Over capacity"
	}

	return Stats{
		TotalDatasets:         total,
		SQLDatasets:           sqlCount,
		JSONDatasets:          jsonCount,
		TargetCapacity:        target,
		CapacityUtilization:   utilization,
		SearchUnlimited:       true,
		SupportsRegex:         true,
		SupportsCaseSensitive: true,
	}
}

package core

import (
	"encoding/json"
	"fmt"
)

// Kind identifies the content variant of a dataset.
type Kind string

const (
	// KindSQL marks datasets holding raw SQL script text.
	KindSQL Kind = "sql"
	// KindJSON marks datasets holding an arbitrary JSON value.
	KindJSON Kind = "json"
)

// ParseKind validates a kind string coming from a flag or file extension.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindSQL, KindJSON:
		return Kind(s), nil
	}
	return "", fmt.Errorf("unknown dataset kind %q (want %q or %q)", s, KindSQL, KindJSON)
}

// Content is the content of a single dataset. It is a closed set of two
// variants, SQLContent and JSONContent, decided once when the dataset is
// loaded or added. Search code dispatches on the concrete type instead of
// probing the shape of the data.
//
// Content values are treated as read-only after creation; the store hands
// them out to any number of concurrent searches.
type Content interface {
	// Kind returns the content variant.
	Kind() Kind

	// String returns the persisted string representation: the raw script
	// for SQL content, the serialized JSON document for JSON content.
	// Dataset info reports len(String()) as the dataset size.
	String() string

	sealed()
}

// SQLContent holds a SQL script verbatim.
type SQLContent struct {
	Text string
}

func (c SQLContent) Kind() Kind     { return KindSQL }
func (c SQLContent) String() string { return c.Text }
func (c SQLContent) sealed()        {}

// JSONContent holds a decoded JSON document. Value is the result of
// unmarshaling into any: nil, bool, float64, string, []any or
// map[string]any, nested without depth limit.
type JSONContent struct {
	Value any
}

func (c JSONContent) Kind() Kind { return KindJSON }

func (c JSONContent) String() string {
	data, err := json.MarshalIndent(c.Value, "", "  ")
	if err != nil {
		// Value came from json.Unmarshal, so this only happens for
		// hand-built values holding unmarshalable types.
		return fmt.Sprintf("%v", c.Value)
	}
	return string(data)
}

func (c JSONContent) sealed() {}

// ParseJSONContent decodes a serialized JSON document into a JSONContent.
func ParseJSONContent(data []byte) (JSONContent, error) {
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return JSONContent{}, fmt.Errorf("parsing JSON content: %w", err)
	}
	return JSONContent{Value: value}, nil
}

// DatasetInfo describes one dataset for listing and reporting.
type DatasetInfo struct {
	Name string `json:"name"`
	Type Kind   `json:"type"`
	Size int    `json:"size"`
}

// StoreInfo summarizes the datasets currently held by a store.
type StoreInfo struct {
	TotalDatasets  int           `json:"total_datasets"`
	TargetCapacity int           `json:"target_capacity"`
	Datasets       []DatasetInfo `json:"datasets"`
}

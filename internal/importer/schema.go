package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ImportSchema is the top-level structure of an import file.
type ImportSchema struct {
	Timezone  string           `json:"timezone,omitempty" yaml:"timezone,omitempty"`
	Defaults  *DefaultsImport  `json:"defaults,omitempty" yaml:"defaults,omitempty"`
	WorkItems []WorkItemImport `json:"work_items" yaml:"work_items"`
	Events    []EventImport    `json:"events,omitempty" yaml:"events,omitempty"`
	Plans     []PlanImport     `json:"plans,omitempty" yaml:"plans,omitempty"`
}

// DefaultsImport holds values that cascade to work items leaving them unset.
type DefaultsImport struct {
	MinBlockMin *int     `json:"min_block_min,omitempty" yaml:"min_block_min,omitempty"`
	MaxBlockMin *int     `json:"max_block_min,omitempty" yaml:"max_block_min,omitempty"`
	Difficulty  *float64 `json:"difficulty,omitempty" yaml:"difficulty,omitempty"`
	Importance  *float64 `json:"importance,omitempty" yaml:"importance,omitempty"`
	Category    string   `json:"category,omitempty" yaml:"category,omitempty"`
}

// WorkItemImport defines a work item. Due accepts YYYY-MM-DD (end of that
// day) or RFC3339.
type WorkItemImport struct {
	Ref         string   `json:"ref" yaml:"ref"`
	Title       string   `json:"title" yaml:"title"`
	Due         string   `json:"due" yaml:"due"`
	TotalMin    int      `json:"total_min" yaml:"total_min"`
	MinBlockMin *int     `json:"min_block_min,omitempty" yaml:"min_block_min,omitempty"`
	MaxBlockMin *int     `json:"max_block_min,omitempty" yaml:"max_block_min,omitempty"`
	Difficulty  *float64 `json:"difficulty,omitempty" yaml:"difficulty,omitempty"`
	Importance  *float64 `json:"importance,omitempty" yaml:"importance,omitempty"`
	Category    string   `json:"category,omitempty" yaml:"category,omitempty"`
	Locked      bool     `json:"locked,omitempty" yaml:"locked,omitempty"`
	Course      *string  `json:"course,omitempty" yaml:"course,omitempty"`
}

// EventImport defines a fixed calendar event. Start and End are RFC3339.
type EventImport struct {
	Title  string `json:"title" yaml:"title"`
	Start  string `json:"start" yaml:"start"`
	End    string `json:"end" yaml:"end"`
	Locked *bool  `json:"locked,omitempty" yaml:"locked,omitempty"`
}

// PlanImport defines the step breakdown of one imported work item.
type PlanImport struct {
	WorkItemRef     string       `json:"work_item_ref" yaml:"work_item_ref"`
	EnforceSequence bool         `json:"enforce_sequence,omitempty" yaml:"enforce_sequence,omitempty"`
	Steps           []StepImport `json:"steps" yaml:"steps"`
}

// StepImport defines one plan step. After lists prerequisite step refs and
// is ignored when the plan enforces sequence.
type StepImport struct {
	Ref          string   `json:"ref" yaml:"ref"`
	Title        string   `json:"title" yaml:"title"`
	EstimatedMin int      `json:"estimated_min" yaml:"estimated_min"`
	Done         bool     `json:"done,omitempty" yaml:"done,omitempty"`
	After        []string `json:"after,omitempty" yaml:"after,omitempty"`
}

// LoadImportSchema reads an import file, choosing the decoder by extension.
func LoadImportSchema(path string) (*ImportSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading import file: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return ParseJSON(data)
	}
}

// ParseJSON decodes a JSON import document. Unknown fields are rejected.
func ParseJSON(data []byte) (*ImportSchema, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var schema ImportSchema
	if err := dec.Decode(&schema); err != nil {
		return nil, fmt.Errorf("parsing import JSON: %w", err)
	}
	return &schema, nil
}

// ParseYAML decodes a YAML import document. Unknown fields are rejected.
func ParseYAML(data []byte) (*ImportSchema, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var schema ImportSchema
	if err := dec.Decode(&schema); err != nil {
		return nil, fmt.Errorf("parsing import YAML: %w", err)
	}
	return &schema, nil
}

package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CategoryTemplate holds the static per-category spawn tuning loaded from
// YAML. Durations are seconds in the file; conversion to time.Duration
// happens at wiring time.
type CategoryTemplate struct {
	Name                      string   `yaml:"name"`
	MaxEntities               int      `yaml:"max_entities"`
	MovementThreshold         float64  `yaml:"movement_threshold"`
	MinSpawnDistance          float64  `yaml:"min_spawn_distance"`
	MaxSpawnDistance          float64  `yaml:"max_spawn_distance"`
	MaxEntityDistance         float64  `yaml:"max_entity_distance"`
	SpawnIntervalSec          float64  `yaml:"spawn_interval"`
	MaxAgeSec                 float64  `yaml:"max_age"`
	AggressiveCleanupDistance float64  `yaml:"aggressive_cleanup_distance"`
	FadedTimeoutSec           float64  `yaml:"faded_timeout"`
	SpawnCountPerTrigger      int      `yaml:"spawn_count_per_trigger"`
	InitialFill               float64  `yaml:"initial_fill"`
	Pooled                    bool     `yaml:"pooled"`
	Variants                  []string `yaml:"variants,omitempty"`
}

type categoryListFile struct {
	Categories []CategoryTemplate `yaml:"categories"`
}

// CategoryTable holds all category templates indexed by name.
type CategoryTable struct {
	templates map[string]*CategoryTemplate
	order     []string
}

// LoadCategoryTable loads category templates from a YAML file. Entries with
// an empty name are dropped; numeric fields are left raw here and clamped
// by the lifecycle layer.
func LoadCategoryTable(path string) (*CategoryTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read category_list: %w", err)
	}
	var f categoryListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse category_list: %w", err)
	}
	t := &CategoryTable{templates: make(map[string]*CategoryTemplate, len(f.Categories))}
	for i := range f.Categories {
		c := &f.Categories[i]
		if c.Name == "" {
			continue
		}
		if _, dup := t.templates[c.Name]; !dup {
			t.order = append(t.order, c.Name)
		}
		t.templates[c.Name] = c
	}
	return t, nil
}

// Get returns a category template by name, or nil if not found.
func (t *CategoryTable) Get(name string) *CategoryTemplate {
	return t.templates[name]
}

// Count returns the number of loaded templates.
func (t *CategoryTable) Count() int {
	return len(t.templates)
}

// Names returns category names in file order.
func (t *CategoryTable) Names() []string {
	return t.order
}

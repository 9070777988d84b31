package data

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const categoryFixture = `categories:
  - name: vegetation
    max_entities: 120
    movement_threshold: 8
    min_spawn_distance: 40
    max_spawn_distance: 160
    max_entity_distance: 420
    spawn_interval: 2.5
    max_age: 600
    aggressive_cleanup_distance: 700
    faded_timeout: 12
    spawn_count_per_trigger: 3
    initial_fill: 0.6
    variants: [pine, birch, shrub]
  - name: effect
    max_entities: 16
    spawn_interval: 0.5
    pooled: true
  - name: ""
    max_entities: 99
`

func writeFixture(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "category_list.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadCategoryTable(t *testing.T) {
	table, err := LoadCategoryTable(writeFixture(t, categoryFixture))
	require.NoError(t, err)

	assert.Equal(t, 2, table.Count(), "unnamed entry dropped")
	assert.Equal(t, []string{"vegetation", "effect"}, table.Names())

	veg := table.Get("vegetation")
	require.NotNil(t, veg)
	assert.Equal(t, 120, veg.MaxEntities)
	assert.Equal(t, 8.0, veg.MovementThreshold)
	assert.Equal(t, 2.5, veg.SpawnIntervalSec)
	assert.Equal(t, []string{"pine", "birch", "shrub"}, veg.Variants)
	assert.False(t, veg.Pooled)

	fx := table.Get("effect")
	require.NotNil(t, fx)
	assert.True(t, fx.Pooled)
	assert.Empty(t, fx.Variants)

	assert.Nil(t, table.Get("missing"))
}

func TestLoadCategoryTableMissingFile(t *testing.T) {
	_, err := LoadCategoryTable(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadCategoryTableBadYAML(t *testing.T) {
	_, err := LoadCategoryTable(writeFixture(t, "categories: [this is: not: valid"))
	assert.Error(t, err)
}

func TestLoadCategoryTableDuplicateLastWins(t *testing.T) {
	table, err := LoadCategoryTable(writeFixture(t, `categories:
  - name: rock
    max_entities: 10
  - name: rock
    max_entities: 24
`))
	require.NoError(t, err)
	assert.Equal(t, 1, table.Count())
	assert.Equal(t, 24, table.Get("rock").MaxEntities)
}

package scripting

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/veldt/engine/internal/vmath"
)

func writeScript(t *testing.T, dir, sub, name, body string) {
	t.Helper()
	p := filepath.Join(dir, sub)
	require.NoError(t, os.MkdirAll(p, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(p, name), []byte(body), 0o644))
}

func TestPlaceFeatureFromScript(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "spawn", "placement.lua", `
function place_feature(ctx)
    if ctx.category ~= "vegetation" then
        return nil
    end
    return {
        x = ctx.viewpoint.x + ctx.min_radius,
        y = 0,
        z = ctx.viewpoint.z,
        scale = 1.2,
        variant = "pine",
    }
end
`)

	eng, err := NewEngine(dir, zap.NewNop())
	require.NoError(t, err)
	defer eng.Close()

	res, ok := eng.PlaceFeature(PlacementContext{
		Category:  "vegetation",
		Viewpoint: vmath.Vec3{X: 100, Z: 50},
		MinRadius: 40,
		MaxRadius: 160,
	})
	require.True(t, ok)
	assert.Equal(t, vmath.Vec3{X: 140, Z: 50}, res.Position)
	assert.Equal(t, 1.2, res.Scale)
	assert.Equal(t, "pine", res.Variant)

	// nil return means no scripted opinion for that category.
	_, ok = eng.PlaceFeature(PlacementContext{Category: "rock"})
	assert.False(t, ok)
}

func TestPlaceFeatureMissingFunction(t *testing.T) {
	eng, err := NewEngine(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	defer eng.Close()

	_, ok := eng.PlaceFeature(PlacementContext{Category: "vegetation"})
	assert.False(t, ok)
}

func TestPlaceFeatureScriptErrorFallsBack(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "spawn", "placement.lua", `
function place_feature(ctx)
    error("boom")
end
`)

	eng, err := NewEngine(dir, zap.NewNop())
	require.NoError(t, err)
	defer eng.Close()

	_, ok := eng.PlaceFeature(PlacementContext{Category: "vegetation"})
	assert.False(t, ok)
}

func TestPlaceFeatureDefaultsZeroScale(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "spawn", "placement.lua", `
function place_feature(ctx)
    return { x = 1, y = 2, z = 3 }
end
`)

	eng, err := NewEngine(dir, zap.NewNop())
	require.NoError(t, err)
	defer eng.Close()

	res, ok := eng.PlaceFeature(PlacementContext{Category: "vegetation"})
	require.True(t, ok)
	assert.Equal(t, 1.0, res.Scale)
}

func TestDensityScale(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "tuning", "density.lua", `
function density_scale(category, vegetation_density)
    if category == "vegetation" then
        return vegetation_density
    end
    return 1.0
end
`)

	eng, err := NewEngine(dir, zap.NewNop())
	require.NoError(t, err)
	defer eng.Close()

	assert.Equal(t, 0.6, eng.DensityScale("vegetation", 0.6))
	assert.Equal(t, 1.0, eng.DensityScale("cloud", 0.6))
}

func TestBrokenScriptFailsLoad(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "spawn", "broken.lua", `function place_feature(`)

	_, err := NewEngine(dir, zap.NewNop())
	assert.Error(t, err)
}

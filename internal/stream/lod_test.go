package stream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/veldt/engine/internal/perf"
	"github.com/veldt/engine/internal/render"
	"github.com/veldt/engine/internal/vmath"
)

func newTestLOD() *LODController {
	cfg := testStreamConfig()
	return NewLODController(NewClassifier(cfg), cfg, nil, zap.NewNop())
}

func trackedAt(x float64) (*TrackedFeature, *render.FakeHandle) {
	h := render.NewFakeHandle(vmath.Vec3{X: x})
	f := &TrackedFeature{
		Type:     FeatureVegetation,
		Handle:   h,
		Position: vmath.Vec3{X: x},
		Tier:     TierCulled,
	}
	return f, h
}

func TestTierByDistance(t *testing.T) {
	l := newTestLOD()
	budget := perf.FullQuality()

	cases := []struct {
		distance float64
		want     QualityTier
	}{
		{10, TierUltra},
		{75, TierUltra},  // exactly 0.25×render, inclusive
		{76, TierHigh},
		{150, TierHigh},  // exactly 0.5×render
		{200, TierMedium},
		{280, TierLow},
		{300, TierLow},   // exactly at render distance: still inside
		{390, TierLow},   // past render, inside cull
	}
	for _, tc := range cases {
		f, _ := trackedAt(tc.distance)
		l.BeginPass()
		l.Process(f, vmath.Vec3{}, budget)
		assert.Equal(t, tc.want, f.Tier, "distance %v", tc.distance)
		assert.True(t, f.Visible, "distance %v inside cull must stay visible", tc.distance)
	}
}

func TestCulledPastCullDistance(t *testing.T) {
	l := newTestLOD()
	f, h := trackedAt(401)
	f.Visible = true
	l.BeginPass()
	l.Process(f, vmath.Vec3{}, perf.FullQuality())

	assert.Equal(t, TierCulled, f.Tier)
	assert.False(t, f.Visible)
	assert.False(t, h.Visible)
	assert.Zero(t, h.BuildCalls, "culled path must not touch materials")
}

func TestMaterialSwapOnlyOnTierChange(t *testing.T) {
	l := newTestLOD()
	f, h := trackedAt(200) // medium
	budget := perf.FullQuality()

	l.BeginPass()
	l.Process(f, vmath.Vec3{}, budget)
	require.Equal(t, TierMedium, f.Tier)
	require.True(t, h.Simplified)
	require.Equal(t, 1, h.BuildCalls)

	// Same tier on later passes: no rebuild, no reapply churn.
	for i := 0; i < 5; i++ {
		l.BeginPass()
		l.Process(f, vmath.Vec3{}, budget)
	}
	assert.Equal(t, 1, h.BuildCalls, "simplified material is built once and cached")

	// Move close: original restored.
	h.Pos = vmath.Vec3{X: 50}
	f.Position = h.Pos
	l.BeginPass()
	l.Process(f, vmath.Vec3{}, budget)
	assert.Equal(t, TierUltra, f.Tier)
	assert.False(t, h.Simplified)

	// Back out to medium: cached material reused, still one build.
	h.Pos = vmath.Vec3{X: 200}
	f.Position = h.Pos
	l.BeginPass()
	l.Process(f, vmath.Vec3{}, budget)
	assert.Equal(t, TierMedium, f.Tier)
	assert.True(t, h.Simplified)
	assert.Equal(t, 1, h.BuildCalls)
}

func TestShadowTogglePerTier(t *testing.T) {
	l := newTestLOD()
	budget := perf.FullQuality()

	f, h := trackedAt(50)
	l.BeginPass()
	l.Process(f, vmath.Vec3{}, budget)
	assert.True(t, h.CastShadows)
	assert.True(t, h.ReceiveShadows)

	f2, h2 := trackedAt(200)
	l.BeginPass()
	l.Process(f2, vmath.Vec3{}, budget)
	assert.False(t, h2.CastShadows)
	assert.True(t, h2.ReceiveShadows)

	f3, h3 := trackedAt(290)
	l.BeginPass()
	l.Process(f3, vmath.Vec3{}, budget)
	assert.False(t, h3.CastShadows)
	assert.False(t, h3.ReceiveShadows)
}

func TestOpacityBoundsAndFloor(t *testing.T) {
	l := newTestLOD()
	budget := perf.FullQuality()

	for d := 1.0; d <= 400; d += 7 {
		f, _ := trackedAt(d)
		l.BeginPass()
		l.Process(f, vmath.Vec3{}, budget)
		assert.GreaterOrEqual(t, f.Opacity, 0.0, "distance %v", d)
		assert.LessOrEqual(t, f.Opacity, 1.0, "distance %v", d)
		if f.Visible {
			assert.GreaterOrEqual(t, f.Opacity, 0.1,
				"visible features never drop below the opacity floor (distance %v)", d)
		}
	}

	// Inside fade start: fully opaque.
	near, _ := trackedAt(200)
	l.BeginPass()
	l.Process(near, vmath.Vec3{}, budget)
	assert.Equal(t, 1.0, near.Opacity)

	// Between render and cull: held at the floor, no hard pop.
	far, _ := trackedAt(350)
	l.BeginPass()
	l.Process(far, vmath.Vec3{}, budget)
	assert.InDelta(t, 0.1, far.Opacity, 1e-9)

	// Mid-band: strictly between floor and 1.
	mid, _ := trackedAt(255)
	l.BeginPass()
	l.Process(mid, vmath.Vec3{}, budget)
	assert.Greater(t, mid.Opacity, 0.1)
	assert.Less(t, mid.Opacity, 1.0)
}

func TestDegenerateHandleSkipsQualityMutation(t *testing.T) {
	l := newTestLOD()
	f, h := trackedAt(200)
	h.Geometry = false

	l.BeginPass()
	l.Process(f, vmath.Vec3{}, perf.FullQuality())

	assert.Equal(t, TierMedium, f.Tier, "tier bookkeeping still runs")
	assert.True(t, f.Visible, "visibility logic still applies")
	assert.False(t, h.Simplified)
	assert.Zero(t, h.BuildCalls, "no material probing on degenerate objects")
}

func TestBudgetScalesThresholds(t *testing.T) {
	l := newTestLOD()

	// Draw distance scaled to 0.8: cull moves from 400 to 320.
	budget := perf.FullQuality()
	budget.DrawDistanceScale = 0.8

	f, _ := trackedAt(350)
	f.Visible = true
	l.BeginPass()
	l.Process(f, vmath.Vec3{}, budget)
	assert.Equal(t, TierCulled, f.Tier, "shrunken budget culls earlier")

	// Aggressive LOD pulls tier boundaries in.
	aggr := perf.FullQuality()
	aggr.LODAggressiveness = 1.4
	g, _ := trackedAt(75) // ultra under full quality
	l.BeginPass()
	l.Process(g, vmath.Vec3{}, aggr)
	assert.Equal(t, TierHigh, g.Tier)
}

func TestRingBucketsRebuiltPerPass(t *testing.T) {
	l := newTestLOD()
	budget := perf.FullQuality()

	f1, _ := trackedAt(100) // ring 0 (max 300)
	f2, _ := trackedAt(350) // ring 1 (300..450)

	l.BeginPass()
	l.Process(f1, vmath.Vec3{}, budget)
	l.Process(f2, vmath.Vec3{}, budget)
	assert.Equal(t, []int{1, 1, 0, 0}, l.Rings().Occupancy())
	assert.Equal(t, 0, f1.Ring)
	assert.Equal(t, 1, f2.Ring)

	// Next pass starts from zero occupancy, no incremental drift.
	l.BeginPass()
	l.Process(f1, vmath.Vec3{}, budget)
	assert.Equal(t, []int{1, 0, 0, 0}, l.Rings().Occupancy())
}

func TestRingBandsPartitionDistance(t *testing.T) {
	l := newTestLOD()
	rings := l.Rings().Rings()
	require.Len(t, rings, 4)
	assert.Equal(t, 0.0, rings[0].Min)
	for i := 1; i < len(rings); i++ {
		assert.Equal(t, rings[i-1].Max, rings[i].Min, "bands must tile without gaps")
		assert.Greater(t, rings[i].Max, rings[i].Min)
	}
	// Nominal tiers decrease outward.
	assert.Equal(t, TierUltra, rings[0].Tier)
	assert.Equal(t, TierLow, rings[len(rings)-1].Tier)
}

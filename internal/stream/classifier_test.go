package stream

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/veldt/engine/internal/config"
	"github.com/veldt/engine/internal/vmath"
)

func testStreamConfig() config.StreamingConfig {
	return config.StreamingConfig{
		RingCount:          4,
		BaseRenderDistance: 300,
		BaseCullDistance:   400,
		RingGrowth:         1.5,
		HardCullMultiplier: 2.5,
		FadeStartFraction:  0.7,
		OpacityFloor:       0.1,
		UpdateInterval:     1,
	}
}

func TestClassifyDistanceIsEuclidean(t *testing.T) {
	c := NewClassifier(testStreamConfig())
	cls := c.Classify(vmath.Vec3{X: 1, Y: 2, Z: 3}, vmath.Vec3{X: 4, Y: 6, Z: 3}, 0)
	assert.InDelta(t, 5.0, cls.Distance, 1e-9)
	assert.Equal(t, 0, cls.Ring)
	assert.Equal(t, 300.0, cls.RenderDistance)
	assert.Equal(t, 400.0, cls.CullDistance)
}

func TestRingMonotonicity(t *testing.T) {
	c := NewClassifier(testStreamConfig())
	for i := 0; i < c.RingCount()-1; i++ {
		assert.LessOrEqual(t, c.RenderDistance(i), c.RenderDistance(i+1),
			"render distance must not shrink with ring index")
		assert.LessOrEqual(t, c.CullDistance(i), c.CullDistance(i+1),
			"cull distance must not shrink with ring index")
	}
}

func TestCullAlwaysBeyondRender(t *testing.T) {
	c := NewClassifier(testStreamConfig())
	for i := 0; i < c.RingCount(); i++ {
		assert.Greater(t, c.CullDistance(i), c.RenderDistance(i))
	}
}

func TestRingIndexClamped(t *testing.T) {
	c := NewClassifier(testStreamConfig())
	lo := c.Classify(vmath.Vec3{}, vmath.Vec3{X: 10}, -3)
	assert.Equal(t, 0, lo.Ring)
	hi := c.Classify(vmath.Vec3{}, vmath.Vec3{X: 10}, 99)
	assert.Equal(t, c.RingCount()-1, hi.Ring)
}

func TestHardCullBeyondOutermostCull(t *testing.T) {
	c := NewClassifier(testStreamConfig())
	outer := c.CullDistance(c.RingCount() - 1)
	assert.InDelta(t, outer*2.5, c.HardCullDistance(), 1e-9)
	assert.Greater(t, c.HardCullDistance(), outer)
}

package stream

import (
	"math"

	"github.com/veldt/engine/internal/config"
	"github.com/veldt/engine/internal/vmath"
)

// Classification is the result of one distance lookup.
type Classification struct {
	Distance       float64
	Ring           int
	RenderDistance float64
	CullDistance   float64
}

// Classifier derives per-ring render/cull thresholds from the streaming
// config. Pure and O(1); it never flip-flops on its own. The ring index it
// receives is the caller's last computed ring, so any hysteresis lives in
// the caller.
type Classifier struct {
	ringCount  int
	baseRender float64
	baseCull   float64
	growth     float64
	hardCull   float64
}

func NewClassifier(cfg config.StreamingConfig) Classifier {
	c := Classifier{
		ringCount:  cfg.RingCount,
		baseRender: cfg.BaseRenderDistance,
		baseCull:   cfg.BaseCullDistance,
		growth:     cfg.RingGrowth,
	}
	c.hardCull = c.CullDistance(c.ringCount-1) * cfg.HardCullMultiplier
	return c
}

// Classify computes the distance between viewpoint and position and the
// render/cull budget for the given ring. Higher rings get looser budgets.
func (c Classifier) Classify(viewpoint, position vmath.Vec3, ringIndex int) Classification {
	ring := c.clampRing(ringIndex)
	return Classification{
		Distance:       vmath.Dist(viewpoint, position),
		Ring:           ring,
		RenderDistance: c.RenderDistance(ring),
		CullDistance:   c.CullDistance(ring),
	}
}

// RenderDistance for ring k scales the base by growth^k. Monotonically
// non-decreasing in k.
func (c Classifier) RenderDistance(ring int) float64 {
	return c.baseRender * math.Pow(c.growth, float64(c.clampRing(ring)))
}

// CullDistance is strictly beyond RenderDistance for every ring; config
// clamping guarantees the base pair is ordered and both scale identically.
func (c Classifier) CullDistance(ring int) float64 {
	return c.baseCull * math.Pow(c.growth, float64(c.clampRing(ring)))
}

// HardCullDistance is the conservative destroy threshold, deliberately far
// beyond the outermost ring's cull distance.
func (c Classifier) HardCullDistance() float64 {
	return c.hardCull
}

func (c Classifier) RingCount() int {
	return c.ringCount
}

func (c Classifier) clampRing(ring int) int {
	if ring < 0 {
		return 0
	}
	if ring >= c.ringCount {
		return c.ringCount - 1
	}
	return ring
}

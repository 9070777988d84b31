package stream

import (
	"go.uber.org/zap"

	"github.com/veldt/engine/internal/config"
	"github.com/veldt/engine/internal/core/event"
	"github.com/veldt/engine/internal/perf"
	"github.com/veldt/engine/internal/render"
	"github.com/veldt/engine/internal/vmath"
)

// LODController assigns each tracked feature a quality tier, a fade opacity
// and a ring bucket, combining the distance classification with the current
// global quality budget. Material swaps happen only on tier transitions;
// fading is the anti-pop mechanism, culling is the anti-cost mechanism.
type LODController struct {
	classifier Classifier
	cfg        config.StreamingConfig
	rings      *RingSet
	bus        *event.Bus
	log        *zap.Logger
}

func NewLODController(classifier Classifier, cfg config.StreamingConfig, bus *event.Bus, log *zap.Logger) *LODController {
	return &LODController{
		classifier: classifier,
		cfg:        cfg,
		rings:      BuildRingSet(classifier),
		bus:        bus,
		log:        log,
	}
}

// Rings exposes the bucket table for telemetry.
func (l *LODController) Rings() *RingSet {
	return l.rings
}

// BeginPass clears the ring buckets. Called once per stream pass before any
// Process calls.
func (l *LODController) BeginPass() {
	l.rings.Reset()
}

// Process runs the per-feature quality decision. The feature's handle must
// exist; the registry filters stale handles before delegating here.
func (l *LODController) Process(f *TrackedFeature, viewpoint vmath.Vec3, budget perf.AdaptiveSettings) {
	cls := l.classifier.Classify(viewpoint, f.Position, f.Ring)
	f.Distance = cls.Distance

	// The budget scales every threshold: a shrunken draw distance pulls
	// both render and cull in together, keeping their ordering invariant.
	renderDist := cls.RenderDistance * budget.DrawDistanceScale
	cullDist := cls.CullDistance * budget.DrawDistanceScale

	if f.Distance > cullDist {
		// Cheapest path: hidden, no tier work, no ring bookkeeping.
		l.setTier(f, TierCulled)
		if f.Visible {
			f.Visible = false
			f.Opacity = 0
			f.Handle.SetVisible(false)
		}
		return
	}

	tier := l.tierFor(f.Distance, renderDist, budget.LODAggressiveness)
	l.setTier(f, tier)

	f.Opacity = l.opacityFor(f.Distance, renderDist)
	if !f.Visible {
		f.Visible = true
		f.Handle.SetVisible(true)
	}
	f.Handle.SetOpacity(f.Opacity)

	ring := l.rings.RingFor(f.Distance)
	f.Ring = ring
	l.rings.Count(ring)
}

// tierFor buckets distance into the four live tiers. The render boundary is
// inclusive: a feature sitting exactly at renderDist is inside. Higher LOD
// aggressiveness pulls every boundary closer to the viewpoint.
func (l *LODController) tierFor(distance, renderDist, aggressiveness float64) QualityTier {
	if aggressiveness <= 0 {
		aggressiveness = 1
	}
	d := distance * aggressiveness
	switch {
	case d <= renderDist*0.25:
		return TierUltra
	case d <= renderDist*0.5:
		return TierHigh
	case d <= renderDist*0.75:
		return TierMedium
	default:
		return TierLow
	}
}

// opacityFor is 1.0 inside the fade-start distance, interpolates down to a
// non-zero floor across the fade band, and holds the floor out to the cull
// distance. The floor avoids a hard pop at the render boundary.
func (l *LODController) opacityFor(distance, renderDist float64) float64 {
	fadeStart := renderDist * l.cfg.FadeStartFraction
	if distance <= fadeStart {
		return 1
	}
	if distance >= renderDist {
		return l.cfg.OpacityFloor
	}
	t := (distance - fadeStart) / (renderDist - fadeStart)
	return vmath.Lerp(1, l.cfg.OpacityFloor, t)
}

// setTier records a tier transition and performs the material/shadow swap.
// Features with no geometry skip the quality mutation silently; their
// visibility handling is untouched.
func (l *LODController) setTier(f *TrackedFeature, tier QualityTier) {
	if tier == f.Tier {
		return
	}
	from := f.Tier
	f.Tier = tier

	if l.bus != nil {
		event.Emit(l.bus, TierChanged{ID: f.ID, Type: f.Type, From: from, To: tier})
	}
	if tier == TierCulled {
		return
	}
	if !f.Handle.HasGeometry() {
		return
	}

	switch tier {
	case TierUltra, TierHigh:
		f.Handle.RestoreOriginal()
	case TierMedium, TierLow:
		if m := l.simplifiedMaterial(f); m != nil {
			f.Handle.ApplySimplified(m)
		}
	}
	f.Handle.SetShadows(l.shadowsFor(tier))
}

// shadowsFor: high tiers cast and receive, medium receives only, low does
// neither.
func (l *LODController) shadowsFor(tier QualityTier) (cast, receive bool) {
	switch tier {
	case TierUltra, TierHigh:
		return true, true
	case TierMedium:
		return false, true
	default:
		return false, false
	}
}

// simplifiedMaterial returns the cached reduced material, building it on
// first use. A failed build is remembered so the handle is not probed again.
func (l *LODController) simplifiedMaterial(f *TrackedFeature) render.Material {
	if f.simplifiedTried {
		return f.simplified
	}
	f.simplifiedTried = true
	m, ok := f.Handle.BuildSimplified()
	if !ok {
		return nil
	}
	f.simplified = m
	return m
}

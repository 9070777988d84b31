package stream

import (
	"time"

	"go.uber.org/zap"

	"github.com/veldt/engine/internal/config"
	"github.com/veldt/engine/internal/core/event"
	"github.com/veldt/engine/internal/core/ids"
	"github.com/veldt/engine/internal/perf"
	"github.com/veldt/engine/internal/render"
	"github.com/veldt/engine/internal/vmath"
)

// Registry is the canonical table of every object under streaming control
// and the only component allowed to remove one from the live world. It is
// deliberately conservative about destruction: a feature that briefly left
// view and comes back is far more visible to the player than an invisible
// object retained a while longer, so actual removal waits for the hard-cull
// distance.
//
// Owned and mutated exclusively by the single-threaded stream pass.
type Registry struct {
	cfg        config.StreamingConfig
	classifier Classifier
	lod        *LODController
	bus        *event.Bus
	log        *zap.Logger

	pool     *ids.Pool
	features map[ids.FeatureID]*TrackedFeature

	// removal is queued during the pass and applied by Flush at tick end;
	// the table is never mutated while being iterated.
	removeQueue []removal

	lastViewpoint vmath.Vec3
	pending       time.Duration // accumulated dt below the update interval
}

type removal struct {
	id     ids.FeatureID
	reason string
}

func NewRegistry(cfg config.StreamingConfig, bus *event.Bus, log *zap.Logger) *Registry {
	classifier := NewClassifier(cfg)
	return &Registry{
		cfg:        cfg,
		classifier: classifier,
		lod:        NewLODController(classifier, cfg, bus, log),
		bus:        bus,
		log:        log,
		pool:       ids.NewPool(),
		features:   make(map[ids.FeatureID]*TrackedFeature, 256),
	}
}

// Classifier exposes the shared distance classifier.
func (r *Registry) Classifier() Classifier {
	return r.classifier
}

// LOD exposes the quality controller, mainly for telemetry.
func (r *Registry) LOD() *LODController {
	return r.lod
}

// Alloc reserves a feature ID. Every Register call must use an ID obtained
// here so stale references stay detectable.
func (r *Registry) Alloc() ids.FeatureID {
	return r.pool.Acquire()
}

// Register inserts a feature under streaming control. Re-registering a live
// ID is a no-op with a warning; the existing entry and its cached resources
// are kept.
func (r *Registry) Register(id ids.FeatureID, handle render.Handle, position vmath.Vec3, typ FeatureType) {
	if _, dup := r.features[id]; dup {
		r.log.Warn("duplicate feature registration ignored",
			zap.Uint64("id", uint64(id)),
			zap.String("type", typ.String()),
		)
		return
	}
	r.features[id] = &TrackedFeature{
		ID:             id,
		Type:           typ,
		Handle:         handle,
		Position:       position,
		Ring:           0,
		Tier:           TierCulled,
		Opacity:        0,
		SpawnViewpoint: r.lastViewpoint,
	}
}

// Unregister removes the bookkeeping for a feature and disposes its cached
// simplified material. The live object stays the caller's problem: the
// registry only owns its own cached state here. Synchronous: the ID is dead
// before this returns.
func (r *Registry) Unregister(id ids.FeatureID) {
	f, ok := r.features[id]
	if !ok {
		return
	}
	r.dropEntry(f, "unregistered", false)
}

// Move updates a feature's last-known position (relocation, actor motion).
func (r *Registry) Move(id ids.FeatureID, position vmath.Vec3) {
	if f, ok := r.features[id]; ok {
		f.Position = position
		if f.Handle != nil && f.Handle.Exists() {
			f.Handle.SetPosition(position)
		}
	}
}

// Update runs one stream pass: age every feature, recompute its distance
// against the current viewpoint, delegate the quality decision to the LOD
// controller, and queue hard-cull removals. A minimum wall-clock interval
// gates the pass so cost stays bounded independent of render rate; skipped
// time is carried so aging never undercounts.
func (r *Registry) Update(viewpoint vmath.Vec3, dt time.Duration, budget perf.AdaptiveSettings) {
	r.lastViewpoint = viewpoint
	r.pending += dt
	if r.pending < r.cfg.UpdateInterval {
		return
	}
	elapsed := r.pending
	r.pending = 0

	hardCull := r.classifier.HardCullDistance()
	r.lod.BeginPass()

	for _, f := range r.features {
		f.Age += elapsed

		// Stale handle: detached externally without unregistering. Treat
		// as already dead, queue for cleanup, never crash.
		if f.Handle == nil || !f.Handle.Exists() {
			r.removeQueue = append(r.removeQueue, removal{id: f.ID, reason: "stale_handle"})
			continue
		}

		f.Position = f.Handle.Position()
		r.lod.Process(f, viewpoint, budget)

		if f.Distance > hardCull {
			r.removeQueue = append(r.removeQueue, removal{id: f.ID, reason: "hard_cull"})
		}
	}
}

// Flush applies removals queued during the pass. Hard-culled features are
// actually destroyed here: handle disposed, cache disposed, ID released.
func (r *Registry) Flush() {
	for _, rm := range r.removeQueue {
		f, ok := r.features[rm.id]
		if !ok {
			continue
		}
		r.dropEntry(f, rm.reason, true)
	}
	r.removeQueue = r.removeQueue[:0]
}

// dropEntry disposes cached state, optionally the live handle, releases the
// ID and announces the retirement.
func (r *Registry) dropEntry(f *TrackedFeature, reason string, disposeHandle bool) {
	if f.simplified != nil {
		f.simplified.Dispose()
		f.simplified = nil
	}
	if disposeHandle && f.Handle != nil && f.Handle.Exists() {
		f.Handle.Dispose()
	}
	delete(r.features, f.ID)
	r.pool.Release(f.ID)
	if r.bus != nil {
		event.Emit(r.bus, FeatureRetired{ID: f.ID, Type: f.Type, Reason: reason})
	}
}

// ── Query surface ─────────────────────────────────────────────────

// Count returns the number of tracked features.
func (r *Registry) Count() int {
	return len(r.features)
}

// Get returns the tracked entry for an ID.
func (r *Registry) Get(id ids.FeatureID) (*TrackedFeature, bool) {
	f, ok := r.features[id]
	return f, ok
}

// FeaturesByType collects the live features of one category.
func (r *Registry) FeaturesByType(typ FeatureType) []*TrackedFeature {
	var out []*TrackedFeature
	for _, f := range r.features {
		if f.Type == typ {
			out = append(out, f)
		}
	}
	return out
}

// IsVisible reports the current visibility decision for an ID. Unknown IDs
// are not visible.
func (r *Registry) IsVisible(id ids.FeatureID) bool {
	f, ok := r.features[id]
	return ok && f.Visible
}

// QualityTier reports the current tier for an ID.
func (r *Registry) QualityTier(id ids.FeatureID) (QualityTier, bool) {
	f, ok := r.features[id]
	if !ok {
		return TierCulled, false
	}
	return f.Tier, true
}

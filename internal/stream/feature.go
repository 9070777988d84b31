package stream

import (
	"time"

	"github.com/veldt/engine/internal/core/ids"
	"github.com/veldt/engine/internal/render"
	"github.com/veldt/engine/internal/vmath"
)

// FeatureType is the closed set of streamed object categories.
type FeatureType int

const (
	FeatureVegetation FeatureType = iota
	FeatureRock
	FeatureActor
	FeatureCloud
	FeatureEffect
	FeatureStructure
)

var featureTypeNames = map[FeatureType]string{
	FeatureVegetation: "vegetation",
	FeatureRock:       "rock",
	FeatureActor:      "actor",
	FeatureCloud:      "cloud",
	FeatureEffect:     "effect",
	FeatureStructure:  "structure",
}

func (t FeatureType) String() string {
	if name, ok := featureTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

// ParseFeatureType maps a category name from data files to its type.
func ParseFeatureType(s string) (FeatureType, bool) {
	for t, name := range featureTypeNames {
		if name == s {
			return t, true
		}
	}
	return 0, false
}

// QualityTier is the discrete fidelity level assigned per feature.
// Higher value = higher fidelity; TierCulled is below everything.
type QualityTier int

const (
	TierCulled QualityTier = iota
	TierLow
	TierMedium
	TierHigh
	TierUltra
)

func (q QualityTier) String() string {
	switch q {
	case TierCulled:
		return "culled"
	case TierLow:
		return "low"
	case TierMedium:
		return "medium"
	case TierHigh:
		return "high"
	case TierUltra:
		return "ultra"
	}
	return "unknown"
}

// TrackedFeature is the registry's bookkeeping for one streamed object.
// Mutated only during the single-threaded stream pass.
type TrackedFeature struct {
	ID     ids.FeatureID
	Type   FeatureType
	Handle render.Handle

	Position vmath.Vec3 // last-known world position
	Distance float64    // against the current viewpoint, recomputed every pass
	Ring     int        // last assigned distance ring
	Tier     QualityTier
	Visible  bool
	Opacity  float64
	Age      time.Duration

	// SpawnViewpoint is where the viewpoint was when the feature entered
	// streaming control.
	SpawnViewpoint vmath.Vec3

	// Simplified-material cache: built at most once per feature, disposed
	// on unregister. simplifiedTried stays true even when the build failed
	// so degenerate objects are not probed every tick.
	simplified      render.Material
	simplifiedTried bool
}

// Events emitted by the stream pass, delivered at the telemetry phase.

type TierChanged struct {
	ID   ids.FeatureID
	Type FeatureType
	From QualityTier
	To   QualityTier
}

type FeatureRetired struct {
	ID     ids.FeatureID
	Type   FeatureType
	Reason string // "hard_cull", "stale_handle" or "unregistered"
}

package perf

// AdaptiveSettings is the global quality budget. Single writer (the
// controller), many readers; everyone else sees value snapshots.
type AdaptiveSettings struct {
	ShadowsEnabled    bool
	ShadowMapSize     int  // texels
	SoftShadows       bool // PCF filtering
	DrawDistanceScale float64
	VegetationDensity float64
	LODAggressiveness float64 // >1 pulls tier boundaries closer to the viewpoint
	EffectsTier       int     // 2=full, 1=reduced, 0=minimal
}

// FullQuality is the budget with every step unapplied.
func FullQuality() AdaptiveSettings {
	return AdaptiveSettings{
		ShadowsEnabled:    true,
		ShadowMapSize:     2048,
		SoftShadows:       true,
		DrawDistanceScale: 1.0,
		VegetationDensity: 1.0,
		LODAggressiveness: 1.0,
		EffectsTier:       2,
	}
}

// Preset names an explicit user-facing quality level.
type Preset int

const (
	PresetUltra Preset = iota
	PresetHigh
	PresetMedium
	PresetLow
)

func (p Preset) String() string {
	switch p {
	case PresetUltra:
		return "ultra"
	case PresetHigh:
		return "high"
	case PresetMedium:
		return "medium"
	case PresetLow:
		return "low"
	}
	return "unknown"
}

// stepsForPreset maps a preset to how many degrade steps are applied,
// counted in degrade priority order.
func stepsForPreset(p Preset) int {
	switch p {
	case PresetUltra:
		return 0
	case PresetHigh:
		return 2
	case PresetMedium:
		return 4
	default:
		return stepCount
	}
}

// presetForSteps is the inverse bucketing used for reporting.
func presetForSteps(applied int) Preset {
	switch {
	case applied == 0:
		return PresetUltra
	case applied <= 2:
		return PresetHigh
	case applied <= 4:
		return PresetMedium
	default:
		return PresetLow
	}
}

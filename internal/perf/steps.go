package perf

// A qualityStep is one notch of the global budget ladder. Degrade applies
// it, upgrade reverts it. Steps are independent toggles; order of
// application is owned by the controller.
type qualityStep struct {
	name   string
	apply  func(*AdaptiveSettings)
	revert func(*AdaptiveSettings)
}

// Degrade priority order. One step per check, cheapest savings first.
var steps = []qualityStep{
	{
		name:   "shadow_resolution",
		apply:  func(s *AdaptiveSettings) { s.ShadowMapSize = 1024 },
		revert: func(s *AdaptiveSettings) { s.ShadowMapSize = 2048 },
	},
	{
		name:   "draw_distance",
		apply:  func(s *AdaptiveSettings) { s.DrawDistanceScale = 0.8 },
		revert: func(s *AdaptiveSettings) { s.DrawDistanceScale = 1.0 },
	},
	{
		name:   "vegetation_density",
		apply:  func(s *AdaptiveSettings) { s.VegetationDensity = 0.6 },
		revert: func(s *AdaptiveSettings) { s.VegetationDensity = 1.0 },
	},
	{
		name:   "shadow_tier",
		apply:  func(s *AdaptiveSettings) { s.SoftShadows = false },
		revert: func(s *AdaptiveSettings) { s.SoftShadows = true },
	},
	{
		name:   "lod_aggressiveness",
		apply:  func(s *AdaptiveSettings) { s.LODAggressiveness = 1.4 },
		revert: func(s *AdaptiveSettings) { s.LODAggressiveness = 1.0 },
	},
	{
		name:   "effects_tier",
		apply:  func(s *AdaptiveSettings) { s.EffectsTier = 1 },
		revert: func(s *AdaptiveSettings) { s.EffectsTier = 2 },
	},
	{
		name:   "shadows_off",
		apply:  func(s *AdaptiveSettings) { s.ShadowsEnabled = false },
		revert: func(s *AdaptiveSettings) { s.ShadowsEnabled = true },
	},
}

const stepCount = 7

// Upgrade priority order, as indices into steps. Deliberately not a strict
// mirror of the degrade walk: shadows come back before vegetation density,
// which is restored last.
var upgradeOrder = []int{6, 3, 5, 0, 1, 4, 2}

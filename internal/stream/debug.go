package stream

// DebugInfo is a point-in-time telemetry snapshot of the registry: counts
// by type, tier and visibility, plus ring occupancy from the last pass.
// Replaces per-feature logging in hot paths.
type DebugInfo struct {
	Total         int
	Visible       int
	Culled        int
	Faded         int // visible but inside the fade band
	ByType        map[string]int
	ByTier        map[string]int
	RingOccupancy []int
}

// DebugInfo builds the snapshot. Intended for HUD/telemetry consumers at a
// sampled rate, not per frame.
func (r *Registry) DebugInfo() DebugInfo {
	info := DebugInfo{
		ByType:        make(map[string]int, 8),
		ByTier:        make(map[string]int, 8),
		RingOccupancy: r.lod.Rings().Occupancy(),
	}
	for _, f := range r.features {
		info.Total++
		if f.Visible {
			info.Visible++
			if f.Opacity < 1 {
				info.Faded++
			}
		} else {
			info.Culled++
		}
		info.ByType[f.Type.String()]++
		info.ByTier[f.Tier.String()]++
	}
	return info
}

package stream

// DistanceRing is one concentric band around the viewpoint, used for
// bookkeeping and telemetry. A feature is in ring k iff Min ≤ d < Max.
type DistanceRing struct {
	Index   int
	Min     float64
	Max     float64
	Tier    QualityTier // nominal tier for a feature sitting in this band
	Density float64     // spawn density multiplier, thins out with distance
}

// RingSet is the fixed band table plus per-tick occupancy counts. Buckets
// are rebuilt (cleared and reassigned) once per stream pass, never
// incrementally.
type RingSet struct {
	rings  []DistanceRing
	counts []int
}

// BuildRingSet derives the band table from the classifier: ring k spans
// [render(k-1), render(k)), with ring 0 starting at the viewpoint.
func BuildRingSet(c Classifier) *RingSet {
	n := c.RingCount()
	rings := make([]DistanceRing, n)
	min := 0.0
	for k := 0; k < n; k++ {
		max := c.RenderDistance(k)
		rings[k] = DistanceRing{
			Index:   k,
			Min:     min,
			Max:     max,
			Tier:    nominalTier(k, n),
			Density: 1 / float64(k+1),
		}
		min = max
	}
	return &RingSet{
		rings:  rings,
		counts: make([]int, n),
	}
}

// nominalTier spreads the four live tiers over the ring table, innermost
// ring highest.
func nominalTier(ring, count int) QualityTier {
	if count <= 1 {
		return TierUltra
	}
	span := int(TierUltra - TierLow)
	step := ring * span / (count - 1)
	return TierUltra - QualityTier(step)
}

// RingFor returns the band containing the distance, clamped to the
// outermost ring for anything past the table.
func (rs *RingSet) RingFor(distance float64) int {
	for k := range rs.rings {
		if distance < rs.rings[k].Max {
			return k
		}
	}
	return len(rs.rings) - 1
}

// Reset clears occupancy for a fresh pass.
func (rs *RingSet) Reset() {
	for i := range rs.counts {
		rs.counts[i] = 0
	}
}

// Count bumps the occupancy for a ring.
func (rs *RingSet) Count(ring int) {
	if ring >= 0 && ring < len(rs.counts) {
		rs.counts[ring]++
	}
}

// Occupancy returns a copy of the current per-ring counts.
func (rs *RingSet) Occupancy() []int {
	out := make([]int, len(rs.counts))
	copy(out, rs.counts)
	return out
}

// Rings returns the band table.
func (rs *RingSet) Rings() []DistanceRing {
	return rs.rings
}

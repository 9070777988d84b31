package telemetry

import (
	"github.com/veldt/engine/internal/core/event"
	"github.com/veldt/engine/internal/lifecycle"
	"github.com/veldt/engine/internal/perf"
	"github.com/veldt/engine/internal/stream"
)

// Counters is one interval's worth of event totals.
type Counters struct {
	TierChanges  uint64
	Retirements  uint64
	Spawns       uint64
	Relocations  uint64
	Removals     uint64
	BudgetSteps  uint64
	PresetShifts uint64
	LastPreset   perf.Preset
}

// Collector subscribes to the engine's event stream and keeps running
// counts between summary logs. Counts are reset by the telemetry system
// after each summary.
type Collector struct {
	counters Counters
}

// NewCollector wires the counters to every event type the engine emits.
func NewCollector(bus *event.Bus) *Collector {
	c := &Collector{}
	event.Subscribe(bus, func(stream.TierChanged) { c.counters.TierChanges++ })
	event.Subscribe(bus, func(stream.FeatureRetired) { c.counters.Retirements++ })
	event.Subscribe(bus, func(lifecycle.Spawned) { c.counters.Spawns++ })
	event.Subscribe(bus, func(lifecycle.Relocated) { c.counters.Relocations++ })
	event.Subscribe(bus, func(lifecycle.Removed) { c.counters.Removals++ })
	event.Subscribe(bus, func(perf.BudgetStepped) { c.counters.BudgetSteps++ })
	event.Subscribe(bus, func(ev perf.PresetChanged) {
		c.counters.PresetShifts++
		c.counters.LastPreset = ev.Preset
	})
	return c
}

// Snapshot returns the current counts.
func (c *Collector) Snapshot() Counters {
	return c.counters
}

// Reset clears all counts for the next interval; the last seen preset is
// kept since it remains current.
func (c *Collector) Reset() {
	last := c.counters.LastPreset
	c.counters = Counters{LastPreset: last}
}

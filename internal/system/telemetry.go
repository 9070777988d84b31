package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/veldt/engine/internal/core/event"
	coresys "github.com/veldt/engine/internal/core/run"
	"github.com/veldt/engine/internal/perf"
	"github.com/veldt/engine/internal/stream"
	"github.com/veldt/engine/internal/telemetry"
	"github.com/veldt/engine/internal/world"
)

// TelemetrySystem rotates the event bus and periodically logs a world
// summary. Phase 3 (Telemetry): events emitted this tick are delivered at
// the start of the next one.
type TelemetrySystem struct {
	bus       *event.Bus
	collector *telemetry.Collector
	reg       *stream.Registry
	ctrl      *perf.Controller
	world     *world.State
	log       *zap.Logger

	interval time.Duration
	since    time.Duration
}

func NewTelemetrySystem(bus *event.Bus, col *telemetry.Collector, reg *stream.Registry, ctrl *perf.Controller, ws *world.State, interval time.Duration, log *zap.Logger) *TelemetrySystem {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &TelemetrySystem{
		bus:       bus,
		collector: col,
		reg:       reg,
		ctrl:      ctrl,
		world:     ws,
		log:       log,
		interval:  interval,
	}
}

func (s *TelemetrySystem) Phase() coresys.Phase { return coresys.PhaseTelemetry }

func (s *TelemetrySystem) Update(dt time.Duration) {
	s.bus.SwapBuffers()
	s.bus.DispatchAll()

	s.since += dt
	if s.since < s.interval {
		return
	}
	s.since = 0

	info := s.reg.DebugInfo()
	counts := s.collector.Snapshot()
	s.log.Info("world summary",
		zap.Uint64("frame", s.world.Frame()),
		zap.Float64("travelled", s.world.Travelled()),
		zap.Int("features", info.Total),
		zap.Int("visible", info.Visible),
		zap.Int("culled", info.Culled),
		zap.Int("faded", info.Faded),
		zap.String("preset", s.ctrl.Preset().String()),
		zap.Uint64("tier_changes", counts.TierChanges),
		zap.Uint64("spawns", counts.Spawns),
		zap.Uint64("relocations", counts.Relocations),
		zap.Uint64("removals", counts.Removals),
		zap.Uint64("budget_steps", counts.BudgetSteps),
	)
	s.collector.Reset()
}

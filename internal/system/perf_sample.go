package system

import (
	"time"

	coresys "github.com/veldt/engine/internal/core/run"
	"github.com/veldt/engine/internal/perf"
)

// PerfSampleSystem feeds the adaptive quality controller one frame
// timestamp per tick. Phase 0 (Sample), before anything consumes the
// budget.
type PerfSampleSystem struct {
	ctrl  *perf.Controller
	clock func() time.Time
}

func NewPerfSampleSystem(ctrl *perf.Controller, clock func() time.Time) *PerfSampleSystem {
	if clock == nil {
		clock = time.Now
	}
	return &PerfSampleSystem{ctrl: ctrl, clock: clock}
}

func (s *PerfSampleSystem) Phase() coresys.Phase { return coresys.PhaseSample }

func (s *PerfSampleSystem) Update(_ time.Duration) {
	s.ctrl.OnFrame(s.clock())
}

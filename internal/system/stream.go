package system

import (
	"time"

	coresys "github.com/veldt/engine/internal/core/run"
	"github.com/veldt/engine/internal/perf"
	"github.com/veldt/engine/internal/stream"
	"github.com/veldt/engine/internal/world"
)

// StreamSystem runs the registry's distance/LOD pass against the current
// viewpoint under the frame's quality budget. Phase 1 (Stream).
type StreamSystem struct {
	reg   *stream.Registry
	ctrl  *perf.Controller
	world *world.State
}

func NewStreamSystem(reg *stream.Registry, ctrl *perf.Controller, ws *world.State) *StreamSystem {
	return &StreamSystem{reg: reg, ctrl: ctrl, world: ws}
}

func (s *StreamSystem) Phase() coresys.Phase { return coresys.PhaseStream }

func (s *StreamSystem) Update(dt time.Duration) {
	s.reg.Update(s.world.Viewpoint(), dt, s.ctrl.Snapshot())
}

package system

import (
	"time"

	coresys "github.com/veldt/engine/internal/core/run"
	"github.com/veldt/engine/internal/lifecycle"
	"github.com/veldt/engine/internal/world"
)

// LifecycleSystem ticks every category manager: movement-triggered and
// timer spawning, relocation, cleanup. Phase 2 (Lifecycle), after the
// stream pass so managers see fresh distances. density, when set, maps a
// category name to a population cap scale (script-driven, budget-aware).
type LifecycleSystem struct {
	managers []*lifecycle.Manager
	world    *world.State
	density  func(category string) float64
}

func NewLifecycleSystem(managers []*lifecycle.Manager, ws *world.State, density func(string) float64) *LifecycleSystem {
	return &LifecycleSystem{managers: managers, world: ws, density: density}
}

func (s *LifecycleSystem) Phase() coresys.Phase { return coresys.PhaseLifecycle }

func (s *LifecycleSystem) Update(dt time.Duration) {
	vp := s.world.Viewpoint()
	for _, m := range s.managers {
		if s.density != nil {
			m.SetDensityScale(s.density(m.Category()))
		}
		m.Update(dt, vp)
	}
}

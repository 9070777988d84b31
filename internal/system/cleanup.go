package system

import (
	"time"

	coresys "github.com/veldt/engine/internal/core/run"
	"github.com/veldt/engine/internal/stream"
)

// CleanupSystem flushes the registry's deferred removal queue at tick end.
// Phase 4 (Cleanup).
type CleanupSystem struct {
	reg *stream.Registry
}

func NewCleanupSystem(reg *stream.Registry) *CleanupSystem {
	return &CleanupSystem{reg: reg}
}

func (s *CleanupSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *CleanupSystem) Update(_ time.Duration) {
	s.reg.Flush()
}

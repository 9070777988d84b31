package run

import "time"

// Phase defines execution ordering within a single engine tick.
type Phase int

const (
	PhaseSample    Phase = iota // 0: performance sampling, budget decisions
	PhaseStream                 // 1: distance/quality/visibility pass
	PhaseLifecycle              // 2: spawn, relocate, age-out
	PhaseTelemetry              // 3: drain events, sampled counters
	PhaseCleanup                // 4: apply queued removals, release IDs
)

// System is the interface every engine system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}

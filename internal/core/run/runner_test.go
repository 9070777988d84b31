package run

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type recordingSystem struct {
	phase Phase
	name  string
	trace *[]string
}

func (s *recordingSystem) Phase() Phase { return s.phase }

func (s *recordingSystem) Update(time.Duration) {
	*s.trace = append(*s.trace, s.name)
}

func TestTickRunsPhasesInOrder(t *testing.T) {
	var trace []string
	r := NewRunner()
	r.Register(&recordingSystem{PhaseCleanup, "cleanup", &trace})
	r.Register(&recordingSystem{PhaseSample, "sample", &trace})
	r.Register(&recordingSystem{PhaseTelemetry, "telemetry", &trace})
	r.Register(&recordingSystem{PhaseStream, "stream", &trace})
	r.Register(&recordingSystem{PhaseLifecycle, "lifecycle", &trace})

	r.Tick(16 * time.Millisecond)
	assert.Equal(t, []string{"sample", "stream", "lifecycle", "telemetry", "cleanup"}, trace)
}

func TestRegistrationOrderPreservedWithinPhase(t *testing.T) {
	var trace []string
	r := NewRunner()
	r.Register(&recordingSystem{PhaseStream, "first", &trace})
	r.Register(&recordingSystem{PhaseStream, "second", &trace})
	r.Register(&recordingSystem{PhaseSample, "sample", &trace})

	r.Tick(16 * time.Millisecond)
	assert.Equal(t, []string{"sample", "first", "second"}, trace)
}

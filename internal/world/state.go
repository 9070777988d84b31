package world

import (
	"github.com/veldt/engine/internal/vmath"
)

// State holds the shared per-frame world inputs: the current viewpoint and
// travel accounting. Accessed only from the frame loop goroutine, no locks
// needed.
type State struct {
	viewpoint vmath.Vec3
	travelled float64
	frame     uint64
}

func NewState(start vmath.Vec3) *State {
	return &State{viewpoint: start}
}

// SetViewpoint records the camera/player position for the coming frame.
func (s *State) SetViewpoint(p vmath.Vec3) {
	s.travelled += vmath.Dist(s.viewpoint, p)
	s.viewpoint = p
}

// Viewpoint returns the position every distance decision measures from.
func (s *State) Viewpoint() vmath.Vec3 {
	return s.viewpoint
}

// AdvanceFrame bumps the frame counter and returns the new value.
func (s *State) AdvanceFrame() uint64 {
	s.frame++
	return s.frame
}

// Frame returns the current frame number.
func (s *State) Frame() uint64 {
	return s.frame
}

// Travelled returns the cumulative viewpoint travel distance.
func (s *State) Travelled() float64 {
	return s.travelled
}

package render

import "github.com/veldt/engine/internal/vmath"

// Fake implementations backing tests and the headless harness.

// FakeMaterial counts dispose calls so resource-leak assertions are cheap.
type FakeMaterial struct {
	Disposed int
}

func (m *FakeMaterial) Dispose() { m.Disposed++ }

// FakeHandle is an in-memory Handle with every mutation recorded.
type FakeHandle struct {
	Pos      vmath.Vec3
	Attached bool
	Geometry bool

	Simplified     bool // currently using the simplified material
	SimplifiedMat  *FakeMaterial
	BuildCalls     int
	RestoreCalls   int
	CastShadows    bool
	ReceiveShadows bool
	Opacity        float64
	Visible        bool
	DisposeCalls   int
}

func NewFakeHandle(pos vmath.Vec3) *FakeHandle {
	return &FakeHandle{
		Pos:      pos,
		Attached: true,
		Geometry: true,
		Opacity:  1,
		Visible:  true,
	}
}

func (h *FakeHandle) Position() vmath.Vec3     { return h.Pos }
func (h *FakeHandle) SetPosition(p vmath.Vec3) { h.Pos = p }
func (h *FakeHandle) Exists() bool             { return h.Attached }
func (h *FakeHandle) HasGeometry() bool        { return h.Geometry }

func (h *FakeHandle) BuildSimplified() (Material, bool) {
	h.BuildCalls++
	if !h.Geometry {
		return nil, false
	}
	h.SimplifiedMat = &FakeMaterial{}
	return h.SimplifiedMat, true
}

func (h *FakeHandle) ApplySimplified(Material) { h.Simplified = true }

func (h *FakeHandle) RestoreOriginal() {
	h.RestoreCalls++
	h.Simplified = false
}

func (h *FakeHandle) SetShadows(cast, receive bool) {
	h.CastShadows = cast
	h.ReceiveShadows = receive
}

func (h *FakeHandle) SetOpacity(o float64) { h.Opacity = o }
func (h *FakeHandle) SetVisible(v bool)    { h.Visible = v }

func (h *FakeHandle) Dispose() {
	h.DisposeCalls++
	h.Attached = false
}

// FakeRenderer records the last applied global settings.
type FakeRenderer struct {
	Shadow       ShadowSettings
	Fog          FogSettings
	ShadowApplys int
	FogApplys    int
}

func NewFakeRenderer() *FakeRenderer {
	return &FakeRenderer{}
}

func (r *FakeRenderer) ApplyShadowSettings(s ShadowSettings) {
	r.Shadow = s
	r.ShadowApplys++
}

func (r *FakeRenderer) ApplyFog(f FogSettings) {
	r.Fog = f
	r.FogApplys++
}

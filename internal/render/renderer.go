package render

import "github.com/veldt/engine/internal/vmath"

// Material is an opaque GPU material owned by the renderer. The streaming
// core only ever caches and disposes simplified materials it asked the
// handle to build.
type Material interface {
	Dispose()
}

// Handle is the engine's view of one renderable world object. All geometry,
// material and behaviour construction happens behind this interface; the
// streaming core only toggles what already exists.
//
// Handles may be detached by external systems at any time without
// unregistering; every mutation must be preceded by an Exists() check.
type Handle interface {
	Position() vmath.Vec3
	SetPosition(p vmath.Vec3)

	// Exists reports whether the object is still attached to the world.
	Exists() bool
	// HasGeometry reports whether the object carries geometry/materials at
	// all. Degenerate objects skip quality mutation but still get
	// visibility handling.
	HasGeometry() bool

	// BuildSimplified precomputes a reduced-fidelity material. Returns
	// false when the object cannot be simplified; the caller must not
	// retry every tick.
	BuildSimplified() (Material, bool)
	ApplySimplified(m Material)
	RestoreOriginal()

	SetShadows(cast, receive bool)
	SetOpacity(o float64)
	SetVisible(v bool)

	// Dispose releases the live object's resources. Synchronous; after it
	// returns the handle receives no further updates.
	Dispose()
}

// ShadowSettings is the renderer-level shadow budget applied by the
// performance controller.
type ShadowSettings struct {
	Enabled     bool
	MapSize     int  // shadow map resolution in texels
	SoftShadows bool // PCF vs hard shadows
}

// FogSettings controls the global fog falloff band.
type FogSettings struct {
	Near float64
	Far  float64
}

// Renderer is the global render-state surface mutated by the performance
// controller. Per-object state goes through Handle instead.
type Renderer interface {
	ApplyShadowSettings(s ShadowSettings)
	ApplyFog(f FogSettings)
}

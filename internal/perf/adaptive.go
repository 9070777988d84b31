package perf

import (
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/veldt/engine/internal/config"
	"github.com/veldt/engine/internal/core/event"
	"github.com/veldt/engine/internal/render"
)

// Events emitted by the controller, delivered at the telemetry phase.

type BudgetStepped struct {
	Step      string
	Direction string // "degrade" or "upgrade"
	Preset    Preset
}

type PresetChanged struct {
	Preset Preset
}

// Sample is one FPS observation.
type Sample struct {
	At  time.Time
	FPS float64
}

// Controller owns the global quality budget. It samples frame timing on a
// fixed wall-clock interval, keeps a small FPS history, and moves the
// budget at most one step per sampling window. Hysteretic on purpose:
// degrading needs only a low average, upgrading additionally needs a
// stable one, so quality does not oscillate under noisy load.
//
// Single-threaded: OnFrame runs on the engine loop goroutine.
type Controller struct {
	cfg      config.PerformanceConfig
	renderer render.Renderer
	bus      *event.Bus
	log      *zap.Logger

	settings AdaptiveSettings
	applied  [stepCount]bool
	baseFog  render.FogSettings

	history    []Sample // ring, newest appended, oldest dropped
	frames     int
	lastSample time.Time
}

// NewController starts at full quality. fogFar is the unscaled far fog
// plane, normally the outermost ring's cull distance.
func NewController(cfg config.PerformanceConfig, renderer render.Renderer, fogFar float64, bus *event.Bus, log *zap.Logger) *Controller {
	c := &Controller{
		cfg:      cfg,
		renderer: renderer,
		bus:      bus,
		log:      log,
		settings: FullQuality(),
		baseFog:  render.FogSettings{Near: fogFar * 0.7, Far: fogFar},
		history:  make([]Sample, 0, cfg.HistorySize),
	}
	c.applyRenderState()
	return c
}

// Snapshot returns the current budget by value. Valid for the rest of the
// tick it was taken in.
func (c *Controller) Snapshot() AdaptiveSettings {
	return c.settings
}

// Preset reports the budget position bucketed to the nearest preset.
func (c *Controller) Preset() Preset {
	return presetForSteps(c.appliedCount())
}

// History returns the retained FPS samples, oldest first.
func (c *Controller) History() []Sample {
	return c.history
}

// OnFrame is called once per rendered frame with the current wall-clock
// time. When a full sampling interval has elapsed it records one FPS sample
// and runs at most one budget decision.
func (c *Controller) OnFrame(now time.Time) {
	c.frames++
	if c.lastSample.IsZero() {
		c.lastSample = now
		c.frames = 0
		return
	}
	elapsed := now.Sub(c.lastSample)
	if elapsed < c.cfg.SampleInterval {
		return
	}

	fps := float64(c.frames) / elapsed.Seconds()
	c.push(Sample{At: now, FPS: fps})
	c.frames = 0
	c.lastSample = now

	// Startup jitter guard: no adaptive action until enough history.
	if len(c.history) < c.cfg.MinSamples {
		return
	}
	c.decide()
}

// SetPreset applies an explicit user override. The sample history is
// cleared, so automatic adaptation stays quiet until a fresh minimum of
// samples is gathered.
func (c *Controller) SetPreset(p Preset) {
	want := stepsForPreset(p)
	for i := range steps {
		shouldApply := i < want
		if shouldApply && !c.applied[i] {
			steps[i].apply(&c.settings)
			c.applied[i] = true
		} else if !shouldApply && c.applied[i] {
			steps[i].revert(&c.settings)
			c.applied[i] = false
		}
	}
	c.history = c.history[:0]
	c.applyRenderState()
	if c.bus != nil {
		event.Emit(c.bus, PresetChanged{Preset: p})
	}
	c.log.Info("quality preset set",
		zap.String("preset", p.String()),
	)
}

func (c *Controller) push(s Sample) {
	if len(c.history) >= c.cfg.HistorySize {
		copy(c.history, c.history[1:])
		c.history = c.history[:len(c.history)-1]
	}
	c.history = append(c.history, s)
}

func (c *Controller) decide() {
	avg, stddev := c.stats()
	stability := 0.0
	if avg > 0 {
		stability = 1 - stddev/avg
	}
	if stability < 0 {
		stability = 0
	}
	if stability > 1 {
		stability = 1
	}

	switch {
	case avg < c.cfg.TargetFPS-c.cfg.Margin:
		c.degrade(avg)
	case avg > c.cfg.TargetFPS+c.cfg.Margin && stability > 0.8:
		c.upgrade(avg)
	}
}

// degrade applies the first unapplied step in degrade priority order.
func (c *Controller) degrade(avg float64) {
	for i := range steps {
		if c.applied[i] {
			continue
		}
		steps[i].apply(&c.settings)
		c.applied[i] = true
		c.applyRenderState()
		c.announce(steps[i].name, "degrade", avg)
		return
	}
	// Already at the floor, nothing left to trade.
}

// upgrade reverts the first applied step in upgrade priority order, which
// is deliberately not the mirror of the degrade walk.
func (c *Controller) upgrade(avg float64) {
	for _, i := range upgradeOrder {
		if !c.applied[i] {
			continue
		}
		steps[i].revert(&c.settings)
		c.applied[i] = false
		c.applyRenderState()
		c.announce(steps[i].name, "upgrade", avg)
		return
	}
}

func (c *Controller) announce(step, dir string, avg float64) {
	if c.bus != nil {
		event.Emit(c.bus, BudgetStepped{Step: step, Direction: dir, Preset: c.Preset()})
	}
	c.log.Info("quality budget stepped",
		zap.String("step", step),
		zap.String("direction", dir),
		zap.Float64("avg_fps", avg),
		zap.String("preset", c.Preset().String()),
	)
}

// applyRenderState pushes shadow and fog state to the renderer. That is the
// whole renderer-level side effect surface; individual features are never
// touched from here.
func (c *Controller) applyRenderState() {
	c.renderer.ApplyShadowSettings(render.ShadowSettings{
		Enabled:     c.settings.ShadowsEnabled,
		MapSize:     c.settings.ShadowMapSize,
		SoftShadows: c.settings.SoftShadows,
	})
	c.renderer.ApplyFog(render.FogSettings{
		Near: c.baseFog.Near * c.settings.DrawDistanceScale,
		Far:  c.baseFog.Far * c.settings.DrawDistanceScale,
	})
}

func (c *Controller) appliedCount() int {
	n := 0
	for _, a := range c.applied {
		if a {
			n++
		}
	}
	return n
}

func (c *Controller) stats() (avg, stddev float64) {
	if len(c.history) == 0 {
		return 0, 0
	}
	sum := 0.0
	for _, s := range c.history {
		sum += s.FPS
	}
	avg = sum / float64(len(c.history))
	varSum := 0.0
	for _, s := range c.history {
		d := s.FPS - avg
		varSum += d * d
	}
	stddev = math.Sqrt(varSum / float64(len(c.history)))
	return avg, stddev
}

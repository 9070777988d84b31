package lifecycle

import (
	"math"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/veldt/engine/internal/core/event"
	"github.com/veldt/engine/internal/core/ids"
	"github.com/veldt/engine/internal/render"
	"github.com/veldt/engine/internal/stream"
	"github.com/veldt/engine/internal/vmath"
)

// State is the lifecycle position of one managed object.
type State int

const (
	StateSpawning State = iota
	StateActive
	StateDespawning
	StateDead
)

// Object is a lifecycle-managed world object. The factory owns all
// construction; the manager only ages, relocates and retires.
type Object interface {
	render.Handle
	// Retired reports that the domain object considers itself finished
	// (consumed, expired behaviour, despawned by gameplay). The manager
	// removes it after a grace timeout.
	Retired() bool
}

// SpawnContext carries everything a factory needs for one creation.
type SpawnContext struct {
	Initial   bool // part of the initial pre-population around the viewpoint
	Position  vmath.Vec3
	Viewpoint vmath.Vec3
	Variant   string
	Scale     float64
}

// Factory builds domain objects for one category. Create returns false for
// "no spawn this attempt" (pool exhausted, resource miss); never an error.
type Factory interface {
	Name() string
	Create(ctx SpawnContext) (Object, bool)
}

// Placer biases spawn placement, typically script-driven. A false return
// falls back to uniform ring placement.
type Placer interface {
	Place(category string, initial bool, viewpoint vmath.Vec3, minRadius, maxRadius float64) (pos vmath.Vec3, scale float64, variant string, ok bool)
}

// SpawningConfig is the per-category tunable set. Immutable after
// construction; NewManager clamps inverted or negative values instead of
// trusting them.
type SpawningConfig struct {
	MaxEntities               int
	MovementThreshold         float64
	MinSpawnDistance          float64
	MaxSpawnDistance          float64
	MaxEntityDistance         float64
	SpawnInterval             time.Duration
	MaxAge                    time.Duration
	AggressiveCleanupDistance float64
	FadedTimeout              time.Duration // grace for Retired() objects
	SpawnCountPerTrigger      int
	InitialFill               float64 // fraction of MaxEntities pre-populated
	Variants                  []string
}

func (c SpawningConfig) clamped() SpawningConfig {
	if c.MaxEntities < 1 {
		c.MaxEntities = 1
	}
	if c.MovementThreshold <= 0 {
		c.MovementThreshold = 1
	}
	if c.MinSpawnDistance < 0 {
		c.MinSpawnDistance = 0
	}
	if c.MaxSpawnDistance < c.MinSpawnDistance {
		c.MaxSpawnDistance = c.MinSpawnDistance + 1
	}
	if c.MaxEntityDistance < c.MaxSpawnDistance {
		c.MaxEntityDistance = c.MaxSpawnDistance
	}
	if c.AggressiveCleanupDistance < c.MaxEntityDistance {
		c.AggressiveCleanupDistance = c.MaxEntityDistance
	}
	if c.SpawnInterval <= 0 {
		c.SpawnInterval = time.Second
	}
	if c.MaxAge <= 0 {
		c.MaxAge = time.Hour
	}
	if c.FadedTimeout <= 0 {
		c.FadedTimeout = 10 * time.Second
	}
	if c.SpawnCountPerTrigger < 1 {
		c.SpawnCountPerTrigger = 1
	}
	if c.InitialFill <= 0 || c.InitialFill > 1 {
		c.InitialFill = 0.6
	}
	return c
}

// Events emitted by the manager.

type Spawned struct {
	ID      ids.FeatureID
	Type    stream.FeatureType
	Initial bool
}

type Relocated struct {
	ID   ids.FeatureID
	Type stream.FeatureType
}

type Removed struct {
	ID     ids.FeatureID
	Type   stream.FeatureType
	Reason string // "max_age", "retired", "distance" or "despawn"
}

type entry struct {
	id         ids.FeatureID
	obj        Object
	state      State
	age        time.Duration
	retiredFor time.Duration
}

// Manager runs the generic spawn → age → retire loop for one object
// category. Objects that drift too far are relocated into the spawn ring
// rather than destroyed and recreated, bounding allocation churn under
// continuous travel. Cleanup thresholds are deliberately more lenient than
// the registry's hard cull: these objects are gameplay-relevant and their
// disappearance is more noticeable than passive scenery.
type Manager struct {
	typ     stream.FeatureType
	cfg     SpawningConfig
	factory Factory
	placer  Placer
	reg     *stream.Registry
	bus     *event.Bus
	log     *zap.Logger
	rng     *rand.Rand

	entries map[ids.FeatureID]*entry
	density float64 // population cap scale from the quality budget

	anchor        vmath.Vec3 // viewpoint at the last movement-trigger check
	prev          vmath.Vec3 // viewpoint last tick, for speed smoothing
	haveViewpoint bool
	speed         float64 // smoothed viewpoint speed, units/s
	spawnTimer    time.Duration
}

// NewManager builds a manager for one category. placer may be nil for
// uniform placement.
func NewManager(typ stream.FeatureType, cfg SpawningConfig, factory Factory, placer Placer, reg *stream.Registry, bus *event.Bus, log *zap.Logger, rng *rand.Rand) *Manager {
	return &Manager{
		typ:     typ,
		cfg:     cfg.clamped(),
		factory: factory,
		placer:  placer,
		reg:     reg,
		bus:     bus,
		log:     log,
		rng:     rng,
		density: 1,
		entries: make(map[ids.FeatureID]*entry, cfg.MaxEntities),
	}
}

// SetDensityScale adjusts the effective population cap against the current
// quality budget. Existing objects are never destroyed for it; the cap
// only gates new spawns.
func (m *Manager) SetDensityScale(s float64) {
	m.density = vmath.Clamp(s, 0.1, 1)
}

func (m *Manager) effectiveMax() int {
	n := int(math.Round(float64(m.cfg.MaxEntities) * m.density))
	if n < 1 {
		n = 1
	}
	return n
}

// Category returns the managed feature type's data-file name.
func (m *Manager) Category() string {
	return m.typ.String()
}

// Count returns the number of currently managed objects.
func (m *Manager) Count() int {
	return len(m.entries)
}

// Config returns the clamped per-category tunables.
func (m *Manager) Config() SpawningConfig {
	return m.cfg
}

// Initialize pre-populates a share of MaxEntities in a uniform angular ring
// around the viewpoint, so the world is not empty on the first frame.
func (m *Manager) Initialize(viewpoint vmath.Vec3) {
	m.anchor = viewpoint
	m.prev = viewpoint
	m.haveViewpoint = true

	n := int(math.Round(m.cfg.InitialFill * float64(m.cfg.MaxEntities)))
	spawned := 0
	for i := 0; i < n; i++ {
		angle := (float64(i)/float64(n))*2*math.Pi + m.rng.Float64()*0.3
		radius := m.cfg.MinSpawnDistance + m.rng.Float64()*(m.cfg.MaxSpawnDistance-m.cfg.MinSpawnDistance)
		if m.spawnAt(true, viewpoint, vmath.OnRing(viewpoint, angle, radius)) {
			spawned++
		}
	}
	m.log.Info("category initialized",
		zap.String("category", m.factory.Name()),
		zap.Int("spawned", spawned),
		zap.Int("max", m.cfg.MaxEntities),
	)
}

// Update runs one lifecycle tick: movement-triggered spawning and
// relocation, timer-based fill, then the cleanup pass.
func (m *Manager) Update(dt time.Duration, viewpoint vmath.Vec3) {
	if !m.haveViewpoint {
		m.anchor = viewpoint
		m.prev = viewpoint
		m.haveViewpoint = true
	}

	m.trackSpeed(dt, viewpoint)

	if vmath.Dist(viewpoint, m.anchor) > m.cfg.MovementThreshold {
		m.onMovementTrigger(viewpoint)
		m.anchor = viewpoint
	}

	m.timerSpawn(dt, viewpoint)
	m.cleanup(dt, viewpoint)
}

// trackSpeed keeps an exponentially smoothed viewpoint speed used to adapt
// the spawn interval.
func (m *Manager) trackSpeed(dt time.Duration, viewpoint vmath.Vec3) {
	if dt <= 0 {
		return
	}
	inst := vmath.Dist(viewpoint, m.prev) / dt.Seconds()
	m.speed = m.speed*0.9 + inst*0.1
	m.prev = viewpoint
}

// currentSpawnInterval shortens when the viewpoint covers ground quickly
// (more new content needed) and lengthens toward 2× base when stationary.
func (m *Manager) currentSpawnInterval() time.Duration {
	ref := m.cfg.MovementThreshold // units/s reference speed
	scale := vmath.Clamp(2*ref/(ref+m.speed), 0.5, 2)
	return time.Duration(float64(m.cfg.SpawnInterval) * scale)
}

// onMovementTrigger spawns a small batch around the new position and
// relocates objects left too far behind, teleporting them into the spawn
// ring with a reset age instead of destroying them.
func (m *Manager) onMovementTrigger(viewpoint vmath.Vec3) {
	for i := 0; i < m.cfg.SpawnCountPerTrigger && len(m.entries) < m.effectiveMax(); i++ {
		m.spawnNear(false, viewpoint)
	}

	limit := m.cfg.MaxEntityDistance * 0.9
	for _, e := range m.entries {
		if !e.obj.Exists() {
			continue
		}
		if vmath.Dist(viewpoint, e.obj.Position()) <= limit {
			continue
		}
		pos := m.placement(false, viewpoint)
		m.reg.Move(e.id, pos)
		e.age = 0
		if m.bus != nil {
			event.Emit(m.bus, Relocated{ID: e.id, Type: m.typ})
		}
	}
}

// timerSpawn fills toward MaxEntities at the speed-adapted interval.
func (m *Manager) timerSpawn(dt time.Duration, viewpoint vmath.Vec3) {
	m.spawnTimer += dt
	interval := m.currentSpawnInterval()
	if m.spawnTimer < interval {
		return
	}
	m.spawnTimer = 0
	if len(m.entries) < m.effectiveMax() {
		m.spawnNear(false, viewpoint)
	}
}

// cleanup ages every object and removes the ones that are DEAD, too old,
// retired past the grace timeout, or beyond the aggressive cleanup
// distance. Removal is collected first and applied after the iteration.
func (m *Manager) cleanup(dt time.Duration, viewpoint vmath.Vec3) {
	type victim struct {
		e      *entry
		reason string
	}
	var dead []victim

	for _, e := range m.entries {
		e.age += dt

		if !e.obj.Exists() {
			dead = append(dead, victim{e, "detached"})
			continue
		}
		if e.obj.Retired() {
			e.retiredFor += dt
		} else {
			e.retiredFor = 0
		}

		switch {
		case e.state == StateDespawning:
			dead = append(dead, victim{e, "despawn"})
		case e.age > m.cfg.MaxAge:
			dead = append(dead, victim{e, "max_age"})
		case e.retiredFor > m.cfg.FadedTimeout:
			dead = append(dead, victim{e, "retired"})
		case vmath.Dist(viewpoint, e.obj.Position()) > m.cfg.AggressiveCleanupDistance:
			dead = append(dead, victim{e, "distance"})
		}
	}

	for _, v := range dead {
		m.retire(v.e, v.reason)
	}
}

// retire synchronously removes one object: registry bookkeeping first, then
// the live object. After this returns the ID receives no further updates.
func (m *Manager) retire(e *entry, reason string) {
	e.state = StateDead
	m.reg.Unregister(e.id)
	if e.obj.Exists() {
		e.obj.Dispose()
	}
	delete(m.entries, e.id)
	if m.bus != nil {
		event.Emit(m.bus, Removed{ID: e.id, Type: m.typ, Reason: reason})
	}
}

// Despawn tags an object for graceful removal on the next cleanup pass.
func (m *Manager) Despawn(id ids.FeatureID) {
	if e, ok := m.entries[id]; ok {
		e.state = StateDespawning
	}
}

func (m *Manager) spawnNear(initial bool, viewpoint vmath.Vec3) bool {
	return m.spawnAt(initial, viewpoint, m.placement(initial, viewpoint))
}

// placement asks the placer for a scripted position, falling back to a
// uniform ring sample.
func (m *Manager) placement(initial bool, viewpoint vmath.Vec3) vmath.Vec3 {
	if m.placer != nil {
		if pos, _, _, ok := m.placer.Place(m.typ.String(), initial, viewpoint, m.cfg.MinSpawnDistance, m.cfg.MaxSpawnDistance); ok {
			return pos
		}
	}
	angle := m.rng.Float64() * 2 * math.Pi
	radius := m.cfg.MinSpawnDistance + m.rng.Float64()*(m.cfg.MaxSpawnDistance-m.cfg.MinSpawnDistance)
	return vmath.OnRing(viewpoint, angle, radius)
}

func (m *Manager) spawnAt(initial bool, viewpoint, pos vmath.Vec3) bool {
	ctx := SpawnContext{
		Initial:   initial,
		Position:  pos,
		Viewpoint: viewpoint,
		Scale:     0.8 + m.rng.Float64()*0.4,
	}
	if len(m.cfg.Variants) > 0 {
		ctx.Variant = m.cfg.Variants[m.rng.Intn(len(m.cfg.Variants))]
	}

	obj, ok := m.factory.Create(ctx)
	if !ok {
		// Pool exhausted or resource miss: no spawn this attempt.
		m.log.Debug("spawn attempt skipped",
			zap.String("category", m.factory.Name()),
		)
		return false
	}

	id := m.reg.Alloc()
	m.reg.Register(id, obj, pos, m.typ)
	m.entries[id] = &entry{id: id, obj: obj, state: StateActive}
	if m.bus != nil {
		event.Emit(m.bus, Spawned{ID: id, Type: m.typ, Initial: initial})
	}
	return true
}

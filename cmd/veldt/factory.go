package main

import (
	"time"

	"github.com/veldt/engine/internal/data"
	"github.com/veldt/engine/internal/lifecycle"
	"github.com/veldt/engine/internal/render"
)

// Pooled effects burn out on their own; everything else lives until the
// manager ages it out.
const effectLifetime = 20 * time.Second

// prop is the headless stand-in for a rendered world object.
type prop struct {
	render.FakeHandle
	variant string
	scale   float64
	expiry  time.Time // zero = never retires
}

func (p *prop) Retired() bool {
	return !p.expiry.IsZero() && time.Now().After(p.expiry)
}

// propFactory creates one-off props, a fresh allocation per spawn.
type propFactory struct {
	name string
}

func (f *propFactory) Name() string { return f.name }

func (f *propFactory) Create(ctx lifecycle.SpawnContext) (lifecycle.Object, bool) {
	return &prop{
		FakeHandle: *render.NewFakeHandle(ctx.Position),
		variant:    ctx.Variant,
		scale:      ctx.Scale,
	}, true
}

// pooledProp returns itself to its pool on dispose.
type pooledProp struct {
	prop
	home *lifecycle.Pool[pooledProp]
}

func (p *pooledProp) Dispose() {
	p.prop.Dispose()
	if p.home != nil {
		home := p.home
		p.home = nil
		home.Release(p)
	}
}

// pooledFactory recycles a fixed set of objects; exhaustion is a spawn
// miss, never an allocation.
type pooledFactory struct {
	name string
	pool *lifecycle.Pool[pooledProp]
}

func newPooledFactory(name string, capacity int) *pooledFactory {
	return &pooledFactory{
		name: name,
		pool: lifecycle.NewPool(capacity,
			func() *pooledProp { return &pooledProp{} },
			func(p *pooledProp) { p.prop = prop{} },
		),
	}
}

func (f *pooledFactory) Name() string { return f.name }

func (f *pooledFactory) Create(ctx lifecycle.SpawnContext) (lifecycle.Object, bool) {
	obj, ok := f.pool.Acquire()
	if !ok {
		return nil, false
	}
	obj.prop = prop{
		FakeHandle: *render.NewFakeHandle(ctx.Position),
		variant:    ctx.Variant,
		scale:      ctx.Scale,
		expiry:     time.Now().Add(effectLifetime),
	}
	obj.home = f.pool
	return obj, true
}

func newFactory(tpl *data.CategoryTemplate) lifecycle.Factory {
	if tpl.Pooled {
		return newPooledFactory(tpl.Name, tpl.MaxEntities)
	}
	return &propFactory{name: tpl.Name}
}

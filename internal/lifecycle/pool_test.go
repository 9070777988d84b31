package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type particle struct {
	energy int
	resets int
}

func newParticlePool(capacity int) *Pool[particle] {
	return NewPool(capacity,
		func() *particle { return &particle{} },
		func(p *particle) {
			p.energy = 0
			p.resets++
		},
	)
}

func TestPoolExhaustionIsSentinelMiss(t *testing.T) {
	pool := newParticlePool(2)

	a, ok := pool.Acquire()
	require.True(t, ok)
	_, ok = pool.Acquire()
	require.True(t, ok)
	assert.Equal(t, 2, pool.Active())

	// At capacity: a miss, not a panic or error.
	obj, ok := pool.Acquire()
	assert.False(t, ok)
	assert.Nil(t, obj)
	assert.Equal(t, 2, pool.Active())

	pool.Release(a)
	_, ok = pool.Acquire()
	assert.True(t, ok)
}

func TestPoolResetOnAcquireAndRelease(t *testing.T) {
	pool := newParticlePool(1)

	p, ok := pool.Acquire()
	require.True(t, ok)
	assert.Equal(t, 1, p.resets)

	p.energy = 99
	pool.Release(p)
	assert.Zero(t, p.energy, "release must scrub state immediately")
	assert.Equal(t, 2, p.resets)

	again, ok := pool.Acquire()
	require.True(t, ok)
	assert.Same(t, p, again, "freed object is reused")
	assert.Equal(t, 3, again.resets)
}

func TestPoolDoubleReleaseIsNoop(t *testing.T) {
	pool := newParticlePool(2)

	a, ok := pool.Acquire()
	require.True(t, ok)
	b, ok := pool.Acquire()
	require.True(t, ok)

	pool.Release(a)
	pool.Release(a)
	assert.Equal(t, 1, pool.Active(), "second release must not decrement again")

	// The free list holds a exactly once: two acquires after releasing b
	// must hand out distinct objects.
	pool.Release(b)
	x, ok := pool.Acquire()
	require.True(t, ok)
	y, ok := pool.Acquire()
	require.True(t, ok)
	assert.NotSame(t, x, y)
}

func TestPoolReleaseNilIsNoop(t *testing.T) {
	pool := newParticlePool(1)
	pool.Release(nil)
	assert.Zero(t, pool.Active())
}

package lifecycle

// Pool is a fixed-capacity acquire/release pool for reusable objects
// (pooled particles/effects). Acquire resets and marks active; Release
// resets and marks inactive again, so stale visual state never leaks
// between reuses. Exhaustion is a sentinel miss, not an error: the caller
// treats it as "no spawn this attempt".
//
// Single-threaded, like everything else in the streaming core.
type Pool[T any] struct {
	newFn    func() *T
	reset    func(*T)
	free     []*T
	inFree   map[*T]struct{}
	capacity int
	active   int
}

func NewPool[T any](capacity int, newFn func() *T, reset func(*T)) *Pool[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Pool[T]{
		newFn:    newFn,
		reset:    reset,
		free:     make([]*T, 0, capacity),
		inFree:   make(map[*T]struct{}, capacity),
		capacity: capacity,
	}
}

// Acquire returns a reset object, or (nil, false) when the pool is at
// capacity with nothing free.
func (p *Pool[T]) Acquire() (*T, bool) {
	var obj *T
	if n := len(p.free); n > 0 {
		obj = p.free[n-1]
		p.free = p.free[:n-1]
		delete(p.inFree, obj)
	} else if p.active < p.capacity {
		obj = p.newFn()
	} else {
		return nil, false
	}
	p.reset(obj)
	p.active++
	return obj, true
}

// Release returns an object to the pool, reset immediately so no visual
// state survives until the next Acquire. Releasing an object already in
// the free list is a no-op, so a double release can never hand the same
// object out twice.
func (p *Pool[T]) Release(obj *T) {
	if obj == nil {
		return
	}
	if _, dup := p.inFree[obj]; dup {
		return
	}
	p.reset(obj)
	p.free = append(p.free, obj)
	p.inFree[obj] = struct{}{}
	if p.active > 0 {
		p.active--
	}
}

// Active reports how many objects are currently out of the pool.
func (p *Pool[T]) Active() int {
	return p.active
}

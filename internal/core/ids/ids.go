package ids

// FeatureID encodes a 32-bit slot index in the lower bits and a 32-bit
// generation in the upper bits. Generation increments on release so stale
// handles held by external systems are detectably dead.
type FeatureID uint64

func NewFeatureID(index uint32, generation uint32) FeatureID {
	return FeatureID(uint64(generation)<<32 | uint64(index))
}

func (id FeatureID) Index() uint32      { return uint32(id) }
func (id FeatureID) Generation() uint32 { return uint32(id >> 32) }
func (id FeatureID) IsZero() bool       { return id == 0 }

// Pool allocates feature IDs with generational indices and a free list.
// Slot reuse keeps the backing arrays bounded under sustained spawn/retire
// churn.
type Pool struct {
	generations []uint32
	freeList    []uint32
	nextIndex   uint32
}

func NewPool() *Pool {
	return &Pool{
		generations: make([]uint32, 0, 1024),
		freeList:    make([]uint32, 0, 256),
	}
}

func (p *Pool) Acquire() FeatureID {
	if len(p.freeList) > 0 {
		idx := p.freeList[len(p.freeList)-1]
		p.freeList = p.freeList[:len(p.freeList)-1]
		return NewFeatureID(idx, p.generations[idx])
	}
	idx := p.nextIndex
	p.nextIndex++
	if int(idx) >= len(p.generations) {
		p.generations = append(p.generations, 0)
	}
	return NewFeatureID(idx, p.generations[idx])
}

// Alive reports whether the ID refers to a currently-allocated slot.
// A released or never-issued ID returns false.
func (p *Pool) Alive(id FeatureID) bool {
	idx := id.Index()
	if idx >= p.nextIndex {
		return false
	}
	return p.generations[idx] == id.Generation()
}

// Release returns the slot to the free list. Releasing a stale ID is a no-op.
func (p *Pool) Release(id FeatureID) {
	idx := id.Index()
	if idx >= p.nextIndex {
		return
	}
	if p.generations[idx] != id.Generation() {
		return // already released (stale reference)
	}
	p.generations[idx]++
	p.freeList = append(p.freeList, idx)
}

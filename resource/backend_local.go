package resource

import (
	"math"
	"sync"

	"github.com/wippyai/nantag/errors"
)

const (
	defaultInitialCapacity = 64

	// Slot index MaxUint32 would mint index+1 == 1<<32, which is not a valid address.
	defaultMaxSlots = math.MaxUint32 - 1
)

// LocalBackend is the in-memory slot table behind a Space.
// Released slots go on a free list and have their generation bumped, so an
// address minted before the release no longer resolves.
type LocalBackend struct {
	entries  []entry
	freeList []uint32
	maxSlots uint32
	live     int
	mu       sync.RWMutex
	closed   bool
}

type entry struct {
	value any
	gen   uint16
	mode  Mode
	valid bool
}

// NewLocalBackend creates a new in-memory backend.
func NewLocalBackend(cfg *Config) *LocalBackend {
	capacity := defaultInitialCapacity
	maxSlots := uint32(defaultMaxSlots)
	if cfg != nil {
		if cfg.InitialCapacity > 0 {
			capacity = cfg.InitialCapacity
		}
		if cfg.MaxSlots > 0 && cfg.MaxSlots < maxSlots {
			maxSlots = cfg.MaxSlots
		}
	}
	return &LocalBackend{
		entries:  make([]entry, 0, capacity),
		freeList: make([]uint32, 0, 16),
		maxSlots: maxSlots,
	}
}

// Create stores a value and returns its address.
func (b *LocalBackend) Create(mode Mode, value any) (Addr, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return 0, errors.Closed(errors.PhaseAlloc, "address space")
	}

	if len(b.freeList) > 0 {
		idx := b.freeList[len(b.freeList)-1]
		b.freeList = b.freeList[:len(b.freeList)-1]
		e := &b.entries[idx]
		e.value = value
		e.mode = mode
		e.valid = true
		b.live++
		return makeAddr(idx, e.gen), nil
	}

	if uint64(len(b.entries)) >= uint64(b.maxSlots) {
		return 0, errors.Exhausted(b.maxSlots)
	}

	b.entries = append(b.entries, entry{value: value, mode: mode, valid: true})
	b.live++
	return makeAddr(uint32(len(b.entries)-1), 0), nil
}

// lookup returns the live entry for a. Callers hold b.mu.
func (b *LocalBackend) lookup(phase errors.Phase, a Addr) (*entry, error) {
	if !a.Valid() {
		return nil, errors.InvalidAddress(phase, uint64(a))
	}
	idx := a.Slot()
	if int(idx) >= len(b.entries) {
		return nil, errors.InvalidAddress(phase, uint64(a))
	}
	e := &b.entries[idx]
	if !e.valid || e.gen != a.Generation() {
		return nil, errors.UseAfterFree(phase, uint64(a))
	}
	return e, nil
}

// Get retrieves a value and its mode by address.
func (b *LocalBackend) Get(a Addr) (any, Mode, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return nil, 0, errors.Closed(errors.PhaseResolve, "address space")
	}

	e, err := b.lookup(errors.PhaseResolve, a)
	if err != nil {
		return nil, 0, err
	}
	return e.value, e.mode, nil
}

// Drop releases the slot at a if it is live and in the given mode, and
// returns the value it held.
func (b *LocalBackend) Drop(a Addr, mode Mode) (any, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, errors.Closed(errors.PhaseFree, "address space")
	}

	e, err := b.lookup(errors.PhaseFree, a)
	if err != nil {
		return nil, err
	}
	if e.mode != mode {
		return nil, errors.ModeMismatch(errors.PhaseFree, uint64(a), mode.String(), e.mode.String())
	}

	value := e.value
	e.value = nil
	e.valid = false
	e.gen++
	b.live--
	b.freeList = append(b.freeList, a.Slot())

	return value, nil
}

// Close releases every slot and returns the owned values that were still live.
func (b *LocalBackend) Close() []any {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	var leaked []any
	for i := range b.entries {
		if b.entries[i].valid && b.entries[i].mode == ModeOwned {
			leaked = append(leaked, b.entries[i].value)
		}
		b.entries[i] = entry{}
	}

	b.entries = nil
	b.freeList = nil
	b.live = 0
	return leaked
}

// Len returns the number of live slots.
func (b *LocalBackend) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.live
}

// Each iterates over all live slots.
func (b *LocalBackend) Each(fn func(Addr, Mode, any) bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for i, e := range b.entries {
		if e.valid {
			if !fn(makeAddr(uint32(i), e.gen), e.mode, e.value) {
				break
			}
		}
	}
}

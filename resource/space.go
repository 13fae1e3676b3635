package resource

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/wippyai/nantag/errors"
)

// Space is an address space mapping Addrs to Go references.
//
// Owned slots hold a strong reference and are released by Free. Borrowed
// slots hold a weak reference and are reclaimed once the referent is
// collected; nobody frees them explicitly.
type Space struct {
	backend   *LocalBackend
	borrowed  map[any]Addr
	observers []Observer
	obsMu     sync.RWMutex
	regMu     sync.Mutex
	allocs    atomic.Uint64
	frees     atomic.Uint64
	borrows   atomic.Uint64
	reclaims  atomic.Uint64
	closed    atomic.Bool
}

// NewSpace creates an address space. A nil cfg uses defaults.
func NewSpace(cfg *Config) *Space {
	return &Space{
		backend:  NewLocalBackend(cfg),
		borrowed: make(map[any]Addr),
	}
}

var (
	defaultSpace     atomic.Pointer[Space]
	defaultSpaceOnce sync.Once
)

// Default returns the process-wide address space used by tagged values.
func Default() *Space {
	defaultSpaceOnce.Do(func() {
		if defaultSpace.Load() == nil {
			defaultSpace.Store(NewSpace(nil))
		}
	})
	return defaultSpace.Load()
}

// SetDefault replaces the process-wide address space.
// This must be called before any tagged value is created.
func SetDefault(s *Space) {
	defaultSpace.Store(s)
}

// Alloc stores an owned value and returns its address.
func (s *Space) Alloc(value any) (Addr, error) {
	if s.closed.Load() {
		return 0, errors.Closed(errors.PhaseAlloc, "address space")
	}

	a, err := s.backend.Create(ModeOwned, value)
	if err != nil {
		return 0, err
	}
	s.allocs.Add(1)

	s.notify(Event{
		Type:  EventAllocated,
		Addr:  a,
		Mode:  ModeOwned,
		Value: value,
	})
	return a, nil
}

// register stores a borrowed value under key, reusing the existing address
// when key is already registered. fresh reports whether a new slot was made.
func (s *Space) register(key, value any) (a Addr, fresh bool, err error) {
	if s.closed.Load() {
		return 0, false, errors.Closed(errors.PhaseAlloc, "address space")
	}

	s.regMu.Lock()
	if a, ok := s.borrowed[key]; ok {
		s.regMu.Unlock()
		return a, false, nil
	}
	a, err = s.backend.Create(ModeBorrowed, value)
	if err != nil {
		s.regMu.Unlock()
		return 0, false, err
	}
	s.borrowed[key] = a
	s.regMu.Unlock()

	s.borrows.Add(1)
	s.notify(Event{
		Type:  EventBorrowed,
		Addr:  a,
		Mode:  ModeBorrowed,
		Value: value,
	})
	return a, true, nil
}

// reclaim releases a borrowed slot after its referent was collected.
func (s *Space) reclaim(a Addr) {
	s.regMu.Lock()
	value, err := s.backend.Drop(a, ModeBorrowed)
	if err == nil {
		if s.borrowed[value] == a {
			delete(s.borrowed, value)
		}
	}
	s.regMu.Unlock()

	if err != nil {
		// The space was closed or the slot is already gone.
		return
	}

	s.reclaims.Add(1)
	Logger().Debug("reclaimed borrowed slot", zap.Stringer("addr", a))
	s.notify(Event{
		Type:  EventReclaimed,
		Addr:  a,
		Mode:  ModeBorrowed,
		Value: value,
	})
}

// Get retrieves a value and its mode by address.
func (s *Space) Get(a Addr) (any, Mode, error) {
	return s.backend.Get(a)
}

// Free releases an owned slot and returns the value it held. The value's
// Drop method runs if it implements Dropper. Freeing an address whose slot
// was already released reports a double free.
func (s *Space) Free(a Addr) (any, error) {
	value, err := s.backend.Drop(a, ModeOwned)
	if err != nil {
		if e, ok := err.(*errors.Error); ok && e.Kind == errors.KindUseAfterFree {
			return nil, errors.DoubleFree(uint64(a))
		}
		return nil, err
	}
	s.frees.Add(1)

	if d, ok := value.(Dropper); ok {
		d.Drop()
	}

	s.notify(Event{
		Type:  EventFreed,
		Addr:  a,
		Mode:  ModeOwned,
		Value: value,
	})
	return value, nil
}

// Subscribe adds an observer for lifecycle events.
func (s *Space) Subscribe(o Observer) {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()
	s.observers = append(s.observers, o)
}

// Unsubscribe removes an observer.
func (s *Space) Unsubscribe(o Observer) {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()
	for i, obs := range s.observers {
		if obs == o {
			s.observers = append(s.observers[:i], s.observers[i+1:]...)
			return
		}
	}
}

// Len returns the number of live slots.
func (s *Space) Len() int {
	return s.backend.Len()
}

// Stats returns a snapshot of slot usage and lifetime counters.
func (s *Space) Stats() Stats {
	st := Stats{
		Allocs:   s.allocs.Load(),
		Frees:    s.frees.Load(),
		Borrows:  s.borrows.Load(),
		Reclaims: s.reclaims.Load(),
	}
	s.backend.Each(func(_ Addr, m Mode, _ any) bool {
		st.Live++
		if m == ModeOwned {
			st.Owned++
		} else {
			st.Borrowed++
		}
		return true
	})
	return st
}

// Close releases every slot and stops accepting allocations. Owned values
// still live at this point are leaks; they are logged and dropped.
func (s *Space) Close() error {
	if s.closed.Swap(true) {
		return nil
	}

	s.regMu.Lock()
	leaked := s.backend.Close()
	s.borrowed = make(map[any]Addr)
	s.regMu.Unlock()

	if len(leaked) > 0 {
		Logger().Warn("address space closed with live owned allocations",
			zap.Int("count", len(leaked)))
	}
	for _, v := range leaked {
		if d, ok := v.(Dropper); ok {
			d.Drop()
		}
	}
	return nil
}

func (s *Space) notify(e Event) {
	s.obsMu.RLock()
	defer s.obsMu.RUnlock()
	for _, o := range s.observers {
		o.OnResourceEvent(e)
	}
}

package resource

import (
	"fmt"
	"runtime"
	"weak"

	"github.com/wippyai/nantag/errors"
)

func typeName[T any]() string {
	return fmt.Sprintf("%T", (*T)(nil))
}

// Alloc stores p as an owned allocation in s.
func Alloc[T any](s *Space, p *T) (Addr, error) {
	if p == nil {
		return 0, errors.NilPointer(errors.PhaseAlloc, typeName[T]())
	}
	return s.Alloc(p)
}

// Borrow registers p in s without keeping it alive. Borrowing the same
// pointer again returns the same address while the referent lives. The slot
// is reclaimed after the referent is collected.
func Borrow[T any](s *Space, p *T) (Addr, error) {
	if p == nil {
		return 0, errors.NilPointer(errors.PhaseAlloc, typeName[T]())
	}

	wp := weak.Make(p)
	a, fresh, err := s.register(wp, wp)
	if err != nil {
		return 0, err
	}
	if fresh {
		runtime.AddCleanup(p, s.reclaim, a)
	}
	return a, nil
}

// Resolve returns the *T stored at a, owned or borrowed.
func Resolve[T any](s *Space, a Addr) (*T, error) {
	v, mode, err := s.Get(a)
	if err != nil {
		return nil, err
	}

	if mode == ModeOwned {
		p, ok := v.(*T)
		if !ok {
			return nil, errors.TypeMismatch(errors.PhaseResolve, uint64(a), typeName[T](), fmt.Sprintf("%T", v))
		}
		return p, nil
	}

	wp, ok := v.(weak.Pointer[T])
	if !ok {
		return nil, errors.TypeMismatch(errors.PhaseResolve, uint64(a), typeName[T](), fmt.Sprintf("%T", v))
	}
	p := wp.Value()
	if p == nil {
		return nil, errors.Dangling(uint64(a))
	}
	return p, nil
}

// ResolveOwned is Resolve restricted to owned slots.
func ResolveOwned[T any](s *Space, a Addr) (*T, error) {
	_, mode, err := s.Get(a)
	if err != nil {
		return nil, err
	}
	if mode != ModeOwned {
		return nil, errors.ModeMismatch(errors.PhaseResolve, uint64(a), ModeOwned.String(), mode.String())
	}
	return Resolve[T](s, a)
}

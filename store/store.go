package store

import (
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/wippyai/nantag"
	"github.com/wippyai/nantag/codec"
	"github.com/wippyai/nantag/errors"
	"github.com/wippyai/nantag/resource"
)

// WordSize is the size of one stored word in bytes.
const WordSize = 8

// Store is a fixed-length array of tagged words at base in mem.
type Store struct {
	mem  nantag.Memory
	base uint32
	n    int
}

// New returns a Store of n words starting at base. When mem reports its size,
// the whole array must fit.
func New(mem nantag.Memory, base uint32, n int) (*Store, error) {
	if mem == nil {
		return nil, errors.InvalidInput(errors.PhaseConfig, "nil memory")
	}
	if n < 0 {
		return nil, errors.InvalidInput(errors.PhaseConfig, fmt.Sprintf("negative length %d", n))
	}

	limit := uint64(1) << 32
	if sz, ok := mem.(nantag.MemorySizer); ok {
		limit = uint64(sz.Size())
	}
	// n*WordSize can wrap for large n.
	if uint64(base) > limit || uint64(n) > (limit-uint64(base))/WordSize {
		return nil, errors.New(errors.PhaseConfig, errors.KindOutOfBounds).
			Value(n).
			Detail("%d words at %d do not fit in %d bytes", n, base, limit).
			Build()
	}

	return &Store{mem: mem, base: base, n: n}, nil
}

func wordPath(i int) []string {
	return []string{"store", strconv.Itoa(i)}
}

// Len returns the number of words.
func (s *Store) Len() int {
	return s.n
}

func (s *Store) offset(phase errors.Phase, i int) (uint32, error) {
	if i < 0 || i >= s.n {
		return 0, errors.OutOfBounds(phase, wordPath(i), i, s.n)
	}
	return s.base + uint32(i)*WordSize, nil
}

func (s *Store) load(i int) (codec.Word, error) {
	off, err := s.offset(errors.PhaseLoad, i)
	if err != nil {
		return 0, err
	}
	v, err := s.mem.ReadU64(off)
	if err != nil {
		return 0, errors.New(errors.PhaseLoad, errors.KindOutOfBounds).
			Path(wordPath(i)...).
			Cause(err).
			Detail("read at offset %d", off).
			Build()
	}
	return codec.Word(v), nil
}

// Put writes w to slot i. Ownership of an owned word is not tracked here;
// use PutOwned for that.
func (s *Store) Put(i int, w codec.Word) error {
	off, err := s.offset(errors.PhaseStore, i)
	if err != nil {
		return err
	}
	if err := s.mem.WriteU64(off, uint64(w)); err != nil {
		return errors.New(errors.PhaseStore, errors.KindOutOfBounds).
			Path(wordPath(i)...).
			Value(w).
			Cause(err).
			Detail("write at offset %d", off).
			Build()
	}
	return nil
}

// Get reads slot i and validates the word.
func (s *Store) Get(i int) (codec.Word, error) {
	w, err := s.load(i)
	if err != nil {
		return 0, err
	}
	if err := codec.Validate(w); err != nil {
		return 0, err
	}
	return w, nil
}

// Each calls fn for every slot in order until fn returns false. Invalid
// words stop the walk with an error.
func (s *Store) Each(fn func(i int, w codec.Word) bool) error {
	for i := 0; i < s.n; i++ {
		w, err := s.Get(i)
		if err != nil {
			return err
		}
		if !fn(i, w) {
			return nil
		}
	}
	return nil
}

// ownsSlot reports whether w is a live owned allocation.
func ownsSlot(w codec.Word) bool {
	if !w.IsPointer() {
		return false
	}
	_, mode, err := resource.Default().Get(resource.Addr(w.Addr()))
	return err == nil && mode == resource.ModeOwned
}

// PutBorrowed writes a borrowed value to slot i.
func PutBorrowed[T any](s *Store, i int, b nantag.Borrowed[T]) error {
	return s.Put(i, b.Word())
}

// GetBorrowed reads slot i as a borrowed *T view.
func GetBorrowed[T any](s *Store, i int) (nantag.Borrowed[T], error) {
	w, err := s.Get(i)
	if err != nil {
		return nantag.Borrowed[T]{}, err
	}
	return nantag.BorrowedFromWord[T](w)
}

// PutOwned moves o into slot i, leaving o at the float +0. A slot that
// already holds a live owned word is not overwritten.
func PutOwned[T any](s *Store, i int, o *nantag.Owned[T]) error {
	cur, err := s.load(i)
	if err != nil {
		return err
	}
	if ownsSlot(cur) {
		return errors.Occupied(i, cur.Addr())
	}
	if err := s.Put(i, o.Word()); err != nil {
		return err
	}

	w := o.Detach()
	if w.IsPointer() {
		Logger().Debug("moved owned word into store",
			zap.Int("index", i),
			zap.Stringer("addr", resource.Addr(w.Addr())))
	}
	return nil
}

// TakeOwned moves the owned value out of slot i and clears the slot.
// The caller becomes responsible for freeing the result.
func TakeOwned[T any](s *Store, i int) (nantag.Owned[T], error) {
	w, err := s.Get(i)
	if err != nil {
		return nantag.Owned[T]{}, err
	}
	o, err := nantag.AttachOwned[T](w)
	if err != nil {
		return nantag.Owned[T]{}, err
	}
	if err := s.Put(i, 0); err != nil {
		o.Detach()
		return nantag.Owned[T]{}, err
	}
	if w.IsPointer() {
		Logger().Debug("took owned word from store",
			zap.Int("index", i),
			zap.Stringer("addr", resource.Addr(w.Addr())))
	}
	return o, nil
}

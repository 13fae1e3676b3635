package nantag

import (
	"github.com/wippyai/nantag/codec"
	"github.com/wippyai/nantag/resource"
)

// Borrowed is a tagged float or non-owning reference to a T.
//
// A Borrowed value is a single word. Copying it copies the word; dropping it
// has no effect. The zero value is the float +0.
type Borrowed[T any] struct {
	w codec.Word
}

// NewBorrowedFloat returns a float-mode value. NaN inputs are stored as the
// canonical NaN.
func NewBorrowedFloat[T any](v float64) Borrowed[T] {
	return Borrowed[T]{w: codec.EncodeFloat(v)}
}

// NewBorrowedPointer returns a pointer-mode value referring to r. r is not
// kept alive; it must outlive every extraction. A nil r panics.
func NewBorrowedPointer[T any](r *T) Borrowed[T] {
	a, err := resource.Borrow(resource.Default(), r)
	if err != nil {
		defect(err)
	}
	return Borrowed[T]{w: codec.EncodePointer(uint64(a))}
}

// BorrowedFromWord reconstructs a borrowed value from a raw word, typically
// one read back from a store. Pointer words must name a live *T.
func BorrowedFromWord[T any](w codec.Word) (Borrowed[T], error) {
	if err := codec.Validate(w); err != nil {
		return Borrowed[T]{}, err
	}
	if w.IsPointer() {
		if _, err := resource.Resolve[T](resource.Default(), addrOf(w)); err != nil {
			return Borrowed[T]{}, attachError[T](w, err, "word does not name a live reference")
		}
	}
	return Borrowed[T]{w: w}, nil
}

// Extract decodes the value.
func (b Borrowed[T]) Extract() Extracted[T] {
	return extract[T](b.w)
}

// IsPointer reports whether b is in pointer mode.
func (b Borrowed[T]) IsPointer() bool {
	return b.Extract().Kind == KindPointer
}

// AsFloat returns the float and true in float mode.
func (b Borrowed[T]) AsFloat() (float64, bool) {
	return b.Extract().AsFloat()
}

// AsRef returns the reference and true in pointer mode.
func (b Borrowed[T]) AsRef() (*T, bool) {
	return b.Extract().AsPointer()
}

// Equal reports whether b and o hold equal floats or equal referents.
// Referents are compared by value, not by identity.
func (b Borrowed[T]) Equal(o Borrowed[T]) bool {
	return equalWords(b.w, o.w, defaultEqual[T])
}

// EqualFunc is Equal with a caller-supplied referent comparison.
func (b Borrowed[T]) EqualFunc(o Borrowed[T], eq func(x, y *T) bool) bool {
	return equalWords(b.w, o.w, eq)
}

// Word returns the raw tagged word.
func (b Borrowed[T]) Word() codec.Word {
	return b.w
}

func (b Borrowed[T]) String() string {
	return formatWord(b.w)
}

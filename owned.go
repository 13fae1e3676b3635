package nantag

import (
	"github.com/wippyai/nantag/codec"
	"github.com/wippyai/nantag/errors"
	"github.com/wippyai/nantag/resource"
)

// Owned is a tagged float or owning reference to a T.
//
// In pointer mode an Owned value holds exactly one allocation, released by
// Free. Copying an Owned copies the word, not the allocation; only one copy
// may be freed. Use Clone for an independent copy. The zero value is the
// float +0 and needs no Free.
type Owned[T any] struct {
	w codec.Word
}

// NewOwnedFloat returns a float-mode owner. NaN inputs are stored as the
// canonical NaN.
func NewOwnedFloat[T any](v float64) Owned[T] {
	return Owned[T]{w: codec.EncodeFloat(v)}
}

// NewOwned moves value into a fresh allocation owned by the result.
func NewOwned[T any](value T) Owned[T] {
	p := new(T)
	*p = value
	return own(p)
}

func own[T any](p *T) Owned[T] {
	a, err := resource.Alloc(resource.Default(), p)
	if err != nil {
		defect(err)
	}
	return Owned[T]{w: codec.EncodePointer(uint64(a))}
}

// AttachOwned takes ownership of a word previously returned by Detach.
// Pointer words must name a live owned *T.
func AttachOwned[T any](w codec.Word) (Owned[T], error) {
	if err := codec.Validate(w); err != nil {
		return Owned[T]{}, err
	}
	if w.IsPointer() {
		if _, err := resource.ResolveOwned[T](resource.Default(), addrOf(w)); err != nil {
			return Owned[T]{}, attachError[T](w, err, "word does not name a live owned allocation")
		}
	}
	return Owned[T]{w: w}, nil
}

// Extract decodes the value. The returned pointer is valid until o is freed.
func (o Owned[T]) Extract() Extracted[T] {
	if o.w.Class() == codec.ClassFloat {
		return Extracted[T]{Kind: KindFloat, Float: o.w.Float()}
	}
	return Extracted[T]{Kind: KindPointer, Pointer: resolveOwned[T](o.w)}
}

// ExtractMut decodes the value for modification. The caller must hold o
// exclusively while using the pointer.
func (o *Owned[T]) ExtractMut() ExtractedMut[T] {
	if o.w.Class() == codec.ClassFloat {
		return ExtractedMut[T]{Kind: KindFloat, Float: o.w.Float()}
	}
	return ExtractedMut[T]{Kind: KindPointerMut, PointerMut: resolveOwned[T](o.w)}
}

// IsPointer reports whether o is in pointer mode.
func (o Owned[T]) IsPointer() bool {
	return o.Extract().Kind == KindPointer
}

// AsFloat returns the float and true in float mode.
func (o Owned[T]) AsFloat() (float64, bool) {
	return o.Extract().AsFloat()
}

// AsRef returns the reference and true in pointer mode.
func (o Owned[T]) AsRef() (*T, bool) {
	return o.Extract().AsPointer()
}

// AsMut returns the mutable reference and true in pointer mode.
func (o *Owned[T]) AsMut() (*T, bool) {
	return o.ExtractMut().AsPointerMut()
}

// Borrow returns a non-owning view of o. It is valid until o is freed.
func (o Owned[T]) Borrow() Borrowed[T] {
	return Borrowed[T]{w: o.w}
}

// Clone returns an independent copy. In pointer mode the referent is copied
// with Clone when *T implements Cloner, and by assignment otherwise.
func (o Owned[T]) Clone() Owned[T] {
	return o.CloneFunc(func(p *T) T {
		if c, ok := any(p).(Cloner[T]); ok {
			return c.Clone()
		}
		return *p
	})
}

// CloneFunc is Clone with a caller-supplied deep copy.
func (o Owned[T]) CloneFunc(copyFn func(*T) T) Owned[T] {
	if o.w.Class() == codec.ClassFloat {
		return o
	}
	src, err := resource.ResolveOwned[T](resource.Default(), addrOf(o.w))
	if err != nil {
		kind := errors.KindUseAfterFree
		if e, ok := err.(*errors.Error); ok {
			kind = e.Kind
		}
		defect(errors.New(errors.PhaseClone, kind).
			GoType(typeName[T]()).
			Value(uint64(o.w)).
			Cause(err).
			Detail("clone source is not a live owned allocation").
			Build())
	}
	return NewOwned(copyFn(src))
}

// Equal reports whether o and other hold equal floats or equal referents.
func (o Owned[T]) Equal(other Owned[T]) bool {
	return equalWords(o.w, other.w, defaultEqual[T])
}

// EqualFunc is Equal with a caller-supplied referent comparison.
func (o Owned[T]) EqualFunc(other Owned[T], eq func(x, y *T) bool) bool {
	return equalWords(o.w, other.w, eq)
}

// Free releases the allocation and resets o to the float +0. It is a no-op
// in float mode, so calling it twice on the same variable is safe. Freeing a
// copy whose allocation was already released panics with a double free.
func (o *Owned[T]) Free() {
	if o.w.Class() == codec.ClassFloat {
		return
	}
	a := addrOf(o.w)
	o.w = 0
	if _, err := resource.Default().Free(a); err != nil {
		defect(err)
	}
}

// Detach hands ownership out as a raw word and resets o to the float +0.
// The word must eventually come back through AttachOwned to be freed.
func (o *Owned[T]) Detach() codec.Word {
	w := o.w
	o.w = 0
	return w
}

// Word returns the raw tagged word without giving up ownership.
func (o Owned[T]) Word() codec.Word {
	return o.w
}

func (o Owned[T]) String() string {
	return formatWord(o.w)
}

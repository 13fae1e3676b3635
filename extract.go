package nantag

import (
	"fmt"
	"strconv"
)

// Kind says which variant an extraction produced.
type Kind uint8

const (
	KindFloat Kind = iota
	KindPointer
	KindPointerMut
)

func (k Kind) String() string {
	switch k {
	case KindFloat:
		return "float"
	case KindPointer:
		return "pointer"
	case KindPointerMut:
		return "pointer_mut"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Extracted is the decoded content of a tagged value: a float or a
// read-only reference. Kind is never KindPointerMut.
type Extracted[T any] struct {
	Pointer *T
	Float   float64
	Kind    Kind
}

// AsFloat returns the float and true in float mode.
func (e Extracted[T]) AsFloat() (float64, bool) {
	return e.Float, e.Kind == KindFloat
}

// AsPointer returns the reference and true in pointer mode.
func (e Extracted[T]) AsPointer() (*T, bool) {
	return e.Pointer, e.Kind == KindPointer
}

func (e Extracted[T]) String() string {
	if e.Kind == KindFloat {
		return "Float(" + strconv.FormatFloat(e.Float, 'g', -1, 64) + ")"
	}
	return fmt.Sprintf("Pointer(%p)", e.Pointer)
}

// ExtractedMut is the mutable counterpart of Extracted, produced by an owner.
// Kind is never KindPointer.
type ExtractedMut[T any] struct {
	PointerMut *T
	Float      float64
	Kind       Kind
}

// AsFloat returns the float and true in float mode.
func (e ExtractedMut[T]) AsFloat() (float64, bool) {
	return e.Float, e.Kind == KindFloat
}

// AsPointerMut returns the mutable reference and true in pointer mode.
func (e ExtractedMut[T]) AsPointerMut() (*T, bool) {
	return e.PointerMut, e.Kind == KindPointerMut
}

func (e ExtractedMut[T]) String() string {
	if e.Kind == KindFloat {
		return "Float(" + strconv.FormatFloat(e.Float, 'g', -1, 64) + ")"
	}
	return fmt.Sprintf("PointerMut(%p)", e.PointerMut)
}

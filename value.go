package nantag

import (
	"reflect"
	"strconv"

	"github.com/wippyai/nantag/codec"
	"github.com/wippyai/nantag/errors"
	"github.com/wippyai/nantag/resource"
)

func addrOf(w codec.Word) resource.Addr {
	return resource.Addr(w.Addr())
}

// resolve returns the referent behind a pointer-class word in the default
// space, panicking when the word no longer names a live *T.
func resolve[T any](w codec.Word) *T {
	p, err := resource.Resolve[T](resource.Default(), addrOf(w))
	if err != nil {
		defect(err)
	}
	return p
}

func resolveOwned[T any](w codec.Word) *T {
	p, err := resource.ResolveOwned[T](resource.Default(), addrOf(w))
	if err != nil {
		defect(err)
	}
	return p
}

func typeName[T any]() string {
	return reflect.TypeFor[*T]().String()
}

// attachError reports a word that passed validation but does not name a
// live allocation of the expected kind.
func attachError[T any](w codec.Word, cause error, detail string) error {
	return errors.New(errors.PhaseDecode, errors.KindInvalidWord).
		GoType(typeName[T]()).
		Value(uint64(w)).
		Cause(cause).
		Detail("%s", detail).
		Build()
}

func extract[T any](w codec.Word) Extracted[T] {
	if w.Class() == codec.ClassFloat {
		return Extracted[T]{Kind: KindFloat, Float: w.Float()}
	}
	return Extracted[T]{Kind: KindPointer, Pointer: resolve[T](w)}
}

// defaultEqual compares referents with Equal when *T provides it and
// structurally otherwise.
func defaultEqual[T any](x, y *T) bool {
	if e, ok := any(x).(Equaler[T]); ok {
		return e.Equal(y)
	}
	return reflect.DeepEqual(x, y)
}

// equalWords reports whether two words hold equal floats (IEEE ==, so NaN
// never equals NaN) or equal referents. Mixed classes are never equal.
func equalWords[T any](a, b codec.Word, eq func(x, y *T) bool) bool {
	ca, cb := a.Class(), b.Class()
	if ca != cb {
		return false
	}
	if ca == codec.ClassFloat {
		return a.Float() == b.Float()
	}
	return eq(resolve[T](a), resolve[T](b))
}

func formatWord(w codec.Word) string {
	if w.Class() == codec.ClassFloat {
		return "float:" + strconv.FormatFloat(w.Float(), 'g', -1, 64)
	}
	return "pointer:" + addrOf(w).String()
}

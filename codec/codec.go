package codec

import (
	"fmt"
	"math"

	"github.com/wippyai/nantag/errors"
)

const (
	// PointerMask is XORed into an address on encode and out of a word on decode.
	PointerMask uint64 = 0x7FF8_0000_0000_0000

	// CanonicalNaNBits is the only NaN pattern ever stored for a float.
	CanonicalNaNBits uint64 = 0x7FFC_0000_0000_0000

	// AddrBits is the width of the address domain.
	AddrBits = 48

	// MaxAddr is the largest address EncodePointer may be given.
	MaxAddr uint64 = 1<<AddrBits - 1
)

// Word is a NaN-tagged 64-bit storage cell.
type Word uint64

// Class is the decoded class of a Word.
type Class uint8

const (
	ClassFloat Class = iota
	ClassPointer
)

func (c Class) String() string {
	switch c {
	case ClassFloat:
		return "float"
	case ClassPointer:
		return "pointer"
	default:
		return fmt.Sprintf("class(%d)", uint8(c))
	}
}

// CanonicalNaN returns the float value of CanonicalNaNBits.
func CanonicalNaN() float64 {
	return math.Float64frombits(CanonicalNaNBits)
}

// EncodeFloat stores v, replacing any NaN with the canonical NaN.
func EncodeFloat(v float64) Word {
	if math.IsNaN(v) {
		return Word(CanonicalNaNBits)
	}
	return Word(math.Float64bits(v))
}

// EncodePointer masks addr into the pointer class.
// addr must be in [1, MaxAddr]; this is not checked.
func EncodePointer(addr uint64) Word {
	return Word(addr ^ PointerMask)
}

// Classify reports whether w holds a float or a pointer.
func Classify(w Word) Class {
	bits := uint64(w)
	if !math.IsNaN(math.Float64frombits(bits)) || bits == CanonicalNaNBits {
		return ClassFloat
	}
	return ClassPointer
}

// DecodeFloat reinterprets w as a float. Only meaningful for ClassFloat.
func DecodeFloat(w Word) float64 {
	return math.Float64frombits(uint64(w))
}

// DecodePointer removes the mask applied by EncodePointer.
func DecodePointer(w Word) uint64 {
	return uint64(w) ^ PointerMask
}

// CheckAddr reports whether addr lies in the address domain.
func CheckAddr(addr uint64) error {
	if addr == 0 || addr > MaxAddr {
		return errors.InvalidAddress(errors.PhaseEncode, addr)
	}
	return nil
}

// Validate reports whether w could have been produced by EncodeFloat or by
// EncodePointer with an address in the domain.
func Validate(w Word) error {
	if Classify(w) == ClassFloat {
		return nil
	}
	if err := CheckAddr(DecodePointer(w)); err != nil {
		e := errors.InvalidWord(errors.PhaseDecode, uint64(w), "NaN payload outside the address domain")
		e.Cause = err
		return e
	}
	return nil
}

func (w Word) Class() Class {
	return Classify(w)
}

func (w Word) IsPointer() bool {
	return Classify(w) == ClassPointer
}

func (w Word) Float() float64 {
	return DecodeFloat(w)
}

func (w Word) Addr() uint64 {
	return DecodePointer(w)
}

// String formats w as hex in 16-bit groups, e.g. 0x7ffc_0000_0000_0000.
func (w Word) String() string {
	v := uint64(w)
	return fmt.Sprintf("0x%04x_%04x_%04x_%04x", v>>48, (v>>32)&0xFFFF, (v>>16)&0xFFFF, v&0xFFFF)
}

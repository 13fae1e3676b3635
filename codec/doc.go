// Package codec implements the bit-level rules of NaN tagging.
//
// A Word is a 64-bit cell that holds exactly one of two classes:
//
//	Float    IEEE-754 bits of a finite or infinite value, or the canonical NaN
//	Pointer  an address XORed with PointerMask (a quiet NaN with non-canonical payload)
//
// Every NaN handed to EncodeFloat is rewritten to CanonicalNaNBits, so no caller
// NaN can alias a pointer word:
//
//	w := codec.EncodeFloat(math.NaN())   // 0x7ffc_0000_0000_0000
//	w.Class()                             // ClassFloat
//
//	p := codec.EncodePointer(0x1_0000_0001)
//	p.Class()                             // ClassPointer
//	codec.DecodePointer(p)                // 0x1_0000_0001
//
// # Address domain
//
// EncodePointer does not check its input. Callers must pass addresses in
// [1, MaxAddr]. For such addresses bit 50 of the encoded word is always clear,
// so the word can never equal CanonicalNaNBits and always classifies as a
// pointer. CheckAddr and Validate check words and addresses that come from
// outside the process (memory dumps, command-line input).
//
// # Classification
//
// Classify is the only classification algorithm. A cheaper mask-bit test
// agrees with it on every word the constructors can produce, but not on the
// full 64-bit domain (signalling and negative NaNs differ), so it is not used.
package codec

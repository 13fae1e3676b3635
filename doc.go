// Package nantag stores either a float64 or a reference in one 64-bit word.
//
// IEEE-754 leaves most NaN bit patterns unused. A tagged word that decodes to
// a genuine float (finite, infinite, or the one canonical NaN) is a float;
// every other NaN pattern carries a 48-bit address XORed with a fixed mask.
// No tag bits or wrapper storage are added.
//
//	nantag/              Tagged values: Borrowed, Owned, Extracted
//	├── codec/           Bit-level encoding and classification of words
//	├── resource/        Address space mapping addresses to Go references
//	├── store/           Arrays of tagged words in wazero linear memory
//	├── errors/          Structured error types
//	└── cmd/nanword/     CLI and TUI for encoding and inspecting words
//
// # Borrowed values
//
// A Borrowed value observes a reference without keeping it alive:
//
//	a := 42
//	b := nantag.NewBorrowedPointer(&a)
//	p, _ := b.AsRef() // p == &a
//
//	f := nantag.NewBorrowedFloat[int](3.14)
//	v, _ := f.AsFloat() // 3.14
//
// The referent's lifetime is the caller's business. Extracting a pointer whose
// referent was collected is a defect and panics.
//
// # Owned values
//
// An Owned value holds at most one allocation, and only in pointer mode:
//
//	o := nantag.NewOwned("hello")
//	defer o.Free()
//
//	s, _ := o.AsMut()
//	*s += " world"
//
// Free releases the allocation exactly once. Values whose pointer type
// implements resource.Dropper are dropped when freed. Clone gives an
// independent deep copy.
//
// # Addresses
//
// Go's collector cannot trace a reference hidden inside a float, so the
// pointer payload is never a machine address. It is an address in the
// process-wide resource.Space, which holds the Go reference: strongly for
// owned values, weakly for borrowed ones. See package resource.
//
// # Errors
//
// Operations on values built by this package's constructors do not return
// errors. Defects such as a double free or a dangling borrow panic with an
// *errors.Error. Words arriving from outside are checked by
// BorrowedFromWord, AttachOwned and codec.Validate, which return errors.
package nantag

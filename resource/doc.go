// Package resource provides the address space behind NaN-tagged pointers.
//
// Go's collector cannot see a reference hidden in the payload of a NaN, so a
// tagged word never carries a raw machine address. It carries an Addr: a
// 48-bit slot address in a Space, and the Space holds the Go reference.
//
// # Addresses
//
// An Addr packs a slot index and a 16-bit generation:
//
//	bits 0-31   slot index + 1 (never zero)
//	bits 32-47  generation, bumped each time the slot is released
//
// Every valid Addr is non-zero and below 2^48, which is what the codec
// requires of pointer payloads. A released slot's old addresses stop
// resolving; freeing one of them again is reported as a double free.
// Generations wrap after 65536 releases of the same slot.
//
// # Owned and borrowed slots
//
//	space := resource.NewSpace(nil)
//
//	// Owned: the space keeps the value alive until Free.
//	a, _ := resource.Alloc(space, &payload)
//	p, _ := resource.Resolve[Payload](space, a)
//	space.Free(a)
//
//	// Borrowed: the space only observes the value.
//	b, _ := resource.Borrow(space, &local)
//	p, _ := resource.Resolve[int](space, b)
//
// Borrowed slots hold a weak.Pointer. When the referent is collected, a
// runtime cleanup reclaims the slot; resolving it in the meantime reports a
// dangling reference.
//
// # Observers
//
// Register observers to track lifecycle events:
//
//	space.Subscribe(observer)
//	// EventAllocated, EventFreed, EventBorrowed, EventReclaimed
//
// Owned values implementing Dropper have Drop called exactly once, when they
// are freed or when the space is closed with them still live.
//
// # Default space
//
// Tagged values are a single word and cannot name their space, so they all
// live in Default(). Replace it with SetDefault before creating any value.
package resource

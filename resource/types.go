package resource

import "fmt"

// Addr is an address in a Space: generation<<32 | (slot index + 1).
// Addr 0 is reserved and always invalid. Every valid Addr fits in 48 bits.
type Addr uint64

const (
	slotMask = 1<<32 - 1
	genShift = 32
)

func makeAddr(index uint32, gen uint16) Addr {
	return Addr(uint64(gen)<<genShift | (uint64(index) + 1))
}

// Slot returns the slot index the address refers to.
func (a Addr) Slot() uint32 {
	return uint32(uint64(a)&slotMask) - 1
}

// Generation returns the slot generation the address was minted with.
func (a Addr) Generation() uint16 {
	return uint16(uint64(a) >> genShift)
}

// Valid reports whether a is non-zero and fits the 48-bit address domain.
func (a Addr) Valid() bool {
	return uint64(a)&slotMask != 0 && uint64(a)>>48 == 0
}

func (a Addr) String() string {
	return fmt.Sprintf("%d@%d", a.Slot(), a.Generation())
}

// Mode says whether a slot owns its value or only observes it.
type Mode uint8

const (
	ModeOwned Mode = iota
	ModeBorrowed
)

func (m Mode) String() string {
	switch m {
	case ModeOwned:
		return "owned"
	case ModeBorrowed:
		return "borrowed"
	default:
		return fmt.Sprintf("mode(%d)", uint8(m))
	}
}

// Event types for address space lifecycle notifications.
type EventType uint8

const (
	EventAllocated EventType = iota
	EventFreed
	EventBorrowed
	EventReclaimed
)

// Event represents an address space lifecycle event.
type Event struct {
	Value any
	Addr  Addr
	Mode  Mode
	Type  EventType
}

// Observer receives notifications about address space lifecycle events.
type Observer interface {
	OnResourceEvent(Event)
}

// Dropper is optionally implemented by owned values that need cleanup when
// their allocation is freed.
type Dropper interface {
	Drop()
}

// Stats is a snapshot of a Space.
type Stats struct {
	Live     int
	Owned    int
	Borrowed int
	Allocs   uint64
	Frees    uint64
	Borrows  uint64
	Reclaims uint64
}

// Config holds configuration for Space creation
type Config struct {
	// InitialCapacity preallocates slot storage. 0 means 64.
	InitialCapacity int

	// MaxSlots caps the number of simultaneously live slots.
	// 0 means the full 32-bit slot range, less one.
	MaxSlots uint32
}

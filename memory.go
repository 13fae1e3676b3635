package nantag

// Memory is a byte-addressed linear memory holding little-endian words.
type Memory interface {
	ReadU64(offset uint32) (uint64, error)
	WriteU64(offset uint32, value uint64) error
}

// MemorySizer provides the current size of a linear memory in bytes.
type MemorySizer interface {
	Size() uint32
}

// Equaler is implemented by referent types with their own notion of equality.
type Equaler[T any] interface {
	Equal(other *T) bool
}

// Cloner is implemented by referent types that need a deep copy.
type Cloner[T any] interface {
	Clone() T
}

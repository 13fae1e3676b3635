package nantag

// Tagged is the read surface shared by Borrowed and Owned.
type Tagged[T any] interface {
	Extract() Extracted[T]
	IsPointer() bool
	AsFloat() (float64, bool)
	AsRef() (*T, bool)
}

// TaggedMut is a Tagged value that also grants mutable access. *Owned
// implements it.
type TaggedMut[T any] interface {
	Tagged[T]
	ExtractMut() ExtractedMut[T]
	AsMut() (*T, bool)
}

var (
	_ Tagged[int]    = Borrowed[int]{}
	_ Tagged[int]    = Owned[int]{}
	_ TaggedMut[int] = (*Owned[int])(nil)
)

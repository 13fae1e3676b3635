package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseEncode  Phase = "encode"  // value to word
	PhaseDecode  Phase = "decode"  // word to value
	PhaseAlloc   Phase = "alloc"   // address space allocation
	PhaseFree    Phase = "free"    // owned value release
	PhaseClone   Phase = "clone"   // owned value deep copy
	PhaseResolve Phase = "resolve" // address to Go reference
	PhaseLoad    Phase = "load"    // word read from memory
	PhaseStore   Phase = "store"   // word written to memory
	PhaseConfig  Phase = "config"  // configuration
)

// Kind categorizes the error
type Kind string

const (
	KindInvalidWord    Kind = "invalid_word"
	KindInvalidAddress Kind = "invalid_address"
	KindOutOfBounds    Kind = "out_of_bounds"
	KindNilPointer     Kind = "nil_pointer"
	KindTypeMismatch   Kind = "type_mismatch"
	KindModeMismatch   Kind = "mode_mismatch"
	KindDoubleFree     Kind = "double_free"
	KindUseAfterFree   Kind = "use_after_free"
	KindDangling       Kind = "dangling"
	KindExhausted      Kind = "exhausted"
	KindClosed         Kind = "closed"
	KindOccupied       Kind = "occupied"
	KindInvalidInput   Kind = "invalid_input"
	KindAllocation     Kind = "allocation"
)

// Error is the structured error type used throughout nantag
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	GoType string
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.GoType != "" {
		b.WriteString(": Go type ")
		b.WriteString(e.GoType)
	}

	if e.Detail != "" {
		if e.GoType != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// InvalidWord creates an error for a word outside both tagged classes
func InvalidWord(phase Phase, word uint64, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidWord,
		Detail: fmt.Sprintf("word %#016x: %s", word, detail),
		Value:  word,
	}
}

// InvalidAddress creates an error for an address outside the address domain
func InvalidAddress(phase Phase, addr uint64) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidAddress,
		Detail: fmt.Sprintf("address %#x outside the 48-bit address domain", addr),
		Value:  addr,
	}
}

// TypeMismatch creates a type mismatch error
func TypeMismatch(phase Phase, addr uint64, want, got string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTypeMismatch,
		GoType: want,
		Detail: fmt.Sprintf("address %#x holds %s", addr, got),
		Value:  addr,
	}
}

// ModeMismatch creates an error for an owned/borrowed confusion
func ModeMismatch(phase Phase, addr uint64, want, got string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindModeMismatch,
		Detail: fmt.Sprintf("address %#x is %s, want %s", addr, got, want),
		Value:  addr,
	}
}

// DoubleFree creates an error for releasing an allocation that is already gone
func DoubleFree(addr uint64) *Error {
	return &Error{
		Phase:  PhaseFree,
		Kind:   KindDoubleFree,
		Detail: fmt.Sprintf("address %#x already freed", addr),
		Value:  addr,
	}
}

// UseAfterFree creates an error for resolving an address whose slot was released
func UseAfterFree(phase Phase, addr uint64) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUseAfterFree,
		Detail: fmt.Sprintf("address %#x no longer allocated", addr),
		Value:  addr,
	}
}

// Dangling creates an error for a borrowed address whose referent was collected
func Dangling(addr uint64) *Error {
	return &Error{
		Phase:  PhaseResolve,
		Kind:   KindDangling,
		Detail: fmt.Sprintf("referent of address %#x was collected", addr),
		Value:  addr,
	}
}

// OutOfBounds creates an out of bounds error
func OutOfBounds(phase Phase, path []string, index, length int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Path:   path,
		Detail: fmt.Sprintf("index %d out of bounds (length %d)", index, length),
		Value:  index,
	}
}

// NilPointer creates a nil pointer error
func NilPointer(phase Phase, goType string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNilPointer,
		GoType: goType,
		Detail: "nil pointer",
	}
}

// Exhausted creates an error for a full address space
func Exhausted(limit uint32) *Error {
	return &Error{
		Phase:  PhaseAlloc,
		Kind:   KindExhausted,
		Detail: fmt.Sprintf("address space limit of %d slots reached", limit),
		Value:  limit,
	}
}

// Closed creates an error for operations on a closed component
func Closed(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindClosed,
		Detail: fmt.Sprintf("%s closed", what),
	}
}

// Occupied creates an error for overwriting a slot that still owns an allocation
func Occupied(index int, addr uint64) *Error {
	return &Error{
		Phase:  PhaseStore,
		Kind:   KindOccupied,
		Detail: fmt.Sprintf("slot %d owns address %#x", index, addr),
		Value:  index,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// AllocationFailed creates an allocation failure error
func AllocationFailed(phase Phase, what string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindAllocation,
		Detail: fmt.Sprintf("allocate %s", what),
		Cause:  cause,
	}
}

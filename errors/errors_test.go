package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:  PhaseResolve,
				Kind:   KindTypeMismatch,
				Path:   []string{"stack", "3"},
				GoType: "*string",
				Detail: "address holds *int",
			},
			contains: []string{"[resolve]", "type_mismatch", "stack.3", "*string", "address holds *int"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseLoad,
				Kind:  KindOutOfBounds,
			},
			contains: []string{"[load]", "out_of_bounds"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseAlloc,
				Kind:   KindAllocation,
				Detail: "linear memory",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[alloc]", "allocation", "linear memory", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseStore,
		Kind:  KindInvalidWord,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}

	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase: PhaseFree,
		Kind:  KindDoubleFree,
		Value: uint64(0x1_0000_0001),
	}

	if !err.Is(&Error{Phase: PhaseFree, Kind: KindDoubleFree}) {
		t.Error("Is should match same phase and kind")
	}

	if err.Is(&Error{Phase: PhaseResolve, Kind: KindDoubleFree}) {
		t.Error("Is should not match different phase")
	}

	if err.Is(&Error{Phase: PhaseFree, Kind: KindUseAfterFree}) {
		t.Error("Is should not match different kind")
	}

	target := &Error{Phase: PhaseFree, Kind: KindDoubleFree}
	if !errors.Is(err, target) {
		t.Error("errors.Is should match")
	}

	var asErr *Error
	if !errors.As(error(err), &asErr) || asErr.Kind != KindDoubleFree {
		t.Error("errors.As should extract *Error")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseResolve, KindTypeMismatch).
		Path("stack", "0").
		GoType("*string").
		Value(42).
		Cause(cause).
		Detail("expected %s, got %s", "*string", "*int").
		Build()

	if err.Phase != PhaseResolve {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseResolve)
	}
	if err.Kind != KindTypeMismatch {
		t.Errorf("Kind = %v, want %v", err.Kind, KindTypeMismatch)
	}
	if len(err.Path) != 2 || err.Path[0] != "stack" || err.Path[1] != "0" {
		t.Errorf("Path = %v, want [stack 0]", err.Path)
	}
	if err.GoType != "*string" {
		t.Errorf("GoType = %v, want '*string'", err.GoType)
	}
	if err.Value != 42 {
		t.Errorf("Value = %v, want 42", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "expected *string, got *int" {
		t.Errorf("Detail = %v, want 'expected *string, got *int'", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	tests := []struct {
		name   string
		err    *Error
		phase  Phase
		kind   Kind
		detail string
	}{
		{"InvalidWord", InvalidWord(PhaseLoad, 0x7ff0_0000_0000_0001, "not a tagged word"), PhaseLoad, KindInvalidWord, "0x7ff0000000000001"},
		{"InvalidAddress", InvalidAddress(PhaseEncode, 0), PhaseEncode, KindInvalidAddress, "48-bit"},
		{"TypeMismatch", TypeMismatch(PhaseResolve, 7, "*string", "*int"), PhaseResolve, KindTypeMismatch, "*int"},
		{"ModeMismatch", ModeMismatch(PhaseFree, 7, "owned", "borrowed"), PhaseFree, KindModeMismatch, "borrowed"},
		{"DoubleFree", DoubleFree(0x1_0000_0002), PhaseFree, KindDoubleFree, "already freed"},
		{"UseAfterFree", UseAfterFree(PhaseResolve, 3), PhaseResolve, KindUseAfterFree, "no longer allocated"},
		{"Dangling", Dangling(3), PhaseResolve, KindDangling, "collected"},
		{"OutOfBounds", OutOfBounds(PhaseLoad, nil, 10, 5), PhaseLoad, KindOutOfBounds, "index 10"},
		{"NilPointer", NilPointer(PhaseEncode, "*int"), PhaseEncode, KindNilPointer, "nil pointer"},
		{"Exhausted", Exhausted(16), PhaseAlloc, KindExhausted, "16 slots"},
		{"Closed", Closed(PhaseAlloc, "address space"), PhaseAlloc, KindClosed, "address space closed"},
		{"Occupied", Occupied(2, 9), PhaseStore, KindOccupied, "slot 2"},
		{"InvalidInput", InvalidInput(PhaseConfig, "pages must be positive"), PhaseConfig, KindInvalidInput, "pages"},
		{"AllocationFailed", AllocationFailed(PhaseAlloc, "linear memory", errors.New("boom")), PhaseAlloc, KindAllocation, "linear memory"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Phase != tt.phase {
				t.Errorf("Phase = %v, want %v", tt.err.Phase, tt.phase)
			}
			if tt.err.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", tt.err.Kind, tt.kind)
			}
			if !strings.Contains(tt.err.Error(), tt.detail) {
				t.Errorf("Error() = %q, should contain %q", tt.err.Error(), tt.detail)
			}
		})
	}
}


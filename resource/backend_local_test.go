package resource

import (
	"errors"
	"sync"
	"testing"

	nterrors "github.com/wippyai/nantag/errors"
)

func isKind(err error, kind nterrors.Kind) bool {
	var e *nterrors.Error
	return errors.As(err, &e) && e.Kind == kind
}

func TestLocalBackend_Basic(t *testing.T) {
	b := NewLocalBackend(nil)

	a, err := b.Create(ModeOwned, "test value")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if !a.Valid() {
		t.Fatalf("Expected valid address, got %#x", uint64(a))
	}

	val, mode, err := b.Get(a)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if val != "test value" || mode != ModeOwned {
		t.Fatalf("Expected ('test value', owned), got (%v, %v)", val, mode)
	}

	val, err = b.Drop(a, ModeOwned)
	if err != nil {
		t.Fatalf("Drop failed: %v", err)
	}
	if val != "test value" {
		t.Fatalf("Expected 'test value', got %v", val)
	}

	if _, _, err := b.Get(a); !isKind(err, nterrors.KindUseAfterFree) {
		t.Fatalf("Expected use_after_free after Drop, got %v", err)
	}
}

func TestLocalBackend_GenerationBump(t *testing.T) {
	b := NewLocalBackend(nil)

	a1, _ := b.Create(ModeOwned, 1)
	if _, err := b.Drop(a1, ModeOwned); err != nil {
		t.Fatalf("Drop failed: %v", err)
	}

	a2, _ := b.Create(ModeOwned, 2)
	if a2.Slot() != a1.Slot() {
		t.Fatalf("Expected slot reuse, got %d and %d", a1.Slot(), a2.Slot())
	}
	if a2.Generation() != a1.Generation()+1 {
		t.Fatalf("Expected generation %d, got %d", a1.Generation()+1, a2.Generation())
	}

	// The stale address must not reach the new value.
	if _, _, err := b.Get(a1); !isKind(err, nterrors.KindUseAfterFree) {
		t.Fatalf("Stale address resolved: %v", err)
	}
	if _, err := b.Drop(a1, ModeOwned); !isKind(err, nterrors.KindUseAfterFree) {
		t.Fatalf("Stale Drop should fail, got %v", err)
	}
	if v, _, err := b.Get(a2); err != nil || v != 2 {
		t.Fatalf("Get(a2) = %v, %v", v, err)
	}
}

func TestLocalBackend_ModeMismatch(t *testing.T) {
	b := NewLocalBackend(nil)

	a, _ := b.Create(ModeBorrowed, "observed")
	if _, err := b.Drop(a, ModeOwned); !isKind(err, nterrors.KindModeMismatch) {
		t.Fatalf("Expected mode_mismatch, got %v", err)
	}
	if b.Len() != 1 {
		t.Fatal("Failed Drop must leave the slot live")
	}
}

func TestLocalBackend_MaxSlots(t *testing.T) {
	b := NewLocalBackend(&Config{MaxSlots: 2})

	a1, _ := b.Create(ModeOwned, 1)
	if _, err := b.Create(ModeOwned, 2); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := b.Create(ModeOwned, 3); !isKind(err, nterrors.KindExhausted) {
		t.Fatalf("Expected exhausted, got %v", err)
	}

	// A released slot makes room again.
	b.Drop(a1, ModeOwned)
	if _, err := b.Create(ModeOwned, 3); err != nil {
		t.Fatalf("Create after Drop failed: %v", err)
	}
}

func TestLocalBackend_Close(t *testing.T) {
	b := NewLocalBackend(nil)

	b.Create(ModeOwned, "leaked")
	b.Create(ModeBorrowed, "observed")

	leaked := b.Close()
	if len(leaked) != 1 || leaked[0] != "leaked" {
		t.Fatalf("Expected one leaked owned value, got %v", leaked)
	}

	if _, err := b.Create(ModeOwned, "test"); !isKind(err, nterrors.KindClosed) {
		t.Fatalf("Expected closed after Close, got %v", err)
	}
	if b.Close() != nil {
		t.Fatal("Second Close should report nothing")
	}
}

func TestLocalBackend_Concurrent(t *testing.T) {
	b := NewLocalBackend(nil)
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			a, err := b.Create(ModeOwned, id)
			if err != nil {
				t.Errorf("Create failed: %v", err)
				return
			}
			if v, _, err := b.Get(a); err != nil || v != id {
				t.Errorf("Get = %v, %v; want %d", v, err, id)
			}
			if _, err := b.Drop(a, ModeOwned); err != nil {
				t.Errorf("Drop failed: %v", err)
			}
		}(i)
	}

	wg.Wait()
	if b.Len() != 0 {
		t.Fatalf("Expected Len() == 0, got %d", b.Len())
	}
}

func TestLocalBackend_Len(t *testing.T) {
	b := NewLocalBackend(nil)

	if b.Len() != 0 {
		t.Fatal("Expected Len() == 0 initially")
	}

	a1, _ := b.Create(ModeOwned, "a")
	a2, _ := b.Create(ModeOwned, "b")
	b.Create(ModeBorrowed, "c")

	if b.Len() != 3 {
		t.Fatalf("Expected Len() == 3, got %d", b.Len())
	}

	b.Drop(a1, ModeOwned)
	if b.Len() != 2 {
		t.Fatalf("Expected Len() == 2, got %d", b.Len())
	}

	b.Drop(a2, ModeOwned)
	if b.Len() != 1 {
		t.Fatalf("Expected Len() == 1, got %d", b.Len())
	}
}

func TestLocalBackend_Each(t *testing.T) {
	b := NewLocalBackend(nil)

	b.Create(ModeOwned, "a")
	b.Create(ModeBorrowed, "b")
	b.Create(ModeOwned, "c")

	count := 0
	b.Each(func(a Addr, m Mode, value any) bool {
		count++
		return true
	})
	if count != 3 {
		t.Fatalf("Expected to iterate over 3 items, got %d", count)
	}

	count = 0
	b.Each(func(a Addr, m Mode, value any) bool {
		count++
		return false
	})
	if count != 1 {
		t.Fatalf("Expected to iterate over 1 item (early term), got %d", count)
	}
}

func TestLocalBackend_InvalidAddr(t *testing.T) {
	b := NewLocalBackend(nil)

	if _, _, err := b.Get(0); !isKind(err, nterrors.KindInvalidAddress) {
		t.Fatalf("Addr 0 should be invalid, got %v", err)
	}
	if _, err := b.Drop(0, ModeOwned); !isKind(err, nterrors.KindInvalidAddress) {
		t.Fatalf("Addr 0 should fail Drop, got %v", err)
	}
	if _, _, err := b.Get(makeAddr(999, 0)); !isKind(err, nterrors.KindInvalidAddress) {
		t.Fatalf("Non-existent slot should be invalid, got %v", err)
	}
	if _, _, err := b.Get(Addr(1 << 50)); !isKind(err, nterrors.KindInvalidAddress) {
		t.Fatalf("Address above 48 bits should be invalid, got %v", err)
	}
}

func TestAddr_Layout(t *testing.T) {
	a := makeAddr(5, 3)
	if a.Slot() != 5 || a.Generation() != 3 {
		t.Fatalf("Slot/Generation = %d/%d, want 5/3", a.Slot(), a.Generation())
	}
	if uint64(a) != 3<<32|6 {
		t.Fatalf("Addr = %#x, want %#x", uint64(a), uint64(3<<32|6))
	}
	if a.String() != "5@3" {
		t.Fatalf("String() = %q", a.String())
	}

	top := makeAddr(slotMask-1, 0xFFFF)
	if !top.Valid() || uint64(top) > 1<<48-1 {
		t.Fatalf("Largest address %#x leaves the 48-bit domain", uint64(top))
	}
}

package bitset

import "testing"

func TestAllocFreeRoundTrip(t *testing.T) {
	s := New(8)
	var got []int
	for i := 0; i < 8; i++ {
		got = append(got, s.Alloc())
	}
	for i, slot := range got {
		if slot != i {
			t.Fatalf("slot %d: got %d, want %d", i, slot, i)
		}
	}
	if s.Alloc() != -1 {
		t.Fatalf("expected -1 once full")
	}

	if err := s.Free(3); err != nil {
		t.Fatal(err)
	}
	if slot := s.Alloc(); slot != 3 {
		t.Fatalf("reused slot = %d, want 3", slot)
	}
}

func TestIsSetOutOfRange(t *testing.T) {
	s := New(4)
	if _, err := s.IsSet(4); err == nil {
		t.Fatal("expected out-of-range error")
	}
	if _, err := s.IsSet(-1); err == nil {
		t.Fatal("expected out-of-range error")
	}
}

func TestCount(t *testing.T) {
	s := New(10)
	s.Alloc()
	s.Alloc()
	s.Alloc()
	if s.Count() != 3 {
		t.Fatalf("Count() = %d, want 3", s.Count())
	}
	s.Free(1)
	if s.Count() != 2 {
		t.Fatalf("Count() after free = %d, want 2", s.Count())
	}
}

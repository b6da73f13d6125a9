package direntry

import "testing"

func newPayload(t *testing.T, records int) []byte {
	t.Helper()
	buf := make([]byte, records*RecordSize)
	if err := encodeRecord(Record{InodeAddr: Sentinel}, buf[0:RecordSize]); err != nil {
		t.Fatal(err)
	}
	return buf
}

func TestAddSearchRoundTrip(t *testing.T) {
	payload := newPayload(t, 4)
	if !IsEmpty(payload) {
		t.Fatal("expected fresh payload to be empty")
	}
	if err := Add(payload, "foo", 100); err != nil {
		t.Fatal(err)
	}
	if err := Add(payload, "bar", 200); err != nil {
		t.Fatal(err)
	}
	if addr, ok := Search(payload, "foo"); !ok || addr != 100 {
		t.Fatalf("Search(foo) = %d,%v want 100,true", addr, ok)
	}
	if addr, ok := Search(payload, "bar"); !ok || addr != 200 {
		t.Fatalf("Search(bar) = %d,%v want 200,true", addr, ok)
	}
	if _, ok := Search(payload, "missing"); ok {
		t.Fatal("expected NAME_NOT_FOUND equivalent for missing name")
	}
}

func TestAddDuplicateRejected(t *testing.T) {
	payload := newPayload(t, 4)
	if err := Add(payload, "foo", 1); err != nil {
		t.Fatal(err)
	}
	if err := Add(payload, "foo", 2); err != ErrExists {
		t.Fatalf("Add duplicate = %v, want ErrExists", err)
	}
}

func TestAddFullRejected(t *testing.T) {
	payload := newPayload(t, 1)
	if err := Add(payload, "foo", 1); err != ErrFull {
		t.Fatalf("Add into full payload = %v, want ErrFull", err)
	}
}

func TestDeleteInodeSwapsLast(t *testing.T) {
	payload := newPayload(t, 4)
	if err := Add(payload, "a", 1); err != nil {
		t.Fatal(err)
	}
	if err := Add(payload, "b", 2); err != nil {
		t.Fatal(err)
	}
	if err := Add(payload, "c", 3); err != nil {
		t.Fatal(err)
	}

	if err := DeleteInode(payload, 1); err != nil {
		t.Fatal(err)
	}

	if _, ok := Search(payload, "a"); ok {
		t.Fatal("deleted name still found")
	}
	if IsEmpty(payload) {
		t.Fatal("expected two remaining records")
	}
	list := List(payload)
	if len(list) != 2 {
		t.Fatalf("List() len = %d, want 2", len(list))
	}
}

func TestDeleteInodeNotFound(t *testing.T) {
	payload := newPayload(t, 4)
	if err := Add(payload, "a", 1); err != nil {
		t.Fatal(err)
	}
	if err := DeleteInode(payload, 99); err != ErrNotFound {
		t.Fatalf("DeleteInode missing = %v, want ErrNotFound", err)
	}
}

func TestIsEmptyAfterDeletingAll(t *testing.T) {
	payload := newPayload(t, 4)
	if err := Add(payload, "a", 1); err != nil {
		t.Fatal(err)
	}
	if err := DeleteInode(payload, 1); err != nil {
		t.Fatal(err)
	}
	if !IsEmpty(payload) {
		t.Fatal("expected directory to be empty after deleting only entry")
	}
}

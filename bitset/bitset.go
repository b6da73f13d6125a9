// Package bitset provides a small fixed-size bit allocator, adapted from
// the teacher's util/bitmap package. The VFS layer uses one instance to
// track which of the MountMax mount-table slots are occupied (spec §4.8)
// and another to track which of the FDMax file-descriptor-table slots are
// open (spec §4.9) — both are exactly the "find a free slot, mark it used,
// later give it back" problem the teacher already solved for FAT cluster
// bitmaps.
package bitset

import "fmt"

// Set is a fixed-size bitmap of nBits, used here as a slot allocator rather
// than a raw on-disk bitmap, so it exposes Alloc/Free in addition to the
// teacher's Set/Clear/IsSet primitives.
type Set struct {
	bits []byte
	n    int
}

// New creates a Set able to address n slots, all initially free.
func New(n int) *Set {
	if n < 0 {
		n = 0
	}
	return &Set{
		bits: make([]byte, (n+7)/8),
		n:    n,
	}
}

func findBitForIndex(index int) (byteNumber int, bitNumber uint8) {
	return index / 8, uint8(index % 8)
}

// IsSet reports whether slot is occupied.
func (s *Set) IsSet(slot int) (bool, error) {
	if slot < 0 || slot >= s.n {
		return false, fmt.Errorf("bitset: slot %d out of range [0,%d)", slot, s.n)
	}
	byteNumber, bitNumber := findBitForIndex(slot)
	mask := byte(0x1) << bitNumber
	return s.bits[byteNumber]&mask == mask, nil
}

// Set marks slot occupied.
func (s *Set) Set(slot int) error {
	if slot < 0 || slot >= s.n {
		return fmt.Errorf("bitset: slot %d out of range [0,%d)", slot, s.n)
	}
	byteNumber, bitNumber := findBitForIndex(slot)
	s.bits[byteNumber] |= byte(0x1) << bitNumber
	return nil
}

// Clear marks slot free.
func (s *Set) Clear(slot int) error {
	if slot < 0 || slot >= s.n {
		return fmt.Errorf("bitset: slot %d out of range [0,%d)", slot, s.n)
	}
	byteNumber, bitNumber := findBitForIndex(slot)
	s.bits[byteNumber] &^= byte(0x1) << bitNumber
	return nil
}

// FirstFree returns the lowest-numbered free slot, or -1 if the set is
// full. Mount and FD allocation both want the lowest free slot so that
// reused numbers stay low and predictable, matching allocinset/the
// original's linear scan in vfs.c.
func (s *Set) FirstFree() int {
	for i := 0; i < s.n; i++ {
		byteNumber, bitNumber := findBitForIndex(i)
		mask := byte(0x1) << bitNumber
		if s.bits[byteNumber]&mask == 0 {
			return i
		}
	}
	return -1
}

// Alloc finds the first free slot, marks it occupied, and returns it. It
// returns -1 if no slot is free.
func (s *Set) Alloc() int {
	slot := s.FirstFree()
	if slot == -1 {
		return -1
	}
	_ = s.Set(slot)
	return slot
}

// Free marks slot free again. Freeing an already-free slot is a no-op.
func (s *Set) Free(slot int) error {
	return s.Clear(slot)
}

// Len returns the number of addressable slots.
func (s *Set) Len() int {
	return s.n
}

// Count returns the number of currently occupied slots.
func (s *Set) Count() int {
	count := 0
	for i := 0; i < s.n; i++ {
		if ok, _ := s.IsSet(i); ok {
			count++
		}
	}
	return count
}

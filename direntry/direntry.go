// Package direntry implements the fixed-size directory record format a
// directory inode's payload is made of (spec §3 "Directory"): a flat array
// of 32-byte records, each an inode address plus a 28-byte name, terminated
// by a sentinel record whose inode address is 0xFFFFFFFF. It mirrors the
// fat32 package's directoryEntry: a fixed-size on-disk record with its own
// byte codec, manipulated as a slice held entirely in memory by the caller.
package direntry

import (
	"bytes"
	"fmt"
)

// RecordSize is the on-device size of one directory record in bytes.
const RecordSize = 32

// NameSize is the number of bytes available for a NUL-terminated name
// within a record.
const NameSize = 28

// Sentinel is the inode address that marks the end of a directory's active
// region.
const Sentinel uint32 = 0xFFFFFFFF

// Record is one decoded directory entry.
type Record struct {
	InodeAddr uint32
	Name      string
}

// IsSentinel reports whether r marks the end of the active region.
func (r Record) IsSentinel() bool {
	return r.InodeAddr == Sentinel
}

func decodeRecord(b []byte) Record {
	addr := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
	nameBytes := b[4:RecordSize]
	if i := bytes.IndexByte(nameBytes, 0); i >= 0 {
		nameBytes = nameBytes[:i]
	}
	return Record{InodeAddr: addr, Name: string(nameBytes)}
}

func encodeRecord(r Record, out []byte) error {
	if len(r.Name) > NameSize-1 && !r.IsSentinel() {
		return fmt.Errorf("direntry: name %q exceeds %d bytes", r.Name, NameSize-1)
	}
	out[0] = byte(r.InodeAddr)
	out[1] = byte(r.InodeAddr >> 8)
	out[2] = byte(r.InodeAddr >> 16)
	out[3] = byte(r.InodeAddr >> 24)
	for i := 4; i < RecordSize; i++ {
		out[i] = 0
	}
	copy(out[4:RecordSize], r.Name)
	return nil
}

// NewSentinelPayload returns a one-record payload consisting solely of the
// sentinel, the initial content of a freshly created directory inode.
func NewSentinelPayload() []byte {
	buf := make([]byte, RecordSize)
	_ = encodeRecord(Record{InodeAddr: Sentinel}, buf)
	return buf
}

// recordAt decodes the record at index i (0-based) within payload.
func recordAt(payload []byte, i int) (Record, error) {
	off := i * RecordSize
	if off+RecordSize > len(payload) {
		return Record{}, fmt.Errorf("direntry: record %d out of bounds (payload %d bytes)", i, len(payload))
	}
	return decodeRecord(payload[off : off+RecordSize]), nil
}

// Count returns the number of record slots payload has room for.
func Count(payload []byte) int {
	return len(payload) / RecordSize
}

// Search scans payload in order for a record named name, stopping at the
// sentinel. It returns the matching inode address, or ok=false if none was
// found (corresponds to NAME_NOT_FOUND at the call site).
func Search(payload []byte, name string) (addr uint32, ok bool) {
	n := Count(payload)
	for i := 0; i < n; i++ {
		rec, err := recordAt(payload, i)
		if err != nil {
			return 0, false
		}
		if rec.IsSentinel() {
			return 0, false
		}
		if rec.Name == name {
			return rec.InodeAddr, true
		}
	}
	return 0, false
}

// IsEmpty holds iff the first record in payload is the sentinel.
func IsEmpty(payload []byte) bool {
	rec, err := recordAt(payload, 0)
	if err != nil {
		return true
	}
	return rec.IsSentinel()
}

// Add finds the sentinel position, writes a new record there, and writes a
// new sentinel one slot further. It reports ErrExists if name is already
// present, and ErrFull if payload has no slot left for both the new record
// and a following sentinel.
func Add(payload []byte, name string, childAddr uint32) error {
	if _, ok := Search(payload, name); ok {
		return ErrExists
	}
	n := Count(payload)
	for i := 0; i < n; i++ {
		rec, err := recordAt(payload, i)
		if err != nil {
			return err
		}
		if !rec.IsSentinel() {
			continue
		}
		if i+1 >= n {
			return ErrFull
		}
		off := i * RecordSize
		if err := encodeRecord(Record{InodeAddr: childAddr, Name: name}, payload[off:off+RecordSize]); err != nil {
			return err
		}
		nextOff := (i + 1) * RecordSize
		return encodeRecord(Record{InodeAddr: Sentinel}, payload[nextOff:nextOff+RecordSize])
	}
	return ErrFull
}

// DeleteInode removes the record addressed by childAddr: it finds the
// record, swaps the last real record (the one immediately before the
// sentinel) into its slot, and moves the sentinel back one slot. This
// reorders the directory — callers must not depend on record order
// surviving a deletion (spec §4.7 boundary note).
func DeleteInode(payload []byte, childAddr uint32) error {
	n := Count(payload)
	target := -1
	last := -1
	for i := 0; i < n; i++ {
		rec, err := recordAt(payload, i)
		if err != nil {
			return err
		}
		if rec.IsSentinel() {
			last = i - 1
			break
		}
		if rec.InodeAddr == childAddr {
			target = i
		}
	}
	if target == -1 {
		return ErrNotFound
	}
	if last == -1 {
		last = n - 1
	}

	if target != last {
		lastRec, err := recordAt(payload, last)
		if err != nil {
			return err
		}
		off := target * RecordSize
		if err := encodeRecord(lastRec, payload[off:off+RecordSize]); err != nil {
			return err
		}
	}
	sentinelOff := last * RecordSize
	return encodeRecord(Record{InodeAddr: Sentinel}, payload[sentinelOff:sentinelOff+RecordSize])
}

// List returns every non-sentinel record in payload, in on-disk order.
func List(payload []byte) []Record {
	n := Count(payload)
	var out []Record
	for i := 0; i < n; i++ {
		rec, err := recordAt(payload, i)
		if err != nil {
			break
		}
		if rec.IsSentinel() {
			break
		}
		out = append(out, rec)
	}
	return out
}

// Package backend defines the block device contract that the SFS storage
// engine consumes. The device is the only thing SFS depends on for I/O; any
// concrete transport (an in-memory buffer, a NOR-flash chip behind a serial
// bus, a plain file) can satisfy it.
package backend

import "errors"

var (
	// ErrNotSuitable is returned when an operation is asked of a backend
	// that cannot support it (e.g. an undersized buffer passed to a
	// geometry-bound write).
	ErrNotSuitable = errors.New("backend: operation not suitable for this device")
	// ErrOutOfRange is returned when addr/n falls outside the device.
	ErrOutOfRange = errors.New("backend: address out of range")
)

// Device is the block device abstraction SFS is built on (spec §4.1/§6.1).
// All operations are synchronous and blocking; a concrete implementation
// hides whatever transport (SPI, UART, a file) it uses behind this.
//
// The contract does not itself fail on bit errors: a transient flip shows up
// as a checksum mismatch one layer up, never as an error return here.
type Device interface {
	// Read reads exactly n bytes starting at device byte offset addr.
	Read(addr uint32, data []byte, n int) error
	// Write programs n bytes at addr. The caller guarantees the target
	// range was erased since its last write.
	Write(addr uint32, data []byte, n int) error
	// EraseSector erases the one sector containing addr, leaving every
	// byte in it at the erased state.
	EraseSector(addr uint32) error
	// EraseAll erases the entire device.
	EraseAll() error
	// WriteSector writes up to one sector's worth of data without
	// erasing first; used right after EraseSector.
	WriteSector(addr uint32, data []byte, n int) error

	// WriteSize is the maximum number of bytes a single Write call may
	// program, at most 256.
	WriteSize() int
	// SectorSize is the erase granularity, at most 4096.
	SectorSize() int
	// TotalSize is the device capacity in bytes.
	TotalSize() int64

	// Name is a display name for diagnostics (dump commands, logging).
	Name() string
}

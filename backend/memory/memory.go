// Package memory implements backend.Device over a plain in-memory buffer.
//
// It is the default device for tests and for local experimentation without
// a real NOR-flash chip attached, in the same spirit as the teacher's
// backend/file.New wrapping an fs.File: a thin adapter so the storage engine
// never has to know what it is actually talking to.
package memory

import (
	"fmt"

	"github.com/nor-sfs/norfs/backend"
)

// erasedByte is the value every byte settles to after an erase. Real NOR
// flash erases to all-ones; the checksum and retry discipline never depends
// on the specific value (spec §4.1), so this is purely cosmetic realism.
const erasedByte = 0xFF

// Device is a RAM-backed backend.Device.
type Device struct {
	name       string
	data       []byte
	writeSize  int
	sectorSize int
}

var _ backend.Device = (*Device)(nil)

// New creates a new in-memory device of totalSize bytes, already erased.
func New(name string, totalSize int64, sectorSize, writeSize int) (*Device, error) {
	if sectorSize <= 0 || totalSize <= 0 || writeSize <= 0 {
		return nil, fmt.Errorf("memory: invalid geometry: sector=%d write=%d total=%d", sectorSize, writeSize, totalSize)
	}
	if totalSize%int64(sectorSize) != 0 {
		return nil, fmt.Errorf("memory: total size %d is not a multiple of sector size %d", totalSize, sectorSize)
	}
	d := &Device{
		name:       name,
		data:       make([]byte, totalSize),
		writeSize:  writeSize,
		sectorSize: sectorSize,
	}
	for i := range d.data {
		d.data[i] = erasedByte
	}
	return d, nil
}

func (d *Device) bounds(addr uint32, n int) error {
	if n < 0 || int64(addr)+int64(n) > int64(len(d.data)) {
		return backend.ErrOutOfRange
	}
	return nil
}

// Read reads n bytes starting at addr.
func (d *Device) Read(addr uint32, data []byte, n int) error {
	if err := d.bounds(addr, n); err != nil {
		return err
	}
	if len(data) < n {
		return backend.ErrNotSuitable
	}
	copy(data[:n], d.data[addr:int(addr)+n])
	return nil
}

// Write programs n bytes at addr without erasing.
func (d *Device) Write(addr uint32, data []byte, n int) error {
	if err := d.bounds(addr, n); err != nil {
		return err
	}
	if n > d.writeSize {
		return backend.ErrNotSuitable
	}
	copy(d.data[addr:int(addr)+n], data[:n])
	return nil
}

// WriteSector writes up to one sector's worth of data without erasing.
func (d *Device) WriteSector(addr uint32, data []byte, n int) error {
	if err := d.bounds(addr, n); err != nil {
		return err
	}
	if n > d.sectorSize {
		return backend.ErrNotSuitable
	}
	copy(d.data[addr:int(addr)+n], data[:n])
	return nil
}

// EraseSector erases the sector containing addr.
func (d *Device) EraseSector(addr uint32) error {
	sectorStart := (int(addr) / d.sectorSize) * d.sectorSize
	if err := d.bounds(uint32(sectorStart), d.sectorSize); err != nil {
		return err
	}
	for i := sectorStart; i < sectorStart+d.sectorSize; i++ {
		d.data[i] = erasedByte
	}
	return nil
}

// EraseAll erases the whole device.
func (d *Device) EraseAll() error {
	for i := range d.data {
		d.data[i] = erasedByte
	}
	return nil
}

func (d *Device) WriteSize() int   { return d.writeSize }
func (d *Device) SectorSize() int  { return d.sectorSize }
func (d *Device) TotalSize() int64 { return int64(len(d.data)) }
func (d *Device) Name() string     { return d.name }

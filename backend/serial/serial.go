// Package serial implements backend.Device over a framed command protocol
// to a NOR-flash chip reachable through a serial transport (SPI bridged over
// UART, a USB-serial adapter, or any io.ReadWriter).
//
// The framing mirrors the JEDEC-style command set the original firmware
// speaks to a Winbond W25Qxx chip (_examples/original_source/w25.c):
// 0x9F (JEDEC ID), 0x06/0x04 (write enable/disable), 0x05 (read status,
// polled for the busy bit), 0x03 (read), 0x02 (page program), 0x20 (sector
// erase), 0xC7 (chip erase). Gpio chip-select and SPI clocking themselves
// are out of this module's scope (spec §1 Non-goals): the transport below
// is any io.ReadWriter that already frames whole command+address+data
// exchanges, e.g. a line discipline on the other end of a UART bridge.
package serial

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/nor-sfs/norfs/backend"
)

const (
	cmdJedecID      = 0x9F
	cmdWriteEnable  = 0x06
	cmdWriteDisable = 0x04
	cmdReadStatus   = 0x05
	cmdRead         = 0x03
	cmdPageProgram  = 0x02
	cmdSectorErase  = 0x20
	cmdChipErase    = 0xC7

	statusBusyBit = 0x01
)

// Transport is the minimal duplex channel a Device needs: write a command
// frame, read back a response frame. A *os.File opened on a tty, a net.Conn,
// or any other io.ReadWriter satisfies it.
type Transport interface {
	io.Reader
	io.Writer
}

// Device is a backend.Device that speaks the NOR-flash command protocol
// over a Transport.
type Device struct {
	tr         Transport
	name       string
	writeSize  int
	sectorSize int
	totalSize  int64
	pollDelay  time.Duration
}

var _ backend.Device = (*Device)(nil)

// Option configures a Device at construction time.
type Option func(*Device)

// WithPollDelay overrides the delay between status-register polls while
// waiting for a program/erase cycle to finish. Defaults to 1ms.
func WithPollDelay(d time.Duration) Option {
	return func(dev *Device) { dev.pollDelay = d }
}

// Open wraps tr as a NOR-flash backend.Device with the given geometry.
// If tr is backed by a real terminal device (a block- or char-special
// *os.File), the line is first switched into raw mode via termios ioctls so
// the command framing below isn't mangled by line-discipline processing —
// the same role golang.org/x/sys/unix ioctls play in the teacher's
// disk_unix.go when it queries BLKSSZGET/BLKGETSIZE64 directly instead of
// trusting a higher-level API.
func Open(tr Transport, name string, sectorSize, writeSize int, totalSize int64, opts ...Option) (*Device, error) {
	if sectorSize <= 0 || sectorSize > 4096 {
		return nil, fmt.Errorf("serial: sector size %d out of range", sectorSize)
	}
	if writeSize <= 0 || writeSize > 256 {
		return nil, fmt.Errorf("serial: write size %d out of range", writeSize)
	}
	if f, ok := tr.(*os.File); ok {
		if err := setRawMode(f); err != nil {
			return nil, fmt.Errorf("serial: putting transport in raw mode: %w", err)
		}
	}
	dev := &Device{
		tr:         tr,
		name:       name,
		writeSize:  writeSize,
		sectorSize: sectorSize,
		totalSize:  totalSize,
		pollDelay:  time.Millisecond,
	}
	for _, opt := range opts {
		opt(dev)
	}
	return dev, nil
}

func addrBytes(addr uint32) [3]byte {
	return [3]byte{byte(addr >> 16), byte(addr >> 8), byte(addr)}
}

func (d *Device) send(frame []byte) error {
	_, err := d.tr.Write(frame)
	return err
}

func (d *Device) recv(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(d.tr, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// ID issues the JEDEC ID command, mirroring w25_getid; useful for a REPL
// "probe" command but not required by the storage engine itself.
func (d *Device) ID() (uint32, error) {
	if err := d.send([]byte{cmdJedecID}); err != nil {
		return 0, err
	}
	b, err := d.recv(3)
	if err != nil {
		return 0, err
	}
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2]), nil
}

func (d *Device) writeEnable() error {
	return d.send([]byte{cmdWriteEnable})
}

func (d *Device) waitIdle() error {
	for {
		if err := d.send([]byte{cmdReadStatus}); err != nil {
			return err
		}
		status, err := d.recv(1)
		if err != nil {
			return err
		}
		if status[0]&statusBusyBit == 0 {
			return nil
		}
		time.Sleep(d.pollDelay)
	}
}

// Read reads n bytes starting at addr via the 0x03 READ command.
func (d *Device) Read(addr uint32, data []byte, n int) error {
	ab := addrBytes(addr)
	if err := d.send([]byte{cmdRead, ab[0], ab[1], ab[2]}); err != nil {
		return err
	}
	b, err := d.recv(n)
	if err != nil {
		return err
	}
	copy(data[:n], b)
	return nil
}

// Write programs up to writeSize() bytes at addr via PAGE PROGRAM.
func (d *Device) Write(addr uint32, data []byte, n int) error {
	if n > d.writeSize {
		return backend.ErrNotSuitable
	}
	if err := d.writeEnable(); err != nil {
		return err
	}
	ab := addrBytes(addr)
	frame := make([]byte, 0, 4+n)
	frame = append(frame, cmdPageProgram, ab[0], ab[1], ab[2])
	frame = append(frame, data[:n]...)
	if err := d.send(frame); err != nil {
		return err
	}
	return d.waitIdle()
}

// WriteSector programs up to one sector's worth of data in writeSize()
// chunks, without erasing first.
func (d *Device) WriteSector(addr uint32, data []byte, n int) error {
	for i := 0; i < n; i += d.writeSize {
		chunk := d.writeSize
		if i+chunk > n {
			chunk = n - i
		}
		if err := d.Write(addr+uint32(i), data[i:i+chunk], chunk); err != nil {
			return err
		}
	}
	return nil
}

// EraseSector erases the sector containing addr via SECTOR ERASE (0x20).
func (d *Device) EraseSector(addr uint32) error {
	if err := d.writeEnable(); err != nil {
		return err
	}
	sectorAddr := (addr / uint32(d.sectorSize)) * uint32(d.sectorSize)
	ab := addrBytes(sectorAddr)
	if err := d.send([]byte{cmdSectorErase, ab[0], ab[1], ab[2]}); err != nil {
		return err
	}
	return d.waitIdle()
}

// EraseAll erases the whole chip via CHIP ERASE (0xC7).
func (d *Device) EraseAll() error {
	if err := d.writeEnable(); err != nil {
		return err
	}
	if err := d.send([]byte{cmdChipErase}); err != nil {
		return err
	}
	return d.waitIdle()
}

func (d *Device) WriteSize() int   { return d.writeSize }
func (d *Device) SectorSize() int  { return d.sectorSize }
func (d *Device) TotalSize() int64 { return d.totalSize }
func (d *Device) Name() string     { return d.name }
